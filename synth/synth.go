// cups-sub001 - a capability engine for PPD printer description files
// Copyright (C) 2026  The cups-sub001 developers
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package synth fabricates the text of a printer description file from
// the capability attributes a network printer reports about itself, the
// reverse of the parsing direction: no vendor-authored file is involved.
// The generated text re-enters the normal parsing path unchanged.
package synth

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/OpenPrinting/cups-sub001/internal/atomicfile"
	"github.com/OpenPrinting/cups-sub001/ipp"
	"github.com/OpenPrinting/cups-sub001/pwg"
)

// ErrNoUsableTransport is returned when none of the known document
// formats is advertised.
var ErrNoUsableTransport = errors.New("synth: no usable document format advertised")

// ErrNoUsableSizes is returned when no page size can be derived from any
// of the media attribute sources.
var ErrNoUsableSizes = errors.New("synth: no usable page size information")

// Options configures generation.  The zero value generates an English
// file with identifier-fallback display strings.
type Options struct {
	Locale    language.Tag
	Localizer Localizer
}

// FromAttributes generates the complete description text for a printer
// reporting the given capability attributes.
func FromAttributes(attrs *ipp.Attributes, opt *Options) ([]byte, error) {
	if opt == nil {
		opt = &Options{}
	}
	g := &generator{attrs: attrs, opt: opt}
	if err := g.run(); err != nil {
		return nil, err
	}
	return g.buf.Bytes(), nil
}

// CreateFile generates the description text and writes it atomically: on
// any failure, including a generation error, no file is observable at
// fileName.
func CreateFile(fileName string, attrs *ipp.Attributes, opt *Options) error {
	data, err := FromAttributes(attrs, opt)
	if err != nil {
		return err
	}
	f, err := atomicfile.Create(fileName)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}

type generator struct {
	buf   bytes.Buffer
	attrs *ipp.Attributes
	opt   *Options
}

func (g *generator) run() error {
	make, model := g.makeModel()

	formats, err := g.transports()
	if err != nil {
		return err
	}

	sizes, custom, err := g.collectSizes()
	if err != nil {
		return err
	}

	g.header(make, model, formats)
	g.pageSizes(sizes, custom)
	g.inputSlots()
	g.mediaTypes()
	g.outputBins()
	g.colorModel()
	g.duplex()
	g.quality()
	g.presets()

	return nil
}

// ---------------------------------------------------------------------
// make and model

// manufacturerRewrites normalizes long-form vendor names to their common
// short forms.  Checked before the default first-word split.
var manufacturerRewrites = []struct{ prefix, name string }{
	{"Hewlett Packard", "HP"},
	{"Hewlett-Packard", "HP"},
	{"HP Inc.", "HP"},
	{"Lexmark International", "Lexmark"},
	{"Canon Inc.", "Canon"},
	{"Fuji Xerox", "Fuji Xerox"},
	{"Konica Minolta", "Konica Minolta"},
}

// makeModel derives sanitized manufacturer and model strings from the
// reported make-and-model.
func (g *generator) makeModel() (string, string) {
	s := sanitize(g.attrs.Find("printer-make-and-model").StringAt(0))
	if s == "" {
		s = "Unknown Printer"
	}

	for _, rw := range manufacturerRewrites {
		if strings.HasPrefix(s, rw.prefix) {
			model := strings.TrimSpace(s[len(rw.prefix):])
			if model == "" {
				model = s
			}
			return rw.name, model
		}
	}
	if make, model, ok := strings.Cut(s, " "); ok {
		return make, model
	}
	return s, s
}

// sanitize reduces text to the printable ASCII subset that is safe inside
// quoted header values.
func sanitize(s string) string {
	var buf strings.Builder
	space := false
	for _, c := range s {
		if c < ' ' || c > '~' || c == '"' {
			continue
		}
		if c == ' ' {
			space = buf.Len() > 0
			continue
		}
		if space {
			buf.WriteByte(' ')
			space = false
		}
		buf.WriteRune(c)
	}
	return buf.String()
}

// ---------------------------------------------------------------------
// transports

// transports selects the document formats the generated file declares,
// in precedence order.  PDF is listed first so that a PDF-capable
// printer is driven peer-to-peer instead of through a shared raster
// queue, avoiding double processing.
func (g *generator) transports() ([]string, error) {
	supported := g.attrs.Find("document-format-supported")

	var formats []string
	if supported.HasString("application/pdf") {
		formats = append(formats, "application/pdf")
	}
	if supported.HasString("image/urf") && g.attrs.Find("urf-supported") != nil {
		formats = append(formats, "image/urf")
	}
	if supported.HasString("image/pwg-raster") {
		formats = append(formats, "image/pwg-raster")
	}
	if len(formats) == 0 {
		return nil, ErrNoUsableTransport
	}
	return formats, nil
}

// ---------------------------------------------------------------------
// page sizes

type mediaEntry struct {
	name   string // choice name in the generated file
	pwg    string // self-describing keyword
	width  int    // hundredths of millimeters
	length int
	left   int
	bottom int
	right  int
	top    int
}

func (e *mediaEntry) borderless() bool {
	return e.left == 0 && e.bottom == 0 && e.right == 0 && e.top == 0
}

type customRange struct {
	minWidth, minLength int
	maxWidth, maxLength int
}

// collectSizes aggregates the advertised page sizes from the three media
// attribute sources in precedence order, deduplicated by dimensions and
// margins, with custom ranges tracked separately.
func (g *generator) collectSizes() ([]mediaEntry, *customRange, error) {
	left, bottom, right, top := g.defaultMargins()

	var (
		sizes  []mediaEntry
		custom *customRange
		seen   = make(map[string]bool)
	)
	add := func(width, length, l, b, r, t int) {
		if width <= 0 || length <= 0 {
			return
		}
		e := mediaEntry{width: width, length: length, left: l, bottom: b, right: r, top: t}
		if m := pwg.MediaForSize(width, length); m != nil {
			e.pwg = m.Name
			e.name = m.PPDName
		} else {
			e.pwg = pwg.MediaSizeName("", width, length)
			e.name = e.pwg
		}
		if e.borderless() {
			e.name += ".Borderless"
		}
		if seen[e.name] {
			return
		}
		seen[e.name] = true
		sizes = append(sizes, e)
	}

	if db := g.attrs.Find("media-col-database"); db.Count() > 0 {
		for i := 0; i < db.Count(); i++ {
			col := db.CollectionAt(i)
			if col == nil {
				continue
			}
			size := col.Find("media-size").CollectionAt(0)
			if size == nil {
				continue
			}
			w, wOK := dimension(size.Find("x-dimension"))
			l, lOK := dimension(size.Find("y-dimension"))
			if !wOK || !lOK {
				if r := rangeDimensions(size); r != nil {
					custom = r
				}
				continue
			}
			ml, mb, mr, mt := left, bottom, right, top
			if a := col.Find("media-left-margin"); a.Count() > 0 {
				ml = a.IntAt(0)
			}
			if a := col.Find("media-bottom-margin"); a.Count() > 0 {
				mb = a.IntAt(0)
			}
			if a := col.Find("media-right-margin"); a.Count() > 0 {
				mr = a.IntAt(0)
			}
			if a := col.Find("media-top-margin"); a.Count() > 0 {
				mt = a.IntAt(0)
			}
			add(w, l, ml, mb, mr, mt)
		}
	}

	if len(sizes) == 0 {
		if ss := g.attrs.Find("media-size-supported"); ss.Count() > 0 {
			for i := 0; i < ss.Count(); i++ {
				size := ss.CollectionAt(i)
				if size == nil {
					continue
				}
				w, wOK := dimension(size.Find("x-dimension"))
				l, lOK := dimension(size.Find("y-dimension"))
				if !wOK || !lOK {
					if r := rangeDimensions(size); r != nil {
						custom = r
					}
					continue
				}
				add(w, l, left, bottom, right, top)
			}
		}
	}

	if len(sizes) == 0 {
		ms := g.attrs.Find("media-supported")
		for i := 0; i < ms.Count(); i++ {
			m := pwg.MediaForName(ms.StringAt(i))
			if m == nil {
				continue
			}
			add(m.Width, m.Length, left, bottom, right, top)
		}
	}

	if len(sizes) == 0 {
		return nil, nil, ErrNoUsableSizes
	}
	return sizes, custom, nil
}

// dimension reads a fixed x/y-dimension value; range values report false
// so the caller can treat them as a custom range instead.
func dimension(a *ipp.Attribute) (int, bool) {
	if a.Count() == 0 {
		return 0, false
	}
	if _, upper, ok := a.RangeAt(0); ok {
		if lower, _, _ := a.RangeAt(0); lower != upper {
			return 0, false
		}
	}
	n := a.IntAt(0)
	return n, n > 0
}

func rangeDimensions(size *ipp.Attributes) *customRange {
	wl, wu, wOK := size.Find("x-dimension").RangeAt(0)
	ll, lu, lOK := size.Find("y-dimension").RangeAt(0)
	if !wOK || !lOK || wl >= wu || ll >= lu {
		return nil
	}
	return &customRange{minWidth: wl, minLength: ll, maxWidth: wu, maxLength: lu}
}

// defaultMargins picks the smallest advertised nonzero hardware margins,
// falling back to a conservative quarter inch.
func (g *generator) defaultMargins() (left, bottom, right, top int) {
	pick := func(name string) int {
		a := g.attrs.Find(name)
		best := -1
		for i := 0; i < a.Count(); i++ {
			v := a.IntAt(i)
			if v > 0 && (best < 0 || v < best) {
				best = v
			}
		}
		if best < 0 {
			return 635 // 1/4 in
		}
		return best
	}
	return pick("media-left-margin-supported"),
		pick("media-bottom-margin-supported"),
		pick("media-right-margin-supported"),
		pick("media-top-margin-supported")
}

// ---------------------------------------------------------------------
// output

func (g *generator) header(make, model string, formats []string) {
	nick := make + " " + model
	w := &g.buf

	fmt.Fprintf(w, "*PPD-Adobe: \"4.3\"\n")
	fmt.Fprintf(w, "*FormatVersion: \"4.3\"\n")
	fmt.Fprintf(w, "*FileVersion: \"1.0\"\n")
	fmt.Fprintf(w, "*LanguageVersion: %s\n", languageVersion(g.opt.Locale))
	fmt.Fprintf(w, "*LanguageEncoding: ISOLatin1\n")
	fmt.Fprintf(w, "*PSVersion: \"(3010.000) 0\"\n")
	fmt.Fprintf(w, "*LanguageLevel: \"3\"\n")
	fmt.Fprintf(w, "*FileSystem: False\n")
	fmt.Fprintf(w, "*PCFileName: \"everywhere.ppd\"\n")
	fmt.Fprintf(w, "*Manufacturer: \"%s\"\n", make)
	fmt.Fprintf(w, "*ModelName: \"%s\"\n", nick)
	fmt.Fprintf(w, "*Product: \"(%s)\"\n", model)
	fmt.Fprintf(w, "*NickName: \"%s\"\n", nick)
	fmt.Fprintf(w, "*ShortNickName: \"%s\"\n", model)

	color := g.attrs.Find("color-supported")
	if color.Count() > 0 && color.Values[0].Kind == ipp.KindBoolean && color.Values[0].Boolean {
		fmt.Fprintf(w, "*ColorDevice: True\n")
		fmt.Fprintf(w, "*DefaultColorSpace: RGB\n")
	} else {
		fmt.Fprintf(w, "*ColorDevice: False\n")
		fmt.Fprintf(w, "*DefaultColorSpace: Gray\n")
	}

	for _, format := range formats {
		switch format {
		case "application/pdf":
			fmt.Fprintf(w, "*cupsFilter2: \"application/vnd.cups-pdf application/pdf 10 -\"\n")
		case "image/urf":
			fmt.Fprintf(w, "*cupsFilter2: \"image/urf image/urf 100 -\"\n")
		case "image/pwg-raster":
			fmt.Fprintf(w, "*cupsFilter2: \"image/pwg-raster image/pwg-raster 100 -\"\n")
		}
	}
}

func (g *generator) pageSizes(sizes []mediaEntry, custom *customRange) {
	w := &g.buf

	def := g.defaultSizeName(sizes)

	fmt.Fprintf(w, "*OpenUI *PageSize/%s: PickOne\n", g.localize("media"))
	fmt.Fprintf(w, "*OrderDependency: 10 AnySetup *PageSize\n")
	fmt.Fprintf(w, "*DefaultPageSize: %s\n", def)
	for _, s := range sizes {
		fmt.Fprintf(w, "*PageSize %s/%s: \"<</PageSize[%s %s]>>setpagedevice\"\n",
			s.name, g.localize(s.pwg), points(s.width), points(s.length))
	}
	fmt.Fprintf(w, "*CloseUI: *PageSize\n")

	fmt.Fprintf(w, "*OpenUI *PageRegion/%s: PickOne\n", g.localize("media"))
	fmt.Fprintf(w, "*OrderDependency: 10 AnySetup *PageRegion\n")
	fmt.Fprintf(w, "*DefaultPageRegion: %s\n", def)
	for _, s := range sizes {
		fmt.Fprintf(w, "*PageRegion %s/%s: \"<</PageSize[%s %s]>>setpagedevice\"\n",
			s.name, g.localize(s.pwg), points(s.width), points(s.length))
	}
	fmt.Fprintf(w, "*CloseUI: *PageRegion\n")

	fmt.Fprintf(w, "*DefaultImageableArea: %s\n", def)
	fmt.Fprintf(w, "*DefaultPaperDimension: %s\n", def)
	for _, s := range sizes {
		fmt.Fprintf(w, "*ImageableArea %s: \"%s %s %s %s\"\n", s.name,
			points(s.left), points(s.bottom),
			points(s.width-s.right), points(s.length-s.top))
		fmt.Fprintf(w, "*PaperDimension %s: \"%s %s\"\n", s.name,
			points(s.width), points(s.length))
	}

	if custom != nil {
		left, bottom, right, top := g.defaultMargins()
		fmt.Fprintf(w, "*MaxMediaWidth: \"%s\"\n", points(custom.maxWidth))
		fmt.Fprintf(w, "*MaxMediaHeight: \"%s\"\n", points(custom.maxLength))
		fmt.Fprintf(w, "*ParamCustomPageSize Width: 1 points %s %s\n",
			points(custom.minWidth), points(custom.maxWidth))
		fmt.Fprintf(w, "*ParamCustomPageSize Height: 2 points %s %s\n",
			points(custom.minLength), points(custom.maxLength))
		fmt.Fprintf(w, "*ParamCustomPageSize WidthOffset: 3 points 0 0\n")
		fmt.Fprintf(w, "*ParamCustomPageSize HeightOffset: 4 points 0 0\n")
		fmt.Fprintf(w, "*ParamCustomPageSize Orientation: 5 int 0 3\n")
		fmt.Fprintf(w, "*CustomPageSize True: \"pop pop pop <</PageSize[5 -2 roll]>>setpagedevice\"\n")
		fmt.Fprintf(w, "*HWMargins: \"%s %s %s %s\"\n",
			points(left), points(bottom), points(right), points(top))
	}
}

// defaultSizeName resolves the reported default media to one of the
// generated choice names, falling back to the first size.
func (g *generator) defaultSizeName(sizes []mediaEntry) string {
	keyword := ""
	if col := g.attrs.Find("media-col-default").CollectionAt(0); col != nil {
		if size := col.Find("media-size").CollectionAt(0); size != nil {
			w, wOK := dimension(size.Find("x-dimension"))
			l, lOK := dimension(size.Find("y-dimension"))
			if wOK && lOK {
				for _, s := range sizes {
					if abs(s.width-w) <= pwg.Epsilon && abs(s.length-l) <= pwg.Epsilon {
						return s.name
					}
				}
			}
		}
	}
	if keyword == "" {
		keyword = g.attrs.Find("media-default").StringAt(0)
	}
	if keyword != "" {
		for _, s := range sizes {
			if s.pwg == keyword {
				return s.name
			}
		}
	}
	return sizes[0].name
}

func (g *generator) inputSlots() {
	sources := g.attrs.Find("media-source-supported")
	if sources.Count() == 0 {
		return
	}
	w := &g.buf

	def := pwg.PpdizeName(g.attrs.Find("media-source-default").StringAt(0))
	if def == "" {
		def = pwg.PpdizeName(sources.StringAt(0))
	}

	fmt.Fprintf(w, "*OpenUI *InputSlot/%s: PickOne\n", g.localize("media-source"))
	fmt.Fprintf(w, "*OrderDependency: 10 AnySetup *InputSlot\n")
	fmt.Fprintf(w, "*DefaultInputSlot: %s\n", def)
	for i := 0; i < sources.Count(); i++ {
		keyword := sources.StringAt(i)
		fmt.Fprintf(w, "*InputSlot %s/%s: \"<</MediaPosition %d>>setpagedevice\"\n",
			pwg.PpdizeName(keyword), g.localize("media-source."+keyword), i)
	}
	fmt.Fprintf(w, "*CloseUI: *InputSlot\n")
}

func (g *generator) mediaTypes() {
	types := g.attrs.Find("media-type-supported")
	if types.Count() == 0 {
		return
	}
	w := &g.buf

	def := pwg.PpdizeName(g.attrs.Find("media-type-default").StringAt(0))
	if def == "" {
		def = pwg.PpdizeName(types.StringAt(0))
	}

	fmt.Fprintf(w, "*OpenUI *MediaType/%s: PickOne\n", g.localize("media-type"))
	fmt.Fprintf(w, "*OrderDependency: 10 AnySetup *MediaType\n")
	fmt.Fprintf(w, "*DefaultMediaType: %s\n", def)
	for i := 0; i < types.Count(); i++ {
		keyword := types.StringAt(i)
		fmt.Fprintf(w, "*MediaType %s/%s: \"<</MediaType(%s)>>setpagedevice\"\n",
			pwg.PpdizeName(keyword), g.localize("media-type."+keyword), keyword)
	}
	fmt.Fprintf(w, "*CloseUI: *MediaType\n")
}

func (g *generator) outputBins() {
	bins := g.attrs.Find("output-bin-supported")
	if bins.Count() == 0 {
		return
	}
	w := &g.buf

	def := pwg.PpdizeName(g.attrs.Find("output-bin-default").StringAt(0))
	if def == "" {
		def = pwg.PpdizeName(bins.StringAt(0))
	}

	fmt.Fprintf(w, "*OpenUI *OutputBin/%s: PickOne\n", g.localize("output-bin"))
	fmt.Fprintf(w, "*OrderDependency: 10 AnySetup *OutputBin\n")
	fmt.Fprintf(w, "*DefaultOutputBin: %s\n", def)
	for i := 0; i < bins.Count(); i++ {
		keyword := bins.StringAt(i)
		fmt.Fprintf(w, "*OutputBin %s/%s: \"\"\n",
			pwg.PpdizeName(keyword), g.localize("output-bin."+keyword))
	}
	fmt.Fprintf(w, "*CloseUI: *OutputBin\n")
}

func (g *generator) colorModel() {
	modes := g.attrs.Find("print-color-mode-supported")
	if modes.Count() == 0 {
		return
	}
	w := &g.buf

	hasColor := modes.HasString("color")
	hasMono := modes.HasString("monochrome") || modes.HasString("auto-monochrome")
	if !hasColor && !hasMono {
		return
	}

	def := "Gray"
	if g.attrs.Find("print-color-mode-default").StringAt(0) == "color" {
		def = "RGB"
	} else if !hasMono {
		def = "RGB"
	}

	fmt.Fprintf(w, "*OpenUI *ColorModel/%s: PickOne\n", g.localize("print-color-mode"))
	fmt.Fprintf(w, "*OrderDependency: 10 AnySetup *ColorModel\n")
	fmt.Fprintf(w, "*DefaultColorModel: %s\n", def)
	if hasMono {
		fmt.Fprintf(w, "*ColorModel Gray/%s: \"<</cupsColorSpace 18/cupsBitsPerColor 8>>setpagedevice\"\n",
			g.localize("print-color-mode.monochrome"))
	}
	if hasColor {
		fmt.Fprintf(w, "*ColorModel RGB/%s: \"<</cupsColorSpace 19/cupsBitsPerColor 8>>setpagedevice\"\n",
			g.localize("print-color-mode.color"))
	}
	fmt.Fprintf(w, "*CloseUI: *ColorModel\n")
}

func (g *generator) duplex() {
	sides := g.attrs.Find("sides-supported")
	if !sides.HasString("two-sided-long-edge") {
		return
	}
	w := &g.buf

	def := "None"
	switch g.attrs.Find("sides-default").StringAt(0) {
	case "two-sided-long-edge":
		def = "DuplexNoTumble"
	case "two-sided-short-edge":
		def = "DuplexTumble"
	}

	fmt.Fprintf(w, "*OpenUI *Duplex/%s: PickOne\n", g.localize("sides"))
	fmt.Fprintf(w, "*OrderDependency: 10 AnySetup *Duplex\n")
	fmt.Fprintf(w, "*DefaultDuplex: %s\n", def)
	fmt.Fprintf(w, "*Duplex None/%s: \"<</Duplex false>>setpagedevice\"\n",
		g.localize("sides.one-sided"))
	fmt.Fprintf(w, "*Duplex DuplexNoTumble/%s: \"<</Duplex true/Tumble false>>setpagedevice\"\n",
		g.localize("sides.two-sided-long-edge"))
	fmt.Fprintf(w, "*Duplex DuplexTumble/%s: \"<</Duplex true/Tumble true>>setpagedevice\"\n",
		g.localize("sides.two-sided-short-edge"))
	fmt.Fprintf(w, "*CloseUI: *Duplex\n")

	if back := g.backSide(); back != "" {
		fmt.Fprintf(w, "*cupsBackSide: \"%s\"\n", back)
	}
}

// backSide derives the back-side orientation hint from the raster
// sheet-back keyword, or from the URF DM capability codes when only URF
// is reported.
func (g *generator) backSide() string {
	if back := g.attrs.Find("pwg-raster-document-sheet-back").StringAt(0); back != "" {
		return back
	}
	urf := g.attrs.Find("urf-supported")
	for i := 0; i < urf.Count(); i++ {
		switch urf.StringAt(i) {
		case "DM1":
			return "normal"
		case "DM2":
			return "flipped"
		case "DM3":
			return "rotated"
		case "DM4":
			return "manual-tumble"
		}
	}
	return ""
}

// ---------------------------------------------------------------------
// quality

type resolution struct{ x, y int }

// quality derives the three print-quality tiers from the advertised
// resolutions: lowest is draft, highest is high, and the middle (or the
// reported default) is normal.
func (g *generator) quality() {
	res := g.resolutions()
	w := &g.buf

	draft, normal, high := res[0], res[len(res)/2], res[len(res)-1]

	fmt.Fprintf(w, "*DefaultResolution: %s\n", formatResolution(normal))
	fmt.Fprintf(w, "*OpenUI *cupsPrintQuality/%s: PickOne\n", g.localize("print-quality"))
	fmt.Fprintf(w, "*OrderDependency: 10 AnySetup *cupsPrintQuality\n")
	fmt.Fprintf(w, "*DefaultcupsPrintQuality: Normal\n")
	fmt.Fprintf(w, "*cupsPrintQuality Draft/%s: \"<</HWResolution[%d %d]>>setpagedevice\"\n",
		g.localize("print-quality.3"), draft.x, draft.y)
	fmt.Fprintf(w, "*cupsPrintQuality Normal/%s: \"<</HWResolution[%d %d]>>setpagedevice\"\n",
		g.localize("print-quality.4"), normal.x, normal.y)
	fmt.Fprintf(w, "*cupsPrintQuality High/%s: \"<</HWResolution[%d %d]>>setpagedevice\"\n",
		g.localize("print-quality.5"), high.x, high.y)
	fmt.Fprintf(w, "*CloseUI: *cupsPrintQuality\n")
}

// resolutions gathers the advertised resolutions from the three possible
// sources in precedence order, sorted ascending, with a 300 dpi fallback.
func (g *generator) resolutions() []resolution {
	var res []resolution

	if a := g.attrs.Find("pwg-raster-document-resolution-supported"); a.Count() > 0 {
		for i := 0; i < a.Count(); i++ {
			if x, y, ok := a.ResolutionAt(i); ok {
				res = append(res, resolution{x, y})
			}
		}
	}
	if len(res) == 0 {
		urf := g.attrs.Find("urf-supported")
		for i := 0; i < urf.Count(); i++ {
			res = append(res, parseURFResolutions(urf.StringAt(i))...)
		}
	}
	if len(res) == 0 {
		if a := g.attrs.Find("printer-resolution-supported"); a.Count() > 0 {
			for i := 0; i < a.Count(); i++ {
				if x, y, ok := a.ResolutionAt(i); ok {
					res = append(res, resolution{x, y})
				}
			}
		}
	}
	if len(res) == 0 {
		return []resolution{{300, 300}}
	}

	for i := 1; i < len(res); i++ {
		for j := i; j > 0 && res[j].x*res[j].y < res[j-1].x*res[j-1].y; j-- {
			res[j], res[j-1] = res[j-1], res[j]
		}
	}
	return res
}

// parseURFResolutions decodes an "RS300-600" style capability code.
func parseURFResolutions(code string) []resolution {
	if !strings.HasPrefix(code, "RS") {
		return nil
	}
	var res []resolution
	for _, part := range strings.Split(code[2:], "-") {
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil
		}
		res = append(res, resolution{n, n})
	}
	return res
}

func formatResolution(r resolution) string {
	if r.x == r.y {
		return strconv.Itoa(r.x) + "dpi"
	}
	return strconv.Itoa(r.x) + "x" + strconv.Itoa(r.y) + "dpi"
}

// ---------------------------------------------------------------------
// presets

// presets passes the advertised named presets through as option/choice
// lines, translating the few members that need remapping onto generated
// option names and leaving everything else literal.
func (g *generator) presets() {
	presets := g.attrs.Find("job-presets-supported")
	w := &g.buf

	for i := 0; i < presets.Count(); i++ {
		col := presets.CollectionAt(i)
		if col == nil {
			continue
		}
		name := col.Find("preset-name").StringAt(0)
		if name == "" {
			continue
		}

		var pairs []string
		for _, member := range col.All() {
			switch member.Name {
			case "preset-name":
			case "media":
				if m := pwg.MediaForName(member.StringAt(0)); m != nil && m.PPDName != "" {
					pairs = append(pairs, "*PageSize "+m.PPDName)
				} else if keyword := member.StringAt(0); keyword != "" {
					pairs = append(pairs, "*PageSize "+keyword)
				}
			case "print-quality":
				switch member.IntAt(0) {
				case 3:
					pairs = append(pairs, "*cupsPrintQuality Draft")
				case 4:
					pairs = append(pairs, "*cupsPrintQuality Normal")
				case 5:
					pairs = append(pairs, "*cupsPrintQuality High")
				}
			case "sides":
				switch member.StringAt(0) {
				case "one-sided":
					pairs = append(pairs, "*Duplex None")
				case "two-sided-long-edge":
					pairs = append(pairs, "*Duplex DuplexNoTumble")
				case "two-sided-short-edge":
					pairs = append(pairs, "*Duplex DuplexTumble")
				}
			case "print-color-mode":
				switch member.StringAt(0) {
				case "monochrome":
					pairs = append(pairs, "*ColorModel Gray")
				case "color":
					pairs = append(pairs, "*ColorModel RGB")
				}
			case "finishings":
				for j := 0; j < member.Count(); j++ {
					pairs = append(pairs,
						"*cupsIPPFinishings "+strconv.Itoa(member.IntAt(j)))
				}
			case "media-source":
				if keyword := member.StringAt(0); keyword != "" {
					pairs = append(pairs, "*InputSlot "+pwg.PpdizeName(keyword))
				}
			case "media-type":
				if keyword := member.StringAt(0); keyword != "" {
					pairs = append(pairs, "*MediaType "+pwg.PpdizeName(keyword))
				}
			case "output-bin":
				if keyword := member.StringAt(0); keyword != "" {
					pairs = append(pairs, "*OutputBin "+pwg.PpdizeName(keyword))
				}
			default:
				if v := member.StringAt(0); v != "" {
					pairs = append(pairs, "*"+pwg.PpdizeName(member.Name)+" "+v)
				}
			}
		}
		if len(pairs) == 0 {
			continue
		}
		fmt.Fprintf(w, "*APPrinterPreset %s/%s: \"%s\"\n",
			pwg.PpdizeName(name), g.localize("preset-name."+name),
			strings.Join(pairs, " "))
	}
}

// ---------------------------------------------------------------------

// points formats a dimension in hundredths of millimeters as PostScript
// points with up to two decimals.
func points(units int) string {
	pts := pwg.ToPoints(units)
	s := strconv.FormatFloat(pts, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
