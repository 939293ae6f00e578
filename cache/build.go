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

package cache

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	ppd "github.com/OpenPrinting/cups-sub001"
	"github.com/OpenPrinting/cups-sub001/pwg"
)

// nameRule maps vendor choice names to standard keywords.  Rules are tried
// in order; matchPrefix matches case-insensitively at the start of the
// name, matchExact the whole name.  A choice that is a single digit "0"
// through "9" maps to "tray-1" through "tray-10" before any generic
// normalization.
type nameRule struct {
	match string
	exact bool
	pwg   string
}

var sourceRules = []nameRule{
	{"Default", true, "auto"},
	{"Auto", false, "auto"},
	{"Upper", false, "top"},
	{"Top", false, "top"},
	{"Lower", false, "bottom"},
	{"Bottom", false, "bottom"},
	{"Middle", false, "middle"},
	{"Manual", false, "manual"},
	{"MPTray", true, "by-pass-tray"},
	{"Multipurpose", false, "by-pass-tray"},
	{"Bypass", false, "by-pass-tray"},
	{"CDTray", true, "disc"},
	{"Cassette", false, "main"},
	{"PhotoTray", false, "photo"},
	{"Front", false, "front"},
	{"Rear", false, "rear"},
	{"Side", false, "side"},
	{"Envelope", false, "envelope"},
	{"LargeCapacity", false, "large-capacity"},
	{"Roll", true, "main-roll"},
}

var typeRules = []nameRule{
	{"Auto", false, "auto"},
	{"Any", true, "auto"},
	{"Default", true, "auto"},
	{"Card", false, "cardstock"},
	{"Env", false, "envelope"},
	{"HighGloss", false, "photographic-high-gloss"},
	{"Gloss", false, "photographic-glossy"},
	{"Matte", false, "photographic-matte"},
	{"Semigloss", false, "photographic-semi-gloss"},
	{"Photo", false, "photographic"},
	{"Plain", false, "stationery"},
	{"Coated", false, "stationery-coated"},
	{"Inkjet", false, "stationery-inkjet"},
	{"Letterhead", false, "stationery-letterhead"},
	{"Preprint", false, "stationery-preprinted"},
	{"Recycled", false, "stationery-recycled"},
	{"Transparen", false, "transparency"},
	{"Tshirt", false, "t-shirt"},
	{"Labels", false, "labels"},
}

var binRules = []nameRule{
	{"Auto", false, "auto"},
	{"Default", true, "auto"},
	{"Upper", false, "top"},
	{"Top", false, "top"},
	{"Lower", false, "bottom"},
	{"Bottom", false, "bottom"},
	{"Left", false, "left"},
	{"Right", false, "right"},
	{"Center", false, "center"},
	{"Rear", false, "rear"},
	{"Side", false, "side"},
	{"Stacker", false, "stacker"},
	{"Mailbox", false, "mailbox"},
	{"FaceDown", false, "face-down"},
	{"FaceUp", false, "face-up"},
	{"LargeCapacity", false, "large-capacity"},
}

func applyRules(rules []nameRule, name string) (string, bool) {
	for _, r := range rules {
		if r.exact {
			if strings.EqualFold(name, r.match) {
				return r.pwg, true
			}
		} else if len(name) >= len(r.match) &&
			strings.EqualFold(name[:len(r.match)], r.match) {
			return r.pwg, true
		}
	}
	if len(name) == 1 && name[0] >= '0' && name[0] <= '9' {
		return "tray-" + strconv.Itoa(int(name[0]-'0')+1), true
	}
	return "", false
}

// duplexOptions are the legacy spellings of the duplex option, in the
// order they are looked for.
var duplexOptions = []string{"Duplex", "EFDuplex", "KD03Duplex", "JCLDuplex"}

// FromDocument builds the translation cache for a parsed vendor file.
func FromDocument(doc *ppd.Document) *Cache {
	c := &Cache{
		Finishings: make(map[int][]OptionValue),
		MaxCopies:  9999,
	}

	c.buildSources(doc)
	c.buildTypes(doc)
	c.buildBins(doc)
	c.buildSizes(doc)
	c.buildDuplex(doc)
	c.buildFinishings(doc)
	c.buildPresets(doc)
	c.buildPolicies(doc)

	return c
}

func (c *Cache) buildSources(doc *ppd.Document) {
	opt := doc.FindOption("InputSlot")
	if opt == nil {
		opt = doc.FindOption("HPPaperSource")
	}
	if opt == nil {
		return
	}
	c.SourceOption = opt.Keyword

	for _, choice := range opt.Choices {
		keyword, ok := applyRules(sourceRules, choice.Name)
		if !ok {
			keyword = pwg.UnppdizeName(choice.Name)
		}
		c.Sources = append(c.Sources, Map{PPD: choice.Name, PWG: keyword})
	}
}

// buildTypes maps media types.  Rule matches are counted across all
// choices first: if two vendor types would canonicalize to the same
// standard name, both fall back to generic normalization so a real vendor
// distinction is not erased.
func (c *Cache) buildTypes(doc *ppd.Document) {
	opt := doc.FindOption("MediaType")
	if opt == nil {
		return
	}

	candidates := make([]string, len(opt.Choices))
	counts := make(map[string]int)
	for i, choice := range opt.Choices {
		if keyword, ok := applyRules(typeRules, choice.Name); ok {
			candidates[i] = keyword
			counts[keyword]++
		}
	}

	for i, choice := range opt.Choices {
		keyword := candidates[i]
		if keyword == "" || counts[keyword] > 1 {
			keyword = pwg.UnppdizeName(choice.Name)
		}
		c.Types = append(c.Types, Map{PPD: choice.Name, PWG: keyword})
	}
}

func (c *Cache) buildBins(doc *ppd.Document) {
	opt := doc.FindOption("OutputBin")
	if opt == nil {
		return
	}
	for _, choice := range opt.Choices {
		keyword, ok := applyRules(binRules, choice.Name)
		if !ok {
			keyword = pwg.UnppdizeName(choice.Name)
		}
		c.Bins = append(c.Bins, Map{PPD: choice.Name, PWG: keyword})
	}
}

func (c *Cache) buildSizes(doc *ppd.Document) {
	claimed := make(map[string]bool)

	for _, size := range doc.Sizes {
		entry := Size{
			Map:    Map{PPD: size.Name},
			Width:  pwg.FromPoints(size.Width),
			Length: pwg.FromPoints(size.Length),
			Left:   pwg.FromPoints(size.Left),
			Bottom: pwg.FromPoints(size.Bottom),
			Right:  pwg.FromPoints(size.Right),
			Top:    pwg.FromPoints(size.Top),
		}
		entry.Borderless = entry.Left == 0 && entry.Bottom == 0 &&
			entry.Right == 0 && entry.Top == 0

		standard := false
		if m := pwg.MediaForSize(entry.Width, entry.Length); m != nil && !claimed[m.Name] {
			entry.PWG = m.Name
			claimed[m.Name] = true
			standard = true
		} else {
			entry.PWG = pwg.MediaSizeName(
				pwg.UnppdizeName(size.Name), entry.Width, entry.Length)
			if entry.Borderless {
				entry.PWG += "_borderless"
			}
		}

		c.addSize(entry, standard)
	}

	if min, max, margins, ok := doc.PageSizeLimits(); ok {
		c.CustomMin = [2]int{pwg.FromPoints(min[0]), pwg.FromPoints(min[1])}
		c.CustomMax = [2]int{pwg.FromPoints(max[0]), pwg.FromPoints(max[1])}
		for i, m := range margins {
			c.CustomMargins[i] = pwg.FromPoints(m)
		}
	}
}

// addSize appends or replaces a size entry.  Within the matching
// tolerance, a newcomer wins its slot only when it carries a well-known
// standard name, or, when neither entry does, when it leaves a larger
// imageable area.  Borderless and bordered entries never share a slot.
func (c *Cache) addSize(entry Size, standard bool) {
	for i := range c.Sizes {
		old := &c.Sizes[i]
		if old.Borderless != entry.Borderless || !near(old, entry.Width, entry.Length) {
			continue
		}
		oldStandard := pwg.MediaForName(old.PWG) != nil
		switch {
		case standard && !oldStandard:
			*old = entry
		case !standard && !oldStandard && entry.imageable() > old.imageable():
			*old = entry
		}
		return
	}
	c.Sizes = append(c.Sizes, entry)
}

func (c *Cache) buildDuplex(doc *ppd.Document) {
	var opt *ppd.Option
	for _, keyword := range duplexOptions {
		if opt = doc.FindOption(keyword); opt != nil {
			break
		}
	}
	if opt == nil {
		return
	}
	c.SidesOption = opt.Keyword

	for _, choice := range opt.Choices {
		lower := strings.ToLower(choice.Name)
		switch {
		case strings.Contains(lower, "notumble"), strings.Contains(lower, "long"),
			strings.Contains(lower, "book"):
			if c.Sides2SidedLong == "" {
				c.Sides2SidedLong = choice.Name
			}
		case strings.Contains(lower, "tumble"), strings.Contains(lower, "short"):
			if c.Sides2SidedShort == "" {
				c.Sides2SidedShort = choice.Name
			}
		case lower == "none", lower == "off", lower == "false", lower == "simplex":
			if c.Sides1Sided == "" {
				c.Sides1Sided = choice.Name
			}
		}
	}
}

// Standard finishing values, from the job-template finishings enum.
const (
	FinishingNone              = 3
	FinishingStaple            = 4
	FinishingPunch             = 5
	FinishingFold              = 10
	FinishingStapleTopLeft     = 20
	FinishingStapleBottomLeft  = 21
	FinishingStapleTopRight    = 22
	FinishingStapleBottomRight = 23
	FinishingStapleDualLeft    = 28
	FinishingBindLeft          = 50
	FinishingBindTop           = 51
	FinishingBindRight         = 52
	FinishingBindBottom        = 53
	FinishingPunchDualLeft     = 74
	FinishingPunchDualTop      = 75
	FinishingPunchDualRight    = 76
	FinishingPunchDualBottom   = 77
	FinishingFoldAccordion     = 90
	FinishingFoldDoubleGate    = 91
	FinishingFoldGate          = 92
	FinishingFoldHalf          = 93
	FinishingFoldHalfZ         = 94
	FinishingFoldLeftGate      = 95
	FinishingFoldLetter        = 96
	FinishingFoldParallel      = 97
	FinishingFoldZ             = 100
)

// finishingFamily maps recognized choice names of one vendor option family
// to finishing values.
type finishingFamily struct {
	option  string
	choices map[string]int
}

var finishingFamilies = []finishingFamily{
	{"StapleLocation", map[string]int{
		"SinglePortrait":  FinishingStapleTopLeft,
		"SingleLandscape": FinishingStapleBottomLeft,
		"UpperLeft":       FinishingStapleTopLeft,
		"UpperRight":      FinishingStapleTopRight,
		"LowerLeft":       FinishingStapleBottomLeft,
		"LowerRight":      FinishingStapleBottomRight,
		"Dual":            FinishingStapleDualLeft,
	}},
	{"PunchMedia", map[string]int{
		"Left":   FinishingPunchDualLeft,
		"Top":    FinishingPunchDualTop,
		"Right":  FinishingPunchDualRight,
		"Bottom": FinishingPunchDualBottom,
	}},
	{"BindEdge", map[string]int{
		"Left":   FinishingBindLeft,
		"Top":    FinishingBindTop,
		"Right":  FinishingBindRight,
		"Bottom": FinishingBindBottom,
	}},
	{"FoldType", map[string]int{
		"Accordion":  FinishingFoldAccordion,
		"DoubleGate": FinishingFoldDoubleGate,
		"Gate":       FinishingFoldGate,
		"Half":       FinishingFoldHalf,
		"HalfZ":      FinishingFoldHalfZ,
		"LeftGate":   FinishingFoldLeftGate,
		"Letter":     FinishingFoldLetter,
		"Parallel":   FinishingFoldParallel,
		"ZFold":      FinishingFoldZ,
	}},
	// vendor-specific fold variant
	{"CNFolder", map[string]int{
		"ZFold":      FinishingFoldZ,
		"HalfFold":   FinishingFoldHalf,
		"LetterFold": FinishingFoldLetter,
	}},
}

// buildFinishings uses an explicit cupsIPPFinishings mapping when the
// vendor supplies one, and otherwise scans the known option families.
func (c *Cache) buildFinishings(doc *ppd.Document) {
	attr, it := doc.FindAttr("cupsIPPFinishings", "")
	if attr != nil {
		for ; attr != nil; attr = it.FindNextAttr("") {
			value, err := strconv.Atoi(attr.Spec)
			if err != nil {
				continue
			}
			if pairs := parseOptionValues(attr.Value); len(pairs) > 0 {
				c.Finishings[value] = pairs
			}
		}
		return
	}

	for _, family := range finishingFamilies {
		opt := doc.FindOption(family.option)
		if opt == nil {
			continue
		}
		for _, choice := range opt.Choices {
			value, ok := family.choices[choice.Name]
			if !ok {
				continue
			}
			c.Finishings[value] = []OptionValue{{opt.Keyword, choice.Name}}
		}
	}
}

// parseOptionValues parses "*Option Choice *Option Choice ..." text.
func parseOptionValues(s string) []OptionValue {
	var out []OptionValue
	fields := strings.Fields(s)
	for i := 0; i+1 < len(fields); i += 2 {
		if !strings.HasPrefix(fields[i], "*") {
			return nil
		}
		out = append(out, OptionValue{
			Option: fields[i][1:],
			Value:  fields[i+1],
		})
	}
	return out
}

// grayscaleOptions is the priority list of vendor options that force
// monochrome output, used to fabricate monochrome presets.
var grayscaleOptions = []OptionValue{
	{"ColorModel", "Gray"},
	{"HPColorMode", "grayscale"},
	{"BRMonoColor", "Mono"},
	{"CNIJSGrayScale", "1"},
	{"HPColorAsGray", "True"},
}

func (c *Cache) buildPresets(doc *ppd.Document) {
	attr, it := doc.FindAttr("APPrinterPreset", "")
	for ; attr != nil; attr = it.FindNextAttr("") {
		c.addPreset(attr)
	}

	// If the vendor file advertises no monochrome preset at all,
	// fabricate one per quality by cloning the color preset and adding a
	// grayscale selection.
	haveMono := false
	for q := Quality(0); q < NumQualities; q++ {
		if len(c.Presets[ColorModeMonochrome][q]) > 0 {
			haveMono = true
		}
	}
	if haveMono {
		return
	}

	var gray *OptionValue
	for i := range grayscaleOptions {
		g := &grayscaleOptions[i]
		if doc.FindChoice(g.Option, g.Value) != nil {
			gray = g
			break
		}
	}
	if gray == nil {
		return
	}

	for q := Quality(0); q < NumQualities; q++ {
		base := c.Presets[ColorModeColor][q]
		if len(base) == 0 && q != QualityNormal {
			continue
		}
		preset := slices.Clone(base)
		preset = append(preset, *gray)
		c.Presets[ColorModeMonochrome][q] = preset
	}
}

// addPreset parses one APPrinterPreset attribute into a cell of the
// presets matrix.
func (c *Cache) addPreset(attr *ppd.Attr) {
	mode := ColorModeColor
	quality := QualityNormal
	qualitySet := false
	coating := ""
	graphics := ""
	var pairs []OptionValue

	fields := strings.Fields(attr.Value)
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "*") && i+1 < len(fields) {
			pairs = append(pairs, OptionValue{Option: f[1:], Value: fields[i+1]})
			i++
			continue
		}
		if i+1 >= len(fields) {
			break
		}
		value := fields[i+1]
		switch {
		case strings.HasSuffix(f, "output-mode"):
			if strings.Contains(value, "monochrome") || strings.Contains(value, "gray") {
				mode = ColorModeMonochrome
			}
		case strings.HasSuffix(f, "quality"):
			switch value {
			case "draft", "low":
				quality, qualitySet = QualityDraft, true
			case "high", "best":
				quality, qualitySet = QualityHigh, true
			case "normal", "mid", "standard":
				quality, qualitySet = QualityNormal, true
			}
		case strings.HasSuffix(f, "media-front-coating"):
			coating = value
		case strings.HasSuffix(f, "graphicsType"):
			graphics = value
		}
		i++
	}

	if !qualitySet {
		name := strings.ToLower(attr.Spec)
		switch {
		case strings.Contains(name, "draft"):
			quality = QualityDraft
		case strings.Contains(name, "high"), strings.Contains(name, "best"),
			strings.Contains(name, "photo"):
			quality = QualityHigh
		}
	}
	if mode == ColorModeColor {
		name := strings.ToLower(attr.Spec)
		if strings.Contains(name, "gray") || strings.Contains(name, "black") {
			mode = ColorModeMonochrome
		}
	}

	// a coated-media preset only makes sense at high quality; the same
	// goes for photo graphics
	if quality != QualityHigh {
		if coating != "" && coating != "none" && coating != "autodetect" {
			return
		}
		if strings.EqualFold(graphics, "Photo") {
			return
		}
	}

	if len(pairs) > 0 {
		c.Presets[mode][quality] = pairs
	}
}

func (c *Cache) buildPolicies(doc *ppd.Document) {
	if v := doc.Attr("cupsMaxCopies", ""); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			c.MaxCopies = n
		}
	}
	c.AccountIDRequired = strings.EqualFold(doc.Attr("cupsJobAccountId", ""), "True")
	c.AccountingUserIDRequired = strings.EqualFold(doc.Attr("cupsJobAccountingUserId", ""), "True")
	c.Password = doc.Attr("cupsJobPassword", "")
	c.ChargeInfoURI = doc.Attr("cupsChargeInfoURI", "")
	c.SingleFile = strings.EqualFold(doc.Attr("cupsSingleFile", ""), "True")

	if v := doc.Attr("cupsMandatory", ""); v != "" {
		for _, name := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			c.Mandatory = append(c.Mandatory, name)
		}
		slices.Sort(c.Mandatory)
		c.Mandatory = slices.Compact(c.Mandatory)
	}

	c.Filters = append(c.Filters, doc.Filters...)

	attr, it := doc.FindAttr("cupsPreFilter", "")
	for ; attr != nil; attr = it.FindNextAttr("") {
		c.PreFilters = append(c.PreFilters, attr.Value)
	}
}
