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

package synth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	ppd "github.com/OpenPrinting/cups-sub001"
	"github.com/OpenPrinting/cups-sub001/ipp"
)

// printerAttrs models a color duplex printer reporting a media database
// with a borderless size and a custom range, URF capabilities, and one
// named preset.
func printerAttrs() *ipp.Attributes {
	a4 := (&ipp.Attributes{}).
		AddCollection("media-size", (&ipp.Attributes{}).
			AddInt("x-dimension", 21000).
			AddInt("y-dimension", 29700))
	letter := (&ipp.Attributes{}).
		AddCollection("media-size", (&ipp.Attributes{}).
			AddInt("x-dimension", 21590).
			AddInt("y-dimension", 27940)).
		AddInt("media-left-margin", 0).
		AddInt("media-bottom-margin", 0).
		AddInt("media-right-margin", 0).
		AddInt("media-top-margin", 0)
	custom := (&ipp.Attributes{}).
		AddCollection("media-size", (&ipp.Attributes{}).
			AddRange("x-dimension", 10000, 21590).
			AddRange("y-dimension", 15000, 35560))

	return (&ipp.Attributes{}).
		AddString("printer-make-and-model", "Hewlett Packard LaserJet Pro M404").
		AddString("document-format-supported",
			"application/octet-stream", "application/pdf",
			"image/urf", "image/pwg-raster").
		AddString("urf-supported", "V1.4", "W8", "DM3", "RS300-600").
		AddBoolean("color-supported", true).
		AddInt("media-left-margin-supported", 635, 423).
		AddInt("media-bottom-margin-supported", 635, 423).
		AddInt("media-right-margin-supported", 635, 423).
		AddInt("media-top-margin-supported", 635, 423).
		AddCollection("media-col-database", a4, letter, custom).
		AddString("media-default", "iso_a4_210x297mm").
		AddString("media-source-supported", "tray-1", "by-pass-tray").
		AddString("media-source-default", "tray-1").
		AddString("media-type-supported", "stationery", "photographic-glossy").
		AddString("media-type-default", "stationery").
		AddString("output-bin-supported", "face-down").
		AddString("print-color-mode-supported", "color", "monochrome").
		AddString("print-color-mode-default", "color").
		AddString("sides-supported",
			"one-sided", "two-sided-long-edge", "two-sided-short-edge").
		AddString("sides-default", "two-sided-long-edge").
		AddCollection("job-presets-supported", (&ipp.Attributes{}).
			AddString("preset-name", "photo-on-glossy").
			AddString("media", "iso_a4_210x297mm").
			AddInt("print-quality", 5).
			AddString("print-color-mode", "color").
			AddString("media-type", "photographic-glossy"))
}

// minimalAttrs is the smallest attribute set that still generates.
func minimalAttrs() *ipp.Attributes {
	return (&ipp.Attributes{}).
		AddString("printer-make-and-model", "Example Printer").
		AddString("document-format-supported", "application/pdf").
		AddString("media-supported", "iso_a4_210x297mm")
}

// TestGeneratedFileParses feeds the generated text back through the
// normal parser and checks the resulting document.
func TestGeneratedFileParses(t *testing.T) {
	data, err := FromAttributes(printerAttrs(), nil)
	if err != nil {
		t.Fatalf("FromAttributes: %s", err)
	}
	doc, err := ppd.Read(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("generated file does not parse: %s", err)
	}

	if doc.Manufacturer != "HP" {
		t.Errorf("Manufacturer = %q", doc.Manufacturer)
	}
	if doc.ModelName != "HP LaserJet Pro M404" {
		t.Errorf("ModelName = %q", doc.ModelName)
	}
	if doc.ShortNickName != "LaserJet Pro M404" {
		t.Errorf("ShortNickName = %q", doc.ShortNickName)
	}
	if !doc.ColorDevice {
		t.Error("not a color device")
	}

	wantFilters := []string{
		"application/vnd.cups-pdf application/pdf 10 -",
		"image/urf image/urf 100 -",
		"image/pwg-raster image/pwg-raster 100 -",
	}
	if d := cmp.Diff(wantFilters, doc.Filters); d != "" {
		t.Errorf("filters (-want +got):\n%s", d)
	}

	size := doc.FindOption("PageSize")
	if size == nil {
		t.Fatal("PageSize missing")
	}
	var names []string
	for _, c := range size.Choices {
		names = append(names, c.Name)
	}
	if d := cmp.Diff([]string{"A4", "Letter.Borderless", "Custom"}, names); d != "" {
		t.Errorf("page sizes (-want +got):\n%s", d)
	}
	if size.DefaultChoice != "A4" {
		t.Errorf("DefaultPageSize = %q", size.DefaultChoice)
	}

	min, max, _, ok := doc.PageSizeLimits()
	if !ok {
		t.Fatal("no custom size range")
	}
	if min[0] < 283 || min[0] > 284 || max[1] < 1007 || max[1] > 1009 {
		t.Errorf("custom range: min %v max %v", min, max)
	}

	slot := doc.FindOption("InputSlot")
	if slot == nil || slot.DefaultChoice != "Tray1" ||
		doc.FindChoice("InputSlot", "ByPassTray") == nil {
		t.Errorf("InputSlot: %+v", slot)
	}
	if doc.FindChoice("MediaType", "PhotographicGlossy") == nil {
		t.Error("MediaType PhotographicGlossy missing")
	}
	if doc.FindChoice("OutputBin", "FaceDown") == nil {
		t.Error("OutputBin FaceDown missing")
	}

	cm := doc.FindOption("ColorModel")
	if cm == nil || cm.DefaultChoice != "RGB" || len(cm.Choices) != 2 {
		t.Errorf("ColorModel: %+v", cm)
	}

	duplex := doc.FindOption("Duplex")
	if duplex == nil || duplex.DefaultChoice != "DuplexNoTumble" {
		t.Errorf("Duplex: %+v", duplex)
	}
	if v := doc.Attr("cupsBackSide", ""); v != "rotated" {
		t.Errorf("cupsBackSide = %q", v)
	}

	// RS300-600 gives two tiers: 300 is draft, 600 normal and high
	if v := doc.Attr("DefaultResolution", ""); v != "600dpi" {
		t.Errorf("DefaultResolution = %q", v)
	}
	quality := doc.FindOption("cupsPrintQuality")
	if quality == nil || len(quality.Choices) != 3 {
		t.Fatalf("cupsPrintQuality: %+v", quality)
	}
	if c := doc.FindChoice("cupsPrintQuality", "Draft"); c == nil ||
		!strings.Contains(c.Code, "[300 300]") {
		t.Errorf("Draft quality: %+v", c)
	}

	preset, _ := doc.FindAttr("APPrinterPreset", "PhotoOnGlossy")
	if preset == nil {
		t.Fatal("preset missing")
	}
	want := "*PageSize A4 *cupsPrintQuality High *ColorModel RGB *MediaType PhotographicGlossy"
	if preset.Value != want {
		t.Errorf("preset value:\ngot  %q\nwant %q", preset.Value, want)
	}
}

func TestTransportPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		formats []string
		urf     bool
		want    []string
	}{
		{
			"all",
			[]string{"image/pwg-raster", "image/urf", "application/pdf"},
			true,
			[]string{"application/pdf", "image/urf", "image/pwg-raster"},
		},
		{
			"urf without capability codes",
			[]string{"image/urf", "image/pwg-raster"},
			false,
			[]string{"image/pwg-raster"},
		},
		{
			"pdf only",
			[]string{"application/pdf", "application/postscript"},
			false,
			[]string{"application/pdf"},
		},
	}

	for _, c := range cases {
		attrs := (&ipp.Attributes{}).
			AddString("printer-make-and-model", "Example Printer").
			AddString("document-format-supported", c.formats...).
			AddString("media-supported", "iso_a4_210x297mm")
		if c.urf {
			attrs.AddString("urf-supported", "V1.4", "W8")
		}

		data, err := FromAttributes(attrs, nil)
		if err != nil {
			t.Fatalf("%s: %s", c.name, err)
		}
		doc, err := ppd.Read(bytes.NewReader(data), nil)
		if err != nil {
			t.Fatalf("%s: %s", c.name, err)
		}
		var got []string
		for _, f := range doc.Filters {
			got = append(got, strings.Fields(f)[1])
		}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%s: transports (-want +got):\n%s", c.name, d)
		}
	}
}

func TestNoUsableTransport(t *testing.T) {
	attrs := (&ipp.Attributes{}).
		AddString("document-format-supported", "application/octet-stream").
		AddString("media-supported", "iso_a4_210x297mm")
	if _, err := FromAttributes(attrs, nil); !errors.Is(err, ErrNoUsableTransport) {
		t.Errorf("got %v, want ErrNoUsableTransport", err)
	}
}

// TestSizeSourcePrecedence checks that the media database shadows the
// simpler size attributes, and that each fallback level works alone.
func TestSizeSourcePrecedence(t *testing.T) {
	letterCol := (&ipp.Attributes{}).
		AddCollection("media-size", (&ipp.Attributes{}).
			AddInt("x-dimension", 21590).
			AddInt("y-dimension", 27940))
	a4Size := (&ipp.Attributes{}).
		AddInt("x-dimension", 21000).
		AddInt("y-dimension", 29700)

	cases := []struct {
		name  string
		build func(*ipp.Attributes) *ipp.Attributes
		want  []string
	}{
		{
			"database shadows media-supported",
			func(a *ipp.Attributes) *ipp.Attributes {
				return a.AddCollection("media-col-database", letterCol).
					AddString("media-supported", "iso_a4_210x297mm")
			},
			[]string{"Letter"},
		},
		{
			"media-size-supported",
			func(a *ipp.Attributes) *ipp.Attributes {
				return a.AddCollection("media-size-supported", a4Size)
			},
			[]string{"A4"},
		},
		{
			"media-supported names, unknown skipped",
			func(a *ipp.Attributes) *ipp.Attributes {
				return a.AddString("media-supported",
					"custom_weird_1x2mm", "na_letter_8.5x11in")
			},
			[]string{"Letter"},
		},
	}

	for _, c := range cases {
		attrs := c.build((&ipp.Attributes{}).
			AddString("printer-make-and-model", "Example Printer").
			AddString("document-format-supported", "application/pdf"))

		data, err := FromAttributes(attrs, nil)
		if err != nil {
			t.Fatalf("%s: %s", c.name, err)
		}
		doc, err := ppd.Read(bytes.NewReader(data), nil)
		if err != nil {
			t.Fatalf("%s: %s", c.name, err)
		}
		var got []string
		for _, s := range doc.FindOption("PageSize").Choices {
			got = append(got, s.Name)
		}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%s: sizes (-want +got):\n%s", c.name, d)
		}
	}
}

func TestNoUsableSizes(t *testing.T) {
	attrs := (&ipp.Attributes{}).
		AddString("document-format-supported", "application/pdf").
		AddString("media-supported", "custom_weird_1x2mm")
	if _, err := FromAttributes(attrs, nil); !errors.Is(err, ErrNoUsableSizes) {
		t.Errorf("got %v, want ErrNoUsableSizes", err)
	}
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "everywhere.ppd")

	// a generation failure leaves no file behind
	bad := (&ipp.Attributes{}).
		AddString("document-format-supported", "application/pdf")
	if err := CreateFile(path, bad, nil); !errors.Is(err, ErrNoUsableSizes) {
		t.Fatalf("got %v, want ErrNoUsableSizes", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file observable after failed generation: %v", err)
	}

	if err := CreateFile(path, minimalAttrs(), nil); err != nil {
		t.Fatalf("CreateFile: %s", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("*PPD-Adobe: \"4.3\"\n")) {
		t.Errorf("bad file start: %q", data[:20])
	}
}

func TestResolutionFallbacks(t *testing.T) {
	// no resolution information at all
	data, err := FromAttributes(minimalAttrs(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("*DefaultResolution: 300dpi\n")) {
		t.Error("missing 300 dpi fallback")
	}

	// explicit resolutions, ascending tiers
	attrs := minimalAttrs().
		AddResolution("printer-resolution-supported", 1200, 1200).
		AddResolution("printer-resolution-supported", 600, 600)
	data, err = FromAttributes(attrs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("*cupsPrintQuality Draft/print-quality.3: \"<</HWResolution[600 600]>>setpagedevice\"\n")) {
		t.Error("draft tier is not the lowest resolution")
	}
	if !bytes.Contains(data, []byte("*DefaultResolution: 1200dpi\n")) {
		t.Error("default is not the middle resolution")
	}
}

func TestBackSidePreference(t *testing.T) {
	attrs := minimalAttrs().
		AddString("sides-supported", "one-sided", "two-sided-long-edge").
		AddString("pwg-raster-document-sheet-back", "flipped").
		AddString("urf-supported", "V1.4", "DM3")
	data, err := FromAttributes(attrs, nil)
	if err != nil {
		t.Fatal(err)
	}
	// the raster keyword wins over the URF DM code
	if !bytes.Contains(data, []byte("*cupsBackSide: \"flipped\"\n")) {
		t.Errorf("missing or wrong cupsBackSide:\n%s", data)
	}
}

type mapLocalizer map[string]string

func (m mapLocalizer) Localize(_ language.Tag, id string) (string, bool) {
	text, ok := m[id]
	return text, ok
}

func TestLocalization(t *testing.T) {
	opt := &Options{
		Locale: language.German,
		Localizer: mapLocalizer{
			"media":            "Seitenformat",
			"iso_a4_210x297mm": "A4",
		},
	}
	data, err := FromAttributes(minimalAttrs(), opt)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Contains(data, []byte("*LanguageVersion: German\n")) {
		t.Error("missing language header")
	}
	if !bytes.Contains(data, []byte("*OpenUI *PageSize/Seitenformat: PickOne\n")) {
		t.Error("catalog text not used")
	}
	// identifiers without a catalog entry fall back to themselves
	if !bytes.Contains(data, []byte("*OpenUI *cupsPrintQuality/print-quality: PickOne\n")) {
		t.Error("missing identifier fallback")
	}
}
