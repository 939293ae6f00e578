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

package ppd

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testPPD is a condensed but well-formed printer description exercising
// groups, UI options, page geometry, constraints, custom parameters, and
// JCL options.
const testPPD = `*PPD-Adobe: "4.3"
*FormatVersion: "4.3"
*LanguageVersion: English
*LanguageEncoding: ISOLatin1
*PCFileName: "EXLJ9.PPD"
*Manufacturer: "Example"
*Product: "(LaserJet 9)"
*ModelName: "Example LaserJet 9"
*ShortNickName: "LaserJet 9"
*NickName: "Example LaserJet 9 PostScript"
*PSVersion: "(3010.000) 0"
*LanguageLevel: "3"
*ColorDevice: True
*DefaultColorSpace: RGB
*FileSystem: False
*cupsFilter2: "application/vnd.cups-pdf application/pdf 10 -"
*JCLBegin: "<1B>%-12345X@PJL<0A>"
*JCLToPSInterpreter: "@PJL ENTER LANGUAGE = POSTSCRIPT<0A>"
*JCLEnd: "<1B>%-12345X@PJL RESET<0A>"

*OpenGroup: General/General
*OpenUI *PageSize/Media Size: PickOne
*OrderDependency: 30 AnySetup *PageSize
*OrderDependency: 60 AnySetup *CustomPageSize
*DefaultPageSize: Letter
*PageSize Letter/US Letter: "<</PageSize[612 792]>>setpagedevice"
*PageSize A4/A4: "<</PageSize[595 842]>>setpagedevice"
*PageSize Custom.Odd/Odd Size: "<</PageSize[100 100]>>setpagedevice"
*CloseUI: *PageSize
*OpenUI *PageRegion/Media Size: PickOne
*OrderDependency: 40 AnySetup *PageRegion
*DefaultPageRegion: Letter
*PageRegion Letter/US Letter: "<</PageSize[612 792]>>setpagedevice"
*PageRegion A4/A4: "<</PageSize[595 842]>>setpagedevice"
*CloseUI: *PageRegion
*DefaultImageableArea: Letter
*ImageableArea Letter/US Letter: "12.24 12.06 599.76 780.06"
*ImageableArea A4/A4: "13.44 12.06 581.76 829.74"
*DefaultPaperDimension: Letter
*PaperDimension Letter/US Letter: "612 792"
*PaperDimension A4/A4: "595 842"
*MaxMediaWidth: "612"
*MaxMediaHeight: "1009"
*HWMargins: 12 12 12 12
*CustomPageSize True: "pop pop pop <</PageSize[5 -2 roll]>>setpagedevice"
*ParamCustomPageSize Width: 1 points 72 612
*ParamCustomPageSize Height: 2 points 72 1009
*ParamCustomPageSize WidthOffset: 3 points 0 0
*ParamCustomPageSize HeightOffset: 4 points 0 0
*ParamCustomPageSize Orientation: 5 int 0 3
*CloseGroup: General

*OpenGroup: Media/Media Handling
*OpenUI *InputSlot/Input Slot: PickOne
*OrderDependency: 20 AnySetup *InputSlot
*DefaultInputSlot: Tray1
*InputSlot Tray1/Tray 1: "<</MediaPosition 0>>setpagedevice"
*InputSlot MPTray/Multi-Purpose Tray: "<</MediaPosition 3>>setpagedevice"
*CloseUI: *InputSlot
*OpenUI *ManualFeed/Manual Feed: Boolean
*OrderDependency: 20 AnySetup *ManualFeed
*DefaultManualFeed: False
*ManualFeed True/True: "<</ManualFeed true>>setpagedevice"
*ManualFeed False/False: "<</ManualFeed false>>setpagedevice"
*CloseUI: *ManualFeed
*OpenUI *MediaType/Media Type: PickOne
*OrderDependency: 25 AnySetup *MediaType
*DefaultMediaType: Plain
*MediaType Plain/Plain Paper: ""
*MediaType Transparency/Transparency: ""
*CloseUI: *MediaType
*OpenUI *Duplex/Two-Sided Printing: PickOne
*OrderDependency: 50 AnySetup *Duplex
*DefaultDuplex: None
*Duplex None/Off: "<</Duplex false>>setpagedevice"
*Duplex DuplexNoTumble/Long-Edge Binding: "<</Duplex true/Tumble false>>setpagedevice"
*Duplex DuplexTumble/Short-Edge Binding: "<</Duplex true/Tumble true>>setpagedevice"
*CloseUI: *Duplex
*OpenUI *Resolution/Resolution: PickOne
*OrderDependency: 5.0 PageSetup *Resolution
*DefaultResolution: 600dpi
*Resolution 600dpi/600 DPI: "<</HWResolution[600 600]>>setpagedevice"
*Resolution 1200dpi/1200 DPI: "<</HWResolution[1200 1200]>>setpagedevice"
*CloseUI: *Resolution
*OpenUI *StapleLocation/Staple: PickOne
*OrderDependency: 55 AnySetup *StapleLocation
*StapleLocation None/None: ""
*StapleLocation SinglePortrait/Single Portrait: ""
*StapleLocation Custom.4Staples/4 Staples: ""
*DefaultStapleLocation: Custom.4Staples
*CloseUI: *StapleLocation
*OpenUI *Watermark/Watermark: Boolean
*DefaultWatermark: False
*Watermark True/On: ""
*Watermark False/Off: ""
*Watermark Custom/Vendor Custom: ""
*CloseUI: *Watermark
*CloseGroup: Media

*JCLOpenUI *JCLPassword/Job Password: PickOne
*OrderDependency: 10 JCLSetup *JCLPassword
*DefaultJCLPassword: None
*JCLPassword None/None: ""
*CustomJCLPassword True: "@PJL SET PASSWORD=\1<0A>"
*ParamCustomJCLPassword Password: 1 passcode 4 10
*JCLCloseUI: *JCLPassword

*UIConstraints: *Duplex DuplexTumble *MediaType Transparency
*UIConstraints: "*Duplex *MediaType Transparency"
*RequiresPageRegion MPTray: True
*APPrinterPreset Photo/Photo: "*MediaType Transparency *Resolution 1200dpi"
*APPrinterPreset Draft/Draft: "*Resolution 600dpi"
*Font Courier: Standard "(002.004S)" Standard ROM
*Font Helvetica: Standard "(001.006S)" Standard ROM
`

func testDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := Read(strings.NewReader(testPPD), nil)
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	return doc
}

func TestBadHeader(t *testing.T) {
	cases := []string{
		"",
		"*FormatVersion: \"4.3\"\n",
		"*PPD-Adobe: \"3.0\"\n*Manufacturer: \"X\"\n",
		"*PPD-Adobe\n",
	}

	for _, in := range cases {
		doc, err := Read(strings.NewReader(in), nil)
		if doc != nil {
			t.Errorf("%q: got a document despite the bad header", in)
		}
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Status != StatusMissingPPDAdobe4 {
			t.Errorf("%q: got %v, want status %s", in, err, StatusMissingPPDAdobe4)
		}
	}
}

func TestHeaderFields(t *testing.T) {
	doc := testDocument(t)

	if doc.Manufacturer != "Example" {
		t.Errorf("Manufacturer = %q", doc.Manufacturer)
	}
	if doc.ModelName != "Example LaserJet 9" {
		t.Errorf("ModelName = %q", doc.ModelName)
	}
	if doc.LanguageLevel != 3 {
		t.Errorf("LanguageLevel = %d", doc.LanguageLevel)
	}
	if !doc.ColorDevice || doc.ColorSpace != ColorSpaceRGB {
		t.Errorf("color: %v, %v", doc.ColorDevice, doc.ColorSpace)
	}
	if d := cmp.Diff([]string{"LaserJet 9"}, doc.Product); d != "" {
		t.Errorf("Product mismatch (-want +got):\n%s", d)
	}
	if doc.JCLBegin != "\x1b%-12345X@PJL\n" {
		t.Errorf("JCLBegin = %q", doc.JCLBegin)
	}
	if d := cmp.Diff([]string{"Courier", "Helvetica"}, doc.Fonts); d != "" {
		t.Errorf("Fonts mismatch (-want +got):\n%s", d)
	}
}

// TestChoiceBackReferences checks that every choice points back at its
// owning option and that the option contains the choice by identity.
func TestChoiceBackReferences(t *testing.T) {
	doc := testDocument(t)

	for _, opt := range doc.Options() {
		for _, c := range opt.Choices {
			owner := c.Option()
			if owner == nil {
				t.Fatalf("%s %s: nil owner", opt.Keyword, c.Name)
			}
			if owner != opt {
				t.Errorf("%s %s: owner is %s", opt.Keyword, c.Name, owner.Keyword)
			}
			found := false
			for _, cc := range owner.Choices {
				if cc == c {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s %s: not contained in owner", opt.Keyword, c.Name)
			}
		}
	}
}

// TestCustomNameRewrite checks that vendor choices named like the custom
// mechanism are stored under the reserved marker and never verbatim.
func TestCustomNameRewrite(t *testing.T) {
	doc := testDocument(t)

	if c := doc.FindChoice("Watermark", "_Custom"); c == nil {
		t.Error("Watermark _Custom missing")
	} else if c.Text != "Vendor Custom" {
		t.Errorf("Watermark _Custom text = %q", c.Text)
	}
	// no declared custom mechanism, so no verbatim "Custom" choice either
	if doc.FindChoice("Watermark", "Custom") != nil {
		t.Error("Watermark has a verbatim Custom choice")
	}

	// PageSize: the real Custom choice comes from *CustomPageSize True,
	// the vendor "Custom.Odd" choice is rewritten
	if doc.FindChoice("PageSize", "Custom") == nil {
		t.Error("PageSize Custom missing")
	}
	if doc.FindChoice("PageSize", "_Custom.Odd") == nil {
		t.Error("PageSize _Custom.Odd missing")
	}

	// the default redirects onto the rewritten name
	staple := doc.FindOption("StapleLocation")
	if staple == nil {
		t.Fatal("StapleLocation missing")
	}
	if staple.DefaultChoice != "_Custom.4Staples" {
		t.Errorf("StapleLocation default = %q", staple.DefaultChoice)
	}
}

func TestGroups(t *testing.T) {
	doc := testDocument(t)

	var names []string
	for _, g := range doc.Groups {
		names = append(names, g.Name)
	}
	if d := cmp.Diff([]string{"General", "Media", "JCL"}, names); d != "" {
		t.Errorf("group names (-want +got):\n%s", d)
	}

	jcl := doc.FindOption("JCLPassword")
	if jcl == nil || jcl.Section != SectionJCL {
		t.Errorf("JCLPassword: %+v", jcl)
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 0.001 }

func TestSizes(t *testing.T) {
	doc := testDocument(t)

	letter := doc.Size("Letter")
	if letter == nil {
		t.Fatal("Letter missing")
	}
	if !approx(letter.Width, 612) || !approx(letter.Length, 792) {
		t.Errorf("Letter dimensions: %g x %g", letter.Width, letter.Length)
	}
	if !approx(letter.Left, 12.24) || !approx(letter.Bottom, 12.06) ||
		!approx(letter.Right, 12.24) || !approx(letter.Top, 11.94) {
		t.Errorf("Letter margins: %g %g %g %g",
			letter.Left, letter.Bottom, letter.Right, letter.Top)
	}

	custom := doc.Size("Custom")
	if custom == nil {
		t.Fatal("Custom missing")
	}
	if !approx(custom.Width, 612) || !approx(custom.Length, 1009) {
		t.Errorf("Custom dimensions: %g x %g", custom.Width, custom.Length)
	}

	min, max, margins, ok := doc.PageSizeLimits()
	if !ok {
		t.Fatal("PageSizeLimits: not variable")
	}
	if !approx(min[0], 72) || !approx(min[1], 72) ||
		!approx(max[0], 612) || !approx(max[1], 1009) {
		t.Errorf("limits: min %v max %v", min, max)
	}
	if !approx(margins[0], 12) || !approx(margins[3], 12) {
		t.Errorf("margins: %v", margins)
	}
}

func TestConstraints(t *testing.T) {
	doc := testDocument(t)

	want := []*Constraint{
		{Option1: "Duplex", Choice1: "DuplexTumble", Option2: "MediaType", Choice2: "Transparency"},
		{Option1: "Duplex", Choice1: "", Option2: "MediaType", Choice2: "Transparency"},
	}
	if d := cmp.Diff(want, doc.Constraints); d != "" {
		t.Errorf("constraints (-want +got):\n%s", d)
	}
}

func TestCustomParams(t *testing.T) {
	doc := testDocument(t)

	co := doc.FindCustomOption("PageSize")
	if co == nil {
		t.Fatal("PageSize custom option missing")
	}
	var order []int
	for _, p := range co.Params {
		order = append(order, p.Order)
	}
	if d := cmp.Diff([]int{1, 2, 3, 4, 5}, order); d != "" {
		t.Errorf("param order (-want +got):\n%s", d)
	}

	orient := doc.FindCustomParam("PageSize", "Orientation")
	if orient == nil || orient.Type != CustomParamInt {
		t.Errorf("Orientation: %+v", orient)
	}
	width := doc.FindCustomParam("PageSize", "Width")
	if width == nil || width.Type != CustomParamPoints ||
		!approx(width.Minimum.Real, 72) || !approx(width.Maximum.Real, 612) {
		t.Errorf("Width: %+v", width)
	}

	pw := doc.FindCustomParam("JCLPassword", "Password")
	if pw == nil || pw.Type != CustomParamPasscode ||
		pw.Minimum.String != 4 || pw.Maximum.String != 10 {
		t.Errorf("Password: %+v", pw)
	}
}

func TestBadCustomParamType(t *testing.T) {
	in := "*PPD-Adobe: \"4.3\"\n*ParamCustomFoo Bar: 1 bogus 0 0\n"
	_, err := Read(strings.NewReader(in), nil)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Status != StatusBadCustomParam {
		t.Errorf("got %v, want status %s", err, StatusBadCustomParam)
	}
}

func TestStrictConformance(t *testing.T) {
	const header = "*PPD-Adobe: \"4.3\"\n"
	cases := []struct {
		name   string
		in     string
		status Status
	}{
		{
			"nested OpenUI",
			header + "*OpenUI *A/A: PickOne\n*OpenUI *B/B: PickOne\n",
			StatusNestedOpenUI,
		},
		{
			"unmatched CloseUI",
			header + "*CloseUI: *A\n",
			StatusBadCloseUI,
		},
		{
			"unmatched CloseGroup",
			header + "*CloseGroup: General\n",
			StatusBadCloseGroup,
		},
		{
			"dangling OpenUI",
			header + "*OpenUI *A/A: PickOne\n",
			StatusMissingCloseUI,
		},
		{
			"dangling OpenGroup",
			header + "*OpenGroup: General/General\n",
			StatusMissingCloseGroup,
		},
	}

	for _, c := range cases {
		_, err := Read(strings.NewReader(c.in), &ReaderOptions{Conformance: ConformStrict})
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Status != c.status {
			t.Errorf("%s: got %v, want status %s", c.name, err, c.status)
		}

		doc, err := Read(strings.NewReader(c.in), nil)
		if err != nil || doc == nil {
			t.Errorf("%s: relaxed mode failed: %v", c.name, err)
		}
	}
}

// TestCustomOrderOverride checks that the *Custom<keyword> ordering
// declaration attaches to the base option's Custom choice instead of
// creating a phantom option.
func TestCustomOrderOverride(t *testing.T) {
	doc := testDocument(t)

	if doc.FindOption("CustomPageSize") != nil {
		t.Error("phantom CustomPageSize option")
	}
	od, ok := doc.customOrder["PageSize"]
	if !ok {
		t.Fatal("PageSize custom order missing")
	}
	if od.section != SectionAny || od.order != 60 {
		t.Errorf("custom order: %v %g", od.section, od.order)
	}
}
