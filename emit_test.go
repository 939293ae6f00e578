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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collectNames(doc *Document, section Section, minOrder float64) []string {
	var names []string
	for _, c := range doc.Collect(section, minOrder) {
		names = append(names, c.Option().Keyword+" "+c.Name)
	}
	return names
}

func TestCollectOrder(t *testing.T) {
	doc := testDocument(t)
	doc.MarkDefaults()
	doc.Mark("PageSize", "Letter")

	// ordered by OrderDependency value, file order breaking the
	// InputSlot/ManualFeed tie
	want := []string{
		"Watermark False",
		"InputSlot Tray1",
		"ManualFeed False",
		"MediaType Plain",
		"PageSize Letter",
		"Duplex None",
		"StapleLocation _Custom.4Staples",
	}
	if d := cmp.Diff(want, collectNames(doc, SectionAny, 0)); d != "" {
		t.Errorf("Collect(AnySetup, 0) (-want +got):\n%s", d)
	}

	want = []string{
		"MediaType Plain",
		"PageSize Letter",
		"Duplex None",
		"StapleLocation _Custom.4Staples",
	}
	if d := cmp.Diff(want, collectNames(doc, SectionAny, 25)); d != "" {
		t.Errorf("Collect(AnySetup, 25) (-want +got):\n%s", d)
	}
}

// TestResolutionPhase checks that an option with an explicit section is
// emitted only in that section.
func TestResolutionPhase(t *testing.T) {
	doc := testDocument(t)
	doc.MarkDefaults()

	if out := doc.EmitString(SectionAny, 0); strings.Contains(out, "HWResolution") {
		t.Errorf("Resolution code leaked into AnySetup:\n%s", out)
	}

	out := doc.EmitString(SectionPage, 0)
	if !strings.Contains(out, "%%BeginFeature: *Resolution 600dpi") {
		t.Errorf("Resolution code missing from PageSetup:\n%s", out)
	}
	if !strings.Contains(out, "<</HWResolution[600 600]>>setpagedevice") {
		t.Errorf("Resolution code mangled:\n%s", out)
	}
}

func TestEmitWrapping(t *testing.T) {
	doc := testDocument(t)
	doc.Mark("Duplex", "DuplexNoTumble")

	want := "[{\n" +
		"%%BeginFeature: *Duplex DuplexNoTumble\n" +
		"<</Duplex true/Tumble false>>setpagedevice\n" +
		"%%EndFeature\n" +
		"} stop\n" +
		"]\n"
	if got := doc.EmitString(SectionAny, 0); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

// TestCustomOrderPlacement checks that the Custom page-size choice is
// sorted using its own ordering declaration, not the base option's.
func TestCustomOrderPlacement(t *testing.T) {
	doc := testDocument(t)
	doc.Mark("Duplex", "DuplexNoTumble") // order 50
	doc.Mark("PageSize", "Custom.200x400")

	// the Custom choice moves from order 30 to order 60, behind Duplex
	want := []string{"Duplex DuplexNoTumble", "PageSize Custom"}
	if d := cmp.Diff(want, collectNames(doc, SectionAny, 0)); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	// a plain size keeps the base order
	doc.Mark("PageSize", "Letter")
	want = []string{"PageSize Letter", "Duplex DuplexNoTumble"}
	if d := cmp.Diff(want, collectNames(doc, SectionAny, 0)); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestEmitCustomPageSize(t *testing.T) {
	doc := testDocument(t)
	doc.Mark("PageSize", "Custom.200x400")

	want := "[{\n" +
		"%%BeginFeature: *CustomPageSize True\n" +
		"200\n" +
		"400\n" +
		"0\n" +
		"0\n" +
		"2\n" +
		"pop pop pop <</PageSize[5 -2 roll]>>setpagedevice\n" +
		"%%EndFeature\n" +
		"} stop\n" +
		"]\n"
	if got := doc.EmitString(SectionAny, 0); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEmitJCL(t *testing.T) {
	doc := testDocument(t)
	doc.Mark("JCLPassword", "Custom.1234")

	var buf strings.Builder
	if err := doc.EmitJCL(&buf); err != nil {
		t.Fatal(err)
	}
	want := "\x1b%-12345X@PJL\n" +
		"@PJL SET PASSWORD=1234\n" +
		"@PJL ENTER LANGUAGE = POSTSCRIPT\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := doc.EmitJCLEnd(&buf); err != nil {
		t.Fatal(err)
	}
	if want := "\x1b%-12345X@PJL RESET\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestChoosePageSizeCode(t *testing.T) {
	doc := testDocument(t)

	if got := ChoosePageSizeCode(doc); got != PageCodeNone {
		t.Errorf("nothing marked: %v", got)
	}

	doc.Mark("PageSize", "Letter")
	if got := ChoosePageSizeCode(doc); got != PageCodeSize {
		t.Errorf("Letter: %v", got)
	}

	doc.Mark("ManualFeed", "True")
	if got := ChoosePageSizeCode(doc); got != PageCodeRegion {
		t.Errorf("manual feed: %v", got)
	}

	doc.Mark("ManualFeed", "False")
	doc.Mark("InputSlot", "MPTray") // RequiresPageRegion MPTray: True
	if got := ChoosePageSizeCode(doc); got != PageCodeRegion {
		t.Errorf("MPTray: %v", got)
	}

	doc.Mark("InputSlot", "Tray1")
	if got := ChoosePageSizeCode(doc); got != PageCodeSize {
		t.Errorf("Tray1: %v", got)
	}

	doc.Mark("PageSize", "Custom.200x400")
	doc.Mark("ManualFeed", "True")
	if got := ChoosePageSizeCode(doc); got != PageCodeSize {
		t.Errorf("custom size: %v", got)
	}
}
