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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenPrinting/cups-sub001/ipp"
)

func saveLoad(t *testing.T, c *Cache) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "printer.cache")
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %s", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	return got
}

func TestRoundTrip(t *testing.T) {
	want := cacheTestCache(t)
	got := saveLoad(t, want)

	opts := cmp.AllowUnexported(ipp.Attributes{})
	if d := cmp.Diff(want, got, opts); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
}

// TestRoundTripAttrs checks that printer-reported attributes survive the
// length-prefixed blob byte-exact, nested collections included.
func TestRoundTripAttrs(t *testing.T) {
	want := cacheTestCache(t)
	size := (&ipp.Attributes{}).
		AddInt("x-dimension", 21000).
		AddInt("y-dimension", 29700)
	want.Attrs = (&ipp.Attributes{}).
		AddString("printer-make-and-model", "Example LaserJet 9").
		AddString("urf-supported", "V1.4", "DM3", "RS600").
		AddCollection("media-col-database", (&ipp.Attributes{}).
			AddCollection("media-size", size))

	got := saveLoad(t, want)

	opts := cmp.AllowUnexported(ipp.Attributes{})
	if d := cmp.Diff(want, got, opts); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
}

func TestLoadVersion(t *testing.T) {
	cases := []string{
		"",
		"CacheVersion 2\n",
		"CacheVersion 99\n",
		"MaxCopies 100\n",
	}
	for _, in := range cases {
		path := filepath.Join(t.TempDir(), "printer.cache")
		if err := os.WriteFile(path, []byte(in), 0o666); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, ErrVersion) {
			t.Errorf("%q: got %v, want ErrVersion", in, err)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	const header = "CacheVersion 3\n"
	cases := []struct {
		name string
		in   string
	}{
		{"unknown record", header + "Bogus 1\n"},
		{"bad source", header + "Source Tray1\n"},
		{"bad size", header + "Size Letter na_letter 21590 27940\n"},
		{"bad custom size", header + "CustomSize 1 2 3\n"},
		{"finishings count mismatch", header + "Finishings 20 2 *StapleLocation SinglePortrait\n"},
		{"bad preset cell", header + "Preset 7 1 0\n"},
		{"short attr blob", header + "IPP 100\nATTR x 1\n"},
		{"bad attr blob", header + "IPP 8\ngarbage\n"},
	}
	for _, c := range cases {
		path := filepath.Join(t.TempDir(), "printer.cache")
		if err := os.WriteFile(path, []byte(c.in), 0o666); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: no error", c.name)
		}
	}
}

// TestSaveDeterministic checks that two saves of the same cache are
// byte-identical, finishing values sorted.
func TestSaveDeterministic(t *testing.T) {
	c := cacheTestCache(t)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.cache")
	b := filepath.Join(dir, "b.cache")
	if err := c.Save(a); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(b); err != nil {
		t.Fatal(err)
	}

	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if string(da) != string(db) {
		t.Error("two saves differ")
	}
	if !strings.HasPrefix(string(da), "CacheVersion 3\n") {
		t.Errorf("missing version header: %q", da[:20])
	}

	// finishing records appear in ascending value order
	var last int
	for _, line := range strings.Split(string(da), "\n") {
		if !strings.HasPrefix(line, "Finishings ") {
			continue
		}
		var value, count int
		if _, err := fmt.Sscanf(line, "Finishings %d %d", &value, &count); err != nil {
			t.Fatalf("bad finishings line %q: %s", line, err)
		}
		if value <= last {
			t.Errorf("finishings out of order: %d after %d", value, last)
		}
		last = value
	}
}
