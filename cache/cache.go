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

// Package cache derives the vendor-to-standard translation table from a
// parsed PPD Document, persists it, and answers translation queries in
// both directions.  A Cache is built once and immutable afterwards.
package cache

import (
	"strings"

	"github.com/OpenPrinting/cups-sub001/ipp"
	"github.com/OpenPrinting/cups-sub001/pwg"
)

// Map pairs a vendor PPD name with its standard PWG keyword.
type Map struct {
	PPD string
	PWG string
}

// Size is one media size known to the cache.  Dimensions and margins are
// in hundredths of millimeters.
type Size struct {
	Map
	Width      int
	Length     int
	Left       int
	Bottom     int
	Right      int
	Top        int
	Borderless bool
}

// imageable returns the area inside the margins, used to break ties when
// two near-identical sizes compete for one slot.
func (s *Size) imageable() int64 {
	w := int64(s.Width - s.Left - s.Right)
	l := int64(s.Length - s.Bottom - s.Top)
	if w < 0 || l < 0 {
		return 0
	}
	return w * l
}

// OptionValue is one vendor option selection.
type OptionValue struct {
	Option string
	Value  string
}

// ColorMode indexes the first axis of the presets matrix.
type ColorMode int

const (
	ColorModeMonochrome ColorMode = iota
	ColorModeColor
	NumColorModes
)

// Quality indexes the second axis of the presets matrix.
type Quality int

const (
	QualityDraft Quality = iota
	QualityNormal
	QualityHigh
	NumQualities
)

// Cache is the complete vendor/standard translation aggregate for one
// printer.
type Cache struct {
	// input sources, media types, and output bins, vendor name first
	Sources []Map
	Types   []Map
	Bins    []Map

	Sizes         []Size
	CustomMin     [2]int // width, length in hundredths of millimeters
	CustomMax     [2]int
	CustomMargins [4]int // left, bottom, right, top

	// vendor option keywords the standard axes live on
	SourceOption string
	SidesOption  string

	Sides1Sided      string
	Sides2SidedLong  string
	Sides2SidedShort string

	// Finishings maps a standard finishing value to the vendor
	// selections that produce it.
	Finishings map[int][]OptionValue

	Presets [NumColorModes][NumQualities][]OptionValue

	Filters    []string
	PreFilters []string

	MaxCopies                int
	AccountIDRequired        bool
	AccountingUserIDRequired bool
	Password                 string // job password format, "" when not required
	Mandatory                []string
	ChargeInfoURI            string
	SingleFile               bool

	// Attrs carries the raw printer-reported attributes for caches built
	// from a live printer; nil for caches built from a vendor file.
	Attrs *ipp.Attributes
}

// SourceForPPD translates a vendor input-source name to the standard
// keyword, or "".
func (c *Cache) SourceForPPD(name string) string { return forPPD(c.Sources, name) }

// SourceForPWG is the exact inverse of SourceForPPD.
func (c *Cache) SourceForPWG(keyword string) string { return forPWG(c.Sources, keyword) }

// TypeForPPD translates a vendor media-type name to the standard keyword.
func (c *Cache) TypeForPPD(name string) string { return forPPD(c.Types, name) }

// TypeForPWG is the exact inverse of TypeForPPD.
func (c *Cache) TypeForPWG(keyword string) string { return forPWG(c.Types, keyword) }

// BinForPPD translates a vendor output-bin name to the standard keyword.
func (c *Cache) BinForPPD(name string) string { return forPPD(c.Bins, name) }

// BinForPWG is the exact inverse of BinForPPD.
func (c *Cache) BinForPWG(keyword string) string { return forPWG(c.Bins, keyword) }

func forPPD(maps []Map, name string) string {
	for _, m := range maps {
		if strings.EqualFold(m.PPD, name) {
			return m.PWG
		}
	}
	return ""
}

func forPWG(maps []Map, keyword string) string {
	for _, m := range maps {
		if m.PWG == keyword {
			return m.PPD
		}
	}
	return ""
}

// SizeForPPD returns the cache entry with the given vendor size name.
func (c *Cache) SizeForPPD(name string) *Size {
	for i := range c.Sizes {
		if strings.EqualFold(c.Sizes[i].PPD, name) {
			return &c.Sizes[i]
		}
	}
	return nil
}

// SizeForPWG returns the cache entry with the given standard size name.
func (c *Cache) SizeForPWG(keyword string) *Size {
	for i := range c.Sizes {
		if c.Sizes[i].PWG == keyword {
			return &c.Sizes[i]
		}
	}
	return nil
}

// SizeForDimensions returns the entry whose dimensions are within
// pwg.Epsilon of the given size in both axes, preferring non-borderless
// entries, or nil.
func (c *Cache) SizeForDimensions(width, length int) *Size {
	var borderless *Size
	for i := range c.Sizes {
		s := &c.Sizes[i]
		if !near(s, width, length) {
			continue
		}
		if !s.Borderless {
			return s
		}
		if borderless == nil {
			borderless = s
		}
	}
	return borderless
}

func near(s *Size, width, length int) bool {
	dw := s.Width - width
	if dw < 0 {
		dw = -dw
	}
	dl := s.Length - length
	if dl < 0 {
		dl = -dl
	}
	return dw <= pwg.Epsilon && dl <= pwg.Epsilon
}
