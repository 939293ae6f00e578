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

// Package pwg holds the standard media vocabulary: the canonical size
// table, tolerant size matching, and the name normalization rules shared
// by the cache builder and the synthesizer.
package pwg

import (
	"math"
	"strconv"
	"strings"
)

// All dimensions are in hundredths of millimeters.

// Epsilon is the matching tolerance for size dimensions.  Two sizes whose
// widths and lengths each differ by no more than Epsilon are candidates
// for the same slot; a larger difference never merges them.
const Epsilon = 2

// FromPoints converts a dimension in PostScript points to hundredths of
// millimeters, rounding to the nearest unit.
func FromPoints(pts float64) int {
	return int(math.Round(pts * 2540.0 / 72.0))
}

// ToPoints converts hundredths of millimeters to PostScript points.
func ToPoints(units int) float64 {
	return float64(units) * 72.0 / 2540.0
}

// Media is one entry of the canonical size table: the self-describing PWG
// name, the legacy PPD name (empty for sizes with no legacy equivalent),
// and the dimensions.
type Media struct {
	Name    string // PWG 5101.1 self-describing name
	PPDName string
	Width   int
	Length  int
}

// mediaTable is ordered smallest to largest width so that MediaForSize can
// stop early.  The PPD names are the standard Adobe appendix names.
var mediaTable = []Media{
	{"na_index-3x5_3x5in", "3x5", 7620, 12700},
	{"na_personal_3.625x6.5in", "EnvPersonal", 9208, 16510},
	{"na_monarch_3.875x7.5in", "EnvMonarch", 9842, 19050},
	{"na_index-4x6_4x6in", "4x6", 10160, 15240},
	{"na_number-10_4.125x9.5in", "Env10", 10477, 24130},
	{"iso_dl_110x220mm", "EnvDL", 11000, 22000},
	{"iso_b6_125x176mm", "ISOB6", 12500, 17600},
	{"na_5x7_5x7in", "5x7", 12700, 17780},
	{"na_index-5x8_5x8in", "5x8", 12700, 20320},
	{"iso_c6_114x162mm", "EnvC6", 11400, 16200},
	{"iso_a6_105x148mm", "A6", 10500, 14800},
	{"jpn_hagaki_100x148mm", "Postcard", 10000, 14800},
	{"iso_a5_148x210mm", "A5", 14800, 21000},
	{"iso_c5_162x229mm", "EnvC5", 16200, 22900},
	{"jis_b5_182x257mm", "B5", 18200, 25700},
	{"iso_b5_176x250mm", "ISOB5", 17600, 25000},
	{"na_executive_7.25x10.5in", "Executive", 18415, 26670},
	{"na_govt-letter_8x10in", "8x10", 20320, 25400},
	{"iso_a4_210x297mm", "A4", 21000, 29700},
	{"na_letter_8.5x11in", "Letter", 21590, 27940},
	{"na_legal_8.5x14in", "Legal", 21590, 35560},
	{"na_foolscap_8.5x13in", "FanFoldGermanLegal", 21590, 33020},
	{"jis_b4_257x364mm", "B4", 25700, 36400},
	{"na_ledger_11x17in", "Tabloid", 27940, 43180},
	{"iso_a3_297x420mm", "A3", 29700, 42000},
	{"iso_c4_229x324mm", "EnvC4", 22900, 32400},
	{"na_arch-a_9x12in", "ARCHA", 22860, 30480},
	{"na_arch-b_12x18in", "ARCHB", 30480, 45720},
	{"iso_b4_250x353mm", "ISOB4", 25000, 35300},
	{"na_c_17x22in", "AnsiC", 43180, 55880},
	{"iso_a2_420x594mm", "A2", 42000, 59400},
	{"na_d_22x34in", "AnsiD", 55880, 86360},
	{"iso_a1_594x841mm", "A1", 59400, 84100},
	{"na_e_34x44in", "AnsiE", 86360, 111760},
	{"iso_a0_841x1189mm", "A0", 84100, 118900},
}

// MediaForSize returns the canonical entry whose dimensions are nearest to
// the given size, or nil when no entry is within Epsilon in both axes.
// Matching is symmetric: it depends only on the absolute per-axis
// differences.
func MediaForSize(width, length int) *Media {
	var best *Media
	bestDelta := math.MaxInt

	for i := range mediaTable {
		m := &mediaTable[i]
		dw := abs(m.Width - width)
		dl := abs(m.Length - length)
		if dw > Epsilon || dl > Epsilon {
			continue
		}
		if dw+dl < bestDelta {
			best = m
			bestDelta = dw + dl
		}
	}
	return best
}

// MediaForName returns the canonical entry with the given PWG name, or nil.
func MediaForName(name string) *Media {
	for i := range mediaTable {
		if mediaTable[i].Name == name {
			return &mediaTable[i]
		}
	}
	return nil
}

// MediaForPPD returns the canonical entry with the given legacy PPD name,
// or nil.
func MediaForPPD(name string) *Media {
	for i := range mediaTable {
		if strings.EqualFold(mediaTable[i].PPDName, name) {
			return &mediaTable[i]
		}
	}
	return nil
}

// MediaSizeName builds a self-describing size name for dimensions that do
// not match a canonical entry.  Sizes on whole-millimeter boundaries are
// named in millimeters under the "om" (other, metric) class, everything
// else in inches under "oe".
func MediaSizeName(base string, width, length int) string {
	if base == "" {
		base = "custom"
	}
	if width%100 == 0 && length%100 == 0 {
		return "om_" + base + "_" +
			strconv.Itoa(width/100) + "x" + strconv.Itoa(length/100) + "mm"
	}
	return "oe_" + base + "_" +
		inches(width) + "x" + inches(length) + "in"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// inches formats a dimension in hundredths of millimeters as inches with
// up to two decimals, trimming trailing zeros ("8.5", "11").
func inches(units int) string {
	hundredths := int(math.Round(float64(units) * 100.0 / 2540.0))
	s := strconv.Itoa(hundredths / 100)
	frac := hundredths % 100
	if frac == 0 {
		return s
	}
	if frac%10 == 0 {
		return s + "." + strconv.Itoa(frac/10)
	}
	if frac < 10 {
		return s + ".0" + strconv.Itoa(frac)
	}
	return s + "." + strconv.Itoa(frac)
}
