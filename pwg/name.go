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

package pwg

import "strings"

// UnppdizeName converts a vendor PPD name into a standard keyword:
// lower-cased, with runs of non-alphanumeric characters collapsed into a
// single dash and a dash inserted at every letter/digit boundary, so that
// "Tray1" becomes "tray-1" and "Photo Paper/Glossy" becomes
// "photo-paper-glossy".
func UnppdizeName(name string) string {
	var buf strings.Builder
	dash := true // suppress a leading dash
	prevLetter := false
	prevDigit := false

	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
			fallthrough
		case r >= 'a' && r <= 'z':
			if prevDigit {
				buf.WriteByte('-')
			}
			buf.WriteRune(r)
			dash = false
			prevLetter, prevDigit = true, false
		case r >= '0' && r <= '9':
			if prevLetter {
				buf.WriteByte('-')
			}
			buf.WriteRune(r)
			dash = false
			prevLetter, prevDigit = false, true
		default:
			if !dash {
				buf.WriteByte('-')
				dash = true
			}
			prevLetter, prevDigit = false, false
		}
	}

	return strings.TrimRight(buf.String(), "-")
}

// PpdizeName is the reverse direction: a standard keyword becomes a vendor
// style PPD name with each dash-separated segment capitalized, e.g.
// "photographic-glossy" becomes "PhotographicGlossy".  Digit segments are
// appended without a separator.
func PpdizeName(keyword string) string {
	var buf strings.Builder
	for _, seg := range strings.Split(keyword, "-") {
		if seg == "" {
			continue
		}
		if seg[0] >= 'a' && seg[0] <= 'z' {
			buf.WriteByte(seg[0] - ('a' - 'A'))
			buf.WriteString(seg[1:])
		} else {
			buf.WriteString(seg)
		}
	}
	return buf.String()
}
