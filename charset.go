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
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// encodingForName maps a PPD LanguageEncoding value to a text decoder.
// Unknown encodings fall back to ISOLatin1, which is also the PPD default.
func encodingForName(name string) encoding.Encoding {
	switch name {
	case "UTF-8", "Unicode":
		return unicode.UTF8
	case "ISOLatin2":
		return charmap.ISO8859_2
	case "ISOLatin5":
		return charmap.ISO8859_9
	case "MacStandard":
		return charmap.Macintosh
	case "WindowsANSI":
		return charmap.Windows1252
	case "JIS83-RKSJ":
		return japanese.ShiftJIS
	default:
		return charmap.ISO8859_1
	}
}

// decodeText converts a translation string from the document's declared
// LanguageEncoding to UTF-8.  Text that is already valid UTF-8 is passed
// through unchanged, which matches what modern PPD generators produce
// regardless of the declared encoding.
func decodeText(enc encoding.Encoding, s string) string {
	if s == "" || utf8.ValidString(s) {
		return s
	}
	out, err := enc.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}
