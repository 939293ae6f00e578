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

import "golang.org/x/text/language"

// Localizer supplies display strings for standard keywords.  A message
// catalog fetched from the printer is one implementation; tests use a
// fixed map.
type Localizer interface {
	// Localize returns the display string for the given message
	// identifier, or ok=false when the catalog has no entry.
	Localize(locale language.Tag, id string) (text string, ok bool)
}

// localize resolves a message identifier through the configured catalog.
// A missing catalog or a missing entry falls back to the identifier
// itself, never to an error: every keyword is its own last-resort
// display string.
func (g *generator) localize(id string) string {
	if g.opt.Localizer != nil {
		if text, ok := g.opt.Localizer.Localize(g.opt.Locale, id); ok {
			return text
		}
	}
	return id
}

// languageVersion maps the locale onto the language name declared in the
// generated header.
func languageVersion(tag language.Tag) string {
	base, _ := tag.Base()
	if name, ok := languageNames[base.String()]; ok {
		return name
	}
	return "English"
}

var languageNames = map[string]string{
	"en": "English",
	"de": "German",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"pt": "Portuguese",
	"zh": "Chinese",
}
