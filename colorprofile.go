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

	"seehuhn.de/go/icc"
)

// ClassifyProfile decodes an ICC profile and records its color space on
// the ColorProfile.  PPD files that ship cupsICCProfile entries often omit
// DefaultColorSpace; LoadProfiles uses the decoded space to fill the gap.
func (p *ColorProfile) ClassifyProfile(data []byte) error {
	prof, err := icc.Decode(data)
	if err != nil {
		return err
	}
	switch prof.ColorSpace {
	case icc.GraySpace:
		p.Space = ColorSpaceGray
	case icc.RGBSpace:
		p.Space = ColorSpaceRGB
	case icc.CMYKSpace:
		p.Space = ColorSpaceCMYK
	default:
		return errors.New("unsupported ICC color space")
	}
	return nil
}

// LoadProfiles classifies every cupsICCProfile entry whose data the caller
// can supply, and backfills the document's colorspace from the first
// profile when the PPD did not declare one.  Entries whose data cannot be
// loaded or decoded are skipped; profile classification is best-effort.
func (doc *Document) LoadProfiles(load func(fileName string) ([]byte, error)) {
	for _, p := range doc.Profiles {
		if p.FileName == "" || p.Space != ColorSpaceUnknown {
			continue
		}
		data, err := load(p.FileName)
		if err != nil {
			continue
		}
		if err := p.ClassifyProfile(data); err != nil {
			continue
		}
		if doc.ColorSpace == ColorSpaceUnknown {
			doc.ColorSpace = p.Space
		}
	}
}
