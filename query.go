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
	"sort"
	"strings"
)

// FindOption returns the option with the given keyword, or nil.  The lookup
// is case-insensitive, like every name lookup in a PPD file.
func (doc *Document) FindOption(keyword string) *Option {
	key := foldKey(keyword)
	idx := sort.Search(len(doc.sortedOptions), func(i int) bool {
		return foldKey(doc.options[doc.sortedOptions[i]].Keyword) >= key
	})
	if idx < len(doc.sortedOptions) {
		opt := doc.options[doc.sortedOptions[idx]]
		if strings.EqualFold(opt.Keyword, keyword) {
			return opt
		}
	}
	return nil
}

// FindChoice returns the named choice of an option, or nil.
func (doc *Document) FindChoice(keyword, name string) *Choice {
	opt := doc.FindOption(keyword)
	if opt == nil {
		return nil
	}
	return opt.Choice(name)
}

// Choice returns the choice with the given name, or nil.
func (opt *Option) Choice(name string) *Choice {
	for _, c := range opt.Choices {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// AttrIter iterates over same-named attributes.  Each call to FindAttr
// returns an independent iterator, so concurrent searches on one Document
// never interfere.
type AttrIter struct {
	doc  *Document
	name string
	pos  int // position in doc.sortedAttrs of the next candidate
}

// FindAttr returns the first attribute with the given name and, if spec is
// not empty, the given instance qualifier.  The second return value is an
// iterator positioned after the match for use with FindNextAttr; it is
// non-nil even when no attribute matched.
func (doc *Document) FindAttr(name, spec string) (*Attr, *AttrIter) {
	it := &AttrIter{doc: doc, name: name}

	key := foldKey(name)
	it.pos = sort.Search(len(doc.sortedAttrs), func(i int) bool {
		return foldKey(doc.attrs[doc.sortedAttrs[i]].Name) >= key
	})

	for ; it.pos < len(doc.sortedAttrs); it.pos++ {
		attr := doc.attrs[doc.sortedAttrs[it.pos]]
		if !strings.EqualFold(attr.Name, name) {
			it.pos = len(doc.sortedAttrs)
			return nil, it
		}
		if spec == "" || strings.EqualFold(attr.Spec, spec) {
			it.pos++
			return attr, it
		}
	}
	return nil, it
}

// FindNextAttr returns the next attribute sharing the iterator's name (and
// spec, if one was given), or nil when the run of same-named attributes is
// exhausted.
func (it *AttrIter) FindNextAttr(spec string) *Attr {
	for ; it.pos < len(it.doc.sortedAttrs); it.pos++ {
		attr := it.doc.attrs[it.doc.sortedAttrs[it.pos]]
		if !strings.EqualFold(attr.Name, it.name) {
			it.pos = len(it.doc.sortedAttrs)
			return nil
		}
		if spec == "" || strings.EqualFold(attr.Spec, spec) {
			it.pos++
			return attr
		}
	}
	return nil
}

// Attr returns the value of the first attribute with the given name and
// spec, or "" if there is none.
func (doc *Document) Attr(name, spec string) string {
	attr, _ := doc.FindAttr(name, spec)
	if attr == nil {
		return ""
	}
	return attr.Value
}

// FindCustomOption returns the custom parameter set declared for an option
// keyword, or nil.
func (doc *Document) FindCustomOption(keyword string) *CustomOption {
	return doc.customOptions[foldKey(keyword)]
}

// FindCustomParam returns the named parameter of a custom option, or nil.
func (doc *Document) FindCustomParam(keyword, name string) *CustomParam {
	co := doc.FindCustomOption(keyword)
	if co == nil {
		return nil
	}
	for _, p := range co.Params {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Size returns the page size with the given name, or nil.  The reserved
// name "Custom" resolves to a synthetic size carrying the custom limits.
func (doc *Document) Size(name string) *Size {
	if strings.EqualFold(name, "Custom") {
		if !doc.VariableSizes {
			return nil
		}
		return &Size{
			Name:   "Custom",
			Width:  doc.CustomMax[0],
			Length: doc.CustomMax[1],
			Left:   doc.CustomMargins[0],
			Bottom: doc.CustomMargins[1],
			Right:  doc.CustomMargins[2],
			Top:    doc.CustomMargins[3],
		}
	}
	for _, s := range doc.Sizes {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// PageSize returns the size selected for the job, or nil when no PageSize
// or PageRegion choice is marked.
func (doc *Document) PageSize() *Size {
	for _, keyword := range []string{"PageSize", "PageRegion"} {
		if c := doc.MarkedChoice(keyword); c != nil {
			if s := doc.Size(c.Name); s != nil {
				return s
			}
		}
	}
	return nil
}

// PageWidth returns the width of the selected page size in points.
func (doc *Document) PageWidth() float64 {
	if s := doc.PageSize(); s != nil {
		return s.Width
	}
	return 0
}

// PageLength returns the length of the selected page size in points.
func (doc *Document) PageLength() float64 {
	if s := doc.PageSize(); s != nil {
		return s.Length
	}
	return 0
}

// PageSizeLimits reports the custom page-size limits: the minimum and
// maximum width/length and the four margins, all in points.  ok is false if
// the document does not support variable sizes.
func (doc *Document) PageSizeLimits() (min, max [2]float64, margins [4]float64, ok bool) {
	if !doc.VariableSizes {
		return min, max, margins, false
	}
	return doc.CustomMin, doc.CustomMax, doc.CustomMargins, true
}
