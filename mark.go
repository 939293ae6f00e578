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
	"strconv"
	"strings"
)

// Marking mutates per-document state.  A Document may be queried from many
// goroutines, but marking must be serialized externally; jobs that run
// concurrently should each work on their own Document.

// MarkDefaults marks the default choice of every option.
func (doc *Document) MarkDefaults() {
	for _, opt := range doc.options {
		if opt.DefaultChoice == "" {
			continue
		}
		doc.Mark(opt.Keyword, opt.DefaultChoice)
	}
}

// Mark selects a choice for the job.  For Boolean and PickOne options any
// previously marked choice of the same option is unmarked; PickMany options
// accumulate.  Marking PageSize unmarks PageRegion and vice versa, and
// selecting an InputSlot clears ManualFeed (and the reverse), mirroring how
// the two pairs shadow each other on real printers.
//
// A choice name of the form "Custom.value" selects the Custom choice and
// stores the value into the option's custom parameters.
func (doc *Document) Mark(keyword, name string) *Choice {
	opt := doc.FindOption(keyword)
	if opt == nil {
		return nil
	}

	if len(name) > 7 && strings.EqualFold(name[:7], "Custom.") {
		if doc.markCustom(opt, name[7:]) {
			name = "Custom"
		}
	}

	choice := opt.Choice(name)
	if choice == nil {
		return nil
	}

	switch {
	case strings.EqualFold(keyword, "PageSize"):
		doc.unmark("PageRegion")
		doc.markSize(name)
	case strings.EqualFold(keyword, "PageRegion"):
		doc.unmark("PageSize")
		doc.markSize(name)
	case strings.EqualFold(keyword, "InputSlot"):
		doc.unmark("ManualFeed")
	case strings.EqualFold(keyword, "ManualFeed"):
		if strings.EqualFold(name, "True") {
			doc.unmark("InputSlot")
		}
	}

	if opt.UI == UIPickMany {
		doc.marked[foldKey(keyword)+":"+foldKey(name)] = choice
	} else {
		doc.marked[foldKey(keyword)] = choice
	}
	return choice
}

// markCustom stores value into the option's custom parameters.  For
// PageSize the value has the form "WIDTHxLENGTH" in points; for other
// options the value feeds the first parameter.
func (doc *Document) markCustom(opt *Option, value string) bool {
	co := doc.FindCustomOption(opt.Keyword)
	if co == nil || len(co.Params) == 0 {
		return false
	}

	if strings.EqualFold(opt.Keyword, "PageSize") {
		dims := strings.SplitN(value, "x", 2)
		if len(dims) != 2 {
			return false
		}
		w, err1 := strconv.ParseFloat(dims[0], 64)
		l, err2 := strconv.ParseFloat(dims[1], 64)
		if err1 != nil || err2 != nil {
			return false
		}
		if p := doc.FindCustomParam("PageSize", "Width"); p != nil {
			p.Value.Real = w
		}
		if p := doc.FindCustomParam("PageSize", "Height"); p != nil {
			p.Value.Real = l
		}
		return true
	}

	param := co.Params[0]
	switch param.Type {
	case CustomParamInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return false
		}
		param.Value.Integer = n
	case CustomParamCurve, CustomParamInvCurve, CustomParamPoints, CustomParamReal:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		param.Value.Real = f
	default:
		param.Value.String = value
	}
	return true
}

func (doc *Document) markSize(name string) {
	for _, s := range doc.Sizes {
		s.Marked = strings.EqualFold(s.Name, name)
	}
}

func (doc *Document) unmark(keyword string) {
	delete(doc.marked, foldKey(keyword))
	prefix := foldKey(keyword) + ":"
	for k := range doc.marked {
		if strings.HasPrefix(k, prefix) {
			delete(doc.marked, k)
		}
	}
}

// MarkedChoice returns the choice currently marked for an option, or nil.
// For PickMany options the first marked choice in declaration order is
// returned; use MarkedChoices to see all of them.
func (doc *Document) MarkedChoice(keyword string) *Choice {
	if c, ok := doc.marked[foldKey(keyword)]; ok {
		return c
	}
	if all := doc.MarkedChoices(keyword); len(all) > 0 {
		return all[0]
	}
	return nil
}

// MarkedChoices returns every choice marked for an option, in the order
// the choices are declared in the PPD file.
func (doc *Document) MarkedChoices(keyword string) []*Choice {
	var out []*Choice
	if c, ok := doc.marked[foldKey(keyword)]; ok {
		out = append(out, c)
	}
	opt := doc.FindOption(keyword)
	if opt == nil {
		return out
	}
	prefix := foldKey(keyword) + ":"
	for _, c := range opt.Choices {
		if _, ok := doc.marked[prefix+foldKey(c.Name)]; ok {
			out = append(out, c)
		}
	}
	return out
}

// IsMarked reports whether the given choice is selected for the job.
func (doc *Document) IsMarked(keyword, name string) bool {
	c := doc.marked[foldKey(keyword)]
	if c != nil && strings.EqualFold(c.Name, name) {
		return true
	}
	_, ok := doc.marked[foldKey(keyword)+":"+foldKey(name)]
	return ok
}

// ConflictCount returns the number of UIConstraints violated by the current
// marking.  An empty choice field in a constraint matches any marked
// choice of that option; for Boolean options it matches only "True", since
// constraining against an unselected toggle would make every document
// conflict with itself.
func (doc *Document) ConflictCount() int {
	conflicts := 0
	for _, con := range doc.Constraints {
		if doc.constrained(con.Option1, con.Choice1) &&
			doc.constrained(con.Option2, con.Choice2) {
			conflicts++
		}
	}
	return conflicts
}

func (doc *Document) constrained(keyword, choice string) bool {
	if choice != "" {
		return doc.IsMarked(keyword, choice)
	}
	c := doc.MarkedChoice(keyword)
	if c == nil {
		return false
	}
	if opt := c.Option(); opt != nil && opt.UI == UIBoolean {
		return strings.EqualFold(c.Name, "True")
	}
	return true
}
