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
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xdg-go/stringprep"
)

// Collect returns every marked choice whose option is emitted in the given
// section with an order value of at least minOrder, sorted ascending by
// order (stable for equal orders).
//
// One correction applies during collection: a marked "Custom" choice whose
// option has a "*OrderDependency: n section *Custom<keyword>" declaration
// is placed using that declaration instead of the option's own section and
// order.
func (doc *Document) Collect(section Section, minOrder float64) []*Choice {
	type placed struct {
		choice *Choice
		order  float64
		seq    int
	}
	var chosen []placed

	seq := 0
	for _, opt := range doc.options {
		for _, choice := range doc.MarkedChoices(opt.Keyword) {
			sec, order := opt.Section, opt.Order
			if strings.EqualFold(choice.Name, "Custom") {
				if od, ok := doc.customOrder[opt.Keyword]; ok {
					sec, order = od.section, od.order
				}
			}
			if sec == section && order >= minOrder {
				chosen = append(chosen, placed{choice, order, seq})
			}
			seq++
		}
	}

	sort.SliceStable(chosen, func(i, j int) bool {
		if chosen[i].order != chosen[j].order {
			return chosen[i].order < chosen[j].order
		}
		return chosen[i].seq < chosen[j].seq
	})

	out := make([]*Choice, len(chosen))
	for i, p := range chosen {
		out[i] = p.choice
	}
	return out
}

// EmitString assembles the control code for one output section.  JCL code
// is concatenated raw; all other sections wrap each option's code in a
// stopped context so one bad fragment cannot abort the remaining options.
func (doc *Document) EmitString(section Section, minOrder float64) string {
	var buf strings.Builder

	for _, choice := range doc.Collect(section, minOrder) {
		opt := choice.Option()
		if opt == nil {
			continue
		}

		if section == SectionJCL {
			buf.WriteString(doc.substituteParams(opt, choice.Code))
			continue
		}

		isCustom := strings.EqualFold(choice.Name, "Custom")
		switch {
		case isCustom && strings.EqualFold(opt.Keyword, "PageSize"):
			doc.emitCustomPageSize(&buf, choice)
		case isCustom:
			doc.emitCustomChoice(&buf, opt, choice)
		default:
			buf.WriteString("[{\n%%BeginFeature: *")
			buf.WriteString(opt.Keyword)
			buf.WriteByte(' ')
			buf.WriteString(choice.Name)
			buf.WriteByte('\n')
			buf.WriteString(choice.Code)
			if !strings.HasSuffix(choice.Code, "\n") {
				buf.WriteByte('\n')
			}
			buf.WriteString("%%EndFeature\n} stop\n]\n")
		}
	}

	return buf.String()
}

// Emit writes the code for one section to w.
func (doc *Document) Emit(w io.Writer, section Section) error {
	_, err := io.WriteString(w, doc.EmitString(section, 0))
	return err
}

// EmitJCL writes the JCL preamble, the collected JCL option code, and the
// enter-PostScript command.
func (doc *Document) EmitJCL(w io.Writer) error {
	var buf strings.Builder
	buf.WriteString(doc.JCLBegin)
	buf.WriteString(doc.EmitString(SectionJCL, 0))
	buf.WriteString(doc.JCLToPS)
	_, err := io.WriteString(w, buf.String())
	return err
}

// EmitJCLEnd writes the JCL postamble.
func (doc *Document) EmitJCLEnd(w io.Writer) error {
	_, err := io.WriteString(w, doc.JCLEnd)
	return err
}

// emitCustomPageSize writes the fixed 5-value page-size command.  The
// Width, Height, and Orientation parameter declarations choose which of
// the five positions each value lands in; the orientation is the
// upside-down rotation, clamped into the declared range so that consumers
// that cannot rotate still get a value they accept.
func (doc *Document) emitCustomPageSize(buf *strings.Builder, choice *Choice) {
	values := [5]string{"0", "0", "0", "0", "0"}

	pos := func(name string, fallback int) int {
		if p := doc.FindCustomParam("PageSize", name); p != nil &&
			p.Order >= 1 && p.Order <= 5 {
			return p.Order
		}
		return fallback
	}

	width, length := doc.CustomMax[0], doc.CustomMax[1]
	if p := doc.FindCustomParam("PageSize", "Width"); p != nil && p.Value.Real > 0 {
		width = p.Value.Real
	}
	if p := doc.FindCustomParam("PageSize", "Height"); p != nil && p.Value.Real > 0 {
		length = p.Value.Real
	}

	orientation := 2 // 180 degrees
	if p := doc.FindCustomParam("PageSize", "Orientation"); p != nil {
		lo, hi := p.Minimum.Integer, p.Maximum.Integer
		if p.Type != CustomParamInt {
			lo, hi = int(p.Minimum.Real), int(p.Maximum.Real)
		}
		if orientation < lo {
			orientation = lo
		}
		if hi >= lo && orientation > hi {
			orientation = hi
		}
	}

	values[pos("Width", 1)-1] = formatReal(width)
	values[pos("Height", 2)-1] = formatReal(length)
	values[pos("Orientation", 3)-1] = strconv.Itoa(orientation)

	buf.WriteString("[{\n%%BeginFeature: *CustomPageSize True\n")
	for _, v := range values {
		buf.WriteString(v)
		buf.WriteByte('\n')
	}
	buf.WriteString(choice.Code)
	if !strings.HasSuffix(choice.Code, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteString("%%EndFeature\n} stop\n]\n")
}

// emitCustomChoice writes a generic custom option: the parameter values in
// declared order, then the option code that consumes them.
func (doc *Document) emitCustomChoice(buf *strings.Builder, opt *Option, choice *Choice) {
	buf.WriteString("[{\n%%BeginFeature: *Custom")
	buf.WriteString(opt.Keyword)
	buf.WriteString(" True\n")
	if co := doc.FindCustomOption(opt.Keyword); co != nil {
		for _, p := range co.Params {
			switch p.Type {
			case CustomParamString, CustomParamPasscode, CustomParamPassword:
				buf.WriteByte('(')
				buf.WriteString(psEscape(paramString(p)))
				buf.WriteString(")\n")
			default:
				buf.WriteString(paramString(p))
				buf.WriteByte('\n')
			}
		}
	}
	buf.WriteString(choice.Code)
	if !strings.HasSuffix(choice.Code, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteString("%%EndFeature\n} stop\n]\n")
}

// substituteParams replaces \1 through \9 in JCL code with the values of
// the option's custom parameters, by declared order.
func (doc *Document) substituteParams(opt *Option, code string) string {
	co := doc.FindCustomOption(opt.Keyword)
	if co == nil || !strings.ContainsRune(code, '\\') {
		return code
	}

	var buf strings.Builder
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if ch != '\\' || i+1 >= len(code) {
			buf.WriteByte(ch)
			continue
		}
		d := code[i+1]
		if d < '1' || d > '9' {
			buf.WriteByte(ch)
			continue
		}
		i++
		idx := int(d - '0')
		for _, p := range co.Params {
			if p.Order == idx {
				buf.WriteString(paramString(p))
				break
			}
		}
	}
	return buf.String()
}

// paramString formats a custom parameter value for emission.  Numbers use
// locale-neutral decimal formatting; passcodes and passwords are run
// through SASLprep so that what reaches the device matches what other
// clients send.
func paramString(p *CustomParam) string {
	switch p.Type {
	case CustomParamInt:
		return strconv.Itoa(p.Value.Integer)
	case CustomParamCurve, CustomParamInvCurve, CustomParamPoints, CustomParamReal:
		return formatReal(p.Value.Real)
	case CustomParamPasscode, CustomParamPassword:
		if prepped, err := stringprep.SASLprep.Prepare(p.Value.String); err == nil {
			return prepped
		}
		return p.Value.String
	default:
		return p.Value.String
	}
}

func formatReal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func psEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return r.Replace(s)
}

// PageCode tells a job which page selection command to send.
type PageCode int

const (
	PageCodeNone PageCode = iota
	PageCodeSize
	PageCodeRegion
)

// ChoosePageSizeCode decides whether a job should emit the PageSize code,
// the PageRegion code, or neither.  PageRegion is used when the input
// source requires it (a RequiresPageRegion attribute naming the marked
// slot, or "All") or when manual feed is selected; the Custom size always
// uses the PageSize code.
func ChoosePageSizeCode(doc *Document) PageCode {
	size := doc.MarkedChoice("PageSize")
	if size == nil {
		size = doc.MarkedChoice("PageRegion")
	}
	if size == nil {
		return PageCodeNone
	}

	if strings.EqualFold(size.Name, "Custom") {
		return PageCodeSize
	}

	manualFeed := false
	if mf := doc.MarkedChoice("ManualFeed"); mf != nil {
		manualFeed = strings.EqualFold(mf.Name, "True")
	}

	var rpr *Attr
	if slot := doc.MarkedChoice("InputSlot"); slot != nil {
		rpr, _ = doc.FindAttr("RequiresPageRegion", slot.Name)
	}
	if rpr == nil {
		rpr, _ = doc.FindAttr("RequiresPageRegion", "All")
	}

	if manualFeed || (rpr != nil && strings.EqualFold(rpr.Value, "True")) {
		return PageCodeRegion
	}
	return PageCodeSize
}
