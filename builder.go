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
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
)

// Conformance selects how tolerant the builder is of non-conforming input.
type Conformance int

const (
	// ConformRelaxed silently tolerates borderline defects such as an
	// unclosed group or stray whitespace.  This is the mode to use for
	// real-world vendor files.
	ConformRelaxed Conformance = iota

	// ConformStrict promotes borderline defects to hard errors.
	ConformStrict
)

// ReaderOptions controls parsing.  A nil *ReaderOptions is equivalent to the
// zero value.
type ReaderOptions struct {
	Conformance Conformance
}

// defaultGroup is the group shorthand options are placed in.
const defaultGroup = "General"

// nonUIGroup holds options that exist only for ordering purposes, e.g. a
// filter's OrderDependency with no matching UI option.  The leading "?"
// keeps the group out of user interfaces.
const nonUIGroup = "?NonUI"

// customPrefix is prepended to vendor choice names that would collide with
// the reserved "Custom" choice mechanism.
const customPrefix = "_"

// Open reads the PPD file with the given name.
func Open(fileName string, opt *ReaderOptions) (*Document, error) {
	fd, err := os.Open(fileName)
	if err != nil {
		return nil, &ParseError{Status: StatusFileOpenError, Err: err}
	}
	defer fd.Close()
	return Read(fd, opt)
}

// Read parses a PPD file from r and returns the fully built Document.  On
// error the returned document is nil; a partially built document is never
// exposed.
func Read(r io.Reader, opt *ReaderOptions) (*Document, error) {
	if r == nil {
		return nil, &ParseError{Status: StatusNullFile}
	}
	if opt == nil {
		opt = &ReaderOptions{}
	}

	b := &builder{
		lex:     newLexer(r, opt.Conformance == ConformRelaxed),
		conform: opt.Conformance,
	}
	if err := b.run(); err != nil {
		return nil, err
	}
	return b.doc, nil
}

type pendingArea struct {
	llx, lly, urx, ury float64
}

type builder struct {
	lex     *lexer
	conform Conformance
	doc     *Document
	enc     encoding.Encoding

	group    *Group
	subgroup *Group
	option   *Option

	// imageable areas by size name, resolved against the size dimensions
	// during finalize
	areas map[string]pendingArea
}

func (b *builder) strict() bool { return b.conform == ConformStrict }

func (b *builder) run() error {
	// The header must name a 4.x PPD before anything is allocated.
	rec, err := b.lex.next(true)
	if err == io.EOF {
		return &ParseError{Status: StatusMissingPPDAdobe4, Line: b.lex.line}
	}
	if err != nil {
		return err
	}
	if rec.keyword != "PPD-Adobe" || rec.mask&fieldValue == 0 ||
		len(rec.value) == 0 || rec.value[0] != '4' {
		return &ParseError{Status: StatusMissingPPDAdobe4, Line: rec.line}
	}

	b.doc = &Document{
		LanguageLevel: 2,
		ColorSpace:    ColorSpaceUnknown,
		customOptions: make(map[string]*CustomOption),
		customOrder:   make(map[string]orderDependency),
	}
	b.enc = encodingForName("")
	b.areas = make(map[string]pendingArea)

	for {
		rec, err := b.lex.next(true)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := b.record(rec); err != nil {
			return err
		}
	}

	return b.finalize()
}

func (b *builder) record(rec *record) error {
	if rec.mask&fieldText != 0 && len(rec.text) > maxTextLength && b.strict() {
		return &ParseError{Status: StatusTranslationTooLong, Line: rec.line}
	}

	switch rec.keyword {
	case "OpenGroup":
		return b.openGroup(rec)
	case "CloseGroup":
		return b.closeGroup(rec)
	case "OpenSubGroup":
		return b.openSubGroup(rec)
	case "CloseSubGroup":
		b.subgroup = nil
		return nil
	case "OpenUI", "JCLOpenUI":
		return b.openUI(rec)
	case "CloseUI", "JCLCloseUI":
		return b.closeUI(rec)
	case "OrderDependency", "NonUIOrderDependency":
		return b.orderDependency(rec)
	case "UIConstraints", "NonUIConstraints":
		return b.constraint(rec)
	case "PaperDimension":
		return b.paperDimension(rec)
	case "ImageableArea":
		return b.imageableArea(rec)
	case "End":
		return nil
	}

	if strings.HasPrefix(rec.keyword, "ParamCustom") {
		return b.customParam(rec)
	}
	if strings.HasPrefix(rec.keyword, "Custom") && rec.option == "True" {
		return b.customChoice(rec)
	}
	if strings.HasPrefix(rec.keyword, "Default") && len(rec.keyword) > len("Default") {
		return b.defaultValue(rec)
	}

	// a record whose keyword matches the open option is a choice line
	if b.option != nil && rec.mask&fieldOption != 0 && rec.mask&fieldValue != 0 &&
		strings.EqualFold(rec.keyword, b.option.Keyword) {
		b.addChoice(b.option, rec)
		return nil
	}

	// shorthand page-geometry options work without OpenUI/CloseUI
	if (rec.keyword == "PageSize" || rec.keyword == "PageRegion") &&
		rec.mask&fieldOption != 0 && rec.mask&fieldValue != 0 {
		opt := b.getOption(b.getGroup(defaultGroup, ""), rec.keyword)
		if opt.UI != UIPickOne {
			opt.UI = UIPickOne
			opt.Section = SectionPage
		}
		b.addChoice(opt, rec)
		return nil
	}

	if rec.mask&fieldValue == 0 {
		if b.strict() {
			return &ParseError{Status: StatusMissingValue, Line: rec.line}
		}
		return nil
	}

	b.setWellKnown(rec)
	b.addAttr(rec)
	return nil
}

// setWellKnown populates the Document header fields driven by well-known
// main keywords.  The record is additionally stored as a generic attribute
// by the caller, so the information stays reachable both ways.
func (b *builder) setWellKnown(rec *record) {
	doc := b.doc
	switch rec.keyword {
	case "LanguageLevel":
		if n, err := strconv.Atoi(strings.TrimSpace(rec.value)); err == nil {
			doc.LanguageLevel = n
		}
	case "LanguageEncoding":
		doc.LanguageEncoding = rec.value
		b.enc = encodingForName(rec.value)
	case "LanguageVersion":
		doc.LanguageVersion = rec.value
	case "Manufacturer":
		doc.Manufacturer = rec.value
	case "ModelName":
		doc.ModelName = rec.value
	case "NickName":
		doc.NickName = rec.value
	case "ShortNickName":
		doc.ShortNickName = rec.value
	case "PCFileName":
		doc.PCFileName = rec.value
	case "Product":
		doc.Product = append(doc.Product, strings.Trim(rec.value, "()"))
	case "ColorDevice":
		doc.ColorDevice = strings.EqualFold(rec.value, "True")
	case "DefaultColorSpace":
		doc.ColorSpace = colorSpaceForName(rec.value)
	case "JCLBegin":
		doc.JCLBegin = rec.value
	case "JCLToPSInterpreter":
		doc.JCLToPS = rec.value
	case "JCLEnd":
		doc.JCLEnd = rec.value
	case "Protocols":
		doc.Protocols = rec.value
	case "Font":
		doc.Fonts = append(doc.Fonts, rec.option)
	case "cupsFilter", "cupsFilter2":
		doc.Filters = append(doc.Filters, rec.value)
	case "MaxMediaWidth":
		doc.CustomMax[0] = parseFloat(rec.value)
	case "MaxMediaHeight":
		doc.CustomMax[1] = parseFloat(rec.value)
	case "HWMargins":
		nums := parseFloats(rec.value)
		for i := 0; i < len(nums) && i < 4; i++ {
			doc.CustomMargins[i] = nums[i]
		}
	case "VariablePaperSize":
		doc.VariableSizes = strings.EqualFold(rec.value, "True")
	case "ColorProfile":
		b.colorProfile(rec)
	case "cupsICCProfile":
		doc.Profiles = append(doc.Profiles, &ColorProfile{
			Resolution: rec.option,
			MediaType:  rec.text,
			FileName:   rec.value,
		})
	}
}

func colorSpaceForName(name string) ColorSpace {
	switch {
	case strings.EqualFold(name, "Gray"):
		return ColorSpaceGray
	case strings.EqualFold(name, "RGB"):
		return ColorSpaceRGB
	case strings.EqualFold(name, "CMY"):
		return ColorSpaceCMY
	case strings.EqualFold(name, "CMYK"):
		return ColorSpaceCMYK
	case strings.EqualFold(name, "N"):
		return ColorSpaceN
	}
	return ColorSpaceUnknown
}

// colorProfile parses a "*ColorProfile res/type: density gamma m00 ... m22"
// matrix profile.
func (b *builder) colorProfile(rec *record) {
	nums := parseFloats(rec.value)
	if len(nums) < 11 {
		return
	}
	prof := &ColorProfile{
		Resolution: rec.option,
		MediaType:  rec.text,
		Density:    nums[0],
		Gamma:      nums[1],
	}
	for i := 0; i < 9; i++ {
		prof.Matrix[i/3][i%3] = nums[2+i]
	}
	b.doc.Profiles = append(b.doc.Profiles, prof)
}

func (b *builder) openGroup(rec *record) error {
	if rec.mask&fieldValue == 0 {
		return &ParseError{Status: StatusBadOpenGroup, Line: rec.line}
	}
	if b.group != nil && b.strict() {
		return &ParseError{Status: StatusNestedOpenGroup, Line: rec.line}
	}
	name, text := splitNameText(rec.value)
	b.group = b.getGroup(name, b.text(text))
	b.subgroup = nil
	return nil
}

func (b *builder) closeGroup(rec *record) error {
	if b.group == nil {
		if b.strict() {
			return &ParseError{Status: StatusBadCloseGroup, Line: rec.line}
		}
		return nil
	}
	if rec.mask&fieldValue != 0 {
		name, _ := splitNameText(rec.value)
		if !strings.EqualFold(name, b.group.Name) && b.strict() {
			return &ParseError{Status: StatusBadCloseGroup, Line: rec.line}
		}
	}
	b.group = nil
	b.subgroup = nil
	return nil
}

func (b *builder) openSubGroup(rec *record) error {
	if rec.mask&fieldValue == 0 || b.group == nil {
		if b.strict() {
			return &ParseError{Status: StatusBadOpenGroup, Line: rec.line}
		}
		return nil
	}
	if b.subgroup != nil && b.strict() {
		return &ParseError{Status: StatusNestedOpenGroup, Line: rec.line}
	}
	name, text := splitNameText(rec.value)
	for _, sg := range b.group.Subgroups {
		if strings.EqualFold(sg.Name, name) {
			b.subgroup = sg
			return nil
		}
	}
	sg := &Group{Name: name, Text: b.text(text)}
	b.group.Subgroups = append(b.group.Subgroups, sg)
	b.subgroup = sg
	return nil
}

func (b *builder) openUI(rec *record) error {
	if rec.mask&fieldOption == 0 || rec.mask&fieldValue == 0 {
		return &ParseError{Status: StatusBadOpenUI, Line: rec.line}
	}
	if b.option != nil {
		if b.strict() {
			return &ParseError{Status: StatusNestedOpenUI, Line: rec.line}
		}
		b.option = nil
	}

	var ui UIKind
	switch rec.value {
	case "Boolean":
		ui = UIBoolean
	case "PickOne":
		ui = UIPickOne
	case "PickMany":
		ui = UIPickMany
	default:
		return &ParseError{Status: StatusBadOpenUI, Line: rec.line}
	}

	keyword := strings.TrimPrefix(rec.option, "*")
	group := b.subgroup
	if group == nil {
		group = b.group
	}
	if rec.keyword == "JCLOpenUI" {
		group = b.getGroup("JCL", "JCL")
	} else if group == nil {
		group = b.getGroup(defaultGroup, "")
	}

	opt := b.getOption(group, keyword)
	opt.UI = ui
	if rec.mask&fieldText != 0 {
		opt.Text = b.text(rec.text)
	}
	if rec.keyword == "JCLOpenUI" {
		opt.Section = SectionJCL
	}
	b.option = opt
	return nil
}

func (b *builder) closeUI(rec *record) error {
	if b.option == nil {
		if b.strict() {
			return &ParseError{Status: StatusBadCloseUI, Line: rec.line}
		}
		return nil
	}
	b.option = nil
	return nil
}

func (b *builder) orderDependency(rec *record) error {
	if rec.mask&fieldValue == 0 {
		return &ParseError{Status: StatusBadOrderDependency, Line: rec.line}
	}
	fields := strings.Fields(rec.value)
	if len(fields) < 3 {
		return &ParseError{Status: StatusBadOrderDependency, Line: rec.line}
	}

	order, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return &ParseError{Status: StatusBadOrderDependency, Line: rec.line}
	}
	section, ok := sectionForName(fields[1])
	if !ok {
		if b.strict() {
			return &ParseError{Status: StatusBadOrderDependency, Line: rec.line}
		}
		section = SectionAny
	}
	keyword := strings.TrimPrefix(fields[2], "*")

	// "*OrderDependency: n section *CustomFoo" overrides the ordering of
	// option Foo's Custom choice only; there is no option named CustomFoo.
	if base, isCustom := strings.CutPrefix(keyword, "Custom"); isCustom && base != "" {
		if b.findOption(base) != nil {
			b.doc.customOrder[base] = orderDependency{section: section, order: order}
			b.addAttr(rec)
			return nil
		}
	}

	opt := b.findOption(keyword)
	if opt == nil {
		// ordering for a filter or other non-UI control
		opt = b.getOption(b.getGroup(nonUIGroup, ""), keyword)
	}
	opt.Section = section
	opt.Order = order
	b.addAttr(rec)
	return nil
}

func (b *builder) constraint(rec *record) error {
	if rec.mask&fieldValue == 0 {
		return &ParseError{Status: StatusBadUIConstraints, Line: rec.line}
	}

	con := &Constraint{}
	slot := 0 // 0 before first option, 1 after first, 2 after second
	for _, tok := range strings.Fields(rec.value) {
		if strings.HasPrefix(tok, "*") {
			switch slot {
			case 0:
				con.Option1 = tok[1:]
			case 1:
				con.Option2 = tok[1:]
			default:
				return &ParseError{Status: StatusBadUIConstraints, Line: rec.line}
			}
			slot++
		} else {
			switch slot {
			case 1:
				if con.Choice1 != "" {
					return &ParseError{Status: StatusBadUIConstraints, Line: rec.line}
				}
				con.Choice1 = tok
			case 2:
				if con.Choice2 != "" {
					return &ParseError{Status: StatusBadUIConstraints, Line: rec.line}
				}
				con.Choice2 = tok
			default:
				return &ParseError{Status: StatusBadUIConstraints, Line: rec.line}
			}
		}
	}
	if con.Option1 == "" || con.Option2 == "" {
		return &ParseError{Status: StatusBadUIConstraints, Line: rec.line}
	}

	b.doc.Constraints = append(b.doc.Constraints, con)
	return nil
}

func (b *builder) paperDimension(rec *record) error {
	if rec.mask&fieldOption == 0 || rec.mask&fieldValue == 0 {
		return &ParseError{Status: StatusBadValue, Line: rec.line}
	}
	nums := parseFloats(rec.value)
	if len(nums) < 2 {
		return &ParseError{Status: StatusBadValue, Line: rec.line}
	}

	if strings.EqualFold(rec.option, "Custom") {
		// the literal "Custom" size is tracked only through the custom
		// limits, never in the static size table
		if nums[0] > 0 {
			b.doc.CustomMax[0] = nums[0]
		}
		if nums[1] > 0 {
			b.doc.CustomMax[1] = nums[1]
		}
		b.doc.VariableSizes = true
		return nil
	}

	size := b.getSize(rec.option)
	size.Width = nums[0]
	size.Length = nums[1]
	return nil
}

func (b *builder) imageableArea(rec *record) error {
	if rec.mask&fieldOption == 0 || rec.mask&fieldValue == 0 {
		return &ParseError{Status: StatusBadValue, Line: rec.line}
	}
	nums := parseFloats(rec.value)
	if len(nums) < 4 {
		return &ParseError{Status: StatusBadValue, Line: rec.line}
	}

	if strings.EqualFold(rec.option, "Custom") {
		b.doc.CustomMargins = [4]float64{nums[0], nums[1], nums[2], nums[3]}
		return nil
	}

	b.getSize(rec.option)
	b.areas[foldKey(rec.option)] = pendingArea{nums[0], nums[1], nums[2], nums[3]}
	return nil
}

// customParam parses a "*ParamCustomFoo Name/Text: order type min max"
// declaration.
func (b *builder) customParam(rec *record) error {
	if rec.mask&fieldOption == 0 || rec.mask&fieldValue == 0 {
		return &ParseError{Status: StatusBadCustomParam, Line: rec.line}
	}
	keyword := rec.keyword[len("ParamCustom"):]
	fields := strings.Fields(rec.value)
	if len(fields) < 4 {
		return &ParseError{Status: StatusBadCustomParam, Line: rec.line}
	}

	order, err := strconv.Atoi(fields[0])
	if err != nil {
		return &ParseError{Status: StatusBadCustomParam, Line: rec.line}
	}
	typ, ok := customParamTypeNames[fields[1]]
	if !ok {
		return &ParseError{Status: StatusBadCustomParam, Line: rec.line}
	}

	param := &CustomParam{
		Name:  rec.option,
		Text:  b.text(rec.text),
		Order: order,
		Type:  typ,
	}
	if param.Text == "" {
		param.Text = param.Name
	}
	if err := parseCustomLimit(typ, fields[2], &param.Minimum); err != nil {
		return &ParseError{Status: StatusBadCustomParam, Line: rec.line, Err: err}
	}
	if err := parseCustomLimit(typ, fields[3], &param.Maximum); err != nil {
		return &ParseError{Status: StatusBadCustomParam, Line: rec.line, Err: err}
	}

	co := b.doc.customOptions[foldKey(keyword)]
	if co == nil {
		co = &CustomOption{Keyword: keyword}
		b.doc.customOptions[foldKey(keyword)] = co
	}
	co.Params = append(co.Params, param)
	sort.SliceStable(co.Params, func(i, j int) bool {
		return co.Params[i].Order < co.Params[j].Order
	})

	// the custom page-size Width/Height limits back-populate the
	// document's custom dimensions
	if strings.EqualFold(keyword, "PageSize") {
		b.doc.VariableSizes = true
		switch {
		case strings.EqualFold(param.Name, "Width"):
			b.doc.CustomMin[0] = param.Minimum.Real
			b.doc.CustomMax[0] = param.Maximum.Real
		case strings.EqualFold(param.Name, "Height"):
			b.doc.CustomMin[1] = param.Minimum.Real
			b.doc.CustomMax[1] = param.Maximum.Real
		}
	}
	return nil
}

func parseCustomLimit(typ CustomParamType, s string, limit *CustomParamLimit) error {
	switch typ {
	case CustomParamInt:
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		limit.Integer = n
	case CustomParamPasscode, CustomParamPassword, CustomParamString:
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		limit.String = n
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		limit.Real = f
	}
	return nil
}

// customChoice handles "*CustomFoo True: code", which declares the Custom
// choice of option Foo.
func (b *builder) customChoice(rec *record) error {
	keyword := rec.keyword[len("Custom"):]
	if keyword == "" || rec.mask&fieldValue == 0 {
		return &ParseError{Status: StatusBadValue, Line: rec.line}
	}

	opt := b.findOption(keyword)
	if opt == nil {
		if keyword != "PageSize" && keyword != "PageRegion" {
			// tolerated: the custom code may precede its OpenUI
			opt = b.getOption(b.currentGroup(), keyword)
		} else {
			opt = b.getOption(b.getGroup(defaultGroup, ""), keyword)
			opt.UI = UIPickOne
			opt.Section = SectionPage
		}
	}

	choice := b.getChoice(opt, "Custom")
	choice.Text = "Custom"
	choice.Code = rec.value
	if strings.EqualFold(keyword, "PageSize") {
		b.doc.VariableSizes = true
	}
	return nil
}

// defaultValue handles "*DefaultFoo: choice".
func (b *builder) defaultValue(rec *record) error {
	if rec.mask&fieldValue == 0 {
		if b.strict() {
			return &ParseError{Status: StatusMissingValue, Line: rec.line}
		}
		return nil
	}

	keyword := rec.keyword[len("Default"):]
	value := rec.value
	if idx := strings.IndexAny(value, " \t/"); idx >= 0 {
		value = value[:idx]
	}

	b.setWellKnown(rec)
	b.addAttr(rec)

	opt := b.findOption(keyword)
	if opt == nil {
		return nil
	}
	opt.DefaultChoice = value

	// Compatibility shim for a small number of non-conforming files: a
	// default of "Custom..." that names a literal vendor choice (stored
	// with the "_" marker) selects that choice, not the custom mechanism.
	if isCustomName(value) {
		if b.findChoice(opt, customPrefix+value) != nil {
			opt.DefaultChoice = customPrefix + value
		}
	}
	return nil
}

func isCustomName(name string) bool {
	return strings.EqualFold(name, "Custom") ||
		len(name) > 7 && strings.EqualFold(name[:7], "Custom.")
}

func (b *builder) addChoice(opt *Option, rec *record) {
	name := rec.option
	if isCustomName(name) {
		// a vendor choice must not collide with the custom mechanism
		name = customPrefix + name
	}

	choice := b.getChoice(opt, name)
	if rec.mask&fieldText != 0 {
		choice.Text = b.text(rec.text)
	}
	choice.Code = rec.value
}

func (b *builder) getChoice(opt *Option, name string) *Choice {
	for _, c := range opt.Choices {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	c := &Choice{Name: name, Text: name, option: -1}
	opt.Choices = append(opt.Choices, c)
	return c
}

func (b *builder) findChoice(opt *Option, name string) *Choice {
	for _, c := range opt.Choices {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

func (b *builder) currentGroup() *Group {
	if b.subgroup != nil {
		return b.subgroup
	}
	if b.group != nil {
		return b.group
	}
	return b.getGroup(defaultGroup, "")
}

func (b *builder) getGroup(name, text string) *Group {
	for _, g := range b.doc.Groups {
		if strings.EqualFold(g.Name, name) {
			if text != "" && g.Text == g.Name {
				g.Text = text
			}
			return g
		}
	}
	g := &Group{Name: name, Text: text}
	if g.Text == "" {
		g.Text = name
	}
	b.doc.Groups = append(b.doc.Groups, g)
	return g
}

func (b *builder) getOption(group *Group, keyword string) *Option {
	if opt := b.findOption(keyword); opt != nil {
		return opt
	}
	opt := &Option{
		Keyword: keyword,
		Text:    keyword,
		UI:      UIPickOne,
		Section: SectionAny,
		Order:   10,
		doc:     b.doc,
	}
	group.Options = append(group.Options, opt)
	b.doc.options = append(b.doc.options, opt)
	return opt
}

func (b *builder) findOption(keyword string) *Option {
	for _, opt := range b.doc.options {
		if strings.EqualFold(opt.Keyword, keyword) {
			return opt
		}
	}
	return nil
}

func (b *builder) getSize(name string) *Size {
	for _, s := range b.doc.Sizes {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	s := &Size{Name: name}
	b.doc.Sizes = append(b.doc.Sizes, s)
	return s
}

func (b *builder) addAttr(rec *record) {
	b.doc.attrs = append(b.doc.attrs, &Attr{
		Name:  rec.keyword,
		Spec:  rec.option,
		Text:  b.text(rec.text),
		Value: rec.value,
	})
}

func (b *builder) text(s string) string {
	return decodeText(b.enc, s)
}

// finalize checks for dangling open state, resolves the imageable areas
// into per-edge margins, and builds the sorted lookup indices.
func (b *builder) finalize() error {
	if b.option != nil && b.strict() {
		return &ParseError{Status: StatusMissingCloseUI, Line: b.lex.line}
	}
	if b.group != nil && b.strict() {
		return &ParseError{Status: StatusMissingCloseGroup, Line: b.lex.line}
	}

	doc := b.doc

	for _, size := range doc.Sizes {
		area, ok := b.areas[foldKey(size.Name)]
		if !ok {
			continue
		}
		size.Left = area.llx
		size.Bottom = area.lly
		if size.Width > 0 {
			size.Right = size.Width - area.urx
		}
		if size.Length > 0 {
			size.Top = size.Length - area.ury
		}
		if size.Right < 0 {
			size.Right = 0
		}
		if size.Top < 0 {
			size.Top = 0
		}
	}

	doc.sortedOptions = make([]int, len(doc.options))
	for i := range doc.options {
		doc.sortedOptions[i] = i
	}
	sort.SliceStable(doc.sortedOptions, func(i, j int) bool {
		a := doc.options[doc.sortedOptions[i]].Keyword
		b := doc.options[doc.sortedOptions[j]].Keyword
		return foldKey(a) < foldKey(b)
	})

	doc.sortedAttrs = make([]int, len(doc.attrs))
	for i := range doc.attrs {
		doc.sortedAttrs[i] = i
	}
	sort.SliceStable(doc.sortedAttrs, func(i, j int) bool {
		a, b := doc.attrs[doc.sortedAttrs[i]], doc.attrs[doc.sortedAttrs[j]]
		if ka, kb := foldKey(a.Name), foldKey(b.Name); ka != kb {
			return ka < kb
		}
		return foldKey(a.Spec) < foldKey(b.Spec)
	})

	// every choice points back at its owning option from here on
	for i, opt := range doc.options {
		opt.doc = doc
		for _, c := range opt.Choices {
			c.option = i
			c.doc = doc
		}
	}

	doc.marked = make(map[string]*Choice)
	return nil
}

func foldKey(s string) string { return strings.ToLower(s) }

func splitNameText(s string) (name, text string) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, s
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseFloats(s string) []float64 {
	var out []float64
	for _, f := range strings.Fields(s) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out
		}
		out = append(out, v)
	}
	return out
}
