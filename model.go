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

// UIKind describes how an option is presented for selection.
type UIKind int

const (
	UIBoolean  UIKind = iota // True/False toggle
	UIPickOne                // exactly one choice
	UIPickMany               // zero or more choices
)

func (k UIKind) String() string {
	switch k {
	case UIBoolean:
		return "Boolean"
	case UIPickOne:
		return "PickOne"
	case UIPickMany:
		return "PickMany"
	}
	return "Unknown"
}

// Section is the output phase an option's code is emitted in.
type Section int

const (
	SectionAny Section = iota
	SectionDocument
	SectionExit
	SectionJCL
	SectionPage
	SectionProlog
	SectionQuery
	SectionNone
)

var sectionNames = [...]string{
	SectionAny:      "AnySetup",
	SectionDocument: "DocumentSetup",
	SectionExit:     "ExitServer",
	SectionJCL:      "JCLSetup",
	SectionPage:     "PageSetup",
	SectionProlog:   "Prolog",
	SectionQuery:    "Query",
	SectionNone:     "None",
}

func (s Section) String() string {
	if s >= 0 && int(s) < len(sectionNames) {
		return sectionNames[s]
	}
	return "Unknown"
}

func sectionForName(name string) (Section, bool) {
	for i, n := range sectionNames {
		if n == name {
			return Section(i), true
		}
	}
	return SectionAny, false
}

// ColorSpace is the default colorspace declared by a PPD file.
type ColorSpace int

const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceGray
	ColorSpaceRGB
	ColorSpaceCMY
	ColorSpaceCMYK
	ColorSpaceN
)

// Choice is one selectable value of an Option, carrying the control code
// emitted when the choice is selected for a job.
type Choice struct {
	Name string
	Text string // localized text, or Name if none was given
	Code string

	// option is the index of the owning Option in the Document's arena.
	// It is assigned during finalize and is valid for the life of the
	// Document.
	option int
	doc    *Document
}

// Option returns the option this choice belongs to.  The result is non-nil
// for every choice reachable from a successfully built Document.
func (c *Choice) Option() *Option {
	if c.doc == nil || c.option < 0 || c.option >= len(c.doc.options) {
		return nil
	}
	return c.doc.options[c.option]
}

// Option is one axis of printer capability, identified by a keyword which is
// unique within its Document.
type Option struct {
	Keyword       string
	Text          string
	UI            UIKind
	Section       Section
	Order         float64
	DefaultChoice string
	Choices       []*Choice

	doc *Document
}

// Group is a named container of options and (one level of) subgroups.
type Group struct {
	Name      string
	Text      string
	Options   []*Option
	Subgroups []*Group
}

// Size describes a page size.  All dimensions are in points (1/72 inch);
// fractional values are permitted.
type Size struct {
	Name   string
	Width  float64
	Length float64

	// Imageable-area margins, measured from the respective paper edge.
	Left   float64
	Bottom float64
	Right  float64
	Top    float64

	Marked bool
}

// Constraint records that two selections are mutually exclusive.  Choice
// fields are empty strings when the constraint applies to any choice of the
// option ("wildcard"); the parser normalizes every constraint into this
// 4-field shape.
type Constraint struct {
	Option1 string
	Choice1 string
	Option2 string
	Choice2 string
}

type orderDependency struct {
	section Section
	order   float64
}

// Attr is a free-form PPD attribute: a main keyword outside the option
// machinery, optionally qualified by a spec string.
type Attr struct {
	Name  string
	Spec  string // instance qualifier, e.g. the choice a UCR applies to
	Text  string
	Value string
}

// CustomParamType is the value type of a custom option parameter.
type CustomParamType int

const (
	CustomParamCurve CustomParamType = iota
	CustomParamInt
	CustomParamInvCurve
	CustomParamPasscode
	CustomParamPassword
	CustomParamPoints
	CustomParamReal
	CustomParamString
)

var customParamTypeNames = map[string]CustomParamType{
	"curve":    CustomParamCurve,
	"int":      CustomParamInt,
	"invcurve": CustomParamInvCurve,
	"passcode": CustomParamPasscode,
	"password": CustomParamPassword,
	"points":   CustomParamPoints,
	"real":     CustomParamReal,
	"string":   CustomParamString,
}

func (t CustomParamType) String() string {
	for name, tt := range customParamTypeNames {
		if tt == t {
			return name
		}
	}
	return "unknown"
}

// CustomParamLimit is a typed minimum or maximum bound for a custom
// parameter.  Which field is meaningful depends on the parameter type:
// String for passcode/password/string (the bound is a length), Integer for
// int, Real for the floating kinds.
type CustomParamLimit struct {
	String  int
	Integer int
	Real    float64
}

// CustomParamValue is the current value of a custom parameter.
type CustomParamValue struct {
	String  string
	Integer int
	Real    float64
}

// CustomParam is one parameter of a custom option, e.g. the Width of a
// custom page size.
type CustomParam struct {
	Name    string
	Text    string
	Order   int
	Type    CustomParamType
	Minimum CustomParamLimit
	Maximum CustomParamLimit
	Value   CustomParamValue
}

// CustomOption is the set of custom parameters declared for an option
// keyword, ordered by their declared order index.
type CustomOption struct {
	Keyword string
	Params  []*CustomParam
}

// ColorProfile is a named ICC or sRGB color correction profile.
type ColorProfile struct {
	Resolution string
	MediaType  string
	Density    float64
	Gamma      float64
	Matrix     [3][3]float64

	// FileName is set for cupsICCProfile entries pointing at an ICC
	// profile on disk; Space is derived from the profile data when the
	// file is available.
	FileName string
	Space    ColorSpace
}

// Document is the complete in-memory capability model parsed from one PPD
// source.  After a successful build it is immutable except for job-time
// marking (see Mark and MarkDefaults); concurrent read-only use is safe,
// concurrent marking is not.
type Document struct {
	LanguageLevel    int
	LanguageEncoding string
	LanguageVersion  string
	ColorDevice      bool
	ColorSpace       ColorSpace

	Manufacturer  string
	ModelName     string
	NickName      string
	ShortNickName string
	Product       []string
	PCFileName    string

	JCLBegin  string
	JCLToPS   string
	JCLEnd    string
	Protocols string

	Fonts    []string
	Profiles []*ColorProfile
	Filters  []string

	Groups      []*Group
	Sizes       []*Size
	Constraints []*Constraint

	// Custom page-size limits, in points.  Populated from the
	// ParamCustomPageSize Width/Height parameters and the
	// HWMargins/MaxMediaWidth attributes.
	CustomMin     [2]float64
	CustomMax     [2]float64
	CustomMargins [4]float64
	VariableSizes bool

	// options is the arena of every option in the document, in creation
	// order; sortedOptions indexes it by keyword.
	options       []*Option
	sortedOptions []int

	attrs       []*Attr
	sortedAttrs []int

	customOptions map[string]*CustomOption

	// customOrder holds per-option ordering overrides that apply only to
	// the Custom choice, declared as "*OrderDependency: n section
	// *Custom<keyword>".
	customOrder map[string]orderDependency

	// marked records the job-time selection state, keyed by option
	// keyword.  For PickMany options several entries "keyword:choice"
	// may be present.
	marked map[string]*Choice
}

// NumOptions returns the number of options in the document, counting every
// group and subgroup.
func (doc *Document) NumOptions() int { return len(doc.options) }

// Options returns all options in creation order.  The returned slice is
// shared with the document and must not be modified.
func (doc *Document) Options() []*Option { return doc.options }

// Attrs returns all attributes in source order.  The returned slice is
// shared with the document and must not be modified.
func (doc *Document) Attrs() []*Attr { return doc.attrs }
