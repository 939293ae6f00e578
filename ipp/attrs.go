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

// Package ipp models the read-only capability-attribute trees reported by
// network printers: named attributes with string, integer, boolean, range,
// resolution, and collection values.  The transport that obtains these
// trees is out of scope; this package only stores, queries, and
// serializes them.
package ipp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Value is one attribute value.  Exactly one field group is meaningful,
// selected by Kind.
type Value struct {
	Kind       Kind
	String     string
	Integer    int
	Boolean    bool
	Lower      int // range
	Upper      int
	XRes       int // resolution, dots per inch
	YRes       int
	Collection *Attributes
}

// Kind identifies the type of a Value.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindBoolean
	KindRange
	KindResolution
	KindCollection
)

// Attribute is a named list of values.
type Attribute struct {
	Name   string
	Values []Value
}

// Count returns the number of values.
func (a *Attribute) Count() int {
	if a == nil {
		return 0
	}
	return len(a.Values)
}

// StringAt returns the i-th value as a string, or "" when out of range or
// not a string.
func (a *Attribute) StringAt(i int) string {
	if a == nil || i < 0 || i >= len(a.Values) || a.Values[i].Kind != KindString {
		return ""
	}
	return a.Values[i].String
}

// IntAt returns the i-th integer value, or 0.
func (a *Attribute) IntAt(i int) int {
	if a == nil || i < 0 || i >= len(a.Values) {
		return 0
	}
	switch a.Values[i].Kind {
	case KindInteger:
		return a.Values[i].Integer
	case KindRange:
		return a.Values[i].Lower
	}
	return 0
}

// RangeAt returns the i-th value as a lower/upper pair.  Plain integers
// degenerate to an equal pair.
func (a *Attribute) RangeAt(i int) (lower, upper int, ok bool) {
	if a == nil || i < 0 || i >= len(a.Values) {
		return 0, 0, false
	}
	switch a.Values[i].Kind {
	case KindRange:
		return a.Values[i].Lower, a.Values[i].Upper, true
	case KindInteger:
		return a.Values[i].Integer, a.Values[i].Integer, true
	}
	return 0, 0, false
}

// ResolutionAt returns the i-th value as a resolution in dots per inch.
func (a *Attribute) ResolutionAt(i int) (x, y int, ok bool) {
	if a == nil || i < 0 || i >= len(a.Values) || a.Values[i].Kind != KindResolution {
		return 0, 0, false
	}
	return a.Values[i].XRes, a.Values[i].YRes, true
}

// CollectionAt returns the i-th collection value, or nil.
func (a *Attribute) CollectionAt(i int) *Attributes {
	if a == nil || i < 0 || i >= len(a.Values) || a.Values[i].Kind != KindCollection {
		return nil
	}
	return a.Values[i].Collection
}

// HasString reports whether any value equals s (keyword comparison, case
// sensitive as IPP keywords are).
func (a *Attribute) HasString(s string) bool {
	if a == nil {
		return false
	}
	for _, v := range a.Values {
		if v.Kind == KindString && v.String == s {
			return true
		}
	}
	return false
}

// Attributes is an ordered list of attributes with name lookup.
type Attributes struct {
	attrs []*Attribute
}

// Find returns the attribute with the given name, or nil.
func (as *Attributes) Find(name string) *Attribute {
	if as == nil {
		return nil
	}
	for _, a := range as.attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// All returns the attributes in insertion order.  The returned slice is
// shared and must not be modified.
func (as *Attributes) All() []*Attribute { return as.attrs }

func (as *Attributes) add(name string) *Attribute {
	if a := as.Find(name); a != nil {
		return a
	}
	a := &Attribute{Name: name}
	as.attrs = append(as.attrs, a)
	return a
}

// AddString appends string values to the named attribute, creating it if
// needed.
func (as *Attributes) AddString(name string, values ...string) *Attributes {
	a := as.add(name)
	for _, v := range values {
		a.Values = append(a.Values, Value{Kind: KindString, String: v})
	}
	return as
}

// AddInt appends integer values.
func (as *Attributes) AddInt(name string, values ...int) *Attributes {
	a := as.add(name)
	for _, v := range values {
		a.Values = append(a.Values, Value{Kind: KindInteger, Integer: v})
	}
	return as
}

// AddBoolean appends a boolean value.
func (as *Attributes) AddBoolean(name string, v bool) *Attributes {
	a := as.add(name)
	a.Values = append(a.Values, Value{Kind: KindBoolean, Boolean: v})
	return as
}

// AddRange appends a rangeOfInteger value.
func (as *Attributes) AddRange(name string, lower, upper int) *Attributes {
	a := as.add(name)
	a.Values = append(a.Values, Value{Kind: KindRange, Lower: lower, Upper: upper})
	return as
}

// AddResolution appends a resolution value in dots per inch.
func (as *Attributes) AddResolution(name string, x, y int) *Attributes {
	a := as.add(name)
	a.Values = append(a.Values, Value{Kind: KindResolution, XRes: x, YRes: y})
	return as
}

// AddCollection appends collection values.
func (as *Attributes) AddCollection(name string, cols ...*Attributes) *Attributes {
	a := as.add(name)
	for _, c := range cols {
		a.Values = append(a.Values, Value{Kind: KindCollection, Collection: c})
	}
	return as
}

// Marshal serializes the attributes into the line-oriented text form used
// by the cache file's embedded blob.  The output is deterministic; Parse
// is its exact inverse.
func (as *Attributes) Marshal() []byte {
	var buf strings.Builder
	as.marshal(&buf)
	return []byte(buf.String())
}

func (as *Attributes) marshal(buf *strings.Builder) {
	if as == nil {
		return
	}
	for _, a := range as.attrs {
		fmt.Fprintf(buf, "ATTR %s %d\n", a.Name, len(a.Values))
		for _, v := range a.Values {
			switch v.Kind {
			case KindString:
				fmt.Fprintf(buf, "S %s\n", strconv.Quote(v.String))
			case KindInteger:
				fmt.Fprintf(buf, "I %d\n", v.Integer)
			case KindBoolean:
				fmt.Fprintf(buf, "B %t\n", v.Boolean)
			case KindRange:
				fmt.Fprintf(buf, "R %d %d\n", v.Lower, v.Upper)
			case KindResolution:
				fmt.Fprintf(buf, "RES %d %d\n", v.XRes, v.YRes)
			case KindCollection:
				n := 0
				if v.Collection != nil {
					n = len(v.Collection.attrs)
				}
				fmt.Fprintf(buf, "COL %d\n", n)
				v.Collection.marshal(buf)
			}
		}
	}
}

// Parse reads the serialized form produced by Marshal.
func Parse(data []byte) (*Attributes, error) {
	p := &parser{lines: strings.Split(string(data), "\n")}
	as := &Attributes{}
	for !p.done() {
		if strings.TrimSpace(p.peek()) == "" {
			p.next()
			continue
		}
		a, err := p.attribute()
		if err != nil {
			return nil, err
		}
		as.attrs = append(as.attrs, a)
	}
	return as, nil
}

type parser struct {
	lines []string
	pos   int
}

func (p *parser) done() bool   { return p.pos >= len(p.lines) }
func (p *parser) peek() string { return p.lines[p.pos] }

func (p *parser) next() string {
	line := p.lines[p.pos]
	p.pos++
	return line
}

func (p *parser) attribute() (*Attribute, error) {
	fields := strings.Fields(p.next())
	if len(fields) != 3 || fields[0] != "ATTR" {
		return nil, errors.New("ipp: malformed attribute header")
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || n < 0 {
		return nil, errors.New("ipp: bad value count")
	}

	a := &Attribute{Name: fields[1]}
	for i := 0; i < n; i++ {
		if p.done() {
			return nil, errors.New("ipp: truncated attribute")
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		a.Values = append(a.Values, v)
	}
	return a, nil
}

func (p *parser) value() (Value, error) {
	line := p.next()
	tag, rest, _ := strings.Cut(line, " ")
	switch tag {
	case "S":
		s, err := strconv.Unquote(strings.TrimSpace(rest))
		if err != nil {
			return Value{}, fmt.Errorf("ipp: bad string value: %w", err)
		}
		return Value{Kind: KindString, String: s}, nil
	case "I":
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return Value{}, fmt.Errorf("ipp: bad integer value: %w", err)
		}
		return Value{Kind: KindInteger, Integer: n}, nil
	case "B":
		b, err := strconv.ParseBool(strings.TrimSpace(rest))
		if err != nil {
			return Value{}, fmt.Errorf("ipp: bad boolean value: %w", err)
		}
		return Value{Kind: KindBoolean, Boolean: b}, nil
	case "R":
		var lower, upper int
		if _, err := fmt.Sscanf(rest, "%d %d", &lower, &upper); err != nil {
			return Value{}, fmt.Errorf("ipp: bad range value: %w", err)
		}
		return Value{Kind: KindRange, Lower: lower, Upper: upper}, nil
	case "RES":
		var x, y int
		if _, err := fmt.Sscanf(rest, "%d %d", &x, &y); err != nil {
			return Value{}, fmt.Errorf("ipp: bad resolution value: %w", err)
		}
		return Value{Kind: KindResolution, XRes: x, YRes: y}, nil
	case "COL":
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n < 0 {
			return Value{}, errors.New("ipp: bad collection count")
		}
		col := &Attributes{}
		for i := 0; i < n; i++ {
			if p.done() {
				return Value{}, errors.New("ipp: truncated collection")
			}
			a, err := p.attribute()
			if err != nil {
				return Value{}, err
			}
			col.attrs = append(col.attrs, a)
		}
		return Value{Kind: KindCollection, Collection: col}, nil
	}
	return Value{}, fmt.Errorf("ipp: unknown value tag %q", tag)
}
