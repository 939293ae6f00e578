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

import "strconv"

// Status identifies the reason a PPD file could not be parsed.
type Status int

// Parse status codes, grouped by the kind of defect they report.
const (
	StatusOK Status = iota

	// structural
	StatusMissingPPDAdobe4 // header line does not start a 4.x PPD
	StatusNestedOpenGroup  // OpenGroup without matching CloseGroup
	StatusNestedOpenUI     // OpenUI/JCLOpenUI without matching CloseUI
	StatusBadCloseGroup    // CloseGroup does not match the open group
	StatusBadCloseUI       // CloseUI/JCLCloseUI without an open option
	StatusMissingCloseGroup
	StatusMissingCloseUI

	// lexical
	StatusIllegalCharacter  // control character outside a quoted value
	StatusLineTooLong       // physical line exceeds MaxLineLength
	StatusIllegalMainKeyword
	StatusIllegalOptionKeyword
	StatusIllegalWhitespace
	StatusMissingAsterisk
	StatusBadOpenGroup
	StatusBadOpenUI
	StatusBadOrderDependency
	StatusBadUIConstraints
	StatusBadValue // bad quoting, or unknown data under a known keyword

	// semantic
	StatusBadCustomParam // unknown custom parameter type tag
	StatusMissingValue
	StatusMissingOption
	StatusTranslationTooLong

	// resource
	StatusAllocError

	// persistence / input
	StatusFileOpenError
	StatusNullFile
	StatusInternalError
)

var statusNames = map[Status]string{
	StatusOK:                   "OK",
	StatusMissingPPDAdobe4:     "missing PPD-Adobe-4.x header",
	StatusNestedOpenGroup:      "OpenGroup without a CloseGroup first",
	StatusNestedOpenUI:         "OpenUI/JCLOpenUI without a CloseUI/JCLCloseUI first",
	StatusBadCloseGroup:        "bad CloseGroup",
	StatusBadCloseUI:           "bad CloseUI/JCLCloseUI",
	StatusMissingCloseGroup:    "missing CloseGroup",
	StatusMissingCloseUI:       "missing CloseUI/JCLCloseUI",
	StatusIllegalCharacter:     "illegal control character",
	StatusLineTooLong:          "line longer than the maximum allowed",
	StatusIllegalMainKeyword:   "illegal main keyword string",
	StatusIllegalOptionKeyword: "illegal option keyword string",
	StatusIllegalWhitespace:    "illegal whitespace character",
	StatusMissingAsterisk:      "missing asterisk in column 0",
	StatusBadOpenGroup:         "bad OpenGroup",
	StatusBadOpenUI:            "bad OpenUI/JCLOpenUI",
	StatusBadOrderDependency:   "bad OrderDependency",
	StatusBadUIConstraints:     "bad UIConstraints",
	StatusBadValue:             "bad value string",
	StatusBadCustomParam:       "bad custom parameter",
	StatusMissingValue:         "missing value string",
	StatusMissingOption:        "missing option keyword",
	StatusTranslationTooLong:   "translation string longer than the maximum allowed",
	StatusAllocError:           "memory allocation error",
	StatusFileOpenError:        "unable to open PPD file",
	StatusNullFile:             "NULL PPD file pointer",
	StatusInternalError:        "internal error",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown status " + strconv.Itoa(int(s))
}

// ParseError indicates that a PPD file could not be parsed.  Line is the
// 1-based number of the source line the defect was detected on, or 0 when
// no line applies.
type ParseError struct {
	Status Status
	Line   int
	Err    error
}

func (err *ParseError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Line > 0 {
		tail = " (on line " + strconv.Itoa(err.Line) + ")"
	}
	return err.Status.String() + middle + tail
}

func (err *ParseError) Unwrap() error {
	return err.Err
}
