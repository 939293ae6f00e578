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
	"bufio"
	"io"
	"strings"
)

// maxLineLength bounds the size of one logical line, including quoted
// continuation lines.  The limit protects against malformed or hostile
// input; real PPD files stay far below it.
const maxLineLength = 256 * 1024

const (
	maxNameLength = 40
	maxTextLength = 80
)

// binarySentinel marks the start of a vendor binary blob appended to the
// PPD.  Everything after this line is intentionally not read.
const binarySentinel = "*%APLWORKSET START"

type fieldMask int

const (
	fieldKeyword fieldMask = 1 << iota
	fieldOption
	fieldText
	fieldValue
)

// record is one logical PPD line, split into its up to four fields.
// mask records which fields were actually present in the source.
type record struct {
	keyword string
	option  string
	text    string
	value   string
	mask    fieldMask
	line    int // 1-based number of the line the record started on
}

// lexer reads logical PPD lines from a byte stream.  A logical line may
// span several physical lines when a quoted value contains newlines.
type lexer struct {
	r       *bufio.Reader
	line    int  // number of the last physical line read
	eof     bool // sentinel seen, treat the rest of the stream as absent
	relaxed bool
}

func newLexer(r io.Reader, relaxed bool) *lexer {
	return &lexer{r: bufio.NewReader(r), relaxed: relaxed}
}

func (l *lexer) errorf(status Status) error {
	return &ParseError{Status: status, Line: l.line}
}

// readLine reads one logical line into a buffer.  It returns io.EOF at the
// end of the stream or after the binary sentinel.  The trailing newline is
// not included.
func (l *lexer) readLine() (string, error) {
	if l.eof {
		return "", io.EOF
	}

	var buf []byte
	inQuotes := false
	started := false

	for {
		ch, err := l.r.ReadByte()
		if err == io.EOF {
			if inQuotes {
				return "", l.errorf(StatusBadValue)
			}
			if !started {
				return "", io.EOF
			}
			l.line++
			return string(buf), nil
		}
		if err != nil {
			return "", err
		}

		if !started {
			started = true
		}

		if ch == '\r' || ch == '\n' {
			if ch == '\r' {
				// treat CR LF as a single line ending
				next, err := l.r.Peek(1)
				if err == nil && next[0] == '\n' {
					l.r.ReadByte()
				}
			}
			l.line++
			if inQuotes {
				// quoted values continue across physical lines
				buf = append(buf, '\n')
				started = true
				continue
			}
			return string(buf), nil
		}

		if ch == '"' {
			inQuotes = !inQuotes
		} else if ch < ' ' && ch != '\t' {
			if !l.relaxed {
				l.line++
				return "", l.errorf(StatusIllegalCharacter)
			}
			continue
		}

		if len(buf) >= maxLineLength {
			l.line++
			return "", l.errorf(StatusLineTooLong)
		}
		buf = append(buf, ch)
	}
}

// next returns the next record from the stream.  Blank and comment lines
// are skipped when skipBlank is set, otherwise they are returned with a
// zero mask.  next returns (nil, io.EOF) at the end of the stream.
func (l *lexer) next(skipBlank bool) (*record, error) {
	for {
		startLine := l.line + 1
		line, err := l.readLine()
		if err != nil {
			return nil, err
		}

		if line == binarySentinel {
			l.eof = true
			return nil, io.EOF
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "*%") {
			if skipBlank {
				continue
			}
			return &record{line: startLine}, nil
		}

		if line[0] != '*' {
			if l.relaxed {
				continue
			}
			return nil, &ParseError{Status: StatusMissingAsterisk, Line: startLine}
		}

		rec, err := l.split(line, startLine)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// split breaks one logical line into its keyword, option, text, and value
// fields.
func (l *lexer) split(line string, lineNum int) (*record, error) {
	rec := &record{line: lineNum}
	pos := 1 // skip the leading asterisk

	// main keyword: up to the first space, tab, or colon
	start := pos
	for pos < len(line) && line[pos] != ' ' && line[pos] != '\t' && line[pos] != ':' {
		ch := line[pos]
		if ch < '!' || ch > '~' || ch == '/' || ch == '"' {
			return nil, &ParseError{Status: StatusIllegalMainKeyword, Line: lineNum}
		}
		pos++
	}
	rec.keyword = line[start:pos]
	if rec.keyword == "" || len(rec.keyword) > maxNameLength {
		return nil, &ParseError{Status: StatusIllegalMainKeyword, Line: lineNum}
	}
	rec.mask |= fieldKeyword

	// optional option keyword after whitespace
	if pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
		for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
			pos++
		}
		start = pos
		for pos < len(line) && line[pos] != ' ' && line[pos] != '\t' &&
			line[pos] != ':' && line[pos] != '/' {
			ch := line[pos]
			if ch < '!' || ch > '~' || ch == '"' {
				return nil, &ParseError{Status: StatusIllegalOptionKeyword, Line: lineNum}
			}
			pos++
		}
		if pos > start {
			rec.option = line[start:pos]
			if len(rec.option) > maxNameLength {
				return nil, &ParseError{Status: StatusIllegalOptionKeyword, Line: lineNum}
			}
			rec.mask |= fieldOption
		}

		// optional "/translation" up to the colon
		if pos < len(line) && line[pos] == '/' {
			pos++
			start = pos
			for pos < len(line) && line[pos] != ':' {
				pos++
			}
			rec.text = line[start:pos]
			rec.mask |= fieldText
		}

		if pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
			if !l.relaxed {
				return nil, &ParseError{Status: StatusIllegalWhitespace, Line: lineNum}
			}
			for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
				pos++
			}
		}
	}

	// value after the colon
	if pos < len(line) && line[pos] == ':' {
		pos++
		value := strings.TrimSpace(line[pos:])
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		rec.value = decodeHex(value)
		rec.mask |= fieldValue
	}

	return rec, nil
}

// decodeHex converts "<hexhex...>" spans in a value to raw bytes.  A "<"
// that is not followed by a hex digit is copied verbatim, so PostScript
// dictionary syntax ("<<") passes through unchanged.
func decodeHex(value string) string {
	lt := strings.IndexByte(value, '<')
	if lt < 0 {
		return value
	}

	var out []byte
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch != '<' || i+1 >= len(value) || hexVal(value[i+1]) < 0 {
			out = append(out, ch)
			continue
		}

		// consume hex digits (and embedded whitespace) up to ">"
		i++
		var n int
		var b byte
		for ; i < len(value) && value[i] != '>'; i++ {
			d := hexVal(value[i])
			if d < 0 {
				continue
			}
			b = b<<4 | byte(d)
			n++
			if n == 2 {
				out = append(out, b)
				b = 0
				n = 0
			}
		}
		if n == 1 {
			// odd digit count: pad with zero, as if "0" followed
			out = append(out, b<<4)
		}
	}
	return string(out)
}

func hexVal(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	}
	return -1
}
