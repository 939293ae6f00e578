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

package cache

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/OpenPrinting/cups-sub001/internal/atomicfile"
	"github.com/OpenPrinting/cups-sub001/ipp"
)

// fileVersion is the only cache file version this build reads or writes.
// A mismatch is a hard error: the caller rebuilds from the PPD instead.
const fileVersion = 3

// ErrVersion is returned by Load for a missing or unsupported version
// header.
var ErrVersion = errors.New("cache: missing or unsupported cache version")

// Load reads a cache file written by Save.
func Load(fileName string) (*Cache, error) {
	fd, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return read(bufio.NewReader(fd))
}

func read(r *bufio.Reader) (*Cache, error) {
	header, err := readLine(r)
	if err != nil {
		return nil, ErrVersion
	}
	if header != "CacheVersion "+strconv.Itoa(fileVersion) {
		return nil, ErrVersion
	}

	c := &Cache{
		Finishings: make(map[int][]OptionValue),
		MaxCopies:  9999,
	}

	for {
		line, err := readLine(r)
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			continue
		}

		keyword, rest, _ := strings.Cut(line, " ")
		switch keyword {
		case "Filter":
			s, err := strconv.Unquote(rest)
			if err != nil {
				return nil, fmt.Errorf("cache: bad Filter record: %w", err)
			}
			c.Filters = append(c.Filters, s)
		case "PreFilter":
			s, err := strconv.Unquote(rest)
			if err != nil {
				return nil, fmt.Errorf("cache: bad PreFilter record: %w", err)
			}
			c.PreFilters = append(c.PreFilters, s)
		case "MaxCopies":
			if c.MaxCopies, err = strconv.Atoi(rest); err != nil {
				return nil, fmt.Errorf("cache: bad MaxCopies record: %w", err)
			}
		case "ChargeInfoURI":
			c.ChargeInfoURI = rest
		case "JobAccountId":
			c.AccountIDRequired = rest == "true"
		case "JobAccountingUserId":
			c.AccountingUserIDRequired = rest == "true"
		case "JobPassword":
			c.Password = rest
		case "SingleFile":
			c.SingleFile = rest == "true"
		case "Mandatory":
			c.Mandatory = strings.Fields(rest)
		case "SourceOption":
			c.SourceOption = rest
		case "SidesOption":
			c.SidesOption = rest
		case "Sides1Sided":
			c.Sides1Sided = rest
		case "Sides2SidedLong":
			c.Sides2SidedLong = rest
		case "Sides2SidedShort":
			c.Sides2SidedShort = rest
		case "Source", "Type", "Bin":
			fields := strings.Fields(rest)
			if len(fields) != 2 {
				return nil, fmt.Errorf("cache: bad %s record %q", keyword, rest)
			}
			m := Map{PPD: fields[0], PWG: fields[1]}
			switch keyword {
			case "Source":
				c.Sources = append(c.Sources, m)
			case "Type":
				c.Types = append(c.Types, m)
			case "Bin":
				c.Bins = append(c.Bins, m)
			}
		case "Size":
			size, err := parseSize(rest)
			if err != nil {
				return nil, err
			}
			c.Sizes = append(c.Sizes, size)
		case "CustomSize":
			nums, err := parseInts(rest, 8)
			if err != nil {
				return nil, fmt.Errorf("cache: bad CustomSize record: %w", err)
			}
			c.CustomMin = [2]int{nums[0], nums[1]}
			c.CustomMax = [2]int{nums[2], nums[3]}
			copy(c.CustomMargins[:], nums[4:8])
		case "Finishings":
			value, pairs, err := parseValuePairs(rest)
			if err != nil {
				return nil, fmt.Errorf("cache: bad Finishings record: %w", err)
			}
			c.Finishings[value] = pairs
		case "Preset":
			if err := c.readPreset(rest); err != nil {
				return nil, err
			}
		case "IPP":
			if err := c.readAttrBlob(r, rest); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("cache: unknown record %q", keyword)
		}
	}
}

func parseSize(rest string) (Size, error) {
	fields := strings.Fields(rest)
	if len(fields) != 9 {
		return Size{}, fmt.Errorf("cache: bad Size record %q", rest)
	}
	nums, err := parseInts(strings.Join(fields[2:8], " "), 6)
	if err != nil {
		return Size{}, fmt.Errorf("cache: bad Size record: %w", err)
	}
	return Size{
		Map:        Map{PPD: fields[0], PWG: fields[1]},
		Width:      nums[0],
		Length:     nums[1],
		Left:       nums[2],
		Bottom:     nums[3],
		Right:      nums[4],
		Top:        nums[5],
		Borderless: fields[8] == "true",
	}, nil
}

func (c *Cache) readPreset(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) < 3 {
		return fmt.Errorf("cache: bad Preset record %q", rest)
	}
	mode, err1 := strconv.Atoi(fields[0])
	quality, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil ||
		mode < 0 || mode >= int(NumColorModes) ||
		quality < 0 || quality >= int(NumQualities) {
		return fmt.Errorf("cache: bad Preset record %q", rest)
	}
	_, pairs, err := parseValuePairs(strings.Join(fields[1:], " "))
	if err != nil {
		return fmt.Errorf("cache: bad Preset record: %w", err)
	}
	c.Presets[mode][quality] = pairs
	return nil
}

// readAttrBlob reads the length-prefixed raw attribute span byte-exact and
// re-parses it independently.  A short read or trailing garbage inside
// the span is a hard error.
func (c *Cache) readAttrBlob(r *bufio.Reader, rest string) error {
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return fmt.Errorf("cache: bad IPP record length %q", rest)
	}
	blob := make([]byte, n)
	if _, err := io.ReadFull(r, blob); err != nil {
		return fmt.Errorf("cache: short IPP record: %w", err)
	}
	attrs, err := ipp.Parse(blob)
	if err != nil {
		return fmt.Errorf("cache: bad IPP record: %w", err)
	}
	c.Attrs = attrs
	return nil
}

// parseValuePairs parses "value n *Option Choice ..." and validates that
// exactly n pairs follow.
func parseValuePairs(rest string) (int, []OptionValue, error) {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return 0, nil, errors.New("truncated record")
	}
	value, err1 := strconv.Atoi(fields[0])
	count, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || count < 0 {
		return 0, nil, errors.New("bad counts")
	}
	pairs := parseOptionValues(strings.Join(fields[2:], " "))
	if len(pairs) != count {
		return 0, nil, errors.New("pair count mismatch")
	}
	return value, pairs, nil
}

func parseInts(s string, want int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != want {
		return nil, fmt.Errorf("expected %d fields, got %d", want, len(fields))
	}
	out := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Save writes the cache atomically: the data goes to a sibling temporary
// file which replaces fileName only after an error-free close.
func (c *Cache) Save(fileName string) error {
	f, err := atomicfile.Create(fileName)
	if err != nil {
		return err
	}

	if err := c.write(f); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}

func (c *Cache) write(w io.Writer) error {
	var buf strings.Builder
	fmt.Fprintf(&buf, "CacheVersion %d\n", fileVersion)

	for _, filter := range c.Filters {
		fmt.Fprintf(&buf, "Filter %s\n", strconv.Quote(filter))
	}
	for _, filter := range c.PreFilters {
		fmt.Fprintf(&buf, "PreFilter %s\n", strconv.Quote(filter))
	}
	fmt.Fprintf(&buf, "MaxCopies %d\n", c.MaxCopies)
	if c.ChargeInfoURI != "" {
		fmt.Fprintf(&buf, "ChargeInfoURI %s\n", c.ChargeInfoURI)
	}
	fmt.Fprintf(&buf, "JobAccountId %t\n", c.AccountIDRequired)
	fmt.Fprintf(&buf, "JobAccountingUserId %t\n", c.AccountingUserIDRequired)
	if c.Password != "" {
		fmt.Fprintf(&buf, "JobPassword %s\n", c.Password)
	}
	if c.SingleFile {
		fmt.Fprintf(&buf, "SingleFile true\n")
	}
	if len(c.Mandatory) > 0 {
		fmt.Fprintf(&buf, "Mandatory %s\n", strings.Join(c.Mandatory, " "))
	}

	if c.SourceOption != "" {
		fmt.Fprintf(&buf, "SourceOption %s\n", c.SourceOption)
	}
	for _, m := range c.Sources {
		fmt.Fprintf(&buf, "Source %s %s\n", m.PPD, m.PWG)
	}
	for _, m := range c.Types {
		fmt.Fprintf(&buf, "Type %s %s\n", m.PPD, m.PWG)
	}
	for _, m := range c.Bins {
		fmt.Fprintf(&buf, "Bin %s %s\n", m.PPD, m.PWG)
	}

	for _, s := range c.Sizes {
		fmt.Fprintf(&buf, "Size %s %s %d %d %d %d %d %d %t\n",
			s.PPD, s.PWG, s.Width, s.Length,
			s.Left, s.Bottom, s.Right, s.Top, s.Borderless)
	}
	if c.CustomMax[0] > 0 {
		fmt.Fprintf(&buf, "CustomSize %d %d %d %d %d %d %d %d\n",
			c.CustomMin[0], c.CustomMin[1], c.CustomMax[0], c.CustomMax[1],
			c.CustomMargins[0], c.CustomMargins[1],
			c.CustomMargins[2], c.CustomMargins[3])
	}

	if c.SidesOption != "" {
		fmt.Fprintf(&buf, "SidesOption %s\n", c.SidesOption)
	}
	if c.Sides1Sided != "" {
		fmt.Fprintf(&buf, "Sides1Sided %s\n", c.Sides1Sided)
	}
	if c.Sides2SidedLong != "" {
		fmt.Fprintf(&buf, "Sides2SidedLong %s\n", c.Sides2SidedLong)
	}
	if c.Sides2SidedShort != "" {
		fmt.Fprintf(&buf, "Sides2SidedShort %s\n", c.Sides2SidedShort)
	}

	values := maps.Keys(c.Finishings)
	slices.Sort(values)
	for _, value := range values {
		pairs := c.Finishings[value]
		fmt.Fprintf(&buf, "Finishings %d %d%s\n", value, len(pairs), formatPairs(pairs))
	}

	for mode := ColorMode(0); mode < NumColorModes; mode++ {
		for q := Quality(0); q < NumQualities; q++ {
			pairs := c.Presets[mode][q]
			if len(pairs) == 0 {
				continue
			}
			fmt.Fprintf(&buf, "Preset %d %d %d%s\n",
				mode, q, len(pairs), formatPairs(pairs))
		}
	}

	if c.Attrs != nil {
		blob := c.Attrs.Marshal()
		fmt.Fprintf(&buf, "IPP %d\n", len(blob))
		buf.Write(blob)
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

func formatPairs(pairs []OptionValue) string {
	var buf strings.Builder
	for _, p := range pairs {
		buf.WriteString(" *")
		buf.WriteString(p.Option)
		buf.WriteByte(' ')
		buf.WriteString(p.Value)
	}
	return buf.String()
}
