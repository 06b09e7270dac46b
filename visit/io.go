// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package visit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prefix is the naming prefix
// of the per segment frequency fields
// in a visitation TSV file.
const Prefix = "visit-"

// ReadTSV reads a visitation table from a TSV file.
//
// The TSV file must contain a "cell" field
// and one field per segment,
// named with the segment ID
// after the prefix "visit-".
// An empty value indicates that the cell
// has no visitation data for the segment;
// a zero indicates a cell never visited
// by walks from the segment.
//
// Here is an example file:
//
//	# random walk visitation frequencies
//	cell	visit-seg-1	visit-seg-2
//	cell-01	10	3
//	cell-02	2	9
//	cell-03		4
func ReadTSV(r io.Reader) (*Table, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	cellField := -1
	segs := make(map[int]string, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		if h == "cell" {
			cellField = i
			continue
		}
		if !strings.HasPrefix(h, Prefix) {
			return nil, fmt.Errorf("field %q: expecting prefix %q", h, Prefix)
		}
		s := strings.TrimPrefix(h, Prefix)
		if s == "" {
			return nil, fmt.Errorf("field %q: expecting segment ID", h)
		}
		segs[i] = s
	}
	if cellField < 0 {
		return nil, fmt.Errorf("expecting field %q", "cell")
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("expecting segment fields with prefix %q", Prefix)
	}

	t := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		cell := row[cellField]
		if strings.TrimSpace(cell) == "" {
			continue
		}
		for i, s := range segs {
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %v", ln, Prefix+s, err)
			}
			if err := t.Add(cell, s, f); err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
		}
	}
	return t, nil
}

// TSV writes a visitation table as a TSV file.
func (t *Table) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	segs := t.Segments()
	header := make([]string, 0, len(segs)+1)
	header = append(header, "cell")
	for _, s := range segs {
		header = append(header, Prefix+s)
	}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, cell := range t.Cells() {
		row := make([]string, 0, len(segs)+1)
		row = append(row, cell)
		for _, s := range segs {
			f, ok := t.Freq(cell, s)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(f, 'f', 6, 64))
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
