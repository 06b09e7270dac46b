// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pseudotime

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var headerFields = []string{
	"cell",
	"pseudotime",
	"value",
}

// ReadTSV reads a pseudotime table from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - cell, the ID of the cell
//   - pseudotime, the name of the pseudotime column
//   - value, the pseudotime value of the cell
//
// Here is an example file:
//
//	# cell pseudotime values
//	cell	pseudotime	value
//	cell-01	pt	0.050000
//	cell-02	pt	0.340000
//	cell-03	pt	0.910000
func ReadTSV(r io.Reader) (*Table, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range headerFields {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
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

		f := "cell"
		cell := row[fields[f]]

		f = "pseudotime"
		column := row[fields[f]]

		f = "value"
		v, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		if err := t.Add(column, cell, v); err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
	}
	return t, nil
}

// TSV writes a pseudotime table as a TSV file.
func (t *Table) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(headerFields); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, column := range t.Columns() {
		for _, cell := range t.Cells(column) {
			v, _ := t.Value(column, cell)
			row := []string{
				cell,
				column,
				strconv.FormatFloat(v, 'f', 6, 64),
			}
			if err := tab.Write(row); err != nil {
				return fmt.Errorf("when writing data: %v", err)
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
