// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package exprs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadTSV reads an expression matrix from a TSV file.
//
// The TSV file must contain a "gene" field
// and one field per cell,
// named with the cell ID.
// An empty value indicates that the expression
// of the gene was not measured in the cell.
//
// Here is an example file:
//
//	# gene expression matrix
//	gene	cell-01	cell-02	cell-03
//	gene-a	0.10	3.40	5.10
//	gene-b	2.00		0.25
func ReadTSV(r io.Reader) (*Matrix, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	geneField := -1
	cells := make(map[int]string, len(head))
	for i, h := range head {
		if strings.ToLower(h) == "gene" {
			geneField = i
			continue
		}
		c := strings.Join(strings.Fields(h), " ")
		if c == "" {
			return nil, fmt.Errorf("field %d: expecting cell ID", i+1)
		}
		cells[i] = c
	}
	if geneField < 0 {
		return nil, fmt.Errorf("expecting field %q", "gene")
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("expecting cell fields")
	}

	m := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		gene := row[geneField]
		if strings.TrimSpace(gene) == "" {
			continue
		}
		for i, c := range cells {
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %v", ln, c, err)
			}
			if err := m.Add(gene, c, x); err != nil {
				return nil, fmt.Errorf("on row %d: %v", ln, err)
			}
		}
	}
	return m, nil
}

// TSV writes an expression matrix as a TSV file.
func (m *Matrix) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	cells := m.Cells()
	header := make([]string, 0, len(cells)+1)
	header = append(header, "gene")
	header = append(header, cells...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, g := range m.Genes() {
		row := make([]string, 0, len(cells)+1)
		row = append(row, g)
		for _, c := range cells {
			v, ok := m.Value(g, c)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
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
