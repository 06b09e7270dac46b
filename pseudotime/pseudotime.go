// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pseudotime provides per cell values
// of one or more named pseudotime orderings.
//
// A pseudotime is a real value
// used as a proxy for the developmental time of a cell.
// A dataset can hold several pseudotime definitions,
// each stored as a named column.
// A column is append-only:
// once a value is computed for a cell
// it is never removed.
package pseudotime

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// A Table is a collection of pseudotime values
// of a set of cells,
// with one or more named pseudotime columns.
type Table struct {
	cols map[string]map[string]float64
}

// New creates a new empty pseudotime table.
func New() *Table {
	return &Table{
		cols: make(map[string]map[string]float64),
	}
}

// Add adds a pseudotime value of a cell
// to a named column,
// creating the column if needed.
func (t *Table) Add(column, cell string, v float64) error {
	column = canon(column)
	if column == "" {
		return fmt.Errorf("pseudotime: expecting column name")
	}
	cell = canon(cell)
	if cell == "" {
		return fmt.Errorf("pseudotime: expecting cell ID")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("pseudotime: cell %q: invalid value", cell)
	}

	col, ok := t.cols[column]
	if !ok {
		col = make(map[string]float64)
		t.cols[column] = col
	}
	col[cell] = v
	return nil
}

// Cells returns the IDs of the cells
// with a value in the given column,
// sorted by ID.
func (t *Table) Cells(column string) []string {
	col, ok := t.cols[canon(column)]
	if !ok {
		return nil
	}
	cells := make([]string, 0, len(col))
	for c := range col {
		cells = append(cells, c)
	}
	slices.Sort(cells)
	return cells
}

// Columns returns the names of the pseudotime columns
// defined in the table,
// sorted by name.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.cols))
	for c := range t.cols {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

// Value returns the pseudotime of a cell
// in the given column.
func (t *Table) Value(column, cell string) (float64, bool) {
	col, ok := t.cols[canon(column)]
	if !ok {
		return 0, false
	}
	v, ok := col[canon(cell)]
	return v, ok
}

func canon(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
