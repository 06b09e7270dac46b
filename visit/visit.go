// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package visit stores the visitation frequencies
// of random walks simulated over a lineage tree.
//
// The visitation frequency of a cell for a segment
// is the number of times
// a simulated random walk started from the segment
// passed through the cell.
// Frequencies are raw counts:
// no normalization is assumed.
package visit

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// A Table is a collection of visitation frequencies
// keyed by cell and segment.
type Table struct {
	cells map[string]map[string]float64
	segs  map[string]bool
}

// New creates a new empty visitation table.
func New() *Table {
	return &Table{
		cells: make(map[string]map[string]float64),
		segs:  make(map[string]bool),
	}
}

// Add accumulates a visitation frequency
// of a cell for a segment.
func (t *Table) Add(cell, segment string, f float64) error {
	cell = canon(cell)
	if cell == "" {
		return fmt.Errorf("visit: expecting cell ID")
	}
	segment = canon(segment)
	if segment == "" {
		return fmt.Errorf("visit: expecting segment ID")
	}
	if math.IsNaN(f) || f < 0 {
		return fmt.Errorf("visit: cell %q, segment %q: invalid frequency", cell, segment)
	}

	sv, ok := t.cells[cell]
	if !ok {
		sv = make(map[string]float64)
		t.cells[cell] = sv
	}
	sv[segment] += f
	t.segs[segment] = true
	return nil
}

// Cells returns the IDs of the cells in the table,
// sorted by ID.
func (t *Table) Cells() []string {
	cells := make([]string, 0, len(t.cells))
	for c := range t.cells {
		cells = append(cells, c)
	}
	slices.Sort(cells)
	return cells
}

// Freq returns the visitation frequency of a cell
// for a given segment.
// The second return value is false
// if the cell was never visited
// by walks from the segment.
func (t *Table) Freq(cell, segment string) (float64, bool) {
	sv, ok := t.cells[canon(cell)]
	if !ok {
		return 0, false
	}
	f, ok := sv[canon(segment)]
	return f, ok
}

// Segments returns the IDs of the segments in the table,
// sorted by ID.
func (t *Table) Segments() []string {
	segs := make([]string, 0, len(t.segs))
	for s := range t.segs {
		segs = append(segs, s)
	}
	slices.Sort(segs)
	return segs
}

func canon(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
