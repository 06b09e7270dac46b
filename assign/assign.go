// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package assign implements the assignment of cells
// to the segments of a lineage tree.
//
// Each cell is assigned to the segment
// that most often visited the cell
// during the random walk simulation,
// among the segments
// whose pseudotime window contains the cell.
package assign

import (
	"fmt"
	"slices"

	"github.com/js-arias/traject/lineage"
	"github.com/js-arias/traject/pseudotime"
	"github.com/js-arias/traject/visit"
)

// An Assignment maps each cell
// to a single segment of a lineage tree,
// and each segment
// to the set of its assigned cells.
type Assignment struct {
	cell map[string]string
	segs map[string][]string
}

// Assign assigns every cell with a pseudotime
// in the indicated column
// to a segment of the tree.
//
// The candidate segments of a cell
// are the segments whose pseudotime window
// contains the pseudotime of the cell;
// among candidates,
// the segment with the largest visitation frequency
// for the cell wins.
// Segments are always scanned in sorted ID order,
// so a tie is broken
// by the smallest segment ID.
//
// A cell without a covering segment,
// or without visitation data
// for any candidate segment,
// is left unassigned
// and is absent from the assignment.
//
// The assignment is a pure function of its inputs:
// repeated calls with the same data
// return identical assignments.
func Assign(pt *pseudotime.Table, column string, v *visit.Table, t *lineage.Tree) (*Assignment, error) {
	if !slices.Contains(pt.Columns(), column) {
		return nil, fmt.Errorf("assign: undefined pseudotime column %q", column)
	}

	a := &Assignment{
		cell: make(map[string]string),
		segs: make(map[string][]string),
	}

	segs := t.Segments()
	for _, cell := range pt.Cells(column) {
		x, _ := pt.Value(column, cell)

		best := ""
		var bestFreq float64
		for _, s := range segs {
			if !t.Covers(s, x) {
				continue
			}
			f, ok := v.Freq(cell, s)
			if !ok {
				continue
			}
			if best == "" || f > bestFreq {
				best = s
				bestFreq = f
			}
		}
		if best == "" {
			continue
		}
		a.cell[cell] = best
		a.segs[best] = append(a.segs[best], cell)
	}

	for _, cells := range a.segs {
		slices.Sort(cells)
	}
	return a, nil
}

// Cells returns the IDs of the cells
// assigned to a segment,
// sorted by ID.
func (a *Assignment) Cells(segment string) []string {
	cells, ok := a.segs[segment]
	if !ok {
		return nil
	}
	cp := make([]string, len(cells))
	copy(cp, cells)
	return cp
}

// Assigned returns the IDs of the assigned cells,
// sorted by ID.
func (a *Assignment) Assigned() []string {
	cells := make([]string, 0, len(a.cell))
	for c := range a.cell {
		cells = append(cells, c)
	}
	slices.Sort(cells)
	return cells
}

// Len returns the number of assigned cells.
func (a *Assignment) Len() int {
	return len(a.cell)
}

// Segment returns the segment assigned to a cell.
// The second return value is false
// if the cell is unassigned.
func (a *Assignment) Segment(cell string) (string, bool) {
	s, ok := a.cell[cell]
	return s, ok
}

// Segments returns the IDs of the segments
// with at least one assigned cell,
// sorted by ID.
func (a *Assignment) Segments() []string {
	segs := make([]string, 0, len(a.segs))
	for s := range a.segs {
		segs = append(segs, s)
	}
	slices.Sort(segs)
	return segs
}
