// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package exprstat_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/js-arias/traject/assign"
	"github.com/js-arias/traject/exprs"
	"github.com/js-arias/traject/exprstat"
	"github.com/js-arias/traject/lineage"
	"github.com/js-arias/traject/pseudotime"
	"github.com/js-arias/traject/visit"
)

func TestDotTable(t *testing.T) {
	tr := lineage.New()
	if err := tr.Add("A", "", 0, 0.5); err != nil {
		t.Fatalf("unable to add segment: %v", err)
	}
	if err := tr.Add("B", "A", 0.5, 1); err != nil {
		t.Fatalf("unable to add segment: %v", err)
	}

	pt := pseudotime.New()
	v := visit.New()
	cells := map[string]struct {
		x   float64
		seg string
	}{
		"c1": {x: 0.1, seg: "A"},
		"c2": {x: 0.2, seg: "A"},
		"c3": {x: 0.8, seg: "B"},
		"c4": {x: 0.9, seg: "B"},
	}
	for c, d := range cells {
		if err := pt.Add("pt", c, d.x); err != nil {
			t.Fatalf("unable to add pseudotime: %v", err)
		}
		if err := v.Add(c, d.seg, 1); err != nil {
			t.Fatalf("unable to add frequency: %v", err)
		}
	}

	a, err := assign.Assign(pt, "pt", v, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := exprs.New()
	vals := []struct {
		gene, cell string
		v          float64
	}{
		{gene: "g1", cell: "c1", v: 2},
		{gene: "g1", cell: "c2", v: 4},
		{gene: "g1", cell: "c3", v: 0},
		{gene: "g1", cell: "c4", v: 6},
		{gene: "g2", cell: "c1", v: 0},
		{gene: "g2", cell: "c2", v: 0},
	}
	for _, x := range vals {
		if err := m.Add(x.gene, x.cell, x.v); err != nil {
			t.Fatalf("unable to add expression: %v", err)
		}
	}

	want := []exprstat.Dot{
		{Gene: "g1", Segment: "A", Mean: 3, Fraction: 1, Cells: 2},
		{Gene: "g1", Segment: "B", Mean: 6, Fraction: 0.5, Cells: 2},
		{Gene: "g2", Segment: "A", Cells: 2},
		{Gene: "g2", Segment: "B", Cells: 2},
	}
	got := exprstat.DotTable(m, a, 0)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dot table: got %v, want %v", got, want)
	}
}

func TestPreference(t *testing.T) {
	v := visit.New()
	freqs := []struct {
		cell, seg string
		f         float64
	}{
		{cell: "c1", seg: "L", f: 10},
		{cell: "c2", seg: "L", f: 3},
		{cell: "c2", seg: "R", f: 9},
		{cell: "c3", seg: "R", f: 4},
		{cell: "c4", seg: "L", f: 5},
		{cell: "c4", seg: "R", f: 5},
	}
	for _, f := range freqs {
		if err := v.Add(f.cell, f.seg, f.f); err != nil {
			t.Fatalf("unable to add frequency: %v", err)
		}
	}

	want := []exprstat.Pref{
		{Cell: "c1", Score: 1},
		{Cell: "c2", Score: -0.5},
		{Cell: "c3", Score: -1},
		{Cell: "c4", Score: 0},
		{Cell: "c5", Score: 0},
	}
	got := exprstat.Preference(v, "L", "R", []string{"c5", "c4", "c3", "c2", "c1"})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("preference: got %v, want %v", got, want)
	}
}

func TestSummarizePref(t *testing.T) {
	pt := pseudotime.New()
	prefs := make([]exprstat.Pref, 0, 10)
	for i := 0; i < 10; i++ {
		cell := string(rune('a' + i))
		x := float64(i) / 10
		if err := pt.Add("pt", cell, x); err != nil {
			t.Fatalf("unable to add pseudotime: %v", err)
		}
		score := -1.0
		if x < 0.5 {
			score = 1.0
		}
		prefs = append(prefs, exprstat.Pref{Cell: cell, Score: score})
	}

	bins, err := exprstat.SummarizePref(pt, "pt", prefs, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) != 2 {
		t.Fatalf("bins: got %d, want %d", len(bins), 2)
	}

	if b := bins[0]; b.Median != 1 || b.Cells != 5 {
		t.Errorf("first bin: got median %.2f with %d cells, want 1.00 with 5 cells", b.Median, b.Cells)
	}
	if b := bins[1]; b.Median != -1 || b.Cells != 5 {
		t.Errorf("second bin: got median %.2f with %d cells, want -1.00 with 5 cells", b.Median, b.Cells)
	}

	if _, err := exprstat.SummarizePref(pt, "pt", prefs, 0); err == nil {
		t.Errorf("invalid bins: expecting error")
	}

	got, err := exprstat.SummarizePref(pt, "pt", nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("empty preference: got %v, want nil", got)
	}
}

func TestSummarizePrefBoundaries(t *testing.T) {
	tests := map[string]struct {
		cells int
		max   float64
		bins  int
	}{
		"narrow bins": {cells: 22, max: 2.3, bins: 7},
		"short axis":  {cells: 25, max: 0.3, bins: 8},
	}
	for name, test := range tests {
		pt := pseudotime.New()
		prefs := make([]exprstat.Pref, 0, test.cells)
		for i := 0; i < test.cells; i++ {
			cell := fmt.Sprintf("cell-%02d", i)
			x := test.max * float64(i) / float64(test.cells-1)
			if err := pt.Add("pt", cell, x); err != nil {
				t.Fatalf("%s: unable to add pseudotime: %v", name, err)
			}
			prefs = append(prefs, exprstat.Pref{Cell: cell, Score: 1})
		}

		bins, err := exprstat.SummarizePref(pt, "pt", prefs, test.bins)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}

		var sum int
		for _, b := range bins {
			sum += b.Cells
		}
		if sum != test.cells {
			t.Errorf("%s: binned cells: got %d, want %d", name, sum, test.cells)
		}
	}
}
