// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package visit_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/traject/visit"
)

func TestTable(t *testing.T) {
	v := newTable(t)

	testTable(t, "table", v)
}

func TestTSV(t *testing.T) {
	v := newTable(t)

	var w bytes.Buffer
	if err := v.TSV(&w); err != nil {
		t.Fatalf("unable to write TSV data: %v", err)
	}
	t.Logf("output:\n%s\n", w.String())

	r := strings.NewReader(w.String())
	nv, err := visit.ReadTSV(r)
	if err != nil {
		t.Fatalf("unable to read TSV data: %v", err)
	}

	testTable(t, "tsv", nv)
}

func TestAccumulate(t *testing.T) {
	v := visit.New()
	for i := 0; i < 3; i++ {
		if err := v.Add("cell-01", "seg-1", 2); err != nil {
			t.Fatalf("unable to add frequency: %v", err)
		}
	}

	f, ok := v.Freq("cell-01", "seg-1")
	if !ok {
		t.Fatalf("frequency not found")
	}
	if f != 6 {
		t.Errorf("frequency: got %.6f, want %.6f", f, 6.0)
	}
}

func TestAddErrors(t *testing.T) {
	v := visit.New()

	if err := v.Add("", "seg-1", 1); err == nil {
		t.Errorf("empty cell: expecting error")
	}
	if err := v.Add("cell-01", "", 1); err == nil {
		t.Errorf("empty segment: expecting error")
	}
	if err := v.Add("cell-01", "seg-1", -1); err == nil {
		t.Errorf("negative frequency: expecting error")
	}
}

func newTable(t testing.TB) *visit.Table {
	t.Helper()

	v := visit.New()
	freqs := []struct {
		cell, seg string
		f         float64
	}{
		{cell: "cell-01", seg: "seg-1", f: 10},
		{cell: "cell-01", seg: "seg-2", f: 3},
		{cell: "cell-02", seg: "seg-1", f: 2},
		{cell: "cell-02", seg: "seg-2", f: 9},
		{cell: "cell-03", seg: "seg-2", f: 4},
	}
	for _, f := range freqs {
		if err := v.Add(f.cell, f.seg, f.f); err != nil {
			t.Fatalf("unable to add frequency for cell %q: %v", f.cell, err)
		}
	}
	return v
}

func testTable(t testing.TB, name string, v *visit.Table) {
	t.Helper()

	cells := []string{"cell-01", "cell-02", "cell-03"}
	if g := v.Cells(); !reflect.DeepEqual(g, cells) {
		t.Errorf("%s: cells: got %v, want %v", name, g, cells)
	}

	segs := []string{"seg-1", "seg-2"}
	if g := v.Segments(); !reflect.DeepEqual(g, segs) {
		t.Errorf("%s: segments: got %v, want %v", name, g, segs)
	}

	freqs := map[string]map[string]float64{
		"cell-01": {"seg-1": 10, "seg-2": 3},
		"cell-02": {"seg-1": 2, "seg-2": 9},
		"cell-03": {"seg-2": 4},
	}
	for cell, sf := range freqs {
		for seg, w := range sf {
			g, ok := v.Freq(cell, seg)
			if !ok {
				t.Fatalf("%s: cell %q, segment %q: frequency not found", name, cell, seg)
			}
			if g != w {
				t.Errorf("%s: cell %q, segment %q: got %.6f, want %.6f", name, cell, seg, g, w)
			}
		}
	}

	if _, ok := v.Freq("cell-03", "seg-1"); ok {
		t.Errorf("%s: cell %q, segment %q: unexpected frequency", name, "cell-03", "seg-1")
	}
}
