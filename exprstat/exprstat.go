// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package exprstat summarizes gene expression
// over the segments of a lineage tree.
//
// The summaries are the numeric tables
// behind the usual trajectory diagnostics:
// the per segment expression table of a dot plot,
// and the per cell preference scores
// of a branchpoint preference plot.
package exprstat

import (
	"fmt"
	"slices"

	"github.com/js-arias/traject/assign"
	"github.com/js-arias/traject/exprs"
	"github.com/js-arias/traject/pseudotime"
	"github.com/js-arias/traject/visit"
	"gonum.org/v1/gonum/stat"
)

// A Dot is the expression summary of a gene
// in a segment:
// the mean expression among the expressing cells
// and the fraction of cells expressing the gene.
type Dot struct {
	Gene    string
	Segment string

	// Mean expression
	// among the cells expressing the gene.
	Mean float64

	// Fraction of the segment cells
	// expressing the gene.
	Fraction float64

	// Number of cells in the segment.
	Cells int
}

// DotTable returns the expression summary
// of every gene of the matrix
// in every segment with assigned cells.
// A cell expresses a gene
// if its expression value is greater than minExpr.
// Rows are sorted by gene
// and then by segment.
func DotTable(m *exprs.Matrix, a *assign.Assignment, minExpr float64) []Dot {
	segs := a.Segments()

	var dots []Dot
	for _, g := range m.Genes() {
		for _, s := range segs {
			cells := a.Cells(s)
			var sum float64
			var expr int
			for _, c := range cells {
				v, ok := m.Value(g, c)
				if !ok {
					continue
				}
				if v <= minExpr {
					continue
				}
				sum += v
				expr++
			}
			d := Dot{
				Gene:    g,
				Segment: s,
				Cells:   len(cells),
			}
			if expr > 0 {
				d.Mean = sum / float64(expr)
				d.Fraction = float64(expr) / float64(len(cells))
			}
			dots = append(dots, d)
		}
	}
	return dots
}

// A Pref is the preference of a cell
// between two sibling segments of a branchpoint.
// The score is (l-r)/(l+r)
// for the visitation frequencies l and r
// of the left and right segments:
// 1 for a cell only visited from the left segment,
// -1 for a cell only visited from the right segment,
// and 0 for a cell visited equally from both,
// or never visited from either.
type Pref struct {
	Cell  string
	Score float64
}

// Preference returns the preference scores
// of a set of cells
// between two segments.
// Rows are sorted by cell.
func Preference(v *visit.Table, left, right string, cells []string) []Pref {
	cs := make([]string, len(cells))
	copy(cs, cells)
	slices.Sort(cs)

	prefs := make([]Pref, 0, len(cs))
	for _, c := range cs {
		l, _ := v.Freq(c, left)
		r, _ := v.Freq(c, right)

		p := Pref{Cell: c}
		if l+r > 0 {
			p.Score = (l - r) / (l + r)
		}
		prefs = append(prefs, p)
	}
	return prefs
}

// A PrefBin is the summary of the preference scores
// of the cells inside a window of pseudotime:
// the median score
// and the empirical 2.5% and 97.5% quantiles.
type PrefBin struct {
	// Pseudotime window of the bin.
	Start, End float64

	// Number of cells in the bin.
	Cells int

	Median float64
	Q025   float64
	Q975   float64
}

// SummarizePref bins a set of preference scores
// over a pseudotime column
// and summarizes each bin
// with its median and quantiles.
// Cells without a pseudotime value are ignored;
// every other cell is counted in exactly one bin.
// Empty bins are omitted.
func SummarizePref(pt *pseudotime.Table, column string, prefs []Pref, bins int) ([]PrefBin, error) {
	if bins < 1 {
		return nil, fmt.Errorf("exprstat: invalid number of bins: %d", bins)
	}

	type obs struct {
		x, score float64
	}
	var data []obs
	for _, p := range prefs {
		x, ok := pt.Value(column, p.Cell)
		if !ok {
			continue
		}
		data = append(data, obs{x: x, score: p.Score})
	}
	if len(data) == 0 {
		return nil, nil
	}

	min, max := data[0].x, data[0].x
	for _, d := range data {
		if d.x < min {
			min = d.x
		}
		if d.x > max {
			max = d.x
		}
	}
	width := (max - min) / float64(bins)
	if width == 0 {
		width = 1
	}

	// membership by index:
	// every cell lands in exactly one bin,
	// and the cell at the maximum pseudotime
	// lands in the last bin
	scores := make([][]float64, bins)
	for _, d := range data {
		b := int((d.x - min) / width)
		if b >= bins {
			b = bins - 1
		}
		scores[b] = append(scores[b], d.score)
	}

	var sum []PrefBin
	for b, sc := range scores {
		if len(sc) == 0 {
			continue
		}
		slices.Sort(sc)

		start := min + float64(b)*width
		sum = append(sum, PrefBin{
			Start:  start,
			End:    start + width,
			Cells:  len(sc),
			Median: stat.Quantile(0.5, stat.Empirical, sc, nil),
			Q025:   stat.Quantile(0.025, stat.Empirical, sc, nil),
			Q975:   stat.Quantile(0.975, stat.Empirical, sc, nil),
		})
	}
	return sum, nil
}
