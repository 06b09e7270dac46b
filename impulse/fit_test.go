// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package impulse_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/traject/impulse"
	"golang.org/x/exp/rand"
)

// peakSeries builds a noiseless impulse series
// from known parameters.
func peakSeries(shift float64) ([]float64, []float64) {
	p := impulse.Params{
		H0: 0.1, H1: 4, H2: 0.5,
		T1: 3 + shift, T2: 7 + shift,
		B1: 2, B2: 2,
	}
	x := make([]float64, 41)
	y := make([]float64, 41)
	for i := range x {
		x[i] = float64(i)*0.25 + shift
		y[i] = p.Eval(x[i])
	}
	return x, y
}

func TestFitPeak(t *testing.T) {
	x, y := peakSeries(0)

	ft := impulse.Fitter{
		SdBG: 0.1,
		Src:  rand.NewSource(1),
	}
	res, err := ft.Fit(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Shape != impulse.Impulse {
		t.Errorf("shape: got %q, want %q", res.Shape, impulse.Impulse)
	}

	// the peak of the fitted curve
	// must match the empirical peak
	emp := 0
	for i, v := range y {
		if v > y[emp] {
			emp = i
		}
	}
	fit := 0
	for i, v := range x {
		if res.Params.Eval(v) > res.Params.Eval(x[fit]) {
			fit = i
		}
	}
	if d := math.Abs(x[fit] - x[emp]); d > 1 {
		t.Errorf("fitted peak at %.2f, empirical peak at %.2f", x[fit], x[emp])
	}
}

func TestFitFlat(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{5, 5, 5, 5, 5, 5}

	ft := impulse.Fitter{
		SdBG:        0.1,
		OnsetThresh: 0.1,
		Src:         rand.NewSource(1),
	}
	res, err := ft.Fit(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Shape != impulse.Flat {
		t.Errorf("shape: got %q, want %q", res.Shape, impulse.Flat)
	}
	if res.SumSq > 1e-6 {
		t.Errorf("residual sum of squares: got %.6g, want near zero", res.SumSq)
	}
}

func TestFitTranslation(t *testing.T) {
	x, y := peakSeries(0)
	xs, ys := peakSeries(100)

	ft := impulse.Fitter{
		SdBG: 0.1,
		Src:  rand.NewSource(5),
	}
	res, err := ft.Fit(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ft.Src = rand.NewSource(5)
	shift, err := ft.Fit(xs, ys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if shift.Shape != res.Shape {
		t.Errorf("shape: got %q, want %q", shift.Shape, res.Shape)
	}
	if d := math.Abs(shift.SumSq - res.SumSq); d > 1e-3 {
		t.Errorf("residual sum of squares: got %.6g, want %.6g", shift.SumSq, res.SumSq)
	}
	if d := math.Abs(shift.Params.T1 - res.Params.T1 - 100); d > 0.5 {
		t.Errorf("onset time: got %.4f, want %.4f", shift.Params.T1, res.Params.T1+100)
	}
	if d := math.Abs(shift.Params.T2 - res.Params.T2 - 100); d > 0.5 {
		t.Errorf("offset time: got %.4f, want %.4f", shift.Params.T2, res.Params.T2+100)
	}
}

func TestFitSingleSlope(t *testing.T) {
	// asymmetric series:
	// a fast rise and a slow fall
	p := impulse.Params{
		H0: 0.1, H1: 4, H2: 0.5,
		T1: 2, T2: 6,
		B1: 5, B2: 0.8,
	}
	x := make([]float64, 41)
	y := make([]float64, 41)
	for i := range x {
		x[i] = float64(i) * 0.25
		y[i] = p.Eval(x[i])
	}

	ft := impulse.Fitter{
		SdBG:  0.1,
		Slope: impulse.SlopeSingle,
		Src:   rand.NewSource(1),
	}
	res, err := ft.Fit(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Params.B1 != res.Params.B2 {
		t.Errorf("rates: got %.6f and %.6f, want equal", res.Params.B1, res.Params.B2)
	}
}

func TestFitValidation(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{1, 2, 3, 4, 5, 6}

	ft := impulse.Fitter{SdBG: 0.1}
	if _, err := ft.Fit(x, y[:5]); err == nil {
		t.Errorf("mismatched series: expecting error")
	}
	if _, err := ft.Fit(x[:3], y[:3]); err == nil {
		t.Errorf("short series: expecting error")
	}

	ft.SdBG = 0
	if _, err := ft.Fit(x, y); err == nil {
		t.Errorf("invalid background: expecting error")
	}
}

func TestFitBatch(t *testing.T) {
	xp, yp := peakSeries(0)
	genes := map[string]impulse.Series{
		"gene-peak": {X: xp, Y: yp},
		"gene-flat": {
			X: []float64{0, 1, 2, 3, 4, 5},
			Y: []float64{5, 5, 5, 5, 5, 5},
		},
		"gene-short": {
			X: []float64{0, 1, 2},
			Y: []float64{1, 2, 3},
		},
	}

	ft := impulse.Fitter{
		SdBG: 0.1,
		Src:  rand.NewSource(42),
	}
	b := ft.FitBatch(genes, 2)

	want := []string{"gene-short"}
	if !reflect.DeepEqual(b.Failed, want) {
		t.Errorf("failed genes: got %v, want %v", b.Failed, want)
	}
	for _, g := range []string{"gene-flat", "gene-peak"} {
		if _, ok := b.Fits[g]; !ok {
			t.Errorf("gene %q: expecting a fit", g)
		}
	}

	// a batch with a seeded source is reproducible
	ft.Src = rand.NewSource(42)
	nb := ft.FitBatch(genes, 4)
	if !reflect.DeepEqual(nb.Fits, b.Fits) {
		t.Errorf("batch with the same seed: got a different fit")
	}
}

func TestFitNoFitError(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{5, 5, 5, 5, 5, 5}

	// an iteration cap too small for any convergence
	ft := impulse.Fitter{
		SdBG:    0.1,
		MaxIter: 1,
		Src:     rand.NewSource(1),
	}
	if _, err := ft.Fit(x, y); !errors.Is(err, impulse.ErrNoFit) {
		t.Errorf("got error %v, want %v", err, impulse.ErrNoFit)
	}
}
