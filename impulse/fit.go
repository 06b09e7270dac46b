// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package impulse

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// A SlopeMode indicates how the rise and fall rates
// are treated during the fit.
type SlopeMode string

// Valid slope modes.
const (
	// Fit the curve with a shared rate
	// and with independent rates,
	// and keep the shared-rate fit
	// unless the independent fit is better
	// beyond the model penalty.
	SlopeBoth SlopeMode = "both"

	// Force the rise and fall rates to be equal.
	SlopeSingle SlopeMode = "single"

	// Fit the rise and fall rates independently.
	SlopeFree SlopeMode = "free"
)

// MinPoints is the minimum number of observations
// required to attempt a fit.
const MinPoints = 4

// ErrNoFit is returned when no initialization
// produces a convergent fit.
var ErrNoFit = errors.New("impulse: no convergent fit")

// Default fitting parameters.
const (
	defStarts  = 10
	defPerturb = 0.1
	defPenalty = 0.05
	defMaxIter = 1000
	defOnset   = 1.0
)

// A Fitter fits impulse curves
// by nonlinear least squares
// from multiple randomized initializations.
//
// The zero value is not usable:
// SdBG must be set to the standard deviation
// of the background noise.
// Any other zero field takes a default value.
type Fitter struct {
	// Standard deviation of the background noise.
	SdBG float64

	// Fraction of SdBG that two levels must differ
	// to be considered different
	// when classifying the shape of the curve.
	OnsetThresh float64

	// Number of randomized initializations.
	Starts int

	// Fraction of the observed expression range
	// used to perturb the level seeds
	// of each initialization.
	Perturb float64

	// Treatment of the rise and fall rates.
	Slope SlopeMode

	// Fraction by which an independent-rate fit
	// must reduce the residual sum of squares
	// to be preferred over a shared-rate fit.
	Penalty float64

	// Iteration cap for each optimizer run.
	MaxIter int

	// Source of random numbers
	// for the initialization perturbations.
	// If nil,
	// the fit is seeded from the current time
	// and is not reproducible across runs.
	Src rand.Source
}

// A Result is the outcome of an impulse fit.
type Result struct {
	// Best fit parameters.
	Params Params

	// Residual sum of squares of the best fit.
	SumSq float64

	// Qualitative form of the fitted curve.
	Shape Shape
}

// Fit fits an impulse curve
// to a series of paired time and expression observations.
// It returns ErrNoFit if no initialization converges.
func (ft Fitter) Fit(x, y []float64) (Result, error) {
	if len(x) != len(y) {
		return Result{}, fmt.Errorf("impulse: mismatched series: %d times, %d values", len(x), len(y))
	}
	if len(x) < MinPoints {
		return Result{}, fmt.Errorf("impulse: got %d observations, want at least %d", len(x), MinPoints)
	}
	if ft.SdBG <= 0 {
		return Result{}, fmt.Errorf("impulse: invalid background standard deviation: %.6f", ft.SdBG)
	}
	if ft.Starts < 0 || ft.Perturb < 0 || ft.Penalty < 0 || ft.MaxIter < 0 || ft.OnsetThresh < 0 {
		return Result{}, errors.New("impulse: negative fitting parameter")
	}
	ft.setDefaults()

	src := ft.Src
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}

	yMin, yMax := bounds(y)
	u := distuv.Uniform{
		Min: -ft.Perturb * (yMax - yMin),
		Max: ft.Perturb * (yMax - yMin),
		Src: src,
	}
	if u.Min == u.Max {
		// distuv.Uniform panics on an empty interval
		u.Max = u.Min + minPeak
	}

	var single, free bestFit
	if ft.Slope != SlopeFree {
		single = ft.multiStart(x, y, u, true)
	}
	if ft.Slope != SlopeSingle {
		free = ft.multiStart(x, y, u, false)
	}

	switch ft.Slope {
	case SlopeSingle:
		return ft.result(single)
	case SlopeFree:
		return ft.result(free)
	}

	if !single.ok {
		return ft.result(free)
	}
	if !free.ok {
		return ft.result(single)
	}
	if free.ssr < single.ssr*(1-ft.Penalty) {
		return ft.result(free)
	}
	return ft.result(single)
}

func (ft *Fitter) setDefaults() {
	if ft.OnsetThresh == 0 {
		ft.OnsetThresh = defOnset
	}
	if ft.Starts == 0 {
		ft.Starts = defStarts
	}
	if ft.Perturb == 0 {
		ft.Perturb = defPerturb
	}
	if ft.Slope == "" {
		ft.Slope = SlopeBoth
	}
	if ft.Penalty == 0 {
		ft.Penalty = defPenalty
	}
	if ft.MaxIter == 0 {
		ft.MaxIter = defMaxIter
	}
}

func (ft Fitter) result(b bestFit) (Result, error) {
	if !b.ok {
		return Result{}, ErrNoFit
	}
	return Result{
		Params: b.p,
		SumSq:  b.ssr,
		Shape:  b.p.Shape(ft.OnsetThresh * ft.SdBG),
	}, nil
}

// A bestFit is the best outcome of a set of multi-start runs.
type bestFit struct {
	p   Params
	ssr float64
	ok  bool
}

// The value reported by the objective function
// outside the valid parameter region
// (negative rates, or an offset before the onset).
const badFit = 1e10

func (ft Fitter) multiStart(x, y []float64, u distuv.Uniform, shared bool) bestFit {
	fn := func(v []float64) float64 {
		p := fromVector(v, shared)
		var bad float64
		if p.B1 < 0 {
			bad += -p.B1
		}
		if p.B2 < 0 {
			bad += -p.B2
		}
		if p.T2 < p.T1 {
			bad += p.T1 - p.T2
		}
		if bad > 0 {
			return badFit * (1 + bad)
		}

		var ssr float64
		for i, xi := range x {
			d := y[i] - p.Eval(xi)
			ssr += d * d
		}
		return ssr
	}

	seed := seedParams(x, y)
	settings := &optimize.Settings{
		MajorIterations: ft.MaxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 50,
		},
	}

	best := bestFit{ssr: math.Inf(1)}
	for i := 0; i < ft.Starts; i++ {
		p0 := seed.vector(shared, u)
		res, err := optimize.Minimize(optimize.Problem{Func: fn}, p0, settings, &optimize.NelderMead{})
		if err != nil {
			continue
		}
		if res.Status == optimize.IterationLimit {
			continue
		}
		if math.IsNaN(res.F) || res.F >= badFit {
			continue
		}
		if res.F < best.ssr {
			best = bestFit{
				p:   fromVector(res.X, shared),
				ssr: res.F,
				ok:  true,
			}
		}
	}
	return best
}

func fromVector(v []float64, shared bool) Params {
	p := Params{
		H0: v[0],
		H1: v[1],
		H2: v[2],
		T1: v[3],
		T2: v[4],
		B1: v[5],
	}
	if shared {
		p.B2 = v[5]
	} else {
		p.B2 = v[6]
	}
	return p
}

// seedParams estimates coarse starting values
// from the observed series:
// the initial and final levels
// from the mean of the earliest and latest observations,
// the peak level from the maximum observation,
// the onset and offset times
// halfway between the range limits and the peak,
// and the rates from the span of the series.
func seedParams(x, y []float64) Params {
	n := len(x)
	first, last := 0, 0
	for i := 1; i < n; i++ {
		if x[i] < x[first] {
			first = i
		}
		if x[i] >= x[last] {
			last = i
		}
	}

	xMin, xMax := x[first], x[last]
	span := xMax - xMin
	if span <= 0 {
		span = 1
	}

	// mean of the observations
	// near each end of the series
	h0 := edgeMean(x, y, xMin, span)
	h2 := edgeMean(x, y, xMax, span)

	h1 := y[0]
	xPeak := x[0]
	for i, v := range y {
		if v > h1 {
			h1 = v
			xPeak = x[i]
		}
	}

	return Params{
		H0: h0,
		H1: h1,
		H2: h2,
		T1: (xMin + xPeak) / 2,
		T2: (xPeak + xMax) / 2,
		B1: 2 / span,
		B2: 2 / span,
	}
}

// edgeMean returns the mean of the observations
// within a tenth of the span from a series end.
func edgeMean(x, y []float64, edge, span float64) float64 {
	var sum float64
	var n int
	for i, xi := range x {
		if math.Abs(xi-edge) <= span/10 {
			sum += y[i]
			n++
		}
	}
	if n == 0 {
		return y[0]
	}
	return sum / float64(n)
}

// vector builds a perturbed initialization vector
// from the seed parameters.
// Only the expression levels are perturbed.
func (p Params) vector(shared bool, u distuv.Uniform) []float64 {
	v := []float64{
		p.H0 + u.Rand(),
		p.H1 + u.Rand(),
		p.H2 + u.Rand(),
		p.T1,
		p.T2,
		p.B1,
	}
	if !shared {
		v = append(v, p.B2)
	}
	return v
}

func bounds(y []float64) (min, max float64) {
	min, max = y[0], y[0]
	for _, v := range y {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
