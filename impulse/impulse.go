// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package impulse implements the fit of an impulse-response curve
// to the expression of a gene
// along a pseudotime trajectory.
//
// The impulse model is the product of two logistic transitions:
// a rise from an initial level h0 to a peak level h1
// starting at an onset time t1,
// followed by a fall to a final level h2
// starting at an offset time t2.
// Any subset of the rise-peak-fall pattern
// can be expressed by the model.
package impulse

import "math"

// Params are the parameters of an impulse curve.
type Params struct {
	// Expression levels:
	// initial, peak, and final.
	H0, H1, H2 float64

	// Onset and offset times.
	T1, T2 float64

	// Rise and fall rates.
	B1, B2 float64
}

// Smallest magnitude used for the peak level
// when evaluating the model,
// to protect the scaling term from a zero division.
const minPeak = 1e-8

// Eval returns the value of the impulse curve
// at a given time.
func (p Params) Eval(x float64) float64 {
	rise := p.H0 + (p.H1-p.H0)*sigmoid(p.B1*(x-p.T1))
	fall := p.H2 + (p.H1-p.H2)*sigmoid(-p.B2*(x-p.T2))

	h1 := p.H1
	if math.Abs(h1) < minPeak {
		h1 = minPeak
		if p.H1 < 0 {
			h1 = -minPeak
		}
	}
	return rise * fall / h1
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// A Shape is the qualitative form of a fitted impulse curve.
type Shape string

// Valid shapes.
const (
	// The curve rises to the final level.
	Rise Shape = "rise"

	// The curve falls to the final level.
	Fall Shape = "fall"

	// The curve rises to a transient peak
	// and then falls.
	Impulse Shape = "impulse"

	// No level differs from the others
	// beyond the background noise.
	Flat Shape = "flat"
)

// Shape classifies the form of the curve
// by comparing the fitted levels pairwise
// against a threshold,
// usually a fraction of the background standard deviation.
// The classification is deterministic:
// flat if no pairwise difference exceeds the threshold;
// impulse if the peak level exceeds
// both the initial and the final levels;
// then rise or fall by the net level change;
// and in the remaining cases
// (opposing transitions with no net change)
// by the sign of the largest single transition.
func (p Params) Shape(thresh float64) Shape {
	d10 := p.H1 - p.H0
	d21 := p.H2 - p.H1
	d20 := p.H2 - p.H0

	switch {
	case math.Abs(d10) <= thresh && math.Abs(d21) <= thresh && math.Abs(d20) <= thresh:
		return Flat
	case d10 > thresh && -d21 > thresh:
		return Impulse
	case d20 > thresh:
		return Rise
	case d20 < -thresh:
		return Fall
	}

	d := d10
	if math.Abs(d21) > math.Abs(d10) {
		d = d21
	}
	if d > 0 {
		return Rise
	}
	return Fall
}
