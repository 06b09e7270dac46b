// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package impulse_test

import (
	"math"
	"testing"

	"github.com/js-arias/traject/impulse"
)

func TestEval(t *testing.T) {
	p := impulse.Params{
		H0: 1, H1: 5, H2: 2,
		T1: 3, T2: 7,
		B1: 4, B2: 4,
	}

	tests := map[string]struct {
		x    float64
		want float64
		tol  float64
	}{
		"before onset": {x: -100, want: 1, tol: 1e-6},
		"at peak":      {x: 5, want: 5, tol: 0.01},
		"after offset": {x: 100, want: 2, tol: 1e-6},
	}
	for name, test := range tests {
		got := p.Eval(test.x)
		if math.Abs(got-test.want) > test.tol {
			t.Errorf("%s: at %.1f: got %.6f, want %.6f", name, test.x, got, test.want)
		}
	}
}

func TestEvalTranslation(t *testing.T) {
	p := impulse.Params{
		H0: 0.5, H1: 4, H2: 1,
		T1: 2, T2: 6,
		B1: 3, B2: 1.5,
	}
	shift := p
	shift.T1 += 100
	shift.T2 += 100

	for x := 0.0; x <= 8; x += 0.5 {
		got := shift.Eval(x + 100)
		want := p.Eval(x)
		if math.Abs(got-want) > 1e-10 {
			t.Errorf("translated curve: at %.1f: got %.6f, want %.6f", x, got, want)
		}
	}
}

func TestShape(t *testing.T) {
	tests := map[string]struct {
		h0, h1, h2 float64
		want       impulse.Shape
	}{
		"flat":            {h0: 5, h1: 5, h2: 5, want: impulse.Flat},
		"flat with noise": {h0: 5, h1: 5.5, h2: 4.8, want: impulse.Flat},
		"impulse":         {h0: 0, h1: 5, h2: 0.5, want: impulse.Impulse},
		"rise":            {h0: 0, h1: 5, h2: 5, want: impulse.Rise},
		"slow rise":       {h0: 0, h1: 2, h2: 5, want: impulse.Rise},
		"fall":            {h0: 5, h1: 3, h2: 0, want: impulse.Fall},
		"dip":             {h0: 5, h1: 0, h2: 5.5, want: impulse.Rise},
	}

	for name, test := range tests {
		p := impulse.Params{H0: test.h0, H1: test.h1, H2: test.h2}
		if got := p.Shape(1); got != test.want {
			t.Errorf("%s: levels %.1f %.1f %.1f: got %q, want %q", name, test.h0, test.h1, test.h2, got, test.want)
		}
	}
}
