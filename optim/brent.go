// SPDX-License-Identifier: MIT

package optim

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
)

// Defaults for Brent.
const (
	DefaultXTol        = 1e-5
	DefaultMaxFuncEval = 500
)

var (
	sqrtEps    = math.Sqrt(2.220446049250313e-16)
	goldenMean = 0.5 * (3 - math.Sqrt(5))
)

// Brent is bounded scalar minimisation by golden-section search with
// parabolic interpolation. The zero value uses DefaultXTol and
// DefaultMaxFuncEval.
//
// f may return +Inf at infeasible points; such points are never accepted as
// the minimum unless f is +Inf everywhere it is evaluated.
type Brent struct {
	XTol        float64
	MaxFuncEval int
}

// MinimizeScalar implements ScalarSolver.
//
// Implementation:
//   - Stage 1: start at the golden-section point of [lo, hi].
//   - Stage 2: try a parabola through the three best points; fall back to a
//     golden step when it leaves the bracket or does not shrink fast enough.
//   - Stage 3: stop when the bracket half-width reaches the tolerance
//     tol = √ε·|x| + XTol/3.
//
// Errors: ErrBadInterval, ErrNotConverged (evaluation budget exhausted),
// ctx.Err() on cancellation.
func (s Brent) MinimizeScalar(ctx context.Context, f func(float64) float64, lo, hi float64) (ScalarResult, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo >= hi {
		return ScalarResult{}, errors.Wrapf(ErrBadInterval, "[%v, %v]", lo, hi)
	}
	xtol := s.XTol
	if xtol <= 0 {
		xtol = DefaultXTol
	}
	maxEval := s.MaxFuncEval
	if maxEval <= 0 {
		maxEval = DefaultMaxFuncEval
	}

	a, b := lo, hi
	// x: best point; w: second best; v: previous w.
	x := a + goldenMean*(b-a)
	fx := f(x)
	w, fw := x, fx
	v, fv := x, fx
	evals := 1

	var d, e float64
	mid := 0.5 * (a + b)
	tol1 := sqrtEps*math.Abs(x) + xtol/3
	tol2 := 2 * tol1

	for math.Abs(x-mid) > tol2-0.5*(b-a) {
		if err := ctx.Err(); err != nil {
			return ScalarResult{X: x, F: fx, Evaluations: evals}, errors.Wrap(err, "optim: brent")
		}
		golden := true
		if math.Abs(e) > tol1 {
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x - v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			prevE := e
			e = d
			if math.Abs(p) < math.Abs(0.5*q*prevE) && p > q*(a-x) && p < q*(b-x) {
				golden = false
				d = p / q
				u := x + d
				if u-a < tol2 || b-u < tol2 {
					d = tol1 * signOrOne(mid-x)
				}
			}
		}
		if golden {
			if x >= mid {
				e = a - x
			} else {
				e = b - x
			}
			d = goldenMean * e
		}

		u := x + signOrOne(d)*math.Max(math.Abs(d), tol1)
		fu := f(u)
		evals++

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, fv = w, fw
			w, fw = x, fx
			x, fx = u, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			switch {
			case fu <= fw || w == x:
				v, fv = w, fw
				w, fw = u, fu
			case fu <= fv || v == x || v == w:
				v, fv = u, fu
			}
		}

		mid = 0.5 * (a + b)
		tol1 = sqrtEps*math.Abs(x) + xtol/3
		tol2 = 2 * tol1

		if evals >= maxEval {
			return ScalarResult{X: x, F: fx, Evaluations: evals},
				errors.Wrapf(ErrNotConverged, "brent: %d evaluations, bracket [%v, %v]", evals, a, b)
		}
	}

	return ScalarResult{X: x, F: fx, Evaluations: evals}, nil
}

// signOrOne is sign(v), with 0 mapped to +1.
func signOrOne(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
