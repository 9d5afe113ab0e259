// SPDX-License-Identifier: MIT

package mllag

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/matrix"
	"github.com/katalvlaran/spatialreg/ols"
	"github.com/katalvlaran/spatialreg/weights"
)

// Concentrated is the concentrated log-likelihood of one data set.
// It holds the two auxiliary regressions and the log-determinant evaluator.
type Concentrated struct {
	n      int
	y      []float64
	x      *mat.Dense
	w      *weights.W
	wDense *mat.Dense
	b0, b1 []float64
	e0, e1 []float64
	ld     logDet
	opts   Options
}

// Concentrate runs the regressions of y and Wy on x and prepares the
// log-determinant evaluator selected by WithMethod.
//
// Errors: ErrDimension, ErrDecomposition (Ord), and ols.Fit errors, such as
// matrix.ErrSingular for collinear X.
func Concentrate(y []float64, x *mat.Dense, w *weights.W, opts ...Option) (*Concentrated, error) {
	o := gatherOptions(opts...)
	if x == nil || w == nil {
		return nil, errors.Wrap(ErrDimension, "nil input")
	}
	n := len(y)
	if r, _ := x.Dims(); r != n || w.N() != n {
		return nil, errors.Wrapf(ErrDimension, "len(y)=%d, X rows=%d, W is %dx%[3]d", n, r, w.N())
	}
	if err := matrix.ValidateFinite(y); err != nil {
		return nil, errors.Wrap(err, "mllag: y")
	}

	ylag, err := w.Lag(y)
	if err != nil {
		return nil, err
	}
	fit0, err := ols.Fit(y, x)
	if err != nil {
		return nil, errors.Wrap(err, "mllag: y on X")
	}
	fit1, err := ols.Fit(ylag, x)
	if err != nil {
		return nil, errors.Wrap(err, "mllag: Wy on X")
	}

	wd, err := w.Full()
	if err != nil {
		return nil, err
	}
	ld, err := newLogDet(o.method, wd)
	if err != nil {
		return nil, err
	}

	return &Concentrated{
		n:      n,
		y:      append([]float64(nil), y...),
		x:      x,
		w:      w,
		wDense: wd,
		b0:     fit0.Betas,
		b1:     fit1.Betas,
		e0:     fit0.U,
		e1:     fit1.U,
		ld:     ld,
		opts:   o,
	}, nil
}

// NegLogLik returns clik(ρ) = n/2·ln(e'e/n) − ln|I − ρW|; +Inf where the
// log-determinant is undefined.
func (c *Concentrated) NegLogLik(rho float64) float64 {
	var ee float64
	for i := range c.e0 {
		r := c.e0[i] - rho*c.e1[i]
		ee += r * r
	}
	jacob := c.ld.LogDet(rho)
	if math.IsInf(jacob, -1) || math.IsNaN(jacob) {
		return math.Inf(1)
	}
	return float64(c.n)/2*math.Log(ee/float64(c.n)) - jacob
}

// LogLik returns the full log-likelihood at ρ, constants included.
func (c *Concentrated) LogLik(rho float64) float64 {
	n := float64(c.n)
	return -c.NegLogLik(rho) - n/2*math.Log(2*math.Pi) - n/2
}

// ProfilePoint is one point of the likelihood profile.
type ProfilePoint struct {
	Rho    float64
	LogLik float64
}

// Profile evaluates LogLik on grid.
func (c *Concentrated) Profile(grid []float64) []ProfilePoint {
	out := make([]ProfilePoint, len(grid))
	for i, rho := range grid {
		out[i] = ProfilePoint{Rho: rho, LogLik: c.LogLik(rho)}
	}
	return out
}

// Profile evaluates the log-likelihood of y on x with weights w at every ρ
// in grid. See Concentrate for errors.
func Profile(y []float64, x *mat.Dense, w *weights.W, grid []float64, opts ...Option) ([]ProfilePoint, error) {
	c, err := Concentrate(y, x, w, opts...)
	if err != nil {
		return nil, err
	}
	return c.Profile(grid), nil
}

// Grid returns steps+1 evenly spaced points covering [lo, hi].
func Grid(lo, hi float64, steps int) []float64 {
	if steps < 1 {
		return []float64{lo}
	}
	g := make([]float64, steps+1)
	floats.Span(g, lo, hi)
	return g
}
