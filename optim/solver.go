// SPDX-License-Identifier: MIT

package optim

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/optimize"
)

// Objective is a function to minimise. It must not retain x.
type Objective func(x []float64) float64

// Result is the outcome of a multivariate run.
type Result struct {
	X           []float64
	F           float64
	Evaluations int
	Status      string
}

// Solver minimises an Objective from a starting point.
type Solver interface {
	Minimize(ctx context.Context, f Objective, start []float64) (Result, error)
}

// ScalarResult is the outcome of a bounded scalar run.
type ScalarResult struct {
	X           float64
	F           float64
	Evaluations int
}

// ScalarSolver minimises f over the closed interval [lo, hi].
type ScalarSolver interface {
	MinimizeScalar(ctx context.Context, f func(float64) float64, lo, hi float64) (ScalarResult, error)
}

func validateStart(x []float64) error {
	if len(x) == 0 {
		return errors.Wrap(ErrBadStart, "empty")
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrBadStart, "x[%d]=%v", i, v)
		}
	}
	return nil
}

// ctxRecorder aborts a gonum run once ctx is done.
type ctxRecorder struct{ ctx context.Context }

func (r ctxRecorder) Init() error { return r.ctx.Err() }

func (r ctxRecorder) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return r.ctx.Err()
}

// run drives optimize.Minimize and normalises its two failure channels.
func run(ctx context.Context, p optimize.Problem, start []float64, settings optimize.Settings, method optimize.Method) (Result, error) {
	if err := validateStart(start); err != nil {
		return Result{}, err
	}
	settings.Recorder = ctxRecorder{ctx: ctx}

	res, err := optimize.Minimize(p, append([]float64(nil), start...), &settings, method)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, errors.Wrap(ctxErr, "optim")
	}
	if err != nil {
		if res == nil {
			return Result{}, errors.Wrapf(ErrNotConverged, "%v", err)
		}
		return toResult(res), errors.Wrapf(ErrNotConverged, "status %v: %v", res.Status, err)
	}
	if err = res.Status.Err(); err != nil {
		return toResult(res), errors.Wrapf(ErrNotConverged, "status %v: %v", res.Status, err)
	}

	return toResult(res), nil
}

func toResult(r *optimize.Result) Result {
	return Result{
		X:           append([]float64(nil), r.X...),
		F:           r.F,
		Evaluations: r.Stats.FuncEvaluations,
		Status:      r.Status.String(),
	}
}
