// SPDX-License-Identifier: MIT

package optim

import (
	"context"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// Defaults for the gonum-backed solvers.
const (
	DefaultMaxIterations     = 2000
	DefaultGradientThreshold = 1e-6
)

// NelderMead is a derivative-free simplex solver. The zero value is usable.
type NelderMead struct {
	// MaxIterations caps major iterations; 0 selects DefaultMaxIterations.
	MaxIterations int
	// SimplexSize is the initial simplex edge; 0 keeps gonum's default.
	SimplexSize float64
}

// Minimize implements Solver.
func (s NelderMead) Minimize(ctx context.Context, f Objective, start []float64) (Result, error) {
	settings := optimize.Settings{MajorIterations: s.MaxIterations}
	if settings.MajorIterations == 0 {
		settings.MajorIterations = DefaultMaxIterations
	}
	p := optimize.Problem{Func: f}

	return run(ctx, p, start, settings, &optimize.NelderMead{SimplexSize: s.SimplexSize})
}

// BFGS is a quasi-Newton solver using central finite-difference gradients.
// The zero value is usable.
type BFGS struct {
	MaxIterations     int
	GradientThreshold float64
	// Step is the finite-difference step; 0 keeps the fd default.
	Step float64
}

// Minimize implements Solver.
func (s BFGS) Minimize(ctx context.Context, f Objective, start []float64) (Result, error) {
	settings := optimize.Settings{
		MajorIterations:   s.MaxIterations,
		GradientThreshold: s.GradientThreshold,
	}
	if settings.MajorIterations == 0 {
		settings.MajorIterations = DefaultMaxIterations
	}
	if settings.GradientThreshold == 0 {
		settings.GradientThreshold = DefaultGradientThreshold
	}
	fds := &fd.Settings{Formula: fd.Central, Step: s.Step}
	p := optimize.Problem{
		Func: f,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, f, x, fds)
		},
	}

	return run(ctx, p, start, settings, &optimize.BFGS{})
}
