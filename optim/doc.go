// SPDX-License-Identifier: MIT

// Package optim is the minimisation backend used by the estimators.
//
// Two small interfaces decouple the estimators from any particular algorithm:
//
//	Solver        unconstrained minimisation over ℝⁿ (gonum Nelder–Mead or BFGS)
//	ScalarSolver  bounded minimisation over [lo, hi] (Brent)
//
// Both take a context.Context; cancellation aborts the run and surfaces ctx.Err().
// Runs that stop for any reason other than convergence return ErrNotConverged
// wrapped with the backend status.
package optim
