// SPDX-License-Identifier: MIT
// Package mllag: sentinel error set.

package mllag

import "github.com/cockroachdb/errors"

var (
	// ErrDimension indicates y, X and W disagree on the number of observations.
	ErrDimension = errors.New("mllag: y, X and W dimensions disagree")

	// ErrBadMethod indicates an unknown log-determinant method.
	ErrBadMethod = errors.New("mllag: unknown log-determinant method")

	// ErrDecomposition indicates the eigendecomposition of W failed.
	ErrDecomposition = errors.New("mllag: eigendecomposition of W failed")

	// ErrPowerExpansion indicates Σρᵏ Wᵏ Xβ stopped shrinking.
	ErrPowerExpansion = errors.New("mllag: power expansion does not converge")

	// ErrInfeasible indicates the optimum has a non-finite log-likelihood.
	ErrInfeasible = errors.New("mllag: log-likelihood is not finite at the optimum")
)
