// SPDX-License-Identifier: MIT
// Package ols: sentinel error set.

package ols

import "github.com/cockroachdb/errors"

var (
	// ErrDimension indicates len(y) differs from the rows of X, or X is empty.
	ErrDimension = errors.New("ols: y and X dimensions disagree")

	// ErrUnderdetermined indicates n ≤ k: no residual degrees of freedom.
	ErrUnderdetermined = errors.New("ols: need more observations than regressors")
)
