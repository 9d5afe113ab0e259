// SPDX-License-Identifier: MIT
// Package gmm: sentinel error set.

package gmm

import "github.com/cockroachdb/errors"

var (
	// ErrBadStage indicates a stage other than Within or Between.
	ErrBadStage = errors.New("gmm: unknown moment stage")

	// ErrShape indicates a moment pair whose G and g do not conform,
	// or a pair that cannot be stacked.
	ErrShape = errors.New("gmm: moment shapes do not conform")

	// ErrWeighting indicates a weighting matrix that is not positive definite
	// or does not match the number of moments.
	ErrWeighting = errors.New("gmm: invalid weighting matrix")

	// ErrBoundary indicates |λ| ≥ HardBound under WithHardBound.
	ErrBoundary = errors.New("gmm: spatial parameter outside (-0.99, 0.99)")

	// ErrStart indicates a start vector of the wrong length or outside the domain.
	ErrStart = errors.New("gmm: invalid start vector")
)
