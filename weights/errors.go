// SPDX-License-Identifier: MIT

// Package weights: sentinel error set.

package weights

import "github.com/cockroachdb/errors"

var (
	// ErrEmpty indicates a weights object with no units.
	ErrEmpty = errors.New("weights: no units")

	// ErrDuplicateID indicates the same unit ID was declared twice.
	ErrDuplicateID = errors.New("weights: duplicate unit id")

	// ErrUnknownID indicates a neighbor or lookup referenced an undeclared unit.
	ErrUnknownID = errors.New("weights: unknown unit id")

	// ErrSelfNeighbor indicates a unit listed itself as a neighbor (w_ii must be 0).
	ErrSelfNeighbor = errors.New("weights: unit is its own neighbor")

	// ErrBadWeight indicates a NaN, Inf or negative weight value.
	ErrBadWeight = errors.New("weights: invalid weight value")

	// ErrWeightsLength indicates a weight list that does not match its neighbor list.
	ErrWeightsLength = errors.New("weights: weights and neighbors length mismatch")

	// ErrBadTransform indicates an unsupported transform code.
	ErrBadTransform = errors.New("weights: unsupported transform")

	// ErrBadLattice indicates non-positive lattice dimensions or unknown contiguity.
	ErrBadLattice = errors.New("weights: invalid lattice")

	// ErrGALFormat indicates a malformed GAL stream.
	ErrGALFormat = errors.New("weights: malformed GAL input")
)
