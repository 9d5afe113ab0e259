// SPDX-License-Identifier: MIT

// Package weights defines core types, options, and defaults for the weights
// subpackage of github.com/katalvlaran/spatialreg.
package weights

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/spatialreg/matrix"
)

// Transform selects how raw neighbor weights are turned into W.
type Transform string

const (
	// Binary keeps the raw weights (1 for plain contiguity).
	Binary Transform = "B"
	// RowStandardized divides every row by its sum so non-island rows sum to 1.
	RowStandardized Transform = "R"
)

// DefaultTransform is applied by constructors unless WithTransform overrides it.
const DefaultTransform = RowStandardized

// Contiguity selects the lattice neighbor rule: Rook (4 edges) or Queen (edges and corners).
type Contiguity int

const (
	// Rook uses 4-directional connectivity: N, E, S, W.
	Rook Contiguity = iota
	// Queen uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Queen
)

// String implements fmt.Stringer.
func (c Contiguity) String() string {
	switch c {
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	default:
		return fmt.Sprintf("Contiguity(%d)", int(c))
	}
}

// ParseContiguity maps "rook"/"queen" to a Contiguity.
func ParseContiguity(s string) (Contiguity, error) {
	switch s {
	case "rook":
		return Rook, nil
	case "queen":
		return Queen, nil
	default:
		return 0, errors.Wrapf(ErrBadLattice, "contiguity %q", s)
	}
}

// W is an immutable spatial weights object.
//
//   - ids holds unit IDs in matrix order; index maps an ID back to its row.
//   - neighbors[i] lists neighbor rows of unit i in ascending order.
//   - raw holds the untransformed, validated weights.
//   - sparse is W under the current transform.
type W struct {
	ids       []string
	index     map[string]int
	neighbors [][]int
	raw       *matrix.Sparse
	transform Transform
	sparse    *matrix.Sparse
}

// Option configures construction of a W.
type Option func(*options)

type options struct {
	transform Transform
	weights   map[string][]float64
}

func defaultOptions() options {
	return options{transform: DefaultTransform}
}

// WithTransform selects the transform applied at construction time.
// Panics on an unknown code (programmer error).
func WithTransform(t Transform) Option {
	if t != Binary && t != RowStandardized {
		panic("weights: WithTransform: unknown transform " + string(t))
	}
	return func(o *options) { o.transform = t }
}

// WithWeights supplies explicit raw weights aligned with each neighbor list.
// Units absent from the map get unit weights.
func WithWeights(w map[string][]float64) Option {
	return func(o *options) { o.weights = w }
}
