// SPDX-License-Identifier: MIT

package kkp

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/spatialreg/optim"
)

// DefaultFullWeights selects I₃ instead of Tau in the pass-two weighting.
const DefaultFullWeights = false

// Option configures Estimate.
type Option func(*Options)

// Options is the resolved configuration of an Estimate call.
type Options struct {
	fullWeights bool
	hardBound   bool
	solver      optim.Solver
	logger      *zap.Logger
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		fullWeights: DefaultFullWeights,
		solver:      optim.NelderMead{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFullWeights weights the second GMM pass with Tau instead of I₃.
func WithFullWeights(on bool) Option {
	return func(o *Options) { o.fullWeights = on }
}

// WithHardBound rejects a final |λ| ≥ 0.99 with gmm.ErrBoundary.
func WithHardBound(on bool) Option {
	return func(o *Options) { o.hardBound = on }
}

// WithSolver replaces the Nelder–Mead backend of both GMM passes.
// Panics on nil.
func WithSolver(s optim.Solver) Option {
	if s == nil {
		panic("kkp: WithSolver: nil solver")
	}
	return func(o *Options) { o.solver = s }
}

// WithLogger sets the logger; the default is zap.NewNop().
// Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("kkp: WithLogger: nil logger")
	}
	return func(o *Options) { o.logger = l }
}
