// SPDX-License-Identifier: MIT

package mllag

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/spatialreg/optim"
)

// Method selects how ln|I − ρW| is evaluated.
type Method int

const (
	// Full factorises the dense I − ρW at every evaluation.
	Full Method = iota
	// Ord uses the eigenvalues of W (Ord, 1975).
	Ord
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Full:
		return "full"
	case Ord:
		return "ord"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps "full"/"ord" (any case) to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "full":
		return Full, nil
	case "ord":
		return Ord, nil
	default:
		return 0, errors.Wrapf(ErrBadMethod, "%q", s)
	}
}

// Defaults.
const (
	DefaultMethod  = Full
	DefaultEpsilon = 1e-7
	DefaultNameY   = "dep_var"
	// defaultNameXFormat names regressors without a supplied name.
	defaultNameXFormat = "var_%d"
	// maxPowerTerms caps the reduced-form power expansion.
	maxPowerTerms = 10000
)

// Option configures Estimate and Concentrate.
type Option func(*Options)

// Options is the resolved configuration.
type Options struct {
	method  Method
	eps     float64
	lo, hi  float64
	bounded bool
	scalar  optim.ScalarSolver
	logger  *zap.Logger
	nameY   string
	nameX   []string
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		method: DefaultMethod,
		eps:    DefaultEpsilon,
		logger: zap.NewNop(),
		nameY:  DefaultNameY,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.bounded {
		o.lo, o.hi = -1+o.eps, 1-o.eps
	}
	if o.scalar == nil {
		o.scalar = optim.Brent{XTol: o.eps}
	}
	return o
}

// WithMethod selects the log-determinant method. Panics on an unknown value.
func WithMethod(m Method) Option {
	if m != Full && m != Ord {
		panic("mllag: WithMethod: unknown method " + m.String())
	}
	return func(o *Options) { o.method = m }
}

// WithEpsilon sets the search tolerance, the power-expansion threshold and
// the default distance δ of the search interval from ±1.
// Panics unless 0 < eps < 1.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || eps <= 0 || eps >= 1 {
		panic("mllag: WithEpsilon: eps must be in (0, 1)")
	}
	return func(o *Options) { o.eps = eps }
}

// WithBounds replaces the search interval [−1+δ, 1−δ]. Panics unless lo < hi.
func WithBounds(lo, hi float64) Option {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo >= hi {
		panic("mllag: WithBounds: need lo < hi")
	}
	return func(o *Options) { o.lo, o.hi, o.bounded = lo, hi, true }
}

// WithScalarSolver replaces the default optim.Brent. Panics on nil.
func WithScalarSolver(s optim.ScalarSolver) Option {
	if s == nil {
		panic("mllag: WithScalarSolver: nil solver")
	}
	return func(o *Options) { o.scalar = s }
}

// WithLogger sets the logger; the default is zap.NewNop(). Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("mllag: WithLogger: nil logger")
	}
	return func(o *Options) { o.logger = l }
}

// WithNames labels the dependent variable and the regressors in the Result.
func WithNames(nameY string, nameX []string) Option {
	return func(o *Options) {
		if nameY != "" {
			o.nameY = nameY
		}
		o.nameX = append([]string(nil), nameX...)
	}
}
