// SPDX-License-Identifier: MIT

package gmm

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/optim"
)

// HardBound is the |λ| limit enforced by WithHardBound.
const HardBound = 0.99

// maxAbsLambda keeps the start inside the open interval before atanh.
const maxAbsLambda = 1 - 1e-9

// Solution holds the minimiser of a moment system.
type Solution struct {
	Lambda      float64
	Sigma2      []float64 // σ_v² (and σ₁² for 4-column systems)
	Objective   float64
	Evaluations int
}

// Option configures Optimize.
type Option func(*options)

type options struct {
	weighting mat.Symmetric
	start     []float64
	solver    optim.Solver
	hardBound bool
}

// WithWeighting minimises ‖Ec(G·p − g)‖² where Ec'Ec = Ξ⁻¹.
func WithWeighting(xi mat.Symmetric) Option {
	return func(o *options) { o.weighting = xi }
}

// WithStart sets the starting point (λ, σ²…) in natural units.
// The default is λ = 0 and every σ² = 1.
func WithStart(start ...float64) Option {
	return func(o *options) { o.start = append([]float64(nil), start...) }
}

// WithSolver replaces the default optim.NelderMead.
func WithSolver(s optim.Solver) Option {
	if s == nil {
		panic("gmm: WithSolver: nil solver")
	}
	return func(o *options) { o.solver = s }
}

// WithHardBound makes Optimize fail with ErrBoundary when |λ| ≥ HardBound.
func WithHardBound(on bool) Option {
	return func(o *options) { o.hardBound = on }
}

// Optimize solves a moment system for λ ∈ (−1, 1) and σ² ≥ 0.
//
// Implementation:
//   - Stage 1: optionally premultiply G and g by Ec, the transposed Cholesky
//     factor of Ξ⁻¹, then divide both by min(min G, min g) (1 if that is 0).
//   - Stage 2: map λ = tanh z and σ² = s² so the bounds hold for any
//     unconstrained solver, and minimise Σ(G·p − g)² with
//     p = (λ, λ², σ²…).
//   - Stage 3: map the optimum back; enforce the hard bound if requested.
//
// Errors: ErrShape, ErrWeighting, ErrStart, ErrBoundary, optim.ErrNotConverged.
func Optimize(ctx context.Context, m MomentPair, opts ...Option) (Solution, error) {
	o := options{solver: optim.NelderMead{}}
	for _, opt := range opts {
		opt(&o)
	}
	if err := m.validate(); err != nil {
		return Solution{}, err
	}
	rows, cols := m.G.Dims()
	nSig := cols - 2

	G := mat.DenseCopyOf(m.G)
	g := mat.VecDenseCopyOf(m.Rhs)
	if o.weighting != nil {
		ec, err := weightingFactor(o.weighting, rows)
		if err != nil {
			return Solution{}, err
		}
		G.Mul(ec, m.G)
		g.MulVec(ec, m.Rhs)
	}
	scale := math.Min(mat.Min(G), mat.Min(g))
	if scale == 0 {
		scale = 1
	}
	G.Scale(1/scale, G)
	g.ScaleVec(1/scale, g)

	start := o.start
	if start == nil {
		start = make([]float64, 1+nSig)
		for i := 1; i < len(start); i++ {
			start[i] = 1
		}
	}
	if len(start) != 1+nSig {
		return Solution{}, errors.Wrapf(ErrStart, "got %d values, want %d", len(start), 1+nSig)
	}
	if math.IsNaN(start[0]) || math.Abs(start[0]) > 1 {
		return Solution{}, errors.Wrapf(ErrStart, "λ=%v", start[0])
	}
	z := make([]float64, len(start))
	z[0] = math.Atanh(math.Max(-maxAbsLambda, math.Min(maxAbsLambda, start[0])))
	for i := 1; i < len(start); i++ {
		if math.IsNaN(start[i]) || start[i] < 0 {
			return Solution{}, errors.Wrapf(ErrStart, "σ²[%d]=%v", i-1, start[i])
		}
		z[i] = math.Sqrt(start[i])
	}

	p := make([]float64, cols)
	resid := make([]float64, rows)
	gRaw := g.RawVector().Data
	objective := func(x []float64) float64 {
		toNatural(p, x)
		pv := mat.NewVecDense(cols, p)
		rv := mat.NewVecDense(rows, resid)
		rv.MulVec(G, pv)
		floats.Sub(resid, gRaw)
		return floats.Dot(resid, resid)
	}

	res, err := o.solver.Minimize(ctx, objective, z)
	if err != nil {
		return Solution{}, errors.Wrap(err, "gmm: optimize")
	}
	toNatural(p, res.X)
	sol := Solution{
		Lambda:      p[0],
		Sigma2:      append([]float64(nil), p[2:]...),
		Objective:   res.F,
		Evaluations: res.Evaluations,
	}
	if o.hardBound && math.Abs(sol.Lambda) >= HardBound {
		return sol, errors.Wrapf(ErrBoundary, "λ=%.6f", sol.Lambda)
	}

	return sol, nil
}

// toNatural maps solver coordinates x = (z, s…) to p = (λ, λ², σ²…).
func toNatural(p, x []float64) {
	lambda := math.Tanh(x[0])
	p[0], p[1] = lambda, lambda*lambda
	for i := 1; i < len(x); i++ {
		p[i+1] = x[i] * x[i]
	}
}

// weightingFactor returns Ec = chol(Ξ⁻¹)', so Ec'Ec = Ξ⁻¹.
func weightingFactor(xi mat.Symmetric, rows int) (*mat.Dense, error) {
	if xi.SymmetricDim() != rows {
		return nil, errors.Wrapf(ErrWeighting, "Ξ is %dx%[1]d, moments have %d rows", xi.SymmetricDim(), rows)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(xi); !ok {
		return nil, errors.Wrap(ErrWeighting, "Ξ is not positive definite")
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, errors.Wrapf(ErrWeighting, "invert Ξ: %v", err)
	}
	var cinv mat.Cholesky
	if ok := cinv.Factorize(&inv); !ok {
		return nil, errors.Wrap(ErrWeighting, "Ξ⁻¹ is not positive definite")
	}
	var l mat.TriDense
	cinv.LTo(&l)

	return mat.DenseCopyOf(l.T()), nil
}
