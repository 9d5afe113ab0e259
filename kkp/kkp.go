// SPDX-License-Identifier: MIT

package kkp

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/gmm"
	"github.com/katalvlaran/spatialreg/ols"
	"github.com/katalvlaran/spatialreg/panel"
	"github.com/katalvlaran/spatialreg/weights"
)

// Names appended to the regressor names for the non-β entries of Betas.
const (
	NameLambda  = "lambda"
	NameSigmaV  = "sigma2_v"
	NameSigma1  = "sigma2_1"
	extraParams = 3
)

// Result is a fitted KKP model. It is not modified after Estimate returns.
type Result struct {
	Betas     []float64  // β ++ λ ++ σ_v² ++ σ₁²
	VM        *mat.Dense // k×k covariance of β from the FGLS stage
	Y         []float64
	X         *mat.Dense
	PredY     []float64
	U         []float64
	EFiltered []float64

	Lambda  float64
	SigmaV2 float64
	Sigma12 float64
	Theta   float64

	// Pass1 is the unweighted within-moment solution that seeds pass 2.
	Pass1 gmm.Solution
	// Pass2 is the final stacked, weighted solution.
	Pass2 gmm.Solution

	N, T, K     int
	FullWeights bool
	NameY       string
	NameX       []string // regressors then NameLambda, NameSigmaV, NameSigma1
}

// Estimate fits the KKP spatial random-effects model to d with weights w.
//
// Implementation:
//   - Stage 1: pooled OLS of y on X for the residuals u.
//   - Stage 2: within moments, unweighted GMM → (λ₁, σ_v²); the trace Σwᵢⱼ²
//     is kept for the later calls.
//   - Stage 3: σ₁² = u_λ'Q1u_λ/N with u_λ = u − λ₁(I_T⊗W)u.
//   - Stage 4: between moments, stack to 6×4, weight with
//     Ξ = diag(σ_v⁴/(T−1), σ₁⁴) ⊗ (Tau | I₃) and re-solve from (λ₁, σ_v², σ₁²).
//   - Stage 5: θ = 1 − σ_v/σ₁, then FilterFGLS.
//
// Errors: ErrUnitMismatch, ErrVariance, panel.ErrDegeneratePanel, and the
// errors of ols.Fit, gmm.Moments, gmm.Optimize (optim.ErrNotConverged,
// gmm.ErrWeighting, gmm.ErrBoundary).
func Estimate(ctx context.Context, d *panel.Data, w *weights.W, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	log := o.logger

	if d == nil || w == nil || d.X == nil {
		return nil, errors.Wrap(panel.ErrNilInput, "kkp")
	}
	if d.N != w.N() {
		return nil, errors.Wrapf(ErrUnitMismatch, "panel N=%d, weights N=%d", d.N, w.N())
	}
	t, err := panel.Periods(len(d.Y), d.N)
	if err != nil {
		return nil, errors.Wrap(err, "kkp")
	}
	if islands := w.Islands(); len(islands) > 0 {
		log.Warn("weights contain islands", zap.Int("count", len(islands)), zap.Strings("ids", islands))
	}
	ws := w.Sparse()

	first, err := ols.Fit(d.Y, d.X)
	if err != nil {
		return nil, errors.Wrap(err, "kkp: first-stage regression")
	}

	m0, trace, err := gmm.Moments(ws, first.U, gmm.Within, nil)
	if err != nil {
		return nil, errors.Wrap(err, "kkp: within moments")
	}
	pass1, err := gmm.Optimize(ctx, m0, gmm.WithSolver(o.solver))
	if err != nil {
		return nil, errors.Wrap(err, "kkp: gmm pass 1")
	}
	log.Debug("gmm pass 1",
		zap.Float64("lambda", pass1.Lambda),
		zap.Float64("sigma2_v", pass1.Sigma2[0]),
		zap.Float64("trace_w2", trace),
		zap.Int("evaluations", pass1.Evaluations))

	sig1, err := betweenVariance(w, first.U, pass1.Lambda, d.N, t)
	if err != nil {
		return nil, err
	}

	var tau mat.Symmetric
	if o.fullWeights {
		if tau, err = gmm.Tau(ws, trace); err != nil {
			return nil, errors.Wrap(err, "kkp")
		}
	}
	xi, err := gmm.Weighting(pass1.Sigma2[0], sig1, t, tau)
	if err != nil {
		return nil, errors.Wrap(err, "kkp")
	}

	m1, _, err := gmm.Moments(ws, first.U, gmm.Between, &trace)
	if err != nil {
		return nil, errors.Wrap(err, "kkp: between moments")
	}
	m6, err := gmm.Stack(m0, m1)
	if err != nil {
		return nil, errors.Wrap(err, "kkp")
	}
	pass2, err := gmm.Optimize(ctx, m6,
		gmm.WithWeighting(xi),
		gmm.WithStart(pass1.Lambda, pass1.Sigma2[0], sig1),
		gmm.WithSolver(o.solver),
		gmm.WithHardBound(o.hardBound),
	)
	if err != nil {
		return nil, errors.Wrap(err, "kkp: gmm pass 2")
	}
	lambda, sigV, sig1b := pass2.Lambda, pass2.Sigma2[0], pass2.Sigma2[1]
	if sigV <= 0 || sig1b <= 0 {
		return nil, errors.Wrapf(ErrVariance, "sigma2_v=%v sigma2_1=%v", sigV, sig1b)
	}
	if math.Abs(lambda) >= gmm.HardBound {
		log.Warn("lambda near the stationarity bound", zap.Float64("lambda", lambda))
	}

	theta := 1 - math.Sqrt(sigV)/math.Sqrt(sig1b)
	log.Debug("gmm pass 2",
		zap.Float64("lambda", lambda),
		zap.Float64("sigma2_v", sigV),
		zap.Float64("sigma2_1", sig1b),
		zap.Float64("theta", theta),
		zap.Bool("full_weights", o.fullWeights))

	fg, err := FilterFGLS(lambda, theta, w, d.X, d.Y)
	if err != nil {
		return nil, err
	}

	k := len(fg.Betas)
	betas := make([]float64, 0, k+extraParams)
	betas = append(betas, fg.Betas...)
	betas = append(betas, lambda, sigV, sig1b)

	names := make([]string, 0, k+extraParams)
	names = append(names, d.NameX...)
	for len(names) < k {
		names = append(names, "")
	}
	names = append(names, NameLambda, NameSigmaV, NameSigma1)

	return &Result{
		Betas:       betas,
		VM:          fg.VM,
		Y:           append([]float64(nil), d.Y...),
		X:           mat.DenseCopyOf(d.X),
		PredY:       fg.PredY,
		U:           fg.U,
		EFiltered:   fg.EFiltered,
		Lambda:      lambda,
		SigmaV2:     sigV,
		Sigma12:     sig1b,
		Theta:       theta,
		Pass1:       pass1,
		Pass2:       pass2,
		N:           d.N,
		T:           t,
		K:           k,
		FullWeights: o.fullWeights,
		NameY:       d.NameY,
		NameX:       names,
	}, nil
}

// betweenVariance returns σ₁² = u_λ'Q1u_λ/N, u_λ = u − λ(I_T⊗W)u.
func betweenVariance(w *weights.W, u []float64, lambda float64, n, t int) (float64, error) {
	ul, err := spatialFilter(w, u, lambda, t)
	if err != nil {
		return 0, err
	}
	q1, err := panel.Between(ul, n)
	if err != nil {
		return 0, err
	}
	return floats.Dot(ul, q1) / float64(n), nil
}
