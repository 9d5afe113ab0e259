// SPDX-License-Identifier: MIT

package mllag

import (
	"context"
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/spatialreg/matrix"
	"github.com/katalvlaran/spatialreg/weights"
)

// Result is a fitted spatial-lag model. It is not modified after Estimate returns.
type Result struct {
	Betas  []float64 // β ++ ρ
	Rho    float64
	Y      []float64
	X      *mat.Dense
	U      []float64 // e₀ − ρe₁
	PredY  []float64 // y − U
	PredYE []float64 // reduced form (I − ρW)⁻¹Xβ
	EPred  []float64 // y − PredYE
	Sig2   float64   // U'U/n

	LogLik  float64
	AIC     float64
	Schwarz float64
	PR2     float64 // corr(y, PredY)²
	PR2E    float64 // corr(y, PredYE)²

	VM  *mat.Dense // (k+1)×(k+1) over β and ρ
	VM1 *mat.Dense // (k+2)×(k+2) over β, ρ and σ²

	N, K        int
	Method      Method
	Evaluations int
	NameY       string
	NameX       []string // regressors then "W_" + NameY
}

// Estimate fits the spatial-lag model of y on x with weights w.
//
// Implementation:
//   - Stage 1: Concentrate (auxiliary regressions, log-determinant setup).
//   - Stage 2: bounded scalar minimisation of clik over the search interval.
//   - Stage 3: β = b₀ − ρb₁, residuals, σ², reduced-form prediction.
//   - Stage 4: information matrix over (β, ρ, σ²) and its inverse.
//
// Errors: ErrDimension, ErrInfeasible, ErrPowerExpansion,
// optim.ErrNotConverged, matrix.ErrSingular (X'X, I − ρW or the
// information matrix).
func Estimate(ctx context.Context, y []float64, x *mat.Dense, w *weights.W, opts ...Option) (*Result, error) {
	c, err := Concentrate(y, x, w, opts...)
	if err != nil {
		return nil, err
	}
	o := c.opts
	log := o.logger
	if islands := w.Islands(); len(islands) > 0 {
		log.Warn("weights contain islands", zap.Int("count", len(islands)), zap.Strings("ids", islands))
	}

	sr, err := o.scalar.MinimizeScalar(ctx, c.NegLogLik, o.lo, o.hi)
	if err != nil {
		return nil, errors.Wrap(err, "mllag: minimise concentrated likelihood")
	}
	if math.IsInf(sr.F, 0) || math.IsNaN(sr.F) {
		return nil, errors.Wrapf(ErrInfeasible, "rho=%v", sr.X)
	}
	rho := sr.X
	n := float64(c.n)
	logLik := -sr.F - n/2*math.Log(2*math.Pi) - n/2
	log.Debug("concentrated likelihood minimised",
		zap.Float64("rho", rho),
		zap.Float64("loglik", logLik),
		zap.Int("evaluations", sr.Evaluations),
		zap.Stringer("method", o.method))

	k := len(c.b0)
	beta := make([]float64, k)
	for i := range beta {
		beta[i] = c.b0[i] - rho*c.b1[i]
	}
	u := make([]float64, c.n)
	pred := make([]float64, c.n)
	for i := range u {
		u[i] = c.e0[i] - rho*c.e1[i]
		pred[i] = c.y[i] - u[i]
	}
	sig2 := floats.Dot(u, u) / n

	var xbv mat.VecDense
	xbv.MulVec(x, mat.NewVecDense(k, beta))
	predE, err := powerExpansion(c.w, xbv.RawVector().Data, rho, o.eps)
	if err != nil {
		return nil, err
	}
	ePred := make([]float64, c.n)
	floats.SubTo(ePred, c.y, predE)

	vm1, err := c.information(beta, rho, sig2, predE)
	if err != nil {
		return nil, err
	}
	vm := mat.DenseCopyOf(vm1.Slice(0, k+1, 0, k+1))

	nameX := make([]string, k, k+1)
	for i := range nameX {
		if i < len(o.nameX) && o.nameX[i] != "" {
			nameX[i] = o.nameX[i]
		} else {
			nameX[i] = fmt.Sprintf(defaultNameXFormat, i+1)
		}
	}
	nameX = append(nameX, "W_"+o.nameY)

	params := float64(k + 1)
	r := &Result{
		Betas:       append(beta, rho),
		Rho:         rho,
		Y:           c.y,
		X:           mat.DenseCopyOf(x),
		U:           u,
		PredY:       pred,
		PredYE:      predE,
		EPred:       ePred,
		Sig2:        sig2,
		LogLik:      logLik,
		AIC:         -2*logLik + 2*params,
		Schwarz:     -2*logLik + params*math.Log(n),
		PR2:         squaredCorrelation(c.y, pred),
		PR2E:        squaredCorrelation(c.y, predE),
		VM:          vm,
		VM1:         vm1,
		N:           c.n,
		K:           k,
		Method:      o.method,
		Evaluations: sr.Evaluations,
		NameY:       o.nameY,
		NameX:       nameX,
	}
	return r, nil
}

// information builds and inverts the information matrix
//
//	[ X'X/σ²        X'Wŷ/σ²                0        ]
//	[ ŷ'W'X/σ²      tr2+tr3+ŷ'W'Wŷ/σ²      tr1/σ²   ]
//	[ 0             tr1/σ²                 n/(2σ⁴)  ]
//
// with A = I − ρW, tr1 = tr(WA⁻¹), tr2 = tr((WA⁻¹)²), tr3 = tr((WA⁻¹)'WA⁻¹)
// and ŷ the reduced-form prediction.
func (c *Concentrated) information(beta []float64, rho, sig2 float64, predE []float64) (*mat.Dense, error) {
	n := c.n
	k := len(beta)

	a := mat.NewDense(n, n, nil)
	a.Apply(func(i, j int, v float64) float64 {
		if i == j {
			return 1 - rho*v
		}
		return -rho * v
	}, c.wDense)
	var ai mat.Dense
	if err := ai.Inverse(a); err != nil {
		return nil, errors.Wrapf(matrix.ErrSingular, "mllag: I - rho*W at rho=%v: %v", rho, err)
	}
	var wai mat.Dense
	wai.Mul(c.wDense, &ai)

	tr1 := mat.Trace(&wai)
	var tr2, tr3 float64
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			v := wai.At(i, j)
			tr2 += v * wai.At(j, i) // tr(B²) = Σ bᵢⱼbⱼᵢ
			tr3 += v * v            // tr(B'B) = Σ bᵢⱼ²
		}
	}

	wpredy, err := c.w.Lag(predE)
	if err != nil {
		return nil, err
	}
	var xtwpy mat.VecDense
	xtwpy.MulVec(c.x.T(), mat.NewVecDense(n, wpredy))
	var xtx mat.Dense
	xtx.Mul(c.x.T(), c.x)

	v := mat.NewDense(k+2, k+2, nil)
	for i = 0; i < k; i++ {
		for j = 0; j < k; j++ {
			v.Set(i, j, xtx.At(i, j)/sig2)
		}
		v.Set(i, k, xtwpy.AtVec(i)/sig2)
		v.Set(k, i, xtwpy.AtVec(i)/sig2)
	}
	v.Set(k, k, tr2+tr3+floats.Dot(wpredy, wpredy)/sig2)
	v.Set(k, k+1, tr1/sig2)
	v.Set(k+1, k, tr1/sig2)
	v.Set(k+1, k+1, float64(n)/(2*sig2*sig2))

	var vm1 mat.Dense
	if err = vm1.Inverse(v); err != nil {
		return nil, errors.Wrapf(matrix.ErrSingular, "mllag: information matrix: %v", err)
	}
	return &vm1, nil
}

// powerExpansion returns (I − ρW)⁻¹v as v + ρWv + ρ²W²v + … , stopping once
// the Euclidean norm of the increment falls to eps.
func powerExpansion(w *weights.W, v []float64, rho, eps float64) ([]float64, error) {
	total := append([]float64(nil), v...)
	inc := append([]float64(nil), v...)
	prev := math.Inf(1)
	for term := 1; term <= maxPowerTerms; term++ {
		lag, err := w.Lag(inc)
		if err != nil {
			return nil, err
		}
		floats.ScaleTo(inc, rho, lag)
		floats.Add(total, inc)
		norm := floats.Norm(inc, 2)
		if norm <= eps {
			return total, nil
		}
		if norm > prev {
			return nil, errors.Wrapf(ErrPowerExpansion, "rho=%v, term %d", rho, term)
		}
		prev = norm
	}
	return nil, errors.Wrapf(ErrPowerExpansion, "rho=%v, %d terms", rho, maxPowerTerms)
}

func squaredCorrelation(a, b []float64) float64 {
	r := stat.Correlation(a, b, nil)
	return r * r
}
