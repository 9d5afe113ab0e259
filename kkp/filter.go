// SPDX-License-Identifier: MIT

package kkp

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/ols"
	"github.com/katalvlaran/spatialreg/panel"
	"github.com/katalvlaran/spatialreg/weights"
)

// FGLS is the output of FilterFGLS.
type FGLS struct {
	Betas     []float64  // coefficients of the filtered regression
	PredY     []float64  // X·β on the unfiltered X
	U         []float64  // y − PredY
	EFiltered []float64  // U − λ(I_T⊗W)U
	VM        *mat.Dense // from the filtered OLS
	OLS       *ols.Result
}

// FilterFGLS filters x and y with (I − θQ1)(I − λ(I_T⊗W)) and regresses the
// filtered y on the filtered x. λ = 0, θ = 0 reproduces plain OLS.
//
// Errors: ErrUnitMismatch, panel.ErrDimension, panel.ErrDegeneratePanel,
// and any ols.Fit error.
// Complexity: O(T·nnz(W)·k + N·T·k²).
func FilterFGLS(lambda, theta float64, w *weights.W, x *mat.Dense, y []float64) (*FGLS, error) {
	if w == nil || x == nil {
		return nil, errors.Wrap(panel.ErrNilInput, "kkp: filter")
	}
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return nil, errors.Newf("kkp: non-finite lambda %v", lambda)
	}
	n := w.N()
	t, err := panel.Periods(len(y), n)
	if err != nil {
		return nil, errors.Wrap(err, "kkp: filter")
	}
	if r, _ := x.Dims(); r != len(y) {
		return nil, errors.Wrapf(panel.ErrDimension, "kkp: filter: X has %d rows, y has %d", r, len(y))
	}

	xl, err := w.LagPanelDense(x, t)
	if err != nil {
		return nil, err
	}
	var xf mat.Dense
	xf.Apply(func(i, j int, v float64) float64 { return v - lambda*xl.At(i, j) }, x)
	xs, err := panel.QuasiDemeanDense(&xf, n, theta)
	if err != nil {
		return nil, err
	}

	yf, err := spatialFilter(w, y, lambda, t)
	if err != nil {
		return nil, err
	}
	ys, err := panel.QuasiDemean(yf, n, theta)
	if err != nil {
		return nil, err
	}

	fit, err := ols.Fit(ys, xs)
	if err != nil {
		return nil, errors.Wrap(err, "kkp: filtered regression")
	}

	pred := mat.NewVecDense(len(y), nil)
	pred.MulVec(x, mat.NewVecDense(len(fit.Betas), fit.Betas))
	u := make([]float64, len(y))
	for i := range y {
		u[i] = y[i] - pred.AtVec(i)
	}
	ef, err := spatialFilter(w, u, lambda, t)
	if err != nil {
		return nil, err
	}

	return &FGLS{
		Betas:     append([]float64(nil), fit.Betas...),
		PredY:     pred.RawVector().Data,
		U:         u,
		EFiltered: ef,
		VM:        fit.VM,
		OLS:       fit,
	}, nil
}

// spatialFilter returns v − λ(I_T⊗W)v.
func spatialFilter(w *weights.W, v []float64, lambda float64, t int) ([]float64, error) {
	lag, err := w.LagPanel(v, t)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] - lambda*lag[i]
	}
	return out, nil
}
