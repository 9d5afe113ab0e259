// SPDX-License-Identifier: MIT

package ols

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/matrix"
)

// Result holds one least-squares fit. Betas, U and PredY are plain slices;
// the cross products are gonum matrices.
type Result struct {
	Y     []float64  // copy of the dependent variable
	Betas []float64  // k coefficients
	U     []float64  // residuals y − Xβ
	PredY []float64  // fitted values Xβ
	N     int        // observations
	K     int        // regressors
	XTX   *mat.Dense // X'X
	XTXI  *mat.Dense // (X'X)⁻¹
	Sig2  float64    // u'u/(n−k)
	Sig2N float64    // u'u/n
	VM    *mat.Dense // Sig2·(X'X)⁻¹
}

// Fit regresses y on x.
//
// Errors: ErrDimension, ErrUnderdetermined, matrix.ErrNaNInf for non-finite
// input, matrix.ErrSingular when X'X cannot be inverted (collinear columns).
// Complexity: O(n·k² + k³).
func Fit(y []float64, x mat.Matrix) (*Result, error) {
	if x == nil {
		return nil, errors.Wrap(ErrDimension, "nil X")
	}
	n, k := x.Dims()
	if n == 0 || k == 0 || len(y) != n {
		return nil, errors.Wrapf(ErrDimension, "len(y)=%d, X is %dx%d", len(y), n, k)
	}
	if n <= k {
		return nil, errors.Wrapf(ErrUnderdetermined, "n=%d, k=%d", n, k)
	}
	if err := matrix.ValidateFinite(y); err != nil {
		return nil, errors.Wrap(err, "ols: y")
	}
	if err := matrix.ValidateDenseFinite(x); err != nil {
		return nil, errors.Wrap(err, "ols: X")
	}

	xtx := mat.NewDense(k, k, nil)
	xtx.Mul(x.T(), x)

	xtxi := mat.NewDense(k, k, nil)
	if err := xtxi.Inverse(xtx); err != nil {
		return nil, errors.Wrapf(matrix.ErrSingular, "ols: X'X: %v", err)
	}

	yv := mat.NewVecDense(n, append([]float64(nil), y...))
	var xty mat.VecDense
	xty.MulVec(x.T(), yv)

	beta := mat.NewVecDense(k, nil)
	beta.MulVec(xtxi, &xty)

	pred := mat.NewVecDense(n, nil)
	pred.MulVec(x, beta)

	u := make([]float64, n)
	floats.SubTo(u, yv.RawVector().Data, pred.RawVector().Data)
	rss := floats.Dot(u, u)

	r := &Result{
		Y:     yv.RawVector().Data,
		Betas: beta.RawVector().Data,
		U:     u,
		PredY: pred.RawVector().Data,
		N:     n,
		K:     k,
		XTX:   xtx,
		XTXI:  xtxi,
		Sig2:  rss / float64(n-k),
		Sig2N: rss / float64(n),
	}
	r.VM = mat.NewDense(k, k, nil)
	r.VM.Scale(r.Sig2, xtxi)

	return r, nil
}

// AddConstant returns [1 | x]: a leading column of ones followed by x.
func AddConstant(x mat.Matrix) *mat.Dense {
	n, k := x.Dims()
	out := mat.NewDense(n, k+1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, 1)
		for j := 0; j < k; j++ {
			out.Set(i, j+1, x.At(i, j))
		}
	}
	return out
}
