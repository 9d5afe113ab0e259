// SPDX-License-Identifier: MIT

package gmm

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/matrix"
)

// Tau returns the 3×3 moment covariance
//
//	Tau = 1/N · [ 2N   T12  0   ]
//	            [ T12  T22  T23 ]
//	            [ 0    T23  T33 ]
//
// with T12 = 2·tr/N, T22 = Σ(W'W)²ᵢⱼ, T23 = Σ (W'W)∘(W'+W),
// T33 = Σ (W∘W') + tr(W'W). traceW2 is the Σwᵢⱼ² returned by Moments.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare.
// Complexity: O(nnz(W'W)); nothing is densified.
func Tau(w *matrix.Sparse, traceW2 float64) (*mat.SymDense, error) {
	if err := matrix.ValidateSquare(w); err != nil {
		return nil, errors.Wrap(err, "gmm: tau")
	}
	n := float64(w.Rows())
	wt := w.T()

	wtw, err := wt.Mul(w)
	if err != nil {
		return nil, errors.Wrap(err, "gmm: tau")
	}
	wtpw, err := wt.Add(w)
	if err != nil {
		return nil, errors.Wrap(err, "gmm: tau")
	}
	cross, err := wtw.Hadamard(wtpw)
	if err != nil {
		return nil, errors.Wrap(err, "gmm: tau")
	}
	recip, err := w.Hadamard(wt)
	if err != nil {
		return nil, errors.Wrap(err, "gmm: tau")
	}

	t12 := 2 * traceW2 / n
	t22 := wtw.SumSquares()
	t23 := cross.Sum()
	t33 := recip.Sum() + floats.Sum(wtw.Diagonal())

	tau := mat.NewSymDense(3, []float64{
		2 * n, t12, 0,
		t12, t22, t23,
		0, t23, t33,
	})
	tau.ScaleSym(1/n, tau)

	return tau, nil
}

// Weighting builds the 6×6 pass-two weighting matrix
// Ξ = diag(σ_v⁴/(T−1), σ₁⁴) ⊗ tau, where sigV and sig1 are the variance
// components σ_v² and σ₁². A nil tau stands for I₃.
//
// Errors: ErrWeighting for t < 2 or a tau that is not 3×3.
func Weighting(sigV, sig1 float64, t int, tau mat.Symmetric) (*mat.SymDense, error) {
	if t < 2 {
		return nil, errors.Wrapf(ErrWeighting, "T=%d", t)
	}
	if tau == nil {
		tau = eye(3)
	}
	if tau.SymmetricDim() != 3 {
		return nil, errors.Wrapf(ErrWeighting, "tau is %dx%[1]d", tau.SymmetricDim())
	}
	scale := [2]float64{sigV * sigV / float64(t-1), sig1 * sig1}

	xi := mat.NewSymDense(6, nil)
	var b, i, j int
	for b = 0; b < 2; b++ {
		for i = 0; i < 3; i++ {
			for j = i; j < 3; j++ {
				xi.SetSym(3*b+i, 3*b+j, scale[b]*tau.At(i, j))
			}
		}
	}
	return xi, nil
}

func eye(n int) *mat.SymDense {
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		s.SetSym(i, i, 1)
	}
	return s
}
