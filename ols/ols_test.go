package ols_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/matrix"
	"github.com/katalvlaran/spatialreg/ols"
)

const tol = 1e-10

func TestFit_KnownLine(t *testing.T) {
	t.Parallel()

	x := ols.AddConstant(mat.NewDense(4, 1, []float64{1, 2, 3, 4}))
	y := []float64{1, 3, 2, 4}

	r, err := ols.Fit(y, x)
	require.NoError(t, err)
	require.Equal(t, 4, r.N)
	require.Equal(t, 2, r.K)
	require.InDeltaSlice(t, []float64{0.5, 0.8}, r.Betas, tol)
	require.InDeltaSlice(t, []float64{-0.3, 0.9, -0.9, 0.3}, r.U, tol)
	require.InDeltaSlice(t, []float64{1.3, 2.1, 2.9, 3.7}, r.PredY, tol)
	require.InDelta(t, 0.9, r.Sig2, tol)
	require.InDelta(t, 0.45, r.Sig2N, tol)
	require.True(t, mat.EqualApprox(mat.NewDense(2, 2, []float64{1.5, -0.5, -0.5, 0.2}), r.XTXI, tol))
	require.True(t, mat.EqualApprox(mat.NewDense(2, 2, []float64{4, 10, 10, 30}), r.XTX, tol))
	require.InDelta(t, 0.18, r.VM.At(1, 1), tol)

	d := r.Diagnostics()
	require.InDelta(t, math.Sqrt(0.18), d.SE[1], tol)
	require.InDelta(t, 0.8/math.Sqrt(0.18), d.T[1], tol)
	require.Greater(t, d.P[1], 0.0)
	require.Less(t, d.P[1], 1.0)
	require.InDelta(t, 0.64, d.R2, tol)
	require.InDelta(t, 0.46, d.AdjR2, tol)
	require.Equal(t, 2.0, d.DF)
}

func TestFit_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	x := ols.AddConstant(mat.NewDense(3, 1, []float64{1, 2, 4}))
	xc := mat.DenseCopyOf(x)
	y := []float64{2, 4, 9}

	_, err := ols.Fit(y, x)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 9}, y)
	require.True(t, mat.Equal(xc, x))
}

func TestFit_Errors(t *testing.T) {
	t.Parallel()

	collinear := mat.NewDense(4, 2, []float64{1, 2, 2, 4, 3, 6, 4, 8})
	cases := []struct {
		name string
		y    []float64
		x    mat.Matrix
		want error
	}{
		{"nil x", []float64{1}, nil, ols.ErrDimension},
		{"length", []float64{1, 2}, mat.NewDense(3, 1, []float64{1, 2, 3}), ols.ErrDimension},
		{"underdetermined", []float64{1, 2}, mat.NewDense(2, 2, []float64{1, 0, 0, 1}), ols.ErrUnderdetermined},
		{"nan", []float64{1, math.NaN(), 3}, mat.NewDense(3, 1, []float64{1, 2, 3}), matrix.ErrNaNInf},
		{"singular", []float64{1, 2, 3, 4}, collinear, matrix.ErrSingular},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := ols.Fit(tc.y, tc.x)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestAddConstant(t *testing.T) {
	t.Parallel()

	got := ols.AddConstant(mat.NewDense(2, 2, []float64{3, 4, 5, 6}))
	require.True(t, mat.Equal(mat.NewDense(2, 3, []float64{1, 3, 4, 1, 5, 6}), got))
}
