package kkp_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/kkp"
	"github.com/katalvlaran/spatialreg/ols"
	"github.com/katalvlaran/spatialreg/optim"
	"github.com/katalvlaran/spatialreg/panel"
	"github.com/katalvlaran/spatialreg/weights"
)

// randomEffectsPanel draws y = 1 + 2x + μᵢ + νᵢₜ (λ = 0) over w, time-major,
// with μᵢ ~ N(0, sigmaMu²) and σ_ν = 1, so σ_v² = 1 and σ₁² = 1 + T·sigmaMu².
func randomEffectsPanel(t *testing.T, w *weights.W, periods int, sigmaMu float64, seed int64) *panel.Data {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	n := w.N()
	mu := make([]float64, n)
	for i := range mu {
		mu[i] = sigmaMu * rng.NormFloat64()
	}
	y := mat.NewDense(n*periods, 1, nil)
	x := mat.NewDense(n*periods, 2, nil)
	for p := 0; p < periods; p++ {
		for i := 0; i < n; i++ {
			r := p*n + i
			xi := rng.NormFloat64()
			x.Set(r, 0, 1)
			x.Set(r, 1, xi)
			y.Set(r, 0, 1+2*xi+mu[i]+rng.NormFloat64())
		}
	}
	d, err := panel.New(y, x, n, []string{"y"}, []string{"CONSTANT", "x"})
	require.NoError(t, err)
	return d
}

func TestFilterFGLS_ZeroParametersReproduceOLS(t *testing.T) {
	t.Parallel()

	w, err := weights.Lattice(4, 4, weights.Queen)
	require.NoError(t, err)
	d := randomEffectsPanel(t, w, 3, 1, 1)

	fg, err := kkp.FilterFGLS(0, 0, w, d.X, d.Y)
	require.NoError(t, err)
	ref, err := ols.Fit(d.Y, d.X)
	require.NoError(t, err)

	require.InDeltaSlice(t, ref.Betas, fg.Betas, 1e-12)
	require.InDeltaSlice(t, ref.U, fg.U, 1e-12)
	require.InDeltaSlice(t, ref.U, fg.EFiltered, 1e-12)
	require.True(t, mat.EqualApprox(ref.VM, fg.VM, 1e-12))
}

func TestFilterFGLS_PredictionUsesUnfilteredX(t *testing.T) {
	t.Parallel()

	w, err := weights.Lattice(3, 3, weights.Rook)
	require.NoError(t, err)
	d := randomEffectsPanel(t, w, 2, 1, 2)

	fg, err := kkp.FilterFGLS(0.3, 0.4, w, d.X, d.Y)
	require.NoError(t, err)

	var pred mat.VecDense
	pred.MulVec(d.X, mat.NewVecDense(len(fg.Betas), fg.Betas))
	for i := range d.Y {
		require.InDelta(t, pred.AtVec(i), fg.PredY[i], 1e-12)
		require.InDelta(t, d.Y[i]-fg.PredY[i], fg.U[i], 1e-12)
	}

	lag, err := w.LagPanel(fg.U, 2)
	require.NoError(t, err)
	for i := range fg.U {
		require.InDelta(t, fg.U[i]-0.3*lag[i], fg.EFiltered[i], 1e-12)
	}
}

func TestFilterFGLS_Errors(t *testing.T) {
	t.Parallel()

	w, err := weights.Lattice(2, 2, weights.Rook)
	require.NoError(t, err)

	_, err = kkp.FilterFGLS(0, 0, w, mat.NewDense(5, 1, nil), make([]float64, 5))
	require.True(t, errors.Is(err, panel.ErrDimension))

	_, err = kkp.FilterFGLS(0, 0, w, mat.NewDense(4, 1, nil), make([]float64, 4))
	require.True(t, errors.Is(err, panel.ErrDegeneratePanel))

	_, err = kkp.FilterFGLS(0, 0, w, mat.NewDense(6, 1, nil), make([]float64, 8))
	require.True(t, errors.Is(err, panel.ErrDimension))
}

func TestEstimate_NoSpatialCorrelation(t *testing.T) {
	t.Parallel()

	w, err := weights.Lattice(20, 20, weights.Rook)
	require.NoError(t, err)
	d := randomEffectsPanel(t, w, 4, 1, 3)

	for _, full := range []bool{false, true} {
		res, err := kkp.Estimate(context.Background(), d, w, kkp.WithFullWeights(full))
		require.NoError(t, err)

		require.Equal(t, 400, res.N)
		require.Equal(t, 4, res.T)
		require.Equal(t, 2, res.K)
		require.Len(t, res.Betas, 5)
		require.Equal(t, []string{"CONSTANT", "x", kkp.NameLambda, kkp.NameSigmaV, kkp.NameSigma1}, res.NameX)
		require.Equal(t, full, res.FullWeights)

		require.InDelta(t, 0, res.Lambda, 0.2)
		require.InDelta(t, 1, res.SigmaV2, 0.3)
		require.InDelta(t, 5, res.Sigma12, 1.5)
		require.Greater(t, res.Theta, 0.0)
		require.Less(t, res.Theta, 1.0)
		require.InDelta(t, 1, res.Betas[0], 0.3)
		require.InDelta(t, 2, res.Betas[1], 0.15)

		pooled, err := ols.Fit(d.Y, d.X)
		require.NoError(t, err)
		require.InDelta(t, pooled.Betas[1], res.Betas[1], 0.15)

		r, c := res.VM.Dims()
		require.Equal(t, [2]int{2, 2}, [2]int{r, c})
		require.Len(t, res.PredY, 1600)
		require.Len(t, res.EFiltered, 1600)
	}
}

func TestEstimate_PooledWhenNoEffects(t *testing.T) {
	t.Parallel()

	// No unit effect and no spatial error: λ and θ should vanish, so the
	// filtered regression collapses onto pooled OLS.
	w, err := weights.Lattice(15, 15, weights.Rook)
	require.NoError(t, err)
	d := randomEffectsPanel(t, w, 3, 0, 6)

	pooled, err := ols.Fit(d.Y, d.X)
	require.NoError(t, err)

	for _, full := range []bool{false, true} {
		res, err := kkp.Estimate(context.Background(), d, w, kkp.WithFullWeights(full))
		require.NoError(t, err)

		require.InDelta(t, 0, res.Lambda, 0.15, "lambda (full=%v)", full)
		require.InDelta(t, 0, res.Theta, 0.2, "theta (full=%v)", full)
		require.InDelta(t, 1, res.SigmaV2, 0.25)
		require.InDelta(t, 1, res.Sigma12, 0.4)
		require.InDeltaSlice(t, pooled.Betas, res.Betas[:res.K], 0.03, "FGLS vs pooled OLS (full=%v)", full)
	}
}

func TestEstimate_ThreeUnitsTwoPeriods(t *testing.T) {
	t.Parallel()

	w, err := weights.New([]string{"a", "b", "c"}, map[string][]string{
		"a": {"b"}, "b": {"a", "c"}, "c": {"b"},
	})
	require.NoError(t, err)
	y := mat.NewDense(3, 2, []float64{
		3.1, 4.0,
		1.2, 2.9,
		5.3, 4.4,
	})
	x := mat.NewDense(3, 2, []float64{
		1.0, 2.0,
		0.1, 0.7,
		2.2, 1.8,
	})
	d, err := panel.New(y, x, 3, []string{"Y1", "Y2"}, []string{"X1", "X2"})
	require.NoError(t, err)

	res, err := kkp.Estimate(context.Background(), d, w)
	require.NoError(t, err)
	require.Len(t, res.Betas, 4)
	require.Len(t, res.U, 6)
	require.Len(t, res.PredY, 6)
	require.Len(t, res.EFiltered, 6)
	for _, v := range append(append([]float64{res.Theta}, res.Betas...), res.U...) {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite output %v", v)
	}
	require.Equal(t, "Y", d.NameY)
	require.Equal(t, []string{"X", kkp.NameLambda, kkp.NameSigmaV, kkp.NameSigma1}, res.NameX)
}

func TestEstimate_Errors(t *testing.T) {
	t.Parallel()

	w, err := weights.Lattice(3, 3, weights.Rook)
	require.NoError(t, err)
	d := randomEffectsPanel(t, w, 2, 1, 4)

	small, err := weights.Lattice(2, 2, weights.Rook)
	require.NoError(t, err)
	_, err = kkp.Estimate(context.Background(), d, small)
	require.True(t, errors.Is(err, kkp.ErrUnitMismatch))

	single := &panel.Data{Y: d.Y[:9], X: mat.DenseCopyOf(d.X.Slice(0, 9, 0, 2)), N: 9, T: 1}
	_, err = kkp.Estimate(context.Background(), single, w)
	require.True(t, errors.Is(err, panel.ErrDegeneratePanel))

	_, err = kkp.Estimate(context.Background(), d, w, kkp.WithSolver(optim.NelderMead{MaxIterations: 1}))
	require.True(t, errors.Is(err, optim.ErrNotConverged), "got %v", err)
}

func TestEstimate_LogsIslands(t *testing.T) {
	t.Parallel()

	grid, err := weights.Lattice(12, 12, weights.Rook)
	require.NoError(t, err)
	ids := append(grid.IDs(), "island")
	nbs := make(map[string][]string, len(ids))
	for _, id := range grid.IDs() {
		nb, err := grid.Neighbors(id)
		require.NoError(t, err)
		nbs[id] = nb
	}
	w, err := weights.New(ids, nbs)
	require.NoError(t, err)
	d := randomEffectsPanel(t, w, 3, 1, 5)

	core, logs := observer.New(zap.WarnLevel)
	_, err = kkp.Estimate(context.Background(), d, w, kkp.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("weights contain islands").Len())
}
