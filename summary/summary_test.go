package summary_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/gmm"
	"github.com/katalvlaran/spatialreg/kkp"
	"github.com/katalvlaran/spatialreg/mllag"
	"github.com/katalvlaran/spatialreg/ols"
	"github.com/katalvlaran/spatialreg/summary"
	"github.com/katalvlaran/spatialreg/weights"
)

func TestCoefficients(t *testing.T) {
	t.Parallel()

	vm := mat.NewDense(2, 2, []float64{4, 0.5, 0.5, -1})
	cs, err := summary.Coefficients([]string{"a", "b"}, []float64{2, 3}, vm)
	require.NoError(t, err)
	require.Len(t, cs, 2)

	require.Equal(t, "a", cs[0].Name)
	require.InDelta(t, 2, cs[0].SE, 1e-12)
	require.InDelta(t, 1, cs[0].Z, 1e-12)
	require.InDelta(t, 0.3173105, cs[0].P, 1e-6)

	require.True(t, math.IsNaN(cs[1].SE))
	require.True(t, math.IsNaN(cs[1].P))

	_, err = summary.Coefficients([]string{"a"}, []float64{1, 2}, vm)
	require.True(t, errors.Is(err, summary.ErrShape))
	_, err = summary.Coefficients([]string{"a", "b"}, []float64{1}, vm)
	require.True(t, errors.Is(err, summary.ErrShape))
}

func TestKKPReport(t *testing.T) {
	t.Parallel()

	res := &kkp.Result{
		Betas:       []float64{1.5, -0.25, 0.3, 2, 5},
		VM:          mat.NewDense(2, 2, []float64{0.01, 0, 0, 0.04}),
		Lambda:      0.3,
		SigmaV2:     2,
		Sigma12:     5,
		Theta:       1 - math.Sqrt(2)/math.Sqrt(5),
		Pass2:       gmm.Solution{Objective: 0.001},
		N:           10,
		T:           3,
		K:           2,
		FullWeights: true,
		NameY:       "HR",
		NameX:       []string{"CONSTANT", "RD", kkp.NameLambda, kkp.NameSigmaV, kkp.NameSigma1},
	}
	out, err := summary.KKP(res)
	require.NoError(t, err)
	for _, want := range []string{"KKP", "HR", "CONSTANT", "RD", "1.500000", "-0.250000", "Tau", "theta", kkp.NameSigma1, "30"} {
		require.Contains(t, out, want)
	}

	_, err = summary.KKP(nil)
	require.True(t, errors.Is(err, summary.ErrNilResult))

	res.K = 9
	_, err = summary.KKP(res)
	require.True(t, errors.Is(err, summary.ErrShape))
}

// smallLag fits an ML lag model on a 6×6 rook lattice.
func smallLag(t *testing.T) (*mllag.Result, []mllag.ProfilePoint) {
	t.Helper()
	w, err := weights.Lattice(6, 6, weights.Rook)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(5))
	n := w.N()
	x := ols.AddConstant(mat.NewDense(n, 1, nil))
	y := make([]float64, n)
	for i := range y {
		xi := rng.NormFloat64()
		x.Set(i, 1, xi)
		y[i] = 1 + xi + rng.NormFloat64()
	}
	res, err := mllag.Estimate(context.Background(), y, x, w, mllag.WithNames("PRICE", []string{"CONSTANT", "NROOM"}))
	require.NoError(t, err)
	pts, err := mllag.Profile(y, x, w, mllag.Grid(-0.9, 0.9, 37))
	require.NoError(t, err)
	return res, pts
}

func TestMLLagReport(t *testing.T) {
	t.Parallel()

	res, _ := smallLag(t)
	out, err := summary.MLLag(res)
	require.NoError(t, err)
	for _, want := range []string{"MAXIMUM LIKELIHOOD", "PRICE", "NROOM", "W_PRICE", "full", "Schwarz", "36"} {
		require.Contains(t, out, want)
	}
	require.True(t, strings.Count(out, "\n") > 10)

	_, err = summary.MLLag(nil)
	require.True(t, errors.Is(err, summary.ErrNilResult))
}

func TestOLSReport(t *testing.T) {
	t.Parallel()

	fit, err := ols.Fit([]float64{1, 3, 2, 4}, ols.AddConstant(mat.NewDense(4, 1, []float64{1, 2, 3, 4})))
	require.NoError(t, err)
	out, err := summary.OLS(fit, "y", []string{"CONSTANT", "x"})
	require.NoError(t, err)
	for _, want := range []string{"ORDINARY LEAST SQUARES", "CONSTANT", "t-Statistic", "0.640000", "0.460000", "0.800000", "1.885618"} {
		require.Contains(t, out, want)
	}

	_, err = summary.OLS(fit, "y", []string{"CONSTANT"})
	require.True(t, errors.Is(err, summary.ErrShape))
	_, err = summary.OLS(nil, "y", nil)
	require.True(t, errors.Is(err, summary.ErrNilResult))
}

func TestSaveProfilePlot(t *testing.T) {
	t.Parallel()

	res, pts := smallLag(t)
	path := filepath.Join(t.TempDir(), "profile.png")
	require.NoError(t, summary.SaveProfilePlot(path, pts, res.Rho))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	bad := []mllag.ProfilePoint{{Rho: 0, LogLik: math.Inf(-1)}, {Rho: 0.5, LogLik: 1}}
	err = summary.SaveProfilePlot(filepath.Join(t.TempDir(), "x.png"), bad, 0)
	require.True(t, errors.Is(err, summary.ErrNoPoints))
}
