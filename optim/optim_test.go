package optim_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spatialreg/optim"
)

func bowl(x []float64) float64 {
	return (x[0]-1)*(x[0]-1) + 3*(x[1]+2)*(x[1]+2)
}

func rosenbrock(x []float64) float64 {
	a, b := 1-x[0], x[1]-x[0]*x[0]
	return a*a + 100*b*b
}

func TestSolvers_FindBowlMinimum(t *testing.T) {
	t.Parallel()

	for name, s := range map[string]optim.Solver{
		"nelder-mead": optim.NelderMead{},
		"bfgs":        optim.BFGS{},
	} {
		s := s
		t.Run(name, func(t *testing.T) {
			res, err := s.Minimize(context.Background(), bowl, []float64{0, 0})
			require.NoError(t, err)
			require.InDelta(t, 1, res.X[0], 1e-3)
			require.InDelta(t, -2, res.X[1], 1e-3)
			require.Less(t, res.F, 1e-5)
			require.Positive(t, res.Evaluations)
			require.NotEmpty(t, res.Status)
		})
	}
}

func TestSolvers_RejectBadStart(t *testing.T) {
	t.Parallel()

	_, err := optim.NelderMead{}.Minimize(context.Background(), bowl, nil)
	require.True(t, errors.Is(err, optim.ErrBadStart))

	_, err = optim.BFGS{}.Minimize(context.Background(), bowl, []float64{0, math.NaN()})
	require.True(t, errors.Is(err, optim.ErrBadStart))
}

func TestNelderMead_IterationLimit(t *testing.T) {
	t.Parallel()

	_, err := optim.NelderMead{MaxIterations: 1}.Minimize(context.Background(), rosenbrock, []float64{-1.2, 1})
	require.True(t, errors.Is(err, optim.ErrNotConverged), "got %v", err)
}

func TestSolvers_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := optim.NelderMead{}.Minimize(ctx, bowl, []float64{0, 0})
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)

	_, err = optim.Brent{}.MinimizeScalar(ctx, math.Abs, -1, 1)
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestBrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := optim.Brent{XTol: 1e-8}

	res, err := b.MinimizeScalar(ctx, func(x float64) float64 { return (x - 0.3) * (x - 0.3) }, -1, 1)
	require.NoError(t, err)
	require.InDelta(t, 0.3, res.X, 1e-6)
	require.Less(t, res.Evaluations, 50)

	// Monotone objective: the minimum sits on the lower bound.
	res, err = b.MinimizeScalar(ctx, func(x float64) float64 { return x }, 0, 1)
	require.NoError(t, err)
	require.InDelta(t, 0, res.X, 1e-6)

	// Infeasible left half.
	res, err = b.MinimizeScalar(ctx, func(x float64) float64 {
		if x < 0.5 {
			return math.Inf(1)
		}
		return (x - 0.7) * (x - 0.7)
	}, 0, 1)
	require.NoError(t, err)
	require.InDelta(t, 0.7, res.X, 1e-6)
	require.False(t, math.IsInf(res.F, 0))
}

func TestBrent_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := optim.Brent{}.MinimizeScalar(ctx, math.Abs, 1, -1)
	require.True(t, errors.Is(err, optim.ErrBadInterval))

	_, err = optim.Brent{}.MinimizeScalar(ctx, math.Abs, math.Inf(-1), 0)
	require.True(t, errors.Is(err, optim.ErrBadInterval))

	_, err = optim.Brent{MaxFuncEval: 3}.MinimizeScalar(ctx, func(x float64) float64 { return math.Cos(3 * x) }, -1, 1)
	require.True(t, errors.Is(err, optim.ErrNotConverged))
}
