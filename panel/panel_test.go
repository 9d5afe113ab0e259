package panel_test

import (
	"errors"
	"testing"

	crdb "github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/panel"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

// Three units, two periods, two regressors in wide layout:
// x columns are [a70 a80 b70 b80].
func wideFixture() (*mat.Dense, *mat.Dense) {
	y := mat.NewDense(3, 2, []float64{
		1, 4,
		2, 5,
		3, 6,
	})
	x := mat.NewDense(3, 4, []float64{
		10, 40, 100, 400,
		20, 50, 200, 500,
		30, 60, 300, 600,
	})
	return y, x
}

func TestNew_WideReshapeIsTimeMajor(t *testing.T) {
	t.Parallel()

	y, x := wideFixture()
	d, err := panel.New(y, x, 3, []string{"HR70", "HR80"}, []string{"RD70", "RD80", "PS70", "PS80"})
	require.NoError(t, err)
	require.Equal(t, 3, d.N)
	require.Equal(t, 2, d.T)
	require.Equal(t, 2, d.K())
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, d.Y)
	require.True(t, mat.Equal(mat.NewDense(6, 2, []float64{
		10, 100,
		20, 200,
		30, 300,
		40, 400,
		50, 500,
		60, 600,
	}), d.X))
	require.Equal(t, "HR", d.NameY)
	require.Equal(t, []string{"RD", "PS"}, d.NameX)
}

func TestNew_LongPassThroughAndDefaults(t *testing.T) {
	t.Parallel()

	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	x := mat.NewDense(4, 1, []float64{5, 6, 7, 8})
	d, err := panel.New(y, x, 2, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, d.T)
	require.Equal(t, []float64{1, 2, 3, 4}, d.Y)
	require.Equal(t, panel.DefaultNameY, d.NameY)
	require.Equal(t, []string{"var_1"}, d.NameX)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	y, x := wideFixture()
	cases := []struct {
		name  string
		y, x  mat.Matrix
		n     int
		names []string
		want  error
	}{
		{"nil y", nil, x, 3, nil, panel.ErrNilInput},
		{"y rows not multiple of N", mat.NewDense(5, 1, nil), x, 3, nil, panel.ErrDimension},
		{"wide y wrong N", y, x, 2, nil, panel.ErrDimension},
		{"single period", mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{1, 2, 3}), 3, nil, panel.ErrDegeneratePanel},
		{"x rows", y, mat.NewDense(4, 2, nil), 3, nil, panel.ErrDimension},
		{"x cols not k*T", y, mat.NewDense(3, 3, nil), 3, nil, panel.ErrDimension},
		{"names", y, x, 3, []string{"a", "b", "c"}, panel.ErrNames},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := panel.New(tc.y, tc.x, tc.n, nil, tc.names)
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestPeriods_DegenerateCarriesHint(t *testing.T) {
	t.Parallel()

	_, err := panel.Periods(5, 5)
	require.True(t, errors.Is(err, panel.ErrDegeneratePanel))
	require.NotEmpty(t, crdb.GetAllHints(err))

	got, err := panel.Periods(12, 4)
	require.NoError(t, err)
	require.Equal(t, 3, got)
}

func TestOperators(t *testing.T) {
	t.Parallel()

	// N=2, T=2: unit 0 has {1, 3}, unit 1 has {2, 6}.
	v := []float64{1, 2, 3, 6}

	m, err := panel.UnitMeans(v, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4}, m)

	w, err := panel.Within(v, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{-1, -2, 1, 2}, w)

	b, err := panel.Between(v, 2)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 2, 4}, b)

	// Q0 + Q1 = I.
	sum := make([]float64, len(v))
	for i := range v {
		sum[i] = w[i] + b[i]
	}
	if diff := cmp.Diff(v, sum, approx); diff != "" {
		t.Fatalf("Q0+Q1 (-want +got):\n%s", diff)
	}

	q, err := panel.QuasiDemean(v, 2, 0.5)
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{0, 0, 2, 4}, q, approx); diff != "" {
		t.Fatalf("quasi-demean (-want +got):\n%s", diff)
	}

	id, err := panel.QuasiDemean(v, 2, 0)
	require.NoError(t, err)
	require.Equal(t, v, id)

	qd, err := panel.QuasiDemeanDense(mat.NewDense(4, 1, v), 2, 1)
	require.NoError(t, err)
	require.Equal(t, w, mat.Col(nil, 0, qd))

	_, err = panel.Within([]float64{1, 2, 3}, 2)
	require.True(t, errors.Is(err, panel.ErrDimension))
}
