package weights_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/spatialreg/matrix"
	"github.com/katalvlaran/spatialreg/weights"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestNew_RowStandardizedByDefault(t *testing.T) {
	t.Parallel()

	w, err := weights.New([]string{"a", "b", "c", "d"}, map[string][]string{
		"a": {"b", "c"},
		"b": {"a"},
		"c": {"a"},
	})
	require.NoError(t, err)
	require.Equal(t, weights.RowStandardized, w.Transform())
	require.Equal(t, 4, w.N())

	sums := w.Sparse().RowSums()
	if diff := cmp.Diff([]float64{1, 1, 1, 0}, sums, approx); diff != "" {
		t.Fatalf("row sums (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"d"}, w.Islands())
	require.Equal(t, []int{2, 1, 1, 0}, w.Cardinalities())
	require.True(t, w.Symmetric())

	nb, err := w.Neighbors("a")
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, nb)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ids  []string
		nbs  map[string][]string
		opts []weights.Option
		want error
	}{
		{"empty", nil, nil, nil, weights.ErrEmpty},
		{"duplicate", []string{"a", "a"}, nil, nil, weights.ErrDuplicateID},
		{"unknown neighbor", []string{"a"}, map[string][]string{"a": {"z"}}, nil, weights.ErrUnknownID},
		{"unknown unit", []string{"a"}, map[string][]string{"z": {"a"}}, nil, weights.ErrUnknownID},
		{"self", []string{"a", "b"}, map[string][]string{"a": {"a"}}, nil, weights.ErrSelfNeighbor},
		{"repeated neighbor", []string{"a", "b"}, map[string][]string{"a": {"b", "b"}}, nil, weights.ErrDuplicateID},
		{
			"weights length", []string{"a", "b"}, map[string][]string{"a": {"b"}},
			[]weights.Option{weights.WithWeights(map[string][]float64{"a": {1, 2}})},
			weights.ErrWeightsLength,
		},
		{
			"negative weight", []string{"a", "b"}, map[string][]string{"a": {"b"}},
			[]weights.Option{weights.WithWeights(map[string][]float64{"a": {-1}})},
			weights.ErrBadWeight,
		},
		{
			"nan weight", []string{"a", "b"}, map[string][]string{"a": {"b"}},
			[]weights.Option{weights.WithWeights(map[string][]float64{"a": {math.NaN()}})},
			weights.ErrBadWeight,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := weights.New(tc.ids, tc.nbs, tc.opts...)
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestNew_ErrorDetail(t *testing.T) {
	t.Parallel()

	_, err := weights.New([]string{"a", "b", "c"}, map[string][]string{"a": {"c", "b", "c"}})
	require.True(t, errors.Is(err, weights.ErrDuplicateID))
	require.Contains(t, err.Error(), `neighbor "c" of "a"`)

	_, err = weights.New([]string{"a", "b"}, map[string][]string{"a": {"b"}, "b": {"a"}},
		weights.WithWeights(map[string][]float64{"a": {2}, "b": {-0.5}}))
	require.True(t, errors.Is(err, weights.ErrBadWeight))
	require.True(t, errors.Is(err, matrix.ErrNegativeEntry))

	_, err = weights.New([]string{"a", "b"}, map[string][]string{"a": {"b"}},
		weights.WithWeights(map[string][]float64{"a": {math.Inf(1)}}))
	require.True(t, errors.Is(err, matrix.ErrNaNInf))
}

func TestNew_ZeroWeightRowStaysZero(t *testing.T) {
	t.Parallel()

	w, err := weights.New([]string{"a", "b", "c"}, map[string][]string{"a": {"b", "c"}, "b": {"a"}},
		weights.WithWeights(map[string][]float64{"a": {1, 3}, "b": {0}}))
	require.NoError(t, err)

	full, err := w.Full()
	require.NoError(t, err)
	require.InDelta(t, 0.25, full.At(0, 1), 1e-12)
	require.InDelta(t, 0.75, full.At(0, 2), 1e-12)
	require.Equal(t, 0.0, full.At(1, 0))
	require.Equal(t, 1, len(w.Islands()))
}

func TestTransformed_LeavesReceiverUntouched(t *testing.T) {
	t.Parallel()

	w, err := weights.New([]string{"a", "b", "c"}, map[string][]string{
		"a": {"b", "c"}, "b": {"a"}, "c": {"a"},
	}, weights.WithTransform(weights.Binary))
	require.NoError(t, err)
	require.Equal(t, 4.0, w.Sparse().Sum())

	r, err := w.Transformed(weights.RowStandardized)
	require.NoError(t, err)
	require.InDelta(t, 3.0, r.Sparse().Sum(), 1e-12)
	require.Equal(t, 4.0, w.Sparse().Sum())
	require.Equal(t, weights.Binary, w.Transform())

	_, err = w.Transformed(weights.Transform("Z"))
	require.True(t, errors.Is(err, weights.ErrBadTransform))
}

func TestLattice_Cardinalities(t *testing.T) {
	t.Parallel()

	rook, err := weights.Lattice(3, 3, weights.Rook)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 2, 3, 4, 3, 2, 3, 2}, rook.Cardinalities())

	queen, err := weights.Lattice(3, 3, weights.Queen)
	require.NoError(t, err)
	require.Equal(t, []int{3, 5, 3, 5, 8, 5, 3, 5, 3}, queen.Cardinalities())
	require.True(t, queen.Symmetric())

	_, err = weights.Lattice(0, 3, weights.Rook)
	require.True(t, errors.Is(err, weights.ErrBadLattice))
	_, err = weights.Lattice(2, 2, weights.Contiguity(9))
	require.True(t, errors.Is(err, weights.ErrBadLattice))
}

func TestLagAndLagPanel(t *testing.T) {
	t.Parallel()

	// 1x3 rook line: 0-1-2
	w, err := weights.Lattice(1, 3, weights.Rook)
	require.NoError(t, err)

	lag, err := w.Lag([]float64{3, 6, 9})
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{6, 6, 6}, lag, approx); diff != "" {
		t.Fatalf("lag (-want +got):\n%s", diff)
	}

	panel, err := w.LagPanel([]float64{3, 6, 9, 0, 2, 0}, 2)
	require.NoError(t, err)
	if diff := cmp.Diff([]float64{6, 6, 6, 2, 0, 2}, panel, approx); diff != "" {
		t.Fatalf("panel lag (-want +got):\n%s", diff)
	}

	_, err = w.LagPanel([]float64{1, 2, 3, 4}, 2)
	require.Error(t, err)
}

func TestGALRoundTrip(t *testing.T) {
	t.Parallel()

	src := `0 4 demo POLYID
1 2
2 3
2 1
1
3 1
1
4 0

`
	w, err := weights.ReadGAL(strings.NewReader(src), weights.WithTransform(weights.Binary))
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "3", "4"}, w.IDs())
	require.Equal(t, []string{"4"}, w.Islands())

	var buf bytes.Buffer
	require.NoError(t, weights.WriteGAL(&buf, w))

	back, err := weights.ReadGAL(&buf, weights.WithTransform(weights.Binary))
	require.NoError(t, err)
	require.Equal(t, w.IDs(), back.IDs())
	require.Equal(t, w.Cardinalities(), back.Cardinalities())
}

func TestReadGAL_Malformed(t *testing.T) {
	t.Parallel()

	for name, src := range map[string]string{
		"empty":          "",
		"bad header":     "x y\n",
		"short":          "3\n1 1\n2\n",
		"card mismatch":  "2\n1 2\n2\n2 1\n1\n",
		"bad card value": "1\n1 -1\n\n",
	} {
		src := src
		t.Run(name, func(t *testing.T) {
			_, err := weights.ReadGAL(strings.NewReader(src))
			require.True(t, errors.Is(err, weights.ErrGALFormat), "got %v", err)
		})
	}
}

func TestComponents(t *testing.T) {
	t.Parallel()

	w, err := weights.New([]string{"a", "b", "c", "d", "e"}, map[string][]string{
		"a": {"b"},
		"c": {"d"},
		"d": {"c"},
	})
	require.NoError(t, err)

	// "b" has no neighbors of its own but is reachable from "a".
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, w.Components())
	require.False(t, w.Symmetric())
}
