// SPDX-License-Identifier: MIT

package weights

import (
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/matrix"
)

// New builds a W over ids (matrix order) from a neighbor map.
// Units missing from neighbors are islands. Neighbor lists may be in any order;
// they are stored sorted by matrix row. Raw weights default to 1 unless
// WithWeights supplies them.
//
// Errors: ErrEmpty, ErrDuplicateID (repeated unit or repeated neighbor),
// ErrUnknownID, ErrSelfNeighbor, ErrWeightsLength, ErrBadWeight (also
// matching matrix.ErrNaNInf or matrix.ErrNegativeEntry).
// Complexity: O(N + E log d).
func New(ids []string, neighbors map[string][]string, opts ...Option) (*W, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(ids) == 0 {
		return nil, ErrEmpty
	}

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := index[id]; dup {
			return nil, errors.Wrapf(ErrDuplicateID, "%q", id)
		}
		index[id] = i
	}
	for id := range neighbors {
		if _, ok := index[id]; !ok {
			return nil, errors.Wrapf(ErrUnknownID, "unit %q", id)
		}
	}

	w := &W{
		ids:       append([]string(nil), ids...),
		index:     index,
		neighbors: make([][]int, len(ids)),
	}
	var triplets []matrix.Triplet
	for i, id := range ids {
		nbs := neighbors[id]
		vals, explicit := o.weights[id]
		if explicit && len(vals) != len(nbs) {
			return nil, errors.Wrapf(ErrWeightsLength, "unit %q: %d neighbors, %d weights", id, len(nbs), len(vals))
		}
		seen := make(map[int]struct{}, len(nbs))
		row := make([]int, 0, len(nbs))
		for k, nb := range nbs {
			j, ok := index[nb]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownID, "neighbor %q of %q", nb, id)
			}
			if j == i {
				return nil, errors.Wrapf(ErrSelfNeighbor, "%q", id)
			}
			if _, dup := seen[j]; dup {
				return nil, errors.Wrapf(ErrDuplicateID, "neighbor %q of %q", nb, id)
			}
			seen[j] = struct{}{}
			v := 1.0
			if explicit {
				v = vals[k]
			}
			row = append(row, j)
			triplets = append(triplets, matrix.Triplet{Row: i, Col: j, Value: v})
		}
		sort.Ints(row)
		w.neighbors[i] = row
	}

	raw, err := matrix.NewSparse(len(ids), len(ids), triplets)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "weights: raw weights"), ErrBadWeight)
	}
	if err = matrix.ValidateNonNegative(raw); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "weights: raw weights"), ErrBadWeight)
	}
	w.raw = raw

	if err = w.applyTransform(o.transform); err != nil {
		return nil, err
	}

	return w, nil
}

// applyTransform derives the sparse matrix for transform t from the raw weights.
func (w *W) applyTransform(t Transform) error {
	var s *matrix.Sparse
	switch t {
	case Binary:
		s = w.raw
	case RowStandardized:
		f := w.raw.RowSums() // islands and all-zero rows keep a zero scale
		for i, sum := range f {
			if sum != 0 {
				f[i] = 1 / sum
			}
		}
		var err error
		if s, err = w.raw.ScaleRows(f); err != nil {
			return errors.Wrap(err, "weights: row-standardise")
		}
	default:
		return errors.Wrapf(ErrBadTransform, "%q", string(t))
	}
	w.transform = t
	w.sparse = s

	return nil
}

// Transformed returns a copy of w under transform t. The receiver is unchanged.
func (w *W) Transformed(t Transform) (*W, error) {
	cp := &W{
		ids:       w.ids,
		index:     w.index,
		neighbors: w.neighbors,
		raw:       w.raw,
	}
	if err := cp.applyTransform(t); err != nil {
		return nil, err
	}
	return cp, nil
}

// N returns the number of units.
func (w *W) N() int { return len(w.ids) }

// Transform returns the active transform.
func (w *W) Transform() Transform { return w.transform }

// IDs returns a copy of the unit IDs in matrix order.
func (w *W) IDs() []string { return append([]string(nil), w.ids...) }

// Index returns the matrix row of id.
func (w *W) Index(id string) (int, bool) {
	i, ok := w.index[id]
	return i, ok
}

// Neighbors returns the neighbor IDs of id in matrix order.
func (w *W) Neighbors(id string) ([]string, error) {
	i, ok := w.index[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownID, "%q", id)
	}
	out := make([]string, len(w.neighbors[i]))
	for k, j := range w.neighbors[i] {
		out[k] = w.ids[j]
	}
	return out, nil
}

// Cardinalities returns the neighbor count of every unit in matrix order.
func (w *W) Cardinalities() []int {
	c := make([]int, len(w.ids))
	for i, nb := range w.neighbors {
		c[i] = len(nb)
	}
	return c
}

// Islands returns the IDs of units without neighbors.
func (w *W) Islands() []string {
	var out []string
	for i, nb := range w.neighbors {
		if len(nb) == 0 {
			out = append(out, w.ids[i])
		}
	}
	return out
}

// Sparse returns W as an immutable CSR matrix.
func (w *W) Sparse() *matrix.Sparse { return w.sparse }

// Full returns W as a dense N×N matrix.
func (w *W) Full() (*mat.Dense, error) { return w.sparse.ToDense() }

// TraceW2 returns Σᵢⱼ wᵢⱼ² = tr(WWᵀ).
func (w *W) TraceW2() float64 { return w.sparse.SumSquares() }

// Lag returns the spatial lag W·v of a cross-sectional vector.
func (w *W) Lag(v []float64) ([]float64, error) {
	out, err := w.sparse.MulVec(v)
	if err != nil {
		return nil, errors.Wrap(err, "weights: lag")
	}
	return out, nil
}

// LagPanel returns (I_T ⊗ W)·v for a time-major stacked vector of length N·T.
func (w *W) LagPanel(v []float64, periods int) ([]float64, error) {
	out, err := w.sparse.BlockMulVec(v, periods)
	if err != nil {
		return nil, errors.Wrap(err, "weights: panel lag")
	}
	return out, nil
}

// LagPanelDense lags every column of a time-major stacked N·T×k matrix.
func (w *W) LagPanelDense(x mat.Matrix, periods int) (*mat.Dense, error) {
	out, err := w.sparse.BlockMulDense(x, periods)
	if err != nil {
		return nil, errors.Wrap(err, "weights: panel lag")
	}
	return out, nil
}

// Symmetric reports whether every neighbor relation is reciprocated
// (structure only; weights may differ after row-standardisation).
func (w *W) Symmetric() bool {
	for i, nbs := range w.neighbors {
		for _, j := range nbs {
			k := sort.SearchInts(w.neighbors[j], i)
			if k == len(w.neighbors[j]) || w.neighbors[j][k] != i {
				return false
			}
		}
	}
	return true
}
