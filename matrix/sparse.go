// SPDX-License-Identifier: MIT

// Package matrix - compressed sparse row (CSR) storage & kernels.
//
// Purpose:
//   - Hold spatial weights and their products without densification.
//   - Provide the handful of kernels the estimators need: mat-vec, block-diagonal
//     (Kronecker I_T ⊗ S) mat-vec, transpose, sparse product, Hadamard product and
//     reductions (sum, sum of squares, diagonal, row/column sums).
//
// Determinism & layout:
//   - Rows are stored in order; column indices are strictly ascending within a row.
//   - Duplicate (i,j) entries are summed at construction; exact zeros are dropped.
//   - A *Sparse is immutable after construction; every kernel returns fresh storage.
//
// Complexity quicksheet:
//   - NewSparse: O(nnz log nnz); At: O(log deg); MulVec: O(nnz); T: O(r + c + nnz);
//     Mul: O(Σ_i Σ_{k∈row i} deg_b(k)); Hadamard/Add: O(nnz_a + nnz_b).

package matrix

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opNew       = "NewSparse"
	opAt        = "At"
	opMulVec    = "MulVec"
	opBlockVec  = "BlockMulVec"
	opBlockMat  = "BlockMulDense"
	opMul       = "Mul"
	opAdd       = "Add"
	opHadamard  = "Hadamard"
	opScaleRows = "ScaleRows"
	opToDense   = "ToDense"
)

// Triplet is one (row, col, value) entry used to assemble a Sparse matrix.
type Triplet struct {
	Row, Col int
	Value    float64
}

// Sparse is an immutable CSR matrix of float64 values.
//   - indptr has length r+1; row i occupies data[indptr[i]:indptr[i+1]].
//   - indices holds the column of every stored value (ascending inside a row).
type Sparse struct {
	r, c    int       // row and column counts (>= 0)
	indptr  []int     // row pointers, len == r+1
	indices []int     // column indices, len == nnz
	data    []float64 // stored values, len == nnz
}

// NewSparse assembles a rows×cols CSR matrix from an unordered triplet list.
//
// Implementation:
//   - Stage 1: validate shape, indices and finiteness of every triplet.
//   - Stage 2: sort a copy by (row, col); the input slice is not reordered.
//   - Stage 3: sweep once, summing duplicates and dropping exact zeros.
//
// Errors:
//   - ErrBadShape (negative dims), ErrOutOfRange (bad index), ErrNaNInf (non-finite value).
//
// Complexity:
//   - Time O(nnz log nnz), Space O(r + nnz).
func NewSparse(rows, cols int, entries []Triplet) (*Sparse, error) {
	if rows < 0 || cols < 0 {
		return nil, errors.Wrapf(ErrBadShape, "%s: %dx%d", opNew, rows, cols)
	}
	sorted := make([]Triplet, len(entries))
	copy(sorted, entries)
	for _, e := range sorted {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, errors.Wrapf(ErrOutOfRange, "%s: (%d,%d) in %dx%d", opNew, e.Row, e.Col, rows, cols)
		}
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return nil, errors.Wrapf(ErrNaNInf, "%s: (%d,%d)", opNew, e.Row, e.Col)
		}
	}
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Row != sorted[b].Row {
			return sorted[a].Row < sorted[b].Row
		}
		return sorted[a].Col < sorted[b].Col
	})

	s := &Sparse{
		r:       rows,
		c:       cols,
		indptr:  make([]int, rows+1),
		indices: make([]int, 0, len(sorted)),
		data:    make([]float64, 0, len(sorted)),
	}
	var i int
	for i < len(sorted) {
		cur := sorted[i]
		sum := cur.Value
		i++
		for i < len(sorted) && sorted[i].Row == cur.Row && sorted[i].Col == cur.Col {
			sum += sorted[i].Value // duplicates are summed
			i++
		}
		if sum == 0 {
			continue
		}
		s.indices = append(s.indices, cur.Col)
		s.data = append(s.data, sum)
		s.indptr[cur.Row+1]++
	}
	for row := 0; row < rows; row++ {
		s.indptr[row+1] += s.indptr[row] // prefix sum of per-row counts
	}

	return s, nil
}

// Rows returns the row count.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the column count.
func (s *Sparse) Cols() int { return s.c }

// Dims returns (rows, cols), mirroring gonum's mat.Matrix.
func (s *Sparse) Dims() (rows, cols int) { return s.r, s.c }

// NNZ returns the number of stored (non-zero) entries.
func (s *Sparse) NNZ() int { return len(s.data) }

// Row returns the column indices and values of row i.
// The slices alias internal storage and MUST NOT be modified.
func (s *Sparse) Row(i int) ([]int, []float64) {
	lo, hi := s.indptr[i], s.indptr[i+1]
	return s.indices[lo:hi], s.data[lo:hi]
}

// At returns the value at (i, j); absent entries are 0.
// Complexity: O(log deg(i)).
func (s *Sparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, errors.Wrapf(ErrOutOfRange, "%s(%d,%d)", opAt, i, j)
	}
	cols, vals := s.Row(i)
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return vals[k], nil
	}

	return 0, nil
}

// MulVec computes y = S·x.
//
// Errors:
//   - ErrNilMatrix (nil x), ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(nnz), Space O(r).
func (s *Sparse) MulVec(x []float64) ([]float64, error) {
	if err := ValidateVecLen(x, s.c); err != nil {
		return nil, errors.Wrap(err, opMulVec)
	}
	y := make([]float64, s.r)
	s.mulVecTo(y, x)

	return y, nil
}

// mulVecTo writes S·x into dst without validation (len(dst)==r, len(x)==c).
func (s *Sparse) mulVecTo(dst, x []float64) {
	var (
		i, k int
		acc  float64
	)
	for i = 0; i < s.r; i++ {
		acc = 0
		for k = s.indptr[i]; k < s.indptr[i+1]; k++ {
			acc += s.data[k] * x[s.indices[k]]
		}
		dst[i] = acc
	}
}

// BlockMulVec computes (I_blocks ⊗ S)·x, i.e. applies S to each consecutive
// block of Cols() entries of x. This is the spatial lag of a time-major stacked
// panel vector without materialising the Kronecker product.
//
// Errors:
//   - ErrBadShape (blocks < 1), ErrNilMatrix, ErrDimensionMismatch (len(x) != blocks*Cols).
//
// Complexity:
//   - Time O(blocks·nnz), Space O(blocks·r).
func (s *Sparse) BlockMulVec(x []float64, blocks int) ([]float64, error) {
	if blocks < 1 {
		return nil, errors.Wrapf(ErrBadShape, "%s: blocks=%d", opBlockVec, blocks)
	}
	if err := ValidateVecLen(x, blocks*s.c); err != nil {
		return nil, errors.Wrap(err, opBlockVec)
	}
	y := make([]float64, blocks*s.r)
	for b := 0; b < blocks; b++ {
		s.mulVecTo(y[b*s.r:(b+1)*s.r], x[b*s.c:(b+1)*s.c])
	}

	return y, nil
}

// BlockMulDense computes (I_blocks ⊗ S)·X column by column for a dense X with
// blocks*Cols() rows.
func (s *Sparse) BlockMulDense(x mat.Matrix, blocks int) (*mat.Dense, error) {
	if x == nil {
		return nil, errors.Wrap(ErrNilMatrix, opBlockMat)
	}
	rows, cols := x.Dims()
	if blocks < 1 || cols < 1 {
		return nil, errors.Wrapf(ErrBadShape, "%s: blocks=%d cols=%d", opBlockMat, blocks, cols)
	}
	if rows != blocks*s.c {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%s: rows=%d, want %d", opBlockMat, rows, blocks*s.c)
	}
	out := mat.NewDense(blocks*s.r, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		lagged, err := s.BlockMulVec(col, blocks)
		if err != nil {
			return nil, errors.Wrap(err, opBlockMat)
		}
		out.SetCol(j, lagged)
	}

	return out, nil
}

// T returns the transpose Sᵀ as a new CSR matrix (counting sort over columns).
// Complexity: O(r + c + nnz).
func (s *Sparse) T() *Sparse {
	t := &Sparse{
		r:       s.c,
		c:       s.r,
		indptr:  make([]int, s.c+1),
		indices: make([]int, len(s.indices)),
		data:    make([]float64, len(s.data)),
	}
	for _, j := range s.indices {
		t.indptr[j+1]++
	}
	for j := 0; j < s.c; j++ {
		t.indptr[j+1] += t.indptr[j]
	}
	next := make([]int, s.c)
	copy(next, t.indptr[:s.c])
	var i, k, dst int
	for i = 0; i < s.r; i++ { // rows visited in order keep columns of Sᵀ ascending
		for k = s.indptr[i]; k < s.indptr[i+1]; k++ {
			dst = next[s.indices[k]]
			t.indices[dst] = i
			t.data[dst] = s.data[k]
			next[s.indices[k]]++
		}
	}

	return t
}

// Mul returns the sparse product S·B (Gustavson's row-by-row algorithm).
//
// Errors:
//   - ErrNilMatrix (nil b), ErrDimensionMismatch (S.Cols != B.Rows).
//
// Complexity:
//   - Time O(flops + r·log), Space O(nnz(result) + B.Cols).
func (s *Sparse) Mul(b *Sparse) (*Sparse, error) {
	if err := ValidateMulCompatible(s, b); err != nil {
		return nil, errors.Wrap(err, opMul)
	}
	out := &Sparse{r: s.r, c: b.c, indptr: make([]int, s.r+1)}
	acc := make([]float64, b.c)
	mark := make([]int, b.c)
	for j := range mark {
		mark[j] = -1
	}
	var touched []int
	var i, k, kb, col int
	for i = 0; i < s.r; i++ {
		touched = touched[:0]
		for k = s.indptr[i]; k < s.indptr[i+1]; k++ {
			av := s.data[k]
			row := s.indices[k]
			for kb = b.indptr[row]; kb < b.indptr[row+1]; kb++ {
				col = b.indices[kb]
				if mark[col] != i {
					mark[col] = i
					acc[col] = 0
					touched = append(touched, col)
				}
				acc[col] += av * b.data[kb]
			}
		}
		sort.Ints(touched)
		for _, col = range touched {
			if acc[col] == 0 {
				continue
			}
			out.indices = append(out.indices, col)
			out.data = append(out.data, acc[col])
		}
		out.indptr[i+1] = len(out.data)
	}

	return out, nil
}

// merge walks the rows of a and b in lockstep and combines aligned entries with
// fn. When union is true, entries present in only one operand are combined with
// an implicit zero; otherwise only the intersection is visited.
func merge(a, b *Sparse, union bool, fn func(x, y float64) float64) *Sparse {
	out := &Sparse{r: a.r, c: a.c, indptr: make([]int, a.r+1)}
	emit := func(col int, v float64) {
		if v == 0 {
			return
		}
		out.indices = append(out.indices, col)
		out.data = append(out.data, v)
	}
	for i := 0; i < a.r; i++ {
		ka, kb := a.indptr[i], b.indptr[i]
		ea, eb := a.indptr[i+1], b.indptr[i+1]
		for ka < ea || kb < eb {
			switch {
			case kb >= eb || (ka < ea && a.indices[ka] < b.indices[kb]):
				if union {
					emit(a.indices[ka], fn(a.data[ka], 0))
				}
				ka++
			case ka >= ea || b.indices[kb] < a.indices[ka]:
				if union {
					emit(b.indices[kb], fn(0, b.data[kb]))
				}
				kb++
			default:
				emit(a.indices[ka], fn(a.data[ka], b.data[kb]))
				ka++
				kb++
			}
		}
		out.indptr[i+1] = len(out.data)
	}

	return out
}

// Add returns S + B.
func (s *Sparse) Add(b *Sparse) (*Sparse, error) {
	if err := ValidateSameShape(s, b); err != nil {
		return nil, errors.Wrap(err, opAdd)
	}
	return merge(s, b, true, func(x, y float64) float64 { return x + y }), nil
}

// Hadamard returns the element-wise product S ∘ B.
func (s *Sparse) Hadamard(b *Sparse) (*Sparse, error) {
	if err := ValidateSameShape(s, b); err != nil {
		return nil, errors.Wrap(err, opHadamard)
	}
	return merge(s, b, false, func(x, y float64) float64 { return x * y }), nil
}

// ScaleRows returns diag(f)·S, i.e. row i multiplied by f[i].
func (s *Sparse) ScaleRows(f []float64) (*Sparse, error) {
	if err := ValidateVecLen(f, s.r); err != nil {
		return nil, errors.Wrap(err, opScaleRows)
	}
	triplets := make([]Triplet, 0, len(s.data))
	for i := 0; i < s.r; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			triplets = append(triplets, Triplet{Row: i, Col: s.indices[k], Value: f[i] * s.data[k]})
		}
	}

	return NewSparse(s.r, s.c, triplets)
}

// Sum returns Σᵢⱼ sᵢⱼ.
func (s *Sparse) Sum() float64 {
	var total float64
	for _, v := range s.data {
		total += v
	}
	return total
}

// SumSquares returns Σᵢⱼ sᵢⱼ², which equals tr(S·Sᵀ).
func (s *Sparse) SumSquares() float64 {
	var total float64
	for _, v := range s.data {
		total += v * v
	}
	return total
}

// Diagonal returns the main diagonal (length min(r, c)).
func (s *Sparse) Diagonal() []float64 {
	n := s.r
	if s.c < n {
		n = s.c
	}
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i], _ = s.At(i, i) // indices are in range by construction
	}
	return d
}

// RowSums returns the vector of row sums.
func (s *Sparse) RowSums() []float64 {
	sums := make([]float64, s.r)
	for i := 0; i < s.r; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			sums[i] += s.data[k]
		}
	}
	return sums
}

// ToDense materialises S as a gonum dense matrix.
// Errors: ErrBadShape for an empty (0×c or r×0) matrix, which gonum cannot hold.
func (s *Sparse) ToDense() (*mat.Dense, error) {
	if s.r == 0 || s.c == 0 {
		return nil, errors.Wrapf(ErrBadShape, "%s: %dx%d", opToDense, s.r, s.c)
	}
	d := mat.NewDense(s.r, s.c, nil)
	for i := 0; i < s.r; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			d.Set(i, s.indices[k], s.data[k])
		}
	}
	return d, nil
}
