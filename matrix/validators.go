// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide a single, canonical source of truth for common validation checks.
//   - Keep kernels minimal by delegating shape/nil/finiteness checks here.
//   - Return sentinel errors tagged with the validator name; errors.Is still matches.
//
// Determinism & Performance:
//   - All checks are pure, deterministic and allocate nothing.
//   - Symmetry check runs O(n²) on the upper triangle only.

package matrix

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return errors.Wrap(err, tag)
}

// ValidateNotNil ensures the sparse matrix reference is non-nil.
// Returns ErrNilMatrix if s == nil.
func ValidateNotNil(s *Sparse) error {
	if s == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}
	return nil
}

// ValidateSquare checks that s is non-nil and square.
// Errors: ErrNilMatrix, ErrNonSquare.
func ValidateSquare(s *Sparse) error {
	if err := ValidateNotNil(s); err != nil {
		return validatorErrorf("ValidateSquare", err)
	}
	if s.r != s.c {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}
	return nil
}

// ValidateSameShape ensures a and b are non-nil with equal dimensions.
func ValidateSameShape(a, b *Sparse) error {
	if a == nil || b == nil {
		return validatorErrorf("ValidateSameShape", ErrNilMatrix)
	}
	if a.r != b.r || a.c != b.c {
		return validatorErrorf("ValidateSameShape", ErrDimensionMismatch)
	}
	return nil
}

// ValidateMulCompatible ensures a·b is defined (a.Cols == b.Rows).
func ValidateMulCompatible(a, b *Sparse) error {
	if a == nil || b == nil {
		return validatorErrorf("ValidateMulCompatible", ErrNilMatrix)
	}
	if a.c != b.r {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}
	return nil
}

// ValidateVecLen ensures the vector is non-nil and has exactly n entries.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	// Disallow nil vectors to avoid subtle bugs in MatVec-like routines.
	if x == nil && n > 0 {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}
	return nil
}

// ValidateFinite reports ErrNaNInf if any entry of x is NaN or ±Inf.
func ValidateFinite(x []float64) error {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validatorErrorf("ValidateFinite", ErrNaNInf)
		}
	}
	return nil
}

// ValidateDenseFinite reports ErrNaNInf if any entry of m is NaN or ±Inf.
func ValidateDenseFinite(m mat.Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateDenseFinite", ErrNilMatrix)
	}
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return validatorErrorf("ValidateDenseFinite", ErrNaNInf)
			}
		}
	}
	return nil
}

// ValidateNonNegative reports ErrNegativeEntry if any stored value of s is < 0.
func ValidateNonNegative(s *Sparse) error {
	if err := ValidateNotNil(s); err != nil {
		return validatorErrorf("ValidateNonNegative", err)
	}
	for _, v := range s.data {
		if v < 0 {
			return validatorErrorf("ValidateNonNegative", ErrNegativeEntry)
		}
	}
	return nil
}

// ValidateSymmetric checks |m[i,j] - m[j,i]| ≤ tol for all i<j.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNaNInf (bad tol), ErrAsymmetry.
// Complexity: O(n²) over the strict upper triangle.
func ValidateSymmetric(m mat.Matrix, tol float64) error {
	if m == nil {
		return validatorErrorf("ValidateSymmetric", ErrNilMatrix)
	}
	r, c := m.Dims()
	if r != c {
		return validatorErrorf("ValidateSymmetric", ErrNonSquare)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return validatorErrorf("ValidateSymmetric", ErrNaNInf)
	}
	tol = math.Abs(tol)
	var i, j int
	for i = 0; i < r; i++ {
		for j = i + 1; j < r; j++ { // scan only upper triangle
			if math.Abs(m.At(i, j)-m.At(j, i)) > tol {
				return validatorErrorf("ValidateSymmetric", ErrAsymmetry)
			}
		}
	}
	return nil
}
