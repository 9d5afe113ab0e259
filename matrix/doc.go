// SPDX-License-Identifier: MIT

// Package matrix offers the sparse storage and validation layer shared by the
// spatial estimators.
//
// The matrix package provides:
//
//   - Sparse, an immutable CSR matrix holding spatial weights and their
//     products (WᵀW, W∘Wᵀ) without densification.
//   - Block (Kronecker I_T ⊗ W) mat-vec kernels used to lag stacked panel data.
//   - Validators and sentinel errors reused by every estimator package.
//
// Dense algebra (factorisations, inverses, small covariance matrices) is
// delegated to gonum.org/v1/gonum/mat; ToDense bridges the two.
package matrix
