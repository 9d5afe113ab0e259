// SPDX-License-Identifier: MIT

// Package weights implements the spatial weights adapter used by the estimators.
//
// 🚀 What is a spatial weights matrix?
//
//	W is an N×N non-negative matrix whose entry w_ij says how much unit j counts
//	as a neighbor of unit i. The spatial lag Wy is the weighted average of the
//	neighbors' values when W is row-standardised.
//
// ✨ Key features:
//   - construction from neighbor lists, GAL files or regular lattices
//     (rook = 4-connectivity, queen = 8-connectivity)
//   - binary (B) and row-standardised (R) transforms; islands keep zero rows
//   - sparse lag operator for cross-sections (Lag) and time-major stacked
//     panels (LagPanel, LagPanelDense) without forming I_T ⊗ W
//   - connected components and island detection
//
// ⚙️ Usage:
//
//	w, err := weights.Lattice(5, 5, weights.Queen)
//	if err != nil { ... }
//	wy, err := w.Lag(y)
//
// A *W is immutable; Transformed returns a new value.
package weights
