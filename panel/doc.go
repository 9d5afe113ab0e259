// SPDX-License-Identifier: MIT

// Package panel holds the panel observation matrix used by the spatial
// estimators and the time-demeaning operators that act on it.
//
// Stacking is time-major: row t*N + i holds unit i in period t. Under that
// layout the Kronecker forms used by the estimators reduce to cheap passes:
//
//	Q0 = (I_T − J_T/T) ⊗ I_N   Within:      v[t,i] − mean_t v[·,i]
//	Q1 = (J_T/T) ⊗ I_N          Between:     mean_t v[·,i], repeated over t
//	I − θQ1                     QuasiDemean: v[t,i] − θ·mean_t v[·,i]
//
// None of them materialises an N·T × N·T matrix.
//
// Wide input (y as N×T, X as N×k·T with each variable's T periods adjacent)
// is reshaped column-major into the long layout by New.
package panel
