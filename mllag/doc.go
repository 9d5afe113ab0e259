// SPDX-License-Identifier: MIT

// Package mllag fits the spatial-lag model
//
//	y = ρWy + Xβ + ε,   ε ~ N(0, σ²I)
//
// by maximum likelihood. β and σ² are concentrated out, leaving the scalar
//
//	clik(ρ) = n/2·ln(e(ρ)'e(ρ)/n) − ln|I − ρW|,   e(ρ) = e₀ − ρe₁
//
// where e₀ and e₁ are the residuals of y and Wy on X. clik is minimised over
// [−1+δ, 1−δ] with a bounded Brent search; β, σ² and the asymptotic
// information matrix follow in closed form.
//
// Two log-determinant methods are available:
//
//	Full  LU of the dense N×N matrix on every evaluation, O(N³) each.
//	Ord   eigenvalues ω of W once, then ln|I − ρW| = Σ ln|1 − ρω|, O(N) each.
//
// Wherever I − ρW is singular or has a non-positive determinant the
// log-determinant is −Inf, clik is +Inf, and the search never settles there.
// The information matrix densifies (I − ρW)⁻¹ regardless of method.
package mllag
