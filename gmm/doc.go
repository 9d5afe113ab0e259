// SPDX-License-Identifier: MIT

// Package gmm implements the moment conditions of the Kapoor–Kelejian–Prucha
// spatial random-effects error model and the generalised-moments solver that
// recovers λ and the variance components from them.
//
// 🚀 What is here?
//
//	Moments   – G (3×3 within / 3×4 between) and g (3) from residuals u.
//	Stack     – within and between pairs combined into the 6-moment system.
//	Tau       – 3×3 asymptotic moment covariance used by full weighting.
//	Weighting – Ξ = diag(σ_v⁴/(T−1), σ₁⁴) ⊗ (Tau | I₃).
//	Optimize  – argmin ‖Ec(G·p − g)‖², p = (λ, λ², σ²…).
//
// ✨ Key properties
//
//   - W stays sparse; the within/between projections are applied as
//     operators, never as N·T × N·T Kronecker products.
//   - The trace Σwᵢⱼ² is computed once and threaded between calls.
//   - The solver is an optim.Solver, so Nelder–Mead and BFGS are interchangeable.
package gmm
