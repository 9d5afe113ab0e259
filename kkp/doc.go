// SPDX-License-Identifier: MIT

// Package kkp estimates the spatial random-effects panel model of
// Kapoor, Kelejian and Prucha (2007):
//
//	y = Xβ + u,   u = λ(I_T⊗W)u + ε,   ε = (ι_T⊗I_N)μ + ν
//
// Estimate runs the two-step generalised-moments pipeline
//
//	OLS → within moments → GMM pass 1 → σ₁² → Ξ → stacked moments → GMM pass 2 → FGLS
//
// and returns β together with λ, σ_v² and σ₁². FilterFGLS is the last stage
// on its own: spatial Cochrane–Orcutt filtering followed by random-effects
// quasi-demeaning and OLS.
//
// Data are time-major (row t·N + i is unit i in period t); W stays sparse.
package kkp
