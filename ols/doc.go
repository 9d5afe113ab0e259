// SPDX-License-Identifier: MIT

// Package ols is the ordinary-least-squares primitive shared by the spatial
// estimators: coefficients, residuals, fitted values and the cross-product
// matrices they reuse, plus classical diagnostics for reporting.
//
//	β = (X'X)⁻¹X'y,  u = y − Xβ,  σ² = u'u/(n−k),  VM = σ²(X'X)⁻¹
//
// Inputs are never modified; every Fit allocates a fresh Result.
package ols
