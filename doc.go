// SPDX-License-Identifier: MIT

// Package spatialreg estimates spatial econometric models: the KKP spatial
// random-effects panel model by generalized moments, and the spatial lag
// model by maximum likelihood.
//
// 🚀 What is inside?
//
//	• weights/   spatial weights W: GAL files, rook/queen lattices, row-standardisation
//	• matrix/    immutable CSR sparse matrix and the I_T ⊗ W block kernels
//	• panel/     wide/long panel layout, within/between/quasi-demeaning operators
//	• ols/       least squares with covariance and Student-t diagnostics
//	• optim/     context-aware Nelder–Mead, BFGS and bounded Brent minimisers
//	• gmm/       KKP moment conditions, Tau variance structure, weighted GMM
//	• kkp/       two-pass GMM followed by spatially filtered FGLS
//	• mllag/     concentrated likelihood, Full/Ord log-determinants, inference
//	• table/     named numeric columns from CSV, Stata .dta and SAS .sas7bdat
//	• summary/   text reports and likelihood-profile plots
//	• cmd/spreg  the command-line driver
//
// ✨ Data layout
//
// Panels are stacked time-major: row t·N+i holds unit i in period t, so the
// spatial lag of a stacked vector is (I_T ⊗ W)·v and every period block is
// lagged with the same sparse W.
//
// Quick example:
//
//	w, _ := weights.Lattice(20, 20, weights.Queen)
//	d, _ := panel.New(yWide, xWide, w.N(), []string{"HR70", "HR80"}, nil)
//	res, err := kkp.Estimate(ctx, d, w, kkp.WithFullWeights(true))
//
// All estimators are pure functions of their arguments: no global state, one
// immutable result per call.
package spatialreg
