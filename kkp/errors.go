// SPDX-License-Identifier: MIT
// Package kkp: sentinel error set.

package kkp

import "github.com/cockroachdb/errors"

var (
	// ErrUnitMismatch indicates panel data and weights disagree on N.
	ErrUnitMismatch = errors.New("kkp: panel units and weights size differ")

	// ErrVariance indicates a non-positive variance component, so θ is undefined.
	ErrVariance = errors.New("kkp: variance component is not positive")
)
