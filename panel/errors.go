// SPDX-License-Identifier: MIT
// Package panel: sentinel error set.

package panel

import "github.com/cockroachdb/errors"

var (
	// ErrDimension indicates y or X rows that do not factor into N units × T periods,
	// or an X column count incompatible with T.
	ErrDimension = errors.New("panel: inconsistent panel dimensions")

	// ErrDegeneratePanel indicates fewer than two periods; the within and between
	// components cannot be separated.
	ErrDegeneratePanel = errors.New("panel: at least two periods required")

	// ErrNames indicates a regressor name list whose length is neither k nor k·T.
	ErrNames = errors.New("panel: regressor names must have k or k*T entries")

	// ErrNilInput indicates a nil y or X.
	ErrNilInput = errors.New("panel: nil input")
)

// degenerateHint is attached to ErrDegeneratePanel so CLI users see what to change.
const degenerateHint = "supply at least two periods per unit; for a single cross-section use the ML lag estimator"
