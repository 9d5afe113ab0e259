// SPDX-License-Identifier: MIT
// Package optim: sentinel error set.

package optim

import "github.com/cockroachdb/errors"

var (
	// ErrNotConverged indicates the solver stopped on a limit or failure status.
	ErrNotConverged = errors.New("optim: solver did not converge")

	// ErrBadStart indicates an empty or non-finite starting point.
	ErrBadStart = errors.New("optim: invalid starting point")

	// ErrBadInterval indicates lo ≥ hi or a non-finite bound.
	ErrBadInterval = errors.New("optim: invalid search interval")
)
