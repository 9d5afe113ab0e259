// SPDX-License-Identifier: MIT
// Package table: sentinel error set.

package table

import "github.com/cockroachdb/errors"

var (
	// ErrEmpty indicates input without a header or without data rows.
	ErrEmpty = errors.New("table: no data")

	// ErrDuplicateColumn indicates a header naming the same column twice.
	ErrDuplicateColumn = errors.New("table: duplicate column name")

	// ErrUnknownColumn indicates a lookup of a column that does not exist.
	ErrUnknownColumn = errors.New("table: unknown column")

	// ErrParse indicates a non-numeric column, a missing cell, or a file the
	// reader could not decode.
	ErrParse = errors.New("table: cell is not numeric")
)
