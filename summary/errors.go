// SPDX-License-Identifier: MIT

package summary

import "github.com/cockroachdb/errors"

var (
	// ErrNilResult indicates a nil fitted model.
	ErrNilResult = errors.New("summary: nil result")

	// ErrShape indicates coefficients, names and covariance of different sizes.
	ErrShape = errors.New("summary: coefficient shape mismatch")

	// ErrNoPoints indicates a profile with fewer than two finite points.
	ErrNoPoints = errors.New("summary: not enough finite profile points")
)
