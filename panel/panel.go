// SPDX-License-Identifier: MIT

package panel

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Default output names, used when the caller supplies none.
const (
	DefaultNameY       = "dep_var"
	defaultNameXFormat = "var_%d"
)

// Data is a long-format panel: Y and every column of X have N·T time-major rows.
// NameY and NameX carry one name per variable (period suffixes removed).
type Data struct {
	Y     []float64
	X     *mat.Dense
	N     int
	T     int
	NameY string
	NameX []string
}

// K returns the number of regressors.
func (d *Data) K() int {
	_, k := d.X.Dims()
	return k
}

// Option configures New.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger routes layout notices to l. The default discards them.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("panel: WithLogger: nil logger")
	}
	return func(o *options) { o.logger = l }
}

// Periods returns T = rows/n for a stacked vector or matrix of the given length.
// Errors: ErrDimension when n ≤ 0 or rows is not a positive multiple of n,
// ErrDegeneratePanel when T < 2.
func Periods(rows, n int) (int, error) {
	if n <= 0 || rows <= 0 || rows%n != 0 {
		return 0, errors.Wrapf(ErrDimension, "%d rows for %d units", rows, n)
	}
	t := rows / n
	if t < 2 {
		return 0, errors.WithHint(errors.Wrapf(ErrDegeneratePanel, "T=%d", t), degenerateHint)
	}
	return t, nil
}

// New validates y and x against n units and returns the long-format panel.
//
// Accepted layouts:
//   - y: N·T×1 (long) or N×T (wide, column t is period t).
//   - x: N·T×k (long) or N×k·T (wide, columns j·T … j·T+T−1 hold variable j).
//
// Wide inputs are reshaped column-major so the result is time-major.
// nameY may hold one name or one per period; with several, the first is used
// with its digits removed ("HR70" → "HR"). nameX must be empty, k names, or
// k·T names (then every T-th name is kept with digits removed).
//
// Errors: ErrNilInput, ErrDimension, ErrDegeneratePanel, ErrNames.
// Complexity: O(N·T·k).
func New(y, x mat.Matrix, n int, nameY, nameX []string, opts ...Option) (*Data, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if y == nil || x == nil {
		return nil, ErrNilInput
	}

	yr, yc := y.Dims()
	var (
		t    int
		err  error
		wide = yc > 1
	)
	if wide {
		if yr != n {
			return nil, errors.Wrapf(ErrDimension, "wide y has %d rows, want %d units", yr, n)
		}
		t = yc
		if _, err = Periods(n*t, n); err != nil {
			return nil, err
		}
	} else if t, err = Periods(yr, n); err != nil {
		return nil, err
	}

	xr, xc := x.Dims()
	var k int
	xWide := false
	switch {
	case xr == n*t:
		k = xc
	case xr == n && xc%t == 0:
		k, xWide = xc/t, true
	default:
		return nil, errors.Wrapf(ErrDimension, "x is %dx%d; want %dx%d or %dx%d·k", xr, xc, n*t, xc, n, t)
	}
	if k == 0 {
		return nil, errors.Wrap(ErrDimension, "x has no columns")
	}
	if wide || xWide {
		o.logger.Info("assuming wide format: column t is period t; x groups each variable's periods",
			zap.Int("n", n), zap.Int("t", t), zap.Int("k", k))
	}

	d := &Data{N: n, T: t, Y: make([]float64, n*t), X: mat.NewDense(n*t, k, nil)}

	var i, p, j int
	for p = 0; p < t; p++ {
		for i = 0; i < n; i++ {
			if wide {
				d.Y[p*n+i] = y.At(i, p)
			} else {
				d.Y[p*n+i] = y.At(p*n+i, 0)
			}
			for j = 0; j < k; j++ {
				if xWide {
					d.X.Set(p*n+i, j, x.At(i, j*t+p))
				} else {
					d.X.Set(p*n+i, j, x.At(p*n+i, j))
				}
			}
		}
	}

	if d.NameY, err = resolveNameY(nameY); err != nil {
		return nil, err
	}
	if d.NameX, err = resolveNameX(nameX, k, t); err != nil {
		return nil, err
	}

	return d, nil
}

func resolveNameY(names []string) (string, error) {
	switch len(names) {
	case 0:
		return DefaultNameY, nil
	case 1:
		return names[0], nil
	default:
		return stripDigits(names[0]), nil
	}
}

func resolveNameX(names []string, k, t int) ([]string, error) {
	switch len(names) {
	case 0:
		out := make([]string, k)
		for j := range out {
			out[j] = fmt.Sprintf(defaultNameXFormat, j+1)
		}
		return out, nil
	case k:
		return append([]string(nil), names...), nil
	case k * t:
		out := make([]string, k)
		for j := range out {
			out[j] = stripDigits(names[j*t])
		}
		return out, nil
	default:
		return nil, errors.WithHint(
			errors.Wrapf(ErrNames, "got %d names for k=%d, T=%d", len(names), k, t),
			"list one name per regressor, or one per regressor and period",
		)
	}
}

func stripDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
}
