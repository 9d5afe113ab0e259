// SPDX-License-Identifier: MIT

package mllag

import (
	"math"
	"math/cmplx"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// logDet evaluates ln|I − ρW|, returning −Inf where the determinant is not
// positive.
type logDet interface {
	LogDet(rho float64) float64
}

// fullLogDet refactorises I − ρW on every call.
type fullLogDet struct {
	w *mat.Dense
	a *mat.Dense // scratch for I − ρW
}

func newFullLogDet(w *mat.Dense) *fullLogDet {
	n, _ := w.Dims()
	return &fullLogDet{w: w, a: mat.NewDense(n, n, nil)}
}

func (f *fullLogDet) LogDet(rho float64) float64 {
	f.a.Apply(func(i, j int, v float64) float64 {
		if i == j {
			return 1 - rho*v
		}
		return -rho * v
	}, f.w)

	var lu mat.LU
	lu.Factorize(f.a)
	ld, sign := lu.LogDet()
	if sign <= 0 || math.IsNaN(ld) {
		return math.Inf(-1)
	}
	return ld
}

// ordLogDet uses the spectrum of W: |I − ρW| = Π(1 − ρωᵢ).
type ordLogDet struct {
	eig []complex128
}

func newOrdLogDet(w *mat.Dense) (*ordLogDet, error) {
	var e mat.Eigen
	if ok := e.Factorize(w, mat.EigenNone); !ok {
		return nil, ErrDecomposition
	}
	return &ordLogDet{eig: e.Values(nil)}, nil
}

func (o *ordLogDet) LogDet(rho float64) float64 {
	var (
		sum      float64
		negative int
	)
	for _, w := range o.eig {
		z := 1 - complex(rho, 0)*w
		r := cmplx.Abs(z)
		if r == 0 {
			return math.Inf(-1)
		}
		if imag(w) == 0 && real(z) < 0 {
			negative++
		}
		sum += math.Log(r)
	}
	if negative%2 == 1 {
		return math.Inf(-1)
	}
	return sum
}

func newLogDet(m Method, w *mat.Dense) (logDet, error) {
	switch m {
	case Full:
		return newFullLogDet(w), nil
	case Ord:
		return newOrdLogDet(w)
	default:
		return nil, errors.Wrapf(ErrBadMethod, "%v", m)
	}
}
