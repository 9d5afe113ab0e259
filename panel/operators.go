// SPDX-License-Identifier: MIT

package panel

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// UnitMeans returns the time average of every unit: m[i] = (1/T) Σ_t v[t·N+i].
func UnitMeans(v []float64, n int) ([]float64, error) {
	t, err := Periods(len(v), n)
	if err != nil {
		return nil, err
	}
	m := make([]float64, n)
	var i, p int
	for p = 0; p < t; p++ {
		for i = 0; i < n; i++ {
			m[i] += v[p*n+i]
		}
	}
	inv := 1 / float64(t)
	for i = range m {
		m[i] *= inv
	}
	return m, nil
}

// combine returns a·v + b·(J_T/T ⊗ I_N)v.
func combine(v []float64, n int, a, b float64) ([]float64, error) {
	m, err := UnitMeans(v, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(v))
	for r := range v {
		out[r] = a*v[r] + b*m[r%n]
	}
	return out, nil
}

// Within applies Q0 = (I_T − J_T/T) ⊗ I_N: each unit's time mean is removed.
func Within(v []float64, n int) ([]float64, error) {
	return combine(v, n, 1, -1)
}

// Between applies Q1 = (J_T/T) ⊗ I_N: each entry becomes its unit's time mean.
func Between(v []float64, n int) ([]float64, error) {
	return combine(v, n, 0, 1)
}

// QuasiDemean applies I − θQ1, the random-effects GLS transform.
// θ must be finite.
func QuasiDemean(v []float64, n int, theta float64) ([]float64, error) {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return nil, errors.Newf("panel: non-finite theta %v", theta)
	}
	return combine(v, n, 1, -theta)
}

// QuasiDemeanDense applies I − θQ1 to every column of a stacked N·T×k matrix.
func QuasiDemeanDense(x mat.Matrix, n int, theta float64) (*mat.Dense, error) {
	if x == nil {
		return nil, ErrNilInput
	}
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		qd, err := QuasiDemean(col, n, theta)
		if err != nil {
			return nil, err
		}
		out.SetCol(j, qd)
	}
	return out, nil
}
