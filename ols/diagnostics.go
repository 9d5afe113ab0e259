// SPDX-License-Identifier: MIT

package ols

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Diagnostics are the classical inference statistics of a fit.
type Diagnostics struct {
	SE    []float64 // √diag(VM)
	T     []float64 // β / SE
	P     []float64 // two-sided Student-t p-values, n−k degrees of freedom
	R2    float64
	AdjR2 float64
	DF    float64
}

// Diagnostics computes standard errors, t statistics, p-values and R².
// A zero total sum of squares yields R2 = NaN.
func (r *Result) Diagnostics() Diagnostics {
	d := Diagnostics{
		SE: make([]float64, r.K),
		T:  make([]float64, r.K),
		P:  make([]float64, r.K),
		DF: float64(r.N - r.K),
	}
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: d.DF}
	for i := 0; i < r.K; i++ {
		d.SE[i] = math.Sqrt(r.VM.At(i, i))
		d.T[i] = r.Betas[i] / d.SE[i]
		d.P[i] = 2 * tdist.Survival(math.Abs(d.T[i]))
	}

	mean := floats.Sum(r.Y) / float64(r.N)
	var tss float64
	for _, v := range r.Y {
		tss += (v - mean) * (v - mean)
	}
	rss := floats.Dot(r.U, r.U)
	if tss == 0 {
		d.R2, d.AdjR2 = math.NaN(), math.NaN()
		return d
	}
	d.R2 = 1 - rss/tss
	d.AdjR2 = 1 - (1-d.R2)*float64(r.N-1)/d.DF

	return d
}
