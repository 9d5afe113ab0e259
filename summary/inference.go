// SPDX-License-Identifier: MIT

package summary

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient is one estimated parameter with its asymptotic inference.
type Coefficient struct {
	Name     string
	Estimate float64
	SE       float64
	Z        float64
	P        float64 // two-sided, standard normal
}

// Coefficients pairs names[i] with betas[i] and the square root of vm[i][i].
// A non-positive variance yields NaN for SE, Z and P.
//
// Errors: ErrShape.
func Coefficients(names []string, betas []float64, vm mat.Matrix) ([]Coefficient, error) {
	r, c := vm.Dims()
	if r != c || r != len(betas) || len(names) < len(betas) {
		return nil, errors.Wrapf(ErrShape, "%d names, %d betas, VM %dx%d", len(names), len(betas), r, c)
	}
	out := make([]Coefficient, len(betas))
	for i, b := range betas {
		cf := Coefficient{Name: names[i], Estimate: b, SE: math.NaN(), Z: math.NaN(), P: math.NaN()}
		if v := vm.At(i, i); v > 0 {
			cf.SE = math.Sqrt(v)
			cf.Z = b / cf.SE
			cf.P = 2 * distuv.UnitNormal.Survival(math.Abs(cf.Z))
		}
		out[i] = cf
	}
	return out, nil
}
