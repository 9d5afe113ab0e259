// SPDX-License-Identifier: MIT

package gmm

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/spatialreg/matrix"
	"github.com/katalvlaran/spatialreg/panel"
)

// Stage selects the time projection the moments are built from.
type Stage int

const (
	// Within uses Q0 = (I_T − J_T/T) ⊗ I_N; moments are normalised by N(T−1).
	Within Stage = iota
	// Between uses Q1 = (J_T/T) ⊗ I_N; moments are normalised by N.
	Between
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case Within:
		return "within"
	case Between:
		return "between"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// MomentPair is one linearised moment system G·p ≈ g.
type MomentPair struct {
	G   *mat.Dense    // 3×3 (Within), 3×4 (Between) or 6×4 (stacked)
	Rhs *mat.VecDense // g
}

// Moments builds the KKP moment pair for residuals u under stage.
//
// With ū = (I_T⊗W)u, ū̄ = (I_T⊗W)ū and Q the stage projection:
//
//	G = 1/d · [ 2u'Qū        −ū'Qū    c₁ ]
//	          [ 2ū̄'Qū        −ū̄'Qū̄   c₂ ]
//	          [ u'Qū̄+ū'Qū    −ū'Qū̄    0  ]
//	g = 1/d · [ u'Qu, ū'Qū, u'Qū ]'
//
// Within: d = N(T−1), (c₁, c₂) = (N(T−1), (T−1)·tr). Between: d = N and the
// last column is preceded by a zero σ_v² column, (c₁, c₂) = (N, tr).
// tr = Σwᵢⱼ²; pass traceW2 = nil to compute it. The trace used is returned.
//
// Errors: matrix.ErrNilMatrix / ErrNonSquare for W, panel.ErrDimension when
// len(u) is not a multiple of N, panel.ErrDegeneratePanel when T < 2,
// matrix.ErrNaNInf for non-finite u, ErrBadStage.
// Complexity: O(T·nnz(W) + N·T).
func Moments(w *matrix.Sparse, u []float64, stage Stage, traceW2 *float64) (MomentPair, float64, error) {
	if stage != Within && stage != Between {
		return MomentPair{}, 0, errors.Wrapf(ErrBadStage, "%v", stage)
	}
	if err := matrix.ValidateSquare(w); err != nil {
		return MomentPair{}, 0, errors.Wrap(err, "gmm: moments")
	}
	n := w.Rows()
	t, err := panel.Periods(len(u), n)
	if err != nil {
		return MomentPair{}, 0, errors.Wrap(err, "gmm: moments")
	}
	if err = matrix.ValidateFinite(u); err != nil {
		return MomentPair{}, 0, errors.Wrap(err, "gmm: moments")
	}

	ub, err := w.BlockMulVec(u, t)
	if err != nil {
		return MomentPair{}, 0, err
	}
	ubb, err := w.BlockMulVec(ub, t)
	if err != nil {
		return MomentPair{}, 0, err
	}

	project := panel.Within
	if stage == Between {
		project = panel.Between
	}
	var qu, qub, qubb []float64
	if qu, err = project(u, n); err != nil {
		return MomentPair{}, 0, err
	}
	if qub, err = project(ub, n); err != nil {
		return MomentPair{}, 0, err
	}
	if qubb, err = project(ubb, n); err != nil {
		return MomentPair{}, 0, err
	}

	tr := w.SumSquares()
	if traceW2 != nil {
		tr = *traceW2
	}

	g11 := 2 * floats.Dot(u, qub)
	g12 := -floats.Dot(ub, qub)
	g21 := 2 * floats.Dot(ubb, qub)
	g22 := -floats.Dot(ubb, qubb)
	g31 := floats.Dot(u, qubb) + floats.Dot(ub, qub)
	g32 := -floats.Dot(ub, qubb)

	var (
		d float64
		G *mat.Dense
	)
	switch stage {
	case Within:
		d = float64(n * (t - 1))
		G = mat.NewDense(3, 3, []float64{
			g11, g12, d,
			g21, g22, float64(t-1) * tr,
			g31, g32, 0,
		})
	case Between:
		d = float64(n)
		G = mat.NewDense(3, 4, []float64{
			g11, g12, 0, d,
			g21, g22, 0, tr,
			g31, g32, 0, 0,
		})
	}
	G.Scale(1/d, G)

	rhs := mat.NewVecDense(3, []float64{
		floats.Dot(u, qu) / d,
		floats.Dot(ub, qub) / d,
		floats.Dot(u, qub) / d,
	})

	return MomentPair{G: G, Rhs: rhs}, tr, nil
}

// Stack combines a 3×3 within pair and a 3×4 between pair into the 6×4
// system; the within block gets a zero σ₁² column.
// Errors: ErrShape.
func Stack(within, between MomentPair) (MomentPair, error) {
	if err := within.validate(); err != nil {
		return MomentPair{}, err
	}
	if err := between.validate(); err != nil {
		return MomentPair{}, err
	}
	wr, wc := within.G.Dims()
	br, bc := between.G.Dims()
	if wr != 3 || wc != 3 || br != 3 || bc != 4 {
		return MomentPair{}, errors.Wrapf(ErrShape, "stack %dx%d over %dx%d", wr, wc, br, bc)
	}

	G := mat.NewDense(6, 4, nil)
	G.Slice(0, 3, 0, 3).(*mat.Dense).Copy(within.G)
	G.Slice(3, 6, 0, 4).(*mat.Dense).Copy(between.G)

	rhs := mat.NewVecDense(6, nil)
	rhs.SliceVec(0, 3).(*mat.VecDense).CopyVec(within.Rhs)
	rhs.SliceVec(3, 6).(*mat.VecDense).CopyVec(between.Rhs)

	return MomentPair{G: G, Rhs: rhs}, nil
}

// validate checks that G and g are present and conform.
func (m MomentPair) validate() error {
	if m.G == nil || m.Rhs == nil {
		return errors.Wrap(ErrShape, "nil moment matrix")
	}
	r, c := m.G.Dims()
	if r != m.Rhs.Len() || c < 2 {
		return errors.Wrapf(ErrShape, "G %dx%d, g %d", r, c, m.Rhs.Len())
	}
	return nil
}
