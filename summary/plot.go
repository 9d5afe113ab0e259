// SPDX-License-Identifier: MIT

package summary

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/spatialreg/mllag"
)

// Profile plot size.
const (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 5 * vg.Inch
)

// SaveProfilePlot draws the concentrated log-likelihood over ρ with a dashed
// marker at the estimate rho, and saves it to path. The image format follows
// the path extension (.png, .svg, .pdf). Non-finite points are skipped.
//
// Errors: ErrNoPoints, and plot errors wrapped with the path.
func SaveProfilePlot(path string, points []mllag.ProfilePoint, rho float64) error {
	xys := make(plotter.XYs, 0, len(points))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pt := range points {
		if math.IsNaN(pt.LogLik) || math.IsInf(pt.LogLik, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: pt.Rho, Y: pt.LogLik})
		lo, hi = math.Min(lo, pt.LogLik), math.Max(hi, pt.LogLik)
	}
	if len(xys) < 2 {
		return errors.Wrapf(ErrNoPoints, "%d of %d", len(xys), len(points))
	}

	p := plot.New()
	p.Title.Text = "Concentrated log-likelihood"
	p.X.Label.Text = "rho"
	p.Y.Label.Text = "log L"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return errors.Wrap(err, "summary: profile line")
	}
	line.Width = vg.Points(1.5)
	p.Add(line)

	if !math.IsNaN(rho) && !math.IsInf(rho, 0) {
		marker, err := plotter.NewLine(plotter.XYs{{X: rho, Y: lo}, {X: rho, Y: hi}})
		if err != nil {
			return errors.Wrap(err, "summary: estimate marker")
		}
		marker.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(marker)
		p.Legend.Add("profile", line)
		p.Legend.Add("estimate", marker)
	}

	if err := p.Save(PlotWidth, PlotHeight, path); err != nil {
		return errors.Wrapf(err, "summary: save %s", path)
	}
	return nil
}
