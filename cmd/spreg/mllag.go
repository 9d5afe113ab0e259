// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/spatialreg/mllag"
	"github.com/katalvlaran/spatialreg/ols"
	"github.com/katalvlaran/spatialreg/summary"
)

// profileSteps is the number of grid intervals of the --plot profile.
const profileSteps = 200

func newMLLagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mllag",
		Short: "Spatial lag model by maximum likelihood",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMLLag(cmd)
		},
	}
	addInputFlags(cmd)
	f := cmd.Flags()
	f.String("method", "full", "log-determinant method: full or ord")
	f.Float64("epsilon", 1e-7, "distance of the rho search interval from ±1")
	f.String("plot", "", "save the concentrated likelihood profile to this image (.png, .svg, .pdf)")
	return cmd
}

func (a *app) runMLLag(cmd *cobra.Command) error {
	cfg := a.cfg
	if len(cfg.Y) != 1 {
		return errors.Wrapf(ErrConfig, "mllag takes one y column, got %d", len(cfg.Y))
	}
	method, err := mllag.ParseMethod(cfg.Method)
	if err != nil {
		return err
	}
	tb, err := readTable(cfg.Data)
	if err != nil {
		return err
	}
	y, err := tb.Column(cfg.Y[0])
	if err != nil {
		return err
	}
	x, err := tb.Columns(cfg.X...)
	if err != nil {
		return err
	}
	names := append([]string(nil), cfg.X...)
	if cfg.Constant {
		x = ols.AddConstant(x)
		names = append([]string{nameConstant}, names...)
	}
	w, err := loadWeights(cfg, tb.Len(), a.log)
	if err != nil {
		return err
	}

	opts := []mllag.Option{
		mllag.WithMethod(method),
		mllag.WithEpsilon(cfg.Epsilon),
		mllag.WithNames(cfg.Y[0], names),
		mllag.WithLogger(a.log),
	}
	res, err := mllag.Estimate(cmd.Context(), y, x, w, opts...)
	if err != nil {
		return err
	}
	a.log.Info("mllag estimated",
		zap.Float64("rho", res.Rho),
		zap.Float64("loglik", res.LogLik),
		zap.Int("evaluations", res.Evaluations))

	report, err := summary.MLLag(res)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if cfg.Plot != "" {
		grid := mllag.Grid(-1+cfg.Epsilon, 1-cfg.Epsilon, profileSteps)
		pts, err := mllag.Profile(y, x, w, grid, opts...)
		if err != nil {
			return err
		}
		if err := summary.SaveProfilePlot(cfg.Plot, pts, res.Rho); err != nil {
			return err
		}
		a.log.Info("profile saved", zap.String("path", cfg.Plot))
	}
	return nil
}
