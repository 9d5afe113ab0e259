// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/spatialreg/kkp"
	"github.com/katalvlaran/spatialreg/ols"
	"github.com/katalvlaran/spatialreg/optim"
	"github.com/katalvlaran/spatialreg/panel"
	"github.com/katalvlaran/spatialreg/summary"
)

func newKKPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kkp",
		Short: "Spatial random-effects panel model (KKP GMM)",
		Long: `kkp reads one row per unit with every period in its own column.
--y lists the T columns of the dependent variable; --x lists the T columns of
each regressor in turn (RD70,RD80,RD90,PS70,PS80,PS90).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runKKP(cmd)
		},
	}
	addInputFlags(cmd)
	f := cmd.Flags()
	f.Bool("full-weights", false, "weight the second GMM pass with Tau instead of the identity")
	f.Bool("hard-bound", false, "fail when |lambda| reaches 0.99")
	f.String("solver", "neldermead", "GMM solver: neldermead or bfgs")
	return cmd
}

func (a *app) runKKP(cmd *cobra.Command) error {
	cfg := a.cfg
	tb, err := readTable(cfg.Data)
	if err != nil {
		return err
	}
	y, err := tb.Columns(cfg.Y...)
	if err != nil {
		return err
	}
	x, err := tb.Columns(cfg.X...)
	if err != nil {
		return err
	}
	n := tb.Len()
	w, err := loadWeights(cfg, n, a.log)
	if err != nil {
		return err
	}

	d, err := panel.New(y, x, n, cfg.Y, cfg.X, panel.WithLogger(a.log))
	if err != nil {
		return err
	}
	if cfg.Constant {
		d.X = ols.AddConstant(d.X)
		d.NameX = append([]string{nameConstant}, d.NameX...)
	}

	solver, err := parseSolver(cfg.Solver)
	if err != nil {
		return err
	}
	res, err := kkp.Estimate(cmd.Context(), d, w,
		kkp.WithFullWeights(cfg.FullWeights),
		kkp.WithHardBound(cfg.HardBound),
		kkp.WithSolver(solver),
		kkp.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	a.log.Info("kkp estimated",
		zap.Float64("lambda", res.Lambda),
		zap.Float64("theta", res.Theta),
		zap.Int("evaluations", res.Pass1.Evaluations+res.Pass2.Evaluations))

	report, err := summary.KKP(res)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), report)
	return err
}

func parseSolver(name string) (optim.Solver, error) {
	switch name {
	case "neldermead":
		return optim.NelderMead{}, nil
	case "bfgs":
		return optim.BFGS{}, nil
	default:
		return nil, errors.Wrapf(ErrConfig, "solver %q", name)
	}
}
