// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/spatialreg/ols"
	"github.com/katalvlaran/spatialreg/summary"
)

func newOLSCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ols",
		Short: "Non-spatial least squares baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runOLS(cmd)
		},
	}
	addDataFlags(cmd)
	return cmd
}

func (a *app) runOLS(cmd *cobra.Command) error {
	cfg := a.cfg
	if len(cfg.Y) != 1 {
		return errors.Wrapf(ErrConfig, "ols takes one y column, got %d", len(cfg.Y))
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

	res, err := ols.Fit(y, x)
	if err != nil {
		return err
	}
	a.log.Info("ols estimated", zap.Int("observations", res.N), zap.Float64("sigma2", res.Sig2))

	report, err := summary.OLS(res, cfg.Y[0], names)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), report)
	return err
}
