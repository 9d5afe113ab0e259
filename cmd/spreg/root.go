// SPDX-License-Identifier: MIT

package main

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfg   *Config
	log   *zap.Logger
	runID string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "spreg",
		Short:         "Spatial regression estimators for cross-section and panel data.",
		Long:          `spreg fits the KKP spatial random-effects panel model by GMM, the spatial lag model by maximum likelihood and the non-spatial OLS baseline.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if a.cfg, err = loadConfig(cmd.Flags(), path); err != nil {
				return err
			}
			a.runID = uuid.NewString()
			if a.log, err = newLogger(a.cfg.LogConfig); err != nil {
				return err
			}
			a.log = a.log.With(zap.String("run_id", a.runID), zap.String("command", cmd.Name()))
			a.log.Debug("configuration loaded", zap.Any("config", a.cfg))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to a TOML config file (default ./spreg.toml if present)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Bool("log-json", false, "emit JSON logs instead of console logs")

	root.AddCommand(newKKPCmd(a), newMLLagCmd(a), newOLSCmd(a))
	return root
}

// newLogger builds a production (JSON) or development (console) logger.
func newLogger(c LogConfig) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.Wrapf(ErrConfig, "log level %q", c.Level)
	}
	zc := zap.NewDevelopmentConfig()
	if c.JSON {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "spreg: build logger")
	}
	return l, nil
}

// addInputFlags registers the data and weights flags of the spatial estimators.
func addInputFlags(cmd *cobra.Command) {
	addDataFlags(cmd)
	f := cmd.Flags()
	f.String("weights", "", "GAL file with the spatial weights (rows in data order)")
	f.String("lattice", "", "build rook/queen weights on a ROWSxCOLS grid instead of --weights")
	f.String("contiguity", "rook", "lattice contiguity: rook or queen")
	f.String("transform", "R", "weights transform: R (row-standardised) or B (binary)")
}

// addDataFlags registers the flags every estimator reads its variables with.
func addDataFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("data", "", "data file: CSV with a header row, Stata .dta or SAS .sas7bdat")
	f.StringSlice("y", nil, "dependent variable column(s)")
	f.StringSlice("x", nil, "regressor columns")
	f.Bool("constant", false, "prepend a CONSTANT regressor")
}
