// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/spatialreg/table"
	"github.com/katalvlaran/spatialreg/weights"
)

// nameConstant labels the column added by --constant.
const nameConstant = "CONSTANT"

// readTable decodes path by extension: .dta (Stata), .sas7bdat (SAS),
// anything else as CSV.
func readTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "spreg: open data")
	}
	defer f.Close()

	var tb *table.Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dta":
		tb, err = table.ReadStata(f)
	case ".sas7bdat":
		tb, err = table.ReadSAS(f)
	default:
		tb, err = table.ReadCSV(f)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "spreg: %s", path)
	}
	return tb, nil
}

// loadWeights reads the GAL file or builds the lattice named by cfg and
// checks it against the n data rows.
func loadWeights(cfg *Config, n int, log *zap.Logger) (*weights.W, error) {
	if cfg.Weights == "" && cfg.Lattice == "" {
		return nil, errors.WithHint(
			errors.Wrap(ErrConfig, "one of weights and lattice is required"),
			"pass --weights file.gal or --lattice ROWSxCOLS")
	}
	opt := weights.WithTransform(weights.Transform(cfg.Transform))

	var (
		w   *weights.W
		err error
	)
	if cfg.Lattice != "" {
		rows, cols, perr := parseLattice(cfg.Lattice)
		if perr != nil {
			return nil, perr
		}
		c, cerr := weights.ParseContiguity(cfg.Contiguity)
		if cerr != nil {
			return nil, cerr
		}
		w, err = weights.Lattice(rows, cols, c, opt)
	} else {
		f, oerr := os.Open(cfg.Weights)
		if oerr != nil {
			return nil, errors.Wrap(oerr, "spreg: open weights")
		}
		defer f.Close()
		w, err = weights.ReadGAL(f, opt)
	}
	if err != nil {
		return nil, errors.Wrap(err, "spreg: weights")
	}
	if w.N() != n {
		return nil, errors.WithHint(
			errors.Wrapf(ErrConfig, "weights have %d units, data has %d rows", w.N(), n),
			"data rows must follow the unit order of the weights")
	}
	log.Info("weights ready",
		zap.Int("units", w.N()),
		zap.String("transform", string(w.Transform())),
		zap.Int("nonzero", w.Sparse().NNZ()),
		zap.Int("islands", len(w.Islands())),
		zap.Int("components", len(w.Components())))

	return w, nil
}
