// SPDX-License-Identifier: MIT

package main

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/go-playground/validator.v9"

	"github.com/katalvlaran/spatialreg/weights"
)

// Config file lookup.
const (
	configName = "spreg"
	configType = "toml"
	envPrefix  = "SPREG"
)

// ErrConfig indicates an invalid or contradictory configuration.
var ErrConfig = errors.New("spreg: invalid configuration")

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Level string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"log_json"`
}

// Config is the merged flag, file and environment configuration of a run.
type Config struct {
	LogConfig `mapstructure:",squash"`

	Data       string   `mapstructure:"data" validate:"required"`
	Weights    string   `mapstructure:"weights"`
	Lattice    string   `mapstructure:"lattice"`
	Contiguity string   `mapstructure:"contiguity" validate:"oneof=rook queen"`
	Transform  string   `mapstructure:"transform" validate:"oneof=R B"`
	Y          []string `mapstructure:"y" validate:"min=1,dive,required"`
	X          []string `mapstructure:"x" validate:"min=1,dive,required"`
	Constant   bool     `mapstructure:"constant"`

	// kkp
	FullWeights bool   `mapstructure:"full_weights"`
	HardBound   bool   `mapstructure:"hard_bound"`
	Solver      string `mapstructure:"solver" validate:"oneof=neldermead bfgs"`

	// mllag
	Method  string  `mapstructure:"method" validate:"oneof=full ord"`
	Epsilon float64 `mapstructure:"epsilon" validate:"gt=0,lt=0.5"`
	Plot    string  `mapstructure:"plot"`
}

var validate = validator.New()

// loadConfig merges the config file, SPREG_* variables and the flags of fs.
// An explicit path must exist; the default spreg.toml is optional.
func loadConfig(fs *pflag.FlagSet, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	if bindErr != nil {
		return nil, errors.Wrap(bindErr, "spreg: bind flags")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "spreg: read config %s", path)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "spreg: read config")
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "spreg: decode config")
	}
	cfg.Method = strings.ToLower(cfg.Method)
	cfg.Solver = strings.ToLower(cfg.Solver)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("contiguity", weights.Rook.String())
	v.SetDefault("transform", string(weights.DefaultTransform))
	v.SetDefault("solver", "neldermead")
	v.SetDefault("method", "full")
	v.SetDefault("epsilon", 1e-7)
}

// Validate checks struct tags, then the rules that span fields. A missing
// weights source is reported by the spatial commands, since ols needs none.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Wrapf(ErrConfig, "%s fails %q (value %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Value())
		}
		return errors.Wrap(ErrConfig, err.Error())
	}
	if c.Weights != "" && c.Lattice != "" {
		return errors.WithHint(
			errors.Wrap(ErrConfig, "weights and lattice are mutually exclusive"),
			"pass either --weights file.gal or --lattice ROWSxCOLS")
	}
	if c.Lattice != "" {
		if _, _, err := parseLattice(c.Lattice); err != nil {
			return err
		}
	}
	return nil
}

// parseLattice reads "ROWSxCOLS", e.g. "10x20".
func parseLattice(s string) (rows, cols int, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, errors.Wrapf(ErrConfig, "lattice %q: want ROWSxCOLS", s)
	}
	rows, err1 := strconv.Atoi(parts[0])
	cols, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || rows < 1 || cols < 1 {
		return 0, 0, errors.Wrapf(ErrConfig, "lattice %q: want positive ROWSxCOLS", s)
	}
	return rows, cols, nil
}
