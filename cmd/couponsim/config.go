package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/viper"

	"github.com/alexshd/couponbench"
	"github.com/alexshd/couponbench/internal/output"
)

// cliConfig is the effective configuration: library settings plus the
// CLI's own presentation knobs.
type cliConfig struct {
	couponbench.Config `mapstructure:",squash" yaml:",inline"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	Format   string `mapstructure:"format" yaml:"format"`
}

// newViper returns a viper instance with defaults and COUPONSIM_* env support.
func newViper() *viper.Viper {
	v := viper.New()

	def := couponbench.DefaultConfig()
	v.SetDefault("n", def.N)
	v.SetDefault("policy", string(def.Policy))
	v.SetDefault("arrivals", def.Arrivals)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("repetitions", def.Repetitions)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("window", def.Window)
	v.SetDefault("tolerance", def.Tolerance)
	v.SetDefault("log_level", "info")
	v.SetDefault("format", "text")

	v.SetEnvPrefix("couponsim")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// readConfigFile loads cfgFile, or $HOME/.couponsim.yaml when cfgFile is
// empty. A missing default file is not an error.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return ewrap.Wrapf(err, "read config %s", cfgFile)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	v.AddConfigPath(home)
	v.SetConfigName(".couponsim")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return ewrap.Wrapf(err, "read config %s", filepath.Join(home, ".couponsim.yaml"))
	}
	return nil
}

// loadConfig decodes and validates the effective configuration.
func loadConfig(v *viper.Viper) (cliConfig, error) {
	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cliConfig{}, ewrap.Wrap(err, "decode config")
	}

	policy, err := couponbench.ParsePolicy(string(cfg.Policy))
	if err != nil {
		return cliConfig{}, err
	}
	cfg.Policy = policy

	if err := cfg.Validate(); err != nil {
		return cliConfig{}, err
	}
	if !output.IsKnown(cfg.Format) {
		_, err := output.New(cfg.Format)
		return cliConfig{}, err
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, ewrap.Wrapf(couponbench.ErrInvalidConfig, "log_level=%q", s)
	}
	return level, nil
}
