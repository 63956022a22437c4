package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config holds the effective settings after merging defaults, an optional
// config file, KUAIQUCTL_* environment variables and command line flags
// (highest precedence last).
type config struct {
	Baud       int           `mapstructure:"baud"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retries    int           `mapstructure:"retries"`
	MaxVoltage float64       `mapstructure:"max-voltage"`
	MaxCurrent float64       `mapstructure:"max-current"`
	Verbose    bool          `mapstructure:"verbose"`
	Quiet      bool          `mapstructure:"quiet"`
}

func loadConfig(flags *pflag.FlagSet, path string) (*config, error) {
	v := viper.New()

	v.SetDefault("baud", 9600)
	v.SetDefault("timeout", time.Second)
	v.SetDefault("retries", 2)
	v.SetDefault("max-voltage", 60.0)
	v.SetDefault("max-current", 5.0)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("kuaiquctl")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("KUAIQUCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named config file must exist; the implicit
		// kuaiquctl.yaml is optional.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
