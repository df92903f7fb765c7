// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

// Package config loads the totem host configuration with the standard
// precedence: environment variables (prefix TOTEM_) over an optional
// YAML file over built-in defaults.
package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	totemerr "github.com/totem-dev/totem/pkg/errors"
)

// Config is the top-level totem configuration.
type Config struct {
	Detector DetectorConfig `mapstructure:"detector"`
	Plugins  PluginsConfig  `mapstructure:"plugins"`
	Log      LogConfig      `mapstructure:"log"`
}

// DetectorConfig tunes the intent detector.
type DetectorConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// PluginsConfig controls where declarative plugin manifests are found
// and which capabilities are disabled by name.
type PluginsConfig struct {
	Dir      string   `mapstructure:"dir"`
	Disabled []string `mapstructure:"disabled"`
}

// LogConfig controls logging verbosity.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from path (optional) with environment
// variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("TOTEM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, totemerr.Errorf(totemerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, totemerr.Errorf(totemerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, totemerr.Join(totemerr.CodeConfigValidateInvalidValue, errs...)
	}

	return &cfg, nil
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("detector.threshold", 0.6)
	v.SetDefault("plugins.dir", "")
	v.SetDefault("log.level", "info")
}

// Validate checks the configuration for logical errors, collecting all
// issues rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	if c.Detector.Threshold < 0 || c.Detector.Threshold > 1 {
		errs = append(errs, totemerr.Errorf(totemerr.CodeConfigValidateInvalidValue,
			"config: detector.threshold must be between 0 and 1, got %v", c.Detector.Threshold))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	for _, name := range c.Plugins.Disabled {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, totemerr.Errorf(totemerr.CodeConfigValidateInvalidValue,
				"config: plugins.disabled must not contain empty names"))
		}
	}

	return errs
}

// SlogLevel maps log.level to its slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, totemerr.Errorf(totemerr.CodeConfigValidateInvalidValue,
			"config: log.level must be one of [debug, info, warn, error], got %q", c.Log.Level)
	}
}

// Disabled reports whether the named capability is disabled.
func (c *Config) Disabled(name string) bool {
	for _, n := range c.Plugins.Disabled {
		if n == name {
			return true
		}
	}
	return false
}
