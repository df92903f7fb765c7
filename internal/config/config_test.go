// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/totem-dev/totem/internal/config"
	totemerr "github.com/totem-dev/totem/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "totem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.InDelta(t, 0.6, cfg.Detector.Threshold, 1e-9)
	assert.Empty(t, cfg.Plugins.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
detector:
  threshold: 0.45
plugins:
  dir: /opt/totem/plugins
  disabled:
    - timer
log:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.45, cfg.Detector.Threshold, 1e-9)
	assert.Equal(t, "/opt/totem/plugins", cfg.Plugins.Dir)
	assert.True(t, cfg.Disabled("timer"))
	assert.False(t, cfg.Disabled("notes"))

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TOTEM_DETECTOR_THRESHOLD", "0.8")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, cfg.Detector.Threshold, 1e-9)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, totemerr.CodeConfigLoadReadFailure, totemerr.CodeOf(err))
}

func TestValidateThresholdRange(t *testing.T) {
	path := writeConfig(t, "detector:\n  threshold: 1.5\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Equal(t, totemerr.CodeConfigValidateInvalidValue, totemerr.CodeOf(err))
	assert.Contains(t, err.Error(), "between 0 and 1")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	path := writeConfig(t, `
detector:
  threshold: -2
plugins:
  disabled:
    - ""
log:
  level: chatty
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "empty names")
}

func TestSlogLevelUnknown(t *testing.T) {
	cfg := &config.Config{Log: config.LogConfig{Level: "chatty"}}

	_, err := cfg.SlogLevel()
	require.Error(t, err)
	assert.True(t, totemerr.IsInvalidInput(err))
}
