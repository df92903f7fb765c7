// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/totem-dev/totem/internal/config"
	"github.com/totem-dev/totem/internal/detect"
	"github.com/totem-dev/totem/internal/loader"
	"github.com/totem-dev/totem/internal/plugin/builtin"
	"github.com/totem-dev/totem/internal/registry"
	totemerr "github.com/totem-dev/totem/pkg/errors"
	"github.com/totem-dev/totem/pkg/plugin"
)

// Core holds the wired routing subsystems for one command invocation.
type Core struct {
	Config   *config.Config
	Registry *registry.Registry
	Loader   *loader.Loader
	Detector *detect.Detector
}

// wireCore loads configuration, assembles registry, loader, and
// detector, and performs the initial plugin load. Sources are the
// builtins (minus disabled ones) plus any manifests found under the
// configured plugins directory.
func wireCore(ctx context.Context, cmd *cobra.Command) (*Core, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	var sources []loader.Source
	for _, src := range builtin.Sources() {
		if cfg.Disabled(src.Name) {
			log.Debug("builtin capability disabled", "source", src.Name)
			continue
		}
		sources = append(sources, src)
	}
	if cfg.Plugins.Dir != "" {
		// The CLI has no real handlers for declarative manifests; a
		// stub responder keeps them registrable so list, inspect, and
		// detect still work against their vocabulary.
		sources = append(sources, loader.DirSources(cfg.Plugins.Dir, stubHandler, log)...)
	}

	reg := registry.New(log)
	l := loader.New(reg, sources, log)
	l.LoadAll(ctx)

	d := detect.New(reg, log)
	d.SetThreshold(cfg.Detector.Threshold)

	if cmd.Flags().Changed("threshold") {
		override, _ := cmd.Flags().GetFloat64("threshold")
		if override < 0 || override > 1 {
			return nil, totemerr.Errorf(totemerr.CodeCLIInputInvalid,
				"threshold must be between 0 and 1, got %v", override)
		}
		d.SetThreshold(override)
	}

	return &Core{Config: cfg, Registry: reg, Loader: l, Detector: d}, nil
}

// stubHandler binds any declarative manifest to a responder that names
// the capability without doing its work.
func stubHandler(name string) (plugin.RunFunc, bool) {
	return func(_ context.Context, input string) (plugin.Result, error) {
		return plugin.Result{
			Output: fmt.Sprintf("capability %q matched with input: %s", name, input),
		}, nil
	}, true
}
