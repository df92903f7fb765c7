// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package loader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	totemerr "github.com/totem-dev/totem/pkg/errors"
	"github.com/totem-dev/totem/pkg/plugin"
)

// HandlerResolver returns the entry point for a named manifest, or
// false when the host has none for it.
type HandlerResolver func(name string) (plugin.RunFunc, bool)

// MapHandlers adapts a name-keyed handler map into a HandlerResolver.
func MapHandlers(m map[string]plugin.RunFunc) HandlerResolver {
	return func(name string) (plugin.RunFunc, bool) {
		run, ok := m[name]
		return run, ok
	}
}

// DirSources scans dir for subdirectories containing a plugin.yaml
// manifest and returns one Source per manifest found. Each manifest is
// bound to the handler resolve yields for its name; a manifest the host
// has no handler for fails at acquire time and is skipped by LoadAll
// like any other broken source.
//
// A missing or unreadable directory yields no sources rather than an
// error, so a host without declarative plugins still starts cleanly.
func DirSources(dir string, resolve HandlerResolver, log *slog.Logger) []Source {
	if log == nil {
		log = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("cannot read plugins directory", "path", dir, "error", err)
		}
		return nil
	}

	var sources []Source
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifestPath := filepath.Join(dir, entry.Name(), "plugin.yaml")
		if _, err := os.Stat(manifestPath); err != nil {
			continue // no manifest in this subdirectory
		}

		sources = append(sources, Source{
			Name: entry.Name(),
			New:  manifestFactory(manifestPath, resolve),
		})
	}

	return sources
}

// manifestFactory builds a Source factory that parses the manifest file
// and binds it to its handler. Parsing happens at load time, not scan
// time, so a manifest edited between scan and load is picked up and a
// malformed one is reported against the load batch that saw it.
func manifestFactory(path string, resolve HandlerResolver) func(context.Context) (*plugin.Plugin, error) {
	return func(_ context.Context) (*plugin.Plugin, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, totemerr.Wrapf(err, totemerr.CodePluginSourceFailure,
				"reading manifest %s", path)
		}

		m, err := plugin.ParseManifest(data)
		if err != nil {
			return nil, err
		}

		var run plugin.RunFunc
		ok := false
		if resolve != nil {
			run, ok = resolve(m.Name)
		}
		if !ok {
			return nil, totemerr.New(totemerr.CodePluginHandlerNotFound,
				"no handler registered for manifest",
				totemerr.FieldPlugin(m.Name))
		}

		return &plugin.Plugin{Manifest: *m, Run: run}, nil
	}
}
