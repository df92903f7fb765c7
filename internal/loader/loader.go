// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

// Package loader populates the registry from a statically known set of
// capability sources, rejecting anything that does not satisfy the plugin
// contract. Validation lives entirely here; the registry stores what the
// loader has already vetted.
package loader

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/totem-dev/totem/internal/registry"
	totemerr "github.com/totem-dev/totem/pkg/errors"
	"github.com/totem-dev/totem/pkg/plugin"
)

// Source is a named factory for one capability plugin. The host assembles
// the full source list before the loader runs, so the set of capabilities
// is explicit rather than resolved dynamically at load time.
type Source struct {
	Name string
	New  func(ctx context.Context) (*plugin.Plugin, error)
}

// Loader converts capability sources into validated, registered plugins.
// It keeps its own record of what it loaded, distinct from current
// registry contents, since the host may mutate the registry directly.
type Loader struct {
	reg     *registry.Registry
	sources []Source
	log     *slog.Logger

	mu          sync.RWMutex
	loaded      map[string]*plugin.Plugin
	loadedOrder []string
}

// New creates a Loader over the given registry and source list. log may
// be nil, in which case slog.Default() is used.
func New(reg *registry.Registry, sources []Source, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		reg:     reg,
		sources: sources,
		log:     log,
		loaded:  make(map[string]*plugin.Plugin),
	}
}

// Validate checks the plugin contract in a fixed order, stopping at the
// first violation. A nil return means the plugin is safe to register.
//
// Manifest presence and the sequence-ness of the keyword and trigger
// lists are guaranteed by the type system here; the enforceable rules are
// the nil check, the Run entry point, the non-empty identity fields, and
// the closed category set. Empty keyword and trigger lists are legal (the
// plugin simply never matches).
func (l *Loader) Validate(p *plugin.Plugin) error {
	if p == nil {
		return totemerr.New(totemerr.CodePluginValidateInvalid,
			"validate: plugin is nil", totemerr.FieldRule("plugin"))
	}
	if p.Run == nil {
		return totemerr.New(totemerr.CodePluginValidateInvalid,
			"validate: plugin has no run entry point",
			totemerr.FieldPlugin(p.Manifest.Name), totemerr.FieldRule("run"))
	}
	if strings.TrimSpace(p.Manifest.Name) == "" {
		return totemerr.New(totemerr.CodePluginValidateInvalid,
			"validate: manifest name must not be empty", totemerr.FieldRule("name"))
	}
	if strings.TrimSpace(p.Manifest.Description) == "" {
		return totemerr.New(totemerr.CodePluginValidateInvalid,
			"validate: manifest description must not be empty",
			totemerr.FieldPlugin(p.Manifest.Name), totemerr.FieldRule("description"))
	}
	if strings.TrimSpace(p.Manifest.Version) == "" {
		return totemerr.New(totemerr.CodePluginValidateInvalid,
			"validate: manifest version must not be empty",
			totemerr.FieldPlugin(p.Manifest.Name), totemerr.FieldRule("version"))
	}
	if !p.Manifest.Category.Valid() {
		return totemerr.New(totemerr.CodePluginCategoryInvalid,
			"validate: category must be one of [productivity, utility, system, file, other], got \""+
				string(p.Manifest.Category)+"\"",
			totemerr.FieldPlugin(p.Manifest.Name), totemerr.FieldRule("category"))
	}
	return nil
}

// LoadAll runs every source, validates each produced plugin, and
// registers the ones that pass. Failures are isolated per source: a
// source that errors or panics is skipped with a logged reason and the
// remaining sources still load. LoadAll never fails as a whole; the
// worst outcome is an empty result.
func (l *Loader) LoadAll(ctx context.Context) []*plugin.Plugin {
	batch := uuid.NewString()
	log := l.log.With("load_id", batch)

	var registered []*plugin.Plugin
	for _, src := range l.sources {
		p, err := acquire(ctx, src)
		if err != nil {
			log.Warn("skipping plugin source", "source", src.Name, "error", err)
			continue
		}

		if err := l.Validate(p); err != nil {
			log.Warn("skipping invalid plugin", "source", src.Name, "error", err)
			continue
		}

		if err := l.reg.Register(p); err != nil {
			log.Warn("skipping unregistrable plugin", "source", src.Name, "error", err)
			continue
		}

		l.markLoaded(p)
		registered = append(registered, p)
		log.Debug("loaded plugin",
			"plugin", p.Manifest.Name,
			"version", p.Manifest.Version,
			"category", string(p.Manifest.Category))
	}

	log.Info("plugin load complete", "loaded", len(registered), "sources", len(l.sources))
	return registered
}

// Reload clears the registry and the loader's bookkeeping, then runs a
// fresh LoadAll.
func (l *Loader) Reload(ctx context.Context) []*plugin.Plugin {
	l.reg.Clear()

	l.mu.Lock()
	l.loaded = make(map[string]*plugin.Plugin)
	l.loadedOrder = nil
	l.mu.Unlock()

	return l.LoadAll(ctx)
}

// IsLoaded reports whether this loader registered name during its most
// recent load. It reflects loader bookkeeping, not current registry
// state.
func (l *Loader) IsLoaded(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.loaded[name]
	return ok
}

// Loaded returns the plugins this loader registered, in load order.
func (l *Loader) Loaded() []*plugin.Plugin {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := make([]*plugin.Plugin, 0, len(l.loadedOrder))
	for _, name := range l.loadedOrder {
		list = append(list, l.loaded[name])
	}
	return list
}

func (l *Loader) markLoaded(p *plugin.Plugin) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := p.Manifest.Name
	if _, exists := l.loaded[name]; !exists {
		l.loadedOrder = append(l.loadedOrder, name)
	}
	l.loaded[name] = p
}

// acquire runs a source factory, converting a panic into a coded error
// so one broken source cannot take down the whole batch.
func acquire(ctx context.Context, src Source) (p *plugin.Plugin, err error) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = totemerr.Errorf(totemerr.CodePluginSourceFailure,
				"source %s panicked: %v", src.Name, r)
		}
	}()

	if src.New == nil {
		return nil, totemerr.New(totemerr.CodePluginSourceFailure,
			"source has no factory", totemerr.FieldSource(src.Name))
	}

	p, err = src.New(ctx)
	if err != nil {
		return nil, totemerr.Wrap(err, totemerr.CodePluginSourceFailure,
			"acquiring plugin source", totemerr.FieldSource(src.Name))
	}
	return p, nil
}
