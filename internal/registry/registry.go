// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

// Package registry keeps the directory of currently active capability
// plugins. It is trusted storage: manifests are validated upstream by the
// loader, and the registry never invokes plugin code.
package registry

import (
	"log/slog"
	"strings"
	"sync"

	totemerr "github.com/totem-dev/totem/pkg/errors"
	"github.com/totem-dev/totem/pkg/plugin"
)

// Registry maps a unique plugin name to its Plugin, preserving insertion
// order for enumeration. Mutating operations take the write lock so
// concurrent detection reads observe a consistent snapshot.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]*plugin.Plugin
	order   []string
	log     *slog.Logger
}

// New creates an empty Registry. log may be nil, in which case
// slog.Default() is used.
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		plugins: make(map[string]*plugin.Plugin),
		log:     log,
	}
}

// Register adds p under its manifest name. An empty name is rejected.
// Re-registering an existing name replaces the old entry; this is
// overwrite semantics, reported as a warning rather than an error.
func (r *Registry) Register(p *plugin.Plugin) error {
	if p == nil || p.Manifest.Name == "" {
		return totemerr.New(totemerr.CodeRegistryRegisterInvalid,
			"register: plugin must have a non-empty manifest name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Manifest.Name
	if _, exists := r.plugins[name]; exists {
		r.log.Warn("plugin already registered, replacing", "plugin", name)
	} else {
		r.order = append(r.order, name)
	}
	r.plugins[name] = p

	return nil
}

// Unregister removes the named plugin. Removing an unknown name is a
// reported no-op, not an error.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[name]; !exists {
		r.log.Warn("unregister: plugin not found", "plugin", name)
		return
	}

	delete(r.plugins, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (*plugin.Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[name]
	if !ok {
		return nil, totemerr.New(
			totemerr.CodeRegistryNotFound,
			"plugin not found: "+name,
			totemerr.FieldPlugin(name),
		)
	}
	return p, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plugins[name]
	return ok
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plugins)
}

// GetAll returns every registered plugin in insertion order. The returned
// slice is a fresh copy; callers may not mutate registry state through it.
func (r *Registry) GetAll() []*plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*plugin.Plugin, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.plugins[name])
	}
	return list
}

// FindByKeyword returns plugins whose keywords or trigger words contain
// term as a case-insensitive substring, in insertion order.
func (r *Registry) FindByKeyword(term string) []*plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)

	var matches []*plugin.Plugin
	for _, name := range r.order {
		p := r.plugins[name]
		if containsTerm(p.Manifest.Keywords, needle) || containsTerm(p.Manifest.TriggerWords, needle) {
			matches = append(matches, p)
		}
	}
	return matches
}

// GetByCategory returns plugins whose manifest category exactly matches
// cat, in insertion order.
func (r *Registry) GetByCategory(cat plugin.Category) []*plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*plugin.Plugin
	for _, name := range r.order {
		p := r.plugins[name]
		if p.Manifest.Category == cat {
			matches = append(matches, p)
		}
	}
	return matches
}

// Clear drops every entry. Used only ahead of a full reload.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plugins = make(map[string]*plugin.Plugin)
	r.order = nil
}

func containsTerm(terms []string, needle string) bool {
	for _, t := range terms {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
