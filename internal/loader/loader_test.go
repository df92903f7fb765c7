// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package loader_test

import (
	"context"
	"testing"

	"github.com/totem-dev/totem/internal/loader"
	"github.com/totem-dev/totem/internal/registry"
	totemerr "github.com/totem-dev/totem/pkg/errors"
	"github.com/totem-dev/totem/pkg/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoRun(_ context.Context, input string) (plugin.Result, error) {
	return plugin.Result{Output: input}, nil
}

func validPlugin(name string) *plugin.Plugin {
	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			Name:        name,
			Description: name + " capability",
			Version:     "1.0.0",
			Category:    plugin.CategoryUtility,
		},
		Run: echoRun,
	}
}

func staticSource(name string, p *plugin.Plugin) loader.Source {
	return loader.Source{
		Name: name,
		New: func(_ context.Context) (*plugin.Plugin, error) {
			return p, nil
		},
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidate_OK(t *testing.T) {
	l := loader.New(registry.New(nil), nil, nil)

	assert.NoError(t, l.Validate(validPlugin("notes")))
}

func TestValidate_EmptyVocabularyIsLegal(t *testing.T) {
	l := loader.New(registry.New(nil), nil, nil)

	p := validPlugin("quiet")
	p.Manifest.Keywords = nil
	p.Manifest.TriggerWords = []string{}
	assert.NoError(t, l.Validate(p))
}

func TestValidate_RuleOrder(t *testing.T) {
	l := loader.New(registry.New(nil), nil, nil)

	tests := []struct {
		name     string
		mutate   func(*plugin.Plugin)
		wantRule string
		wantCode totemerr.Code
	}{
		{
			name:     "missing run",
			mutate:   func(p *plugin.Plugin) { p.Run = nil },
			wantRule: "run",
			wantCode: totemerr.CodePluginValidateInvalid,
		},
		{
			name:     "empty name",
			mutate:   func(p *plugin.Plugin) { p.Manifest.Name = "  " },
			wantRule: "name",
			wantCode: totemerr.CodePluginValidateInvalid,
		},
		{
			name:     "empty description",
			mutate:   func(p *plugin.Plugin) { p.Manifest.Description = "" },
			wantRule: "description",
			wantCode: totemerr.CodePluginValidateInvalid,
		},
		{
			name:     "empty version",
			mutate:   func(p *plugin.Plugin) { p.Manifest.Version = "" },
			wantRule: "version",
			wantCode: totemerr.CodePluginValidateInvalid,
		},
		{
			name:     "unknown category",
			mutate:   func(p *plugin.Plugin) { p.Manifest.Category = "quantum" },
			wantRule: "category",
			wantCode: totemerr.CodePluginCategoryInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlugin("subject")
			tc.mutate(p)

			err := l.Validate(p)
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, totemerr.CodeOf(err))
			assert.Equal(t, tc.wantRule, totemerr.FieldsOf(err)["rule"])
		})
	}
}

func TestValidate_NilPlugin(t *testing.T) {
	l := loader.New(registry.New(nil), nil, nil)

	err := l.Validate(nil)
	require.Error(t, err)
	assert.Equal(t, "plugin", totemerr.FieldsOf(err)["rule"])
}

func TestValidate_RunCheckedBeforeName(t *testing.T) {
	// Rule order is fixed: a plugin missing both run and name reports run.
	l := loader.New(registry.New(nil), nil, nil)

	err := l.Validate(&plugin.Plugin{})
	require.Error(t, err)
	assert.Equal(t, "run", totemerr.FieldsOf(err)["rule"])
}

// ---------------------------------------------------------------------------
// LoadAll / Reload
// ---------------------------------------------------------------------------

func TestLoadAll_RegistersValidPlugins(t *testing.T) {
	reg := registry.New(nil)
	l := loader.New(reg, []loader.Source{
		staticSource("notes", validPlugin("notes")),
		staticSource("tasks", validPlugin("tasks")),
	}, nil)

	loaded := l.LoadAll(context.Background())
	require.Len(t, loaded, 2)
	assert.Equal(t, 2, reg.Count())
	assert.True(t, l.IsLoaded("notes"))
	assert.True(t, l.IsLoaded("tasks"))
}

func TestLoadAll_SkipsInvalidPluginKeepsRest(t *testing.T) {
	bad := validPlugin("bad")
	bad.Manifest.Category = "quantum"

	reg := registry.New(nil)
	l := loader.New(reg, []loader.Source{
		staticSource("bad", bad),
		staticSource("good", validPlugin("good")),
	}, nil)

	loaded := l.LoadAll(context.Background())
	require.Len(t, loaded, 1)
	assert.Equal(t, "good", loaded[0].Manifest.Name)
	assert.False(t, l.IsLoaded("bad"))
	assert.False(t, reg.Has("bad"))
}

func TestLoadAll_SourceErrorIsIsolated(t *testing.T) {
	broken := loader.Source{
		Name: "broken",
		New: func(_ context.Context) (*plugin.Plugin, error) {
			return nil, totemerr.New(totemerr.CodePluginSourceFailure, "backend missing")
		},
	}

	reg := registry.New(nil)
	l := loader.New(reg, []loader.Source{
		broken,
		staticSource("good", validPlugin("good")),
	}, nil)

	loaded := l.LoadAll(context.Background())
	require.Len(t, loaded, 1)
	assert.Equal(t, "good", loaded[0].Manifest.Name)
}

func TestLoadAll_SourcePanicIsIsolated(t *testing.T) {
	panicky := loader.Source{
		Name: "panicky",
		New: func(_ context.Context) (*plugin.Plugin, error) {
			panic("boom")
		},
	}

	reg := registry.New(nil)
	l := loader.New(reg, []loader.Source{
		panicky,
		staticSource("good", validPlugin("good")),
	}, nil)

	loaded := l.LoadAll(context.Background())
	require.Len(t, loaded, 1)
	assert.Equal(t, 1, reg.Count())
}

func TestLoadAll_NoSourcesYieldsEmpty(t *testing.T) {
	l := loader.New(registry.New(nil), nil, nil)

	assert.Empty(t, l.LoadAll(context.Background()))
	assert.Empty(t, l.Loaded())
}

func TestLoaded_ReturnsLoadOrder(t *testing.T) {
	l := loader.New(registry.New(nil), []loader.Source{
		staticSource("zeta", validPlugin("zeta")),
		staticSource("alpha", validPlugin("alpha")),
	}, nil)

	l.LoadAll(context.Background())

	loaded := l.Loaded()
	require.Len(t, loaded, 2)
	assert.Equal(t, "zeta", loaded[0].Manifest.Name)
	assert.Equal(t, "alpha", loaded[1].Manifest.Name)
}

func TestLoaderBookkeepingIsSeparateFromRegistry(t *testing.T) {
	reg := registry.New(nil)
	l := loader.New(reg, []loader.Source{
		staticSource("notes", validPlugin("notes")),
	}, nil)

	l.LoadAll(context.Background())

	// The host mutates the registry behind the loader's back; the
	// loader keeps reporting what it loaded.
	reg.Unregister("notes")
	assert.False(t, reg.Has("notes"))
	assert.True(t, l.IsLoaded("notes"))
}

func TestReload_ClearsAndRepopulates(t *testing.T) {
	reg := registry.New(nil)
	l := loader.New(reg, []loader.Source{
		staticSource("notes", validPlugin("notes")),
	}, nil)

	l.LoadAll(context.Background())

	// Something else registered a plugin directly; reload drops it.
	require.NoError(t, reg.Register(validPlugin("stray")))
	require.Equal(t, 2, reg.Count())

	loaded := l.Reload(context.Background())
	require.Len(t, loaded, 1)
	assert.Equal(t, 1, reg.Count())
	assert.True(t, reg.Has("notes"))
	assert.False(t, reg.Has("stray"))
	assert.False(t, l.IsLoaded("stray"))
}
