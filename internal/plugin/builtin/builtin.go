// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

// Package builtin provides the capability sources compiled into the
// host. Handler bodies are deliberately thin acknowledgements; the
// routing core only decides whether and with what residual text a
// capability runs, never what it does with that text.
package builtin

import (
	"context"
	"strings"

	"github.com/totem-dev/totem/internal/loader"
	"github.com/totem-dev/totem/pkg/plugin"
)

// Sources returns the builtin capability sources in a fixed order. The
// host passes these to the loader, optionally filtered by configuration.
//
// Vocabularies are kept small on purpose: confidence is matched weight
// over total vocabulary weight, so every extra term a capability
// declares dilutes all the others.
func Sources() []loader.Source {
	return []loader.Source{
		source("notes", notesPlugin),
		source("tasks", tasksPlugin),
		source("timer", timerPlugin),
	}
}

func source(name string, build func() *plugin.Plugin) loader.Source {
	return loader.Source{
		Name: name,
		New: func(_ context.Context) (*plugin.Plugin, error) {
			return build(), nil
		},
	}
}

func notesPlugin() *plugin.Plugin {
	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			Name:         "notes",
			Description:  "Capture quick free-text notes",
			Version:      "1.0.0",
			Category:     plugin.CategoryProductivity,
			Keywords:     []string{"note"},
			TriggerWords: []string{"take a note", "note down"},
			Permissions:  []string{"storage.append"},
		},
		Run: func(_ context.Context, input string) (plugin.Result, error) {
			text := strings.TrimSpace(input)
			if text == "" {
				return plugin.Result{Output: "Nothing to note down."}, nil
			}
			return plugin.Result{
				Output: "Noted: " + text,
				Data:   map[string]any{"note": text},
			}, nil
		},
	}
}

func tasksPlugin() *plugin.Plugin {
	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			Name:         "tasks",
			Description:  "Add items to the task list",
			Version:      "1.0.0",
			Category:     plugin.CategoryProductivity,
			Keywords:     []string{"todo", "task"},
			TriggerWords: []string{"add task", "remind"},
			Permissions:  []string{"storage.append"},
		},
		Run: func(_ context.Context, input string) (plugin.Result, error) {
			text := strings.TrimSpace(input)
			if text == "" {
				return plugin.Result{Output: "No task given."}, nil
			}
			return plugin.Result{
				Output: "Added task: " + text,
				Data:   map[string]any{"task": text},
			}, nil
		},
	}
}

func timerPlugin() *plugin.Plugin {
	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			Name:         "timer",
			Description:  "Start simple countdown timers",
			Version:      "1.0.0",
			Category:     plugin.CategoryUtility,
			Keywords:     []string{"timer"},
			TriggerWords: []string{"set a timer", "set timer"},
		},
		Run: func(_ context.Context, input string) (plugin.Result, error) {
			text := strings.TrimSpace(input)
			if text == "" {
				return plugin.Result{Output: "How long should the timer run?"}, nil
			}
			return plugin.Result{
				Output: "Timer set: " + text,
				Data:   map[string]any{"request": text},
			}, nil
		},
	}
}
