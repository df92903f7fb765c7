// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

// Package plugin provides the public types for capability authors.
// A capability exposes exactly one Plugin value: a declarative Manifest
// plus a Run entry point. The routing core validates the manifest and
// checks that Run is present; it never inspects what Run does.
package plugin

import "context"

// Category classifies a capability. The set is closed; manifests carrying
// any other value are rejected at load time.
type Category string

const (
	CategoryProductivity Category = "productivity"
	CategoryUtility      Category = "utility"
	CategorySystem       Category = "system"
	CategoryFile         Category = "file"
	CategoryOther        Category = "other"
)

// validCategories enumerates recognized capability categories.
var validCategories = map[Category]bool{
	CategoryProductivity: true,
	CategoryUtility:      true,
	CategorySystem:       true,
	CategoryFile:         true,
	CategoryOther:        true,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	return validCategories[c]
}

// Categories returns the closed category set in declaration order.
func Categories() []Category {
	return []Category{
		CategoryProductivity,
		CategoryUtility,
		CategorySystem,
		CategoryFile,
		CategoryOther,
	}
}

// Manifest describes a capability's identity and trigger vocabulary.
// This is either declared in Go by a builtin capability or loaded from
// plugin.yaml in the capability's directory. Manifests are immutable for
// the process lifetime once registered.
type Manifest struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Version      string   `yaml:"version"`
	Keywords     []string `yaml:"keywords"`
	TriggerWords []string `yaml:"trigger_words"`
	Category     Category `yaml:"category"`

	// Permissions are declarative only; the routing core carries them
	// through to the host's authorization layer without enforcement.
	Permissions []string `yaml:"permissions,omitempty"`
}

// Result is what a capability hands back to the host after running.
type Result struct {
	Output string
	Data   map[string]any
}

// RunFunc is a capability's entry point. The input is the residual text
// left after the detector strips matched routing vocabulary.
type RunFunc func(ctx context.Context, input string) (Result, error)

// Plugin pairs a manifest with its entry point.
type Plugin struct {
	Manifest Manifest
	Run      RunFunc
}
