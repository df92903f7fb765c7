// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package plugin

import (
	totemerr "github.com/totem-dev/totem/pkg/errors"

	"gopkg.in/yaml.v3"
)

// ParseManifest parses YAML data into a Manifest. Parsing is syntactic
// only; structural validation (non-empty fields, closed category set)
// is owned by the loader, which gatekeeps everything that reaches the
// registry.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, totemerr.Errorf(totemerr.CodePluginManifestInvalid,
			"manifest parse: %s", err)
	}

	return &m, nil
}
