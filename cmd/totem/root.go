// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root totem command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "totem",
		Short:         "Totem — capability routing for assistant input",
		Long:          "Totem decides whether free-text input should run a capability plugin or fall through to the language model.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().Float64("threshold", 0, "override the detection threshold (0..1)")

	root.AddCommand(
		newDetectCmd(),
		newPluginsCmd(),
		newVersionCmd(),
	)

	return root
}
