// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/totem-dev/totem/pkg/plugin"
)

func newPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect the registered capability plugins",
	}

	cmd.AddCommand(
		newPluginsListCmd(),
		newPluginsInspectCmd(),
		newPluginsReloadCmd(),
	)

	return cmd
}

func newPluginsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered capabilities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := wireCore(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			category, _ := cmd.Flags().GetString("category")
			keyword, _ := cmd.Flags().GetString("keyword")

			var plugins []*plugin.Plugin
			switch {
			case category != "":
				plugins = core.Registry.GetByCategory(plugin.Category(category))
			case keyword != "":
				plugins = core.Registry.FindByKeyword(keyword)
			default:
				plugins = core.Registry.GetAll()
			}

			if len(plugins) == 0 {
				fmt.Fprintln(out, "No capabilities registered.")
				return nil
			}

			for _, p := range plugins {
				fmt.Fprintf(out, "%-12s %-8s %-14s %s\n",
					p.Manifest.Name, p.Manifest.Version, p.Manifest.Category, p.Manifest.Description)
			}
			return nil
		},
	}

	cmd.Flags().String("category", "", "filter by category (productivity, utility, system, file, other)")
	cmd.Flags().String("keyword", "", "filter by keyword or trigger word substring")

	return cmd
}

func newPluginsReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Clear the registry and reload every capability source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := wireCore(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			loaded := core.Loader.Reload(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reloaded %d capabilities\n", len(loaded))
			for _, p := range loaded {
				fmt.Fprintf(out, "  %-12s %s\n", p.Manifest.Name, p.Manifest.Version)
			}
			return nil
		},
	}
}

func newPluginsInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [name]",
		Short: "Show a capability's manifest and trigger vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := wireCore(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			p, err := core.Registry.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			m := p.Manifest
			fmt.Fprintf(out, "Name:         %s\n", m.Name)
			fmt.Fprintf(out, "Description:  %s\n", m.Description)
			fmt.Fprintf(out, "Version:      %s\n", m.Version)
			fmt.Fprintf(out, "Category:     %s\n", m.Category)
			fmt.Fprintf(out, "Keywords:     %s\n", strings.Join(m.Keywords, ", "))
			fmt.Fprintf(out, "Triggers:     %s\n", strings.Join(m.TriggerWords, ", "))
			if len(m.Permissions) > 0 {
				fmt.Fprintf(out, "Permissions:  %s\n", strings.Join(m.Permissions, ", "))
			}
			fmt.Fprintf(out, "Loaded here:  %v\n", core.Loader.IsLoaded(m.Name))
			return nil
		},
	}
}
