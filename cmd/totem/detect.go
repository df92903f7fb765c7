// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	totemerr "github.com/totem-dev/totem/pkg/errors"
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [text...]",
		Short: "Route free-text input against the registered capabilities",
		Long: "Scores the input against every registered capability and prints the " +
			"winning plugin with its residual text, or reports fall-through to the " +
			"language model. With --explain, every nonzero-confidence candidate is " +
			"listed so you can see why a capability did or did not trigger.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			if strings.TrimSpace(input) == "" {
				return totemerr.New(totemerr.CodeCLIInputInvalid, "input must not be empty")
			}

			core, err := wireCore(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			explain, _ := cmd.Flags().GetBool("explain")
			if explain {
				matches := core.Detector.PotentialMatches(input)
				if len(matches) == 0 {
					fmt.Fprintln(out, "No capability scored above zero.")
				}
				for _, m := range matches {
					gate := "below threshold"
					if m.ShouldExecute {
						gate = "would trigger"
					}
					fmt.Fprintf(out, "%-12s confidence=%.3f (%s) matched=[%s]\n",
						m.PluginName, m.Confidence, gate, strings.Join(m.MatchedTerms, ", "))
				}
			}

			res := core.Detector.Detect(input)
			if res == nil {
				fmt.Fprintf(out, "No capability triggered (threshold %.2f); input falls through to the language model.\n",
					core.Detector.Threshold())
				return nil
			}

			fmt.Fprintf(out, "Plugin:     %s\n", res.PluginName)
			fmt.Fprintf(out, "Confidence: %.3f\n", res.Confidence)
			fmt.Fprintf(out, "Matched:    %s\n", strings.Join(res.MatchedTerms, ", "))
			fmt.Fprintf(out, "Residual:   %q\n", res.ExtractedInput)

			run, _ := cmd.Flags().GetBool("run")
			if run {
				p, err := core.Registry.Get(res.PluginName)
				if err != nil {
					return err
				}
				result, err := p.Run(cmd.Context(), res.ExtractedInput)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Output:     %s\n", result.Output)
			}

			return nil
		},
	}

	cmd.Flags().Bool("explain", false, "list every nonzero-confidence candidate")
	cmd.Flags().Bool("run", false, "invoke the winning capability with the residual text")

	return cmd
}
