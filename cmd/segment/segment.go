// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package segment

import (
	"fmt"
	"io"

	"github.com/OpenPSG/eegseg/internal/config"
	"github.com/OpenPSG/eegseg/internal/processor"
	"github.com/OpenPSG/eegseg/report"
	"github.com/spf13/cobra"
)

// Command creates the segment command.
func Command(ctx *config.Context) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "segment [input.edf]",
		Short: "Split a recording into event-bounded segments",
		Long: `Load an EDF+ recording, derive its events from the annotations and cut one
segment per pair of consecutive events plus a trailing segment up to the end
of the recording. Segments shorter than the minimum duration are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.Settings.ProcessorOptions(ctx.Logger)
			if err != nil {
				return err
			}

			// Only the segmentation result is meaningful for machine readable output.
			var metadataOut io.Writer = cmd.OutOrStdout()
			if quiet || opts.Output != report.OutputTable {
				metadataOut = io.Discard
			}

			p, err := processor.New(metadataOut, opts)
			if err != nil {
				return err
			}
			if err := p.Load(args[0]); err != nil {
				return err
			}

			p.SetOutput(cmd.OutOrStdout())

			result, err := p.Process()
			if err != nil {
				return err
			}

			ctx.Logger.Debug("segment report written",
				"run", result.ID,
				"status", result.Status,
				"segments", result.Len(),
			)

			return nil
		},
	}

	setupFlags(cmd, ctx)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the recording metadata report")

	return cmd
}

// setupFlags configures flags specific to the segment command.
func setupFlags(cmd *cobra.Command, ctx *config.Context) {
	cmd.Flags().Float64P("min-duration", "m", 5.0, "Minimum segment duration in seconds")
	cmd.Flags().StringP("output", "o", "table", "Output format: table, yaml, json")

	if err := ctx.Viper.BindPFlag("segmentation.min_duration", cmd.Flags().Lookup("min-duration")); err != nil {
		panic(fmt.Errorf("error binding flag: %w", err))
	}
	if err := ctx.Viper.BindPFlag("report.output", cmd.Flags().Lookup("output")); err != nil {
		panic(fmt.Errorf("error binding flag: %w", err))
	}
}
