// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package info

import (
	"github.com/OpenPSG/eegseg/internal/config"
	"github.com/OpenPSG/eegseg/internal/processor"
	"github.com/spf13/cobra"
)

// Command creates the info command for describing a single recording.
func Command(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [input.edf]",
		Short: "Describe an EDF recording",
		Long:  `Print the subject, channels, montage and events of an EDF+ recording.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.Settings.ProcessorOptions(ctx.Logger)
			if err != nil {
				return err
			}

			p, err := processor.New(cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}

			return p.Load(args[0])
		},
	}

	return cmd
}
