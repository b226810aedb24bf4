// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package montage

import (
	"fmt"
	"io"
	"strconv"

	"github.com/OpenPSG/eegseg/internal/config"
	"github.com/OpenPSG/eegseg/montage"
	"github.com/OpenPSG/eegseg/report"
	"github.com/spf13/cobra"
)

// Command creates the montage command listing the built-in electrode layouts.
func Command(ctx *config.Context) *cobra.Command {
	var channels int

	cmd := &cobra.Command{
		Use:   "montage",
		Short: "List the built-in electrode montages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseTableFormat(ctx.Settings.Report.TableFormat)
			if err != nil {
				return err
			}

			if channels > 0 {
				m, ok := montage.ForChannelCount(channels)
				if !ok {
					return fmt.Errorf("no montage for %d channels", channels)
				}
				return write(cmd.OutOrStdout(), format, *m)
			}

			all, err := montage.All()
			if err != nil {
				return err
			}
			for _, m := range all {
				if err := write(cmd.OutOrStdout(), format, m); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&channels, "channels", "c", 0, "Only show the montage applied to this many data channels")

	return cmd
}

func write(w io.Writer, format report.TableFormat, m montage.Montage) error {
	rows := make([][]string, 0, len(m.Electrodes))
	for _, e := range m.Electrodes {
		rows = append(rows, []string{
			e.Label,
			strconv.FormatFloat(e.X, 'f', 4, 64),
			strconv.FormatFloat(e.Y, 'f', 4, 64),
			strconv.FormatFloat(e.Z, 'f', 4, 64),
		})
	}

	_, err := fmt.Fprintf(w, "%s (channels: %v)\n%s\n\n", m.Name, m.ChannelCounts,
		report.Table(format, []string{"Electrode", "X (m)", "Y (m)", "Z (m)"}, rows))
	return err
}
