// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package synth

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/eegseg/edf"
	"github.com/OpenPSG/eegseg/internal/config"
	"github.com/OpenPSG/eegseg/recording"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	defaultChannels = []string{
		"EEG F3", "EEG F4", "EEG C3", "EEG C4", "EEG P3",
		"EEG P4", "EEG O1", "EEG O2", "EEG A2", "EEG A1", "ECG  ECG",
	}
	defaultEvents = []string{
		"5:Rest", "35:Fon", "37:OG", "65:Photo", "95:Hyperventilation",
	}
)

type options struct {
	channels []string
	events   []string
	rate     int
	seconds  int
	patient  string
}

// Command creates the synth command which writes an annotated demo recording.
func Command(ctx *config.Context) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "synth [output.edf]",
		Short: "Write a synthetic annotated EDF+ recording",
		Long: `Write an EDF+ file with alpha band sine waves on every channel and the
given events stored in an annotation signal. Events are written as onset:text,
for example 12.5:Photo.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			annotations, err := parseEvents(opts.events)
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("error creating output file: %w", err)
			}
			defer f.Close()

			if err := recording.Synthesize(f, recording.SynthOptions{
				PatientID:   opts.patient,
				RecordingID: "Startdate " + strings.ToUpper(time.Now().Format("02-Jan-2006")) + " X X eegseg",
				StartTime:   time.Now().Truncate(time.Second),
				Channels:    opts.channels,
				SampleRate:  opts.rate,
				Seconds:     opts.seconds,
				Annotations: annotations,
			}); err != nil {
				return fmt.Errorf("error writing recording: %w", err)
			}

			if err := f.Close(); err != nil {
				return err
			}

			ctx.Logger.Info("synthetic recording written",
				"path", args[0],
				"channels", len(opts.channels),
				"events", len(annotations),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d channels, %s samples per channel, %d events\n",
				args[0], len(opts.channels), humanize.Comma(int64(opts.rate*opts.seconds)), len(annotations))

			return nil
		},
	}

	setupFlags(cmd, opts)

	return cmd
}

// setupFlags configures flags specific to the synth command.
func setupFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringSliceVar(&opts.channels, "channel", defaultChannels, "Channel labels")
	cmd.Flags().StringArrayVarP(&opts.events, "event", "e", defaultEvents, "Event as onset:text, repeatable")
	cmd.Flags().IntVarP(&opts.rate, "rate", "r", 256, "Samples per second")
	cmd.Flags().IntVarP(&opts.seconds, "seconds", "s", 120, "Recording length in seconds")
	cmd.Flags().StringVar(&opts.patient, "patient", "X F 01-JAN-1990 Demo_Subject", "EDF+ patient identification")
}

func parseEvents(specs []string) ([]edf.Annotation, error) {
	annotations := make([]edf.Annotation, 0, len(specs))
	for _, spec := range specs {
		onset, text, ok := strings.Cut(spec, ":")
		if !ok || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("invalid event %q, expected onset:text", spec)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(onset), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid onset in event %q: %w", spec, err)
		}
		annotations = append(annotations, edf.Annotation{Onset: t, Text: strings.TrimSpace(text)})
	}
	return annotations, nil
}
