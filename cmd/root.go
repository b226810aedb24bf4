// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package cmd assembles the eegseg command line interface.
package cmd

import (
	"fmt"
	"io"

	"github.com/OpenPSG/eegseg/cmd/info"
	"github.com/OpenPSG/eegseg/cmd/montage"
	"github.com/OpenPSG/eegseg/cmd/segment"
	"github.com/OpenPSG/eegseg/cmd/synth"
	"github.com/OpenPSG/eegseg/cmd/version"
	"github.com/OpenPSG/eegseg/internal/config"
	"github.com/OpenPSG/eegseg/internal/logging"
	"github.com/spf13/cobra"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *config.Context) *cobra.Command {
	var (
		configFile string
		logCloser  io.Closer
	)

	rootCmd := &cobra.Command{
		Use:          "eegseg",
		Short:        "Event-driven EEG segmentation",
		Long:         `Split annotated EDF+ recordings into segments bounded by consecutive events.`,
		SilenceUsage: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, ctx, &configFile); err != nil {
		panic(err)
	}

	versionCmd := version.Command()

	rootCmd.AddCommand(
		info.Command(ctx),
		segment.Command(ctx),
		montage.Command(ctx),
		synth.Command(ctx),
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The version command needs neither configuration nor logging.
		if cmd.Name() == versionCmd.Name() {
			return nil
		}

		closer, err := initialize(cmd, ctx, configFile)
		if err != nil {
			return err
		}
		logCloser = closer
		return nil
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if logCloser == nil {
			return nil
		}
		return logCloser.Close()
	}

	return rootCmd
}

// initialize loads the configuration and builds the logger before any subcommand runs.
func initialize(cmd *cobra.Command, ctx *config.Context, configFile string) (io.Closer, error) {
	settings, err := config.Load(ctx.Viper, configFile)
	if err != nil {
		return nil, err
	}
	ctx.Settings = settings

	level := settings.Log.Level
	if settings.Debug {
		level = "debug"
	}

	logger, closer, err := logging.New(logging.Options{
		Level:  level,
		File:   settings.Log.File,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	ctx.Logger = logger

	logger.Debug("configuration loaded", "file", ctx.Viper.ConfigFileUsed())

	return closer, nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, ctx *config.Context, configFile *string) error {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(configFile, "config", "", "Path to the configuration file (default ./eegseg.yaml)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error, off")
	flags.String("log-file", "app.log", "Append log output to this file, empty to disable")
	flags.String("table-format", "pretty", "Table style: pretty, grid, simple, plain, markdown")
	flags.StringSlice("exclude-channel", nil, "Channel labels dropped on load (default \"ECG  ECG\")")

	bindings := map[string]string{
		"debug":                      "debug",
		"log.level":                  "log-level",
		"log.file":                   "log-file",
		"report.table_format":        "table-format",
		"recording.exclude_channels": "exclude-channel",
	}
	for key, name := range bindings {
		if err := ctx.Viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}

	return nil
}
