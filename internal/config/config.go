// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package config loads eegseg settings from defaults, an optional YAML file, environment
// variables and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenPSG/eegseg/internal/processor"
	"github.com/OpenPSG/eegseg/recording"
	"github.com/OpenPSG/eegseg/report"
	"github.com/OpenPSG/eegseg/segment"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by eegseg.
const EnvPrefix = "EEGSEG"

// Settings holds the complete configuration.
type Settings struct {
	Debug        bool               `mapstructure:"debug"`
	Segmentation SegmentationConfig `mapstructure:"segmentation"`
	Report       ReportConfig       `mapstructure:"report"`
	Recording    RecordingConfig    `mapstructure:"recording"`
	Log          LogConfig          `mapstructure:"log"`
}

// SegmentationConfig holds the segmentation parameters.
type SegmentationConfig struct {
	MinDuration float64 `mapstructure:"min_duration"` // seconds
}

// ReportConfig controls how results are printed.
type ReportConfig struct {
	TableFormat string `mapstructure:"table_format"` // pretty, grid, simple, plain, markdown
	Output      string `mapstructure:"output"`       // table, yaml, json
}

// RecordingConfig controls how recordings are loaded.
type RecordingConfig struct {
	ExcludeChannels []string `mapstructure:"exclude_channels"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty disables file output
}

// Context is shared by every command.
type Context struct {
	Settings *Settings
	Viper    *viper.Viper
	Logger   hclog.Logger
}

// NewContext returns a context holding default settings and a viper instance with defaults
// and environment bindings in place.
func NewContext() *Context {
	v := New()
	return &Context{
		Settings: Defaults(),
		Viper:    v,
		Logger:   hclog.NewNullLogger(),
	}
}

// New creates a viper instance with defaults and environment variable support.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("segmentation.min_duration", segment.DefaultMinDuration)
	v.SetDefault("report.table_format", string(report.TablePretty))
	v.SetDefault("report.output", string(report.OutputTable))
	v.SetDefault("recording.exclude_channels", recording.DefaultExcludeChannels)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "app.log")
}

// Defaults returns the default settings.
func Defaults() *Settings {
	return &Settings{
		Segmentation: SegmentationConfig{MinDuration: segment.DefaultMinDuration},
		Report: ReportConfig{
			TableFormat: string(report.TablePretty),
			Output:      string(report.OutputTable),
		},
		Recording: RecordingConfig{
			ExcludeChannels: append([]string(nil), recording.DefaultExcludeChannels...),
		},
		Log: LogConfig{Level: "info", File: "app.log"},
	}
}

// Load reads the configuration file into v and decodes the merged settings. An explicit path
// must exist; without one, eegseg.yaml is looked up in the working directory and in the user
// configuration directory, and its absence is not an error.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("eegseg")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "eegseg"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := Validate(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// ValidationError collects every problem found in a configuration.
type ValidationError struct {
	Errors []error
}

func (ve *ValidationError) Error() string {
	msgs := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (ve *ValidationError) Unwrap() []error {
	return ve.Errors
}

// Validate checks the settings.
func Validate(s *Settings) error {
	ve := &ValidationError{}

	if err := (segment.Config{MinDuration: s.Segmentation.MinDuration}).Validate(); err != nil {
		ve.Errors = append(ve.Errors, err)
	}
	if _, err := report.ParseTableFormat(s.Report.TableFormat); err != nil {
		ve.Errors = append(ve.Errors, err)
	}
	if _, err := report.ParseOutputFormat(s.Report.Output); err != nil {
		ve.Errors = append(ve.Errors, err)
	}
	if hclog.LevelFromString(s.Log.Level) == hclog.NoLevel {
		ve.Errors = append(ve.Errors, fmt.Errorf("unsupported log level: %q", s.Log.Level))
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// SegmentConfig returns the segmentation parameters.
func (s *Settings) SegmentConfig() segment.Config {
	return segment.Config{MinDuration: s.Segmentation.MinDuration}
}

// RecordingOptions returns the options used to load recordings.
func (s *Settings) RecordingOptions(logger hclog.Logger) recording.Options {
	opts := recording.DefaultOptions()
	opts.ExcludeChannels = s.Recording.ExcludeChannels
	opts.Logger = logger
	return opts
}

// ProcessorOptions returns the processor options for these settings. The settings are
// expected to have passed Validate.
func (s *Settings) ProcessorOptions(logger hclog.Logger) (processor.Options, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	tableFormat, err := report.ParseTableFormat(s.Report.TableFormat)
	if err != nil {
		return processor.Options{}, err
	}
	output, err := report.ParseOutputFormat(s.Report.Output)
	if err != nil {
		return processor.Options{}, err
	}

	return processor.Options{
		Segment:     s.SegmentConfig(),
		Recording:   s.RecordingOptions(logger.Named("recording")),
		TableFormat: tableFormat,
		Output:      output,
		Logger:      logger,
	}, nil
}
