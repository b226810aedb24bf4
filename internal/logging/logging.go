// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package logging builds the hclog logger shared by eegseg components.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Options configures the root logger.
type Options struct {
	Level  string    // trace, debug, info, warn, error or off
	File   string    // Log file appended to in addition to Output, empty to disable
	Output io.Writer // Console output, os.Stderr when nil
	JSON   bool      // Emit JSON lines instead of text
}

// New creates the root logger. The returned closer releases the log file, if any.
func New(opts Options) (hclog.Logger, io.Closer, error) {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		return nil, nil, fmt.Errorf("unsupported log level: %q", opts.Level)
	}

	var output io.Writer = os.Stderr
	if opts.Output != nil {
		output = opts.Output
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening log file: %w", err)
		}
		output = io.MultiWriter(output, f)
		closer = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "eegseg",
		Level:      level,
		Output:     output,
		JSONFormat: opts.JSON,
	})

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
