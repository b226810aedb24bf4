// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package processor ties loading, reporting and segmentation of a recording together.
package processor

import (
	"errors"
	"fmt"
	"io"

	"github.com/OpenPSG/eegseg/recording"
	"github.com/OpenPSG/eegseg/report"
	"github.com/OpenPSG/eegseg/segment"
	"github.com/hashicorp/go-hclog"
)

// ErrNoRecording is returned when processing is requested before a recording is loaded.
var ErrNoRecording = errors.New("no recording loaded, select an EDF file first")

// Options configures a Processor.
type Options struct {
	Segment     segment.Config
	Recording   recording.Options
	TableFormat report.TableFormat
	Output      report.OutputFormat
	Logger      hclog.Logger
}

// Processor holds the loaded recording and the segmenter. Loading a new recording replaces
// the previous one; processing always starts from a fresh result.
type Processor struct {
	out       io.Writer
	opts      Options
	logger    hclog.Logger
	segmenter *segment.Segmenter
	rec       *recording.Recording
}

// New creates a processor that writes its reports to out.
func New(out io.Writer, opts Options) (*Processor, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	segmenter, err := segment.New(opts.Segment, logger)
	if err != nil {
		return nil, err
	}

	if opts.Recording.Logger == nil {
		opts.Recording.Logger = logger.Named("recording")
	}

	return &Processor{
		out:       out,
		opts:      opts,
		logger:    logger,
		segmenter: segmenter,
	}, nil
}

// SetMinDuration changes the minimum segment duration for subsequent runs.
func (p *Processor) SetMinDuration(d float64) error {
	if err := p.segmenter.SetMinDuration(d); err != nil {
		return err
	}
	p.logger.Info("minimum segment duration set", "seconds", d)
	return nil
}

// SetOutput redirects subsequent reports to w.
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// Recording returns the loaded recording, or nil.
func (p *Processor) Recording() *recording.Recording {
	return p.rec
}

// Load reads the recording at path and writes its metadata report.
func (p *Processor) Load(path string) error {
	rec, err := recording.Load(path, p.opts.Recording)
	if err != nil {
		p.logger.Error("failed to load metadata", "path", path, "error", err)
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	p.rec = rec

	p.logger.Info("recording loaded", "path", path, "channels", len(rec.Channels), "events", len(rec.Events))

	_, err = io.WriteString(p.out, report.Metadata(p.opts.TableFormat, rec))
	return err
}

// Process segments the loaded recording and writes the result.
func (p *Processor) Process() (*segment.Result, error) {
	if p.rec == nil {
		p.logger.Error("processing requested without a recording")
		return nil, ErrNoRecording
	}

	result, err := p.segmenter.Run(p.rec.SegmentInput())
	if err != nil {
		return nil, err
	}

	if err := report.Write(p.out, result, p.opts.Output, p.opts.TableFormat); err != nil {
		return nil, fmt.Errorf("error writing report: %w", err)
	}

	return result, nil
}
