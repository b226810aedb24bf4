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
	"math"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Segmenter runs event-driven segmentation and keeps the result of the latest completed run.
// It is not safe for concurrent use.
type Segmenter struct {
	cfg    Config
	logger hclog.Logger
	last   *Result
}

// New creates a segmenter. A nil logger discards all output.
func New(cfg Config, logger hclog.Logger) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Segmenter{
		cfg:    cfg,
		logger: logger.Named("segment"),
	}, nil
}

// SetMinDuration changes the minimum segment duration used by subsequent runs.
func (s *Segmenter) SetMinDuration(d float64) error {
	if err := validateMinDuration(d); err != nil {
		return err
	}
	s.cfg.MinDuration = d
	return nil
}

// MinDuration returns the configured minimum segment duration.
func (s *Segmenter) MinDuration() float64 {
	return s.cfg.MinDuration
}

// Last returns the result of the most recent successful run, or nil.
func (s *Segmenter) Last() *Result {
	return s.last
}

// Run segments the input. Fewer than two events complete the run with
// StatusInsufficientEvents and no segments. On error nothing is committed and Last keeps
// returning the previous result.
func (s *Segmenter) Run(in Input) (*Result, error) {
	// The configuration is frozen for the duration of the run.
	cfg := s.cfg

	if err := validateInput(in); err != nil {
		return nil, err
	}

	result := &Result{
		ID:          uuid.New(),
		MinDuration: cfg.MinDuration,
		Segments:    []Segment{},
	}
	logger := s.logger.With("run", result.ID.String())

	if len(in.Events) < 2 {
		logger.Info("not enough events to extract segments", "events", len(in.Events))
		result.Status = StatusInsufficientEvents
		s.last = result
		return result, nil
	}

	if in.Source == nil {
		return nil, fmt.Errorf("%w: no signal source", ErrInvalidSignal)
	}

	logger.Debug("starting segmentation",
		"events", len(in.Events),
		"sample_rate", in.SampleRate,
		"duration", in.Duration,
		"min_duration", cfg.MinDuration,
	)

	b := newBuilder(in, cfg.MinDuration, logger)
	last := len(in.Events) - 1

	for i := 0; i <= last; i++ {
		end := i + 1
		if i == last {
			end = OpenEnd
		}

		seg, ok, err := b.build(i, end)
		result.Attempts++
		if err != nil {
			logger.Error("segmentation failed", "event", i, "error", err)
			return nil, err
		}
		if ok {
			result.Segments = append(result.Segments, seg)
		}
	}

	result.Status = StatusDone
	s.last = result

	logger.Info("segmentation complete",
		"segments", len(result.Segments),
		"candidates", result.Attempts,
	)

	return result, nil
}

func validateInput(in Input) error {
	if math.IsNaN(in.SampleRate) || math.IsInf(in.SampleRate, 0) || in.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidSignal, in.SampleRate)
	}
	if math.IsNaN(in.Duration) || math.IsInf(in.Duration, 0) || in.Duration < 0 {
		return fmt.Errorf("%w: recording duration must not be negative, got %v", ErrInvalidSignal, in.Duration)
	}
	return nil
}
