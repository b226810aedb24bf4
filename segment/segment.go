// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package segment splits a continuous recording into named segments bounded by consecutive
// annotated events.
//
// A run visits every adjacent pair of events and finally the last event paired with the end
// of the recording. Candidates shorter than the configured minimum duration are dropped
// silently; the remaining segments are named after the label of their opening event, with a
// numeric suffix when the label was already used in the same run.
package segment

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// DefaultMinDuration is the minimum segment duration, in seconds, used when none is configured.
const DefaultMinDuration = 5.0

// Config holds the segmentation parameters.
type Config struct {
	MinDuration float64 // Minimum segment duration in seconds, must be positive
}

// DefaultConfig returns the default segmentation parameters.
func DefaultConfig() Config {
	return Config{MinDuration: DefaultMinDuration}
}

// Validate checks that the configuration can be used for a run.
func (c Config) Validate() error {
	return validateMinDuration(c.MinDuration)
}

func validateMinDuration(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return fmt.Errorf("%w: minimum segment duration must be greater than 0, got %v", ErrInvalidConfiguration, d)
	}
	return nil
}

// Source crops the underlying signal. The returned payload is opaque to the segmenter.
type Source interface {
	Crop(start, end float64) (any, error)
}

// Input is everything a run needs from the loaded recording.
type Input struct {
	Events     []Event    // Events ordered by sample index
	SampleRate float64    // Samples per second
	Duration   float64    // Time of the last available sample, in seconds
	Labels     LabelTable // Event code to label mapping
	Source     Source     // Crops segment payloads
}

// Segment is a labeled interval of the recording.
type Segment struct {
	Name         string  `json:"name" yaml:"name"`
	Start        float64 `json:"start_time" yaml:"start_time"`
	End          float64 `json:"end_time" yaml:"end_time"`
	CurrentEvent string  `json:"current_event" yaml:"current_event"`
	NextEvent    string  `json:"next_event" yaml:"next_event"`
	Payload      any     `json:"-" yaml:"-"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Status is the outcome of a completed run.
type Status string

const (
	StatusDone               Status = "done"
	StatusInsufficientEvents Status = "insufficient-events"
)

// Result holds the segments produced by one run, in chronological order.
type Result struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Status      Status    `json:"status" yaml:"status"`
	MinDuration float64   `json:"min_duration" yaml:"min_duration"`
	Attempts    int       `json:"attempts" yaml:"attempts"`
	Segments    []Segment `json:"segments" yaml:"segments"`
}

// Err returns ErrInsufficientEvents for runs that had too few events, nil otherwise.
func (r *Result) Err() error {
	if r.Status == StatusInsufficientEvents {
		return ErrInsufficientEvents
	}
	return nil
}

// Len returns the number of segments.
func (r *Result) Len() int {
	return len(r.Segments)
}

// Names returns the segment names in insertion order.
func (r *Result) Names() []string {
	names := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		names[i] = s.Name
	}
	return names
}

// Get returns the segment with the given name.
func (r *Result) Get(name string) (Segment, bool) {
	for _, s := range r.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return Segment{}, false
}
