// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package recording loads EDF/EDF+ files into memory and serves them as the signal source of
// event-driven segmentation.
package recording

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/OpenPSG/eegseg/edf"
	"github.com/OpenPSG/eegseg/segment"
	"github.com/hashicorp/go-hclog"
)

// DefaultExcludeChannels lists the channels dropped on load unless configured otherwise.
var DefaultExcludeChannels = []string{"ECG  ECG"}

// Options controls how a recording is loaded.
type Options struct {
	// ExcludeChannels are channel labels to drop, compared case-insensitively after trimming.
	ExcludeChannels []string
	// IgnoreAnnotation reports whether an annotation should not produce an event.
	IgnoreAnnotation func(text string) bool
	// Logger receives load diagnostics. Nil discards them.
	Logger hclog.Logger
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{
		ExcludeChannels:  DefaultExcludeChannels,
		IgnoreAnnotation: IgnoreBadOrEdge,
	}
}

// IgnoreBadOrEdge drops annotations marking bad data or acquisition edges.
func IgnoreBadOrEdge(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "bad") || strings.HasPrefix(lower, "edge")
}

// Recording is an EDF/EDF+ file held in memory.
type Recording struct {
	Header      edf.Header         // Parsed file header
	Subject     Subject            // Patient identification
	Channels    []edf.Signal       // Data channels kept after exclusion, in file order
	Excluded    []string           // Labels of the channels dropped on load
	Annotations []edf.Annotation   // Annotations within the recording, ordered by onset
	Events      []segment.Event    // One event per annotation, ordered by sample
	Labels      segment.LabelTable // Event code to annotation text

	sampleRate float64
	data       [][]float64
}

// Load reads the EDF/EDF+ file at path.
func Load(path string, opts Options) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening recording: %w", err)
	}
	defer f.Close()

	return Read(f, opts)
}

// Read loads a recording from r.
func Read(r io.ReadSeeker, opts Options) (*Recording, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	er, err := edf.Open(r)
	if err != nil {
		return nil, err
	}

	hdr := er.Header()
	rec := &Recording{
		Header:  hdr,
		Subject: parseSubject(hdr.PatientID, hdr.IsEDFPlus()),
	}

	for i, sig := range hdr.Signals {
		if sig.IsAnnotations() {
			continue
		}
		if excluded(sig.Label, opts.ExcludeChannels) {
			rec.Excluded = append(rec.Excluded, sig.Label)
			logger.Info("channel removed", "channel", sig.Label)
			continue
		}

		rate := sig.SampleRate(hdr.DataRecordDuration)
		if rec.sampleRate == 0 {
			rec.sampleRate = rate
		} else if rate != rec.sampleRate {
			return nil, fmt.Errorf("%w: channel %q sampled at %g Hz, expected %g Hz", segment.ErrInvalidSignal, sig.Label, rate, rec.sampleRate)
		}

		sr, err := er.Signal(i)
		if err != nil {
			return nil, err
		}
		samples, err := sr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("error reading channel %q: %w", sig.Label, err)
		}

		rec.Channels = append(rec.Channels, sig)
		rec.data = append(rec.data, samples)
	}

	if len(rec.Channels) == 0 {
		return nil, fmt.Errorf("%w: recording has no data channels", segment.ErrInvalidSignal)
	}
	if rec.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %g", segment.ErrInvalidSignal, rec.sampleRate)
	}

	annotations, err := er.Annotations()
	if err != nil {
		return nil, err
	}
	if err := rec.deriveEvents(annotations, opts.IgnoreAnnotation, logger); err != nil {
		return nil, err
	}

	logger.Debug("recording loaded",
		"channels", len(rec.Channels),
		"sample_rate", rec.sampleRate,
		"samples", rec.Samples(),
		"events", len(rec.Events),
	)

	return rec, nil
}

func excluded(label string, exclude []string) bool {
	for _, e := range exclude {
		if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(e)) {
			return true
		}
	}
	return false
}

// deriveEvents turns annotations into coded events. Codes are assigned from 1 in the sorted
// order of the distinct annotation texts.
func (rec *Recording) deriveEvents(annotations []edf.Annotation, ignore func(string) bool, logger hclog.Logger) error {
	duration := rec.Duration()

	var kept []edf.Annotation
	outside := 0
	for _, a := range annotations {
		if ignore != nil && ignore(a.Text) {
			continue
		}
		if a.Onset < 0 || a.Onset > duration {
			outside++
			continue
		}
		kept = append(kept, a)
	}
	if outside > 0 {
		logger.Warn("omitted annotations outside the data range", "count", outside)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Onset < kept[j].Onset })

	var texts []string
	codes := make(map[string]int)
	for _, a := range kept {
		if _, ok := codes[a.Text]; !ok {
			codes[a.Text] = 0
			texts = append(texts, a.Text)
		}
	}
	sort.Strings(texts)

	entries := make([]segment.LabelEntry, len(texts))
	for i, text := range texts {
		codes[text] = i + 1
		entries[i] = segment.LabelEntry{Code: i + 1, Label: text}
	}

	labels, err := segment.NewLabelTable(entries...)
	if err != nil {
		return err
	}

	events := make([]segment.Event, len(kept))
	for i, a := range kept {
		events[i] = segment.Event{
			Sample: int64(math.Round(a.Onset * rec.sampleRate)),
			Code:   codes[a.Text],
		}
	}

	rec.Annotations = kept
	rec.Events = events
	rec.Labels = labels
	return nil
}

// SampleRate returns the common sample rate of the data channels in Hz.
func (rec *Recording) SampleRate() float64 {
	return rec.sampleRate
}

// Samples returns the number of samples per channel.
func (rec *Recording) Samples() int {
	if len(rec.data) == 0 {
		return 0
	}
	return len(rec.data[0])
}

// Duration returns the time of the last sample in seconds.
func (rec *Recording) Duration() float64 {
	n := rec.Samples()
	if n == 0 {
		return 0
	}
	return float64(n-1) / rec.sampleRate
}

// ChannelNames returns the labels of the data channels.
func (rec *Recording) ChannelNames() []string {
	names := make([]string, len(rec.Channels))
	for i, ch := range rec.Channels {
		names[i] = ch.Label
	}
	return names
}

// Data returns the physical samples of a data channel.
func (rec *Recording) Data(channel int) []float64 {
	return rec.data[channel]
}

// SegmentInput returns the segmentation input for this recording.
func (rec *Recording) SegmentInput() segment.Input {
	return segment.Input{
		Events:     rec.Events,
		SampleRate: rec.sampleRate,
		Duration:   rec.Duration(),
		Labels:     rec.Labels,
		Source:     rec,
	}
}
