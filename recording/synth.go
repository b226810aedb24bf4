// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package recording

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/OpenPSG/eegseg/edf"
)

// SynthOptions describes a synthetic EEG recording.
type SynthOptions struct {
	PatientID   string           // EDF+ patient identification
	RecordingID string           // EDF+ recording identification
	StartTime   time.Time        // Start of the recording
	Channels    []string         // Data channel labels
	SampleRate  int              // Samples per second for every channel
	Seconds     int              // Length of the recording in seconds
	Annotations []edf.Annotation // Events to store in the annotation signal
}

// Synthesize writes an EDF+ file with one-second data records. Every channel carries a
// sine wave between 8 and 12 Hz (alpha band) with an amplitude of 50 uV.
func Synthesize(w io.WriteSeeker, opts SynthOptions) error {
	if len(opts.Channels) == 0 {
		return fmt.Errorf("at least one channel is required")
	}
	if opts.SampleRate <= 0 || opts.Seconds <= 0 {
		return fmt.Errorf("sample rate and length must be positive")
	}

	// Group annotations by the data record that contains their onset.
	perRecord := make([][]edf.Annotation, opts.Seconds)
	largest := 0
	for _, a := range opts.Annotations {
		record := int(math.Floor(a.Onset))
		if record < 0 || record >= opts.Seconds {
			return fmt.Errorf("annotation %q at %gs is outside the recording", a.Text, a.Onset)
		}
		perRecord[record] = append(perRecord[record], a)
	}
	for record, annotations := range perRecord {
		size := len(edf.AppendTAL(nil, edf.Annotation{Onset: float64(record)})) // timekeeping upper bound
		for _, a := range annotations {
			size += len(edf.AppendTAL(nil, a))
		}
		largest = max(largest, size)
	}

	signals := make([]edf.Signal, 0, len(opts.Channels)+1)
	for _, label := range opts.Channels {
		signals = append(signals, edf.Signal{
			Label:             label,
			TransducerType:    "AgAgCl electrode",
			PhysicalDimension: "uV",
			PhysicalMin:       -200,
			PhysicalMax:       200,
			DigitalMin:        -32768,
			DigitalMax:        32767,
			SamplesPerRecord:  opts.SampleRate,
		})
	}
	signals = append(signals, edf.AnnotationSignal((largest+1)/2))

	ew, err := edf.Create(w, edf.Header{
		Version:            edf.Version0,
		PatientID:          opts.PatientID,
		RecordingID:        opts.RecordingID,
		StartTime:          opts.StartTime,
		DataRecordDuration: time.Second,
		Signals:            signals,
	})
	if err != nil {
		return err
	}

	samples := make([][]float64, len(opts.Channels))
	for i := range samples {
		samples[i] = make([]float64, opts.SampleRate)
	}

	for record := 0; record < opts.Seconds; record++ {
		for ch := range samples {
			freq := 8 + float64(ch%5)
			for i := range samples[ch] {
				t := float64(record) + float64(i)/float64(opts.SampleRate)
				samples[ch][i] = 50 * math.Sin(2*math.Pi*freq*t)
			}
		}
		if err := ew.WriteRecord(samples, perRecord[record]...); err != nil {
			return fmt.Errorf("error writing record %d: %w", record, err)
		}
	}

	return ew.Close()
}
