// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import (
	"strings"
	"time"
)

type Version string

const (
	// Version0 represents the version of the EDF/EDF+ standard.
	Version0 Version = "0"
)

const (
	// ReservedEDFPlusContinuous marks an uninterrupted EDF+ recording.
	ReservedEDFPlusContinuous = "EDF+C"
	// ReservedEDFPlusDiscontinuous marks an EDF+ recording with gaps between data records.
	ReservedEDFPlusDiscontinuous = "EDF+D"

	// AnnotationsLabel is the label of an EDF+ annotation signal.
	AnnotationsLabel = "EDF Annotations"
)

// Header represents the EDF/EDF+ file header.
type Header struct {
	Version            Version       // Version of the EDF/EDF+ standard (usually "0")
	PatientID          string        // Identification of the patient
	RecordingID        string        // Identification of the recording session
	StartTime          time.Time     // Start date of the recording
	HeaderBytes        int           // Number of bytes in the header
	Reserved           string        // "EDF+C" or "EDF+D" for EDF+ files, empty for plain EDF
	DataRecordDuration time.Duration // Duration of a single data record in seconds
	DataRecords        int           // Number of data records, -1 if unknown
	SignalCount        int           // Number of signals in each data record
	Signals            []Signal      // Details of each signal
}

// IsEDFPlus reports whether the header declares the EDF+ format.
func (h *Header) IsEDFPlus() bool {
	return strings.HasPrefix(h.Reserved, "EDF+")
}

// Duration is the nominal length of the recording.
func (h *Header) Duration() time.Duration {
	if h.DataRecords < 0 {
		return 0
	}
	return time.Duration(h.DataRecords) * h.DataRecordDuration
}

// Signal represents the characteristics of each signal in the EDF/EDF+ file.
type Signal struct {
	Label             string  // Label of the signal (e.g., EEG Fpz-Cz)
	TransducerType    string  // Type of transducer used
	PhysicalDimension string  // Physical dimension (e.g., uV, mV)
	PhysicalMin       float64 // Minimum physical value
	PhysicalMax       float64 // Maximum physical value
	DigitalMin        int     // Minimum digital value
	DigitalMax        int     // Maximum digital value
	Prefiltering      string  // Pre-filtering information
	SamplesPerRecord  int     // Number of samples in each data record for this signal
	Reserved          string  // Reserved for future use
}

// IsAnnotations reports whether the signal carries EDF+ annotations rather than samples.
func (s *Signal) IsAnnotations() bool {
	return s.Label == AnnotationsLabel
}

// SampleRate returns the number of samples per second given the data record duration.
func (s *Signal) SampleRate(recordDuration time.Duration) float64 {
	if recordDuration <= 0 {
		return 0
	}
	return float64(s.SamplesPerRecord) / recordDuration.Seconds()
}

// Annotation is a single EDF+ annotation decoded from a time-stamped annotation list.
type Annotation struct {
	Onset    float64 // Seconds relative to the start of the recording
	Duration float64 // Seconds, zero when not specified
	Text     string  // Description of the annotated event
}
