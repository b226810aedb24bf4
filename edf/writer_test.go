// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenPSG/eegseg/edf"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "test.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          "Patient X",
		RecordingID:        "Recording 1",
		StartTime:          time.Now(),
		DataRecordDuration: 60 * time.Second,
		Signals: []edf.Signal{
			{
				Label:             "EEG Fpz-Cz",
				TransducerType:    "AgAgCl electrode",
				PhysicalDimension: "uV",
				PhysicalMin:       -1000,
				PhysicalMax:       1000,
				DigitalMin:        -2048,
				DigitalMax:        2047,
				SamplesPerRecord:  256,
			},
		},
	}

	ew, err := edf.Create(f, hdr)
	require.NoError(t, err)

	// Write some data records
	record := make([]float64, 256)
	for i := range record {
		record[i] = float64(i) // physical value
	}

	// Write the first data record
	err = ew.WriteRecord([][]float64{record})
	require.NoError(t, err)

	for i := range record {
		record[i] = float64(i + 256)
	}

	// Write the second data record
	err = ew.WriteRecord([][]float64{record})
	require.NoError(t, err)

	// Close the writer (this writes the header)
	require.NoError(t, ew.Close())

	// Rewind the file
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	er, err := edf.Open(f)
	require.NoError(t, err)

	read := er.Header()
	require.Equal(t, 2, read.DataRecords)
	require.False(t, read.IsEDFPlus())
	require.Equal(t, 2*time.Minute, read.Duration())

	sr, err := er.Signal(0)
	require.NoError(t, err)

	samples := make([]float64, 512)
	n, err := sr.Read(samples)
	require.NoError(t, err)
	require.Equal(t, 512, n)

	// Verify the samples match what was written.
	for i := range samples {
		require.InDelta(t, float64(i), samples[i], 1.0)
	}

	// Reader should now return EOF
	_, err = sr.Read(samples)
	require.Equal(t, io.EOF, err)
}

func TestWriterClampsToPhysicalRange(t *testing.T) {
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "clamped.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	ew, err := edf.Create(f, edf.Header{
		Version:            edf.Version0,
		StartTime:          time.Now(),
		DataRecordDuration: time.Second,
		Signals: []edf.Signal{
			{Label: "EEG Cz", PhysicalMin: -500, PhysicalMax: 500, DigitalMin: -2048, DigitalMax: 2047, SamplesPerRecord: 4},
		},
	})
	require.NoError(t, err)

	require.NoError(t, ew.WriteRecord([][]float64{{-750, -250, 250, 750}}))
	require.NoError(t, ew.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	er, err := edf.Open(f)
	require.NoError(t, err)

	sr, err := er.Signal(0)
	require.NoError(t, err)

	samples, err := sr.ReadAll()
	require.NoError(t, err)
	require.Len(t, samples, 4)

	// Values outside the physical range saturate at its bounds.
	require.InDelta(t, -500, samples[0], 0.5)
	require.InDelta(t, -250, samples[1], 0.5)
	require.InDelta(t, 250, samples[2], 0.5)
	require.InDelta(t, 500, samples[3], 0.5)
}

func TestWriterAnnotations(t *testing.T) {
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "annotated.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          "X M 01-JAN-1980 Test_Subject",
		RecordingID:        "Startdate 01-JAN-2024 X X X",
		StartTime:          time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		DataRecordDuration: time.Second,
		Signals: []edf.Signal{
			{
				Label:            "EEG C3",
				PhysicalMin:      -100,
				PhysicalMax:      100,
				DigitalMin:       -32768,
				DigitalMax:       32767,
				SamplesPerRecord: 10,
			},
			edf.AnnotationSignal(30),
		},
	}

	ew, err := edf.Create(f, hdr)
	require.NoError(t, err)

	record := make([]float64, 10)
	require.NoError(t, ew.WriteRecord([][]float64{record}, edf.Annotation{Onset: 0.5, Text: "Fon"}))
	require.NoError(t, ew.WriteRecord([][]float64{record}))
	require.NoError(t, ew.WriteRecord([][]float64{record}, edf.Annotation{Onset: 2.25, Duration: 1, Text: "OG"}))
	require.NoError(t, ew.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	er, err := edf.Open(f)
	require.NoError(t, err)

	read := er.Header()
	require.True(t, read.IsEDFPlus())
	require.Equal(t, edf.ReservedEDFPlusContinuous, read.Reserved)
	require.Equal(t, 2, read.SignalCount)
	require.True(t, read.Signals[1].IsAnnotations())
	require.Equal(t, hdr.StartTime, read.StartTime)

	annotations, err := er.Annotations()
	require.NoError(t, err)
	require.Equal(t, []edf.Annotation{
		{Onset: 0.5, Text: "Fon"},
		{Onset: 2.25, Duration: 1, Text: "OG"},
	}, annotations)

	_, err = er.Signal(1)
	require.Error(t, err)
}

func TestWriterRejectsInvalidRecords(t *testing.T) {
	f, err := os.OpenFile(filepath.Join(t.TempDir(), "invalid.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	ew, err := edf.Create(f, edf.Header{
		Version:            edf.Version0,
		StartTime:          time.Now(),
		DataRecordDuration: time.Second,
		Signals: []edf.Signal{
			{Label: "EEG O1", PhysicalMin: -1, PhysicalMax: 1, DigitalMin: -100, DigitalMax: 100, SamplesPerRecord: 4},
		},
	})
	require.NoError(t, err)

	require.Error(t, ew.WriteRecord(nil))
	require.Error(t, ew.WriteRecord([][]float64{{1, 2}}))
	require.Error(t, ew.WriteRecord([][]float64{{1, 2, 3, 4}}, edf.Annotation{Text: "x"}))
	require.NoError(t, ew.WriteRecord([][]float64{{1, 2, 3, 4}}))
}
