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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenPSG/eegseg/edf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTwoChannelFile(t *testing.T) *os.File {
	t.Helper()

	f, err := os.OpenFile(filepath.Join(t.TempDir(), "two.edf"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, f.Close())
	})

	ew, err := edf.Create(f, edf.Header{
		Version:            edf.Version0,
		PatientID:          "MCH-0234567 F 02-MAY-1951 Haagse_Harry",
		RecordingID:        "Startdate 02-MAR-2002 PSG-1234/2002 NN Telemetry03",
		StartTime:          time.Date(2002, 3, 2, 22, 15, 0, 0, time.UTC),
		DataRecordDuration: 500 * time.Millisecond,
		Signals: []edf.Signal{
			{Label: "EEG F3", PhysicalDimension: "uV", PhysicalMin: -200, PhysicalMax: 200, DigitalMin: -32768, DigitalMax: 32767, SamplesPerRecord: 5},
			{Label: "EEG F4", PhysicalDimension: "uV", PhysicalMin: -200, PhysicalMax: 200, DigitalMin: -32768, DigitalMax: 32767, SamplesPerRecord: 5},
			edf.AnnotationSignal(16),
		},
	})
	require.NoError(t, err)

	for r := 0; r < 3; r++ {
		f3 := make([]float64, 5)
		f4 := make([]float64, 5)
		for i := range f3 {
			f3[i] = float64(r*5 + i)
			f4[i] = -float64(r*5 + i)
		}
		require.NoError(t, ew.WriteRecord([][]float64{f3, f4}))
	}
	require.NoError(t, ew.Close())

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	return f
}

func TestReader(t *testing.T) {
	f := writeTwoChannelFile(t)

	er, err := edf.Open(f)
	require.NoError(t, err)

	hdr := er.Header()
	assert.Equal(t, edf.Version0, hdr.Version)
	assert.Equal(t, "MCH-0234567 F 02-MAY-1951 Haagse_Harry", hdr.PatientID)
	assert.Equal(t, 256+3*256, hdr.HeaderBytes)
	assert.Equal(t, 3, hdr.DataRecords)
	assert.Equal(t, 500*time.Millisecond, hdr.DataRecordDuration)
	assert.Equal(t, "EEG F4", hdr.Signals[1].Label)
	assert.Equal(t, "uV", hdr.Signals[1].PhysicalDimension)
	assert.InDelta(t, 10.0, hdr.Signals[0].SampleRate(hdr.DataRecordDuration), 1e-9)

	// Read the second signal in chunks that straddle record boundaries.
	sr, err := er.Signal(1)
	require.NoError(t, err)

	samples := make([]float64, 7)
	n, err := sr.Read(samples)
	require.NoError(t, err)
	require.Equal(t, 7, n)
	for i := 0; i < n; i++ {
		assert.InDelta(t, -float64(i), samples[i], 0.01)
	}

	rest, err := sr.ReadAll()
	require.NoError(t, err)
	require.Len(t, rest, 8)
	assert.InDelta(t, -14.0, rest[7], 0.01)

	n, err = sr.Read(samples)
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	annotations, err := er.Annotations()
	require.NoError(t, err)
	assert.Empty(t, annotations)
}

func TestReaderSignalOutOfRange(t *testing.T) {
	f := writeTwoChannelFile(t)

	er, err := edf.Open(f)
	require.NoError(t, err)

	_, err = er.Signal(-1)
	assert.Error(t, err)
	_, err = er.Signal(3)
	assert.Error(t, err)
}

func TestOpenTruncatedHeader(t *testing.T) {
	_, err := edf.Open(bytes.NewReader([]byte("0       short")))
	require.Error(t, err)
}
