// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenPSG/eegseg/edf"
	"github.com/OpenPSG/eegseg/recording"
	"github.com/OpenPSG/eegseg/report"
	"github.com/OpenPSG/eegseg/segment"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *segment.Result {
	return &segment.Result{
		ID:          uuid.New(),
		Status:      segment.StatusDone,
		MinDuration: 5,
		Attempts:    3,
		Segments: []segment.Segment{
			{Name: "Fon", Start: 0.6, End: 15, CurrentEvent: "Fon", NextEvent: "OG", Payload: "ignored"},
			{Name: "OG", Start: 15, End: 29.99, CurrentEvent: "OG", NextEvent: "End"},
		},
	}
}

func TestParseFormats(t *testing.T) {
	f, err := report.ParseTableFormat("Grid")
	require.NoError(t, err)
	assert.Equal(t, report.TableGrid, f)

	_, err = report.ParseTableFormat("html")
	assert.Error(t, err)

	o, err := report.ParseOutputFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, report.OutputJSON, o)

	_, err = report.ParseOutputFormat("csv")
	assert.Error(t, err)
}

func TestTableFormats(t *testing.T) {
	for _, format := range report.TableFormats {
		out := report.Table(format, []string{"Segment", "Start"}, [][]string{{"Fon", "0.600"}})
		assert.Contains(t, out, "Segment", format)
		assert.Contains(t, out, "Fon", format)
		assert.Contains(t, out, "0.600", format)
	}

	assert.Contains(t, report.Table(report.TableMarkdown, []string{"A"}, [][]string{{"b"}}), "|")
}

func TestSegments(t *testing.T) {
	out := report.Result(report.TablePretty, sampleResult())

	assert.Contains(t, out, "Segment record structure:")
	assert.Contains(t, out, "current_event")
	assert.Contains(t, out, "Segments with duration >= 5 sec: 2")
	assert.Contains(t, out, "14.400")
	assert.Contains(t, out, "29.990")
	assert.Contains(t, out, "End")
}

func TestSummaryInsufficientEvents(t *testing.T) {
	result := &segment.Result{Status: segment.StatusInsufficientEvents, MinDuration: 5}

	assert.Equal(t, "Not enough events to extract segments.", report.Summary(result))
	assert.NotContains(t, report.Result(report.TablePretty, result), "Segments:")
}

func TestWriteStructured(t *testing.T) {
	result := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, result, report.OutputJSON, report.TablePretty))

	var decoded struct {
		ID       string           `json:"id"`
		Status   string           `json:"status"`
		Segments []map[string]any `json:"segments"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, result.ID.String(), decoded.ID)
	assert.Equal(t, "done", decoded.Status)
	require.Len(t, decoded.Segments, 2)
	assert.Equal(t, "OG", decoded.Segments[0]["next_event"])
	assert.NotContains(t, decoded.Segments[0], "Payload")

	buf.Reset()
	require.NoError(t, report.Write(&buf, result, report.OutputYAML, report.TablePretty))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "done", doc["status"])
	assert.Contains(t, buf.String(), "current_event: Fon")

	assert.Error(t, report.Write(&buf, result, report.OutputFormat("xml"), report.TablePretty))
}

func TestMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.edf")
	f, err := os.Create(path)
	require.NoError(t, err)

	channels := []string{
		"EEG F3", "EEG F4", "EEG C3", "EEG C4", "EEG P3",
		"EEG P4", "EEG O1", "EEG O2", "EEG A2", "EEG A1",
	}
	require.NoError(t, recording.Synthesize(f, recording.SynthOptions{
		PatientID:   "X M X Jan_Kowalski",
		StartTime:   time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		Channels:    channels,
		SampleRate:  10,
		Seconds:     400,
		Annotations: []edf.Annotation{{Onset: 1, Text: "Fon"}, {Onset: 120, Text: "OG"}},
	}))
	require.NoError(t, f.Close())

	rec, err := recording.Load(path, recording.DefaultOptions())
	require.NoError(t, err)

	out := report.Metadata(report.TableGrid, rec)
	assert.Contains(t, out, "Name: Jan Kowalski")
	assert.Contains(t, out, "Sex: Male")
	assert.Contains(t, out, "Birthdate: Not specified")
	assert.Contains(t, out, "Recording date: 2024-05-01 08:00:00")
	assert.Contains(t, out, "Number of channels: 10")
	assert.Contains(t, out, "Sample rate: 10 Hz")
	assert.Contains(t, out, "Samples per channel: 4,000")
	assert.Contains(t, out, "Montage applied: standard-10")
	assert.Contains(t, out, "0.0375")
	assert.Contains(t, out, "Number of events: 2")
	assert.Contains(t, out, "120.00")
}
