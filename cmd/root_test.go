// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenPSG/eegseg/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := RootCommand(config.NewContext())
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--log-file", ""))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func synthesize(t *testing.T, args ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "demo.edf")
	stdout, _, err := runCmd(t, append([]string{"synth", path, "--rate", "64"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+path+": 11 channels, 7,680 samples per channel")

	return path
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "eegseg dev")
}

func TestInfo(t *testing.T) {
	path := synthesize(t)

	stdout, _, err := runCmd(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Name: Demo Subject")
	assert.Contains(t, stdout, "Sex: Female")
	assert.Contains(t, stdout, "Channel removed: ECG  ECG")
	assert.Contains(t, stdout, "Number of channels: 10")
	assert.Contains(t, stdout, "Montage applied: standard-10")
	assert.Contains(t, stdout, "Number of events: 5")
	assert.Contains(t, stdout, "Hyperventilation")
}

func TestSegmentJSON(t *testing.T) {
	path := synthesize(t)

	stdout, _, err := runCmd(t, "segment", path, "--output", "json")
	require.NoError(t, err)

	var result struct {
		Status      string  `json:"status"`
		MinDuration float64 `json:"min_duration"`
		Attempts    int     `json:"attempts"`
		Segments    []struct {
			Name         string  `json:"name"`
			Start        float64 `json:"start_time"`
			End          float64 `json:"end_time"`
			CurrentEvent string  `json:"current_event"`
			NextEvent    string  `json:"next_event"`
		} `json:"segments"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	assert.Equal(t, "done", result.Status)
	assert.Equal(t, 5.0, result.MinDuration)
	assert.Equal(t, 5, result.Attempts)
	require.Len(t, result.Segments, 4)

	names := make([]string, len(result.Segments))
	for i, s := range result.Segments {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Rest", "OG", "Photo", "Hyperventilation"}, names)

	last := result.Segments[3]
	assert.Equal(t, 95.0, last.Start)
	assert.InDelta(t, 7679.0/64, last.End, 1e-9)
	assert.Equal(t, "End", last.NextEvent)
}

func TestSegmentMinDurationFlag(t *testing.T) {
	path := synthesize(t)

	stdout, _, err := runCmd(t, "segment", path, "--quiet", "--min-duration", "1", "--table-format", "markdown")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Number of channels")
	assert.Contains(t, stdout, "Segments with duration >= 1 sec: 5")
	assert.Contains(t, stdout, "| Fon")
}

func TestSegmentInvalidMinDuration(t *testing.T) {
	path := synthesize(t)

	_, _, err := runCmd(t, "segment", path, "--min-duration", "0")
	require.Error(t, err)
}

func TestSegmentConfigFile(t *testing.T) {
	path := synthesize(t, "--event", "10:Rest", "--event", "20:Photo")

	configFile := filepath.Join(t.TempDir(), "eegseg.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("segmentation:\n  min_duration: 50\nreport:\n  output: yaml\n"), 0o644))

	stdout, _, err := runCmd(t, "segment", path, "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "min_duration: 50")
	assert.Contains(t, stdout, "name: Photo")
	assert.NotContains(t, stdout, "name: Rest")
}

func TestMontage(t *testing.T) {
	stdout, _, err := runCmd(t, "montage", "--channels", "19")
	require.NoError(t, err)
	assert.Contains(t, stdout, "standard-20")
	assert.Contains(t, stdout, "EEG FP1-A1")
	assert.NotContains(t, stdout, "standard-10")

	_, _, err = runCmd(t, "montage", "--channels", "3")
	require.Error(t, err)
}

func TestSynthRejectsBadEvent(t *testing.T) {
	_, _, err := runCmd(t, "synth", filepath.Join(t.TempDir(), "x.edf"), "--event", "soon")
	require.Error(t, err)
}

func TestSegmentLogsCompletionOnce(t *testing.T) {
	path := synthesize(t)

	_, stderr, err := runCmd(t, "segment", path, "--quiet")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stderr, "segmentation complete"))
}
