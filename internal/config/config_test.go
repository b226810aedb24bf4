// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenPSG/eegseg/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	settings, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), settings)
	assert.Equal(t, segment.DefaultMinDuration, settings.SegmentConfig().MinDuration)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eegseg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
segmentation:
  min_duration: 2.5
report:
  table_format: markdown
  output: yaml
recording:
  exclude_channels: ["ECG  ECG", "EMG"]
log:
  level: debug
  file: ""
`), 0o644))

	settings, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, settings.Segmentation.MinDuration)
	assert.Equal(t, "markdown", settings.Report.TableFormat)
	assert.Equal(t, "yaml", settings.Report.Output)
	assert.Equal(t, []string{"ECG  ECG", "EMG"}, settings.Recording.ExcludeChannels)
	assert.Equal(t, "debug", settings.Log.Level)
	assert.Empty(t, settings.Log.File)

	opts := settings.RecordingOptions(nil)
	assert.Equal(t, []string{"ECG  ECG", "EMG"}, opts.ExcludeChannels)
	assert.NotNil(t, opts.IgnoreAnnotation)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EEGSEG_SEGMENTATION_MIN_DURATION", "7.5")

	settings, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7.5, settings.Segmentation.MinDuration)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := Defaults()
	s.Segmentation.MinDuration = 0
	s.Report.TableFormat = "html"
	s.Log.Level = "loud"

	err := Validate(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, segment.ErrInvalidConfiguration)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eegseg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segmentation:\n  min_duration: -1\n"), 0o644))

	_, err := Load(New(), path)
	require.ErrorIs(t, err, segment.ErrInvalidConfiguration)
}
