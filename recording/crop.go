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
	"math"
)

// Slice is a cropped copy of every data channel.
type Slice struct {
	Start       float64     // Requested start time in seconds
	End         float64     // Requested end time in seconds
	FirstSample int         // Index of the first sample in the recording
	SampleRate  float64     // Samples per second
	Channels    []string    // Channel labels, parallel to Data
	Data        [][]float64 // Physical samples per channel
}

// Samples returns the number of samples per channel in the slice.
func (s *Slice) Samples() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// Crop implements segment.Source.
func (rec *Recording) Crop(start, end float64) (any, error) {
	return rec.CropSlice(start, end)
}

// CropSlice copies the samples between start and end, both inclusive and rounded to the
// nearest sample. The end is clamped to the last sample.
func (rec *Recording) CropSlice(start, end float64) (*Slice, error) {
	// Half a sample of slack absorbs rounding in times derived from sample indices.
	tolerance := 0.5 / rec.sampleRate
	duration := rec.Duration()

	if math.IsNaN(start) || math.IsNaN(end) || start < 0 || start > end {
		return nil, fmt.Errorf("invalid crop range [%g, %g]", start, end)
	}
	if end > duration+tolerance {
		return nil, fmt.Errorf("crop end %g exceeds recording duration %g", end, duration)
	}

	last := rec.Samples() - 1
	first := int(math.Round(start * rec.sampleRate))
	stop := min(int(math.Round(end*rec.sampleRate)), last)
	if first > stop {
		return nil, fmt.Errorf("invalid crop range [%g, %g]", start, end)
	}

	data := make([][]float64, len(rec.data))
	for i, samples := range rec.data {
		data[i] = append([]float64(nil), samples[first:stop+1]...)
	}

	return &Slice{
		Start:       start,
		End:         end,
		FirstSample: first,
		SampleRate:  rec.sampleRate,
		Channels:    rec.ChannelNames(),
		Data:        data,
	}, nil
}
