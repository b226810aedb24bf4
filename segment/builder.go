// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package segment

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// OpenEnd marks a segment bounded by the end of the recording instead of a following event.
const OpenEnd = -1

// builder materialises the segments of a single run. names holds every name allocated so far
// in the run and is owned by it.
type builder struct {
	in          Input
	minDuration float64
	names       map[string]struct{}
	logger      hclog.Logger
}

func newBuilder(in Input, minDuration float64, logger hclog.Logger) *builder {
	return &builder{
		in:          in,
		minDuration: minDuration,
		names:       make(map[string]struct{}),
		logger:      logger,
	}
}

// build creates the segment opened by events[start] and closed by events[end], or by the
// end of the recording when end is not a valid index. ok is false when the candidate is
// shorter than the minimum duration.
func (b *builder) build(start, end int) (seg Segment, ok bool, err error) {
	events := b.in.Events
	open := end < 0 || end >= len(events)

	startTime := events[start].Time(b.in.SampleRate)
	endTime := b.in.Duration
	if !open {
		endTime = events[end].Time(b.in.SampleRate)
	}

	duration := endTime - startTime
	if endTime <= startTime || duration < b.minDuration {
		b.logger.Trace("skipping short segment",
			"event", start,
			"start", startTime,
			"end", endTime,
			"duration", duration,
		)
		return Segment{}, false, nil
	}

	current := ResolveLabel(events[start].Code, b.in.Labels)
	next := EndLabel
	if !open {
		next = ResolveLabel(events[end].Code, b.in.Labels)
	}

	name := MakeUniqueName(current, b.names)

	payload, err := b.in.Source.Crop(startTime, endTime)
	if err != nil {
		return Segment{}, false, fmt.Errorf("error cropping segment %q: %w", name, err)
	}

	b.names[name] = struct{}{}

	return Segment{
		Name:         name,
		Start:        startTime,
		End:          endTime,
		CurrentEvent: current,
		NextEvent:    next,
		Payload:      payload,
	}, true, nil
}
