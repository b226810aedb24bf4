// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenPSG/eegseg/edf"
	"github.com/OpenPSG/eegseg/montage"
	"github.com/OpenPSG/eegseg/recording"
	"github.com/OpenPSG/eegseg/segment"
	"github.com/dustin/go-humanize"
)

const notSpecified = "Not specified"

// Subject renders the patient identification of a recording.
func Subject(rec *recording.Recording) string {
	s := rec.Subject

	name := s.Name
	if name == "" {
		name = notSpecified
	}
	birthdate := notSpecified
	if !s.Birthdate.IsZero() {
		birthdate = s.Birthdate.Format("2006-01-02")
	}
	sex := notSpecified
	switch s.Sex {
	case recording.SexMale:
		sex = "Male"
	case recording.SexFemale:
		sex = "Female"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "Birthdate: %s\n", birthdate)
	fmt.Fprintf(&b, "Sex: %s\n", sex)
	fmt.Fprintf(&b, "Recording date: %s\n", rec.Header.StartTime.Format("2006-01-02 15:04:05"))
	return b.String()
}

// Channels renders the data channels of a recording. Electrode coordinates are filled in
// from the montage when one is given and knows the channel.
func Channels(format TableFormat, channels []edf.Signal, m *montage.Montage) string {
	rows := make([][]string, 0, len(channels))
	for _, ch := range channels {
		x, y, z := "-", "-", "-"
		if m != nil {
			if p, ok := m.Position(ch.Label); ok {
				x, y, z = formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z)
			}
		}

		rows = append(rows, []string{
			ch.Label,
			ch.TransducerType,
			ch.PhysicalDimension,
			formatFloat(ch.PhysicalMin),
			formatFloat(ch.PhysicalMax),
			strconv.Itoa(ch.DigitalMin),
			strconv.Itoa(ch.DigitalMax),
			ch.Prefiltering,
			strconv.Itoa(ch.SamplesPerRecord),
			x, y, z,
		})
	}

	return Table(format, []string{
		"Channel", "Transducer", "Unit", "Phys. min", "Phys. max", "Dig. min", "Dig. max",
		"Prefiltering", "Samples/record", "Loc X", "Loc Y", "Loc Z",
	}, rows)
}

// Events renders the event list with onset times in seconds.
func Events(format TableFormat, events []segment.Event, sampleRate float64, labels segment.LabelTable) string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			fmt.Sprintf("%.2f", e.Time(sampleRate)),
			strconv.Itoa(e.Code),
			segment.ResolveLabel(e.Code, labels),
		})
	}
	return Table(format, []string{"Time (sec)", "Event ID", "Description"}, rows)
}

// Metadata renders everything known about a loaded recording.
func Metadata(format TableFormat, rec *recording.Recording) string {
	var b strings.Builder

	b.WriteString(Subject(rec))
	for _, label := range rec.Excluded {
		fmt.Fprintf(&b, "Channel removed: %s\n", label)
	}
	fmt.Fprintf(&b, "Number of channels: %d\n", len(rec.Channels))
	fmt.Fprintf(&b, "Sample rate: %g Hz\n", rec.SampleRate())
	fmt.Fprintf(&b, "Samples per channel: %s\n", humanize.Comma(int64(rec.Samples())))
	fmt.Fprintf(&b, "Duration: %.2f sec\n", rec.Duration())

	m, ok := montage.ForChannelCount(len(rec.Channels))
	if ok {
		fmt.Fprintf(&b, "Montage applied: %s\n", m.Name)
	} else {
		b.WriteString("Montage not applied: unsupported number of channels\n")
	}

	b.WriteString("\nChannels:\n")
	b.WriteString(Channels(format, rec.Channels, m))
	b.WriteString("\n")

	if len(rec.Events) == 0 {
		b.WriteString("\nNo events in annotations.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nNumber of events: %s\n", humanize.Comma(int64(len(rec.Events))))
	b.WriteString("Events:\n")
	b.WriteString(Events(format, rec.Events, rec.SampleRate(), rec.Labels))
	b.WriteString("\n")

	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
