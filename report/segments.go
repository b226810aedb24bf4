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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/OpenPSG/eegseg/segment"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
)

// OutputFormat selects how a segmentation result is written.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputYAML  OutputFormat = "yaml"
	OutputJSON  OutputFormat = "json"
)

// ParseOutputFormat validates an output format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputTable, OutputYAML, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
}

// Structure describes the fields of a segment record.
func Structure(format TableFormat) string {
	return Table(format, []string{"Key", "Field", "Type", "Example"}, [][]string{
		{"*segment name*", "", "", ""},
		{"", "start_time", "float", "0.60"},
		{"", "end_time", "float", "15.00"},
		{"", "current_event", "string", "Fon"},
		{"", "next_event", "string", "OG"},
		{"", "data", "recording slice", "cropped samples"},
	})
}

// Segments renders the segments of a run in chronological order.
func Segments(format TableFormat, result *segment.Result) string {
	rows := make([][]string, 0, len(result.Segments))
	for _, s := range result.Segments {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%.3f", s.Start),
			fmt.Sprintf("%.3f", s.End),
			s.CurrentEvent,
			s.NextEvent,
			fmt.Sprintf("%.3f", s.Duration()),
		})
	}
	return Table(format, []string{"Segment", "Start", "End", "From", "To", "Duration"}, rows)
}

// Summary describes the outcome of a run in one line.
func Summary(result *segment.Result) string {
	if result.Status == segment.StatusInsufficientEvents {
		return "Not enough events to extract segments."
	}
	return fmt.Sprintf("Segments with duration >= %g sec: %s", result.MinDuration, humanize.Comma(int64(result.Len())))
}

// Result renders the full segmentation report as text.
func Result(format TableFormat, result *segment.Result) string {
	var b strings.Builder

	if result.Status == segment.StatusInsufficientEvents {
		b.WriteString(Summary(result))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("Segment record structure:\n")
	b.WriteString(Structure(format))
	b.WriteString("\n\n")
	b.WriteString(Summary(result))
	b.WriteString("\nSegments:\n")
	b.WriteString(Segments(format, result))
	b.WriteString("\n")

	return b.String()
}

// Write writes a segmentation result to w.
func Write(w io.Writer, result *segment.Result, output OutputFormat, format TableFormat) error {
	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case OutputYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	case OutputTable, "":
		_, err := io.WriteString(w, Result(format, result))
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}
