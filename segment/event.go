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
	"sort"
)

// Event is a coded marker in the annotation stream of a recording.
type Event struct {
	Sample int64 // Index of the sample at which the event occurs
	Code   int   // Numeric event code, resolved to a label through a LabelTable
}

// Time returns the event onset in seconds for the given sample rate.
func (e Event) Time(sampleRate float64) float64 {
	return float64(e.Sample) / sampleRate
}

// LabelEntry maps one event code to its label.
type LabelEntry struct {
	Code  int
	Label string
}

// LabelTable maps event codes to human readable labels.
type LabelTable struct {
	byCode map[int]string
}

// NewLabelTable builds a label table. Every code must map to exactly one label.
func NewLabelTable(entries ...LabelEntry) (LabelTable, error) {
	byCode := make(map[int]string, len(entries))
	for _, e := range entries {
		if existing, ok := byCode[e.Code]; ok {
			return LabelTable{}, fmt.Errorf("%w: code %d maps to both %q and %q", ErrDuplicateCode, e.Code, existing, e.Label)
		}
		byCode[e.Code] = e.Label
	}
	return LabelTable{byCode: byCode}, nil
}

// Lookup returns the label for code and whether the code is known.
func (t LabelTable) Lookup(code int) (string, bool) {
	label, ok := t.byCode[code]
	return label, ok
}

// Len returns the number of codes in the table.
func (t LabelTable) Len() int {
	return len(t.byCode)
}

// Entries returns the table contents ordered by code.
func (t LabelTable) Entries() []LabelEntry {
	entries := make([]LabelEntry, 0, len(t.byCode))
	for code, label := range t.byCode {
		entries = append(entries, LabelEntry{Code: code, Label: label})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}
