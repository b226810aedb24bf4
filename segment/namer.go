// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package segment

import "strconv"

const (
	// UnknownLabel is returned for event codes missing from the label table.
	UnknownLabel = "Unknown"
	// EndLabel is the next event label of a segment bounded by the end of the recording.
	EndLabel = "End"
)

// ResolveLabel returns the label mapped to code, or UnknownLabel.
func ResolveLabel(code int, table LabelTable) string {
	if label, ok := table.Lookup(code); ok {
		return label
	}
	return UnknownLabel
}

// MakeUniqueName returns base if it is not in existing, otherwise base_N for the smallest
// N >= 1 that is not in existing.
func MakeUniqueName(base string, existing map[string]struct{}) string {
	if _, taken := existing[base]; !taken {
		return base
	}

	for counter := 1; ; counter++ {
		candidate := base + "_" + strconv.Itoa(counter)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
