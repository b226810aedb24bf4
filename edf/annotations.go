// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import (
	"bytes"
	"fmt"
	"strconv"
)

// Time-stamped annotation list (TAL) delimiters, see the EDF+ specification section 2.2.2.
const (
	talDuration  = 0x15
	talSeparator = 0x14
	talEnd       = 0x00
)

// ParseTALs decodes the time-stamped annotation lists stored in the bytes of an annotation
// signal for one data record. Timekeeping entries (those without text) are not returned.
func ParseTALs(b []byte) ([]Annotation, error) {
	var annotations []Annotation

	for len(b) > 0 {
		end := bytes.IndexByte(b, talEnd)
		if end == -1 {
			return nil, fmt.Errorf("unterminated annotation list: %q", b)
		}

		tal := b[:end]
		b = b[end+1:]

		// Zero padding fills the remainder of the record.
		if len(tal) == 0 {
			continue
		}

		fields := bytes.Split(tal, []byte{talSeparator})
		if len(fields) < 2 {
			return nil, fmt.Errorf("annotation list missing separator: %q", tal)
		}

		onsetField, durationField, hasDuration := bytes.Cut(fields[0], []byte{talDuration})
		onset, err := parseOnset(onsetField)
		if err != nil {
			return nil, err
		}

		var duration float64
		if hasDuration && len(durationField) > 0 {
			duration, err = strconv.ParseFloat(string(durationField), 64)
			if err != nil {
				return nil, fmt.Errorf("error parsing annotation duration: %w", err)
			}
		}

		for _, text := range fields[1:] {
			if len(text) == 0 {
				continue
			}
			annotations = append(annotations, Annotation{
				Onset:    onset,
				Duration: duration,
				Text:     string(text),
			})
		}
	}

	return annotations, nil
}

func parseOnset(b []byte) (float64, error) {
	if len(b) < 2 || (b[0] != '+' && b[0] != '-') {
		return 0, fmt.Errorf("invalid annotation onset: %q", b)
	}

	onset, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing annotation onset: %w", err)
	}

	return onset, nil
}

// AppendTAL appends the encoded form of a single annotation to dst.
func AppendTAL(dst []byte, a Annotation) []byte {
	dst = appendOnset(dst, a.Onset)
	if a.Duration > 0 {
		dst = append(dst, talDuration)
		dst = strconv.AppendFloat(dst, a.Duration, 'f', -1, 64)
	}
	dst = append(dst, talSeparator)
	dst = append(dst, a.Text...)
	return append(dst, talSeparator, talEnd)
}

// appendTimekeepingTAL appends the mandatory first TAL of an EDF+ data record, which holds
// the start time of the record relative to the start of the recording.
func appendTimekeepingTAL(dst []byte, onset float64) []byte {
	dst = appendOnset(dst, onset)
	return append(dst, talSeparator, talSeparator, talEnd)
}

func appendOnset(dst []byte, onset float64) []byte {
	if onset >= 0 {
		dst = append(dst, '+')
	}
	return strconv.AppendFloat(dst, onset, 'f', -1, 64)
}
