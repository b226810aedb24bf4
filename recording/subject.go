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
	"strings"
	"time"
)

// Sex of the subject as recorded in the EDF+ patient identification.
type Sex string

const (
	SexUnknown Sex = ""
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
)

// Subject is the patient identification of an EDF+ file.
type Subject struct {
	Code      string    // Hospital administration code
	Sex       Sex       // Sex of the subject
	Birthdate time.Time // Zero when unknown
	Name      string    // Full name, underscores replaced by spaces
	Raw       string    // Unparsed patient identification field
}

// parseSubject decodes the EDF+ patient identification subfields
// ("code sex birthdate name ..."). Unknown subfields are written as "X". Plain EDF files
// carry free text, which is kept in Raw only.
func parseSubject(patientID string, edfPlus bool) Subject {
	s := Subject{Raw: patientID}
	if !edfPlus {
		return s
	}

	fields := strings.Fields(patientID)
	get := func(i int) string {
		if i >= len(fields) || fields[i] == "X" {
			return ""
		}
		return fields[i]
	}

	s.Code = get(0)
	switch get(1) {
	case "M":
		s.Sex = SexMale
	case "F":
		s.Sex = SexFemale
	}
	if birthdate := get(2); birthdate != "" {
		if t, err := time.Parse("02-Jan-2006", birthdate); err == nil {
			s.Birthdate = t
		}
	}
	s.Name = strings.ReplaceAll(get(3), "_", " ")

	return s
}
