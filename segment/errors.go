// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package segment

import "errors"

var (
	// ErrInsufficientEvents reports a run over fewer than two events. Run does not return it;
	// it is available through Result.Err for callers that want to surface the outcome.
	ErrInsufficientEvents = errors.New("insufficient events for segmentation")

	// ErrInvalidConfiguration is returned when the minimum segment duration is not positive.
	ErrInvalidConfiguration = errors.New("invalid segmentation configuration")

	// ErrInvalidSignal is returned when the signal source supplies inconsistent data.
	ErrInvalidSignal = errors.New("invalid signal")

	// ErrDuplicateCode is returned when a label table maps one code to several labels.
	ErrDuplicateCode = errors.New("duplicate event code")
)
