// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package build holds version information injected at build time:
//
//	go build -ldflags "-X github.com/OpenPSG/eegseg/internal/build.Version=v0.1.0 \
//	  -X github.com/OpenPSG/eegseg/internal/build.Commit=$(git rev-parse --short HEAD)"
package build

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

// String returns a formatted version string.
func String() string {
	return fmt.Sprintf("eegseg %s (%s) %s/%s", Version, Commit, runtime.GOOS, runtime.GOARCH)
}
