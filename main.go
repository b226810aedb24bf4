// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"os"

	"github.com/OpenPSG/eegseg/cmd"
	"github.com/OpenPSG/eegseg/internal/config"
)

func main() {
	ctx := config.NewContext()

	if err := cmd.RootCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
