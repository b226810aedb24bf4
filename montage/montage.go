// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package montage provides fixed electrode layouts selected by the number of channels in a
// recording.
package montage

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed montages.yaml
var montagesYAML []byte

// Position is an electrode location in the head coordinate frame, in metres.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Electrode is a labeled position.
type Electrode struct {
	Label    string `yaml:"label"`
	Position `yaml:",inline"`
}

// Montage is a named electrode layout.
type Montage struct {
	Name          string      `yaml:"name"`
	ChannelCounts []int       `yaml:"channel_counts"`
	Electrodes    []Electrode `yaml:"electrodes"`
}

// Position returns the location of the electrode with the given channel label.
func (m *Montage) Position(label string) (Position, bool) {
	label = strings.TrimSpace(label)
	for _, e := range m.Electrodes {
		if strings.EqualFold(e.Label, label) {
			return e.Position, true
		}
	}
	return Position{}, false
}

// Apply returns the positions of the given channels that the montage knows about.
func (m *Montage) Apply(labels []string) map[string]Position {
	positions := make(map[string]Position, len(labels))
	for _, label := range labels {
		if p, ok := m.Position(label); ok {
			positions[label] = p
		}
	}
	return positions
}

var (
	loadOnce sync.Once
	montages []Montage
	loadErr  error
)

// All returns every built-in montage.
func All() ([]Montage, error) {
	loadOnce.Do(func() {
		montages, loadErr = parse(montagesYAML)
	})
	return montages, loadErr
}

// ForChannelCount returns the montage for a recording with n data channels.
func ForChannelCount(n int) (*Montage, bool) {
	all, err := All()
	if err != nil {
		return nil, false
	}
	for i := range all {
		for _, count := range all[i].ChannelCounts {
			if count == n {
				return &all[i], true
			}
		}
	}
	return nil, false
}

func parse(data []byte) ([]Montage, error) {
	var doc struct {
		Montages []Montage `yaml:"montages"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing montages: %w", err)
	}
	return doc.Montages, nil
}
