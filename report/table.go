// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package report renders recordings and segmentation results as text tables and structured
// documents.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableFormat selects the table border style.
type TableFormat string

const (
	TablePretty   TableFormat = "pretty"
	TableGrid     TableFormat = "grid"
	TableSimple   TableFormat = "simple"
	TablePlain    TableFormat = "plain"
	TableMarkdown TableFormat = "markdown"
)

// TableFormats lists the supported table formats.
var TableFormats = []TableFormat{TablePretty, TableGrid, TableSimple, TablePlain, TableMarkdown}

// ParseTableFormat validates a table format name.
func ParseTableFormat(s string) (TableFormat, error) {
	for _, f := range TableFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported table format: %q", s)
}

// Table renders rows under the given headers.
func Table(format TableFormat, headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				style = style.Bold(true)
			}
			return style
		})

	switch format {
	case TableGrid:
		t = t.Border(lipgloss.NormalBorder()).BorderRow(true)
	case TableSimple:
		t = t.Border(lipgloss.NormalBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false)
	case TablePlain:
		t = t.Border(lipgloss.HiddenBorder()).BorderHeader(false)
	case TableMarkdown:
		t = t.Border(lipgloss.MarkdownBorder()).BorderTop(false).BorderBottom(false)
	default:
		t = t.Border(lipgloss.RoundedBorder())
	}

	return t.String()
}
