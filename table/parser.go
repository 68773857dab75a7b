// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package table

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/mithril/core"
)

const delimiter = "|"

// Result is the outcome of parsing one table.
type Result struct {
	// Columns are the header names in source order.
	Columns []string

	// Rows holds one FieldMap per accepted data row, in source order.
	Rows []core.FieldMap

	// Lines maps each entry of Rows to its 1-based source line number.
	Lines []int

	// Skipped counts data rows whose cell count did not match the header.
	Skipped int

	// Degraded counts cells whose value could not be cast to the declared type.
	Degraded int
}

// Parser turns pipe-delimited tables into typed field maps.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser that logs through logger.
// A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With("component", "table-parser")}
}

// Parse parses text with the package default parser.
func Parse(text string, schema core.Schema) *Result {
	return NewParser(nil).Parse(text, schema)
}

// Parse splits text into a header and data rows and casts every accepted row
// through schema. Malformed rows are counted, never returned as errors.
func (p *Parser) Parse(text string, schema core.Schema) *Result {
	result := &Result{}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	headerAt := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return result
	}
	result.Columns = splitCells(lines[headerAt])

	start := headerAt + 1
	if start < len(lines) && isSeparator(lines[start]) {
		start++
	}

	for i := start; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := splitCells(line)
		if len(cells) != len(result.Columns) {
			result.Skipped++
			p.logger.Debug("skipping misaligned row", "line", i+1, "cells", len(cells), "columns", len(result.Columns))
			continue
		}

		fields := make(core.FieldMap, len(cells))
		for c, column := range result.Columns {
			value, degraded := Cast(cells[c], schema.TypeOf(column))
			if degraded {
				result.Degraded++
				p.logger.Warn("could not cast cell, keeping raw value",
					"line", i+1, "field", column, "type", schema.TypeOf(column).String(), "value", cells[c])
			}
			fields[column] = value
		}
		result.Rows = append(result.Rows, fields)
		result.Lines = append(result.Lines, i+1)
	}

	return result
}

// ParseFile reads and parses a table file.
func (p *Parser) ParseFile(path string, schema core.Schema) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	return p.Parse(string(data), schema), nil
}

// splitCells splits a line on the delimiter, trims each token and drops the
// empty ones.
func splitCells(line string) []string {
	parts := strings.Split(line, delimiter)
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			cells = append(cells, part)
		}
	}
	return cells
}

// isSeparator reports whether line is a markdown header rule such as
// "|---|:---:|".
func isSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "-") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '-', '|', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}
