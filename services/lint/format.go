// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/governance-lint/services/lint/rules"
)

// OutputFormat selects how violations are rendered for display.
type OutputFormat string

const (
	// FormatTypeText renders violations grouped by file with a summary line.
	FormatTypeText OutputFormat = "text"
	// FormatTypeJSON renders violations as an indented JSON array.
	FormatTypeJSON OutputFormat = "json"
)

// ParseFormat validates a format name from configuration or flags.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case FormatTypeText, "":
		return FormatTypeText, nil
	case FormatTypeJSON:
		return FormatTypeJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected text or json)", name)
}

// FormatViolations renders violations in the requested format.
func FormatViolations(violations []rules.Violation, format OutputFormat) (string, error) {
	if format == FormatTypeJSON {
		return formatJSON(violations)
	}
	return formatText(violations), nil
}

// formatText renders violations grouped by file: a path line per file, one
// indented "line:col  [rule]  message" line per violation, a blank line
// between file groups, and a trailing summary.
func formatText(violations []rules.Violation) string {
	if len(violations) == 0 {
		return "No governance violations found."
	}

	ordered := make([]rules.Violation, len(violations))
	copy(ordered, violations)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].File != ordered[j].File {
			return ordered[i].File < ordered[j].File
		}
		if ordered[i].Line != ordered[j].Line {
			return ordered[i].Line < ordered[j].Line
		}
		return ordered[i].Col < ordered[j].Col
	})

	var lines []string
	currentFile := ""
	for _, violation := range ordered {
		if violation.File != currentFile {
			if currentFile != "" {
				lines = append(lines, "")
			}
			lines = append(lines, "  "+violation.File)
			currentFile = violation.File
		}
		lines = append(lines, fmt.Sprintf("    %d:%d  [%s]  %s",
			violation.Line, violation.Col, violation.Rule, violation.Message))
	}

	plural := "s"
	if len(ordered) == 1 {
		plural = ""
	}
	lines = append(lines, "", fmt.Sprintf("  %d governance violation%s found.", len(ordered), plural))
	return strings.Join(lines, "\n")
}

// formatJSON renders violations as a 2-space-indented JSON array of
// records with exactly the five violation fields, in declaration order.
// The output parses back into records identical to the input.
func formatJSON(violations []rules.Violation) (string, error) {
	records := violations
	if records == nil {
		records = []rules.Violation{}
	}
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal violations: %w", err)
	}
	return string(out), nil
}
