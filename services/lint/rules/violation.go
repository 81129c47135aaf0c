// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules defines the governance violation record and the five
// governance lint rules evaluated against parsed Python source files.
package rules

import "fmt"

// Rule identifiers for synthetic violations produced by the orchestrator
// rather than by a rule.
const (
	// IOErrorRule marks a file that could not be read.
	IOErrorRule = "io-error"
	// ParseErrorRule marks a file that could not be parsed.
	ParseErrorRule = "parse-error"
)

// Violation is an individual governance violation detected in a source
// file. Violations are immutable once constructed; they are created by a
// rule at the moment a policy breach is confirmed and only ever read
// afterwards (sorting, formatting, suppression classification).
type Violation struct {
	// Rule is the identifier of the rule that produced this violation,
	// e.g. "no-ungoverned-tool-call".
	Rule string `json:"rule"`

	// Message describes the violation and how to fix it.
	Message string `json:"message"`

	// File is the path to the file where the violation was found.
	File string `json:"file"`

	// Line is the 1-based line number of the violating expression.
	Line int `json:"line"`

	// Col is the 0-based column offset of the violating expression.
	Col int `json:"col"`
}

// String renders the violation as file:line:col: [rule] message.
func (v Violation) String() string {
	return fmt.Sprintf("%s:%d:%d: [%s] %s", v.File, v.Line, v.Col, v.Rule, v.Message)
}
