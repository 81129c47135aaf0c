// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package suppress parses inline suppression directives from Python source
// and partitions violations into suppressed and active.
//
// Two directive forms are recognised as a trailing comment on a line:
//
//	# governance-lint: disable
//	# governance-lint: disable=RULE_NAME
//	    Suppresses violations reported on the same line as the comment.
//
//	# governance-lint: disable-next-line
//	# governance-lint: disable-next-line=RULE_NAME
//	    Suppresses violations on the line immediately following.
//
// The directive keyword is case-insensitive. Without =RULE_NAME a directive
// silences all rule categories on its target line. Suppressed violations
// are tracked separately in Report so operators can audit what is being
// silenced.
package suppress

import (
	"regexp"
	"strings"

	"github.com/AleutianAI/governance-lint/services/lint/rules"
)

// Directive kinds.
const (
	// KindDisable applies to violations on the directive's own line.
	KindDisable = "disable"
	// KindDisableNextLine applies to violations on the following line.
	KindDisableNextLine = "disable-next-line"
)

// Anchored to end-of-line after optional trailing whitespace so only a
// trailing comment qualifies. disable-next-line must be tested before the
// plain disable pattern: it is the more specific of the two and would
// otherwise be mis-parsed as a bare disable.
var (
	disableRe     = regexp.MustCompile(`(?i)#\s*governance-lint\s*:\s*disable(?:=([a-zA-Z0-9_\-]+))?\s*$`)
	disableNextRe = regexp.MustCompile(`(?i)#\s*governance-lint\s*:\s*disable-next-line(?:=([a-zA-Z0-9_\-]+))?\s*$`)
)

// Entry is a single parsed suppression directive.
type Entry struct {
	// Line is the 1-based line number where the directive appears.
	Line int

	// Kind is KindDisable or KindDisableNextLine.
	Kind string

	// Rule is the rule name suppressed, or "" to suppress all rules.
	Rule string
}

// covers reports whether the entry silences a violation of the given rule
// at the given line.
func (e Entry) covers(line int, rule string) bool {
	if e.Rule != "" && e.Rule != rule {
		return false
	}
	switch e.Kind {
	case KindDisable:
		return e.Line == line
	case KindDisableNextLine:
		return e.Line == line-1
	}
	return false
}

// Report is the partition of a violation list computed by Filter. The two
// lists are disjoint and together contain every input violation.
type Report struct {
	// Suppressed are violations covered by an inline directive.
	Suppressed []rules.Violation

	// Active are violations that remain after applying directives.
	Active []rules.Violation
}

// SuppressionCount returns the number of suppressed violations.
func (r Report) SuppressionCount() int {
	return len(r.Suppressed)
}

// ParseDirectives extracts all suppression directives from source, scanning
// line by line (1-based).
func ParseDirectives(source string) []Entry {
	var entries []Entry
	for i, lineText := range strings.Split(source, "\n") {
		stripped := strings.TrimSpace(lineText)

		if m := disableNextRe.FindStringSubmatch(stripped); m != nil {
			entries = append(entries, Entry{Line: i + 1, Kind: KindDisableNextLine, Rule: m[1]})
			continue
		}
		if m := disableRe.FindStringSubmatch(stripped); m != nil {
			entries = append(entries, Entry{Line: i + 1, Kind: KindDisable, Rule: m[1]})
		}
	}
	return entries
}

// Filter partitions violations into suppressed and active using the inline
// directives found in source.
//
// Description:
//
//	All directives for the file are parsed once before any classification.
//	A violation at (line, rule) is suppressed iff some entry covers it: a
//	disable entry on the same line, or a disable-next-line entry on the
//	preceding line, whose rule filter is empty or equals the violation's
//	rule. The partition preserves input order within each list.
func Filter(violations []rules.Violation, source string) Report {
	entries := ParseDirectives(source)

	report := Report{
		Suppressed: make([]rules.Violation, 0),
		Active:     make([]rules.Violation, 0, len(violations)),
	}

	for _, violation := range violations {
		covered := false
		for _, entry := range entries {
			if entry.covers(violation.Line, violation.Rule) {
				covered = true
				break
			}
		}
		if covered {
			report.Suppressed = append(report.Suppressed, violation)
		} else {
			report.Active = append(report.Active, violation)
		}
	}
	return report
}
