// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package autofix produces advisory fix suggestions for governance lint
// violations. Suggestions are generated from a static per-rule template
// table and are never applied automatically; callers render them or apply
// the old/new snippets to the source themselves.
package autofix

import (
	"fmt"
	"sort"

	"github.com/AleutianAI/governance-lint/services/lint/rules"
)

// CodeFix is a suggested code fix for a governance lint violation.
type CodeFix struct {
	// FilePath is the file containing the violation.
	FilePath string

	// OldCode is the problematic code fragment.
	OldCode string

	// NewCode is the suggested replacement.
	NewCode string

	// Description explains the fix in one sentence.
	Description string

	// Line is where the fix should be applied (1-based).
	Line int

	// Rule is the rule ID that triggered this suggestion.
	Rule string
}

// String renders the fix for display.
func (f CodeFix) String() string {
	return fmt.Sprintf("[%s] %s:%d\n  Fix: %s\n  Replace: %q\n  With:    %q",
		f.Rule, f.FilePath, f.Line, f.Description, f.OldCode, f.NewCode)
}

// fixTemplate holds the canned before/after snippets for one rule.
type fixTemplate struct {
	oldCode     string
	newCode     string
	description string
}

// ruleFixes maps rule IDs to their fix templates. Rules without an entry
// have no auto-fix: not every violation can be fixed mechanically (some
// require design changes).
var ruleFixes = map[string]fixTemplate{
	"no-ungoverned-tool-call": {
		oldCode:     "tool.call(",
		newCode:     "governance.check(action, context)\ntool.call(",
		description: "Add a governance.check() call before invoking the tool.",
	},
	"no-unlogged-action": {
		oldCode:     "# ungoverned action",
		newCode:     "audit.log(decision)\n# action now logged",
		description: "Pass the governance decision to audit.log() to satisfy logging requirement.",
	},
	"no-hardcoded-trust-level": {
		oldCode:     "trust_level == 3",
		newCode:     "trust_level == TrustLevel.L3",
		description: "Replace the numeric literal with a named constant from TrustLevel.",
	},
	"require-consent-check": {
		oldCode:     "data_store.read(",
		newCode:     "consent.check(resource, agent_id)\ndata_store.read(",
		description: "Add a consent.check() call before accessing the data resource.",
	},
	"require-budget-check": {
		oldCode:     "spend(",
		newCode:     "budget.check(category, amount)\nspend(",
		description: "Add a budget.check() call before the spending operation.",
	},
}

// Fixer suggests code fixes for governance lint violations.
//
// Thread Safety: Safe for concurrent use (reads from an immutable table).
type Fixer struct{}

// NewFixer returns a Fixer.
func NewFixer() *Fixer {
	return &Fixer{}
}

// SuggestFix returns a fix suggestion for the violation, or nil when no
// template exists for its rule.
func (f *Fixer) SuggestFix(violation rules.Violation) *CodeFix {
	tmpl, ok := ruleFixes[violation.Rule]
	if !ok {
		return nil
	}
	return &CodeFix{
		FilePath:    violation.File,
		OldCode:     tmpl.oldCode,
		NewCode:     tmpl.newCode,
		Description: tmpl.description,
		Line:        violation.Line,
		Rule:        violation.Rule,
	}
}

// SuggestAll returns fix suggestions for every violation that has a
// template. Violations without one are silently skipped, so the result may
// be shorter than the input.
func (f *Fixer) SuggestAll(violations []rules.Violation) []CodeFix {
	fixes := make([]CodeFix, 0, len(violations))
	for _, violation := range violations {
		if fix := f.SuggestFix(violation); fix != nil {
			fixes = append(fixes, *fix)
		}
	}
	return fixes
}

// SupportedRules returns the sorted rule IDs that have fix templates.
func (f *Fixer) SupportedRules() []string {
	ids := make([]string, 0, len(ruleFixes))
	for id := range ruleFixes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
