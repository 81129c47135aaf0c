// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package autofix

import (
	"sort"
	"strings"
	"testing"

	"github.com/AleutianAI/governance-lint/services/lint/rules"
)

func TestSuggestFix_KnownRule(t *testing.T) {
	fixer := NewFixer()
	fix := fixer.SuggestFix(rules.Violation{
		Rule: "no-ungoverned-tool-call",
		File: "agent.py",
		Line: 12,
	})

	if fix == nil {
		t.Fatal("expected a fix suggestion")
	}
	if fix.FilePath != "agent.py" || fix.Line != 12 {
		t.Errorf("fix should carry the violation position, got %s:%d", fix.FilePath, fix.Line)
	}
	if fix.Rule != "no-ungoverned-tool-call" {
		t.Errorf("expected rule carried through, got %q", fix.Rule)
	}
	if !strings.Contains(fix.NewCode, "governance.check") {
		t.Errorf("expected suggested guard in new code, got %q", fix.NewCode)
	}
	if fix.Description == "" {
		t.Error("expected a non-empty description")
	}
}

func TestSuggestFix_UnknownRule(t *testing.T) {
	fixer := NewFixer()
	if fix := fixer.SuggestFix(rules.Violation{Rule: "io-error"}); fix != nil {
		t.Errorf("synthetic rules have no fix template, got %+v", fix)
	}
}

func TestSuggestAll_SkipsUnfixable(t *testing.T) {
	fixer := NewFixer()
	fixes := fixer.SuggestAll([]rules.Violation{
		{Rule: "require-budget-check", File: "a.py", Line: 3},
		{Rule: "parse-error", File: "b.py", Line: 1},
		{Rule: "no-hardcoded-trust-level", File: "c.py", Line: 7},
	})

	if len(fixes) != 2 {
		t.Fatalf("expected 2 fixes, got %d", len(fixes))
	}
	if fixes[0].Rule != "require-budget-check" || fixes[1].Rule != "no-hardcoded-trust-level" {
		t.Errorf("unexpected fix order: %q, %q", fixes[0].Rule, fixes[1].Rule)
	}
}

func TestSupportedRules_AllFiveSorted(t *testing.T) {
	fixer := NewFixer()
	ids := fixer.SupportedRules()

	if len(ids) != 5 {
		t.Fatalf("expected templates for all five rules, got %d", len(ids))
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("expected sorted rule IDs, got %v", ids)
	}
}

func TestCodeFix_String(t *testing.T) {
	fix := CodeFix{
		FilePath:    "agent.py",
		OldCode:     "tool.call(",
		NewCode:     "governance.check(action, context)\ntool.call(",
		Description: "Add a governance.check() call before invoking the tool.",
		Line:        12,
		Rule:        "no-ungoverned-tool-call",
	}

	rendered := fix.String()
	for _, want := range []string{"no-ungoverned-tool-call", "agent.py:12", "tool.call("} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected %q in rendered fix:\n%s", want, rendered)
		}
	}
}

func TestCodeFix_UnifiedDiff(t *testing.T) {
	fixer := NewFixer()
	fix := fixer.SuggestFix(rules.Violation{
		Rule: "no-hardcoded-trust-level",
		File: "gate.py",
		Line: 4,
	})
	if fix == nil {
		t.Fatal("expected a fix")
	}

	rendered, err := fix.UnifiedDiff()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rendered, "a/gate.py") || !strings.Contains(rendered, "b/gate.py") {
		t.Errorf("expected a/b file headers in diff:\n%s", rendered)
	}
	if !strings.Contains(rendered, "-trust_level == 3") {
		t.Errorf("expected removal line in diff:\n%s", rendered)
	}
	if !strings.Contains(rendered, "+trust_level == TrustLevel.L3") {
		t.Errorf("expected addition line in diff:\n%s", rendered)
	}
}
