// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/governance-lint/services/lint/ast"
)

// ErrUnknownRule is returned by Resolve for a rule ID that does not exist.
var ErrUnknownRule = errors.New("unknown rule")

// Rule is a self-contained governance policy evaluated against one parsed
// file. Implementations are pure: Check is a deterministic function of the
// tree, shares no mutable state, and may be run concurrently across files.
type Rule interface {
	// ID returns the rule's category identifier, e.g. "require-budget-check".
	ID() string

	// Description returns a one-paragraph explanation of the policy.
	Description() string

	// Check evaluates the rule against every function-like scope in the
	// file and returns zero or more violations.
	Check(file *ast.SourceFile) []Violation
}

// Defaults returns a fresh ordered slice of all five governance rules.
// There is no process-wide registry: the orchestrator receives rules
// explicitly and never reads ambient state.
func Defaults() []Rule {
	return []Rule{
		NewToolCallRule(),
		NewUnloggedActionRule(),
		NewTrustLevelRule(),
		NewConsentCheckRule(),
		NewBudgetCheckRule(),
	}
}

// Resolve returns the subset of the default rules whose IDs appear in ids.
// A nil or empty ids selects all rules. Unknown IDs produce ErrUnknownRule
// with the offending names and the available IDs in the message.
func Resolve(ids []string) ([]Rule, error) {
	all := Defaults()
	if len(ids) == 0 {
		return all, nil
	}

	byID := make(map[string]Rule, len(all))
	known := make([]string, 0, len(all))
	for _, r := range all {
		byID[r.ID()] = r
		known = append(known, r.ID())
	}

	selected := make([]Rule, 0, len(ids))
	var unknown []string
	for _, r := range all {
		for _, id := range ids {
			if id == r.ID() {
				selected = append(selected, r)
				break
			}
		}
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s (available rules: %s)",
			ErrUnknownRule, strings.Join(unknown, ", "), strings.Join(known, ", "))
	}
	return selected, nil
}

// callRule is the shared implementation of the four call-pattern rules:
// for every function scope, each call matching the trigger category is
// checked for a guard-category call per the rule's ordering policy.
type callRule struct {
	id          string
	description string

	trigger ast.Category
	guard   ast.Category

	// guardAnywhere relaxes the ordering policy: the guard call may occur
	// anywhere in the scope instead of strictly before the trigger.
	guardAnywhere bool

	// guardFunctions are bare function names that also satisfy the guard
	// (only the audit-logging rule uses these).
	guardFunctions map[string]bool

	// message renders the violation message for a trigger callee.
	message func(callee string) string
}

func (r *callRule) ID() string          { return r.id }
func (r *callRule) Description() string { return r.description }

// Check walks every function scope, extracts its calls in document order,
// and flags each trigger call whose guard is absent under the rule's
// ordering policy. Violations are positioned at the triggering call.
func (r *callRule) Check(file *ast.SourceFile) []Violation {
	var violations []Violation

	for _, scope := range ast.FunctionScopes(file.Root()) {
		calls := ast.CollectCalls(scope, file.Content)

		for _, call := range calls {
			if !call.Matches(r.trigger) {
				continue
			}

			guarded := false
			if r.guardAnywhere {
				guarded = ast.CallsExist(calls, r.guard) ||
					(r.guardFunctions != nil && ast.BareCallsExist(calls, r.guardFunctions))
			} else {
				guarded = ast.CallsBefore(calls, call.Line, r.guard)
			}

			if !guarded {
				violations = append(violations, Violation{
					Rule:    r.id,
					Message: r.message(call.Callee()),
					File:    file.Path,
					Line:    call.Line,
					Col:     call.Col,
				})
			}
		}
	}
	return violations
}
