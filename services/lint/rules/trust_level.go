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
	"fmt"
	"regexp"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/governance-lint/services/lint/ast"
)

// trustPattern matches identifier fragments that suggest a trust-level
// variable.
var trustPattern = regexp.MustCompile(`(?i)trust|level|tier|clearance`)

// maxMagicValue is the upper bound (inclusive) for magic number detection.
const maxMagicValue = 5

// comparisonOps are the operators the trust rule inspects. Membership and
// identity operators (in, is) are not numeric comparisons.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// trustLevelRule flags numeric literals in [0, 5] compared against a
// trust-related name. Unlike the call rules it operates on comparison
// expressions over the whole tree, not on calls within function scopes.
//
// Patterns flagged:
//
//	if level >= 3:           # 3 is a magic number
//	if trust_level == 2:     # 2 is a magic number
//	if user.trust > 1:       # 1 is a magic number
//
// Correct form:
//
//	if level >= TrustLevel.OPERATOR:
//	if trust_level == TRUST_ELEVATED:
type trustLevelRule struct{}

// NewTrustLevelRule returns the no-hardcoded-trust-level rule.
func NewTrustLevelRule() Rule {
	return trustLevelRule{}
}

func (trustLevelRule) ID() string { return "no-hardcoded-trust-level" }

func (trustLevelRule) Description() string {
	return "Disallow numeric literals (0-5) in trust-level comparisons. Use named " +
		"constants instead of magic numbers so the trust model is explicit and " +
		"easy to refactor."
}

// Check decomposes every comparison expression (chained comparisons
// included) into adjacent operand pairs and flags each pair where one side
// is a trust-related name and the other an integer literal in [0, 5].
// Exactly one violation is emitted per matching pair, positioned at the
// literal.
func (r trustLevelRule) Check(file *ast.SourceFile) []Violation {
	var violations []Violation

	for _, pair := range ast.ComparisonPairs(file.Root()) {
		if !comparisonOps[pair.Op] {
			continue
		}

		// Pattern A: trust_identifier OP numeric_literal
		if containsTrustName(pair.Left, file.Content) {
			if value, ok := smallIntLiteral(pair.Right, file.Content); ok {
				violations = append(violations, r.report(file, pair.Right, value))
			}
			continue
		}

		// Pattern B: numeric_literal OP trust_identifier (reversed)
		if value, ok := smallIntLiteral(pair.Left, file.Content); ok {
			if containsTrustName(pair.Right, file.Content) {
				violations = append(violations, r.report(file, pair.Left, value))
			}
		}
	}
	return violations
}

func (r trustLevelRule) report(file *ast.SourceFile, literal *sitter.Node, value int) Violation {
	return Violation{
		Rule: r.ID(),
		Message: fmt.Sprintf("Magic number %d used in a trust comparison. Replace with a "+
			"named constant (e.g. TrustLevel.OPERATOR or TRUST_ELEVATED) so the "+
			"intent is explicit.", value),
		File: file.Path,
		Line: int(literal.StartPoint().Row) + 1,
		Col:  int(literal.StartPoint().Column),
	}
}

// containsTrustName reports whether the node contains a name fragment
// matching trustPattern: a bare identifier, or (recursively) an attribute
// chain's base or final member name.
func containsTrustName(node *sitter.Node, content []byte) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case "identifier":
		return trustPattern.MatchString(ast.NodeText(node, content))
	case "attribute":
		if containsTrustName(node.ChildByFieldName("object"), content) {
			return true
		}
		return trustPattern.MatchString(ast.NodeText(node.ChildByFieldName("attribute"), content))
	}
	return false
}

// smallIntLiteral reports whether the node is an integer literal in
// [0, maxMagicValue], returning its value.
func smallIntLiteral(node *sitter.Node, content []byte) (int, bool) {
	if node == nil || node.Type() != "integer" {
		return 0, false
	}
	value, err := strconv.Atoi(ast.NodeText(node, content))
	if err != nil {
		return 0, false
	}
	if value < 0 || value > maxMagicValue {
		return 0, false
	}
	return value, true
}
