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

	"github.com/AleutianAI/governance-lint/services/lint/ast"
)

// Name sets for the no-ungoverned-tool-call rule. Every action an agent
// takes through a tool must be authorised by the governance layer before
// execution; skipping the check means the agent can perform arbitrary
// actions without policy enforcement.
var (
	// toolObjects are receiver names treated as tool handles.
	toolObjects = []string{"tool", "tools", "agent", "executor"}

	// toolMethods are method names treated as tool invocation verbs.
	toolMethods = []string{"run", "execute", "invoke", "call", "dispatch"}

	// governanceObjects are receiver names that carry a governance or
	// trust check.
	governanceObjects = []string{"engine", "governance", "trust", "policy", "aumos"}

	// governanceMethods are method names that constitute a governance check.
	governanceMethods = []string{"check", "verify", "validate", "authorize", "permit"}
)

// NewToolCallRule flags tool invocations that lack a prior governance check
// in the same function scope. The guard must occur strictly before the
// trigger; a check after the tool call is equivalent to no check.
func NewToolCallRule() Rule {
	return &callRule{
		id: "no-ungoverned-tool-call",
		description: "Require a governance check before every tool invocation. Tool calls " +
			"without a prior engine.check() / governance.check() in the same scope " +
			"are ungoverned and violate agent policy.",
		trigger: ast.NewCategory(toolObjects, toolMethods),
		guard:   ast.NewCategory(governanceObjects, governanceMethods),
		message: func(callee string) string {
			return fmt.Sprintf("'%s' is a tool invocation but no governance check "+
				"(e.g. engine.check() or governance.check()) was found before it "+
				"in the enclosing function. Add a check to authorise this action.", callee)
		},
	}
}
