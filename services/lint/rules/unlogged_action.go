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

// Name sets for the no-unlogged-action rule. Governance decisions must be
// auditable: if a check is performed but its outcome is never recorded, the
// system cannot be retrospectively audited.
var (
	// auditObjects are receiver names associated with audit or structured
	// logging.
	auditObjects = []string{"audit", "logger", "log", "auditLog"}

	// auditMethods are method names for audit or structured logging.
	auditMethods = []string{"log", "write", "record", "emit", "info", "debug", "warn", "error"}

	// auditFunctions are standalone function names treated as audit log
	// calls.
	auditFunctions = map[string]bool{
		"auditLog":     true,
		"auditAction":  true,
		"logAction":    true,
		"recordAction": true,
	}
)

// NewUnloggedActionRule flags governance checks with no corresponding audit
// log call in the same scope. Unlike the ordering rules, the log call may
// appear anywhere in the scope — before or after the check — since the
// outcome is often logged in a then-branch or a finally block.
func NewUnloggedActionRule() Rule {
	return &callRule{
		id: "no-unlogged-action",
		description: "Require that every governance check is followed by an audit log call in " +
			"the same function scope. Un-logged governance decisions break audit trails.",
		trigger:        ast.NewCategory(governanceObjects, governanceMethods),
		guard:          ast.NewCategory(auditObjects, auditMethods),
		guardAnywhere:  true,
		guardFunctions: auditFunctions,
		message: func(callee string) string {
			return fmt.Sprintf("'%s' is a governance check but no audit log call "+
				"(e.g. audit.log() or logger.log()) was found in the enclosing "+
				"function. Log the outcome so it can be audited.", callee)
		},
	}
}
