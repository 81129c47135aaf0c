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

// Name sets for the require-consent-check rule. Accessing personal or
// sensitive data without first verifying that the subject has consented is
// a privacy violation; the check must precede the access so the access is
// never performed when consent is absent.
var (
	// dataAccessObjects are receiver names that typically expose
	// data-access operations.
	dataAccessObjects = []string{
		"db", "database", "repo", "repository", "store",
		"user", "users", "profile", "customer",
	}

	// dataAccessMethods are method names that constitute a data access.
	dataAccessMethods = []string{
		"query", "find", "find_one", "find_all", "find_by_id",
		"fetch", "get", "read", "select", "load",
	}

	// consentObjects are receiver names that perform consent or privacy
	// checks.
	consentObjects = []string{"consent", "privacy", "gdpr", "permissions"}

	// consentMethods are method names that constitute a consent check.
	consentMethods = []string{"check", "verify", "has_consent", "is_allowed", "grant"}
)

// NewConsentCheckRule flags data-access calls that lack a prior consent
// check in the same function scope.
func NewConsentCheckRule() Rule {
	return &callRule{
		id: "require-consent-check",
		description: "Require a consent check before data-access operations. Calls to " +
			"db.query(), repo.find(), user.fetch(), etc. must be preceded by " +
			"consent.check() or an equivalent in the same function scope.",
		trigger: ast.NewCategory(dataAccessObjects, dataAccessMethods),
		guard:   ast.NewCategory(consentObjects, consentMethods),
		message: func(callee string) string {
			return fmt.Sprintf("'%s' accesses data but no consent check "+
				"(e.g. consent.check() or privacy.verify()) was found before it "+
				"in the enclosing function. Verify consent before reading "+
				"personal data.", callee)
		},
	}
}
