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

// Name sets for the require-budget-check rule. LLM calls, external API
// calls, and token consumption incur real cost; the budget must be checked
// before the spend, not after.
var (
	// spendObjects are receiver names that incur a spend or resource cost.
	spendObjects = []string{
		"api", "openai", "anthropic", "llm",
		"model", "tokens", "completion", "embedding",
	}

	// spendMethods are method names that constitute a spending operation.
	spendMethods = []string{
		"call", "chat", "complete", "generate", "embed", "use", "consume",
		"request", "create_completion", "create_chat_completion", "create",
	}

	// budgetObjects are receiver names that perform budget or quota checks.
	budgetObjects = []string{"budget", "cost", "quota", "spend", "billing", "tokens"}

	// budgetMethods are method names that constitute a budget check.
	budgetMethods = []string{"check", "verify", "can_spend", "has_quota", "authorize", "reserve"}
)

// NewBudgetCheckRule flags spending operations that lack a prior budget
// check in the same function scope.
func NewBudgetCheckRule() Rule {
	return &callRule{
		id: "require-budget-check",
		description: "Require a budget check before spending operations (LLM calls, external API " +
			"calls, token usage). Calls to openai.chat(), llm.complete(), tokens.use(), " +
			"etc. must be preceded by budget.check() or an equivalent.",
		trigger: ast.NewCategory(spendObjects, spendMethods),
		guard:   ast.NewCategory(budgetObjects, budgetMethods),
		message: func(callee string) string {
			return fmt.Sprintf("'%s' is a spending operation but no budget check "+
				"(e.g. budget.check() or quota.can_spend()) was found before it "+
				"in the enclosing function. Check available budget before "+
				"incurring cost.", callee)
		},
	}
}
