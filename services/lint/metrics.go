// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AleutianAI/governance-lint/services/lint/rules"
)

// Per-file lint outcomes.
const (
	statusOK         = "ok"
	statusIOError    = "io_error"
	statusParseError = "parse_error"
)

var (
	// filesLintedTotal counts linted files by outcome.
	// Labels: status (ok, io_error, parse_error)
	filesLintedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "govlint",
		Subsystem: "lint",
		Name:      "files_total",
		Help:      "Total files linted by outcome",
	}, []string{"status"})

	// violationsTotal counts detected violations by rule.
	// Labels: rule
	violationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "govlint",
		Subsystem: "lint",
		Name:      "violations_total",
		Help:      "Total governance violations detected by rule",
	}, []string{"rule"})

	// suppressedTotal counts violations silenced by inline directives.
	// Labels: rule
	suppressedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "govlint",
		Subsystem: "lint",
		Name:      "suppressed_total",
		Help:      "Total violations silenced by inline suppression directives",
	}, []string{"rule"})
)

// recordFileLinted records the outcome of one file's analysis.
func recordFileLinted(status string) {
	filesLintedTotal.WithLabelValues(status).Inc()
}

// recordViolations records detected violations by rule.
func recordViolations(violations []rules.Violation) {
	for _, violation := range violations {
		violationsTotal.WithLabelValues(violation.Rule).Inc()
	}
}

// recordSuppressed records violations silenced by directives.
func recordSuppressed(violations []rules.Violation) {
	for _, violation := range violations {
		suppressedTotal.WithLabelValues(violation.Rule).Inc()
	}
}
