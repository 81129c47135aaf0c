// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command governance-lint is a static analyzer that catches ungoverned
// agent actions in Python source code.
//
// Usage:
//
//	governance-lint [flags] PATH [PATH...]
//	governance-lint watch [flags] DIR
//
// Examples:
//
//	# Lint a directory tree with all five rules
//	governance-lint src/
//
//	# Restrict to specific rules, JSON output
//	governance-lint --rules no-ungoverned-tool-call,require-budget-check --format json src/
//
//	# Print advisory fix suggestions as unified diffs
//	governance-lint --suggest-fixes src/agent.py
//
// Exit codes:
//
//	0 — no active violations found
//	1 — one or more active violations found
//	2 — usage error (unknown rule ID, path not found)
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/governance-lint/services/lint"
	"github.com/AleutianAI/governance-lint/services/lint/ast"
	"github.com/AleutianAI/governance-lint/services/lint/autofix"
	"github.com/AleutianAI/governance-lint/services/lint/rules"
)

// Flag values for the root command.
var (
	flagRules          []string
	flagFormat         string
	flagConfig         string
	flagPattern        string
	flagJobs           int
	flagSuggestFixes   bool
	flagShowSuppressed bool
)

func main() {
	root := newRootCmd()
	root.AddCommand(newWatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "governance-lint: %v\n", err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "governance-lint [flags] PATH [PATH...]",
		Short: "Static analysis that catches ungoverned agent actions in Python source code",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLint,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringSliceVar(&flagRules, "rules", nil,
		"restrict linting to specific rule IDs (comma-separated)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "",
		"output format: text or json (default text)")
	cmd.PersistentFlags().StringVar(&flagConfig, "config", lint.DefaultConfigFile,
		"path to the YAML config file")
	cmd.PersistentFlags().StringVar(&flagPattern, "pattern", "",
		"glob matched against file base names in directory scans (default *.py)")
	cmd.PersistentFlags().IntVar(&flagJobs, "jobs", 0,
		"max files linted in parallel (default: one per CPU)")
	cmd.Flags().BoolVar(&flagSuggestFixes, "suggest-fixes", false,
		"print advisory fix suggestions as unified diffs")
	cmd.Flags().BoolVar(&flagShowSuppressed, "show-suppressed", false,
		"also list violations silenced by inline directives")

	return cmd
}

// buildLinter resolves config, flags, and the rule subset into a Linter.
func buildLinter() (*lint.Linter, lint.Config, error) {
	cfg, err := lint.LoadConfig(flagConfig)
	if err != nil {
		return nil, cfg, err
	}

	// Flags win over config file and environment.
	if len(flagRules) > 0 {
		cfg.Rules = flagRules
	}
	if flagFormat != "" {
		cfg.Format = flagFormat
	}
	if flagPattern != "" {
		cfg.Pattern = flagPattern
	}
	if flagJobs > 0 {
		cfg.Jobs = flagJobs
	}

	setupLogging(cfg.LogLevel)

	if _, err := lint.ParseFormat(cfg.Format); err != nil {
		return nil, cfg, err
	}

	selected, err := rules.Resolve(cfg.Rules)
	if err != nil {
		return nil, cfg, err
	}

	opts := []lint.Option{lint.WithRules(selected)}
	if cfg.Jobs > 0 {
		opts = append(opts, lint.WithConcurrency(cfg.Jobs))
	}
	if cfg.MaxFileSize > 0 {
		opts = append(opts, lint.WithParser(ast.NewParser(ast.WithMaxFileSize(cfg.MaxFileSize))))
	}
	return lint.New(opts...), cfg, nil
}

func runLint(cmd *cobra.Command, args []string) error {
	linter, cfg, err := buildLinter()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := linter.Run(ctx, args, cfg.Pattern)
	if err != nil {
		return err
	}

	format, _ := lint.ParseFormat(cfg.Format)
	output, err := lint.FormatViolations(result.Active, format)
	if err != nil {
		return err
	}
	fmt.Println(output)

	if flagShowSuppressed && len(result.Suppressed) > 0 {
		fmt.Printf("\n%d violation(s) suppressed by inline directives:\n", len(result.Suppressed))
		for _, violation := range result.Suppressed {
			fmt.Printf("  %s\n", violation)
		}
	}

	if flagSuggestFixes {
		printFixSuggestions(result.Active)
	}

	if len(result.Active) > 0 {
		os.Exit(1)
	}
	return nil
}

// printFixSuggestions renders an advisory unified diff for each violation
// that has a fix template. Fixes are never applied automatically.
func printFixSuggestions(violations []rules.Violation) {
	fixer := autofix.NewFixer()
	fixes := fixer.SuggestAll(violations)
	if len(fixes) == 0 {
		return
	}

	fmt.Printf("\n%d suggested fix(es):\n\n", len(fixes))
	for _, fix := range fixes {
		rendered, err := fix.UnifiedDiff()
		if err != nil {
			slog.Warn("could not render fix diff",
				slog.String("rule", fix.Rule),
				slog.String("error", err.Error()))
			fmt.Println(fix.String())
			continue
		}
		fmt.Println(rendered)
	}
}

// setupLogging installs a text slog handler at the configured level.
func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
