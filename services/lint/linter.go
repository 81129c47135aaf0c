// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lint orchestrates the governance rules against files and
// directory trees, merges and orders their violations, and applies inline
// suppression directives.
package lint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/governance-lint/services/lint/ast"
	"github.com/AleutianAI/governance-lint/services/lint/rules"
	"github.com/AleutianAI/governance-lint/services/lint/suppress"
)

// DefaultPattern is the glob matched against file base names during
// directory scans.
const DefaultPattern = "*.py"

// ErrPathNotFound is returned by Run when an input path does not exist.
// It is a usage error: fatal for the invocation, unlike per-file read or
// parse failures which surface as synthetic violations.
var ErrPathNotFound = errors.New("path not found")

var lintTracer = otel.Tracer("governance-lint.lint")

// Option configures a Linter.
type Option func(*Linter)

// WithRules sets the rule list the linter evaluates. The default is
// rules.Defaults(). The slice is used as given; rules are immutable after
// construction so sharing them is safe.
func WithRules(rs []rules.Rule) Option {
	return func(l *Linter) {
		if rs != nil {
			l.rules = rs
		}
	}
}

// WithParser sets the Python parser. The default is ast.NewParser().
func WithParser(p *ast.Parser) Option {
	return func(l *Linter) {
		if p != nil {
			l.parser = p
		}
	}
}

// WithConcurrency bounds the number of files linted in parallel during
// directory scans. The default is runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(l *Linter) {
		if n > 0 {
			l.jobs = n
		}
	}
}

// Linter runs a configured set of governance rules against Python files.
//
// Description:
//
//	Each file is parsed and analysed independently; rules are pure
//	functions of the tree and share no mutable state, so directory
//	batches lint files concurrently. A per-file failure (unreadable,
//	unparseable) surfaces as a single synthetic violation and never
//	aborts the batch.
//
// Thread Safety:
//
//	Linter instances are safe for concurrent use after construction.
type Linter struct {
	rules  []rules.Rule
	parser *ast.Parser
	jobs   int
}

// New creates a Linter with the given options.
//
// Example:
//
//	linter := lint.New()
//	violations := linter.LintFile(ctx, "src/agent.py")
//	fmt.Println(lint.FormatViolations(violations, lint.FormatTypeText))
func New(opts ...Option) *Linter {
	l := &Linter{
		rules:  rules.Defaults(),
		parser: ast.NewParser(),
		jobs:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Rules returns the linter's configured rule list.
func (l *Linter) Rules() []rules.Rule {
	return l.rules
}

// LintSource parses source and runs all enabled rules against its tree.
//
// Description:
//
//	Violations are sorted by (line, col) for deterministic output. When
//	the source cannot be parsed, a single parse-error violation carrying
//	the parser's message and position is returned and no rules run. A
//	terminal parser failure (oversized file, invalid encoding) is
//	reported as an io-error violation.
func (l *Linter) LintSource(ctx context.Context, content []byte, path string) []rules.Violation {
	ctx, span := lintTracer.Start(ctx, "lint.Linter.LintSource",
		trace.WithAttributes(attribute.String("file", path)))
	defer span.End()

	file, err := l.parser.Parse(ctx, content, path)
	if err != nil {
		recordFileLinted(statusIOError)
		return []rules.Violation{{
			Rule:    rules.IOErrorRule,
			Message: fmt.Sprintf("Could not read file: %v", err),
			File:    path,
			Line:    0,
			Col:     0,
		}}
	}
	defer file.Close()

	if synErr := file.SyntaxError(); synErr != nil {
		recordFileLinted(statusParseError)
		slog.Debug("skipping unparseable file",
			slog.String("file", path),
			slog.Int("line", synErr.Line))
		return []rules.Violation{{
			Rule:    rules.ParseErrorRule,
			Message: fmt.Sprintf("Syntax error: %s (line %d)", synErr.Msg, synErr.Line),
			File:    path,
			Line:    synErr.Line,
			Col:     synErr.Col,
		}}
	}

	var violations []rules.Violation
	for _, rule := range l.rules {
		violations = append(violations, rule.Check(file)...)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Col < violations[j].Col
	})

	recordFileLinted(statusOK)
	recordViolations(violations)
	span.SetAttributes(attribute.Int("violations", len(violations)))
	return violations
}

// LintFile reads and lints one file.
//
// Description:
//
//	An unreadable file (permissions, missing, encoding) yields a single
//	io-error violation at position 0,0 rather than an error: per-file
//	failures are local and must not abort batch processing.
func (l *Linter) LintFile(ctx context.Context, path string) []rules.Violation {
	content, err := os.ReadFile(path)
	if err != nil {
		recordFileLinted(statusIOError)
		return []rules.Violation{{
			Rule:    rules.IOErrorRule,
			Message: fmt.Sprintf("Could not read file: %v", err),
			File:    path,
			Line:    0,
			Col:     0,
		}}
	}
	return l.LintSource(ctx, content, path)
}

// LintDirectory recursively scans dirpath for files whose base name
// matches pattern (DefaultPattern when empty) and lints each one.
//
// Description:
//
//	Files are discovered in sorted order and linted independently with
//	bounded parallelism; per-file violation lists, already ordered by
//	(line, col), are concatenated in file order so the flat result is
//	totally ordered by (file, line, col). A failure in one file does not
//	abort the rest of the batch.
func (l *Linter) LintDirectory(ctx context.Context, dirpath, pattern string) []rules.Violation {
	ctx, span := lintTracer.Start(ctx, "lint.Linter.LintDirectory",
		trace.WithAttributes(attribute.String("dir", dirpath)))
	defer span.End()

	files, err := discoverFiles(dirpath, pattern)
	if err != nil {
		slog.Warn("directory scan failed",
			slog.String("dir", dirpath),
			slog.String("error", err.Error()))
		return nil
	}

	perFile := l.lintFiles(ctx, files)

	var all []rules.Violation
	for _, violations := range perFile {
		all = append(all, violations...)
	}
	span.SetAttributes(
		attribute.Int("files", len(files)),
		attribute.Int("violations", len(all)))
	return all
}

// lintFiles lints the given files concurrently, returning one violation
// list per file, index-aligned with the input.
func (l *Linter) lintFiles(ctx context.Context, files []string) [][]rules.Violation {
	perFile := make([][]rules.Violation, len(files))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(l.jobs)
	for i, path := range files {
		i, path := i, path
		group.Go(func() error {
			perFile[i] = l.LintFile(ctx, path)
			return nil
		})
	}
	// Workers never return errors; per-file failures become violations.
	_ = group.Wait()
	return perFile
}

// discoverFiles walks dirpath and returns the sorted list of regular files
// whose base name matches pattern.
func discoverFiles(dirpath, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	var files []string
	err := filepath.WalkDir(dirpath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, lint what we can reach.
			slog.Debug("skipping unreadable path", slog.String("path", path))
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		matched, matchErr := filepath.Match(pattern, entry.Name())
		if matchErr != nil {
			return fmt.Errorf("bad file pattern %q: %w", pattern, matchErr)
		}
		if matched {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Result is the outcome of a batch lint with suppression applied: the
// active violations and the ones silenced by inline directives. The two
// lists are disjoint; together they are the full violation set.
type Result struct {
	Active     []rules.Violation
	Suppressed []rules.Violation
}

// Run lints every given path (file or directory) with per-file suppression
// filtering. This is the batch entry point used by the CLI.
//
// Outputs:
//   - *Result: Active and suppressed violations, ordered by
//     (file, line, col).
//   - error: ErrPathNotFound when a path does not exist (usage error,
//     fatal for the invocation).
func (l *Linter) Run(ctx context.Context, paths []string, pattern string) (*Result, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		if info.IsDir() {
			discovered, err := discoverFiles(path, pattern)
			if err != nil {
				return nil, err
			}
			files = append(files, discovered...)
		} else {
			files = append(files, path)
		}
	}

	result := &Result{}
	perFile := make([]suppress.Report, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.jobs)
	for i, path := range files {
		i, path := i, path
		group.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				// No source text means no directives to honour.
				recordFileLinted(statusIOError)
				perFile[i] = suppress.Report{Active: []rules.Violation{{
					Rule:    rules.IOErrorRule,
					Message: fmt.Sprintf("Could not read file: %v", err),
					File:    path,
				}}}
				return nil
			}
			violations := l.LintSource(groupCtx, content, path)
			perFile[i] = suppress.Filter(violations, string(content))
			return nil
		})
	}
	_ = group.Wait()

	for _, report := range perFile {
		result.Active = append(result.Active, report.Active...)
		result.Suppressed = append(result.Suppressed, report.Suppressed...)
	}
	recordSuppressed(result.Suppressed)
	return result, nil
}
