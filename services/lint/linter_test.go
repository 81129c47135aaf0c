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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/governance-lint/services/lint/ast"
	"github.com/AleutianAI/governance-lint/services/lint/rules"
)

func TestLintSource_UngovernedToolCall(t *testing.T) {
	source := `def f():
    tool.run("x")
`
	linter := New()
	violations := linter.LintSource(context.Background(), []byte(source), "agent.py")

	require.Len(t, violations, 1)
	assert.Equal(t, "no-ungoverned-tool-call", violations[0].Rule)
	assert.Equal(t, "agent.py", violations[0].File)
	assert.Equal(t, 2, violations[0].Line)
	assert.Equal(t, 4, violations[0].Col)
}

func TestLintSource_CleanFile(t *testing.T) {
	source := `def f():
    engine.check(action)
    audit.log("checked")
    tool.run("x")
`
	linter := New()
	violations := linter.LintSource(context.Background(), []byte(source), "agent.py")

	assert.Empty(t, violations)
}

func TestLintSource_ParseError(t *testing.T) {
	source := `def broken(:
    pass
`
	linter := New()
	violations := linter.LintSource(context.Background(), []byte(source), "broken.py")

	require.Len(t, violations, 1, "rules must not run on an unparseable file")
	v := violations[0]
	assert.Equal(t, rules.ParseErrorRule, v.Rule)
	assert.Contains(t, v.Message, "Syntax error: invalid syntax (line")
	assert.GreaterOrEqual(t, v.Line, 1)
}

func TestLintSource_OversizedFileIsIOError(t *testing.T) {
	linter := New(WithParser(newTinyParser()))
	violations := linter.LintSource(context.Background(), []byte("x = 1  # this source exceeds the tiny limit\n"), "big.py")

	require.Len(t, violations, 1)
	assert.Equal(t, rules.IOErrorRule, violations[0].Rule)
	assert.Contains(t, violations[0].Message, "Could not read file:")
	assert.Equal(t, 0, violations[0].Line)
	assert.Equal(t, 0, violations[0].Col)
}

func TestLintSource_SortedByLineThenCol(t *testing.T) {
	// Violations from different rules interleave; output must be ordered
	// by position, not by rule.
	source := `def f(trust_level):
    if trust_level == 3:
        tool.run("x")
    llm.generate(p)
`
	linter := New()
	violations := linter.LintSource(context.Background(), []byte(source), "agent.py")

	require.GreaterOrEqual(t, len(violations), 3)
	for i := 1; i < len(violations); i++ {
		prev, cur := violations[i-1], violations[i]
		ordered := prev.Line < cur.Line || (prev.Line == cur.Line && prev.Col <= cur.Col)
		assert.True(t, ordered, "violations out of order: %v before %v", prev, cur)
	}
}

func TestLintSource_RuleSubset(t *testing.T) {
	source := `def f(trust_level):
    if trust_level == 3:
        tool.run("x")
`
	selected, err := rules.Resolve([]string{"no-hardcoded-trust-level"})
	require.NoError(t, err)

	linter := New(WithRules(selected))
	violations := linter.LintSource(context.Background(), []byte(source), "agent.py")

	require.Len(t, violations, 1)
	assert.Equal(t, "no-hardcoded-trust-level", violations[0].Rule)
}

func TestLintFile_UnreadablePath(t *testing.T) {
	linter := New()
	violations := linter.LintFile(context.Background(), filepath.Join(t.TempDir(), "missing.py"))

	require.Len(t, violations, 1)
	assert.Equal(t, rules.IOErrorRule, violations[0].Rule)
	assert.Contains(t, violations[0].Message, "Could not read file:")
}

func TestLintDirectory_RecursiveScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "def f():\n    tool.run(\"x\")\n")
	writeFile(t, filepath.Join(dir, "sub"), "b.py", "def g():\n    llm.generate(p)\n")
	writeFile(t, dir, "ignored.txt", "tool.run(\"x\")\n")

	linter := New()
	violations := linter.LintDirectory(context.Background(), dir, "")

	require.Len(t, violations, 2)
	// File order is sorted, so a.py precedes sub/b.py.
	assert.Contains(t, violations[0].File, "a.py")
	assert.Contains(t, violations[1].File, "b.py")
}

func TestRun_MissingPath(t *testing.T) {
	linter := New()
	_, err := linter.Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, "")

	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestRun_MixedFilesAndDirectories(t *testing.T) {
	dir := t.TempDir()
	direct := writeFile(t, dir, "direct.py", "def f():\n    tool.run(\"x\")\n")
	scanned := t.TempDir()
	writeFile(t, scanned, "scanned.py", "def g():\n    llm.generate(p)\n")

	linter := New()
	result, err := linter.Run(context.Background(), []string{direct, scanned}, "")

	require.NoError(t, err)
	require.Len(t, result.Active, 2)
	assert.Empty(t, result.Suppressed)
}

func TestRun_SuppressionApplied(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "def f():\n    tool.run(\"x\")  # governance-lint: disable\n")

	linter := New()
	result, err := linter.Run(context.Background(), []string{dir}, "")

	require.NoError(t, err)
	assert.Empty(t, result.Active)
	require.Len(t, result.Suppressed, 1)
	assert.Equal(t, "no-ungoverned-tool-call", result.Suppressed[0].Rule)
}

func TestRun_ParseErrorDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.py", "def broken(:\n")
	writeFile(t, dir, "good.py", "def f():\n    tool.run(\"x\")\n")

	linter := New()
	result, err := linter.Run(context.Background(), []string{dir}, "")

	require.NoError(t, err)
	require.Len(t, result.Active, 2)

	byRule := map[string]int{}
	for _, v := range result.Active {
		byRule[v.Rule]++
	}
	assert.Equal(t, 1, byRule[rules.ParseErrorRule])
	assert.Equal(t, 1, byRule["no-ungoverned-tool-call"])
}

func TestRun_CustomPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agent.py", "def f():\n    tool.run(\"x\")\n")
	writeFile(t, dir, "agent.pyi", "def f():\n    tool.run(\"x\")\n")

	linter := New()
	result, err := linter.Run(context.Background(), []string{dir}, "*.pyi")

	require.NoError(t, err)
	require.Len(t, result.Active, 1)
	assert.Contains(t, result.Active[0].File, "agent.pyi")
}

func TestNew_DefaultsToAllRules(t *testing.T) {
	linter := New()
	assert.Len(t, linter.Rules(), len(rules.Defaults()))
}

// writeFile creates dir if needed and writes a file beneath it, returning
// the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTinyParser returns a parser whose size limit rejects everything but
// trivially small files.
func newTinyParser() *ast.Parser {
	return ast.NewParser(ast.WithMaxFileSize(16))
}
