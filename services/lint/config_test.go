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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err, "a missing config file is not an error")

	assert.Empty(t, cfg.Rules)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
	assert.Equal(t, 0, cfg.Jobs)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `rules:
  - no-ungoverned-tool-call
  - require-budget-check
format: json
pattern: "*.pyi"
jobs: 4
max_file_size: 1048576
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"no-ungoverned-tool-call", "require-budget-check"}, cfg.Rules)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "*.pyi", cfg.Pattern)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, int64(1048576), cfg.MaxFileSize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: [unbalanced"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: text\njobs: 2\n"), 0o644))

	t.Setenv("GOVLINT_FORMAT", "json")
	t.Setenv("GOVLINT_JOBS", "8")
	t.Setenv("GOVLINT_RULES", "no-unlogged-action, require-consent-check")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Equal(t, []string{"no-unlogged-action", "require-consent-check"}, cfg.Rules)
}

func TestLoadConfig_BadEnvIntKeepsDefault(t *testing.T) {
	t.Setenv("GOVLINT_JOBS", "lots")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Jobs)
}
