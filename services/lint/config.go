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
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when no explicit path is given.
const DefaultConfigFile = ".governance-lint.yaml"

// Config holds linter configuration. Values are resolved in order:
// defaults, then the YAML config file, then GOVLINT_* environment
// variables. All fields have safe defaults, so a missing file is fine.
type Config struct {
	// Rules restricts linting to the listed rule IDs. Empty means all
	// five rules. Env: GOVLINT_RULES (comma-separated).
	Rules []string `yaml:"rules"`

	// Format is the output format, "text" or "json".
	// Env: GOVLINT_FORMAT (default: "text").
	Format string `yaml:"format"`

	// Pattern is the glob matched against file base names in directory
	// scans. Env: GOVLINT_PATTERN (default: "*.py").
	Pattern string `yaml:"pattern"`

	// Jobs bounds parallel file analysis. Zero means one worker per CPU.
	// Env: GOVLINT_JOBS (default: 0).
	Jobs int `yaml:"jobs"`

	// MaxFileSize is the largest source file accepted, in bytes.
	// Env: GOVLINT_MAX_FILE_SIZE (default: parser default).
	MaxFileSize int64 `yaml:"max_file_size"`

	// LogLevel is the slog level: debug, info, warn, or error.
	// Env: GOVLINT_LOG_LEVEL (default: "warn").
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Format:   string(FormatTypeText),
		Pattern:  DefaultPattern,
		LogLevel: "warn",
	}
}

// LoadConfig resolves configuration from the YAML file at path (ignored
// when missing; path may be empty to skip the file entirely) and GOVLINT_*
// environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Optional file.
		default:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("GOVLINT_RULES"); v != "" {
		cfg.Rules = splitList(v)
	}
	cfg.Format = envStr("GOVLINT_FORMAT", cfg.Format)
	cfg.Pattern = envStr("GOVLINT_PATTERN", cfg.Pattern)
	cfg.Jobs = envInt("GOVLINT_JOBS", cfg.Jobs)
	cfg.MaxFileSize = envInt64("GOVLINT_MAX_FILE_SIZE", cfg.MaxFileSize)
	cfg.LogLevel = envStr("GOVLINT_LOG_LEVEL", cfg.LogLevel)
	return cfg, nil
}

// splitList splits a comma-separated value into trimmed non-empty items.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// envStr reads a string environment variable with a default value.
func envStr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// envInt reads an integer environment variable with a default value.
func envInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// envInt64 reads an int64 environment variable with a default value.
func envInt64(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultVal
	}
	return n
}
