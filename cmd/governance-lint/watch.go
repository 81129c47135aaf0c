// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/governance-lint/services/lint"
)

// debounceWindow coalesces the burst of write events editors emit when
// saving a file into a single re-lint.
const debounceWindow = 250 * time.Millisecond

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [flags] DIR [DIR...]",
		Short: "Re-lint Python files as they change on disk",
		Long: "Watch lints the given directories once, then re-lints any matching\n" +
			"file on every write until interrupted. Violations are printed per\n" +
			"file; the process runs until SIGINT or SIGTERM.",
		Args: cobra.MinimumNArgs(1),
		RunE: runWatch,

		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	linter, cfg, err := buildLinter()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	format, _ := lint.ParseFormat(cfg.Format)

	// Initial pass over everything before settling into the event loop.
	result, err := linter.Run(ctx, args, cfg.Pattern)
	if err != nil {
		return err
	}
	output, err := lint.FormatViolations(result.Active, format)
	if err != nil {
		return err
	}
	fmt.Println(output)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range args {
		if err := addWatchTree(watcher, root); err != nil {
			return err
		}
	}

	slog.Info("watching for changes", slog.Any("paths", args))
	return watchLoop(ctx, watcher, linter, cfg, format)
}

// addWatchTree registers root and, if it is a directory, every
// subdirectory beneath it. fsnotify does not watch recursively on its
// own, so new events only fire for registered directories.
func addWatchTree(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s", lint.ErrPathNotFound, root)
	}
	if !info.IsDir() {
		return watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", slog.String("path", path))
			return fs.SkipDir
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, linter *lint.Linter, cfg lint.Config, format lint.OutputFormat) error {
	pending := make(map[string]struct{})
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				// New directory: start watching it too.
				if err := watcher.Add(event.Name); err != nil {
					slog.Warn("could not watch new directory",
						slog.String("path", event.Name),
						slog.String("error", err.Error()))
				}
				continue
			}
			if matched, err := filepath.Match(cfg.Pattern, filepath.Base(event.Name)); err != nil || !matched {
				continue
			}
			pending[event.Name] = struct{}{}
			flush = time.After(debounceWindow)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", slog.String("error", err.Error()))

		case <-flush:
			flush = nil
			for path := range pending {
				relintFile(ctx, linter, format, path)
			}
			pending = make(map[string]struct{})
		}
	}
}

func relintFile(ctx context.Context, linter *lint.Linter, format lint.OutputFormat, path string) {
	result, err := linter.Run(ctx, []string{path}, "*")
	if err != nil {
		slog.Warn("re-lint failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	output, err := lint.FormatViolations(result.Active, format)
	if err != nil {
		slog.Warn("could not format violations", slog.String("error", err.Error()))
		return
	}
	fmt.Printf("--- %s @ %s\n%s\n", path, time.Now().Format(time.TimeOnly), output)
}
