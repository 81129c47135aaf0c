// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package autofix

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// UnifiedDiff renders the fix as a unified diff against the file it
// applies to, suitable for terminal display or piping into a review tool.
//
// Outputs:
//   - string: The unified diff text.
//   - error: Non-nil when the diff cannot be printed.
func (f CodeFix) UnifiedDiff() (string, error) {
	oldLines := strings.Split(f.OldCode, "\n")
	newLines := strings.Split(f.NewCode, "\n")

	var body strings.Builder
	for _, line := range oldLines {
		body.WriteString("-" + line + "\n")
	}
	for _, line := range newLines {
		body.WriteString("+" + line + "\n")
	}

	fileDiff := &diff.FileDiff{
		OrigName: "a/" + f.FilePath,
		NewName:  "b/" + f.FilePath,
		Hunks: []*diff.Hunk{
			{
				OrigStartLine: int32(f.Line),
				OrigLines:     int32(len(oldLines)),
				NewStartLine:  int32(f.Line),
				NewLines:      int32(len(newLines)),
				Section:       f.Rule,
				Body:          []byte(body.String()),
			},
		},
	}

	out, err := diff.PrintFileDiff(fileDiff)
	if err != nil {
		return "", fmt.Errorf("print fix diff: %w", err)
	}
	return string(out), nil
}
