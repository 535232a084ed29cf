// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import "strings"

// ColorizeDiff styles a unified diff: additions green, deletions red, hunk
// headers accent, context muted. Machine mode returns the text unchanged.
func ColorizeDiff(unified string) string {
	if GetPersonality().Level == PersonalityMachine || unified == "" {
		return unified
	}

	lines := strings.Split(strings.TrimRight(unified, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = Styles.Bold.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = Styles.Success.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = Styles.Error.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = Styles.Highlight.Render(line)
		default:
			lines[i] = Styles.Muted.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
