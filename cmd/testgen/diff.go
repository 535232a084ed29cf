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
	"bytes"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/testorix/testgen/pkg/ux"
)

const (
	// diffContext is the number of unchanged lines kept around a change.
	diffContext = 3

	// maxDiffCells bounds the LCS table; larger inputs skip the preview.
	maxDiffCells = 4_000_000
)

type opKind byte

const (
	opEqual  opKind = ' '
	opDelete opKind = '-'
	opInsert opKind = '+'
)

type lineOp struct {
	kind opKind
	text string
}

// unifiedDiff renders the change from existing to generated as a unified
// diff. ok is false when the inputs are identical or too large to compare.
func unifiedDiff(existing, generated string) (string, bool) {
	a, b := splitLines(existing), splitLines(generated)
	if len(a)*len(b) > maxDiffCells {
		return "", false
	}

	ops := diffLines(a, b)
	hunks := buildHunks(ops)
	if len(hunks) == 0 {
		return "", false
	}

	out, err := diff.PrintFileDiff(&diff.FileDiff{
		OrigName: "existing",
		NewName:  "generated",
		Hunks:    hunks,
	})
	if err != nil {
		return "", false
	}
	return string(out), true
}

// showDiff prints the colourised change preview.
func (a *App) showDiff(existing, generated string) {
	unified, ok := unifiedDiff(existing, generated)
	if !ok {
		ux.Muted("No line-level preview available. Changes will be applied.")
		return
	}
	ux.Title("Changes")
	for _, line := range strings.Split(ux.ColorizeDiff(unified), "\n") {
		ux.Info(line)
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// diffLines computes a line edit script from the longest common subsequence.
func diffLines(a, b []string) []lineOp {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]lineOp, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, lineOp{opEqual, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, lineOp{opDelete, a[i]})
			i++
		default:
			ops = append(ops, lineOp{opInsert, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, lineOp{opDelete, a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, lineOp{opInsert, b[j]})
	}
	return ops
}

// buildHunks groups an edit script into hunks with diffContext lines of
// context, merging changes whose context would overlap.
func buildHunks(ops []lineOp) []*diff.Hunk {
	var hunks []*diff.Hunk

	// origLine and newLine are the 1-based positions before ops[k].
	origAt := make([]int32, len(ops)+1)
	newAt := make([]int32, len(ops)+1)
	origAt[0], newAt[0] = 1, 1
	for k, op := range ops {
		origAt[k+1], newAt[k+1] = origAt[k], newAt[k]
		if op.kind != opInsert {
			origAt[k+1]++
		}
		if op.kind != opDelete {
			newAt[k+1]++
		}
	}

	k := 0
	for k < len(ops) {
		if ops[k].kind == opEqual {
			k++
			continue
		}
		start := max(k-diffContext, 0)

		// Extend the hunk until a run of unchanged lines is long enough to
		// separate it from the next change.
		end := k
		for end < len(ops) {
			if ops[end].kind != opEqual {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].kind == opEqual {
				run++
			}
			if run == len(ops) || run-end > 2*diffContext {
				end = min(end+diffContext, len(ops))
				break
			}
			end = run
		}

		hunk := &diff.Hunk{
			OrigStartLine: origAt[start],
			NewStartLine:  newAt[start],
		}
		var body bytes.Buffer
		for _, op := range ops[start:end] {
			body.WriteByte(byte(op.kind))
			body.WriteString(op.text)
			body.WriteByte('\n')
			if op.kind != opInsert {
				hunk.OrigLines++
			}
			if op.kind != opDelete {
				hunk.NewLines++
			}
		}
		// Empty ranges start at the line before, as in GNU diff.
		if hunk.OrigLines == 0 {
			hunk.OrigStartLine--
		}
		if hunk.NewLines == 0 {
			hunk.NewStartLine--
		}
		hunk.Body = body.Bytes()
		hunks = append(hunks, hunk)
		k = end
	}
	return hunks
}
