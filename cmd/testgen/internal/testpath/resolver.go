// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package testpath decides where a generated test file is written.
//
// Tests mirror the source tree under a test directory: the source path
// relative to the project root, minus a leading "src" segment, is joined onto
// the base test directory.
package testpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/testorix/testgen/cmd/testgen/internal/source"
)

// Request carries everything Resolve needs.
type Request struct {
	// SourcePath is the absolute path of the file under test.
	SourcePath string

	// Language selects the base directory default and the naming rule.
	Language source.Language

	// ProjectRoot is the detected or operator-supplied root; empty when
	// neither is available.
	ProjectRoot string

	// TestDirectory is a detected test directory relative to ProjectRoot.
	TestDirectory string

	// Output is an explicit destination that bypasses resolution entirely.
	Output string
}

// Resolve returns the absolute path the generated test should be written to.
//
// The base directory is the TestDirectory override if given. Otherwise PHP
// uses <root>/tests; JS/TS prefer an existing src/__tests__ when the source
// lives under src, then an existing <root>/__tests__, then <root>/tests. The
// base need not exist yet. Without a root the test sits next to the source.
func Resolve(req Request) string {
	if req.Output != "" {
		if abs, err := filepath.Abs(req.Output); err == nil {
			return abs
		}
		return req.Output
	}

	name := source.TestFileName(req.SourcePath, req.Language)
	if req.ProjectRoot == "" {
		return filepath.Join(filepath.Dir(req.SourcePath), name)
	}

	base := BaseDirectory(req)
	return filepath.Join(base, mirroredDir(req.ProjectRoot, req.SourcePath), name)
}

// BaseDirectory returns the test directory tests are mirrored under.
func BaseDirectory(req Request) string {
	root := req.ProjectRoot
	if req.TestDirectory != "" {
		return filepath.Join(root, req.TestDirectory)
	}
	if req.Language.IsPHP() {
		return filepath.Join(root, "tests")
	}

	if underSrc(root, req.SourcePath) {
		candidate := filepath.Join(root, "src", "__tests__")
		if isDir(candidate) {
			return candidate
		}
	}
	if candidate := filepath.Join(root, "__tests__"); isDir(candidate) {
		return candidate
	}
	return filepath.Join(root, "tests")
}

// mirroredDir is the source's directory relative to root with a leading
// "src" segment removed. Sources outside root mirror nothing.
func mirroredDir(root, sourcePath string) string {
	rel, err := filepath.Rel(root, filepath.Dir(sourcePath))
	if err != nil || rel == "." || escapes(rel) {
		return ""
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if parts[0] == "src" {
		parts = parts[1:]
	}
	return filepath.FromSlash(strings.Join(parts, "/"))
}

func underSrc(root, sourcePath string) bool {
	rel, err := filepath.Rel(root, filepath.Dir(sourcePath))
	if err != nil {
		return false
	}
	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	return first == "src"
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(filepath.ToSlash(rel), "../")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
