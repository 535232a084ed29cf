// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package project locates a source file's project root and reads the
// manifests found there.
//
// Two manifest kinds are recognised: package.json for the JavaScript and
// TypeScript ecosystem and composer.json for PHP. The locator treats either
// one as authoritative and falls back to conventional source directory names
// when a tree has no manifest at the level being scanned.
package project

import (
	"os"
	"path/filepath"
)

const (
	// PackageManifest is the JavaScript/TypeScript ecosystem manifest.
	PackageManifest = "package.json"

	// ComposerManifest is the PHP ecosystem manifest.
	ComposerManifest = "composer.json"

	// MaxAncestorSteps bounds the upward walk.
	MaxAncestorSteps = 10
)

// sourceDirs are the weaker root signals, checked only when no manifest is present.
var sourceDirs = []string{"src", "app", "lib"}

// Locator finds the nearest project root above a path.
type Locator struct {
	// MaxSteps is the number of directories inspected, the start included.
	MaxSteps int

	// stat is swapped out in tests.
	stat func(path string) (os.FileInfo, error)
}

// NewLocator returns a Locator bounded by MaxAncestorSteps.
func NewLocator() *Locator {
	return &Locator{MaxSteps: MaxAncestorSteps, stat: os.Stat}
}

// FindRoot is shorthand for NewLocator().FindRoot(start).
func FindRoot(start string) (string, bool) {
	return NewLocator().FindRoot(start)
}

// FindRoot walks upward from start and returns the first directory holding
// a manifest or, failing that, one of the conventional source directories.
//
// When start is a file the walk begins at its containing directory. The walk
// stops after MaxSteps directories or at the filesystem root, whichever
// comes first; ok is false if nothing matched.
func (l *Locator) FindRoot(start string) (root string, ok bool) {
	current := start
	if !l.isDir(start) {
		current = filepath.Dir(start)
	}

	for i := 0; i < l.MaxSteps; i++ {
		if l.hasManifest(current) || l.hasSourceDir(current) {
			return current, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return "", false
}

func (l *Locator) hasManifest(dir string) bool {
	return l.exists(filepath.Join(dir, PackageManifest)) || l.exists(filepath.Join(dir, ComposerManifest))
}

func (l *Locator) hasSourceDir(dir string) bool {
	for _, name := range sourceDirs {
		if l.isDir(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

func (l *Locator) exists(path string) bool {
	_, err := l.stat(path)
	return err == nil
}

func (l *Locator) isDir(path string) bool {
	info, err := l.stat(path)
	return err == nil && info.IsDir()
}
