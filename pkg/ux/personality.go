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

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// PersonalityLevel defines how rich the CLI output is.
type PersonalityLevel string

const (
	// PersonalityFull enables boxes, banners, icons and tips.
	PersonalityFull PersonalityLevel = "full"

	// PersonalityStandard enables colours, icons and boxes.
	PersonalityStandard PersonalityLevel = "standard"

	// PersonalityMinimal uses icons and plain text only.
	PersonalityMinimal PersonalityLevel = "minimal"

	// PersonalityMachine prints prefixed plain lines for scripts.
	PersonalityMachine PersonalityLevel = "machine"
)

// Personality holds the current UX configuration.
type Personality struct {
	// Level controls overall richness.
	Level PersonalityLevel

	// ShowTips enables one-time usage tips.
	ShowTips bool
}

var (
	currentPersonality = DefaultPersonality()
	personalityMu      sync.RWMutex
)

// GetPersonality returns the current personality settings.
func GetPersonality() Personality {
	personalityMu.RLock()
	defer personalityMu.RUnlock()
	return currentPersonality
}

// SetPersonality replaces the current personality settings.
func SetPersonality(p Personality) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	currentPersonality = p
}

// SetPersonalityLevel updates just the level.
func SetPersonalityLevel(level PersonalityLevel) {
	personalityMu.Lock()
	defer personalityMu.Unlock()
	currentPersonality.Level = level
}

// ParsePersonalityLevel converts a name or abbreviation into a level.
// Unknown names yield PersonalityStandard and false.
func ParsePersonalityLevel(s string) (PersonalityLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "f":
		return PersonalityFull, true
	case "standard", "std", "s":
		return PersonalityStandard, true
	case "minimal", "min", "m":
		return PersonalityMinimal, true
	case "machine", "quiet", "q":
		return PersonalityMachine, true
	default:
		return PersonalityStandard, false
	}
}

// InitPersonality picks the level for this run.
//
// An explicit name (flag, env or settings) wins. Otherwise a non-terminal
// stdout selects machine output and a terminal selects standard.
func InitPersonality(name string) PersonalityLevel {
	if name != "" {
		if level, ok := ParsePersonalityLevel(name); ok {
			SetPersonalityLevel(level)
			return level
		}
	}
	if !StdoutIsTerminal() {
		SetPersonalityLevel(PersonalityMachine)
		return PersonalityMachine
	}
	SetPersonalityLevel(PersonalityStandard)
	return PersonalityStandard
}

// DefaultPersonality returns the default personality settings.
func DefaultPersonality() Personality {
	return Personality{
		Level:    PersonalityStandard,
		ShowTips: true,
	}
}

// =============================================================================
// Terminal Detection
// =============================================================================

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	return isTerminal(os.Stdout)
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return isTerminal(os.Stdin)
}

// IsInteractive reports whether prompts can be shown.
func IsInteractive() bool {
	return GetPersonality().Level != PersonalityMachine && StdinIsTerminal() && StdoutIsTerminal()
}

// ShouldShowProgress reports whether progress indicators are drawn.
func ShouldShowProgress() bool {
	return GetPersonality().Level != PersonalityMachine
}

// ShouldShowColors reports whether styled output is used.
func ShouldShowColors() bool {
	return GetPersonality().Level != PersonalityMachine
}

// =============================================================================
// Output Destinations
// =============================================================================

var (
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
	writerMu sync.RWMutex
)

// SetWriters redirects ux output and returns a function that restores the
// previous writers.
func SetWriters(out, errOut io.Writer) (restore func()) {
	writerMu.Lock()
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	writerMu.Unlock()

	return func() {
		writerMu.Lock()
		stdout, stderr = prevOut, prevErr
		writerMu.Unlock()
	}
}

// Stdout returns the current standard output destination.
func Stdout() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return stdout
}

// Stderr returns the current error output destination.
func Stderr() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return stderr
}
