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
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// DefaultBarWidth is the quota bar width in cells.
const DefaultBarWidth = 30

// Fraction returns current/total clamped to [0, 1]. A non-positive total
// yields 0 rather than dividing by zero.
func Fraction(current, total int) float64 {
	if total <= 0 || current <= 0 {
		return 0
	}
	if current >= total {
		return 1
	}
	return float64(current) / float64(total)
}

// ProgressBar renders a plain block bar with a percentage.
func ProgressBar(current, total, width int) string {
	if GetPersonality().Level == PersonalityMachine {
		return fmt.Sprintf("%d/%d", current, total)
	}
	if width <= 0 {
		width = DefaultBarWidth
	}
	pct := Fraction(current, total)
	filled := int(pct*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	bar := Styles.Success.Render(strings.Repeat("█", filled)) +
		Styles.Muted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %.1f%%", bar, pct*100)
}

// QuotaBar renders monthly usage. Full and standard personalities draw a
// bubbles progress bar coloured by how close the quota is to exhaustion;
// minimal falls back to ProgressBar; machine prints "used/limit".
func QuotaBar(used, limit, width int) string {
	level := GetPersonality().Level
	switch level {
	case PersonalityMachine, PersonalityMinimal:
		return ProgressBar(used, limit, width)
	}
	if width <= 0 {
		width = DefaultBarWidth
	}

	pct := Fraction(used, limit)
	fill := ColorSuccess
	switch {
	case pct >= 1:
		fill = ColorError
	case limit-used <= 5:
		fill = ColorWarning
	}

	bar := progress.New(
		progress.WithSolidFill(string(fill)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return fmt.Sprintf("%s %.1f%%", bar.ViewAs(pct), pct*100)
}
