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
	"strings"
	"testing"
)

func TestFraction(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           float64
	}{
		{"half", 10, 20, 0.5},
		{"zero total", 5, 0, 0},
		{"negative total", 5, -3, 0},
		{"over limit", 25, 20, 1},
		{"negative current", -1, 20, 0},
		{"exact", 20, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fraction(tt.current, tt.total); got != tt.want {
				t.Errorf("Fraction(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func TestProgressBar_Guards(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMinimal)

	cases := []struct {
		current, total, width int
		wantPct               string
	}{
		{18, 20, 30, "90.0%"},
		{0, 0, 30, "0.0%"},
		{5, 0, 30, "0.0%"},
		{30, 20, 30, "100.0%"},
		{1, 3, 0, "33.3%"},
	}

	for _, c := range cases {
		bar := ProgressBar(c.current, c.total, c.width)
		if !strings.HasSuffix(bar, c.wantPct) {
			t.Errorf("ProgressBar(%d, %d, %d) = %q, want suffix %q", c.current, c.total, c.width, bar, c.wantPct)
		}
		width := c.width
		if width == 0 {
			width = DefaultBarWidth
		}
		cells := strings.Count(bar, "█") + strings.Count(bar, "░")
		if cells != width {
			t.Errorf("ProgressBar(%d, %d, %d) drew %d cells, want %d", c.current, c.total, c.width, cells, width)
		}
	}
}

func TestProgressBar_Machine(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	if got := ProgressBar(18, 20, 30); got != "18/20" {
		t.Errorf("ProgressBar() machine = %q", got)
	}
}

func TestQuotaBar_NoPanicOnZeroLimit(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	for _, level := range []PersonalityLevel{PersonalityFull, PersonalityStandard, PersonalityMinimal, PersonalityMachine} {
		SetPersonalityLevel(level)
		for _, c := range [][2]int{{0, 0}, {3, 0}, {20, 20}, {25, 20}, {18, 20}} {
			bar := QuotaBar(c[0], c[1], DefaultBarWidth)
			if bar == "" {
				t.Errorf("%s: QuotaBar(%d, %d) is empty", level, c[0], c[1])
			}
		}
	}
}

func TestQuotaBar_StandardShowsPercent(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityStandard)

	if bar := QuotaBar(18, 20, 20); !strings.HasSuffix(bar, "90.0%") {
		t.Errorf("QuotaBar(18, 20) = %q", bar)
	}
}

func TestColorizeDiff(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	diff := "--- existing\n+++ generated\n@@ -1,2 +1,2 @@\n keep\n-old\n+new\n"

	SetPersonalityLevel(PersonalityMachine)
	if got := ColorizeDiff(diff); got != diff {
		t.Errorf("machine ColorizeDiff() changed text: %q", got)
	}

	SetPersonalityLevel(PersonalityStandard)
	got := ColorizeDiff(diff)
	for _, want := range []string{"-old", "+new", "@@ -1,2 +1,2 @@", " keep"} {
		if !strings.Contains(got, want) {
			t.Errorf("ColorizeDiff() missing %q: %q", want, got)
		}
	}
	if ColorizeDiff("") != "" {
		t.Error("empty diff should stay empty")
	}
}
