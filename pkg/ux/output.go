// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux renders testgen's terminal output.
//
// Every helper respects the current PersonalityLevel: styled output for
// full/standard, icons without colour for minimal, and prefixed plain lines
// ("OK:", "WARN:", "ERROR:") for machine mode so scripts can parse results.
package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TestGen palette.
var (
	ColorBrand     = lipgloss.Color("#7C5CFF") // violet, titles and rules
	ColorBrandSoft = lipgloss.Color("#A996FF") // secondary headings
	ColorAccent    = lipgloss.Color("#22D3EE") // commands, links, hunk headers

	ColorSuccess = lipgloss.Color("#34D399")
	ColorWarning = lipgloss.Color("#FBBF24")
	ColorError   = lipgloss.Color("#F87171")
	ColorMuted   = lipgloss.Color("#6B7280")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Link      lipgloss.Style
	Rule      lipgloss.Style

	Box        lipgloss.Style
	WarningBox lipgloss.Style
	ErrorBox   lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorBrand),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorBrandSoft),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorAccent).Bold(true),
	Link:      lipgloss.NewStyle().Foreground(ColorAccent).Underline(true),
	Rule:      lipgloss.NewStyle().Foreground(ColorBrand),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBrand).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconTip     Icon = "💡"
	IconPremium Icon = "✨"
)

// Render returns the icon with its semantic colour.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

const ruleWidth = 40

func outln(a ...any) {
	fmt.Fprintln(Stdout(), a...)
}

func outf(format string, a ...any) {
	fmt.Fprintf(Stdout(), format, a...)
}

// Blank prints an empty line outside machine mode.
func Blank() {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	outln()
}

// Title prints a styled title.
func Title(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	outln(Styles.Title.Render(text))
}

// Banner prints a title framed by horizontal rules.
func Banner(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	rule := Styles.Rule.Render(strings.Repeat("━", ruleWidth))
	outln(rule)
	outln(Styles.Title.Render("  " + text))
	outln(rule)
}

// Rule prints a horizontal rule.
func Rule() {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	outln(Styles.Rule.Render(strings.Repeat("━", ruleWidth)))
}

// Success prints a success message with a checkmark.
func Success(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		outf("OK: %s\n", text)
	case PersonalityMinimal:
		outf("%s %s\n", IconSuccess, text)
	default:
		outf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
	}
}

// Warning prints a warning message.
func Warning(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(Stderr(), "WARN: %s\n", text)
	case PersonalityMinimal:
		outf("%s %s\n", IconWarning, text)
	default:
		outf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
	}
}

// Error prints an error message. Errors always go to stderr.
func Error(text string) {
	switch GetPersonality().Level {
	case PersonalityMachine:
		fmt.Fprintf(Stderr(), "ERROR: %s\n", text)
	case PersonalityMinimal:
		fmt.Fprintf(Stderr(), "%s %s\n", IconError, text)
	default:
		fmt.Fprintf(Stderr(), "%s %s\n", IconError.Render(), Styles.Error.Render(text))
	}
}

// Info prints an informational line.
func Info(text string) {
	outln(text)
}

// Muted prints secondary text, hidden in machine mode.
func Muted(text string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	outln(Styles.Muted.Render(text))
}

// Detail prints an indented "label: value" line.
func Detail(label string, value any) {
	if GetPersonality().Level == PersonalityMachine {
		outf("%s=%v\n", machineKey(label), value)
		return
	}
	outf("  %s %v\n", Styles.Muted.Render(label+":"), value)
}

// Field prints a bold "label: value" line.
func Field(label string, value any) {
	if GetPersonality().Level == PersonalityMachine {
		outf("%s=%v\n", machineKey(label), value)
		return
	}
	outf("%s %v\n", Styles.Bold.Render(label+":"), value)
}

// Hint prints guidance that names a command, e.g. "Run testgen login".
func Hint(prefix, command, suffix string) {
	if GetPersonality().Level == PersonalityMachine {
		return
	}
	line := Styles.Muted.Render(prefix) + " " + Styles.Highlight.Render(command)
	if suffix != "" {
		line += " " + Styles.Muted.Render(suffix)
	}
	outln(line)
}

// Link prints a labelled URL.
func Link(label, url string) {
	if GetPersonality().Level == PersonalityMachine {
		outf("%s %s\n", label, url)
		return
	}
	outf("%s %s\n", Styles.Muted.Render(label), Styles.Link.Render(url))
}

// Box prints content in a rounded box.
func Box(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		outf("%s: %s\n", title, content)
		return
	}
	outln(Styles.Box.Width(60).Render(Styles.Title.Render(title) + "\n" + content))
}

// WarningBox prints content in a warning-styled box.
func WarningBox(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(Stderr(), "WARN %s: %s\n", title, content)
		return
	}
	outln(Styles.WarningBox.Width(60).Render(Styles.Warning.Bold(true).Render(title) + "\n" + content))
}

// ErrorBox prints content in an error-styled box on stderr.
func ErrorBox(title, content string) {
	if GetPersonality().Level == PersonalityMachine {
		fmt.Fprintf(Stderr(), "ERROR %s: %s\n", title, content)
		return
	}
	fmt.Fprintln(Stderr(), Styles.ErrorBox.Width(60).Render(Styles.Error.Bold(true).Render(title)+"\n"+content))
}

// Tip prints a one-time usage tip when tips are enabled.
func Tip(lines ...string) {
	p := GetPersonality()
	if !p.ShowTips || p.Level == PersonalityMachine || len(lines) == 0 {
		return
	}
	if p.Level == PersonalityMinimal {
		for _, line := range lines {
			outln("Tip: " + line)
		}
		return
	}
	outln(Styles.Box.Width(60).Render(
		Styles.Subtitle.Render(string(IconTip)+" Tip") + "\n" + strings.Join(lines, "\n")))
}

// machineKey turns a label such as "Monthly Quota" into "monthly_quota".
func machineKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.Fields(key), "_")
}
