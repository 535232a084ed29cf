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
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrPromptCancelled is returned when the operator aborts a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// ErrNonInteractive is returned for prompts that have no safe default.
var ErrNonInteractive = errors.New("interactive input is not available")

// UserPrompter abstracts interactive questions so commands can run against
// a terminal, a script or a test double.
type UserPrompter interface {
	// Confirm asks a yes/no question; defaultYes is the pre-selected answer.
	Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error)

	// Input asks for one line of text. validate may be nil.
	Input(ctx context.Context, prompt, defaultValue string, validate func(string) error) (string, error)

	// Password asks for a secret without echo.
	Password(ctx context.Context, prompt string) ([]byte, error)

	// Select asks for one of options and returns its index.
	Select(ctx context.Context, prompt string, options []string) (int, error)

	// IsInteractive reports whether a human can answer.
	IsInteractive() bool
}

// -----------------------------------------------------------------------------
// Terminal prompts
// -----------------------------------------------------------------------------

// HuhPrompter asks questions with charmbracelet/huh forms.
type HuhPrompter struct {
	accessible bool
}

// NewHuhPrompter creates a terminal prompter. Accessible mode renders plain
// line prompts instead of the TUI.
func NewHuhPrompter(accessible bool) *HuhPrompter {
	return &HuhPrompter{accessible: accessible}
}

func (p *HuhPrompter) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(false).
		WithAccessible(p.accessible)
	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrPromptCancelled
	}
	return err
}

// Confirm asks a yes/no question.
func (p *HuhPrompter) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	answer := defaultYes
	field := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)
	if err := p.run(ctx, field); err != nil {
		return false, err
	}
	return answer, nil
}

// Input asks for a line of text.
func (p *HuhPrompter) Input(ctx context.Context, prompt, defaultValue string, validate func(string) error) (string, error) {
	answer := defaultValue
	field := huh.NewInput().
		Title(prompt).
		Placeholder(defaultValue).
		Value(&answer)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := p.run(ctx, field); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Password asks for a secret with masked echo.
func (p *HuhPrompter) Password(ctx context.Context, prompt string) ([]byte, error) {
	var answer string
	field := huh.NewInput().
		Title(prompt).
		EchoMode(huh.EchoModePassword).
		Value(&answer)
	if err := p.run(ctx, field); err != nil {
		return nil, err
	}
	return []byte(answer), nil
}

// Select asks for one option.
func (p *HuhPrompter) Select(ctx context.Context, prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("no options to select from")
	}
	choice := 0
	opts := make([]huh.Option[int], len(options))
	for i, label := range options {
		opts[i] = huh.NewOption(label, i)
	}
	field := huh.NewSelect[int]().
		Title(prompt).
		Options(opts...).
		Value(&choice)
	if err := p.run(ctx, field); err != nil {
		return 0, err
	}
	return choice, nil
}

// IsInteractive returns true.
func (p *HuhPrompter) IsInteractive() bool { return true }

// -----------------------------------------------------------------------------
// Non-interactive prompts
// -----------------------------------------------------------------------------

// DefaultsPrompter answers every question with its default. It is used when
// stdin or stdout is not a terminal.
type DefaultsPrompter struct{}

// NewDefaultsPrompter creates a prompter that never blocks.
func NewDefaultsPrompter() *DefaultsPrompter {
	return &DefaultsPrompter{}
}

// Confirm returns defaultYes.
func (p *DefaultsPrompter) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return defaultYes, nil
}

// Input returns defaultValue.
func (p *DefaultsPrompter) Input(ctx context.Context, prompt, defaultValue string, validate func(string) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return defaultValue, nil
}

// Password has no default and fails with ErrNonInteractive.
func (p *DefaultsPrompter) Password(ctx context.Context, prompt string) ([]byte, error) {
	return nil, ErrNonInteractive
}

// Select has no default and fails with ErrNonInteractive.
func (p *DefaultsPrompter) Select(ctx context.Context, prompt string, options []string) (int, error) {
	return 0, ErrNonInteractive
}

// IsInteractive returns false.
func (p *DefaultsPrompter) IsInteractive() bool { return false }

// -----------------------------------------------------------------------------
// Test double
// -----------------------------------------------------------------------------

// PromptCall records one prompt shown through MockPrompter.
type PromptCall struct {
	Method  string
	Prompt  string
	Options []string
}

// MockPrompter is a scripted UserPrompter for tests. Unset funcs return
// zero values.
type MockPrompter struct {
	ConfirmFunc       func(ctx context.Context, prompt string, defaultYes bool) (bool, error)
	InputFunc         func(ctx context.Context, prompt, defaultValue string) (string, error)
	PasswordFunc      func(ctx context.Context, prompt string) ([]byte, error)
	SelectFunc        func(ctx context.Context, prompt string, options []string) (int, error)
	IsInteractiveFunc func() bool

	Calls []PromptCall
}

// Confirm records the call and delegates to ConfirmFunc.
func (m *MockPrompter) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	m.Calls = append(m.Calls, PromptCall{Method: "Confirm", Prompt: prompt})
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, prompt, defaultYes)
	}
	return false, nil
}

// Input records the call and delegates to InputFunc. validate is applied to
// the scripted answer.
func (m *MockPrompter) Input(ctx context.Context, prompt, defaultValue string, validate func(string) error) (string, error) {
	m.Calls = append(m.Calls, PromptCall{Method: "Input", Prompt: prompt})
	if m.InputFunc == nil {
		return "", nil
	}
	answer, err := m.InputFunc(ctx, prompt, defaultValue)
	if err != nil {
		return "", err
	}
	if validate != nil {
		if verr := validate(answer); verr != nil {
			return "", verr
		}
	}
	return answer, nil
}

// Password records the call and delegates to PasswordFunc.
func (m *MockPrompter) Password(ctx context.Context, prompt string) ([]byte, error) {
	m.Calls = append(m.Calls, PromptCall{Method: "Password", Prompt: prompt})
	if m.PasswordFunc != nil {
		return m.PasswordFunc(ctx, prompt)
	}
	return nil, nil
}

// Select records the call and delegates to SelectFunc.
func (m *MockPrompter) Select(ctx context.Context, prompt string, options []string) (int, error) {
	m.Calls = append(m.Calls, PromptCall{Method: "Select", Prompt: prompt, Options: options})
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, prompt, options)
	}
	return 0, nil
}

// IsInteractive defaults to true.
func (m *MockPrompter) IsInteractive() bool {
	if m.IsInteractiveFunc != nil {
		return m.IsInteractiveFunc()
	}
	return true
}

// Reset clears the call history.
func (m *MockPrompter) Reset() {
	m.Calls = nil
}

// CallsTo returns the recorded calls for one method.
func (m *MockPrompter) CallsTo(method string) []PromptCall {
	var out []PromptCall
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}
