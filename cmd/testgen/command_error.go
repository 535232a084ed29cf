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
	"fmt"
	"strings"
)

// CommandError carries a command failure and its process exit code up to
// main.
//
// # Description
//
// Commands render most failures themselves (with guidance, boxes and
// links) and then return a CommandError with Rendered set so main only
// maps it to an exit code. Unrendered errors have their Message printed by
// main.
//
// # Example
//
//	if !result.Valid {
//	    ux.Error(result.Error)
//	    return renderedError("generate", errors.New(result.Error))
//	}
type CommandError struct {
	// Command is the subcommand that failed, e.g. "generate".
	Command string

	// ExitCode is the process exit code.
	ExitCode int

	// Message is printed by main unless Rendered is set.
	Message string

	// Rendered means the command already reported the failure.
	Rendered bool

	// Wrapped is the underlying error (may be nil).
	Wrapped error
}

// Error returns a formatted error message.
func (e *CommandError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s (exit %d): %s", e.Command, e.ExitCode, e.Message)
	case e.Wrapped != nil:
		return fmt.Sprintf("%s (exit %d): %v", e.Command, e.ExitCode, e.Wrapped)
	default:
		return fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
	}
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Wrapped
}

// NewCommandError creates an unrendered CommandError.
func NewCommandError(command string, exitCode int, message string, wrapped error) *CommandError {
	return &CommandError{
		Command:  command,
		ExitCode: exitCode,
		Message:  strings.TrimSpace(message),
		Wrapped:  wrapped,
	}
}

// renderedError marks a failure the command has already shown to the user.
func renderedError(command string, wrapped error) *CommandError {
	return &CommandError{Command: command, ExitCode: 1, Rendered: true, Wrapped: wrapped}
}

// cancelledError ends the process cleanly after the operator aborted a
// top-level prompt.
func cancelledError(command string, wrapped error) *CommandError {
	return &CommandError{Command: command, ExitCode: 0, Rendered: true, Wrapped: wrapped}
}

// ExitCodeOf maps an error returned by a command to a process exit code.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrPromptCancelled) {
		return 0
	}
	return 1
}

// needsRendering reports whether main still has to print err.
func needsRendering(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return !cmdErr.Rendered
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, ErrPromptCancelled)
}

// messageOf returns the text main prints for an unrendered error.
func messageOf(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Message != "" {
		return cmdErr.Message
	}
	return err.Error()
}
