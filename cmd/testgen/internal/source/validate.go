// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultMaxSize is the hard ceiling for a source file.
	DefaultMaxSize int64 = 1024 * 1024

	// DefaultWarnSize is the soft threshold above which generation is
	// expected to take longer.
	DefaultWarnSize int64 = 500 * 1024
)

// Limits holds the size thresholds applied by Validate.
type Limits struct {
	// MaxSize is the hard ceiling in bytes; larger files fail validation.
	MaxSize int64

	// WarnSize is the soft threshold in bytes; larger files only warn.
	WarnSize int64
}

// DefaultLimits returns the 1 MB ceiling and 500 KB warning threshold.
func DefaultLimits() Limits {
	return Limits{MaxSize: DefaultMaxSize, WarnSize: DefaultWarnSize}
}

// ValidationResult is the outcome of Validate.
//
// Warnings are non-fatal and may be present on a valid result.
type ValidationResult struct {
	Valid    bool
	Error    string
	Warnings []string
	Size     int64
}

// Validate checks that path exists, is a regular file and fits the limits.
//
// An unsupported extension produces a warning rather than a failure;
// language detection is the step that rejects it later.
func Validate(path string, limits Limits) ValidationResult {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ValidationResult{Error: fmt.Sprintf("File not found: %s", path)}
		}
		return ValidationResult{Error: fmt.Sprintf("Cannot access file: %s (%v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return ValidationResult{Error: fmt.Sprintf("Path is not a file: %s", path)}
	}

	result := ValidationResult{Valid: true, Size: info.Size()}

	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedExtension(ext) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"File extension %q may not be fully supported. Supported extensions: %s",
			ext, strings.Join(SupportedExtensions, ", ")))
	}

	if limits.MaxSize > 0 && info.Size() > limits.MaxSize {
		return ValidationResult{
			Size: info.Size(),
			Error: fmt.Sprintf("File too large (%s). Maximum size is %s.",
				FormatBytes(info.Size()), FormatBytes(limits.MaxSize)),
		}
	}

	if limits.WarnSize > 0 && info.Size() > limits.WarnSize {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Large file detected (%s). Generation may take longer.", FormatBytes(info.Size())))
	}

	return result
}

// FormatBytes renders n in B, KB or MB with a 1024 step.
func FormatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	}
}

// ReadFile returns the file content as a string.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// WriteFile writes content to path, creating missing parent directories.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
