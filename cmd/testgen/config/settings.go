// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Settings are the user-editable options in settings.yaml.
type Settings struct {
	// APIURL is the TestGen service root.
	APIURL string `yaml:"api_url" validate:"required,url"`

	// MaxFileSize is the hard ceiling for source files, in bytes.
	MaxFileSize int64 `yaml:"max_file_size" validate:"gt=0"`

	// WarnFileSize is the soft threshold that triggers a warning.
	WarnFileSize int64 `yaml:"warn_file_size" validate:"gt=0,ltefield=MaxFileSize"`

	// RequestTimeout bounds each API call, e.g. "90s". Zero disables it.
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`

	// Personality is the output style: full, standard, minimal or machine.
	Personality string `yaml:"personality" validate:"omitempty,oneof=full standard minimal machine"`

	// LogDir enables diagnostic file logging when non-empty.
	LogDir string `yaml:"log_dir,omitempty"`

	// Feedback enables the post-generation feedback questions.
	Feedback bool `yaml:"feedback"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{
		APIURL:       "http://localhost:8000/api",
		MaxFileSize:  1024 * 1024,
		WarnFileSize: 500 * 1024,
		Personality:  "standard",
		Feedback:     true,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks settings for values the CLI cannot work with.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s failed %q (value: %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
}

// LoadSettings reads settings.yaml from dir, creating it with defaults on
// first run. Fields missing from the file keep their default values, and
// environment overrides are applied last.
//
// created reports whether the file was written by this call.
func LoadSettings(dir string) (settings Settings, created bool, err error) {
	path := filepath.Join(dir, SettingsFileName)

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return Settings{}, false, err
		}
		created = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, created, fmt.Errorf("failed to read the settings file: %w", err)
	}

	settings = DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, created, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	settings.applyEnv()
	if err := settings.Validate(); err != nil {
		return Settings{}, created, fmt.Errorf("%s: %w", path, err)
	}
	return settings, created, nil
}

func (s *Settings) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		s.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPersonality)); v != "" {
		s.Personality = strings.ToLower(v)
	}
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
