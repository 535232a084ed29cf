// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds testgen's on-disk state: YAML settings and the JSON
// credential file. Both live in one directory, ~/.testgen by default.
//
// Values are loaded once into explicit structs and passed to the commands
// that need them; changes are written back with an explicit Save.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the config directory under the user's home.
	DirName = ".testgen"

	// SettingsFileName holds user-editable YAML settings.
	SettingsFileName = "settings.yaml"

	// CredentialsFileName holds the credential and one-time flags.
	CredentialsFileName = "config.json"
)

// Environment overrides.
const (
	EnvConfigDir   = "TESTGEN_CONFIG_DIR"
	EnvAPIURL      = "TESTGEN_API_URL"
	EnvPersonality = "TESTGEN_PERSONALITY"
)

// Dir returns the config directory, honouring TESTGEN_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}
