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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorruptCredentials is returned alongside empty Credentials when the
// credential file exists but cannot be parsed.
var ErrCorruptCredentials = errors.New("credential file is corrupt")

// Credentials is the persisted local state in config.json.
type Credentials struct {
	APIKey                    string `json:"apiKey,omitempty"`
	Email                     string `json:"email,omitempty"`
	HasSeenTips               bool   `json:"hasSeenTips,omitempty"`
	RetentionQuestionAnswered bool   `json:"retentionQuestionAnswered,omitempty"`
}

// LoggedIn reports whether a credential is stored.
func (c Credentials) LoggedIn() bool {
	return c.APIKey != ""
}

// CredentialStore reads and writes config.json.
//
// Concurrent invocations race on the file; the last writer wins. The file
// only holds idempotent flags besides the credential, so that is acceptable.
type CredentialStore struct {
	path string
}

// NewCredentialStore returns a store for config.json inside dir.
func NewCredentialStore(dir string) *CredentialStore {
	return &CredentialStore{path: filepath.Join(dir, CredentialsFileName)}
}

// Path returns the credential file location.
func (s *CredentialStore) Path() string {
	return s.path
}

// Load returns the stored credentials. A missing file yields empty
// credentials and no error; a corrupt one yields empty credentials and
// ErrCorruptCredentials.
func (s *CredentialStore) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrCorruptCredentials, err)
	}
	return creds, nil
}

// Save writes creds, creating the directory on first write. The file is
// replaced atomically and readable only by the owner.
func (s *CredentialStore) Save(creds Credentials) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// ClearLogin removes the credential and email but keeps the one-time flags.
func (s *CredentialStore) ClearLogin(creds Credentials) (Credentials, error) {
	creds.APIKey = ""
	creds.Email = ""
	return creds, s.Save(creds)
}
