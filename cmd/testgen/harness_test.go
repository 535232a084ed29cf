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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/testorix/testgen/cmd/testgen/config"
	"github.com/testorix/testgen/cmd/testgen/internal/api"
	"github.com/testorix/testgen/pkg/logging"
	"github.com/testorix/testgen/pkg/ux"
)

// fakeAPI is a scripted API. Unset funcs return zero values.
type fakeAPI struct {
	LoginFunc          func(email, password string) (*api.LoginResponse, error)
	GenerateFunc       func(req api.GenerateRequest) (*api.GenerateResponse, error)
	UsageFunc          func() (*api.UsageStats, error)
	FeedbackStatusFunc func() (*api.FeedbackStatus, error)
	FeedbackErr        error

	Keys      []string
	Logins    []string
	Passwords []string
	Generated []api.GenerateRequest
	Feedback  []api.FeedbackRequest
	Usages    int
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*api.LoginResponse, error) {
	f.Logins = append(f.Logins, email)
	// The password aliases locked memory that is wiped after the call.
	f.Passwords = append(f.Passwords, strings.Clone(password))
	if f.LoginFunc != nil {
		return f.LoginFunc(email, password)
	}
	return &api.LoginResponse{APIKey: "key-123", Email: email}, nil
}

func (f *fakeAPI) Generate(_ context.Context, req api.GenerateRequest) (*api.GenerateResponse, error) {
	f.Generated = append(f.Generated, req)
	if f.GenerateFunc != nil {
		return f.GenerateFunc(req)
	}
	return &api.GenerateResponse{Success: true, TestCode: "test('ok', () => {});\n"}, nil
}

func (f *fakeAPI) Usage(_ context.Context) (*api.UsageStats, error) {
	f.Usages++
	if f.UsageFunc != nil {
		return f.UsageFunc()
	}
	return &api.UsageStats{UsageByLanguage: map[string]int{}}, nil
}

func (f *fakeAPI) SubmitFeedback(_ context.Context, req api.FeedbackRequest) error {
	f.Feedback = append(f.Feedback, req)
	return f.FeedbackErr
}

func (f *fakeAPI) FeedbackStatus(_ context.Context) (*api.FeedbackStatus, error) {
	if f.FeedbackStatusFunc != nil {
		return f.FeedbackStatusFunc()
	}
	return &api.FeedbackStatus{}, nil
}

// harness wires an App to a fake API, a scripted prompter and captured
// output.
type harness struct {
	App      *App
	API      *fakeAPI
	Prompter *MockPrompter
	Stdout   *bytes.Buffer
	Stderr   *bytes.Buffer
}

func newHarness(t *testing.T, personality ux.PersonalityLevel) *harness {
	t.Helper()

	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.Personality = string(personality)

	h := &harness{
		API:      &fakeAPI{},
		Prompter: &MockPrompter{},
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	}
	h.App = &App{
		ConfigDir:      dir,
		Settings:       settings,
		SettingsLoaded: true,
		Store:          config.NewCredentialStore(dir),
		Logger:         logging.Discard(),
		Prompter:       h.Prompter,
		Version:        "test",
	}
	h.App.NewClient = func(apiKey string) API {
		h.API.Keys = append(h.API.Keys, apiKey)
		return h.API
	}

	restore := ux.SetWriters(h.Stdout, h.Stderr)
	prev := ux.GetPersonality()
	ux.SetPersonalityLevel(personality)
	t.Cleanup(func() {
		restore()
		ux.SetPersonality(prev)
	})
	return h
}

// run executes the CLI with args and returns the exit code.
func (h *harness) run(args ...string) int {
	return execute(context.Background(), h.App, args)
}

func (h *harness) login(t *testing.T, creds config.Credentials) {
	t.Helper()
	require.NoError(t, h.App.Store.Save(creds))
}

func (h *harness) credentials(t *testing.T) config.Credentials {
	t.Helper()
	creds, err := h.App.Store.Load()
	require.NoError(t, err)
	return creds
}

// writeFile creates path under root with content, making parent dirs.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newJSProject lays out a jest project with src/math.ts.
func newJSProject(t *testing.T) (root, sourcePath string) {
	t.Helper()
	root = t.TempDir()
	writeFile(t, root, "package.json", `{
  "name": "calc",
  "dependencies": {"lodash": "^4.17.21"},
  "devDependencies": {"jest": "^29.0.0", "typescript": "^5.0.0"}
}`)
	sourcePath = writeFile(t, root, "src/math.ts",
		"import { sum } from 'lodash';\n\nexport function addNumbers(a: number, b: number) {\n  return sum([a, b]);\n}\n")
	return root, sourcePath
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }
