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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testorix/testgen/cmd/testgen/config"
	"github.com/testorix/testgen/cmd/testgen/internal/api"
	"github.com/testorix/testgen/pkg/ux"
)

func TestGenerate_WritesTestNextToProjectTests(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	root, src := newJSProject(t)

	code := h.run("generate", src)

	require.Equal(t, 0, code, "stderr: %s", h.Stderr.String())
	testPath := filepath.Join(root, "tests", "math.test.ts")
	data, err := os.ReadFile(testPath)
	require.NoError(t, err)
	assert.Equal(t, "test('ok', () => {});\n", string(data))
	assert.Contains(t, h.Stdout.String(), "OK: Test created")
	assert.Contains(t, h.Stdout.String(), testPath)

	require.Len(t, h.API.Generated, 1)
	req := h.API.Generated[0]
	assert.Equal(t, "math.ts", req.FileName)
	assert.Equal(t, "ts", req.Language)
	require.NotNil(t, req.ProjectContext)
	assert.Equal(t, root, req.ProjectContext.ProjectRoot)
	assert.Equal(t, "jest", req.ProjectContext.TestFramework)
	assert.Contains(t, req.ProjectContext.FileImports, "lodash")
}

func TestGenerate_AnonymousUsesEmptyKey(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	_, src := newJSProject(t)

	require.Equal(t, 0, h.run("generate", src))
	require.NotEmpty(t, h.API.Keys)
	assert.Equal(t, "", h.API.Keys[0])
}

func TestGenerate_LoggedInSendsKey(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	h.login(t, config.Credentials{APIKey: "secret", Email: "dev@example.com"})
	_, src := newJSProject(t)

	require.Equal(t, 0, h.run("generate", src))
	require.NotEmpty(t, h.API.Keys)
	assert.Equal(t, "secret", h.API.Keys[len(h.API.Keys)-1])
}

func TestGenerate_OutputFlagOverridesPath(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	_, src := newJSProject(t)
	out := filepath.Join(t.TempDir(), "custom", "math.spec.ts")

	require.Equal(t, 0, h.run("generate", src, "--output", out))
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestGenerate_ValidationFailureMakesNoRequest(t *testing.T) {
	tests := []struct {
		name    string
		maxSize int64
		file    func(t *testing.T) string
	}{
		{"missing file", 0, func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.ts") }},
		{"unsupported extension", 0, func(t *testing.T) string { return writeFile(t, t.TempDir(), "main.py", "print(1)\n") }},
		{"ruby script", 0, func(t *testing.T) string { return writeFile(t, t.TempDir(), "script.rb", "puts 1\n") }},
		{"directory", 0, func(t *testing.T) string { return t.TempDir() }},
		{"too large", 8, func(t *testing.T) string { return writeFile(t, t.TempDir(), "big.js", "const value = 1;\n") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, ux.PersonalityStandard)
			h.App.Settings.Personality = string(ux.PersonalityStandard)
			h.login(t, config.Credentials{APIKey: "k", Email: "dev@example.com"})
			statusCalls := 0
			h.API.FeedbackStatusFunc = func() (*api.FeedbackStatus, error) {
				statusCalls++
				return &api.FeedbackStatus{CanAskRetention: true}, nil
			}
			if tt.maxSize > 0 {
				h.App.Settings.MaxFileSize = tt.maxSize
				h.App.Settings.WarnFileSize = tt.maxSize
			}

			code := h.run("generate", tt.file(t))

			assert.Equal(t, 1, code)
			assert.Empty(t, h.API.Keys, "no client is built for an invalid file")
			assert.Zero(t, statusCalls)
			assert.Empty(t, h.API.Generated)
			assert.Empty(t, h.Prompter.Calls)
			assert.Contains(t, h.Stderr.String(), string(ux.IconError))
		})
	}
}

func TestGenerate_ExistingFileDeclined(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	root, src := newJSProject(t)
	existing := writeFile(t, root, "tests/math.test.ts", "// hand written\n")
	h.Prompter.ConfirmFunc = func(context.Context, string, bool) (bool, error) { return false, nil }

	code := h.run("generate", src)

	assert.Equal(t, 0, code)
	assert.Len(t, h.Prompter.CallsTo("Confirm"), 1)
	assert.Empty(t, h.API.Generated)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "// hand written\n", string(data))
}

func TestGenerate_ExistingFilePromptCancelledCountsAsDecline(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	root, src := newJSProject(t)
	writeFile(t, root, "tests/math.test.ts", "// hand written\n")
	h.Prompter.ConfirmFunc = func(context.Context, string, bool) (bool, error) { return false, ErrPromptCancelled }

	assert.Equal(t, 0, h.run("generate", src))
	assert.Empty(t, h.API.Generated)
}

func TestGenerate_ExistingFileConfirmed(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	root, src := newJSProject(t)
	existing := writeFile(t, root, "tests/math.test.ts", "// hand written\n")
	h.Prompter.ConfirmFunc = func(context.Context, string, bool) (bool, error) { return true, nil }

	require.Equal(t, 0, h.run("generate", src))
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "test('ok', () => {});\n", string(data))
	assert.Contains(t, h.Stderr.String(), "WARN: Changes will be applied")
}

func TestGenerate_YesSkipsConfirmation(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	root, src := newJSProject(t)
	existing := writeFile(t, root, "tests/math.test.ts", "// hand written\n")

	require.Equal(t, 0, h.run("generate", "--yes", src))
	assert.Empty(t, h.Prompter.CallsTo("Confirm"))
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "test('ok', () => {});\n", string(data))
}

func TestGenerate_VerboseOverwriteShowsDiff(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	root, src := newJSProject(t)
	writeFile(t, root, "tests/math.test.ts", "test('old', () => {});\n")

	require.Equal(t, 0, h.run("generate", "-y", "-v", src))
	out := h.Stdout.String()
	assert.Contains(t, out, "-test('old', () => {});")
	assert.Contains(t, out, "+test('ok', () => {});")
	assert.Contains(t, out, "test_framework=jest")
}

func TestGenerate_NonInteractiveDeclinesOverwrite(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	h.App.Prompter = NewDefaultsPrompter()
	root, src := newJSProject(t)
	existing := writeFile(t, root, "tests/math.test.ts", "// hand written\n")

	assert.Equal(t, 0, h.run("generate", src))
	assert.Empty(t, h.API.Generated)
	data, _ := os.ReadFile(existing)
	assert.Equal(t, "// hand written\n", string(data))
}

func TestPromptProjectRoot(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "loose.js")
	other := t.TempDir()
	notDir := writeFile(t, other, "file.txt", "x")

	tests := []struct {
		name    string
		answer  string
		err     error
		want    string
		wantErr bool
	}{
		{name: "empty answer uses source dir", answer: "", want: dir},
		{name: "directory answer", answer: other, want: other},
		{name: "file answer falls back", answer: notDir, want: dir},
		{name: "missing answer falls back", answer: filepath.Join(other, "missing"), want: dir},
		{name: "cancelled", err: ErrPromptCancelled, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, ux.PersonalityMachine)
			h.Prompter.InputFunc = func(_ context.Context, _, defaultValue string) (string, error) {
				assert.Equal(t, dir, defaultValue)
				return tt.answer, tt.err
			}

			got, err := h.App.promptProjectRoot(context.Background(), src)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPromptCancelled)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptProjectRoot_NonInteractiveUsesDefault(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	h.App.Prompter = NewDefaultsPrompter()
	dir := t.TempDir()

	got, err := h.App.promptProjectRoot(context.Background(), filepath.Join(dir, "a.ts"))

	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestGenerate_EmptyTestCodeIsAnError(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	root, src := newJSProject(t)
	h.API.GenerateFunc = func(api.GenerateRequest) (*api.GenerateResponse, error) {
		return &api.GenerateResponse{Success: true, TestCode: "  \n"}, nil
	}

	assert.Equal(t, 1, h.run("generate", src))
	_, err := os.Stat(filepath.Join(root, "tests", "math.test.ts"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGenerate_APIErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStdout string
		wantStderr string
	}{
		{
			name:       "auth",
			err:        &api.Error{Kind: api.KindAuth, StatusCode: 401, Message: "Invalid API key"},
			wantStdout: RegisterURL,
			wantStderr: "ERROR: Invalid API key",
		},
		{
			name: "quota",
			err: &api.Error{Kind: api.KindQuota, StatusCode: 429, Message: "Monthly limit reached",
				Quota: &api.QuotaDetail{Message: "Monthly limit reached", Used: 20, Limit: 20, ResetDate: "2026-11-01"}},
			wantStderr: "Used: 20/20",
		},
		{
			name:       "transport",
			err:        &api.Error{Kind: api.KindTransport, Err: errors.New("dial tcp: connection refused")},
			wantStderr: "Could not reach the TestGen service",
		},
		{
			name:       "server misconfigured",
			err:        &api.Error{Kind: api.KindServer, StatusCode: 500, Message: "ANTHROPIC_API_KEY not set", Misconfigured: true},
			wantStderr: "WARN Service configuration problem",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, ux.PersonalityMachine)
			root, src := newJSProject(t)
			h.API.GenerateFunc = func(api.GenerateRequest) (*api.GenerateResponse, error) { return nil, tt.err }

			code := h.run("generate", src)

			assert.Equal(t, 1, code)
			assert.Contains(t, h.Stderr.String(), tt.wantStderr)
			if tt.wantStdout != "" {
				assert.Contains(t, h.Stdout.String(), tt.wantStdout)
			}
			_, err := os.Stat(filepath.Join(root, "tests", "math.test.ts"))
			assert.True(t, errors.Is(err, os.ErrNotExist), "nothing is written on failure")
		})
	}
}

func TestGenerate_LowRemainingShowsWarning(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	_, src := newJSProject(t)
	h.API.GenerateFunc = func(api.GenerateRequest) (*api.GenerateResponse, error) {
		return &api.GenerateResponse{Success: true, TestCode: "x\n", RemainingRequests: intPtr(2), Limit: intPtr(20)}, nil
	}

	require.Equal(t, 0, h.run("generate", src))
	assert.Contains(t, h.Stderr.String(), "WARN: 2 requests remaining")
	assert.Contains(t, h.Stdout.String(), "quota=18/20")
}

func TestGenerate_ZeroRemainingWithoutLimit(t *testing.T) {
	h := newHarness(t, ux.PersonalityMachine)
	_, src := newJSProject(t)
	h.API.GenerateFunc = func(api.GenerateRequest) (*api.GenerateResponse, error) {
		return &api.GenerateResponse{Success: true, TestCode: "x\n", RemainingRequests: intPtr(0)}, nil
	}

	require.Equal(t, 0, h.run("generate", src))
	assert.Contains(t, h.Stdout.String(), "quota=0/0")
}

func TestGenerate_FeedbackFailureKeepsExitZero(t *testing.T) {
	h := newHarness(t, ux.PersonalityMinimal)
	_, src := newJSProject(t)
	h.API.GenerateFunc = func(api.GenerateRequest) (*api.GenerateResponse, error) {
		return &api.GenerateResponse{Success: true, TestCode: "x\n", GenerationID: int64Ptr(42)}, nil
	}
	h.API.FeedbackErr = &api.Error{Kind: api.KindServer, StatusCode: 500, Message: "boom"}
	h.Prompter.InputFunc = func(context.Context, string, string) (string, error) { return "y", nil }

	code := h.run("generate", src)

	assert.Equal(t, 0, code)
	require.Len(t, h.API.Feedback, 1)
	fb := h.API.Feedback[0]
	assert.Equal(t, api.QuestionImmediate, fb.QuestionType)
	require.NotNil(t, fb.GenerationID)
	assert.Equal(t, int64(42), *fb.GenerationID)
	require.NotNil(t, fb.WasUseful)
	assert.True(t, *fb.WasUseful)
}

func TestGenerate_ProblemFeedback(t *testing.T) {
	h := newHarness(t, ux.PersonalityMinimal)
	_, src := newJSProject(t)
	h.API.GenerateFunc = func(api.GenerateRequest) (*api.GenerateResponse, error) {
		return &api.GenerateResponse{Success: true, TestCode: "x\n", GenerationID: int64Ptr(7)}, nil
	}
	h.Prompter.InputFunc = func(context.Context, string, string) (string, error) { return "n", nil }
	h.Prompter.SelectFunc = func(context.Context, string, []string) (int, error) { return 2, nil }

	require.Equal(t, 0, h.run("generate", src))
	require.Len(t, h.API.Feedback, 1)
	fb := h.API.Feedback[0]
	assert.Equal(t, api.QuestionProblem, fb.QuestionType)
	require.NotNil(t, fb.ProblemCategory)
	assert.Equal(t, api.ProblemMissingSetup, *fb.ProblemCategory)
	assert.Len(t, h.Prompter.CallsTo("Select")[0].Options, 5)
}

func TestGenerate_FeedbackDisabledInSettings(t *testing.T) {
	h := newHarness(t, ux.PersonalityMinimal)
	h.App.Settings.Feedback = false
	_, src := newJSProject(t)
	h.API.GenerateFunc = func(api.GenerateRequest) (*api.GenerateResponse, error) {
		return &api.GenerateResponse{Success: true, TestCode: "x\n", GenerationID: int64Ptr(7)}, nil
	}

	require.Equal(t, 0, h.run("generate", src))
	assert.Empty(t, h.Prompter.CallsTo("Input"))
	assert.Empty(t, h.API.Feedback)
}

func TestGenerate_TipShownOnce(t *testing.T) {
	h := newHarness(t, ux.PersonalityMinimal)
	h.App.Settings.Feedback = false
	_, src := newJSProject(t)

	require.Equal(t, 0, h.run("generate", "-y", src))
	assert.Contains(t, h.Stdout.String(), "Tip:")
	assert.True(t, h.credentials(t).HasSeenTips)

	h.Stdout.Reset()
	require.Equal(t, 0, h.run("generate", "-y", src))
	assert.NotContains(t, h.Stdout.String(), "Tip:")
}

func TestGenerate_RetentionQuestionAskedOnce(t *testing.T) {
	h := newHarness(t, ux.PersonalityMinimal)
	h.login(t, config.Credentials{APIKey: "k", Email: "dev@example.com"})
	_, src := newJSProject(t)
	h.API.FeedbackStatusFunc = func() (*api.FeedbackStatus, error) {
		return &api.FeedbackStatus{CanAskRetention: true, TotalGenerations: 5}, nil
	}
	h.Prompter.InputFunc = func(_ context.Context, prompt, _ string) (string, error) {
		return "y", nil
	}

	require.Equal(t, 0, h.run("generate", "-y", src))
	require.NotEmpty(t, h.API.Feedback)
	assert.Equal(t, api.QuestionRetention, h.API.Feedback[0].QuestionType)
	require.NotNil(t, h.API.Feedback[0].WouldUseAgain)
	assert.True(t, *h.API.Feedback[0].WouldUseAgain)
	assert.True(t, h.credentials(t).RetentionQuestionAnswered)

	h.API.Feedback = nil
	require.Equal(t, 0, h.run("generate", "-y", src))
	for _, fb := range h.API.Feedback {
		assert.NotEqual(t, api.QuestionRetention, fb.QuestionType)
	}
}

func TestGenerate_RetentionStatusFailureIsIgnored(t *testing.T) {
	h := newHarness(t, ux.PersonalityMinimal)
	h.login(t, config.Credentials{APIKey: "k", Email: "dev@example.com"})
	_, src := newJSProject(t)
	h.API.FeedbackStatusFunc = func() (*api.FeedbackStatus, error) {
		return nil, &api.Error{Kind: api.KindTransport, Err: errors.New("refused")}
	}

	assert.Equal(t, 0, h.run("generate", "-y", src))
	assert.False(t, h.credentials(t).RetentionQuestionAnswered)
}
