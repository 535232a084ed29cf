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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/testorix/testgen/cmd/testgen/config"
	"github.com/testorix/testgen/cmd/testgen/internal/api"
	"github.com/testorix/testgen/cmd/testgen/internal/project"
	"github.com/testorix/testgen/cmd/testgen/internal/projectctx"
	"github.com/testorix/testgen/cmd/testgen/internal/source"
	"github.com/testorix/testgen/cmd/testgen/internal/testpath"
	"github.com/testorix/testgen/pkg/ux"
)

// generateOptions are the generate command's flags.
type generateOptions struct {
	// Output overrides the computed test path.
	Output string

	// Verbose expands diagnostic output.
	Verbose bool

	// Yes overwrites an existing test without asking.
	Yes bool
}

// runGenerate generates a test for filePath.
//
// # Description
//
// Validates and classifies the file, locates and inspects its project,
// builds the generation context, resolves where the test goes, confirms an
// overwrite, calls the service and writes the result. Nothing is written
// before the service has answered successfully.
//
// # Outputs
//
//   - error: nil on success or when the operator declined an overwrite;
//     a *CommandError carrying the exit code otherwise
func (a *App) runGenerate(ctx context.Context, filePath string, opts generateOptions) error {
	const command = "generate"
	log := a.Logger.With("command", command)

	creds := a.loadCredentials()
	if !creds.LoggedIn() {
		ux.Muted("Not logged in: using the anonymous free tier. Run `testgen login` for your account quota.")
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		ux.Error(fmt.Sprintf("Invalid path: %s", filePath))
		return renderedError(command, err)
	}

	ux.Muted("Validating file...")
	limits := source.Limits{MaxSize: a.Settings.MaxFileSize, WarnSize: a.Settings.WarnFileSize}
	result := source.Validate(absPath, limits)
	if !result.Valid {
		ux.Error(result.Error)
		return renderedError(command, errors.New(result.Error))
	}
	for _, warning := range result.Warnings {
		ux.Warning(warning)
	}

	lang, ok := source.DetectLanguage(absPath)
	if !ok {
		msg := fmt.Sprintf("Could not detect language for %s. Supported extensions: %s",
			filepath.Base(absPath), strings.Join(source.SupportedExtensions, ", "))
		ux.Error(msg)
		return renderedError(command, errors.New(msg))
	}

	content, err := source.ReadFile(absPath)
	if err != nil {
		ux.Error(err.Error())
		return renderedError(command, err)
	}

	// No network traffic before the file has passed validation.
	a.maybeAskRetention(ctx, &creds)

	root, detected := project.FindRoot(absPath)
	if !detected {
		root, err = a.promptProjectRoot(ctx, absPath)
		if err != nil {
			ux.Muted("Cancelled")
			return cancelledError(command, err)
		}
	}
	log.Debug("project root", "root", root, "detected", detected)

	info := project.Inspect(root, lang)
	projectContext := projectctx.Build(content, lang, info)

	testPath := testpath.Resolve(testpath.Request{
		SourcePath:    absPath,
		Language:      lang,
		ProjectRoot:   root,
		TestDirectory: info.TestDirectory,
		Output:        opts.Output,
	})

	if opts.Verbose {
		renderDetection(root, detected, lang, projectContext, testPath)
	}

	existing, exists, err := readExisting(testPath)
	if err != nil {
		ux.Error(err.Error())
		return renderedError(command, err)
	}
	if exists {
		ux.Warning("Test file already exists: " + testPath)
		if !opts.Yes {
			overwrite, err := a.Prompter.Confirm(ctx, "Overwrite existing file?", false)
			if err != nil && !errors.Is(err, ErrPromptCancelled) {
				ux.Muted("Cancelled")
				return cancelledError(command, err)
			}
			if !overwrite {
				ux.Muted("Cancelled")
				return nil
			}
		}
	}

	spin := ux.NewSpinner(fmt.Sprintf("Generating %s tests...", lang.Display()))
	spin.Start()
	start := time.Now()

	client := a.NewClient(creds.APIKey)
	resp, err := client.Generate(ctx, api.GenerateRequest{
		FileContent:    content,
		FileName:       filepath.Base(absPath),
		Language:       lang.String(),
		ProjectContext: &projectContext,
	})
	elapsed := time.Since(start)
	if err != nil && ctx.Err() != nil {
		spin.Stop()
		ux.Muted("Cancelled")
		return cancelledError(command, ctx.Err())
	}
	if err != nil {
		spin.StopWithError("Failed to generate test")
		log.Debug("generation failed", "error", err.Error(), "elapsed_ms", elapsed.Milliseconds())
		a.renderAPIError(err, opts.Verbose)
		return renderedError(command, err)
	}
	if strings.TrimSpace(resp.TestCode) == "" {
		spin.StopWithError("Failed to generate test")
		msg := "The service returned an empty test. Nothing was written."
		ux.Error(msg)
		return renderedError(command, errors.New(msg))
	}

	spin.StopWithSuccess(fmt.Sprintf("Test generated successfully in %s", formatElapsed(elapsed)))
	log.Info("test generated", "language", lang.String(), "elapsed_ms", elapsed.Milliseconds())

	renderRemaining(resp, opts.Verbose)

	if exists {
		if opts.Verbose {
			a.showDiff(existing, resp.TestCode)
		} else {
			ux.Warning("Changes will be applied")
		}
	}

	if err := source.WriteFile(testPath, resp.TestCode); err != nil {
		ux.Error(err.Error())
		return renderedError(command, err)
	}
	ux.Success(fmt.Sprintf("Test created %s %s", ux.IconArrow, testPath))

	a.showTipOnce(&creds)
	if resp.GenerationID != nil {
		a.askImmediateFeedback(ctx, creds, *resp.GenerationID)
	}
	return nil
}

// promptProjectRoot asks for a root when detection failed. The default is
// the source file's directory; an answer that is not a directory falls back
// to it.
func (a *App) promptProjectRoot(ctx context.Context, sourcePath string) (string, error) {
	fallback := filepath.Dir(sourcePath)
	ux.Warning("Could not detect the project root (no package.json, composer.json, src, app or lib found).")

	answer, err := a.Prompter.Input(ctx, "Project root path:", fallback, nil)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fallback, nil
	}

	abs, err := filepath.Abs(answer)
	if err != nil {
		ux.Warning("Invalid path, using " + fallback)
		return fallback, nil
	}
	if st, err := os.Stat(abs); err != nil || !st.IsDir() {
		ux.Warning(fmt.Sprintf("%s is not a directory, using %s", abs, fallback))
		return fallback, nil
	}
	return abs, nil
}

// readExisting returns the current content at path, if any.
func readExisting(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		if st, statErr := os.Stat(path); statErr == nil && st.IsDir() {
			return "", false, fmt.Errorf("test path is a directory: %s", path)
		}
		return "", true, nil
	}
	return string(data), true, nil
}

// renderDetection prints what was detected, for --verbose.
func renderDetection(root string, detected bool, lang source.Language, pc projectctx.ProjectContext, testPath string) {
	how := "detected"
	if !detected {
		how = "manual"
	}
	ux.Detail("Language", lang.Display())
	ux.Detail("Project root", fmt.Sprintf("%s (%s)", root, how))
	if pc.Framework != "" {
		ux.Detail("Framework", pc.Framework)
	}
	if pc.TestFramework != "" {
		ux.Detail("Test framework", pc.TestFramework)
	}
	if pc.NamingConvention != "" {
		ux.Detail("Naming", string(pc.NamingConvention))
	}
	if len(pc.FileImports) > 0 {
		ux.Detail("Imports", strings.Join(pc.FileImports, ", "))
	}
	if len(pc.Dependencies) > 0 {
		ux.Detail("Dependencies", len(pc.Dependencies))
	}
	ux.Detail("Test file", testPath)
}

// renderRemaining shows the quota indicator after a generation. Low
// allowances always show a warning and a bar; otherwise the count is only
// shown in verbose mode.
func renderRemaining(resp *api.GenerateResponse, verbose bool) {
	if resp.RemainingRequests == nil || *resp.RemainingRequests < 0 {
		return
	}
	remaining := *resp.RemainingRequests

	if remaining > lowQuotaThreshold {
		if verbose {
			ux.Muted(fmt.Sprintf("  %d requests remaining", remaining))
		}
		return
	}

	ux.Warning(fmt.Sprintf("%d requests remaining this month", remaining))

	limit := 0
	switch {
	case resp.Limit != nil:
		limit = *resp.Limit
	case resp.Used != nil:
		limit = *resp.Used + remaining
	}
	used := limit - remaining
	if used < 0 {
		used = 0
	}
	ux.Detail("Quota", ux.QuotaBar(used, limit, ux.DefaultBarWidth))
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// showTipOnce prints the usage tip after the first successful generation
// and records that it was shown.
func (a *App) showTipOnce(creds *config.Credentials) {
	if creds.HasSeenTips || ux.GetPersonality().Level == ux.PersonalityMachine {
		return
	}
	ux.Blank()
	ux.Tip(
		"Use --output <path> to choose where the test is written.",
		"Use --verbose to see the detected project, imports and quota detail.",
		"Run `testgen status` to check your monthly usage.",
	)
	creds.HasSeenTips = true
	a.saveCredentials(*creds)
}
