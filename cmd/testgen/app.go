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

	"github.com/testorix/testgen/cmd/testgen/config"
	"github.com/testorix/testgen/cmd/testgen/internal/api"
	"github.com/testorix/testgen/pkg/logging"
	"github.com/testorix/testgen/pkg/ux"
)

// RegisterURL is where new operators create an account.
const RegisterURL = "https://testorix.dev/register"

// lowQuotaThreshold is the remaining-request count at or below which the
// CLI warns about the monthly allowance.
const lowQuotaThreshold = 5

// API is the subset of the TestGen service the commands use.
type API interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Generate(ctx context.Context, req api.GenerateRequest) (*api.GenerateResponse, error)
	Usage(ctx context.Context) (*api.UsageStats, error)
	SubmitFeedback(ctx context.Context, req api.FeedbackRequest) error
	FeedbackStatus(ctx context.Context) (*api.FeedbackStatus, error)
}

var _ API = (*api.Client)(nil)

// App carries the dependencies every command shares. Fields left nil are
// filled from the environment by setup; tests inject their own.
type App struct {
	// ConfigDir overrides config.Dir().
	ConfigDir string

	// Settings are loaded from settings.yaml unless SettingsLoaded is set.
	Settings       config.Settings
	SettingsLoaded bool

	// Store persists credentials and one-time flags.
	Store *config.CredentialStore

	// Logger records diagnostics.
	Logger *logging.Logger

	// Prompter asks the operator questions.
	Prompter UserPrompter

	// NewClient builds an API client for the given credential ("" for
	// anonymous calls).
	NewClient func(apiKey string) API

	// Version is the CLI build version.
	Version string

	ownsLogger bool
}

// globalOptions are the persistent root flags.
type globalOptions struct {
	Verbose     bool
	Personality string
}

// setup resolves every dependency the commands need.
func (a *App) setup(opts globalOptions) error {
	if !a.SettingsLoaded {
		dir := a.ConfigDir
		if dir == "" {
			d, err := config.Dir()
			if err != nil {
				return NewCommandError("config", 1, err.Error(), err)
			}
			dir = d
		}
		settings, created, err := config.LoadSettings(dir)
		if err != nil {
			return NewCommandError("config", 1, err.Error(), err)
		}
		a.ConfigDir = dir
		a.Settings = settings
		a.SettingsLoaded = true
		if created {
			defer ux.Muted("First run detected, created settings at " + dir)
		}
	}
	if a.Store == nil {
		a.Store = config.NewCredentialStore(a.ConfigDir)
	}

	personality := opts.Personality
	if personality == "" {
		personality = a.Settings.Personality
	}
	ux.InitPersonality(personality)

	if a.Logger == nil {
		level := logging.LevelWarn
		if opts.Verbose {
			level = logging.LevelDebug
		}
		a.Logger = logging.New(logging.Config{
			Level:   level,
			LogDir:  a.Settings.LogDir,
			Service: "testgen",
		})
		a.ownsLogger = true
	}

	if a.Prompter == nil {
		if ux.IsInteractive() {
			a.Prompter = NewHuhPrompter(os.Getenv("ACCESSIBLE") != "")
		} else {
			a.Prompter = NewDefaultsPrompter()
		}
	}

	if a.NewClient == nil {
		settings, logger, version := a.Settings, a.Logger, a.Version
		a.NewClient = func(apiKey string) API {
			return api.NewClient(api.Config{
				BaseURL:   settings.APIURL,
				APIKey:    apiKey,
				Timeout:   settings.RequestTimeout,
				UserAgent: "testgen/" + version,
				Logger:    logger,
			})
		}
	}
	return nil
}

// close releases resources created by setup.
func (a *App) close() {
	if a.ownsLogger && a.Logger != nil {
		_ = a.Logger.Close()
	}
}

// loadCredentials returns the stored credentials. A corrupt file is treated
// as empty.
func (a *App) loadCredentials() config.Credentials {
	creds, err := a.Store.Load()
	if err != nil {
		if errors.Is(err, config.ErrCorruptCredentials) {
			a.Logger.Warn("ignoring corrupt credential file", "path", a.Store.Path(), "error", err.Error())
		} else {
			a.Logger.Warn("could not read credential file", "path", a.Store.Path(), "error", err.Error())
		}
		return config.Credentials{}
	}
	a.Logger.Debug("credentials loaded", "api_key_present", creds.APIKey != "")
	return creds
}

// saveCredentials writes creds, logging instead of failing. Used for the
// one-time flags, which must never change a command's outcome.
func (a *App) saveCredentials(creds config.Credentials) {
	if err := a.Store.Save(creds); err != nil {
		a.Logger.Debug("could not save credential flags", "error", err.Error())
	}
}
