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

	"github.com/awnumar/memguard"
	"github.com/go-playground/validator/v10"

	"github.com/testorix/testgen/pkg/ux"
)

var emailValidator = validator.New()

// validateEmail rejects anything that is not a plausible address.
func validateEmail(s string) error {
	if err := emailValidator.Var(strings.TrimSpace(s), "required,email"); err != nil {
		return errors.New("please enter a valid email address")
	}
	return nil
}

// runLogin exchanges email and password for an API key and stores it.
//
// The password only lives in a locked buffer and is destroyed once the
// request has been sent.
func (a *App) runLogin(ctx context.Context) error {
	const command = "login"

	creds := a.loadCredentials()
	if creds.LoggedIn() {
		ux.Info(fmt.Sprintf("Already logged in as %s", creds.Email))
		switchAccount, err := a.Prompter.Confirm(ctx, "Log in with a different account?", false)
		if err != nil || !switchAccount {
			ux.Muted("Cancelled")
			return nil
		}
	}

	if !a.Prompter.IsInteractive() {
		return NewCommandError(command, 1,
			"login needs an interactive terminal to read your email and password", ErrNonInteractive)
	}

	ux.Title("Log in to TestGen")
	email, err := a.Prompter.Input(ctx, "Email:", "", validateEmail)
	if err != nil {
		ux.Muted("Cancelled")
		return cancelledError(command, err)
	}
	email = strings.TrimSpace(email)

	raw, err := a.Prompter.Password(ctx, "Password:")
	if err != nil {
		ux.Muted("Cancelled")
		return cancelledError(command, err)
	}
	password := memguard.NewBufferFromBytes(raw)
	defer password.Destroy()
	if password.Size() == 0 {
		ux.Error("Password cannot be empty")
		return renderedError(command, errors.New("empty password"))
	}

	spin := ux.NewSpinner("Authenticating...")
	spin.Start()
	resp, err := a.NewClient("").Login(ctx, email, password.String())
	if err != nil {
		spin.StopWithError("Login failed")
		if ctx.Err() != nil {
			return cancelledError(command, ctx.Err())
		}
		a.renderAPIError(err, false)
		ux.Blank()
		ux.Info("Don't have an account yet?")
		ux.Link("Register at", RegisterURL)
		return renderedError(command, err)
	}

	spin.UpdateMessage("Saving credentials...")
	creds.APIKey = resp.APIKey
	creds.Email = resp.Email
	if creds.Email == "" {
		creds.Email = email
	}
	if err := a.Store.Save(creds); err != nil {
		spin.StopWithError(fmt.Sprintf("Could not save credentials: %v", err))
		return renderedError(command, err)
	}
	spin.Stop()

	name := creds.Email
	if resp.Name != "" {
		name = fmt.Sprintf("%s (%s)", resp.Name, creds.Email)
	}
	ux.Success("Logged in as " + name)
	ux.Detail("Config saved to", a.Store.Path())
	return nil
}

// runLogout clears the stored credential. The tip and retention flags are
// kept.
func (a *App) runLogout() error {
	creds := a.loadCredentials()
	if !creds.LoggedIn() {
		ux.Muted("Not logged in")
		return nil
	}
	if _, err := a.Store.ClearLogin(creds); err != nil {
		ux.Error(fmt.Sprintf("Could not update %s: %v", a.Store.Path(), err))
		return renderedError("logout", err)
	}
	ux.Success("Logged out " + creds.Email)
	return nil
}
