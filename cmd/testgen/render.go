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
	"time"

	"github.com/testorix/testgen/cmd/testgen/config"
	"github.com/testorix/testgen/cmd/testgen/internal/api"
	"github.com/testorix/testgen/pkg/ux"
)

// renderAPIError prints an API failure with guidance matched to its kind.
func (a *App) renderAPIError(err error, verbose bool) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		ux.Error(err.Error())
		return
	}

	switch apiErr.Kind {
	case api.KindAuth:
		ux.Error(apiErr.Message)
		ux.Hint("Run", "testgen login", "to sign in again.")
		ux.Link("Don't have an account? Register at", RegisterURL)

	case api.KindQuota:
		renderQuotaExceeded(apiErr)

	case api.KindTransport:
		if errors.Is(apiErr, context.DeadlineExceeded) {
			ux.Error("The request timed out.")
		} else {
			ux.Error("Could not reach the TestGen service.")
		}
		ux.Muted(fmt.Sprintf("  API URL: %s", a.Settings.APIURL))
		ux.Muted(fmt.Sprintf("  Check your network connection, or set %s to point at another server.", config.EnvAPIURL))
		if verbose && apiErr.Err != nil {
			ux.Muted("  Cause: " + apiErr.Err.Error())
		}

	case api.KindDecode:
		ux.Error("The service sent a response the CLI could not understand.")
		if verbose {
			ux.Muted("  " + apiErr.Error())
		}

	default:
		ux.Error("Error: " + apiErr.Message)
		if guidance := apiErr.Guidance(); guidance != "" {
			ux.WarningBox("Service configuration problem", guidance)
		}
	}

	if verbose && apiErr.RequestID != "" {
		ux.Detail("Request ID", apiErr.RequestID)
	}
}

// renderQuotaExceeded prints the monthly-limit box.
func renderQuotaExceeded(apiErr *api.Error) {
	q := apiErr.Quota
	if q == nil {
		q = &api.QuotaDetail{Message: apiErr.Message}
	}

	var lines []string
	if q.Message != "" {
		lines = append(lines, q.Message)
	}
	if q.Limit > 0 {
		lines = append(lines, fmt.Sprintf("Used: %d/%d", q.Used, q.Limit))
	}
	if q.ResetDate != "" {
		lines = append(lines, "Resets: "+formatDate(q.ResetDate))
	}
	lines = append(lines, "Upgrade to premium for unlimited generations.")
	ux.ErrorBox("Monthly limit reached", strings.Join(lines, "\n"))
}

// dateLayouts are tried in order when parsing service timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate renders a service date as "January 2, 2006". Unparseable
// input is returned unchanged.
func formatDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Format("January 2, 2006")
}

// formatDateTime renders a service timestamp in local time.
func formatDateTime(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}
