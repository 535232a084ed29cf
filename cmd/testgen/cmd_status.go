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
	"fmt"
	"sort"
	"strings"

	"github.com/testorix/testgen/cmd/testgen/config"
	"github.com/testorix/testgen/cmd/testgen/internal/api"
	"github.com/testorix/testgen/pkg/ux"
)

// runStatus fetches and renders the account's usage statistics.
func (a *App) runStatus(ctx context.Context, verbose bool) error {
	const command = "status"

	creds := a.loadCredentials()
	a.maybeAskRetention(ctx, &creds)

	spin := ux.NewSpinner("Fetching usage statistics...")
	spin.Start()
	stats, err := a.NewClient(creds.APIKey).Usage(ctx)
	if err != nil {
		spin.StopWithError("Could not fetch usage statistics")
		if ctx.Err() != nil {
			return cancelledError(command, ctx.Err())
		}
		a.renderAPIError(err, verbose)
		return renderedError(command, err)
	}
	spin.Stop()

	renderUsage(creds, stats)
	return nil
}

// remainingOf is the unused part of the monthly allowance, never negative.
func remainingOf(stats *api.UsageStats) int {
	return max(stats.MonthlyLimit-stats.MonthlyUsed, 0)
}

// renderUsage prints the status report.
func renderUsage(creds config.Credentials, stats *api.UsageStats) {
	ux.Banner("TestGen Usage Statistics")

	account := creds.Email
	if account == "" {
		account = "anonymous (free tier)"
	}
	ux.Detail("Account", account)
	plan := "Free"
	if stats.IsPremium {
		plan = "Premium"
		if ux.GetPersonality().Level != ux.PersonalityMachine {
			plan = string(ux.IconPremium) + " " + plan
		}
	}
	ux.Detail("Plan", plan)
	ux.Blank()

	ux.Detail("Total Generated", stats.TotalTestsGenerated)
	if stats.FailedGenerations > 0 {
		ux.Detail("Failed", stats.FailedGenerations)
	}

	if stats.IsPremium && stats.MonthlyLimit <= 0 {
		ux.Blank()
		ux.Success("Unlimited generations")
	} else {
		remaining := remainingOf(stats)
		ux.Blank()
		ux.Detail("Used This Month", fmt.Sprintf("%d/%d", stats.MonthlyUsed, stats.MonthlyLimit))
		remainingText := fmt.Sprintf("%d", remaining)
		if remaining <= lowQuotaThreshold && ux.GetPersonality().Level != ux.PersonalityMachine {
			remainingText = ux.Styles.Warning.Render(remainingText)
		}
		ux.Detail("Remaining", remainingText)
		ux.Detail("Quota", ux.QuotaBar(stats.MonthlyUsed, stats.MonthlyLimit, ux.DefaultBarWidth))
		if stats.ResetDate != "" {
			ux.Detail("Resets", formatDate(stats.ResetDate))
		}

		if remaining <= lowQuotaThreshold {
			ux.Blank()
			if remaining == 0 {
				ux.Warning("You have no requests left this month")
			} else {
				ux.Warning(fmt.Sprintf("Only %d requests remaining this month", remaining))
			}
			if !stats.IsPremium {
				ux.Link("Upgrade to premium for unlimited generations:", RegisterURL)
			}
		}
	}

	if len(stats.UsageByLanguage) > 0 {
		ux.Blank()
		ux.Title("By Language")
		languages := make([]string, 0, len(stats.UsageByLanguage))
		for lang := range stats.UsageByLanguage {
			languages = append(languages, lang)
		}
		sort.Strings(languages)
		for _, lang := range languages {
			ux.Field(strings.ToUpper(lang), stats.UsageByLanguage[lang])
		}
	}

	if stats.LastRequestAt != "" {
		ux.Blank()
		ux.Detail("Last Activity", formatDateTime(stats.LastRequestAt))
	}
	ux.Rule()
}
