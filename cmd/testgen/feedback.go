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
	"strings"
	"time"

	"github.com/testorix/testgen/cmd/testgen/config"
	"github.com/testorix/testgen/cmd/testgen/internal/api"
	"github.com/testorix/testgen/pkg/ux"
)

// feedbackTimeout bounds each best-effort feedback call.
const feedbackTimeout = 5 * time.Second

// problemOptions are offered in ProblemCategory order.
var problemOptions = []string{
	"Tests don't run",
	"Logic is wrong",
	"Missing imports/setup",
	"Hard to understand",
	"Other",
}

// feedbackEnabled reports whether feedback prompts may be shown.
func (a *App) feedbackEnabled() bool {
	return a.Settings.Feedback &&
		a.Prompter.IsInteractive() &&
		ux.GetPersonality().Level != ux.PersonalityMachine
}

// yesNo parses a y/n answer. ok is false for anything else, including an
// empty answer.
func yesNo(answer string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

// askImmediateFeedback asks whether a generation was useful. Every failure
// is swallowed.
func (a *App) askImmediateFeedback(ctx context.Context, creds config.Credentials, generationID int64) {
	if !a.feedbackEnabled() {
		return
	}

	answer, err := a.Prompter.Input(ctx, "Was this output useful? (y/n)", "", nil)
	if err != nil {
		a.Logger.Debug("feedback prompt skipped", "error", err.Error())
		return
	}
	useful, ok := yesNo(answer)
	if !ok {
		return
	}

	req := api.FeedbackRequest{GenerationID: &generationID}
	if useful {
		req.QuestionType = api.QuestionImmediate
		req.WasUseful = &useful
	} else {
		idx, err := a.Prompter.Select(ctx, "What was the problem?", problemOptions)
		if err != nil {
			a.Logger.Debug("problem prompt skipped", "error", err.Error())
			return
		}
		category := idx + 1
		req.QuestionType = api.QuestionProblem
		req.ProblemCategory = &category
	}

	a.submitFeedback(ctx, creds, req)
	ux.Muted("Thanks for the feedback!")
}

// maybeAskRetention asks the would-you-use-it-again question once per
// account. creds is updated with the answered flag.
func (a *App) maybeAskRetention(ctx context.Context, creds *config.Credentials) {
	if !creds.LoggedIn() || creds.RetentionQuestionAnswered || !a.feedbackEnabled() {
		return
	}

	statusCtx, cancel := context.WithTimeout(ctx, feedbackTimeout)
	status, err := a.NewClient(creds.APIKey).FeedbackStatus(statusCtx)
	cancel()
	if err != nil {
		a.Logger.Debug("feedback status unavailable", "error", err.Error())
		return
	}

	if status.HasAnsweredRetention {
		creds.RetentionQuestionAnswered = true
		a.saveCredentials(*creds)
		return
	}
	if !status.CanAskRetention {
		return
	}

	answer, err := a.Prompter.Input(ctx,
		"You've used TestGen a few times now. Would you use it again? (y/n)", "", nil)
	creds.RetentionQuestionAnswered = true
	a.saveCredentials(*creds)
	if err != nil {
		a.Logger.Debug("retention prompt skipped", "error", err.Error())
		return
	}
	again, ok := yesNo(answer)
	if !ok {
		return
	}

	a.submitFeedback(ctx, *creds, api.FeedbackRequest{
		QuestionType:  api.QuestionRetention,
		WouldUseAgain: &again,
	})
	ux.Muted("Thanks for the feedback!")
	ux.Blank()
}

func (a *App) submitFeedback(ctx context.Context, creds config.Credentials, req api.FeedbackRequest) {
	ctx, cancel := context.WithTimeout(ctx, feedbackTimeout)
	defer cancel()
	if err := a.NewClient(creds.APIKey).SubmitFeedback(ctx, req); err != nil {
		a.Logger.Debug("feedback submission failed", "question", string(req.QuestionType), "error", err.Error())
	}
}
