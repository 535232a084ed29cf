// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

import "github.com/testorix/testgen/cmd/testgen/internal/projectctx"

// Endpoint paths, relative to the configured base URL.
const (
	EndpointLogin          = "/auth/login"
	EndpointGenerate       = "/generate-test"
	EndpointUsage          = "/usage"
	EndpointFeedback       = "/feedback"
	EndpointFeedbackStatus = "/feedback/status"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the long-lived credential issued on login.
type LoginResponse struct {
	APIKey string `json:"api_key"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// GenerateRequest is the body of POST /generate-test.
type GenerateRequest struct {
	FileContent    string                     `json:"file_content"`
	FileName       string                     `json:"file_name"`
	Language       string                     `json:"language"`
	ProjectContext *projectctx.ProjectContext `json:"project_context,omitempty"`
}

// GenerateResponse is returned by POST /generate-test.
//
// Optional numeric fields are pointers so that "absent" and zero stay
// distinguishable; remaining_requests of 0 is meaningful.
type GenerateResponse struct {
	Success           bool   `json:"success"`
	TestCode          string `json:"test_code,omitempty"`
	TestFileName      string `json:"test_file_name,omitempty"`
	RemainingRequests *int   `json:"remaining_requests,omitempty"`
	GenerationID      *int64 `json:"generation_id,omitempty"`
	Error             string `json:"error,omitempty"`
	Message           string `json:"message,omitempty"`
	Limit             *int   `json:"limit,omitempty"`
	Used              *int   `json:"used,omitempty"`
	ResetDate         string `json:"reset_date,omitempty"`
}

// UsageStats is returned by GET /usage.
type UsageStats struct {
	TotalTestsGenerated int            `json:"total_tests_generated"`
	FailedGenerations   int            `json:"failed_generations"`
	LastRequestAt       string         `json:"last_request_at"`
	UsageByLanguage     map[string]int `json:"usage_by_language"`
	MonthlyLimit        int            `json:"monthly_limit"`
	MonthlyUsed         int            `json:"monthly_used"`
	RemainingRequests   int            `json:"remaining_requests"`
	IsPremium           bool           `json:"is_premium"`
	ResetDate           string         `json:"reset_date"`
}

// FeedbackQuestion identifies which feedback question an answer belongs to.
type FeedbackQuestion string

const (
	QuestionImmediate FeedbackQuestion = "immediate"
	QuestionProblem   FeedbackQuestion = "problem"
	QuestionRetention FeedbackQuestion = "retention"
)

// ProblemCategory values, in the order they are offered to the operator.
const (
	ProblemTestsDontRun = iota + 1
	ProblemLogicWrong
	ProblemMissingSetup
	ProblemHardToRead
	ProblemOther
)

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	GenerationID    *int64           `json:"generation_id,omitempty"`
	QuestionType    FeedbackQuestion `json:"question_type"`
	WasUseful       *bool            `json:"was_useful,omitempty"`
	ProblemCategory *int             `json:"problem_category,omitempty"`
	WouldUseAgain   *bool            `json:"would_use_again,omitempty"`
}

// FeedbackStatus is returned by GET /feedback/status.
type FeedbackStatus struct {
	HasAnsweredRetention bool `json:"has_answered_retention"`
	TotalGenerations     int  `json:"total_generations"`
	CanAskRetention      bool `json:"can_ask_retention"`
}

// QuotaDetail describes an exhausted monthly allowance (HTTP 429).
type QuotaDetail struct {
	Message   string
	Used      int
	Limit     int
	ResetDate string
}
