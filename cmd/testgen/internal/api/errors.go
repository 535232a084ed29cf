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

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// =============================================================================
// Error Types
// =============================================================================

// ErrorKind classifies API failures so commands can render them.
type ErrorKind int

const (
	// KindTransport means no usable response was received.
	KindTransport ErrorKind = iota

	// KindAuth means the credential was rejected (HTTP 401/403).
	KindAuth

	// KindQuota means the monthly allowance is exhausted (HTTP 429).
	KindQuota

	// KindServer means the server reported an error.
	KindServer

	// KindDecode means a 2xx response body could not be decoded.
	KindDecode
)

// String returns the kind as a string for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "TRANSPORT"
	case KindAuth:
		return "AUTH"
	case KindQuota:
		return "QUOTA"
	case KindServer:
		return "SERVER"
	case KindDecode:
		return "DECODE"
	default:
		return "UNKNOWN"
	}
}

// Error is returned by every Client method that fails.
type Error struct {
	// Kind categorizes the failure.
	Kind ErrorKind

	// Endpoint is the path that was called.
	Endpoint string

	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int

	// Message is the server-provided or synthesized description.
	Message string

	// Quota is set for KindQuota.
	Quota *QuotaDetail

	// Misconfigured is true when Message matches a known backend
	// misconfiguration signature.
	Misconfigured bool

	// RequestID is the X-Request-ID sent with the failing call.
	RequestID string

	// Err is the underlying transport or decode error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s: request failed (%s)", e.Endpoint, e.Kind)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Guidance returns the operator hint for misconfigured backends.
func (e *Error) Guidance() string {
	if !e.Misconfigured {
		return ""
	}
	return "The TestGen service appears to be misconfigured. This is not a problem " +
		"with your file; please try again later or contact support with the request ID."
}

// KindOf reports the kind of an *Error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindAuth
}

// IsQuota reports whether err is a quota-exceeded failure.
func IsQuota(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindQuota
}

// IsTransport reports whether err means the server could not be reached.
func IsTransport(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindTransport
}

// =============================================================================
// Classification
// =============================================================================

// misconfigurationPatterns match server error texts that point at a broken
// deployment rather than at the operator's input.
var misconfigurationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[A-Z_]*API_KEY\b.*\b(not set|missing|not configured|invalid)\b`),
	regexp.MustCompile(`(?i)\b(anthropic|openai|llm|model) (api )?(key|credentials?) (is )?(not set|missing|not configured|invalid)`),
	regexp.MustCompile(`(?i)\bmodel\b.*\bnot found\b`),
	regexp.MustCompile(`(?i)\b(database|db|redis)\b.*\b(unavailable|connection|refused|timeout)\b`),
	regexp.MustCompile(`(?i)\bconnection refused\b`),
	regexp.MustCompile(`(?i)\bno such host\b`),
}

// IsMisconfiguration reports whether a server error text matches a known
// backend misconfiguration signature.
func IsMisconfiguration(message string) bool {
	for _, pattern := range misconfigurationPatterns {
		if pattern.MatchString(message) {
			return true
		}
	}
	return false
}

// errorBody is the union of error shapes the server returns.
type errorBody struct {
	Error     string          `json:"error"`
	Message   string          `json:"message"`
	Detail    json.RawMessage `json:"detail"`
	Limit     int             `json:"limit"`
	Used      int             `json:"used"`
	ResetDate string          `json:"reset_date"`
}

func (b errorBody) detail() string {
	var s string
	if len(b.Detail) > 0 && json.Unmarshal(b.Detail, &s) == nil {
		return s
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// classify turns a non-2xx response into an *Error.
func classify(endpoint, requestID string, status int, data []byte) *Error {
	var body errorBody
	_ = json.Unmarshal(data, &body)

	apiErr := &Error{Endpoint: endpoint, StatusCode: status, RequestID: requestID}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		apiErr.Kind = KindAuth
		apiErr.Message = firstNonEmpty(body.Error, body.Message, body.detail(), "Authentication failed")

	case status == http.StatusTooManyRequests:
		apiErr.Kind = KindQuota
		apiErr.Message = firstNonEmpty(body.Message, body.Error, body.detail(), "You have reached your monthly limit")
		apiErr.Quota = &QuotaDetail{
			Message:   apiErr.Message,
			Used:      body.Used,
			Limit:     body.Limit,
			ResetDate: body.ResetDate,
		}

	default:
		apiErr.Kind = KindServer
		apiErr.Message = firstNonEmpty(body.Error, body.detail(), body.Message,
			fmt.Sprintf("Request failed with status code %d", status))
		if strings.Contains(strings.ToLower(apiErr.Message), "invalid api key") {
			apiErr.Kind = KindAuth
		}
	}

	if apiErr.Kind == KindServer {
		apiErr.Misconfigured = IsMisconfiguration(apiErr.Message)
	}
	return apiErr
}
