// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package api is the HTTP client for the TestGen service.

Every call is a single JSON request/response exchange. There is no retry;
a failed call surfaces as one *Error whose Kind tells the caller how to
render it:

	resp, err := client.Generate(ctx, req)
	switch {
	case api.IsAuth(err):      // 401/403: ask the operator to log in again
	case api.IsQuota(err):     // 429: show used/limit/reset date
	case api.IsTransport(err): // no response: connectivity guidance
	case err != nil:           // server-reported message, maybe Guidance()
	}

# Authentication

The stored credential travels in the X-API-Key header. A client built
without a key makes anonymous (free tier) requests.

# Tracing

Each request carries a fresh X-Request-ID (UUID v4). The ID is logged at
Debug level and attached to any returned *Error so operators can quote it
to support.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/testorix/testgen/pkg/logging"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// Config configures a Client.
type Config struct {
	// BaseURL is the service root, e.g. "https://api.testorix.dev/api".
	BaseURL string

	// APIKey is sent as X-API-Key when non-empty.
	APIKey string

	// Timeout bounds each request. Zero means no caller-side timeout.
	Timeout time.Duration

	// UserAgent identifies the CLI build.
	UserAgent string

	// Logger receives request diagnostics. Nil discards them.
	Logger *logging.Logger

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the TestGen service.
//
// # Thread Safety
//
// Client holds no mutable state and is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a Client from cfg, filling defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "testgen"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticated reports whether requests carry a credential.
func (c *Client) Authenticated() bool {
	return c.apiKey != ""
}

// Login exchanges email and password for an API key.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, EndpointLogin, LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.APIKey == "" {
		return nil, &Error{Kind: KindDecode, Endpoint: EndpointLogin, Message: "Login response did not include an API key"}
	}
	return &out, nil
}

// Generate requests a test for one source file.
//
// A 2xx response with success=false and an error field is reported as a
// KindServer error.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var out GenerateResponse
	if err := c.do(ctx, http.MethodPost, EndpointGenerate, req, &out); err != nil {
		return nil, err
	}
	if !out.Success && out.Error != "" {
		return nil, &Error{
			Kind:          KindServer,
			Endpoint:      EndpointGenerate,
			StatusCode:    http.StatusOK,
			Message:       out.Error,
			Misconfigured: IsMisconfiguration(out.Error),
		}
	}
	return &out, nil
}

// Usage fetches the operator's usage statistics.
func (c *Client) Usage(ctx context.Context) (*UsageStats, error) {
	var out UsageStats
	if err := c.do(ctx, http.MethodGet, EndpointUsage, nil, &out); err != nil {
		return nil, err
	}
	if out.UsageByLanguage == nil {
		out.UsageByLanguage = map[string]int{}
	}
	return &out, nil
}

// SubmitFeedback posts one feedback answer. Callers treat failures as
// best-effort and ignore them.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	return c.do(ctx, http.MethodPost, EndpointFeedback, req, nil)
}

// FeedbackStatus reports whether the retention question may be asked.
func (c *Client) FeedbackStatus(ctx context.Context) (*FeedbackStatus, error) {
	var out FeedbackStatus
	if err := c.do(ctx, http.MethodGet, EndpointFeedbackStatus, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one JSON exchange.
//
// # Description
//
// Encodes body (if non-nil), sends it with the auth, tracing and agent
// headers, and decodes a 2xx response into out (if non-nil). Non-2xx
// responses are classified into an *Error.
//
// # Outputs
//
//   - error: nil, or an *Error describing the failure
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	requestID := uuid.NewString()
	log := c.logger.With("endpoint", endpoint, "request_id", requestID)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindDecode, Endpoint: endpoint, RequestID: requestID, Message: "failed to encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: endpoint, RequestID: requestID, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	log.Debug("api request", "method", method, "authenticated", c.apiKey != "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("api request failed", "error", err.Error(), "elapsed_ms", time.Since(start).Milliseconds())
		return &Error{Kind: KindTransport, Endpoint: endpoint, RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: endpoint, StatusCode: resp.StatusCode, RequestID: requestID,
			Message: "failed to read response", Err: err}
	}

	log.Debug("api response", "status", resp.StatusCode, "bytes", len(data), "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := classify(endpoint, requestID, resp.StatusCode, data)
		log.Debug("api error", "kind", apiErr.Kind.String(), "message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Endpoint: endpoint, StatusCode: resp.StatusCode, RequestID: requestID,
			Message: fmt.Sprintf("unexpected response from %s", endpoint), Err: err}
	}
	return nil
}
