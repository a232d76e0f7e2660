// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnauthorized is returned when the server answers 401 or 403.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError describes an unexpected non-2xx answer.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed: %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.Code, e.Body)
}

// IsRejection reports whether err means the server declined the request
// (401/403 or another 4xx), as opposed to the exchange not completing.
func IsRejection(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 400 && se.Code < 500
}

// HTTP implements API over REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:10000")
	baseURL string
	// endpoints contains the URL paths for the API endpoints
	endpoints Endpoints
	// client is the underlying HTTP client with configured timeout
	client    *http.Client
	userAgent string
}

// newHTTP creates a new HTTP client from opts, filling defaults.
func newHTTP(opts Options) *HTTP {
	h := &HTTP{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		endpoints: opts.Endpoints,
		client:    opts.Client,
		userAgent: opts.UserAgent,
	}
	if h.endpoints == (Endpoints{}) {
		h.endpoints = DefaultEndpoints()
	}
	if h.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		h.client = &http.Client{Timeout: timeout}
	}
	if h.userAgent == "" {
		h.userAgent = "examdesk"
	}
	return h
}

// setStandardHeaders applies headers every request carries, plus the bearer
// credential when one is given.
func (h *HTTP) setStandardHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if req.Body != nil && req.Body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}

// do sends a request with an optional JSON body and returns the response when
// the status is 2xx. Non-2xx answers are drained and turned into errors.
func (h *HTTP) do(ctx context.Context, op, method, path, accessToken string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req, accessToken)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
