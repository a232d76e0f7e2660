// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Login calls POST /login with {"email","password"}.
// The token is taken from an Authorization response header first, then from the
// JSON body. A 2xx answer without a token yields an empty string and no error.
func (h *HTTP) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	resp, err := h.do(ctx, "login", http.MethodPost, h.endpoints.Login, "", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if token := findBearerTokenInHeaders(resp.Header); token != "" {
		return token, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return "", nil
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		// Some backends answer with the bare token as text.
		if !strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "json") {
			return strings.TrimSpace(string(raw)), nil
		}
		return "", errors.New("login: malformed response body")
	}
	return extractAccessToken(result), nil
}

// Logout calls POST /logout with the Authorization header.
func (h *HTTP) Logout(ctx context.Context, accessToken string) error {
	resp, err := h.do(ctx, "logout", http.MethodPost, h.endpoints.Logout, accessToken, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
