// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Profile is the opaque user record returned by the session check.
type Profile map[string]any

// DisplayName picks the most human-friendly identifier available.
func (p Profile) DisplayName() string {
	for _, k := range []string{"email", "name", "username", "user_id", "id"} {
		switch v := p[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return "user"
}

// Clone returns a shallow copy so callers cannot mutate shared state.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Me calls GET /mylogin with the Authorization header and decodes the profile.
func (h *HTTP) Me(ctx context.Context, accessToken string) (Profile, error) {
	resp, err := h.do(ctx, "mylogin", http.MethodGet, h.endpoints.Me, accessToken, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("mylogin: decode profile: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("mylogin: empty profile")
	}
	return p, nil
}
