// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore is the durable home of the bearer credential.
// *keychain.Manager implements it.
type TokenStore interface {
	SaveAccessToken(token string) error
	LoadAccessToken() (string, error)
	ClearAuth() error
}

// credentialExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not verified; the server stays the authority. Opaque tokens
// and JWTs without exp never expire locally.
func credentialExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
