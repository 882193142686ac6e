package auth

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Session holds identity claims decoded locally from a JWT access token, so
// expiry and scoping checks never need a network call.
type Session struct {
	// Subject is the token subject claim.
	Subject string `json:"sub,omitempty"`
	// User is the user scoping claim, when present.
	User string `json:"user,omitempty"`
	// Org is the organization scoping claim, when present.
	Org string `json:"org,omitempty"`
	// IssuedAt mirrors the iat claim.
	IssuedAt time.Time `json:"iat,omitzero"`
	// ExpiresAt mirrors the exp claim.
	ExpiresAt time.Time `json:"exp,omitzero"`
}

// decodeSession extracts claims from a JWT access token. Opaque tokens and
// malformed payloads yield nil; claim decoding never fails authentication.
func decodeSession(accessToken string) *Session {
	parts := strings.Split(accessToken, ".")
	if len(parts) != 3 {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}
	if !gjson.ValidBytes(payload) {
		return nil
	}
	claims := gjson.ParseBytes(payload)
	sess := &Session{
		Subject: claims.Get("sub").String(),
		User:    claims.Get("user").String(),
		Org:     claims.Get("org").String(),
	}
	if iat := claims.Get("iat").Int(); iat > 0 {
		sess.IssuedAt = time.Unix(iat, 0)
	}
	if exp := claims.Get("exp").Int(); exp > 0 {
		sess.ExpiresAt = time.Unix(exp, 0)
	}
	if sess.Subject == "" && sess.User == "" && sess.Org == "" &&
		sess.IssuedAt.IsZero() && sess.ExpiresAt.IsZero() {
		return nil
	}
	return sess
}
