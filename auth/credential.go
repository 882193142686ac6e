package auth

import (
	"time"
)

// Method tags how a credential was obtained. The tag drives refresh dispatch:
// OAuth pairs rotate through the refresh grant, client-credentials tokens are
// re-exchanged, API keys never refresh.
type Method string

const (
	// MethodAPIKey marks a static API key configured by the caller.
	MethodAPIKey Method = "api_key"
	// MethodOAuth marks an access/refresh token pair from the
	// authorization-code or password grant.
	MethodOAuth Method = "oauth"
	// MethodClientCredentials marks a token from the client grant,
	// used for server-to-server auth with no user context.
	MethodClientCredentials Method = "client"
)

// expirySkew is subtracted from the expiry timestamp so a request never races
// an about-to-expire token. Refresh is reactive only; no background timers.
const expirySkew = 30 * time.Second

// Credential is the active secret plus metadata used to authenticate API
// calls. Credentials are immutable once produced; replacing the active one is
// a single atomic store (see Store).
type Credential struct {
	// Method tags how this credential was obtained.
	Method Method `json:"method"`
	// AccessToken is the bearer secret attached to every request.
	AccessToken string `json:"access_token"`
	// RefreshToken rotates the pair when present. Absent for API keys and
	// for grant types that do not issue one.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is the scheme echoed by the token endpoint, normally "Bearer".
	TokenType string `json:"token_type,omitempty"`
	// Scope is the scope echo from the token endpoint.
	Scope string `json:"scope,omitempty"`
	// IssuedAt is when the exchange completed locally.
	IssuedAt time.Time `json:"issued_at"`
	// ExpiresAt is the computed expiry. The zero value means the credential
	// never expires.
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	// Session carries identity claims decoded from the access token, when
	// the token is a JWT. Nil otherwise.
	Session *Session `json:"session,omitempty"`
}

// Expired reports whether the credential is past its expiry, minus the safety
// skew. Credentials without an expiry never expire.
func (c *Credential) Expired() bool {
	return c.ExpiredAt(time.Now())
}

// ExpiredAt is Expired evaluated at an explicit instant.
func (c *Credential) ExpiredAt(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt.Add(-expirySkew))
}

// Refreshable reports whether Refresh can rotate this credential without user
// interaction.
func (c *Credential) Refreshable() bool {
	if c == nil {
		return false
	}
	switch c.Method {
	case MethodOAuth:
		return c.RefreshToken != ""
	case MethodClientCredentials:
		return true
	default:
		return false
	}
}

// Authorization renders the value for the Authorization request header.
func (c *Credential) Authorization() string {
	if c == nil || c.AccessToken == "" {
		return ""
	}
	prefix := c.TokenType
	if prefix == "" {
		prefix = "Bearer"
	}
	return prefix + " " + c.AccessToken
}

// Clone returns a copy so callers can hold a credential without pinning the
// slot's value.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Session != nil {
		sess := *c.Session
		cp.Session = &sess
	}
	return &cp
}
