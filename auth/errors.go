// Package auth implements the authentication and token lifecycle subsystem of
// the Mosaia SDK. It covers OAuth2 Authorization Code flow with PKCE, password
// and client-credentials sign-in, refresh-token rotation, and the single
// credential slot every authenticated request reads from.
package auth

import (
	"errors"
	"fmt"
)

// Kind classifies an authentication failure in a machine readable way.
// The taxonomy decides retry behaviour: transport and server failures may be
// retried by the caller with backoff, the rest may not.
type Kind string

const (
	// KindConfig indicates missing or inconsistent client setup
	// (client ID, redirect URI, secret). Not retryable; fix the setup.
	KindConfig Kind = "configuration_error"
	// KindInvalidGrant indicates the server rejected the grant itself:
	// used or mismatched authorization code, revoked or expired refresh
	// token, bad credentials. Not retryable with the same inputs.
	KindInvalidGrant Kind = "invalid_grant"
	// KindTransport indicates the request never produced a server verdict
	// (timeout, DNS, connection reset). Retryable with backoff.
	KindTransport Kind = "network_error"
	// KindServer indicates a 5xx from the token endpoint. Retryable with backoff.
	KindServer Kind = "server_error"
	// KindCrypto indicates the local entropy source failed. Fatal.
	KindCrypto Kind = "crypto_error"
)

// Error is the structured failure surfaced by every operation in this package.
type Error struct {
	// Kind is the failure class, see the Kind constants.
	Kind Kind
	// Code carries the OAuth error code returned by the server, when any
	// (e.g. "invalid_grant", "invalid_client").
	Code string
	// Message is a human readable description.
	Message string
	// HTTPStatus records the token endpoint status code, when the failure
	// came from an HTTP response.
	HTTPStatus int
	// Cause is the underlying error, when any.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Retryable reports whether retrying the same operation with the same inputs
// can possibly succeed.
func (e *Error) Retryable() bool {
	if e == nil {
		return false
	}
	return e.Kind == KindTransport || e.Kind == KindServer
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// AsError extracts the structured *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	if authErr, ok := AsError(err); ok {
		return authErr.Kind == kind
	}
	return false
}

// IsInvalidGrant reports whether err means the grant is void and the user must
// re-authenticate.
func IsInvalidGrant(err error) bool { return IsKind(err, KindInvalidGrant) }

// IsConfigError reports whether err is caused by missing client configuration.
func IsConfigError(err error) bool { return IsKind(err, KindConfig) }

// IsRetryable reports whether the caller may retry err with backoff.
func IsRetryable(err error) bool {
	if authErr, ok := AsError(err); ok {
		return authErr.Retryable()
	}
	return false
}
