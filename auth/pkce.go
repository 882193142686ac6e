package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// PKCECodes holds the verifier/challenge pair for one authorization attempt.
// The verifier must only ever be transmitted in the final token exchange; the
// challenge alone goes into the authorization URL. A pair is used exactly once
// and discarded.
type PKCECodes struct {
	// CodeVerifier is the cryptographically random string that correlates
	// the authorization request with the token request.
	CodeVerifier string `json:"code_verifier"`
	// CodeChallenge is the SHA-256 digest of the verifier, base64url-encoded
	// without padding.
	CodeChallenge string `json:"code_challenge"`
}

// GeneratePKCECodes generates a PKCE verifier and challenge pair per RFC 7636.
// The verifier is 128 URL-safe characters, within the 43-128 range the RFC
// mandates. Fails only when the entropy source is unavailable, which is fatal.
func GeneratePKCECodes() (*PKCECodes, error) {
	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, wrapError(KindCrypto, err, "pkce verifier generation failed")
	}
	return &PKCECodes{
		CodeVerifier:  verifier,
		CodeChallenge: ChallengeFromVerifier(verifier),
	}, nil
}

// generateCodeVerifier draws 96 random bytes, which base64url-encode to
// exactly 128 characters.
func generateCodeVerifier() (string, error) {
	buf := make([]byte, 96)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ChallengeFromVerifier derives the S256 code challenge for a verifier.
// The transform is deterministic: the same verifier always yields the same
// challenge.
func ChallengeFromVerifier(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
