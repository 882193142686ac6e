package auth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Grant type values accepted by the platform token endpoints.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantPassword          = "password"
	GrantClient            = "client"
	GrantRefreshToken      = "refresh_token"
)

// Platform paths that produce credentials. Sign-in style grants go through
// the signin endpoint, code exchange through the token endpoint, rotation
// through the refresh endpoint.
const (
	signinPath  = "/auth/signin"
	tokenPath   = "/auth/token"
	refreshPath = "/auth/refresh"
	signoutPath = "/auth/signout"
)

// TokenResponse is the token endpoint payload. It is only ever constructed
// from a server response, never by hand.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	Sub          string `json:"sub,omitempty"`
}

// exchanger performs the raw grant-for-token network exchanges. It carries no
// credential state and performs no retries; retry policy belongs to callers.
type exchanger struct {
	httpClient *http.Client
	baseURL    string
}

func newExchanger(baseURL string, httpClient *http.Client) *exchanger {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &exchanger{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// exchange POSTs a form-encoded grant request and decodes the token payload.
// Responses may arrive bare or wrapped in the platform's {data: ...} envelope;
// both shapes decode.
func (e *exchanger) exchange(ctx context.Context, path string, form url.Values) (*TokenResponse, error) {
	endpoint := e.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, wrapError(KindTransport, err, "building token request failed")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	log.Debugf("token exchange: POST %s grant_type=%s", endpoint, form.Get("grant_type"))

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(KindTransport, err, "token request to %s failed", endpoint)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("closing token response body: %v", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(KindTransport, err, "reading token response failed")
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &Error{
			Kind:       KindServer,
			Message:    "token endpoint returned " + resp.Status,
			HTTPStatus: resp.StatusCode,
		}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, grantError(resp.StatusCode, body)
	}

	payload := gjson.ParseBytes(body)
	if data := payload.Get("data"); data.IsObject() {
		payload = data
	}
	tok := &TokenResponse{
		AccessToken:  payload.Get("access_token").String(),
		RefreshToken: payload.Get("refresh_token").String(),
		TokenType:    payload.Get("token_type").String(),
		ExpiresIn:    payload.Get("expires_in").Int(),
		Scope:        payload.Get("scope").String(),
		Sub:          payload.Get("sub").String(),
	}
	if tok.AccessToken == "" {
		return nil, &Error{
			Kind:       KindServer,
			Message:    "token endpoint returned no access token",
			HTTPStatus: resp.StatusCode,
		}
	}
	return tok, nil
}

// grantError maps a 4xx token endpoint response onto the error taxonomy.
// Codes describing a malformed client setup map to configuration errors;
// everything else on a rejected grant means the inputs are void and the user
// must re-authenticate.
func grantError(status int, body []byte) *Error {
	payload := gjson.ParseBytes(body)
	if data := payload.Get("data"); data.IsObject() {
		payload = data
	}
	code := payload.Get("error").String()
	if code == "" {
		code = payload.Get("code").String()
	}
	message := payload.Get("error_description").String()
	if message == "" {
		message = payload.Get("message").String()
	}
	if message == "" {
		message = "token request rejected with " + http.StatusText(status)
	}

	kind := KindInvalidGrant
	switch code {
	case "invalid_request", "invalid_client", "unsupported_grant_type", "invalid_scope":
		kind = KindConfig
	}
	return &Error{Kind: kind, Code: code, Message: message, HTTPStatus: status}
}

// credentialFromToken builds the immutable Credential installed after a
// successful exchange. An expires_in of zero yields a non-expiring credential.
func credentialFromToken(method Method, tok *TokenResponse) *Credential {
	now := time.Now()
	cred := &Credential{
		Method:       method,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scope:        tok.Scope,
		IssuedAt:     now,
		Session:      decodeSession(tok.AccessToken),
	}
	if tok.ExpiresIn > 0 {
		cred.ExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return cred
}
