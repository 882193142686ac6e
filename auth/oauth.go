package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// OAuthConfig is the immutable setup for one OAuth helper instance.
type OAuthConfig struct {
	// ClientID identifies the registered OAuth client. Required.
	ClientID string
	// RedirectURI is where the authorization server sends the user back.
	// Required.
	RedirectURI string
	// Scopes are the requested scopes, joined with spaces in the URL.
	Scopes []string
	// State is an optional CSRF token; a random one is generated per
	// authorization request when empty.
	State string
	// AuthorizationBase is the frontend origin hosting the /oauth consent
	// page.
	AuthorizationBase string
	// TokenBase is the API origin (including version prefix) hosting the
	// token endpoints.
	TokenBase string
}

// AuthorizationRequest is the outcome of building an authorization URL. The
// caller must hold CodeVerifier until the redirect comes back; this SDK layer
// stores nothing across the redirect.
type AuthorizationRequest struct {
	// URL is the complete authorization URL to send the user to.
	URL string
	// CodeVerifier is the PKCE verifier matching the challenge embedded in
	// URL. Single use.
	CodeVerifier string
	// State is the CSRF token embedded in URL, to compare against the
	// callback.
	State string
}

// OAuth drives the Authorization Code flow with PKCE against the platform.
// Construct it through Service.OAuth or Client.OAuth so exchanged credentials
// land in the client's credential slot.
type OAuth struct {
	cfg   OAuthConfig
	ex    *exchanger
	store *Store
}

// NewOAuth validates the configuration and returns an OAuth helper.
// The store may be nil; exchanged credentials are then only returned, not
// installed.
func NewOAuth(cfg OAuthConfig, httpClient *http.Client, store *Store) (*OAuth, error) {
	if cfg.ClientID == "" {
		return nil, newError(KindConfig, "client ID is required to initialize OAuth")
	}
	if cfg.RedirectURI == "" {
		return nil, newError(KindConfig, "redirect URI is required to initialize OAuth")
	}
	return &OAuth{
		cfg:   cfg,
		ex:    newExchanger(cfg.TokenBase, httpClient),
		store: store,
	}, nil
}

// AuthorizationURL builds the login URL for a fresh PKCE pair and returns it
// together with the verifier the caller must keep for the exchange.
func (o *OAuth) AuthorizationURL() (*AuthorizationRequest, error) {
	pkce, err := GeneratePKCECodes()
	if err != nil {
		return nil, err
	}

	state := o.cfg.State
	if state == "" {
		if state, err = GenerateState(); err != nil {
			return nil, err
		}
	}

	params := url.Values{
		"client_id":             {o.cfg.ClientID},
		"redirect_uri":          {o.cfg.RedirectURI},
		"response_type":         {"code"},
		"code_challenge":        {pkce.CodeChallenge},
		"code_challenge_method": {"S256"},
		"state":                 {state},
	}
	if len(o.cfg.Scopes) > 0 {
		params.Set("scope", strings.Join(o.cfg.Scopes, " "))
	}

	return &AuthorizationRequest{
		URL:          strings.TrimRight(o.cfg.AuthorizationBase, "/") + "/oauth?" + params.Encode(),
		CodeVerifier: pkce.CodeVerifier,
		State:        state,
	}, nil
}

// ExchangeCodeForToken trades the authorization code plus its verifier for a
// credential. Codes and verifiers are single use: a failed exchange with
// invalid_grant cannot be retried with the same inputs. On success the
// credential is installed as the active one.
func (o *OAuth) ExchangeCodeForToken(ctx context.Context, code, codeVerifier string) (*Credential, error) {
	if code == "" {
		return nil, newError(KindConfig, "authorization code is required")
	}
	if codeVerifier == "" {
		return nil, newError(KindConfig, "code verifier is required")
	}

	form := url.Values{
		"grant_type":    {GrantAuthorizationCode},
		"client_id":     {o.cfg.ClientID},
		"redirect_uri":  {o.cfg.RedirectURI},
		"code":          {code},
		"code_verifier": {codeVerifier},
	}
	tok, err := o.ex.exchange(ctx, tokenPath, form)
	if err != nil {
		return nil, err
	}
	cred := credentialFromToken(MethodOAuth, tok)
	if o.store != nil {
		o.store.Replace(cred)
	}
	return cred, nil
}

// RefreshToken rotates an access/refresh pair through the refresh grant.
// On success the new credential replaces the active one.
func (o *OAuth) RefreshToken(ctx context.Context, refreshToken string) (*Credential, error) {
	if refreshToken == "" {
		return nil, newError(KindConfig, "refresh token is required")
	}
	form := url.Values{
		"grant_type":    {GrantRefreshToken},
		"client_id":     {o.cfg.ClientID},
		"refresh_token": {refreshToken},
	}
	tok, err := o.ex.exchange(ctx, refreshPath, form)
	if err != nil {
		return nil, err
	}
	cred := credentialFromToken(MethodOAuth, tok)
	if o.store != nil {
		o.store.Replace(cred)
	}
	return cred, nil
}
