package auth

import (
	"context"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/mosaia-development/mosaia-go/config"
)

// Service owns credential production and the active credential slot for one
// client instance. Every entry point (password, client, authorization code,
// refresh) feeds the same slot through a single atomic replacement, so
// consumers never observe a half-updated credential.
//
// Refresh is reactive: nothing here starts timers or background work. All
// network operations honor the caller's context; a cancelled or failed
// operation installs nothing.
type Service struct {
	cfg        *config.Config
	store      *Store
	ex         *exchanger
	httpClient *http.Client
}

// Option customizes a Service.
type Option func(*Service)

// WithHTTPClient overrides the HTTP client used for token endpoint calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) { s.httpClient = hc }
}

// NewService builds the auth service for a configuration. When the
// configuration carries an API key it is seeded as the active credential:
// a non-expiring, non-refreshable one.
func NewService(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	svc := &Service{
		cfg:   cfg,
		store: NewStore(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.httpClient == nil {
		svc.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	svc.ex = newExchanger(cfg.BaseURL(), svc.httpClient)

	if cfg.APIKey != "" {
		svc.store.Replace(&Credential{
			Method:      MethodAPIKey,
			AccessToken: cfg.APIKey,
			Session:     decodeSession(cfg.APIKey),
		})
	}
	return svc
}

// Credential returns the active credential, or nil when signed out. This is
// the accessor every API collection reads before attaching an Authorization
// header.
func (s *Service) Credential() *Credential {
	return s.store.Current()
}

// Store exposes the credential slot for composition with the HTTP core.
func (s *Service) Store() *Store {
	return s.store
}

// OAuth returns an Authorization Code + PKCE helper bound to this service's
// credential slot: a successful exchange signs the client in.
func (s *Service) OAuth(redirectURI string, scopes ...string) (*OAuth, error) {
	if s.cfg.ClientID == "" {
		return nil, newError(KindConfig, "client ID is required to initialize OAuth")
	}
	return NewOAuth(OAuthConfig{
		ClientID:          s.cfg.ClientID,
		RedirectURI:       redirectURI,
		Scopes:            scopes,
		AuthorizationBase: s.cfg.FrontendURL,
		TokenBase:         s.cfg.BaseURL(),
	}, s.httpClient, s.store)
}

// SignInWithPassword exchanges a user's email and password for a credential
// and installs it as the active one.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Credential, error) {
	if s.cfg.ClientID == "" {
		return nil, newError(KindConfig, "client ID is required for password sign-in")
	}
	if email == "" || password == "" {
		return nil, newError(KindConfig, "email and password are required")
	}
	form := url.Values{
		"grant_type": {GrantPassword},
		"client_id":  {s.cfg.ClientID},
		"email":      {email},
		"password":   {password},
	}
	tok, err := s.ex.exchange(ctx, signinPath, form)
	if err != nil {
		return nil, err
	}
	cred := credentialFromToken(MethodOAuth, tok)
	s.store.Replace(cred)
	return cred, nil
}

// SignInWithClient performs the client-credentials exchange for
// server-to-server auth. Empty arguments fall back to the configured client
// ID and secret.
func (s *Service) SignInWithClient(ctx context.Context, clientID, clientSecret string) (*Credential, error) {
	if clientID == "" {
		clientID = s.cfg.ClientID
	}
	if clientSecret == "" {
		clientSecret = s.cfg.ClientSecret
	}
	if clientID == "" || clientSecret == "" {
		return nil, newError(KindConfig, "client ID and client secret are required for client sign-in")
	}
	form := url.Values{
		"grant_type":    {GrantClient},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}
	tok, err := s.ex.exchange(ctx, signinPath, form)
	if err != nil {
		return nil, err
	}
	cred := credentialFromToken(MethodClientCredentials, tok)
	s.store.Replace(cred)
	return cred, nil
}

// RefreshToken rotates a refresh token into a new credential. When
// refreshToken is empty the active credential's token is used; a
// configuration error is returned when neither exists. An invalid_grant
// verdict is terminal: the token is revoked or expired and the user must
// re-authenticate. No automatic fallback to other flows happens here.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*Credential, error) {
	if refreshToken == "" {
		if cur := s.store.Current(); cur != nil {
			refreshToken = cur.RefreshToken
		}
	}
	if refreshToken == "" {
		return nil, newError(KindConfig, "no refresh token available")
	}
	form := url.Values{
		"grant_type":    {GrantRefreshToken},
		"refresh_token": {refreshToken},
	}
	if s.cfg.ClientID != "" {
		form.Set("client_id", s.cfg.ClientID)
	}
	tok, err := s.ex.exchange(ctx, refreshPath, form)
	if err != nil {
		if IsInvalidGrant(err) {
			log.Debug("refresh token rejected; re-authentication required")
		}
		return nil, err
	}
	cred := credentialFromToken(MethodOAuth, tok)
	s.store.Replace(cred)
	return cred, nil
}

// Refresh renews the active credential according to its auth method:
// OAuth pairs go through the refresh grant, client-credentials tokens are
// re-exchanged from the configured client ID and secret, and API keys are
// returned unchanged (they never refresh).
func (s *Service) Refresh(ctx context.Context) (*Credential, error) {
	cur := s.store.Current()
	if cur == nil {
		return nil, newError(KindConfig, "no active credential to refresh")
	}
	switch cur.Method {
	case MethodAPIKey:
		return cur, nil
	case MethodClientCredentials:
		return s.SignInWithClient(ctx, "", "")
	default:
		return s.RefreshToken(ctx, "")
	}
}

// SignOut invalidates the server-side session for the given token (or the
// active credential when token is empty) and clears the local slot. The local
// sign-out always succeeds: a failed remote revocation is logged and not
// escalated.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		if cur := s.store.Current(); cur != nil {
			token = cur.AccessToken
		}
	}
	defer s.store.Clear()

	if token == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.ex.baseURL+signoutPath, nil)
	if err != nil {
		log.Warnf("sign-out: building revocation request failed: %v", err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Warnf("sign-out: remote revocation failed: %v", err)
		return nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= http.StatusBadRequest {
		log.Warnf("sign-out: remote revocation returned %s", resp.Status)
	}
	return nil
}
