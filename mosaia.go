// Package mosaia is the Go client for the Mosaia AI platform. It exposes the
// platform's resource collections as typed method calls and owns the
// authentication lifecycle (API keys, OAuth2 Authorization Code with PKCE,
// password and client-credentials sign-in, refresh-token rotation).
package mosaia

import (
	"context"
	"net/url"

	"github.com/mosaia-development/mosaia-go/auth"
	"github.com/mosaia-development/mosaia-go/config"
	"github.com/mosaia-development/mosaia-go/internal/api"
)

// APIError is the structured failure returned by resource calls.
type APIError = api.Error

// Client is the SDK entry point. Each Client owns its configuration and its
// own credential slot, so multiple clients with different identities can run
// side by side.
type Client struct {
	cfg  *config.Config
	auth *auth.Service
	api  *api.Client
}

// New builds a client. A nil configuration uses the platform defaults; when
// the configuration carries an API key the client starts out authenticated.
func New(cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg = cfg.Clone()
		cfg.ApplyDefaults()
	}
	authSvc := auth.NewService(cfg)
	return &Client{
		cfg:  cfg,
		auth: authSvc,
		api: api.New(cfg.BaseURL(), authSvc, api.Options{
			Timeout: cfg.Timeout,
			Verbose: cfg.Verbose,
		}),
	}
}

// Config returns a copy of the client configuration.
func (c *Client) Config() *config.Config {
	return c.cfg.Clone()
}

// Auth returns the authentication service: sign-in entry points, the refresh
// coordinator, and the active credential accessor.
func (c *Client) Auth() *auth.Service {
	return c.auth
}

// OAuth creates an Authorization Code + PKCE helper for this client. It fails
// with a configuration error when no client ID is configured.
func (c *Client) OAuth(redirectURI string, scopes ...string) (*auth.OAuth, error) {
	return c.auth.OAuth(redirectURI, scopes...)
}

// GenerateAPIKey signs in with client credentials and returns the resulting
// access token. The credential also becomes the client's active one.
func (c *Client) GenerateAPIKey(ctx context.Context, clientID, clientSecret string) (string, error) {
	cred, err := c.auth.SignInWithClient(ctx, clientID, clientSecret)
	if err != nil {
		return "", err
	}
	return cred.AccessToken, nil
}

// Session fetches the server-side view of the authenticated session.
func (c *Client) Session(ctx context.Context) (*SessionInfo, error) {
	var resp envelope[SessionInfo]
	if err := c.api.Get(ctx, "/auth/session", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Self fetches the authenticated user.
func (c *Client) Self(ctx context.Context) (*User, error) {
	var resp envelope[User]
	if err := c.api.Get(ctx, "/auth/self", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Users accesses the user collection.
func (c *Client) Users() *Collection[User] {
	return newCollection[User](c.api, "/users")
}

// UserSession fetches session information for a specific user.
func (c *Client) UserSession(ctx context.Context, userID string) (*SessionInfo, error) {
	var resp envelope[SessionInfo]
	if err := c.api.Get(ctx, "/users/"+url.PathEscape(userID)+"/session", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Organizations accesses the organization collection.
func (c *Client) Organizations() *Collection[Organization] {
	return newCollection[Organization](c.api, "/orgs")
}

// Agents accesses the agent collection.
func (c *Client) Agents() *Collection[Agent] {
	return newCollection[Agent](c.api, "/agents")
}

// AgentGroups accesses the agent-group collection.
func (c *Client) AgentGroups() *Collection[AgentGroup] {
	return newCollection[AgentGroup](c.api, "/agent-groups")
}

// Apps accesses the app collection.
func (c *Client) Apps() *Collection[App] {
	return newCollection[App](c.api, "/apps")
}

// AppBots accesses the app-bot collection.
func (c *Client) AppBots() *Collection[AppBot] {
	return newCollection[AppBot](c.api, "/bots")
}

// Tools accesses the tool collection.
func (c *Client) Tools() *Collection[Tool] {
	return newCollection[Tool](c.api, "/tools")
}

// Models accesses the model collection.
func (c *Client) Models() *Collection[Model] {
	return newCollection[Model](c.api, "/models")
}

// OAuthClients accesses the registered OAuth client collection.
func (c *Client) OAuthClients() *Collection[OAuthClient] {
	return newCollection[OAuthClient](c.api, "/clients")
}

// Wallets accesses the billing wallet collection.
func (c *Client) Wallets() *Collection[Wallet] {
	return newCollection[Wallet](c.api, "/billing/wallets")
}

// Meters accesses the billing meter collection.
func (c *Client) Meters() *Collection[Meter] {
	return newCollection[Meter](c.api, "/billing/meters")
}

// AccessPolicies accesses the access-policy collection.
func (c *Client) AccessPolicies() *Collection[AccessPolicy] {
	return newCollection[AccessPolicy](c.api, "/permissions/access-policies")
}

// OrgPermissions accesses the org-permission collection.
func (c *Client) OrgPermissions() *Collection[OrgPermission] {
	return newCollection[OrgPermission](c.api, "/permissions/org-permissions")
}

// UserPermissions accesses the user-permission collection.
func (c *Client) UserPermissions() *Collection[UserPermission] {
	return newCollection[UserPermission](c.api, "/permissions/user-permissions")
}

// ChatCompletion runs a synchronous chat completion.
func (c *Client) ChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var resp envelope[ChatCompletionResponse]
	if err := c.api.Post(ctx, "/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ChatCompletionAsync queues a chat completion for asynchronous processing
// and returns the accepted job payload.
func (c *Client) ChatCompletionAsync(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var resp envelope[ChatCompletionResponse]
	if err := c.api.Post(ctx, "/chat/completions/async", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
