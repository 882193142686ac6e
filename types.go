package mosaia

// Paging describes the pagination slice of a list response.
type Paging struct {
	Offset     int `json:"offset,omitempty"`
	Limit      int `json:"limit,omitempty"`
	Total      int `json:"total,omitempty"`
	Page       int `json:"page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// User is a platform user account.
type User struct {
	ID         string            `json:"id,omitempty"`
	Email      string            `json:"email"`
	FirstName  string            `json:"first_name,omitempty"`
	LastName   string            `json:"last_name,omitempty"`
	Org        string            `json:"org,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Extensors  map[string]string `json:"extensors,omitempty"`
	ExternalID string            `json:"external_id,omitempty"`
}

// Organization is a platform organization.
type Organization struct {
	ID               string            `json:"id,omitempty"`
	Name             string            `json:"name"`
	ShortDescription string            `json:"short_description,omitempty"`
	LongDescription  string            `json:"long_description,omitempty"`
	Image            string            `json:"image,omitempty"`
	Active           *bool             `json:"active,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Extensors        map[string]string `json:"extensors,omitempty"`
	ExternalID       string            `json:"external_id,omitempty"`
}

// Agent is a configured AI agent.
type Agent struct {
	ID               string            `json:"id,omitempty"`
	Name             string            `json:"name"`
	ShortDescription string            `json:"short_description,omitempty"`
	LongDescription  string            `json:"long_description,omitempty"`
	Model            string            `json:"model,omitempty"`
	SystemPrompt     string            `json:"system_prompt,omitempty"`
	Org              string            `json:"org,omitempty"`
	User             string            `json:"user,omitempty"`
	Active           *bool             `json:"active,omitempty"`
	Public           *bool             `json:"public,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Extensors        map[string]string `json:"extensors,omitempty"`
	ExternalID       string            `json:"external_id,omitempty"`
}

// AgentGroup bundles agents for routed execution.
type AgentGroup struct {
	ID               string            `json:"id,omitempty"`
	Name             string            `json:"name"`
	ShortDescription string            `json:"short_description,omitempty"`
	LongDescription  string            `json:"long_description,omitempty"`
	Agents           []string          `json:"agents,omitempty"`
	Org              string            `json:"org,omitempty"`
	User             string            `json:"user,omitempty"`
	Active           *bool             `json:"active,omitempty"`
	Public           *bool             `json:"public,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Extensors        map[string]string `json:"extensors,omitempty"`
	ExternalID       string            `json:"external_id,omitempty"`
}

// App is an integration application.
type App struct {
	ID               string            `json:"id,omitempty"`
	Name             string            `json:"name"`
	Org              string            `json:"org,omitempty"`
	User             string            `json:"user,omitempty"`
	ShortDescription string            `json:"short_description"`
	LongDescription  string            `json:"long_description,omitempty"`
	Image            string            `json:"image,omitempty"`
	ExternalAppURL   string            `json:"external_app_url,omitempty"`
	ExternalAPIKey   string            `json:"external_api_key,omitempty"`
	ExternalHeaders  map[string]string `json:"external_headers,omitempty"`
	Active           *bool             `json:"active,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Keywords         []string          `json:"keywords,omitempty"`
	Extensors        map[string]string `json:"extensors,omitempty"`
	ExternalID       string            `json:"external_id,omitempty"`
}

// AppBot connects an app to an agent or agent group.
type AppBot struct {
	ID            string            `json:"id,omitempty"`
	App           string            `json:"app,omitempty"`
	ResponseURL   string            `json:"response_url,omitempty"`
	Org           string            `json:"org,omitempty"`
	User          string            `json:"user,omitempty"`
	Agent         string            `json:"agent,omitempty"`
	AgentGroup    string            `json:"agent_group,omitempty"`
	APIKey        string            `json:"api_key,omitempty"`
	APIKeyPartial string            `json:"api_key_partial,omitempty"`
	Active        *bool             `json:"active,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Extensors     map[string]string `json:"extensors,omitempty"`
	ExternalID    string            `json:"external_id,omitempty"`
}

// Tool is an agent-invocable capability.
type Tool struct {
	ID                   string            `json:"id,omitempty"`
	Org                  string            `json:"org,omitempty"`
	User                 string            `json:"user,omitempty"`
	Name                 string            `json:"name,omitempty"`
	FriendlyName         string            `json:"friendly_name,omitempty"`
	ShortDescription     string            `json:"short_description"`
	ToolSchema           string            `json:"tool_schema"`
	RequiredEnvironment  []string          `json:"required_environment_variables,omitempty"`
	SourceURL            string            `json:"source_url,omitempty"`
	URL                  string            `json:"url,omitempty"`
	Public               *bool             `json:"public,omitempty"`
	Active               *bool             `json:"active,omitempty"`
	Keywords             []string          `json:"keywords,omitempty"`
	Tags                 []string          `json:"tags,omitempty"`
	ExternalID           string            `json:"external_id,omitempty"`
	Extensors            map[string]string `json:"extensors,omitempty"`
}

// Model is a hosted LLM configuration.
type Model struct {
	ID               string            `json:"id,omitempty"`
	Name             string            `json:"name"`
	ShortDescription string            `json:"short_description,omitempty"`
	LongDescription  string            `json:"long_description,omitempty"`
	Provider         string            `json:"provider,omitempty"`
	ModelID          string            `json:"model_id,omitempty"`
	MaxTokens        int               `json:"max_tokens,omitempty"`
	Org              string            `json:"org,omitempty"`
	User             string            `json:"user,omitempty"`
	Active           *bool             `json:"active,omitempty"`
	Public           *bool             `json:"public,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Extensors        map[string]string `json:"extensors,omitempty"`
	ExternalID       string            `json:"external_id,omitempty"`
}

// OAuthClient is a registered OAuth client application.
type OAuthClient struct {
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name"`
	ClientID     string            `json:"client_id,omitempty"`
	Org          string            `json:"org,omitempty"`
	User         string            `json:"user,omitempty"`
	RedirectURIs []string          `json:"redirect_uris,omitempty"`
	Scopes       []string          `json:"scopes,omitempty"`
	Active       *bool             `json:"active,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Extensors    map[string]string `json:"extensors,omitempty"`
	ExternalID   string            `json:"external_id,omitempty"`
}

// Wallet is a billing balance container.
type Wallet struct {
	ID         string            `json:"id,omitempty"`
	Balance    float64           `json:"balance,omitempty"`
	Currency   string            `json:"currency,omitempty"`
	Org        string            `json:"org,omitempty"`
	User       string            `json:"user,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Extensors  map[string]string `json:"extensors,omitempty"`
	ExternalID string            `json:"external_id,omitempty"`
}

// Meter tracks metered usage.
type Meter struct {
	ID         string            `json:"id,omitempty"`
	Type       string            `json:"type,omitempty"`
	Value      int               `json:"value,omitempty"`
	Org        string            `json:"org,omitempty"`
	User       string            `json:"user,omitempty"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Extensors  map[string]string `json:"extensors,omitempty"`
	ExternalID string            `json:"external_id,omitempty"`
}

// AccessPolicy is a reusable permission policy.
type AccessPolicy struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Effect     string            `json:"effect,omitempty"`
	Actions    []string          `json:"actions,omitempty"`
	Resources  []string          `json:"resources,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Extensors  map[string]string `json:"extensors,omitempty"`
	ExternalID string            `json:"external_id,omitempty"`
}

// OrgPermission binds a policy to a user within an organization.
type OrgPermission struct {
	ID         string            `json:"id,omitempty"`
	Org        string            `json:"org,omitempty"`
	User       string            `json:"user,omitempty"`
	Policy     string            `json:"policy,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Extensors  map[string]string `json:"extensors,omitempty"`
	ExternalID string            `json:"external_id,omitempty"`
}

// UserPermission binds a policy to a user for a client application.
type UserPermission struct {
	ID         string            `json:"id,omitempty"`
	User       string            `json:"user,omitempty"`
	Client     string            `json:"client,omitempty"`
	Policy     string            `json:"policy,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Extensors  map[string]string `json:"extensors,omitempty"`
	ExternalID string            `json:"external_id,omitempty"`
}

// SessionInfo is the server-side view of the authenticated session.
type SessionInfo struct {
	Sub  string `json:"sub,omitempty"`
	User string `json:"user,omitempty"`
	Org  string `json:"org,omitempty"`
	Iat  string `json:"iat,omitempty"`
	Exp  string `json:"exp,omitempty"`
}

// ChatMessage is one turn in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest asks an agent or model for a completion.
type ChatCompletionRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ChatCompletionChoice is one generated alternative.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// ChatCompletionResponse is the completion result.
type ChatCompletionResponse struct {
	ID      string                 `json:"id,omitempty"`
	Object  string                 `json:"object,omitempty"`
	Created int64                  `json:"created,omitempty"`
	Model   string                 `json:"model,omitempty"`
	Choices []ChatCompletionChoice `json:"choices,omitempty"`
}
