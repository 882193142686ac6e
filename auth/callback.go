package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// GenerateState returns a cryptographically random state parameter for CSRF
// protection of the authorization flow.
func GenerateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", wrapError(KindCrypto, err, "state generation failed")
	}
	return hex.EncodeToString(buf), nil
}

// CallbackResult captures the parameters the authorization server appended to
// the redirect URI.
type CallbackResult struct {
	Code             string
	State            string
	ErrorCode        string
	ErrorDescription string
}

// Err converts a denied or failed authorization callback into an error, or
// nil when the callback carries a code.
func (r *CallbackResult) Err() error {
	if r == nil {
		return newError(KindConfig, "no callback received")
	}
	if r.ErrorCode == "" {
		return nil
	}
	return &Error{Kind: KindInvalidGrant, Code: r.ErrorCode, Message: callbackErrMessage(r)}
}

func callbackErrMessage(r *CallbackResult) string {
	if r.ErrorDescription != "" {
		return r.ErrorDescription
	}
	return "authorization was denied"
}

// CallbackServer is a one-shot loopback HTTP listener that captures the OAuth
// redirect for CLI and desktop hosts. Web applications receive the redirect
// on their own routes and never need this.
type CallbackServer struct {
	srv      *http.Server
	listener net.Listener
	path     string
	results  chan *CallbackResult
}

// NewCallbackServer prepares a callback listener on 127.0.0.1:port. Port 0
// picks an ephemeral port; read the bound address from RedirectURI after
// Start.
func NewCallbackServer(port int) *CallbackServer {
	s := &CallbackServer{
		path:    "/callback",
		results: make(chan *CallbackResult, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)
	s.srv = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start binds the listener and begins serving in the background.
func (s *CallbackServer) Start() error {
	listener, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("callback server: %w", err)
	}
	s.listener = listener
	go func() {
		if errServe := s.srv.Serve(listener); errServe != nil && errServe != http.ErrServerClosed {
			log.Warnf("callback server: %v", errServe)
		}
	}()
	return nil
}

// RedirectURI returns the redirect URI served by this listener, valid after
// Start.
func (s *CallbackServer) RedirectURI() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String() + s.path
}

// WaitForCallback blocks until the redirect arrives or the timeout elapses.
func (s *CallbackServer) WaitForCallback(timeout time.Duration) (*CallbackResult, error) {
	select {
	case result := <-s.results:
		return result, nil
	case <-time.After(timeout):
		return nil, newError(KindTransport, "timeout waiting for OAuth callback")
	}
}

// Stop shuts the listener down.
func (s *CallbackServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result := &CallbackResult{
		Code:             strings.TrimSpace(query.Get("code")),
		State:            strings.TrimSpace(query.Get("state")),
		ErrorCode:        strings.TrimSpace(query.Get("error")),
		ErrorDescription: strings.TrimSpace(query.Get("error_description")),
	}
	select {
	case s.results <- result:
	default:
		// A result is already pending; this is a duplicate redirect.
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if result.ErrorCode != "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, "<html><body><h2>Authentication failed</h2><p>You can close this window.</p></body></html>")
		return
	}
	_, _ = fmt.Fprint(w, "<html><body><h2>Authentication complete</h2><p>You can close this window and return to the application.</p></body></html>")
}

// ParseCallbackURL extracts OAuth callback parameters from a manually pasted
// redirect URL. It tolerates bare query strings and fragment-carried
// parameters. Returns nil for empty input so prompts can loop.
func ParseCallbackURL(input string) (*CallbackResult, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		switch {
		case strings.HasPrefix(candidate, "?"):
			candidate = "http://localhost" + candidate
		case strings.ContainsAny(candidate, "/?#") || strings.Contains(candidate, ":"):
			candidate = "http://" + candidate
		case strings.Contains(candidate, "="):
			candidate = "http://localhost/?" + candidate
		default:
			return nil, newError(KindConfig, "invalid callback URL")
		}
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return nil, wrapError(KindConfig, err, "invalid callback URL")
	}

	query := parsed.Query()
	result := &CallbackResult{
		Code:             strings.TrimSpace(query.Get("code")),
		State:            strings.TrimSpace(query.Get("state")),
		ErrorCode:        strings.TrimSpace(query.Get("error")),
		ErrorDescription: strings.TrimSpace(query.Get("error_description")),
	}

	if parsed.Fragment != "" {
		if fragQuery, errFrag := url.ParseQuery(parsed.Fragment); errFrag == nil {
			if result.Code == "" {
				result.Code = strings.TrimSpace(fragQuery.Get("code"))
			}
			if result.State == "" {
				result.State = strings.TrimSpace(fragQuery.Get("state"))
			}
			if result.ErrorCode == "" {
				result.ErrorCode = strings.TrimSpace(fragQuery.Get("error"))
			}
		}
	}

	// Some providers tack the state onto the code after a hash.
	if result.Code != "" && result.State == "" && strings.Contains(result.Code, "#") {
		parts := strings.SplitN(result.Code, "#", 2)
		result.Code = parts[0]
		result.State = parts[1]
	}

	if result.Code == "" && result.ErrorCode == "" {
		return nil, newError(KindConfig, "callback URL missing code")
	}
	return result, nil
}
