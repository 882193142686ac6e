// Package api implements the HTTP core shared by every resource collection:
// request shaping, the platform response envelope, error mapping, and the
// reactive credential refresh that keeps authenticated calls flowing.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"github.com/mosaia-development/mosaia-go/auth"
)

// CredentialSource is the contract the auth service fulfills: the current
// credential accessor plus the reactive refresh other layers invoke on an
// authentication failure.
type CredentialSource interface {
	Credential() *auth.Credential
	Refresh(ctx context.Context) (*auth.Credential, error)
}

// Error is the structured failure for resource calls, mirroring the
// platform's error envelope.
type Error struct {
	// Message is the human readable description from the platform.
	Message string `json:"message"`
	// Code is the machine readable error code, NETWORK_ERROR for transport
	// failures.
	Code string `json:"code"`
	// Status is the HTTP status, 0 when the request never reached a verdict.
	Status int `json:"status"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const unknownErrorMessage = "An unknown error occurred"

// Client is the low level requester. All collection calls funnel through Do.
type Client struct {
	baseURL string
	hc      *http.Client
	creds   CredentialSource
	verbose bool

	// refreshGroup coalesces concurrent reactive refreshes so a burst of
	// 401s triggers one network refresh, not one per in-flight request.
	refreshGroup singleflight.Group
}

// Options tune the client.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Verbose    bool
}

// New builds a requester for the given versioned base URL. creds may be nil
// for fully unauthenticated use.
func New(baseURL string, creds CredentialSource, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
		creds:   creds,
		verbose: opts.Verbose,
	}
}

// Get issues a GET and decodes the response body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.Do(ctx, http.MethodDelete, path, query, nil, nil)
}

// Do performs one API call. An expired credential is refreshed before the
// request goes out; a 401 triggers one coalesced refresh and a single retry.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	cred := c.currentCredential()
	if cred != nil && cred.Expired() && cred.Refreshable() {
		refreshed, err := c.refresh(ctx)
		if err != nil {
			return err
		}
		cred = refreshed
	}

	status, respBody, err := c.send(ctx, method, path, query, body, cred)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && cred != nil && cred.Refreshable() {
		refreshed, errRefresh := c.refresh(ctx)
		if errRefresh != nil {
			return errRefresh
		}
		status, respBody, err = c.send(ctx, method, path, query, body, refreshed)
		if err != nil {
			return err
		}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return envelopeError(status, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err = json.Unmarshal(respBody, out); err != nil {
		return &Error{Message: fmt.Sprintf("decoding response: %v", err), Code: "DECODE_ERROR", Status: status}
	}
	return nil
}

func (c *Client) currentCredential() *auth.Credential {
	if c.creds == nil {
		return nil
	}
	return c.creds.Credential()
}

// refresh renews the credential through the source, deduplicating concurrent
// attempts. The credential slot itself is replaced atomically by the source;
// this only prevents redundant network refreshes.
func (c *Client) refresh(ctx context.Context) (*auth.Credential, error) {
	result, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		return c.creds.Refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	cred, _ := result.(*auth.Credential)
	return cred, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, cred *auth.Credential) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, &Error{Message: fmt.Sprintf("encoding request body: %v", err), Code: "ENCODE_ERROR", Status: 0}
		}
		payload = encoded
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, &Error{Message: err.Error(), Code: "NETWORK_ERROR", Status: 0}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authz := cred.Authorization(); authz != "" {
		req.Header.Set("Authorization", authz)
	}

	if c.verbose {
		log.Debugf("api: %s %s body=%s", method, endpoint, redactSecrets(payload))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, &Error{Message: err.Error(), Code: "NETWORK_ERROR", Status: 0}
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("api: closing response body: %v", errClose)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &Error{Message: err.Error(), Code: "NETWORK_ERROR", Status: 0}
	}

	if c.verbose {
		log.Debugf("api: %s %s -> %d body=%s", method, endpoint, resp.StatusCode, redactSecrets(respBody))
	}
	return resp.StatusCode, respBody, nil
}

// envelopeError maps a non-2xx platform response onto the structured error.
func envelopeError(status int, body []byte) *Error {
	apiErr := &Error{Message: unknownErrorMessage, Code: "UNKNOWN_ERROR", Status: status}
	if len(body) == 0 {
		return apiErr
	}
	parsed := gjson.ParseBytes(body)
	if msg := parsed.Get("message").String(); msg != "" {
		apiErr.Message = msg
	} else if !parsed.IsObject() {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if code := parsed.Get("code").String(); code != "" {
		apiErr.Code = code
	}
	return apiErr
}
