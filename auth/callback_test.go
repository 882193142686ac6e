package auth

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"testing"
	"time"
)

func TestGenerateState(t *testing.T) {
	t.Parallel()

	first, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(first) {
		t.Errorf("state = %q, want 32 hex chars", first)
	}
	second, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}
	if first == second {
		t.Error("state values must not repeat")
	}
}

func TestParseCallbackURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantCode  string
		wantState string
		wantErr   bool
		wantNil   bool
	}{
		{
			name:      "full redirect URL",
			input:     "http://localhost:8080/callback?code=abc123&state=xyz",
			wantCode:  "abc123",
			wantState: "xyz",
		},
		{
			name:     "bare query string",
			input:    "?code=abc123",
			wantCode: "abc123",
		},
		{
			name:     "key value pair without scheme",
			input:    "code=abc123",
			wantCode: "abc123",
		},
		{
			name:      "fragment carried parameters",
			input:     "http://localhost/callback#code=frag-code&state=frag-state",
			wantCode:  "frag-code",
			wantState: "frag-state",
		},
		{
			name:      "state glued onto code after hash",
			input:     "http://localhost/callback?code=abc%23the-state",
			wantCode:  "abc",
			wantState: "the-state",
		},
		{
			name:    "empty input loops the prompt",
			input:   "   ",
			wantNil: true,
		},
		{
			name:    "no code and no error",
			input:   "http://localhost/callback?foo=bar",
			wantErr: true,
		},
		{
			name:    "unparseable input",
			input:   "not a url at all",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := ParseCallbackURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCallbackURL(%q) = %+v, want error", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCallbackURL(%q) error = %v", tt.input, err)
			}
			if tt.wantNil {
				if result != nil {
					t.Fatalf("result = %+v, want nil", result)
				}
				return
			}
			if result.Code != tt.wantCode || result.State != tt.wantState {
				t.Errorf("code/state = %q/%q, want %q/%q", result.Code, result.State, tt.wantCode, tt.wantState)
			}
		})
	}
}

func TestParseCallbackURLDenied(t *testing.T) {
	t.Parallel()

	result, err := ParseCallbackURL("http://localhost/callback?error=access_denied&error_description=user+cancelled")
	if err != nil {
		t.Fatalf("ParseCallbackURL() error = %v", err)
	}
	if !IsInvalidGrant(result.Err()) {
		t.Errorf("Err() = %v, want invalid grant", result.Err())
	}
}

func TestCallbackServerRoundTrip(t *testing.T) {
	t.Parallel()

	cs := NewCallbackServer(0)
	if err := cs.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		_ = cs.Stop(context.Background())
	}()

	uri := cs.RedirectURI()
	if uri == "" {
		t.Fatal("RedirectURI() empty after Start")
	}

	resp, err := http.Get(uri + "?code=abc123&state=xyz")
	if err != nil {
		t.Fatalf("redirect request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if len(body) == 0 {
		t.Error("callback response should render a close-this-window page")
	}

	result, err := cs.WaitForCallback(5 * time.Second)
	if err != nil {
		t.Fatalf("WaitForCallback() error = %v", err)
	}
	if result.Code != "abc123" || result.State != "xyz" {
		t.Errorf("result = %+v, want code abc123 state xyz", result)
	}
	if result.Err() != nil {
		t.Errorf("Err() = %v, want nil", result.Err())
	}
}

func TestCallbackServerDeniedRedirect(t *testing.T) {
	t.Parallel()

	cs := NewCallbackServer(0)
	if err := cs.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		_ = cs.Stop(context.Background())
	}()

	resp, err := http.Get(cs.RedirectURI() + "?error=access_denied")
	if err != nil {
		t.Fatalf("redirect request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	result, err := cs.WaitForCallback(5 * time.Second)
	if err != nil {
		t.Fatalf("WaitForCallback() error = %v", err)
	}
	if result.Err() == nil {
		t.Error("denied callback should convert to an error")
	}
}

func TestWaitForCallbackTimeout(t *testing.T) {
	t.Parallel()

	cs := NewCallbackServer(0)
	if err := cs.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		_ = cs.Stop(context.Background())
	}()

	_, err := cs.WaitForCallback(50 * time.Millisecond)
	if !IsKind(err, KindTransport) {
		t.Errorf("error = %v, want transport timeout", err)
	}
}
