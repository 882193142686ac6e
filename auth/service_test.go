package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mosaia-development/mosaia-go/config"
)

func testConfig(apiURL string) *config.Config {
	cfg := &config.Config{
		APIURL:       apiURL,
		ClientID:     "client-1",
		ClientSecret: "secret-1",
	}
	cfg.ApplyDefaults()
	return cfg
}

func tokenHandler(t *testing.T, wantPath string, access, refresh string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  access,
			"refresh_token": refresh,
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}
}

func TestNewServiceSeedsAPIKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig("https://api.mosaia.ai")
	cfg.APIKey = "mosaia_live_key"
	svc := NewService(cfg)

	cred := svc.Credential()
	if cred == nil {
		t.Fatal("API key config should seed a credential")
	}
	if cred.Method != MethodAPIKey || cred.AccessToken != "mosaia_live_key" {
		t.Errorf("seeded credential = %+v", cred)
	}
	if cred.Expired() {
		t.Error("API key credentials never expire")
	}
	if cred.Refreshable() {
		t.Error("API key credentials are not refreshable")
	}
}

func TestSignInWithPassword(t *testing.T) {
	t.Parallel()

	var gotGrant, gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/signin" {
			t.Errorf("path = %q, want /v1/auth/signin", r.URL.Path)
		}
		_ = r.ParseForm()
		gotGrant = r.PostForm.Get("grant_type")
		gotEmail = r.PostForm.Get("email")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "A1",
			"refresh_token": "R1",
			"expires_in":    3600,
		})
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	cred, err := svc.SignInWithPassword(context.Background(), "dev@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignInWithPassword() error = %v", err)
	}
	if gotGrant != GrantPassword || gotEmail != "dev@example.com" {
		t.Errorf("form grant/email = %q/%q", gotGrant, gotEmail)
	}
	if cred.Method != MethodOAuth {
		t.Errorf("method = %q, want oauth", cred.Method)
	}
	if svc.Credential() != cred {
		t.Error("sign-in should install the credential")
	}
}

func TestSignInWithPasswordValidation(t *testing.T) {
	t.Parallel()

	svc := NewService(testConfig("https://api.mosaia.ai"))
	if _, err := svc.SignInWithPassword(context.Background(), "", "pw"); !IsConfigError(err) {
		t.Errorf("missing email: error = %v, want configuration error", err)
	}

	noClient := &config.Config{APIURL: "https://api.mosaia.ai"}
	noClient.ApplyDefaults()
	svc = NewService(noClient)
	if _, err := svc.SignInWithPassword(context.Background(), "a@b.c", "pw"); !IsConfigError(err) {
		t.Errorf("missing client ID: error = %v, want configuration error", err)
	}
}

func TestSignInWithClient(t *testing.T) {
	t.Parallel()

	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotForm = map[string]string{
			"grant_type":    r.PostForm.Get("grant_type"),
			"client_id":     r.PostForm.Get("client_id"),
			"client_secret": r.PostForm.Get("client_secret"),
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "A-client",
			"expires_in":   900,
		})
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	cred, err := svc.SignInWithClient(context.Background(), "", "")
	if err != nil {
		t.Fatalf("SignInWithClient() error = %v", err)
	}
	if gotForm["grant_type"] != GrantClient {
		t.Errorf("grant_type = %q, want %q", gotForm["grant_type"], GrantClient)
	}
	if gotForm["client_id"] != "client-1" || gotForm["client_secret"] != "secret-1" {
		t.Errorf("client id/secret fell back wrong: %+v", gotForm)
	}
	if cred.Method != MethodClientCredentials {
		t.Errorf("method = %q, want client", cred.Method)
	}
	if !cred.Refreshable() {
		t.Error("client credentials should be renewable via re-exchange")
	}
}

func TestSignInWithClientMissingSecret(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{APIURL: "https://api.mosaia.ai", ClientID: "client-1"}
	cfg.ApplyDefaults()
	svc := NewService(cfg)
	if _, err := svc.SignInWithClient(context.Background(), "", ""); !IsConfigError(err) {
		t.Errorf("error = %v, want configuration error", err)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(tokenHandler(t, "/v1/auth/refresh", "A2", "R2"))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	svc.Store().Replace(&Credential{
		Method:       MethodOAuth,
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	})

	cred, err := svc.RefreshToken(context.Background(), "")
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if cred.AccessToken != "A2" || cred.RefreshToken != "R2" {
		t.Errorf("rotated credential = %s/%s, want A2/R2", cred.AccessToken, cred.RefreshToken)
	}

	// The old pair must be gone: the slot holds exactly the new credential.
	active := svc.Credential()
	if active.AccessToken != "A2" || active.RefreshToken != "R2" {
		t.Errorf("active credential = %s/%s after rotation", active.AccessToken, active.RefreshToken)
	}
}

func TestRefreshTokenWithoutToken(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	_, err := svc.RefreshToken(context.Background(), "")
	if !IsConfigError(err) {
		t.Fatalf("error = %v, want configuration error", err)
	}
	if calls.Load() != 0 {
		t.Errorf("refresh without a token made %d network calls, want 0", calls.Load())
	}
}

func TestRefreshTokenInvalidGrant(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":             "invalid_grant",
			"error_description": "refresh token revoked",
		})
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	old := &Credential{Method: MethodOAuth, AccessToken: "A1", RefreshToken: "R-revoked"}
	svc.Store().Replace(old)

	_, err := svc.RefreshToken(context.Background(), "")
	if !IsInvalidGrant(err) {
		t.Fatalf("error = %v, want invalid grant", err)
	}
	if svc.Credential() != old {
		t.Error("failed refresh must not disturb the active credential")
	}
}

func TestRefreshDispatch(t *testing.T) {
	t.Parallel()

	t.Run("api key is a no-op", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig("https://api.mosaia.ai")
		cfg.APIKey = "mosaia_live_key"
		svc := NewService(cfg)

		cred, err := svc.Refresh(context.Background())
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if cred.AccessToken != "mosaia_live_key" {
			t.Errorf("Refresh() returned %q, want the unchanged API key", cred.AccessToken)
		}
	})

	t.Run("client credentials re-exchange", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(tokenHandler(t, "/v1/auth/signin", "A-new", ""))
		defer srv.Close()

		svc := NewService(testConfig(srv.URL))
		svc.Store().Replace(&Credential{Method: MethodClientCredentials, AccessToken: "A-old"})

		cred, err := svc.Refresh(context.Background())
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if cred.AccessToken != "A-new" {
			t.Errorf("AccessToken = %q, want A-new", cred.AccessToken)
		}
	})

	t.Run("oauth uses the refresh grant", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(tokenHandler(t, "/v1/auth/refresh", "A2", "R2"))
		defer srv.Close()

		svc := NewService(testConfig(srv.URL))
		svc.Store().Replace(&Credential{Method: MethodOAuth, AccessToken: "A1", RefreshToken: "R1"})

		cred, err := svc.Refresh(context.Background())
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if cred.AccessToken != "A2" {
			t.Errorf("AccessToken = %q, want A2", cred.AccessToken)
		}
	})

	t.Run("signed out", func(t *testing.T) {
		t.Parallel()
		svc := NewService(testConfig("https://api.mosaia.ai"))
		if _, err := svc.Refresh(context.Background()); !IsConfigError(err) {
			t.Errorf("error = %v, want configuration error", err)
		}
	})
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/auth/signout" {
			t.Errorf("path = %q, want /v1/auth/signout", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	svc.Store().Replace(&Credential{Method: MethodOAuth, AccessToken: "A1", RefreshToken: "R1"})

	if err := svc.SignOut(context.Background(), ""); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if gotAuth != "Bearer A1" {
		t.Errorf("Authorization = %q, want Bearer A1", gotAuth)
	}
	if svc.Credential() != nil {
		t.Error("SignOut() must clear the local credential")
	}
}

func TestSignOutClearsLocalOnRemoteFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL))
	svc.Store().Replace(&Credential{Method: MethodOAuth, AccessToken: "A1"})

	if err := svc.SignOut(context.Background(), ""); err != nil {
		t.Fatalf("SignOut() error = %v, remote failures must not escalate", err)
	}
	if svc.Credential() != nil {
		t.Error("local credential must be cleared even when revocation fails")
	}
}

func TestSignOutWhenSignedOut(t *testing.T) {
	t.Parallel()

	svc := NewService(testConfig("https://api.mosaia.ai"))
	if err := svc.SignOut(context.Background(), ""); err != nil {
		t.Fatalf("SignOut() error = %v, want nil for an already signed-out client", err)
	}
}

func TestServiceOAuthRequiresClientID(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{APIURL: "https://api.mosaia.ai"}
	cfg.ApplyDefaults()
	svc := NewService(cfg)
	if _, err := svc.OAuth("https://app.example.com/cb"); !IsConfigError(err) {
		t.Errorf("error = %v, want configuration error", err)
	}
}
