package auth

import (
	"context"
	"encoding/base64"
	"testing"
)

func TestNoAuth(t *testing.T) {
	p := &NoAuth{}
	headers, err := p.Headers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != 0 {
		t.Errorf("expected no headers, got %v", headers)
	}
}

func TestBearerToken(t *testing.T) {
	p := &BearerToken{Token: "my-secret-token"}
	headers, err := p.Headers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := headers["Authorization"]; got != "Bearer my-secret-token" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer my-secret-token")
	}
}

func TestBearerToken_EmptyToken(t *testing.T) {
	p := &BearerToken{}
	headers, err := p.Headers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != 0 {
		t.Errorf("expected no headers for empty token, got %v", headers)
	}
}

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		provider   *APIKey
		wantHeader string
		wantValue  string
	}{
		{
			name:       "default header",
			provider:   &APIKey{Token: "key-123"},
			wantHeader: "X-API-Key",
			wantValue:  "key-123",
		},
		{
			name:       "custom header",
			provider:   &APIKey{Token: "key-456", HeaderName: "X-Custom-Auth"},
			wantHeader: "X-Custom-Auth",
			wantValue:  "key-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, err := tt.provider.Headers(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(headers) != 1 {
				t.Fatalf("expected 1 header, got %v", headers)
			}
			if got := headers[tt.wantHeader]; got != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantHeader, got, tt.wantValue)
			}
		})
	}
}

func TestBasic(t *testing.T) {
	p := &Basic{Username: "user", Password: "pass"}
	headers, err := p.Headers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass"))
	if got := headers["Authorization"]; got != expected {
		t.Errorf("Authorization = %q, want %q", got, expected)
	}
}

func TestBasic_EmptyCredentials(t *testing.T) {
	p := &Basic{}
	headers, err := p.Headers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(headers) != 0 {
		t.Errorf("expected no headers for empty credentials, got %v", headers)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		authType string
		cred     Credential
		wantErr  bool
		check    func(Provider) bool
	}{
		{
			name:     "empty string",
			authType: "",
			check:    func(p Provider) bool { _, ok := p.(*NoAuth); return ok },
		},
		{
			name:     "none",
			authType: "none",
			check:    func(p Provider) bool { _, ok := p.(*NoAuth); return ok },
		},
		{
			name:     "bearer shorthand",
			authType: "bearer",
			cred:     Credential{Token: "tok"},
			check:    func(p Provider) bool { _, ok := p.(*BearerToken); return ok },
		},
		{
			name:     "api_key",
			authType: "api_key",
			cred:     Credential{Token: "key", HeaderName: "X-Auth"},
			check:    func(p Provider) bool { _, ok := p.(*APIKey); return ok },
		},
		{
			name:     "basic_auth",
			authType: "basic_auth",
			cred:     Credential{Username: "u", Password: "p"},
			check:    func(p Provider) bool { _, ok := p.(*Basic); return ok },
		},
		{
			name:     "google service account",
			authType: "google_sa",
			cred:     Credential{KeyFile: "/tmp/key.json"},
			check:    func(p Provider) bool { _, ok := p.(*GoogleServiceAccount); return ok },
		},
		{
			name:     "google service account without key file",
			authType: "google_service_account",
			wantErr:  true,
		},
		{
			name:     "unknown type",
			authType: "unknown",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.authType, tt.cred)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(p) {
				t.Errorf("NewProvider(%q) returned %T", tt.authType, p)
			}
		})
	}
}

func TestNewProvider_BearerHeaders(t *testing.T) {
	p, err := NewProvider("bearer_token", Credential{Token: "factory-tok"})
	if err != nil {
		t.Fatal(err)
	}
	headers, err := p.Headers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := headers["Authorization"]; got != "Bearer factory-tok" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer factory-tok")
	}
}
