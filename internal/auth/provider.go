// Package auth supplies the HTTP headers that authenticate requests to an
// MCP server.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Provider produces the authentication headers added to every request of a
// session. Providers never trigger a retry; a failed lookup aborts the
// request it was called for.
type Provider interface {
	Headers(ctx context.Context) (map[string]string, error)
}

// Credential holds the secrets a Provider may need.
type Credential struct {
	Token      string
	HeaderName string
	Username   string
	Password   string
	KeyFile    string
	Scopes     []string
}

// NoAuth provides no authentication headers.
type NoAuth struct{}

func (p *NoAuth) Headers(_ context.Context) (map[string]string, error) {
	return nil, nil
}

// BearerToken provides Bearer token authentication.
type BearerToken struct {
	Token string
}

func (p *BearerToken) Headers(_ context.Context) (map[string]string, error) {
	if p.Token == "" {
		return nil, nil
	}
	return map[string]string{"Authorization": "Bearer " + p.Token}, nil
}

// APIKey provides API key authentication via a custom header.
type APIKey struct {
	Token      string
	HeaderName string // Defaults to "X-API-Key" if empty
}

func (p *APIKey) Headers(_ context.Context) (map[string]string, error) {
	if p.Token == "" {
		return nil, nil
	}
	name := p.HeaderName
	if name == "" {
		name = "X-API-Key"
	}
	return map[string]string{name: p.Token}, nil
}

// Basic provides HTTP Basic authentication.
type Basic struct {
	Username string
	Password string
}

func (p *Basic) Headers(_ context.Context) (map[string]string, error) {
	if p.Username == "" && p.Password == "" {
		return nil, nil
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(p.Username + ":" + p.Password))
	return map[string]string{"Authorization": "Basic " + encoded}, nil
}

// NewProvider creates a Provider from an auth type name and credentials.
func NewProvider(authType string, cred Credential) (Provider, error) {
	switch authType {
	case "no_auth", "none", "":
		return &NoAuth{}, nil
	case "bearer_token", "bearer":
		return &BearerToken{Token: cred.Token}, nil
	case "api_key":
		return &APIKey{Token: cred.Token, HeaderName: cred.HeaderName}, nil
	case "basic_auth", "basic":
		return &Basic{Username: cred.Username, Password: cred.Password}, nil
	case "google_service_account", "google_sa":
		if cred.KeyFile == "" {
			return nil, fmt.Errorf("auth type %q requires a key file", authType)
		}
		return &GoogleServiceAccount{KeyFile: cred.KeyFile, Scopes: cred.Scopes}, nil
	default:
		return nil, fmt.Errorf("unknown auth type: %q", authType)
	}
}
