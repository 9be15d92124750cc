package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// defaultGoogleScope is requested when no scopes are configured.
const defaultGoogleScope = "https://www.googleapis.com/auth/cloud-platform"

// GoogleServiceAccount provides Bearer tokens minted from a Google service
// account key. The key is read from KeyJSON when set, otherwise from
// KeyFile. Tokens are cached until they expire.
type GoogleServiceAccount struct {
	KeyFile string
	KeyJSON []byte
	Scopes  []string

	mu          sync.Mutex
	tokenSource oauth2.TokenSource
}

func (p *GoogleServiceAccount) Headers(ctx context.Context) (map[string]string, error) {
	src, err := p.source(ctx)
	if err != nil {
		return nil, err
	}
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("google service account token: %w", err)
	}
	return map[string]string{"Authorization": token.Type() + " " + token.AccessToken}, nil
}

// source builds the token source on first use. A failed build is retried on
// the next call.
func (p *GoogleServiceAccount) source(ctx context.Context) (oauth2.TokenSource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tokenSource != nil {
		return p.tokenSource, nil
	}

	key, err := p.key()
	if err != nil {
		return nil, err
	}
	scopes := p.Scopes
	if len(scopes) == 0 {
		scopes = []string{defaultGoogleScope}
	}
	creds, err := google.CredentialsFromJSON(ctx, key, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	p.tokenSource = oauth2.ReuseTokenSource(nil, creds.TokenSource)
	return p.tokenSource, nil
}

func (p *GoogleServiceAccount) key() ([]byte, error) {
	switch {
	case len(p.KeyJSON) > 0:
		return p.KeyJSON, nil
	case p.KeyFile != "":
		data, err := os.ReadFile(p.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read service account key file %s: %w", p.KeyFile, err)
		}
		return data, nil
	default:
		return nil, errors.New("service account key is not configured")
	}
}
