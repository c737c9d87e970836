package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"talentpipe/pkg/storage"
)

// KeyAuthToken names the bearer token credential
const KeyAuthToken = "pt_auth_token"

// TokenStore owns the auth token and the API base-URL override
type TokenStore struct {
	creds          *Manager
	state          *storage.Store
	defaultBaseURL string
}

func NewTokenStore(creds *Manager, state *storage.Store, defaultBaseURL string) *TokenStore {
	return &TokenStore{creds: creds, state: state, defaultBaseURL: defaultBaseURL}
}

// Token returns the stored token, or "" when none is stored
func (t *TokenStore) Token() (string, error) {
	cred, err := t.creds.Retrieve(KeyAuthToken)
	if err != nil {
		if errors.Is(err, ErrCredentialsNotFound) {
			return "", nil
		}
		return "", err
	}
	return cred.Token, nil
}

// Session returns the stored credential including the login email
func (t *TokenStore) Session() (*Credential, error) {
	return t.creds.Retrieve(KeyAuthToken)
}

// SetToken stores token, remembering the email it was issued for
func (t *TokenStore) SetToken(token, email string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidCredentials
	}
	return t.creds.Store(&Credential{Name: KeyAuthToken, Token: token, Email: email})
}

// ClearToken removes the token. Clearing an absent token is not an error.
func (t *TokenStore) ClearToken() error {
	err := t.creds.Delete(KeyAuthToken)
	if errors.Is(err, ErrCredentialsNotFound) {
		return nil
	}
	return err
}

// BaseURL returns the override when set, otherwise the default
func (t *TokenStore) BaseURL() (string, error) {
	v, ok, err := t.state.Get(storage.KeyBaseURL)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(v) == "" {
		return strings.TrimRight(t.defaultBaseURL, "/"), nil
	}
	return strings.TrimRight(v, "/"), nil
}

// SetBaseURL stores an override. An empty value removes it.
func (t *TokenStore) SetBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return t.state.Delete(storage.KeyBaseURL)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", raw)
	}
	return t.state.Set(storage.KeyBaseURL, strings.TrimRight(raw, "/"))
}
