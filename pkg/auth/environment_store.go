package auth

import (
	"os"
	"time"
)

// EnvironmentStore reads the auth token from TALENTPIPE_TOKEN. It is read-only.
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Retrieve(name string) (*Credential, error) {
	if name != KeyAuthToken {
		return nil, ErrCredentialsNotFound
	}
	token := os.Getenv("TALENTPIPE_TOKEN")
	if token == "" {
		return nil, ErrCredentialsNotFound
	}
	return &Credential{
		Name:         name,
		Token:        token,
		Email:        os.Getenv("TALENTPIPE_EMAIL"),
		LastModified: time.Now(),
	}, nil
}

func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(name string) bool {
	return name == KeyAuthToken && os.Getenv("TALENTPIPE_TOKEN") != ""
}
