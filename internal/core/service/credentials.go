package service

import (
	"fmt"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// CredentialStore checks and replaces collaborator passwords. It only ever
// holds hashes.
type CredentialStore struct {
	hasher ports.PasswordHasher
	// dummy is verified against when no user matches, so unknown emails
	// cost the same as wrong passwords.
	dummy string
}

func NewCredentialStore(hasher ports.PasswordHasher) (*CredentialStore, error) {
	dummy, err := hasher.Hash("unused-placeholder-password")
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}
	return &CredentialStore{hasher: hasher, dummy: dummy}, nil
}

// Verify reports whether plaintext matches the user's stored hash. A nil
// user, empty or malformed hash never matches.
func (c *CredentialStore) Verify(user *domain.User, plaintext string) bool {
	hash := c.dummy
	if user != nil {
		hash = user.PasswordHash
	}
	ok, err := c.hasher.Verify(plaintext, hash)
	return err == nil && ok && user != nil && user.PasswordHash != ""
}

// Set hashes plaintext into user.PasswordHash. The caller persists the user.
func (c *CredentialStore) Set(user *domain.User, plaintext string) error {
	hash, err := c.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	user.PasswordHash = hash
	return nil
}

// NeedsRehash reports whether the stored hash should be upgraded.
func (c *CredentialStore) NeedsRehash(user *domain.User) bool {
	ok, err := c.hasher.NeedsRehash(user.PasswordHash)
	return err == nil && ok
}
