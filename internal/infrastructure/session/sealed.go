package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/epicevents/crm/internal/core/domain"
)

// SealedStore keeps the token in a file encrypted with an age scrypt
// passphrase. A file that cannot be decrypted is reported as an invalid
// token so the caller clears it.
type SealedStore struct {
	file       *FileStore
	passphrase string
	workFactor int
}

// SealedOption configures a SealedStore.
type SealedOption func(*SealedStore)

// WithWorkFactor sets the scrypt log2 work factor used when sealing.
func WithWorkFactor(logN int) SealedOption {
	return func(s *SealedStore) { s.workFactor = logN }
}

// NewSealedStore returns an encrypted store at path.
func NewSealedStore(path, passphrase string, opts ...SealedOption) (*SealedStore, error) {
	if passphrase == "" {
		return nil, errors.New("sealed session store requires a passphrase")
	}
	s := &SealedStore{file: NewFileStore(path), passphrase: passphrase}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SealedStore) Save(_ context.Context, token string) error {
	recipient, err := age.NewScryptRecipient(s.passphrase)
	if err != nil {
		return fmt.Errorf("session seal: %w", err)
	}
	if s.workFactor > 0 {
		recipient.SetWorkFactor(s.workFactor)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return fmt.Errorf("session seal: %w", err)
	}
	if _, err := io.WriteString(w, token); err != nil {
		return fmt.Errorf("session seal: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("session seal: %w", err)
	}
	return writeAtomic(s.file.path, buf.Bytes())
}

func (s *SealedStore) Load(_ context.Context) (string, bool, error) {
	raw, found, err := readSlot(s.file.path)
	if err != nil || !found {
		return "", false, err
	}

	identity, err := age.NewScryptIdentity(s.passphrase)
	if err != nil {
		return "", false, fmt.Errorf("session unseal: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(raw), identity)
	if err != nil {
		return "", false, fmt.Errorf("%w: unseal: %v", domain.ErrTokenInvalid, err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return "", false, fmt.Errorf("%w: unseal: %v", domain.ErrTokenInvalid, err)
	}
	token := string(bytes.TrimSpace(plain))
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s *SealedStore) Clear(ctx context.Context) error {
	return s.file.Clear(ctx)
}

func (s *SealedStore) Ping(ctx context.Context) error {
	return s.file.Ping(ctx)
}
