// Package session persists the single session token between process runs.
//
// Every store implements ports.SessionStore: one slot, overwritten by Save,
// emptied by Clear.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFile is the token file used when none is configured.
const DefaultFile = "token.txt"

const fileMode fs.FileMode = 0o600

// FileStore keeps the token in a plain file readable only by its owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path, or DefaultFile when empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(_ context.Context, token string) error {
	return writeAtomic(s.path, []byte(token))
}

func (s *FileStore) Load(_ context.Context) (string, bool, error) {
	raw, found, err := readSlot(s.path)
	if err != nil || !found {
		return "", false, err
	}
	token := string(bytes.TrimSpace(raw))
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s *FileStore) Clear(_ context.Context) error {
	return removeSlot(s.path)
}

// Ping reports whether the directory holding the token is usable.
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("session dir: %s is not a directory", dir)
	}
	return nil
}

// writeAtomic replaces path with data so a reader never sees a partial
// token.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("session save: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("session save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("session save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func readSlot(path string) ([]byte, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("session load: %w", err)
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	return raw, true, nil
}

func removeSlot(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
