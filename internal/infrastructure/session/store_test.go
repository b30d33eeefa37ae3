package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newSealed(t *testing.T, path, passphrase string) *SealedStore {
	t.Helper()
	s, err := NewSealedStore(path, passphrase, WithWorkFactor(10))
	if err != nil {
		t.Fatalf("NewSealedStore: %v", err)
	}
	return s
}

// storeContract exercises the single-slot semantics shared by every backend.
func storeContract(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := store.Load(ctx); err != nil || found {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear on empty store: %v", err)
	}

	if err := store.Save(ctx, "first.token.value"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "second.token.value"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, found, err := store.Load(ctx)
	if err != nil || !found || got != "second.token.value" {
		t.Fatalf("load after overwrite: %q found=%v err=%v", got, found, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found, err := store.Load(ctx); err != nil || found {
		t.Fatalf("load after clear: found=%v err=%v", found, err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStore_Contract(t *testing.T) {
	storeContract(t, NewFileStore(filepath.Join(t.TempDir(), "token.txt")))
}

func TestSealedStore_Contract(t *testing.T) {
	storeContract(t, newSealed(t, filepath.Join(t.TempDir(), "token.age"), "correct horse"))
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestRedis(t)
	storeContract(t, NewRedisStore(client, "test", time.Minute))
}

func TestFileStore_PermissionsAndNoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.txt")
	store := NewFileStore(path)

	if err := store.Save(context.Background(), "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected mode 0600, got %o", perm)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the token file, found %d entries", len(entries))
	}
}

func TestFileStore_BlankFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.txt")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, found, err := NewFileStore(path).Load(context.Background()); err != nil || found {
		t.Fatalf("blank file: found=%v err=%v", found, err)
	}
}

func TestFileStore_DefaultPath(t *testing.T) {
	if got := NewFileStore("").Path(); got != DefaultFile {
		t.Fatalf("expected %s, got %s", DefaultFile, got)
	}
}

func TestSealedStore_CiphertextAtRest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.age")
	store := newSealed(t, path, "correct horse")

	if err := store.Save(context.Background(), "header.payload.signature"); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) == "header.payload.signature" {
		t.Fatal("expected the token to be encrypted at rest")
	}
}

func TestSealedStore_WrongPassphraseIsInvalidToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.age")
	if err := newSealed(t, path, "correct horse").Save(context.Background(), "tok"); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, found, err := newSealed(t, path, "battery staple").Load(context.Background())
	if found || !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got found=%v err=%v", found, err)
	}
}

func TestSealedStore_RequiresPassphrase(t *testing.T) {
	if _, err := NewSealedStore("token.age", ""); err == nil {
		t.Fatal("expected an error without passphrase")
	}
}

func TestRedisStore_KeyExpiresWithSession(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "alice", 30*time.Minute)

	if err := store.Save(context.Background(), "tok"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.Key() != "crm:session:alice" {
		t.Fatalf("unexpected key %s", store.Key())
	}
	if ttl := mr.TTL(store.Key()); ttl != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %s", ttl)
	}

	mr.FastForward(31 * time.Minute)
	if _, found, err := store.Load(context.Background()); err != nil || found {
		t.Fatalf("expected key to expire: found=%v err=%v", found, err)
	}
}

func TestRedisStore_ProfilesAreIsolated(t *testing.T) {
	_, client := newTestRedis(t)
	a := NewRedisStore(client, "a", 0)
	b := NewRedisStore(client, "", 0)

	if err := a.Save(context.Background(), "tok-a"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := b.Load(context.Background()); found {
		t.Fatal("expected profiles not to share a slot")
	}
	if b.Key() != "crm:session:default" {
		t.Fatalf("unexpected default key %s", b.Key())
	}
}

func TestRedisStore_LoadErrorSurfaces(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "x", 0)
	mr.Close()

	if _, _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected a storage error when redis is down")
	}
}
