package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/pkg/config"
)

func TestOpenDirectory_MemoryWarnsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Directory: config.DirectoryConfig{Driver: config.DirectoryMemory}}

	dir, err := openDirectory(context.Background(), cfg, zerolog.New(&buf))
	if err != nil {
		t.Fatalf("openDirectory: %v", err)
	}
	defer dir.close()

	if err := dir.pinger.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if !strings.Contains(buf.String(), "memory directory") {
		t.Errorf("expected a warning in the log, got %q", buf.String())
	}
}

func TestOpenDirectory_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Directory: config.DirectoryConfig{Driver: "sqlite"}}
	if _, err := openDirectory(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}

func TestOpenSessionStore_File(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Session: config.SessionConfig{
		Backend: config.SessionFile,
		File:    filepath.Join(t.TempDir(), "token.txt"),
	}}

	tokens, err := openSessionStore(ctx, cfg)
	if err != nil {
		t.Fatalf("openSessionStore: %v", err)
	}
	defer tokens.close()

	if err := tokens.Save(ctx, "abc"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := tokens.Load(ctx)
	if err != nil || !ok || got != "abc" {
		t.Fatalf("Load = %q, %v, %v", got, ok, err)
	}
}

func TestOpenSessionStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Backend: "etcd"}}
	if _, err := openSessionStore(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}
