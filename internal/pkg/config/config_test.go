package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": testSecret,
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %s", cfg.Session.TTL)
	}
	if cfg.Session.Backend != SessionFile || cfg.Session.File != "token.txt" {
		t.Fatalf("unexpected session defaults %+v", cfg.Session)
	}
	if cfg.Directory.Driver != DirectoryMongo {
		t.Fatalf("unexpected driver %s", cfg.Directory.Driver)
	}
	if cfg.Argon2.Memory != 65536 || cfg.Argon2.Parallelism != 2 {
		t.Fatalf("unexpected argon2 defaults %+v", cfg.Argon2)
	}
	if cfg.OpsAddr != "" {
		t.Fatalf("expected ops listener off by default, got %q", cfg.OpsAddr)
	}
}

func TestLoadWith_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "JWT_SECRET"},
		{"zero ttl", map[string]string{"JWT_SECRET": testSecret, "SESSION_TTL": "0s"}, "SESSION_TTL"},
		{"ttl too long", map[string]string{"JWT_SECRET": testSecret, "SESSION_TTL": "13h"}, "SESSION_TTL"},
		{"bad backend", map[string]string{"JWT_SECRET": testSecret, "SESSION_BACKEND": "s3"}, "SESSION_BACKEND"},
		{"sealed without passphrase", map[string]string{"JWT_SECRET": testSecret, "SESSION_BACKEND": "sealed"}, "SESSION_PASSPHRASE"},
		{"bad driver", map[string]string{"JWT_SECRET": testSecret, "DIRECTORY_DRIVER": "sqlite"}, "DIRECTORY_DRIVER"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadWith_MaxTTLAccepted(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":  testSecret,
		"SESSION_TTL": "12h",
	}))
	if err != nil {
		t.Fatalf("expected 12h to be accepted: %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), false); err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), true); err == nil {
		t.Fatal("expected required missing file to fail")
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CRM_DOTENV_PROBE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CRM_DOTENV_PROBE", "")
	os.Unsetenv("CRM_DOTENV_PROBE")
	if err := LoadDotEnv(path, true); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("CRM_DOTENV_PROBE"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
