package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.DB.Path != "" {
		t.Fatalf("expected empty default db path, got %s", cfg.DB.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.JSON {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "server:\n  addr: \":9090\"\ndb:\n  path: /tmp/tasktime.db\nlog:\n  level: debug\n  json: true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKTIME_CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %s", cfg.Server.Addr)
	}
	if cfg.DB.Path != "/tmp/tasktime.db" {
		t.Fatalf("unexpected db path: %s", cfg.DB.Path)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKTIME_CONFIG_PATH", path)
	t.Setenv("TASKTIME_ADDR", ":7070")
	t.Setenv("TASKTIME_LOG_LEVEL", "warn")
	t.Setenv("TASKTIME_LOG_JSON", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env override lost: %s", cfg.Server.Addr)
	}
	if cfg.Log.Level != "warn" || !cfg.Log.JSON {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TASKTIME_LOG_JSON", "definitely")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed TASKTIME_LOG_JSON")
	}

	t.Setenv("TASKTIME_LOG_JSON", "")
	t.Setenv("TASKTIME_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
