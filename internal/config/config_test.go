package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.TickInterval != time.Second {
		t.Fatalf("expected 1s tick, got %s", cfg.TickInterval)
	}
	if cfg.Development() {
		t.Fatalf("expected production by default")
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TICK_INTERVAL=250ms\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TICK_INTERVAL", "")
	os.Unsetenv("TICK_INTERVAL")
	t.Setenv("ADDR", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Fatalf("expected tick from .env, got %s", cfg.TickInterval)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("expected addr from env, got %q", cfg.Addr)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestLoad_RejectsNonPositiveTick(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "0s")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected error")
	}
}
