package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv("LIBRARY_API_URL", "http://localhost:4000/api/v1")

	cfg, err := LoadClient(context.Background())
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIURL != "http://localhost:4000/api/v1" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("Timeout = %v, want 15s", cfg.Timeout)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if !cfg.LogPretty {
		t.Fatal("LogPretty should default to true")
	}
}

func TestLoadClient_RequiresAPIURL(t *testing.T) {
	// t.Setenv registers the restore; the unset makes the variable truly absent
	t.Setenv("LIBRARY_API_URL", "")
	os.Unsetenv("LIBRARY_API_URL")
	if _, err := LoadClient(context.Background()); err == nil {
		t.Fatal("missing LIBRARY_API_URL must fail")
	}
}

func TestLoadClient_Overrides(t *testing.T) {
	t.Setenv("LIBRARY_API_URL", "http://example.com/api/v1")
	t.Setenv("LIBRARY_API_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadClient(context.Background())
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("Timeout = %v", cfg.Timeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadDevServer_Defaults(t *testing.T) {
	cfg, err := LoadDevServer(context.Background())
	if err != nil {
		t.Fatalf("LoadDevServer: %v", err)
	}
	if cfg.Port != "4000" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.SessionSecret != "dev-only-secret" {
		t.Fatalf("SessionSecret = %q", cfg.SessionSecret)
	}
	if cfg.OTPFixed != "000000" {
		t.Fatalf("OTPFixed = %q", cfg.OTPFixed)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
}
