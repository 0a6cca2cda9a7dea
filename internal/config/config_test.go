package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("AccessTTL = %v, want 15m", cfg.AccessTTL)
	}
	if cfg.RateRPS != 100 || cfg.DBMaxConns != 10 {
		t.Fatalf("rate/conns defaults wrong: %+v", cfg)
	}
	if cfg.Migrate {
		t.Fatal("Migrate should default to false")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CASHCARD_HTTP_PORT", "9090")
	t.Setenv("CASHCARD_ACCESS_TTL", "30m")
	t.Setenv("CASHCARD_RATE_RPS", "5")
	t.Setenv("CASHCARD_MIGRATE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Fatalf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Fatalf("AccessTTL = %v, want 30m", cfg.AccessTTL)
	}
	if cfg.RateRPS != 5 {
		t.Fatalf("RateRPS = %d, want 5", cfg.RateRPS)
	}
	if !cfg.Migrate {
		t.Fatal("Migrate = false, want true")
	}
}

func TestLoadRejectsEmptySecret(t *testing.T) {
	t.Setenv("CASHCARD_JWT_ACCESS_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for empty secret")
	} else if !strings.Contains(err.Error(), "validate config") {
		t.Fatalf("unexpected error: %v", err)
	}
}
