package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "5050" {
		t.Errorf("expected default port 5050, got %q", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected a development JWT secret outside production")
	}
	if cfg.Production() {
		t.Error("expected development environment by default")
	}
	if cfg.ProbeTimeout != 1500*time.Millisecond {
		t.Errorf("unexpected probe timeout %s", cfg.ProbeTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 default CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when JWT_SECRET is missing in production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PAYSTACK_BASE_URL", "https://pay.example.test/")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DB_PROBE_TIMEOUT_MS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Production() {
		t.Error("expected production environment")
	}
	if cfg.Paystack.BaseURL != "https://pay.example.test" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Paystack.BaseURL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.ProbeTimeout != 1500*time.Millisecond {
		t.Errorf("expected fallback probe timeout for bad input, got %s", cfg.ProbeTimeout)
	}
}
