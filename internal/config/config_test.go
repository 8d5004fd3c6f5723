package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatal("Expected error when DB_DSN is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/funded?parseTime=true")
	t.Setenv("PORT", "")
	t.Setenv("PAYMENT_PROVIDER", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("INITIAL_ADMIN_EMAIL", " Admin@Example.com ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.Payments.Provider != "stripe" {
		t.Errorf("Expected stripe provider, got %s", cfg.Payments.Provider)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("Expected 7 day session TTL, got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.InitialAdminEmail != "admin@example.com" {
		t.Errorf("Expected normalized admin email, got %q", cfg.InitialAdminEmail)
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("DB_DSN", "dsn")
	t.Setenv("PAYMENT_PROVIDER", "paypal")
	if _, err := Load(); err == nil {
		t.Fatal("Expected error for unknown payment provider")
	}
}
