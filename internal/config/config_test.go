package config

import (
	"testing"
)

// t.Setenv automatically restores the variable when the test ends, so
// these tests don't leak environment state into each other.

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when JWT_SECRET is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if cfg.DBPath != "data/bloghub.db" {
		t.Errorf("DBPath = %q, want data/bloghub.db", cfg.DBPath)
	}
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "9999")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.IsDevelopment() {
		t.Error("production mode should not report development")
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want fallback 5000 for unparseable value", cfg.Port)
	}
}
