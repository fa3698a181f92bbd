package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("port: got %d, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("env: got %q, want development", cfg.Env)
	}
	if !cfg.SeedMaster {
		t.Error("seed master should default to true")
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %q", cfg.Addr())
	}
	if cfg.ValkeyAddr() != "localhost:6379" {
		t.Errorf("valkey addr: got %q", cfg.ValkeyAddr())
	}
	if !cfg.IsDev() {
		t.Error("IsDev should be true for development")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INKWELL_PORT", "9090")
	t.Setenv("INKWELL_DB_PATH", "/tmp/test.db")
	t.Setenv("INKWELL_ENV", "testing")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("port: got %d, want 9090", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("db path: got %q", cfg.DBPath)
	}
	if cfg.IsDev() {
		t.Error("IsDev should be false for testing env")
	}
}

func TestLoadRejectsSeededMasterInProduction(t *testing.T) {
	t.Setenv("INKWELL_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error: production with seeded master enabled")
	}

	t.Setenv("INKWELL_SEED_MASTER", "false")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with seeding disabled: %v", err)
	}
}
