package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env dev, got %q", cfg.App.Env)
	}
	if cfg.Store.Backend != StoreBackendSQLite {
		t.Fatalf("expected sqlite backend default, got %q", cfg.Store.Backend)
	}
	if cfg.Store.Namespace != "shadowwear" {
		t.Fatalf("unexpected namespace %q", cfg.Store.Namespace)
	}
	if cfg.Documents.CatalogPath != "products.json" {
		t.Fatalf("unexpected catalog path %q", cfg.Documents.CatalogPath)
	}
	if cfg.Documents.SettingsPath != "content/settings.json" {
		t.Fatalf("unexpected settings path %q", cfg.Documents.SettingsPath)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SHADOWWEAR_STORE_BACKEND", "redis")
	t.Setenv("SHADOWWEAR_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SHADOWWEAR_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Store.NormalizedBackend() != StoreBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.Store.Backend)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected redis url %q", cfg.Redis.URL)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected log level %q", cfg.App.LogLevel)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("SHADOWWEAR_STORE_BACKEND", "dynamo")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to return an error")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
