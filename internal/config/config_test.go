package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.PipelineWorkers != 4 || cfg.PipelineQueueSize != 256 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ProviderTimeout != 30*time.Second || cfg.SearchCacheTTL != 15*time.Minute {
		t.Fatalf("unexpected durations: %v %v", cfg.ProviderTimeout, cfg.SearchCacheTTL)
	}
	if !cfg.MigrateOnStart || cfg.OtelEnabled {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
}

func TestLoadEnvFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nPIPELINE_WORKERS=8\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("PIPELINE_WORKERS", "2")

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port from file, got %s", cfg.Port)
	}
	if cfg.PipelineWorkers != 2 {
		t.Fatalf("expected environment to win over file, got %d", cfg.PipelineWorkers)
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %v", cfg.ProviderTimeout)
	}
	origins := cfg.CORSOrigins()
	if len(origins) != 2 || origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}
