package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 37717 {
		t.Errorf("port = %d, want 37717", cfg.Server.Port)
	}
	if cfg.Learning.SimilarityThreshold != 0.6 {
		t.Errorf("similarity threshold = %f, want 0.6", cfg.Learning.SimilarityThreshold)
	}
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
server:
  port: 9999
learning:
  hypothesis_threshold: 5
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("bind = %q, want default kept", cfg.Server.Bind)
	}
	if cfg.Learning.HypothesisThreshold != 5 {
		t.Errorf("hypothesis threshold = %d, want 5", cfg.Learning.HypothesisThreshold)
	}
	// Unset learning keys keep their defaults.
	if cfg.Learning.MaxActiveHypotheses != 5 {
		t.Errorf("max active hypotheses = %d, want 5", cfg.Learning.MaxActiveHypotheses)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load: want error for malformed yaml")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CADENCE_DB", "/tmp/override.db")
	t.Setenv("CADENCE_PORT", "40000")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("db path = %q, want /tmp/override.db", cfg.Database.Path)
	}
	if cfg.Server.Port != 40000 {
		t.Errorf("port = %d, want 40000", cfg.Server.Port)
	}
}

func TestListenAddr(t *testing.T) {
	cfg := Default()
	if got := cfg.ListenAddr(); got != "127.0.0.1:37717" {
		t.Errorf("ListenAddr = %q", got)
	}
}
