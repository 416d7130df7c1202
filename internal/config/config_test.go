package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TIME_ZONE", "AIDE_DB", "AIDE_ADMIN_TOKEN", "AIDE_ADDR"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TimeZone != "Europe/Paris" {
		t.Errorf("time zone: got %q, want %q", cfg.TimeZone, "Europe/Paris")
	}
	if !cfg.Classifier.Enabled {
		t.Error("classifier should default to enabled")
	}
	if cfg.Classifier.Threshold != 0.55 {
		t.Errorf("threshold: got %f, want 0.55", cfg.Classifier.Threshold)
	}
	if cfg.Classifier.Epochs != 300 {
		t.Errorf("epochs: got %d, want 300", cfg.Classifier.Epochs)
	}
	if cfg.Classifier.C != 10 {
		t.Errorf("c: got %v, want 10", cfg.Classifier.C)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("server addr: got %q", cfg.Server.Addr)
	}
	if cfg.Server.AdminToken != "" {
		t.Error("admin token should default to empty")
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("allowed origins: got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Corpus.DebounceMs != 500 {
		t.Errorf("debounce: got %d, want 500", cfg.Corpus.DebounceMs)
	}
	if filepath.Base(cfg.DBPath) != "aide.db" {
		t.Errorf("db path: got %q", cfg.DBPath)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Classifier.Threshold != 0.55 {
		t.Errorf("threshold: got %f, want 0.55", cfg.Classifier.Threshold)
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.TimeZone = "UTC"
	cfg.Classifier.Threshold = 0.7
	cfg.Server.AdminToken = "secret"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.TimeZone != "UTC" {
		t.Errorf("time zone: got %q, want %q", loaded.TimeZone, "UTC")
	}
	if loaded.Classifier.Threshold != 0.7 {
		t.Errorf("threshold: got %f, want 0.7", loaded.Classifier.Threshold)
	}
	if loaded.Server.AdminToken != "secret" {
		t.Errorf("admin token: got %q", loaded.Server.AdminToken)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9999\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr: got %q, want %q", cfg.Server.Addr, ":9999")
	}
	if cfg.TimeZone != "Europe/Paris" {
		t.Errorf("time zone: got %q", cfg.TimeZone)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("AIDE_ADMIN_TOKEN", "tok")
	t.Setenv("AIDE_DB", "/tmp/x.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeZone != "UTC" {
		t.Errorf("time zone: got %q", cfg.TimeZone)
	}
	if cfg.Server.AdminToken != "tok" {
		t.Errorf("admin token: got %q", cfg.Server.AdminToken)
	}
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("db path: got %q", cfg.DBPath)
	}
}

func TestLoad_InvalidTimeZone(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIME_ZONE", "Mars/Olympus_Mons")

	if _, err := Load(filepath.Join(t.TempDir(), "config.toml")); err == nil {
		t.Error("expected error for unknown time zone")
	}
}

func TestLoad_ThresholdOutOfRange(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[classifier]\nthreshold = 1.5\n"), 0o644)

	if _, err := Load(path); err == nil {
		t.Error("expected error for threshold > 1")
	}
}

func TestLoad_RejectsBadClassifierSettings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero threshold", "[classifier]\nthreshold = 0.0\n"},
		{"negative threshold", "[classifier]\nthreshold = -0.1\n"},
		{"zero c", "[classifier]\nc = 0.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %q", tt.body)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected config.toml, got %q", filepath.Base(path))
	}
}
