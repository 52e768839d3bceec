package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Validation.SampleRows != 50000 {
		t.Errorf("SampleRows = %d, want 50000", cfg.Validation.SampleRows)
	}
	if cfg.HTTP.Timeout().Seconds() != 15 {
		t.Errorf("HTTP timeout = %v, want 15s", cfg.HTTP.Timeout())
	}
	if cfg.Reports.Dir == "" {
		t.Error("report dir unset")
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry must be opt-in")
	}
	if cfg.Redis.TTL() <= 0 {
		t.Errorf("redis TTL = %v, want positive", cfg.Redis.TTL())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENDQ_SAMPLE_ROWS", "123")
	t.Setenv("OPENDQ_HTTP_TIMEOUT", "7")
	t.Setenv("OPENDQ_OTLP_ENDPOINT", "collector:4317")

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.Get()
	if cfg.Validation.SampleRows != 123 {
		t.Errorf("SampleRows = %d, want 123", cfg.Validation.SampleRows)
	}
	if cfg.HTTP.TimeoutSeconds != 7 {
		t.Errorf("TimeoutSeconds = %d, want 7", cfg.HTTP.TimeoutSeconds)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "collector:4317" {
		t.Errorf("telemetry = %+v, want enabled via OTLP endpoint", cfg.Telemetry)
	}
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	content := "validation:\n  sample_rows: 2000\nreports:\n  dir: out\n"
	if err := os.WriteFile(filepath.Join(dir, ".opendq.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	m := NewManager()
	if err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.Get()
	if cfg.Validation.SampleRows != 2000 {
		t.Errorf("SampleRows = %d, want 2000", cfg.Validation.SampleRows)
	}
	if cfg.Reports.Dir != "out" {
		t.Errorf("Reports.Dir = %q, want out", cfg.Reports.Dir)
	}
	// untouched keys keep their defaults
	if cfg.HTTP.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds = %d, want default 15", cfg.HTTP.TimeoutSeconds)
	}
}
