package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Fatalf("default debounce: got %v", cfg.Debounce())
	}
	if cfg.SaveTimeout() != 10*time.Second {
		t.Fatalf("default save timeout: got %v", cfg.SaveTimeout())
	}
	if cfg.Serve.Listen != ":8080" {
		t.Fatalf("default listen: got %q", cfg.Serve.Listen)
	}
}

func TestLoad_FileOverridesAndBackfills(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	data := "server: http://boards.example.com\ndebounce_ms: 150\nserve:\n  listen: \":9090\"\n"
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server != "http://boards.example.com" {
		t.Fatalf("server: got %q", cfg.Server)
	}
	if cfg.Debounce() != 150*time.Millisecond {
		t.Fatalf("debounce: got %v", cfg.Debounce())
	}
	// Unset fields keep defaults.
	if cfg.SaveTimeout() != 10*time.Second {
		t.Fatalf("save timeout should default, got %v", cfg.SaveTimeout())
	}
	if cfg.Serve.Listen != ":9090" {
		t.Fatalf("listen: got %q", cfg.Serve.Listen)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("empty file should not error: %v", err)
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Fatalf("default debounce: got %v", cfg.Debounce())
	}
	if cfg.Server == "" {
		t.Fatal("server should default, got empty")
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(p, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("expected parse error")
	}
}
