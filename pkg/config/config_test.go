package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestDefaultConfig verifies the defaults are valid
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.Workers != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), cfg.Search.Workers)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected text format, got %q", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestLoadConfig covers missing files, round trips and invalid content
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Missing file should yield defaults: %v", err)
	}
	if cfg.Input.MaxPixels != DefaultConfig().Input.MaxPixels {
		t.Errorf("Expected default max pixels, got %d", cfg.Input.MaxPixels)
	}

	path := filepath.Join(dir, "sub", "rectseg.yaml")
	cfg.Search.Workers = 3
	cfg.Search.RejectNonFinite = true
	cfg.Output.Format = "yaml"
	cfg.Output.RenderPath = "out.png"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Search.Workers != 3 || !loaded.Search.RejectNonFinite ||
		loaded.Output.Format != "yaml" || loaded.Output.RenderPath != "out.png" {
		t.Errorf("Loaded config does not match saved one: %+v", loaded)
	}

	// Partial files keep defaults for unset keys.
	partial := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(partial, []byte("search:\n  workers: 1\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	loaded, err = LoadConfig(partial)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Search.Workers != 1 || loaded.Input.Scale != DefaultConfig().Input.Scale {
		t.Errorf("Unexpected partial config: %+v", loaded)
	}

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed", "search: [", "error parsing"},
		{"bad format", "output:\n  format: xml\n", "output.format"},
		{"bad scale", "input:\n  scale: 0\n", "input.scale"},
		{"bad workers", "search:\n  workers: -2\n", "search.workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(p, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			_, err := LoadConfig(p)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestCreateDefaultConfigFile writes and reloads the defaults
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rectseg.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}
