package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Limits.ExpensiveCheckFacets != 50000 {
		t.Errorf("ExpensiveCheckFacets = %d, want 50000", cfg.Limits.ExpensiveCheckFacets)
	}
	if cfg.Limits.MergeFacets != 100000 {
		t.Errorf("MergeFacets = %d, want 100000", cfg.Limits.MergeFacets)
	}
	if cfg.Limits.ReconstructionFactor != 5 {
		t.Errorf("ReconstructionFactor = %v, want 5", cfg.Limits.ReconstructionFactor)
	}
	if cfg.Limits.MergeFactor != 10 {
		t.Errorf("MergeFactor = %v, want 10", cfg.Limits.MergeFactor)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
limits:
  expensive_check_facets: 20000
  merge_factor: 4
logging:
  level: debug
  file:
    path: /tmp/mesh2step.log
    max_size_mb: 10
`)

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Limits.ExpensiveCheckFacets != 20000 {
		t.Errorf("ExpensiveCheckFacets = %d, want 20000", cfg.Limits.ExpensiveCheckFacets)
	}
	if cfg.Limits.MergeFactor != 4 {
		t.Errorf("MergeFactor = %v, want 4", cfg.Limits.MergeFactor)
	}
	// Untouched settings keep their defaults.
	if cfg.Limits.MergeFacets != 100000 {
		t.Errorf("MergeFacets = %d, want default 100000", cfg.Limits.MergeFacets)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.File.Path != "/tmp/mesh2step.log" {
		t.Errorf("File.Path = %q", cfg.Logging.File.Path)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "negative threshold",
			content: "limits:\n  expensive_check_facets: -5\n",
			wantErr: "expensive_check_facets",
		},
		{
			name:    "zero factor",
			content: "limits:\n  merge_factor: 0\n",
			wantErr: "merge_factor",
		},
		{
			name:    "bad level",
			content: "logging:\n  level: loud\n",
			wantErr: "logging.level",
		},
		{
			name:    "broken yaml",
			content: "limits: [\n",
			wantErr: "parse YAML",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := NewLoader().Load(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewLoader().Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
