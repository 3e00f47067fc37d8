package cmd

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/philipparndt/mesh2step/internal/config"
	"github.com/philipparndt/mesh2step/internal/diag"
	"github.com/philipparndt/mesh2step/internal/report"
)

// captureStderr collects everything the verbose summaries print
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	fn()
	w.Close()
	os.Stderr = old
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format string
		input  string
		want   string
	}{
		{"auto", "part.stl", "stl"},
		{"auto", "model.3mf", "3mf"},
		{"", "model.3mf", "3mf"},
		{"stl", "model.3mf", "stl"},
		{"3mf", "weird.bin", "3mf"},
	}
	for _, tt := range tests {
		if got := resolveFormat(tt.format, tt.input); got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.format, tt.input, got, tt.want)
		}
	}
}

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	want := config.Default()
	if cfg.Limits != want.Limits {
		t.Errorf("Limits = %+v, want defaults", cfg.Limits)
	}
}

func TestConvertSummarySuccess(t *testing.T) {
	res := report.New("part.stl", "part.step", "stl", 0.01)
	res.Success = true
	res.OutputSize = 4096
	res.Repairs = []string{"Mesh 1: Harmonized normals"}

	out := captureStderr(t, func() { printConvertSummary(res) })
	for _, want := range []string{"Mesh 1: Harmonized normals", "part.step", "4096"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q in %q", want, out)
		}
	}
}

func TestConvertSummaryFailure(t *testing.T) {
	res := report.New("part.stl", "part.step", "stl", 0.01)
	res.Fail(report.StageExport, errors.New("STEP export failed"))

	out := captureStderr(t, func() { printConvertSummary(res) })
	for _, want := range []string{"export", "STEP export failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q in %q", want, out)
		}
	}
}

func TestInspectSummary(t *testing.T) {
	res := report.New("part.stl", "", "stl", 0.01)
	res.Success = true
	res.MeshInfoBefore = []diag.MeshInfo{{Points: 8, Facets: 12, Edges: 18, IsSolid: true}}

	out := captureStderr(t, func() { printInspectSummary(res) })
	for _, want := range []string{"Mesh 1", "8", "12", "18", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q in %q", want, out)
		}
	}
}

func TestConvertHelpMentionsContract(t *testing.T) {
	help := renderConvertHelp()
	for _, want := range []string{"mesh2step convert", "stdout", "--no-repair"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q", want)
		}
	}
}
