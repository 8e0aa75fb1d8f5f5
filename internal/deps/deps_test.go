package deps

import (
	"os"
	"path/filepath"
	"testing"

	"slidecast/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Resolved != present {
		t.Fatalf("expected first requirement to resolve, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestCheckPathRequirement(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "chrome")
	if err := os.WriteFile(plain, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	results := CheckBinaries([]Requirement{
		{Name: "Browser", Command: plain, Path: true},
		{Name: "Gone", Command: filepath.Join(dir, "missing"), Path: true},
	})
	if results[0].Available {
		t.Fatal("non-executable file should be unavailable")
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing file detail, got %#v", results[1])
	}
}

func TestRequirementsAndMissingRequired(t *testing.T) {
	binDir := t.TempDir()
	script := []byte("#!/bin/sh\nexit 0\n")
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
			t.Fatalf("write stub: %v", err)
		}
	}
	t.Setenv("PATH", binDir)

	cfg := config.Default()
	cfg.Diagram.BrowserExecutable = filepath.Join(binDir, "chromium")
	reqs := Requirements(&cfg)
	if len(reqs) != 4 {
		t.Fatalf("expected 4 requirements with a browser configured, got %d", len(reqs))
	}

	statuses := CheckBinaries(reqs)
	if missing := MissingRequired(statuses); len(missing) != 0 {
		t.Fatalf("optional tools must not count as missing: %#v", missing)
	}

	t.Setenv("PATH", t.TempDir())
	missing := MissingRequired(CheckBinaries(reqs))
	if len(missing) != 2 || missing[0].Name != "FFmpeg" || missing[1].Name != "FFprobe" {
		t.Fatalf("expected ffmpeg and ffprobe missing, got %#v", missing)
	}
}
