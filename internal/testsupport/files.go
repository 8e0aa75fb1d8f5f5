package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"slidecast/internal/course"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Repeat("B", int(size))), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteRecord writes a slide_<m>_<s>.yaml record into dir and returns its path.
func WriteRecord(t testing.TB, dir string, id course.SlideID, content string, script ...string) string {
	t.Helper()

	record := course.Record{ModuleID: id.Module, SlideID: id.Slide, Content: content, Script: script}
	data, err := yaml.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record %s: %v", id, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("slide_%d_%d.yaml", id.Module, id.Slide))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write record %s: %v", path, err)
	}
	return path
}
