package course_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slidecast/internal/course"
	"slidecast/internal/services"
)

func writeRecord(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDirSortsByModuleThenSlide(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "slide_b.yaml", "module_id: 2\nslide_id: 1\ncontent: two-one\n")
	writeRecord(t, dir, "slide_a.yaml", "module_id: 1\nslide_id: 10\ncontent: one-ten\nscript:\n  - hola\n")
	writeRecord(t, dir, "slide_c.yml", "module_id: 1\nslide_id: 2\ncontent: one-two\nscript: []\n")
	writeRecord(t, dir, "notes.yaml", "ignored: true\n")

	slides, err := course.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	got := course.IDs(slides)
	want := []course.SlideID{{Module: 1, Slide: 2}, {Module: 1, Slide: 10}, {Module: 2, Slide: 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d slides, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slide %d: got %v want %v", i, got[i], want[i])
		}
	}
	if !slides[1].HasScript() || slides[1].Script[0] != "hola" {
		t.Fatalf("unexpected script: %#v", slides[1].Script)
	}
	if slides[0].HasScript() {
		t.Fatalf("expected empty script for %v", slides[0].ID)
	}
}

func TestValidateAcceptsValidRecord(t *testing.T) {
	data := []byte("module_id: 1\nslide_id: 1\ncontent: \"Slide 1: Hola\"\nscript:\n  - uno\n  - dos\n")
	if problems := course.Validate("slide_1_1.yaml", data); len(problems) != 0 {
		t.Fatalf("expected no violations, got %v", problems)
	}
}

func TestValidateNamesEveryMissingField(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"module", "slide_id: 1\ncontent: x\n", "module_id"},
		{"slide", "module_id: 1\ncontent: x\n", "slide_id"},
		{"content", "module_id: 1\nslide_id: 1\n", "content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := course.Validate("slide.yaml", []byte(tt.body))
			if len(problems) != 1 {
				t.Fatalf("expected one violation, got %v", problems)
			}
			if problems[0].Field != tt.field {
				t.Fatalf("expected violation on %q, got %q", tt.field, problems[0].Field)
			}
		})
	}
}

func TestValidateEnumeratesAllViolations(t *testing.T) {
	body := "module_id: uno\nslide_id: 0\ncontent: 12\nscript:\n  - ok\n  - 3\n"
	problems := course.Validate("slide.yaml", []byte(body))
	fields := make([]string, 0, len(problems))
	for _, p := range problems {
		fields = append(fields, p.Field)
	}
	want := []string{"module_id", "slide_id", "content", "script[1]"}
	if strings.Join(fields, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected violations: got %v want %v", fields, want)
	}
}

func TestParseReportsDuplicatesAndBadFilesTogether(t *testing.T) {
	files := []string{"slide_1.yaml", "slide_2.yaml", "slide_3.yaml"}
	sources := map[string][]byte{
		"slide_1.yaml": []byte("module_id: 1\nslide_id: 1\ncontent: a\n"),
		"slide_2.yaml": []byte("module_id: 1\nslide_id: 1\ncontent: b\n"),
		"slide_3.yaml": []byte("- not\n- a mapping\n"),
	}
	_, err := course.Parse(files, sources)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, course.ErrInvalidInput) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected input validation markers, got %v", err)
	}
	var verr *course.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", verr.Violations)
	}
	if !strings.Contains(verr.Violations[0].Message, "duplicate slide 1_1") {
		t.Fatalf("unexpected duplicate message: %q", verr.Violations[0].Message)
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	_, err := course.LoadDir(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
