package course

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"slidecast/internal/services"
)

// ErrInvalidInput marks corpus validation failures.
var ErrInvalidInput = errors.New("invalid slide records")

// Violation describes one problem in one input record.
type Violation struct {
	File    string
	Field   string
	Message string
}

func (v Violation) String() string {
	location := filepath.Base(v.File)
	if v.Field != "" {
		location += ": " + v.Field
	}
	return location + ": " + v.Message
}

// ValidationError carries every violation found in a corpus.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("%d invalid slide record field(s):\n  %s", len(e.Violations), strings.Join(lines, "\n  "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput || target == services.ErrValidation
}

// Record is the decoded shape of one per-slide YAML file.
type Record struct {
	ModuleID int      `yaml:"module_id"`
	SlideID  int      `yaml:"slide_id"`
	Content  string   `yaml:"content"`
	Script   []string `yaml:"script"`
}

// RecordFiles lists slide_*.yaml and slide_*.yml files in dir, sorted by name.
func RecordFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"slide_*.yaml", "slide_*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// LoadDir reads, validates, and sorts every record in dir. Any violation in any
// file aborts the load with a *ValidationError listing all of them.
func LoadDir(dir string) ([]Slide, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "input", "open", fmt.Sprintf("input directory %s", dir), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "input", "open", fmt.Sprintf("%s is not a directory", dir), nil)
	}
	files, err := RecordFiles(dir)
	if err != nil {
		return nil, err
	}
	sources := make(map[string][]byte, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		sources[file] = data
	}
	return Parse(files, sources)
}

// Parse validates and decodes records supplied in memory. files fixes the
// order in which violations are reported.
func Parse(files []string, sources map[string][]byte) ([]Slide, error) {
	var violations []Violation
	slides := make([]Slide, 0, len(files))
	seen := make(map[SlideID]string, len(files))

	for _, file := range files {
		rec, problems := decodeRecord(file, sources[file])
		if len(problems) > 0 {
			violations = append(violations, problems...)
			continue
		}
		id := SlideID{Module: rec.ModuleID, Slide: rec.SlideID}
		if prev, dup := seen[id]; dup {
			violations = append(violations, Violation{
				File:    file,
				Field:   "slide_id",
				Message: fmt.Sprintf("duplicate slide %s (also defined in %s)", id, filepath.Base(prev)),
			})
			continue
		}
		seen[id] = file
		slides = append(slides, Slide{ID: id, Content: rec.Content, Script: rec.Script, Source: file})
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	SortSlides(slides)
	return slides, nil
}

// Validate reports every violation in a single record without decoding it.
func Validate(file string, data []byte) []Violation {
	_, problems := decodeRecord(file, data)
	return problems
}

func decodeRecord(file string, data []byte) (Record, []Violation) {
	var rec Record
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return rec, []Violation{{File: file, Message: fmt.Sprintf("parse yaml: %v", err)}}
	}
	if raw == nil {
		return rec, []Violation{{File: file, Message: "record must be a mapping"}}
	}

	var problems []Violation
	add := func(field, format string, args ...any) {
		problems = append(problems, Violation{File: file, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	rec.ModuleID = requirePositiveInt(raw, "module_id", add)
	rec.SlideID = requirePositiveInt(raw, "slide_id", add)

	switch v, ok := raw["content"]; {
	case !ok:
		add("content", "missing required field")
	default:
		s, isString := v.(string)
		if !isString {
			add("content", "must be a string, got %s", typeName(v))
		}
		rec.Content = s
	}

	if v, ok := raw["script"]; ok && v != nil {
		items, isList := v.([]any)
		if !isList {
			add("script", "must be a list of strings, got %s", typeName(v))
		} else {
			rec.Script = make([]string, 0, len(items))
			for i, item := range items {
				s, isString := item.(string)
				if !isString {
					add(fmt.Sprintf("script[%d]", i), "must be a string, got %s", typeName(item))
					continue
				}
				rec.Script = append(rec.Script, s)
			}
		}
	}
	return rec, problems
}

func requirePositiveInt(raw map[string]any, field string, add func(string, string, ...any)) int {
	v, ok := raw[field]
	if !ok {
		add(field, "missing required field")
		return 0
	}
	n, isInt := v.(int)
	if !isInt {
		add(field, "must be an integer, got %s", typeName(v))
		return 0
	}
	if n < 1 {
		add(field, "must be a positive integer, got %d", n)
	}
	return n
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
