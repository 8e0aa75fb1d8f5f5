package course

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Outline is a course description document: a title, a description, and
// modules whose slides are raw slide text blobs.
type Outline struct {
	Title       string          `yaml:"course_title"`
	Description string          `yaml:"description"`
	Modules     []OutlineModule `yaml:"modules"`
}

// OutlineModule is one module of an Outline.
type OutlineModule struct {
	ID               int      `yaml:"id"`
	Title            string   `yaml:"title"`
	DurationEstimate string   `yaml:"duration_estimate"`
	Script           string   `yaml:"script"`
	Slides           []string `yaml:"slides"`
}

// DisplayTitle returns the course title in title case for reports.
func (o Outline) DisplayTitle() string {
	return cases.Title(language.Und).String(o.Title)
}

// SlideCount returns the number of slides across all modules.
func (o Outline) SlideCount() int {
	total := 0
	for _, m := range o.Modules {
		total += len(m.Slides)
	}
	return total
}

// ValidateOutline checks a course outline document (YAML or JSON) and returns
// every structural violation found. The outline is returned only when there
// are none.
func ValidateOutline(file string, data []byte) (*Outline, []Violation) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, []Violation{{File: file, Message: fmt.Sprintf("parse document: %v", err)}}
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, []Violation{{File: file, Message: "document root must be an object"}}
	}

	var problems []Violation
	add := func(field, format string, args ...any) {
		problems = append(problems, Violation{File: file, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	for _, key := range []string{"course_title", "description"} {
		v, present := root[key]
		if !present {
			add(key, "missing required field")
			continue
		}
		if _, isString := v.(string); !isString {
			add(key, "must be a string, got %s", typeName(v))
		}
	}

	v, present := root["modules"]
	modules, isList := v.([]any)
	switch {
	case !present:
		add("modules", "missing required field")
	case !isList:
		add("modules", "must be a list, got %s", typeName(v))
	}
	for i, item := range modules {
		prefix := fmt.Sprintf("modules[%d]", i)
		module, isMap := item.(map[string]any)
		if !isMap {
			add(prefix, "must be an object, got %s", typeName(item))
			continue
		}
		for _, key := range []string{"id", "title", "duration_estimate", "script", "slides"} {
			field := prefix + "." + key
			value, present := module[key]
			if !present {
				add(field, "missing required field")
				continue
			}
			switch key {
			case "id":
				if _, isInt := value.(int); !isInt {
					add(field, "must be an integer, got %s", typeName(value))
				}
			case "slides":
				slides, isList := value.([]any)
				if !isList {
					add(field, "must be a list, got %s", typeName(value))
					continue
				}
				for j, slide := range slides {
					if _, isString := slide.(string); !isString {
						add(fmt.Sprintf("%s[%d]", field, j), "must be a string, got %s", typeName(slide))
					}
				}
			default:
				if _, isString := value.(string); !isString {
					add(field, "must be a string, got %s", typeName(value))
				}
			}
		}
	}

	if len(problems) > 0 {
		return nil, problems
	}
	var outline Outline
	if err := yaml.Unmarshal(data, &outline); err != nil {
		return nil, []Violation{{File: file, Message: fmt.Sprintf("decode outline: %v", err)}}
	}
	return &outline, nil
}
