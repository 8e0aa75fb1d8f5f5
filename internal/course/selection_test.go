package course_test

import (
	"errors"
	"testing"

	"slidecast/internal/course"
)

func corpus() []course.Slide {
	return []course.Slide{
		{ID: course.SlideID{Module: 1, Slide: 1}},
		{ID: course.SlideID{Module: 2, Slide: 1}},
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *course.SlideID
		invalid bool
	}{
		{name: "none", args: nil},
		{name: "pair", args: []string{"1", "1"}, want: &course.SlideID{Module: 1, Slide: 1}},
		{name: "single", args: []string{"1"}, invalid: true},
		{name: "three", args: []string{"1", "2", "3"}, invalid: true},
		{name: "word", args: []string{"one", "1"}, invalid: true},
		{name: "float", args: []string{"1", "1.5"}, invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := course.ParseSelection(tt.args)
			if tt.invalid {
				if !errors.Is(err, course.ErrInvalidSelection) {
					t.Fatalf("expected invalid selection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestSelectRunRestrictsToSingleSlide(t *testing.T) {
	sel, err := course.ParseSelection([]string{"1", "1"})
	if err != nil {
		t.Fatalf("ParseSelection: %v", err)
	}
	run, err := course.SelectRun(corpus(), sel)
	if err != nil {
		t.Fatalf("SelectRun: %v", err)
	}
	if len(run) != 1 || run[0].ID != (course.SlideID{Module: 1, Slide: 1}) {
		t.Fatalf("unexpected run: %v", course.IDs(run))
	}
}

func TestSelectRunNotFound(t *testing.T) {
	_, err := course.SelectRun(corpus(), &course.SlideID{Module: 9, Slide: 9})
	if !errors.Is(err, course.ErrSlideNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSelectRunFullCorpusIsSorted(t *testing.T) {
	slides := []course.Slide{
		{ID: course.SlideID{Module: 2, Slide: 1}},
		{ID: course.SlideID{Module: 1, Slide: 3}},
		{ID: course.SlideID{Module: 1, Slide: 1}},
	}
	run, err := course.SelectRun(slides, nil)
	if err != nil {
		t.Fatalf("SelectRun: %v", err)
	}
	for i := 1; i < len(run); i++ {
		if !run[i-1].ID.Less(run[i].ID) {
			t.Fatalf("run not sorted: %v", course.IDs(run))
		}
	}
	if slides[0].ID.Module != 2 {
		t.Fatal("SelectRun must not reorder the caller's slice")
	}
}
