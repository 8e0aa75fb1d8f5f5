package course

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidSelection marks CLI arguments that do not name a slide.
	ErrInvalidSelection = errors.New("invalid slide selection")
	// ErrSlideNotFound marks a selection with no matching record.
	ErrSlideNotFound = errors.New("slide not found")
)

// ParseSelection interprets optional positional arguments. No arguments
// selects the whole corpus (nil); exactly two integers select one slide.
func ParseSelection(args []string) (*SlideID, error) {
	switch len(args) {
	case 0:
		return nil, nil
	case 2:
	default:
		return nil, fmt.Errorf("%w: expected 0 or 2 arguments, got %d", ErrInvalidSelection, len(args))
	}
	module, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: module_id %q is not an integer", ErrInvalidSelection, args[0])
	}
	slide, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: slide_id %q is not an integer", ErrInvalidSelection, args[1])
	}
	return &SlideID{Module: module, Slide: slide}, nil
}

// SelectRun returns the ordered Run for a selection. slides must already be sorted.
func SelectRun(slides []Slide, selection *SlideID) ([]Slide, error) {
	if selection == nil {
		run := make([]Slide, len(slides))
		copy(run, slides)
		SortSlides(run)
		return run, nil
	}
	for _, s := range slides {
		if s.ID == *selection {
			return []Slide{s}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSlideNotFound, selection)
}
