package course

import (
	"cmp"
	"fmt"
	"slices"
)

// SlideID identifies a slide across the corpus.
type SlideID struct {
	Module int
	Slide  int
}

// Compare orders ids by module, then slide.
func (id SlideID) Compare(other SlideID) int {
	if c := cmp.Compare(id.Module, other.Module); c != 0 {
		return c
	}
	return cmp.Compare(id.Slide, other.Slide)
}

// Less reports whether id sorts before other.
func (id SlideID) Less(other SlideID) bool {
	return id.Compare(other) < 0
}

// Key returns the "module_slide" form used in file names and logs.
func (id SlideID) Key() string {
	return fmt.Sprintf("%d_%d", id.Module, id.Slide)
}

func (id SlideID) String() string {
	return id.Key()
}

// Slide is one validated input record.
type Slide struct {
	ID      SlideID
	Content string
	Script  []string
	Source  string
}

// HasScript reports whether the slide carries narration sentences.
func (s Slide) HasScript() bool {
	return len(s.Script) > 0
}

// SortSlides orders slides by ascending id in place.
func SortSlides(slides []Slide) {
	slices.SortStableFunc(slides, func(a, b Slide) int {
		return a.ID.Compare(b.ID)
	})
}

// IDs returns the ids of slides in their current order.
func IDs(slides []Slide) []SlideID {
	ids := make([]SlideID, len(slides))
	for i, s := range slides {
		ids[i] = s.ID
	}
	return ids
}
