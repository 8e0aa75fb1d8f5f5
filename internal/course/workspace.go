package course

import (
	"fmt"
	"path/filepath"
)

// Workspace names every per-slide artifact deterministically so repeated runs
// overwrite rather than accumulate.
type Workspace struct {
	SlidesDir string
	SoundsDir string
	VideoDir  string
}

// CompositionPath returns slides/slide_<m>_<s>.png.
func (w Workspace) CompositionPath(id SlideID) string {
	return filepath.Join(w.SlidesDir, fmt.Sprintf("slide_%d_%d.png", id.Module, id.Slide))
}

// ClipPath returns slide_sounds/sound_<m>_<s>.wav.
func (w Workspace) ClipPath(id SlideID) string {
	return filepath.Join(w.SoundsDir, fmt.Sprintf("sound_%d_%d.wav", id.Module, id.Slide))
}

// DeliverablePath returns the final video location: fullName for a full run,
// presentation_<m>_<s>.mp4 when the run was restricted to one slide.
func (w Workspace) DeliverablePath(selection *SlideID, fullName string) string {
	if selection != nil {
		return filepath.Join(w.VideoDir, fmt.Sprintf("presentation_%d_%d.mp4", selection.Module, selection.Slide))
	}
	return filepath.Join(w.VideoDir, fullName)
}
