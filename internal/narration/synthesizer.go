package narration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"slidecast/internal/course"
	"slidecast/internal/fileutil"
	"slidecast/internal/logging"
)

// ErrEmptyScript is returned for slides without narration sentences.
var ErrEmptyScript = errors.New("slide has no script")

// Speaker records one sentence.
type Speaker interface {
	Speak(ctx context.Context, text string, w io.Writer) error
}

// AudioTools renders silence and joins clips.
type AudioTools interface {
	Silence(ctx context.Context, dst string, duration float64) error
	Concat(ctx context.Context, dst string, inputs []string) error
}

// Clip is a produced narration clip.
type Clip struct {
	Path      string
	Sentences int
}

// Synthesizer produces per-slide narration clips.
type Synthesizer struct {
	speaker Speaker
	tools   AudioTools
	pause   float64
	logger  *slog.Logger
}

// NewSynthesizer wires a Speaker and the audio tools. pause is the silence in
// seconds inserted between sentences.
func NewSynthesizer(speaker Speaker, tools AudioTools, pause float64, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		speaker: speaker,
		tools:   tools,
		pause:   pause,
		logger:  logging.NewComponentLogger(logger, "narration"),
	}
}

// Synthesize records every sentence of script and writes the joined clip to
// dst. No file is written for an empty script. Any sentence failure aborts the
// clip; earlier recordings are discarded.
func (s *Synthesizer) Synthesize(ctx context.Context, id course.SlideID, script []string, dst string) (Clip, error) {
	if len(script) == 0 {
		return Clip{}, ErrEmptyScript
	}
	logger := logging.WithContext(ctx, s.logger)

	scratch, err := os.MkdirTemp(filepath.Dir(dst), fmt.Sprintf(".narration-%s-*", id.Key()))
	if err != nil {
		return Clip{}, fmt.Errorf("narration scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	var silence string
	if s.pause > 0 && len(script) > 1 {
		silence = filepath.Join(scratch, "silence.wav")
		if err := s.tools.Silence(ctx, silence, s.pause); err != nil {
			return Clip{}, err
		}
	}

	parts := make([]string, 0, 2*len(script)-1)
	for i, sentence := range script {
		start := time.Now()
		part := filepath.Join(scratch, fmt.Sprintf("sentence_%03d.wav", i+1))
		if err := s.record(ctx, sentence, part); err != nil {
			return Clip{}, fmt.Errorf("sentence %d of %d: %w", i+1, len(script), err)
		}
		logger.Debug("sentence recorded",
			logging.String(logging.FieldEventType, "sentence_recorded"),
			logging.Int("sentence", i+1),
			logging.Duration("elapsed", time.Since(start)),
		)
		parts = append(parts, part)
		if silence != "" && i < len(script)-1 {
			parts = append(parts, silence)
		}
	}

	// dst is only ever replaced by a complete clip.
	joined := filepath.Join(scratch, "joined.wav")
	if err := s.tools.Concat(ctx, joined, parts); err != nil {
		return Clip{}, err
	}
	if err := fileutil.MoveFile(joined, dst); err != nil {
		return Clip{}, fmt.Errorf("install narration clip: %w", err)
	}
	return Clip{Path: dst, Sentences: len(script)}, nil
}

func (s *Synthesizer) record(ctx context.Context, text, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	if err := s.speaker.Speak(ctx, text, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
