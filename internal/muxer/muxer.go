package muxer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"slidecast/internal/fileutil"
	"slidecast/internal/logging"
	"slidecast/internal/media/ffmpeg"
	"slidecast/internal/services"
	"slidecast/internal/timeline"
)

// ErrEmptyPlan is returned when there are no video segments to render.
var ErrEmptyPlan = errors.New("timeline has no segments")

// Encoder is the subset of ffmpeg operations the muxer drives.
type Encoder interface {
	Still(ctx context.Context, image, dst string, duration float64, fade ffmpeg.Fade) error
	Black(ctx context.Context, dst string, duration float64) error
	Silence(ctx context.Context, dst string, duration float64) error
	Concat(ctx context.Context, dst string, inputs []string) error
	Combine(ctx context.Context, video, audio, dst string) error
}

// Result describes a produced deliverable.
type Result struct {
	Path     string
	Duration float64
	Segments int
	Elapsed  time.Duration
}

// Muxer renders plans.
type Muxer struct {
	encoder    Encoder
	scratchDir string
	logger     *slog.Logger
}

// New constructs a Muxer. Scratch directories are created under scratchDir,
// or the system temp directory when it is empty.
func New(encoder Encoder, scratchDir string, logger *slog.Logger) *Muxer {
	return &Muxer{
		encoder:    encoder,
		scratchDir: scratchDir,
		logger:     logging.NewComponentLogger(logger, "muxer"),
	}
}

// Mux renders plan into dst, replacing any previous file there.
func (m *Muxer) Mux(ctx context.Context, plan timeline.Plan, dst string) (Result, error) {
	if plan.Empty() {
		return Result{}, ErrEmptyPlan
	}
	logger := logging.WithContext(ctx, m.logger)
	start := time.Now()

	prefix := "slidecast-mux-"
	if runID, ok := services.RunIDFromContext(ctx); ok {
		prefix += runID + "-"
	}
	if m.scratchDir != "" {
		if err := os.MkdirAll(m.scratchDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create scratch root: %w", err)
		}
	}
	scratch, err := os.MkdirTemp(m.scratchDir, prefix)
	if err != nil {
		return Result{}, fmt.Errorf("create mux scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Debug("scratch cleanup failed", logging.String("path", scratch), logging.Error(err))
		}
	}()

	videoParts, err := m.renderVideo(ctx, plan, scratch)
	if err != nil {
		return Result{}, err
	}
	audioParts, err := m.renderAudio(ctx, plan, scratch)
	if err != nil {
		return Result{}, err
	}

	videoTrack := filepath.Join(scratch, "combined_video.mp4")
	if err := m.encoder.Concat(ctx, videoTrack, videoParts); err != nil {
		return Result{}, fatal("concat video", err)
	}
	audioTrack := filepath.Join(scratch, "combined_audio.wav")
	if len(audioParts) == 0 {
		if err := m.encoder.Silence(ctx, audioTrack, plan.TotalDuration); err != nil {
			return Result{}, fatal("silence track", err)
		}
	} else if err := m.encoder.Concat(ctx, audioTrack, audioParts); err != nil {
		return Result{}, fatal("concat audio", err)
	}

	final := filepath.Join(scratch, filepath.Base(dst))
	if err := m.encoder.Combine(ctx, videoTrack, audioTrack, final); err != nil {
		return Result{}, fatal("combine", err)
	}
	if err := fileutil.MoveFile(final, dst); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "muxer", "install", dst, err)
	}

	result := Result{
		Path:     dst,
		Duration: plan.TotalDuration,
		Segments: len(plan.Video),
		Elapsed:  time.Since(start),
	}
	logger.Info("video muxed",
		logging.String(logging.FieldEventType, "video_muxed"),
		logging.String("output", dst),
		logging.Int("segments", result.Segments),
		logging.Float64("duration_seconds", result.Duration),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (m *Muxer) renderVideo(ctx context.Context, plan timeline.Plan, scratch string) ([]string, error) {
	parts := make([]string, 0, len(plan.Video))
	for i, seg := range plan.Video {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dst := filepath.Join(scratch, fmt.Sprintf("v%04d_%s_%s.mp4", i, seg.Kind, seg.Slide.Key()))
		var err error
		switch seg.Kind {
		case timeline.KindPause:
			err = m.encoder.Black(ctx, dst, seg.Duration)
		default:
			err = m.encoder.Still(ctx, seg.Image, dst, seg.Duration, ffmpeg.Fade{Start: seg.Fade.Start, Length: seg.Fade.Length})
		}
		if err != nil {
			return nil, fatal(fmt.Sprintf("%s segment %s", seg.Kind, seg.Slide.Key()), err)
		}
		parts = append(parts, dst)
	}
	return parts, nil
}

func (m *Muxer) renderAudio(ctx context.Context, plan timeline.Plan, scratch string) ([]string, error) {
	parts := make([]string, 0, len(plan.Audio))
	silences := map[float64]string{}
	for _, seg := range plan.Audio {
		if seg.Kind == timeline.AudioNarration {
			parts = append(parts, seg.Path)
			continue
		}
		path, ok := silences[seg.Duration]
		if !ok {
			path = filepath.Join(scratch, fmt.Sprintf("silence_%03d.wav", len(silences)))
			if err := m.encoder.Silence(ctx, path, seg.Duration); err != nil {
				return nil, fatal("silence segment", err)
			}
			silences[seg.Duration] = path
		}
		parts = append(parts, path)
	}
	return parts, nil
}

func fatal(operation string, err error) error {
	if errors.Is(err, services.ErrExternalTool) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("mux %s: %w", operation, err)
	}
	return services.Wrap(services.ErrExternalTool, "muxer", operation, "", err)
}
