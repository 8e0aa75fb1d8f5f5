package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"slidecast/internal/config"
	"slidecast/internal/logging"
	"slidecast/internal/services"
)

// Runner executes a binary with arguments.
type Runner func(ctx context.Context, name string, args ...string) error

// Fade describes a fade-out window in seconds from the segment start.
// A zero Length disables the fade.
type Fade struct {
	Start  float64
	Length float64
}

// Filter renders the fade as a time-based ffmpeg filter, or "" when disabled.
func (f Fade) Filter() string {
	if f.Length <= 0 {
		return ""
	}
	return fmt.Sprintf("fade=t=out:st=%s:d=%s", seconds(f.Start), seconds(f.Length))
}

// Encoder wraps the ffmpeg binary.
type Encoder struct {
	binary      string
	width       int
	height      int
	frameRate   int
	videoCodec  string
	audioCodec  string
	pixelFormat string
	sampleRate  int
	logger      *slog.Logger
	run         Runner
}

// New builds an Encoder from the canvas, narration, and video sections of cfg.
func New(cfg *config.Config, logger *slog.Logger) *Encoder {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return &Encoder{
		binary:      cfg.FFmpegBinary(),
		width:       cfg.Canvas.Width,
		height:      cfg.Canvas.Height,
		frameRate:   cfg.Video.FrameRate,
		videoCodec:  cfg.Video.VideoCodec,
		audioCodec:  cfg.Video.AudioCodec,
		pixelFormat: cfg.Video.PixelFormat,
		sampleRate:  cfg.Narration.SampleRate,
		logger:      logging.NewComponentLogger(logger, "ffmpeg"),
		run:         defaultRunner,
	}
}

// WithRunner allows injecting a custom command runner for tests.
func (e *Encoder) WithRunner(run Runner) {
	if e != nil && run != nil {
		e.run = run
	}
}

// Still renders image as a video segment of duration seconds with an optional fade-out.
func (e *Encoder) Still(ctx context.Context, image, dst string, duration float64, fade Fade) error {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-loop", "1", "-framerate", strconv.Itoa(e.frameRate), "-i", image,
		"-t", seconds(duration),
		"-r", strconv.Itoa(e.frameRate),
		"-c:v", e.videoCodec, "-pix_fmt", e.pixelFormat,
	}
	if filter := fade.Filter(); filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args, dst)
	return e.exec(ctx, "still", dst, args)
}

// Black renders a black canvas-sized segment of duration seconds.
func (e *Encoder) Black(ctx context.Context, dst string, duration float64) error {
	source := fmt.Sprintf("color=black:s=%dx%d:d=%s:r=%d", e.width, e.height, seconds(duration), e.frameRate)
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", source,
		"-c:v", e.videoCodec, "-pix_fmt", e.pixelFormat,
		dst,
	}
	return e.exec(ctx, "black", dst, args)
}

// Silence renders mono PCM silence of duration seconds.
func (e *Encoder) Silence(ctx context.Context, dst string, duration float64) error {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", e.sampleRate),
		"-t", seconds(duration),
		"-c:a", "pcm_s16le",
		dst,
	}
	return e.exec(ctx, "silence", dst, args)
}

// Concat joins inputs in order into dst with stream copy. The list file is
// uniquely named beside dst and removed afterwards.
func (e *Encoder) Concat(ctx context.Context, dst string, inputs []string) error {
	if len(inputs) == 0 {
		return services.Wrap(services.ErrValidation, "ffmpeg", "concat", "no inputs", nil)
	}
	list, err := os.CreateTemp(filepath.Dir(dst), "concat-*.txt")
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	listPath := list.Name()
	defer os.Remove(listPath)

	var b strings.Builder
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			_ = list.Close()
			return fmt.Errorf("resolve %s: %w", input, err)
		}
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(abs, "'", `'\''`))
		b.WriteString("'\n")
	}
	if _, err := list.WriteString(b.String()); err != nil {
		_ = list.Close()
		return fmt.Errorf("write concat list: %w", err)
	}
	if err := list.Close(); err != nil {
		return fmt.Errorf("close concat list: %w", err)
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy",
		dst,
	}
	return e.exec(ctx, "concat", dst, args)
}

// Combine muxes a video track and an audio track, copying video and encoding audio.
func (e *Encoder) Combine(ctx context.Context, video, audio, dst string) error {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", video, "-i", audio,
		"-c:v", "copy", "-c:a", e.audioCodec,
		dst,
	}
	return e.exec(ctx, "combine", dst, args)
}

func (e *Encoder) exec(ctx context.Context, operation, dst string, args []string) error {
	e.logger.Debug("ffmpeg invocation",
		logging.String(logging.FieldEventType, "ffmpeg_"+operation),
		logging.String("output", dst),
		logging.String("args", strings.Join(args, " ")),
	)
	if err := e.run(ctx, e.binary, args...); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", operation, filepath.Base(dst), err)
	}
	return nil
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func defaultRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
