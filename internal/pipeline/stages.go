package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"slidecast/internal/compositor"
	"slidecast/internal/course"
	"slidecast/internal/ledger"
	"slidecast/internal/logging"
	"slidecast/internal/narration"
	"slidecast/internal/services"
	"slidecast/internal/timeline"
)

var errSilent = errors.New("slide has no narration")

func (p *Pipeline) composeAll(ctx context.Context, slides []course.Slide, report *Report) {
	stageCtx := services.WithStage(ctx, string(StageSlides))
	if err := os.MkdirAll(p.workspace.SlidesDir, 0o755); err != nil {
		for _, slide := range slides {
			report.Failures = append(report.Failures, Failure{Slide: slide.ID, Stage: StageSlides, Err: err})
		}
		return
	}
	errs := p.forEach(stageCtx, slides, p.composeSlide)
	for i, err := range errs {
		if err != nil {
			report.Failures = append(report.Failures, Failure{Slide: slides[i].ID, Stage: StageSlides, Err: err})
			continue
		}
		report.Composed = append(report.Composed, slides[i].ID)
	}
}

func (p *Pipeline) composeSlide(ctx context.Context, slide course.Slide) error {
	logger := logging.WithContext(ctx, p.logger)
	content := p.parser.Parse(slide.Content)
	path := p.workspace.CompositionPath(slide.ID)

	result, err := p.composer.Render(ctx, content, path)
	if err != nil {
		logging.WarnWithContext(logger, "slide composition failed", "composition_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check slides_dir permissions and brand.font_path"),
			logging.String(logging.FieldImpact, "slide is left out of the video"),
		)
		p.recordArtifact(ctx, ledger.Artifact{
			Slide:  slide.ID,
			Kind:   ledger.KindComposition,
			Path:   path,
			Status: ledger.ArtifactFailed,
			Detail: err.Error(),
		})
		return err
	}

	logger.Info(
		"slide composed",
		logging.String(logging.FieldEventType, "composition_ready"),
		logging.String("path", result.Path),
		logging.Bool("header", result.HeaderDrawn),
		logging.Bool("image", result.ImageDrawn),
		logging.Bool("diagram", result.DiagramDrawn),
	)
	p.recordArtifact(ctx, ledger.Artifact{
		Slide:  slide.ID,
		Kind:   ledger.KindComposition,
		Path:   result.Path,
		Status: ledger.ArtifactReady,
		Detail: compositionDetail(result),
	})
	return nil
}

func compositionDetail(result compositor.Result) string {
	var parts []string
	if !result.HeaderDrawn {
		parts = append(parts, "no header")
	}
	if result.ImageDrawn {
		parts = append(parts, "image")
	}
	if result.DiagramDrawn {
		parts = append(parts, "diagram")
	}
	return strings.Join(parts, ",")
}

func (p *Pipeline) narrateAll(ctx context.Context, slides []course.Slide, report *Report) {
	stageCtx := services.WithStage(ctx, string(StageNarrate))
	if err := os.MkdirAll(p.workspace.SoundsDir, 0o755); err != nil {
		for _, slide := range slides {
			report.Failures = append(report.Failures, Failure{Slide: slide.ID, Stage: StageNarrate, Err: err})
		}
		return
	}
	errs := p.forEach(stageCtx, slides, p.narrateSlide)
	for i, err := range errs {
		switch {
		case err == nil:
			report.Narrated = append(report.Narrated, slides[i].ID)
		case errors.Is(err, errSilent):
			report.Silent = append(report.Silent, slides[i].ID)
		default:
			report.Failures = append(report.Failures, Failure{Slide: slides[i].ID, Stage: StageNarrate, Err: err})
		}
	}
}

func (p *Pipeline) narrateSlide(ctx context.Context, slide course.Slide) error {
	logger := logging.WithContext(ctx, p.logger)
	path := p.workspace.ClipPath(slide.ID)

	clip, err := p.narrator.Synthesize(ctx, slide.ID, slide.Script, path)
	if errors.Is(err, narration.ErrEmptyScript) {
		logger.Info("slide has no script; narration skipped",
			logging.String(logging.FieldEventType, "narration_skipped"),
		)
		p.removeStaleClip(logger, path)
		p.recordArtifact(ctx, ledger.Artifact{
			Slide:  slide.ID,
			Kind:   ledger.KindNarration,
			Path:   path,
			Status: ledger.ArtifactSkipped,
			Detail: "empty script",
		})
		return errSilent
	}
	if err != nil {
		logging.WarnWithContext(logger, "narration failed", "narration_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the narration service at narration.base_url"),
			logging.String(logging.FieldImpact, "slide is held for the default duration without narration"),
		)
		p.removeStaleClip(logger, path)
		p.recordArtifact(ctx, ledger.Artifact{
			Slide:  slide.ID,
			Kind:   ledger.KindNarration,
			Path:   path,
			Status: ledger.ArtifactFailed,
			Detail: err.Error(),
		})
		return err
	}

	duration, probeErr := p.prober.Duration(ctx, clip.Path)
	if probeErr != nil {
		logger.Debug("narration duration unavailable", logging.Error(probeErr))
	}
	logger.Info(
		"narration ready",
		logging.String(logging.FieldEventType, "narration_ready"),
		logging.String("path", clip.Path),
		logging.Int("sentences", clip.Sentences),
		logging.Float64("duration_seconds", duration),
	)
	p.recordArtifact(ctx, ledger.Artifact{
		Slide:    slide.ID,
		Kind:     ledger.KindNarration,
		Path:     clip.Path,
		Status:   ledger.ArtifactReady,
		Duration: duration,
		Detail:   fmt.Sprintf("%d sentence(s)", clip.Sentences),
	})
	return nil
}

// removeStaleClip deletes a clip left by an earlier run so the timeline falls
// back to the default duration for the slide.
func (p *Pipeline) removeStaleClip(logger *slog.Logger, path string) {
	err := os.Remove(path)
	switch {
	case err == nil:
		logger.Info("stale narration clip removed",
			logging.String(logging.FieldEventType, "narration_stale_removed"),
			logging.String("path", path),
		)
	case !errors.Is(err, fs.ErrNotExist):
		logging.WarnWithContext(logger, "stale narration clip not removed", "narration_stale_remove_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check sounds_dir permissions"),
			logging.String(logging.FieldImpact, "video stage uses the clip from an earlier run"),
		)
	}
}

func (p *Pipeline) assemble(ctx context.Context, slides []course.Slide, selection *course.SlideID, report *Report) error {
	ctx = services.WithStage(ctx, string(StageVideo))
	logger := logging.WithContext(ctx, p.logger)

	plan := timeline.Assemble(ctx, course.IDs(slides), p.workspace, timeline.SettingsFromConfig(p.cfg), p.prober, p.logger)
	report.Plan = &plan
	if plan.Empty() {
		return services.Wrap(services.ErrNotFound, string(StageVideo), "assemble", "run the slides stage first", ErrNoCompositions)
	}
	logger.Info(
		"timeline assembled",
		logging.String(logging.FieldEventType, "timeline_ready"),
		logging.Int("video_segments", len(plan.Video)),
		logging.Int("audio_segments", len(plan.Audio)),
		logging.Int("skipped", len(plan.Skipped)),
		logging.Int("defaulted", len(plan.Defaulted)),
		logging.Float64("total_seconds", plan.TotalDuration),
	)

	dst := p.workspace.DeliverablePath(selection, p.cfg.Video.OutputName)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create video directory: %w", err)
	}
	result, err := p.muxer.Mux(ctx, plan, dst)
	if err != nil {
		return err
	}
	report.Video = &result
	logger.Info(
		"video ready",
		logging.String(logging.FieldEventType, "video_ready"),
		logging.String("path", result.Path),
		logging.Float64("duration_seconds", result.Duration),
		logging.Int("segments", result.Segments),
		logging.Duration("elapsed", result.Elapsed),
	)
	return nil
}
