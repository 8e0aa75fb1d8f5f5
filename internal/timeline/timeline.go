package timeline

import (
	"context"
	"log/slog"
	"math"

	"slidecast/internal/config"
	"slidecast/internal/course"
	"slidecast/internal/logging"
)

// SegmentKind classifies a video segment.
type SegmentKind string

const (
	KindIntro SegmentKind = "intro"
	KindSlide SegmentKind = "slide"
	KindPause SegmentKind = "pause"
)

// AudioKind classifies an audio segment.
type AudioKind string

const (
	AudioNarration AudioKind = "narration"
	AudioSilence   AudioKind = "silence"
)

// Fade is a fade-out window in seconds from the segment start.
type Fade struct {
	Start  float64
	Length float64
}

// Segment is one unit of the video sequence.
type Segment struct {
	Kind     SegmentKind
	Slide    course.SlideID
	Image    string
	Duration float64
	Fade     Fade
}

// AudioSegment is one unit of the audio sequence.
type AudioSegment struct {
	Kind     AudioKind
	Slide    course.SlideID
	Path     string
	Duration float64
}

// Plan is the assembled timeline.
type Plan struct {
	Video         []Segment
	Audio         []AudioSegment
	TotalDuration float64
	// Skipped lists slides dropped for lack of a composition.
	Skipped []course.SlideID
	// Defaulted lists slides held for the default duration.
	Defaulted []course.SlideID
}

// Empty reports whether the plan has nothing to render.
func (p Plan) Empty() bool {
	return len(p.Video) == 0
}

// AudioDuration sums the audio segment durations.
func (p Plan) AudioDuration() float64 {
	total := 0.0
	for _, seg := range p.Audio {
		total += seg.Duration
	}
	return total
}

// Prober answers existence and duration questions about artifacts.
type Prober interface {
	Exists(path string) bool
	Duration(ctx context.Context, path string) (float64, error)
}

// Settings holds the fixed durations and the missing-audio policy.
type Settings struct {
	IntroSeconds   float64
	PauseSeconds   float64
	FadeSeconds    float64
	DefaultSeconds float64
	MissingAudio   string
}

// DefaultSettings returns the stock timing.
func DefaultSettings() Settings {
	return SettingsFromConfig(nil)
}

// SettingsFromConfig reads the timeline section of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	t := cfg.Timeline
	return Settings{
		IntroSeconds:   t.IntroSeconds,
		PauseSeconds:   t.PauseSeconds,
		FadeSeconds:    t.FadeSeconds,
		DefaultSeconds: t.DefaultSeconds,
		MissingAudio:   t.MissingAudio,
	}
}

// FadeFor returns the fade-out window for a segment of duration d: the last
// fadeLen seconds, clamped so the window never starts before zero or exceeds
// the segment.
func FadeFor(d, fadeLen float64) Fade {
	if fadeLen <= 0 || d <= 0 {
		return Fade{}
	}
	return Fade{Start: math.Max(0, d-fadeLen), Length: math.Min(fadeLen, d)}
}

// Assemble builds the plan for ids, which must already be in run order.
func Assemble(ctx context.Context, ids []course.SlideID, ws course.Workspace, settings Settings, prober Prober, logger *slog.Logger) Plan {
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "timeline"))
	var plan Plan
	if len(ids) == 0 {
		return plan
	}

	if first := ws.CompositionPath(ids[0]); settings.IntroSeconds > 0 && prober.Exists(first) {
		plan.Video = append(plan.Video, Segment{Kind: KindIntro, Slide: ids[0], Image: first, Duration: settings.IntroSeconds})
		plan.Audio = append(plan.Audio, AudioSegment{Kind: AudioSilence, Slide: ids[0], Duration: settings.IntroSeconds})
		plan.TotalDuration += settings.IntroSeconds
	}

	for _, id := range ids {
		image := ws.CompositionPath(id)
		if !prober.Exists(image) {
			logging.WarnWithContext(logger, "composition missing; slide skipped", "slide_skipped",
				logging.String(logging.FieldSlide, id.Key()),
				logging.String("path", image),
				logging.String(logging.FieldErrorHint, "run slidecast slides for this slide"),
				logging.String(logging.FieldImpact, "slide absent from the video"),
			)
			plan.Skipped = append(plan.Skipped, id)
			continue
		}

		duration := settings.DefaultSeconds
		clip := ws.ClipPath(id)
		hasClip := prober.Exists(clip)
		if hasClip {
			probed, err := prober.Duration(ctx, clip)
			if err != nil {
				logging.WarnWithContext(logger, "clip duration unavailable; using default", "duration_probe_failed",
					logging.String(logging.FieldSlide, id.Key()),
					logging.Error(err),
					logging.Float64("default_seconds", settings.DefaultSeconds),
					logging.String(logging.FieldErrorHint, "check the clip with ffprobe"),
					logging.String(logging.FieldImpact, "slide held for the default duration"),
				)
				plan.Defaulted = append(plan.Defaulted, id)
			} else {
				duration = probed
			}
		} else {
			logger.Info("narration clip missing; using default duration",
				logging.String(logging.FieldEventType, "clip_missing"),
				logging.String(logging.FieldSlide, id.Key()),
				logging.Float64("default_seconds", settings.DefaultSeconds),
				logging.String("missing_audio", settings.MissingAudio),
			)
			plan.Defaulted = append(plan.Defaulted, id)
		}

		plan.Video = append(plan.Video, Segment{
			Kind:     KindSlide,
			Slide:    id,
			Image:    image,
			Duration: duration,
			Fade:     FadeFor(duration, settings.FadeSeconds),
		})
		switch {
		case hasClip:
			plan.Audio = append(plan.Audio, AudioSegment{Kind: AudioNarration, Slide: id, Path: clip, Duration: duration})
		case settings.MissingAudio == config.MissingAudioSilence:
			plan.Audio = append(plan.Audio, AudioSegment{Kind: AudioSilence, Slide: id, Duration: duration})
		}

		if settings.PauseSeconds > 0 {
			plan.Video = append(plan.Video, Segment{Kind: KindPause, Slide: id, Duration: settings.PauseSeconds})
			plan.Audio = append(plan.Audio, AudioSegment{Kind: AudioSilence, Slide: id, Duration: settings.PauseSeconds})
		}
		plan.TotalDuration += duration + settings.PauseSeconds
	}

	return plan
}
