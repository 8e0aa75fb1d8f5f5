package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"slidecast/internal/compositor"
	"slidecast/internal/config"
	"slidecast/internal/course"
	"slidecast/internal/extract"
	"slidecast/internal/ledger"
	"slidecast/internal/logging"
	"slidecast/internal/muxer"
	"slidecast/internal/narration"
	"slidecast/internal/services"
	"slidecast/internal/timeline"
)

// Stage names a runnable stage.
type Stage string

const (
	StageSlides  Stage = "slides"
	StageNarrate Stage = "narrate"
	StageVideo   Stage = "video"
	StageBuild   Stage = "build"
)

var (
	// ErrRunLocked is returned when another process holds the workspace lock.
	ErrRunLocked = errors.New("another slidecast run is already active in this workspace")
	// ErrNoCompositions is returned by the video stage when no selected slide has a composition.
	ErrNoCompositions = errors.New("no slide compositions to assemble")
)

// ParseStage resolves a stage name.
func ParseStage(name string) (Stage, error) {
	switch Stage(strings.ToLower(strings.TrimSpace(name))) {
	case StageSlides:
		return StageSlides, nil
	case StageNarrate:
		return StageNarrate, nil
	case StageVideo:
		return StageVideo, nil
	case StageBuild:
		return StageBuild, nil
	default:
		return "", fmt.Errorf("unknown stage %q", name)
	}
}

// Composer renders one slide composition.
type Composer interface {
	Render(ctx context.Context, content extract.Content, path string) (compositor.Result, error)
}

// Narrator produces one slide narration clip.
type Narrator interface {
	Synthesize(ctx context.Context, id course.SlideID, script []string, dst string) (narration.Clip, error)
}

// VideoMuxer renders an assembled plan into a deliverable.
type VideoMuxer interface {
	Mux(ctx context.Context, plan timeline.Plan, dst string) (muxer.Result, error)
}

// Options configures a Pipeline.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Parser   *extract.Parser
	Composer Composer
	Narrator Narrator
	Prober   timeline.Prober
	Muxer    VideoMuxer
	// Ledger is optional; without it runs are not recorded.
	Ledger *ledger.Ledger
	// NewRunID overrides run id generation.
	NewRunID func() string
}

// Pipeline executes stages for a workspace.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	workspace course.Workspace
	parser    *extract.Parser
	composer  Composer
	narrator  Narrator
	prober    timeline.Prober
	muxer     VideoMuxer
	ledger    *ledger.Ledger
	newRunID  func() string
}

// New validates opts and builds a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, errors.New("pipeline: config is required")
	}
	switch {
	case opts.Composer == nil:
		return nil, errors.New("pipeline: composer is required")
	case opts.Narrator == nil:
		return nil, errors.New("pipeline: narrator is required")
	case opts.Prober == nil:
		return nil, errors.New("pipeline: prober is required")
	case opts.Muxer == nil:
		return nil, errors.New("pipeline: muxer is required")
	}
	parser := opts.Parser
	if parser == nil {
		var err error
		parser, err = extract.NewParser(extract.Markers{Image: opts.Config.Markers.Image, Diagram: opts.Config.Markers.Diagram})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "markers", "invalid marker phrases", err)
		}
	}
	newRunID := opts.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}
	return &Pipeline{
		cfg:       opts.Config,
		logger:    logging.NewComponentLogger(opts.Logger, "pipeline"),
		workspace: Workspace(opts.Config),
		parser:    parser,
		composer:  opts.Composer,
		narrator:  opts.Narrator,
		prober:    opts.Prober,
		muxer:     opts.Muxer,
		ledger:    opts.Ledger,
		newRunID:  newRunID,
	}, nil
}

// Workspace returns the artifact layout for cfg.
func Workspace(cfg *config.Config) course.Workspace {
	return course.Workspace{
		SlidesDir: cfg.Paths.SlidesDir,
		SoundsDir: cfg.Paths.SoundsDir,
		VideoDir:  cfg.Paths.VideoDir,
	}
}

// Close releases the ledger, if any.
func (p *Pipeline) Close() error {
	if p == nil || p.ledger == nil {
		return nil
	}
	return p.ledger.Close()
}

// Failure is one per-slide stage failure.
type Failure struct {
	Slide course.SlideID
	Stage Stage
	Err   error
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Stage    Stage
	Slides   int
	Composed []course.SlideID
	Narrated []course.SlideID
	// Silent lists slides without a script.
	Silent   []course.SlideID
	Failures []Failure
	Plan     *timeline.Plan
	Video    *muxer.Result
	Elapsed  time.Duration
}

// Succeeded counts produced artifacts.
func (r Report) Succeeded() int {
	n := len(r.Composed) + len(r.Narrated)
	if r.Video != nil {
		n++
	}
	return n
}

// Failed counts per-slide failures.
func (r Report) Failed() int {
	return len(r.Failures)
}

// Run executes stage over slides, which must be the ordered Run produced by
// course.SelectRun for selection. Only one Run may execute per workspace.
func (p *Pipeline) Run(ctx context.Context, stage Stage, slides []course.Slide, selection *course.SlideID) (Report, error) {
	if _, err := ParseStage(string(stage)); err != nil {
		return Report{}, err
	}
	unlock, err := p.acquireLock()
	if err != nil {
		return Report{}, err
	}
	defer unlock()

	runID := p.newRunID()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithStage(ctx, string(stage))
	logger := logging.WithContext(ctx, p.logger)

	report := Report{RunID: runID, Stage: stage, Slides: len(slides)}
	p.beginRun(ctx, logger, &report, selection)

	start := time.Now()
	logger.Info(
		"run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("slides", len(slides)),
		logging.String("selection", selectionLabel(selection)),
		logging.Int("concurrency", p.concurrency()),
	)

	runErr := p.execute(ctx, stage, slides, selection, &report)
	report.Elapsed = time.Since(start)

	outcome := ledger.Outcome{Succeeded: report.Succeeded(), Failed: report.Failed(), Err: runErr}
	if report.Video != nil {
		outcome.OutputPath = report.Video.Path
	}
	p.finishRun(ctx, logger, runID, outcome)

	if runErr != nil {
		logging.ErrorWithContext(logger, "run failed", "run_failed",
			logging.Error(runErr),
			logging.String("failure_kind", services.FailureKind(runErr)),
			logging.Duration("elapsed", report.Elapsed),
		)
		return report, runErr
	}
	logger.Info(
		"run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("succeeded", report.Succeeded()),
		logging.Int("failed", report.Failed()),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (p *Pipeline) execute(ctx context.Context, stage Stage, slides []course.Slide, selection *course.SlideID, report *Report) error {
	switch stage {
	case StageSlides:
		p.composeAll(ctx, slides, report)
		return ctx.Err()
	case StageNarrate:
		p.narrateAll(ctx, slides, report)
		return ctx.Err()
	case StageVideo:
		return p.assemble(ctx, slides, selection, report)
	default:
		p.composeAll(ctx, slides, report)
		if err := ctx.Err(); err != nil {
			return err
		}
		p.narrateAll(ctx, slides, report)
		if err := ctx.Err(); err != nil {
			return err
		}
		return p.assemble(ctx, slides, selection, report)
	}
}

func (p *Pipeline) acquireLock() (func(), error) {
	lockPath := p.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunLocked, lockPath)
	}
	return func() { _ = lock.Unlock() }, nil
}

func (p *Pipeline) concurrency() int {
	if p.cfg.Workers.Concurrency < 1 {
		return 1
	}
	return p.cfg.Workers.Concurrency
}

func (p *Pipeline) beginRun(ctx context.Context, logger *slog.Logger, report *Report, selection *course.SlideID) {
	if p.ledger == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if n, err := p.ledger.MarkInterrupted(ctx); err != nil {
		logging.WarnWithContext(logger, "ledger cleanup failed", "ledger_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "stale runs stay marked as running"),
		)
	} else if n > 0 {
		logger.Info("marked stale runs interrupted",
			logging.String(logging.FieldEventType, "ledger_interrupted"),
			logging.Int("runs", int(n)),
		)
	}
	if err := p.ledger.BeginRun(ctx, report.RunID, string(report.Stage), selectionLabel(selection), report.Slides); err != nil {
		logging.WarnWithContext(logger, "ledger begin failed", "ledger_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run is not recorded in status output"),
		)
	}
}

func (p *Pipeline) finishRun(ctx context.Context, logger *slog.Logger, runID string, outcome ledger.Outcome) {
	if p.ledger == nil {
		return
	}
	if err := p.ledger.FinishRun(context.WithoutCancel(ctx), runID, outcome); err != nil {
		logging.WarnWithContext(logger, "ledger finish failed", "ledger_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run outcome is not recorded in status output"),
		)
	}
}

func (p *Pipeline) recordArtifact(ctx context.Context, artifact ledger.Artifact) {
	if p.ledger == nil {
		return
	}
	if runID, ok := services.RunIDFromContext(ctx); ok {
		artifact.RunID = runID
	}
	if err := p.ledger.RecordArtifact(context.WithoutCancel(ctx), artifact); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "ledger artifact write failed", "ledger_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "status output may be stale for this slide"),
		)
	}
}

func selectionLabel(selection *course.SlideID) string {
	if selection == nil {
		return "all"
	}
	return selection.Key()
}
