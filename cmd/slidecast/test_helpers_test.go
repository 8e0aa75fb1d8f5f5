package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"slidecast/internal/compositor"
	"slidecast/internal/config"
	"slidecast/internal/course"
	"slidecast/internal/extract"
	"slidecast/internal/fileutil"
	"slidecast/internal/ledger"
	"slidecast/internal/muxer"
	"slidecast/internal/narration"
	"slidecast/internal/pipeline"
	"slidecast/internal/testsupport"
	"slidecast/internal/timeline"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	muxed      *[]string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "slidecast.toml")
	writeTestConfig(t, configPath, cfg)

	env := &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, muxed: new([]string)}
	stubPipeline(t, env.muxed)
	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) writeRecord(t *testing.T, m, s int, content string, script ...string) {
	t.Helper()
	testsupport.WriteRecord(t, e.cfg.Paths.InputDir, course.SlideID{Module: m, Slide: s}, content, script...)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// stubPipeline swaps the production collaborators for in-process fakes that
// write placeholder files, keeping the real ledger.
func stubPipeline(t *testing.T, muxed *[]string) {
	t.Helper()
	original := newPipeline
	newPipeline = func(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
		store, err := ledger.Open(cfg.LedgerPath())
		if err != nil {
			return nil, err
		}
		return pipeline.New(pipeline.Options{
			Config:   cfg,
			Logger:   logger,
			Composer: stubComposer{},
			Narrator: stubNarrator{},
			Prober:   stubProber{},
			Muxer:    stubMuxer{muxed: muxed},
			Ledger:   store,
		})
	}
	t.Cleanup(func() { newPipeline = original })
}

type stubComposer struct{}

func (stubComposer) Render(_ context.Context, content extract.Content, path string) (compositor.Result, error) {
	if err := os.WriteFile(path, []byte(content.Text), 0o644); err != nil {
		return compositor.Result{}, err
	}
	return compositor.Result{Path: path, HeaderDrawn: true}, nil
}

type stubNarrator struct{}

func (stubNarrator) Synthesize(_ context.Context, _ course.SlideID, script []string, dst string) (narration.Clip, error) {
	if len(script) == 0 {
		return narration.Clip{}, narration.ErrEmptyScript
	}
	if err := os.WriteFile(dst, []byte("RIFF"), 0o644); err != nil {
		return narration.Clip{}, err
	}
	return narration.Clip{Path: dst, Sentences: len(script)}, nil
}

type stubProber struct{}

func (stubProber) Exists(path string) bool { return fileutil.Exists(path) }

func (stubProber) Duration(context.Context, string) (float64, error) { return 4.0, nil }

type stubMuxer struct {
	muxed *[]string
}

func (m stubMuxer) Mux(_ context.Context, plan timeline.Plan, dst string) (muxer.Result, error) {
	*m.muxed = append(*m.muxed, dst)
	if err := os.WriteFile(dst, []byte("mp4"), 0o644); err != nil {
		return muxer.Result{}, err
	}
	return muxer.Result{Path: dst, Duration: plan.TotalDuration, Segments: len(plan.Video)}, nil
}
