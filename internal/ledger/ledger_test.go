package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"slidecast/internal/course"
	"slidecast/internal/services"
)

func openTest(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return l
}

func TestRunLifecycle(t *testing.T) {
	l := openTest(t)
	ctx := context.Background()

	if err := l.BeginRun(ctx, "run-a", "slides", "", 3); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if err := l.FinishRun(ctx, "run-a", Outcome{Succeeded: 2, Failed: 1}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if err := l.BeginRun(ctx, "run-b", "video", "1_1", 1); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	muxErr := services.Wrap(services.ErrExternalTool, "muxer", "combine", "", errors.New("exit status 1"))
	if err := l.FinishRun(ctx, "run-b", Outcome{Err: muxErr}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := l.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-b" {
		t.Fatalf("expected newest first, got %+v", runs)
	}
	if runs[0].Status != RunFailed || runs[0].FailureKind != "external_tool" || runs[0].Selection != "1_1" {
		t.Fatalf("unexpected failed run %+v", runs[0])
	}
	if runs[1].Status != RunPartial || runs[1].Succeeded != 2 || runs[1].Failed != 1 {
		t.Fatalf("unexpected partial run %+v", runs[1])
	}
	if runs[1].Duration() != time.Second {
		t.Fatalf("unexpected duration %v", runs[1].Duration())
	}
}

func TestFinishUnknownRun(t *testing.T) {
	l := openTest(t)
	if err := l.FinishRun(context.Background(), "missing", Outcome{}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkInterrupted(t *testing.T) {
	l := openTest(t)
	ctx := context.Background()
	if err := l.BeginRun(ctx, "stale", "build", "", 5); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	n, err := l.MarkInterrupted(ctx)
	if err != nil {
		t.Fatalf("MarkInterrupted: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one interrupted run, got %d", n)
	}
	runs, _ := l.RecentRuns(ctx, 1)
	if runs[0].Status != RunInterrupted || runs[0].FinishedAt.IsZero() {
		t.Fatalf("unexpected run %+v", runs[0])
	}
}

func TestRecordArtifactUpserts(t *testing.T) {
	l := openTest(t)
	ctx := context.Background()
	a := course.SlideID{Module: 1, Slide: 2}
	b := course.SlideID{Module: 1, Slide: 1}

	records := []Artifact{
		{Slide: a, Kind: KindNarration, Path: "sound_1_2.wav", Status: ArtifactFailed, Detail: "tts down", RunID: "r1"},
		{Slide: b, Kind: KindComposition, Path: "slide_1_1.png", Status: ArtifactReady, RunID: "r1"},
		{Slide: a, Kind: KindNarration, Path: "sound_1_2.wav", Status: ArtifactReady, Duration: 7.5, RunID: "r2"},
	}
	for _, r := range records {
		if err := l.RecordArtifact(ctx, r); err != nil {
			t.Fatalf("RecordArtifact: %v", err)
		}
	}

	got, err := l.Artifacts(ctx)
	if err != nil {
		t.Fatalf("Artifacts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected upsert to keep two rows, got %+v", got)
	}
	if got[0].Slide != b || got[1].Slide != a {
		t.Fatalf("expected slide order, got %v then %v", got[0].Slide, got[1].Slide)
	}
	if got[1].Status != ArtifactReady || got[1].Duration != 7.5 || got[1].RunID != "r2" || got[1].Detail != "" {
		t.Fatalf("expected latest outcome, got %+v", got[1])
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.BeginRun(context.Background(), "r", "slides", "", 1); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	_ = l.Close()

	l, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()
	runs, err := l.RecentRuns(context.Background(), 5)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected persisted run, got %v err=%v", runs, err)
	}
}
