package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{Duration: "123.45"},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{Streams: []Stream{{Duration: "3.5"}, {Duration: "4.25"}, {Duration: "junk"}}}
	if got := result.DurationSeconds(); got != 4.25 {
		t.Fatalf("expected longest stream duration, got %v", got)
	}
	if got := (Result{Format: Format{Duration: "bad"}}).DurationSeconds(); !math.IsNaN(got) {
		t.Fatalf("expected NaN for malformed duration, got %v", got)
	}
}

func TestProberDuration(t *testing.T) {
	p := NewProber("ffprobe-test")
	var gotArgs []string
	p.WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffprobe-test" {
			t.Fatalf("unexpected binary %q", name)
		}
		gotArgs = args
		return []byte(`{"streams":[{"codec_type":"audio","sample_rate":"24000","channels":1}],"format":{"duration":"7.480000"}}`), nil
	})
	d, err := p.Duration(context.Background(), "/tmp/sound_1_1.wav")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d != 7.48 {
		t.Fatalf("unexpected duration %v", d)
	}
	if gotArgs[len(gotArgs)-1] != "/tmp/sound_1_1.wav" || !slices.Contains(gotArgs, "-show_format") {
		t.Fatalf("unexpected args %v", gotArgs)
	}
}

func TestProberDurationErrors(t *testing.T) {
	tests := []struct {
		name string
		out  []byte
		err  error
	}{
		{"runner failure", nil, errors.New("exit status 1")},
		{"bad json", []byte("{"), nil},
		{"missing duration", []byte(`{"format":{}}`), nil},
		{"zero duration", []byte(`{"format":{"duration":"0.000"}}`), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProber("")
			p.WithRunner(func(context.Context, string, ...string) ([]byte, error) { return tt.out, tt.err })
			if _, err := p.Duration(context.Background(), "clip.wav"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestProberExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slide_1_1.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := NewProber("")
	if !p.Exists(path) {
		t.Fatal("expected file to exist")
	}
	if p.Exists(dir) || p.Exists(filepath.Join(dir, "missing.png")) {
		t.Fatal("directories and missing files must not exist")
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
