package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"slidecast/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("NARRATION_API_KEY", "env-key")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	for name, dir := range map[string]string{
		"input":  cfg.Paths.InputDir,
		"slides": cfg.Paths.SlidesDir,
		"sounds": cfg.Paths.SoundsDir,
		"video":  cfg.Paths.VideoDir,
		"state":  cfg.Paths.StateDir,
	} {
		if !filepath.IsAbs(dir) {
			t.Fatalf("expected %s dir to be absolute, got %q", name, dir)
		}
	}
	if filepath.Base(cfg.Paths.SlidesDir) != "slides" {
		t.Fatalf("unexpected slides dir: %q", cfg.Paths.SlidesDir)
	}
	if cfg.Narration.APIKey != "env-key" {
		t.Fatalf("expected narration key from env, got %q", cfg.Narration.APIKey)
	}
	if cfg.Canvas.Width != 1920 || cfg.Canvas.Height != 1080 {
		t.Fatalf("unexpected canvas: %+v", cfg.Canvas)
	}
	if cfg.Timeline.IntroSeconds != 3.0 || cfg.Timeline.PauseSeconds != 2.0 || cfg.Timeline.DefaultSeconds != 5.0 {
		t.Fatalf("unexpected timeline defaults: %+v", cfg.Timeline)
	}
	if cfg.Timeline.MissingAudio != config.MissingAudioGap {
		t.Fatalf("expected gap policy by default, got %q", cfg.Timeline.MissingAudio)
	}
	if cfg.Video.FrameRate != 25 {
		t.Fatalf("unexpected frame rate: %d", cfg.Video.FrameRate)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.SlidesDir, cfg.Paths.SoundsDir, cfg.Paths.VideoDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.InputDir); !os.IsNotExist(err) {
		t.Fatalf("expected input dir to stay absent, stat err=%v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "slidecast.toml")

	type payload struct {
		Paths struct {
			InputDir string `toml:"input_dir"`
		} `toml:"paths"`
		Narration struct {
			BaseURL string `toml:"base_url"`
			Voice   string `toml:"voice"`
		} `toml:"narration"`
		Timeline struct {
			MissingAudio string `toml:"missing_audio"`
		} `toml:"timeline"`
		Video struct {
			FrameRate int `toml:"frame_rate"`
		} `toml:"video"`
	}
	custom := payload{}
	custom.Paths.InputDir = filepath.Join(tempDir, "records")
	custom.Narration.BaseURL = "https://tts.example.com/"
	custom.Narration.Voice = " ef_dora "
	custom.Timeline.MissingAudio = "SILENCE"
	custom.Video.FrameRate = 30

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.InputDir != filepath.Join(tempDir, "records") {
		t.Fatalf("unexpected input dir: %q", cfg.Paths.InputDir)
	}
	if cfg.Narration.BaseURL != "https://tts.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Narration.BaseURL)
	}
	if cfg.Narration.Voice != "ef_dora" {
		t.Fatalf("unexpected voice: %q", cfg.Narration.Voice)
	}
	if cfg.Timeline.MissingAudio != config.MissingAudioSilence {
		t.Fatalf("expected silence policy, got %q", cfg.Timeline.MissingAudio)
	}
	if cfg.Video.FrameRate != 30 {
		t.Fatalf("unexpected frame rate: %d", cfg.Video.FrameRate)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing audio policy", func(c *config.Config) { c.Timeline.MissingAudio = "loop" }, "timeline.missing_audio"},
		{"negative pause", func(c *config.Config) { c.Timeline.PauseSeconds = -1 }, "timeline.pause_seconds"},
		{"zero default", func(c *config.Config) { c.Timeline.DefaultSeconds = 0 }, "timeline.default_seconds"},
		{"narration url", func(c *config.Config) { c.Narration.BaseURL = "localhost:8880" }, "narration.base_url"},
		{"response format", func(c *config.Config) { c.Narration.ResponseFormat = "mp3" }, "narration.response_format"},
		{"output name", func(c *config.Config) { c.Video.OutputName = "nested/out.mp4" }, "video.output_name"},
		{"markers", func(c *config.Config) { c.Markers.Diagram = c.Markers.Image }, "markers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Brand.FooterText != "Madd Systems Group" {
		t.Fatalf("unexpected footer text: %q", cfg.Brand.FooterText)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/videos")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "videos") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
