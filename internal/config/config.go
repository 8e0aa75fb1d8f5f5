package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the workspace directory layout.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	SlidesDir string `toml:"slides_dir"`
	SoundsDir string `toml:"sounds_dir"`
	VideoDir  string `toml:"video_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Canvas contains the composition raster size.
type Canvas struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Brand contains the fixed header mark and footer text drawn on every slide.
type Brand struct {
	LogoURL        string  `toml:"logo_url"`
	FooterText     string  `toml:"footer_text"`
	FontPath       string  `toml:"font_path"`
	FontSize       float64 `toml:"font_size"`
	FooterFontSize float64 `toml:"footer_font_size"`
}

// Markers contains the marker phrases used to locate embedded assets in slide text.
type Markers struct {
	Image   string `toml:"image"`
	Diagram string `toml:"diagram"`
}

// Narration contains settings for the text-to-speech service.
type Narration struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Voice          string  `toml:"voice"`
	Language       string  `toml:"language"`
	Speed          float64 `toml:"speed"`
	ResponseFormat string  `toml:"response_format"`
	SampleRate     int     `toml:"sample_rate"`
	PauseSeconds   float64 `toml:"pause_seconds"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Diagram contains settings for the mermaid-cli renderer.
type Diagram struct {
	Command           string `toml:"command"`
	BrowserExecutable string `toml:"browser_executable"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Timeline contains the fixed segment durations used by the assembler.
type Timeline struct {
	IntroSeconds   float64 `toml:"intro_seconds"`
	PauseSeconds   float64 `toml:"pause_seconds"`
	FadeSeconds    float64 `toml:"fade_seconds"`
	DefaultSeconds float64 `toml:"default_seconds"`
	// MissingAudio selects what the audio timeline carries for a slide with no
	// narration clip: "gap" emits nothing, "silence" pads with silence.
	MissingAudio string `toml:"missing_audio"`
}

// Video contains encoder settings.
type Video struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	FrameRate     int    `toml:"frame_rate"`
	VideoCodec    string `toml:"video_codec"`
	AudioCodec    string `toml:"audio_codec"`
	PixelFormat   string `toml:"pixel_format"`
	OutputName    string `toml:"output_name"`
}

// Workers contains concurrency settings for per-slide stages.
type Workers struct {
	Concurrency int `toml:"concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for slidecast.
//
// Configuration sections by subsystem:
//   - Paths: input records, per-stage output directories, state and logs
//   - Canvas/Brand/Markers: slide composition
//   - Narration: text-to-speech service
//   - Diagram: mermaid-cli rendering
//   - Timeline/Video: assembly and encoding
//   - Workers: per-slide concurrency
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Canvas    Canvas    `toml:"canvas"`
	Brand     Brand     `toml:"brand"`
	Markers   Markers   `toml:"markers"`
	Narration Narration `toml:"narration"`
	Diagram   Diagram   `toml:"diagram"`
	Timeline  Timeline  `toml:"timeline"`
	Video     Video     `toml:"video"`
	Workers   Workers   `toml:"workers"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/slidecast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("slidecast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, state, and log directories.
// The input directory is never created; a missing one surfaces as a load error.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.SlidesDir, c.Paths.SoundsDir, c.Paths.VideoDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Video.FFmpegBinary); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for duration queries.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Video.FFprobeBinary); bin != "" {
		return bin
	}
	return "ffprobe"
}

// DiagramBinary returns the mermaid-cli executable name.
func (c *Config) DiagramBinary() string {
	if bin := strings.TrimSpace(c.Diagram.Command); bin != "" {
		return bin
	}
	return defaultDiagramCommand
}

// LedgerPath returns the SQLite ledger location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// LockPath returns the run lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "slidecast.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
