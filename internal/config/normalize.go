package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBrand()
	c.normalizeMarkers()
	c.normalizeNarration()
	c.normalizeDiagram()
	c.normalizeTimeline()
	c.normalizeVideo()
	if c.Workers.Concurrency <= 0 {
		c.Workers.Concurrency = 1
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.input_dir", &c.Paths.InputDir, defaultInputDir},
		{"paths.slides_dir", &c.Paths.SlidesDir, defaultSlidesDir},
		{"paths.sounds_dir", &c.Paths.SoundsDir, defaultSoundsDir},
		{"paths.video_dir", &c.Paths.VideoDir, defaultVideoDir},
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	if c.Brand.FontPath != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Brand.FontPath))
		if err != nil {
			return fmt.Errorf("brand.font_path: %w", err)
		}
		c.Brand.FontPath = expanded
	}
	return nil
}

func (c *Config) normalizeBrand() {
	c.Brand.LogoURL = strings.TrimSpace(c.Brand.LogoURL)
	c.Brand.FooterText = strings.TrimSpace(c.Brand.FooterText)
	if c.Brand.FontSize <= 0 {
		c.Brand.FontSize = defaultFontSize
	}
	if c.Brand.FooterFontSize <= 0 {
		c.Brand.FooterFontSize = defaultFooterFontSize
	}
	if c.Canvas.Width <= 0 {
		c.Canvas.Width = defaultCanvasWidth
	}
	if c.Canvas.Height <= 0 {
		c.Canvas.Height = defaultCanvasHeight
	}
}

func (c *Config) normalizeMarkers() {
	c.Markers.Image = strings.TrimSpace(c.Markers.Image)
	if c.Markers.Image == "" {
		c.Markers.Image = defaultImageMarker
	}
	c.Markers.Diagram = strings.TrimSpace(c.Markers.Diagram)
	if c.Markers.Diagram == "" {
		c.Markers.Diagram = defaultDiagramMarker
	}
}

func (c *Config) normalizeNarration() {
	if value, ok := os.LookupEnv("NARRATION_BASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Narration.BaseURL = value
	}
	c.Narration.BaseURL = strings.TrimRight(strings.TrimSpace(c.Narration.BaseURL), "/")
	if c.Narration.BaseURL == "" {
		c.Narration.BaseURL = defaultNarrationBaseURL
	}
	c.Narration.APIKey = strings.TrimSpace(c.Narration.APIKey)
	if c.Narration.APIKey == "" {
		if value, ok := os.LookupEnv("NARRATION_API_KEY"); ok {
			c.Narration.APIKey = strings.TrimSpace(value)
		}
	}
	c.Narration.Voice = strings.TrimSpace(c.Narration.Voice)
	if c.Narration.Voice == "" {
		c.Narration.Voice = defaultNarrationVoice
	}
	c.Narration.Language = strings.ToLower(strings.TrimSpace(c.Narration.Language))
	if c.Narration.Language == "" {
		c.Narration.Language = defaultNarrationLanguage
	}
	if c.Narration.Speed <= 0 {
		c.Narration.Speed = defaultNarrationSpeed
	}
	c.Narration.ResponseFormat = strings.ToLower(strings.TrimSpace(c.Narration.ResponseFormat))
	if c.Narration.ResponseFormat == "" {
		c.Narration.ResponseFormat = defaultNarrationFormat
	}
	if c.Narration.SampleRate <= 0 {
		c.Narration.SampleRate = defaultSampleRate
	}
	if c.Narration.PauseSeconds < 0 {
		c.Narration.PauseSeconds = 0
	}
	if c.Narration.TimeoutSeconds <= 0 {
		c.Narration.TimeoutSeconds = defaultNarrationTimeout
	}
}

func (c *Config) normalizeDiagram() {
	c.Diagram.Command = strings.TrimSpace(c.Diagram.Command)
	if c.Diagram.Command == "" {
		c.Diagram.Command = defaultDiagramCommand
	}
	c.Diagram.BrowserExecutable = strings.TrimSpace(c.Diagram.BrowserExecutable)
	if c.Diagram.BrowserExecutable == "" {
		if value, ok := os.LookupEnv("PUPPETEER_EXECUTABLE_PATH"); ok {
			c.Diagram.BrowserExecutable = strings.TrimSpace(value)
		}
	}
	if c.Diagram.TimeoutSeconds <= 0 {
		c.Diagram.TimeoutSeconds = defaultDiagramTimeout
	}
}

func (c *Config) normalizeTimeline() {
	c.Timeline.MissingAudio = strings.ToLower(strings.TrimSpace(c.Timeline.MissingAudio))
	if c.Timeline.MissingAudio == "" {
		c.Timeline.MissingAudio = MissingAudioGap
	}
}

func (c *Config) normalizeVideo() {
	c.Video.FFmpegBinary = strings.TrimSpace(c.Video.FFmpegBinary)
	c.Video.FFprobeBinary = strings.TrimSpace(c.Video.FFprobeBinary)
	if c.Video.FrameRate <= 0 {
		c.Video.FrameRate = defaultFrameRate
	}
	c.Video.VideoCodec = strings.TrimSpace(c.Video.VideoCodec)
	if c.Video.VideoCodec == "" {
		c.Video.VideoCodec = defaultVideoCodec
	}
	c.Video.AudioCodec = strings.TrimSpace(c.Video.AudioCodec)
	if c.Video.AudioCodec == "" {
		c.Video.AudioCodec = defaultAudioCodec
	}
	c.Video.PixelFormat = strings.TrimSpace(c.Video.PixelFormat)
	if c.Video.PixelFormat == "" {
		c.Video.PixelFormat = defaultPixelFormat
	}
	c.Video.OutputName = strings.TrimSpace(c.Video.OutputName)
	if c.Video.OutputName == "" {
		c.Video.OutputName = defaultOutputName
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
