package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateNarration(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateMarkers(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTimeline() error {
	t := c.Timeline
	if t.IntroSeconds < 0 {
		return errors.New("timeline.intro_seconds must be >= 0")
	}
	if t.PauseSeconds < 0 {
		return errors.New("timeline.pause_seconds must be >= 0")
	}
	if t.FadeSeconds < 0 {
		return errors.New("timeline.fade_seconds must be >= 0")
	}
	if t.DefaultSeconds <= 0 {
		return errors.New("timeline.default_seconds must be positive")
	}
	switch t.MissingAudio {
	case MissingAudioGap, MissingAudioSilence:
	default:
		return fmt.Errorf("timeline.missing_audio: unsupported value %q (want %q or %q)", t.MissingAudio, MissingAudioGap, MissingAudioSilence)
	}
	return nil
}

func (c *Config) validateNarration() error {
	if !strings.HasPrefix(c.Narration.BaseURL, "http://") && !strings.HasPrefix(c.Narration.BaseURL, "https://") {
		return fmt.Errorf("narration.base_url must be an http(s) URL, got %q", c.Narration.BaseURL)
	}
	if c.Narration.ResponseFormat != "wav" {
		// Clips are concatenated with stream copy against PCM silence.
		return fmt.Errorf("narration.response_format: only \"wav\" is supported, got %q", c.Narration.ResponseFormat)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.FrameRate > 120 {
		return fmt.Errorf("video.frame_rate must be <= 120, got %d", c.Video.FrameRate)
	}
	if filepath.Base(c.Video.OutputName) != c.Video.OutputName {
		return fmt.Errorf("video.output_name must be a file name, got %q", c.Video.OutputName)
	}
	return nil
}

func (c *Config) validateMarkers() error {
	if c.Markers.Image == c.Markers.Diagram {
		return errors.New("markers.image and markers.diagram must differ")
	}
	return nil
}
