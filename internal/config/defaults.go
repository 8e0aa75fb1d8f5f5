package config

const (
	defaultInputDir          = "slide_yamls"
	defaultSlidesDir         = "slides"
	defaultSoundsDir         = "slide_sounds"
	defaultVideoDir          = "videos"
	defaultStateDir          = ".slidecast"
	defaultLogDir            = ".slidecast/logs"
	defaultCanvasWidth       = 1920
	defaultCanvasHeight      = 1080
	defaultLogoURL           = "https://git-scm.com/images/logos/downloads/Git-Logo-2Color.png"
	defaultFooterText        = "Madd Systems Group"
	defaultFontSize          = 50
	defaultFooterFontSize    = 20
	defaultImageMarker       = "Imagen de ejemplo:"
	defaultDiagramMarker     = "Usa este Mermaid:"
	defaultNarrationBaseURL  = "http://localhost:8880"
	defaultNarrationVoice    = "bm_daniel"
	defaultNarrationLanguage = "es"
	defaultNarrationSpeed    = 1.0
	defaultNarrationFormat   = "wav"
	defaultSampleRate        = 24000
	defaultSentencePause     = 1.0
	defaultNarrationTimeout  = 120
	defaultDiagramCommand    = "mmdc"
	defaultDiagramTimeout    = 120
	defaultIntroSeconds      = 3.0
	defaultPauseSeconds      = 2.0
	defaultFadeSeconds       = 1.0
	defaultSlideSeconds      = 5.0
	defaultFrameRate         = 25
	defaultVideoCodec        = "libx264"
	defaultAudioCodec        = "aac"
	defaultPixelFormat       = "yuv420p"
	defaultOutputName        = "final_presentation.mp4"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"

	// MissingAudioGap leaves the audio timeline without a segment for slides that have no clip.
	MissingAudioGap = "gap"
	// MissingAudioSilence pads slides that have no clip with silence of the slide duration.
	MissingAudioSilence = "silence"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			SlidesDir: defaultSlidesDir,
			SoundsDir: defaultSoundsDir,
			VideoDir:  defaultVideoDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Canvas: Canvas{
			Width:  defaultCanvasWidth,
			Height: defaultCanvasHeight,
		},
		Brand: Brand{
			LogoURL:        defaultLogoURL,
			FooterText:     defaultFooterText,
			FontSize:       defaultFontSize,
			FooterFontSize: defaultFooterFontSize,
		},
		Markers: Markers{
			Image:   defaultImageMarker,
			Diagram: defaultDiagramMarker,
		},
		Narration: Narration{
			BaseURL:        defaultNarrationBaseURL,
			Voice:          defaultNarrationVoice,
			Language:       defaultNarrationLanguage,
			Speed:          defaultNarrationSpeed,
			ResponseFormat: defaultNarrationFormat,
			SampleRate:     defaultSampleRate,
			PauseSeconds:   defaultSentencePause,
			TimeoutSeconds: defaultNarrationTimeout,
		},
		Diagram: Diagram{
			Command:        defaultDiagramCommand,
			TimeoutSeconds: defaultDiagramTimeout,
		},
		Timeline: Timeline{
			IntroSeconds:   defaultIntroSeconds,
			PauseSeconds:   defaultPauseSeconds,
			FadeSeconds:    defaultFadeSeconds,
			DefaultSeconds: defaultSlideSeconds,
			MissingAudio:   MissingAudioGap,
		},
		Video: Video{
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
			FrameRate:     defaultFrameRate,
			VideoCodec:    defaultVideoCodec,
			AudioCodec:    defaultAudioCodec,
			PixelFormat:   defaultPixelFormat,
			OutputName:    defaultOutputName,
		},
		Workers: Workers{
			Concurrency: 1,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
