package deps

import (
	"strings"

	"slidecast/internal/config"
)

// Requirements lists the external programs the configured stages need.
// The diagram renderer is optional: slides render without their diagram
// when it is missing.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Encodes slide segments and joins narration and video tracks",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Measures narration clip durations",
		},
		{
			Name:        "Mermaid CLI",
			Command:     cfg.DiagramBinary(),
			Description: "Renders embedded mermaid diagrams",
			Optional:    true,
		},
	}
	if browser := strings.TrimSpace(cfg.Diagram.BrowserExecutable); browser != "" {
		reqs = append(reqs, Requirement{
			Name:        "Diagram browser",
			Command:     browser,
			Description: "Headless browser used by mermaid-cli",
			Optional:    true,
			Path:        true,
		})
	}
	return reqs
}
