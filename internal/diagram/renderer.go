package diagram

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"slidecast/internal/config"
	"slidecast/internal/logging"
	"slidecast/internal/services"
)

// ErrEmptyDefinition is returned when asked to render blank source.
var ErrEmptyDefinition = errors.New("empty diagram definition")

type commandRunner func(ctx context.Context, env []string, name string, args ...string) error

// Renderer shells out to mermaid-cli.
type Renderer struct {
	binary  string
	browser string
	timeout time.Duration
	logger  *slog.Logger
	run     commandRunner
}

// NewRenderer builds a renderer from the diagram section of cfg.
func NewRenderer(cfg *config.Config, logger *slog.Logger) *Renderer {
	r := &Renderer{
		binary:  "mmdc",
		timeout: 2 * time.Minute,
		logger:  logging.NewComponentLogger(logger, "diagram"),
		run:     defaultCommandRunner,
	}
	if cfg != nil {
		r.binary = cfg.DiagramBinary()
		r.browser = cfg.Diagram.BrowserExecutable
		if cfg.Diagram.TimeoutSeconds > 0 {
			r.timeout = time.Duration(cfg.Diagram.TimeoutSeconds) * time.Second
		}
	}
	return r
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (r *Renderer) WithCommandRunner(run commandRunner) {
	if r != nil && run != nil {
		r.run = run
	}
}

// Render converts a mermaid definition into an image.
func (r *Renderer) Render(ctx context.Context, source string) (image.Image, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyDefinition
	}

	scratch, err := os.MkdirTemp("", "slidecast-diagram-")
	if err != nil {
		return nil, fmt.Errorf("diagram scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	input := filepath.Join(scratch, "diagram.mmd")
	output := filepath.Join(scratch, "diagram.png")
	if err := os.WriteFile(input, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("write diagram source: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var env []string
	if r.browser != "" {
		env = append(os.Environ(), "PUPPETEER_EXECUTABLE_PATH="+r.browser)
	}

	start := time.Now()
	if err := r.run(runCtx, env, r.binary, "-i", input, "-o", output); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "diagram", "mmdc", fmt.Sprintf("exceeded %s", r.timeout), err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "diagram", "mmdc", "render failed", err)
	}
	r.logger.Debug("diagram rendered",
		logging.String(logging.FieldEventType, "diagram_rendered"),
		logging.Duration("elapsed", time.Since(start)),
	)

	file, err := os.Open(output)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "diagram", "read output", "mmdc produced no image", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "diagram", "decode output", "", err)
	}
	return img, nil
}

func defaultCommandRunner(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if env != nil {
		cmd.Env = env
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
