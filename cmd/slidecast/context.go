package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"slidecast/internal/config"
	"slidecast/internal/course"
	"slidecast/internal/logging"
	"slidecast/internal/pipeline"
)

// newPipeline is replaced in tests with a constructor wiring fakes.
var newPipeline = pipeline.NewFromConfig

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// selectRun loads and validates every record, then narrows to the selection
// in args. ok is false when the selection was rejected and a message has
// already been written to out; callers then exit cleanly without work.
func (c *commandContext) selectRun(cmd *cobra.Command, args []string) (slides []course.Slide, selection *course.SlideID, ok bool, err error) {
	out := cmd.OutOrStdout()
	selection, err = course.ParseSelection(args)
	if err != nil {
		fmt.Fprintln(out, err)
		fmt.Fprint(out, cmd.UsageString())
		return nil, nil, false, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, false, err
	}
	all, err := course.LoadDir(cfg.Paths.InputDir)
	if err != nil {
		return nil, nil, false, err
	}
	slides, err = course.SelectRun(all, selection)
	if errors.Is(err, course.ErrSlideNotFound) {
		fmt.Fprintf(out, "slide %s not found\n", selection)
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}
	return slides, selection, true, nil
}

func printViolations(out io.Writer, err error) {
	var verr *course.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, v := range verr.Violations {
		fmt.Fprintf(out, "  %s\n", v)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
