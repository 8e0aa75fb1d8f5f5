package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"slidecast/internal/pipeline"
)

func newStageCommand(ctx *commandContext, stage pipeline.Stage, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(stage) + " [module_id slide_id]",
		Short: short,
		Long: short + ".\n\nWithout arguments every slide record is processed in (module, slide) order.\n" +
			"With a module_id and slide_id only that slide is processed.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slides, selection, ok, err := ctx.selectRun(cmd, args)
			if err != nil || !ok {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			p, err := newPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			report, runErr := p.Run(signalCtx, stage, slides, selection)
			printReport(cmd.OutOrStdout(), report)
			return runErr
		},
	}
}

func printReport(out io.Writer, report pipeline.Report) {
	if report.RunID == "" {
		return
	}
	fmt.Fprintf(out, "Run %s (%s): %d slide(s) in %s\n", report.RunID, report.Stage, report.Slides, report.Elapsed.Round(time.Millisecond))
	switch report.Stage {
	case pipeline.StageSlides, pipeline.StageBuild:
		fmt.Fprintf(out, "  Composed:        %d\n", len(report.Composed))
	}
	switch report.Stage {
	case pipeline.StageNarrate, pipeline.StageBuild:
		fmt.Fprintf(out, "  Narrated:        %d\n", len(report.Narrated))
		fmt.Fprintf(out, "  Without script:  %d\n", len(report.Silent))
	}
	if report.Plan != nil && len(report.Plan.Skipped) > 0 {
		fmt.Fprintf(out, "  Not in video:    %d (no composition)\n", len(report.Plan.Skipped))
	}
	for _, f := range report.Failures {
		fmt.Fprintf(out, "  Failed %s (%s): %v\n", f.Slide, f.Stage, f.Err)
	}
	if report.Video != nil {
		fmt.Fprintf(out, "Video: %s (%.1fs)\n", report.Video.Path, report.Video.Duration)
	}
}
