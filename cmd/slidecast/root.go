package main

import (
	"github.com/spf13/cobra"

	"slidecast/internal/pipeline"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "slidecast",
		Short:         "Turn slide records into a narrated video",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newStageCommand(ctx, pipeline.StageSlides, "Render slide compositions"))
	rootCmd.AddCommand(newStageCommand(ctx, pipeline.StageNarrate, "Synthesize slide narration clips"))
	rootCmd.AddCommand(newStageCommand(ctx, pipeline.StageVideo, "Assemble compositions and narration into a video"))
	rootCmd.AddCommand(newStageCommand(ctx, pipeline.StageBuild, "Run slides, narrate and video in order"))
	rootCmd.AddCommand(newValidateCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
