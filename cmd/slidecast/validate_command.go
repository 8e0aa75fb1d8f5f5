package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"slidecast/internal/config"
	"slidecast/internal/course"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var coursePath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate slide records and, optionally, a course outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			problems := 0

			slides, err := course.LoadDir(cfg.Paths.InputDir)
			var verr *course.ValidationError
			switch {
			case errors.As(err, &verr):
				fmt.Fprintf(out, "Slide records in %s:\n", cfg.Paths.InputDir)
				printViolations(out, err)
				problems += len(verr.Violations)
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "%d slide record(s) valid in %s\n", len(slides), cfg.Paths.InputDir)
			}

			if target := strings.TrimSpace(coursePath); target != "" {
				n, err := validateOutline(cmd, target)
				if err != nil {
					return err
				}
				problems += n
			}

			if problems > 0 {
				return fmt.Errorf("%d violation(s) found", problems)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&coursePath, "course", "", "Course outline document (YAML or JSON) to validate")
	return cmd
}

func validateOutline(cmd *cobra.Command, path string) (int, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return 0, fmt.Errorf("resolve course path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return 0, fmt.Errorf("read course outline: %w", err)
	}
	out := cmd.OutOrStdout()
	outline, violations := course.ValidateOutline(expanded, data)
	if len(violations) > 0 {
		fmt.Fprintf(out, "Course outline %s:\n", expanded)
		for _, v := range violations {
			fmt.Fprintf(out, "  %s\n", v)
		}
		return len(violations), nil
	}
	fmt.Fprintf(out, "Course %q valid: %d module(s), %d slide(s)\n", outline.DisplayTitle(), len(outline.Modules), outline.SlideCount())
	return 0, nil
}
