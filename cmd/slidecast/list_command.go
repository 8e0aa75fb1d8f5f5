package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"slidecast/internal/extract"
)

const titleWidth = 48

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [module_id slide_id]",
		Short: "Show the slides a run would process",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slides, _, ok, err := ctx.selectRun(cmd, args)
			if err != nil || !ok {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			parser, err := extract.NewParser(extract.Markers{Image: cfg.Markers.Image, Diagram: cfg.Markers.Diagram})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(slides) == 0 {
				fmt.Fprintf(out, "No slide records in %s\n", cfg.Paths.InputDir)
				return nil
			}
			rows := make([][]string, 0, len(slides))
			for _, s := range slides {
				content := parser.Parse(s.Content)
				rows = append(rows, []string{
					s.ID.Key(),
					headline(content.Lines()),
					strconv.Itoa(len(content.Lines())),
					yesNo(content.HasImage()),
					yesNo(content.HasDiagram()),
					strconv.Itoa(len(s.Script)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Slide", "Text", "Lines", "Image", "Diagram", "Sentences"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func headline(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > titleWidth {
			return string(runes[:titleWidth-1]) + "…"
		}
		return line
	}
	return "-"
}
