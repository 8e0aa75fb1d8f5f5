package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"slidecast/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				switch {
				case !s.Available && s.Optional:
					state = "missing (optional)"
				case !s.Available:
					state = "missing"
				}
				command := s.Resolved
				if command == "" {
					command = s.Command
				}
				rows = append(rows, []string{s.Name, command, state, s.Description})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Used for"}, rows, nil))

			missing := deps.MissingRequired(statuses)
			if len(missing) == 0 {
				fmt.Fprintln(out, "All required dependencies available")
				return nil
			}
			names := make([]string, 0, len(missing))
			for _, s := range missing {
				names = append(names, s.Name)
			}
			return fmt.Errorf("missing required dependencies: %s", strings.Join(names, ", "))
		},
	}
}
