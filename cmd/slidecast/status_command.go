package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"slidecast/internal/course"
	"slidecast/internal/fileutil"
	"slidecast/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var runLimit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recorded slide artifacts and recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !fileutil.Exists(cfg.LedgerPath()) {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			store, err := ledger.Open(cfg.LedgerPath())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			artifacts, err := store.Artifacts(cmd.Context())
			if err != nil {
				return err
			}
			runs, err := store.RecentRuns(cmd.Context(), runLimit)
			if err != nil {
				return err
			}

			if len(artifacts) > 0 {
				fmt.Fprintln(out, "Slides")
				fmt.Fprintln(out, renderArtifacts(artifacts))
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			fmt.Fprintln(out, "Recent runs")
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&runLimit, "runs", 10, "Number of recent runs to show")
	return cmd
}

type slideStatus struct {
	composition ledger.Artifact
	narration   ledger.Artifact
}

func renderArtifacts(artifacts []ledger.Artifact) string {
	var order []course.SlideID
	bySlide := map[course.SlideID]*slideStatus{}
	for _, a := range artifacts {
		st, ok := bySlide[a.Slide]
		if !ok {
			st = &slideStatus{}
			bySlide[a.Slide] = st
			order = append(order, a.Slide)
		}
		switch a.Kind {
		case ledger.KindComposition:
			st.composition = a
		case ledger.KindNarration:
			st.narration = a
		}
	}

	rows := make([][]string, 0, len(order))
	for _, id := range order {
		st := bySlide[id]
		duration := "-"
		if st.narration.Duration > 0 {
			duration = strconv.FormatFloat(st.narration.Duration, 'f', 1, 64) + "s"
		}
		rows = append(rows, []string{
			id.Key(),
			artifactLabel(st.composition),
			artifactLabel(st.narration),
			duration,
			latest(st.composition.UpdatedAt, st.narration.UpdatedAt),
		})
	}
	return renderTable(
		[]string{"Slide", "Composition", "Narration", "Audio", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func artifactLabel(a ledger.Artifact) string {
	if a.Status == "" {
		return "-"
	}
	if a.Status == ledger.ArtifactReady || a.Detail == "" {
		return string(a.Status)
	}
	return fmt.Sprintf("%s (%s)", a.Status, truncate(a.Detail, 40))
}

func latest(a, b time.Time) string {
	if b.After(a) {
		a = b
	}
	if a.IsZero() {
		return "-"
	}
	return a.Local().Format("2006-01-02 15:04:05")
}

func renderRuns(runs []ledger.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		duration := "-"
		if d := r.Duration(); d > 0 {
			duration = d.Round(time.Second).String()
		}
		status := string(r.Status)
		if r.FailureKind != "" {
			status += " (" + r.FailureKind + ")"
		}
		output := r.OutputPath
		if output == "" {
			output = "-"
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.Stage,
			r.Selection,
			status,
			strconv.Itoa(r.Succeeded),
			strconv.Itoa(r.Failed),
			duration,
			output,
		})
	}
	return renderTable(
		[]string{"Run", "Stage", "Selection", "Status", "OK", "Failed", "Took", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
