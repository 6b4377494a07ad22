package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"scdproc/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
				return nil
			}

			store, err := history.OpenFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func renderHistory(runs []*history.Run) string {
	rows := make([][]string, 0, len(runs))
	var total, accepted, dropped int
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Accepted),
			strconv.Itoa(run.Dropped()),
			runDetail(run),
		})
		total += run.Total
		accepted += run.Accepted
		dropped += run.Dropped()
	}
	return renderTable(tableSpec{
		Headers: []string{"Run", "Started", "Status", "Total", "Accepted", "Dropped", "Detail"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		Footer:  []string{fmt.Sprintf("%d runs", len(runs)), "", "", strconv.Itoa(total), strconv.Itoa(accepted), strconv.Itoa(dropped), ""},
	})
}

// runDetail names the failing stage and error kind of a failed run, or the
// output file of a successful one.
func runDetail(run *history.Run) string {
	if run.Status == history.StatusFailed {
		return fmt.Sprintf("%s: %s", run.ErrorStage, run.ErrorKind)
	}
	return run.Output
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
