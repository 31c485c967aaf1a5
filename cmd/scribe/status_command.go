package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"scribe/internal/journal"
	"scribe/internal/ledger"
	"scribe/internal/segment"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize ledger progress and recent decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg.Paths.QCDir)
			if err != nil {
				return err
			}
			rows, err := store.Load()
			if err != nil {
				return err
			}

			var labeled, accepted, inaudible, skipped int
			for _, row := range rows {
				switch {
				case row.Label == "":
				case row.Label == segment.LabelInaudible:
					inaudible++
					labeled++
				case row.Label == segment.LabelSkipped:
					skipped++
					labeled++
				case row.Label == row.Text:
					accepted++
					labeled++
				default:
					labeled++
				}
			}

			out := cmd.OutOrStdout()
			summary := [][]string{
				{"Total segments", strconv.Itoa(len(rows))},
				{"Labeled", strconv.Itoa(labeled)},
				{"Pending", strconv.Itoa(len(rows) - labeled)},
				{"Accepted verbatim", strconv.Itoa(accepted)},
				{"Inaudible", strconv.Itoa(inaudible)},
				{"Skipped", strconv.Itoa(skipped)},
			}
			fmt.Fprintln(out, renderTable([]string{"Metric", "Count"}, summary, 1))

			stats, err := journalStats(cmd, cfg.Paths.QCDir)
			if err != nil {
				// The journal is advisory; status still reports the ledger.
				fmt.Fprintf(out, "Decision journal unavailable: %v\n", err)
				return nil
			}
			if len(stats) == 0 {
				return nil
			}

			actions := make([]string, 0, len(stats))
			for action := range stats {
				actions = append(actions, action)
			}
			sort.Strings(actions)
			decisionRows := make([][]string, 0, len(actions))
			for _, action := range actions {
				decisionRows = append(decisionRows, []string{action, strconv.Itoa(stats[action])})
			}
			fmt.Fprintln(out, renderTable([]string{"Decision", "Count"}, decisionRows, 1))
			return nil
		},
	}
}

func journalStats(cmd *cobra.Command, qcDir string) (map[string]int, error) {
	store, err := journal.Open(qcDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Stats(cmd.Context())
}
