package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scribe/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent review decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg.Paths.QCDir)
			if err != nil {
				return fmt.Errorf("open decision journal: %w", err)
			}
			defer store.Close()

			decisions, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(decisions) == 0 {
				fmt.Fprintln(out, "No decisions recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(decisions))
			for _, d := range decisions {
				rows = append(rows, []string{
					d.DecidedAt.Local().Format("2006-01-02 15:04:05"),
					d.Action,
					d.RecordingID,
					strconv.Itoa(d.SequenceID),
					truncate(d.NewLabel, 50),
				})
			}
			headers := []string{"When", "Action", "Recording", "Seq", "Label"}
			fmt.Fprintln(out, renderTable(headers, rows, 3))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of decisions to show")
	return cmd
}
