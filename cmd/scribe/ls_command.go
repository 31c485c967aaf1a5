package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scribe/internal/ledger"
)

func newLsCommand(ctx *commandContext) *cobra.Command {
	var recordingFilter string
	var unlabeledOnly bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List ledger rows",
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

			tableRows := make([][]string, 0, len(rows))
			for _, row := range rows {
				if recordingFilter != "" && row.RecordingID != recordingFilter {
					continue
				}
				if unlabeledOnly && row.Labeled() {
					continue
				}
				tableRows = append(tableRows, []string{
					row.RecordingID,
					strconv.Itoa(row.SequenceID),
					row.TimeRange(),
					fmt.Sprintf("%.3f", row.Confidence),
					row.DisplayState().String(),
					truncate(row.DisplayText(), 60),
				})
			}

			out := cmd.OutOrStdout()
			if len(tableRows) == 0 {
				fmt.Fprintln(out, "No matching segments.")
				return nil
			}
			headers := []string{"Recording", "Seq", "Range", "Confidence", "State", "Text"}
			fmt.Fprintln(out, renderTable(headers, tableRows, 1, 3))
			return nil
		},
	}

	cmd.Flags().StringVar(&recordingFilter, "recording", "", "Only show segments from this recording")
	cmd.Flags().BoolVar(&unlabeledOnly, "unlabeled", false, "Only show segments without a label")
	return cmd
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
