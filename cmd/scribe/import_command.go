package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/importer"
	"scribe/internal/ledger"
	"scribe/internal/segment"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import new transcription segments into the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.componentLogger("importer")
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg.Paths.QCDir)
			if err != nil {
				return err
			}
			if err := store.Lock(); err != nil {
				if errors.Is(err, ledger.ErrSessionLocked) {
					return fmt.Errorf("another scribe session is already using %s", store.Dir())
				}
				return err
			}
			defer store.Unlock()

			rows, added, err := importSegments(cfg, logger, store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new segments (%d total).\n", added, len(rows))
			return nil
		},
	}
}

// importSegments scans the transcribed library for recordings the ledger
// does not know yet, merges their segments in, and persists the result. It
// returns the merged rows and how many were new.
func importSegments(cfg *config.Config, logger *slog.Logger, store *ledger.Store) ([]segment.Segment, int, error) {
	rows, err := store.Load()
	if err != nil {
		return nil, 0, err
	}

	imp := importer.New(cfg.Paths.TranscribedDir, cfg.Review.SegmentFile, logger,
		importer.WithSkipPath(cfg.Paths.QCDir))
	incoming, err := imp.Scan(ledger.Recordings(rows))
	if err != nil {
		return nil, 0, fmt.Errorf("scan transcribed library: %w", err)
	}

	merged := ledger.MergeInsert(rows, incoming)
	added := len(merged) - len(rows)
	if added > 0 {
		if err := store.Save(merged); err != nil {
			return nil, 0, err
		}
	}
	return merged, added, nil
}
