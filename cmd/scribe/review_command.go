package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/journal"
	"scribe/internal/ledger"
	"scribe/internal/media/clip"
	"scribe/internal/player"
	"scribe/internal/review"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review transcription segments interactively",
		Long: "Imports any new transcriptions, then walks the ledger by ascending\n" +
			"confidence, playing each segment and applying reviewer decisions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !stdinIsTerminal() {
				return errors.New("review requires an interactive terminal")
			}
			logger, err := ctx.componentLogger("review")
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg.Paths.QCDir)
			if err != nil {
				return err
			}
			if err := store.Lock(); err != nil {
				if errors.Is(err, ledger.ErrSessionLocked) {
					return fmt.Errorf("another review session is already running against %s", store.Dir())
				}
				return err
			}
			defer store.Unlock()

			rows, added, err := importSegments(cfg, logger, store)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if added > 0 {
				fmt.Fprintf(out, "Imported %d new segments.\n", added)
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "Nothing to review.")
				return nil
			}

			jstore, err := journal.Open(cfg.Paths.QCDir)
			if err != nil {
				logger.Warn("decision journal unavailable", "error", err)
				jstore = nil
			} else {
				defer jstore.Close()
			}

			session, err := review.New(review.Options{
				Store:           store,
				Cache:           clip.NewCache(cfg.Paths.QCDir, cfg.Review.ClipFormat),
				Player:          player.FFplay{Binary: cfg.FFplayBinary()},
				Opener:          player.SystemOpener{},
				Journal:         jstore,
				Prompter:        review.NewTerminalPrompter(cmd.InOrStdin(), out),
				Logger:          logger,
				Out:             out,
				TranscribedRoot: cfg.Paths.TranscribedDir,
				FFmpegBinary:    cfg.FFmpegBinary(),
				PlaybackSpeed:   cfg.Review.PlaybackSpeed,
				AudioExtensions: cfg.Review.AudioExtensions,
			})
			if err != nil {
				return err
			}

			_, err = session.Run(cmd.Context(), rows)
			return err
		},
	}
}
