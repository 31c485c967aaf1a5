package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scribe/internal/fileutil"
	"scribe/internal/media/clip"
)

func newRequeueCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "requeue [recording...]",
		Short: "Copy recordings back into the transcription queue",
		Long: "Copies each recording's audio file from the transcribed library\n" +
			"into the queue directory so it can be transcribed again. With no\n" +
			"arguments, every recording is requeued.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.componentLogger("requeue")
			if err != nil {
				return err
			}
			if cfg.Paths.QueueDir == "" {
				return fmt.Errorf("paths.queue_dir is not configured")
			}
			if err := os.MkdirAll(cfg.Paths.QueueDir, 0o755); err != nil {
				return fmt.Errorf("create queue directory: %w", err)
			}

			names := args
			if len(names) == 0 {
				entries, err := os.ReadDir(cfg.Paths.TranscribedDir)
				if err != nil {
					return fmt.Errorf("read transcribed directory: %w", err)
				}
				for _, entry := range entries {
					if entry.IsDir() {
						names = append(names, entry.Name())
					}
				}
			}

			out := cmd.OutOrStdout()
			copied := 0
			for _, name := range names {
				folder := filepath.Join(cfg.Paths.TranscribedDir, name)
				audio := clip.ResolveAudio(folder, name, cfg.Review.AudioExtensions)
				if audio == "" {
					logger.Warn("no audio file to requeue", "recording", name)
					continue
				}
				dest := filepath.Join(cfg.Paths.QueueDir, filepath.Base(audio))
				if !overwrite {
					if _, err := os.Stat(dest); err == nil {
						logger.Info("already queued", "recording", name)
						continue
					}
				}
				if err := fileutil.CopyFile(audio, dest); err != nil {
					logger.Warn("requeue copy failed", "recording", name, "error", err)
					continue
				}
				fmt.Fprintf(out, "Queued %s\n", filepath.Base(audio))
				copied++
			}
			fmt.Fprintf(out, "Requeued %d recordings.\n", copied)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace files already present in the queue")
	return cmd
}
