package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/fileutil"
	"scribe/internal/media/clip"
	"scribe/internal/media/ffprobe"
)

func newTrimCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "trim",
		Short: "Drop transcription segments that start past the audio's end",
		Long: "Probes each recording's duration and removes segments whose start\n" +
			"time lies beyond it, a symptom of transcription runaway on trailing\n" +
			"silence. The segment file is rewritten in place with its joined text\n" +
			"recomputed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.componentLogger("trim")
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(cfg.Paths.TranscribedDir)
			if err != nil {
				return fmt.Errorf("read transcribed directory: %w", err)
			}

			out := cmd.OutOrStdout()
			trimmed := 0
			for _, entry := range entries {
				if !entry.IsDir() {
					continue
				}
				dropped, err := trimRecording(cmd, cfg, logger, entry.Name())
				if err != nil {
					logger.Warn("trim failed", "recording", entry.Name(), "error", err)
					continue
				}
				if dropped > 0 {
					fmt.Fprintf(out, "%s: dropped %d trailing segments\n", entry.Name(), dropped)
					trimmed += dropped
				}
			}
			fmt.Fprintf(out, "Dropped %d segments total.\n", trimmed)
			return nil
		},
	}
}

// trimRecording removes segments starting at or past the recording's probed
// duration and rewrites the segment file atomically. The document is kept as
// a generic map so fields scribe does not model survive the rewrite.
func trimRecording(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, name string) (int, error) {
	folder := filepath.Join(cfg.Paths.TranscribedDir, name)
	audio := clip.ResolveAudio(folder, name, cfg.Review.AudioExtensions)
	if audio == "" {
		return 0, fmt.Errorf("no audio file found")
	}

	probe, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), audio)
	if err != nil {
		return 0, err
	}
	duration := probe.DurationSeconds()
	if duration == 0 {
		return 0, fmt.Errorf("no duration reported for %s", audio)
	}

	segmentPath := filepath.Join(folder, cfg.Review.SegmentFile)
	raw, err := os.ReadFile(segmentPath)
	if err != nil {
		return 0, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("parse %s: %w", cfg.Review.SegmentFile, err)
	}
	segments, ok := doc["segments"].([]any)
	if !ok {
		return 0, fmt.Errorf("%s has no segments array", cfg.Review.SegmentFile)
	}

	kept := make([]any, 0, len(segments))
	var text strings.Builder
	for _, raw := range segments {
		seg, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		start, _ := seg["start"].(float64)
		if start >= duration {
			continue
		}
		kept = append(kept, raw)
		if segText, ok := seg["text"].(string); ok {
			text.WriteString(segText)
		}
	}
	dropped := len(segments) - len(kept)
	if dropped == 0 {
		return 0, nil
	}

	doc["segments"] = kept
	doc["text"] = text.String()
	rewritten, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := fileutil.WriteFileAtomic(segmentPath, rewritten, 0o644); err != nil {
		return 0, err
	}
	logger.Info("trimmed segment file",
		"recording", name, "duration", duration, "dropped", dropped)
	return dropped, nil
}
