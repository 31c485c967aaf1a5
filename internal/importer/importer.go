// Package importer reads per-recording transcription output and turns it
// into unlabeled ledger segments.
//
// Each recording is a folder under the transcribed root containing the
// recording's audio file and a segment-list file (whisper's result.json).
// A missing or malformed segment file skips that recording with a warning;
// it never aborts the scan. Rows with an invalid time range or a
// non-increasing sequence id are dropped at import so bad ranges never
// reach clip extraction.
package importer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scribe/internal/segment"
)

// Importer scans a transcribed root for new recordings.
type Importer struct {
	root        string
	segmentFile string
	skipPaths   map[string]struct{}
	logger      *slog.Logger
}

// Option customizes an Importer.
type Option func(*Importer)

// WithSkipPath excludes a directory (by path) from scanning. Used to keep
// the importer out of the qc directory when it lives under the transcribed
// root.
func WithSkipPath(path string) Option {
	return func(im *Importer) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		im.skipPaths[path] = struct{}{}
	}
}

// New creates an Importer over the transcribed root. segmentFile is the
// per-recording transcription output file name (typically result.json).
func New(root, segmentFile string, logger *slog.Logger, opts ...Option) *Importer {
	im := &Importer{
		root:        root,
		segmentFile: segmentFile,
		skipPaths:   make(map[string]struct{}),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Scan reads every recording folder not already present in known and
// returns its segments, unlabeled, with deterministic UIDs assigned.
// Recordings whose segment file is missing or malformed are skipped.
func (im *Importer) Scan(known map[string]struct{}) ([]segment.Segment, error) {
	entries, err := os.ReadDir(im.root)
	if err != nil {
		return nil, fmt.Errorf("read transcribed root: %w", err)
	}

	var out []segment.Segment
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		folder := filepath.Join(im.root, name)
		if _, skip := im.skipPaths[folder]; skip {
			continue
		}
		if _, seen := known[name]; seen {
			continue
		}

		segs, err := im.readRecording(name, folder)
		if err != nil {
			im.logger.Warn("skipping recording", "recording", name, "error", err)
			continue
		}
		if len(segs) == 0 {
			continue
		}
		im.logger.Info("imported segments", "recording", name, "count", len(segs))
		out = append(out, segs...)
	}
	return out, nil
}

// segmentList mirrors the transcriber's JSON output. Only the fields the
// ledger needs are decoded.
type segmentList struct {
	Segments []struct {
		ID         int     `json:"id"`
		Start      float64 `json:"start"`
		End        float64 `json:"end"`
		Text       string  `json:"text"`
		AvgLogprob float64 `json:"avg_logprob"`
	} `json:"segments"`
}

func (im *Importer) readRecording(name, folder string) ([]segment.Segment, error) {
	path := filepath.Join(folder, im.segmentFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segment file: %w", err)
	}

	var list segmentList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", im.segmentFile, err)
	}

	out := make([]segment.Segment, 0, len(list.Segments))
	lastSeq := -1
	for _, entry := range list.Segments {
		if entry.Start >= entry.End {
			im.logger.Warn("dropping segment with invalid time range",
				"recording", name, "sequence", entry.ID, "start", entry.Start, "end", entry.End)
			continue
		}
		if entry.ID <= lastSeq {
			im.logger.Warn("dropping segment with non-increasing sequence id",
				"recording", name, "sequence", entry.ID, "previous", lastSeq)
			continue
		}
		lastSeq = entry.ID
		out = append(out, segment.Segment{
			RecordingID: name,
			SequenceID:  entry.ID,
			UID:         segment.NewUID(name, entry.ID),
			Start:       entry.Start,
			End:         entry.End,
			Text:        strings.TrimSpace(entry.Text),
			Confidence:  entry.AvgLogprob,
		})
	}
	return out, nil
}
