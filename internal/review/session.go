// Package review drives the interactive quality-control session: it walks
// ledger rows in priority order (least confident first), plays each
// segment's audio, and applies the reviewer's decision to the ledger and
// the clip cache.
//
// The session is strictly sequential and checkpoints aggressively: the
// ledger is persisted after every terminal action, so an interruption
// loses at most the row under review.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scribe/internal/journal"
	"scribe/internal/ledger"
	"scribe/internal/media/clip"
	"scribe/internal/player"
	"scribe/internal/segment"
	"scribe/internal/textutil"
)

// Options wires a Session's collaborators.
type Options struct {
	Store           *ledger.Store
	Cache           *clip.Cache
	Player          player.Player
	Opener          player.Opener
	Journal         *journal.Store // optional; decisions are logged best-effort
	Prompter        Prompter
	Logger          *slog.Logger
	Out             io.Writer
	TranscribedRoot string
	FFmpegBinary    string
	PlaybackSpeed   float64
	AudioExtensions []string
}

// Session is one interactive review run over the ledger.
type Session struct {
	store           *ledger.Store
	cache           *clip.Cache
	player          player.Player
	opener          player.Opener
	journal         *journal.Store
	prompter        Prompter
	logger          *slog.Logger
	out             io.Writer
	transcribedRoot string
	ffmpegBinary    string
	playbackSpeed   float64
	audioExtensions []string

	revisit bool
}

// New validates the options and builds a session.
func New(opts Options) (*Session, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New("review session: ledger store is required")
	case opts.Cache == nil:
		return nil, errors.New("review session: clip cache is required")
	case opts.Player == nil:
		return nil, errors.New("review session: player is required")
	case opts.Prompter == nil:
		return nil, errors.New("review session: prompter is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	opener := opts.Opener
	if opener == nil {
		opener = player.SystemOpener{}
	}
	speed := opts.PlaybackSpeed
	if speed == 0 {
		speed = 1.5
	}
	return &Session{
		store:           opts.Store,
		cache:           opts.Cache,
		player:          opts.Player,
		opener:          opener,
		journal:         opts.Journal,
		prompter:        opts.Prompter,
		logger:          logger,
		out:             out,
		transcribedRoot: opts.TranscribedRoot,
		ffmpegBinary:    opts.FFmpegBinary,
		playbackSpeed:   speed,
		audioExtensions: opts.AudioExtensions,
	}, nil
}

// Run traverses the ledger rows by ascending confidence, reviews each one,
// and returns the mutated ledger. The ledger is persisted after every
// terminal action and once more on exit; the scratch clip is removed when
// the session ends.
func (s *Session) Run(ctx context.Context, rows []segment.Segment) ([]segment.Segment, error) {
	out := make([]segment.Segment, len(rows))
	copy(out, rows)

	labeled := 0
	for _, seg := range out {
		if seg.Labeled() {
			labeled++
		}
	}
	fmt.Fprintf(s.out, "%d labeled segments out of %d.\n", labeled, len(out))

	s.revisit = false
	if labeled > 0 {
		answer, err := s.prompter.Confirm("Revisit previous labels? (y/n, default n): ")
		if err != nil {
			return out, fmt.Errorf("read revisit choice: %w", err)
		}
		s.revisit = answer
	}

	defer s.cache.CleanupScratch()

	order := traversalOrder(out)
	for pos, idx := range order {
		if !s.revisit && out[idx].Labeled() {
			continue
		}
		quit, err := s.reviewRow(ctx, out, idx, pos+1, len(order))
		if err != nil {
			if saveErr := s.store.Save(out); saveErr != nil {
				s.logger.Error("final save failed", "error", saveErr)
			}
			return out, err
		}
		if quit {
			break
		}
	}

	if err := s.store.Save(out); err != nil {
		return out, fmt.Errorf("save ledger: %w", err)
	}
	return out, nil
}

// traversalOrder returns row indices sorted by ascending confidence, so the
// least confident transcriptions are reviewed first.
func traversalOrder(rows []segment.Segment) []int {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rows[order[a]].Confidence < rows[order[b]].Confidence
	})
	return order
}

// reviewRow runs the per-row protocol. It reports quit=true when the
// reviewer ended the whole session; errors are reserved for persistence
// and input-stream failures that must end the session.
func (s *Session) reviewRow(ctx context.Context, rows []segment.Segment, idx, position, total int) (bool, error) {
	row := rows[idx]

	folder := filepath.Join(s.transcribedRoot, row.RecordingID)
	audio := clip.ResolveAudio(folder, row.RecordingID, s.audioExtensions)
	if audio == "" {
		s.logger.Warn("audio file missing", "recording", row.RecordingID)
		fmt.Fprintf(s.out, "Audio file missing for %s\n", row.RecordingID)
		return false, nil
	}

	scratch := s.cache.ScratchPath()
	if err := clip.Extract(ctx, s.ffmpegBinary, audio, scratch, row.Start, row.End); err != nil {
		s.logger.Warn("clip extraction failed",
			"recording", row.RecordingID, "sequence", row.SequenceID, "error", err)
		fmt.Fprintf(s.out, "Could not extract audio for %s segment %d\n", row.RecordingID, row.SequenceID)
		return false, nil
	}

	s.presentRow(row, position, total)

	played := true
	if err := s.player.Play(ctx, scratch, s.playbackSpeed); err != nil {
		played = false
		s.logger.Warn("playback failed",
			"recording", row.RecordingID, "sequence", row.SequenceID, "error", err)
		fmt.Fprintln(s.out, "Playback failed; segment will be marked inaudible.")
	}

	for {
		action, err := s.nextAction(played)
		if err != nil {
			if errors.Is(err, ErrUnknownAction) || errors.Is(err, ErrAmbiguousAction) {
				fmt.Fprintf(s.out, "Input not recognized (%s): %v\n", actionPrompt(), err)
				continue
			}
			return false, err
		}

		switch action {
		case ActionAccept:
			prev := row.Label
			if !row.Labeled() {
				row.Label = row.Text
			}
			if prev != "" && prev != row.Text {
				fmt.Fprintf(s.out, "Confirmed labeled transcription %s: %s\n", row.UID, row.Label)
			} else {
				fmt.Fprintf(s.out, "Accepted transcription %s\n", row.UID)
			}
			return false, s.commitRow(ctx, rows, idx, row, ActionAccept, prev)

		case ActionReplay:
			if err := s.player.Play(ctx, scratch, 1.0); err != nil {
				s.logger.Warn("replay failed", "error", err)
			}

		case ActionContext:
			s.showContext(ctx, rows, row, audio)

		case ActionInaudible:
			prev := row.Label
			row.Label = segment.LabelInaudible
			fmt.Fprintf(s.out, "Labeled transcription %s as inaudible\n", row.UID)
			return false, s.commitRow(ctx, rows, idx, row, ActionInaudible, prev)

		case ActionLabel:
			entered, err := s.prompter.Label(row.Text)
			if err != nil {
				return false, fmt.Errorf("read label: %w", err)
			}
			normalized := textutil.NormalizeLabel(entered)
			if normalized == "" {
				fmt.Fprintln(s.out, "Empty label discarded.")
				continue
			}
			prev := row.Label
			row.Label = normalized
			switch {
			case normalized == row.Text:
				fmt.Fprintf(s.out, "Accepted transcription %s\n", row.UID)
			case prev == normalized:
				fmt.Fprintf(s.out, "Confirmed labeled transcription %s: %s\n", row.UID, normalized)
			default:
				fmt.Fprintf(s.out, "Labeled transcription %s: %s\n", row.UID, normalized)
			}
			return false, s.commitRow(ctx, rows, idx, row, ActionLabel, prev)

		case ActionSave:
			if err := s.store.Save(rows); err != nil {
				return false, fmt.Errorf("save ledger: %w", err)
			}
			fmt.Fprintf(s.out, "Saved ledger: %s\n", s.store.Path())

		case ActionSkip:
			prev := row.Label
			row.Label = segment.LabelSkipped
			fmt.Fprintf(s.out, "Skipped transcription %s\n", row.UID)
			return false, s.commitRow(ctx, rows, idx, row, ActionSkip, prev)

		case ActionQuit:
			return true, nil
		}
	}
}

// commitRow finishes a terminal action: the clip becomes durable under the
// row's uid, the mutated row is written back, the decision is journaled,
// and the ledger is checkpointed.
func (s *Session) commitRow(ctx context.Context, rows []segment.Segment, idx int, row segment.Segment, action Action, prevLabel string) error {
	if err := s.cache.Commit(row.UID); err != nil {
		s.logger.Warn("clip commit failed", "uid", row.UID, "error", err)
	}
	rows[idx] = row

	if s.journal != nil {
		decision := journal.Decision{
			UID:         row.UID,
			RecordingID: row.RecordingID,
			SequenceID:  row.SequenceID,
			Action:      string(action),
			PrevLabel:   prevLabel,
			NewLabel:    row.Label,
		}
		if err := s.journal.Record(ctx, decision); err != nil {
			s.logger.Warn("journal write failed", "uid", row.UID, "error", err)
		}
	}

	if err := s.store.Save(rows); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *Session) nextAction(played bool) (Action, error) {
	if !played {
		return ActionInaudible, nil
	}
	input, err := s.prompter.Action(fmt.Sprintf("Action (%s): ", actionPrompt()))
	if err != nil {
		return "", fmt.Errorf("read action: %w", err)
	}
	if strings.TrimSpace(input) == "" {
		return ActionAccept, nil
	}
	return ResolveAction(input)
}

func (s *Session) presentRow(row segment.Segment, position, total int) {
	fmt.Fprintf(s.out, "Segment %d of %d: (%.3f) [%s] in %s\n",
		position, total, row.Confidence, row.TimeRange(), row.RecordingID)
	fmt.Fprintf(s.out, "Transcription: %s\n", row.Text)
	if row.Labeled() {
		similarity := textutil.Similarity(row.Text, row.Label)
		fmt.Fprintf(s.out, "Label (%.2f):  %s\n", similarity, row.Label)
	}
}

// showContext prints the neighboring segments of the same recording and
// opens an extended clip spanning all three in the system player so the
// reviewer can scrub through it.
func (s *Session) showContext(ctx context.Context, rows []segment.Segment, row segment.Segment, audio string) {
	prev, hasPrev := findByKey(rows, row.RecordingID, row.SequenceID-1)
	next, hasNext := findByKey(rows, row.RecordingID, row.SequenceID+1)
	if hasPrev {
		s.printContextRow(prev)
	}
	s.printContextRow(row)
	if hasNext {
		s.printContextRow(next)
	}

	// Missing neighbors fall back to the current row's own bounds.
	first := textutil.Ternary(hasPrev, prev, row)
	last := textutil.Ternary(hasNext, next, row)
	start := min(row.Start, first.Start)
	end := max(row.End, last.End)

	contextClip := s.cache.ContextPath()
	if err := clip.Extract(ctx, s.ffmpegBinary, audio, contextClip, start, end); err != nil {
		s.logger.Warn("context clip extraction failed", "recording", row.RecordingID, "error", err)
		return
	}
	if err := s.opener.Open(ctx, contextClip); err != nil {
		s.logger.Warn("context clip open failed", "error", err)
	}
}

func (s *Session) printContextRow(row segment.Segment) {
	fmt.Fprintf(s.out, "%d. (%.3f) [%s]: %s %s\n",
		row.SequenceID, row.Confidence, row.TimeRange(), row.DisplayState(), row.DisplayText())
}

func findByKey(rows []segment.Segment, recordingID string, sequenceID int) (segment.Segment, bool) {
	for _, seg := range rows {
		if seg.RecordingID == recordingID && seg.SequenceID == sequenceID {
			return seg, true
		}
	}
	return segment.Segment{}, false
}
