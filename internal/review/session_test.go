package review_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/ledger"
	"scribe/internal/media/clip"
	"scribe/internal/review"
	"scribe/internal/segment"
)

type playCall struct {
	path  string
	speed float64
}

type fakePlayer struct {
	calls []playCall
	err   error
}

func (p *fakePlayer) Play(_ context.Context, path string, speed float64) error {
	p.calls = append(p.calls, playCall{path: path, speed: speed})
	return p.err
}

type fakeOpener struct {
	opened []string
}

func (o *fakeOpener) Open(_ context.Context, path string) error {
	o.opened = append(o.opened, path)
	return nil
}

// scriptedPrompter feeds a fixed sequence of answers and fails the test if
// the session asks for more input than the script provides.
type scriptedPrompter struct {
	t        *testing.T
	actions  []string
	labels   []string
	confirms []bool
}

func (p *scriptedPrompter) Action(prompt string) (string, error) {
	p.t.Helper()
	if len(p.actions) == 0 {
		p.t.Fatalf("unexpected action prompt: %s", prompt)
	}
	next := p.actions[0]
	p.actions = p.actions[1:]
	return next, nil
}

func (p *scriptedPrompter) Label(initial string) (string, error) {
	p.t.Helper()
	if len(p.labels) == 0 {
		p.t.Fatalf("unexpected label prompt (initial %q)", initial)
	}
	next := p.labels[0]
	p.labels = p.labels[1:]
	if strings.TrimSpace(next) == "" {
		return initial, nil
	}
	return next, nil
}

func (p *scriptedPrompter) Confirm(prompt string) (bool, error) {
	p.t.Helper()
	if len(p.confirms) == 0 {
		p.t.Fatalf("unexpected confirm prompt: %s", prompt)
	}
	next := p.confirms[0]
	p.confirms = p.confirms[1:]
	return next, nil
}

type sessionEnv struct {
	store  *ledger.Store
	cache  *clip.Cache
	player *fakePlayer
	opener *fakeOpener
	out    *bytes.Buffer
	root   string
	ffmpeg string
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()

	base := t.TempDir()
	qcDir := filepath.Join(base, "qc")
	clipDir := filepath.Join(qcDir, "clips")
	root := filepath.Join(base, "transcribed")
	for _, dir := range []string{qcDir, clipDir, root} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	store, err := ledger.Open(qcDir)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}

	ffmpeg := filepath.Join(base, "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\n: > \"$last\"\nexit 0\n"
	if err := os.WriteFile(ffmpeg, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	return &sessionEnv{
		store:  store,
		cache:  clip.NewCache(clipDir, "mp3"),
		player: &fakePlayer{},
		opener: &fakeOpener{},
		out:    &bytes.Buffer{},
		root:   root,
		ffmpeg: ffmpeg,
	}
}

func (e *sessionEnv) addRecording(t *testing.T, name string) {
	t.Helper()
	dir := filepath.Join(e.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir recording: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".mp3"), []byte("audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
}

func (e *sessionEnv) newSession(t *testing.T, prompter review.Prompter) *review.Session {
	t.Helper()
	session, err := review.New(review.Options{
		Store:           e.store,
		Cache:           e.cache,
		Player:          e.player,
		Opener:          e.opener,
		Prompter:        prompter,
		Out:             e.out,
		TranscribedRoot: e.root,
		FFmpegBinary:    e.ffmpeg,
		PlaybackSpeed:   1.5,
		AudioExtensions: []string{"mp3"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return session
}

func makeRow(recording string, seq int, text string, confidence float64) segment.Segment {
	return segment.Segment{
		RecordingID: recording,
		SequenceID:  seq,
		UID:         segment.NewUID(recording, seq),
		Start:       float64(seq),
		End:         float64(seq) + 1,
		Text:        text,
		Confidence:  confidence,
	}
}

func TestRunAcceptsInConfidenceOrder(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	rows := []segment.Segment{
		makeRow("sermonA", 0, "first text", -0.2),
		makeRow("sermonA", 1, "weak text", -0.9),
	}
	prompter := &scriptedPrompter{t: t, actions: []string{"", ""}}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out[0].Label != "first text" || out[1].Label != "weak text" {
		t.Errorf("labels = %q, %q; want transcripts accepted verbatim", out[0].Label, out[1].Label)
	}

	// The least confident segment must be presented first.
	printed := env.out.String()
	weakAt := strings.Index(printed, "Transcription: weak text")
	firstAt := strings.Index(printed, "Transcription: first text")
	if weakAt == -1 || firstAt == -1 || weakAt > firstAt {
		t.Errorf("expected weak segment before confident one, got:\n%s", printed)
	}

	for _, seg := range out {
		if !env.cache.HasCommitted(seg.UID) {
			t.Errorf("no committed clip for %s", seg.UID)
		}
	}
	if len(env.player.calls) != 2 || env.player.calls[0].speed != 1.5 {
		t.Errorf("player calls = %+v, want two plays at 1.5x", env.player.calls)
	}

	persisted, err := env.store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(persisted) != 2 || persisted[0].Label == "" {
		t.Errorf("persisted ledger = %+v", persisted)
	}
}

func TestRunNormalizesLabelInput(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	rows := []segment.Segment{makeRow("sermonA", 0, "original words", -0.5)}
	prompter := &scriptedPrompter{
		t:       t,
		actions: []string{"label"},
		labels:  []string{"  Fixed \t  text  "},
	}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[0].Label != "Fixed text" {
		t.Errorf("label = %q, want whitespace collapsed", out[0].Label)
	}
	if !strings.Contains(env.out.String(), "Labeled transcription "+out[0].UID) {
		t.Errorf("missing label feedback:\n%s", env.out.String())
	}
}

func TestRunInaudiblePrefix(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	rows := []segment.Segment{makeRow("sermonA", 0, "mumble", -0.8)}
	prompter := &scriptedPrompter{t: t, actions: []string{"inaud"}}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[0].Label != segment.LabelInaudible {
		t.Errorf("label = %q, want %q", out[0].Label, segment.LabelInaudible)
	}
}

func TestRunRejectsAmbiguousPrefix(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	rows := []segment.Segment{makeRow("sermonA", 0, "text", -0.5)}
	prompter := &scriptedPrompter{t: t, actions: []string{"s", "sk"}}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[0].Label != segment.LabelSkipped {
		t.Errorf("label = %q, want %q", out[0].Label, segment.LabelSkipped)
	}
	if !strings.Contains(env.out.String(), "Input not recognized") {
		t.Errorf("expected re-prompt notice in:\n%s", env.out.String())
	}
}

func TestRunQuitStopsTraversalAndSaves(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	rows := []segment.Segment{
		makeRow("sermonA", 0, "one", -0.9),
		makeRow("sermonA", 1, "two", -0.2),
	}
	prompter := &scriptedPrompter{t: t, actions: []string{"q"}}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[0].Label != "" || out[1].Label != "" {
		t.Errorf("quit must not label rows: %+v", out)
	}

	persisted, err := env.store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(persisted) != 2 {
		t.Errorf("ledger not saved on quit: %d rows", len(persisted))
	}
}

func TestRunUnplayableForcesInaudible(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")
	env.player.err = errors.New("no audio device")

	rows := []segment.Segment{makeRow("sermonA", 0, "garbled", -0.7)}
	prompter := &scriptedPrompter{t: t} // no action input allowed
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[0].Label != segment.LabelInaudible {
		t.Errorf("label = %q, want forced inaudible", out[0].Label)
	}
}

func TestRunSkipsLabeledRowsByDefault(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	done := makeRow("sermonA", 0, "reviewed already", -0.9)
	done.Label = "final answer"
	rows := []segment.Segment{done, makeRow("sermonA", 1, "pending", -0.3)}

	prompter := &scriptedPrompter{t: t, confirms: []bool{false}, actions: []string{""}}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[0].Label != "final answer" {
		t.Errorf("labeled row changed to %q", out[0].Label)
	}
	if out[1].Label != "pending" {
		t.Errorf("unlabeled row = %q, want accepted", out[1].Label)
	}
	if len(prompter.actions) != 0 {
		t.Errorf("%d scripted actions unused", len(prompter.actions))
	}
}

func TestRunRevisitReviewsLabeledRows(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	done := makeRow("sermonA", 0, "spoken words", -0.9)
	done.Label = "corrected words"
	rows := []segment.Segment{done, makeRow("sermonA", 1, "pending", -0.3)}

	prompter := &scriptedPrompter{t: t, confirms: []bool{true}, actions: []string{"", ""}}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[0].Label != "corrected words" {
		t.Errorf("accept must keep the existing label, got %q", out[0].Label)
	}
	if !strings.Contains(env.out.String(), "Confirmed labeled transcription") {
		t.Errorf("missing confirmation feedback:\n%s", env.out.String())
	}
}

func TestRunSaveCheckpoint(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	rows := []segment.Segment{makeRow("sermonA", 0, "text", -0.5)}
	prompter := &scriptedPrompter{t: t, actions: []string{"save", ""}}
	session := env.newSession(t, prompter)

	if _, err := session.Run(context.Background(), rows); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Saved ledger") {
		t.Errorf("missing checkpoint feedback:\n%s", env.out.String())
	}
}

func TestRunContextShowsNeighbors(t *testing.T) {
	env := newSessionEnv(t)
	env.addRecording(t, "sermonA")

	before := makeRow("sermonA", 0, "before words", -0.1)
	before.Label = before.Text
	after := makeRow("sermonA", 2, "after words", -0.1)
	after.Label = "different words"
	rows := []segment.Segment{
		before,
		makeRow("sermonA", 1, "middle words", -0.9),
		after,
	}

	prompter := &scriptedPrompter{t: t, confirms: []bool{false}, actions: []string{"context", "a"}}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[1].Label != "middle words" {
		t.Errorf("middle row label = %q", out[1].Label)
	}

	printed := env.out.String()
	for _, want := range []string{"[Accepted] before words", "[Original] middle words", "[Labeled] different words"} {
		if !strings.Contains(printed, want) {
			t.Errorf("context output missing %q:\n%s", want, printed)
		}
	}
	if len(env.opener.opened) != 1 || env.opener.opened[0] != env.cache.ContextPath() {
		t.Errorf("opened = %v, want the context clip", env.opener.opened)
	}
}

func TestRunMissingAudioSkipsRow(t *testing.T) {
	env := newSessionEnv(t)

	rows := []segment.Segment{makeRow("ghost", 0, "text", -0.5)}
	prompter := &scriptedPrompter{t: t}
	session := env.newSession(t, prompter)

	out, err := session.Run(context.Background(), rows)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out[0].Label != "" {
		t.Errorf("row should remain unreviewed, label = %q", out[0].Label)
	}
	if !strings.Contains(env.out.String(), "Audio file missing") {
		t.Errorf("expected missing-audio notice:\n%s", env.out.String())
	}
}
