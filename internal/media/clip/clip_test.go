package clip_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/media/clip"
	"scribe/internal/testsupport"
)

func TestResolveAudioFirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sermonA.wav", "sermonA.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	got := clip.ResolveAudio(dir, "sermonA", []string{"mp3", "m4a", "wav", "flac"})
	if got != filepath.Join(dir, "sermonA.mp3") {
		t.Errorf("ResolveAudio = %q, want mp3 (first listed extension)", got)
	}
}

func TestResolveAudioMissing(t *testing.T) {
	if got := clip.ResolveAudio(t.TempDir(), "sermonA", []string{"mp3", "wav"}); got != "" {
		t.Errorf("ResolveAudio = %q, want empty for missing audio", got)
	}
}

func TestExtractRejectsInvalidRange(t *testing.T) {
	err := clip.Extract(context.Background(), "ffmpeg", "in.mp3", "out.mp3", 5, 5)
	if err == nil {
		t.Fatal("expected error for empty range")
	}
	err = clip.Extract(context.Background(), "ffmpeg", "in.mp3", "out.mp3", -1, 4)
	if err == nil {
		t.Fatal("expected error for negative start")
	}
}

func TestExtractRunsFFmpeg(t *testing.T) {
	base := t.TempDir()
	testsupport.StubBinary(t, base, "ffmpeg", "#!/bin/sh\nfor last; do :; done\n: > \"$last\"\nexit 0\n")

	dest := filepath.Join(base, "out.mp3")
	if err := clip.Extract(context.Background(), "ffmpeg", "in.mp3", dest, 0, 5); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("expected output clip: %v", err)
	}
}

func TestExtractReportsFFmpegFailure(t *testing.T) {
	base := t.TempDir()
	testsupport.StubBinary(t, base, "ffmpeg", "#!/bin/sh\necho 'no such file' >&2\nexit 1\n")

	err := clip.Extract(context.Background(), "ffmpeg", "in.mp3", filepath.Join(base, "out.mp3"), 0, 5)
	if err == nil {
		t.Fatal("expected extraction failure")
	}
}

func TestCommitAtMostOnce(t *testing.T) {
	cache := clip.NewCache(t.TempDir(), "mp3")
	uid := "d43bd971-5d5c-5762-abb7-35c85cfe223f"

	if err := os.WriteFile(cache.ScratchPath(), []byte("first"), 0o644); err != nil {
		t.Fatalf("write scratch: %v", err)
	}
	if err := cache.Commit(uid); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if !cache.HasCommitted(uid) {
		t.Fatal("expected committed clip")
	}
	if _, err := os.Stat(cache.ScratchPath()); !os.IsNotExist(err) {
		t.Error("expected scratch clip moved, not copied")
	}

	// A second commit for the same uid must not overwrite the first clip.
	if err := os.WriteFile(cache.ScratchPath(), []byte("second"), 0o644); err != nil {
		t.Fatalf("write scratch: %v", err)
	}
	if err := cache.Commit(uid); err != nil {
		t.Fatalf("second Commit failed: %v", err)
	}
	data, err := os.ReadFile(cache.CommittedPath(uid))
	if err != nil {
		t.Fatalf("read committed clip: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("committed clip overwritten: %q", data)
	}
}

func TestCleanupScratch(t *testing.T) {
	cache := clip.NewCache(t.TempDir(), "mp3")
	for _, path := range []string{cache.ScratchPath(), cache.ContextPath()} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	cache.CleanupScratch()

	for _, path := range []string{cache.ScratchPath(), cache.ContextPath()} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("expected %s removed", path)
		}
	}
	// Cleanup with nothing present is fine.
	cache.CleanupScratch()
}
