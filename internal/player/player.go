// Package player wraps external audio playback for the review session: a
// constrained non-interactive player (ffplay) for per-segment clips, and
// the system default player for context clips the reviewer wants to scrub
// through manually.
package player

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// Player plays an audio file to completion at the given tempo multiplier.
// A failed playback is an ordinary error; the review session treats it as
// "not playable" rather than aborting.
type Player interface {
	Play(ctx context.Context, path string, speed float64) error
}

// Opener hands a file to a full-featured external player for manual
// scrubbing, without waiting for it to finish.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// FFplay plays clips through ffplay without a display window, blocking
// until the clip ends.
type FFplay struct {
	Binary string
}

// Play runs ffplay against the clip. Speeds other than 1.0 go through the
// atempo filter, which preserves pitch; ffplay accepts 0.5-2.0.
func (p FFplay) Play(ctx context.Context, path string, speed float64) error {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = "ffplay"
	}
	args := []string{"-nodisp", "-autoexit", "-hide_banner", "-loglevel", "error"}
	if speed != 1.0 {
		args = append(args, "-af", "atempo="+strconv.FormatFloat(speed, 'f', -1, 64))
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffplay: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// SystemOpener opens files with the operating system's default handler.
type SystemOpener struct{}

// Open launches the system player and returns without waiting for it.
func (SystemOpener) Open(ctx context.Context, path string) error {
	binary := "xdg-open"
	if runtime.GOOS == "darwin" {
		binary = "open"
	}
	cmd := exec.CommandContext(ctx, binary, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	// Detach; the session must not block on the external player.
	go func() { _ = cmd.Wait() }()
	return nil
}
