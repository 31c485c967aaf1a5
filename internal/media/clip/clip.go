// Package clip extracts short audio clips from recordings and manages the
// uid-keyed clip cache in the qc directory.
//
// Two kinds of clip exist. The scratch clip is transient: it holds the
// segment currently under review and is overwritten for each new row. A
// committed clip is durable: when a reviewer takes a terminal action, the
// scratch clip is moved to <uid>.<format> in the cache, and that write
// happens at most once per uid. Re-reviewing a segment whose clip already
// exists reuses the cached file instead of re-trimming.
package clip

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"scribe/internal/fileutil"
)

// Extract trims [start, end] (seconds) out of source into dest using
// ffmpeg, overwriting dest. The output format follows dest's extension.
func Extract(ctx context.Context, ffmpegBinary, source, dest string, start, end float64) error {
	if start < 0 || end <= start {
		return fmt.Errorf("extract clip: invalid range [%v, %v]", start, end)
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", source,
		"-vn",
		dest,
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ResolveAudio locates a recording's source audio file: the first
// base.<ext> under folder that exists, probing extensions in order.
// Returns "" when no candidate exists.
func ResolveAudio(folder, base string, extensions []string) string {
	for _, ext := range extensions {
		candidate := filepath.Join(folder, base+"."+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Cache is the uid-keyed clip store for a qc directory.
type Cache struct {
	dir    string
	format string
}

// NewCache creates a cache over the qc directory for the given clip format
// (extension without dot).
func NewCache(dir, format string) *Cache {
	return &Cache{dir: dir, format: format}
}

// ScratchPath returns the path of the transient clip for the row under review.
func (c *Cache) ScratchPath() string {
	return filepath.Join(c.dir, "scratch_clip."+c.format)
}

// ContextPath returns the path of the transient extended-context clip.
func (c *Cache) ContextPath() string {
	return filepath.Join(c.dir, "scratch_context."+c.format)
}

// CommittedPath returns the durable clip path for a segment uid.
func (c *Cache) CommittedPath(uid string) string {
	return filepath.Join(c.dir, uid+"."+c.format)
}

// HasCommitted reports whether a committed clip already exists for uid.
func (c *Cache) HasCommitted(uid string) bool {
	info, err := os.Stat(c.CommittedPath(uid))
	return err == nil && !info.IsDir()
}

// Commit makes the scratch clip durable under uid. When a committed clip
// already exists the scratch file is left alone and nothing is written:
// committed clips are written at most once.
func (c *Cache) Commit(uid string) error {
	if c.HasCommitted(uid) {
		return nil
	}
	if err := fileutil.MoveFile(c.ScratchPath(), c.CommittedPath(uid)); err != nil {
		return fmt.Errorf("commit clip %s: %w", uid, err)
	}
	return nil
}

// CleanupScratch removes any transient clips. Missing files are fine.
func (c *Cache) CleanupScratch() {
	_ = os.Remove(c.ScratchPath())
	_ = os.Remove(c.ContextPath())
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
