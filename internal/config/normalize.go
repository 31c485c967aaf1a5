package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeReview()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TranscribedDir) == "" {
		c.Paths.TranscribedDir = defaultTranscribedDir
	}
	if c.Paths.TranscribedDir, err = expandPath(c.Paths.TranscribedDir); err != nil {
		return fmt.Errorf("paths.transcribed_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.QCDir) == "" {
		c.Paths.QCDir = defaultQCDir
	}
	if c.Paths.QCDir, err = expandPath(c.Paths.QCDir); err != nil {
		return fmt.Errorf("paths.qc_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.QueueDir) == "" {
		c.Paths.QueueDir = defaultQueueDir
	}
	if c.Paths.QueueDir, err = expandPath(c.Paths.QueueDir); err != nil {
		return fmt.Errorf("paths.queue_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeReview() {
	if c.Review.PlaybackSpeed == 0 {
		c.Review.PlaybackSpeed = defaultPlaybackSpeed
	}
	c.Review.ClipFormat = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Review.ClipFormat)), ".")
	if c.Review.ClipFormat == "" {
		c.Review.ClipFormat = defaultClipFormat
	}
	if strings.TrimSpace(c.Review.SegmentFile) == "" {
		c.Review.SegmentFile = defaultSegmentFile
	}
	exts := make([]string, 0, len(c.Review.AudioExtensions))
	for _, ext := range c.Review.AudioExtensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		exts = defaultAudioExtensions()
	}
	c.Review.AudioExtensions = exts
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Tools.FFplay) == "" {
		c.Tools.FFplay = defaultFFplayBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
