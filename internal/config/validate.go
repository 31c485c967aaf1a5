package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.TranscribedDir == c.Paths.QCDir {
		return errors.New("paths.qc_dir must differ from paths.transcribed_dir: the importer skips the qc directory by path, not by name")
	}
	return nil
}

func (c *Config) validateReview() error {
	// ffplay's atempo filter accepts 0.5-2.0 per instance; anything outside
	// that range would silently fail playback.
	if c.Review.PlaybackSpeed < 0.5 || c.Review.PlaybackSpeed > 2.0 {
		return fmt.Errorf("review.playback_speed must be between 0.5 and 2.0, got %v", c.Review.PlaybackSpeed)
	}
	switch c.Review.ClipFormat {
	case "mp3", "wav", "m4a", "flac", "ogg":
	default:
		return fmt.Errorf("review.clip_format: unsupported format %q", c.Review.ClipFormat)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
