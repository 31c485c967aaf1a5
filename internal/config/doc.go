// Package config loads and validates scribe's TOML configuration.
//
// Configuration sections by subsystem:
//   - Paths: recording folders root, qc directory (ledger + clip cache),
//     ingest queue directory, and log directory
//   - Review: playback speed, clip format, accepted audio extensions, and
//     the per-recording segment file name
//   - Tools: ffmpeg/ffprobe/ffplay binary overrides
//   - Logging: log format and level
//
// Load resolves the config path (explicit flag, then
// ~/.config/scribe/config.toml, then ./scribe.toml), applies defaults for
// anything unset, expands ~ in paths, and validates the result.
package config
