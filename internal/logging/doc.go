// Package logging constructs the slog loggers used across scribe.
//
// Two output formats are supported: a human-oriented console format used
// during interactive review (timestamp, level, component, message, indented
// attrs) and a JSON format for machine consumption. Output always goes to
// stderr so review prompts on stdout stay clean, plus an append-only log
// file under the configured log directory.
package logging
