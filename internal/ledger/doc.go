// Package ledger persists the review ledger: the durable, deduplicated
// table of every transcription segment ever imported, together with
// reviewer labels.
//
// The on-disk format is a flat CSV (qc.csv in the qc directory), UTF-8 and
// human-diffable, sorted by (sequence id, recording id) on every save.
// Saves are atomic: the file is written to a sibling temp path and renamed
// over the previous version, so an interrupted save never corrupts the
// ledger. A flock-based session lock gives one process exclusive ownership
// of the ledger and clip cache for the duration of a command.
package ledger
