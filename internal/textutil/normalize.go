package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel canonicalizes reviewer-entered label text for storage in
// the ledger: NFC composition, embedded tabs and line breaks flattened to
// spaces, runs of whitespace collapsed to a single space, and surrounding
// whitespace trimmed. The ledger is a single-line-per-row format, so a
// label must never carry a line break.
func NormalizeLabel(text string) string {
	text = norm.NFC.String(text)
	return strings.Join(strings.Fields(text), " ")
}
