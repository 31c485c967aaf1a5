package segment

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Sentinel labels a reviewer can assign instead of transcript text.
const (
	LabelInaudible = "<inaudible>"
	LabelSkipped   = "[skipped]"
)

// Segment is one transcribed span of a recording: a time range, the
// machine transcript, the transcriber's confidence, and the reviewer's
// label once one has been assigned.
type Segment struct {
	RecordingID string
	SequenceID  int
	UID         string
	Start       float64
	End         float64
	Text        string
	Confidence  float64
	Label       string
}

// Key identifies a segment within the ledger. SequenceID is unique only
// within a recording, so the pair is the merge key.
type Key struct {
	RecordingID string
	SequenceID  int
}

// Key returns the segment's ledger merge key.
func (s Segment) Key() Key {
	return Key{RecordingID: s.RecordingID, SequenceID: s.SequenceID}
}

// Labeled reports whether the segment has been through review.
func (s Segment) Labeled() bool {
	return s.Label != ""
}

// TimeRange formats the segment's span for display.
func (s Segment) TimeRange() string {
	return fmt.Sprintf("%.2fs -> %.2fs", s.Start, s.End)
}

// NewUID derives the stable clip-cache identifier for a segment. It is a
// pure function of the recording id and sequence id: a SHA-1 UUID (version
// 5) over the DNS namespace, so the same segment maps to the same clip file
// across runs and machines, and existing caches built by earlier versions
// of the pipeline remain valid.
func NewUID(recordingID string, sequenceID int) string {
	name := recordingID + " " + strconv.Itoa(sequenceID)
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(name)).String()
}
