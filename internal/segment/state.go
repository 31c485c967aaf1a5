package segment

// DisplayState classifies how a segment's text should be presented during
// review: by its original transcript, by a reviewer label that differs from
// it, or as an accepted transcript (label present and identical to the
// text).
type DisplayState int

const (
	StateOriginal DisplayState = iota
	StateLabeled
	StateAccepted
)

// String returns the bracketed tag shown next to a row's text.
func (d DisplayState) String() string {
	switch d {
	case StateAccepted:
		return "[Accepted]"
	case StateLabeled:
		return "[Labeled]"
	default:
		return "[Original]"
	}
}

// DisplayState resolves the presentation state for the segment. Accepted
// takes precedence over Labeled when the label matches the transcript.
func (s Segment) DisplayState() DisplayState {
	switch {
	case s.Label == "":
		return StateOriginal
	case s.Label == s.Text:
		return StateAccepted
	default:
		return StateLabeled
	}
}

// DisplayText returns the text a reviewer should see for the segment: the
// label when one exists, otherwise the original transcript.
func (s Segment) DisplayText() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Text
}
