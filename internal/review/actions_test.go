package review_test

import (
	"errors"
	"testing"

	"scribe/internal/review"
)

func TestResolveActionPrefixes(t *testing.T) {
	cases := []struct {
		input string
		want  review.Action
	}{
		{"a", review.ActionAccept},
		{"acc", review.ActionAccept},
		{"accept", review.ActionAccept},
		{"A", review.ActionAccept},
		{"r", review.ActionReplay},
		{"c", review.ActionContext},
		{"con", review.ActionContext},
		{"i", review.ActionInaudible},
		{"inaud", review.ActionInaudible},
		{"l", review.ActionLabel},
		{"sa", review.ActionSave},
		{"save", review.ActionSave},
		{"sk", review.ActionSkip},
		{"skip", review.ActionSkip},
		{"q", review.ActionQuit},
		{"  quit  ", review.ActionQuit},
		{"INAUDIBLE", review.ActionInaudible},
	}
	for _, tc := range cases {
		got, err := review.ResolveAction(tc.input)
		if err != nil {
			t.Errorf("ResolveAction(%q) failed: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ResolveAction(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestResolveActionAmbiguousPrefix(t *testing.T) {
	// "s" is shared by save and skip and must be rejected, not guessed.
	if _, err := review.ResolveAction("s"); !errors.Is(err, review.ErrAmbiguousAction) {
		t.Fatalf("ResolveAction(\"s\") error = %v, want ErrAmbiguousAction", err)
	}
}

func TestResolveActionUnknown(t *testing.T) {
	for _, input := range []string{"", "x", "acceptance", "yes"} {
		if _, err := review.ResolveAction(input); !errors.Is(err, review.ErrUnknownAction) {
			t.Errorf("ResolveAction(%q) error = %v, want ErrUnknownAction", input, err)
		}
	}
}
