package review

import (
	"errors"
	"fmt"
	"strings"
)

// Action is one of the reviewer's per-segment commands.
type Action string

const (
	ActionAccept    Action = "accept"
	ActionReplay    Action = "replay"
	ActionContext   Action = "context"
	ActionInaudible Action = "inaudible"
	ActionLabel     Action = "label"
	ActionSave      Action = "save"
	ActionSkip      Action = "skip"
	ActionQuit      Action = "quit"
)

// actionOrder is the vocabulary in prompt display order.
var actionOrder = []Action{
	ActionAccept,
	ActionReplay,
	ActionContext,
	ActionLabel,
	ActionInaudible,
	ActionSave,
	ActionSkip,
	ActionQuit,
}

var (
	// ErrUnknownAction indicates input matching no action prefix.
	ErrUnknownAction = errors.New("unrecognized action")
	// ErrAmbiguousAction indicates a prefix shared by several actions.
	ErrAmbiguousAction = errors.New("ambiguous action prefix")
)

// ambiguous marks a prefix claimed by more than one action.
const ambiguous = Action("")

// actionTable maps every recognized prefix to its action, resolved once at
// package init rather than via ad hoc prefix checks in the loop. A prefix
// shared by two actions (like "s" for save and skip) maps to ambiguous and
// is rejected explicitly.
var actionTable = buildActionTable()

func buildActionTable() map[string]Action {
	table := make(map[string]Action)
	for _, action := range actionOrder {
		name := string(action)
		for i := 1; i <= len(name); i++ {
			prefix := name[:i]
			if existing, ok := table[prefix]; ok && existing != action {
				table[prefix] = ambiguous
				continue
			}
			table[prefix] = action
		}
	}
	// Full names always win over ambiguity with other actions' prefixes.
	for _, action := range actionOrder {
		table[string(action)] = action
	}
	return table
}

// ResolveAction matches reviewer input against the action vocabulary by
// unique, case-insensitive prefix.
func ResolveAction(input string) (Action, error) {
	cleaned := strings.ToLower(strings.TrimSpace(input))
	if cleaned == "" {
		return "", ErrUnknownAction
	}
	action, ok := actionTable[cleaned]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, cleaned)
	}
	if action == ambiguous {
		return "", fmt.Errorf("%w: %q", ErrAmbiguousAction, cleaned)
	}
	return action, nil
}

// actionPrompt lists the vocabulary shown on every prompt.
func actionPrompt() string {
	names := make([]string, len(actionOrder))
	for i, action := range actionOrder {
		names[i] = string(action)
	}
	return strings.Join(names, "/")
}
