package session

import (
	"fmt"
	"strings"
)

// Action is a user command that the presentation layer dispatches.
type Action int

const (
	ActionNext Action = iota + 1
	ActionPrev
	ActionUndo
	ActionRedo
	ActionResetCrop
	ActionResetZoom
)

var actionNames = map[Action]string{
	ActionNext:      "next",
	ActionPrev:      "prev",
	ActionUndo:      "undo",
	ActionRedo:      "redo",
	ActionResetCrop: "reset-crop",
	ActionResetZoom: "reset-zoom",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction maps an action name such as "next" or "reset-crop" to an Action.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// ShortcutAction maps the keyboard shortcuts j, k, u and r.
func ShortcutAction(key string) (Action, bool) {
	switch key {
	case "j":
		return ActionPrev, true
	case "k":
		return ActionNext, true
	case "u":
		return ActionUndo, true
	case "r":
		return ActionRedo, true
	}
	return 0, false
}

// Dispatch runs a single action against the session.
func (s *Session) Dispatch(a Action) error {
	switch a {
	case ActionNext:
		return s.Navigate(Forward)
	case ActionPrev:
		return s.Navigate(Backward)
	case ActionUndo:
		_, err := s.Undo()
		return err
	case ActionRedo:
		_, err := s.Redo()
		return err
	case ActionResetCrop:
		return s.ResetCrop()
	case ActionResetZoom:
		s.ResetZoom()
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnknownAction, a)
}
