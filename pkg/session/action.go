package session

import "fmt"

// ActionKind is the pending operation for a pack
type ActionKind string

const (
	ActionUnchanged ActionKind = "unchanged"
	ActionInstall   ActionKind = "install"
	ActionUpdate    ActionKind = "update"
	ActionRemove    ActionKind = "remove"
)

// ActionKinds lists every valid kind
var ActionKinds = []ActionKind{ActionInstall, ActionUpdate, ActionRemove, ActionUnchanged}

// ParseActionKind converts a wire value into an ActionKind
func ParseActionKind(s string) (ActionKind, error) {
	for _, kind := range ActionKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("invalid action '%s'", s)
}

// AddsContent reports whether the action places pages (install or update)
func (k ActionKind) AddsContent() bool {
	return k == ActionInstall || k == ActionUpdate
}

// Action is a pack's pending operation together with who chose it. The zero
// value is unchanged. An automatic action always has a kind other than
// unchanged.
type Action struct {
	kind   ActionKind
	auto   bool
	reason string
}

// Unchanged returns the no-op action
func Unchanged() Action {
	return Action{}
}

// Manual returns an action chosen explicitly by the user
func Manual(kind ActionKind) Action {
	if kind == ActionUnchanged || kind == "" {
		return Action{}
	}
	return Action{kind: kind}
}

// Auto returns an action chosen by the engine with a human-readable reason.
// Auto(ActionUnchanged, ...) is Unchanged().
func Auto(kind ActionKind, reason string) Action {
	if kind == ActionUnchanged || kind == "" {
		return Action{}
	}
	return Action{kind: kind, auto: true, reason: reason}
}

// Kind returns the action kind
func (a Action) Kind() ActionKind {
	if a.kind == "" {
		return ActionUnchanged
	}
	return a.kind
}

// IsUnchanged reports whether no operation is pending
func (a Action) IsUnchanged() bool {
	return a.Kind() == ActionUnchanged
}

// IsAuto reports whether the engine chose this action
func (a Action) IsAuto() bool {
	return a.auto
}

// IsManual reports whether the user explicitly chose a non-unchanged action
func (a Action) IsManual() bool {
	return !a.IsUnchanged() && !a.auto
}

// AutoReason returns the reason for an automatic action
func (a Action) AutoReason() (string, bool) {
	return a.reason, a.auto
}

func (a Action) String() string {
	if a.auto {
		return fmt.Sprintf("%s (auto: %s)", a.Kind(), a.reason)
	}
	return string(a.Kind())
}
