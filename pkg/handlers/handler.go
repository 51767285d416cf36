package handlers

import (
	"context"

	"github.com/arthur-debert/packstate/pkg/conflicts"
	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/installed"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/registry"
	"github.com/arthur-debert/packstate/pkg/session"
)

// Context carries the session identity and the collaborators a handler may
// consult
type Context struct {
	RefID  string
	UserID string

	// Installed lists installed packs and pages. Nil means nothing is
	// installed.
	Installed installed.Registry

	// Checker reports titles taken by existing content. Nil disables that
	// part of conflict detection.
	Checker conflicts.ExistenceChecker
}

// Result is the outcome of a successful command
type Result struct {
	State    *session.State
	Warnings []string
	// Save tells the store the state must be persisted
	Save bool
}

// Handler processes one command against a session
type Handler interface {
	// Command returns the command name the handler answers to
	Command() string

	// Handle validates data and returns the resulting state. It never
	// mutates st.
	Handle(ctx context.Context, st *session.State, idx *manifest.Index, data map[string]interface{}, hctx Context) (*Result, error)
}

var handlerRegistry = registry.New[Handler]()

// Register adds a handler under its command name
func Register(h Handler) error {
	return handlerRegistry.Register(h.Command(), h)
}

// Lookup returns the handler for a command
func Lookup(command string) (Handler, error) {
	h, ok := handlerRegistry.Lookup(command)
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownCommand, "unknown command '%s'", command).
			WithDetail("available", handlerRegistry.List())
	}
	return h, nil
}

// Commands lists the registered command names
func Commands() []string {
	return handlerRegistry.List()
}

func init() {
	registry.MustRegister[Handler](handlerRegistry, SetPackActionCommand, SetPackAction{})
	registry.MustRegister[Handler](handlerRegistry, SetPageTitleCommand, SetPageTitle{})
	registry.MustRegister[Handler](handlerRegistry, InitCommand, Init{})
	registry.MustRegister[Handler](handlerRegistry, ClearCommand, Clear{})
}

func result(st *session.State, warnings []string) *Result {
	if warnings == nil {
		warnings = []string{}
	}
	return &Result{State: st, Warnings: warnings, Save: true}
}
