// Package dispatcher runs session commands end to end: it fetches the
// manifest for the session's ref, serializes work per session, loads or
// creates the session state, runs the command's handler and persists the
// result.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/arthur-debert/packstate/pkg/conflicts"
	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/handlers"
	"github.com/arthur-debert/packstate/pkg/installed"
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
	"github.com/arthur-debert/packstate/pkg/store"
)

// CommandType represents the session command being executed
type CommandType string

const (
	CommandInit          CommandType = handlers.InitCommand
	CommandClear         CommandType = handlers.ClearCommand
	CommandSetPackAction CommandType = handlers.SetPackActionCommand
	CommandSetPageTitle  CommandType = handlers.SetPageTitleCommand
)

// Options wires the dispatcher to its collaborators
type Options struct {
	RefID  string
	UserID string

	Manifests manifest.Source
	Store     store.Store
	// Installed may be nil when nothing is installed anywhere
	Installed installed.Registry
	// Checker overrides conflict detection against existing content. When
	// nil and Installed is set, titles of installed pages are used.
	Checker conflicts.ExistenceChecker
	// Locker serializes sessions; nil gives the dispatcher its own
	Locker *store.Locker
}

// Outcome is the result of a dispatched command
type Outcome struct {
	State    *session.State
	Warnings []string
	// Saved is true when the state was persisted
	Saved bool
	// Rebuilt is true when no usable stored session existed and a fresh one
	// was built before running the command
	Rebuilt bool
}

// Dispatcher runs commands for one (ref, user) session
type Dispatcher struct {
	opts   Options
	locker *store.Locker
}

// New creates a dispatcher
func New(opts Options) (*Dispatcher, error) {
	if opts.RefID == "" || opts.UserID == "" {
		return nil, errors.New(errors.ErrInvalidInput, "dispatcher needs a ref and a user")
	}
	if opts.Manifests == nil || opts.Store == nil {
		return nil, errors.New(errors.ErrInvalidInput, "dispatcher needs a manifest source and a store")
	}
	locker := opts.Locker
	if locker == nil {
		locker = &store.Locker{}
	}
	return &Dispatcher{opts: opts, locker: locker}, nil
}

// Key returns the session key the dispatcher works on
func (d *Dispatcher) Key() store.Key {
	return store.Key{RefID: d.opts.RefID, UserID: d.opts.UserID}
}

// Dispatch runs a command. Nothing is saved when the handler fails.
func (d *Dispatcher) Dispatch(ctx context.Context, cmdType CommandType, data map[string]interface{}) (*Outcome, error) {
	logger := logging.ForSession("dispatcher", d.opts.RefID, d.opts.UserID)
	logger.Debug().
		Str("command", string(cmdType)).
		Interface("data", data).
		Msg("Dispatching session command")
	done := logging.LogOperationStart(logger, string(cmdType))
	defer done()

	h, err := handlers.Lookup(string(cmdType))
	if err != nil {
		return nil, err
	}

	idx, err := d.opts.Manifests.Fetch(ctx, d.opts.RefID)
	if err != nil {
		return nil, err
	}

	unlock, err := d.locker.Lock(ctx, d.Key())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStore, "waiting for session %s", d.Key())
	}
	defer unlock()

	hctx := d.handlerContext()

	// init and clear build their own state; they only need what is stored
	buildMissing := cmdType != CommandInit && cmdType != CommandClear
	st, warnings, rebuilt, err := d.load(ctx, idx, hctx, buildMissing)
	if err != nil {
		return nil, err
	}

	res, err := h.Handle(ctx, st, idx, data, hctx)
	if err != nil {
		logger.Debug().Err(err).Str("command", string(cmdType)).Msg("Command rejected")
		return nil, err
	}

	out := &Outcome{
		State:    res.State,
		Warnings: make([]string, 0, len(warnings)+len(res.Warnings)),
		Rebuilt:  rebuilt,
	}
	out.Warnings = append(append(out.Warnings, warnings...), res.Warnings...)
	if res.Save {
		if err := d.opts.Store.Save(ctx, res.State); err != nil {
			return nil, err
		}
		out.Saved = true
	}
	return out, nil
}

// Status returns the current session without changing anything. A missing
// or stale session is reported as the fresh state a command would start
// from.
func (d *Dispatcher) Status(ctx context.Context) (*Outcome, error) {
	idx, err := d.opts.Manifests.Fetch(ctx, d.opts.RefID)
	if err != nil {
		return nil, err
	}

	unlock, err := d.locker.Lock(ctx, d.Key())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStore, "waiting for session %s", d.Key())
	}
	defer unlock()

	st, warnings, rebuilt, err := d.load(ctx, idx, d.handlerContext(), true)
	if err != nil {
		return nil, err
	}
	if warnings == nil {
		warnings = []string{}
	}
	return &Outcome{State: st, Warnings: warnings, Rebuilt: rebuilt}, nil
}

// Manifest returns the manifest the session works against
func (d *Dispatcher) Manifest(ctx context.Context) (*manifest.Index, error) {
	return d.opts.Manifests.Fetch(ctx, d.opts.RefID)
}

func (d *Dispatcher) handlerContext() handlers.Context {
	hctx := handlers.Context{
		RefID:     d.opts.RefID,
		UserID:    d.opts.UserID,
		Installed: d.opts.Installed,
		Checker:   d.opts.Checker,
	}
	if hctx.Checker == nil && d.opts.Installed != nil {
		hctx.Checker = installed.NewTitleChecker(d.opts.Installed, d.opts.RefID)
	}
	return hctx
}

// load returns the stored session. A session built from another manifest
// snapshot is replaced by a fresh one, with a warning. A missing session is
// built fresh when buildMissing is set and returned as nil otherwise.
func (d *Dispatcher) load(ctx context.Context, idx *manifest.Index, hctx handlers.Context, buildMissing bool) (*session.State, []string, bool, error) {
	logger := logging.ForSession("dispatcher", d.opts.RefID, d.opts.UserID)

	st, err := d.opts.Store.Load(ctx, d.Key())
	switch {
	case errors.IsErrorCode(err, errors.ErrNotFound):
		if !buildMissing {
			return nil, nil, false, nil
		}
		fresh, err := handlers.FreshState(ctx, idx, hctx)
		if err != nil {
			return nil, nil, false, err
		}
		logger.Debug().Str("session", fresh.SessionID).Msg("No stored session, starting fresh")
		return fresh, nil, true, nil

	case err != nil:
		return nil, nil, false, err
	}

	if !session.Stale(st, idx) {
		return st, nil, false, nil
	}

	fresh, err := handlers.FreshState(ctx, idx, hctx)
	if err != nil {
		return nil, nil, false, err
	}
	fresh.SessionID = st.SessionID
	warning := fmt.Sprintf("Manifest for '%s' changed; session was rebuilt", d.opts.RefID)
	if pending := st.PacksWithActions(); len(pending) > 0 {
		warning = fmt.Sprintf("Manifest for '%s' changed; session was rebuilt and %d pending action(s) discarded",
			d.opts.RefID, len(pending))
	}
	logger.Info().Strs("discarded", st.PacksWithActions()).Msg("Manifest changed, session rebuilt")
	return fresh, []string{warning}, true, nil
}
