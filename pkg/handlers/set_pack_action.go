package handlers

import (
	"context"
	"strings"

	"github.com/arthur-debert/packstate/pkg/conflicts"
	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/propagation"
	"github.com/arthur-debert/packstate/pkg/session"
)

// SetPackActionCommand sets a pack's pending action.
//
// Payload: {"pack_name": "...", "action": "install|update|remove|unchanged"}
const SetPackActionCommand = "set_pack_action"

// SetPackAction records a manual action for a pack and keeps the rest of the
// session consistent with it: install and update pull in dependencies,
// remove cascades to dependents, and unchanged retracts automatic actions
// nothing needs anymore.
type SetPackAction struct{}

func (SetPackAction) Command() string { return SetPackActionCommand }

func (SetPackAction) Handle(ctx context.Context, st *session.State, idx *manifest.Index, data map[string]interface{}, hctx Context) (*Result, error) {
	if err := requireState(st); err != nil {
		return nil, err
	}
	packName, err := requireString(data, "pack_name")
	if err != nil {
		return nil, err
	}
	actionName, err := requireString(data, "action")
	if err != nil {
		return nil, err
	}

	kind, err := session.ParseActionKind(actionName)
	if err != nil {
		return nil, errors.Newf(errors.ErrInvalidRequest,
			"invalid action '%s'. Must be one of: %s", actionName, validActions()).
			WithDetail("action", actionName)
	}

	pack, err := lookupPack(st, idx, packName)
	if err != nil {
		return nil, err
	}

	if err := checkTransition(pack, kind); err != nil {
		return nil, err
	}
	if err := checkDependents(st, idx, pack, kind); err != nil {
		return nil, err
	}

	logger := logging.ForSession("handlers.set_pack_action", st.RefID, st.UserID)

	next := st.Clone()
	next.SetAction(packName, session.Manual(kind))

	var warnings []string
	switch kind {
	case session.ActionInstall, session.ActionUpdate:
		propagation.PropagateDown(next, idx, packName, kind)
		warnings, err = conflicts.NewDetector(hctx.Checker).Detect(ctx, next)
		if err != nil {
			return nil, err
		}
	case session.ActionRemove:
		propagation.PropagateRemovalUp(next, idx, packName)
	case session.ActionUnchanged:
		if retracted := propagation.ClearUnneededAutoActions(next, idx); len(retracted) > 0 {
			logger.Debug().Strs("retracted", retracted).Msg("Retracted automatic actions")
		}
	}

	logger.Info().
		Str("pack", packName).
		Str("action", string(kind)).
		Strs("actioned", next.PacksWithActions()).
		Int("warnings", len(warnings)).
		Msg("Pack action set")

	return result(next, warnings), nil
}

// checkTransition rejects actions that make no sense for the pack's
// installed version
func checkTransition(pack *session.PackState, kind session.ActionKind) error {
	var err *errors.Error
	switch kind {
	case session.ActionInstall:
		if pack.CurrentVersion != nil {
			err = errors.Newf(errors.ErrInvalidRequest,
				"cannot install '%s' - already installed (version %s)", pack.Name, *pack.CurrentVersion)
		}
	case session.ActionUpdate:
		if pack.CurrentVersion == nil {
			err = errors.Newf(errors.ErrInvalidRequest, "cannot update '%s' - not installed", pack.Name)
		} else if *pack.CurrentVersion == pack.TargetVersion {
			err = errors.Newf(errors.ErrInvalidRequest,
				"cannot update '%s' - already at target version (%s)", pack.Name, pack.TargetVersion)
		}
	case session.ActionRemove:
		if pack.CurrentVersion == nil {
			err = errors.Newf(errors.ErrInvalidRequest, "cannot remove '%s' - not installed", pack.Name)
		}
	}
	if err != nil {
		return err.WithDetail("pack", pack.Name).WithDetail("action", string(kind))
	}
	return nil
}

// checkDependents rejects actions that would strand packs depending on this
// one
func checkDependents(st *session.State, idx *manifest.Index, pack *session.PackState, kind session.ActionKind) error {
	switch kind {
	case session.ActionRemove, session.ActionUpdate:
		if pack.CurrentVersion == nil {
			return nil
		}
		dependents := propagation.FindInstalledPacksDependingOn(st, idx, pack.Name)
		if len(dependents) == 0 {
			return nil
		}
		return errors.Newf(errors.ErrConstraintViolation,
			"Cannot %s '%s' - required by installed packs: %s. Please %s those packs first.",
			kind, pack.Name, strings.Join(dependents, ", "), kind).
			WithDetail("pack", pack.Name).
			WithDetail("dependents", dependents)

	case session.ActionUnchanged:
		dependents := propagation.FindPacksDependingOn(st, idx, pack.Name)
		if len(dependents) == 0 {
			return nil
		}
		return errors.Newf(errors.ErrConstraintViolation,
			"Cannot set '%s' to unchanged - required by: %s. Please clear those packs first.",
			pack.Name, strings.Join(dependents, ", ")).
			WithDetail("pack", pack.Name).
			WithDetail("dependents", dependents)
	}
	return nil
}
