package propagation

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// RequiredAction returns the action a pack needs to satisfy a dependent:
// install when absent, update when behind the target version, otherwise
// unchanged.
func RequiredAction(p *session.PackState) session.ActionKind {
	switch {
	case p.CurrentVersion == nil:
		return session.ActionInstall
	case p.NeedsUpdate():
		return session.ActionUpdate
	default:
		return session.ActionUnchanged
	}
}

// PropagateDown marks every dependency of packName that is missing or out
// of date with an automatic install or update, recursively. Dependencies
// carrying a manual action are left alone.
func PropagateDown(st *session.State, idx *manifest.Index, packName string, action session.ActionKind) {
	logger := logging.GetLogger("propagation.down")
	logger.Trace().Str("pack", packName).Str("action", string(action)).Msg("Propagating to dependencies")

	propagateDown(st, idx, packName, map[string]bool{packName: true}, map[string]bool{}, logger)
}

// propagateDown guards cycles with the packs on the current chain. A
// diamond dependency is relabelled by every path that reaches it, the last
// one naming the reason, but its own dependencies are walked only once:
// their reasons name it, however it was reached.
func propagateDown(st *session.State, idx *manifest.Index, packName string, onPath, descended map[string]bool, logger zerolog.Logger) {
	for _, depName := range idx.DependsOn(packName) {
		if onPath[depName] {
			logger.Debug().Str("pack", packName).Str("dependency", depName).Msg("Dependency cycle, not descending")
			continue
		}

		dep, ok := st.Pack(depName)
		if !ok {
			continue
		}
		if dep.Action.IsManual() {
			continue
		}

		required := RequiredAction(dep)
		if required == session.ActionUnchanged {
			continue
		}

		dep.SetAction(session.Auto(required, fmt.Sprintf("Required by %s", packName)))
		logger.Trace().
			Str("pack", depName).
			Str("action", string(required)).
			Str("requiredBy", packName).
			Msg("Auto-selected dependency")

		if descended[depName] {
			continue
		}
		descended[depName] = true
		onPath[depName] = true
		propagateDown(st, idx, depName, onPath, descended, logger)
		delete(onPath, depName)
	}
}

// PropagateRemovalUp marks every installed pack that depends on packName
// for automatic removal, recursively. Dependents carrying a manual action
// and dependents that are not installed are left alone.
func PropagateRemovalUp(st *session.State, idx *manifest.Index, packName string) {
	logger := logging.GetLogger("propagation.up")
	logger.Trace().Str("pack", packName).Msg("Propagating removal to dependents")

	propagateRemovalUp(st, idx, packName, map[string]bool{packName: true}, map[string]bool{}, logger)
}

func propagateRemovalUp(st *session.State, idx *manifest.Index, packName string, onPath, descended map[string]bool, logger zerolog.Logger) {
	for _, otherName := range idx.Dependents(packName) {
		if onPath[otherName] {
			continue
		}

		other, ok := st.Pack(otherName)
		if !ok {
			continue
		}
		if !other.Installed || other.CurrentVersion == nil {
			continue
		}
		if other.Action.IsManual() {
			continue
		}

		other.SetAction(session.Auto(session.ActionRemove,
			fmt.Sprintf("Depends on %s which is being removed", packName)))
		logger.Trace().
			Str("pack", otherName).
			Str("removedDependency", packName).
			Msg("Auto-selected removal")

		if descended[otherName] {
			continue
		}
		descended[otherName] = true
		onPath[otherName] = true
		propagateRemovalUp(st, idx, otherName, onPath, descended, logger)
		delete(onPath, otherName)
	}
}
