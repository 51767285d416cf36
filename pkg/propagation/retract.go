package propagation

import (
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// RequiredByManualActions returns the set of packs some manual action still
// needs: the dependency closure of every manual install or update, and the
// dependent closure of every manual removal (the packs its removal cascaded
// to).
func RequiredByManualActions(st *session.State, idx *manifest.Index) map[string]bool {
	required := make(map[string]bool)
	for _, name := range st.ManuallyActioned() {
		p, _ := st.Pack(name)
		for _, dep := range CollectAllDependencies(idx, name) {
			required[dep] = true
		}
		// Keeping the removal cascade goes beyond a dependency-only required
		// set on purpose: without it, any later command would retract the
		// auto removals and leave dependents installed on a removed pack.
		if p.Action.Kind() == session.ActionRemove {
			for _, dependent := range CollectAllDependents(idx, name) {
				required[dependent] = true
			}
		}
	}
	return required
}

// ClearUnneededAutoActions resets every automatic action that no manual
// action still needs back to unchanged. It returns the retracted packs in
// manifest order.
func ClearUnneededAutoActions(st *session.State, idx *manifest.Index) []string {
	logger := logging.GetLogger("propagation.retract")

	required := RequiredByManualActions(st, idx)

	var retracted []string
	for _, name := range st.AutoActioned() {
		if required[name] {
			continue
		}
		st.SetAction(name, session.Unchanged())
		retracted = append(retracted, name)
		logger.Trace().Str("pack", name).Msg("Retracted automatic action")
	}

	if len(retracted) > 0 {
		logger.Debug().Strs("packs", retracted).Msg("Retracted unneeded automatic actions")
	}
	return retracted
}
