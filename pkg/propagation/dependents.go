package propagation

import (
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// FindPacksDependingOn returns the packs that declare a dependency on
// packName and currently carry any action. A pack with such dependents
// cannot be reset to unchanged.
func FindPacksDependingOn(st *session.State, idx *manifest.Index, packName string) []string {
	var dependents []string
	for _, name := range st.PacksWithActions() {
		if name == packName {
			continue
		}
		if idx.DeclaresDependency(name, packName) {
			dependents = append(dependents, name)
		}
	}
	return dependents
}

// FindInstalledPacksDependingOn returns installed packs that declare a
// dependency on packName and are not already marked for removal or update.
// A pack with such dependents cannot be removed or updated.
func FindInstalledPacksDependingOn(st *session.State, idx *manifest.Index, packName string) []string {
	var dependents []string
	for _, p := range st.Packs() {
		if p.Name == packName || !p.Installed {
			continue
		}
		switch p.Action.Kind() {
		case session.ActionRemove, session.ActionUpdate:
			continue
		}
		if idx.DeclaresDependency(p.Name, packName) {
			dependents = append(dependents, p.Name)
		}
	}
	return dependents
}
