package session

import (
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
)

// Build creates a fresh state from a manifest snapshot. installedVersions
// maps pack name to installed version; installedPages maps pack name to
// page name to the page's recorded final title. Installed packs the
// manifest does not define are not represented.
//
// A page without an installed record takes its own name as final title.
func Build(refID, userID string, idx *manifest.Index, installedVersions map[string]string, installedPages map[string]map[string]string) *State {
	logger := logging.ForSession("session.build", refID, userID)

	packs := make([]*PackState, 0, idx.Len())
	for _, def := range idx.Packs() {
		p := &PackState{
			Name:          def.Name,
			TargetVersion: def.Version,
		}
		if version, ok := installedVersions[def.Name]; ok {
			v := version
			p.CurrentVersion = &v
			p.Installed = true
		}
		p.Selected = p.Installed

		recorded := installedPages[def.Name]
		p.Pages = make([]PageState, 0, len(def.Pages))
		for _, page := range def.Pages {
			ps := PageState{Name: page, FinalTitle: page}
			if title, ok := recorded[page]; ok {
				ps.FinalTitle = title
				ps.Installed = true
			}
			p.Pages = append(p.Pages, ps)
		}
		packs = append(packs, p)
	}

	logger.Debug().
		Int("packs", len(packs)).
		Int("installed", len(installedVersions)).
		Msg("Built fresh session state")

	return New(refID, userID, packs...)
}

// Stale reports whether st was built from a different manifest snapshot:
// the pack catalogue, a target version or a pack's page list changed.
func Stale(st *State, idx *manifest.Index) bool {
	if st.Len() != idx.Len() {
		return true
	}
	for _, def := range idx.Packs() {
		p, ok := st.Pack(def.Name)
		if !ok || p.TargetVersion != def.Version || len(p.Pages) != len(def.Pages) {
			return true
		}
		for i, page := range def.Pages {
			if p.Pages[i].Name != page {
				return true
			}
		}
	}
	return false
}
