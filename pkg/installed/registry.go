package installed

import (
	"context"
	"sync"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
)

// Pack is an installed pack
type Pack struct {
	ID      string `toml:"id" json:"id"`
	Name    string `toml:"name" json:"name"`
	Version string `toml:"version" json:"version"`
}

// Page is an installed page of a pack
type Page struct {
	Name       string `toml:"name" json:"name"`
	FinalTitle string `toml:"final_title" json:"final_title"`
}

// Registry lists installed content
type Registry interface {
	// ListPacksByRef returns the packs installed from a ref
	ListPacksByRef(ctx context.Context, refID string) ([]Pack, error)

	// ListPagesByPack returns the installed pages of a pack
	ListPagesByPack(ctx context.Context, packID string) ([]Page, error)
}

// Snapshot collects what a fresh session needs from the registry: installed
// version by pack name, and installed final title by pack then page name.
func Snapshot(ctx context.Context, reg Registry, refID string) (map[string]string, map[string]map[string]string, error) {
	logger := logging.GetLogger("installed.snapshot").With().Str("ref", refID).Logger()

	packs, err := reg.ListPacksByRef(ctx, refID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrRegistry, "failed to list installed packs for ref '%s'", refID)
	}

	versions := make(map[string]string, len(packs))
	pages := make(map[string]map[string]string, len(packs))
	for _, p := range packs {
		versions[p.Name] = p.Version

		installedPages, err := reg.ListPagesByPack(ctx, p.ID)
		if err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrRegistry, "failed to list installed pages for pack '%s'", p.Name)
		}
		titles := make(map[string]string, len(installedPages))
		for _, page := range installedPages {
			titles[page.Name] = page.FinalTitle
		}
		pages[p.Name] = titles
	}

	logger.Debug().Int("packs", len(packs)).Msg("Loaded installed snapshot")
	return versions, pages, nil
}

type memoryPack struct {
	pack  Pack
	pages []Page
}

// Memory is an in-process Registry
type Memory struct {
	mu    sync.RWMutex
	refs  map[string][]string
	packs map[string]memoryPack
}

// NewMemory creates an empty in-memory registry
func NewMemory() *Memory {
	return &Memory{
		refs:  make(map[string][]string),
		packs: make(map[string]memoryPack),
	}
}

// Add records an installed pack for a ref. An empty pack ID defaults to
// "<ref>:<name>".
func (m *Memory) Add(refID string, pack Pack, pages ...Page) {
	if pack.ID == "" {
		pack.ID = refID + ":" + pack.Name
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.packs[pack.ID]; !exists {
		m.refs[refID] = append(m.refs[refID], pack.ID)
	}
	m.packs[pack.ID] = memoryPack{pack: pack, pages: append([]Page(nil), pages...)}
}

// ListPacksByRef implements Registry
func (m *Memory) ListPacksByRef(ctx context.Context, refID string) ([]Pack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	packs := make([]Pack, 0, len(m.refs[refID]))
	for _, id := range m.refs[refID] {
		packs = append(packs, m.packs[id].pack)
	}
	return packs, nil
}

// ListPagesByPack implements Registry
func (m *Memory) ListPagesByPack(ctx context.Context, packID string) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.packs[packID]
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "installed pack '%s' not found", packID)
	}
	return append([]Page(nil), entry.pages...), nil
}
