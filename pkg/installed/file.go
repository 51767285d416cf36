package installed

import (
	"context"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/arthur-debert/packstate/pkg/errors"
)

type registryFile struct {
	Refs []refEntry `toml:"refs"`
}

type refEntry struct {
	ID    string      `toml:"id"`
	Packs []packEntry `toml:"packs"`
}

type packEntry struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Pages   []Page `toml:"pages"`
}

// FileRegistry is a Registry backed by a TOML file. The file is re-read on
// every call so external installs are picked up.
type FileRegistry struct {
	fs   afero.Fs
	path string
}

// NewFileRegistry creates a file-backed registry
func NewFileRegistry(fs afero.Fs, path string) *FileRegistry {
	return &FileRegistry{fs: fs, path: path}
}

func (r *FileRegistry) load() (*Memory, error) {
	mem := NewMemory()

	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return mem, nil
		}
		return nil, errors.Wrapf(err, errors.ErrRegistry, "failed to read installed registry %s", r.path)
	}

	var doc registryFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRegistry, "failed to parse installed registry %s", r.path)
	}

	for _, ref := range doc.Refs {
		for _, p := range ref.Packs {
			mem.Add(ref.ID, Pack{ID: p.ID, Name: p.Name, Version: p.Version}, p.Pages...)
		}
	}
	return mem, nil
}

// ListPacksByRef implements Registry
func (r *FileRegistry) ListPacksByRef(ctx context.Context, refID string) ([]Pack, error) {
	mem, err := r.load()
	if err != nil {
		return nil, err
	}
	return mem.ListPacksByRef(ctx, refID)
}

// ListPagesByPack implements Registry
func (r *FileRegistry) ListPagesByPack(ctx context.Context, packID string) ([]Page, error) {
	mem, err := r.load()
	if err != nil {
		return nil, err
	}
	return mem.ListPagesByPack(ctx, packID)
}
