package manifest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
)

// Source produces the manifest for a ref
type Source interface {
	Fetch(ctx context.Context, refID string) (*Index, error)
}

// manifestFileNames are tried in order inside a ref directory
var manifestFileNames = []string{"manifest.yml", "manifest.yaml"}

// FileSource reads manifests from the filesystem. When Dir is set the
// manifest for a ref is looked up at Dir/<ref>/manifest.yml; otherwise, or
// when no per-ref file exists, Path is used for every ref.
type FileSource struct {
	fs   afero.Fs
	dir  string
	path string
}

// NewFileSource creates a file-backed manifest source
func NewFileSource(fs afero.Fs, dir, path string) *FileSource {
	return &FileSource{fs: fs, dir: dir, path: path}
}

// Fetch implements Source
func (s *FileSource) Fetch(ctx context.Context, refID string) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.GetLogger("manifest.source").With().Str("ref", refID).Logger()

	candidates, err := s.candidates(refID)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		data, err := afero.ReadFile(s.fs, candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrManifestLoad, "failed to read manifest %s", candidate)
		}
		logger.Debug().Str("path", candidate).Msg("Loading manifest")
		return Parse(data)
	}

	return nil, errors.Newf(errors.ErrManifestLoad, "no manifest found for ref '%s'", refID).
		WithDetail("candidates", candidates)
}

func (s *FileSource) candidates(refID string) ([]string, error) {
	var paths []string
	if s.dir != "" && refID != "" {
		clean := filepath.Clean(refID)
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return nil, errors.Newf(errors.ErrInvalidRequest, "invalid ref '%s'", refID)
		}
		for _, name := range manifestFileNames {
			paths = append(paths, filepath.Join(s.dir, clean, name))
		}
	}
	if s.path != "" {
		paths = append(paths, s.path)
	}
	return paths, nil
}

// Static serves the same index for every ref
type Static struct {
	Index *Index
}

// Fetch implements Source
func (s Static) Fetch(ctx context.Context, refID string) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Index == nil {
		return NewIndex(), nil
	}
	return s.Index, nil
}
