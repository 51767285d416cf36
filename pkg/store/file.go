package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/session"
)

const sessionFileExt = ".yaml"

// File is a Store keeping one YAML document per session under
// <dir>/<ref>/<user>.yaml, with ref and user path-escaped.
type File struct {
	fs  afero.Fs
	dir string
}

// NewFile creates a file-backed store rooted at dir
func NewFile(fs afero.Fs, dir string) *File {
	return &File{fs: fs, dir: dir}
}

// Path returns the file holding a session
func (s *File) Path(key Key) string {
	return filepath.Join(s.dir, url.PathEscape(key.RefID), url.PathEscape(key.UserID)+sessionFileExt)
}

// Load implements Store
func (s *File) Load(ctx context.Context, key Key) (*session.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path(key)

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "no session for %s", key)
		}
		return nil, errors.Wrapf(err, errors.ErrStore, "failed to read session %s", path)
	}

	var st session.State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStore, "failed to decode session %s", path)
	}
	return &st, nil
}

// Save implements Store. The document is written to a temporary file and
// renamed into place.
func (s *File) Save(ctx context.Context, st *session.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := KeyOf(st)
	path := s.Path(key)
	logger := logging.ForSession("store.file", key.RefID, key.UserID)

	data, err := yaml.Marshal(st)
	if err != nil {
		return errors.Wrap(err, errors.ErrStore, "failed to encode session")
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStore, "failed to create session directory for %s", key)
	}

	tmp := fmt.Sprintf("%s.tmp", path)
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStore, "failed to write session %s", tmp)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrStore, "failed to replace session %s", path)
	}

	logger.Debug().Str("path", path).Msg("Saved session")
	return nil
}

// Delete implements Store
func (s *File) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrStore, "failed to delete session %s", key)
	}
	return nil
}
