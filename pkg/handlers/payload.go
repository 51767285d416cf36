package handlers

import (
	"strings"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// stringField returns data[key] when it is a non-empty string
func stringField(data map[string]interface{}, key string) (string, bool) {
	v, ok := data[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func requireString(data map[string]interface{}, key string) (string, error) {
	v, ok := stringField(data, key)
	if !ok {
		return "", errors.Newf(errors.ErrInvalidRequest, "invalid or missing %s", key).
			WithDetail("field", key)
	}
	return v, nil
}

func requireState(st *session.State) error {
	if st == nil {
		return errors.New(errors.ErrInvalidRequest, "state cannot be null")
	}
	return nil
}

// lookupPack resolves a pack that must exist in both the manifest and the
// session
func lookupPack(st *session.State, idx *manifest.Index, packName string) (*session.PackState, error) {
	if !idx.Has(packName) {
		return nil, errors.Newf(errors.ErrInvalidRequest, "pack '%s' not found in manifest", packName).
			WithDetail("pack", packName)
	}
	pack, ok := st.Pack(packName)
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidRequest, "pack '%s' not found in state", packName).
			WithDetail("pack", packName)
	}
	return pack, nil
}

func validActions() string {
	names := make([]string, len(session.ActionKinds))
	for i, kind := range session.ActionKinds {
		names[i] = string(kind)
	}
	return strings.Join(names, ", ")
}
