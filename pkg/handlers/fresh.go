package handlers

import (
	"context"

	"github.com/arthur-debert/packstate/pkg/installed"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// FreshState builds a new session for hctx's ref and user from the manifest
// and the installed registry
func FreshState(ctx context.Context, idx *manifest.Index, hctx Context) (*session.State, error) {
	var (
		versions map[string]string
		pages    map[string]map[string]string
	)
	if hctx.Installed != nil {
		var err error
		versions, pages, err = installed.Snapshot(ctx, hctx.Installed, hctx.RefID)
		if err != nil {
			return nil, err
		}
	}
	return session.Build(hctx.RefID, hctx.UserID, idx, versions, pages), nil
}
