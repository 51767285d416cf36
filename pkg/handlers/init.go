package handlers

import (
	"context"
	"strings"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// InitCommand starts a session from the manifest and installed registry.
//
// Payload: {"force": bool} (optional)
const InitCommand = "init"

// Init builds a fresh session. An existing session with pending actions is
// only replaced when force is set.
type Init struct{}

func (Init) Command() string { return InitCommand }

func (Init) Handle(ctx context.Context, st *session.State, idx *manifest.Index, data map[string]interface{}, hctx Context) (*Result, error) {
	force, _ := data["force"].(bool)
	if st != nil && !force {
		if pending := st.PacksWithActions(); len(pending) > 0 {
			return nil, errors.Newf(errors.ErrInvalidRequest,
				"session already has pending actions (%s); clear it first", strings.Join(pending, ", ")).
				WithDetail("pending", pending)
		}
	}

	fresh, err := FreshState(ctx, idx, hctx)
	if err != nil {
		return nil, err
	}

	logger := logging.ForSession("handlers.init", hctx.RefID, hctx.UserID)
	logger.Info().
		Str("session", fresh.SessionID).
		Int("packs", fresh.Len()).
		Msg("Session initialized")

	return result(fresh, nil), nil
}
