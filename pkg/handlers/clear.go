package handlers

import (
	"context"

	"github.com/arthur-debert/packstate/pkg/logging"
	"github.com/arthur-debert/packstate/pkg/manifest"
	"github.com/arthur-debert/packstate/pkg/session"
)

// ClearCommand discards every pending action
const ClearCommand = "clear"

// Clear rebuilds the session from scratch, keeping its session id
type Clear struct{}

func (Clear) Command() string { return ClearCommand }

func (Clear) Handle(ctx context.Context, st *session.State, idx *manifest.Index, data map[string]interface{}, hctx Context) (*Result, error) {
	fresh, err := FreshState(ctx, idx, hctx)
	if err != nil {
		return nil, err
	}

	var discarded []string
	if st != nil {
		fresh.SessionID = st.SessionID
		discarded = st.PacksWithActions()
	}

	logger := logging.ForSession("handlers.clear", hctx.RefID, hctx.UserID)
	logger.Info().
		Strs("discarded", discarded).
		Msg("Session cleared")

	return result(fresh, nil), nil
}
