package store

import (
	"context"
	"fmt"

	"github.com/arthur-debert/packstate/pkg/session"
)

// Key identifies a session
type Key struct {
	RefID  string
	UserID string
}

// KeyOf returns the key of a state
func KeyOf(st *session.State) Key {
	return Key{RefID: st.RefID, UserID: st.UserID}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.RefID, k.UserID)
}

// Store loads and persists session states
type Store interface {
	// Load returns the session for key, or a NOT_FOUND error
	Load(ctx context.Context, key Key) (*session.State, error)

	// Save persists a session under its own key
	Save(ctx context.Context, st *session.State) error

	// Delete discards a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, key Key) error
}
