package store

import (
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemory_Store(t *testing.T) {
	exerciseStore(t, NewMemory(DefaultTTL, DefaultMaxSessions))
}

func TestMemory_TTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemory(time.Hour, 0)
	s.now = clock.now
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleState("main", "alice")))
	require.NoError(t, s.Save(ctx, sampleState("main", "bob")))

	clock.advance(45 * time.Minute)
	_, err := s.Load(ctx, Key{RefID: "main", UserID: "alice"})
	require.NoError(t, err, "load refreshes last use")

	clock.advance(30 * time.Minute)
	_, err = s.Load(ctx, Key{RefID: "main", UserID: "alice"})
	require.NoError(t, err)
	_, err = s.Load(ctx, Key{RefID: "main", UserID: "bob"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "bob idled past the TTL")
	assert.Equal(t, 1, s.Len())
}

func TestMemory_MaxSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemory(0, 2)
	s.now = clock.now
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleState("main", "a")))
	clock.advance(time.Second)
	require.NoError(t, s.Save(ctx, sampleState("main", "b")))
	clock.advance(time.Second)

	_, err := s.Load(ctx, Key{RefID: "main", UserID: "a"})
	require.NoError(t, err)
	clock.advance(time.Second)

	require.NoError(t, s.Save(ctx, sampleState("main", "c")))
	assert.Equal(t, 2, s.Len())

	_, err = s.Load(ctx, Key{RefID: "main", UserID: "b"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound), "b was least recently used")
	_, err = s.Load(ctx, Key{RefID: "main", UserID: "a"})
	assert.NoError(t, err)
	_, err = s.Load(ctx, Key{RefID: "main", UserID: "c"})
	assert.NoError(t, err)
}

func TestMemory_SaveReplaces(t *testing.T) {
	s := NewMemory(0, 0)
	ctx := context.Background()

	first := sampleState("main", "alice")
	second := sampleState("main", "alice")
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	assert.Equal(t, 1, s.Len())
	loaded, err := s.Load(ctx, Key{RefID: "main", UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, second.SessionID, loaded.SessionID)
}

func TestNewMemory_NegativeBounds(t *testing.T) {
	s := NewMemory(-time.Second, -1)
	assert.Equal(t, time.Duration(0), s.ttl)
	assert.Equal(t, 0, s.maxSessions)
}
