package store

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/arthur-debert/packstate/pkg/errors"
	"github.com/arthur-debert/packstate/pkg/session"
)

const (
	DefaultTTL         = 24 * time.Hour
	DefaultMaxSessions = 4096
)

type memoryItem struct {
	key      Key
	state    *session.State
	lastUsed time.Time
}

// Memory is an in-process Store. Sessions idle for longer than the TTL are
// evicted, and the least recently used sessions are evicted beyond the
// maximum count. A zero TTL or maximum disables that bound.
type Memory struct {
	mu sync.Mutex

	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	lru *list.List            // front=MRU
	m   map[Key]*list.Element // key -> element(Value=*memoryItem)
}

// NewMemory creates a Memory store
func NewMemory(ttl time.Duration, maxSessions int) *Memory {
	if ttl < 0 {
		ttl = 0
	}
	if maxSessions < 0 {
		maxSessions = 0
	}
	return &Memory{
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
		lru:         list.New(),
		m:           map[Key]*list.Element{},
	}
}

// Load implements Store
func (s *Memory) Load(ctx context.Context, key Key) (*session.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked(now)

	e := s.m[key]
	if e == nil {
		return nil, errors.Newf(errors.ErrNotFound, "no session for %s", key)
	}
	it := e.Value.(*memoryItem)
	it.lastUsed = now
	s.lru.MoveToFront(e)
	return it.state.Clone(), nil
}

// Save implements Store
func (s *Memory) Save(ctx context.Context, st *session.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now()
	key := KeyOf(st)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked(now)

	if e := s.m[key]; e != nil {
		it := e.Value.(*memoryItem)
		it.state = st.Clone()
		it.lastUsed = now
		s.lru.MoveToFront(e)
		return nil
	}

	s.m[key] = s.lru.PushFront(&memoryItem{key: key, state: st.Clone(), lastUsed: now})
	s.evictOverLimitLocked()
	return nil
}

// Delete implements Store
func (s *Memory) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.m[key]; e != nil {
		s.deleteElemLocked(e)
	}
	return nil
}

// Len returns the number of live sessions
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked(s.now())
	return s.lru.Len()
}

func (s *Memory) evictExpiredLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for e := s.lru.Back(); e != nil; {
		prev := e.Prev()
		if now.Sub(e.Value.(*memoryItem).lastUsed) <= s.ttl {
			break
		}
		s.deleteElemLocked(e)
		e = prev
	}
}

func (s *Memory) evictOverLimitLocked() {
	if s.maxSessions <= 0 {
		return
	}
	for s.lru.Len() > s.maxSessions {
		s.deleteElemLocked(s.lru.Back())
	}
}

func (s *Memory) deleteElemLocked(e *list.Element) {
	delete(s.m, e.Value.(*memoryItem).key)
	s.lru.Remove(e)
}
