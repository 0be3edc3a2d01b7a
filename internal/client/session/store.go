// Package session holds the in-memory authenticated session: a single
// process-wide store consulted by every screen to decide what to render.
package session

import (
	"sort"
	"sync"

	"github.com/homequote/homequote/internal/client/models"
)

// Store is the single source of truth for "who is logged in".
//
// It performs no I/O and none of its operations fail. loading starts true
// and flips to false the first time SetSession resolves (even to nil), so
// the UI can show a splash state until the startup restore completes.
// Concurrent writers are safe; last writer wins.
type Store struct {
	mu      sync.Mutex
	current *models.Session
	loading bool

	nextSubID int
	subs      map[int]func()
}

func NewStore() *Store {
	return &Store{loading: true, subs: make(map[int]func())}
}

// SetSession replaces the current session. Passing nil records a resolved
// logged-out state; either way loading becomes false.
func (s *Store) SetSession(sess *models.Session) {
	s.mu.Lock()
	s.current = sess
	s.loading = false
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// SetLoading overrides the loading flag while a restore or login is in
// flight.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Clear drops the session, equivalent to SetSession(nil). Used on logout.
func (s *Store) Clear() {
	s.SetSession(nil)
}

// Current returns the active session or nil.
func (s *Store) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsAuthenticated reports whether a session is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// IsLoading reports whether the initial restore (or an explicit override)
// is still in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe func. Notifications run outside the store's lock, so
// subscribers may read the store freely.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// snapshotSubs must be called with the lock held. Subscribers are invoked
// in registration order.
func (s *Store) snapshotSubs() []func() {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	// map iteration order is random; restore registration order
	sort.Ints(ids)
	out := make([]func(), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}
