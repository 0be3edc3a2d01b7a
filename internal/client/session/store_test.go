package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homequote/homequote/internal/client/models"
)

func TestNewStore_StartsLoadingUnauthenticated(t *testing.T) {
	s := NewStore()

	require.True(t, s.IsLoading())
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.Current())
}

func TestSetSession_FlagsTrackSessionPresence(t *testing.T) {
	s := NewStore()

	tests := []struct {
		name string
		sess *models.Session
	}{
		{name: "non-nil session", sess: &models.Session{ID: "u1", Email: "a@b.com"}},
		{name: "nil session", sess: nil},
		{name: "another session", sess: &models.Session{ID: "u2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s.SetSession(tc.sess)
			require.Equal(t, tc.sess != nil, s.IsAuthenticated())
			require.False(t, s.IsLoading())
			require.Equal(t, tc.sess, s.Current())
		})
	}
}

func TestSetSession_NilResolvesLoading(t *testing.T) {
	s := NewStore()

	// restore finished with no session: still a resolution
	s.SetSession(nil)

	require.False(t, s.IsLoading())
	require.False(t, s.IsAuthenticated())
}

func TestSetLoading_ExplicitOverride(t *testing.T) {
	s := NewStore()
	s.SetSession(&models.Session{ID: "u1"})

	s.SetLoading(true)
	require.True(t, s.IsLoading())
	// the session itself is untouched
	require.True(t, s.IsAuthenticated())

	s.SetLoading(false)
	require.False(t, s.IsLoading())
}

func TestClear_DropsSession(t *testing.T) {
	s := NewStore()
	s.SetSession(&models.Session{ID: "u1"})

	s.Clear()

	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.Current())
	require.False(t, s.IsLoading())
}

func TestSubscribe_NotifiedOnEveryChange(t *testing.T) {
	s := NewStore()

	var calls int
	unsub := s.Subscribe(func() { calls++ })

	s.SetSession(&models.Session{ID: "u1"})
	s.SetLoading(true)
	s.Clear()
	require.Equal(t, 3, calls)

	unsub()
	s.SetSession(nil)
	require.Equal(t, 3, calls)
}

func TestSubscribe_UnsubscribeIsIndependent(t *testing.T) {
	s := NewStore()

	var first, second int
	unsubFirst := s.Subscribe(func() { first++ })
	s.Subscribe(func() { second++ })

	s.SetSession(&models.Session{ID: "u1"})
	unsubFirst()
	s.SetSession(nil)

	require.Equal(t, 1, first)
	require.Equal(t, 2, second)
}

func TestConcurrentWriters_TerminalStateConsistent(t *testing.T) {
	s := NewStore()
	sess := &models.Session{ID: "u1"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetSession(sess)
		}()
		go func() {
			defer wg.Done()
			s.SetSession(nil)
		}()
	}
	wg.Wait()

	// last writer wins; both outcomes agree on the derived flags
	require.Equal(t, s.Current() != nil, s.IsAuthenticated())
	require.False(t, s.IsLoading())
}
