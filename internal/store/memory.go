package store

import (
	"sync"
	"time"

	"topic-studio-backend/internal/types"
)

// SessionView is the mutable page state for one session: the currently
// rendered candidate list and the fields it was produced from. SavedAt is
// set when the view came from (or was written to) the cache.
type SessionView struct {
	Topics  []types.TopicCandidate
	Brand   string
	Seed    string
	SavedAt *time.Time
}

// SessionStore keeps per-session view state in memory. Views are replaced
// wholesale, so overlapping fetches resolve to last-write-wins with no
// partial merges.
type SessionStore struct {
	mu    sync.RWMutex
	views map[string]SessionView
}

func NewSessionStore() *SessionStore {
	return &SessionStore{views: make(map[string]SessionView)}
}

// SetView replaces the session's rendered list.
func (s *SessionStore) SetView(sessionID string, v SessionView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.Topics = append([]types.TopicCandidate(nil), v.Topics...)
	s.views[sessionID] = v
}

// GetView returns a copy of the session's rendered list.
func (s *SessionStore) GetView(sessionID string) SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.views[sessionID]
	v.Topics = append([]types.TopicCandidate(nil), v.Topics...)
	return v
}

// HasTopics reports whether the session currently renders any candidates.
func (s *SessionStore) HasTopics(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views[sessionID].Topics) > 0
}

// ClearView empties the session's rendered list.
func (s *SessionStore) ClearView(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, sessionID)
}
