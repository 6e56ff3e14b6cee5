package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"sealchat/internal/domain"
)

const sessionKeyPrefix = "session/"

// SessionStateStore keeps per-conversation ephemeral bookkeeping in a
// KeyValueStore, one JSON record per session.
type SessionStateStore struct {
	kv domain.KeyValueStore
	mu sync.Mutex
}

// NewSessionStateStore returns a SessionStateStore writing to kv.
func NewSessionStateStore(kv domain.KeyValueStore) *SessionStateStore {
	return &SessionStateStore{kv: kv}
}

// LoadSessionState returns the stored state, or the zero state for a session
// that has never been seen.
func (s *SessionStateStore) LoadSessionState(id domain.SessionID) (domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok, err := s.kv.Get(sessionKeyPrefix + id.String())
	if err != nil {
		return domain.SessionState{}, err
	}
	if !ok {
		return domain.SessionState{}, nil
	}
	var st domain.SessionState
	if err := json.Unmarshal(b, &st); err != nil {
		return domain.SessionState{}, fmt.Errorf("decode session %q: %w", id, err)
	}
	return st, nil
}

// SaveSessionState replaces the stored state in one write.
func (s *SessionStateStore) SaveSessionState(id domain.SessionID, st domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.kv.Set(sessionKeyPrefix+id.String(), b)
}

// Compile-time assertion that SessionStateStore implements domain.SessionStateStore.
var _ domain.SessionStateStore = (*SessionStateStore)(nil)
