package profile

import (
	"context"
	"sync"
)

// Store persists user profiles with optimistic concurrency.
//
// Get returns the profile and its current version; a user without a
// profile returns ErrNotFound so callers can start from Empty() at
// version 0. Save writes the profile only when expectedVersion matches
// the stored version, returning ErrVersionConflict otherwise. Two
// near-simultaneous messages from the same user then race on version,
// and the loser re-reads and re-merges instead of losing the update.
type Store interface {
	Get(ctx context.Context, userID string) (Profile, int64, error)
	Save(ctx context.Context, userID string, p Profile, expectedVersion int64) error
}

// versioned is a stored profile with its version counter.
type versioned struct {
	profile Profile
	version int64
}

// MemoryStore is an in-memory Store used in tests and single-node setups.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]versioned
}

// NewMemoryStore creates an empty in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]versioned)}
}

// Get returns a deep copy of the stored profile and its version.
func (s *MemoryStore) Get(ctx context.Context, userID string) (Profile, int64, error) {
	if userID == "" {
		return Profile{}, 0, ErrEmptyUserID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.profiles[userID]
	if !ok {
		return Profile{}, 0, ErrNotFound
	}
	return v.profile.Clone(), v.version, nil
}

// Save stores the profile if expectedVersion matches. A first save uses
// expectedVersion 0.
func (s *MemoryStore) Save(ctx context.Context, userID string, p Profile, expectedVersion int64) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.profiles[userID].version
	if current != expectedVersion {
		return ErrVersionConflict
	}
	s.profiles[userID] = versioned{profile: p.Clone(), version: current + 1}
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
