// Package knowledge provides per-agent knowledge bases and the relevance
// ranking used to pick which entries ground a chat reply.
package knowledge

import (
	"context"
	"errors"
	"sync"
)

// Common errors for knowledge operations.
var (
	ErrAgentNotFound = errors.New("agent knowledge base not found")
	ErrEntryNotFound = errors.New("knowledge entry not found")
	ErrEmptyAgentID  = errors.New("agent ID cannot be empty")
)

// Entry is a titled block of reference text with optional keyword tags.
// Entries are immutable within a scoring pass; the scorer only reads them.
type Entry struct {
	// ID is the unique entry identifier.
	ID string `json:"id" yaml:"id" koanf:"id"`

	// Title is a short heading for the entry (e.g. "學費資訊").
	Title string `json:"title" yaml:"title" koanf:"title"`

	// Content is the reference text injected into the prompt when selected.
	Content string `json:"content" yaml:"content" koanf:"content"`

	// Keywords are optional tags used as a ranking signal.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords" koanf:"keywords"`
}

// ScoredEntry pairs an entry with its relevance score for one message.
// Score is non-negative; 0 means irrelevant.
type ScoredEntry struct {
	Entry Entry
	Score float64
}

// Store provides read access to per-agent knowledge bases and lets the
// loader swap in fresh snapshots when a knowledge file changes.
type Store interface {
	// List returns all entries for an agent. A missing agent returns
	// ErrAgentNotFound; callers that treat "no knowledge base" as an
	// empty base should check for it.
	List(ctx context.Context, agentID string) ([]Entry, error)

	// Get returns a single entry by ID.
	Get(ctx context.Context, agentID, entryID string) (Entry, error)

	// Replace swaps the full entry set for an agent.
	Replace(ctx context.Context, agentID string, entries []Entry) error
}

// MemoryStore is a mutex-guarded in-memory Store. It serves as the live
// snapshot cache behind the file loader and as the store used in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]Entry)}
}

// List returns a copy of the agent's entries.
func (s *MemoryStore) List(ctx context.Context, agentID string) ([]Entry, error) {
	if agentID == "" {
		return nil, ErrEmptyAgentID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.entries[agentID]
	if !ok {
		return nil, ErrAgentNotFound
	}

	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Get returns one entry by ID.
func (s *MemoryStore) Get(ctx context.Context, agentID, entryID string) (Entry, error) {
	entries, err := s.List(ctx, agentID)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

// Replace swaps the agent's entry set for a new snapshot.
func (s *MemoryStore) Replace(ctx context.Context, agentID string, entries []Entry) error {
	if agentID == "" {
		return ErrEmptyAgentID
	}

	snapshot := make([]Entry, len(entries))
	copy(snapshot, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[agentID] = snapshot
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
