/* memory.go
 * Contains MemoryStore, the in-process cache used when no mongo uri is configured
 */

package store

import (
	"context"
	"sync"
	"time"

	"vex-shell/api/shared"
)

type memoryEntry struct {
	ttl     int64
	matches []shared.Match
	teams   []shared.Team
}

// MemoryStore keeps cached documents in maps. It applies the same expiry rules as Store
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	matches map[string]memoryEntry
	teams   map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore. ttl <= 0 means unfinished match lists are never served from cache
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		matches: make(map[string]memoryEntry),
		teams:   make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) GetMatches(ctx context.Context, key string) ([]shared.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.matches[key]
	if !ok || expired(e.ttl, m.now()) {
		return nil, ErrNotCached
	}
	return append([]shared.Match(nil), e.matches...), nil
}

func (m *MemoryStore) PutMatches(ctx context.Context, key string, matches []shared.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.matches[key] = memoryEntry{
		ttl:     DetermineTTL(matches, m.ttl, m.now()),
		matches: append([]shared.Match(nil), matches...),
	}
	return nil
}

func (m *MemoryStore) GetTeams(ctx context.Context, key string) ([]shared.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.teams[key]
	if !ok || expired(e.ttl, m.now()) {
		return nil, ErrNotCached
	}
	return append([]shared.Team(nil), e.teams...), nil
}

func (m *MemoryStore) PutTeams(ctx context.Context, key string, teams []shared.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teams[key] = memoryEntry{
		ttl:   m.now().Add(TeamTTL).Unix(),
		teams: append([]shared.Team(nil), teams...),
	}
	return nil
}

func (m *MemoryStore) Invalidate(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.matches, key)
	delete(m.teams, key)
	return nil
}

// Close drops every cached entry
func (m *MemoryStore) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.matches = make(map[string]memoryEntry)
	m.teams = make(map[string]memoryEntry)
	return nil
}
