/* test_mocks.go
 * Contains mock structures for testing the API package and its consumers
 */

package api

import (
	"context"
	"strings"

	"vex-shell/api/external"
	"vex-shell/api/logic"
	"vex-shell/api/shared"
	"vex-shell/api/store"
)

// MockStore implements the store Interface for testing
type MockStore struct {
	// Storage for mock data
	Matches map[string][]shared.Match
	Teams   map[string][]shared.Team

	// Error injection for testing error paths
	GetError        error
	PutError        error
	InvalidateError error
	CloseError      error

	// Call tracking
	Puts        int
	Invalidated []string
}

// NewMockStore creates a new empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		Matches: make(map[string][]shared.Match),
		Teams:   make(map[string][]shared.Team),
	}
}

// GetMatches mock implementation
func (m *MockStore) GetMatches(ctx context.Context, key string) ([]shared.Match, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	matches, ok := m.Matches[key]
	if !ok {
		return nil, store.ErrNotCached
	}
	return matches, nil
}

// PutMatches mock implementation
func (m *MockStore) PutMatches(ctx context.Context, key string, matches []shared.Match) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.Puts++
	m.Matches[key] = matches
	return nil
}

// GetTeams mock implementation
func (m *MockStore) GetTeams(ctx context.Context, key string) ([]shared.Team, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	teams, ok := m.Teams[key]
	if !ok {
		return nil, store.ErrNotCached
	}
	return teams, nil
}

// PutTeams mock implementation
func (m *MockStore) PutTeams(ctx context.Context, key string, teams []shared.Team) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.Puts++
	m.Teams[key] = teams
	return nil
}

// Invalidate mock implementation
func (m *MockStore) Invalidate(ctx context.Context, key string) error {
	if m.InvalidateError != nil {
		return m.InvalidateError
	}
	m.Invalidated = append(m.Invalidated, key)
	delete(m.Matches, key)
	delete(m.Teams, key)
	return nil
}

// Close mock implementation
func (m *MockStore) Close(ctx context.Context) error {
	return m.CloseError
}

// MockFetcher implements Fetcher over in-memory data, applying the same filters the upstream api would
type MockFetcher struct {
	Matches  []shared.Match
	Teams    []shared.Team
	Rankings []shared.Ranking

	// Error injection for testing error paths
	FetchMatchesError  error
	FetchTeamsError    error
	FetchRankingsError error

	// BeforeFetchMatches, if set, runs before every FetchMatches call with the 1-based call number. Tests use it to
	// change Matches between polls
	BeforeFetchMatches func(call int)

	// Call tracking
	MatchCalls   []external.MatchQuery
	TeamCalls    []external.TeamQuery
	RankingCalls []external.RankingQuery
}

// FetchMatches mock implementation
func (f *MockFetcher) FetchMatches(ctx context.Context, q external.MatchQuery) ([]shared.Match, error) {
	f.MatchCalls = append(f.MatchCalls, q)
	if f.BeforeFetchMatches != nil {
		f.BeforeFetchMatches(len(f.MatchCalls))
	}
	if f.FetchMatchesError != nil {
		return nil, f.FetchMatchesError
	}
	return logic.Filter(f.Matches, shared.Scope{SKU: q.SKU, Team: q.Team, Division: q.Division, Round: q.Round}), nil
}

// FetchTeams mock implementation
func (f *MockFetcher) FetchTeams(ctx context.Context, q external.TeamQuery) ([]shared.Team, error) {
	f.TeamCalls = append(f.TeamCalls, q)
	if f.FetchTeamsError != nil {
		return nil, f.FetchTeamsError
	}
	return f.Teams, nil
}

// FetchRankings mock implementation
func (f *MockFetcher) FetchRankings(ctx context.Context, q external.RankingQuery) ([]shared.Ranking, error) {
	f.RankingCalls = append(f.RankingCalls, q)
	if f.FetchRankingsError != nil {
		return nil, f.FetchRankingsError
	}
	var out []shared.Ranking
	for _, r := range f.Rankings {
		if q.SKU != "" && r.SKU != q.SKU {
			continue
		}
		if q.Team != "" && !strings.EqualFold(r.Team, q.Team) {
			continue
		}
		if q.Division != "" && r.Division != q.Division {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Ensure the mocks implement their interfaces
var (
	_ store.Interface = (*MockStore)(nil)
	_ Fetcher         = (*MockFetcher)(nil)
	_ Fetcher         = (*external.Client)(nil)
)
