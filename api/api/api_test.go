/* api_test.go
 * Contains unit tests for api.go - testing all public API methods
 */

package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vex-shell/api/external"
	"vex-shell/api/logic"
	"vex-shell/api/shared"
)

func sampleMatches() []shared.Match {
	return []shared.Match{
		{SKU: "RE-1", Division: "Science", Round: shared.RoundQualifier, Number: 1, Red1: "750A", Red2: "56B", Blue1: "99X", Blue2: "1234A", RedScore: 50, BlueScore: 20, Scored: true},
		{SKU: "RE-1", Division: "Science", Round: shared.RoundQualifier, Number: 2, Red1: "750B", Red2: "99X", Blue1: "750A", Blue2: "1234A", RedScore: 30, BlueScore: 40, Scored: true},
		{SKU: "RE-1", Division: "Science", Round: shared.RoundQualifier, Number: 3, Red1: "750A", Red2: "1234A", Blue1: "56B", Blue2: "99X"},
		{SKU: "RE-2", Division: "Math", Round: shared.RoundQualifier, Number: 1, Red1: "750B", Red2: "1A", Blue1: "2A", Blue2: "3A", RedScore: 10, BlueScore: 5, Scored: true},
	}
}

func sampleTeams() []shared.Team {
	return []shared.Team{{Number: "750B"}, {Number: "56B"}, {Number: "750A", Name: "Alpha"}, {Number: "1234A"}}
}

func newTestAPI(t *testing.T) (*API, *MockStore, *MockFetcher) {
	t.Helper()
	s := NewMockStore()
	f := &MockFetcher{Matches: sampleMatches(), Teams: sampleTeams()}
	a, err := NewAPI(s, f, time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, err)
	return a, s, f
}

// region NewAPI tests

func TestNewAPI_MissingParameters(t *testing.T) {
	_, err := NewAPI(nil, &MockFetcher{}, time.Second, nil)
	assert.Error(t, err, "missing store")

	_, err = NewAPI(NewMockStore(), nil, time.Second, nil)
	assert.Error(t, err, "missing fetcher")

	_, err = NewAPI(NewMockStore(), &MockFetcher{}, 0, nil)
	assert.Error(t, err, "zero interval")
}

func TestNewAPI_Success(t *testing.T) {
	a, err := NewAPI(NewMockStore(), &MockFetcher{}, time.Second, nil)

	require.NoError(t, err)
	assert.Equal(t, time.Second, a.WaitInterval)
	assert.NotNil(t, a.logger)
}

// endregion

// region Cache tests

func TestLoad_CacheMissFetchesAndStores(t *testing.T) {
	a, s, f := newTestAPI(t)
	scope := shared.Scope{SKU: "RE-1"}

	matches, err := a.Load(context.Background(), scope)

	require.NoError(t, err)
	assert.Len(t, matches, 3)
	assert.Equal(t, []external.MatchQuery{{SKU: "RE-1"}}, f.MatchCalls)
	assert.Contains(t, s.Matches, external.MatchQuery{SKU: "RE-1"}.Key())
}

func TestLoad_CacheHitSkipsFetch(t *testing.T) {
	a, _, f := newTestAPI(t)
	scope := shared.Scope{SKU: "RE-1", Team: "750A"}

	_, err := a.Load(context.Background(), scope)
	require.NoError(t, err)
	_, err = a.Next(context.Background(), scope)
	require.NoError(t, err)

	assert.Len(t, f.MatchCalls, 1)
}

func TestLoad_CacheFailuresDoNotFailRequest(t *testing.T) {
	a, s, f := newTestAPI(t)
	s.GetError = errors.New("mongo down")
	s.PutError = errors.New("mongo down")

	matches, err := a.Load(context.Background(), shared.Scope{SKU: "RE-1"})

	require.NoError(t, err)
	assert.Len(t, matches, 3)
	assert.Len(t, f.MatchCalls, 1)
}

func TestLoad_FetchErrorIsReturned(t *testing.T) {
	a, _, f := newTestAPI(t)
	f.FetchMatchesError = errors.New("upstream down")

	_, err := a.Load(context.Background(), shared.Scope{SKU: "RE-1"})

	assert.ErrorIs(t, err, f.FetchMatchesError)
}

func TestLoad_EmptyScopeIsRejected(t *testing.T) {
	a, _, f := newTestAPI(t)

	_, err := a.Load(context.Background(), shared.Scope{})

	assert.Error(t, err)
	assert.Empty(t, f.MatchCalls)
}

func TestLoad_NarrowsToScope(t *testing.T) {
	a, _, f := newTestAPI(t)

	matches, err := a.Load(context.Background(), shared.Scope{SKU: "RE-1", Division: "Science", Round: shared.RoundQualifier, Team: "56b"})

	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.Equal(t, external.MatchQuery{SKU: "RE-1", Team: "56b", Division: "Science", Round: shared.RoundQualifier}, f.MatchCalls[0])
}

// endregion

// region Refresh tests

func TestRefresh_InvalidatesCompetitionAndTeamKeys(t *testing.T) {
	a, s, f := newTestAPI(t)
	ctx := context.Background()
	scope := shared.Scope{SKU: "RE-1", Team: "750A"}
	_, err := a.Load(ctx, scope)
	require.NoError(t, err)

	require.NoError(t, a.Refresh(ctx, "RE-1", []string{"750A"}))

	assert.Equal(t, []string{
		external.MatchQuery{SKU: "RE-1"}.Key(),
		external.MatchQuery{SKU: "RE-1", Team: "750A"}.Key(),
		external.MatchQuery{Team: "750A"}.Key(),
	}, s.Invalidated)

	_, err = a.Load(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, f.MatchCalls, 2, "a refreshed key is fetched again")
}

func TestRefresh_RequiresSKU(t *testing.T) {
	a, s, _ := newTestAPI(t)

	assert.Error(t, a.Refresh(context.Background(), "", nil))
	assert.Empty(t, s.Invalidated)
}

func TestRefresh_StoreError(t *testing.T) {
	a, s, _ := newTestAPI(t)
	s.InvalidateError = errors.New("mongo down")

	err := a.Refresh(context.Background(), "RE-1", nil)

	assert.ErrorIs(t, err, s.InvalidateError)
}

// endregion

// region Match navigation tests

func TestNextPrevLookup(t *testing.T) {
	a, _, _ := newTestAPI(t)
	scope := shared.Scope{SKU: "RE-1", Team: "750A"}
	ctx := context.Background()

	next, err := a.Next(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Number)

	prev, err := a.Prev(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 2, prev.Number)

	first, err := a.Lookup(ctx, scope, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)

	_, err = a.Lookup(ctx, scope, 4)
	assert.ErrorIs(t, err, logic.ErrNoMatch)
}

// endregion

// region Organization tests

func TestTeams_FiltersAndSorts(t *testing.T) {
	a, s, f := newTestAPI(t)

	teams, err := a.Teams(context.Background(), "750")

	require.NoError(t, err)
	assert.Equal(t, []shared.Team{{Number: "750A", Name: "Alpha"}, {Number: "750B"}}, teams)
	assert.Contains(t, s.Teams, external.TeamQuery{}.Key())

	_, err = a.Teams(context.Background(), "56")
	require.NoError(t, err)
	assert.Len(t, f.TeamCalls, 1)
}

func TestTeams_FetchError(t *testing.T) {
	a, _, f := newTestAPI(t)
	f.FetchTeamsError = errors.New("upstream down")

	_, err := a.Teams(context.Background(), "750")

	assert.ErrorIs(t, err, f.FetchTeamsError)
}

func TestSummary_OrganizationWithoutCompetitionQueriesEachTeam(t *testing.T) {
	a, _, f := newTestAPI(t)

	out, err := a.Summary(context.Background(), shared.Scope{Organization: "750"})

	require.NoError(t, err)
	assert.Equal(t, []external.MatchQuery{{Team: "750A"}, {Team: "750B"}}, f.MatchCalls)
	assert.Contains(t, out, "750A: 2-0-0")
	assert.Contains(t, out, "750B: 1-1-0")
	assert.Contains(t, out, "Total: 3-1-0")
}

func TestLoad_OrganizationAtCompetitionUsesOneQuery(t *testing.T) {
	a, _, f := newTestAPI(t)

	matches, err := a.Load(context.Background(), shared.Scope{SKU: "RE-1", Organization: "750"})

	require.NoError(t, err)
	assert.Len(t, matches, 3)
	assert.Equal(t, []external.MatchQuery{{SKU: "RE-1"}}, f.MatchCalls)
	assert.Empty(t, f.TeamCalls)
}

// endregion

// region Stats tests

func TestGraph(t *testing.T) {
	a, _, _ := newTestAPI(t)

	out, err := a.Graph(context.Background(), shared.Scope{Team: "750A"})

	require.NoError(t, err)
	assert.Contains(t, out, "Q1 |")
	assert.Contains(t, out, "Q2 |")
}

func TestCompetition(t *testing.T) {
	a, _, _ := newTestAPI(t)

	out, err := a.Competition(context.Background(), shared.Scope{SKU: "RE-2", Team: "750B"})

	require.NoError(t, err)
	assert.Contains(t, out, "Competition RE-2\n")
	assert.Contains(t, out, "750B: 1-0-0")
	assert.Contains(t, out, "1. Q1 (Math)")
}

func TestCompetition_RequiresSKU(t *testing.T) {
	a, _, _ := newTestAPI(t)

	_, err := a.Competition(context.Background(), shared.Scope{Team: "750B"})

	assert.Error(t, err)
}

func sampleRankings() []shared.Ranking {
	return []shared.Ranking{
		{SKU: "RE-2", Division: "Math", Team: "750B", Rank: 1, Wins: 1},
		{SKU: "RE-1", Division: "Science", Team: "750A", Rank: 2, Wins: 2},
		{SKU: "RE-1", Division: "Science", Team: "750B", Rank: 4, Wins: 1, Losses: 1},
		{SKU: "RE-1", Division: "Science", Team: "56B", Rank: 1, Wins: 2},
	}
}

func TestRank_Team(t *testing.T) {
	a, _, f := newTestAPI(t)
	f.Rankings = sampleRankings()

	out, err := a.Rank(context.Background(), shared.Scope{Team: "750B"})

	require.NoError(t, err)
	assert.Equal(t, []external.RankingQuery{{Team: "750B"}}, f.RankingCalls)
	assert.Equal(t,
		"750B: rank 4 at RE-1 (Science), 1-1-0, WP 0 AP 0 SP 0, OPR 0.0\n"+
			"750B: rank 1 at RE-2 (Math), 1-0-0, WP 0 AP 0 SP 0, OPR 0.0\n", out)
}

func TestRank_OrganizationAtCompetitionUsesOneQuery(t *testing.T) {
	a, _, f := newTestAPI(t)
	f.Rankings = sampleRankings()

	out, err := a.Rank(context.Background(), shared.Scope{SKU: "RE-1", Organization: "750"})

	require.NoError(t, err)
	assert.Equal(t, []external.RankingQuery{{SKU: "RE-1"}}, f.RankingCalls)
	assert.Contains(t, out, "750A: rank 2")
	assert.Contains(t, out, "750B: rank 4")
	assert.NotContains(t, out, "56B")
}

func TestRank_OrganizationQueriesEachTeam(t *testing.T) {
	a, _, f := newTestAPI(t)
	f.Rankings = sampleRankings()

	out, err := a.Rank(context.Background(), shared.Scope{Organization: "750"})

	require.NoError(t, err)
	assert.Equal(t, []external.RankingQuery{{Team: "750A"}, {Team: "750B"}}, f.RankingCalls)
	assert.Contains(t, out, "750B: rank 1 at RE-2")
}

func TestRank_NoRankings(t *testing.T) {
	a, _, _ := newTestAPI(t)

	out, err := a.Rank(context.Background(), shared.Scope{Team: "5Z"})

	require.NoError(t, err)
	assert.Equal(t, "No rankings found", out)
}

func TestRank_Errors(t *testing.T) {
	a, _, f := newTestAPI(t)

	_, err := a.Rank(context.Background(), shared.Scope{SKU: "RE-1"})
	assert.Error(t, err, "a team or organization is required")

	f.FetchRankingsError = errors.New("upstream down")
	_, err = a.Rank(context.Background(), shared.Scope{Team: "750A"})
	assert.ErrorIs(t, err, f.FetchRankingsError)
}

// endregion

// region History tests

func TestHistory(t *testing.T) {
	a, _, _ := newTestAPI(t)
	scope := shared.Scope{Team: "750B"}
	ctx := context.Background()

	out, err := a.History(ctx, scope, "list", nil)
	require.NoError(t, err)
	assert.Equal(t, "Competitions:\n- RE-1\n- RE-2\n", out)

	out, err = a.History(ctx, scope, "matches", []string{"RE-2"})
	require.NoError(t, err)
	assert.Contains(t, out, "1. Q1 (Math)")
	assert.NotContains(t, out, "Science")

	out, err = a.History(ctx, scope, "last", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Q1 (Math)")

	out, err = a.History(ctx, scope, "help", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "History commands:")

	_, err = a.History(ctx, scope, "bogus", nil)
	assert.Error(t, err)
}

func TestHistory_NoCompetitions(t *testing.T) {
	a, _, _ := newTestAPI(t)

	out, err := a.History(context.Background(), shared.Scope{Team: "5Z"}, "list", nil)

	require.NoError(t, err)
	assert.Equal(t, "No competitions found", out)
}

// endregion

// region Wait tests

func TestWait_ReturnsOnceScored(t *testing.T) {
	a, s, f := newTestAPI(t)
	scope := shared.Scope{SKU: "RE-1", Team: "750A"}
	// a cached copy must not be used by wait
	s.Matches[external.MatchQuery{SKU: "RE-1", Team: "750A"}.Key()] = nil

	f.BeforeFetchMatches = func(call int) {
		if call == 3 {
			f.Matches[2].RedScore = 60
			f.Matches[2].BlueScore = 55
			f.Matches[2].Scored = true
		}
	}

	m, err := a.Wait(context.Background(), scope)

	require.NoError(t, err)
	assert.Equal(t, 3, m.Number)
	assert.True(t, m.Scored)
	assert.Equal(t, 60, m.RedScore)
	assert.Len(t, f.MatchCalls, 3)
}

func TestWait_NothingToWaitFor(t *testing.T) {
	a, _, _ := newTestAPI(t)

	_, err := a.Wait(context.Background(), shared.Scope{SKU: "RE-2"})

	assert.ErrorIs(t, err, logic.ErrNoMatch)
}

func TestWait_ContextCancelled(t *testing.T) {
	a, _, _ := newTestAPI(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Wait(ctx, shared.Scope{SKU: "RE-1"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWait_PollErrorsAreRetried(t *testing.T) {
	a, _, f := newTestAPI(t)
	f.BeforeFetchMatches = func(call int) {
		switch call {
		case 2:
			f.FetchMatchesError = errors.New("blip")
		case 3:
			f.FetchMatchesError = nil
			f.Matches[2].Scored = true
		}
	}

	m, err := a.Wait(context.Background(), shared.Scope{SKU: "RE-1"})

	require.NoError(t, err)
	assert.Equal(t, 3, m.Number)
}

// endregion
