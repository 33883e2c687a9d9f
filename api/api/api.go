/* api.go
 * This file contains the public methods for interacting with the data layer. The shell talks to this file only, never
 * to the external, store or logic sub packages directly
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"vex-shell/api/external"
	"vex-shell/api/logic"
	"vex-shell/api/shared"
	"vex-shell/api/store"
)

// Fetcher is the upstream data source. external.Client implements it
type Fetcher interface {
	FetchMatches(ctx context.Context, q external.MatchQuery) ([]shared.Match, error)
	FetchTeams(ctx context.Context, q external.TeamQuery) ([]shared.Team, error)
	FetchRankings(ctx context.Context, q external.RankingQuery) ([]shared.Ranking, error)
}

// API serves match, stats, history, organization and wait requests from the cache, refreshing it from the
// upstream api when a cached copy is missing or stale
type API struct {
	Store        store.Interface
	Fetcher      Fetcher
	WaitInterval time.Duration
	logger       *zap.Logger
}

// NewAPI creates a new API instance from its collaborators
func NewAPI(s store.Interface, f Fetcher, waitInterval time.Duration, logger *zap.Logger) (*API, error) {
	if s == nil || f == nil {
		return nil, fmt.Errorf("store and fetcher are required")
	}
	if waitInterval <= 0 {
		return nil, fmt.Errorf("wait interval must be positive, got %s", waitInterval)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		Store:        s,
		Fetcher:      f,
		WaitInterval: waitInterval,
		logger:       logger,
	}, nil
}

// region Cache

// matches returns the answer to q from the cache, or from the upstream api when fresh is set or the cache misses.
// Cache failures are logged and never fail the request
func (a *API) matches(ctx context.Context, q external.MatchQuery, fresh bool) ([]shared.Match, error) {
	key := q.Key()
	if !fresh {
		cached, err := a.Store.GetMatches(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, store.ErrNotCached) {
			a.logger.Warn("match cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	matches, err := a.Fetcher.FetchMatches(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := a.Store.PutMatches(ctx, key, matches); err != nil {
		a.logger.Warn("match cache write failed", zap.String("key", key), zap.Error(err))
	}
	return matches, nil
}

func (a *API) teams(ctx context.Context, q external.TeamQuery) ([]shared.Team, error) {
	key := q.Key()
	cached, err := a.Store.GetTeams(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, store.ErrNotCached) {
		a.logger.Warn("team cache read failed", zap.String("key", key), zap.Error(err))
	}

	teams, err := a.Fetcher.FetchTeams(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := a.Store.PutTeams(ctx, key, teams); err != nil {
		a.logger.Warn("team cache write failed", zap.String("key", key), zap.Error(err))
	}
	return teams, nil
}

// Refresh drops the cached match lists a results update for sku can change: the competition list, and for each
// team its list at the competition and its full history. Division and round lists expire with their ttl
func (a *API) Refresh(ctx context.Context, sku string, teams []string) error {
	if sku == "" {
		return fmt.Errorf("a competition sku is required")
	}
	keys := []string{external.MatchQuery{SKU: sku}.Key()}
	for _, t := range teams {
		keys = append(keys, external.MatchQuery{SKU: sku, Team: t}.Key(), external.MatchQuery{Team: t}.Key())
	}

	var errs []error
	for _, key := range keys {
		if err := a.Store.Invalidate(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	a.logger.Info("cache refreshed", zap.String("sku", sku), zap.Int("keys", len(keys)))
	return errors.Join(errs...)
}

// scopeMatches returns the matches inside scope in play order. The upstream api cannot filter by organization, so
// an organization scope is answered per team when no competition narrows it
func (a *API) scopeMatches(ctx context.Context, scope shared.Scope, fresh bool) ([]shared.Match, error) {
	q := external.MatchQuery{SKU: scope.SKU, Team: scope.Team, Division: scope.Division, Round: scope.Round}

	var all []shared.Match
	switch {
	case scope.Organization != "" && scope.SKU == "" && scope.Team == "":
		teams, err := a.Teams(ctx, scope.Organization)
		if err != nil {
			return nil, err
		}
		for _, t := range teams {
			q.Team = t.Number
			matches, err := a.matches(ctx, q, fresh)
			if err != nil {
				return nil, err
			}
			all = append(all, matches...)
		}
		all = logic.Dedupe(all)

	case scope.SKU == "" && scope.Team == "":
		return nil, fmt.Errorf("a competition, team or organization is required")

	default:
		matches, err := a.matches(ctx, q, fresh)
		if err != nil {
			return nil, err
		}
		all = matches
	}

	a.logger.Debug("matches loaded", zap.Stringer("scope", scope), zap.Int("count", len(all)))
	return logic.Sort(logic.Filter(all, scope)), nil
}

// endregion

// region Matches

// Load returns every match inside scope in play order
func (a *API) Load(ctx context.Context, scope shared.Scope) ([]shared.Match, error) {
	return a.scopeMatches(ctx, scope, false)
}

// Next returns the first unscored match inside scope
func (a *API) Next(ctx context.Context, scope shared.Scope) (shared.Match, error) {
	matches, err := a.scopeMatches(ctx, scope, false)
	if err != nil {
		return shared.Match{}, err
	}
	return logic.Next(matches)
}

// Prev returns the last scored match inside scope
func (a *API) Prev(ctx context.Context, scope shared.Scope) (shared.Match, error) {
	matches, err := a.scopeMatches(ctx, scope, false)
	if err != nil {
		return shared.Match{}, err
	}
	return logic.Prev(matches)
}

// Lookup returns the n-th match inside scope, counting from 1
func (a *API) Lookup(ctx context.Context, scope shared.Scope, n int) (shared.Match, error) {
	matches, err := a.scopeMatches(ctx, scope, false)
	if err != nil {
		return shared.Match{}, err
	}
	return logic.Lookup(matches, n)
}

// Wait blocks until the next unscored match inside scope has been scored, polling the upstream api every
// WaitInterval, and returns it with its score
func (a *API) Wait(ctx context.Context, scope shared.Scope) (shared.Match, error) {
	matches, err := a.scopeMatches(ctx, scope, true)
	if err != nil {
		return shared.Match{}, err
	}
	target, err := logic.Next(matches)
	if err != nil {
		return shared.Match{}, fmt.Errorf("nothing to wait for: %w", err)
	}

	a.logger.Info("waiting for match", zap.Stringer("scope", scope), zap.String("match", target.Label()))
	ticker := time.NewTicker(a.WaitInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return shared.Match{}, ctx.Err()
		case <-ticker.C:
		}

		matches, err := a.scopeMatches(ctx, scope, true)
		if err != nil {
			// a failed poll is retried on the next tick
			a.logger.Warn("poll failed", zap.Error(err))
			continue
		}
		for _, m := range matches {
			if logic.SameMatch(m, target) && m.Scored {
				return m, nil
			}
		}
	}
}

// endregion

// region Stats

// Summary returns the win/loss records for the team or organization in scope
func (a *API) Summary(ctx context.Context, scope shared.Scope) (string, error) {
	matches, err := a.scopeMatches(ctx, scope, false)
	if err != nil {
		return "", err
	}
	return logic.Summary(matches, scope), nil
}

// Graph returns a text graph of scores for the team or organization in scope
func (a *API) Graph(ctx context.Context, scope shared.Scope) (string, error) {
	matches, err := a.scopeMatches(ctx, scope, false)
	if err != nil {
		return "", err
	}
	return logic.Graph(matches, scope), nil
}

// Competition returns the record and match list for the team or organization at the competition in scope
func (a *API) Competition(ctx context.Context, scope shared.Scope) (string, error) {
	if scope.SKU == "" {
		return "", fmt.Errorf("a competition sku is required")
	}
	matches, err := a.scopeMatches(ctx, scope, false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Competition %s\n", scope.SKU)
	b.WriteString(logic.Summary(matches, scope))
	b.WriteString(shared.FormatMatches(matches))
	return b.String(), nil
}

// Rank returns the rankings of the team or organization in scope, at the competition in scope when there is one.
// Rankings move with every scored match so they are always read from the upstream api
func (a *API) Rank(ctx context.Context, scope shared.Scope) (string, error) {
	q := external.RankingQuery{SKU: scope.SKU, Team: scope.Team, Division: scope.Division}

	var rankings []shared.Ranking
	switch {
	case scope.Team != "":
		r, err := a.Fetcher.FetchRankings(ctx, q)
		if err != nil {
			return "", err
		}
		rankings = r

	case scope.Organization != "" && scope.SKU != "":
		all, err := a.Fetcher.FetchRankings(ctx, q)
		if err != nil {
			return "", err
		}
		for _, r := range all {
			if strings.EqualFold(shared.OrganizationOf(r.Team), scope.Organization) {
				rankings = append(rankings, r)
			}
		}

	case scope.Organization != "":
		teams, err := a.Teams(ctx, scope.Organization)
		if err != nil {
			return "", err
		}
		for _, t := range teams {
			q.Team = t.Number
			r, err := a.Fetcher.FetchRankings(ctx, q)
			if err != nil {
				return "", err
			}
			rankings = append(rankings, r...)
		}

	default:
		return "", fmt.Errorf("a team or organization is required")
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].SKU != rankings[j].SKU {
			return rankings[i].SKU < rankings[j].SKU
		}
		if rankings[i].Division != rankings[j].Division {
			return rankings[i].Division < rankings[j].Division
		}
		return rankings[i].Rank < rankings[j].Rank
	})
	return shared.FormatRankings(rankings), nil
}

// endregion

// region History

// History answers the verbs of the history context
func (a *API) History(ctx context.Context, scope shared.Scope, verb string, args []string) (string, error) {
	switch verb {
	case "help":
		return "History commands:\n- list: competitions attended\n- matches [sku]: matches played, optionally at one competition\n- last: the most recent scored match\n", nil

	case "list", "competitions":
		matches, err := a.scopeMatches(ctx, scope, false)
		if err != nil {
			return "", err
		}
		skus := logic.Competitions(matches)
		if len(skus) == 0 {
			return "No competitions found", nil
		}
		sort.Strings(skus)
		return "Competitions:\n- " + strings.Join(skus, "\n- ") + "\n", nil

	case "matches":
		if len(args) > 0 {
			scope.SKU = args[0]
		}
		matches, err := a.scopeMatches(ctx, scope, false)
		if err != nil {
			return "", err
		}
		return shared.FormatMatches(matches), nil

	case "last":
		m, err := a.Prev(ctx, scope)
		if err != nil {
			return "", err
		}
		return m.String(), nil
	}
	return "", fmt.Errorf("unknown history command %q, try help", verb)
}

// endregion

// region Organizations

// Teams returns the registered teams belonging to organization, sorted by number. The upstream api has no
// organization filter, so the full team list is fetched (and cached) and filtered here
func (a *API) Teams(ctx context.Context, organization string) ([]shared.Team, error) {
	all, err := a.teams(ctx, external.TeamQuery{})
	if err != nil {
		return nil, err
	}

	var teams []shared.Team
	for _, t := range all {
		if strings.EqualFold(shared.OrganizationOf(t.Number), organization) {
			teams = append(teams, t)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Number < teams[j].Number })
	return teams, nil
}

// endregion
