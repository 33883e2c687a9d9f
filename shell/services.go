/* services.go
 * Contains the collaborator interfaces the dispatcher routes commands to
 */

package shell

import (
	"context"

	"vex-shell/api/shared"
)

// MatchService answers match queries for a scope
type MatchService interface {
	Load(ctx context.Context, scope shared.Scope) ([]shared.Match, error)
	Next(ctx context.Context, scope shared.Scope) (shared.Match, error)
	Prev(ctx context.Context, scope shared.Scope) (shared.Match, error)
	Lookup(ctx context.Context, scope shared.Scope, n int) (shared.Match, error)
}

// StatsService renders statistics for a team or organization scope
type StatsService interface {
	Summary(ctx context.Context, scope shared.Scope) (string, error)
	Graph(ctx context.Context, scope shared.Scope) (string, error)
	Competition(ctx context.Context, scope shared.Scope) (string, error)
	Rank(ctx context.Context, scope shared.Scope) (string, error)
}

// HistoryService handles every command issued inside a History context
type HistoryService interface {
	History(ctx context.Context, scope shared.Scope, verb string, args []string) (string, error)
}

// OrganizationService lists the teams registered under an organization code
type OrganizationService interface {
	Teams(ctx context.Context, organization string) ([]shared.Team, error)
}

// Waiter blocks until the next match in scope has been scored
type Waiter interface {
	Wait(ctx context.Context, scope shared.Scope) (shared.Match, error)
}

// ConfigService is the configuration collaborator behind the Config context
type ConfigService interface {
	Keys() []string
	Get(key string) (string, error)
	Set(key string, value string) error
	Update() (bool, error)
}

// Services groups the collaborators handed to NewDispatcher. A nil collaborator makes its commands fail with an
// error rather than panic.
type Services struct {
	Matches       MatchService
	Stats         StatsService
	History       HistoryService
	Organizations OrganizationService
	Waiter        Waiter
	Config        ConfigService
}
