/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"
	"errors"

	"vex-shell/api/shared"
)

// ErrNotCached is returned by the getters when nothing is stored under a key or the stored copy has expired
var ErrNotCached = errors.New("not cached")

// Interface defines the methods that Store and MemoryStore implement.
// This allows for mocking in tests.
type Interface interface {
	GetMatches(ctx context.Context, key string) ([]shared.Match, error)
	PutMatches(ctx context.Context, key string, matches []shared.Match) error
	GetTeams(ctx context.Context, key string) ([]shared.Team, error)
	PutTeams(ctx context.Context, key string, teams []shared.Team) error
	Invalidate(ctx context.Context, key string) error
	Close(ctx context.Context) error
}

// Ensure Store and MemoryStore implement Interface
var (
	_ Interface = (*Store)(nil)
	_ Interface = (*MemoryStore)(nil)
)
