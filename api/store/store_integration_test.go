/* store_integration_test.go
 * Contains integration tests for the mongo backed Store. They run against MONGO_TEST_URI and are skipped without it
 */

package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vex-shell/api/shared"
)

// NewTestStore connects to a fresh database on MONGO_TEST_URI and drops it when the test ends
func NewTestStore(t *testing.T) *Store {
	t.Helper()
	mongoURI := os.Getenv("MONGO_TEST_URI")
	if mongoURI == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	dbName := fmt.Sprintf("test_vexshell_%d", time.Now().UnixNano())
	s, err := NewStore(ctx, dbName, mongoURI, 5*time.Minute, zaptest.NewLogger(t))
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Database.Drop(ctx)
		s.Close(ctx)
	})
	return s
}

func TestNewStore_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewStore(ctx, "", "mongodb://localhost", time.Minute, nil)
	assert.Error(t, err)

	_, err = NewStore(ctx, "db", "", time.Minute, nil)
	assert.Error(t, err)

	_, err = NewStore(ctx, "db", "mongodb://localhost", 0, nil)
	assert.Error(t, err)
}

func TestStore_Collections(t *testing.T) {
	s := NewTestStore(t)

	assert.Equal(t, "matches_cache", s.Collections.Matches.Name())
	assert.Equal(t, "teams_cache", s.Collections.Teams.Name())
}

func TestStore_MatchesRoundTrip(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	_, err := s.GetMatches(ctx, "matches?sku=RE-1")
	assert.ErrorIs(t, err, ErrNotCached)

	require.NoError(t, s.PutMatches(ctx, "matches?sku=RE-1", unfinished))
	got, err := s.GetMatches(ctx, "matches?sku=RE-1")
	require.NoError(t, err)
	assert.Equal(t, unfinished, got)

	// a second put replaces the document
	require.NoError(t, s.PutMatches(ctx, "matches?sku=RE-1", finished))
	got, err = s.GetMatches(ctx, "matches?sku=RE-1")
	require.NoError(t, err)
	assert.Equal(t, finished, got)

	count, err := s.Collections.Matches.CountDocuments(ctx, map[string]string{"key": "matches?sku=RE-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_ExpiredMatchesAreNotCached(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.PutMatches(ctx, "k", unfinished))

	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	_, err := s.GetMatches(ctx, "k")
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestStore_TeamsAndInvalidate(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()
	teams := []shared.Team{{Number: "750A", Name: "Alpha"}}

	require.NoError(t, s.PutTeams(ctx, "k", teams))
	require.NoError(t, s.PutMatches(ctx, "k", finished))

	got, err := s.GetTeams(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, teams, got)

	require.NoError(t, s.Invalidate(ctx, "k"))
	_, err = s.GetTeams(ctx, "k")
	assert.ErrorIs(t, err, ErrNotCached)
	_, err = s.GetMatches(ctx, "k")
	assert.ErrorIs(t, err, ErrNotCached)
}
