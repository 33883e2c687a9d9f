/* teams.go
 * Contains the methods for interacting with the teams_cache collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"vex-shell/api/shared"
)

// GetTeams returns the cached team list for key, or ErrNotCached
func (s *Store) GetTeams(ctx context.Context, key string) ([]shared.Team, error) {
	var doc TeamDoc
	err := s.Collections.Teams.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("error fetching teams from db: %w", err)
	}

	if expired(doc.TTL, s.now()) {
		return nil, ErrNotCached
	}
	return doc.Teams, nil
}

// PutTeams stores a team list under key for TeamTTL
func (s *Store) PutTeams(ctx context.Context, key string, teams []shared.Team) error {
	doc := TeamDoc{
		Key:   key,
		TTL:   s.now().Add(TeamTTL).Unix(),
		Teams: teams,
	}
	if err := s.upsert(ctx, s.Collections.Teams, key, doc); err != nil {
		return fmt.Errorf("failed to store teams: %w", err)
	}
	return nil
}
