/* matches.go
 * Contains the methods for interacting with the matches_cache collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"vex-shell/api/shared"
)

// Function used to fetch a cached match list from db
// Preconditions: Receives a context and the key of the upstream query the list answers
// Postconditions: Returns the stored matches, ErrNotCached if there is no document or it has expired, or another
// error if the lookup failed
func (s *Store) GetMatches(ctx context.Context, key string) ([]shared.Match, error) {
	var doc MatchDoc
	err := s.Collections.Matches.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("error fetching matches from db: %w", err)
	}

	if expired(doc.TTL, s.now()) {
		s.logger.Debug("cached matches expired", zap.String("key", key))
		return nil, ErrNotCached
	}
	return doc.Matches, nil
}

// Function to store a match list, replacing any existing document for key
// Preconditions: Receives a context, the query key and the matches to store
// Postconditions: Updates the data stored in the db, returns error message if the operation was unsuccessful
func (s *Store) PutMatches(ctx context.Context, key string, matches []shared.Match) error {
	doc := MatchDoc{
		Key:     key,
		TTL:     DetermineTTL(matches, s.TTL, s.now()),
		Matches: matches,
	}

	s.logger.Debug("updating cached matches", zap.String("key", key), zap.Int("count", len(matches)))
	if err := s.upsert(ctx, s.Collections.Matches, key, doc); err != nil {
		return fmt.Errorf("failed to store matches: %w", err)
	}
	return nil
}
