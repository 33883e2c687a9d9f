/* store.go
 * Contains the mongo backed Store and NewStore function. Cached match lists live in matches_cache and cached team
 * lists in teams_cache; the methods for each are in matches.go and teams.go
 */

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	TTL         time.Duration
	Collections struct {
		Matches *mongo.Collection
		Teams   *mongo.Collection
	}

	logger *zap.Logger
	now    func() time.Time
}

// Function for initialising Store. Connects to the db and sets the collections
// Preconditions: Receives a context, strings containing dbName and mongoURI, and the ttl used for unfinished match lists
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string, ttl time.Duration, logger *zap.Logger) (*Store, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
		TTL:      ttl,
		logger:   logger,
		now:      time.Now,
	}
	s.Collections.Matches = db.Collection("matches_cache")
	s.Collections.Teams = db.Collection("teams_cache")
	return s, nil
}

// Invalidate removes the cached documents stored under key from both collections
func (s *Store) Invalidate(ctx context.Context, key string) error {
	filter := bson.M{"key": key}
	if _, err := s.Collections.Matches.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to invalidate matches for %s: %w", key, err)
	}
	if _, err := s.Collections.Teams.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to invalidate teams for %s: %w", key, err)
	}
	return nil
}

// Close disconnects the mongo client
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// upsert replaces the document stored under key in coll, inserting it if it does not exist
func (s *Store) upsert(ctx context.Context, coll *mongo.Collection, key string, doc any) error {
	filter := bson.M{"key": key}
	update := bson.M{"$set": doc}
	_, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
