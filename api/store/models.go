/* models.go
 * This file contain the structs and helper functions that relate to DB objects
 */

package store

import (
	"time"

	"vex-shell/api/shared"
)

// TeamTTL is how long a cached team list stays valid. Registrations rarely change during a session
const TeamTTL = 24 * time.Hour

// CompletedTTL is how long a match list stays valid once every match in it has been scored
const CompletedTTL = 24 * time.Hour

// MatchDoc is one cached match list, keyed by the upstream query it answers
type MatchDoc struct {
	Key     string         `bson:"key"`
	TTL     int64          `bson:"ttl"` // unix expiry time
	Matches []shared.Match `bson:"matches"`
}

// TeamDoc is one cached team list, keyed by the upstream query it answers
type TeamDoc struct {
	Key   string        `bson:"key"`
	TTL   int64         `bson:"ttl"`
	Teams []shared.Team `bson:"teams"`
}

// Function to determine the expiry time of a cached match list. Lists with matches still to be played expire after ttl so
// new scores are picked up, finished lists are kept for CompletedTTL
// Preconditions: Receives the matches being stored, the base ttl and the current time
// Postconditions: Returns the unix time the document expires at
func DetermineTTL(matches []shared.Match, ttl time.Duration, now time.Time) int64 {
	if len(matches) == 0 {
		return now.Add(ttl).Unix()
	}
	for _, m := range matches {
		if !m.Scored {
			return now.Add(ttl).Unix()
		}
	}
	return now.Add(CompletedTTL).Unix()
}

// expired reports whether a document with the given unix expiry is stale at now
func expired(ttl int64, now time.Time) bool {
	return ttl <= now.Unix()
}
