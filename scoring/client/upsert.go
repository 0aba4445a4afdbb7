// scoring/client/upsert.go
package client

import (
	"context"

	"github.com/birthday-games/go-services/shared/models"
)

// Upsert implements the natural-key upsert protocol over the primitive
// create/replace backend: list the collection, scan for a record matching the
// candidate's natural key, replace it in place or insert a new one. After a
// successful call exactly one record with that key exists, absent interleaved
// concurrent writers (last write wins; there is no version check).
//
// Failures from either round trip surface unmodified; there is no retry. The
// write is a single atomic record operation, so a crash between the two trips
// leaves the collection either untouched or already upserted, never corrupted.
func Upsert[T models.Record](ctx context.Context, col *Collection[T], sameKey func(a, b T) bool, candidate T) (T, error) {
	existing, err := col.List(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	for _, rec := range existing {
		if sameKey(rec, candidate) {
			return col.Replace(ctx, rec.RecordID(), candidate)
		}
	}
	return col.Create(ctx, candidate)
}

// Natural-key matchers for the three upserting collections.

// SameAssignmentKey: one assignment per (team, game).
func SameAssignmentKey(a, b models.Assignment) bool {
	return a.TeamID == b.TeamID && a.Game == b.Game
}

// SameScoreKey: one team-level score per (team, game).
func SameScoreKey(a, b models.Score) bool {
	return a.TeamID == b.TeamID && a.Game == b.Game
}

// SamePlayerScoreKey: one player score per (player, game).
func SamePlayerScoreKey(a, b models.PlayerScore) bool {
	return a.PlayerID == b.PlayerID && a.Game == b.Game
}
