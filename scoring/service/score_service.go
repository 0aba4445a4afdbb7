// scoring/service/score_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/birthday-games/go-services/scoring/client"
	"github.com/birthday-games/go-services/shared/models"
)

var ErrTeamWideGameHasNoAssignment = fmt.Errorf("the team-wide game does not take player assignments")

// ScoreService owns score and assignment writes. All writes go through the
// natural-key upsert protocol so editing never duplicates a key.
type ScoreService struct {
	store       *client.RecordStoreClient
	scorePacing time.Duration
}

func NewScoreService(store *client.RecordStoreClient, scorePacing time.Duration) *ScoreService {
	return &ScoreService{store: store, scorePacing: scorePacing}
}

// SaveTeamScore upserts the legacy team-attributed score for (team, game).
func (ss *ScoreService) SaveTeamScore(ctx context.Context, teamID string, game models.GameKey, value float64) (models.Score, error) {
	return client.Upsert(ctx, ss.store.Scores, client.SameScoreKey, models.Score{
		TeamID: teamID,
		Game:   game,
		Value:  models.Points(value),
	})
}

// SavePlayerScore upserts the per-player score for (player, game).
func (ss *ScoreService) SavePlayerScore(ctx context.Context, playerID string, game models.GameKey, value float64) (models.PlayerScore, error) {
	return client.Upsert(ctx, ss.store.PlayerScores, client.SamePlayerScoreKey, models.PlayerScore{
		PlayerID: playerID,
		Game:     game,
		Value:    models.Points(value),
	})
}

// SaveAssignment upserts which player plays a single-player game for a team.
// The team-wide game is rejected: every team member is implicitly assigned.
func (ss *ScoreService) SaveAssignment(ctx context.Context, teamID string, game models.GameKey, playerID string) (models.Assignment, error) {
	if !models.IsSinglePlayerGame(game) {
		return models.Assignment{}, ErrTeamWideGameHasNoAssignment
	}
	return client.Upsert(ctx, ss.store.Assignments, client.SameAssignmentKey, models.Assignment{
		TeamID:   teamID,
		Game:     game,
		PlayerID: playerID,
	})
}

// BatchScoreEntry is one item in a batch save; exactly one of TeamID or
// PlayerID is set.
type BatchScoreEntry struct {
	TeamID   string         `json:"teamId,omitempty"`
	PlayerID string         `json:"playerId,omitempty"`
	Game     models.GameKey `json:"game"`
	Value    float64        `json:"value"`
}

// BatchResult reports how a batch save went.
type BatchResult struct {
	Saved  int `json:"saved"`
	Failed int `json:"failed"`
}

// SaveBatch upserts a sequence of score edits, paced, skipping over
// individual failures so one bad write does not abort the rest. The caller
// re-invokes to patch up anything that failed.
func (ss *ScoreService) SaveBatch(ctx context.Context, entries []BatchScoreEntry) BatchResult {
	result := BatchResult{}
	for _, entry := range entries {
		var err error
		switch {
		case entry.PlayerID != "":
			_, err = ss.SavePlayerScore(ctx, entry.PlayerID, entry.Game, entry.Value)
		case entry.TeamID != "":
			_, err = ss.SaveTeamScore(ctx, entry.TeamID, entry.Game, entry.Value)
		default:
			err = fmt.Errorf("batch entry has neither teamId nor playerId")
		}
		if err != nil {
			log.Printf("WARN: Batch save: skipping failed entry (game %s): %v", entry.Game, err)
			result.Failed++
		} else {
			result.Saved++
		}
		if ss.scorePacing > 0 {
			time.Sleep(ss.scorePacing)
		}
	}
	return result
}
