// scoring/service/standings_service.go
package service

import (
	"context"

	"github.com/birthday-games/go-services/scoring/client"
	"github.com/birthday-games/go-services/scoring/engine"
	"github.com/birthday-games/go-services/shared/models"
)

// Standings is one computed scoreboard: ranked teams plus per-player totals.
type Standings struct {
	Teams        []engine.TeamStanding `json:"teams"`
	PlayerTotals map[string]float64    `json:"playerTotals"`
}

// PlayerSummary is the per-player view used for score entry: which games the
// player participates in, and their running total.
type PlayerSummary struct {
	Player models.Player    `json:"player"`
	Games  []models.GameKey `json:"games"`
	Total  float64          `json:"total"`
}

// StandingsService reads the four collections and aggregates them. All reads
// degrade to empty on backend faults so the scoreboard always renders.
type StandingsService struct {
	store  *client.RecordStoreClient
	roster *RosterService
}

func NewStandingsService(store *client.RecordStoreClient, roster *RosterService) *StandingsService {
	return &StandingsService{store: store, roster: roster}
}

// ComputeStandings takes one consistent-as-possible read of the world and
// ranks the teams.
func (ss *StandingsService) ComputeStandings(ctx context.Context) *Standings {
	teams := ss.store.Teams.ListOrEmpty(ctx)
	players := ss.store.Players.ListOrEmpty(ctx)
	scores := ss.store.Scores.ListOrEmpty(ctx)
	playerScores := ss.store.PlayerScores.ListOrEmpty(ctx)

	scoreboard := engine.NewScoreboard(teams, players, scores, playerScores)

	playerTotals := make(map[string]float64, len(players))
	for _, p := range players {
		playerTotals[p.ID] = scoreboard.PlayerTotal(p.ID)
	}

	return &Standings{
		Teams:        scoreboard.Rank(),
		PlayerTotals: playerTotals,
	}
}

// SummarizePlayer resolves the games a player enters scores for (the
// team-wide game is always synthesized, never stored) and their total.
func (ss *StandingsService) SummarizePlayer(ctx context.Context, playerID string) (*PlayerSummary, error) {
	player, err := ss.roster.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	assignments := ss.store.Assignments.ListOrEmpty(ctx)
	playerScores := ss.store.PlayerScores.ListOrEmpty(ctx)

	scoreboard := engine.NewScoreboard(nil, []models.Player{player}, nil, playerScores)

	return &PlayerSummary{
		Player: player,
		Games:  engine.GamesForPlayer(player, assignments),
		Total:  scoreboard.PlayerTotal(playerID),
	}, nil
}
