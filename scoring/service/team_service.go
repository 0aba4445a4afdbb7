// scoring/service/team_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/birthday-games/go-services/scoring/client"
	"github.com/birthday-games/go-services/scoring/engine"
	"github.com/birthday-games/go-services/shared/models"
)

// Team count bounds for reformation. Out-of-range input is rejected outright
// rather than clamped.
const (
	MinTeamCount = 2
	MaxTeamCount = 6
)

var ErrTeamCountOutOfRange = fmt.Errorf("team count must be between %d and %d", MinTeamCount, MaxTeamCount)

// TeamService owns team reads and the bulk reformation flow.
type TeamService struct {
	store          *client.RecordStoreClient
	reassignPacing time.Duration
}

func NewTeamService(store *client.RecordStoreClient, reassignPacing time.Duration) *TeamService {
	return &TeamService{store: store, reassignPacing: reassignPacing}
}

// ListTeams returns all teams; an unreachable backend reads as empty.
func (ts *TeamService) ListTeams(ctx context.Context) []models.Team {
	return ts.store.Teams.ListOrEmpty(ctx)
}

// ReformResult summarizes one reformation run. Failed counts step failures
// that were skipped; re-running the reformation patches them up.
type ReformResult struct {
	Teams   []models.Team   `json:"teams"`
	Players []models.Player `json:"players"`
	Failed  int             `json:"failed"`
}

// ReformTeams tears down the current team formation and builds a fresh one:
// delete every team, clear every player's team reference, create the
// requested number of teams from the fixed palette, partition the roster
// evenly, and persist each player's new assignment.
//
// Every step is an independent per-record call with a pacing delay between
// writes; individual failures are logged and skipped, never rolled back. A
// failure partway leaves a partially-migrated state, and the recovery is to
// re-run the operation; each per-player update is an idempotent replace.
func (ts *TeamService) ReformTeams(ctx context.Context, teamCount int) (*ReformResult, error) {
	if teamCount < MinTeamCount || teamCount > MaxTeamCount {
		return nil, ErrTeamCountOutOfRange
	}

	result := &ReformResult{}

	// Fresh roster read so late registrations are included.
	players := ts.store.Players.ListOrEmpty(ctx)

	for _, team := range ts.store.Teams.ListOrEmpty(ctx) {
		if err := ts.store.Teams.Delete(ctx, team.ID); err != nil {
			log.Printf("WARN: Reformation: failed to delete team %s, continuing: %v", team.ID, err)
			result.Failed++
		}
		ts.pace()
	}

	for i, player := range players {
		player.TeamID = nil
		updated, err := ts.store.Players.Replace(ctx, player.ID, player)
		if err != nil {
			log.Printf("WARN: Reformation: failed to clear team for player %s, continuing: %v", player.ID, err)
			result.Failed++
		} else {
			players[i] = updated
		}
		ts.pace()
	}

	created := make([]models.Team, 0, teamCount)
	for i := 0; i < teamCount; i++ {
		entry := models.TeamPalette[i]
		team, err := ts.store.Teams.Create(ctx, models.Team{Name: entry.Name, Color: entry.Color})
		if err != nil {
			log.Printf("WARN: Reformation: failed to create team %q, continuing: %v", entry.Name, err)
			result.Failed++
			continue
		}
		created = append(created, team)
		ts.pace()
	}
	result.Teams = created

	assigned := engine.PartitionEvenly(players, created)
	for _, player := range assigned {
		updated, err := ts.store.Players.Replace(ctx, player.ID, player)
		if err != nil {
			log.Printf("WARN: Reformation: failed to assign player %s, continuing: %v", player.ID, err)
			result.Failed++
			result.Players = append(result.Players, player)
		} else {
			result.Players = append(result.Players, updated)
		}
		ts.pace()
	}

	log.Printf("INFO: Reformation finished: %d teams, %d players, %d failed steps.",
		len(result.Teams), len(result.Players), result.Failed)
	return result, nil
}

// pace sleeps between bulk writes to stay gentle with the backend. A zero
// pacing (tests) skips the sleep entirely.
func (ts *TeamService) pace() {
	if ts.reassignPacing > 0 {
		time.Sleep(ts.reassignPacing)
	}
}
