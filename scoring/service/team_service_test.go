// scoring/service/team_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/birthday-games/go-services/shared/models"
	"github.com/stretchr/testify/require"
)

func TestReformTeamsCountValidation(t *testing.T) {
	ts := NewTeamService(newTestRecordStore(t), 0)
	ctx := context.Background()

	for _, count := range []int{-1, 0, 1, 7, 100} {
		_, err := ts.ReformTeams(ctx, count)
		require.ErrorIs(t, err, ErrTeamCountOutOfRange, "count %d", count)
	}
}

func TestReformTeamsFromScratch(t *testing.T) {
	rsc := newTestRecordStore(t)
	rosterService := NewRosterService(rsc)
	teamService := NewTeamService(rsc, 0)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := rosterService.RegisterPlayer(ctx, RegisterPlayerInput{Name: fmt.Sprintf("Player %d", i)})
		require.NoError(t, err)
	}

	result, err := teamService.ReformTeams(ctx, 3)
	require.NoError(t, err)
	require.Zero(t, result.Failed)
	require.Len(t, result.Teams, 3)
	require.Len(t, result.Players, 7)

	// Teams come from the fixed palette, in order.
	for i, team := range result.Teams {
		require.Equal(t, models.TeamPalette[i].Name, team.Name)
		require.Equal(t, models.TeamPalette[i].Color, team.Color)
		require.NotEmpty(t, team.ID)
	}

	counts := make(map[string]int)
	for _, p := range result.Players {
		require.NotNil(t, p.TeamID)
		counts[*p.TeamID]++
	}
	require.Len(t, counts, 3)
	for _, c := range counts {
		require.GreaterOrEqual(t, c, 2)
		require.LessOrEqual(t, c, 3)
	}

	// The persisted state matches the reported result.
	persisted := rosterService.ListPlayers(ctx)
	require.Len(t, persisted, 7)
	for _, p := range persisted {
		require.NotNil(t, p.TeamID)
	}
}

func TestReformTeamsReplacesOldFormation(t *testing.T) {
	rsc := newTestRecordStore(t)
	rosterService := NewRosterService(rsc)
	teamService := NewTeamService(rsc, 0)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := rosterService.RegisterPlayer(ctx, RegisterPlayerInput{Name: fmt.Sprintf("Player %d", i)})
		require.NoError(t, err)
	}

	first, err := teamService.ReformTeams(ctx, 2)
	require.NoError(t, err)
	oldTeamIDs := map[string]bool{}
	for _, team := range first.Teams {
		oldTeamIDs[team.ID] = true
	}

	second, err := teamService.ReformTeams(ctx, 4)
	require.NoError(t, err)
	require.Zero(t, second.Failed)
	require.Len(t, second.Teams, 4)

	// Old teams are gone, not reused.
	current := teamService.ListTeams(ctx)
	require.Len(t, current, 4)
	for _, team := range current {
		require.False(t, oldTeamIDs[team.ID], "team %s should have been deleted", team.ID)
	}

	// No player still points at a deleted team.
	currentIDs := map[string]bool{}
	for _, team := range current {
		currentIDs[team.ID] = true
	}
	for _, p := range rosterService.ListPlayers(ctx) {
		require.NotNil(t, p.TeamID)
		require.True(t, currentIDs[*p.TeamID])
	}
}

func TestReformTeamsIncludesLateRegistrations(t *testing.T) {
	rsc := newTestRecordStore(t)
	rosterService := NewRosterService(rsc)
	teamService := NewTeamService(rsc, 0)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := rosterService.RegisterPlayer(ctx, RegisterPlayerInput{Name: fmt.Sprintf("Early %d", i)})
		require.NoError(t, err)
	}
	_, err := teamService.ReformTeams(ctx, 2)
	require.NoError(t, err)

	late, err := rosterService.RegisterPlayer(ctx, RegisterPlayerInput{Name: "Latecomer"})
	require.NoError(t, err)
	require.Nil(t, late.TeamID)

	result, err := teamService.ReformTeams(ctx, 2)
	require.NoError(t, err)
	require.Len(t, result.Players, 5)

	refetched, err := rosterService.GetPlayer(ctx, late.ID)
	require.NoError(t, err)
	require.NotNil(t, refetched.TeamID)
}

func TestReformTeamsEmptyRoster(t *testing.T) {
	teamService := NewTeamService(newTestRecordStore(t), 0)

	result, err := teamService.ReformTeams(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, result.Teams, 2)
	require.Empty(t, result.Players)
	require.Zero(t, result.Failed)
}
