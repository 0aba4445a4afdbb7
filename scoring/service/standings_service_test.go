// scoring/service/standings_service_test.go
package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/birthday-games/go-services/scoring/client"
	"github.com/birthday-games/go-services/shared/models"
	"github.com/stretchr/testify/require"
)

func TestComputeStandingsEndToEnd(t *testing.T) {
	rsc := newTestRecordStore(t)
	rosterService := NewRosterService(rsc)
	teamService := NewTeamService(rsc, 0)
	scoreService := NewScoreService(rsc, 0)
	standingsService := NewStandingsService(rsc, rosterService)
	ctx := context.Background()

	names := []string{"Ana", "Bo", "Cy", "Di"}
	players := make([]models.Player, 0, len(names))
	for _, name := range names {
		p, err := rosterService.RegisterPlayer(ctx, RegisterPlayerInput{Name: name})
		require.NoError(t, err)
		players = append(players, p)
	}

	reform, err := teamService.ReformTeams(ctx, 2)
	require.NoError(t, err)
	teamA, teamB := reform.Teams[0], reform.Teams[1]

	// Team A scores via the legacy representation, team B per player.
	_, err = scoreService.SaveTeamScore(ctx, teamA.ID, models.GameDaytona, 10)
	require.NoError(t, err)
	_, err = scoreService.SaveTeamScore(ctx, teamA.ID, models.GameBowling, 5)
	require.NoError(t, err)

	var teamBPlayer models.Player
	for _, p := range reform.Players {
		if *p.TeamID == teamB.ID {
			teamBPlayer = p
			break
		}
	}
	require.NotEmpty(t, teamBPlayer.ID)
	_, err = scoreService.SavePlayerScore(ctx, teamBPlayer.ID, models.GameBowling, 20)
	require.NoError(t, err)

	standings := standingsService.ComputeStandings(ctx)
	require.Len(t, standings.Teams, 2)

	require.Equal(t, teamB.ID, standings.Teams[0].Team.ID)
	require.Equal(t, 20.0, standings.Teams[0].Total)
	require.Equal(t, teamA.ID, standings.Teams[1].Team.ID)
	require.Equal(t, 15.0, standings.Teams[1].Total)

	require.Len(t, standings.PlayerTotals, len(players))
	require.Equal(t, 20.0, standings.PlayerTotals[teamBPlayer.ID])
	for _, p := range players {
		if p.ID != teamBPlayer.ID {
			require.Equal(t, 0.0, standings.PlayerTotals[p.ID])
		}
	}
}

func TestComputeStandingsUnreachableBackendRendersEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	rsc := client.NewRecordStoreClient(srv.URL, nil)

	standingsService := NewStandingsService(rsc, NewRosterService(rsc))
	standings := standingsService.ComputeStandings(context.Background())

	require.Empty(t, standings.Teams)
	require.Empty(t, standings.PlayerTotals)
}

func TestSummarizePlayer(t *testing.T) {
	rsc := newTestRecordStore(t)
	rosterService := NewRosterService(rsc)
	scoreService := NewScoreService(rsc, 0)
	standingsService := NewStandingsService(rsc, rosterService)
	ctx := context.Background()

	player, err := rosterService.RegisterPlayer(ctx, RegisterPlayerInput{Name: "Solo"})
	require.NoError(t, err)

	// Put the player on a team and assign them a game.
	teamID := "team-x"
	player.TeamID = &teamID
	player, err = rsc.Players.Replace(ctx, player.ID, player)
	require.NoError(t, err)

	_, err = scoreService.SaveAssignment(ctx, teamID, models.GameAirTejo, player.ID)
	require.NoError(t, err)
	_, err = scoreService.SavePlayerScore(ctx, player.ID, models.GameBowling, 7)
	require.NoError(t, err)
	_, err = scoreService.SavePlayerScore(ctx, player.ID, models.GameAirTejo, 3)
	require.NoError(t, err)

	summary, err := standingsService.SummarizePlayer(ctx, player.ID)
	require.NoError(t, err)

	require.Equal(t, player.ID, summary.Player.ID)
	require.Equal(t, []models.GameKey{models.TeamWideGame, models.GameAirTejo}, summary.Games)
	require.Equal(t, 10.0, summary.Total)
}

func TestSummarizePlayerTeamless(t *testing.T) {
	rsc := newTestRecordStore(t)
	rosterService := NewRosterService(rsc)
	standingsService := NewStandingsService(rsc, rosterService)
	ctx := context.Background()

	player, err := rosterService.RegisterPlayer(ctx, RegisterPlayerInput{Name: "Drifter"})
	require.NoError(t, err)

	summary, err := standingsService.SummarizePlayer(ctx, player.ID)
	require.NoError(t, err)
	require.Equal(t, []models.GameKey{models.TeamWideGame}, summary.Games)
	require.Equal(t, 0.0, summary.Total)
}

func TestSummarizePlayerNotFound(t *testing.T) {
	rsc := newTestRecordStore(t)
	standingsService := NewStandingsService(rsc, NewRosterService(rsc))

	_, err := standingsService.SummarizePlayer(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrPlayerNotFound)
}
