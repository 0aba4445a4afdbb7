// scoring/engine/assignments.go
package engine

import "github.com/birthday-games/go-services/shared/models"

// GamesForPlayer lists the games a player enters scores for: the team-wide
// game first (every team member is implicitly assigned to it, no Assignment
// record ever exists for it), then the single-player games the player is
// assigned to on their team. A teamless player still plays the team-wide game.
func GamesForPlayer(player models.Player, assignments []models.Assignment) []models.GameKey {
	games := []models.GameKey{models.TeamWideGame}
	if player.TeamID == nil {
		return games
	}
	for _, a := range assignments {
		if a.TeamID == *player.TeamID && a.PlayerID == player.ID {
			games = append(games, a.Game)
		}
	}
	return games
}

// TeamAssignments filters the assignments belonging to one team.
func TeamAssignments(teamID string, assignments []models.Assignment) []models.Assignment {
	var out []models.Assignment
	for _, a := range assignments {
		if a.TeamID == teamID {
			out = append(out, a)
		}
	}
	return out
}
