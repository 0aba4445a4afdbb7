// scoring/engine/aggregate.go
package engine

import (
	"sort"

	"github.com/birthday-games/go-services/shared/models"
)

// Strategy names the scoring representation in effect for a team at read
// time. The dual representation is a migration artifact: a team is scored
// from exactly one of the two, never both summed together.
type Strategy int

const (
	// StrategyLegacy sums team-attributed Score records.
	StrategyLegacy Strategy = iota
	// StrategyPerPlayer sums PlayerScore records over the team's roster.
	StrategyPerPlayer
)

// TeamStanding is one ranked row of the scoreboard.
type TeamStanding struct {
	Team     models.Team                `json:"team"`
	Total    float64                    `json:"total"`
	PerGame  map[models.GameKey]float64 `json:"perGame"`
	Strategy Strategy                   `json:"-"`
}

// Scoreboard aggregates one consistent read of teams, players and both score
// representations. Pure: built once from slices, queried synchronously.
type Scoreboard struct {
	teams        []models.Team
	playersByID  map[string]models.Player
	rosterByTeam map[string][]string
	scores       []models.Score
	playerScores []models.PlayerScore
}

// NewScoreboard indexes the given records. Player scores belonging to unknown
// or teamless players still count toward the player's own total, but not
// toward any team.
func NewScoreboard(teams []models.Team, players []models.Player, scores []models.Score, playerScores []models.PlayerScore) *Scoreboard {
	sb := &Scoreboard{
		teams:        teams,
		playersByID:  make(map[string]models.Player, len(players)),
		rosterByTeam: make(map[string][]string),
		scores:       scores,
		playerScores: playerScores,
	}
	for _, p := range players {
		sb.playersByID[p.ID] = p
		if p.TeamID != nil {
			sb.rosterByTeam[*p.TeamID] = append(sb.rosterByTeam[*p.TeamID], p.ID)
		}
	}
	return sb
}

// TeamStrategy picks the representation for a team: the presence of any
// player-level record for the team's roster switches the whole team to the
// per-player representation, preventing double counting mid-migration.
func (sb *Scoreboard) TeamStrategy(teamID string) Strategy {
	for _, ps := range sb.playerScores {
		if sb.onTeam(ps.PlayerID, teamID) {
			return StrategyPerPlayer
		}
	}
	return StrategyLegacy
}

// TeamTotal returns the team's total under its active representation.
func (sb *Scoreboard) TeamTotal(teamID string) float64 {
	if sb.TeamStrategy(teamID) == StrategyPerPlayer {
		total := 0.0
		for _, ps := range sb.playerScores {
			if sb.onTeam(ps.PlayerID, teamID) {
				total += float64(ps.Value)
			}
		}
		return total
	}
	total := 0.0
	for _, s := range sb.scores {
		if s.TeamID == teamID {
			total += float64(s.Value)
		}
	}
	return total
}

// PerGameTeamTotal returns the team's total for one game under its active
// representation. Under the legacy representation the single Score value for
// the (team, game) pair is returned, zero when absent; should duplicates have
// slipped past the upsert protocol, the last record wins.
func (sb *Scoreboard) PerGameTeamTotal(teamID string, game models.GameKey) float64 {
	if sb.TeamStrategy(teamID) == StrategyPerPlayer {
		total := 0.0
		for _, ps := range sb.playerScores {
			if ps.Game == game && sb.onTeam(ps.PlayerID, teamID) {
				total += float64(ps.Value)
			}
		}
		return total
	}
	value := 0.0
	for _, s := range sb.scores {
		if s.TeamID == teamID && s.Game == game {
			value = float64(s.Value)
		}
	}
	return value
}

// PlayerTotal sums a player's PlayerScore values across all games. Team-level
// scores are not attributable to individuals, so there is no fallback: a
// player with no per-player records totals zero.
func (sb *Scoreboard) PlayerTotal(playerID string) float64 {
	total := 0.0
	for _, ps := range sb.playerScores {
		if ps.PlayerID == playerID {
			total += float64(ps.Value)
		}
	}
	return total
}

// Rank orders teams by total, descending. Ties keep the relative order of the
// input team sequence; there is no secondary tie-break field.
func (sb *Scoreboard) Rank() []TeamStanding {
	standings := make([]TeamStanding, 0, len(sb.teams))
	for _, t := range sb.teams {
		perGame := make(map[models.GameKey]float64, len(models.AllGames))
		for _, g := range models.AllGames {
			perGame[g] = sb.PerGameTeamTotal(t.ID, g)
		}
		standings = append(standings, TeamStanding{
			Team:     t,
			Total:    sb.TeamTotal(t.ID),
			PerGame:  perGame,
			Strategy: sb.TeamStrategy(t.ID),
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})
	return standings
}

// onTeam reports whether the player exists and is on the given team.
func (sb *Scoreboard) onTeam(playerID, teamID string) bool {
	p, ok := sb.playersByID[playerID]
	return ok && p.TeamID != nil && *p.TeamID == teamID
}
