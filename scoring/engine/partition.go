// scoring/engine/partition.go
package engine

import "github.com/birthday-games/go-services/shared/models"

// PartitionEvenly distributes players across teams so team sizes differ by at
// most one. Pure and deterministic: players keep their input order, the input
// slice is not mutated, and no shuffling happens here. Callers that want
// random teams shuffle before calling.
//
// With no teams the result is every player with a nil TeamID (team formation
// cleared), which is a valid terminal state rather than an error.
func PartitionEvenly(players []models.Player, teams []models.Team) []models.Player {
	updated := make([]models.Player, len(players))
	copy(updated, players)

	if len(teams) == 0 {
		for i := range updated {
			updated[i].TeamID = nil
		}
		return updated
	}

	quotas := teamQuotas(len(players), len(teams))
	counts := make([]int, len(teams))

	teamIndex := 0
	for i := range updated {
		for teamIndex < len(teams) && counts[teamIndex] >= quotas[teamIndex] {
			teamIndex++
		}
		var idx int
		if teamIndex >= len(teams) {
			// The quota formula fills every player in one pass; this branch
			// defends against rounding surprises by falling back to the
			// least-loaded team.
			idx = leastLoadedTeam(counts)
		} else {
			idx = teamIndex
		}
		counts[idx]++
		teamID := teams[idx].ID
		updated[i].TeamID = &teamID
	}

	return updated
}

// teamQuotas computes per-team target sizes: the first totalPlayers mod
// teamCount teams take one extra player.
func teamQuotas(totalPlayers, teamCount int) []int {
	base := totalPlayers / teamCount
	remainder := totalPlayers % teamCount
	quotas := make([]int, teamCount)
	for i := range quotas {
		quotas[i] = base
		if i < remainder {
			quotas[i]++
		}
	}
	return quotas
}

// leastLoadedTeam returns the index of the team with the fewest assigned
// players, ties broken by lowest index.
func leastLoadedTeam(counts []int) int {
	minIdx := 0
	for i, c := range counts {
		if c < counts[minIdx] {
			minIdx = i
		}
	}
	return minIdx
}
