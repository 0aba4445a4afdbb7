// shared/models/games.go
package models

import "fmt"

// GameKey identifies one of the fixed mini-games. The string values are
// contract constants shared with the record store and must not change:
// they double as natural-key components and filter predicates.
type GameKey string

const (
	GameDaytona GameKey = "daytona"
	GameBasket  GameKey = "basket"
	GamePumpIt  GameKey = "pump_it"
	GameAirTejo GameKey = "air_tejo"
	GamePunch   GameKey = "punch"
	GameBowling GameKey = "bowling"
)

// TeamWideGame is played by the whole team at once; it never gets an
// Assignment record, every team member is implicitly assigned to it.
const TeamWideGame = GameBowling

// AllGames lists every game in display order.
var AllGames = []GameKey{GameDaytona, GameBasket, GamePumpIt, GameAirTejo, GamePunch, GameBowling}

// SinglePlayerGames are the games that need exactly one assigned player per team.
var SinglePlayerGames = []GameKey{GameDaytona, GameBasket, GamePumpIt, GameAirTejo, GamePunch}

// ParseGameKey validates a raw string against the fixed game set.
func ParseGameKey(raw string) (GameKey, error) {
	for _, g := range AllGames {
		if string(g) == raw {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown game %q", raw)
}

// IsSinglePlayerGame reports whether the game requires a per-team player assignment.
func IsSinglePlayerGame(g GameKey) bool {
	return g != TeamWideGame
}

// Skill self-ratings are ordinal levels on a fixed 1..5 scale.
const (
	SkillMin          = 1
	SkillMax          = 5
	SkillDefaultLevel = 3
)

// AvatarKeys is the fixed avatar catalog players may pick from.
var AvatarKeys = []string{"cat", "dog", "panda", "fox", "bear", "bunny"}

// IsValidAvatarKey reports whether key is part of the avatar catalog.
func IsValidAvatarKey(key string) bool {
	for _, k := range AvatarKeys {
		if k == key {
			return true
		}
	}
	return false
}

// TeamPalette is the fixed set of names and colors used when teams are
// (re)formed; teams are created in this order.
var TeamPalette = []struct {
	Name  string
	Color string
}{
	{"Red Team", "#EF4444"},
	{"Blue Team", "#3B82F6"},
	{"Green Team", "#10B981"},
	{"Yellow Team", "#F59E0B"},
	{"Purple Team", "#8B5CF6"},
	{"Orange Team", "#F97316"},
}
