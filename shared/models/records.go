// shared/models/records.go
package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Record is implemented by every persisted record type. The record store
// assigns the id on create; an empty id means "not yet persisted".
type Record interface {
	RecordID() string
}

// Points is a score value as stored by the schemaless record store. The
// backend does not validate values, so decoding must never fail: anything
// that is not a number (or a numeric string) coerces to zero.
type Points float64

func (p *Points) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) == 0 || s == "null" {
		*p = 0
		return nil
	}
	if s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			*p = 0
			return nil
		}
		*p = Points(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*p = 0
		return nil
	}
	*p = Points(f)
	return nil
}

// Player is a self-registered participant. TeamID is nil while the player is
// unassigned; it only ever points at an existing Team (the reformation flow is
// the single path that rewrites it at scale).
type Player struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Skills    map[GameKey]int `json:"skills"`
	TeamID    *string         `json:"teamId"`
	IsAdmin   bool            `json:"isAdmin,omitempty"`
	AvatarKey *string         `json:"avatarKey,omitempty"`
	Phrase    *string         `json:"phrase,omitempty"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
}

func (p Player) RecordID() string { return p.ID }

// Team is created by admin team formation and deleted wholesale when teams are
// reformed; it is never partially edited and reused across a reformation.
type Team struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (t Team) RecordID() string { return t.ID }

// Assignment maps one (team, single-player game) pair to the one player who
// plays that game for the team. Natural key: (TeamID, Game). The team-wide
// game never has an Assignment record.
type Assignment struct {
	ID        string     `json:"id"`
	TeamID    string     `json:"teamId"`
	Game      GameKey    `json:"game"`
	PlayerID  string     `json:"playerId"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (a Assignment) RecordID() string { return a.ID }

// Score is the legacy team-attributed representation. Natural key: (TeamID, Game).
type Score struct {
	ID        string     `json:"id"`
	TeamID    string     `json:"teamId"`
	Game      GameKey    `json:"game"`
	Value     Points     `json:"value"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (s Score) RecordID() string { return s.ID }

// PlayerScore is the per-player representation. Natural key: (PlayerID, Game).
type PlayerScore struct {
	ID        string     `json:"id"`
	PlayerID  string     `json:"playerId"`
	Game      GameKey    `json:"game"`
	Value     Points     `json:"value"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (s PlayerScore) RecordID() string { return s.ID }

// Collection names on the record store.
const (
	CollectionPlayers      = "players"
	CollectionTeams        = "teams"
	CollectionAssignments  = "assignments"
	CollectionScores       = "scores"
	CollectionPlayerScores = "playerScores"
)

// Collections lists every collection the record store serves.
var Collections = []string{
	CollectionPlayers,
	CollectionTeams,
	CollectionAssignments,
	CollectionScores,
	CollectionPlayerScores,
}

// DefaultSkills returns a full skill map at the default level, used when a
// registration omits some or all ratings.
func DefaultSkills() map[GameKey]int {
	skills := make(map[GameKey]int, len(AllGames))
	for _, g := range AllGames {
		skills[g] = SkillDefaultLevel
	}
	return skills
}
