// scoring/service/roster_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/birthday-games/go-services/scoring/client"
	"github.com/birthday-games/go-services/shared/api"
	"github.com/birthday-games/go-services/shared/models"
)

// Errors the API layer maps to HTTP statuses.
var (
	ErrPlayerNotFound = fmt.Errorf("player not found")
	ErrNameRequired   = fmt.Errorf("player name is required")
	ErrInvalidSkill   = fmt.Errorf("skill ratings must be between %d and %d", models.SkillMin, models.SkillMax)
	ErrUnknownAvatar  = fmt.Errorf("unknown avatar key")
	ErrAdminRequired  = fmt.Errorf("admin privileges required")
)

// RegisterPlayerInput is the payload for self-registration and for the admin
// creation path (the only one that may set the admin flag).
type RegisterPlayerInput struct {
	Name      string                 `json:"name"`
	Skills    map[models.GameKey]int `json:"skills"`
	AvatarKey *string                `json:"avatarKey"`
	Phrase    *string                `json:"phrase"`
	IsAdmin   bool                   `json:"-"`
}

// RosterService owns player registration and lookup.
type RosterService struct {
	store *client.RecordStoreClient
}

func NewRosterService(store *client.RecordStoreClient) *RosterService {
	return &RosterService{store: store}
}

// RegisterPlayer validates and creates a player. New players are always
// teamless; the reformation flow is what hands out team ids.
func (rs *RosterService) RegisterPlayer(ctx context.Context, input RegisterPlayerInput) (models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Player{}, ErrNameRequired
	}

	skills := models.DefaultSkills()
	for game, level := range input.Skills {
		if _, err := models.ParseGameKey(string(game)); err != nil {
			return models.Player{}, fmt.Errorf("%w: %v", ErrInvalidSkill, err)
		}
		if level < models.SkillMin || level > models.SkillMax {
			return models.Player{}, ErrInvalidSkill
		}
		skills[game] = level
	}

	if input.AvatarKey != nil && !models.IsValidAvatarKey(*input.AvatarKey) {
		return models.Player{}, fmt.Errorf("%w: %q", ErrUnknownAvatar, *input.AvatarKey)
	}

	var phrase *string
	if input.Phrase != nil {
		if trimmed := strings.TrimSpace(*input.Phrase); trimmed != "" {
			phrase = &trimmed
		}
	}

	candidate := models.Player{
		Name:      name,
		Skills:    skills,
		TeamID:    nil,
		IsAdmin:   input.IsAdmin,
		AvatarKey: input.AvatarKey,
		Phrase:    phrase,
	}

	created, err := rs.store.Players.Create(ctx, candidate)
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to register player: %w", err)
	}
	return created, nil
}

// GetPlayer fetches one player by id.
func (rs *RosterService) GetPlayer(ctx context.Context, id string) (models.Player, error) {
	player, err := rs.store.Players.Get(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return models.Player{}, ErrPlayerNotFound
		}
		return models.Player{}, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return player, nil
}

// ListPlayers returns the full roster; an unreachable backend reads as empty.
func (rs *RosterService) ListPlayers(ctx context.Context) []models.Player {
	return rs.store.Players.ListOrEmpty(ctx)
}

// DeletePlayer removes a player record. Admin-gating happens at the API layer.
func (rs *RosterService) DeletePlayer(ctx context.Context, id string) error {
	if err := rs.store.Players.Delete(ctx, id); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return nil
}

// IsAdmin reads the admin flag from the player's record, trusted as-is.
func (rs *RosterService) IsAdmin(ctx context.Context, playerID string) (bool, error) {
	player, err := rs.GetPlayer(ctx, playerID)
	if err != nil {
		return false, err
	}
	return player.IsAdmin, nil
}
