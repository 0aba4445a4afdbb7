// scoring/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/birthday-games/go-services/scoring/service"
	"github.com/birthday-games/go-services/scoring/store"
	"github.com/birthday-games/go-services/scoring/syncer"
	"github.com/birthday-games/go-services/shared/api"
	"github.com/birthday-games/go-services/shared/models"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	redisu "github.com/birthday-games/go-services/shared/redis"
)

// DeviceIDHeader carries the caller's device id; handlers resolve the acting
// player from it via the identity store.
const DeviceIDHeader = "X-Device-ID"

// ScoringAPIHandlers holds references to the services that handle business logic.
type ScoringAPIHandlers struct {
	RosterService    *service.RosterService
	TeamService      *service.TeamService
	ScoreService     *service.ScoreService
	StandingsService *service.StandingsService
	IdentityStore    *store.IdentityStore
	RedisClient      *redis.ClusterClient
}

// NewScoringAPIHandlers is the constructor for the API handlers.
func NewScoringAPIHandlers(
	rs *service.RosterService,
	ts *service.TeamService,
	scs *service.ScoreService,
	sts *service.StandingsService,
	is *store.IdentityStore,
	redisClient *redis.ClusterClient,
) *ScoringAPIHandlers {
	return &ScoringAPIHandlers{
		RosterService:    rs,
		TeamService:      ts,
		ScoreService:     scs,
		StandingsService: sts,
		IdentityStore:    is,
		RedisClient:      redisClient,
	}
}

// --- Request/Response DTOs ---

type RegisterPlayerRequest struct {
	Name      string                 `json:"name"`
	Skills    map[models.GameKey]int `json:"skills,omitempty"`
	AvatarKey *string                `json:"avatarKey,omitempty"`
	Phrase    *string                `json:"phrase,omitempty"`
	IsAdmin   bool                   `json:"isAdmin,omitempty"`
}

type ReformTeamsRequest struct {
	TeamCount int `json:"teamCount"`
}

type SaveScoreRequest struct {
	Value float64 `json:"value"`
}

type SaveAssignmentRequest struct {
	PlayerID string `json:"playerId"`
}

type BatchScoresRequest struct {
	Entries []service.BatchScoreEntry `json:"entries"`
}

type SetIdentityRequest struct {
	PlayerID string `json:"playerId"`
}

type IdentityResponse struct {
	DeviceID string `json:"deviceId"`
	PlayerID string `json:"playerId"`
}

// --- Admin gating ---

// actingPlayerID resolves the caller's player id from the X-Device-ID header.
func (sah *ScoringAPIHandlers) actingPlayerID(ctx context.Context, r *http.Request) (string, error) {
	deviceID := r.Header.Get(DeviceIDHeader)
	if deviceID == "" {
		return "", fmt.Errorf("missing %s header", DeviceIDHeader)
	}
	return sah.IdentityStore.GetIdentity(ctx, deviceID)
}

// requireAdmin checks that the caller is an admin. It writes the error
// response itself and reports whether the caller may proceed.
func (sah *ScoringAPIHandlers) requireAdmin(ctx context.Context, w http.ResponseWriter, r *http.Request) bool {
	playerID, err := sah.actingPlayerID(ctx, r)
	if err != nil {
		api.WriteError(w, http.StatusForbidden, "Admin access requires an identified device")
		return false
	}

	isAdmin, err := sah.RosterService.IsAdmin(ctx, playerID)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			api.WriteError(w, http.StatusForbidden, "Acting player not found")
		} else {
			log.Printf("ERROR: Failed to check admin flag for player %s: %v", playerID, err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to verify admin access")
		}
		return false
	}
	if !isAdmin {
		api.WriteError(w, http.StatusForbidden, service.ErrAdminRequired.Error())
		return false
	}
	return true
}

// --- Roster handlers ---

// RegisterPlayerHandler handles player self-registration.
// POST /players
func (sah *ScoringAPIHandlers) RegisterPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The admin flag is only settable by an existing admin.
	if req.IsAdmin && !sah.requireAdmin(ctx, w, r) {
		return
	}

	player, err := sah.RosterService.RegisterPlayer(ctx, service.RegisterPlayerInput{
		Name:      req.Name,
		Skills:    req.Skills,
		AvatarKey: req.AvatarKey,
		Phrase:    req.Phrase,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrInvalidSkill),
			errors.Is(err, service.ErrUnknownAvatar):
			api.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR: Failed to register player %q: %v", req.Name, err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to register player")
		}
		return
	}

	api.WriteJSON(w, http.StatusCreated, player)
	log.Printf("INFO: Player %q registered with id %s.", player.Name, player.ID)
}

// GetPlayerHandler retrieves one player by id.
// GET /players/{id}
func (sah *ScoringAPIHandlers) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	player, err := sah.RosterService.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			api.WriteError(w, http.StatusNotFound, fmt.Sprintf("Player %s not found", id))
		} else {
			log.Printf("ERROR: Failed to get player %s: %v", id, err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to retrieve player")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, player)
}

// ListPlayersHandler returns the full roster.
// GET /players
func (sah *ScoringAPIHandlers) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	players := sah.RosterService.ListPlayers(ctx)
	api.WriteJSON(w, http.StatusOK, players)
}

// DeletePlayerHandler removes a player. Admin only.
// DELETE /players/{id}
func (sah *ScoringAPIHandlers) DeletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !sah.requireAdmin(ctx, w, r) {
		return
	}

	if err := sah.RosterService.DeletePlayer(ctx, id); err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			api.WriteError(w, http.StatusNotFound, fmt.Sprintf("Player %s not found", id))
		} else {
			log.Printf("ERROR: Failed to delete player %s: %v", id, err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to delete player")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Player %s deleted", id)})
}

// PlayerGamesHandler returns the per-player summary: the games the player
// participates in and their running total.
// GET /players/{id}/games
func (sah *ScoringAPIHandlers) PlayerGamesHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := sah.StandingsService.SummarizePlayer(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			api.WriteError(w, http.StatusNotFound, fmt.Sprintf("Player %s not found", id))
		} else {
			log.Printf("ERROR: Failed to summarize player %s: %v", id, err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to summarize player")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, summary)
}

// --- Team handlers ---

// ListTeamsHandler returns the current teams.
// GET /teams
func (sah *ScoringAPIHandlers) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	teams := sah.TeamService.ListTeams(ctx)
	api.WriteJSON(w, http.StatusOK, teams)
}

// ReformTeamsHandler tears the teams down and rebuilds a balanced partition.
// Admin only. The reassignment loop is paced, so the timeout here is generous.
// POST /teams/reform
func (sah *ScoringAPIHandlers) ReformTeamsHandler(w http.ResponseWriter, r *http.Request) {
	var req ReformTeamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	if !sah.requireAdmin(ctx, w, r) {
		return
	}

	result, err := sah.TeamService.ReformTeams(ctx, req.TeamCount)
	if err != nil {
		if errors.Is(err, service.ErrTeamCountOutOfRange) {
			api.WriteError(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("ERROR: Failed to reform teams: %v", err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to reform teams")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, result)
	log.Printf("INFO: Teams reformed into %d teams for %d players (%d step failures).", len(result.Teams), len(result.Players), result.Failed)
}

// --- Score handlers ---

// SaveTeamScoreHandler upserts a team-attributed score. Admin only.
// PUT /teams/{teamId}/scores/{game}
func (sah *ScoringAPIHandlers) SaveTeamScoreHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	teamID := vars["teamId"]
	game, err := models.ParseGameKey(vars["game"])
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !sah.requireAdmin(ctx, w, r) {
		return
	}

	score, err := sah.ScoreService.SaveTeamScore(ctx, teamID, game, req.Value)
	if err != nil {
		log.Printf("ERROR: Failed to save score for team %s game %s: %v", teamID, game, err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to save team score")
		return
	}

	api.WriteJSON(w, http.StatusOK, score)
}

// SavePlayerScoreHandler upserts a per-player score. Admin only.
// PUT /players/{playerId}/scores/{game}
func (sah *ScoringAPIHandlers) SavePlayerScoreHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	playerID := vars["playerId"]
	game, err := models.ParseGameKey(vars["game"])
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !sah.requireAdmin(ctx, w, r) {
		return
	}

	score, err := sah.ScoreService.SavePlayerScore(ctx, playerID, game, req.Value)
	if err != nil {
		log.Printf("ERROR: Failed to save score for player %s game %s: %v", playerID, game, err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to save player score")
		return
	}

	api.WriteJSON(w, http.StatusOK, score)
}

// SaveAssignmentHandler upserts which player plays a game for a team. Admin only.
// PUT /teams/{teamId}/assignments/{game}
func (sah *ScoringAPIHandlers) SaveAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	teamID := vars["teamId"]
	game, err := models.ParseGameKey(vars["game"])
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SaveAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerID == "" {
		api.WriteError(w, http.StatusBadRequest, "Player id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !sah.requireAdmin(ctx, w, r) {
		return
	}

	assignment, err := sah.ScoreService.SaveAssignment(ctx, teamID, game, req.PlayerID)
	if err != nil {
		if errors.Is(err, service.ErrTeamWideGameHasNoAssignment) {
			api.WriteError(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("ERROR: Failed to save assignment for team %s game %s: %v", teamID, game, err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to save assignment")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, assignment)
}

// BatchScoresHandler saves many score entries in one paced pass. Admin only.
// POST /scores/batch
func (sah *ScoringAPIHandlers) BatchScoresHandler(w http.ResponseWriter, r *http.Request) {
	var req BatchScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	if !sah.requireAdmin(ctx, w, r) {
		return
	}

	result := sah.ScoreService.SaveBatch(ctx, req.Entries)
	api.WriteJSON(w, http.StatusOK, result)
	log.Printf("INFO: Batch score save finished: %d saved, %d failed.", result.Saved, result.Failed)
}

// --- Standings handlers ---

// StandingsHandler computes the standings live from the record store.
// GET /standings
func (sah *ScoringAPIHandlers) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	standings := sah.StandingsService.ComputeStandings(ctx)
	api.WriteJSON(w, http.StatusOK, standings)
}

// StandingsSnapshotHandler serves the cached standings snapshot written by the
// leader-elected sync job.
// GET /standings/snapshot
func (sah *ScoringAPIHandlers) StandingsSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	standings, err := syncer.Snapshot(ctx, sah.RedisClient)
	if err != nil {
		if errors.Is(err, redisu.ErrRedisKeyNotFound) {
			api.WriteError(w, http.StatusNotFound, "No standings snapshot available yet")
		} else {
			log.Printf("ERROR: Failed to read standings snapshot: %v", err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to read standings snapshot")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, standings)
}

// --- Device identity handlers ---

// SetIdentityHandler records which player a device claims to be.
// PUT /session/{deviceId}
func (sah *ScoringAPIHandlers) SetIdentityHandler(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	var req SetIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerID == "" {
		api.WriteError(w, http.StatusBadRequest, "Player id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The claimed player must exist; the claim itself is trusted as-is.
	if _, err := sah.RosterService.GetPlayer(ctx, req.PlayerID); err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			api.WriteError(w, http.StatusNotFound, fmt.Sprintf("Player %s not found", req.PlayerID))
		} else {
			log.Printf("ERROR: Failed to verify player %s for device %s: %v", req.PlayerID, deviceID, err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to set identity")
		}
		return
	}

	if err := sah.IdentityStore.SetIdentity(ctx, deviceID, req.PlayerID); err != nil {
		log.Printf("ERROR: Failed to set identity for device %s: %v", deviceID, err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to set identity")
		return
	}

	api.WriteJSON(w, http.StatusOK, IdentityResponse{DeviceID: deviceID, PlayerID: req.PlayerID})
}

// GetIdentityHandler returns the player a device claims to be.
// GET /session/{deviceId}
func (sah *ScoringAPIHandlers) GetIdentityHandler(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	playerID, err := sah.IdentityStore.GetIdentity(ctx, deviceID)
	if err != nil {
		if errors.Is(err, redisu.ErrRedisKeyNotFound) {
			api.WriteError(w, http.StatusNotFound, fmt.Sprintf("No identity for device %s", deviceID))
		} else {
			log.Printf("ERROR: Failed to get identity for device %s: %v", deviceID, err)
			api.WriteError(w, http.StatusInternalServerError, "Failed to get identity")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, IdentityResponse{DeviceID: deviceID, PlayerID: playerID})
}

// ClearIdentityHandler removes a device's claim.
// DELETE /session/{deviceId}
func (sah *ScoringAPIHandlers) ClearIdentityHandler(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := sah.IdentityStore.ClearIdentity(ctx, deviceID); err != nil {
		log.Printf("ERROR: Failed to clear identity for device %s: %v", deviceID, err)
		api.WriteError(w, http.StatusInternalServerError, "Failed to clear identity")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Identity cleared for device %s", deviceID)})
}

// RegisterRoutes registers all API endpoints for the Scoring Service.
func (sah *ScoringAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/players", sah.RegisterPlayerHandler).Methods("POST")
	router.HandleFunc("/players", sah.ListPlayersHandler).Methods("GET")
	router.HandleFunc("/players/{id}", sah.GetPlayerHandler).Methods("GET")
	router.HandleFunc("/players/{id}", sah.DeletePlayerHandler).Methods("DELETE")
	router.HandleFunc("/players/{id}/games", sah.PlayerGamesHandler).Methods("GET")
	router.HandleFunc("/players/{playerId}/scores/{game}", sah.SavePlayerScoreHandler).Methods("PUT")

	router.HandleFunc("/teams", sah.ListTeamsHandler).Methods("GET")
	router.HandleFunc("/teams/reform", sah.ReformTeamsHandler).Methods("POST")
	router.HandleFunc("/teams/{teamId}/scores/{game}", sah.SaveTeamScoreHandler).Methods("PUT")
	router.HandleFunc("/teams/{teamId}/assignments/{game}", sah.SaveAssignmentHandler).Methods("PUT")

	router.HandleFunc("/scores/batch", sah.BatchScoresHandler).Methods("POST")

	router.HandleFunc("/standings", sah.StandingsHandler).Methods("GET")
	router.HandleFunc("/standings/snapshot", sah.StandingsSnapshotHandler).Methods("GET")

	router.HandleFunc("/session/{deviceId}", sah.SetIdentityHandler).Methods("PUT")
	router.HandleFunc("/session/{deviceId}", sah.GetIdentityHandler).Methods("GET")
	router.HandleFunc("/session/{deviceId}", sah.ClearIdentityHandler).Methods("DELETE")
}
