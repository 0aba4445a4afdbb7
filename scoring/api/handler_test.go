// scoring/api/handler_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	recordapi "github.com/birthday-games/go-services/recordstore/api"
	recordstore "github.com/birthday-games/go-services/recordstore/store"
	"github.com/birthday-games/go-services/scoring/client"
	"github.com/birthday-games/go-services/scoring/service"
	"github.com/birthday-games/go-services/shared/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// newTestAPI wires the full scoring API over an in-memory record store. The
// identity store stays nil: admin-gated paths without a device header are
// rejected before Redis is ever touched.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	backend := recordapi.NewRecordStoreHandlers(recordstore.NewMemoryStore())
	backendRouter := mux.NewRouter()
	backend.RegisterRoutes(backendRouter)
	backendSrv := httptest.NewServer(backendRouter)
	t.Cleanup(backendSrv.Close)

	rsc := client.NewRecordStoreClient(backendSrv.URL, nil)
	rosterService := service.NewRosterService(rsc)
	handlers := NewScoringAPIHandlers(
		rosterService,
		service.NewTeamService(rsc, 0),
		service.NewScoreService(rsc, 0),
		service.NewStandingsService(rsc, rosterService),
		nil,
		nil,
	)

	router := mux.NewRouter()
	handlers.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRegisterPlayerEndpoint(t *testing.T) {
	srv := newTestAPI(t)

	resp := postJSON(t, srv.URL+"/players", RegisterPlayerRequest{Name: "Ana"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var player models.Player
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&player))
	require.NotEmpty(t, player.ID)
	require.Equal(t, "Ana", player.Name)
	require.Nil(t, player.TeamID)
}

func TestRegisterPlayerEndpointValidation(t *testing.T) {
	srv := newTestAPI(t)

	resp := postJSON(t, srv.URL+"/players", RegisterPlayerRequest{Name: "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/players", RegisterPlayerRequest{
		Name:   "Bo",
		Skills: map[models.GameKey]int{models.GameDaytona: 9},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterAdminRequiresIdentifiedDevice(t *testing.T) {
	srv := newTestAPI(t)

	resp := postJSON(t, srv.URL+"/players", RegisterPlayerRequest{Name: "Root", IsAdmin: true})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetPlayerEndpoint(t *testing.T) {
	srv := newTestAPI(t)

	resp := postJSON(t, srv.URL+"/players", RegisterPlayerRequest{Name: "Cy"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Player
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	getResp, err := http.Get(srv.URL + "/players/" + created.ID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	missingResp, err := http.Get(srv.URL + "/players/ghost")
	require.NoError(t, err)
	missingResp.Body.Close()
	require.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestPlayerGamesEndpoint(t *testing.T) {
	srv := newTestAPI(t)

	resp := postJSON(t, srv.URL+"/players", RegisterPlayerRequest{Name: "Di"})
	var created models.Player
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	gamesResp, err := http.Get(srv.URL + "/players/" + created.ID + "/games")
	require.NoError(t, err)
	defer gamesResp.Body.Close()
	require.Equal(t, http.StatusOK, gamesResp.StatusCode)

	var summary service.PlayerSummary
	require.NoError(t, json.NewDecoder(gamesResp.Body).Decode(&summary))
	require.Equal(t, []models.GameKey{models.TeamWideGame}, summary.Games)
	require.Equal(t, 0.0, summary.Total)
}

func TestAdminGatedEndpointsRejectAnonymousCallers(t *testing.T) {
	srv := newTestAPI(t)

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{method: http.MethodPost, path: "/teams/reform", body: ReformTeamsRequest{TeamCount: 2}},
		{method: http.MethodPut, path: "/teams/t1/scores/daytona", body: SaveScoreRequest{Value: 5}},
		{method: http.MethodPut, path: "/players/p1/scores/daytona", body: SaveScoreRequest{Value: 5}},
		{method: http.MethodPut, path: "/teams/t1/assignments/daytona", body: SaveAssignmentRequest{PlayerID: "p1"}},
		{method: http.MethodPost, path: "/scores/batch", body: BatchScoresRequest{}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			data, err := json.Marshal(tt.body)
			require.NoError(t, err)
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, bytes.NewBuffer(data))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestScoreEndpointsRejectUnknownGame(t *testing.T) {
	srv := newTestAPI(t)

	data, err := json.Marshal(SaveScoreRequest{Value: 5})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/teams/t1/scores/chess", bytes.NewBuffer(data))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStandingsEndpointEmptyWorld(t *testing.T) {
	srv := newTestAPI(t)

	resp, err := http.Get(srv.URL + "/standings")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var standings service.Standings
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&standings))
	require.Empty(t, standings.Teams)
}

func TestListTeamsEndpoint(t *testing.T) {
	srv := newTestAPI(t)

	resp, err := http.Get(srv.URL + "/teams")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var teams []models.Team
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&teams))
	require.Empty(t, teams)
}
