// recordstore/api/handler_test.go
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/birthday-games/go-services/recordstore/store"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handlers := NewRecordStoreHandlers(store.NewMemoryStore())
	router := mux.NewRouter()
	handlers.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func TestRecordCRUDLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/collections/players", map[string]interface{}{"name": "Ana"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := created["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	require.NotEmpty(t, created["createdAt"])

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/collections/players/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Ana", got["name"])

	resp, replaced := doJSON(t, http.MethodPut, srv.URL+"/collections/players/"+id, map[string]interface{}{"name": "Ana Maria"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, id, replaced["id"])
	require.Equal(t, "Ana Maria", replaced["name"])

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/collections/players/"+id, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/collections/players/"+id, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListCollection(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range []string{"Red Team", "Blue Team"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/collections/teams", map[string]interface{}{"name": name})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/collections/teams")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 2)
	require.Equal(t, "Red Team", records[0]["name"])
	require.Equal(t, "Blue Team", records[1]["name"])
}

func TestListEmptyCollectionReturnsEmptyArray(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/collections/scores")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Empty(t, records)
}

func TestUnknownCollectionRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/collections/secrets")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2, _ := doJSON(t, http.MethodPost, srv.URL+"/collections/secrets", map[string]interface{}{"x": 1})
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/collections/players", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSchemalessPassthrough(t *testing.T) {
	srv := newTestServer(t)

	// The store validates nothing about field shapes; a string score value
	// is stored verbatim and the readers coerce it.
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/collections/scores", map[string]interface{}{
		"teamId": "t1",
		"game":   "daytona",
		"value":  "12",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "12", created["value"])
}
