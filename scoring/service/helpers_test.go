// scoring/service/helpers_test.go
package service

import (
	"net/http/httptest"
	"testing"

	recordapi "github.com/birthday-games/go-services/recordstore/api"
	"github.com/birthday-games/go-services/recordstore/store"
	"github.com/birthday-games/go-services/scoring/client"
	"github.com/gorilla/mux"
)

// newTestRecordStore runs a real record store over the in-memory backend so
// service tests exercise the full HTTP round trip.
func newTestRecordStore(t *testing.T) *client.RecordStoreClient {
	t.Helper()
	handlers := recordapi.NewRecordStoreHandlers(store.NewMemoryStore())
	router := mux.NewRouter()
	handlers.RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return client.NewRecordStoreClient(srv.URL, nil)
}

func strPtr(s string) *string { return &s }
