// recordstore/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/birthday-games/go-services/recordstore/store"
	"github.com/birthday-games/go-services/shared/api"
	"github.com/birthday-games/go-services/shared/models"
	"github.com/gorilla/mux"
)

// RecordStoreHandlers serves the primitive CRUD surface over the five known
// collections. No business logic lives here: the scoring service's upsert
// protocol is what keeps natural keys unique.
type RecordStoreHandlers struct {
	Store store.RecordStore
}

func NewRecordStoreHandlers(s store.RecordStore) *RecordStoreHandlers {
	return &RecordStoreHandlers{Store: s}
}

// knownCollection rejects anything outside the fixed collection set.
func knownCollection(name string) bool {
	for _, c := range models.Collections {
		if c == name {
			return true
		}
	}
	return false
}

// ListRecordsHandler handles GET /collections/{collection}.
func (rh *RecordStoreHandlers) ListRecordsHandler(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	if !knownCollection(collection) {
		api.WriteNotFound(w, fmt.Sprintf("Unknown collection %q", collection))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	records, err := rh.Store.List(ctx, collection)
	if err != nil {
		log.Printf("ERROR: Failed to list collection %s: %v", collection, err)
		api.WriteInternalServerError(w, "Failed to list records")
		return
	}
	api.WriteJSON(w, http.StatusOK, records)
}

// GetRecordHandler handles GET /collections/{collection}/{id}.
func (rh *RecordStoreHandlers) GetRecordHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collection, id := vars["collection"], vars["id"]
	if !knownCollection(collection) {
		api.WriteNotFound(w, fmt.Sprintf("Unknown collection %q", collection))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	record, err := rh.Store.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			api.WriteNotFound(w, fmt.Sprintf("Record %s not found in %s", id, collection))
			return
		}
		log.Printf("ERROR: Failed to get record %s/%s: %v", collection, id, err)
		api.WriteInternalServerError(w, "Failed to get record")
		return
	}
	api.WriteJSON(w, http.StatusOK, record)
}

// CreateRecordHandler handles POST /collections/{collection}.
func (rh *RecordStoreHandlers) CreateRecordHandler(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	if !knownCollection(collection) {
		api.WriteNotFound(w, fmt.Sprintf("Unknown collection %q", collection))
		return
	}

	var doc store.Record
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := rh.Store.Create(ctx, collection, doc)
	if err != nil {
		log.Printf("ERROR: Failed to create record in %s: %v", collection, err)
		api.WriteInternalServerError(w, "Failed to create record")
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// ReplaceRecordHandler handles PUT /collections/{collection}/{id}.
func (rh *RecordStoreHandlers) ReplaceRecordHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collection, id := vars["collection"], vars["id"]
	if !knownCollection(collection) {
		api.WriteNotFound(w, fmt.Sprintf("Unknown collection %q", collection))
		return
	}

	var doc store.Record
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		api.WriteBadRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	replaced, err := rh.Store.Replace(ctx, collection, id, doc)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			api.WriteNotFound(w, fmt.Sprintf("Record %s not found in %s", id, collection))
			return
		}
		log.Printf("ERROR: Failed to replace record %s/%s: %v", collection, id, err)
		api.WriteInternalServerError(w, "Failed to replace record")
		return
	}
	api.WriteJSON(w, http.StatusOK, replaced)
}

// DeleteRecordHandler handles DELETE /collections/{collection}/{id}.
func (rh *RecordStoreHandlers) DeleteRecordHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collection, id := vars["collection"], vars["id"]
	if !knownCollection(collection) {
		api.WriteNotFound(w, fmt.Sprintf("Unknown collection %q", collection))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := rh.Store.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			api.WriteNotFound(w, fmt.Sprintf("Record %s not found in %s", id, collection))
			return
		}
		log.Printf("ERROR: Failed to delete record %s/%s: %v", collection, id, err)
		api.WriteInternalServerError(w, "Failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the CRUD endpoints on the router.
func (rh *RecordStoreHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/collections/{collection}", rh.ListRecordsHandler).Methods("GET")
	router.HandleFunc("/collections/{collection}", rh.CreateRecordHandler).Methods("POST")
	router.HandleFunc("/collections/{collection}/{id}", rh.GetRecordHandler).Methods("GET")
	router.HandleFunc("/collections/{collection}/{id}", rh.ReplaceRecordHandler).Methods("PUT")
	router.HandleFunc("/collections/{collection}/{id}", rh.DeleteRecordHandler).Methods("DELETE")
}
