// scoring/client/collections.go
package client

import (
	"context"
	"fmt"
	"log"

	"github.com/birthday-games/go-services/shared/api"
	"github.com/birthday-games/go-services/shared/models"
)

// Collection is a typed client for one record-store collection. It is a thin
// fetch-and-decode wrapper; no business logic.
type Collection[T models.Record] struct {
	apiClient *api.Client
	name      string
}

func NewCollection[T models.Record](apiClient *api.Client, name string) *Collection[T] {
	return &Collection[T]{apiClient: apiClient, name: name}
}

// Name returns the collection name on the record store.
func (c *Collection[T]) Name() string { return c.name }

// List fetches every record in the collection. Errors are propagated; the
// upsert protocol depends on that. Read paths use ListOrEmpty instead.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var records []T
	if err := c.apiClient.Get(ctx, fmt.Sprintf("/collections/%s", c.name), &records); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.name, err)
	}
	return records, nil
}

// ListOrEmpty translates any backend fault into an empty slice. An unreachable
// backend means "no data yet" for rendering paths, never a hard failure.
func (c *Collection[T]) ListOrEmpty(ctx context.Context) []T {
	records, err := c.List(ctx)
	if err != nil {
		log.Printf("WARN: Treating failed list of %s as empty: %v", c.name, err)
		return nil
	}
	return records
}

// Get fetches one record by id. Returns api.ErrNotFound (wrapped) when absent.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var record T
	if err := c.apiClient.Get(ctx, fmt.Sprintf("/collections/%s/%s", c.name, id), &record); err != nil {
		return record, fmt.Errorf("failed to get %s/%s: %w", c.name, id, err)
	}
	return record, nil
}

// Create inserts a record; the store assigns id and createdAt.
func (c *Collection[T]) Create(ctx context.Context, candidate T) (T, error) {
	var created T
	if err := c.apiClient.Post(ctx, fmt.Sprintf("/collections/%s", c.name), candidate, &created); err != nil {
		return created, fmt.Errorf("failed to create in %s: %w", c.name, err)
	}
	return created, nil
}

// Replace overwrites the record with the given id; the store keeps the
// original id and createdAt.
func (c *Collection[T]) Replace(ctx context.Context, id string, candidate T) (T, error) {
	var replaced T
	if err := c.apiClient.Put(ctx, fmt.Sprintf("/collections/%s/%s", c.name, id), candidate, &replaced); err != nil {
		return replaced, fmt.Errorf("failed to replace %s/%s: %w", c.name, id, err)
	}
	return replaced, nil
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.apiClient.Delete(ctx, fmt.Sprintf("/collections/%s/%s", c.name, id)); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", c.name, id, err)
	}
	return nil
}

// RecordStoreClient bundles the typed collection clients the scoring service
// needs, all backed by one HTTP client.
type RecordStoreClient struct {
	Players      *Collection[models.Player]
	Teams        *Collection[models.Team]
	Assignments  *Collection[models.Assignment]
	Scores       *Collection[models.Score]
	PlayerScores *Collection[models.PlayerScore]
}

// NewRecordStoreClient creates collection clients against the record store at
// baseURL. Pass nil to use the default HTTP client.
func NewRecordStoreClient(baseURL string, httpClient *api.Client) *RecordStoreClient {
	if httpClient == nil {
		httpClient = api.NewClient(baseURL, api.NewDefaultHTTPClient())
	}
	return &RecordStoreClient{
		Players:      NewCollection[models.Player](httpClient, models.CollectionPlayers),
		Teams:        NewCollection[models.Team](httpClient, models.CollectionTeams),
		Assignments:  NewCollection[models.Assignment](httpClient, models.CollectionAssignments),
		Scores:       NewCollection[models.Score](httpClient, models.CollectionScores),
		PlayerScores: NewCollection[models.PlayerScore](httpClient, models.CollectionPlayerScores),
	}
}
