// recordstore/store/memory_store_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAssignsIdAndCreatedAt(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	created, err := ms.Create(ctx, "players", Record{"name": "Ana"})
	require.NoError(t, err)

	id, ok := created["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	createdAt, ok := created["createdAt"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, createdAt)
	require.NoError(t, err)

	require.Equal(t, "Ana", created["name"])
}

func TestMemoryStoreCreateDoesNotMutateInput(t *testing.T) {
	ms := NewMemoryStore()

	doc := Record{"name": "Ana"}
	_, err := ms.Create(context.Background(), "players", doc)
	require.NoError(t, err)

	require.NotContains(t, doc, "id")
	require.NotContains(t, doc, "createdAt")
}

func TestMemoryStoreAllowsDuplicateNaturalKeys(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	// The store enforces nothing beyond the id: two records with the same
	// natural key are two records.
	_, err := ms.Create(ctx, "scores", Record{"teamId": "t1", "game": "daytona", "value": 5})
	require.NoError(t, err)
	_, err = ms.Create(ctx, "scores", Record{"teamId": "t1", "game": "daytona", "value": 9})
	require.NoError(t, err)

	records, err := ms.List(ctx, "scores")
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestMemoryStoreListInsertionOrder(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := ms.Create(ctx, "players", Record{"name": name})
		require.NoError(t, err)
	}

	records, err := ms.List(ctx, "players")
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "a", records[0]["name"])
	require.Equal(t, "b", records[1]["name"])
	require.Equal(t, "c", records[2]["name"])
}

func TestMemoryStoreReplaceMergesAndPreservesIdentity(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	created, err := ms.Create(ctx, "players", Record{"name": "Ana", "teamId": "t1"})
	require.NoError(t, err)
	id := created["id"].(string)

	replaced, err := ms.Replace(ctx, "players", id, Record{
		"name":      "Ana Maria",
		"id":        "spoofed",
		"createdAt": "spoofed",
	})
	require.NoError(t, err)

	require.Equal(t, id, replaced["id"], "id survives replace")
	require.Equal(t, created["createdAt"], replaced["createdAt"], "createdAt survives replace")
	require.Equal(t, "Ana Maria", replaced["name"])
	require.Equal(t, "t1", replaced["teamId"], "untouched fields survive")
}

func TestMemoryStoreGetAndDeleteMissing(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	_, err := ms.Get(ctx, "players", "ghost")
	require.ErrorIs(t, err, ErrRecordNotFound)

	require.ErrorIs(t, ms.Delete(ctx, "players", "ghost"), ErrRecordNotFound)

	_, err = ms.Replace(ctx, "players", "ghost", Record{"name": "x"})
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMemoryStoreDeleteRemovesFromList(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	first, err := ms.Create(ctx, "teams", Record{"name": "Red Team"})
	require.NoError(t, err)
	_, err = ms.Create(ctx, "teams", Record{"name": "Blue Team"})
	require.NoError(t, err)

	require.NoError(t, ms.Delete(ctx, "teams", first["id"].(string)))

	records, err := ms.List(ctx, "teams")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Blue Team", records[0]["name"])
}
