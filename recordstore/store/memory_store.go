// recordstore/store/memory_store.go
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process memory. Used by tests and for local
// development (MONGODB_CONN_STR=memory). Like the Mongo store it preserves
// insertion order in List and happily stores duplicate natural keys.
type MemoryStore struct {
	mu    sync.RWMutex
	order map[string][]string // collection -> ids in insertion order
	docs  map[string]map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		order: make(map[string][]string),
		docs:  make(map[string]map[string]Record),
	}
}

func (ms *MemoryStore) List(ctx context.Context, collection string) ([]Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	records := make([]Record, 0, len(ms.order[collection]))
	for _, id := range ms.order[collection] {
		records = append(records, cloneRecord(ms.docs[collection][id]))
	}
	return records, nil
}

func (ms *MemoryStore) Get(ctx context.Context, collection, id string) (Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	doc, ok := ms.docs[collection][id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return cloneRecord(doc), nil
}

func (ms *MemoryStore) Create(ctx context.Context, collection string, doc Record) (Record, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stored := cloneRecord(doc)
	id := uuid.NewString()
	stored["id"] = id
	stored["createdAt"] = time.Now().UTC().Format(time.RFC3339)

	if ms.docs[collection] == nil {
		ms.docs[collection] = make(map[string]Record)
	}
	ms.docs[collection][id] = stored
	ms.order[collection] = append(ms.order[collection], id)
	return cloneRecord(stored), nil
}

func (ms *MemoryStore) Replace(ctx context.Context, collection, id string, doc Record) (Record, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	existing, ok := ms.docs[collection][id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	merged := mergeFields(existing, doc)
	ms.docs[collection][id] = merged
	return cloneRecord(merged), nil
}

func (ms *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.docs[collection][id]; !ok {
		return ErrRecordNotFound
	}
	delete(ms.docs[collection], id)
	ids := ms.order[collection]
	for i, existing := range ids {
		if existing == id {
			ms.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func cloneRecord(rec Record) Record {
	clone := make(Record, len(rec))
	for k, v := range rec {
		clone[k] = v
	}
	return clone
}
