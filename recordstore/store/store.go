// recordstore/store/store.go
package store

import (
	"context"
	"fmt"
)

// Record is a schemaless stored document. The store assigns "id" and
// "createdAt" on create; everything else is passed through untouched. The
// store enforces no uniqueness beyond the id; duplicate natural keys are the
// callers' problem.
type Record = map[string]interface{}

// ErrRecordNotFound is returned when a record id does not exist in a collection.
var ErrRecordNotFound = fmt.Errorf("record not found")

// RecordStore is the primitive per-collection CRUD surface the scoring
// engine's upsert protocol is built on.
type RecordStore interface {
	List(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	Create(ctx context.Context, collection string, doc Record) (Record, error)
	// Replace merges the submitted fields over the stored record, preserving
	// id and createdAt, and returns the merged record.
	Replace(ctx context.Context, collection, id string, doc Record) (Record, error)
	Delete(ctx context.Context, collection, id string) error
}

// mergeFields overlays doc's fields onto existing, keeping identity and the
// creation timestamp from the stored record.
func mergeFields(existing, doc Record) Record {
	merged := make(Record, len(existing)+len(doc))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range doc {
		if k == "id" || k == "_id" || k == "createdAt" {
			continue
		}
		merged[k] = v
	}
	return merged
}
