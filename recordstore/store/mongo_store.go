// recordstore/store/mongo_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/birthday-games/go-services/shared/mongodb"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore persists records in one MongoDB collection per record-store
// collection. Documents use the record id as Mongo's _id.
type MongoStore struct {
	client *mongodb.Client
}

// NewMongoStore creates a MongoStore on top of a connected client.
func NewMongoStore(client *mongodb.Client) *MongoStore {
	return &MongoStore{client: client}
}

func (ms *MongoStore) List(ctx context.Context, collection string) ([]Record, error) {
	cursor, err := ms.client.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode collection %s: %w", collection, err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromStorage(doc))
	}
	return records, nil
}

func (ms *MongoStore) Get(ctx context.Context, collection, id string) (Record, error) {
	var doc bson.M
	err := ms.client.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record %s/%s: %w", collection, id, err)
	}
	return fromStorage(doc), nil
}

func (ms *MongoStore) Create(ctx context.Context, collection string, doc Record) (Record, error) {
	stored := toStorage(doc)
	stored["_id"] = uuid.NewString()
	stored["createdAt"] = time.Now().UTC().Format(time.RFC3339)

	if _, err := ms.client.Collection(collection).InsertOne(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to create record in %s: %w", collection, err)
	}
	return fromStorage(stored), nil
}

func (ms *MongoStore) Replace(ctx context.Context, collection, id string, doc Record) (Record, error) {
	existing, err := ms.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	merged := mergeFields(existing, doc)
	stored := toStorage(merged)

	res, err := ms.client.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, stored)
	if err != nil {
		return nil, fmt.Errorf("failed to replace record %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrRecordNotFound
	}
	return merged, nil
}

func (ms *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := ms.client.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete record %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// toStorage swaps the wire "id" field for Mongo's "_id".
func toStorage(rec Record) bson.M {
	stored := make(bson.M, len(rec))
	for k, v := range rec {
		if k == "id" {
			stored["_id"] = v
			continue
		}
		stored[k] = v
	}
	return stored
}

// fromStorage swaps "_id" back to the wire "id".
func fromStorage(doc bson.M) Record {
	rec := make(Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			rec["id"] = v
			continue
		}
		rec[k] = v
	}
	return rec
}
