package repository

import (
	"context"

	"github.com/tieubaoca/docqa-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ChunkRepo is the durable chunk collection. Chunks are append-only:
// there is no update or delete surface.
type ChunkRepo interface {
	// InsertMany persists one ingestion batch in a single call,
	// preserving slice order.
	InsertMany(ctx context.Context, chunks []types.Chunk) error
	// FindAll returns every stored chunk across all documents ever
	// ingested. Batches come back whole, ordered by creation time,
	// with each batch's chunks in sequence order.
	FindAll(ctx context.Context) ([]types.Chunk, error)
	// Count reports the number of stored chunks.
	Count(ctx context.Context) (int64, error)
}

type chunkRepo struct {
	collection *mongo.Collection
}

func NewChunkRepo(collection *mongo.Collection) ChunkRepo {
	return &chunkRepo{
		collection: collection,
	}
}

func (r *chunkRepo) InsertMany(ctx context.Context, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chunk
	}
	// Ordered insert keeps the batch contiguous in insertion order.
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return types.NewStoreError("failed to store chunk batch", err)
	}
	return nil
}

func (r *chunkRepo) FindAll(ctx context.Context) ([]types.Chunk, error) {
	// batch_id in the sort key keeps batches contiguous even when two
	// land within the same created_at second.
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "batch_id", Value: 1}, {Key: "seq", Value: 1}}))
	if err != nil {
		return nil, types.NewStoreError("failed to read chunks", err)
	}
	defer cursor.Close(ctx)

	var chunks []types.Chunk
	for cursor.Next(ctx) {
		var chunk types.Chunk
		if err := cursor.Decode(&chunk); err != nil {
			return nil, types.NewStoreError("failed to decode chunk", err)
		}
		chunks = append(chunks, chunk)
	}
	if err := cursor.Err(); err != nil {
		return nil, types.NewStoreError("failed to iterate chunks", err)
	}
	return chunks, nil
}

func (r *chunkRepo) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, types.NewStoreError("failed to count chunks", err)
	}
	return count, nil
}
