package store

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/kart-io/sentinel-x/pkg/component/milvus"
)

// MemoryCollection is the fixed Milvus collection name for long-term memory
// embeddings. Milvus holds only the embedding plus enough
// identifying metadata to hydrate from Postgres; importance, decay and the
// combining rank score live relationally and are never stored here.
const MemoryCollection = "chat_memories"

// memoryIndex is the Milvus-backed approximate nearest neighbor index over
// memory embeddings. It never holds the source of truth for a memory's
// content or scores — Postgres does (see relationalStore) — it only maps a
// vector to a memory_id plus the fields needed to pre-filter candidates
// before hydration.
type memoryIndex struct {
	client *milvus.Client
}

func newMemoryIndex(client *milvus.Client) *memoryIndex {
	return &memoryIndex{client: client}
}

func (idx *memoryIndex) ensureCollection(ctx context.Context, dimension int) error {
	schema := &milvus.CollectionSchema{
		Name:        MemoryCollection,
		Description: "long-term conversational memory embeddings",
		Dimension:   dimension,
		MetaFields: []milvus.MetaField{
			{Name: "memory_id", DataType: entity.FieldTypeVarChar, MaxLen: 36},
			{Name: "user_id", DataType: entity.FieldTypeVarChar, MaxLen: 36},
			{Name: "personality_id", DataType: entity.FieldTypeVarChar, MaxLen: 36},
			{Name: "category", DataType: entity.FieldTypeVarChar, MaxLen: 32},
		},
	}
	return idx.client.CreateCollection(ctx, schema)
}

// indexedVector is what the index returns for a search hit: the domain
// memory_id plus the raw cosine similarity score. Everything else about the
// memory is hydrated from Postgres by the caller.
type indexedVector struct {
	MemoryID string
	Score    float32
}

func (idx *memoryIndex) insert(ctx context.Context, memoryID, userID, personalityID, category string, embedding []float32) (int64, error) {
	data := &milvus.InsertData{
		Embeddings: [][]float32{embedding},
		Metadata: map[string][]any{
			"memory_id":      {memoryID},
			"user_id":        {userID},
			"personality_id": {personalityID},
			"category":       {category},
		},
	}
	ids, err := idx.client.Insert(ctx, MemoryCollection, data)
	if err != nil {
		return 0, fmt.Errorf("insert memory embedding: %w", err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("insert memory embedding: milvus returned no id")
	}
	return ids[0], nil
}

// search runs a filtered ANN search scoped to a user (and, when non-empty,
// a personality), returning up to topK candidates ordered by similarity.
func (idx *memoryIndex) search(ctx context.Context, userID, personalityID string, embedding []float32, topK int) ([]indexedVector, error) {
	rawClient := idx.client.RawClient()
	if rawClient == nil {
		return nil, fmt.Errorf("milvus client not initialized")
	}

	loadTask, err := rawClient.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(MemoryCollection))
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return nil, fmt.Errorf("await collection load: %w", err)
	}

	expr := fmt.Sprintf("user_id == %q", userID)
	if personalityID != "" {
		expr = fmt.Sprintf("%s && personality_id == %q", expr, personalityID)
	}

	searchVectors := []entity.Vector{entity.FloatVector(embedding)}
	results, err := rawClient.Search(ctx, milvusclient.NewSearchOption(
		MemoryCollection,
		topK,
		searchVectors,
	).WithANNSField("embedding").
		WithSearchParam("ef", "64").
		WithFilter(expr).
		WithOutputFields("memory_id"))
	if err != nil {
		return nil, fmt.Errorf("search memory embeddings: %w", err)
	}
	if len(results) == 0 {
		return []indexedVector{}, nil
	}

	out := make([]indexedVector, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		v := indexedVector{Score: results[0].Scores[i]}
		for _, field := range results[0].Fields {
			if col, ok := field.(*column.ColumnVarChar); ok && col.Name() == "memory_id" {
				v.MemoryID = col.Data()[i]
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (idx *memoryIndex) deleteByMilvusIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return idx.client.DeleteByIDs(ctx, MemoryCollection, ids)
}
