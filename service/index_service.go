package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tieubaoca/docqa-be/types"
)

// Index is a request-scoped nearest-neighbor structure over embedded
// chunks. It is rebuilt from the full chunk store for every query and
// discarded once the answer is produced, so retrieval always reflects
// the live store and the embedding model currently configured. The
// cost of that choice is an O(total chunks) rebuild per query, which
// is acceptable only while the store stays small.
type Index struct {
	chunks   []types.Chunk
	vectors  [][]float32
	embedder Embedder
}

// BuildIndex embeds every chunk's text and pairs vectors with their
// source chunks, chunk[i] <-> vector[i].
func BuildIndex(ctx context.Context, chunks []types.Chunk, embedder Embedder) (*Index, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, types.NewEmbeddingError(
			fmt.Sprintf("got %d vectors for %d chunks", len(vectors), len(chunks)), nil)
	}
	return &Index{
		chunks:   chunks,
		vectors:  vectors,
		embedder: embedder,
	}, nil
}

// Len reports the number of indexed chunks.
func (idx *Index) Len() int { return len(idx.chunks) }

// Search embeds the query with the same embedder used at build time
// and returns the k chunks by decreasing cosine similarity.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]types.ScoredChunk, error) {
	if k <= 0 {
		return nil, types.NewValidationError("search limit must be positive")
	}
	if len(idx.chunks) == 0 {
		return nil, nil
	}

	queryVectors, err := idx.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(queryVectors) != 1 {
		return nil, types.NewEmbeddingError("no embedding returned for query", nil)
	}
	queryVec := queryVectors[0]

	results := make([]types.ScoredChunk, len(idx.chunks))
	for i := range idx.chunks {
		results[i] = types.ScoredChunk{
			Chunk: idx.chunks[i],
			Score: cosineSimilarity(idx.vectors[i], queryVec),
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
