package service

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docqa-be/types"
)

// hashEmbedder is a deterministic stand-in for the remote embedding
// provider: a hashed bag-of-words vector, stable across calls.
type hashEmbedder struct{}

func (hashEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	const dim = 256
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, dim)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			word = strings.Trim(word, ".,!?\"'()")
			if word == "" {
				continue
			}
			h := fnv.New32a()
			h.Write([]byte(word))
			vec[int(h.Sum32()%dim)]++
		}
		out[i] = vec
	}
	return out, nil
}

// failingEmbedder simulates an unreachable embedding provider.
type failingEmbedder struct{}

func (failingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, types.NewEmbeddingError("embedding provider call failed", errors.New("connection refused"))
}

func testChunks(texts ...string) []types.Chunk {
	chunks := make([]types.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = types.Chunk{ID: text, Text: text, Seq: i}
	}
	return chunks
}

func TestBuildIndexHoldsAllChunks(t *testing.T) {
	chunks := testChunks("one two three", "four five six", "seven eight nine")
	index, err := BuildIndex(context.Background(), chunks, hashEmbedder{})
	require.NoError(t, err)
	assert.Equal(t, 3, index.Len())
}

func TestBuildIndexEmbedderFailure(t *testing.T) {
	_, err := BuildIndex(context.Background(), testChunks("anything"), failingEmbedder{})
	require.Error(t, err)
	assert.Equal(t, types.ErrKindEmbedding, types.KindOf(err))
}

// A stored chunk queried by its own text must come back first.
func TestSearchRoundTrip(t *testing.T) {
	chunks := testChunks(
		"The mitochondria is the powerhouse of the cell.",
		"Photosynthesis converts sunlight into chemical energy.",
		"Gravity bends the path of light around massive objects.",
	)
	index, err := BuildIndex(context.Background(), chunks, hashEmbedder{})
	require.NoError(t, err)

	for _, chunk := range chunks {
		results, err := index.Search(context.Background(), chunk.Text, 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, chunk.Text, results[0].Chunk.Text)
	}
}

func TestSearchRanksByDecreasingSimilarity(t *testing.T) {
	chunks := testChunks(
		"Paris is the capital of France.",
		"Berlin is the capital of Germany.",
		"The Eiffel Tower is 330 metres tall.",
	)
	index, err := BuildIndex(context.Background(), chunks, hashEmbedder{})
	require.NoError(t, err)

	results, err := index.Search(context.Background(), "What is the capital of France?", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Paris is the capital of France.", results[0].Chunk.Text)
	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}
}

func TestSearchLimitsResults(t *testing.T) {
	chunks := testChunks("alpha", "beta", "gamma", "delta")
	index, err := BuildIndex(context.Background(), chunks, hashEmbedder{})
	require.NoError(t, err)

	results, err := index.Search(context.Background(), "alpha", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = index.Search(context.Background(), "alpha", 10)
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestSearchEmptyIndex(t *testing.T) {
	index, err := BuildIndex(context.Background(), nil, hashEmbedder{})
	require.NoError(t, err)

	results, err := index.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRejectsNonPositiveLimit(t *testing.T) {
	index, err := BuildIndex(context.Background(), testChunks("alpha"), hashEmbedder{})
	require.NoError(t, err)

	_, err = index.Search(context.Background(), "alpha", 0)
	require.Error(t, err)
	assert.Equal(t, types.ErrKindValidation, types.KindOf(err))
}

func TestSearchQueryEmbeddingFailure(t *testing.T) {
	index := &Index{
		chunks:   testChunks("alpha"),
		vectors:  [][]float32{{1}},
		embedder: failingEmbedder{},
	}
	_, err := index.Search(context.Background(), "alpha", 1)
	require.Error(t, err)
	assert.Equal(t, types.ErrKindEmbedding, types.KindOf(err))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
}
