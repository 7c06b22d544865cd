package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docqa-be/repository"
	"github.com/tieubaoca/docqa-be/service"
	"github.com/tieubaoca/docqa-be/types"
	"go.uber.org/zap"
)

type stubChunkRepo struct {
	chunks []types.Chunk
}

func (r *stubChunkRepo) InsertMany(ctx context.Context, chunks []types.Chunk) error {
	r.chunks = append(r.chunks, chunks...)
	return nil
}

func (r *stubChunkRepo) FindAll(ctx context.Context) ([]types.Chunk, error) {
	return r.chunks, nil
}

func (r *stubChunkRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.chunks)), nil
}

var _ repository.ChunkRepo = (*stubChunkRepo)(nil)

type stubEmbedder struct {
	err error
}

func (e stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	const dim = 256
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, dim)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			h.Write([]byte(strings.Trim(word, ".,!?")))
			vec[int(h.Sum32()%dim)]++
		}
		out[i] = vec
	}
	return out, nil
}

type stubGenerator struct {
	answer string
}

func (g stubGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return g.answer, nil
}

func newQueryRouter(t *testing.T, repo repository.ChunkRepo, embedder service.Embedder, generator service.Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	chunker, err := service.NewChunkService(types.ChunkServiceConfig{ChunkSize: 2000, ChunkOverlap: 100})
	require.NoError(t, err)
	rag := service.NewRAGService(repo, nil, chunker, embedder, generator, 4, 12000, zap.NewNop())

	router := gin.New()
	router.POST("/api/v1/query", NewQueryHandler(rag).HandleQuery)
	return router
}

func postQuery(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQueryMissingQuestion(t *testing.T) {
	router := newQueryRouter(t, &stubChunkRepo{}, stubEmbedder{}, stubGenerator{})

	for _, body := range []string{`{}`, `{"question":""}`, `not json`} {
		w := postQuery(router, body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "body=%q", body)

		var resp types.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, types.ErrKindValidation, resp.ErrorKind)
	}
}

func TestQueryAnswersFromStoredChunks(t *testing.T) {
	repo := &stubChunkRepo{chunks: []types.Chunk{
		{ID: "1", Text: "Paris is the capital of France."},
		{ID: "2", Text: "Berlin is the capital of Germany."},
	}}
	router := newQueryRouter(t, repo, stubEmbedder{}, stubGenerator{answer: "Paris."})

	w := postQuery(router, `{"question":"What is the capital of France?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string              `json:"status"`
		Data   types.QueryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Contains(t, resp.Data.Answer, "Paris")
	require.NotEmpty(t, resp.Data.Sources)
	assert.Equal(t, "Paris is the capital of France.", resp.Data.Sources[0])
}

// A provider outage must not surface as a 200 with an empty answer.
func TestQueryEmbeddingProviderDown(t *testing.T) {
	repo := &stubChunkRepo{chunks: []types.Chunk{{ID: "1", Text: "stored text"}}}
	embedder := stubEmbedder{err: types.NewEmbeddingError("embedding provider call failed", errors.New("connection refused"))}
	router := newQueryRouter(t, repo, embedder, stubGenerator{answer: "unused"})

	w := postQuery(router, `{"question":"anything?"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.ErrKindEmbedding, resp.ErrorKind)
}

func TestQueryEmptyStore(t *testing.T) {
	router := newQueryRouter(t, &stubChunkRepo{}, stubEmbedder{}, stubGenerator{})

	w := postQuery(router, `{"question":"anything?"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthz", NewHealthHandler().HandleHealth)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
