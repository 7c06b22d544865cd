package service

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/types"
	"go.uber.org/zap"
)

// Embedder maps an ordered sequence of texts to a same-length ordered
// sequence of fixed-dimension vectors. Implementations keep no state
// between calls.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIEmbedder calls the OpenAI embeddings API, batching requests to
// stay under the provider's items-per-call limit. Inputs exceeding the
// provider length limit are rejected rather than silently truncated.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	batchSize  int
	maxChars   int
	maxRetries int
	logger     *zap.Logger
}

func NewOpenAIEmbedder(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIEmbedder {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	batchSize := cfg.EmbedBatch
	if batchSize <= 0 {
		batchSize = 96
	}
	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.EmbedModel,
		batchSize:  batchSize,
		maxChars:   cfg.EmbedMaxChars,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if e.maxChars > 0 && len(text) > e.maxChars {
			return nil, types.NewEmbeddingError(
				fmt.Sprintf("input %d exceeds embedding length limit (%d > %d chars)", i, len(text), e.maxChars), nil)
		}
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	var resp openai.EmbeddingResponse
	op := func() error {
		var err error
		resp, err = e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			e.logger.Warn("embedding call failed, may retry", zap.Error(err))
		}
		return err
	}
	err := withRetry(ctx, e.maxRetries, op)
	if err != nil {
		return nil, types.NewEmbeddingError("embedding provider call failed", err)
	}
	if len(resp.Data) != len(batch) {
		return nil, types.NewEmbeddingError(
			fmt.Sprintf("embedding provider returned %d vectors for %d inputs", len(resp.Data), len(batch)), nil)
	}

	vectors := make([][]float32, len(batch))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(batch) {
			return nil, types.NewEmbeddingError(fmt.Sprintf("embedding provider returned out-of-range index %d", item.Index), nil)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}
