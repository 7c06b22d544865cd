package service

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/types"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiService is the alternative generative provider, selected by
// the generator config key.
type GeminiService struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	maxRetries int
	logger     *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(0)
	return &GeminiService{
		client:     client,
		model:      model,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}, nil
}

func (s *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	var resp *genai.GenerateContentResponse
	op := func() error {
		var err error
		resp, err = s.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			s.logger.Warn("completion call failed, may retry", zap.Error(err))
		}
		return err
	}
	if err := withRetry(ctx, s.maxRetries, op); err != nil {
		return "", types.NewGenerationError("generative provider call failed", err)
	}
	if len(resp.Candidates) == 0 {
		return "", types.NewGenerationError("no response generated", nil)
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", types.NewGenerationError("empty response generated", nil)
	}
	return content, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}
