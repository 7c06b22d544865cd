package service

import (
	"context"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/types"
	"go.uber.org/zap"
)

type OpenAIService struct {
	client     *openai.Client
	model      string
	maxRetries int
	logger     *zap.Logger
}

func NewOpenAIService(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIService{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.ChatModel,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

func (s *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	var resp openai.ChatCompletionResponse
	op := func() error {
		var err error
		resp, err = s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			// The smallest positive float stands in for an exact zero,
			// which the client would drop as an unset field.
			Temperature: math.SmallestNonzeroFloat32,
		})
		if err != nil {
			s.logger.Warn("completion call failed, may retry", zap.Error(err))
		}
		return err
	}
	err := withRetry(ctx, s.maxRetries, op)
	if err != nil {
		return "", types.NewGenerationError("generative provider call failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", types.NewGenerationError("no response generated", nil)
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", types.NewGenerationError("empty response generated", nil)
	}
	return answer, nil
}
