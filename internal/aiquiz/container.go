package aiquiz

import (
	"context"

	"github.com/saulo-duarte/quizard/internal/config"
)

type AIQuizContainer struct {
	Handler *Handler
}

// NewAIQuizContainer falls back to a provider that reports ErrNotConfigured
// when no API key is set or the client cannot be created.
func NewAIQuizContainer(ctx context.Context, apiKey string) *AIQuizContainer {
	var provider Provider = disabledProvider{}
	if apiKey != "" {
		p, err := NewGeminiProvider(ctx, apiKey)
		if err != nil {
			config.WithContext(ctx).WithError(err).Warn("Question drafting disabled")
		} else {
			provider = p
		}
	}

	return &AIQuizContainer{
		Handler: NewHandler(NewService(provider)),
	}
}
