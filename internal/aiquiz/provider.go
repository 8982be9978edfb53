package aiquiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
	"google.golang.org/genai"
)

const model = "gemini-2.0-flash"

var ErrNotConfigured = apperr.InvalidState("question drafting is not configured")

type Provider interface {
	SendPrompt(ctx context.Context, system, user string) ([]Draft, error)
}

type geminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{client: client}, nil
}

func (p *geminiProvider) SendPrompt(ctx context.Context, system, user string) ([]Draft, error) {
	log := config.WithContext(ctx)

	result, err := p.client.Models.GenerateContent(ctx, model, genai.Text(system+"\n\n"+user), nil)
	if err != nil {
		log.WithError(err).Error("Gemini request failed")
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := result.Text()
	log.Debugf("Gemini raw answer:\n%s", raw)
	return ParseDrafts(raw)
}

// ParseDrafts decodes a model answer, tolerating a surrounding markdown fence.
func ParseDrafts(raw string) ([]Draft, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return nil, errors.New("empty model answer")
	}
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var drafts []Draft
	if err := json.Unmarshal([]byte(clean), &drafts); err != nil {
		return nil, fmt.Errorf("decode model answer: %w", err)
	}
	return drafts, nil
}

type disabledProvider struct{}

func (disabledProvider) SendPrompt(context.Context, string, string) ([]Draft, error) {
	return nil, ErrNotConfigured
}
