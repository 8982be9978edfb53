package aiquiz

import (
	"context"
	"errors"
	"strings"

	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/quiz"
)

var labels = []string{"A", "B", "C", "D"}

type Service interface {
	GenerateQuestions(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

type service struct {
	provider Provider
}

func NewService(provider Provider) Service {
	return &service{provider: provider}
}

func (s *service) GenerateQuestions(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	log := config.WithContext(ctx)
	if err := config.Validate(req); err != nil {
		return nil, err
	}

	drafts, err := s.provider.SendPrompt(ctx, systemPrompt, BuildUserPrompt(req))
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		log.WithError(err).Error("Failed to generate questions")
		return nil, apperr.Wrap(apperr.ErrUpstream, "failed to generate questions", err)
	}

	limit := req.Count
	if limit <= 0 {
		limit = defaultCount
	}

	out := &GenerateResponse{Questions: []quiz.QuestionInput{}}
	for _, d := range drafts {
		if len(out.Questions) == limit {
			break
		}
		in, ok := ToQuestionInput(d)
		if !ok || quiz.ValidateQuestion(in) != nil {
			out.Discarded++
			continue
		}
		out.Questions = append(out.Questions, in)
	}

	log.WithField("drafts", len(out.Questions)).Info("Generated question drafts")
	return out, nil
}

// ToQuestionInput maps a draft onto options A to D in order. Option text may
// carry its own "A) " prefix, which is dropped.
func ToQuestionInput(d Draft) (quiz.QuestionInput, bool) {
	if len(d.Options) < 2 || len(d.Options) > len(labels) {
		return quiz.QuestionInput{}, false
	}

	in := quiz.QuestionInput{
		Content:       strings.TrimSpace(d.Question),
		CorrectOption: strings.ToUpper(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(d.CorrectOption), ")"))),
		Explanation:   strings.TrimSpace(d.Explanation),
	}
	for i, text := range d.Options {
		in.Options = append(in.Options, quiz.OptionInput{Label: labels[i], Content: stripLabel(text, labels[i])})
	}
	if t := strings.ToLower(strings.TrimSpace(d.Topic)); t != "" {
		in.Tags = []string{t}
	}
	return in, true
}

func stripLabel(text, label string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{label + ")", label + ".", label + " -", label + ":"} {
		if strings.HasPrefix(strings.ToUpper(text), prefix) {
			return strings.TrimSpace(text[len(prefix):])
		}
	}
	return text
}
