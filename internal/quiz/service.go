package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
)

var (
	ErrQuizNotFound     = apperr.NotFound("quiz not found")
	ErrQuestionNotFound = apperr.NotFound("question not found")
	ErrSubjectNotFound  = apperr.NotFound("subject not found")
	ErrNotCreator       = apperr.Authorization("only the creator may change this quiz")
)

// EngagementSource reports likes and ratings for QuizDetails.
type EngagementSource interface {
	QuizEngagement(ctx context.Context, quizID uuid.UUID) (Engagement, error)
}

type QuizService interface {
	CreateQuizWithQuestions(ctx context.Context, creatorID uuid.UUID, dto CreateQuizDTO) (*Quiz, error)
	UpdateQuiz(ctx context.Context, creatorID, quizID uuid.UUID, dto UpdateQuizDTO) (*Quiz, error)
	DeleteQuiz(ctx context.Context, creatorID, quizID uuid.UUID) error
	AddQuestion(ctx context.Context, creatorID, quizID uuid.UUID, in QuestionInput) (*Question, error)
	RemoveQuestion(ctx context.Context, creatorID, questionID uuid.UUID) error
	GetQuizWithQuestions(ctx context.Context, quizID uuid.UUID) (*Quiz, error)
	ListQuizzesByUser(ctx context.Context, creatorID uuid.UUID) ([]QuizSummary, error)
	ListPublic(ctx context.Context, subjectID *uuid.UUID, search string) ([]QuizSummary, error)
	QuizDetails(ctx context.Context, quizID uuid.UUID) (*QuizDetails, error)
}

type quizService struct {
	repo       QuizRepository
	cache      Cache
	engagement EngagementSource
}

func NewService(repo QuizRepository, cache Cache, engagement EngagementSource) QuizService {
	if cache == nil {
		cache = NopCache()
	}
	return &quizService{
		repo:       repo,
		cache:      cache,
		engagement: engagement,
	}
}

// ValidateQuestion checks the option set of in: labels are unique and the
// correct label is one of them.
func ValidateQuestion(in QuestionInput) error {
	if err := config.Validate(in); err != nil {
		return err
	}
	seen := make(map[string]bool, len(in.Options))
	for _, o := range in.Options {
		if seen[o.Label] {
			return apperr.Validation(fmt.Sprintf("option %s is repeated", o.Label))
		}
		seen[o.Label] = true
	}
	if !seen[in.CorrectOption] {
		return apperr.Validation(fmt.Sprintf("correct option %s is not among the options", in.CorrectOption))
	}
	return nil
}

func buildQuestion(in QuestionInput, position int) Question {
	q := Question{
		Content:       strings.TrimSpace(in.Content),
		CorrectOption: in.CorrectOption,
		Position:      position,
	}
	if e := strings.TrimSpace(in.Explanation); e != "" {
		q.Explanation = &e
	}
	for _, o := range in.Options {
		q.Options = append(q.Options, QuestionOption{Label: o.Label, Content: strings.TrimSpace(o.Content)})
	}
	return q
}

func (s *quizService) CreateQuizWithQuestions(ctx context.Context, creatorID uuid.UUID, dto CreateQuizDTO) (*Quiz, error) {
	log := config.WithContext(ctx)

	dto.Title = strings.TrimSpace(dto.Title)
	if err := config.Validate(dto); err != nil {
		return nil, err
	}
	for i, in := range dto.Questions {
		if err := ValidateQuestion(in); err != nil {
			return nil, apperr.Wrap(apperr.ErrValidation, fmt.Sprintf("question %d: %s", i+1, apperr.Message(err)), err)
		}
	}

	ok, err := s.repo.SubjectExists(ctx, dto.SubjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubjectNotFound
	}

	quiz := Quiz{
		SubjectID:   dto.SubjectID,
		CreatorID:   creatorID,
		Title:       dto.Title,
		Description: strings.TrimSpace(dto.Description),
		IsPublic:    dto.IsPublic == nil || *dto.IsPublic,
	}
	tags := make(map[int][]string, len(dto.Questions))
	for i, in := range dto.Questions {
		quiz.Questions = append(quiz.Questions, buildQuestion(in, i))
		tags[i] = in.Tags
	}

	if err := s.repo.CreateWithQuestions(ctx, &quiz, tags); err != nil {
		log.WithError(err).Error("Failed to create quiz with questions")
		return nil, err
	}

	log.WithField("quiz_id", quiz.ID).WithField("questions", len(quiz.Questions)).Info("Quiz created")
	return &quiz, nil
}

func (s *quizService) ownedQuiz(ctx context.Context, creatorID, quizID uuid.UUID) (*Quiz, error) {
	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	if q.CreatorID != creatorID {
		return nil, ErrNotCreator
	}
	return q, nil
}

func (s *quizService) UpdateQuiz(ctx context.Context, creatorID, quizID uuid.UUID, dto UpdateQuizDTO) (*Quiz, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	if err := config.Validate(dto); err != nil {
		return nil, err
	}
	q, err := s.ownedQuiz(ctx, creatorID, quizID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		if title == "" {
			return nil, apperr.Validation("title must not be empty")
		}
		fields["title"] = title
		q.Title = title
	}
	if dto.Description != nil {
		q.Description = strings.TrimSpace(*dto.Description)
		fields["description"] = q.Description
	}
	if dto.IsPublic != nil {
		q.IsPublic = *dto.IsPublic
		fields["is_public"] = q.IsPublic
	}
	if dto.SubjectID != nil && *dto.SubjectID != q.SubjectID {
		ok, err := s.repo.SubjectExists(ctx, *dto.SubjectID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSubjectNotFound
		}
		q.SubjectID = *dto.SubjectID
		fields["subject_id"] = q.SubjectID
	}
	if len(fields) == 0 {
		return q, nil
	}

	if err := s.repo.Update(ctx, quizID, fields); err != nil {
		log.WithError(err).Error("Failed to update quiz")
		return nil, err
	}
	s.cache.Invalidate(ctx, quizID)

	log.Info("Quiz updated")
	return q, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, creatorID, quizID uuid.UUID) error {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	if _, err := s.ownedQuiz(ctx, creatorID, quizID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, quizID); err != nil {
		log.WithError(err).Error("Failed to delete quiz")
		return err
	}
	s.cache.Invalidate(ctx, quizID)

	log.Info("Quiz deleted")
	return nil
}

func (s *quizService) AddQuestion(ctx context.Context, creatorID, quizID uuid.UUID, in QuestionInput) (*Question, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	if err := ValidateQuestion(in); err != nil {
		return nil, err
	}
	if _, err := s.ownedQuiz(ctx, creatorID, quizID); err != nil {
		return nil, err
	}

	question := buildQuestion(in, 0)
	question.QuizID = quizID
	if err := s.repo.AddQuestion(ctx, &question, in.Tags); err != nil {
		log.WithError(err).Error("Failed to add question")
		return nil, err
	}
	s.cache.Invalidate(ctx, quizID)

	log.WithField("question_id", question.ID).Info("Question added")
	return &question, nil
}

func (s *quizService) RemoveQuestion(ctx context.Context, creatorID, questionID uuid.UUID) error {
	log := config.WithContext(ctx).WithField("question_id", questionID)

	question, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	if _, err := s.ownedQuiz(ctx, creatorID, question.QuizID); err != nil {
		return err
	}
	if err := s.repo.DeleteQuestion(ctx, questionID); err != nil {
		log.WithError(err).Error("Failed to remove question")
		return err
	}
	s.cache.Invalidate(ctx, question.QuizID)

	log.Info("Question removed")
	return nil
}

// GetQuizWithQuestions returns the quiz with questions in creation order and
// options ordered by label, reading through the cache.
func (s *quizService) GetQuizWithQuestions(ctx context.Context, quizID uuid.UUID) (*Quiz, error) {
	if q, ok := s.cache.Get(ctx, quizID); ok {
		return q, nil
	}

	q, err := s.repo.GetWithQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		config.WithContext(ctx).WithError(err).Error("Failed to load quiz")
		return nil, err
	}
	s.cache.Set(ctx, q)
	return q, nil
}

func (s *quizService) ListQuizzesByUser(ctx context.Context, creatorID uuid.UUID) ([]QuizSummary, error) {
	return s.repo.ListByCreator(ctx, creatorID)
}

func (s *quizService) ListPublic(ctx context.Context, subjectID *uuid.UUID, search string) ([]QuizSummary, error) {
	return s.repo.ListPublic(ctx, subjectID, search)
}

func (s *quizService) QuizDetails(ctx context.Context, quizID uuid.UUID) (*QuizDetails, error) {
	summary, err := s.repo.Summary(ctx, quizID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	details := &QuizDetails{QuizSummary: *summary}
	if s.engagement != nil {
		e, err := s.engagement.QuizEngagement(ctx, quizID)
		if err != nil {
			return nil, err
		}
		details.LikeCount = e.Likes
		details.AverageRating = e.AverageRating
		details.FeedbackCount = e.Feedbacks
	}
	return details, nil
}
