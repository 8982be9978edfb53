package engagement

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/quiz"
)

var ErrQuizNotFound = apperr.NotFound("quiz not found")

type Service interface {
	Like(ctx context.Context, userID, quizID uuid.UUID) (*LikeStatus, error)
	Unlike(ctx context.Context, userID, quizID uuid.UUID) (*LikeStatus, error)
	Save(ctx context.Context, studentID, quizID uuid.UUID) error
	Unsave(ctx context.Context, studentID, quizID uuid.UUID) error
	ListSaved(ctx context.Context, studentID uuid.UUID) ([]SavedQuizView, error)
	SubmitFeedback(ctx context.Context, studentID, quizID uuid.UUID, dto FeedbackDTO) (*Feedback, error)
	ListFeedback(ctx context.Context, quizID uuid.UUID) ([]Feedback, error)
	QuizEngagement(ctx context.Context, quizID uuid.UUID) (quiz.Engagement, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) requireQuiz(ctx context.Context, quizID uuid.UUID) error {
	ok, err := s.repo.QuizExists(ctx, quizID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrQuizNotFound
	}
	return nil
}

func (s *service) likeStatus(ctx context.Context, userID, quizID uuid.UUID) (*LikeStatus, error) {
	liked, err := s.repo.IsLiked(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountLikes(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return &LikeStatus{Liked: liked, Likes: count}, nil
}

func (s *service) Like(ctx context.Context, userID, quizID uuid.UUID) (*LikeStatus, error) {
	if err := s.requireQuiz(ctx, quizID); err != nil {
		return nil, err
	}
	if err := s.repo.Like(ctx, &QuizLike{UserID: userID, QuizID: quizID, LikedAt: time.Now()}); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to like quiz")
		return nil, err
	}
	return s.likeStatus(ctx, userID, quizID)
}

func (s *service) Unlike(ctx context.Context, userID, quizID uuid.UUID) (*LikeStatus, error) {
	if err := s.repo.Unlike(ctx, userID, quizID); err != nil {
		return nil, err
	}
	return s.likeStatus(ctx, userID, quizID)
}

func (s *service) Save(ctx context.Context, studentID, quizID uuid.UUID) error {
	if err := s.requireQuiz(ctx, quizID); err != nil {
		return err
	}
	return s.repo.Save(ctx, &SavedQuiz{StudentID: studentID, QuizID: quizID, SavedAt: time.Now()})
}

func (s *service) Unsave(ctx context.Context, studentID, quizID uuid.UUID) error {
	return s.repo.Unsave(ctx, studentID, quizID)
}

func (s *service) ListSaved(ctx context.Context, studentID uuid.UUID) ([]SavedQuizView, error) {
	return s.repo.ListSaved(ctx, studentID)
}

func (s *service) SubmitFeedback(ctx context.Context, studentID, quizID uuid.UUID, dto FeedbackDTO) (*Feedback, error) {
	dto.Comment = strings.TrimSpace(dto.Comment)
	if err := config.Validate(dto); err != nil {
		return nil, err
	}
	if err := s.requireQuiz(ctx, quizID); err != nil {
		return nil, err
	}

	f := Feedback{
		StudentID:   studentID,
		QuizID:      quizID,
		Rating:      dto.Rating,
		Comment:     dto.Comment,
		SubmittedAt: time.Now(),
	}
	if err := s.repo.AddFeedback(ctx, &f); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to store feedback")
		return nil, err
	}
	return &f, nil
}

func (s *service) ListFeedback(ctx context.Context, quizID uuid.UUID) ([]Feedback, error) {
	return s.repo.ListFeedback(ctx, quizID)
}

// QuizEngagement reports like count and the average rating rounded to one decimal.
func (s *service) QuizEngagement(ctx context.Context, quizID uuid.UUID) (quiz.Engagement, error) {
	likes, err := s.repo.CountLikes(ctx, quizID)
	if err != nil {
		return quiz.Engagement{}, err
	}
	avg, count, err := s.repo.FeedbackStats(ctx, quizID)
	if err != nil {
		return quiz.Engagement{}, err
	}
	return quiz.Engagement{
		Likes:         likes,
		AverageRating: math.Round(avg*10) / 10,
		Feedbacks:     count,
	}, nil
}
