package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"gorm.io/datatypes"
)

var (
	ErrAttemptNotFound = apperr.NotFound("attempt not found")
	ErrNotOwner        = apperr.Authorization("attempt belongs to another student")
	ErrEmptyQuiz       = apperr.Validation("quiz has no questions")
)

// QuizSource loads quiz content with questions and options in display order.
type QuizSource interface {
	GetQuizWithQuestions(ctx context.Context, quizID uuid.UUID) (*quiz.Quiz, error)
}

type Service struct {
	repo    Repository
	quizzes QuizSource
	now     func() time.Time

	mu   sync.RWMutex
	live map[uuid.UUID]*Workflow
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, quizzes QuizSource, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		quizzes: quizzes,
		now:     time.Now,
		live:    make(map[uuid.UUID]*Workflow),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a new attempt. clientInfo is stored as given and may be nil.
func (s *Service) Start(ctx context.Context, studentID, quizID uuid.UUID, clientInfo map[string]string) (*Workflow, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	q, err := s.quizzes.GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(q.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}

	a := StudentQuiz{
		StudentID: studentID,
		QuizID:    q.ID,
		Status:    StatusInProgress,
		StartedAt: s.now(),
	}
	if len(clientInfo) > 0 {
		raw, err := json.Marshal(clientInfo)
		if err == nil {
			a.ClientInfo = datatypes.JSON(raw)
		}
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		log.WithError(err).Error("Failed to create attempt")
		return nil, err
	}

	w := newWorkflow(&a, q, s.repo, s.now)
	s.mu.Lock()
	s.live[a.ID] = w
	s.mu.Unlock()

	log.WithField("attempt_id", a.ID).Info("Attempt started")
	return w, nil
}

// Get returns the live workflow of an attempt that has not been submitted
// or abandoned through this service.
func (s *Service) Get(attemptID uuid.UUID) (*Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.live[attemptID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return w, nil
}

// GetOwned is Get restricted to the attempt's student.
func (s *Service) GetOwned(attemptID, studentID uuid.UUID) (*Workflow, error) {
	w, err := s.Get(attemptID)
	if err != nil {
		return nil, err
	}
	if w.StudentID() != studentID {
		return nil, ErrNotOwner
	}
	return w, nil
}

// Resolve is GetOwned falling back to the stored attempt, so that a closed
// attempt is reported as InvalidState instead of missing.
func (s *Service) Resolve(ctx context.Context, attemptID, studentID uuid.UUID) (*Workflow, error) {
	w, err := s.GetOwned(attemptID, studentID)
	if !errors.Is(err, ErrAttemptNotFound) {
		return w, err
	}

	a, err := s.repo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	if a.StudentID != studentID {
		return nil, ErrNotOwner
	}
	if a.Status != StatusInProgress {
		return nil, apperr.InvalidState(fmt.Sprintf("attempt is already %s", a.Status))
	}
	return nil, ErrAttemptNotFound
}

// Active returns the most recently started live workflow of a student.
func (s *Service) Active(studentID uuid.UUID) (*Workflow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *Workflow
	for _, w := range s.live {
		if w.StudentID() != studentID || w.Status() != StatusInProgress {
			continue
		}
		if latest == nil || w.startedAt.After(latest.startedAt) {
			latest = w
		}
	}
	return latest, latest != nil
}

func (s *Service) Submit(ctx context.Context, w *Workflow) (*Result, error) {
	result, err := w.Submit(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidState) {
			s.forget(w.AttemptID())
		}
		return nil, err
	}
	s.forget(w.AttemptID())
	return result, nil
}

func (s *Service) Abandon(ctx context.Context, attemptID uuid.UUID) error {
	now := s.now()
	if err := s.repo.Abandon(ctx, attemptID, now); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrAttemptNotFound
		}
		return err
	}
	if w, err := s.Get(attemptID); err == nil {
		w.abandon(now)
	}
	s.forget(attemptID)

	config.WithContext(ctx).WithField("attempt_id", attemptID).Info("Attempt abandoned")
	return nil
}

// SweepAbandoned marks attempts started more than olderThan ago and still in
// progress as abandoned, in the store and in memory.
func (s *Service) SweepAbandoned(ctx context.Context, olderThan time.Duration) (int64, error) {
	now := s.now()
	cutoff := now.Add(-olderThan)

	n, err := s.repo.SweepInProgress(ctx, cutoff, now)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to sweep stale attempts")
		return 0, err
	}

	s.mu.Lock()
	for id, w := range s.live {
		if w.startedBefore(cutoff) {
			w.abandon(now)
			delete(s.live, id)
		}
	}
	s.mu.Unlock()

	if n > 0 {
		config.WithContext(ctx).WithField("count", n).Info("Stale attempts abandoned")
	}
	return n, nil
}

func (s *Service) ListResults(ctx context.Context, studentID uuid.UUID, search string) ([]ResultSummary, error) {
	return s.repo.ListSubmittedByStudent(ctx, studentID, search)
}

// QuizResults lists submitted attempts at a quiz. Only its creator may see them.
func (s *Service) QuizResults(ctx context.Context, requesterID, quizID uuid.UUID) ([]ResultSummary, error) {
	q, err := s.quizzes.GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q.CreatorID != requesterID {
		return nil, apperr.Authorization("only the quiz creator may see its results")
	}
	return s.repo.ListSubmittedByQuiz(ctx, quizID)
}

// AttemptDetail is visible to the attempt's student and to the quiz creator
// once the attempt is submitted.
func (s *Service) AttemptDetail(ctx context.Context, requesterID, attemptID uuid.UUID) (*Detail, error) {
	a, err := s.repo.GetWithAnswers(ctx, attemptID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	q, err := s.quizzes.GetQuizWithQuestions(ctx, a.QuizID)
	if err != nil {
		return nil, err
	}
	if a.StudentID != requesterID && q.CreatorID != requesterID {
		return nil, ErrNotOwner
	}
	if a.Status != StatusSubmitted {
		return nil, apperr.InvalidState("attempt has not been submitted")
	}

	byQuestion := make(map[uuid.UUID]StudentAnswer, len(a.Answers))
	for _, ans := range a.Answers {
		byQuestion[ans.QuestionID] = ans
	}

	d := &Detail{Attempt: *a, QuizTitle: q.Title}
	for _, question := range q.Questions {
		ans, answered := byQuestion[question.ID]
		if !answered {
			continue
		}
		item := AnswerDetail{
			QuestionID: question.ID,
			Content:    question.Content,
			Selected:   ans.SelectedOption,
			Correct:    question.CorrectOption,
			IsCorrect:  ans.IsCorrect,
		}
		if question.Explanation != nil {
			item.Explanation = *question.Explanation
		}
		for _, o := range question.Options {
			item.Options = append(item.Options, OptionView{Label: o.Label, Content: o.Content})
		}
		if item.IsCorrect {
			d.Correct++
		}
		d.Answers = append(d.Answers, item)
	}
	d.Total = len(d.Answers)
	return d, nil
}

func (s *Service) forget(attemptID uuid.UUID) {
	s.mu.Lock()
	delete(s.live, attemptID)
	s.mu.Unlock()
}
