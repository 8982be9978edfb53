package attempt

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/storage"
	"gorm.io/gorm"
)

var errNotInProgress = apperr.InvalidState("attempt is not in progress")

// SubmitRecord is the final state written to an attempt on submission.
type SubmitRecord struct {
	FinishedAt       time.Time
	TimeSpentSeconds int
	Score            float64
}

type Repository interface {
	Create(ctx context.Context, a *StudentQuiz) error
	Submit(ctx context.Context, attemptID uuid.UUID, rec SubmitRecord, answers []StudentAnswer) error
	Abandon(ctx context.Context, attemptID uuid.UUID, at time.Time) error
	SweepInProgress(ctx context.Context, startedBefore, at time.Time) (int64, error)
	GetByID(ctx context.Context, attemptID uuid.UUID) (*StudentQuiz, error)
	GetWithAnswers(ctx context.Context, attemptID uuid.UUID) (*StudentQuiz, error)
	ListSubmittedByStudent(ctx context.Context, studentID uuid.UUID, search string) ([]ResultSummary, error)
	ListSubmittedByQuiz(ctx context.Context, quizID uuid.UUID) ([]ResultSummary, error)
}

type repository struct {
	store *storage.Store
}

func NewRepository(store *storage.Store) Repository {
	return &repository{store: store}
}

func (r *repository) GetByID(ctx context.Context, attemptID uuid.UUID) (*StudentQuiz, error) {
	var a StudentQuiz
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&a, "id = ?", attemptID).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *StudentQuiz) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(a).Error
	})
}

// Submit finalizes the attempt and inserts its answers atomically. The update
// only matches an attempt still in progress, so a second submission writes
// nothing and reports ErrInvalidState.
func (r *repository) Submit(ctx context.Context, attemptID uuid.UUID, rec SubmitRecord, answers []StudentAnswer) error {
	return r.store.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&StudentQuiz{}).
			Where("id = ? AND status = ?", attemptID, StatusInProgress).
			Updates(map[string]interface{}{
				"status":             StatusSubmitted,
				"finished_at":        rec.FinishedAt,
				"completed_at":       rec.FinishedAt,
				"time_spent_seconds": rec.TimeSpentSeconds,
				"score":              rec.Score,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotInProgress
		}
		if len(answers) == 0 {
			return nil
		}
		return tx.Create(&answers).Error
	})
}

func (r *repository) Abandon(ctx context.Context, attemptID uuid.UUID, at time.Time) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&StudentQuiz{}).
			Where("id = ? AND status = ?", attemptID, StatusInProgress).
			Updates(map[string]interface{}{
				"status":      StatusAbandoned,
				"finished_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&StudentQuiz{}).Where("id = ?", attemptID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return errNotInProgress
		}
		return nil
	})
}

func (r *repository) SweepInProgress(ctx context.Context, startedBefore, at time.Time) (int64, error) {
	var affected int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&StudentQuiz{}).
			Where("status = ? AND started_at < ?", StatusInProgress, startedBefore).
			Updates(map[string]interface{}{
				"status":      StatusAbandoned,
				"finished_at": at,
			})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *repository) GetWithAnswers(ctx context.Context, attemptID uuid.UUID) (*StudentQuiz, error) {
	var a StudentQuiz
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Answers").First(&a, "id = ?", attemptID).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func resultsQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("student_quizzes AS a").
		Select(`a.id AS attempt_id, a.quiz_id, q.title AS quiz_title, a.student_id,
			u.username AS student_name, a.score, a.time_spent_seconds, a.completed_at,
			(SELECT COUNT(*) FROM student_answers sa WHERE sa.attempt_id = a.id) AS total,
			(SELECT COUNT(*) FROM student_answers sa WHERE sa.attempt_id = a.id AND sa.is_correct = ?) AS correct`, true).
		Joins("JOIN quizzes q ON q.id = a.quiz_id").
		Joins("LEFT JOIN users u ON u.id = a.student_id").
		Where("a.status = ?", StatusSubmitted)
}

func (r *repository) ListSubmittedByStudent(ctx context.Context, studentID uuid.UUID, search string) ([]ResultSummary, error) {
	var out []ResultSummary
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		q := resultsQuery(tx).Where("a.student_id = ?", studentID)
		if search = strings.TrimSpace(search); search != "" {
			q = q.Where("LOWER(q.title) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		return q.Order("a.completed_at DESC").Scan(&out).Error
	})
	return out, err
}

func (r *repository) ListSubmittedByQuiz(ctx context.Context, quizID uuid.UUID) ([]ResultSummary, error) {
	var out []ResultSummary
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return resultsQuery(tx).
			Where("a.quiz_id = ?", quizID).
			Order("a.score DESC, a.time_spent_seconds ASC").
			Scan(&out).Error
	})
	return out, err
}
