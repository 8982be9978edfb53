package engagement

import (
	"context"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	QuizExists(ctx context.Context, quizID uuid.UUID) (bool, error)

	Like(ctx context.Context, l *QuizLike) error
	Unlike(ctx context.Context, userID, quizID uuid.UUID) error
	IsLiked(ctx context.Context, userID, quizID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, quizID uuid.UUID) (int64, error)

	Save(ctx context.Context, s *SavedQuiz) error
	Unsave(ctx context.Context, studentID, quizID uuid.UUID) error
	ListSaved(ctx context.Context, studentID uuid.UUID) ([]SavedQuizView, error)

	AddFeedback(ctx context.Context, f *Feedback) error
	ListFeedback(ctx context.Context, quizID uuid.UUID) ([]Feedback, error)
	FeedbackStats(ctx context.Context, quizID uuid.UUID) (avg float64, count int64, err error)
}

type repository struct {
	store *storage.Store
}

func NewRepository(store *storage.Store) Repository {
	return &repository{store: store}
}

func (r *repository) QuizExists(ctx context.Context, quizID uuid.UUID) (bool, error) {
	var count int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&quiz.Quiz{}).Where("id = ?", quizID).Count(&count).Error
	})
	return count > 0, err
}

// Like inserts the pair unless it already exists.
func (r *repository) Like(ctx context.Context, l *QuizLike) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			DoNothing: true,
		}).Create(l).Error
	})
}

func (r *repository) Unlike(ctx context.Context, userID, quizID uuid.UUID) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("user_id = ? AND quiz_id = ?", userID, quizID).Delete(&QuizLike{}).Error
	})
}

func (r *repository) IsLiked(ctx context.Context, userID, quizID uuid.UUID) (bool, error) {
	var count int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&QuizLike{}).Where("user_id = ? AND quiz_id = ?", userID, quizID).Count(&count).Error
	})
	return count > 0, err
}

func (r *repository) CountLikes(ctx context.Context, quizID uuid.UUID) (int64, error) {
	var count int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&QuizLike{}).Where("quiz_id = ?", quizID).Count(&count).Error
	})
	return count, err
}

func (r *repository) Save(ctx context.Context, s *SavedQuiz) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "quiz_id"}},
			DoNothing: true,
		}).Create(s).Error
	})
}

func (r *repository) Unsave(ctx context.Context, studentID, quizID uuid.UUID) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("student_id = ? AND quiz_id = ?", studentID, quizID).Delete(&SavedQuiz{}).Error
	})
}

func (r *repository) ListSaved(ctx context.Context, studentID uuid.UUID) ([]SavedQuizView, error) {
	var out []SavedQuizView
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Table("saved_quizzes AS sv").
			Select("sv.quiz_id, q.title, s.name AS subject_name, sv.saved_at").
			Joins("JOIN quizzes q ON q.id = sv.quiz_id").
			Joins("LEFT JOIN subjects s ON s.id = q.subject_id").
			Where("sv.student_id = ?", studentID).
			Order("sv.saved_at DESC").
			Scan(&out).Error
	})
	return out, err
}

func (r *repository) AddFeedback(ctx context.Context, f *Feedback) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(f).Error
	})
}

func (r *repository) ListFeedback(ctx context.Context, quizID uuid.UUID) ([]Feedback, error) {
	var out []Feedback
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("quiz_id = ?", quizID).Order("submitted_at DESC").Find(&out).Error
	})
	return out, err
}

func (r *repository) FeedbackStats(ctx context.Context, quizID uuid.UUID) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&Feedback{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("quiz_id = ?", quizID).
			Scan(&row).Error
	})
	return row.Avg, row.Count, err
}
