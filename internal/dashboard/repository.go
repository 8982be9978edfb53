package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/classroom"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/storage"
	"gorm.io/gorm"
)

type Repository interface {
	StudentScores(ctx context.Context, studentID uuid.UUID) (ScoreStats, error)
	CountEnrollments(ctx context.Context, studentID uuid.UUID) (int64, error)

	CountQuizzes(ctx context.Context, creatorID uuid.UUID) (int64, error)
	CountClasses(ctx context.Context, teacherID uuid.UUID) (int64, error)
	CountStudents(ctx context.Context, teacherID uuid.UUID) (int64, error)
	CountAttempts(ctx context.Context, creatorID uuid.UUID) (int64, error)
}

type repository struct {
	store *storage.Store
}

func NewRepository(store *storage.Store) Repository {
	return &repository{store: store}
}

func (r *repository) StudentScores(ctx context.Context, studentID uuid.UUID) (ScoreStats, error) {
	var out ScoreStats
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&attempt.StudentQuiz{}).
			Select(`COUNT(*) AS attempts_completed,
				COALESCE(AVG(score), 0) AS average_score,
				COALESCE(MAX(score), 0) AS best_score`).
			Where("student_id = ? AND status = ?", studentID, attempt.StatusSubmitted).
			Scan(&out).Error
	})
	return out, err
}

func (r *repository) count(ctx context.Context, build func(tx *gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return build(tx).Count(&n).Error
	})
	return n, err
}

func (r *repository) CountEnrollments(ctx context.Context, studentID uuid.UUID) (int64, error) {
	return r.count(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&classroom.Enrollment{}).Where("student_id = ?", studentID)
	})
}

func (r *repository) CountQuizzes(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	return r.count(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&quiz.Quiz{}).Where("creator_id = ?", creatorID)
	})
}

func (r *repository) CountClasses(ctx context.Context, teacherID uuid.UUID) (int64, error) {
	return r.count(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&classroom.Classroom{}).Where("teacher_id = ?", teacherID)
	})
}

// CountStudents counts distinct students enrolled in any of the teacher's classes.
func (r *repository) CountStudents(ctx context.Context, teacherID uuid.UUID) (int64, error) {
	return r.count(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Table("enrollments AS e").
			Joins("JOIN classrooms c ON c.id = e.classroom_id").
			Where("c.teacher_id = ?", teacherID).
			Distinct("e.student_id")
	})
}

// CountAttempts counts submitted attempts at quizzes the teacher created.
func (r *repository) CountAttempts(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	return r.count(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Table("student_quizzes AS a").
			Joins("JOIN quizzes q ON q.id = a.quiz_id").
			Where("q.creator_id = ? AND a.status = ?", creatorID, attempt.StatusSubmitted)
	})
}
