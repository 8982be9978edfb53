package quiz

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/storage"
	"github.com/saulo-duarte/quizard/internal/subject"
	"gorm.io/gorm"
)

type QuizRepository interface {
	CreateWithQuestions(ctx context.Context, q *Quiz, tags map[int][]string) error
	GetWithQuestions(ctx context.Context, id uuid.UUID) (*Quiz, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddQuestion(ctx context.Context, q *Question, tags []string) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error

	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]QuizSummary, error)
	ListPublic(ctx context.Context, subjectID *uuid.UUID, search string) ([]QuizSummary, error)
	Summary(ctx context.Context, id uuid.UUID) (*QuizSummary, error)
	SubjectExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type quizRepository struct {
	store *storage.Store
}

func NewRepository(store *storage.Store) QuizRepository {
	return &quizRepository{store: store}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, created_at ASC")
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("label ASC")
}

// CreateWithQuestions inserts the quiz, its questions and their options in one
// transaction. tags maps a question index to its tag names.
func (r *quizRepository) CreateWithQuestions(ctx context.Context, q *Quiz, tags map[int][]string) error {
	return r.store.Transaction(ctx, func(tx *gorm.DB) error {
		for i := range q.Questions {
			resolved, err := resolveTags(tx, tags[i])
			if err != nil {
				return err
			}
			q.Questions[i].Tags = resolved
		}
		return tx.Create(q).Error
	})
}

func (r *quizRepository) GetWithQuestions(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Preload("Questions", orderedQuestions).
			Preload("Questions.Options", orderedOptions).
			Preload("Questions.Tags").
			First(&q, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&q, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&Quiz{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// dependentDeletes clear rows in other features that point at a quiz.
// Tables a deployment has not migrated are skipped.
var dependentDeletes = []struct {
	table string
	query string
}{
	{"student_answers", "DELETE FROM student_answers WHERE attempt_id IN (SELECT id FROM student_quizzes WHERE quiz_id = ?)"},
	{"student_quizzes", "DELETE FROM student_quizzes WHERE quiz_id = ?"},
	{"quiz_likes", "DELETE FROM quiz_likes WHERE quiz_id = ?"},
	{"saved_quizzes", "DELETE FROM saved_quizzes WHERE quiz_id = ?"},
	{"feedback", "DELETE FROM feedback WHERE quiz_id = ?"},
	{"quiz_assignments", "DELETE FROM quiz_assignments WHERE quiz_id = ?"},
}

// Delete removes the quiz with its questions, options and tag links, and
// with the attempts, answers, likes, saves, feedback and assignments on it.
func (r *quizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Transaction(ctx, func(tx *gorm.DB) error {
		for _, d := range dependentDeletes {
			if !tx.Migrator().HasTable(d.table) {
				continue
			}
			if err := tx.Exec(d.query, id).Error; err != nil {
				return err
			}
		}

		var questionIDs []uuid.UUID
		if err := tx.Model(&Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&QuestionOption{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM question_tags WHERE question_id IN ?", questionIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&Question{}).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&Quiz{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddQuestion appends q after the quiz's last question.
func (r *quizRepository) AddQuestion(ctx context.Context, q *Question, tags []string) error {
	return r.store.Transaction(ctx, func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&Question{}).
			Where("quiz_id = ?", q.QuizID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&last).Error; err != nil {
			return err
		}
		q.Position = last + 1

		resolved, err := resolveTags(tx, tags)
		if err != nil {
			return err
		}
		q.Tags = resolved
		return tx.Create(q).Error
	})
}

func (r *quizRepository) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	var q Question
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&q, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return r.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&QuestionOption{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM question_tags WHERE question_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Question{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func summaryQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("quizzes AS q").
		Select(`q.id, q.title, q.description, q.subject_id, s.name AS subject_name,
			q.creator_id, u.username AS creator_name, q.is_public, q.created_at,
			(SELECT COUNT(*) FROM questions qq WHERE qq.quiz_id = q.id) AS question_count`).
		Joins("LEFT JOIN subjects s ON s.id = q.subject_id").
		Joins("LEFT JOIN users u ON u.id = q.creator_id")
}

func (r *quizRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]QuizSummary, error) {
	var out []QuizSummary
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return summaryQuery(tx).
			Where("q.creator_id = ?", creatorID).
			Order("q.created_at DESC").
			Scan(&out).Error
	})
	return out, err
}

func (r *quizRepository) ListPublic(ctx context.Context, subjectID *uuid.UUID, search string) ([]QuizSummary, error) {
	var out []QuizSummary
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		q := summaryQuery(tx).Where("q.is_public = ?", true)
		if subjectID != nil {
			q = q.Where("q.subject_id = ?", *subjectID)
		}
		if search = strings.TrimSpace(search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			q = q.Where("(LOWER(q.title) LIKE ? OR LOWER(s.name) LIKE ?)", like, like)
		}
		return q.Order("q.created_at DESC").Scan(&out).Error
	})
	return out, err
}

func (r *quizRepository) Summary(ctx context.Context, id uuid.UUID) (*QuizSummary, error) {
	var out QuizSummary
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		res := summaryQuery(tx).Where("q.id = ?", id).Limit(1).Scan(&out)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *quizRepository) SubjectExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&subject.Subject{}).Where("id = ?", id).Count(&count).Error
	})
	return count > 0, err
}

// resolveTags returns one Tag per distinct name, creating missing ones.
func resolveTags(tx *gorm.DB, names []string) ([]Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]Tag, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag Tag
		if err := tx.Where(Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
