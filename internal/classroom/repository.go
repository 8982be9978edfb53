package classroom

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/storage"
	"github.com/saulo-duarte/quizard/internal/user"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Classroom) error
	GetByID(ctx context.Context, id uuid.UUID) (*Classroom, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]ClassSummary, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]ClassSummary, error)
	Search(ctx context.Context, query string) ([]ClassSummary, error)

	Enroll(ctx context.Context, e *Enrollment) error
	Unenroll(ctx context.Context, classID, studentID uuid.UUID) error
	ListMembers(ctx context.Context, classID uuid.UUID) ([]ClassMember, error)

	Assign(ctx context.Context, a *QuizAssignment) error
	ListAssignmentsForStudent(ctx context.Context, studentID uuid.UUID) ([]AssignmentView, error)
	ListAssignmentsForClass(ctx context.Context, classID uuid.UUID) ([]AssignmentView, error)

	GetQuiz(ctx context.Context, id uuid.UUID) (*quiz.Quiz, error)
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type repository struct {
	store *storage.Store
}

func NewRepository(store *storage.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Create(ctx context.Context, c *Classroom) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(c).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Classroom, error) {
	var c Classroom
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&c, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes the class together with its enrollments and assignments.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("classroom_id = ?", id).Delete(&Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("classroom_id = ?", id).Delete(&QuizAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Classroom{}, "id = ?", id).Error
	})
}

func summaryQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("classrooms AS c").
		Select(`c.id, c.name, c.teacher_id, u.username AS teacher_name, c.created_at,
			(SELECT COUNT(*) FROM enrollments e WHERE e.classroom_id = c.id) AS student_count`).
		Joins("LEFT JOIN users u ON u.id = c.teacher_id")
}

func withCodes(list []ClassSummary) []ClassSummary {
	for i := range list {
		list[i].Code = list[i].ID.String()
	}
	return list
}

func (r *repository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]ClassSummary, error) {
	var out []ClassSummary
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return summaryQuery(tx).Where("c.teacher_id = ?", teacherID).Order("c.name ASC").Scan(&out).Error
	})
	return withCodes(out), err
}

func (r *repository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]ClassSummary, error) {
	var out []ClassSummary
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return summaryQuery(tx).
			Joins("JOIN enrollments me ON me.classroom_id = c.id AND me.student_id = ?", studentID).
			Order("c.name ASC").
			Scan(&out).Error
	})
	return withCodes(out), err
}

func (r *repository) Search(ctx context.Context, query string) ([]ClassSummary, error) {
	var out []ClassSummary
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		q := summaryQuery(tx)
		if query = strings.TrimSpace(query); query != "" {
			q = q.Where("LOWER(c.name) LIKE ?", "%"+strings.ToLower(query)+"%")
		}
		return q.Order("c.name ASC").Limit(50).Scan(&out).Error
	})
	return withCodes(out), err
}

func (r *repository) ListMembers(ctx context.Context, classID uuid.UUID) ([]ClassMember, error) {
	var out []ClassMember
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Table("enrollments e").
			Select("e.student_id, u.username, u.full_name, e.enrolled_at").
			Joins("JOIN users u ON u.id = e.student_id").
			Where("e.classroom_id = ?", classID).
			Order("u.username ASC").
			Scan(&out).Error
	})
	return out, err
}

func (r *repository) Enroll(ctx context.Context, e *Enrollment) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(e).Error
	})
}

func (r *repository) Unenroll(ctx context.Context, classID, studentID uuid.UUID) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		res := tx.Where("classroom_id = ? AND student_id = ?", classID, studentID).Delete(&Enrollment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *repository) Assign(ctx context.Context, a *QuizAssignment) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(a).Error
	})
}

func assignmentQuery(tx *gorm.DB, studentID uuid.UUID) *gorm.DB {
	return tx.Table("quiz_assignments AS qa").
		Select(`qa.id, qa.quiz_id, q.title AS quiz_title, qa.classroom_id, c.name AS class_name,
			qa.student_id, qa.due_date, qa.assigned_at,
			EXISTS (SELECT 1 FROM student_quizzes sq
				WHERE sq.quiz_id = qa.quiz_id AND sq.student_id = ? AND sq.status = ?) AS completed`,
			studentID, attempt.StatusSubmitted).
		Joins("JOIN quizzes q ON q.id = qa.quiz_id").
		Joins("LEFT JOIN classrooms c ON c.id = qa.classroom_id")
}

// ListAssignmentsForStudent covers direct assignments and those made to any
// class the student is enrolled in.
func (r *repository) ListAssignmentsForStudent(ctx context.Context, studentID uuid.UUID) ([]AssignmentView, error) {
	var out []AssignmentView
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		enrolled := tx.Model(&Enrollment{}).Select("classroom_id").Where("student_id = ?", studentID)
		return assignmentQuery(tx, studentID).
			Where("qa.student_id = ? OR qa.classroom_id IN (?)", studentID, enrolled).
			Order("qa.assigned_at DESC").
			Scan(&out).Error
	})
	return out, err
}

func (r *repository) ListAssignmentsForClass(ctx context.Context, classID uuid.UUID) ([]AssignmentView, error) {
	var out []AssignmentView
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return assignmentQuery(tx, uuid.Nil).
			Where("qa.classroom_id = ?", classID).
			Order("qa.assigned_at DESC").
			Scan(&out).Error
	})
	return out, err
}

func (r *repository) GetQuiz(ctx context.Context, id uuid.UUID) (*quiz.Quiz, error) {
	var q quiz.Quiz
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&q, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repository) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&u, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
