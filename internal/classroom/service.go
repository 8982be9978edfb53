package classroom

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/identity"
)

var (
	ErrClassNotFound   = apperr.NotFound("class not found")
	ErrNotClassTeacher = apperr.Authorization("only the class teacher may do this")
	ErrAlreadyEnrolled = apperr.Validation("already enrolled in this class")
	ErrNotEnrolled     = apperr.NotFound("not enrolled in this class")
	ErrInvalidCode     = apperr.Validation("invalid class code")
)

type Service interface {
	CreateClass(ctx context.Context, teacherID uuid.UUID, dto CreateClassDTO) (*ClassSummary, error)
	DeleteClass(ctx context.Context, teacherID, classID uuid.UUID) error
	ListTeacherClasses(ctx context.Context, teacherID uuid.UUID) ([]ClassSummary, error)
	Join(ctx context.Context, studentID uuid.UUID, code string) (*ClassSummary, error)
	Leave(ctx context.Context, studentID, classID uuid.UUID) error
	ListStudentClasses(ctx context.Context, studentID uuid.UUID) ([]ClassSummary, error)
	AddStudent(ctx context.Context, teacherID, classID, studentID uuid.UUID) (*ClassMember, error)
	RemoveStudent(ctx context.Context, teacherID, classID, studentID uuid.UUID) error
	ListStudents(ctx context.Context, teacherID, classID uuid.UUID) ([]ClassMember, error)
	Search(ctx context.Context, query string) ([]ClassSummary, error)
	AssignQuiz(ctx context.Context, teacherID uuid.UUID, dto AssignQuizDTO) (*QuizAssignment, error)
	ListStudentAssignments(ctx context.Context, studentID uuid.UUID) ([]AssignmentView, error)
	ListClassAssignments(ctx context.Context, teacherID, classID uuid.UUID) ([]AssignmentView, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) CreateClass(ctx context.Context, teacherID uuid.UUID, dto CreateClassDTO) (*ClassSummary, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := config.Validate(dto); err != nil {
		return nil, err
	}

	c := Classroom{Name: dto.Name, TeacherID: teacherID}
	if err := s.repo.Create(ctx, &c); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to create class")
		return nil, err
	}

	config.WithContext(ctx).WithField("class_id", c.ID).Info("Class created")
	return &ClassSummary{
		ID:        c.ID,
		Name:      c.Name,
		Code:      c.ID.String(),
		TeacherID: c.TeacherID,
		CreatedAt: c.CreatedAt,
	}, nil
}

func (s *service) ownedClass(ctx context.Context, teacherID, classID uuid.UUID) (*Classroom, error) {
	c, err := s.repo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if c.TeacherID != teacherID {
		return nil, ErrNotClassTeacher
	}
	return c, nil
}

func (s *service) DeleteClass(ctx context.Context, teacherID, classID uuid.UUID) error {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, classID); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to delete class")
		return err
	}
	config.WithContext(ctx).WithField("class_id", classID).Info("Class deleted")
	return nil
}

func (s *service) ListTeacherClasses(ctx context.Context, teacherID uuid.UUID) ([]ClassSummary, error) {
	return s.repo.ListByTeacher(ctx, teacherID)
}

// Join enrolls the student in the class whose code is given. The code of a
// class is its id.
func (s *service) Join(ctx context.Context, studentID uuid.UUID, code string) (*ClassSummary, error) {
	classID, err := uuid.Parse(strings.TrimSpace(code))
	if err != nil {
		return nil, ErrInvalidCode
	}
	c, err := s.repo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	e := Enrollment{ClassroomID: c.ID, StudentID: studentID, EnrolledAt: s.now()}
	if err := s.repo.Enroll(ctx, &e); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		config.WithContext(ctx).WithError(err).Error("Failed to enroll student")
		return nil, err
	}

	config.WithContext(ctx).WithField("class_id", c.ID).Info("Student joined class")
	return &ClassSummary{ID: c.ID, Name: c.Name, Code: c.ID.String(), TeacherID: c.TeacherID, CreatedAt: c.CreatedAt}, nil
}

func (s *service) Leave(ctx context.Context, studentID, classID uuid.UUID) error {
	if err := s.repo.Unenroll(ctx, classID, studentID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotEnrolled
		}
		return err
	}
	return nil
}

// AddStudent enrolls a student account in one of the teacher's classes.
func (s *service) AddStudent(ctx context.Context, teacherID, classID, studentID uuid.UUID) (*ClassMember, error) {
	log := config.WithContext(ctx).WithField("class_id", classID).WithField("student_id", studentID)

	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}
	u, err := s.repo.GetUser(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("student not found")
		}
		return nil, err
	}
	if u.Role != identity.RoleStudent {
		return nil, apperr.Validation("only students can be added to a class")
	}

	e := Enrollment{ClassroomID: classID, StudentID: studentID, EnrolledAt: s.now()}
	if err := s.repo.Enroll(ctx, &e); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		log.WithError(err).Error("Failed to add student to class")
		return nil, err
	}

	log.Info("Student added to class")
	return &ClassMember{StudentID: u.ID, Username: u.Username, FullName: u.FullName, EnrolledAt: e.EnrolledAt}, nil
}

func (s *service) RemoveStudent(ctx context.Context, teacherID, classID, studentID uuid.UUID) error {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return err
	}
	if err := s.repo.Unenroll(ctx, classID, studentID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return ErrNotEnrolled
		}
		return err
	}
	config.WithContext(ctx).WithField("class_id", classID).WithField("student_id", studentID).Info("Student removed from class")
	return nil
}

func (s *service) ListStudents(ctx context.Context, teacherID, classID uuid.UUID) ([]ClassMember, error) {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, classID)
}

func (s *service) ListStudentClasses(ctx context.Context, studentID uuid.UUID) ([]ClassSummary, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

func (s *service) Search(ctx context.Context, query string) ([]ClassSummary, error) {
	return s.repo.Search(ctx, query)
}

// AssignQuiz assigns a quiz the teacher may use (their own or a public one)
// to exactly one of their classes or to one student.
func (s *service) AssignQuiz(ctx context.Context, teacherID uuid.UUID, dto AssignQuizDTO) (*QuizAssignment, error) {
	if err := config.Validate(dto); err != nil {
		return nil, err
	}
	if (dto.ClassroomID == nil) == (dto.StudentID == nil) {
		return nil, apperr.Validation("assign to either a class or a student")
	}
	if dto.DueDate != nil && !dto.DueDate.IsZero() && dto.DueDate.Before(s.now()) {
		return nil, apperr.Validation("due date is in the past")
	}

	q, err := s.repo.GetQuiz(ctx, dto.QuizID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("quiz not found")
		}
		return nil, err
	}
	if !q.IsPublic && q.CreatorID != teacherID {
		return nil, apperr.Authorization("quiz is private")
	}

	if dto.ClassroomID != nil {
		if _, err := s.ownedClass(ctx, teacherID, *dto.ClassroomID); err != nil {
			return nil, err
		}
	} else {
		u, err := s.repo.GetUser(ctx, *dto.StudentID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.NotFound("student not found")
			}
			return nil, err
		}
		if u.Role != identity.RoleStudent {
			return nil, apperr.Validation("quizzes can only be assigned to students")
		}
	}

	a := QuizAssignment{
		QuizID:      dto.QuizID,
		ClassroomID: dto.ClassroomID,
		StudentID:   dto.StudentID,
		AssignedBy:  teacherID,
		AssignedAt:  s.now(),
	}
	if dto.DueDate != nil && !dto.DueDate.IsZero() {
		a.DueDate = dto.DueDate
	}
	if err := s.repo.Assign(ctx, &a); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to assign quiz")
		return nil, err
	}

	config.WithContext(ctx).WithField("assignment_id", a.ID).Info("Quiz assigned")
	return &a, nil
}

func (s *service) ListStudentAssignments(ctx context.Context, studentID uuid.UUID) ([]AssignmentView, error) {
	list, err := s.repo.ListAssignmentsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.markOverdue(list), nil
}

func (s *service) ListClassAssignments(ctx context.Context, teacherID, classID uuid.UUID) ([]AssignmentView, error) {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListAssignmentsForClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Completed = false
	}
	return s.markOverdue(list), nil
}

func (s *service) markOverdue(list []AssignmentView) []AssignmentView {
	now := s.now()
	for i := range list {
		due := list[i].DueDate
		list[i].Overdue = !list[i].Completed && due != nil && !due.IsZero() && due.Before(now)
	}
	return list
}
