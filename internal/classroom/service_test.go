package classroom_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/classroom"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/storage"
	"github.com/saulo-duarte/quizard/internal/testutil"
	"github.com/saulo-duarte/quizard/internal/user"
	util "github.com/saulo-duarte/quizard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     classroom.Service
	teacher user.User
	other   user.User
	student user.User
	quiz    quiz.Quiz
}

func newFixture(t *testing.T) *fixture {
	models := []interface{}{&user.User{}}
	models = append(models, quiz.Models()...)
	models = append(models, attempt.Models()...)
	models = append(models, classroom.Models()...)
	db := testutil.NewDB(t, models...)

	f := &fixture{db: db, svc: classroom.NewService(classroom.NewRepository(storage.New(db, time.Second)))}
	f.teacher = user.User{Username: "prof", Email: "prof@school.test", PasswordHash: "x", Role: identity.RoleTeacher, IsActive: true}
	f.other = user.User{Username: "other", Email: "other@school.test", PasswordHash: "x", Role: identity.RoleTeacher, IsActive: true}
	f.student = user.User{Username: "ana", Email: "ana@school.test", PasswordHash: "x", Role: identity.RoleStudent, IsActive: true}
	for _, u := range []*user.User{&f.teacher, &f.other, &f.student} {
		require.NoError(t, db.Create(u).Error)
	}
	f.quiz = quiz.Quiz{SubjectID: uuid.New(), CreatorID: f.teacher.ID, Title: "Algebra", IsPublic: false}
	require.NoError(t, db.Create(&f.quiz).Error)
	return f
}

func TestClassLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	class, err := f.svc.CreateClass(ctx, f.teacher.ID, classroom.CreateClassDTO{Name: "9A Math"})
	require.NoError(t, err)
	assert.Equal(t, class.ID.String(), class.Code)

	_, err = f.svc.CreateClass(ctx, f.teacher.ID, classroom.CreateClassDTO{Name: " "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	t.Run("Join", func(t *testing.T) {
		joined, err := f.svc.Join(ctx, f.student.ID, class.Code)
		require.NoError(t, err)
		assert.Equal(t, "9A Math", joined.Name)

		_, err = f.svc.Join(ctx, f.student.ID, class.Code)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = f.svc.Join(ctx, f.student.ID, "not-a-code")
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = f.svc.Join(ctx, f.student.ID, uuid.NewString())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Lists", func(t *testing.T) {
		mine, err := f.svc.ListTeacherClasses(ctx, f.teacher.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, int64(1), mine[0].StudentCount)
		assert.Equal(t, "prof", mine[0].TeacherName)

		joined, err := f.svc.ListStudentClasses(ctx, f.student.ID)
		require.NoError(t, err)
		require.Len(t, joined, 1)
		assert.Equal(t, class.ID, joined[0].ID)

		found, err := f.svc.Search(ctx, "math")
		require.NoError(t, err)
		assert.Len(t, found, 1)
		none, err := f.svc.Search(ctx, "history")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Leave", func(t *testing.T) {
		require.NoError(t, f.svc.Leave(ctx, f.student.ID, class.ID))
		assert.ErrorIs(t, f.svc.Leave(ctx, f.student.ID, class.ID), apperr.ErrNotFound)
	})

	t.Run("DeleteOwnerOnly", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.DeleteClass(ctx, f.other.ID, class.ID), apperr.ErrAuthorization)
		require.NoError(t, f.svc.DeleteClass(ctx, f.teacher.ID, class.ID))
		assert.ErrorIs(t, f.svc.DeleteClass(ctx, f.teacher.ID, class.ID), apperr.ErrNotFound)
	})
}

func TestAssignQuiz(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	class, err := f.svc.CreateClass(ctx, f.teacher.ID, classroom.CreateClassDTO{Name: "9A Math"})
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, f.student.ID, class.Code)
	require.NoError(t, err)

	due := &util.LocalDateTime{Time: time.Now().Add(48 * time.Hour).Truncate(time.Second)}

	t.Run("TargetRequired", func(t *testing.T) {
		_, err := f.svc.AssignQuiz(ctx, f.teacher.ID, classroom.AssignQuizDTO{QuizID: f.quiz.ID})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		both := classroom.AssignQuizDTO{QuizID: f.quiz.ID, ClassroomID: &class.ID, StudentID: &f.student.ID}
		_, err = f.svc.AssignQuiz(ctx, f.teacher.ID, both)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("PastDueDate", func(t *testing.T) {
		past := &util.LocalDateTime{Time: time.Now().Add(-time.Hour)}
		_, err := f.svc.AssignQuiz(ctx, f.teacher.ID, classroom.AssignQuizDTO{QuizID: f.quiz.ID, ClassroomID: &class.ID, DueDate: past})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("PrivateQuizOfAnotherTeacher", func(t *testing.T) {
		_, err := f.svc.AssignQuiz(ctx, f.other.ID, classroom.AssignQuizDTO{QuizID: f.quiz.ID, StudentID: &f.student.ID})
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
	})

	t.Run("OnlyStudents", func(t *testing.T) {
		_, err := f.svc.AssignQuiz(ctx, f.teacher.ID, classroom.AssignQuizDTO{QuizID: f.quiz.ID, StudentID: &f.other.ID})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("ToClassAndStudent", func(t *testing.T) {
		a, err := f.svc.AssignQuiz(ctx, f.teacher.ID, classroom.AssignQuizDTO{QuizID: f.quiz.ID, ClassroomID: &class.ID, DueDate: due})
		require.NoError(t, err)
		require.NotNil(t, a.DueDate)

		_, err = f.svc.AssignQuiz(ctx, f.teacher.ID, classroom.AssignQuizDTO{QuizID: f.quiz.ID, StudentID: &f.student.ID})
		require.NoError(t, err)

		list, err := f.svc.ListStudentAssignments(ctx, f.student.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, v := range list {
			assert.Equal(t, "Algebra", v.QuizTitle)
			assert.False(t, v.Completed)
			assert.False(t, v.Overdue)
		}

		classList, err := f.svc.ListClassAssignments(ctx, f.teacher.ID, class.ID)
		require.NoError(t, err)
		require.Len(t, classList, 1)
		assert.Equal(t, "9A Math", classList[0].ClassName)
		require.NotNil(t, classList[0].DueDate)
		assert.True(t, classList[0].DueDate.Equal(*due))

		_, err = f.svc.ListClassAssignments(ctx, f.other.ID, class.ID)
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
	})

	t.Run("CompletedBySubmission", func(t *testing.T) {
		done := time.Now()
		score := 10.0
		require.NoError(t, f.db.Create(&attempt.StudentQuiz{
			StudentID:   f.student.ID,
			QuizID:      f.quiz.ID,
			Status:      attempt.StatusSubmitted,
			StartedAt:   done,
			CompletedAt: &done,
			Score:       &score,
		}).Error)

		list, err := f.svc.ListStudentAssignments(ctx, f.student.ID)
		require.NoError(t, err)
		for _, v := range list {
			assert.True(t, v.Completed)
		}
	})
}

func TestTeacherManagesRoster(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	class, err := f.svc.CreateClass(ctx, f.teacher.ID, classroom.CreateClassDTO{Name: "9A Math"})
	require.NoError(t, err)

	member, err := f.svc.AddStudent(ctx, f.teacher.ID, class.ID, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", member.Username)

	_, err = f.svc.AddStudent(ctx, f.teacher.ID, class.ID, f.student.ID)
	assert.ErrorIs(t, err, classroom.ErrAlreadyEnrolled)

	t.Run("Refusals", func(t *testing.T) {
		_, err := f.svc.AddStudent(ctx, f.other.ID, class.ID, f.student.ID)
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
		_, err = f.svc.AddStudent(ctx, f.teacher.ID, class.ID, f.other.ID)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		_, err = f.svc.AddStudent(ctx, f.teacher.ID, class.ID, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = f.svc.ListStudents(ctx, f.other.ID, class.ID)
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
		assert.ErrorIs(t, f.svc.RemoveStudent(ctx, f.other.ID, class.ID, f.student.ID), apperr.ErrAuthorization)
	})

	members, err := f.svc.ListStudents(ctx, f.teacher.ID, class.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, f.student.ID, members[0].StudentID)

	joined, err := f.svc.ListStudentClasses(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Len(t, joined, 1)

	require.NoError(t, f.svc.RemoveStudent(ctx, f.teacher.ID, class.ID, f.student.ID))
	assert.ErrorIs(t, f.svc.RemoveStudent(ctx, f.teacher.ID, class.ID, f.student.ID), classroom.ErrNotEnrolled)

	members, err = f.svc.ListStudents(ctx, f.teacher.ID, class.ID)
	require.NoError(t, err)
	assert.Empty(t, members)
}
