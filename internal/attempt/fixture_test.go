package attempt_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/storage"
	"github.com/saulo-duarte/quizard/internal/subject"
	"github.com/saulo-duarte/quizard/internal/testutil"
	"github.com/saulo-duarte/quizard/internal/user"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	db      *gorm.DB
	svc     *attempt.Service
	quizzes quiz.QuizService
	clock   *fakeClock
	teacher user.User
	student user.User
	algebra *quiz.Quiz
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	models := []interface{}{&user.User{}, &subject.Subject{}}
	models = append(models, quiz.Models()...)
	models = append(models, attempt.Models()...)
	db := testutil.NewDB(t, models...)
	store := storage.New(db, time.Second)

	f := &fixture{
		db:    db,
		clock: &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.teacher = user.User{Username: "prof", Email: "prof@school.test", PasswordHash: "x", Role: identity.RoleTeacher, IsActive: true}
	f.student = user.User{Username: "ana", Email: "ana@school.test", PasswordHash: "x", Role: identity.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&f.teacher).Error)
	require.NoError(t, db.Create(&f.student).Error)
	math := subject.Subject{Name: "Mathematics"}
	require.NoError(t, db.Create(&math).Error)

	f.quizzes = quiz.NewService(quiz.NewRepository(store), nil, nil)
	created, err := f.quizzes.CreateQuizWithQuestions(context.Background(), f.teacher.ID, quiz.CreateQuizDTO{
		SubjectID: math.ID,
		Title:     "Algebra",
		Questions: []quiz.QuestionInput{
			mcq("2x = 4, x = ?", "B"),
			mcq("x + 1 = 1, x = ?", "A"),
			mcq("3x = 9, x = ?", "C"),
		},
	})
	require.NoError(t, err)
	f.algebra, err = f.quizzes.GetQuizWithQuestions(context.Background(), created.ID)
	require.NoError(t, err)

	f.svc = attempt.NewService(attempt.NewRepository(store), f.quizzes, attempt.WithClock(f.clock.Now))
	return f
}

func mcq(content, correct string) quiz.QuestionInput {
	return quiz.QuestionInput{
		Content:       content,
		CorrectOption: correct,
		Options: []quiz.OptionInput{
			{Label: "A", Content: "0"},
			{Label: "B", Content: "2"},
			{Label: "C", Content: "3"},
		},
	}
}

func (f *fixture) start(t *testing.T) *attempt.Workflow {
	t.Helper()
	w, err := f.svc.Start(context.Background(), f.student.ID, f.algebra.ID, map[string]string{"user_agent": "test"})
	require.NoError(t, err)
	return w
}

func (f *fixture) answerCount(t *testing.T, w *attempt.Workflow) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&attempt.StudentAnswer{}).Where("attempt_id = ?", w.AttemptID()).Count(&n).Error)
	return n
}

func (f *fixture) stored(t *testing.T, w *attempt.Workflow) attempt.StudentQuiz {
	t.Helper()
	var a attempt.StudentQuiz
	require.NoError(t, f.db.First(&a, "id = ?", w.AttemptID()).Error)
	return a
}
