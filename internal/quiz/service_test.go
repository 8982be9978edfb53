package quiz_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/storage"
	"github.com/saulo-duarte/quizard/internal/subject"
	"github.com/saulo-duarte/quizard/internal/testutil"
	"github.com/saulo-duarte/quizard/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[uuid.UUID]*quiz.Quiz
	hits  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[uuid.UUID]*quiz.Quiz{}}
}

func (c *memoryCache) Get(_ context.Context, id uuid.UUID) (*quiz.Quiz, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.items[id]
	if ok {
		c.hits++
	}
	return q, ok
}

func (c *memoryCache) Set(_ context.Context, q *quiz.Quiz) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[q.ID] = q
}

func (c *memoryCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
}

type fixture struct {
	db      *gorm.DB
	svc     quiz.QuizService
	cache   *memoryCache
	teacher user.User
	subject subject.Subject
}

func newFixture(t *testing.T) *fixture {
	models := append([]interface{}{&user.User{}, &subject.Subject{}}, quiz.Models()...)
	db := testutil.NewDB(t, models...)

	f := &fixture{db: db, cache: newMemoryCache()}
	f.teacher = user.User{Username: "prof", Email: "prof@school.test", PasswordHash: "x", Role: identity.RoleTeacher, IsActive: true}
	require.NoError(t, db.Create(&f.teacher).Error)
	f.subject = subject.Subject{Name: "Mathematics"}
	require.NoError(t, db.Create(&f.subject).Error)

	f.svc = quiz.NewService(quiz.NewRepository(storage.New(db, time.Second)), f.cache, nil)
	return f
}

func question(content, correct string, labels ...string) quiz.QuestionInput {
	in := quiz.QuestionInput{Content: content, CorrectOption: correct}
	for _, l := range labels {
		in.Options = append(in.Options, quiz.OptionInput{Label: l, Content: "option " + l})
	}
	return in
}

func algebraDTO(subjectID uuid.UUID) quiz.CreateQuizDTO {
	return quiz.CreateQuizDTO{
		SubjectID: subjectID,
		Title:     "Algebra",
		Questions: []quiz.QuestionInput{
			question("2x = 4, x = ?", "B", "A", "B", "C", "D"),
			question("x + 1 = 1, x = ?", "A", "A", "B", "C"),
			question("3x = 9, x = ?", "C", "C", "A", "B"),
		},
	}
}

func TestValidateQuestion(t *testing.T) {
	cases := []struct {
		name  string
		input quiz.QuestionInput
		ok    bool
	}{
		{"Valid", question("q", "A", "A", "B"), true},
		{"OneOption", question("q", "A", "A"), false},
		{"FiveOptions", question("q", "A", "A", "B", "C", "D", "A"), false},
		{"RepeatedLabel", question("q", "A", "A", "A"), false},
		{"CorrectMissing", question("q", "D", "A", "B"), false},
		{"LowercaseLabel", question("q", "a", "a", "b"), false},
		{"UnknownLabel", question("q", "E", "E", "A"), false},
		{"EmptyContent", question("", "A", "A", "B"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := quiz.ValidateQuestion(tc.input)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			}
		})
	}
}

func TestCreateQuizWithQuestions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("OrderedLoad", func(t *testing.T) {
		dto := algebraDTO(f.subject.ID)
		dto.Questions[0].Tags = []string{"Linear", "linear", "basics"}
		dto.Questions[1].Tags = []string{"basics"}

		created, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, dto)
		require.NoError(t, err)
		assert.True(t, created.IsPublic)

		loaded, err := f.svc.GetQuizWithQuestions(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Questions, 3)
		assert.Equal(t, "2x = 4, x = ?", loaded.Questions[0].Content)
		assert.Equal(t, "3x = 9, x = ?", loaded.Questions[2].Content)

		labels := []string{}
		for _, o := range loaded.Questions[2].Options {
			labels = append(labels, o.Label)
		}
		assert.Equal(t, []string{"A", "B", "C"}, labels)
		assert.ElementsMatch(t, []string{"linear", "basics"}, loaded.Questions[0].TagNames())

		var tagCount int64
		require.NoError(t, f.db.Model(&quiz.Tag{}).Count(&tagCount).Error)
		assert.Equal(t, int64(2), tagCount)
	})

	t.Run("Private", func(t *testing.T) {
		dto := algebraDTO(f.subject.ID)
		private := false
		dto.IsPublic = &private
		created, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, dto)
		require.NoError(t, err)
		assert.False(t, created.IsPublic)
	})

	t.Run("NoQuestions", func(t *testing.T) {
		dto := algebraDTO(f.subject.ID)
		dto.Questions = nil
		_, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, dto)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("InvalidQuestion", func(t *testing.T) {
		dto := algebraDTO(f.subject.ID)
		dto.Questions[1].CorrectOption = "D"
		_, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, dto)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("UnknownSubject", func(t *testing.T) {
		_, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, algebraDTO(uuid.New()))
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestCreateQuizRollsBack(t *testing.T) {
	f := newFixture(t)
	testutil.FailCreatesOn(t, f.db, "question_options", assert.AnError)

	_, err := f.svc.CreateQuizWithQuestions(context.Background(), f.teacher.ID, algebraDTO(f.subject.ID))
	require.ErrorIs(t, err, apperr.ErrPersistence)

	var quizzes, questions int64
	require.NoError(t, f.db.Model(&quiz.Quiz{}).Count(&quizzes).Error)
	require.NoError(t, f.db.Model(&quiz.Question{}).Count(&questions).Error)
	assert.Zero(t, quizzes)
	assert.Zero(t, questions)
}

func TestAuthoringIsCreatorOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, algebraDTO(f.subject.ID))
	require.NoError(t, err)
	stranger := uuid.New()

	_, err = f.svc.AddQuestion(ctx, stranger, created.ID, question("q", "A", "A", "B"))
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
	assert.ErrorIs(t, f.svc.RemoveQuestion(ctx, stranger, created.Questions[0].ID), apperr.ErrAuthorization)
	assert.ErrorIs(t, f.svc.DeleteQuiz(ctx, stranger, created.ID), apperr.ErrAuthorization)
}

func TestCacheInvalidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, algebraDTO(f.subject.ID))
	require.NoError(t, err)

	_, err = f.svc.GetQuizWithQuestions(ctx, created.ID)
	require.NoError(t, err)
	_, err = f.svc.GetQuizWithQuestions(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)

	added, err := f.svc.AddQuestion(ctx, f.teacher.ID, created.ID, question("4x = 8, x = ?", "B", "A", "B"))
	require.NoError(t, err)
	assert.Equal(t, 3, added.Position)

	loaded, err := f.svc.GetQuizWithQuestions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 4)
	assert.Equal(t, added.ID, loaded.Questions[3].ID)

	require.NoError(t, f.svc.RemoveQuestion(ctx, f.teacher.ID, added.ID))
	loaded, err = f.svc.GetQuizWithQuestions(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Questions, 3)

	require.NoError(t, f.svc.DeleteQuiz(ctx, f.teacher.ID, created.ID))
	_, err = f.svc.GetQuizWithQuestions(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var options int64
	require.NoError(t, f.db.Model(&quiz.QuestionOption{}).Count(&options).Error)
	assert.Zero(t, options)
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	public, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, algebraDTO(f.subject.ID))
	require.NoError(t, err)

	dto := algebraDTO(f.subject.ID)
	dto.Title = "Geometry drafts"
	private := false
	dto.IsPublic = &private
	_, err = f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, dto)
	require.NoError(t, err)

	mine, err := f.svc.ListQuizzesByUser(ctx, f.teacher.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.svc.ListPublic(ctx, nil, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, public.ID, all[0].ID)
	assert.Equal(t, "Mathematics", all[0].SubjectName)
	assert.Equal(t, "prof", all[0].CreatorName)
	assert.Equal(t, int64(3), all[0].QuestionCount)

	bySubject, err := f.svc.ListPublic(ctx, &f.subject.ID, "ALG")
	require.NoError(t, err)
	assert.Len(t, bySubject, 1)

	other := uuid.New()
	none, err := f.svc.ListPublic(ctx, &other, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

type staticEngagement quiz.Engagement

func (s staticEngagement) QuizEngagement(context.Context, uuid.UUID) (quiz.Engagement, error) {
	return quiz.Engagement(s), nil
}

func TestQuizDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, algebraDTO(f.subject.ID))
	require.NoError(t, err)

	svc := quiz.NewService(quiz.NewRepository(storage.New(f.db, time.Second)), nil,
		staticEngagement{Likes: 4, AverageRating: 4.5, Feedbacks: 2})

	details, err := svc.QuizDetails(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", details.Title)
	assert.Equal(t, int64(3), details.QuestionCount)
	assert.Equal(t, int64(4), details.LikeCount)
	assert.Equal(t, 4.5, details.AverageRating)

	_, err = svc.QuizDetails(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRedacted(t *testing.T) {
	explanation := "because"
	q := &quiz.Quiz{Questions: []quiz.Question{{CorrectOption: "A", Explanation: &explanation}}}

	r := quiz.Redacted(q)
	assert.Empty(t, r.Questions[0].CorrectOption)
	assert.Nil(t, r.Questions[0].Explanation)
	assert.Equal(t, "A", q.Questions[0].CorrectOption)
}

func TestUpdateQuiz(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.svc.CreateQuizWithQuestions(ctx, f.teacher.ID, algebraDTO(f.subject.ID))
	require.NoError(t, err)
	_, err = f.svc.GetQuizWithQuestions(ctx, created.ID)
	require.NoError(t, err)

	title := "  Linear equations "
	hidden := false
	updated, err := f.svc.UpdateQuiz(ctx, f.teacher.ID, created.ID, quiz.UpdateQuizDTO{Title: &title, IsPublic: &hidden})
	require.NoError(t, err)
	assert.Equal(t, "Linear equations", updated.Title)
	assert.False(t, updated.IsPublic)

	loaded, err := f.svc.GetQuizWithQuestions(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Linear equations", loaded.Title)
	assert.False(t, loaded.IsPublic)
	assert.Len(t, loaded.Questions, 3)
	assert.Zero(t, f.cache.hits, "update must invalidate the cached quiz")

	t.Run("CreatorOnly", func(t *testing.T) {
		_, err := f.svc.UpdateQuiz(ctx, uuid.New(), created.ID, quiz.UpdateQuizDTO{Title: &title})
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
	})

	t.Run("BlankTitle", func(t *testing.T) {
		blank := "   "
		_, err := f.svc.UpdateQuiz(ctx, f.teacher.ID, created.ID, quiz.UpdateQuizDTO{Title: &blank})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("UnknownSubject", func(t *testing.T) {
		other := uuid.New()
		_, err := f.svc.UpdateQuiz(ctx, f.teacher.ID, created.ID, quiz.UpdateQuizDTO{SubjectID: &other})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("MissingQuiz", func(t *testing.T) {
		_, err := f.svc.UpdateQuiz(ctx, f.teacher.ID, uuid.New(), quiz.UpdateQuizDTO{Title: &title})
		assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
	})
}
