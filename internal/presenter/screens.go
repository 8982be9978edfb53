package presenter

import (
	"context"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/classroom"
	"github.com/saulo-duarte/quizard/internal/dashboard"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/navigation"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/subject"
)

// Screen is the content rendered for one navigation state.
type Screen struct {
	Title string `json:"title"`
	User  string `json:"user,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type Builder interface {
	Build(ctx context.Context, state navigation.State) (Screen, error)
}

type Subjects interface {
	List(ctx context.Context, search string) ([]subject.SubjectResponse, error)
}

type Classes interface {
	ListTeacherClasses(ctx context.Context, teacherID uuid.UUID) ([]classroom.ClassSummary, error)
	ListStudentClasses(ctx context.Context, studentID uuid.UUID) ([]classroom.ClassSummary, error)
}

type Quizzes interface {
	ListPublic(ctx context.Context, subjectID *uuid.UUID, search string) ([]quiz.QuizSummary, error)
}

type Attempts interface {
	Active(studentID uuid.UUID) (*attempt.Workflow, bool)
	ListResults(ctx context.Context, studentID uuid.UUID, search string) ([]attempt.ResultSummary, error)
}

var errNoSession = apperr.Authorization("no user is logged in")

type ScreenBuilder struct {
	holder     *identity.Holder
	dashboards dashboard.Service
	subjects   Subjects
	classes    Classes
	quizzes    Quizzes
	attempts   Attempts
}

func NewScreenBuilder(holder *identity.Holder, dashboards dashboard.Service, subjects Subjects, classes Classes, quizzes Quizzes, attempts Attempts) *ScreenBuilder {
	return &ScreenBuilder{
		holder:     holder,
		dashboards: dashboards,
		subjects:   subjects,
		classes:    classes,
		quizzes:    quizzes,
		attempts:   attempts,
	}
}

func (b *ScreenBuilder) Build(ctx context.Context, state navigation.State) (Screen, error) {
	switch state {
	case navigation.Login:
		return Screen{Title: "Sign in"}, nil
	case navigation.Register:
		return Screen{Title: "Create account", Data: []identity.Role{identity.RoleStudent, identity.RoleTeacher}}, nil
	case navigation.StudentDashboard:
		return b.studentDashboard(ctx)
	case navigation.TeacherDashboard:
		return b.teacherDashboard(ctx)
	case navigation.TakeQuiz:
		return b.takeQuiz(ctx)
	case navigation.CreateQuiz:
		return b.createQuiz(ctx)
	case navigation.ViewResults:
		return b.viewResults(ctx)
	case navigation.SearchSubjects:
		return b.searchSubjects(ctx)
	case navigation.JoinClass:
		return b.joinClass(ctx)
	case navigation.ViewClasses:
		return b.viewClasses(ctx)
	case navigation.QuizDetails:
		return b.quizDetails(ctx)
	case navigation.Loading:
		return Screen{Title: "Loading"}, nil
	default:
		return Screen{}, apperr.Validation("unknown screen " + state.String())
	}
}

func (b *ScreenBuilder) user() (identity.Identity, error) {
	id, ok := b.holder.Current()
	if !ok {
		return identity.Identity{}, errNoSession
	}
	return id, nil
}

func (b *ScreenBuilder) studentDashboard(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	stats, err := b.dashboards.StudentStats(ctx, id.UserID)
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Dashboard", User: id.DisplayName(), Data: stats}, nil
}

func (b *ScreenBuilder) teacherDashboard(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	stats, err := b.dashboards.TeacherStats(ctx, id.UserID)
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Dashboard", User: id.DisplayName(), Data: stats}, nil
}

// takeQuiz shows the running attempt, or the public quizzes to start one from.
func (b *ScreenBuilder) takeQuiz(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	if w, ok := b.attempts.Active(id.UserID); ok {
		return Screen{Title: "Take quiz", User: id.DisplayName(), Data: w.View()}, nil
	}
	list, err := b.quizzes.ListPublic(ctx, nil, "")
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Take quiz", User: id.DisplayName(), Data: list}, nil
}

func (b *ScreenBuilder) createQuiz(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	subjects, err := b.subjects.List(ctx, "")
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Create quiz", User: id.DisplayName(), Data: subjects}, nil
}

func (b *ScreenBuilder) viewResults(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	results, err := b.attempts.ListResults(ctx, id.UserID, "")
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Results", User: id.DisplayName(), Data: results}, nil
}

func (b *ScreenBuilder) searchSubjects(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	subjects, err := b.subjects.List(ctx, "")
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Subjects", User: id.DisplayName(), Data: subjects}, nil
}

func (b *ScreenBuilder) joinClass(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	classes, err := b.classes.ListStudentClasses(ctx, id.UserID)
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Join a class", User: id.DisplayName(), Data: classes}, nil
}

func (b *ScreenBuilder) viewClasses(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	classes, err := b.classes.ListTeacherClasses(ctx, id.UserID)
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Classes", User: id.DisplayName(), Data: classes}, nil
}

func (b *ScreenBuilder) quizDetails(ctx context.Context) (Screen, error) {
	id, err := b.user()
	if err != nil {
		return Screen{}, err
	}
	list, err := b.quizzes.ListPublic(ctx, nil, "")
	if err != nil {
		return Screen{}, err
	}
	return Screen{Title: "Quizzes", User: id.DisplayName(), Data: list}, nil
}
