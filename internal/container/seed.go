package container

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"github.com/saulo-duarte/quizard/internal/subject"
	"github.com/saulo-duarte/quizard/internal/user"
)

const seedPassword = "quizard123"

var seedSubjects = []subject.CreateSubjectDTO{
	{Name: "Mathematics", Description: "Numbers, algebra and geometry"},
	{Name: "Science", Description: "Physics, chemistry and biology"},
	{Name: "History", Description: "World and local history"},
}

// Seed inserts sample data. Running it twice leaves the data unchanged.
func (c *Container) Seed(ctx context.Context) error {
	log := config.WithContext(ctx)

	subjects := make(map[string]uuid.UUID, len(seedSubjects))
	for _, dto := range seedSubjects {
		id, err := c.ensureSubject(ctx, dto)
		if err != nil {
			return err
		}
		subjects[dto.Name] = id
	}

	teacherID, err := c.ensureUser(ctx, user.RegisterDTO{
		Username: "teacher", Email: "teacher@quizard.local", Password: seedPassword,
		FullName: "Sample Teacher", Role: "Teacher",
	})
	if err != nil {
		return err
	}
	if _, err := c.ensureUser(ctx, user.RegisterDTO{
		Username: "student", Email: "student@quizard.local", Password: seedPassword,
		FullName: "Sample Student", Role: "Student",
	}); err != nil {
		return err
	}

	existing, err := c.QuizContainer.Service.ListQuizzesByUser(ctx, teacherID)
	if err != nil {
		return err
	}
	for _, q := range existing {
		if q.Title == "Algebra" {
			log.Info("Seed data already present")
			return nil
		}
	}

	_, err = c.QuizContainer.Service.CreateQuizWithQuestions(ctx, teacherID, quiz.CreateQuizDTO{
		SubjectID:   subjects["Mathematics"],
		Title:       "Algebra",
		Description: "Linear equations warm-up",
		Questions: []quiz.QuestionInput{
			seedQuestion("Solve x + 3 = 5", "B", "1", "2", "3", "8"),
			seedQuestion("Solve 2x = 8", "A", "4", "6", "2", "16"),
			seedQuestion("Solve x - 4 = 1", "C", "3", "-3", "5", "4"),
		},
	})
	if err != nil {
		return err
	}
	log.Info("Seed data created")
	return nil
}

func seedQuestion(content, correct string, options ...string) quiz.QuestionInput {
	in := quiz.QuestionInput{Content: content, CorrectOption: correct, Tags: []string{"algebra"}}
	for i, o := range options {
		in.Options = append(in.Options, quiz.OptionInput{Label: string(rune('A' + i)), Content: o})
	}
	return in
}

func (c *Container) ensureSubject(ctx context.Context, dto subject.CreateSubjectDTO) (uuid.UUID, error) {
	created, err := c.SubjectContainer.Service.Create(ctx, dto)
	if err == nil {
		return created.ID, nil
	}
	if !errors.Is(err, subject.ErrDuplicateName) {
		return uuid.Nil, err
	}
	list, err := c.SubjectContainer.Service.List(ctx, dto.Name)
	if err != nil {
		return uuid.Nil, err
	}
	for _, s := range list {
		if strings.EqualFold(s.Name, dto.Name) {
			return s.ID, nil
		}
	}
	return uuid.Nil, subject.ErrSubjectNotFound
}

func (c *Container) ensureUser(ctx context.Context, dto user.RegisterDTO) (uuid.UUID, error) {
	created, err := c.UserContainer.Service.Register(ctx, dto)
	if err == nil {
		return created.ID, nil
	}
	if !errors.Is(err, user.ErrAlreadyRegistered) {
		return uuid.Nil, err
	}
	u, err := c.UserContainer.Repo.GetByLogin(ctx, dto.Username)
	if err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}
