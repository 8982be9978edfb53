package dashboard

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/classroom"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/quiz"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 5

type ResultSource interface {
	ListResults(ctx context.Context, studentID uuid.UUID, search string) ([]attempt.ResultSummary, error)
}

type AssignmentSource interface {
	ListStudentAssignments(ctx context.Context, studentID uuid.UUID) ([]classroom.AssignmentView, error)
}

type QuizLister interface {
	ListQuizzesByUser(ctx context.Context, creatorID uuid.UUID) ([]quiz.QuizSummary, error)
}

type Service interface {
	StudentStats(ctx context.Context, studentID uuid.UUID) (*StudentStats, error)
	TeacherStats(ctx context.Context, teacherID uuid.UUID) (*TeacherStats, error)
}

type service struct {
	repo        Repository
	results     ResultSource
	assignments AssignmentSource
	quizzes     QuizLister
}

func NewService(repo Repository, results ResultSource, assignments AssignmentSource, quizzes QuizLister) Service {
	return &service{repo: repo, results: results, assignments: assignments, quizzes: quizzes}
}

func (s *service) StudentStats(ctx context.Context, studentID uuid.UUID) (*StudentStats, error) {
	var out StudentStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scores, err := s.repo.StudentScores(gctx, studentID)
		if err != nil {
			return err
		}
		scores.AverageScore = math.Round(scores.AverageScore*10) / 10
		out.Scores = scores
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountEnrollments(gctx, studentID)
		out.ClassesJoined = n
		return err
	})
	g.Go(func() error {
		list, err := s.assignments.ListStudentAssignments(gctx, studentID)
		if err != nil {
			return err
		}
		out.Pending = []classroom.AssignmentView{}
		for _, a := range list {
			if !a.Completed {
				out.Pending = append(out.Pending, a)
			}
		}
		out.PendingAssignments = len(out.Pending)
		return nil
	})
	g.Go(func() error {
		results, err := s.results.ListResults(gctx, studentID, "")
		if err != nil {
			return err
		}
		out.RecentResults = head(results, recentLimit)
		return nil
	})

	if err := g.Wait(); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to load student dashboard")
		return nil, err
	}
	return &out, nil
}

func (s *service) TeacherStats(ctx context.Context, teacherID uuid.UUID) (*TeacherStats, error) {
	var out TeacherStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountQuizzes(gctx, teacherID)
		out.QuizzesAuthored = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountClasses(gctx, teacherID)
		out.Classes = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountStudents(gctx, teacherID)
		out.Students = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountAttempts(gctx, teacherID)
		out.Attempts = n
		return err
	})
	g.Go(func() error {
		list, err := s.quizzes.ListQuizzesByUser(gctx, teacherID)
		if err != nil {
			return err
		}
		out.RecentQuizzes = head(list, recentLimit)
		return nil
	})

	if err := g.Wait(); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to load teacher dashboard")
		return nil, err
	}
	return &out, nil
}

func head[T any](list []T, n int) []T {
	if list == nil {
		return []T{}
	}
	if len(list) > n {
		return list[:n]
	}
	return list
}
