package dashboard

import (
	"github.com/saulo-duarte/quizard/internal/attempt"
	"github.com/saulo-duarte/quizard/internal/classroom"
	"github.com/saulo-duarte/quizard/internal/quiz"
)

type ScoreStats struct {
	AttemptsCompleted int64   `json:"attempts_completed"`
	AverageScore      float64 `json:"average_score"`
	BestScore         float64 `json:"best_score"`
}

type StudentStats struct {
	Scores             ScoreStats                 `json:"scores"`
	ClassesJoined      int64                      `json:"classes_joined"`
	PendingAssignments int                        `json:"pending_assignments"`
	Pending            []classroom.AssignmentView `json:"pending"`
	RecentResults      []attempt.ResultSummary    `json:"recent_results"`
}

type TeacherStats struct {
	QuizzesAuthored int64              `json:"quizzes_authored"`
	Classes         int64              `json:"classes"`
	Students        int64              `json:"students"`
	Attempts        int64              `json:"attempts"`
	RecentQuizzes   []quiz.QuizSummary `json:"recent_quizzes"`
}
