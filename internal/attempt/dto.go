package attempt

import (
	"time"

	"github.com/google/uuid"
)

type StartDTO struct {
	QuizID uuid.UUID `json:"quiz_id" validate:"required"`
}

type AnswerDTO struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	Label      string    `json:"label" validate:"required"`
}

type CursorDTO struct {
	Action string `json:"action" validate:"required,oneof=next previous goto"`
	Index  int    `json:"index"`
}

type OptionView struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

type QuestionView struct {
	ID       uuid.UUID    `json:"id"`
	Index    int          `json:"index"`
	Content  string       `json:"content"`
	Options  []OptionView `json:"options"`
	Selected string       `json:"selected,omitempty"`
}

// View is what a client needs to render an attempt. It never carries the
// correct options of an unsubmitted attempt.
type View struct {
	AttemptID  uuid.UUID            `json:"attempt_id"`
	QuizID     uuid.UUID            `json:"quiz_id"`
	QuizTitle  string               `json:"quiz_title"`
	Status     Status               `json:"status"`
	Cursor     int                  `json:"cursor"`
	Total      int                  `json:"total"`
	Answered   int                  `json:"answered"`
	Elapsed    string               `json:"elapsed"`
	Question   *QuestionView        `json:"question,omitempty"`
	Selections map[uuid.UUID]string `json:"selections"`
	Result     *Result              `json:"result,omitempty"`
}

type CursorResponse struct {
	Moved bool `json:"moved"`
	View  View `json:"view"`
}

type AnswerResult struct {
	QuestionID uuid.UUID `json:"question_id"`
	Selected   *string   `json:"selected"`
	Correct    string    `json:"correct"`
	IsCorrect  bool      `json:"is_correct"`
}

type Result struct {
	AttemptID        uuid.UUID      `json:"attempt_id"`
	Correct          int            `json:"correct"`
	Total            int            `json:"total"`
	Score            float64        `json:"score"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	Answers          []AnswerResult `json:"answers"`
}

// ResultSummary is one row of the results lists.
type ResultSummary struct {
	AttemptID        uuid.UUID  `json:"attempt_id"`
	QuizID           uuid.UUID  `json:"quiz_id"`
	QuizTitle        string     `json:"quiz_title"`
	StudentID        uuid.UUID  `json:"student_id"`
	StudentName      string     `json:"student_name,omitempty"`
	Score            float64    `json:"score"`
	Correct          int64      `json:"correct"`
	Total            int64      `json:"total"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	CompletedAt      *time.Time `json:"completed_at"`
}

type AnswerDetail struct {
	QuestionID  uuid.UUID    `json:"question_id"`
	Content     string       `json:"content"`
	Options     []OptionView `json:"options"`
	Selected    *string      `json:"selected"`
	Correct     string       `json:"correct"`
	IsCorrect   bool         `json:"is_correct"`
	Explanation string       `json:"explanation,omitempty"`
}

type Detail struct {
	Attempt   StudentQuiz    `json:"attempt"`
	QuizTitle string         `json:"quiz_title"`
	Correct   int            `json:"correct"`
	Total     int            `json:"total"`
	Answers   []AnswerDetail `json:"answers"`
}
