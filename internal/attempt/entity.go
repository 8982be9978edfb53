package attempt

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/storage"
	"gorm.io/datatypes"
)

// StudentQuiz is one attempt of a student at a quiz. It is written at start
// and once more when submitted or abandoned.
type StudentQuiz struct {
	storage.UUIDModel
	StudentID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	QuizID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Status           Status         `gorm:"size:20;not null;index" json:"status"`
	StartedAt        time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt       *time.Time     `json:"finished_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	TimeSpentSeconds int            `gorm:"not null;default:0" json:"time_spent_seconds"`
	Score            *float64       `json:"score,omitempty"`
	ClientInfo       datatypes.JSON `json:"client_info,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	Answers []StudentAnswer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

type StudentAnswer struct {
	storage.UUIDModel
	AttemptID      uuid.UUID `gorm:"type:uuid;not null;index" json:"attempt_id"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	SelectedOption *string   `gorm:"size:1" json:"selected_option"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	AnsweredAt     time.Time `gorm:"not null" json:"answered_at"`
}

func Models() []interface{} {
	return []interface{}{&StudentQuiz{}, &StudentAnswer{}}
}
