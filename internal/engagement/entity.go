package engagement

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/storage"
)

type QuizLike struct {
	storage.UUIDModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_quiz" json:"user_id"`
	QuizID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_user_quiz;index" json:"quiz_id"`
	LikedAt time.Time `gorm:"not null" json:"liked_at"`
}

type SavedQuiz struct {
	storage.UUIDModel
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_student_quiz" json:"student_id"`
	QuizID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_student_quiz" json:"quiz_id"`
	SavedAt   time.Time `gorm:"not null" json:"saved_at"`
}

type Feedback struct {
	storage.UUIDModel
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	QuizID      uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Rating      int       `gorm:"not null" json:"rating"`
	Comment     string    `gorm:"size:500" json:"comment,omitempty"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func Models() []interface{} {
	return []interface{}{&QuizLike{}, &SavedQuiz{}, &Feedback{}}
}
