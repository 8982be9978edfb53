package engagement

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackDTO struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

type LikeStatus struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

type SavedQuizView struct {
	QuizID      uuid.UUID `json:"quiz_id"`
	Title       string    `json:"title"`
	SubjectName string    `json:"subject_name"`
	SavedAt     time.Time `json:"saved_at"`
}
