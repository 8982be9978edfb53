package quiz

import (
	"time"

	"github.com/google/uuid"
)

type OptionInput struct {
	Label   string `json:"label" validate:"required,oneof=A B C D"`
	Content string `json:"content" validate:"required,max=1000"`
}

type QuestionInput struct {
	Content       string        `json:"content" validate:"required,max=2000"`
	Options       []OptionInput `json:"options" validate:"min=2,max=4,dive"`
	CorrectOption string        `json:"correct_option" validate:"required,oneof=A B C D"`
	Explanation   string        `json:"explanation,omitempty" validate:"max=2000"`
	Tags          []string      `json:"tags,omitempty" validate:"max=10,dive,min=1,max=50"`
}

type CreateQuizDTO struct {
	SubjectID   uuid.UUID       `json:"subject_id" validate:"required"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	IsPublic    *bool           `json:"is_public"`
	Questions   []QuestionInput `json:"questions" validate:"min=1,dive"`
}

// UpdateQuizDTO changes only the fields that are present.
type UpdateQuizDTO struct {
	SubjectID   *uuid.UUID `json:"subject_id,omitempty"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsPublic    *bool      `json:"is_public,omitempty"`
}

type QuizSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	SubjectID     uuid.UUID `json:"subject_id"`
	SubjectName   string    `json:"subject_name"`
	CreatorID     uuid.UUID `json:"creator_id"`
	CreatorName   string    `json:"creator_name"`
	IsPublic      bool      `json:"is_public"`
	QuestionCount int64     `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuizDetails struct {
	QuizSummary
	LikeCount     int64   `json:"like_count"`
	AverageRating float64 `json:"average_rating"`
	FeedbackCount int64   `json:"feedback_count"`
}

// Engagement is what engagement data QuizDetails reports for a quiz.
type Engagement struct {
	Likes         int64
	AverageRating float64
	Feedbacks     int64
}
