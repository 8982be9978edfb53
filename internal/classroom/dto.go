package classroom

import (
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/quizard/internal/utils"
)

type CreateClassDTO struct {
	Name string `json:"name" validate:"required,max=100"`
}

type JoinClassDTO struct {
	Code string `json:"code" validate:"required"`
}

type AddStudentDTO struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

type ClassMember struct {
	StudentID  uuid.UUID `json:"student_id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type AssignQuizDTO struct {
	QuizID      uuid.UUID           `json:"quiz_id" validate:"required"`
	ClassroomID *uuid.UUID          `json:"classroom_id"`
	StudentID   *uuid.UUID          `json:"student_id"`
	DueDate     *util.LocalDateTime `json:"due_date"`
}

type ClassSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	TeacherID    uuid.UUID `json:"teacher_id"`
	TeacherName  string    `json:"teacher_name"`
	StudentCount int64     `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type AssignmentView struct {
	ID          uuid.UUID           `json:"id"`
	QuizID      uuid.UUID           `json:"quiz_id"`
	QuizTitle   string              `json:"quiz_title"`
	ClassroomID *uuid.UUID          `json:"classroom_id,omitempty"`
	ClassName   string              `json:"class_name,omitempty"`
	StudentID   *uuid.UUID          `json:"student_id,omitempty"`
	DueDate     *util.LocalDateTime `json:"due_date,omitempty"`
	AssignedAt  time.Time           `json:"assigned_at"`
	Completed   bool                `json:"completed"`
	Overdue     bool                `json:"overdue"`
}
