package classroom

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/storage"
	util "github.com/saulo-duarte/quizard/internal/utils"
)

type Classroom struct {
	storage.UUIDModel
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Enrollment struct {
	storage.UUIDModel
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_class_student" json:"classroom_id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_class_student;index" json:"student_id"`
	EnrolledAt  time.Time `gorm:"not null" json:"enrolled_at"`
}

// QuizAssignment targets either a whole class or a single student.
type QuizAssignment struct {
	storage.UUIDModel
	QuizID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"quiz_id"`
	ClassroomID *uuid.UUID          `gorm:"type:uuid;index" json:"classroom_id,omitempty"`
	StudentID   *uuid.UUID          `gorm:"type:uuid;index" json:"student_id,omitempty"`
	AssignedBy  uuid.UUID           `gorm:"type:uuid;not null" json:"assigned_by"`
	DueDate     *util.LocalDateTime `json:"due_date,omitempty"`
	AssignedAt  time.Time           `gorm:"not null" json:"assigned_at"`
}

func Models() []interface{} {
	return []interface{}{&Classroom{}, &Enrollment{}, &QuizAssignment{}}
}
