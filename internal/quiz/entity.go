package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/storage"
)

type Quiz struct {
	storage.UUIDModel
	SubjectID   uuid.UUID `gorm:"type:uuid;not null;index" json:"subject_id"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsPublic    bool      `gorm:"not null" json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// Question owns between two and four options labelled A to D. CorrectOption
// holds the label of the right one.
type Question struct {
	storage.UUIDModel
	QuizID        uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	CorrectOption string    `gorm:"size:1;not null" json:"correct_option"`
	Explanation   *string   `gorm:"type:text" json:"explanation,omitempty"`
	Position      int       `gorm:"not null" json:"position"`
	CreatedAt     time.Time `json:"created_at"`

	Options []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
	Tags    []Tag            `gorm:"many2many:question_tags" json:"tags,omitempty"`
}

type QuestionOption struct {
	storage.UUIDModel
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Label      string    `gorm:"size:1;not null" json:"label"`
	Content    string    `gorm:"type:text;not null" json:"content"`
}

type Tag struct {
	storage.UUIDModel
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

// Models lists every table owned by the package, in migration order.
func Models() []interface{} {
	return []interface{}{&Quiz{}, &Question{}, &QuestionOption{}, &Tag{}}
}

func (q *Question) HasOption(label string) bool {
	for _, o := range q.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}

func (q *Question) TagNames() []string {
	names := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		names = append(names, t.Name)
	}
	return names
}
