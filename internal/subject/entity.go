package subject

import (
	"time"

	"github.com/saulo-duarte/quizard/internal/storage"
)

type Subject struct {
	storage.UUIDModel
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func Models() []interface{} {
	return []interface{}{&Subject{}}
}
