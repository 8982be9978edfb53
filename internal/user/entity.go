package user

import (
	"time"

	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/storage"
)

type User struct {
	storage.UUIDModel
	Username     string        `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string        `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"size:255;not null" json:"-"`
	FullName     string        `gorm:"size:100" json:"full_name,omitempty"`
	Role         identity.Role `gorm:"size:20;not null" json:"role"`
	IsActive     bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (u *User) Identity() identity.Identity {
	return identity.Identity{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

func Models() []interface{} {
	return []interface{}{&User{}}
}
