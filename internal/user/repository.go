package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/storage"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type userRepository struct {
	store *storage.Store
}

func NewRepository(store *storage.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, u *User) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&u, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLogin matches either the username or the email, ignoring case.
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	var u User
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", login, login).
			First(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&User{}).
			Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", username, email).
			Count(&count).Error
	})
	return count > 0, err
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&User{}).Where("id = ?", id).Update("is_active", active)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
