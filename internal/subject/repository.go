package subject

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/storage"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, s *Subject) error
	FindAll(ctx context.Context, search string) ([]Subject, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Subject, error)
	Update(ctx context.Context, s *Subject) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	store *storage.Store
}

func NewRepository(store *storage.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Create(ctx context.Context, s *Subject) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(s).Error
	})
}

// FindAll returns subjects ordered by name, optionally filtered by a
// case-insensitive substring of the name.
func (r *repository) FindAll(ctx context.Context, search string) ([]Subject, error) {
	var subjects []Subject
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		q := tx.Order("name ASC")
		if search = strings.TrimSpace(search); search != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		return q.Find(&subjects).Error
	})
	return subjects, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Subject, error) {
	var s Subject
	err := r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&s, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Subject) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		return tx.Save(s).Error
	})
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Run(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&Subject{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
