package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"gorm.io/gorm"
)

// UUIDModel gives an entity a UUID primary key assigned on insert.
type UUIDModel struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
}

func (m *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Store bounds every database call by a timeout and classifies its errors.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

func New(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{db: db, timeout: timeout}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Run executes fn against a session scoped to ctx plus the store timeout.
func (s *Store) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return apperr.FromDB(fn(s.db.WithContext(ctx)))
}

// Transaction is Run inside a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return apperr.FromDB(s.db.WithContext(ctx).Transaction(fn))
}
