package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/identity"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = apperr.Validation("invalid username or password")
	ErrInactiveUser       = apperr.Authorization("account is disabled")
	ErrAlreadyRegistered  = apperr.Validation("username or email already registered")
	ErrUserNotFound       = apperr.NotFound("user not found")
)

type Service interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Authenticate(ctx context.Context, dto LoginDTO) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
}

type service struct {
	repo UserRepository
}

func NewService(repo UserRepository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	dto.Username = strings.TrimSpace(dto.Username)
	dto.Email = strings.TrimSpace(dto.Email)
	if err := config.Validate(dto); err != nil {
		return nil, err
	}

	role, err := identity.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	if role == identity.RoleAdmin {
		return nil, apperr.Validation("admin accounts cannot self-register")
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, dto.Username, dto.Email)
	if err != nil {
		log.WithError(err).Error("Failed to check existing user")
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, "password cannot be hashed", err)
	}

	u := User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(dto.FullName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered")
	resp := toResponse(&u)
	return &resp, nil
}

func (s *service) Authenticate(ctx context.Context, dto LoginDTO) (*User, error) {
	log := config.WithContext(ctx)
	if err := config.Validate(dto); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByLogin(ctx, strings.TrimSpace(dto.Login))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to load user for login")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		log.WithField("user_id", u.ID).Warn("Wrong password")
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toResponse(u)
	return &resp, nil
}
