package subject

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
)

var (
	ErrSubjectNotFound = apperr.NotFound("subject not found")
	ErrDuplicateName   = apperr.Validation("a subject with this name already exists")
)

type Service interface {
	Create(ctx context.Context, dto CreateSubjectDTO) (*SubjectResponse, error)
	List(ctx context.Context, search string) ([]SubjectResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*SubjectResponse, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateSubjectDTO) (*SubjectResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, dto CreateSubjectDTO) (*SubjectResponse, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := config.Validate(dto); err != nil {
		return nil, err
	}

	subject := Subject{Name: dto.Name, Description: strings.TrimSpace(dto.Description)}
	if err := s.repo.Create(ctx, &subject); err != nil {
		return nil, translate(err)
	}

	config.WithContext(ctx).WithField("subject_id", subject.ID).Info("Subject created")
	return toResponse(&subject), nil
}

func (s *service) List(ctx context.Context, search string) ([]SubjectResponse, error) {
	subjects, err := s.repo.FindAll(ctx, search)
	if err != nil {
		return nil, err
	}

	responses := make([]SubjectResponse, 0, len(subjects))
	for i := range subjects {
		responses = append(responses, *toResponse(&subjects[i]))
	}
	return responses, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SubjectResponse, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toResponse(subject), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateSubjectDTO) (*SubjectResponse, error) {
	if err := config.Validate(dto); err != nil {
		return nil, err
	}

	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, apperr.Validation("name is required")
		}
		subject.Name = name
	}
	if dto.Description != nil {
		subject.Description = strings.TrimSpace(*dto.Description)
	}

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, translate(err)
	}
	return toResponse(subject), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	config.WithContext(ctx).WithField("subject_id", id).Info("Subject deleted")
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return ErrSubjectNotFound
	case apperr.IsUniqueViolation(err):
		return ErrDuplicateName
	default:
		return err
	}
}

func toResponse(s *Subject) *SubjectResponse {
	return &SubjectResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
