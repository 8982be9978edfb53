package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/storage"
	"github.com/saulo-duarte/quizard/internal/testutil"
	"github.com/saulo-duarte/quizard/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (user.Service, user.UserRepository) {
	db := testutil.NewDB(t, &user.User{})
	repo := user.NewRepository(storage.New(db, time.Second))
	return user.NewService(repo), repo
}

func registerDTO(username string) user.RegisterDTO {
	return user.RegisterDTO{
		Username: username,
		Email:    username + "@school.test",
		Password: "secret123",
		FullName: "Ana Lima",
		Role:     "student",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)
		resp, err := svc.Register(ctx, registerDTO("ana"))
		require.NoError(t, err)
		assert.Equal(t, "ana", resp.Username)
		assert.Equal(t, identity.RoleStudent, resp.Role)

		stored, err := repo.GetByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "secret123", stored.PasswordHash)
		assert.True(t, stored.IsActive)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Register(ctx, registerDTO("ana"))
		require.NoError(t, err)

		dup := registerDTO("ANA")
		dup.Email = "other@school.test"
		_, err = svc.Register(ctx, dup)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		svc, _ := newService(t)
		dto := registerDTO("ana")
		dto.Email = "not-an-email"
		_, err := svc.Register(ctx, dto)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		svc, _ := newService(t)
		dto := registerDTO("ana")
		dto.Role = "janitor"
		_, err := svc.Register(ctx, dto)
		assert.ErrorIs(t, err, apperr.ErrUnknownRole)
	})

	t.Run("AdminRefused", func(t *testing.T) {
		svc, _ := newService(t)
		dto := registerDTO("root")
		dto.Role = "Admin"
		_, err := svc.Register(ctx, dto)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	resp, err := svc.Register(ctx, registerDTO("ana"))
	require.NoError(t, err)

	t.Run("ByUsername", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, user.LoginDTO{Login: "ana", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, resp.ID, u.ID)
	})

	t.Run("ByEmail", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, user.LoginDTO{Login: "Ana@School.test", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, resp.ID, u.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, user.LoginDTO{Login: "ana", Password: "nope"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, user.LoginDTO{Login: "bob", Password: "secret123"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("Inactive", func(t *testing.T) {
		require.NoError(t, repo.SetActive(ctx, resp.ID, false))

		_, err := svc.Authenticate(ctx, user.LoginDTO{Login: "ana", Password: "secret123"})
		assert.ErrorIs(t, err, apperr.ErrAuthorization)
	})
}

func TestGetByID(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
