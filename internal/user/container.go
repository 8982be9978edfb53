package user

import (
	"time"

	"github.com/saulo-duarte/quizard/internal/navigation"
	"github.com/saulo-duarte/quizard/internal/storage"
)

type UserContainer struct {
	Repo    UserRepository
	Service Service
	Handler *Handler
}

func NewUserContainer(store *storage.Store, navigator *navigation.Navigator, tokenTTL time.Duration) *UserContainer {
	repo := NewRepository(store)
	service := NewService(repo)
	handler := NewHandler(service, navigator, tokenTTL)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
