package engagement

import "github.com/saulo-duarte/quizard/internal/storage"

type Container struct {
	Handler *Handler
	Service Service
}

func NewContainer(store *storage.Store) *Container {
	repo := NewRepository(store)
	service := NewService(repo)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
	}
}
