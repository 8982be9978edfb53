package dashboard

import "github.com/saulo-duarte/quizard/internal/storage"

type Container struct {
	Handler *Handler
	Service Service
}

func NewContainer(store *storage.Store, results ResultSource, assignments AssignmentSource, quizzes QuizLister) *Container {
	service := NewService(NewRepository(store), results, assignments, quizzes)
	return &Container{
		Handler: NewHandler(service),
		Service: service,
	}
}
