package attempt

import "github.com/saulo-duarte/quizard/internal/storage"

type AttemptContainer struct {
	Repo    Repository
	Service *Service
	Handler *Handler
}

func NewAttemptContainer(store *storage.Store, quizzes QuizSource, navigator Navigator) *AttemptContainer {
	repo := NewRepository(store)
	service := NewService(repo, quizzes)
	handler := NewHandler(service, navigator)

	return &AttemptContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
