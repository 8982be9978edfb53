package quiz

import "github.com/saulo-duarte/quizard/internal/storage"

type QuizContainer struct {
	Repo    QuizRepository
	Service QuizService
	Handler *Handler
}

func NewQuizContainer(store *storage.Store, cache Cache, engagement EngagementSource) *QuizContainer {
	repo := NewRepository(store)
	service := NewService(repo, cache, engagement)
	handler := NewHandler(service)

	return &QuizContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
