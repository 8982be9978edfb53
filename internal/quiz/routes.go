package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/identity"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListPublic)
	r.Get("/{id}", h.GetQuizWithQuestions)
	r.Get("/{id}/details", h.QuizDetails)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(identity.RoleTeacher))
		r.Post("/", h.CreateQuiz)
		r.Get("/mine", h.ListQuizzesByUser)
		r.Put("/{id}", h.UpdateQuiz)
		r.Delete("/{id}", h.DeleteQuiz)
		r.Post("/{id}/questions", h.AddQuestion)
		r.Delete("/questions/{questionID}", h.RemoveQuestion)
	})
	return r
}
