package attempt

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/identity"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/{id}/detail", h.Detail)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(identity.RoleStudent))
		r.Post("/", h.Start)
		r.Get("/results", h.ListResults)
		r.Get("/{id}", h.Get)
		r.Put("/{id}/answers", h.SelectAnswer)
		r.Post("/{id}/cursor", h.MoveCursor)
		r.Post("/{id}/submit", h.Submit)
		r.Post("/{id}/abandon", h.Abandon)
	})

	r.With(auth.RequireRole(identity.RoleTeacher)).Get("/quiz/{quizID}", h.QuizResults)
	return r
}
