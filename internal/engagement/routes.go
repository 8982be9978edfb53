package engagement

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/identity"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Put("/likes/{quizID}", h.Like)
	r.Delete("/likes/{quizID}", h.Unlike)
	r.Get("/feedback/{quizID}", h.ListFeedback)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(identity.RoleStudent))
		r.Get("/saved", h.ListSaved)
		r.Put("/saved/{quizID}", h.Save)
		r.Delete("/saved/{quizID}", h.Unsave)
		r.Post("/feedback/{quizID}", h.SubmitFeedback)
	})

	return r
}
