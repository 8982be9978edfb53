package aiquiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/identity"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(identity.RoleTeacher))

	r.Post("/", h.GenerateQuestions)
	return r
}
