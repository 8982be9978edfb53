package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/identity"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.With(auth.RequireRole(identity.RoleStudent)).Get("/student", h.Student)
	r.With(auth.RequireRole(identity.RoleTeacher)).Get("/teacher", h.Teacher)
	return r
}
