package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizard/internal/auth"
)

// AuthRoutes serves sign-up and sign-in. Logout needs the live session, so
// it runs behind requireSession.
func AuthRoutes(h *Handler, logout *auth.Handler, requireSession func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.With(requireSession).Post("/logout", logout.Logout)
	return r
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.GetUser)
	return r
}
