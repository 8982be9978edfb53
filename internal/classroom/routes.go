package classroom

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/identity"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/search", h.Search)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(identity.RoleTeacher))
		r.Post("/", h.Create)
		r.Get("/mine", h.ListMine)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/students", h.Students)
		r.Post("/{id}/students", h.AddStudent)
		r.Delete("/{id}/students/{studentID}", h.RemoveStudent)
		r.Post("/assignments", h.Assign)
		r.Get("/{id}/assignments", h.ClassAssignments)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(identity.RoleStudent))
		r.Post("/join", h.Join)
		r.Get("/joined", h.ListJoined)
		r.Delete("/{id}/enrollment", h.Leave)
		r.Get("/assignments", h.MyAssignments)
	})

	return r
}
