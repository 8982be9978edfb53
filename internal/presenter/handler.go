package presenter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/navigation"
)

type NavigateDTO struct {
	Screen navigation.State `json:"screen"`
}

type ScreenResponse struct {
	Navigation navigation.Snapshot `json:"navigation"`
	View       View                `json:"view"`
}

// Handler exposes the navigator and the current view to the presentation client.
type Handler struct {
	navigator *navigation.Navigator
	presenter *Presenter
}

func NewHandler(navigator *navigation.Navigator, presenter *Presenter) *Handler {
	return &Handler{navigator: navigator, presenter: presenter}
}

func (h *Handler) respond(w http.ResponseWriter, status int) {
	config.JSON(w, status, ScreenResponse{
		Navigation: h.navigator.Snapshot(),
		View:       h.presenter.View(),
	})
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK)
}

func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var dto NavigateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.navigator.NavigateTo(dto.Screen); err != nil {
		config.WithContext(r.Context()).WithError(err).WithField("screen", dto.Screen.String()).Warn("Navigation refused")
		config.Error(w, err)
		return
	}
	h.respond(w, http.StatusOK)
}

func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.navigator.GoBack()
	h.respond(w, http.StatusOK)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.presenter.Refresh()
	h.respond(w, http.StatusAccepted)
}

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Current)
	r.Post("/navigate", h.Navigate)
	r.Post("/back", h.Back)
	r.Post("/refresh", h.Refresh)
	return r
}
