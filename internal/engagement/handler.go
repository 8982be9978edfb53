package engagement

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func params(w http.ResponseWriter, r *http.Request) (userID, quizID uuid.UUID, ok bool) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	quizID, err = uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, quizID, true
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := params(w, r)
	if !ok {
		return
	}
	status, err := h.service.Like(r.Context(), userID, quizID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, status)
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := params(w, r)
	if !ok {
		return
	}
	status, err := h.service.Unlike(r.Context(), userID, quizID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, status)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := params(w, r)
	if !ok {
		return
	}
	if err := h.service.Save(r.Context(), userID, quizID); err != nil {
		config.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unsave(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := params(w, r)
	if !ok {
		return
	}
	if err := h.service.Unsave(r.Context(), userID, quizID); err != nil {
		config.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	saved, err := h.service.ListSaved(r.Context(), userID)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to list saved quizzes")
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, saved)
}

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := params(w, r)
	if !ok {
		return
	}

	var dto FeedbackDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	f, err := h.service.SubmitFeedback(r.Context(), userID, quizID, dto)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, f)
}

func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}
	list, err := h.service.ListFeedback(r.Context(), quizID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, list)
}
