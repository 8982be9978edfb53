package attempt

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/navigation"
)

// Navigator moves the session's screen along with the attempt.
type Navigator interface {
	NavigateTo(target navigation.State) error
}

type Handler struct {
	service   *Service
	navigator Navigator
}

func NewHandler(service *Service, navigator Navigator) *Handler {
	return &Handler{service: service, navigator: navigator}
}

func (h *Handler) navigate(r *http.Request, target navigation.State) {
	if h.navigator == nil {
		return
	}
	if err := h.navigator.NavigateTo(target); err != nil {
		config.WithContext(r.Context()).WithError(err).WithField("target", target.String()).Warn("Navigation refused")
	}
}

func (h *Handler) workflow(w http.ResponseWriter, r *http.Request) (*Workflow, bool) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	attemptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid attempt id", http.StatusBadRequest)
		return nil, false
	}
	wf, err := h.service.Resolve(r.Context(), attemptID, userID)
	if err != nil {
		config.Error(w, err)
		return nil, false
	}
	return wf, true
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto StartDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body to start attempt")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := config.Validate(dto); err != nil {
		config.Error(w, err)
		return
	}

	client := map[string]string{
		"user_agent":  r.UserAgent(),
		"remote_addr": r.RemoteAddr,
	}
	wf, err := h.service.Start(r.Context(), userID, dto.QuizID, client)
	if err != nil {
		log.WithError(err).Warn("Failed to start attempt")
		config.Error(w, err)
		return
	}
	h.navigate(r, navigation.TakeQuiz)

	config.JSON(w, http.StatusCreated, wf.View())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}
	config.JSON(w, http.StatusOK, wf.View())
}

func (h *Handler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	var dto AnswerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := config.Validate(dto); err != nil {
		config.Error(w, err)
		return
	}

	if err := wf.SelectAnswer(dto.QuestionID, dto.Label); err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, wf.View())
}

func (h *Handler) MoveCursor(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	var dto CursorDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := config.Validate(dto); err != nil {
		config.Error(w, err)
		return
	}

	var moved bool
	switch dto.Action {
	case "next":
		moved = wf.Next()
	case "previous":
		moved = wf.Previous()
	case "goto":
		moved = wf.MoveTo(dto.Index)
	}
	config.JSON(w, http.StatusOK, CursorResponse{Moved: moved, View: wf.View()})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	result, err := h.service.Submit(r.Context(), wf)
	if err != nil {
		config.Error(w, err)
		return
	}
	h.navigate(r, navigation.ViewResults)

	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r)
	if !ok {
		return
	}

	if err := h.service.Abandon(r.Context(), wf.AttemptID()); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Failed to abandon attempt")
		config.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	results, err := h.service.ListResults(r.Context(), userID, r.URL.Query().Get("search"))
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to list results")
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, results)
}

func (h *Handler) QuizResults(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := uuid.Parse(chi.URLParam(r, "quizID"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	results, err := h.service.QuizResults(r.Context(), userID, quizID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, results)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	attemptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid attempt id", http.StatusBadRequest)
		return
	}

	detail, err := h.service.AttemptDetail(r.Context(), userID, attemptID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, detail)
}
