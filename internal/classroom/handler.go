package classroom

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

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := auth.CurrentUserID(r.Context())
	if err != nil {
		config.WithContext(r.Context()).Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

func classID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid class id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var dto CreateClassDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	class, err := h.service.CreateClass(r.Context(), userID, dto)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, class)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := classID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteClass(r.Context(), userID, id); err != nil {
		config.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	classes, err := h.service.ListTeacherClasses(r.Context(), userID)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to list classes")
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, classes)
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var dto JoinClassDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := config.Validate(dto); err != nil {
		config.Error(w, err)
		return
	}

	class, err := h.service.Join(r.Context(), userID, dto.Code)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, class)
}

func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := classID(w, r)
	if !ok {
		return
	}

	if err := h.service.Leave(r.Context(), userID, id); err != nil {
		config.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Students(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := classID(w, r)
	if !ok {
		return
	}

	members, err := h.service.ListStudents(r.Context(), userID, id)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, members)
}

func (h *Handler) AddStudent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := classID(w, r)
	if !ok {
		return
	}

	var dto AddStudentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := config.Validate(dto); err != nil {
		config.Error(w, err)
		return
	}

	member, err := h.service.AddStudent(r.Context(), userID, id, dto.StudentID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, member)
}

func (h *Handler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := classID(w, r)
	if !ok {
		return
	}
	studentID, err := uuid.Parse(chi.URLParam(r, "studentID"))
	if err != nil {
		http.Error(w, "invalid student id", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveStudent(r.Context(), userID, id, studentID); err != nil {
		config.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListJoined(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	classes, err := h.service.ListStudentClasses(r.Context(), userID)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to list joined classes")
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, classes)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	classes, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, classes)
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var dto AssignQuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid assignment body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	assignment, err := h.service.AssignQuiz(r.Context(), userID, dto)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, assignment)
}

func (h *Handler) MyAssignments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListStudentAssignments(r.Context(), userID)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to list assignments")
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, list)
}

func (h *Handler) ClassAssignments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := classID(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListClassAssignments(r.Context(), userID, id)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, list)
}
