package quiz

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/auth"
	"github.com/saulo-duarte/quizard/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		log.Warn("User not authenticated to create quiz")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var dto CreateQuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body for quiz creation")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	quiz, err := h.service.CreateQuizWithQuestions(r.Context(), userID, dto)
	if err != nil {
		log.WithError(err).Warn("Failed to create quiz")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, quiz)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	var dto UpdateQuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q, err := h.service.UpdateQuiz(r.Context(), userID, quizID, dto)
	if err != nil {
		log.WithError(err).Warn("Failed to update quiz")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteQuiz(r.Context(), userID, quizID); err != nil {
		log.WithError(err).Warn("Failed to delete quiz")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "quiz deleted successfully",
	})
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	var in QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.WithError(err).Error("Invalid request body for new question")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	question, err := h.service.AddQuestion(r.Context(), userID, quizID, in)
	if err != nil {
		log.WithError(err).Warn("Failed to add question")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, question)
}

func (h *Handler) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	questionID, err := uuid.Parse(chi.URLParam(r, "questionID"))
	if err != nil {
		http.Error(w, "invalid question id", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveQuestion(r.Context(), userID, questionID); err != nil {
		log.WithError(err).Warn("Failed to remove question")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "question removed successfully",
	})
}

// GetQuizWithQuestions hides answers and explanations from everyone but the creator.
func (h *Handler) GetQuizWithQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	quiz, err := h.service.GetQuizWithQuestions(r.Context(), quizID)
	if err != nil {
		config.Error(w, err)
		return
	}

	userID, _ := auth.CurrentUserID(r.Context())
	if userID != quiz.CreatorID {
		quiz = Redacted(quiz)
	}
	config.JSON(w, http.StatusOK, quiz)
}

func (h *Handler) QuizDetails(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid quiz id", http.StatusBadRequest)
		return
	}

	details, err := h.service.QuizDetails(r.Context(), quizID)
	if err != nil {
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusOK, details)
}

func (h *Handler) ListQuizzesByUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	userID, err := auth.CurrentUserID(r.Context())
	if err != nil {
		log.Warn("User not authenticated to list quizzes")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	quizzes, err := h.service.ListQuizzesByUser(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to list quizzes of user")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusOK, quizzes)
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	var subjectID *uuid.UUID
	if raw := r.URL.Query().Get("subject_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid subject_id", http.StatusBadRequest)
			return
		}
		subjectID = &id
	}

	quizzes, err := h.service.ListPublic(r.Context(), subjectID, r.URL.Query().Get("search"))
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to list public quizzes")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusOK, quizzes)
}

// Redacted returns a copy of q without correct options or explanations.
func Redacted(q *Quiz) *Quiz {
	out := *q
	out.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.CorrectOption = ""
		question.Explanation = nil
		out.Questions[i] = question
	}
	return &out
}
