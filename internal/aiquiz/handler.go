package aiquiz

import (
	"encoding/json"
	"net/http"

	"github.com/saulo-duarte/quizard/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.GenerateQuestions(r.Context(), req)
	if err != nil {
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, res)
}
