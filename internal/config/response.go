package config

import (
	"encoding/json"
	"net/http"

	"github.com/saulo-duarte/quizard/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

// Error writes err using its apperr kind for the status code.
func Error(w http.ResponseWriter, err error) {
	JSON(w, apperr.HTTPStatus(err), map[string]string{"error": apperr.Message(err)})
}
