package aiquiz

import "github.com/saulo-duarte/quizard/internal/quiz"

// Draft is one question as returned by the model.
type Draft struct {
	Topic         string   `json:"topic"`
	Difficulty    string   `json:"difficulty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

type GenerateRequest struct {
	Topic      string `json:"topic" validate:"required,max=200"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Count      int    `json:"count" validate:"min=0,max=10"`
	Context    string `json:"context" validate:"max=2000"`
}

type GenerateResponse struct {
	Questions []quiz.QuestionInput `json:"questions"`
	Discarded int                  `json:"discarded"`
}
