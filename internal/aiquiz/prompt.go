package aiquiz

import (
	"fmt"
	"strings"
)

const (
	defaultCount      = 3
	maxCount          = 10
	defaultDifficulty = "medium"
)

const systemPrompt = `
You write educational multiple-choice questions for a classroom quiz application.

Rules:
1. Only write questions about school subjects (mathematics, physics, chemistry, biology,
   history, geography, literature, languages and similar).
2. Every question has exactly one correct answer.
3. Every question has four options labelled A to D.
4. Difficulty is one of easy, medium or hard.

Expected JSON, with nothing outside it:

[
  {
    "topic": "<topic>",
    "difficulty": "<easy | medium | hard>",
    "question": "<question text>",
    "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
    "correct_option": "C",
    "explanation": "<short explanation of why the correct option is right>"
  }
]

Quality:
- Keep every option similar in length and structure so the answer is not obvious.
- Use plausible distractors.
- easy means definitions, medium means applying a concept, hard means analysis or calculation.
- Never reveal the answer in the question text.
- If the topic is not educational, return [].
`

// BuildUserPrompt clamps the count to 1..10 and fills defaults.
func BuildUserPrompt(req GenerateRequest) string {
	n := req.Count
	if n <= 0 {
		n = defaultCount
	}
	if n > maxCount {
		n = maxCount
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = defaultDifficulty
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write %d multiple-choice questions about %q with %s difficulty.", n, strings.TrimSpace(req.Topic), difficulty)
	if c := strings.TrimSpace(req.Context); c != "" {
		fmt.Fprintf(&b, " Use this context: %s.", c)
	}
	b.WriteString(" Follow the JSON format of the system prompt.")
	return b.String()
}
