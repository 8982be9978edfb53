package attempt

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/quiz"
)

// Workflow is one student's live pass through a quiz. The quiz content is
// loaded once at start and never reloaded.
type Workflow struct {
	mu sync.Mutex

	attemptID uuid.UUID
	studentID uuid.UUID
	quiz      *quiz.Quiz
	index     map[uuid.UUID]int

	selections map[uuid.UUID]string
	cursor     int
	status     Status
	startedAt  time.Time
	finishedAt time.Time
	result     *Result

	repo Repository
	now  func() time.Time
}

func newWorkflow(a *StudentQuiz, q *quiz.Quiz, repo Repository, now func() time.Time) *Workflow {
	index := make(map[uuid.UUID]int, len(q.Questions))
	for i, question := range q.Questions {
		index[question.ID] = i
	}
	return &Workflow{
		attemptID:  a.ID,
		studentID:  a.StudentID,
		quiz:       q,
		index:      index,
		selections: make(map[uuid.UUID]string),
		status:     a.Status,
		startedAt:  a.StartedAt,
		repo:       repo,
		now:        now,
	}
}

func (w *Workflow) AttemptID() uuid.UUID { return w.attemptID }
func (w *Workflow) StudentID() uuid.UUID { return w.studentID }
func (w *Workflow) QuizID() uuid.UUID    { return w.quiz.ID }

func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Workflow) Cursor() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

func (w *Workflow) Total() int {
	return len(w.quiz.Questions)
}

// SelectAnswer records label as the answer to questionID, replacing any
// earlier choice. Nothing changes when the question or label is unknown.
func (w *Workflow) SelectAnswer(questionID uuid.UUID, label string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status != StatusInProgress {
		return apperr.InvalidState(fmt.Sprintf("attempt is %s", w.status))
	}
	i, ok := w.index[questionID]
	if !ok {
		return apperr.Validation("question does not belong to this quiz")
	}
	if !w.quiz.Questions[i].HasOption(label) {
		return apperr.Validation(fmt.Sprintf("option %q is not available for this question", label))
	}
	w.selections[questionID] = label
	return nil
}

func (w *Workflow) Selection(questionID uuid.UUID) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	label, ok := w.selections[questionID]
	return label, ok
}

func (w *Workflow) MoveTo(i int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveLocked(i)
}

func (w *Workflow) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveLocked(w.cursor + 1)
}

func (w *Workflow) Previous() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moveLocked(w.cursor - 1)
}

func (w *Workflow) moveLocked(i int) bool {
	if i < 0 || i >= len(w.quiz.Questions) || i == w.cursor {
		return false
	}
	w.cursor = i
	return true
}

// Elapsed is the running time of the attempt. It stops once the attempt
// leaves the in-progress state.
func (w *Workflow) Elapsed() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.elapsedLocked()
}

func (w *Workflow) elapsedLocked() time.Duration {
	end := w.now()
	if w.status != StatusInProgress && !w.finishedAt.IsZero() {
		end = w.finishedAt
	}
	d := end.Sub(w.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

func (w *Workflow) ElapsedDisplay() string {
	return FormatDuration(w.Elapsed())
}

// FormatDuration renders d as hh:mm:ss.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Score is correct/total on a 0 to 10 scale, rounded to one decimal.
func Score(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)*100/float64(total)) / 10
}

// Submit grades every question, unanswered ones as incorrect, and persists
// the attempt with its answers in a single transaction. On failure the
// workflow stays in progress.
func (w *Workflow) Submit(ctx context.Context) (*Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	log := config.WithContext(ctx).WithField("attempt_id", w.attemptID)

	if w.status != StatusInProgress {
		return nil, apperr.InvalidState(fmt.Sprintf("attempt is %s", w.status))
	}

	now := w.now()
	result := &Result{
		AttemptID: w.attemptID,
		Total:     len(w.quiz.Questions),
		Answers:   make([]AnswerResult, 0, len(w.quiz.Questions)),
	}
	answers := make([]StudentAnswer, 0, len(w.quiz.Questions))
	for _, q := range w.quiz.Questions {
		var selected *string
		correct := false
		if label, ok := w.selections[q.ID]; ok {
			l := label
			selected = &l
			correct = label == q.CorrectOption
		}
		if correct {
			result.Correct++
		}
		answers = append(answers, StudentAnswer{
			AttemptID:      w.attemptID,
			QuestionID:     q.ID,
			SelectedOption: selected,
			IsCorrect:      correct,
			AnsweredAt:     now,
		})
		result.Answers = append(result.Answers, AnswerResult{
			QuestionID: q.ID,
			Selected:   selected,
			Correct:    q.CorrectOption,
			IsCorrect:  correct,
		})
	}
	result.Score = Score(result.Correct, result.Total)
	spent := now.Sub(w.startedAt)
	if spent < 0 {
		spent = 0
	}
	result.TimeSpentSeconds = int(spent / time.Second)

	rec := SubmitRecord{FinishedAt: now, TimeSpentSeconds: result.TimeSpentSeconds, Score: result.Score}
	if err := w.repo.Submit(ctx, w.attemptID, rec, answers); err != nil {
		if errors.Is(err, apperr.ErrInvalidState) {
			w.status = StatusAbandoned
			w.finishedAt = now
		}
		log.WithError(err).Error("Failed to submit attempt")
		return nil, err
	}

	w.status = StatusSubmitted
	w.finishedAt = now
	w.result = result

	log.WithField("score", result.Score).Info("Attempt submitted")
	return result, nil
}

func (w *Workflow) abandon(at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status == StatusInProgress {
		w.status = StatusAbandoned
		w.finishedAt = at
	}
}

func (w *Workflow) startedBefore(t time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status == StatusInProgress && w.startedAt.Before(t)
}

// View snapshots the workflow for rendering.
func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		AttemptID:  w.attemptID,
		QuizID:     w.quiz.ID,
		QuizTitle:  w.quiz.Title,
		Status:     w.status,
		Cursor:     w.cursor,
		Total:      len(w.quiz.Questions),
		Answered:   len(w.selections),
		Elapsed:    FormatDuration(w.elapsedLocked()),
		Selections: make(map[uuid.UUID]string, len(w.selections)),
		Result:     w.result,
	}
	for id, label := range w.selections {
		v.Selections[id] = label
	}
	if w.cursor < len(w.quiz.Questions) {
		q := w.quiz.Questions[w.cursor]
		qv := &QuestionView{ID: q.ID, Index: w.cursor, Content: q.Content, Selected: w.selections[q.ID]}
		for _, o := range q.Options {
			qv.Options = append(qv.Options, OptionView{Label: o.Label, Content: o.Content})
		}
		v.Question = qv
	}
	return v
}
