package navigation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saulo-duarte/quizard/internal/apperr"
)

type State int

const (
	Login State = iota
	Register
	StudentDashboard
	TeacherDashboard
	TakeQuiz
	CreateQuiz
	ViewResults
	SearchSubjects
	JoinClass
	ViewClasses
	QuizDetails
	Loading
)

var stateNames = [...]string{
	Login:            "Login",
	Register:         "Register",
	StudentDashboard: "StudentDashboard",
	TeacherDashboard: "TeacherDashboard",
	TakeQuiz:         "TakeQuiz",
	CreateQuiz:       "CreateQuiz",
	ViewResults:      "ViewResults",
	SearchSubjects:   "SearchSubjects",
	JoinClass:        "JoinClass",
	ViewClasses:      "ViewClasses",
	QuizDetails:      "QuizDetails",
	Loading:          "Loading",
}

// AllStates lists the closed state set in declaration order.
var AllStates = []State{
	Login, Register, StudentDashboard, TeacherDashboard, TakeQuiz, CreateQuiz,
	ViewResults, SearchSubjects, JoinClass, ViewClasses, QuizDetails, Loading,
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) IsValid() bool {
	return s >= Login && s <= Loading
}

func ParseState(raw string) (State, error) {
	for _, s := range AllStates {
		if strings.EqualFold(raw, s.String()) {
			return s, nil
		}
	}
	return 0, apperr.Validation(fmt.Sprintf("unknown screen %q", raw))
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseState(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
