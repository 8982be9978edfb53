package navigation

import (
	"fmt"
	"sync"

	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/identity"
)

// Change is emitted after every transition of the current state.
type Change struct {
	From State `json:"from"`
	To   State `json:"to"`
}

type Snapshot struct {
	State     State `json:"state"`
	Depth     int   `json:"depth"`
	CanGoBack bool  `json:"can_go_back"`
	LoggedIn  bool  `json:"logged_in"`
}

// Navigator owns the current screen state, its back-stack and the guard
// deciding which screens the current identity may open.
type Navigator struct {
	mu          sync.Mutex
	holder      *identity.Holder
	current     State
	stack       []State
	nextSubID   int
	subscribers map[int]func(Change)
}

func NewNavigator(holder *identity.Holder) *Navigator {
	return &Navigator{
		holder:      holder,
		current:     Login,
		subscribers: make(map[int]func(Change)),
	}
}

func (n *Navigator) Current() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Snapshot{
		State:     n.current,
		Depth:     len(n.stack),
		CanGoBack: n.canGoBackLocked(),
		LoggedIn:  n.holder.IsLoggedIn(),
	}
}

// CanNavigateTo reports whether target is reachable from the current state
// for the current identity. It never mutates anything.
func (n *Navigator) CanNavigateTo(target State) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.allowedLocked(target)
}

func (n *Navigator) allowedLocked(target State) bool {
	switch target {
	case Login:
		return true
	case Register:
		return n.current == Login
	case StudentDashboard, TakeQuiz, JoinClass:
		return n.holder.IsStudent()
	case TeacherDashboard, CreateQuiz, ViewClasses:
		return n.holder.IsTeacher()
	case ViewResults, SearchSubjects, QuizDetails:
		return n.holder.IsLoggedIn()
	case Loading:
		return false
	default:
		return false
	}
}

// NavigateTo moves to target when the guard allows it. Navigating to the
// current state is a no-op.
func (n *Navigator) NavigateTo(target State) error {
	if !target.IsValid() {
		return apperr.Validation(fmt.Sprintf("unknown screen %d", int(target)))
	}

	n.mu.Lock()
	if !n.allowedLocked(target) {
		from := n.current
		n.mu.Unlock()
		return apperr.Authorization(fmt.Sprintf("cannot open %s from %s", target, from))
	}
	if n.current == target {
		n.mu.Unlock()
		return nil
	}
	change := Change{From: n.current, To: target}
	n.stack = append(n.stack, n.current)
	n.current = target
	subs := n.subscribersLocked()
	n.mu.Unlock()

	notify(subs, change)
	return nil
}

func (n *Navigator) CanGoBack() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.canGoBackLocked()
}

func (n *Navigator) canGoBackLocked() bool {
	return len(n.stack) > 0 && n.current != Login
}

// GoBack returns to the previous state. It does nothing on Login or when the
// history is empty. Entries the current identity may no longer open are
// skipped, falling back to Login.
func (n *Navigator) GoBack() bool {
	n.mu.Lock()
	if !n.canGoBackLocked() {
		n.mu.Unlock()
		return false
	}
	target := Login
	for len(n.stack) > 0 {
		last := len(n.stack) - 1
		prev := n.stack[last]
		n.stack = n.stack[:last]
		if n.revisitableLocked(prev) {
			target = prev
			break
		}
	}
	change := Change{From: n.current, To: target}
	n.current = target
	subs := n.subscribersLocked()
	n.mu.Unlock()

	notify(subs, change)
	return true
}

func (n *Navigator) revisitableLocked(s State) bool {
	if s == Register {
		return !n.holder.IsLoggedIn()
	}
	return n.allowedLocked(s)
}

// OnUserLoggedIn stores the identity and opens the home screen of its role.
// A different account starts from a fresh history. Roles without a home
// screen stay on Login and report ErrUnknownRole.
func (n *Navigator) OnUserLoggedIn(id identity.Identity) error {
	prev, ok := n.holder.Current()
	n.holder.Set(id)
	if !ok || prev.UserID != id.UserID {
		n.reset()
	}

	switch id.Role {
	case identity.RoleStudent:
		return n.NavigateTo(StudentDashboard)
	case identity.RoleTeacher:
		return n.NavigateTo(TeacherDashboard)
	default:
		return apperr.Wrap(apperr.ErrUnknownRole, fmt.Sprintf("role %q has no home screen", id.Role), nil)
	}
}

// Logout clears the identity and history and returns to Login.
func (n *Navigator) Logout() {
	n.holder.Clear()
	n.reset()
}

func (n *Navigator) reset() {
	n.mu.Lock()
	n.stack = nil
	if n.current == Login {
		n.mu.Unlock()
		return
	}
	change := Change{From: n.current, To: Login}
	n.current = Login
	subs := n.subscribersLocked()
	n.mu.Unlock()

	notify(subs, change)
}

// Subscribe registers fn for state changes. fn runs on the goroutine that
// caused the change, after the navigator lock is released.
func (n *Navigator) Subscribe(fn func(Change)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextSubID
	n.nextSubID++
	n.subscribers[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subscribers, id)
		n.mu.Unlock()
	}
}

func (n *Navigator) subscribersLocked() []func(Change) {
	subs := make([]func(Change), 0, len(n.subscribers))
	for i := 0; i < n.nextSubID; i++ {
		if fn, ok := n.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notify(subs []func(Change), c Change) {
	for _, fn := range subs {
		fn(c)
	}
}
