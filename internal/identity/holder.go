package identity

import (
	"sync"

	"github.com/google/uuid"
)

type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name,omitempty"`
	Role     Role      `json:"role"`
}

func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return i.Username
}

// Holder keeps the one authenticated identity of the running process.
type Holder struct {
	mu      sync.RWMutex
	current *Identity
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) Set(id Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = &id
}

func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
}

func (h *Holder) Current() (Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return Identity{}, false
	}
	return *h.current, true
}

func (h *Holder) IsLoggedIn() bool {
	_, ok := h.Current()
	return ok
}

func (h *Holder) IsStudent() bool {
	return h.hasRole(RoleStudent)
}

func (h *Holder) IsTeacher() bool {
	return h.hasRole(RoleTeacher)
}

func (h *Holder) hasRole(r Role) bool {
	id, ok := h.Current()
	return ok && id.Role == r
}
