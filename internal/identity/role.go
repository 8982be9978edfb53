package identity

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/saulo-duarte/quizard/internal/apperr"
)

type Role string

const (
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleAdmin   Role = "Admin"
)

var AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

// ParseRole normalizes free-text role names. Matching ignores case and
// surrounding space; anything else is ErrUnknownRole.
func ParseRole(raw string) (Role, error) {
	trimmed := strings.TrimSpace(raw)
	for _, r := range AllRoles {
		if strings.EqualFold(trimmed, string(r)) {
			return r, nil
		}
	}
	return "", apperr.Wrap(apperr.ErrUnknownRole, fmt.Sprintf("unknown role %q", raw), nil)
}

func (r Role) IsValid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}

func (r Role) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid role %q", string(r))
	}
	return string(r), nil
}

func (r *Role) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan type %T into Role", value)
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
