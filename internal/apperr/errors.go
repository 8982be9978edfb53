package apperr

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrPersistence   = errors.New("persistence error")
	ErrAuthorization = errors.New("not authorized")
	ErrInvalidState  = errors.New("invalid state")
	ErrTimeout       = errors.New("timeout")
	ErrUnknownRole   = errors.New("unknown role")
	ErrUpstream      = errors.New("upstream service error")
)

// Error carries one of the kind sentinels above plus a user-facing message.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) *Error    { return New(ErrValidation, msg) }
func NotFound(msg string) *Error      { return New(ErrNotFound, msg) }
func Authorization(msg string) *Error { return New(ErrAuthorization, msg) }
func InvalidState(msg string) *Error  { return New(ErrInvalidState, msg) }

// FromDB classifies an error returned by gorm. Nil stays nil.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(ErrNotFound, "record not found", err)
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrTimeout, "storage did not answer in time", err)
	case IsUniqueViolation(err):
		return Wrap(ErrPersistence, "duplicate record", err)
	default:
		return Wrap(ErrPersistence, "storage failure", err)
	}
}

// IsUniqueViolation recognises unique-constraint failures from postgres and sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnknownRole):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show to the user.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Msg != "" {
			return appErr.Msg
		}
		return appErr.Kind.Error()
	}
	return "internal server error"
}
