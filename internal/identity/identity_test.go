package identity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"Student", "student", " STUDENT "} {
		r, err := identity.ParseRole(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, identity.RoleStudent, r)
	}

	r, err := identity.ParseRole("teacher")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleTeacher, r)

	_, err = identity.ParseRole("principal")
	assert.ErrorIs(t, err, apperr.ErrUnknownRole)

	_, err = identity.ParseRole("")
	assert.ErrorIs(t, err, apperr.ErrUnknownRole)
}

func TestRoleScan(t *testing.T) {
	var r identity.Role
	require.NoError(t, r.Scan([]byte("teacher")))
	assert.Equal(t, identity.RoleTeacher, r)

	assert.Error(t, r.Scan(42))
	assert.Error(t, r.Scan("janitor"))

	_, err := identity.Role("janitor").Value()
	assert.Error(t, err)
}

func TestHolder(t *testing.T) {
	h := identity.NewHolder()
	assert.False(t, h.IsLoggedIn())
	assert.False(t, h.IsStudent())
	assert.False(t, h.IsTeacher())

	student := identity.Identity{UserID: uuid.New(), Username: "ana", Role: identity.RoleStudent}
	h.Set(student)
	assert.True(t, h.IsLoggedIn())
	assert.True(t, h.IsStudent())
	assert.False(t, h.IsTeacher())

	got, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, student, got)
	assert.Equal(t, "ana", got.DisplayName())

	h.Set(identity.Identity{UserID: uuid.New(), Username: "bob", FullName: "Bob Lee", Role: identity.RoleTeacher})
	assert.True(t, h.IsTeacher())
	assert.False(t, h.IsStudent())

	h.Clear()
	assert.False(t, h.IsLoggedIn())
	_, ok = h.Current()
	assert.False(t, ok)
}
