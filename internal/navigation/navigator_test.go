package navigation_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func student() identity.Identity {
	return identity.Identity{UserID: uuid.New(), Username: "ana", Role: identity.RoleStudent}
}

func teacher() identity.Identity {
	return identity.Identity{UserID: uuid.New(), Username: "bob", Role: identity.RoleTeacher}
}

func newNavigator() (*navigation.Navigator, *identity.Holder) {
	h := identity.NewHolder()
	return navigation.NewNavigator(h), h
}

func TestInitialState(t *testing.T) {
	n, _ := newNavigator()
	assert.Equal(t, navigation.Login, n.Current())
	assert.False(t, n.CanGoBack())
	assert.False(t, n.GoBack())
	assert.Equal(t, navigation.Login, n.Current())
}

func TestCanNavigateToStudentDashboard(t *testing.T) {
	n, h := newNavigator()
	assert.False(t, n.CanNavigateTo(navigation.StudentDashboard), "no identity")

	h.Set(teacher())
	assert.False(t, n.CanNavigateTo(navigation.StudentDashboard), "teacher")

	h.Set(student())
	assert.True(t, n.CanNavigateTo(navigation.StudentDashboard), "student")
}

func TestGuardTable(t *testing.T) {
	n, h := newNavigator()

	t.Run("Anonymous", func(t *testing.T) {
		assert.True(t, n.CanNavigateTo(navigation.Login))
		assert.True(t, n.CanNavigateTo(navigation.Register))
		for _, s := range []navigation.State{
			navigation.StudentDashboard, navigation.TeacherDashboard, navigation.TakeQuiz,
			navigation.CreateQuiz, navigation.ViewResults, navigation.SearchSubjects,
			navigation.JoinClass, navigation.ViewClasses, navigation.QuizDetails, navigation.Loading,
		} {
			assert.False(t, n.CanNavigateTo(s), s.String())
		}
	})

	t.Run("Student", func(t *testing.T) {
		require.NoError(t, n.OnUserLoggedIn(student()))
		assert.False(t, n.CanNavigateTo(navigation.Register), "register only from login")
		assert.True(t, n.CanNavigateTo(navigation.TakeQuiz))
		assert.True(t, n.CanNavigateTo(navigation.JoinClass))
		assert.True(t, n.CanNavigateTo(navigation.ViewResults))
		assert.True(t, n.CanNavigateTo(navigation.SearchSubjects))
		assert.True(t, n.CanNavigateTo(navigation.QuizDetails))
		assert.False(t, n.CanNavigateTo(navigation.CreateQuiz))
		assert.False(t, n.CanNavigateTo(navigation.ViewClasses))
		assert.False(t, n.CanNavigateTo(navigation.TeacherDashboard))
		n.Logout()
	})

	t.Run("Teacher", func(t *testing.T) {
		h.Set(teacher())
		assert.True(t, n.CanNavigateTo(navigation.TeacherDashboard))
		assert.True(t, n.CanNavigateTo(navigation.CreateQuiz))
		assert.True(t, n.CanNavigateTo(navigation.ViewClasses))
		assert.False(t, n.CanNavigateTo(navigation.TakeQuiz))
		assert.False(t, n.CanNavigateTo(navigation.JoinClass))
	})
}

func TestNavigateToRefusesGuardedTarget(t *testing.T) {
	n, _ := newNavigator()
	var changes []navigation.Change
	n.Subscribe(func(c navigation.Change) { changes = append(changes, c) })

	err := n.NavigateTo(navigation.TeacherDashboard)

	assert.ErrorIs(t, err, apperr.ErrAuthorization)
	assert.Equal(t, navigation.Login, n.Current())
	assert.Equal(t, 0, n.Snapshot().Depth)
	assert.Empty(t, changes)
}

func TestNavigateToSameStateIsNoop(t *testing.T) {
	n, _ := newNavigator()
	require.NoError(t, n.OnUserLoggedIn(student()))
	depth := n.Snapshot().Depth

	require.NoError(t, n.NavigateTo(navigation.StudentDashboard))

	assert.Equal(t, depth, n.Snapshot().Depth)
}

func TestNavigateToRejectsUnknownState(t *testing.T) {
	n, _ := newNavigator()
	assert.ErrorIs(t, n.NavigateTo(navigation.State(99)), apperr.ErrValidation)
}

func TestBackStack(t *testing.T) {
	n, _ := newNavigator()
	var changes []navigation.Change
	n.Subscribe(func(c navigation.Change) { changes = append(changes, c) })

	require.NoError(t, n.OnUserLoggedIn(student()))
	require.NoError(t, n.NavigateTo(navigation.SearchSubjects))
	require.NoError(t, n.NavigateTo(navigation.QuizDetails))

	assert.True(t, n.GoBack())
	assert.Equal(t, navigation.SearchSubjects, n.Current())
	assert.True(t, n.GoBack())
	assert.Equal(t, navigation.StudentDashboard, n.Current())
	assert.True(t, n.GoBack())
	assert.Equal(t, navigation.Login, n.Current())
	assert.False(t, n.GoBack())

	assert.Equal(t, []navigation.Change{
		{From: navigation.Login, To: navigation.StudentDashboard},
		{From: navigation.StudentDashboard, To: navigation.SearchSubjects},
		{From: navigation.SearchSubjects, To: navigation.QuizDetails},
		{From: navigation.QuizDetails, To: navigation.SearchSubjects},
		{From: navigation.SearchSubjects, To: navigation.StudentDashboard},
		{From: navigation.StudentDashboard, To: navigation.Login},
	}, changes)
}

func TestGoBackAlwaysEndsOnLogin(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []identity.Identity{student(), teacher()}

	for round := 0; round < 200; round++ {
		n, h := newNavigator()
		if round%3 != 0 {
			h.Set(ids[round%2])
		}
		for i := 0; i < rng.Intn(30); i++ {
			target := navigation.AllStates[rng.Intn(len(navigation.AllStates))]
			_ = n.NavigateTo(target)
		}

		for steps := 0; n.GoBack(); steps++ {
			require.Less(t, steps, 100, "back-stack never drained")
		}

		assert.Equal(t, navigation.Login, n.Current(), "round %d", round)
		assert.False(t, n.GoBack())
		assert.GreaterOrEqual(t, n.Snapshot().Depth, 0)
	}
}

func TestOnUserLoggedIn(t *testing.T) {
	t.Run("Student", func(t *testing.T) {
		n, h := newNavigator()
		require.NoError(t, n.OnUserLoggedIn(student()))
		assert.Equal(t, navigation.StudentDashboard, n.Current())
		assert.True(t, h.IsStudent())
	})

	t.Run("Teacher", func(t *testing.T) {
		n, _ := newNavigator()
		require.NoError(t, n.OnUserLoggedIn(teacher()))
		assert.Equal(t, navigation.TeacherDashboard, n.Current())
	})

	t.Run("AdminStaysOnLogin", func(t *testing.T) {
		n, h := newNavigator()
		err := n.OnUserLoggedIn(identity.Identity{UserID: uuid.New(), Role: identity.RoleAdmin})
		assert.ErrorIs(t, err, apperr.ErrUnknownRole)
		assert.Equal(t, navigation.Login, n.Current())
		assert.True(t, h.IsLoggedIn())
	})
}

func TestLogout(t *testing.T) {
	n, h := newNavigator()
	var last navigation.Change
	n.Subscribe(func(c navigation.Change) { last = c })

	require.NoError(t, n.OnUserLoggedIn(teacher()))
	require.NoError(t, n.NavigateTo(navigation.CreateQuiz))

	n.Logout()

	assert.Equal(t, navigation.Login, n.Current())
	assert.False(t, h.IsLoggedIn())
	assert.Equal(t, 0, n.Snapshot().Depth)
	assert.False(t, n.GoBack())
	assert.Equal(t, navigation.Change{From: navigation.CreateQuiz, To: navigation.Login}, last)
}

func TestUnsubscribe(t *testing.T) {
	n, _ := newNavigator()
	calls := 0
	unsubscribe := n.Subscribe(func(navigation.Change) { calls++ })

	require.NoError(t, n.NavigateTo(navigation.Register))
	unsubscribe()
	require.NoError(t, n.NavigateTo(navigation.Login))

	assert.Equal(t, 1, calls)
}

func TestStateJSON(t *testing.T) {
	b, err := json.Marshal(navigation.QuizDetails)
	require.NoError(t, err)
	assert.JSONEq(t, `"QuizDetails"`, string(b))

	var s navigation.State
	require.NoError(t, json.Unmarshal([]byte(`"joinclass"`), &s))
	assert.Equal(t, navigation.JoinClass, s)

	assert.Error(t, json.Unmarshal([]byte(`"Settings"`), &s))
	assert.Equal(t, "State(42)", navigation.State(42).String())
}

func TestLoginOfAnotherAccountDropsHistory(t *testing.T) {
	n, h := newNavigator()
	var changes []navigation.Change
	n.Subscribe(func(c navigation.Change) { changes = append(changes, c) })

	require.NoError(t, n.OnUserLoggedIn(teacher()))
	require.NoError(t, n.NavigateTo(navigation.CreateQuiz))

	require.NoError(t, n.OnUserLoggedIn(student()))
	assert.Equal(t, navigation.StudentDashboard, n.Current())
	assert.Equal(t, 1, n.Snapshot().Depth)

	assert.True(t, n.GoBack())
	assert.Equal(t, navigation.Login, n.Current())
	assert.True(t, h.IsStudent())
	assert.False(t, n.GoBack())

	assert.Equal(t, []navigation.Change{
		{From: navigation.Login, To: navigation.TeacherDashboard},
		{From: navigation.TeacherDashboard, To: navigation.CreateQuiz},
		{From: navigation.CreateQuiz, To: navigation.Login},
		{From: navigation.Login, To: navigation.StudentDashboard},
		{From: navigation.StudentDashboard, To: navigation.Login},
	}, changes)
}

func TestSameAccountLoginKeepsHistory(t *testing.T) {
	n, _ := newNavigator()
	ana := student()

	require.NoError(t, n.OnUserLoggedIn(ana))
	require.NoError(t, n.NavigateTo(navigation.SearchSubjects))
	require.NoError(t, n.OnUserLoggedIn(ana))

	assert.Equal(t, navigation.StudentDashboard, n.Current())
	assert.True(t, n.GoBack())
	assert.Equal(t, navigation.SearchSubjects, n.Current())
}

func TestGoBackSkipsScreensTheIdentityCannotOpen(t *testing.T) {
	n, h := newNavigator()
	bob := teacher()
	require.NoError(t, n.OnUserLoggedIn(bob))
	require.NoError(t, n.NavigateTo(navigation.CreateQuiz))
	require.NoError(t, n.NavigateTo(navigation.SearchSubjects))

	// The identity changes without a login, e.g. a demoted account.
	h.Set(identity.Identity{UserID: bob.UserID, Username: bob.Username, Role: identity.RoleStudent})

	assert.True(t, n.GoBack())
	assert.Equal(t, navigation.Login, n.Current())
	assert.Equal(t, 0, n.Snapshot().Depth)
}
