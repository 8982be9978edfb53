package presenter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/dispatch"
	"github.com/saulo-duarte/quizard/internal/identity"
	"github.com/saulo-duarte/quizard/internal/navigation"
	"github.com/saulo-duarte/quizard/internal/presenter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBuilder struct {
	mu    sync.Mutex
	fail  map[navigation.State]error
	gates map[navigation.State]chan struct{}
}

func newStubBuilder() *stubBuilder {
	return &stubBuilder{
		fail:  make(map[navigation.State]error),
		gates: make(map[navigation.State]chan struct{}),
	}
}

func (b *stubBuilder) Build(ctx context.Context, state navigation.State) (presenter.Screen, error) {
	b.mu.Lock()
	gate := b.gates[state]
	err := b.fail[state]
	b.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return presenter.Screen{}, err
	}
	return presenter.Screen{Title: state.String()}, nil
}

func (b *stubBuilder) failOn(s navigation.State, err error) {
	b.mu.Lock()
	b.fail[s] = err
	b.mu.Unlock()
}

func (b *stubBuilder) hold(s navigation.State) chan struct{} {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gates[s] = gate
	b.mu.Unlock()
	return gate
}

type rig struct {
	nav     *navigation.Navigator
	builder *stubBuilder
	p       *presenter.Presenter
}

func newRig(t *testing.T) *rig {
	loop := dispatch.NewLoop(16)
	nav := navigation.NewNavigator(identity.NewHolder())
	builder := newStubBuilder()
	p := presenter.New(loop, nav, builder)
	t.Cleanup(func() {
		p.Close()
		loop.Close()
	})
	return &rig{nav: nav, builder: builder, p: p}
}

func (r *rig) settled(t *testing.T, state navigation.State) presenter.View {
	t.Helper()
	var v presenter.View
	require.Eventually(t, func() bool {
		v = r.p.View()
		return v.State == state && !v.Loading
	}, 2*time.Second, 5*time.Millisecond)
	return v
}

func student() identity.Identity {
	return identity.Identity{UserID: uuid.New(), Username: "ana", Role: identity.RoleStudent}
}

func TestInitialViewIsLogin(t *testing.T) {
	r := newRig(t)
	v := r.settled(t, navigation.Login)
	require.NotNil(t, v.Screen)
	assert.Equal(t, "Login", v.Screen.Title)
	assert.Empty(t, v.StatusMessage)
}

func TestNavigationRebuildsScreen(t *testing.T) {
	r := newRig(t)
	r.settled(t, navigation.Login)

	require.NoError(t, r.nav.OnUserLoggedIn(student()))
	v := r.settled(t, navigation.StudentDashboard)
	assert.Equal(t, "StudentDashboard", v.Screen.Title)

	require.NoError(t, r.nav.NavigateTo(navigation.ViewResults))
	v = r.settled(t, navigation.ViewResults)
	assert.Equal(t, "ViewResults", v.Screen.Title)

	require.True(t, r.nav.GoBack())
	v = r.settled(t, navigation.StudentDashboard)
	assert.Equal(t, "StudentDashboard", v.Screen.Title)
}

func TestFailedBuildKeepsPreviousScreen(t *testing.T) {
	r := newRig(t)
	r.builder.failOn(navigation.ViewResults, apperr.NotFound("results unavailable"))
	require.NoError(t, r.nav.OnUserLoggedIn(student()))
	r.settled(t, navigation.StudentDashboard)

	require.NoError(t, r.nav.NavigateTo(navigation.ViewResults))
	v := r.settled(t, navigation.ViewResults)
	assert.Equal(t, "Error: results unavailable", v.StatusMessage)
	require.NotNil(t, v.Screen)
	assert.Equal(t, "StudentDashboard", v.Screen.Title)
}

func TestLoadingIsPublishedBeforeScreen(t *testing.T) {
	r := newRig(t)
	r.settled(t, navigation.Login)

	var mu sync.Mutex
	var seen []presenter.View
	r.p.OnView(func(v presenter.View) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	gate := r.builder.hold(navigation.StudentDashboard)
	require.NoError(t, r.nav.OnUserLoggedIn(student()))
	require.Eventually(t, func() bool {
		v := r.p.View()
		return v.State == navigation.StudentDashboard && v.Loading
	}, 2*time.Second, 5*time.Millisecond)
	close(gate)
	r.settled(t, navigation.StudentDashboard)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
	assert.Equal(t, "StudentDashboard", seen[1].Screen.Title)
}

func TestStaleBuildIsDiscarded(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.nav.OnUserLoggedIn(student()))
	r.settled(t, navigation.StudentDashboard)

	gate := r.builder.hold(navigation.ViewResults)
	require.NoError(t, r.nav.NavigateTo(navigation.ViewResults))
	require.NoError(t, r.nav.NavigateTo(navigation.SearchSubjects))
	r.settled(t, navigation.SearchSubjects)

	close(gate)
	time.Sleep(20 * time.Millisecond)
	v := r.p.View()
	assert.Equal(t, navigation.SearchSubjects, v.State)
	assert.Equal(t, "SearchSubjects", v.Screen.Title)
}

func TestRefreshRebuildsCurrentState(t *testing.T) {
	r := newRig(t)
	r.settled(t, navigation.Login)

	r.builder.failOn(navigation.Login, apperr.InvalidState("offline"))
	r.p.Refresh()
	require.Eventually(t, func() bool {
		return r.p.View().StatusMessage == "Error: offline"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestChangesDuringStartupArePresented(t *testing.T) {
	loop := dispatch.NewLoop(16)
	nav := navigation.NewNavigator(identity.NewHolder())
	gate := make(chan struct{})
	require.True(t, loop.Post(func() { <-gate }))

	p := presenter.New(loop, nav, newStubBuilder())
	t.Cleanup(func() {
		p.Close()
		loop.Close()
	})
	require.NoError(t, nav.OnUserLoggedIn(student()))
	close(gate)

	r := &rig{nav: nav, p: p}
	v := r.settled(t, navigation.StudentDashboard)
	require.NotNil(t, v.Screen)
	assert.Equal(t, "StudentDashboard", v.Screen.Title)
}
