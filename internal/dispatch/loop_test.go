package dispatch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saulo-duarte/quizard/internal/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRunsInOrder(t *testing.T) {
	l := dispatch.NewLoop(8)
	defer l.Close()

	var seen []int
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, l.Post(func() { seen = append(seen, i) }))
	}

	var got []int
	require.NoError(t, l.Call(func() { got = append(got, seen...) }))
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestPanicDoesNotStopLoop(t *testing.T) {
	l := dispatch.NewLoop(1)
	defer l.Close()

	l.Post(func() { panic("boom") })
	ran := false
	require.NoError(t, l.Call(func() { ran = true }))
	assert.True(t, ran)
}

func TestLoadAppliesOnLoop(t *testing.T) {
	l := dispatch.NewLoop(1)
	defer l.Close()

	done := make(chan struct{})
	var applied string
	dispatch.Load(context.Background(), l,
		func(context.Context) (string, error) { return "screen", nil },
		func(v string, err error) {
			assert.NoError(t, err)
			applied = v
			close(done)
		})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("apply never ran")
	}
	var got string
	require.NoError(t, l.Call(func() { got = applied }))
	assert.Equal(t, "screen", got)
}

func TestLoadRecoversPanics(t *testing.T) {
	l := dispatch.NewLoop(1)
	defer l.Close()

	errs := make(chan error, 1)
	dispatch.Load(context.Background(), l,
		func(context.Context) (int, error) { panic("db gone") },
		func(_ int, err error) { errs <- err })

	select {
	case err := <-errs:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db gone")
	case <-time.After(2 * time.Second):
		t.Fatal("apply never ran")
	}
}

func TestLoadPassesErrors(t *testing.T) {
	l := dispatch.NewLoop(1)
	defer l.Close()

	boom := errors.New("boom")
	errs := make(chan error, 1)
	dispatch.Load(context.Background(), l,
		func(context.Context) (int, error) { return 0, boom },
		func(_ int, err error) { errs <- err })

	assert.ErrorIs(t, <-errs, boom)
}

func TestClosedLoopRejectsWork(t *testing.T) {
	l := dispatch.NewLoop(0)
	l.Close()
	l.Close()

	var calls int32
	assert.False(t, l.Post(func() { atomic.AddInt32(&calls, 1) }))
	assert.ErrorIs(t, l.Call(func() {}), dispatch.ErrClosed)
	assert.Zero(t, atomic.LoadInt32(&calls))
}
