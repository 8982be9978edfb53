// Package dispatch runs presentation work on a single goroutine.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/saulo-duarte/quizard/internal/config"
)

var ErrClosed = errors.New("dispatch loop closed")

// Loop executes posted functions one at a time, in posting order.
type Loop struct {
	tasks   chan func()
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewLoop(buffer int) *Loop {
	l := &Loop{
		tasks:   make(chan func(), buffer),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.tasks:
			l.exec(fn)
		case <-l.quit:
			return
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			config.Logger().WithField("panic", r).Error("Recovered panic on dispatch loop")
		}
	}()
	fn()
}

// Post queues fn. It reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Call runs fn on the loop and waits for it. It must not be called from the loop itself.
func (l *Loop) Call(fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrClosed
	}
}

// Close stops the loop. Queued functions that have not started are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.quit) })
	<-l.stopped
}

// Load runs work on its own goroutine and posts apply with the outcome.
// A panic in work is reported to apply as an error.
func Load[T any](ctx context.Context, l *Loop, work func(ctx context.Context) (T, error), apply func(T, error)) {
	go func() {
		var (
			result T
			err    error
		)
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("background work panicked: %v", r)
				}
			}()
			result, err = work(ctx)
		}()
		l.Post(func() { apply(result, err) })
	}()
}
