// Package presenter turns navigation changes into renderable views.
package presenter

import (
	"context"
	"time"

	"github.com/saulo-duarte/quizard/internal/apperr"
	"github.com/saulo-duarte/quizard/internal/config"
	"github.com/saulo-duarte/quizard/internal/dispatch"
	"github.com/saulo-duarte/quizard/internal/navigation"
)

const buildTimeout = 10 * time.Second

type View struct {
	State         navigation.State `json:"state"`
	Loading       bool             `json:"loading"`
	StatusMessage string           `json:"status_message,omitempty"`
	Screen        *Screen          `json:"screen,omitempty"`
}

// Presenter owns the current view. Its fields are only touched on the loop.
// A failed build keeps the last screen and reports the error in StatusMessage.
type Presenter struct {
	loop        *dispatch.Loop
	builder     Builder
	unsubscribe func()

	view      View
	seq       uint64
	listeners []func(View)
}

func New(loop *dispatch.Loop, navigator *navigation.Navigator, builder Builder) *Presenter {
	p := &Presenter{loop: loop, builder: builder}
	p.unsubscribe = navigator.Subscribe(func(c navigation.Change) {
		loop.Post(func() { p.show(c.To) })
	})
	loop.Post(func() { p.show(navigator.Current()) })
	return p
}

// OnView registers fn to receive every published view, on the loop.
func (p *Presenter) OnView(fn func(View)) {
	p.loop.Post(func() { p.listeners = append(p.listeners, fn) })
}

// View returns a copy of the current view.
func (p *Presenter) View() View {
	var v View
	if err := p.loop.Call(func() { v = p.view }); err != nil {
		return View{}
	}
	return v
}

// Refresh rebuilds the screen of the current state.
func (p *Presenter) Refresh() {
	p.loop.Post(func() { p.show(p.view.State) })
}

func (p *Presenter) Close() {
	p.unsubscribe()
}

func (p *Presenter) show(state navigation.State) {
	p.seq++
	seq := p.seq
	p.view.State = state
	p.view.Loading = true
	p.view.StatusMessage = ""
	p.publish()

	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	dispatch.Load(ctx, p.loop,
		func(ctx context.Context) (Screen, error) {
			defer cancel()
			return p.builder.Build(ctx, state)
		},
		func(screen Screen, err error) {
			if seq != p.seq {
				return
			}
			p.view.Loading = false
			if err != nil {
				config.Logger().WithError(err).WithField("state", state.String()).Warn("Failed to build screen")
				p.view.StatusMessage = "Error: " + apperr.Message(err)
			} else {
				p.view.Screen = &screen
			}
			p.publish()
		})
}

func (p *Presenter) publish() {
	v := p.view
	for _, fn := range p.listeners {
		fn(v)
	}
}
