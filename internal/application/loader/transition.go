package loader

import (
	"context"

	"github.com/younwookim/scenes/internal/domain/scene"
)

// Transition is a handle on a transition started in the background.
// Callers may wait on it or drop it.
type Transition struct {
	target scene.Ref
	done   chan struct{}
	err    error
}

func newTransition(target scene.Ref) *Transition {
	return &Transition{
		target: target,
		done:   make(chan struct{}),
	}
}

// Target returns the active scene of the group being loaded
func (t *Transition) Target() scene.Ref {
	return t.target
}

// Done is closed once the transition has finished
func (t *Transition) Done() <-chan struct{} {
	return t.done
}

// Err returns the transition result. It is nil until Done is closed.
func (t *Transition) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the transition finishes or ctx is done.
// Giving up on the wait does not stop the transition.
func (t *Transition) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Transition) finish(err error) {
	t.err = err
	close(t.done)
}
