package session

import (
	"context"
	"sync"
	"time"
)

// Cancel stops scheduled callback, it reports whether callback was
// prevented from running.
type Cancel func() bool

// Scheduler runs callbacks after delay. Callbacks must be delivered on the
// same goroutine which drives Session.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Cancel
}

// Dispatcher serializes everything touching Session: learner actions are
// posted by input goroutines, timer callbacks are posted by timers. Run
// executes posted functions one at a time.
type Dispatcher struct {
	events   chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewDispatcher returns dispatcher with queue of given size.
func NewDispatcher(queue int) *Dispatcher {
	return &Dispatcher{
		events: make(chan func(), queue),
		done:   make(chan struct{}),
	}
}

// Post queues fn for execution. It returns false when dispatcher is stopped.
func (d *Dispatcher) Post(fn func()) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.events <- fn:
		return true
	case <-d.done:
		return false
	}
}

// Do queues fn and waits for it to finish.
func (d *Dispatcher) Do(fn func()) bool {
	finished := make(chan struct{})
	if !d.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-d.done:
		return false
	}
}

// AfterFunc implements Scheduler, fn is posted into dispatcher queue when
// timer fires.
func (d *Dispatcher) AfterFunc(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, func() { d.Post(fn) })
	return t.Stop
}

// Run executes posted functions until context is canceled or Stop is called.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.Stop()
			return ctx.Err()
		case <-d.done:
			return nil
		case fn := <-d.events:
			fn()
		}
	}
}

// Stop makes Run return, functions still in the queue are dropped.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.done) })
}
