// Package loop provides the page's single logical thread.
//
// Every read or mutation of the document happens inside a task run by Loop.
// Work that has to wait on something slow (a clipboard write) leaves the loop
// in its own goroutine and posts its continuation back with Post. Timers fire
// the same way, so callbacks never race with event handlers.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrClosed is returned when work is submitted to a loop that has stopped.
var ErrClosed = errors.New("event loop closed")

const queueSize = 256

// Loop runs queued tasks one at a time, in submission order.
type Loop struct {
	clock Clock
	tasks chan func()
	done  chan struct{}

	closeOnce sync.Once
}

// New returns a stopped loop. Call Run to start processing.
func New(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		clock: clock,
		tasks: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Clock returns the clock timers are scheduled on.
func (l *Loop) Clock() Clock { return l.clock }

// Run processes tasks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) {
	defer l.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

func (l *Loop) run(task func()) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("event loop task panicked", "panic", p)
		}
	}()
	task()
}

// Close stops the loop. Queued tasks that have not started are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Done is closed once the loop has stopped.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Post queues task. It returns ErrClosed if the loop has stopped.
// Post blocks while the queue is full; it must not be called from a task
// when the queue may be saturated, so tasks use Go for slow work instead.
func (l *Loop) Post(task func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.tasks <- task:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Do runs task on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, task func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		task()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// Go runs slow off the loop, then posts its continuation back onto it.
// slow must not touch the document. When the loop has stopped the
// continuation is discarded and dropped, if non-nil, runs off the loop.
func (l *Loop) Go(slow func() func(), dropped func()) {
	go func() {
		then := slow()
		if then == nil {
			return
		}
		if err := l.Post(then); err != nil {
			slog.Debug("dropping continuation", "err", err)
			if dropped != nil {
				dropped()
			}
		}
	}()
}

// Timer is a cancellable callback scheduled on the loop.
type Timer struct {
	l       *Loop
	stopper Stopper

	// stopped is only touched on the loop, so a callback that was already
	// queued when Stop ran is still suppressed.
	stopped bool
	fired   bool
}

// AfterFunc schedules f to run on the loop after d. It must be called from
// a loop task.
func (l *Loop) AfterFunc(d time.Duration, f func()) *Timer {
	t := &Timer{l: l}
	t.stopper = l.clock.AfterFunc(d, func() {
		_ = l.Post(func() {
			if t.stopped {
				return
			}
			t.fired = true
			f()
		})
	})
	return t
}

// Stop cancels the timer. It must be called from a loop task. It reports
// whether the callback was prevented from running.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.stopper.Stop()
	return true
}

// Pending reports whether the callback has neither run nor been stopped.
func (t *Timer) Pending() bool {
	return t != nil && !t.stopped && !t.fired
}
