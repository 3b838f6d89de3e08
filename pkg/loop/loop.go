// Package loop runs work on the one goroutine that owns the subjects.
//
// Subjects and objects are not safe for concurrent use. Network handlers,
// the REPL and timers hand their work to a Loop instead of touching them
// directly:
//
//	l := loop.New(loop.Config{})
//	go l.Run(ctx)
//	err := l.Call(ctx, func() { temperature.SetInt(21) })
package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ErrStopped is returned when work is handed to a loop that has stopped.
var ErrStopped = errors.New("loop: stopped")

// ErrQueueFull is returned when the dispatch queue has no room.
var ErrQueueFull = errors.New("loop: queue full")

// DefaultQueueSize is the dispatch queue capacity used when Config leaves
// it at zero.
const DefaultQueueSize = 256

// Config configures a Loop.
type Config struct {
	// QueueSize bounds the number of pending callbacks.
	QueueSize int

	// Logger receives panics recovered from callbacks.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Loop serialises callbacks onto the goroutine that calls Run.
type Loop struct {
	queue  chan func()
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger

	running atomic.Bool
	stopped atomic.Bool
	handled atomic.Uint64
}

// New creates a loop. It does nothing until Run is called.
func New(cfg Config) *Loop {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loop{
		queue:  make(chan func(), cfg.QueueSize),
		done:   make(chan struct{}),
		logger: cfg.Logger,
	}
}

// Run executes queued callbacks until ctx is done or Stop is called.
// Callbacks still queued at that point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("loop: already running")
	}
	defer l.running.Store(false)

	for {
		select {
		case fn := <-l.queue:
			l.execute(fn)

		case <-ctx.Done():
			l.Stop()
			return ctx.Err()

		case <-l.done:
			return nil
		}
	}
}

// execute runs fn, recovering and logging a panic so one bad callback
// does not end the loop.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
	l.handled.Add(1)
}

// Dispatch queues fn without waiting. It is safe to call from any
// goroutine, including the loop's own.
func (l *Loop) Dispatch(fn func()) error {
	if fn == nil {
		return nil
	}
	if l.stopped.Load() {
		return ErrStopped
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	default:
		l.logger.Warn("dispatch queue full, discarding callback")
		return ErrQueueFull
	}
}

// Call queues fn and waits until it ran or ctx is done. It must not be
// called from the loop goroutine itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	if fn == nil {
		return nil
	}
	ran := make(chan struct{})
	var panicked any
	wrapped := func() {
		defer close(ran)
		defer func() {
			if r := recover(); r != nil {
				panicked = r
				panic(r)
			}
		}()
		fn()
	}
	if l.stopped.Load() {
		return ErrStopped
	}
	select {
	case l.queue <- wrapped:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ran:
		if panicked != nil {
			return errors.New("loop: callback panicked")
		}
		return nil
	case <-l.done:
		// The callback may have been dequeued just before Stop.
		select {
		case <-ran:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends Run. It is safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() {
		l.stopped.Store(true)
		close(l.done)
	})
}

// Done is closed when the loop is stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Handled returns the number of callbacks that completed without panicking.
func (l *Loop) Handled() uint64 {
	return l.handled.Load()
}
