package subject

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	obserrors "github.com/vango-dev/observer/internal/errors"
)

// DefaultMaxNotifyDepth bounds nested notifications of a single subject.
const DefaultMaxNotifyDepth = 32

// NotifyStats describes one Notify call.
type NotifyStats struct {
	// Delivered is the number of callback invocations.
	Delivered int
	// Restarts counts how often the walk restarted after a removal.
	Restarts int
	// Depth is the nesting level of this call on its subject (1 = outermost).
	Depth int
	// Duration is the wall time spent delivering.
	Duration time.Duration
	// Dropped is set when the call was refused by the depth guard.
	Dropped bool
}

// Recorder receives engine instrumentation. Implementations must be cheap;
// they run inline on the UI goroutine.
type Recorder interface {
	// ObserverAdded is called after an observer joined a subject's list.
	ObserverAdded(k Kind)
	// ObserverRemoved is called after an observer left a subject's list.
	ObserverRemoved(k Kind)
	// NotifyStart is called when a Notify begins. The returned function is
	// called once with the call's statistics when it ends.
	NotifyStart(s *Subject) func(NotifyStats)
	// Problem is called for every reported misuse. err wraps one of the
	// package's sentinel errors when one applies.
	Problem(code string, err error)
}

// Options configures the package-wide ambient behaviour.
type Options struct {
	// Logger receives warnings about misuse. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Recorder receives instrumentation. Nil disables it.
	Recorder Recorder

	// MaxNotifyDepth limits how deeply one subject may be notified from
	// inside its own notification. Zero uses DefaultMaxNotifyDepth;
	// a negative value disables the guard.
	MaxNotifyDepth int
}

type settings struct {
	logger   *slog.Logger
	recorder Recorder
	maxDepth int
}

var current atomic.Pointer[settings]

func init() {
	Configure(Options{})
}

// Configure replaces the package-wide options. Call it at startup, before
// subjects are in use.
func Configure(opts Options) {
	st := &settings{
		logger:   opts.Logger,
		recorder: opts.Recorder,
		maxDepth: opts.MaxNotifyDepth,
	}
	if st.logger == nil {
		st.logger = slog.Default()
	}
	if st.maxDepth == 0 {
		st.maxDepth = DefaultMaxNotifyDepth
	}
	current.Store(st)
}

// SetLogger replaces only the logger.
func SetLogger(l *slog.Logger) {
	st := *current.Load()
	st.logger = l
	if st.logger == nil {
		st.logger = slog.Default()
	}
	current.Store(&st)
}

// SetRecorder replaces only the recorder. Nil disables instrumentation.
func SetRecorder(r Recorder) {
	st := *current.Load()
	st.recorder = r
	current.Store(&st)
}

// Logger returns the logger the engine reports through.
func Logger() *slog.Logger {
	return current.Load().logger
}

// Report logs a registered problem code at warning level and forwards it
// to the recorder. Binding adapters and tools use it to report misuse the
// same way the engine does.
func Report(code, op string, cause error, attrs ...any) {
	report(slog.LevelWarn, code, op, cause, attrs...)
}

func report(level slog.Level, code, op string, cause error, attrs ...any) {
	st := current.Load()
	oe := obserrors.New(code).WithOp(op)
	if cause != nil {
		oe.Wrap(cause)
	}

	args := make([]any, 0, len(attrs)+4)
	args = append(args, slog.String("code", code))
	if op != "" {
		args = append(args, slog.String("op", op))
	}
	args = append(args, attrs...)
	st.logger.Log(context.Background(), level, oe.Message, args...)

	if st.recorder != nil {
		st.recorder.Problem(code, oe)
	}
}

// MultiRecorder fans instrumentation out to several recorders.
func MultiRecorder(recorders ...Recorder) Recorder {
	var list multiRecorder
	for _, r := range recorders {
		if r != nil {
			list = append(list, r)
		}
	}
	return list
}

type multiRecorder []Recorder

func (m multiRecorder) ObserverAdded(k Kind) {
	for _, r := range m {
		r.ObserverAdded(k)
	}
}

func (m multiRecorder) ObserverRemoved(k Kind) {
	for _, r := range m {
		r.ObserverRemoved(k)
	}
}

func (m multiRecorder) NotifyStart(s *Subject) func(NotifyStats) {
	ends := make([]func(NotifyStats), 0, len(m))
	for _, r := range m {
		if end := r.NotifyStart(s); end != nil {
			ends = append(ends, end)
		}
	}
	return func(stats NotifyStats) {
		for _, end := range ends {
			end(stats)
		}
	}
}

func (m multiRecorder) Problem(code string, err error) {
	for _, r := range m {
		r.Problem(code, err)
	}
}
