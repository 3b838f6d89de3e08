package subject

import (
	"log/slog"
	"time"

	obserrors "github.com/vango-dev/observer/internal/errors"
)

// Notify delivers a change to every observer of s.
//
// Each observer that is attached when its turn comes is called at most
// once per Notify. When a callback removes an observer of s, the walk
// starts again from the head and skips everything already delivered.
// Removed observers are never called. Observers added during the walk may
// or may not be reached by this call.
//
// Nested Notify calls on the same subject are limited by
// Options.MaxNotifyDepth; calls beyond the limit are dropped and reported.
func (s *Subject) Notify() {
	if s == nil || s.kind == KindInvalid {
		return
	}
	st := current.Load()

	var end func(NotifyStats)
	if st.recorder != nil {
		end = st.recorder.NotifyStart(s)
	}

	if st.maxDepth > 0 && s.depth >= st.maxDepth {
		report(slog.LevelError, obserrors.CodeDepthExceeded, "subject.Notify", ErrDepthExceeded,
			slog.String("subject", s.name),
			slog.String("kind", s.kind.String()),
			slog.Int("depth", s.depth+1))
		if end != nil {
			end(NotifyStats{Depth: s.depth + 1, Dropped: true})
		}
		return
	}

	s.depth++
	stats := NotifyStats{Depth: s.depth}
	start := time.Now()
	defer func() {
		s.depth--
		if end != nil {
			stats.Duration = time.Since(start)
			end(stats)
		}
	}()

	// Generations only grow, so an observer already reached by a nested
	// Notify on s counts as delivered for this call too: it saw the newer
	// state.
	s.notifyGen++
	gen := s.notifyGen

	for {
		epoch := s.removalEpoch
		restarted := false
		for o := s.head; o != nil; o = o.next {
			if o.removed || o.notifiedGen >= gen {
				continue
			}
			// Marked before the call so a restart caused by this very
			// callback does not deliver to it again.
			o.notifiedGen = gen
			if o.cb != nil {
				o.cb(o, s)
				stats.Delivered++
			}
			if s.removalEpoch != epoch {
				restarted = true
				break
			}
		}
		if !restarted {
			return
		}
		stats.Restarts++
	}
}
