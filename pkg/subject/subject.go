package subject

import (
	"log/slog"

	obserrors "github.com/vango-dev/observer/internal/errors"
)

// payload is the storage shared by the current and previous value.
// Only the field selected by the subject's kind is meaningful.
type payload struct {
	num   int32
	flt   float32
	str   string
	ptr   any
	color Color
}

// Subject is a typed observable value cell.
//
// The zero value is an uninitialized subject: reads return defaults, writes
// are ignored and observers are refused until one of the Init methods runs.
// Subjects are caller-owned; embed them in structs or declare them as
// variables and pass pointers around.
type Subject struct {
	kind Kind
	name string

	value payload
	prev  payload

	// size is the byte capacity of a string subject, or the member count
	// of a group.
	size int

	// hasPrev is false for string subjects initialized without previous
	// value tracking.
	hasPrev bool

	members      []*Subject
	memberLinks  []*Observer
	head, tail   *Observer
	observerCnt  int
	notifyGen    uint64
	removalEpoch uint64
	depth        int
}

// reset removes any observers left from a previous life and prepares s
// for kind k.
func (s *Subject) reset(k Kind) {
	s.detachObservers()
	*s = Subject{
		kind:         k,
		name:         s.name,
		hasPrev:      true,
		notifyGen:    s.notifyGen,
		removalEpoch: s.removalEpoch,
		depth:        s.depth,
	}
}

// InitInt initializes an integer subject.
func (s *Subject) InitInt(v int32) {
	s.reset(KindInt)
	s.value.num = v
	s.prev.num = v
}

// InitFloat initializes a float subject.
func (s *Subject) InitFloat(v float32) {
	s.reset(KindFloat)
	s.value.flt = v
	s.prev.flt = v
}

// InitPointer initializes a pointer subject holding an arbitrary value.
func (s *Subject) InitPointer(v any) {
	s.reset(KindPointer)
	s.value.ptr = v
	s.prev.ptr = v
}

// InitColor initializes a color subject.
func (s *Subject) InitColor(c Color) {
	s.reset(KindColor)
	s.value.color = c
	s.prev.color = c
}

// Kind returns the subject's kind.
func (s *Subject) Kind() Kind {
	if s == nil {
		return KindInvalid
	}
	return s.kind
}

// Name returns the diagnostic name, empty unless SetName was called.
func (s *Subject) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// SetName attaches a diagnostic name used in logs, traces and the inspector.
// The name survives re-initialization.
func (s *Subject) SetName(name string) {
	s.name = name
}

// Size returns the byte capacity of a string subject or the member count
// of a group subject, and zero otherwise.
func (s *Subject) Size() int {
	if s == nil {
		return 0
	}
	return s.size
}

// ObserverCount returns the number of attached observers.
func (s *Subject) ObserverCount() int {
	if s == nil {
		return 0
	}
	return s.observerCnt
}

// SetInt stores a new integer value and notifies if it differs.
func (s *Subject) SetInt(v int32) {
	if !s.check("subject.SetInt", KindInt) {
		return
	}
	s.prev.num = s.value.num
	s.value.num = v
	s.notifyIfChanged()
}

// Int returns the current integer value, or 0 on a kind mismatch.
func (s *Subject) Int() int32 {
	if !s.check("subject.Int", KindInt) {
		return 0
	}
	return s.value.num
}

// PreviousInt returns the value held before the last SetInt.
func (s *Subject) PreviousInt() int32 {
	if !s.check("subject.PreviousInt", KindInt) {
		return 0
	}
	return s.prev.num
}

// SetFloat stores a new float value and notifies if it differs.
func (s *Subject) SetFloat(v float32) {
	if !s.check("subject.SetFloat", KindFloat) {
		return
	}
	s.prev.flt = s.value.flt
	s.value.flt = v
	s.notifyIfChanged()
}

// Float returns the current float value, or 0 on a kind mismatch.
func (s *Subject) Float() float32 {
	if !s.check("subject.Float", KindFloat) {
		return 0
	}
	return s.value.flt
}

// PreviousFloat returns the value held before the last SetFloat.
func (s *Subject) PreviousFloat() float32 {
	if !s.check("subject.PreviousFloat", KindFloat) {
		return 0
	}
	return s.prev.flt
}

// SetPointer stores a new pointer value. Pointer subjects always notify,
// even when v is the value already held.
func (s *Subject) SetPointer(v any) {
	if !s.check("subject.SetPointer", KindPointer) {
		return
	}
	s.prev.ptr = s.value.ptr
	s.value.ptr = v
	s.notifyIfChanged()
}

// Pointer returns the current pointer value, or nil on a kind mismatch.
func (s *Subject) Pointer() any {
	if !s.check("subject.Pointer", KindPointer) {
		return nil
	}
	return s.value.ptr
}

// PreviousPointer returns the value held before the last SetPointer.
func (s *Subject) PreviousPointer() any {
	if !s.check("subject.PreviousPointer", KindPointer) {
		return nil
	}
	return s.prev.ptr
}

// SetColor stores a new color and notifies if any component differs.
func (s *Subject) SetColor(c Color) {
	if !s.check("subject.SetColor", KindColor) {
		return
	}
	s.prev.color = s.value.color
	s.value.color = c
	s.notifyIfChanged()
}

// Color returns the current color, or Black on a kind mismatch.
func (s *Subject) Color() Color {
	if !s.check("subject.Color", KindColor) {
		return Black
	}
	return s.value.color
}

// PreviousColor returns the color held before the last SetColor.
func (s *Subject) PreviousColor() Color {
	if !s.check("subject.PreviousColor", KindColor) {
		return Black
	}
	return s.prev.color
}

// check validates the kind for an accessor and reports a mismatch.
func (s *Subject) check(op string, want Kind) bool {
	if s == nil {
		report(slog.LevelWarn, obserrors.CodeUninitialized, op, ErrUninitialized,
			slog.String("want", want.String()))
		return false
	}
	if s.kind != want {
		report(slog.LevelWarn, obserrors.CodeKindMismatch, op, ErrKindMismatch,
			slog.String("subject", s.name),
			slog.String("want", want.String()),
			slog.String("got", s.kind.String()))
		return false
	}
	return true
}

// notifyIfChanged applies the per-kind change policy.
func (s *Subject) notifyIfChanged() {
	switch s.kind {
	case KindInvalid, KindNone:
		return
	case KindInt:
		if s.value.num != s.prev.num {
			s.Notify()
		}
	case KindFloat:
		if s.value.flt != s.prev.flt {
			s.Notify()
		}
	case KindColor:
		if !s.value.color.Equal(s.prev.color) {
			s.Notify()
		}
	case KindString:
		if !s.hasPrev || s.value.str != s.prev.str {
			s.Notify()
		}
	case KindPointer, KindGroup:
		// Payloads cannot be compared meaningfully: always notify.
		s.Notify()
	}
}
