package subject

import (
	"log/slog"

	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/object"
)

// Func is an observer callback. It receives the observer and the subject
// that changed.
type Func func(o *Observer, s *Subject)

// Host is the part of the object system the lifetime bridge relies on:
// deletion hooks with a payload, removal by identity and enumeration.
// *object.Object implements it.
type Host interface {
	AddEventHook(code object.EventCode, fn object.EventFunc, data any) *object.EventHook
	RemoveEventHook(h *object.EventHook) bool
	RemoveEventHooksWithData(data any) int
	EventHooks() []*object.EventHook
}

var _ Host = (*object.Object)(nil)

// Observer is one registration of a callback on a Subject.
type Observer struct {
	subject  *Subject
	cb       Func
	target   any
	userData any
	release  func()

	// host is set for bridged observers; deleteHook is the hook installed
	// on it.
	host       Host
	deleteHook *object.EventHook

	prev, next  *Observer
	notifiedGen uint64
	removed     bool
}

// AddObserver registers cb on s without a target. cb runs once before
// AddObserver returns. It returns nil if s was never initialized.
func (s *Subject) AddObserver(cb Func, userData any) *Observer {
	return s.addObserver("subject.AddObserver", cb, nil, nil, userData)
}

// AddObserverObject registers cb on s and ties it to host: deleting host
// removes the observer. The observer's target is host.
func (s *Subject) AddObserverObject(cb Func, host Host, userData any) *Observer {
	if host == nil {
		return s.addObserver("subject.AddObserverObject", cb, nil, nil, userData)
	}
	return s.addObserver("subject.AddObserverObject", cb, host, host, userData)
}

// AddObserverWithTarget registers cb on s carrying an arbitrary target.
// The observer is not tied to the target's lifetime.
func (s *Subject) AddObserverWithTarget(cb Func, target any, userData any) *Observer {
	return s.addObserver("subject.AddObserverWithTarget", cb, target, nil, userData)
}

func (s *Subject) addObserver(op string, cb Func, target any, host Host, userData any) *Observer {
	if s == nil || s.kind == KindInvalid {
		report(slog.LevelWarn, obserrors.CodeUninitialized, op, ErrUninitialized,
			slog.String("subject", s.Name()))
		return nil
	}

	o := &Observer{subject: s, cb: cb, target: target, userData: userData}
	s.link(o)

	if host != nil {
		o.host = host
		o.deleteHook = host.AddEventHook(object.EventDelete, observerHostDeleted, o)
		if o.deleteHook == nil {
			report(slog.LevelWarn, obserrors.CodeTargetDeleted, op, ErrTargetDeleted,
				slog.String("subject", s.name))
			o.host = nil
			o.removed = true
			s.unlink(o)
			return nil
		}
	}

	if rec := current.Load().recorder; rec != nil {
		rec.ObserverAdded(s.kind)
	}

	// Catch-up delivery with the current value.
	if cb != nil {
		cb(o, s)
	}
	return o
}

func observerHostDeleted(e *object.Event) {
	if o, ok := e.Data().(*Observer); ok {
		o.Remove()
	}
}

// Remove detaches the observer from its subject. If it is bound to a host,
// its delete hook is removed along with any host hooks keyed by the
// subject. Remove is safe to call more than once and on nil.
func (o *Observer) Remove() {
	if o == nil || o.removed {
		return
	}
	o.removed = true
	s := o.subject

	if o.host != nil {
		if o.deleteHook != nil {
			o.host.RemoveEventHook(o.deleteHook)
			o.deleteHook = nil
		}
		o.host.RemoveEventHooksWithData(s)
	}

	if s != nil {
		// Any walk in progress on s restarts from the head.
		s.removalEpoch++
		s.unlink(o)
		if rec := current.Load().recorder; rec != nil {
			rec.ObserverRemoved(s.kind)
		}
	}

	if o.release != nil {
		release := o.release
		o.release = nil
		release()
	}
}

// Removed reports whether the observer has been detached.
func (o *Observer) Removed() bool {
	return o == nil || o.removed
}

// Subject returns the subject the observer is registered on.
func (o *Observer) Subject() *Subject {
	if o == nil {
		return nil
	}
	return o.subject
}

// Target returns the target supplied at registration (the host for
// AddObserverObject).
func (o *Observer) Target() any {
	if o == nil {
		return nil
	}
	return o.target
}

// TargetObject returns the target as an object, or nil if it is not one.
func (o *Observer) TargetObject() *object.Object {
	if o == nil {
		return nil
	}
	obj, _ := o.target.(*object.Object)
	return obj
}

// Bridged reports whether the observer is tied to a host's lifetime.
func (o *Observer) Bridged() bool {
	return o != nil && o.host != nil
}

// UserData returns the data supplied at registration or via
// SetOwnedUserData.
func (o *Observer) UserData() any {
	if o == nil {
		return nil
	}
	return o.userData
}

// SetOwnedUserData replaces the user data and registers release to run
// exactly once when the observer is removed, whichever path removes it.
// If a previous release was registered it runs now.
func (o *Observer) SetOwnedUserData(data any, release func()) {
	if o == nil {
		return
	}
	if o.release != nil {
		prev := o.release
		o.release = nil
		prev()
	}
	o.userData = data
	if o.removed {
		if release != nil {
			release()
		}
		return
	}
	o.release = release
}

// DetachAll removes the observers bound to host. If s is non-nil only
// observers on s are removed, together with the host hooks keyed by s.
func DetachAll(host Host, s *Subject) {
	if host == nil {
		return
	}
	hooks := host.EventHooks()
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if h.Removed() || h.Code() != object.EventDelete {
			continue
		}
		o, ok := h.Data().(*Observer)
		if !ok || o.deleteHook != h {
			continue
		}
		if s == nil || o.subject == s {
			o.Remove()
		}
	}
	if s != nil {
		host.RemoveEventHooksWithData(s)
	}
}

// Deinit removes every observer of s, including the ones a group subject
// holds on its members, and leaves s uninitialized.
func (s *Subject) Deinit() {
	if s == nil {
		return
	}
	s.reset(KindInvalid)
	s.hasPrev = false
}

func (s *Subject) detachObservers() {
	for _, link := range s.memberLinks {
		link.Remove()
	}
	s.memberLinks = nil
	for s.head != nil {
		s.head.Remove()
	}
}

func (s *Subject) link(o *Observer) {
	o.prev = s.tail
	o.next = nil
	if s.tail != nil {
		s.tail.next = o
	} else {
		s.head = o
	}
	s.tail = o
	s.observerCnt++
}

// unlink takes o out of the list. o keeps its next pointer so a walk that
// is currently positioned on o can still move forward.
func (s *Subject) unlink(o *Observer) {
	if o.prev != nil {
		o.prev.next = o.next
	} else if s.head == o {
		s.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else if s.tail == o {
		s.tail = o.prev
	}
	o.prev = nil
	s.observerCnt--
}
