package object

// EventCode identifies the kind of event sent to an object's hooks.
type EventCode uint8

const (
	// EventAll matches every event code when used to register a hook.
	EventAll EventCode = iota
	EventPressed
	EventReleased
	EventClicked
	// EventValueChanged is sent when user interaction changed the object's value.
	// Programmatic setters never send it.
	EventValueChanged
	// EventDelete is sent once, right before the object leaves the tree.
	EventDelete
)

// String returns a human-readable name for the event code.
func (c EventCode) String() string {
	switch c {
	case EventAll:
		return "all"
	case EventPressed:
		return "pressed"
	case EventReleased:
		return "released"
	case EventClicked:
		return "clicked"
	case EventValueChanged:
		return "value_changed"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseEventCode maps a name produced by String back to its code.
func ParseEventCode(name string) (EventCode, bool) {
	for c := EventAll; c <= EventDelete; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return EventAll, false
}

// EventFunc is the signature of an event hook.
type EventFunc func(e *Event)

// EventHook is a registered event callback. The pointer itself is the
// hook's identity; RemoveEventHook takes it back.
type EventHook struct {
	code    EventCode
	fn      EventFunc
	data    any
	removed bool
}

// Code returns the event code the hook listens for.
func (h *EventHook) Code() EventCode { return h.code }

// Data returns the payload supplied when the hook was attached.
func (h *EventHook) Data() any { return h.data }

// Removed reports whether the hook has been detached.
func (h *EventHook) Removed() bool { return h.removed }

// Event is passed to hooks while an event is being dispatched.
type Event struct {
	code    EventCode
	target  *Object
	current *Object
	hook    *EventHook
}

// Code returns the code being dispatched.
func (e *Event) Code() EventCode { return e.code }

// Target returns the object the event was originally sent to.
func (e *Event) Target() *Object { return e.target }

// Current returns the object whose hook is running.
func (e *Event) Current() *Object { return e.current }

// Data returns the payload of the hook that is running.
func (e *Event) Data() any {
	if e.hook == nil {
		return nil
	}
	return e.hook.data
}
