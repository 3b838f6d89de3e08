package object

import "reflect"

// Flag is a bit in an object's behaviour bit field.
type Flag uint32

const (
	FlagHidden Flag = 1 << iota
	FlagClickable
	FlagCheckable
	FlagScrollable
	FlagFloating
	FlagIgnoreLayout
)

// State is a bit in an object's interaction state bit field.
type State uint16

// StateDefault is the empty state.
const StateDefault State = 0

const (
	StateChecked State = 1 << iota
	StateFocused
	StatePressed
	StateHovered
	StateEdited
	StateDisabled
)

// Object is a node in the retained object tree.
type Object struct {
	name     string
	parent   *Object
	children []*Object

	flags  Flag
	state  State
	styles []*styleEntry

	hooks []*EventHook

	deleting bool
	deleted  bool
}

// New creates an object and appends it to parent's children.
// A nil parent creates a root (a screen).
func New(name string, parent *Object) *Object {
	o := &Object{
		name:  name,
		flags: FlagClickable,
	}
	if parent != nil && !parent.deleted {
		o.parent = parent
		parent.children = append(parent.children, o)
	}
	return o
}

// Name returns the object's name.
func (o *Object) Name() string { return o.name }

// Parent returns the parent object, or nil for a root.
func (o *Object) Parent() *Object { return o.parent }

// Children returns a copy of the child list.
func (o *Object) Children() []*Object {
	return append([]*Object(nil), o.children...)
}

// Find returns the first descendant (depth first, self included) with the
// given name.
func (o *Object) Find(name string) *Object {
	if o.name == name {
		return o
	}
	for _, c := range o.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Deleted reports whether Delete has completed for this object.
func (o *Object) Deleted() bool { return o.deleted }

// AddFlag sets flag bits.
func (o *Object) AddFlag(f Flag) { o.flags |= f }

// RemoveFlag clears flag bits.
func (o *Object) RemoveFlag(f Flag) { o.flags &^= f }

// HasFlag reports whether all bits of f are set.
func (o *Object) HasFlag(f Flag) bool { return o.flags&f == f }

// Flags returns the whole flag bit field.
func (o *Object) Flags() Flag { return o.flags }

// AddState sets state bits.
func (o *Object) AddState(s State) { o.state |= s }

// RemoveState clears state bits.
func (o *Object) RemoveState(s State) { o.state &^= s }

// HasState reports whether all bits of s are set.
func (o *Object) HasState(s State) bool { return o.state&s == s }

// States returns the whole state bit field.
func (o *Object) States() State { return o.state }

// AddEventHook attaches fn for events with the given code. The returned
// handle identifies the hook for RemoveEventHook. An object that is deleted,
// or still dispatching its EventDelete, accepts no hooks and returns nil.
func (o *Object) AddEventHook(code EventCode, fn EventFunc, data any) *EventHook {
	if o.deleted || o.deleting || fn == nil {
		return nil
	}
	h := &EventHook{code: code, fn: fn, data: data}
	o.hooks = append(o.hooks, h)
	return h
}

// RemoveEventHook detaches a hook by handle.
// Returns false when the hook is not attached to this object.
func (o *Object) RemoveEventHook(h *EventHook) bool {
	if h == nil {
		return false
	}
	for i, existing := range o.hooks {
		if existing == h {
			o.hooks = append(o.hooks[:i], o.hooks[i+1:]...)
			h.removed = true
			return true
		}
	}
	return false
}

// RemoveEventHooksWithData detaches every hook whose payload is data and
// returns how many were removed. Payloads of an uncomparable type (slices,
// maps, funcs) never match.
func (o *Object) RemoveEventHooksWithData(data any) int {
	if data == nil || !reflect.TypeOf(data).Comparable() {
		return 0
	}
	n := 0
	kept := o.hooks[:0]
	for _, h := range o.hooks {
		if h.data == data {
			h.removed = true
			n++
			continue
		}
		kept = append(kept, h)
	}
	for i := len(kept); i < len(o.hooks); i++ {
		o.hooks[i] = nil
	}
	o.hooks = kept
	return n
}

// EventHooks returns the attached hooks in registration order.
func (o *Object) EventHooks() []*EventHook {
	return append([]*EventHook(nil), o.hooks...)
}

// Send dispatches an event to the matching hooks in registration order.
// Hooks removed by an earlier hook in the same dispatch do not run, and
// dispatch stops early if a hook deletes the object.
func (o *Object) Send(code EventCode) {
	if o.deleted {
		return
	}
	hooks := o.EventHooks()
	for _, h := range hooks {
		if h.removed {
			continue
		}
		if h.code != EventAll && h.code != code {
			continue
		}
		h.fn(&Event{code: code, target: o, current: o, hook: h})
		if o.deleted || (o.deleting && code != EventDelete) {
			return
		}
	}
}

// Click simulates a complete press/release cycle. Checkable objects toggle
// StateChecked and send EventValueChanged before EventClicked.
func (o *Object) Click() {
	if o.deleted || o.HasState(StateDisabled) {
		return
	}
	o.AddState(StatePressed)
	o.Send(EventPressed)
	if o.deleted {
		return
	}
	o.RemoveState(StatePressed)
	o.Send(EventReleased)
	if o.deleted {
		return
	}
	if o.HasFlag(FlagCheckable) {
		if o.HasState(StateChecked) {
			o.RemoveState(StateChecked)
		} else {
			o.AddState(StateChecked)
		}
		o.Send(EventValueChanged)
		if o.deleted {
			return
		}
	}
	o.Send(EventClicked)
}

// Delete sends EventDelete, deletes the children and detaches the object
// from its parent. Calling Delete again is a no-op.
func (o *Object) Delete() {
	if o.deleted || o.deleting {
		return
	}
	o.deleting = true

	o.Send(EventDelete)

	children := o.Children()
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Delete()
	}

	if o.parent != nil {
		o.parent.removeChild(o)
		o.parent = nil
	}

	for _, h := range o.hooks {
		h.removed = true
	}
	o.hooks = nil
	o.deleted = true
	o.deleting = false
}

func (o *Object) removeChild(child *Object) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}
