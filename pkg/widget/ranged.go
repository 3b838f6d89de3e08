package widget

import "github.com/vango-dev/observer/pkg/object"

// ranged is the value model shared by sliders and arcs.
type ranged struct {
	obj      *object.Object
	min, max int32
	value    int32
}

func (r *ranged) clamp(v int32) int32 {
	if v < r.min {
		return r.min
	}
	if v > r.max {
		return r.max
	}
	return v
}

// SetRange sets the bounds and clamps the current value into them.
// Swapped bounds are put in order.
func (r *ranged) SetRange(min, max int32) {
	if min > max {
		min, max = max, min
	}
	r.min, r.max = min, max
	r.value = r.clamp(r.value)
}

// SetValue sets the value, clamped to the range, without sending an event.
func (r *ranged) SetValue(v int32) {
	r.value = r.clamp(v)
}

// Value returns the current value.
func (r *ranged) Value() int32 { return r.value }

// Min returns the lower bound.
func (r *ranged) Min() int32 { return r.min }

// Max returns the upper bound.
func (r *ranged) Max() int32 { return r.max }

// Drag moves the value as a user would and sends EventValueChanged if it
// changed. Deleted and disabled controls ignore it.
func (r *ranged) Drag(v int32) {
	if r.obj.Deleted() || r.obj.HasState(object.StateDisabled) {
		return
	}
	old := r.value
	r.value = r.clamp(v)
	if r.value != old {
		r.obj.Send(object.EventValueChanged)
	}
}

// Slider is a linear control over an integer range, 0..100 by default.
type Slider struct {
	*object.Object
	ranged
}

// NewSlider creates a slider under parent.
func NewSlider(name string, parent *object.Object) *Slider {
	s := &Slider{Object: object.New(name, parent)}
	s.ranged = ranged{obj: s.Object, min: 0, max: 100}
	return s
}

// Arc is a circular control over an integer range, 0..100 by default.
type Arc struct {
	*object.Object
	ranged
}

// NewArc creates an arc under parent.
func NewArc(name string, parent *object.Object) *Arc {
	a := &Arc{Object: object.New(name, parent)}
	a.ranged = ranged{obj: a.Object, min: 0, max: 100}
	return a
}
