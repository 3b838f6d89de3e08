package bind

import (
	"github.com/vango-dev/observer/pkg/object"
	"github.com/vango-dev/observer/pkg/subject"
	"github.com/vango-dev/observer/pkg/widget"
)

// Checked mirrors a checkable object's StateChecked and an integer
// subject: non-zero checks the object, and toggling the object stores 1
// or 0.
func Checked(obj *object.Object, s *subject.Subject) *subject.Observer {
	o := bindBitfield("bind.Checked", obj, s, stateObserver, uint32(object.StateChecked), 0, true, condEq)
	if o == nil {
		return nil
	}
	obj.AddEventHook(object.EventValueChanged, func(e *object.Event) {
		if e.Current().HasState(object.StateChecked) {
			s.SetInt(1)
		} else {
			s.SetInt(0)
		}
	}, s)
	return o
}

// valued is the control side of a numeric two-way binding.
type valued interface {
	SetValue(v int32)
	Value() int32
}

func bindValued(op string, obj *object.Object, ctl valued, s *subject.Subject) *subject.Observer {
	if !accepts(op, obj, s, subject.KindInt, subject.KindFloat) {
		return nil
	}
	obj.AddEventHook(object.EventValueChanged, func(*object.Event) {
		if s.Kind() == subject.KindInt {
			s.SetInt(ctl.Value())
		} else {
			s.SetFloat(float32(ctl.Value()))
		}
	}, s)
	return s.AddObserverObject(func(_ *subject.Observer, s *subject.Subject) {
		if s.Kind() == subject.KindInt {
			ctl.SetValue(s.Int())
		} else {
			ctl.SetValue(int32(s.Float()))
		}
	}, obj, nil)
}

// SliderValue keeps slider and an integer or float subject in sync.
func SliderValue(slider *widget.Slider, s *subject.Subject) *subject.Observer {
	if slider == nil {
		accepts("bind.SliderValue", nil, s)
		return nil
	}
	return bindValued("bind.SliderValue", slider.Object, slider, s)
}

// ArcValue keeps arc and an integer or float subject in sync.
func ArcValue(arc *widget.Arc, s *subject.Subject) *subject.Observer {
	if arc == nil {
		accepts("bind.ArcValue", nil, s)
		return nil
	}
	return bindValued("bind.ArcValue", arc.Object, arc, s)
}

// selectable is the control side of a selection two-way binding.
type selectable interface {
	SetSelected(i int32)
	Selected() int32
}

func bindSelectable(op string, obj *object.Object, ctl selectable, s *subject.Subject) *subject.Observer {
	if !accepts(op, obj, s, subject.KindInt) {
		return nil
	}
	obj.AddEventHook(object.EventValueChanged, func(*object.Event) {
		s.SetInt(ctl.Selected())
	}, s)
	return s.AddObserverObject(func(_ *subject.Observer, s *subject.Subject) {
		if ctl.Selected() != s.Int() {
			ctl.SetSelected(s.Int())
		}
	}, obj, nil)
}

// RollerValue keeps a roller's selected index and an integer subject in
// sync.
func RollerValue(roller *widget.Roller, s *subject.Subject) *subject.Observer {
	if roller == nil {
		accepts("bind.RollerValue", nil, s)
		return nil
	}
	return bindSelectable("bind.RollerValue", roller.Object, roller, s)
}

// DropdownValue keeps a dropdown's selected index and an integer subject
// in sync.
func DropdownValue(dropdown *widget.Dropdown, s *subject.Subject) *subject.Observer {
	if dropdown == nil {
		accepts("bind.DropdownValue", nil, s)
		return nil
	}
	return bindSelectable("bind.DropdownValue", dropdown.Object, dropdown, s)
}
