package object

import (
	"reflect"
	"testing"
)

func TestTree(t *testing.T) {
	root := New("screen", nil)
	row := New("row", root)
	btn := New("ok", row)

	if btn.Parent() != row || row.Parent() != root {
		t.Fatal("parent links not set")
	}
	if got := root.Find("ok"); got != btn {
		t.Errorf("Find(ok) = %v", got)
	}
	if root.Find("missing") != nil {
		t.Error("Find(missing) should be nil")
	}
	if !btn.HasFlag(FlagClickable) {
		t.Error("new objects are clickable")
	}
}

func TestFlagsAndStates(t *testing.T) {
	o := New("o", nil)

	o.AddFlag(FlagHidden | FlagScrollable)
	if !o.HasFlag(FlagHidden) || !o.HasFlag(FlagScrollable) {
		t.Errorf("flags = %b", o.Flags())
	}
	o.RemoveFlag(FlagHidden)
	if o.HasFlag(FlagHidden) {
		t.Error("hidden still set")
	}

	o.AddState(StateChecked)
	if !o.HasState(StateChecked) || o.States() != StateChecked {
		t.Errorf("states = %b", o.States())
	}
	o.RemoveState(StateChecked)
	if o.States() != StateDefault {
		t.Errorf("states = %b", o.States())
	}
}

func TestSendOrderAndFilter(t *testing.T) {
	o := New("o", nil)

	var got []string
	o.AddEventHook(EventClicked, func(e *Event) { got = append(got, "clicked:"+e.Data().(string)) }, "a")
	o.AddEventHook(EventAll, func(e *Event) { got = append(got, "all:"+e.Code().String()) }, nil)
	o.AddEventHook(EventValueChanged, func(*Event) { got = append(got, "value") }, nil)

	o.Send(EventClicked)
	want := []string{"clicked:a", "all:clicked"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestHookRemovedDuringDispatch(t *testing.T) {
	o := New("o", nil)

	var second *EventHook
	calls := 0
	o.AddEventHook(EventClicked, func(*Event) { o.RemoveEventHook(second) }, nil)
	second = o.AddEventHook(EventClicked, func(*Event) { calls++ }, nil)

	o.Send(EventClicked)
	if calls != 0 {
		t.Errorf("removed hook ran %d times", calls)
	}
	if !second.Removed() {
		t.Error("hook not flagged removed")
	}
	if o.RemoveEventHook(second) {
		t.Error("second removal should report false")
	}
}

func TestRemoveEventHooksWithData(t *testing.T) {
	o := New("o", nil)
	key := &struct{}{}

	o.AddEventHook(EventClicked, func(*Event) {}, key)
	o.AddEventHook(EventValueChanged, func(*Event) {}, "keep")
	o.AddEventHook(EventDelete, func(*Event) {}, key)

	if n := o.RemoveEventHooksWithData(key); n != 2 {
		t.Errorf("removed %d hooks, want 2", n)
	}
	hooks := o.EventHooks()
	if len(hooks) != 1 || hooks[0].Data() != "keep" {
		t.Errorf("remaining hooks: %v", hooks)
	}
	if o.RemoveEventHooksWithData(nil) != 0 {
		t.Error("nil data must not match")
	}
}

func TestClickCheckable(t *testing.T) {
	o := New("cb", nil)
	o.AddFlag(FlagCheckable)

	var seq []EventCode
	o.AddEventHook(EventAll, func(e *Event) { seq = append(seq, e.Code()) }, nil)

	o.Click()
	want := []EventCode{EventPressed, EventReleased, EventValueChanged, EventClicked}
	if !reflect.DeepEqual(seq, want) {
		t.Errorf("sequence %v, want %v", seq, want)
	}
	if !o.HasState(StateChecked) {
		t.Error("click should check")
	}

	o.Click()
	if o.HasState(StateChecked) {
		t.Error("second click should uncheck")
	}

	o.AddState(StateDisabled)
	seq = nil
	o.Click()
	if len(seq) != 0 {
		t.Errorf("disabled object dispatched %v", seq)
	}
}

func TestDelete(t *testing.T) {
	root := New("screen", nil)
	parent := New("parent", root)
	child := New("child", parent)

	var order []string
	for _, o := range []*Object{root, parent, child} {
		o := o
		o.AddEventHook(EventDelete, func(e *Event) { order = append(order, e.Current().Name()) }, nil)
	}

	parent.Delete()
	if want := []string{"parent", "child"}; !reflect.DeepEqual(order, want) {
		t.Errorf("delete order %v, want %v", order, want)
	}
	if !parent.Deleted() || !child.Deleted() || root.Deleted() {
		t.Error("deleted flags wrong")
	}
	if len(root.Children()) != 0 {
		t.Error("parent still attached to root")
	}
	if parent.AddEventHook(EventClicked, func(*Event) {}, nil) != nil {
		t.Error("deleted object accepted a hook")
	}

	parent.Delete()
	if len(order) != 2 {
		t.Errorf("second delete dispatched again: %v", order)
	}
}

func TestDeleteFromHook(t *testing.T) {
	o := New("o", nil)
	after := 0
	o.AddEventHook(EventClicked, func(*Event) { o.Delete() }, nil)
	o.AddEventHook(EventClicked, func(*Event) { after++ }, nil)

	o.Send(EventClicked)
	if after != 0 {
		t.Error("dispatch continued on a deleted object")
	}
}

func TestNoHooksWhileDeleting(t *testing.T) {
	o := New("o", nil)
	var late *EventHook
	o.AddEventHook(EventDelete, func(*Event) {
		late = o.AddEventHook(EventClicked, func(*Event) {}, nil)
	}, nil)

	o.Delete()
	if late != nil {
		t.Error("hook accepted during delete dispatch")
	}
}

func TestRemoveEventHooksWithUncomparableData(t *testing.T) {
	o := New("o", nil)
	o.AddEventHook(EventClicked, func(*Event) {}, []int{1})
	o.AddEventHook(EventClicked, func(*Event) {}, "keep")

	if n := o.RemoveEventHooksWithData([]int{1}); n != 0 {
		t.Errorf("removed %d hooks, want 0", n)
	}
	if n := o.RemoveEventHooksWithData("keep"); n != 1 {
		t.Errorf("removed %d hooks, want 1", n)
	}
	if len(o.EventHooks()) != 1 {
		t.Errorf("remaining hooks: %v", o.EventHooks())
	}
}

func TestStyles(t *testing.T) {
	o := New("o", nil)
	base := NewStyle("base").Set("bg", "white")
	warn := NewStyle("warn").Set("bg", "red")

	o.AddStyle(base, SelectorDefault)
	o.AddStyle(warn, SelectorDefault)
	o.AddStyle(warn, SelectorDefault)

	if v, _ := o.StyleProp("bg"); v != "red" {
		t.Errorf("bg = %q", v)
	}

	o.SetStyleDisabled(warn, SelectorDefault, true)
	if !o.StyleDisabled(warn, SelectorDefault) {
		t.Error("warn should be disabled")
	}
	if v, _ := o.StyleProp("bg"); v != "white" {
		t.Errorf("bg = %q", v)
	}

	o.RemoveStyle(base, SelectorDefault)
	if _, ok := o.StyleProp("bg"); ok {
		t.Error("no active style should define bg")
	}
	if !o.StyleDisabled(base, SelectorDefault) {
		t.Error("detached style reports disabled")
	}
}

func TestParseEventCode(t *testing.T) {
	for c := EventAll; c <= EventDelete; c++ {
		got, ok := ParseEventCode(c.String())
		if !ok || got != c {
			t.Errorf("ParseEventCode(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseEventCode("nope"); ok {
		t.Error("unknown name parsed")
	}
}
