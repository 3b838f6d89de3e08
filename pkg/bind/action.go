package bind

import (
	"github.com/vango-dev/observer/pkg/object"
	"github.com/vango-dev/observer/pkg/subject"
)

// Increment is the context of an IncrementOn action.
type Increment struct {
	Subject  *subject.Subject
	Step     int32
	Min, Max int32
}

func (a *Increment) run(*object.Event) {
	v := int64(a.Subject.Int()) + int64(a.Step)
	if v < int64(a.Min) {
		v = int64(a.Min)
	}
	if v > int64(a.Max) {
		v = int64(a.Max)
	}
	a.Subject.SetInt(int32(v))
}

// IncrementOn adds step to s, clamped to [min, max], whenever trigger is
// sent to obj.
func IncrementOn(obj *object.Object, s *subject.Subject, trigger object.EventCode, step, min, max int32) *object.EventHook {
	if !accepts("bind.IncrementOn", obj, s, subject.KindInt) {
		return nil
	}
	ctx := &Increment{Subject: s, Step: step, Min: min, Max: max}
	return attachAction(obj, trigger, ctx.run, ctx)
}

// SetInt is the context of a SetIntOn action.
type SetInt struct {
	Subject *subject.Subject
	Value   int32
}

func (a *SetInt) run(*object.Event) { a.Subject.SetInt(a.Value) }

// SetIntOn stores v in s whenever trigger is sent to obj.
func SetIntOn(obj *object.Object, s *subject.Subject, trigger object.EventCode, v int32) *object.EventHook {
	if !accepts("bind.SetIntOn", obj, s, subject.KindInt) {
		return nil
	}
	ctx := &SetInt{Subject: s, Value: v}
	return attachAction(obj, trigger, ctx.run, ctx)
}

// SetString is the context of a SetStringOn action.
type SetString struct {
	Subject *subject.Subject
	Text    string
}

func (a *SetString) run(*object.Event) { a.Subject.CopyString(a.Text) }

// SetStringOn copies text into s whenever trigger is sent to obj. The text
// is captured when the action is attached.
func SetStringOn(obj *object.Object, s *subject.Subject, trigger object.EventCode, text string) *object.EventHook {
	if !accepts("bind.SetStringOn", obj, s, subject.KindString) {
		return nil
	}
	ctx := &SetString{Subject: s, Text: text}
	return attachAction(obj, trigger, ctx.run, ctx)
}

// attachAction installs the action hook plus a delete hook that drops
// every hook keyed by ctx.
func attachAction(obj *object.Object, trigger object.EventCode, fn object.EventFunc, ctx any) *object.EventHook {
	h := obj.AddEventHook(trigger, fn, ctx)
	if h == nil {
		return nil
	}
	obj.AddEventHook(object.EventDelete, func(e *object.Event) {
		e.Current().RemoveEventHooksWithData(ctx)
	}, ctx)
	return h
}
