package bind

import (
	"log/slog"

	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/object"
	"github.com/vango-dev/observer/pkg/subject"
)

// cond is the comparison a bit-field binding evaluates. lt and le are
// expressed as inverted ge and gt.
type cond uint8

const (
	condEq cond = iota
	condGt
	condGe
)

// Bitfield is the context of a flag or state binding. It is the user data
// of the observer the binding returns.
type Bitfield struct {
	Bit    uint32
	Ref    int32
	Invert bool
	cond   cond
}

// Holds reports whether v satisfies the binding's condition.
func (b *Bitfield) Holds(v int32) bool {
	var res bool
	switch b.cond {
	case condEq:
		res = v == b.Ref
	case condGt:
		res = v > b.Ref
	case condGe:
		res = v >= b.Ref
	}
	if b.Invert {
		res = !res
	}
	return res
}

// accepts reports whether s has one of kinds, and reports the binding as
// refused otherwise.
func accepts(op string, obj *object.Object, s *subject.Subject, kinds ...subject.Kind) bool {
	if obj == nil {
		subject.Report(obserrors.CodeIncompatibleBind, op, ErrNilTarget,
			slog.String("subject", s.Name()))
		return false
	}
	k := s.Kind()
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	subject.Report(obserrors.CodeIncompatibleBind, op, ErrIncompatibleSubject,
		slog.String("subject", s.Name()),
		slog.String("kind", k.String()),
		slog.String("object", obj.Name()))
	return false
}

func bindBitfield(op string, obj *object.Object, s *subject.Subject, cb subject.Func, bit uint32, ref int32, invert bool, c cond) *subject.Observer {
	if !accepts(op, obj, s, subject.KindInt) {
		return nil
	}
	ctx := &Bitfield{Bit: bit, Ref: ref, Invert: invert, cond: c}
	return s.AddObserverObject(cb, obj, ctx)
}

func flagObserver(o *subject.Observer, s *subject.Subject) {
	ctx := o.UserData().(*Bitfield)
	obj := o.TargetObject()
	if ctx.Holds(s.Int()) {
		obj.AddFlag(object.Flag(ctx.Bit))
	} else {
		obj.RemoveFlag(object.Flag(ctx.Bit))
	}
}

func stateObserver(o *subject.Observer, s *subject.Subject) {
	ctx := o.UserData().(*Bitfield)
	obj := o.TargetObject()
	if ctx.Holds(s.Int()) {
		obj.AddState(object.State(ctx.Bit))
	} else {
		obj.RemoveState(object.State(ctx.Bit))
	}
}

// FlagIfEq sets flag on obj while s equals ref.
func FlagIfEq(obj *object.Object, s *subject.Subject, flag object.Flag, ref int32) *subject.Observer {
	return bindBitfield("bind.FlagIfEq", obj, s, flagObserver, uint32(flag), ref, false, condEq)
}

// FlagIfNotEq sets flag on obj while s differs from ref.
func FlagIfNotEq(obj *object.Object, s *subject.Subject, flag object.Flag, ref int32) *subject.Observer {
	return bindBitfield("bind.FlagIfNotEq", obj, s, flagObserver, uint32(flag), ref, true, condEq)
}

// FlagIfGt sets flag on obj while s is greater than ref.
func FlagIfGt(obj *object.Object, s *subject.Subject, flag object.Flag, ref int32) *subject.Observer {
	return bindBitfield("bind.FlagIfGt", obj, s, flagObserver, uint32(flag), ref, false, condGt)
}

// FlagIfGe sets flag on obj while s is greater than or equal to ref.
func FlagIfGe(obj *object.Object, s *subject.Subject, flag object.Flag, ref int32) *subject.Observer {
	return bindBitfield("bind.FlagIfGe", obj, s, flagObserver, uint32(flag), ref, false, condGe)
}

// FlagIfLt sets flag on obj while s is less than ref.
func FlagIfLt(obj *object.Object, s *subject.Subject, flag object.Flag, ref int32) *subject.Observer {
	// a < b == !(a >= b)
	return bindBitfield("bind.FlagIfLt", obj, s, flagObserver, uint32(flag), ref, true, condGe)
}

// FlagIfLe sets flag on obj while s is less than or equal to ref.
func FlagIfLe(obj *object.Object, s *subject.Subject, flag object.Flag, ref int32) *subject.Observer {
	// a <= b == !(a > b)
	return bindBitfield("bind.FlagIfLe", obj, s, flagObserver, uint32(flag), ref, true, condGt)
}

// StateIfEq sets state on obj while s equals ref.
func StateIfEq(obj *object.Object, s *subject.Subject, state object.State, ref int32) *subject.Observer {
	return bindBitfield("bind.StateIfEq", obj, s, stateObserver, uint32(state), ref, false, condEq)
}

// StateIfNotEq sets state on obj while s differs from ref.
func StateIfNotEq(obj *object.Object, s *subject.Subject, state object.State, ref int32) *subject.Observer {
	return bindBitfield("bind.StateIfNotEq", obj, s, stateObserver, uint32(state), ref, true, condEq)
}

// StateIfGt sets state on obj while s is greater than ref.
func StateIfGt(obj *object.Object, s *subject.Subject, state object.State, ref int32) *subject.Observer {
	return bindBitfield("bind.StateIfGt", obj, s, stateObserver, uint32(state), ref, false, condGt)
}

// StateIfGe sets state on obj while s is greater than or equal to ref.
func StateIfGe(obj *object.Object, s *subject.Subject, state object.State, ref int32) *subject.Observer {
	return bindBitfield("bind.StateIfGe", obj, s, stateObserver, uint32(state), ref, false, condGe)
}

// StateIfLt sets state on obj while s is less than ref.
func StateIfLt(obj *object.Object, s *subject.Subject, state object.State, ref int32) *subject.Observer {
	return bindBitfield("bind.StateIfLt", obj, s, stateObserver, uint32(state), ref, true, condGe)
}

// StateIfLe sets state on obj while s is less than or equal to ref.
func StateIfLe(obj *object.Object, s *subject.Subject, state object.State, ref int32) *subject.Observer {
	return bindBitfield("bind.StateIfLe", obj, s, stateObserver, uint32(state), ref, true, condGt)
}
