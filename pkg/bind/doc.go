// Package bind packages the common ways of wiring subjects to objects.
//
// Conditional bindings set or clear a flag, a state or a style on an
// object depending on how an integer subject compares to a reference:
//
//	bind.FlagIfLt(heating.Object, &temperature, object.FlagHidden, 18)
//
// Two-way bindings keep a control and a subject in sync in both
// directions. The subject pushes into the control when notified, and the
// control's EventValueChanged hook writes back into the subject. Setters
// only notify on change, so the pair settles after one round trip.
//
// Actions (IncrementOn, SetIntOn, SetStringOn) write a subject when an
// event fires on an object. They are plain event hooks, not observers.
//
// Every binding is tied to the object's lifetime: deleting the object
// removes the observer and the hooks it installed. subject.DetachAll
// unbinds earlier.
package bind
