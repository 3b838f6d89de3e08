// Package subject provides typed, observable value cells and the observer
// machinery built around them.
//
// A Subject holds a current and a previous value of one kind (int, float,
// string, pointer, color or group) plus an ordered list of observers.
// Setting a value copies the old one into the previous slot and notifies
// every observer when the value actually changed:
//
//	var volume subject.Subject
//	volume.InitInt(5)
//
//	volume.AddObserver(func(o *subject.Observer, s *subject.Subject) {
//	    fmt.Println("volume is", s.Int())
//	}, nil) // prints "volume is 5" immediately
//
//	volume.SetInt(5) // unchanged, nothing printed
//	volume.SetInt(7) // prints "volume is 7"
//
// # Change Detection
//
// Integers and floats compare numerically and colors component-wise.
// Strings compare by content, or always notify when the subject keeps no
// previous value. Pointer and group subjects always notify.
//
// # Reentrancy
//
// Observer callbacks may set other subjects, add observers and remove any
// observer, including themselves, while a notification is in progress.
// Notify delivers to each live observer at most once per call and never
// invokes an observer after it was removed.
//
// # Lifetime Bridge
//
// AddObserverObject ties an observer to a Host (normally an *object.Object):
// deleting the host removes the observer. DetachAll removes such observers
// on demand, for one subject or for all of them.
//
// # Thread Safety
//
// Subjects are not safe for concurrent use. They are driven from the single
// goroutine that runs the UI; other goroutines hand work to it through
// package loop. Type confusion is never fatal: a wrong accessor logs a
// warning through the package logger and returns a default value.
package subject
