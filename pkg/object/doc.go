// Package object provides the retained object tree that bindings attach to.
//
// An Object carries the three things the observer engine needs from a host
// object system:
//
//   - event hooks that run when the object is clicked, changes value or is
//     deleted, each carrying a caller supplied data payload
//   - removal of a previously attached hook, either by handle or by payload
//   - enumeration of the hooks currently attached
//
// On top of that it keeps the bit fields (flags and states) and style
// entries that conditional bindings toggle.
//
// # Lifecycle
//
//	root := object.New("screen", nil)
//	btn := object.New("ok", root)
//	btn.AddEventHook(object.EventClicked, func(e *object.Event) {
//	    fmt.Println("clicked", e.Current().Name())
//	}, nil)
//	btn.Click()
//	root.Delete() // sends EventDelete to btn and root
//
// Objects are not safe for concurrent use. Like subjects they belong to the
// single goroutine that drives the UI (see package loop).
package object
