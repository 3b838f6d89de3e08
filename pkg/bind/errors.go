package bind

import "errors"

// ErrIncompatibleSubject is reported when a binding is asked to use a
// subject of a kind it cannot handle.
var ErrIncompatibleSubject = errors.New("bind: incompatible subject kind")

// ErrNilTarget is reported when a binding is given no object.
var ErrNilTarget = errors.New("bind: nil target")
