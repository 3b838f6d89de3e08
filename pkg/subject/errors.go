package subject

import "errors"

// Sentinel errors describing the problems the engine reports. They are not
// returned by the engine's operations (which fail soft), but are passed to
// the configured Recorder and are handy in tests and tooling.
var (
	// ErrKindMismatch is reported when an accessor does not match the
	// subject's kind.
	ErrKindMismatch = errors.New("subject: kind mismatch")

	// ErrUninitialized is reported when an observer is added to a subject
	// that was never initialized.
	ErrUninitialized = errors.New("subject: not initialized")

	// ErrDepthExceeded is reported when nested notifications of one subject
	// exceed Options.MaxNotifyDepth.
	ErrDepthExceeded = errors.New("subject: notify depth exceeded")

	// ErrTargetDeleted is reported when an observer is bound to a host
	// object that is already deleted.
	ErrTargetDeleted = errors.New("subject: target deleted")
)
