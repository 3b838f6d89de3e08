package subject

import (
	"fmt"
	"unicode/utf8"
)

// InitString initializes a string subject with a byte capacity of size.
// Stored text is limited to size-1 bytes, cut at a UTF-8 boundary. When
// trackPrevious is false the subject keeps no previous value and every
// write notifies. A size below 1 makes every write a no-op.
func (s *Subject) InitString(size int, trackPrevious bool, initial string) {
	s.reset(KindString)
	s.size = size
	s.hasPrev = trackPrevious
	s.value.str = s.bounded(initial)
	if trackPrevious {
		s.prev.str = s.value.str
	}
}

// CopyString stores text, bounded by the subject's size, and notifies if
// it changed.
func (s *Subject) CopyString(text string) {
	if !s.check("subject.CopyString", KindString) {
		return
	}
	s.storeString(text)
}

// Printf formats a string and stores it like CopyString.
func (s *Subject) Printf(format string, args ...any) {
	if !s.check("subject.Printf", KindString) {
		return
	}
	s.storeString(fmt.Sprintf(format, args...))
}

func (s *Subject) storeString(text string) {
	if s.size < 1 {
		return
	}
	if s.hasPrev {
		s.prev.str = s.value.str
	}
	s.value.str = s.bounded(text)
	s.notifyIfChanged()
}

// Text returns the current text, or "" on a kind mismatch. It is not named
// String so a Subject never satisfies fmt.Stringer by accident.
func (s *Subject) Text() string {
	if !s.check("subject.Text", KindString) {
		return ""
	}
	return s.value.str
}

// PreviousText returns the text held before the last write, or "" when
// the subject keeps no previous value.
func (s *Subject) PreviousText() string {
	if !s.check("subject.PreviousText", KindString) {
		return ""
	}
	if !s.hasPrev {
		return ""
	}
	return s.prev.str
}

// bounded cuts text to size-1 bytes without splitting a rune.
func (s *Subject) bounded(text string) string {
	limit := s.size - 1
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
