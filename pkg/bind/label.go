package bind

import (
	"fmt"

	"github.com/vango-dev/observer/pkg/subject"
	"github.com/vango-dev/observer/pkg/widget"
)

// LabelText keeps label's text in sync with s.
//
// With an empty format, string and pointer subjects are shown verbatim,
// integers use "%d" and floats "%0.1f". Other kinds are refused.
func LabelText(label *widget.Label, s *subject.Subject, format string) *subject.Observer {
	if label == nil {
		accepts("bind.LabelText", nil, s)
		return nil
	}
	if format == "" {
		switch s.Kind() {
		case subject.KindInt:
			format = "%d"
		case subject.KindFloat:
			format = "%0.1f"
		}
	}
	if !accepts("bind.LabelText", label.Object, s,
		subject.KindInt, subject.KindFloat, subject.KindString, subject.KindPointer) {
		return nil
	}
	return s.AddObserverObject(func(_ *subject.Observer, s *subject.Subject) {
		label.SetText(formatValue(s, format))
	}, label.Object, format)
}

func formatValue(s *subject.Subject, format string) string {
	switch s.Kind() {
	case subject.KindInt:
		return fmt.Sprintf(format, s.Int())
	case subject.KindFloat:
		return fmt.Sprintf(format, s.Float())
	case subject.KindString:
		if format == "" {
			return s.Text()
		}
		return fmt.Sprintf(format, s.Text())
	case subject.KindPointer:
		v := s.Pointer()
		if format != "" {
			return fmt.Sprintf(format, v)
		}
		switch t := v.(type) {
		case nil:
			return ""
		case string:
			return t
		case *string:
			if t == nil {
				return ""
			}
			return *t
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}
