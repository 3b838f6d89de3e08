package widget

import (
	"fmt"

	"github.com/vango-dev/observer/pkg/object"
)

// Label displays a line of text.
type Label struct {
	*object.Object
	text string
}

// NewLabel creates a label under parent. Labels are not clickable.
func NewLabel(name string, parent *object.Object) *Label {
	l := &Label{Object: object.New(name, parent)}
	l.RemoveFlag(object.FlagClickable)
	return l
}

// SetText replaces the label text.
func (l *Label) SetText(text string) {
	l.text = text
}

// SetTextf formats and sets the label text.
func (l *Label) SetTextf(format string, args ...any) {
	l.text = fmt.Sprintf(format, args...)
}

// Text returns the label text.
func (l *Label) Text() string {
	return l.text
}
