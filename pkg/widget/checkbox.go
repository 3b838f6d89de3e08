package widget

import "github.com/vango-dev/observer/pkg/object"

// Checkbox is a checkable object with a caption. Clicking it toggles
// object.StateChecked and sends EventValueChanged.
type Checkbox struct {
	*object.Object
	text string
}

// NewCheckbox creates a checkbox under parent.
func NewCheckbox(name string, parent *object.Object, text string) *Checkbox {
	c := &Checkbox{Object: object.New(name, parent), text: text}
	c.AddFlag(object.FlagCheckable)
	return c
}

// Text returns the caption.
func (c *Checkbox) Text() string { return c.text }

// SetText replaces the caption.
func (c *Checkbox) SetText(text string) { c.text = text }

// Checked reports whether the checkbox is checked.
func (c *Checkbox) Checked() bool { return c.HasState(object.StateChecked) }

// SetChecked changes the checked state without sending an event.
func (c *Checkbox) SetChecked(checked bool) {
	if checked {
		c.AddState(object.StateChecked)
	} else {
		c.RemoveState(object.StateChecked)
	}
}

// Button is a plain clickable object with a caption.
type Button struct {
	*object.Object
	text string
}

// NewButton creates a button under parent.
func NewButton(name string, parent *object.Object, text string) *Button {
	return &Button{Object: object.New(name, parent), text: text}
}

// Text returns the caption.
func (b *Button) Text() string { return b.text }
