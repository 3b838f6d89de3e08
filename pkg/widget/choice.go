package widget

import (
	"strings"

	"github.com/vango-dev/observer/pkg/object"
)

// choice is the selection model shared by rollers and dropdowns.
type choice struct {
	obj      *object.Object
	options  []string
	selected int32
}

// SetOptions replaces the option list. Options may also be given as one
// newline separated string.
func (c *choice) SetOptions(options ...string) {
	if len(options) == 1 && strings.Contains(options[0], "\n") {
		options = strings.Split(options[0], "\n")
	}
	c.options = append([]string(nil), options...)
	c.selected = c.clamp(c.selected)
}

// Options returns a copy of the option list.
func (c *choice) Options() []string {
	return append([]string(nil), c.options...)
}

func (c *choice) clamp(i int32) int32 {
	if i < 0 || len(c.options) == 0 {
		return 0
	}
	if n := int32(len(c.options)); i >= n {
		return n - 1
	}
	return i
}

// SetSelected selects an option by index without sending an event.
func (c *choice) SetSelected(i int32) {
	c.selected = c.clamp(i)
}

// Selected returns the selected index.
func (c *choice) Selected() int32 { return c.selected }

// SelectedText returns the selected option, or "" without options.
func (c *choice) SelectedText() string {
	if len(c.options) == 0 {
		return ""
	}
	return c.options[c.selected]
}

// Select picks an option as a user would and sends EventValueChanged if
// the selection changed.
func (c *choice) Select(i int32) {
	if c.obj.Deleted() || c.obj.HasState(object.StateDisabled) {
		return
	}
	old := c.selected
	c.selected = c.clamp(i)
	if c.selected != old {
		c.obj.Send(object.EventValueChanged)
	}
}

// Roller is a scrolling list with one selected option.
type Roller struct {
	*object.Object
	choice
}

// NewRoller creates a roller under parent.
func NewRoller(name string, parent *object.Object, options ...string) *Roller {
	r := &Roller{Object: object.New(name, parent)}
	r.choice = choice{obj: r.Object}
	r.SetOptions(options...)
	return r
}

// Dropdown is a collapsed list with one selected option.
type Dropdown struct {
	*object.Object
	choice
}

// NewDropdown creates a dropdown under parent.
func NewDropdown(name string, parent *object.Object, options ...string) *Dropdown {
	d := &Dropdown{Object: object.New(name, parent)}
	d.choice = choice{obj: d.Object}
	d.SetOptions(options...)
	return d
}
