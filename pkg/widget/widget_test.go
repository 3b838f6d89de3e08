package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vango-dev/observer/pkg/object"
)

func countValueChanged(o *object.Object) *int {
	n := new(int)
	o.AddEventHook(object.EventValueChanged, func(*object.Event) { *n++ }, nil)
	return n
}

func TestSliderSetValueIsSilent(t *testing.T) {
	s := NewSlider("temp", nil)
	events := countValueChanged(s.Object)

	s.SetRange(10, 30)
	s.SetValue(50)
	assert.Equal(t, int32(30), s.Value())
	assert.Equal(t, 0, *events)
}

func TestSliderDrag(t *testing.T) {
	s := NewSlider("temp", nil)
	events := countValueChanged(s.Object)

	s.Drag(40)
	assert.Equal(t, int32(40), s.Value())
	assert.Equal(t, 1, *events)

	s.Drag(40)
	assert.Equal(t, 1, *events, "no event without change")

	s.Drag(-5)
	assert.Equal(t, int32(0), s.Value())
	assert.Equal(t, 2, *events)

	s.AddState(object.StateDisabled)
	s.Drag(10)
	assert.Equal(t, int32(0), s.Value())
}

func TestArcRange(t *testing.T) {
	a := NewArc("gauge", nil)
	a.SetValue(70)
	a.SetRange(50, 0)
	assert.Equal(t, int32(0), a.Min())
	assert.Equal(t, int32(50), a.Max())
	assert.Equal(t, int32(50), a.Value())
}

func TestRollerAndDropdown(t *testing.T) {
	r := NewRoller("mode", nil, "off\nheat\ncool")
	assert.Equal(t, []string{"off", "heat", "cool"}, r.Options())

	events := countValueChanged(r.Object)
	r.Select(2)
	assert.Equal(t, int32(2), r.Selected())
	assert.Equal(t, "cool", r.SelectedText())
	assert.Equal(t, 1, *events)

	r.SetSelected(9)
	assert.Equal(t, int32(2), r.Selected())
	assert.Equal(t, 1, *events)

	d := NewDropdown("fan", nil)
	assert.Equal(t, "", d.SelectedText())
	d.SetOptions("auto", "low", "high")
	d.Select(-3)
	assert.Equal(t, int32(0), d.Selected())
}

func TestCheckbox(t *testing.T) {
	c := NewCheckbox("power", nil, "Power")
	events := countValueChanged(c.Object)

	c.SetChecked(true)
	assert.True(t, c.Checked())
	assert.Equal(t, 0, *events)

	c.Click()
	assert.False(t, c.Checked())
	assert.Equal(t, 1, *events)
	assert.Equal(t, "Power", c.Text())
}

func TestLabel(t *testing.T) {
	l := NewLabel("title", nil)
	assert.False(t, l.HasFlag(object.FlagClickable))
	l.SetTextf("%d°C", 21)
	assert.Equal(t, "21°C", l.Text())
}
