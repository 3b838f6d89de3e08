package demo

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/observer/pkg/bind"
	"github.com/vango-dev/observer/pkg/inspect"
	"github.com/vango-dev/observer/pkg/object"
	"github.com/vango-dev/observer/pkg/subject"
	"github.com/vango-dev/observer/pkg/widget"
)

// Setpoint limits and presets, in °C.
const (
	MinSetpoint    = 10
	MaxSetpoint    = 30
	EcoSetpoint    = 18
	RoomTemp       = 20
	DefaultSetting = 21
)

// Modes offered by the mode dropdown, indexed by the mode subject.
var Modes = []string{"off", "heat", "cool", "auto"}

var modeColors = []subject.Color{
	subject.RGB(0x80, 0x80, 0x80),
	subject.RGB(0xe0, 0x40, 0x20),
	subject.RGB(0x20, 0x80, 0xe0),
	subject.RGB(0x40, 0xb0, 0x60),
}

// Thermostat is the demo screen: its subjects and the widgets bound to
// them.
type Thermostat struct {
	// Subjects.
	Setpoint subject.Subject
	Mode     subject.Subject
	Power    subject.Subject
	Preset   subject.Subject
	Accent   subject.Subject
	Summary  subject.Subject

	// Widgets.
	Screen       *object.Object
	Slider       *widget.Slider
	Gauge        *widget.Arc
	SetpointText *widget.Label
	HeatingIcon  *object.Object
	Up, Down     *widget.Button
	Eco          *widget.Button
	ModeList     *widget.Dropdown
	PowerBox     *widget.Checkbox
	PresetText   *widget.Label
	SummaryText  *widget.Label
	MaxStyle     *object.Style

	Registry *inspect.Registry
	logger   *slog.Logger
}

// NewThermostat builds the screen, binds it and registers its subjects.
func NewThermostat(logger *slog.Logger) *Thermostat {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Thermostat{logger: logger, Registry: inspect.NewRegistry()}

	t.Setpoint.InitInt(DefaultSetting)
	t.Mode.InitInt(1)
	t.Power.InitInt(1)
	t.Preset.InitString(24, true, "Comfort")
	t.Accent.InitColor(modeColors[1])
	t.Summary.InitGroup(&t.Setpoint, &t.Mode, &t.Power)

	t.Registry.MustRegister("setpoint", &t.Setpoint)
	t.Registry.MustRegister("mode", &t.Mode)
	t.Registry.MustRegister("power", &t.Power)
	t.Registry.MustRegister("preset", &t.Preset)
	t.Registry.MustRegister("accent", &t.Accent)
	t.Registry.MustRegister("summary", &t.Summary)

	t.build()
	return t
}

func (t *Thermostat) build() {
	t.Screen = object.New("screen", nil)

	t.Slider = widget.NewSlider("setpoint-slider", t.Screen)
	t.Slider.SetRange(MinSetpoint, MaxSetpoint)
	bind.SliderValue(t.Slider, &t.Setpoint)
	bind.StateIfEq(t.Slider.Object, &t.Power, object.StateDisabled, 0)

	t.MaxStyle = object.NewStyle("at-max").Set("outline", "red")
	bind.Style(t.Slider.Object, t.MaxStyle, object.SelectorDefault, &t.Setpoint, MaxSetpoint)

	t.Gauge = widget.NewArc("setpoint-gauge", t.Screen)
	t.Gauge.SetRange(MinSetpoint, MaxSetpoint)
	bind.ArcValue(t.Gauge, &t.Setpoint)

	t.SetpointText = widget.NewLabel("setpoint-label", t.Screen)
	bind.LabelText(t.SetpointText, &t.Setpoint, "%d°C")

	t.HeatingIcon = object.New("heating-icon", t.Screen)
	bind.FlagIfLe(t.HeatingIcon, &t.Setpoint, object.FlagHidden, RoomTemp)

	t.Up = widget.NewButton("up", t.Screen, "+")
	bind.IncrementOn(t.Up.Object, &t.Setpoint, object.EventClicked, 1, MinSetpoint, MaxSetpoint)
	t.Down = widget.NewButton("down", t.Screen, "-")
	bind.IncrementOn(t.Down.Object, &t.Setpoint, object.EventClicked, -1, MinSetpoint, MaxSetpoint)

	t.Eco = widget.NewButton("eco", t.Screen, "Eco")
	bind.SetIntOn(t.Eco.Object, &t.Setpoint, object.EventClicked, EcoSetpoint)
	bind.SetStringOn(t.Eco.Object, &t.Preset, object.EventClicked, "Eco")

	t.ModeList = widget.NewDropdown("mode", t.Screen, Modes...)
	bind.DropdownValue(t.ModeList, &t.Mode)
	t.Mode.AddObserverObject(func(_ *subject.Observer, s *subject.Subject) {
		if i := int(s.Int()); i >= 0 && i < len(modeColors) {
			t.Accent.SetColor(modeColors[i])
		}
	}, t.ModeList.Object, nil)

	t.PowerBox = widget.NewCheckbox("power", t.Screen, "Power")
	bind.Checked(t.PowerBox.Object, &t.Power)

	t.PresetText = widget.NewLabel("preset-label", t.Screen)
	bind.LabelText(t.PresetText, &t.Preset, "")

	t.SummaryText = widget.NewLabel("summary", t.Screen)
	t.Summary.AddObserverObject(func(_ *subject.Observer, g *subject.Subject) {
		t.SummaryText.SetText(summarize(g))
	}, t.SummaryText.Object, nil)
}

func summarize(g *subject.Subject) string {
	setpoint, mode, power := g.Member(0), g.Member(1), g.Member(2)
	if power.Int() == 0 {
		return "Off"
	}
	name := "?"
	if i := int(mode.Int()); i >= 0 && i < len(Modes) {
		name = Modes[i]
	}
	return fmt.Sprintf("%s %d°C", name, setpoint.Int())
}

// Find returns the widget object called name.
func (t *Thermostat) Find(name string) *object.Object {
	return t.Screen.Find(name)
}

// Heating reports whether the heating icon is shown.
func (t *Thermostat) Heating() bool {
	return !t.HeatingIcon.HasFlag(object.FlagHidden)
}

// Close deletes the screen. Every widget binding detaches with it; the
// subjects and the registry stay usable.
func (t *Thermostat) Close() {
	t.Screen.Delete()
	t.logger.Debug("thermostat screen deleted",
		"setpoint_observers", t.Setpoint.ObserverCount(),
		"mode_observers", t.Mode.ObserverCount())
}

// Status summarizes the visible state of the screen.
func (t *Thermostat) Status() string {
	return fmt.Sprintf("%s | slider=%d gauge=%d heating=%t max=%t mode=%s power=%t preset=%q",
		t.SummaryText.Text(),
		t.Slider.Value(),
		t.Gauge.Value(),
		t.Heating(),
		!t.Slider.StyleDisabled(t.MaxStyle, object.SelectorDefault),
		t.ModeList.SelectedText(),
		t.PowerBox.Checked(),
		t.PresetText.Text(),
	)
}
