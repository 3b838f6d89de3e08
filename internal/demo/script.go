package demo

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/observer/pkg/subject"
)

// Step is one line of a script transcript.
type Step struct {
	Action string
	Result string
}

func (s Step) String() string {
	return fmt.Sprintf("%-28s %s", s.Action, s.Result)
}

// Script runs the reference change-detection sequence on an integer
// subject: equal writes are silent, changes notify once, and a removed
// observer is never called again.
func Script(logger *slog.Logger) []Step {
	if logger == nil {
		logger = slog.Default()
	}

	var s subject.Subject
	s.SetName("counter")
	s.InitInt(5)

	var (
		calls int
		last  int32
		steps []Step
	)
	record := func(action string) {
		step := Step{Action: action, Result: fmt.Sprintf("calls=%d last=%d", calls, last)}
		logger.Info("script", "action", action, "calls", calls, "last", last)
		steps = append(steps, step)
	}

	o := s.AddObserver(func(_ *subject.Observer, s *subject.Subject) {
		calls++
		last = s.Int()
	}, nil)
	record("subscribe (catch-up call)")

	calls = 0
	s.SetInt(5)
	record("set 5")

	s.SetInt(7)
	record("set 7")

	s.SetInt(7)
	record("set 7 again")

	o.Remove()
	record("remove observer")

	s.SetInt(9)
	record("set 9")

	return steps
}

// Tour drives the thermostat the way a user would and returns the screen
// status after every interaction.
func (t *Thermostat) Tour() []Step {
	var steps []Step
	record := func(action string) {
		status := t.Status()
		t.logger.Info("tour", "action", action, "status", status)
		steps = append(steps, Step{Action: action, Result: status})
	}

	record("initial")

	t.Slider.Drag(25)
	record("drag slider to 25")

	for i := 0; i < 7; i++ {
		t.Up.Click()
	}
	record("press + seven times")

	t.Down.Click()
	record("press -")

	t.Eco.Click()
	record("press eco")

	t.ModeList.Select(2)
	record("select cool")

	t.PowerBox.Click()
	record("switch power off")

	t.Slider.Drag(12)
	record("drag disabled slider")

	t.Setpoint.SetInt(22)
	t.Power.SetInt(1)
	record("set setpoint 22, power 1")

	t.Close()
	before := t.Setpoint.ObserverCount()
	t.Setpoint.SetInt(23)
	steps = append(steps, Step{
		Action: "delete screen, set 23",
		Result: fmt.Sprintf("setpoint observers=%d value=%d", before, t.Setpoint.Int()),
	})
	return steps
}
