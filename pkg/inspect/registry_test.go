package inspect

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/subject"
)

func TestMain(m *testing.M) {
	subject.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type fixture struct {
	temp, target, mode, title, accent, data, summary subject.Subject
}

func newFixture(t *testing.T) (*Registry, *fixture) {
	t.Helper()
	f := &fixture{}
	f.temp.InitInt(21)
	f.target.InitFloat(21.5)
	f.mode.InitInt(0)
	f.title.InitString(16, true, "Living room")
	f.accent.InitColor(subject.RGB(0x20, 0x40, 0x80))
	f.data.InitPointer(nil)
	f.summary.InitGroup(&f.temp, &f.mode)

	reg := NewRegistry()
	reg.MustRegister("temperature", &f.temp)
	reg.MustRegister("target", &f.target)
	reg.MustRegister("mode", &f.mode)
	reg.MustRegister("title", &f.title)
	reg.MustRegister("accent", &f.accent)
	reg.MustRegister("data", &f.data)
	reg.MustRegister("summary", &f.summary)
	return reg, f
}

func TestRegister(t *testing.T) {
	reg, f := newFixture(t)

	assert.Equal(t,
		[]string{"accent", "data", "mode", "summary", "target", "temperature", "title"},
		reg.Names())
	assert.Equal(t, "temperature", f.temp.Name())

	err := reg.Register("mode", &f.temp)
	require.Error(t, err)
	assert.ErrorIs(t, err, obserrors.New(obserrors.CodeDuplicateSubject))

	assert.Error(t, reg.Register("", &f.temp))
	assert.Error(t, reg.Register("x", nil))

	got, ok := reg.Lookup("title")
	assert.True(t, ok)
	assert.Same(t, &f.title, got)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegisterKeepsExistingName(t *testing.T) {
	var s subject.Subject
	s.SetName("internal")
	s.InitInt(0)

	reg := NewRegistry()
	reg.MustRegister("public", &s)
	assert.Equal(t, "internal", s.Name())
}

func TestDescribe(t *testing.T) {
	reg, f := newFixture(t)

	tests := []struct {
		name  string
		kind  string
		value string
	}{
		{"temperature", "int", "21"},
		{"target", "float", "21.5"},
		{"title", "string", "Living room"},
		{"accent", "color", "#204080"},
		{"data", "pointer", "<nil>"},
		{"summary", "group", "group(2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := reg.Describe(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, info.Kind)
			assert.Equal(t, tt.value, info.Value)
		})
	}

	info, err := reg.Describe("summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"temperature", "mode"}, info.Members)

	info, err = reg.Describe("title")
	require.NoError(t, err)
	assert.Equal(t, 16, info.Size)

	f.temp.SetInt(23)
	info, err = reg.Describe("temperature")
	require.NoError(t, err)
	assert.Equal(t, "23", info.Value)
	assert.Equal(t, "21", info.Previous)
	// The group watches its members.
	assert.Equal(t, 1, info.Observers)

	_, err = reg.Describe("missing")
	assert.ErrorIs(t, err, obserrors.New(obserrors.CodeUnknownSubject))

	assert.Len(t, reg.DescribeAll(), 7)
}

func TestAssign(t *testing.T) {
	reg, f := newFixture(t)

	require.NoError(t, reg.Assign("temperature", " 25 "))
	assert.Equal(t, int32(25), f.temp.Int())

	require.NoError(t, reg.Assign("mode", "0x2"))
	assert.Equal(t, int32(2), f.mode.Int())

	require.NoError(t, reg.Assign("target", "19.5"))
	assert.Equal(t, float32(19.5), f.target.Float())

	require.NoError(t, reg.Assign("title", "Kitchen"))
	assert.Equal(t, "Kitchen", f.title.Text())

	require.NoError(t, reg.Assign("accent", "#ff0000"))
	assert.Equal(t, subject.RGB(0xff, 0, 0), f.accent.Color())

	invalid := obserrors.New(obserrors.CodeInvalidValue)
	tests := []struct {
		name    string
		literal string
	}{
		{"temperature", "warm"},
		{"temperature", "99999999999"},
		{"target", "1.2.3"},
		{"accent", "red"},
		{"data", "anything"},
		{"summary", "1"},
	}
	for _, tt := range tests {
		err := reg.Assign(tt.name, tt.literal)
		assert.ErrorIs(t, err, invalid, "%s=%q", tt.name, tt.literal)
	}
	assert.Equal(t, int32(25), f.temp.Int())

	err := reg.Assign("missing", "1")
	assert.ErrorIs(t, err, obserrors.New(obserrors.CodeUnknownSubject))
}

func TestWatch(t *testing.T) {
	reg, f := newFixture(t)

	var events []ChangeEvent
	stop := reg.Watch(func(ev ChangeEvent) { events = append(events, ev) })

	// One catch-up event per registered subject.
	require.Len(t, events, 7)
	events = nil

	f.temp.SetInt(22)
	// The group observer was attached first, so the group's event is
	// delivered from inside the temperature notification.
	require.Len(t, events, 2)
	assert.Equal(t, "summary", events[0].Subject)
	assert.Equal(t, "temperature", events[1].Subject)
	assert.Equal(t, "22", events[1].Value)
	assert.Equal(t, "21", events[1].Previous)
	assert.Less(t, events[0].Seq, events[1].Seq)

	var late subject.Subject
	late.InitString(8, false, "hi")
	reg.MustRegister("late", &late)
	events = nil
	late.CopyString("yo")
	require.Len(t, events, 1)
	assert.Equal(t, "late", events[0].Subject)

	stop()
	events = nil
	f.temp.SetInt(30)
	late.CopyString("no")
	assert.Empty(t, events)
	assert.Equal(t, 1, f.temp.ObserverCount())
}
