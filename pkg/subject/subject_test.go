package subject

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

// testRecorder collects everything the engine reports.
type testRecorder struct {
	added    map[Kind]int
	removed  map[Kind]int
	problems []string
	errs     []error
	stats    []NotifyStats
}

func newTestRecorder(t *testing.T) *testRecorder {
	t.Helper()
	r := &testRecorder{added: map[Kind]int{}, removed: map[Kind]int{}}
	SetRecorder(r)
	t.Cleanup(func() { SetRecorder(nil) })
	return r
}

func (r *testRecorder) ObserverAdded(k Kind)   { r.added[k]++ }
func (r *testRecorder) ObserverRemoved(k Kind) { r.removed[k]++ }

func (r *testRecorder) NotifyStart(*Subject) func(NotifyStats) {
	return func(st NotifyStats) { r.stats = append(r.stats, st) }
}

func (r *testRecorder) Problem(code string, err error) {
	r.problems = append(r.problems, code)
	r.errs = append(r.errs, err)
}

// counter returns an observer callback that counts calls and remembers the
// last integer value seen.
func counter(calls *int, last *int32) Func {
	return func(_ *Observer, s *Subject) {
		*calls++
		if last != nil {
			*last = s.Int()
		}
	}
}

func TestScenarioSetRemove(t *testing.T) {
	var s Subject
	s.InitInt(5)

	var calls int
	var last int32
	o := s.AddObserver(counter(&calls, &last), nil)
	if o == nil {
		t.Fatal("AddObserver returned nil")
	}
	// Catch-up delivery.
	if calls != 1 || last != 5 {
		t.Fatalf("catch-up: calls=%d last=%d", calls, last)
	}
	calls = 0

	s.SetInt(5)
	if calls != 0 {
		t.Errorf("set to same value: expected no call, got %d", calls)
	}

	s.SetInt(7)
	if calls != 1 || last != 7 {
		t.Errorf("set 7: expected 1 call with 7, got %d calls, last %d", calls, last)
	}

	s.SetInt(7)
	if calls != 1 {
		t.Errorf("set 7 again: expected no new call, got %d", calls)
	}

	o.Remove()
	s.SetInt(9)
	if calls != 1 {
		t.Errorf("after remove: expected no new call, got %d", calls)
	}
	if s.Int() != 9 || s.PreviousInt() != 7 {
		t.Errorf("value=%d previous=%d", s.Int(), s.PreviousInt())
	}
}

func TestChangeSuppression(t *testing.T) {
	tests := []struct {
		name  string
		init  func(s *Subject)
		same  func(s *Subject)
		other func(s *Subject)
	}{
		{
			name:  "int",
			init:  func(s *Subject) { s.InitInt(3) },
			same:  func(s *Subject) { s.SetInt(3) },
			other: func(s *Subject) { s.SetInt(4) },
		},
		{
			name:  "float",
			init:  func(s *Subject) { s.InitFloat(1.5) },
			same:  func(s *Subject) { s.SetFloat(1.5) },
			other: func(s *Subject) { s.SetFloat(2.25) },
		},
		{
			name:  "color",
			init:  func(s *Subject) { s.InitColor(RGB(10, 20, 30)) },
			same:  func(s *Subject) { s.SetColor(RGB(10, 20, 30)) },
			other: func(s *Subject) { s.SetColor(RGB(10, 20, 31)) },
		},
		{
			name:  "string",
			init:  func(s *Subject) { s.InitString(16, true, "on") },
			same:  func(s *Subject) { s.CopyString("on") },
			other: func(s *Subject) { s.CopyString("off") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Subject
			tt.init(&s)

			counts := make([]int, 3)
			for i := range counts {
				i := i
				s.AddObserver(func(*Observer, *Subject) { counts[i]++ }, nil)
			}
			for i := range counts {
				counts[i] = 0
			}

			tt.same(&s)
			for i, c := range counts {
				if c != 0 {
					t.Errorf("observer %d called %d times for unchanged value", i, c)
				}
			}

			tt.other(&s)
			for i, c := range counts {
				if c != 1 {
					t.Errorf("observer %d called %d times for changed value, want 1", i, c)
				}
			}
		})
	}
}

func TestPointerAlwaysNotifies(t *testing.T) {
	type payload struct{ n int }
	p := &payload{n: 1}

	var s Subject
	s.InitPointer(p)

	calls := 0
	s.AddObserver(func(_ *Observer, s *Subject) {
		calls++
		if s.Pointer() != p {
			t.Errorf("unexpected pointer %v", s.Pointer())
		}
	}, nil)
	calls = 0

	s.SetPointer(p)
	s.SetPointer(p)
	if calls != 2 {
		t.Errorf("expected 2 calls for same pointer, got %d", calls)
	}
	if s.PreviousPointer() != p {
		t.Errorf("previous pointer not kept")
	}
}

func TestCatchUpDelivery(t *testing.T) {
	var s Subject
	s.InitFloat(21.5)

	var seen float32
	calls := 0
	s.AddObserver(func(_ *Observer, s *Subject) {
		calls++
		seen = s.Float()
	}, nil)

	if calls != 1 {
		t.Fatalf("expected synchronous catch-up call, got %d", calls)
	}
	if seen != 21.5 {
		t.Errorf("expected 21.5, got %v", seen)
	}
}

func TestKindMismatch(t *testing.T) {
	rec := newTestRecorder(t)

	var s Subject
	s.InitInt(42)

	calls := 0
	s.AddObserver(func(*Observer, *Subject) { calls++ }, nil)
	calls = 0

	s.SetFloat(1)
	s.CopyString("x")
	s.SetColor(RGB(1, 2, 3))
	s.SetPointer(&s)

	if calls != 0 {
		t.Errorf("mismatched setters notified %d times", calls)
	}
	if s.Int() != 42 {
		t.Errorf("value corrupted: %d", s.Int())
	}
	if got := s.Float(); got != 0 {
		t.Errorf("Float default: got %v", got)
	}
	if got := s.Text(); got != "" {
		t.Errorf("Text default: got %q", got)
	}
	if got := s.Pointer(); got != nil {
		t.Errorf("Pointer default: got %v", got)
	}
	if got := s.Color(); got != Black {
		t.Errorf("Color default: got %v", got)
	}
	if s.Member(0) != nil {
		t.Errorf("Member on int subject should be nil")
	}

	if len(rec.problems) != 8 {
		t.Fatalf("expected 8 problems, got %d: %v", len(rec.problems), rec.problems)
	}
	for i, code := range rec.problems {
		if code != "OBS001" {
			t.Errorf("problem %d: code %s", i, code)
		}
		if !errors.Is(rec.errs[i], ErrKindMismatch) {
			t.Errorf("problem %d: error %v does not wrap ErrKindMismatch", i, rec.errs[i])
		}
	}
}

func TestUninitializedSubject(t *testing.T) {
	rec := newTestRecorder(t)

	var s Subject
	if o := s.AddObserver(func(*Observer, *Subject) { t.Error("callback on uninitialized subject") }, nil); o != nil {
		t.Errorf("expected nil observer")
	}
	s.SetInt(3)
	s.Notify()

	if s.Kind() != KindInvalid {
		t.Errorf("kind changed to %v", s.Kind())
	}
	if len(rec.problems) != 2 || rec.problems[0] != "OBS002" || rec.problems[1] != "OBS001" {
		t.Errorf("problems = %v", rec.problems)
	}

	var nilSubject *Subject
	if nilSubject.Int() != 0 || nilSubject.Kind() != KindInvalid || nilSubject.ObserverCount() != 0 {
		t.Errorf("nil subject accessors should return defaults")
	}
}

func TestStringSubject(t *testing.T) {
	t.Run("bounded at size-1", func(t *testing.T) {
		var s Subject
		s.InitString(6, true, "abcdefgh")
		if got := s.Text(); got != "abcde" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("cut at rune boundary", func(t *testing.T) {
		var s Subject
		s.InitString(5, true, "")
		s.CopyString("aé€") // a(1) é(2) €(3)
		if got := s.Text(); got != "aé" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("size below one ignores writes", func(t *testing.T) {
		var s Subject
		s.InitString(0, true, "init")
		calls := 0
		s.AddObserver(func(*Observer, *Subject) { calls++ }, nil)
		s.CopyString("hello")
		if calls != 1 || s.Text() != "" {
			t.Errorf("calls=%d text=%q", calls, s.Text())
		}
	})

	t.Run("without previous always notifies", func(t *testing.T) {
		var s Subject
		s.InitString(16, false, "x")
		calls := 0
		s.AddObserver(func(*Observer, *Subject) { calls++ }, nil)
		calls = 0
		s.CopyString("x")
		s.CopyString("x")
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
		if s.PreviousText() != "" {
			t.Errorf("previous should be empty, got %q", s.PreviousText())
		}
	})

	t.Run("printf", func(t *testing.T) {
		var s Subject
		s.InitString(8, true, "")
		s.Printf("%d°C", 21)
		if s.Text() != "21°C" {
			t.Errorf("got %q", s.Text())
		}
		s.Printf("%s", "much too long")
		if s.Text() != "much to" || s.PreviousText() != "21°C" {
			t.Errorf("text=%q previous=%q", s.Text(), s.PreviousText())
		}
	})
}

func TestColorParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff8000", RGB(255, 128, 0), false},
		{"00ff00", RGB(0, 255, 0), false},
		{" #0a0B0c ", RGB(10, 11, 12), false},
		{"#fff", Black, true},
		{"#gg0000", Black, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if RGB(255, 128, 0).Hex() != "#ff8000" {
		t.Errorf("Hex() = %s", RGB(255, 128, 0).Hex())
	}
}

func TestReinitDropsObservers(t *testing.T) {
	var s Subject
	s.SetName("volume")
	s.InitInt(1)
	o := s.AddObserver(func(*Observer, *Subject) {}, nil)

	s.InitInt(2)
	if !o.Removed() {
		t.Errorf("old observer should be removed by re-init")
	}
	if s.ObserverCount() != 0 {
		t.Errorf("observer count = %d", s.ObserverCount())
	}
	if s.Name() != "volume" {
		t.Errorf("name lost: %q", s.Name())
	}

	s.Deinit()
	if s.Kind() != KindInvalid {
		t.Errorf("Deinit left kind %v", s.Kind())
	}
}
