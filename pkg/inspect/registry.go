package inspect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/subject"
)

// SubjectInfo is the inspectable state of one registered subject.
type SubjectInfo struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Value     string   `json:"value"`
	Previous  string   `json:"previous,omitempty"`
	Size      int      `json:"size,omitempty"`
	Observers int      `json:"observers"`
	Members   []string `json:"members,omitempty"`
}

// ChangeEvent describes one notification of a registered subject.
type ChangeEvent struct {
	Seq      uint64    `json:"seq"`
	Subject  string    `json:"subject"`
	Kind     string    `json:"kind"`
	Value    string    `json:"value"`
	Previous string    `json:"previous,omitempty"`
	Time     time.Time `json:"time"`
}

// Registry maps names to the subjects an application wants to expose.
// It is owned by the application; there is no global registry.
//
// The map itself is safe for concurrent use. Everything that reads or
// writes a subject (Describe, Assign, Watch) must run on the goroutine
// that owns the subjects.
type Registry struct {
	mu       sync.RWMutex
	subjects map[string]*subject.Subject
	watchers []*watcher
	seq      uint64
}

type watcher struct {
	fn        func(ChangeEvent)
	observers []*subject.Observer
	stopped   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{subjects: make(map[string]*subject.Subject)}
}

// Register exposes s under name. The subject takes the name as its
// diagnostic name unless it already has one.
func (r *Registry) Register(name string, s *subject.Subject) error {
	if name == "" || s == nil {
		return obserrors.New(obserrors.CodeInvalidValue).
			WithOp("inspect.Register").
			WithDetail("name and subject are required")
	}
	r.mu.Lock()
	if _, exists := r.subjects[name]; exists {
		r.mu.Unlock()
		return obserrors.New(obserrors.CodeDuplicateSubject).
			WithOp("inspect.Register").
			WithDetail(fmt.Sprintf("subject %q is already registered", name))
	}
	r.subjects[name] = s
	watchers := append([]*watcher(nil), r.watchers...)
	r.mu.Unlock()

	if s.Name() == "" {
		s.SetName(name)
	}
	for _, w := range watchers {
		r.attach(w, name, s)
	}
	return nil
}

// MustRegister is Register that panics on error. Use it while building a
// screen, where a duplicate name is a programming error.
func (r *Registry) MustRegister(name string, s *subject.Subject) {
	if err := r.Register(name, s); err != nil {
		panic(err)
	}
}

// Lookup returns the subject registered under name.
func (r *Registry) Lookup(name string) (*subject.Subject, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subjects[name]
	return s, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.subjects))
	for name := range r.subjects {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(op, name string) (*subject.Subject, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, obserrors.New(obserrors.CodeUnknownSubject).
			WithOp(op).
			WithDetail(fmt.Sprintf("no subject named %q", name))
	}
	return s, nil
}

// nameOf returns the registered name of s, or its diagnostic name.
func (r *Registry) nameOf(s *subject.Subject) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, candidate := range r.subjects {
		if candidate == s {
			return name
		}
	}
	return s.Name()
}

// Describe returns the current state of a registered subject.
func (r *Registry) Describe(name string) (SubjectInfo, error) {
	s, err := r.lookup("inspect.Describe", name)
	if err != nil {
		return SubjectInfo{}, err
	}
	info := SubjectInfo{
		Name:      name,
		Kind:      s.Kind().String(),
		Value:     FormatValue(s),
		Previous:  FormatPrevious(s),
		Observers: s.ObserverCount(),
	}
	switch s.Kind() {
	case subject.KindString:
		info.Size = s.Size()
	case subject.KindGroup:
		info.Size = s.Size()
		for _, m := range s.Members() {
			if m == nil {
				info.Members = append(info.Members, "")
				continue
			}
			info.Members = append(info.Members, r.nameOf(m))
		}
	}
	return info, nil
}

// DescribeAll describes every registered subject in name order.
func (r *Registry) DescribeAll() []SubjectInfo {
	names := r.Names()
	infos := make([]SubjectInfo, 0, len(names))
	for _, name := range names {
		if info, err := r.Describe(name); err == nil {
			infos = append(infos, info)
		}
	}
	return infos
}

// Assign parses literal according to the subject's kind and stores it.
// Integers and floats use Go syntax, colors "#rrggbb", strings are taken
// verbatim. Pointer and group subjects cannot be assigned.
func (r *Registry) Assign(name, literal string) error {
	const op = "inspect.Assign"
	s, err := r.lookup(op, name)
	if err != nil {
		return err
	}
	invalid := func(cause error) error {
		return obserrors.New(obserrors.CodeInvalidValue).
			WithOp(op).
			WithDetail(fmt.Sprintf("cannot assign %q to %s subject %q", literal, s.Kind(), name)).
			Wrap(cause)
	}

	switch s.Kind() {
	case subject.KindInt:
		v, err := strconv.ParseInt(strings.TrimSpace(literal), 0, 32)
		if err != nil {
			return invalid(err)
		}
		s.SetInt(int32(v))
	case subject.KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(literal), 32)
		if err != nil {
			return invalid(err)
		}
		s.SetFloat(float32(v))
	case subject.KindColor:
		c, err := subject.ParseColor(literal)
		if err != nil {
			return invalid(err)
		}
		s.SetColor(c)
	case subject.KindString:
		s.CopyString(literal)
	default:
		return invalid(nil)
	}
	return nil
}

// Watch calls fn for every notification of every registered subject,
// including subjects registered later. fn first receives one event per
// subject with its current value. The returned function stops watching.
func (r *Registry) Watch(fn func(ChangeEvent)) (stop func()) {
	w := &watcher{fn: fn}
	r.mu.Lock()
	r.watchers = append(r.watchers, w)
	r.mu.Unlock()

	for _, name := range r.Names() {
		if s, ok := r.Lookup(name); ok {
			r.attach(w, name, s)
		}
	}

	return func() {
		r.mu.Lock()
		for i, candidate := range r.watchers {
			if candidate == w {
				r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
				break
			}
		}
		w.stopped = true
		observers := w.observers
		w.observers = nil
		r.mu.Unlock()

		for _, o := range observers {
			o.Remove()
		}
	}
}

func (r *Registry) attach(w *watcher, name string, s *subject.Subject) {
	o := s.AddObserver(func(_ *subject.Observer, s *subject.Subject) {
		r.mu.Lock()
		r.seq++
		seq := r.seq
		r.mu.Unlock()
		w.fn(ChangeEvent{
			Seq:      seq,
			Subject:  name,
			Kind:     s.Kind().String(),
			Value:    FormatValue(s),
			Previous: FormatPrevious(s),
			Time:     time.Now(),
		})
	}, w)
	if o == nil {
		return
	}
	r.mu.Lock()
	if w.stopped {
		r.mu.Unlock()
		o.Remove()
		return
	}
	w.observers = append(w.observers, o)
	r.mu.Unlock()
}

// FormatValue renders the current value of s as text.
func FormatValue(s *subject.Subject) string {
	switch s.Kind() {
	case subject.KindInt:
		return strconv.FormatInt(int64(s.Int()), 10)
	case subject.KindFloat:
		return strconv.FormatFloat(float64(s.Float()), 'g', -1, 32)
	case subject.KindString:
		return s.Text()
	case subject.KindColor:
		return s.Color().Hex()
	case subject.KindPointer:
		return formatPointer(s.Pointer())
	case subject.KindGroup:
		return fmt.Sprintf("group(%d)", s.Size())
	default:
		return ""
	}
}

// FormatPrevious renders the previous value of s as text.
func FormatPrevious(s *subject.Subject) string {
	switch s.Kind() {
	case subject.KindInt:
		return strconv.FormatInt(int64(s.PreviousInt()), 10)
	case subject.KindFloat:
		return strconv.FormatFloat(float64(s.PreviousFloat()), 'g', -1, 32)
	case subject.KindString:
		return s.PreviousText()
	case subject.KindColor:
		return s.PreviousColor().Hex()
	case subject.KindPointer:
		return formatPointer(s.PreviousPointer())
	default:
		return ""
	}
}

func formatPointer(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
