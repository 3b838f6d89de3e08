package snapshot

import (
	"errors"
	"fmt"
	"time"

	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/inspect"
	"github.com/vango-dev/observer/pkg/subject"
)

// Entry is the saved value of one subject.
type Entry struct {
	Name  string `json:"name" cbor:"1,keyasint"`
	Kind  string `json:"kind" cbor:"2,keyasint"`
	Value string `json:"value" cbor:"3,keyasint"`
}

// Snapshot is a set of subject values taken at one moment.
type Snapshot struct {
	Taken  time.Time `json:"taken" cbor:"1,keyasint"`
	Values []Entry   `json:"values" cbor:"2,keyasint"`
}

// Capture records every assignable subject in reg, in name order.
func Capture(reg *inspect.Registry) *Snapshot {
	snap := &Snapshot{Taken: time.Now().UTC()}
	for _, name := range reg.Names() {
		s, ok := reg.Lookup(name)
		if !ok || !assignable(s.Kind()) {
			continue
		}
		snap.Values = append(snap.Values, Entry{
			Name:  name,
			Kind:  s.Kind().String(),
			Value: inspect.FormatValue(s),
		})
	}
	return snap
}

// Apply assigns every entry of snap to the subject of the same name.
// Entries whose subject is unknown or has a different kind are skipped;
// the returned error joins one error per skipped entry.
func Apply(reg *inspect.Registry, snap *Snapshot) error {
	if snap == nil {
		return nil
	}
	var errs []error
	for _, e := range snap.Values {
		s, ok := reg.Lookup(e.Name)
		if !ok {
			errs = append(errs, obserrors.New(obserrors.CodeUnknownSubject).
				WithOp("snapshot.Apply").
				WithDetail(fmt.Sprintf("snapshot entry %q has no registered subject", e.Name)))
			continue
		}
		if got := s.Kind().String(); got != e.Kind {
			errs = append(errs, obserrors.New(obserrors.CodeInvalidValue).
				WithOp("snapshot.Apply").
				WithDetail(fmt.Sprintf("snapshot entry %q is %s but the subject is %s", e.Name, e.Kind, got)))
			continue
		}
		if err := reg.Assign(e.Name, e.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the entry for name.
func (s *Snapshot) Lookup(name string) (Entry, bool) {
	for _, e := range s.Values {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func assignable(k subject.Kind) bool {
	switch k {
	case subject.KindInt, subject.KindFloat, subject.KindString, subject.KindColor:
		return true
	}
	return false
}
