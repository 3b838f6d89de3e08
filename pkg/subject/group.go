package subject

// InitGroup turns s into a group over members. Any member change notifies
// the group; group observers re-read the members they care about. A nil or
// uninitialized member is kept in the member list but not observed.
//
// Every member delivers its catch-up call while the group is built, so the
// group notifies once per member before it has observers of its own.
func (s *Subject) InitGroup(members ...*Subject) {
	s.reset(KindGroup)
	s.members = append([]*Subject(nil), members...)
	s.size = len(s.members)
	for _, m := range s.members {
		if m == nil || m.kind == KindInvalid {
			continue
		}
		if link := m.AddObserver(groupMemberChanged, s); link != nil {
			s.memberLinks = append(s.memberLinks, link)
		}
	}
}

func groupMemberChanged(o *Observer, _ *Subject) {
	if group, ok := o.UserData().(*Subject); ok {
		group.Notify()
	}
}

// Member returns the i-th member of a group, or nil when i is out of range
// or s is not a group.
func (s *Subject) Member(i int) *Subject {
	if s == nil || s.kind != KindGroup {
		return nil
	}
	if i < 0 || i >= len(s.members) {
		return nil
	}
	return s.members[i]
}

// Members returns a copy of the group's member list.
func (s *Subject) Members() []*Subject {
	if !s.check("subject.Members", KindGroup) {
		return nil
	}
	return append([]*Subject(nil), s.members...)
}
