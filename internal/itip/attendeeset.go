package itip

// AttendeeSet is a set of Attendee keyed by normalized email address, with
// stable first-insertion order (spec.md §3 "ItipSnapshot.attendees:
// ordered set<Attendee> (by email identity)", and §4.I's design note:
// "Implement as insertion-ordered map from address to Attendee record").
// Inserting a second Attendee with an address already present is a no-op —
// the first one wins (spec.md §3, §8 "Attendee entries that duplicate an
// address collapse to the first.").
type AttendeeSet struct {
	order []string
	byKey map[string]*Attendee
}

// NewAttendeeSet returns an empty AttendeeSet.
func NewAttendeeSet() *AttendeeSet {
	return &AttendeeSet{byKey: make(map[string]*Attendee)}
}

// Insert adds a, unless an attendee with the same email address is already
// present, in which case it is ignored. Reports whether a was inserted.
func (s *AttendeeSet) Insert(a *Attendee) bool {
	if _, exists := s.byKey[a.Email.Address]; exists {
		return false
	}
	s.byKey[a.Email.Address] = a
	s.order = append(s.order, a.Email.Address)
	return true
}

// Get returns the attendee at address, if any.
func (s *AttendeeSet) Get(address string) (*Attendee, bool) {
	a, ok := s.byKey[address]
	return a, ok
}

// Len returns the number of distinct attendees.
func (s *AttendeeSet) Len() int { return len(s.order) }

// Slice returns every attendee in first-insertion order. The returned slice
// is owned by the caller; mutating it does not affect the set.
func (s *AttendeeSet) Slice() []*Attendee {
	out := make([]*Attendee, 0, len(s.order))
	for _, addr := range s.order {
		out = append(out, s.byKey[addr])
	}
	return out
}
