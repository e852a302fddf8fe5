package itip

// AttendeeByEmail returns the attendee in snap whose normalized address
// equals address, per spec.md §4.H. address is normalized the same way
// Classify normalizes an ORGANIZER/ATTENDEE value, so callers may pass a
// bare address, a "mailto:" URI, or mixed case.
func (snap *ItipSnapshot) AttendeeByEmail(address string) (*Attendee, bool) {
	return snap.Attendees.Get(normalizeAddress(address))
}
