package itip

import (
	"fmt"

	ical "github.com/sonroyaalmerol/itip-snapshot/pkg/ical"
)

// EntrySet is the ordered, deduplicated collection backing
// ItipSnapshot.Entries (spec.md §3/§4.E: "The entry set is keyed by
// (property-kind, value); duplicates collapse."). Like AttendeeSet, it
// preserves first-insertion order for deterministic output (spec.md §8 P6).
type EntrySet struct {
	order []string
	byKey map[string]ItipEntry
}

// NewEntrySet returns an empty EntrySet.
func NewEntrySet() *EntrySet {
	return &EntrySet{byKey: make(map[string]ItipEntry)}
}

// Insert adds e unless an entry with the same (name, value) key is already
// present. Reports whether e was inserted.
func (s *EntrySet) Insert(e ItipEntry) bool {
	k := e.key()
	if _, exists := s.byKey[k]; exists {
		return false
	}
	s.byKey[k] = e
	s.order = append(s.order, k)
	return true
}

// Len returns the number of distinct entries.
func (s *EntrySet) Len() int { return len(s.order) }

// Slice returns every entry in first-insertion order.
func (s *EntrySet) Slice() []ItipEntry {
	out := make([]ItipEntry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out
}

func entryKey(name ical.PropertyKind, raw string) string {
	return fmt.Sprintf("%d|%s", name, raw)
}
