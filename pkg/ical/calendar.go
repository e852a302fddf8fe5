// Package ical adapts github.com/emersion/go-ical's generic property/value
// model into the typed parser-collaborator contract that spec.md §6
// describes: an ordered sequence of components, each exposing entries with
// a closed PropertyKind, ordered values with typed projections, and ordered
// parameters, plus a document-level time-zone resolver.
//
// It intentionally does not reimplement RFC 5545 tokenizing or folding —
// that parser is out of scope per spec.md §1 — it only gives the scheduling
// core (internal/itip) a stable, typed view over an already-decoded
// *ical.Calendar.
package ical

import (
	"bytes"
	"io"
	"sort"

	goical "github.com/emersion/go-ical"
)

// Calendar is a decoded iCalendar object: an ordered sequence of top-level
// components (VEVENT, VTODO, VTIMEZONE, ...), mirroring the teacher's own
// pkg/ical.Calendar but carrying the raw go-ical tree instead of a single
// flattened Event, since the extractor needs every sibling component
// (VTIMEZONE in particular) and every raw property/parameter, not just the
// fields the teacher's scheduling.go projected.
type Calendar struct {
	raw        *goical.Calendar
	Components []*Component
}

// Decode parses iCalendar data into a Calendar, grounded on the teacher's
// pkg/ical.ParseCalendar / NormalizeICS decode pattern.
func Decode(data []byte) (*Calendar, error) {
	cal, err := goical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, err
	}
	return FromGoICal(cal), nil
}

// DecodeReader is the io.Reader-based counterpart to Decode.
func DecodeReader(r io.Reader) (*Calendar, error) {
	cal, err := goical.NewDecoder(r).Decode()
	if err != nil {
		return nil, err
	}
	return FromGoICal(cal), nil
}

// FromGoICal wraps an already-decoded go-ical Calendar without copying any
// of its text: every Component and Entry below holds a pointer back into
// cal, so values are read, never duplicated.
func FromGoICal(cal *goical.Calendar) *Calendar {
	c := &Calendar{raw: cal}
	for _, child := range cal.Children {
		c.Components = append(c.Components, newComponent(child))
	}
	return c
}

// Component is one child component of the calendar (VEVENT, VTODO,
// VJOURNAL, VFREEBUSY, VTIMEZONE, ...).
type Component struct {
	raw     *goical.Component
	Kind    string
	Entries []*Entry
}

func newComponent(raw *goical.Component) *Component {
	c := &Component{raw: raw, Kind: raw.Name}
	// go-ical's Props is a map keyed by property name: it preserves the
	// document order of repeated occurrences of the same property (the
	// slice under each key), but not the relative order between distinct
	// property names. Iterating the map directly would make entry_id
	// assignment, and therefore output, nondeterministic across runs
	// (violating P6). We impose a fixed, deterministic order across names
	// — alphabetical — while preserving go-ical's original within-name
	// order, since every "first wins"/"last wins" rule in spec.md §4.D/§4.E
	// operates within a single repeated property, never across two
	// different ones.
	names := make([]string, 0, len(raw.Props))
	for name := range raw.Props {
		names = append(names, name)
	}
	sort.Strings(names)

	entryID := 0
	for _, name := range names {
		props := raw.Props[name]
		for i := range props {
			c.Entries = append(c.Entries, newEntry(entryID, name, &props[i]))
			entryID++
		}
	}
	return c
}

// IsSchedulingObject reports whether this component's kind can carry iTIP
// scheduling semantics, per spec.md §4.F's precondition predicate.
func (c *Component) IsSchedulingObject() bool {
	switch c.Kind {
	case goical.CompEvent, goical.CompToDo, goical.CompJournal, goical.CompFreeBusy:
		return true
	default:
		return false
	}
}

// Raw exposes the underlying go-ical component for callers (tests, the tz
// resolver) that need the unprojected tree.
func (c *Component) Raw() *goical.Component { return c.raw }

// Raw exposes the underlying go-ical calendar.
func (c *Calendar) Raw() *goical.Calendar { return c.raw }
