package ical

import (
	"strings"

	goical "github.com/emersion/go-ical"
)

// PropertyKind is the closed set of iCalendar properties the scheduling core
// cares about (spec.md §3, "PropertyKind"). Every other property name maps
// to KindOther and is ignored by internal/itip's component snapshotter.
type PropertyKind int

const (
	KindOther PropertyKind = iota
	KindOrganizer
	KindAttendee
	KindUID
	KindSequence
	KindRecurrenceID
	KindRequestStatus
	KindDtstamp
	KindDtstart
	KindDtend
	KindDuration
	KindDue
	KindRRule
	KindRdate
	KindExdate
	KindStatus
	KindLocation
	KindSummary
	KindDescription
	KindPriority
	KindPercentComplete
	KindCompleted
)

var kindByName = map[string]PropertyKind{
	goical.PropOrganizer:       KindOrganizer,
	goical.PropAttendee:        KindAttendee,
	goical.PropUID:             KindUID,
	goical.PropSequence:        KindSequence,
	goical.PropRecurrenceID:    KindRecurrenceID,
	goical.PropRequestStatus:   KindRequestStatus,
	goical.PropDateTimeStamp:   KindDtstamp,
	goical.PropDateTimeStart:   KindDtstart,
	goical.PropDateTimeEnd:     KindDtend,
	goical.PropDuration:        KindDuration,
	goical.PropDue:             KindDue,
	goical.PropRecurrenceRule:  KindRRule,
	goical.PropRecurrenceDates: KindRdate,
	goical.PropExceptionDates:  KindExdate,
	goical.PropStatus:          KindStatus,
	goical.PropLocation:        KindLocation,
	goical.PropSummary:         KindSummary,
	goical.PropDescription:     KindDescription,
	goical.PropPriority:        KindPriority,
	goical.PropPercentComplete: KindPercentComplete,
	goical.PropCompleted:       KindCompleted,
}

// multiValued lists the property kinds whose value may be a comma-separated
// list within a single line, per RFC 5545 (RDATE/EXDATE). Every other kind
// is treated as single-valued even if the property repeats — repeats
// produce distinct Entry values, not a multi-valued single Entry.
var multiValued = map[PropertyKind]bool{
	KindRdate: true,
	KindExdate: true,
}

// Entry is one occurrence of a property inside a component, with its
// ordinal position (EntryID), its closed Kind, its raw name (for anything
// KindOther), its parameter set, and its list of projected Values.
type Entry struct {
	EntryID int
	Name    PropertyKind
	RawName string
	Values  []*Value
	params  goical.Params
}

func newEntry(entryID int, name string, prop *goical.Prop) *Entry {
	kind := kindByName[name]
	e := &Entry{
		EntryID: entryID,
		Name:    kind,
		RawName: name,
		params:  prop.Params,
	}
	if multiValued[kind] {
		for _, part := range strings.Split(prop.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			e.Values = append(e.Values, newValue(part))
		}
	} else {
		e.Values = append(e.Values, newValue(prop.Value))
	}
	return e
}

// TZID returns the entry's TZID parameter, if any, per spec.md §6's
// "An entry offers tz_id() -> Option<&str> reflecting any TZID parameter."
func (e *Entry) TZID() (string, bool) {
	v := e.params.Get(goical.ParamTimezoneID)
	if v == "" {
		return "", false
	}
	return v, true
}

// Param returns the first value of a named parameter, case-sensitively
// matching the iCalendar parameter name (e.g. "SCHEDULE-AGENT").
func (e *Entry) Param(name string) (string, bool) {
	v := e.params.Get(name)
	if v == "" {
		return "", false
	}
	return v, true
}

// ParamList returns every value of a named, possibly repeated-by-comma
// parameter (DELEGATED-FROM, DELEGATED-TO), in document order.
func (e *Entry) ParamList(name string) []string {
	return e.params.Values(name)
}

// FirstText is the "entry.values.first().and_then(|v| v.as_text())"
// projection used by spec.md §4.E for ORGANIZER, ATTENDEE and UID — the
// first value's text form, or false if there is no first value or it isn't
// text-shaped.
func (e *Entry) FirstText() (string, bool) {
	if len(e.Values) == 0 {
		return "", false
	}
	return e.Values[0].AsText()
}

// FirstInteger is the equivalent first-value integer projection, used for
// SEQUENCE.
func (e *Entry) FirstInteger() (int64, bool) {
	if len(e.Values) == 0 {
		return 0, false
	}
	return e.Values[0].AsInteger()
}

// FirstPartialDateTime is the equivalent first-value partial-date-time
// projection, used for RECURRENCE-ID and DTSTAMP.
func (e *Entry) FirstPartialDateTime() (*PartialDateTime, bool) {
	if len(e.Values) == 0 {
		return nil, false
	}
	return e.Values[0].AsPartialDateTime()
}
