package itip

import (
	ical "github.com/sonroyaalmerol/itip-snapshot/pkg/ical"
)

// deriveInstanceID computes the InstanceID a RECURRENCE-ID entry promotes
// its component to (spec.md §4.D). If multiple RECURRENCE-ID properties
// appear in one component, the caller (the component snapshotter) invokes
// this once per occurrence and keeps only the last result — "last one
// wins" is a property of call order, not of this function.
//
// The second return value reports whether entry carried a parsable date at
// all. A RECURRENCE-ID with no parsable value contributes nothing — per the
// Rust source, instance_id is only reassigned when a date is present — so
// the caller must leave any previously derived instance id untouched rather
// than reverting the component to Main.
func deriveInstanceID(entry *ical.Entry, resolver *ical.TzResolver) (InstanceID, bool) {
	date, ok := entry.FirstPartialDateTime()
	if !ok {
		return InstanceID{}, false
	}

	thisAndFuture := false
	if v, ok := entry.Param("RANGE"); ok && v == "THISANDFUTURE" {
		thisAndFuture = true
	}

	tzID, _ := entry.TZID()

	timestamp := resolveTimestamp(date, tzID, resolver)

	return InstanceID{
		Kind: InstanceRecurrence,
		Recurrence: RecurrenceID{
			EntryID:       entry.EntryID,
			Date:          timestamp,
			ThisAndFuture: thisAndFuture,
		},
	}, true
}

// resolveTimestamp resolves a PartialDateTime against the tz resolver's
// handle for tzID, falling back to the floating interpretation if either
// resolution fails or no TZID applies (spec.md §4.B/§4.C/§8: "A
// RECURRENCE-ID whose TZID is unknown falls back to the value's floating
// timestamp (never errors).").
func resolveTimestamp(date *ical.PartialDateTime, tzID string, resolver *ical.TzResolver) int64 {
	handle := resolver.Resolve(tzID)
	if dt, ok := date.ToDateTimeWithTZ(handle); ok {
		return dt.Unix()
	}
	ts, _ := date.ToTimestamp()
	return ts
}
