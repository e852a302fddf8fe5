package ical

import (
	"strconv"
	"strings"
	"time"

	goical "github.com/emersion/go-ical"
)

// TzResolver builds a tz-id -> offset/rule table from a calendar's VTIMEZONE
// sibling components (spec.md §4.B, component B) and resolves a TZID
// reference against it. It is built once per extraction (internal/itip's
// document snapshotter calls BuildTzResolver eagerly, before walking the
// components) and is pure relative to the calendar it was built from.
type TzResolver struct {
	locations map[string]*time.Location
}

// BuildTzResolver inspects every VTIMEZONE component in cal and returns a
// resolver covering all of them. Two resolution strategies are tried per
// VTIMEZONE, in order:
//
//  1. The TZID is a recognized IANA zone name (time.LoadLocation succeeds)
//     — this covers the overwhelming majority of real-world calendars,
//     whose VTIMEZONE components mirror an Olson database entry even though
//     RFC 5545 doesn't require it.
//  2. Otherwise, a fixed-offset zone is synthesized from the first
//     STANDARD (or, failing that, DAYLIGHT) sub-component's TZOFFSETTO.
//     This loses daylight-saving transitions for truly custom time zones,
//     but those are rare in practice and spec.md §8 only requires that
//     resolution either succeeds or degrades to the floating fallback —
//     never that it reproduce a full transition table. See DESIGN.md for
//     the reasoning behind not hand-rolling an RRULE-based transition
//     engine here.
//
// A VTIMEZONE that resolves via neither strategy is simply absent from the
// table; resolving its TZID later falls back to the floating handle.
func BuildTzResolver(cal *Calendar) *TzResolver {
	r := &TzResolver{locations: make(map[string]*time.Location)}
	if cal == nil || cal.raw == nil {
		return r
	}
	for _, child := range cal.raw.Children {
		if child.Name != goical.CompTimezone {
			continue
		}
		tzidProp := child.Props.Get(goical.PropTimezoneID)
		if tzidProp == nil || tzidProp.Value == "" {
			continue
		}
		tzid := tzidProp.Value

		if loc, err := time.LoadLocation(tzid); err == nil {
			r.locations[tzid] = loc
			continue
		}

		if loc, ok := fixedZoneFromVTimezone(tzid, child); ok {
			r.locations[tzid] = loc
		}
	}
	return r
}

func fixedZoneFromVTimezone(tzid string, vtz *goical.Component) (*time.Location, bool) {
	var chosen *goical.Component
	for _, sub := range vtz.Children {
		if sub.Name == goical.CompTimezoneStandard {
			chosen = sub
			break
		}
	}
	if chosen == nil {
		for _, sub := range vtz.Children {
			if sub.Name == goical.CompTimezoneDaylight {
				chosen = sub
				break
			}
		}
	}
	if chosen == nil {
		return nil, false
	}
	offsetProp := chosen.Props.Get(goical.PropTimezoneOffsetTo)
	if offsetProp == nil {
		return nil, false
	}
	seconds, ok := parseUTCOffset(offsetProp.Value)
	if !ok {
		return nil, false
	}
	name := tzid
	if nameProp := chosen.Props.Get(goical.PropTimezoneName); nameProp != nil && nameProp.Value != "" {
		name = nameProp.Value
	}
	return time.FixedZone(name, seconds), true
}

// parseUTCOffset parses an RFC 5545 §3.3.14 utc-offset value ("+HHMM[SS]"
// or "-HHMM[SS]") into a signed second count.
func parseUTCOffset(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 5 && len(s) != 7 {
		return 0, false
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, false
	}
	h, err1 := strconv.Atoi(s[1:3])
	m, err2 := strconv.Atoi(s[3:5])
	sec := 0
	var err3 error
	if len(s) == 7 {
		sec, err3 = strconv.Atoi(s[5:7])
	}
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return sign * (h*3600 + m*60 + sec), true
}

// TzHandle is sufficient to convert a PartialDateTime to an absolute UTC
// instant (spec.md §6). A zero-value TzHandle represents the floating/UTC
// case and makes ToDateTimeWithTZ fail for any non-UTC value, matching
// "When tz_id is None or the id is unknown the handle represents
// floating/UTC per iCalendar rules."
type TzHandle struct {
	loc *time.Location
}

func (h TzHandle) location() *time.Location { return h.loc }

// Resolve looks up tzID in the table, returning a floating handle if tzID
// is empty/absent or unknown. An unknown-but-real IANA name not backed by
// an embedded VTIMEZONE (common when senders omit the VTIMEZONE block) is
// still resolved via time.LoadLocation and cached for the remainder of this
// resolver's lifetime.
func (r *TzResolver) Resolve(tzID string) TzHandle {
	if r == nil || tzID == "" {
		return TzHandle{}
	}
	if loc, ok := r.locations[tzID]; ok {
		return TzHandle{loc: loc}
	}
	if loc, err := time.LoadLocation(tzID); err == nil {
		r.locations[tzID] = loc
		return TzHandle{loc: loc}
	}
	return TzHandle{}
}
