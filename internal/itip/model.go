// Package itip implements the iTIP Snapshot Extractor: it folds a parsed
// iCalendar object into a normalized, validated, instance-indexed
// ItipSnapshots value suitable for driving scheduling decisions elsewhere
// (a comparator, a notifier — neither of which lives in this package).
//
// The package is purely synchronous and allocates no shared state across
// calls: every exported entry point is safe to call concurrently from
// distinct goroutines over distinct calendars, per spec.md §5.
package itip

import (
	"time"

	"github.com/teambition/rrule-go"

	ical "github.com/sonroyaalmerol/itip-snapshot/pkg/ical"
)

// Email is a calendar-address participant identity (spec.md §3). Address is
// normalized (lower-cased, "mailto:" stripped, trimmed); IsLocal is true iff
// Address appears in the account address set the extraction was run with.
type Email struct {
	Address string
	IsLocal bool
}

// ScheduleAgent is the RFC 6638 SCHEDULE-AGENT parameter value.
type ScheduleAgent string

const (
	ScheduleAgentServer ScheduleAgent = "SERVER"
	ScheduleAgentClient ScheduleAgent = "CLIENT"
)

// PartStat is the RFC 5545 §3.2.12 PARTSTAT parameter value.
type PartStat string

const (
	PartStatNeedsAction PartStat = "NEEDS-ACTION"
	PartStatAccepted    PartStat = "ACCEPTED"
	PartStatDeclined    PartStat = "DECLINED"
	PartStatTentative   PartStat = "TENTATIVE"
	PartStatDelegated   PartStat = "DELEGATED"
)

// CUType is the RFC 5545 §3.2.3 CUTYPE parameter value.
type CUType string

const (
	CUTypeIndividual CUType = "INDIVIDUAL"
	CUTypeGroup      CUType = "GROUP"
	CUTypeResource   CUType = "RESOURCE"
	CUTypeRoom       CUType = "ROOM"
	CUTypeUnknown    CUType = "UNKNOWN"
)

// Role is the RFC 5545 §3.2.16 ROLE parameter value.
type Role string

const (
	RoleChair          Role = "CHAIR"
	RoleReqParticipant Role = "REQ-PARTICIPANT"
	RoleOptParticipant Role = "OPT-PARTICIPANT"
	RoleNonParticipant Role = "NON-PARTICIPANT"
)

// Organizer is the scheduling object's single ORGANIZER (spec.md §3).
type Organizer struct {
	EntryID            int
	Email              Email
	IsServerScheduling bool
	ForceSend          string
	HasForceSend       bool
}

// Attendee is one ATTENDEE entry (spec.md §3).
type Attendee struct {
	EntryID            int
	Email              Email
	RSVP               *bool
	IsServerScheduling bool
	ForceSend          string
	HasForceSend       bool
	PartStat           PartStat
	HasPartStat        bool
	DelegatedFrom      []Email
	DelegatedTo        []Email
	CUType             CUType
	HasCUType          bool
	Role               Role
	HasRole            bool
	SentBy             *Email
}

// InstanceKind tags an InstanceID as the main instance or a recurrence
// override (spec.md §3).
type InstanceKind int

const (
	InstanceMain InstanceKind = iota
	InstanceRecurrence
)

// RecurrenceID identifies one recurrence override (spec.md §3).
type RecurrenceID struct {
	EntryID       int
	Date          int64 // absolute Unix seconds
	ThisAndFuture bool
}

// InstanceID keys ItipSnapshots.Components. It is comparable, so it can be
// used directly as a Go map key (spec.md §3 I4: "Every InstanceId key is
// unique within components").
type InstanceID struct {
	Kind       InstanceKind
	Recurrence RecurrenceID
}

// MainInstanceID is the InstanceID of a scheduling object's master
// component.
var MainInstanceID = InstanceID{Kind: InstanceMain}

// ItipDateTimeValueKind is the closed set of shapes an ItipEntryValue can
// take (spec.md §3, "ItipEntryValue is a sum over the reduced set the
// comparator needs").
type ItipDateTimeValueKind int

const (
	ValueText ItipDateTimeValueKind = iota
	ValueDateTime
	ValueDuration
	ValueRRule
	ValuePeriod
	ValueInteger
	ValueStatus
)

// ItipDateTime pairs a date-time's original partial form with the absolute
// timestamp resolved from it (spec.md §3).
type ItipDateTime struct {
	Date      *ical.PartialDateTime
	TZID      string
	HasTZID   bool
	Timestamp int64
}

// ItipEntryValue is the reduced value set the comparator needs (spec.md
// §3/§4.C). Raw is always populated with the entry's original text and is
// used as the dedup key for ItipSnapshot.Entries — two entries of the same
// PropertyKind with the same Raw text are the same entry (spec.md §4.E,
// "The entry set is keyed by (property-kind, value); duplicates collapse.").
type ItipEntryValue struct {
	Kind     ItipDateTimeValueKind
	Raw      string
	Text     string
	DateTime ItipDateTime
	Duration time.Duration
	RRule    *rrule.ROption
	Period   ical.Period
	Integer  int64
	Status   string
}

// ItipEntry is one deduplicated property occurrence inside an ItipSnapshot
// (spec.md §3).
type ItipEntry struct {
	Name  ical.PropertyKind
	Value ItipEntryValue
}

func (e ItipEntry) key() string {
	return entryKey(e.Name, e.Value.Raw)
}

// ItipSnapshot is one scheduling component's folded view (spec.md §3).
type ItipSnapshot struct {
	CompID         int
	Comp           *ical.Component
	Attendees      *AttendeeSet
	Dtstamp        *ical.PartialDateTime
	Entries        *EntrySet
	Sequence       *int64
	RequestStatus  []string
}

// ItipSnapshots is the whole-document result of extraction (spec.md §3).
type ItipSnapshots struct {
	Organizer  Organizer
	UID        string
	Components map[InstanceID]*ItipSnapshot
}
