package itip

// ErrorKind is the closed set of reasons extraction fails (spec.md §4.G).
type ErrorKind int

const (
	// NoSchedulingInfo: no scheduling component with an organizer.
	NoSchedulingInfo ErrorKind = iota + 1
	// MultipleObjectTypes: VEVENT mixed with VTODO (etc.) within one
	// object bundle.
	MultipleObjectTypes
	// MultipleOrganizer: two different organizer addresses.
	MultipleOrganizer
	// MultipleUid: two different non-empty UIDs.
	MultipleUid
	// MultipleObjectInstances: two components resolved to the same
	// InstanceId.
	MultipleObjectInstances
	// MissingUid: no non-empty UID anywhere.
	MissingUid
	// OtherSchedulingAgent: client-scheduled and override flag not set.
	OtherSchedulingAgent
	// NotOrganizerNorAttendee: no local address found in any role.
	NotOrganizerNorAttendee
)

func (k ErrorKind) String() string {
	switch k {
	case NoSchedulingInfo:
		return "no_scheduling_info"
	case MultipleObjectTypes:
		return "multiple_object_types"
	case MultipleOrganizer:
		return "multiple_organizer"
	case MultipleUid:
		return "multiple_uid"
	case MultipleObjectInstances:
		return "multiple_object_instances"
	case MissingUid:
		return "missing_uid"
	case OtherSchedulingAgent:
		return "other_scheduling_agent"
	case NotOrganizerNorAttendee:
		return "not_organizer_nor_attendee"
	default:
		return "unknown"
	}
}

// Error wraps an ErrorKind as a Go error. Extraction is all-or-nothing
// (spec.md §7): there is never a partial ItipSnapshots alongside an error.
type Error struct {
	Kind ErrorKind
}

func (e *Error) Error() string { return "itip: " + e.Kind.String() }

// Is lets callers use errors.Is(err, itip.ErrMissingUid) etc. without
// depending on pointer identity.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

func newError(kind ErrorKind) *Error { return &Error{Kind: kind} }

// Sentinel errors, one per ErrorKind, for use with errors.Is.
var (
	ErrNoSchedulingInfo        = newError(NoSchedulingInfo)
	ErrMultipleObjectTypes     = newError(MultipleObjectTypes)
	ErrMultipleOrganizer       = newError(MultipleOrganizer)
	ErrMultipleUid             = newError(MultipleUid)
	ErrMultipleObjectInstances = newError(MultipleObjectInstances)
	ErrMissingUid              = newError(MissingUid)
	ErrOtherSchedulingAgent    = newError(OtherSchedulingAgent)
	ErrNotOrganizerNorAttendee = newError(NotOrganizerNorAttendee)
)
