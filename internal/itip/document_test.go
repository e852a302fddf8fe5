package itip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ical "github.com/sonroyaalmerol/itip-snapshot/pkg/ical"
)

func decode(t *testing.T, data string) *ical.Calendar {
	t.Helper()
	cal, err := ical.Decode([]byte(data))
	require.NoError(t, err)
	return cal
}

// Scenario 1: one organizer (local), two attendees (one local, one remote).
func TestExtractSnapshotSingleEventTwoAttendees(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE;PARTSTAT=ACCEPTED:mailto:bob@example.com
ATTENDEE;PARTSTAT=NEEDS-ACTION:mailto:carol@remote.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com", "bob@example.com"})

	snap, err := ExtractSnapshot(cal, accounts, false)
	require.NoError(t, err)
	assert.Equal(t, "a@x", snap.UID)
	assert.True(t, snap.Organizer.Email.IsLocal)

	main, ok := snap.Components[MainInstanceID]
	require.True(t, ok)
	assert.Equal(t, 2, main.Attendees.Len())
}

// Scenario 2: two VEVENTs sharing a UID, one bearing a RECURRENCE-ID.
func TestExtractSnapshotMainAndRecurrence(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
RECURRENCE-ID:20240101T090000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	snap, err := ExtractSnapshot(cal, accounts, false)
	require.NoError(t, err)
	require.Len(t, snap.Components, 2)

	_, hasMain := snap.Components[MainInstanceID]
	assert.True(t, hasMain)

	var found bool
	for id := range snap.Components {
		if id.Kind == InstanceRecurrence {
			found = true
			assert.Equal(t, int64(1704099600), id.Recurrence.Date)
			assert.False(t, id.Recurrence.ThisAndFuture)
		}
	}
	assert.True(t, found)
}

// Scenario 3: differing UIDs fail with MultipleUid.
func TestExtractSnapshotDifferingUIDsFail(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
BEGIN:VEVENT
UID:b@x
DTSTAMP:20240101T000000Z
RECURRENCE-ID:20240101T090000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	_, err := ExtractSnapshot(cal, accounts, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMultipleUid))
}

// Scenario 4: VEVENT mixed with VTODO fails with MultipleObjectTypes.
func TestExtractSnapshotMixedObjectTypesFail(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
BEGIN:VTODO
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VTODO
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	_, err := ExtractSnapshot(cal, accounts, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMultipleObjectTypes))
}

// Scenario 5: client-scheduled organizer is rejected unless overridden.
func TestExtractSnapshotClientScheduledOrganizer(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER;SCHEDULE-AGENT=CLIENT:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	_, err := ExtractSnapshot(cal, accounts, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOtherSchedulingAgent))

	snap, err := ExtractSnapshot(cal, accounts, true)
	require.NoError(t, err)
	assert.False(t, snap.Organizer.IsServerScheduling)
}

// Scenario 6: organizer and attendee both remote fails with NotOrganizerNorAttendee.
func TestExtractSnapshotNoLocalParticipant(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@remote.com
ATTENDEE:mailto:bob@remote.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"carol@example.com"})

	_, err := ExtractSnapshot(cal, accounts, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotOrganizerNorAttendee))
}

// P7: stripping ORGANIZER from every scheduling component fails with
// NoSchedulingInfo regardless of other content.
func TestExtractSnapshotNoOrganizerFailsBeforePerComponentWork(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"bob@example.com"})

	_, err := ExtractSnapshot(cal, accounts, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSchedulingInfo))
}

// Empty UID strings are treated as missing.
func TestExtractSnapshotEmptyUIDIsMissing(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	_, err := ExtractSnapshot(cal, accounts, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingUid))
}

// Attendee entries that duplicate an address collapse to the first.
func TestExtractSnapshotDuplicateAttendeeCollapses(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE;PARTSTAT=ACCEPTED:mailto:bob@example.com
ATTENDEE;PARTSTAT=DECLINED:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	snap, err := ExtractSnapshot(cal, accounts, false)
	require.NoError(t, err)
	main := snap.Components[MainInstanceID]
	require.Equal(t, 1, main.Attendees.Len())

	att, ok := main.AttendeeByEmail("bob@example.com")
	require.True(t, ok)
	assert.Equal(t, PartStatAccepted, att.PartStat)
}

// A RECURRENCE-ID whose TZID is unknown falls back to the value's floating
// timestamp rather than erroring.
func TestExtractSnapshotUnknownTZIDFallsBackToFloating(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
RECURRENCE-ID;TZID=Nowhere/Imaginary:20240101T090000
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	snap, err := ExtractSnapshot(cal, accounts, false)
	require.NoError(t, err)
	require.Len(t, snap.Components, 1)

	for id := range snap.Components {
		assert.Equal(t, InstanceRecurrence, id.Kind)
		assert.Equal(t, int64(1704099600), id.Recurrence.Date)
	}
}

// Two components resolving to the same InstanceId fail with
// MultipleObjectInstances (I4).
func TestExtractSnapshotDuplicateInstanceFails(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	_, err := ExtractSnapshot(cal, accounts, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMultipleObjectInstances))
}

// P6: extracting the same calendar twice produces an identical result.
func TestExtractSnapshotIsDeterministic(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE;PARTSTAT=ACCEPTED:mailto:bob@example.com
ATTENDEE;PARTSTAT=NEEDS-ACTION:mailto:carol@remote.com
SUMMARY:Weekly sync
END:VEVENT
END:VCALENDAR
`
	accounts := NewAccountSet([]string{"alice@example.com"})

	snap1, err := ExtractSnapshot(decode(t, data), accounts, false)
	require.NoError(t, err)
	snap2, err := ExtractSnapshot(decode(t, data), accounts, false)
	require.NoError(t, err)

	assert.Equal(t, snap1.UID, snap2.UID)
	assert.Equal(t, snap1.Organizer.Email, snap2.Organizer.Email)

	main1 := snap1.Components[MainInstanceID]
	main2 := snap2.Components[MainInstanceID]
	require.Equal(t, main1.Attendees.Len(), main2.Attendees.Len())
	for i, a := range main1.Attendees.Slice() {
		assert.Equal(t, a.Email.Address, main2.Attendees.Slice()[i].Email.Address)
	}
	require.Equal(t, main1.Entries.Len(), main2.Entries.Len())
	for i, e := range main1.Entries.Slice() {
		assert.Equal(t, e.Value.Raw, main2.Entries.Slice()[i].Value.Raw)
	}
}

// SEQUENCE overwrites on each subsequent occurrence within a component.
func TestSequenceLastOccurrenceWins(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
SEQUENCE:1
SEQUENCE:2
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	snap, err := ExtractSnapshot(cal, accounts, false)
	require.NoError(t, err)
	main := snap.Components[MainInstanceID]
	require.NotNil(t, main.Sequence)
	assert.Equal(t, int64(2), *main.Sequence)
}

// Two different organizer addresses across components fail with
// MultipleOrganizer (I3).
func TestExtractSnapshotMultipleOrganizerFails(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
RECURRENCE-ID:20240101T090000Z
ORGANIZER:mailto:someone-else@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com", "someone-else@example.com"})

	_, err := ExtractSnapshot(cal, accounts, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMultipleOrganizer))
}

// A repeat ORGANIZER with the same address (P3) is not an error.
func TestExtractSnapshotRepeatOrganizerSameAddressOK(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	snap, err := ExtractSnapshot(cal, accounts, false)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", snap.Organizer.Email.Address)
}

// ATTENDEE parameters DELEGATED-FROM/DELEGATED-TO and SENT-BY are parsed
// into Email lists/pointers via the classifier, discarding unparsable URIs.
func TestExtractSnapshotAttendeeDelegationAndSentBy(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE;DELEGATED-FROM="mailto:dana@example.com";DELEGATED-TO="mailto:erin@example.com";SENT-BY="mailto:assistant@example.com":mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	snap, err := ExtractSnapshot(cal, accounts, false)
	require.NoError(t, err)

	main := snap.Components[MainInstanceID]
	att, ok := main.AttendeeByEmail("bob@example.com")
	require.True(t, ok)

	require.Len(t, att.DelegatedFrom, 1)
	assert.Equal(t, "dana@example.com", att.DelegatedFrom[0].Address)
	require.Len(t, att.DelegatedTo, 1)
	assert.Equal(t, "erin@example.com", att.DelegatedTo[0].Address)
	require.NotNil(t, att.SentBy)
	assert.Equal(t, "assistant@example.com", att.SentBy.Address)
}

// A second, malformed RECURRENCE-ID must not revert a component that a
// prior valid RECURRENCE-ID already promoted to a Recurrence instance.
func TestExtractSnapshotMalformedDuplicateRecurrenceIDKeepsFirst(t *testing.T) {
	data := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
BEGIN:VEVENT
UID:a@x
DTSTAMP:20240101T000000Z
RECURRENCE-ID:20240101T090000Z
RECURRENCE-ID:not-a-date
ORGANIZER:mailto:alice@example.com
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`
	cal := decode(t, data)
	accounts := NewAccountSet([]string{"alice@example.com"})

	snap, err := ExtractSnapshot(cal, accounts, false)
	require.NoError(t, err)
	require.Len(t, snap.Components, 2)

	_, hasMain := snap.Components[MainInstanceID]
	assert.True(t, hasMain)

	var found bool
	for id := range snap.Components {
		if id.Kind == InstanceRecurrence {
			found = true
			assert.Equal(t, int64(1704099600), id.Recurrence.Date)
		}
	}
	assert.True(t, found, "malformed duplicate RECURRENCE-ID must not discard the earlier valid one")
}
