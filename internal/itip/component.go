package itip

import (
	"strings"

	ical "github.com/sonroyaalmerol/itip-snapshot/pkg/ical"
)

// snapshotContext accumulates the document-level side outputs the component
// snapshotter writes while folding one scheduling component (spec.md §4.E:
// "side outputs written to enclosing context: the chosen organizer ...,
// the component's UID ..., and a running has_local_emails flag"). The
// document snapshotter (document.go) owns one of these per extraction and
// reads it back after the walk.
type snapshotContext struct {
	accounts                 AccountSet
	forceAddClientScheduling bool
	resolver                 *ical.TzResolver

	hasOrganizer bool
	organizer    Organizer

	uid string

	hasLocalEmails bool
}

// snapshotComponent folds one scheduling component's properties and
// parameters into an ItipSnapshot, per spec.md §4.E's per-property contract.
// It returns the InstanceID the component resolved to (Main unless a
// RECURRENCE-ID promoted it) alongside the snapshot.
func snapshotComponent(comp *ical.Component, compID int, ctx *snapshotContext) (*ItipSnapshot, InstanceID, error) {
	snap := &ItipSnapshot{
		CompID:    compID,
		Comp:      comp,
		Attendees: NewAttendeeSet(),
		Entries:   NewEntrySet(),
	}
	instanceID := MainInstanceID

	for _, entry := range comp.Entries {
		switch entry.Name {
		case ical.KindOrganizer:
			if err := applyOrganizer(entry, ctx); err != nil {
				return nil, InstanceID{}, err
			}

		case ical.KindAttendee:
			applyAttendee(entry, snap, ctx)

		case ical.KindUID:
			if err := applyUID(entry, ctx); err != nil {
				return nil, InstanceID{}, err
			}

		case ical.KindSequence:
			if n, ok := entry.FirstInteger(); ok {
				snap.Sequence = &n
			}

		case ical.KindRecurrenceID:
			if id, ok := deriveInstanceID(entry, ctx.resolver); ok {
				instanceID = id
			}

		case ical.KindRequestStatus:
			if s, ok := entry.FirstText(); ok {
				snap.RequestStatus = append(snap.RequestStatus, s)
			}

		case ical.KindDtstamp:
			if d, ok := entry.FirstPartialDateTime(); ok {
				snap.Dtstamp = d
			}

		default:
			if entry.Name == ical.KindOther {
				continue
			}
			for _, v := range ProjectEntryValues(entry, ctx.resolver) {
				snap.Entries.Insert(ItipEntry{Name: entry.Name, Value: v})
			}
		}
	}

	return snap, instanceID, nil
}

func applyOrganizer(entry *ical.Entry, ctx *snapshotContext) error {
	text, ok := entry.FirstText()
	if !ok {
		return nil
	}
	email, ok := Classify(text, ctx.accounts)
	if !ok {
		return nil
	}

	org := Organizer{
		EntryID:            entry.EntryID,
		Email:              email,
		IsServerScheduling: scheduleAgentIsServer(entry),
	}
	if fs, ok := forceSend(entry); ok {
		org.ForceSend, org.HasForceSend = fs, true
	}

	if !org.IsServerScheduling && !ctx.forceAddClientScheduling {
		return ErrOtherSchedulingAgent
	}

	if ctx.hasOrganizer {
		if ctx.organizer.Email.Address != org.Email.Address {
			return ErrMultipleOrganizer
		}
	} else {
		ctx.hasOrganizer = true
		ctx.organizer = org
	}

	if email.IsLocal {
		ctx.hasLocalEmails = true
	}
	return nil
}

func applyAttendee(entry *ical.Entry, snap *ItipSnapshot, ctx *snapshotContext) {
	text, ok := entry.FirstText()
	if !ok {
		return
	}
	email, ok := Classify(text, ctx.accounts)
	if !ok {
		return
	}

	att := &Attendee{
		EntryID:            entry.EntryID,
		Email:              email,
		IsServerScheduling: scheduleAgentIsServer(entry),
	}
	if fs, ok := forceSend(entry); ok {
		att.ForceSend, att.HasForceSend = fs, true
	}
	if v, ok := entry.Param("RSVP"); ok {
		b := strings.EqualFold(v, "TRUE")
		att.RSVP = &b
	}
	if v, ok := entry.Param("PARTSTAT"); ok {
		att.PartStat, att.HasPartStat = PartStat(strings.ToUpper(v)), true
	}
	if v, ok := entry.Param("CUTYPE"); ok {
		att.CUType, att.HasCUType = CUType(strings.ToUpper(v)), true
	}
	if v, ok := entry.Param("ROLE"); ok {
		att.Role, att.HasRole = Role(strings.ToUpper(v)), true
	}
	if v, ok := entry.Param("SENT-BY"); ok {
		if e, ok := FromURI(v, ctx.accounts); ok {
			att.SentBy = &e
		}
	}
	for _, uri := range entry.ParamList("DELEGATED-FROM") {
		if e, ok := FromURI(uri, ctx.accounts); ok {
			att.DelegatedFrom = append(att.DelegatedFrom, e)
		}
	}
	for _, uri := range entry.ParamList("DELEGATED-TO") {
		if e, ok := FromURI(uri, ctx.accounts); ok {
			att.DelegatedTo = append(att.DelegatedTo, e)
		}
	}

	snap.Attendees.Insert(att)

	if email.IsLocal && (att.IsServerScheduling || ctx.forceAddClientScheduling) {
		ctx.hasLocalEmails = true
	}
}

func applyUID(entry *ical.Entry, ctx *snapshotContext) error {
	text, ok := entry.FirstText()
	if !ok {
		return nil
	}
	uid := strings.TrimSpace(text)
	if uid == "" {
		return nil
	}
	if ctx.uid == "" {
		ctx.uid = uid
	} else if ctx.uid != uid {
		return ErrMultipleUid
	}
	return nil
}

func scheduleAgentIsServer(entry *ical.Entry) bool {
	v, ok := entry.Param("SCHEDULE-AGENT")
	if !ok {
		return true
	}
	return !strings.EqualFold(v, "CLIENT")
}

func forceSend(entry *ical.Entry) (string, bool) {
	return entry.Param("SCHEDULE-FORCE-SEND")
}
