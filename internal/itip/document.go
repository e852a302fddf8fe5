package itip

import (
	ical "github.com/sonroyaalmerol/itip-snapshot/pkg/ical"
)

// ExtractSnapshot folds cal into an ItipSnapshots, per spec.md §4.F. It is
// the package's single entry point: a pure function of cal and accounts
// (and forceAddClientScheduling) with no shared state across calls, so
// distinct goroutines may call it over distinct calendars without
// coordination (spec.md §5).
//
// forceAddClientScheduling mirrors the Rust source's same-named flag: when
// false, any SCHEDULE-AGENT=CLIENT organizer rejects the whole document
// with ErrOtherSchedulingAgent; when true, client-scheduled organizers are
// accepted and Organizer.IsServerScheduling is false.
func ExtractSnapshot(cal *ical.Calendar, accounts AccountSet, forceAddClientScheduling bool) (*ItipSnapshots, error) {
	if !hasSchedulingOrganizer(cal) {
		return nil, ErrNoSchedulingInfo
	}

	resolver := ical.BuildTzResolver(cal)
	ctx := &snapshotContext{
		accounts:                 accounts,
		forceAddClientScheduling: forceAddClientScheduling,
		resolver:                 resolver,
	}

	components := make(map[InstanceID]*ItipSnapshot)
	var firstKind string

	for compID, comp := range cal.Components {
		if !comp.IsSchedulingObject() {
			continue
		}

		if firstKind == "" {
			firstKind = comp.Kind
		} else if comp.Kind != firstKind {
			return nil, ErrMultipleObjectTypes
		}

		snap, instanceID, err := snapshotComponent(comp, compID, ctx)
		if err != nil {
			return nil, err
		}

		if _, exists := components[instanceID]; exists {
			return nil, ErrMultipleObjectInstances
		}
		components[instanceID] = snap
	}

	if !ctx.hasLocalEmails {
		return nil, ErrNotOrganizerNorAttendee
	}
	if !ctx.hasOrganizer {
		return nil, ErrNoSchedulingInfo
	}
	if ctx.uid == "" {
		return nil, ErrMissingUid
	}

	return &ItipSnapshots{
		Organizer:  ctx.organizer,
		UID:        ctx.uid,
		Components: components,
	}, nil
}

// hasSchedulingOrganizer is the precondition gate of spec.md §4.F: at least
// one scheduling-object component must carry an ORGANIZER property before
// any per-component work begins.
func hasSchedulingOrganizer(cal *ical.Calendar) bool {
	for _, comp := range cal.Components {
		if !comp.IsSchedulingObject() {
			continue
		}
		for _, entry := range comp.Entries {
			if entry.Name == ical.KindOrganizer {
				return true
			}
		}
	}
	return false
}
