package itip

import (
	"github.com/teambition/rrule-go"

	ical "github.com/sonroyaalmerol/itip-snapshot/pkg/ical"
)

// ProjectEntryValues builds one ItipEntryValue per raw value entry carries
// (almost always one; RDATE/EXDATE may carry several comma-separated
// values), dispatching on entry.Name the way spec.md §4.C describes. A
// value that doesn't match its property's expected shape degrades to
// ValueText rather than being dropped — the extractor never errors on a
// single malformed value (spec.md §4.C, §7).
func ProjectEntryValues(entry *ical.Entry, resolver *ical.TzResolver) []ItipEntryValue {
	tzID, hasTZID := entry.TZID()
	out := make([]ItipEntryValue, 0, len(entry.Values))
	for _, v := range entry.Values {
		pv, ok := projectOne(entry.Name, v, tzID, hasTZID, resolver)
		if !ok {
			continue
		}
		out = append(out, pv)
	}
	return out
}

func projectOne(name ical.PropertyKind, val *ical.Value, tzID string, hasTZID bool, resolver *ical.TzResolver) (ItipEntryValue, bool) {
	raw, ok := val.AsText()
	if !ok {
		return ItipEntryValue{}, false
	}
	out := ItipEntryValue{Raw: raw}

	switch name {
	case ical.KindDtstamp, ical.KindDtstart, ical.KindDtend, ical.KindDue, ical.KindRecurrenceID, ical.KindCompleted:
		pdt, ok := val.AsPartialDateTime()
		if !ok {
			out.Kind, out.Text = ValueText, raw
			return out, true
		}
		out.Kind = ValueDateTime
		out.DateTime = buildDateTime(pdt, tzID, hasTZID, resolver)

	case ical.KindDuration:
		d, ok := val.AsDuration()
		if !ok {
			out.Kind, out.Text = ValueText, raw
			return out, true
		}
		out.Kind = ValueDuration
		out.Duration = d.ToTimeDuration()

	case ical.KindRRule:
		opt, err := rrule.StrToROption(raw)
		if err != nil {
			out.Kind, out.Text = ValueText, raw
			return out, true
		}
		out.Kind = ValueRRule
		out.RRule = opt

	case ical.KindRdate, ical.KindExdate:
		if per, ok := val.AsPeriod(); ok {
			out.Kind = ValuePeriod
			out.Period = per
			break
		}
		pdt, ok := val.AsPartialDateTime()
		if !ok {
			out.Kind, out.Text = ValueText, raw
			return out, true
		}
		out.Kind = ValueDateTime
		out.DateTime = buildDateTime(pdt, tzID, hasTZID, resolver)

	case ical.KindSequence, ical.KindPriority, ical.KindPercentComplete:
		n, ok := val.AsInteger()
		if !ok {
			out.Kind, out.Text = ValueText, raw
			return out, true
		}
		out.Kind = ValueInteger
		out.Integer = n

	case ical.KindStatus:
		s, _ := val.AsStatus()
		out.Kind, out.Status = ValueStatus, s

	default:
		out.Kind, out.Text = ValueText, raw
	}

	return out, true
}

func buildDateTime(pdt *ical.PartialDateTime, tzID string, hasTZID bool, resolver *ical.TzResolver) ItipDateTime {
	dt := ItipDateTime{Date: pdt, TZID: tzID, HasTZID: hasTZID}
	handle := resolver.Resolve(tzID)
	if t, ok := pdt.ToDateTimeWithTZ(handle); ok {
		dt.Timestamp = t.Unix()
		return dt
	}
	if ts, ok := pdt.ToTimestamp(); ok {
		dt.Timestamp = ts
	}
	return dt
}
