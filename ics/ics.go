// Package ics imports iCalendar data into the calendar's event model.
// Parsing is deliberately forgiving: components the grid cannot show are
// skipped, not fatal.
package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/shohe/infinitecal/event"
	"github.com/shohe/infinitecal/internal/timeutil"
)

// ParseEvents decodes every VEVENT in the stream. Times without a zone are
// interpreted in loc; nil means the process-local zone. Events lacking a
// DTSTART are skipped, events lacking both DTEND and DURATION come back
// open-ended, and date-valued DTSTARTs become all-day events.
func ParseEvents(r io.Reader, loc *time.Location) ([]event.Event, error) {
	if loc == nil {
		loc = time.Local
	}

	dec := ical.NewDecoder(r)
	var events []event.Event
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}

		for _, raw := range cal.Events() {
			ev, ok := convertEvent(raw, loc)
			if !ok {
				continue
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

func convertEvent(raw ical.Event, loc *time.Location) (event.Event, bool) {
	startProp := raw.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return event.Event{}, false
	}
	start, err := startProp.DateTime(loc)
	if err != nil {
		return event.Event{}, false
	}
	allDay := startProp.ValueType() == ical.ValueDate

	ev := event.Event{
		ID:       uuid.NewString(),
		IsAllDay: allDay,
		Start:    start,
	}
	if p := raw.Props.Get(ical.PropUID); p != nil && p.Value != "" {
		ev.ID = p.Value
	}
	if p := raw.Props.Get(ical.PropSummary); p != nil {
		ev.Title = p.Value
	}

	ev.End = eventEnd(raw, start, allDay, loc)
	ev.IntraStart = ev.Start
	ev.IntraEnd = ev.EffectiveEnd()
	return ev, true
}

// eventEnd resolves DTEND or DURATION. All-day DTENDs are exclusive in the
// wire format and become the inclusive end of the previous day.
func eventEnd(raw ical.Event, start time.Time, allDay bool, loc *time.Location) mo.Option[time.Time] {
	if p := raw.Props.Get(ical.PropDateTimeEnd); p != nil {
		end, err := p.DateTime(loc)
		if err != nil {
			return mo.None[time.Time]()
		}
		if allDay {
			end = timeutil.EndOfDay(end.AddDate(0, 0, -1))
		}
		return mo.Some(end)
	}

	if p := raw.Props.Get(ical.PropDuration); p != nil {
		d, err := p.Duration()
		if err != nil {
			return mo.None[time.Time]()
		}
		return mo.Some(start.Add(d))
	}

	if allDay {
		return mo.Some(timeutil.EndOfDay(start))
	}
	return mo.None[time.Time]()
}
