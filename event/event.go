// Package event defines the calendar event model consumed by the layout
// engine, and the per-day sharding that turns multi-day events into intra-day
// slices. Events are plain values owned by the caller; nothing here persists.
package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/shohe/infinitecal/internal/timeutil"
)

// EditState tags an event that is currently being manipulated by a drag
// gesture so renderers can style the preview cell.
type EditState int

const (
	EditNone EditState = iota
	EditMoving
)

// Event is one calendar entry, or one intra-day shard of a multi-day entry.
// For events crossing midnight the same logical event (same ID) appears once
// per covered day, with IntraStart/IntraEnd clipped to that day.
type Event struct {
	// ID is stable across shards of the same logical event.
	ID    string
	Title string

	Start time.Time
	// End is absent for open-ended events; such events run to "now".
	End mo.Option[time.Time]

	IsAllDay  bool
	EditState EditState

	// IntraStart and IntraEnd bound the portion of the event within one
	// calendar day. IntraStart <= IntraEnd always holds for sharded output.
	IntraStart time.Time
	IntraEnd   time.Time
}

// New builds an event with a fresh UUID and its intra-day range initialized
// to the full span.
func New(title string, start time.Time, end mo.Option[time.Time], allDay bool) Event {
	ev := Event{
		ID:         uuid.NewString(),
		Title:      title,
		Start:      start,
		End:        end,
		IsAllDay:   allDay,
		IntraStart: start,
	}
	ev.IntraEnd = ev.EffectiveEnd()
	return ev
}

// EffectiveEnd resolves the open-ended case: events without an end date run
// until now.
func (e Event) EffectiveEnd() time.Time {
	return e.End.OrElse(time.Now())
}

// IntraDuration is the length of the intra-day slice.
func (e Event) IntraDuration() time.Duration {
	return e.IntraEnd.Sub(e.IntraStart)
}

// Day is the calendar day this shard belongs to.
func (e Event) Day() time.Time {
	return timeutil.StartOfDay(e.IntraStart)
}
