package event

import "time"

// Bucket maps calendar days to the event shards occurring on them, split
// into all-day and timed sublists. It is rebuilt wholesale whenever the
// caller replaces the event set; there is no incremental patching.
type Bucket struct {
	allDay map[time.Time][]Event
	timed  map[time.Time][]Event
}

// NewBucket shards the given events and partitions every day's shards into
// all-day and timed lists.
func NewBucket(events []Event) *Bucket {
	b := &Bucket{
		allDay: make(map[time.Time][]Event),
		timed:  make(map[time.Time][]Event),
	}
	for day, shards := range ShardByDay(events) {
		for _, s := range shards {
			if s.IsAllDay {
				b.allDay[day] = append(b.allDay[day], s)
			} else {
				b.timed[day] = append(b.timed[day], s)
			}
		}
	}
	return b
}

// TimedOn returns the timed shards for a day, in input order.
func (b *Bucket) TimedOn(day time.Time) []Event {
	return b.timed[day]
}

// AllDayOn returns the all-day shards for a day.
func (b *Bucket) AllDayOn(day time.Time) []Event {
	return b.allDay[day]
}

// AllDayCountOn is the number of all-day shards on a day.
func (b *Bucket) AllDayCountOn(day time.Time) int {
	return len(b.allDay[day])
}
