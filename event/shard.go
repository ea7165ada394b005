package event

import (
	"fmt"
	"time"

	"github.com/shohe/infinitecal/internal/timeutil"
)

// ShardByDay splits every input event into per-day shards keyed by the start
// of the covered day. A single-day event yields one shard whose intra-day
// range is the event's own span; an event covering D+1 days yields up to D+1
// shards: day 0 clipped to [start, 23:59:59], the last day to [00:00, end],
// and middle days covering the whole day. Shards whose clipped span is empty
// or inverted are dropped rather than surfaced as errors.
//
// An event whose end date precedes its start day is a caller contract
// violation and panics.
func ShardByDay(events []Event) map[time.Time][]Event {
	result := make(map[time.Time][]Event)

	for _, ev := range events {
		startDay := timeutil.StartOfDay(ev.Start)
		// Both sides from start-of-day, otherwise a 22:00-01:00 event
		// would report zero days between.
		days := timeutil.DaysBetween(startDay, ev.EffectiveEnd(), true)
		if days < 0 {
			panic(fmt.Sprintf("event %s: end date %v precedes start %v", ev.ID, ev.EffectiveEnd(), ev.Start))
		}

		if days == 0 {
			shard := ev
			shard.IntraStart = ev.Start
			shard.IntraEnd = ev.EffectiveEnd()
			if !shard.IntraStart.Before(shard.IntraEnd) {
				continue
			}
			result[startDay] = append(result[startDay], shard)
			continue
		}

		for day := 0; day <= days; day++ {
			cur := timeutil.AddDays(startDay, day)
			shard := ev
			switch day {
			case 0:
				shard.IntraStart = ev.Start
				shard.IntraEnd = timeutil.EndOfDay(startDay)
			case days:
				shard.IntraStart = cur
				shard.IntraEnd = ev.EffectiveEnd()
			default:
				shard.IntraStart = cur
				shard.IntraEnd = timeutil.EndOfDay(cur)
			}
			// A 0:00-0:00 tail shard carries no visible span.
			if !shard.IntraStart.Before(shard.IntraEnd) {
				continue
			}
			result[cur] = append(result[cur], shard)
		}
	}

	return result
}
