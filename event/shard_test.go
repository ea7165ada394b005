package event

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func timed(title string, start, end time.Time) Event {
	return New(title, start, mo.Some(end), false)
}

func TestShardByDaySingleDay(t *testing.T) {
	ev := timed("standup", at(2023, 1, 1, 14, 0), at(2023, 1, 1, 15, 0))

	shards := ShardByDay([]Event{ev})

	require.Len(t, shards, 1)
	got := shards[day(2023, 1, 1)]
	require.Len(t, got, 1)
	assert.Equal(t, ev.ID, got[0].ID)
	assert.Equal(t, at(2023, 1, 1, 14, 0), got[0].IntraStart)
	assert.Equal(t, at(2023, 1, 1, 15, 0), got[0].IntraEnd)
}

func TestShardByDayCrossMidnight(t *testing.T) {
	// Scenario: 2023-01-01 14:00 to 2023-01-02 03:00.
	ev := timed("red-eye", at(2023, 1, 1, 14, 0), at(2023, 1, 2, 3, 0))

	shards := ShardByDay([]Event{ev})

	require.Len(t, shards, 2)

	first := shards[day(2023, 1, 1)]
	require.Len(t, first, 1)
	assert.Equal(t, at(2023, 1, 1, 14, 0), first[0].IntraStart)
	assert.Equal(t, time.Date(2023, 1, 1, 23, 59, 59, 0, time.UTC), first[0].IntraEnd)

	second := shards[day(2023, 1, 2)]
	require.Len(t, second, 1)
	assert.Equal(t, day(2023, 1, 2), second[0].IntraStart)
	assert.Equal(t, at(2023, 1, 2, 3, 0), second[0].IntraEnd)
}

func TestShardByDayMultiDayProducesOneShardPerDay(t *testing.T) {
	ev := timed("conference", at(2023, 1, 1, 9, 0), at(2023, 1, 4, 17, 0))

	shards := ShardByDay([]Event{ev})

	require.Len(t, shards, 4)

	// Middle days span the whole visible day.
	mid := shards[day(2023, 1, 2)]
	require.Len(t, mid, 1)
	assert.Equal(t, day(2023, 1, 2), mid[0].IntraStart)
	assert.Equal(t, time.Date(2023, 1, 2, 23, 59, 59, 0, time.UTC), mid[0].IntraEnd)

	// Every shard keeps IntraStart <= IntraEnd and the same identity.
	for d, evs := range shards {
		for _, s := range evs {
			assert.Equal(t, ev.ID, s.ID)
			assert.False(t, s.IntraEnd.Before(s.IntraStart), "inverted shard on %v", d)
		}
	}
}

func TestShardByDayUnionReconstructsSpan(t *testing.T) {
	start := at(2023, 6, 10, 22, 30)
	end := at(2023, 6, 13, 2, 15)
	ev := timed("trip", start, end)

	shards := ShardByDay([]Event{ev})

	var all []Event
	for _, evs := range shards {
		all = append(all, evs...)
	}
	require.NotEmpty(t, all)

	minStart, maxEnd := all[0].IntraStart, all[0].IntraEnd
	for _, s := range all[1:] {
		if s.IntraStart.Before(minStart) {
			minStart = s.IntraStart
		}
		if s.IntraEnd.After(maxEnd) {
			maxEnd = s.IntraEnd
		}
	}
	assert.Equal(t, start, minStart)
	assert.Equal(t, end, maxEnd)
}

func TestShardByDayDropsZeroLength(t *testing.T) {
	point := at(2023, 1, 1, 12, 0)
	zero := timed("blip", point, point)
	// Inverted within the same day degrades to an empty shard, not a panic.
	inverted := timed("backwards", at(2023, 1, 1, 15, 0), at(2023, 1, 1, 14, 0))

	shards := ShardByDay([]Event{zero, inverted})

	assert.Empty(t, shards)
}

func TestShardByDayEndingAtMidnightHasNoTailShard(t *testing.T) {
	ev := timed("party", at(2023, 1, 1, 20, 0), day(2023, 1, 2))

	shards := ShardByDay([]Event{ev})

	require.Len(t, shards, 1)
	require.Len(t, shards[day(2023, 1, 1)], 1)
}

func TestShardByDayNegativeSpanPanics(t *testing.T) {
	ev := timed("impossible", at(2023, 1, 5, 9, 0), at(2023, 1, 2, 9, 0))

	assert.Panics(t, func() { ShardByDay([]Event{ev}) })
}

func TestShardByDayOpenEndedRunsToNow(t *testing.T) {
	start := time.Now().Add(-30 * time.Minute)
	ev := New("ongoing", start, mo.None[time.Time](), false)

	shards := ShardByDay([]Event{ev})

	require.NotEmpty(t, shards)
	got := shards[time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())]
	require.NotEmpty(t, got)
	assert.True(t, got[0].IntraEnd.After(got[0].IntraStart))
}

func TestNewBucketSplitsAllDayFromTimed(t *testing.T) {
	d := day(2023, 1, 1)
	allDay := New("holiday", d, mo.Some(time.Date(2023, 1, 1, 23, 59, 59, 0, time.UTC)), true)
	meeting := timed("meeting", at(2023, 1, 1, 9, 0), at(2023, 1, 1, 10, 0))

	b := NewBucket([]Event{allDay, meeting})

	require.Len(t, b.AllDayOn(d), 1)
	require.Len(t, b.TimedOn(d), 1)
	assert.Equal(t, "holiday", b.AllDayOn(d)[0].Title)
	assert.Equal(t, "meeting", b.TimedOn(d)[0].Title)
	assert.Equal(t, 1, b.AllDayCountOn(d))
	assert.Equal(t, 0, b.AllDayCountOn(day(2023, 1, 2)))
}
