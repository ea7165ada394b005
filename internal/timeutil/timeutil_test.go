package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartAndEndOfDay(t *testing.T) {
	ts := time.Date(2023, 1, 15, 14, 30, 45, 123, time.UTC)

	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, time.Date(2023, 1, 15, 23, 59, 59, 0, time.UTC), EndOfDay(ts))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name        string
		start, end  time.Time
		ignoreHours bool
		want        int
	}{
		{
			name:  "same day",
			start: time.Date(2023, 1, 1, 9, 0, 0, 0, time.UTC),
			end:   time.Date(2023, 1, 1, 17, 0, 0, 0, time.UTC),
			want:  0,
		},
		{
			name:        "cross midnight short span",
			start:       time.Date(2023, 1, 1, 22, 0, 0, 0, time.UTC),
			end:         time.Date(2023, 1, 2, 1, 0, 0, 0, time.UTC),
			ignoreHours: true,
			want:        1,
		},
		{
			name:        "multi day",
			start:       time.Date(2023, 1, 1, 14, 0, 0, 0, time.UTC),
			end:         time.Date(2023, 1, 4, 3, 0, 0, 0, time.UTC),
			ignoreHours: true,
			want:        3,
		},
		{
			name:        "negative",
			start:       time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
			end:         time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			ignoreHours: true,
			want:        -3,
		},
		{
			name:  "three hours without ignore",
			start: time.Date(2023, 1, 1, 22, 0, 0, 0, time.UTC),
			end:   time.Date(2023, 1, 2, 1, 0, 0, 0, time.UTC),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.start, tt.end, tt.ignoreHours))
		})
	}
}

func TestClockSecondsBetween(t *testing.T) {
	start := time.Date(2023, 3, 10, 9, 30, 0, 0, time.UTC)
	end := time.Date(2023, 7, 22, 10, 0, 30, 0, time.UTC)

	// Dates differ wildly; only the clock matters.
	assert.Equal(t, 30*60+30, ClockSecondsBetween(start, end))
	assert.Equal(t, -(30*60 + 30), ClockSecondsBetween(end, start))
}

func TestFirstDayOfWeek(t *testing.T) {
	// 2023-01-04 is a Wednesday.
	wed := time.Date(2023, 1, 4, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), FirstDayOfWeek(wed, time.Sunday))
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), FirstDayOfWeek(wed, time.Monday))
	// Already on the requested weekday: no movement.
	assert.Equal(t, time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC), FirstDayOfWeek(wed, time.Wednesday))
}

func TestSetClock(t *testing.T) {
	ts := time.Date(2023, 5, 20, 8, 15, 30, 999, time.UTC)
	assert.Equal(t, time.Date(2023, 5, 20, 23, 0, 15, 0, time.UTC), SetClock(ts, 23, 0, 15))
}

func TestAddDaysAcrossMonth(t *testing.T) {
	ts := time.Date(2023, 1, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 2, 2, 10, 0, 0, 0, time.UTC), AddDays(ts, 3))
	assert.Equal(t, time.Date(2022, 12, 29, 10, 0, 0, 0, time.UTC), AddDays(ts, -32))
}
