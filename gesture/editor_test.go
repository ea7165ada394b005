package gesture

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shohe/infinitecal/event"
	"github.com/shohe/infinitecal/internal/timeutil"
	"github.com/shohe/infinitecal/layout"
)

type fixtureSource struct {
	anchor time.Time
	timed  map[time.Time][]event.Event
}

func (s *fixtureSource) DayForSection(section int) time.Time {
	return timeutil.AddDays(s.anchor, section)
}

func (s *fixtureSource) TimedEventsOn(day time.Time) []event.Event {
	return s.timed[timeutil.StartOfDay(day)]
}

func (s *fixtureSource) AllDayEventsOn(time.Time) []event.Event { return nil }

type recorder struct {
	created    []time.Time
	moved      []time.Time
	movedEvent event.Event
	cancelled  bool
	cancelType mo.Option[event.Event]
	highlights []layout.IndexPath
	haptics    []float64
	scrolls    []layout.Point
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Created: func(start, end time.Time) { r.created = []time.Time{start, end} },
		Moved: func(ev event.Event, start, end time.Time) {
			r.movedEvent = ev
			r.moved = []time.Time{start, end}
		},
		Cancelled: func(ev mo.Option[event.Event], start, end time.Time) {
			r.cancelled = true
			r.cancelType = ev
		},
		HighlightChanged: func(idx layout.IndexPath) { r.highlights = append(r.highlights, idx) },
		Haptic:           func(i float64) { r.haptics = append(r.haptics, i) },
		AutoScroll:       func(d layout.Point) { r.scrolls = append(r.scrolls, d) },
	}
}

func fixture(t *testing.T) (*layout.Engine, *fixtureSource, time.Time) {
	t.Helper()
	anchor := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	ds := &fixtureSource{anchor: anchor, timed: map[time.Time][]event.Event{}}

	cfg := layout.Config{NumOfDays: 7, WindowPages: 15, SnapIntervalMinutes: 15}
	e, err := layout.NewEngine(layout.DefaultMetrics(), cfg, ds,
		layout.WithNowFunc(func() time.Time {
			return time.Date(2024, 3, 6, 10, 30, 0, 0, time.UTC)
		}))
	require.NoError(t, err)
	e.SetViewport(layout.Size{Width: 764, Height: 600})
	return e, ds, anchor
}

// pointAt builds a content-space point over the given section at the given
// fractional hour.
func pointAt(e *layout.Engine, section int, hour float64) layout.Point {
	m := e.Metrics()
	return layout.Point{
		X: e.TimeHeaderWidth() + e.SectionWidth()*(float64(section)+0.5),
		Y: m.DateHeaderHeight + m.HourHeight*hour,
	}
}

func TestDragCreateCommitsSnappedRange(t *testing.T) {
	e, _, anchor := fixture(t)
	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	p := pointAt(e, 1, 9.4)
	ed.Handle(Sample{Phase: PhaseBegan, Point: p, PointInView: p}, layout.Point{})
	assert.True(t, ed.Active())
	assert.Equal(t, KindAddNew, ed.Kind())

	ed.Handle(Sample{Phase: PhaseEnded, Point: p, PointInView: p}, layout.Point{})
	assert.False(t, ed.Active())

	require.Len(t, rec.created, 2)
	day := timeutil.AddDays(anchor, 1)
	// The block snaps to the half-hour grid and carries the default
	// one-hour duration.
	assert.Equal(t, timeutil.SetClock(day, 9, 0, 0), rec.created[0])
	assert.Equal(t, timeutil.SetClock(day, 10, 0, 0), rec.created[1])

	// Grab pulses at full strength, the commit slightly softer.
	require.NotEmpty(t, rec.haptics)
	assert.InDelta(t, HapticGrab, rec.haptics[0], 1e-9)
	assert.InDelta(t, HapticCommit, rec.haptics[len(rec.haptics)-1], 1e-9)
}

func TestDragCreateResizeExtendsEnd(t *testing.T) {
	e, _, anchor := fixture(t)
	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	start := pointAt(e, 1, 9.1)
	ed.Handle(Sample{Phase: PhaseBegan, Point: start, PointInView: start}, layout.Point{})

	// Dragging well past the initial block grows the cell downward.
	further := pointAt(e, 1, 11.6)
	ed.Handle(Sample{Phase: PhaseChanged, Point: further, PointInView: further}, layout.Point{})
	ed.Handle(Sample{Phase: PhaseEnded, Point: further, PointInView: further}, layout.Point{})

	require.Len(t, rec.created, 2)
	day := timeutil.AddDays(anchor, 1)
	assert.Equal(t, timeutil.SetClock(day, 9, 0, 0), rec.created[0])
	assert.Equal(t, timeutil.SetClock(day, 11, 30, 0), rec.created[1])
}

func TestCommitEnforcesMinimumDuration(t *testing.T) {
	e, _, _ := fixture(t)
	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	start := pointAt(e, 1, 9.1)
	ed.Handle(Sample{Phase: PhaseBegan, Point: start, PointInView: start}, layout.Point{})

	// Resizing back up to nearly nothing still commits at least half an hour.
	collapse := pointAt(e, 1, 9.05)
	ed.Handle(Sample{Phase: PhaseChanged, Point: collapse, PointInView: collapse}, layout.Point{})
	ed.Handle(Sample{Phase: PhaseEnded, Point: collapse, PointInView: collapse}, layout.Point{})

	require.Len(t, rec.created, 2)
	assert.GreaterOrEqual(t, rec.created[1].Sub(rec.created[0]), 30*time.Minute)
}

func TestMoveKeepsDuration(t *testing.T) {
	e, ds, anchor := fixture(t)

	evStart := timeutil.SetClock(anchor, 9, 0, 0)
	evEnd := timeutil.SetClock(anchor, 10, 30, 0)
	ev := event.New("standup", evStart, mo.Some(evEnd), false)
	ev.IntraStart, ev.IntraEnd = evStart, evEnd
	ds.timed[anchor] = []event.Event{ev}
	e.Layout(layout.Point{})

	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	grab := pointAt(e, 0, 9.5)
	ed.Handle(Sample{Phase: PhaseBegan, Point: grab, PointInView: grab}, layout.Point{})
	assert.Equal(t, KindMove, ed.Kind())
	assert.Equal(t, ev.ID, ed.Target().MustGet().ID)

	// Drag two columns right and down an hour.
	drop := pointAt(e, 2, 10.5)
	ed.Handle(Sample{Phase: PhaseChanged, Point: drop, PointInView: drop}, layout.Point{})
	ed.Handle(Sample{Phase: PhaseEnded, Point: drop, PointInView: drop}, layout.Point{})

	require.Len(t, rec.moved, 2)
	assert.Equal(t, ev.ID, rec.movedEvent.ID)
	assert.Equal(t, event.EditNone, rec.movedEvent.EditState)
	assert.Equal(t, 90*time.Minute, rec.moved[1].Sub(rec.moved[0]))
	assert.True(t, timeutil.IsSameDay(rec.moved[0], timeutil.AddDays(anchor, 2)))
}

func TestCancelReportsOriginalRange(t *testing.T) {
	e, ds, anchor := fixture(t)

	evStart := timeutil.SetClock(anchor, 9, 0, 0)
	evEnd := timeutil.SetClock(anchor, 10, 0, 0)
	ev := event.New("standup", evStart, mo.Some(evEnd), false)
	ev.IntraStart, ev.IntraEnd = evStart, evEnd
	ds.timed[anchor] = []event.Event{ev}
	e.Layout(layout.Point{})

	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	grab := pointAt(e, 0, 9.5)
	ed.Handle(Sample{Phase: PhaseBegan, Point: grab, PointInView: grab}, layout.Point{})
	drop := pointAt(e, 3, 14)
	ed.Handle(Sample{Phase: PhaseChanged, Point: drop, PointInView: drop}, layout.Point{})
	ed.Handle(Sample{Phase: PhaseCancelled}, layout.Point{})

	assert.True(t, rec.cancelled)
	assert.Equal(t, ev.ID, rec.cancelType.MustGet().ID)
	assert.Nil(t, rec.moved)
	assert.False(t, ed.Active())
}

func TestTerminalSampleBeforeBeganIsNoOp(t *testing.T) {
	e, _, _ := fixture(t)
	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	p := pointAt(e, 1, 9)
	ed.Handle(Sample{Phase: PhaseEnded, Point: p, PointInView: p}, layout.Point{})
	ed.Handle(Sample{Phase: PhaseCancelled, Point: p, PointInView: p}, layout.Point{})
	ed.Handle(Sample{Phase: PhaseChanged, Point: p, PointInView: p}, layout.Point{})

	assert.False(t, ed.Active())
	assert.Nil(t, rec.created)
	assert.False(t, rec.cancelled)
	assert.Empty(t, rec.haptics)
}

func TestHighlightDeduplicates(t *testing.T) {
	e, _, _ := fixture(t)
	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	p := pointAt(e, 1, 9.0)
	ed.Handle(Sample{Phase: PhaseBegan, Point: p, PointInView: p}, layout.Point{})
	before := len(rec.highlights)

	// Wiggling within the same tick reports nothing new.
	for i := 0; i < 5; i++ {
		q := p
		q.Y += float64(i) * 0.3
		ed.Handle(Sample{Phase: PhaseChanged, Point: q, PointInView: q}, layout.Point{})
	}
	assert.Len(t, rec.highlights, before)

	// Crossing into the next tick reports once.
	q := pointAt(e, 1, 9.25)
	ed.Handle(Sample{Phase: PhaseChanged, Point: q, PointInView: q}, layout.Point{})
	assert.Len(t, rec.highlights, before+1)
}

func TestAutoScrollZones(t *testing.T) {
	e, _, _ := fixture(t)
	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	p := pointAt(e, 1, 9)
	ed.Handle(Sample{Phase: PhaseBegan, Point: p, PointInView: layout.Point{X: 300, Y: 300}}, layout.Point{})

	// Center of the viewport: no auto-scroll.
	ed.AutoScrollTick()
	assert.Empty(t, rec.scrolls)

	// Near the top edge: upward scroll, faster when deeper.
	ed.Handle(Sample{Phase: PhaseChanged, Point: p, PointInView: layout.Point{X: 300, Y: 150}}, layout.Point{})
	ed.AutoScrollTick()
	require.Len(t, rec.scrolls, 1)
	shallow := rec.scrolls[0].Y
	assert.Negative(t, shallow)

	ed.Handle(Sample{Phase: PhaseChanged, Point: p, PointInView: layout.Point{X: 300, Y: 10}}, layout.Point{})
	ed.AutoScrollTick()
	require.Len(t, rec.scrolls, 2)
	assert.Less(t, rec.scrolls[1].Y, shallow)

	// Bottom edge scrolls down.
	ed.Handle(Sample{Phase: PhaseChanged, Point: p, PointInView: layout.Point{X: 300, Y: 590}}, layout.Point{})
	ed.AutoScrollTick()
	require.Len(t, rec.scrolls, 3)
	assert.Positive(t, rec.scrolls[2].Y)
}

func TestAutoScrollHorizontalAdvance(t *testing.T) {
	e, _, _ := fixture(t)
	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	p := pointAt(e, 1, 9)
	edge := layout.Point{X: 760, Y: 300} // inside the right zone, outside top/bottom
	ed.Handle(Sample{Phase: PhaseBegan, Point: p, PointInView: edge}, layout.Point{})

	// A page advance needs a full dwell at the edge.
	for i := 0; i < autoScrollAdvanceTicks-1; i++ {
		ed.AutoScrollTick()
	}
	assert.Empty(t, rec.scrolls)

	ed.AutoScrollTick()
	require.Len(t, rec.scrolls, 1)
	assert.InDelta(t, e.PageWidth(), rec.scrolls[0].X, 1e-9)
	assert.Contains(t, rec.haptics, HapticScrollTic)

	// The dwell counter restarts after an advance.
	ed.AutoScrollTick()
	assert.Len(t, rec.scrolls, 1)
}

func TestSecondPointerAborts(t *testing.T) {
	e, _, _ := fixture(t)
	var rec recorder
	ed := NewEditor(e, rec.callbacks(), nil)

	p := pointAt(e, 1, 9)
	ed.Handle(Sample{Phase: PhaseBegan, Point: p, PointInView: p}, layout.Point{})
	require.True(t, ed.Active())

	ed.Handle(Sample{Phase: PhaseBegan, Point: p, PointInView: p}, layout.Point{})
	assert.False(t, ed.Active())
	assert.True(t, rec.cancelled)
}
