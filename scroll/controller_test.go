package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shohe/infinitecal/internal/timeutil"
	"github.com/shohe/infinitecal/layout"
)

func testController(t *testing.T, p Params) *Controller {
	t.Helper()
	anchor := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC) // a Sunday
	c, err := NewController(anchor, p, nil)
	require.NoError(t, err)
	return c
}

func weekParams() Params {
	return Params{
		SectionWidth:   100,
		NumOfDays:      7,
		WindowPages:    15,
		FlingThreshold: 0.4,
		PagingEnabled:  true,
	}
}

func TestNewControllerValidation(t *testing.T) {
	anchor := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		p    Params
	}{
		{"zero width", Params{SectionWidth: 0, NumOfDays: 7, WindowPages: 15}},
		{"zero days", Params{SectionWidth: 100, NumOfDays: 0, WindowPages: 15}},
		{"even pages", Params{SectionWidth: 100, NumOfDays: 7, WindowPages: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewController(anchor, tt.p, nil)
			assert.Error(t, err)
		})
	}
}

func TestScrollableRange(t *testing.T) {
	c := testController(t, weekParams())
	r := c.ScrollableRange()
	assert.InDelta(t, 350, r.Lower, 1e-9)
	assert.InDelta(t, 14*700-350, r.Upper, 1e-9)
	assert.True(t, r.Contains(c.CenterOffsetX()))
}

func TestAxisLock(t *testing.T) {
	c := testController(t, weekParams())
	start := layout.Point{X: 4900, Y: 80}

	axis := c.BeginDrag(start, layout.Point{X: 0.1, Y: 0.9})
	assert.Equal(t, AxisVertical, axis)
	got := c.ConstrainDrag(layout.Point{X: 5000, Y: 200})
	assert.Equal(t, layout.Point{X: 4900, Y: 200}, got)

	c.EndDrag(got, layout.Point{})

	axis = c.BeginDrag(start, layout.Point{X: -0.9, Y: 0.1})
	assert.Equal(t, AxisHorizontal, axis)
	got = c.ConstrainDrag(layout.Point{X: 5000, Y: 200})
	assert.Equal(t, layout.Point{X: 5000, Y: 80}, got)
}

func TestEndDragPaging(t *testing.T) {
	tests := []struct {
		name  string
		x     float64
		vx    float64
		wantX float64
	}{
		{"slow release under half page stays", 5200, 0.1, 4900},
		{"slow release past half page advances", 5300, 0.1, 5600},
		{"slow release past half page backwards", 4500, -0.1, 4200},
		{"fling forward from small displacement", 4950, 0.5, 5600},
		{"fling backward from small displacement", 4850, -0.5, 4200},
		{"at threshold is not a fling", 4950, 0.4, 4900},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testController(t, weekParams())
			c.BeginDrag(layout.Point{X: 4900, Y: 0}, layout.Point{X: 1, Y: 0})
			got := c.EndDrag(layout.Point{X: tt.x, Y: 0}, layout.Point{X: tt.vx, Y: 0})
			assert.InDelta(t, tt.wantX, got.X, 1e-9)
		})
	}
}

func TestNoteTappedPageOverridesBeginDrag(t *testing.T) {
	c := testController(t, weekParams())

	// A drag that interrupts a settle toward page 8 grabs at x=5020 where
	// rounding alone would say page 7.
	c.BeginDrag(layout.Point{X: 5020, Y: 0}, layout.Point{X: 1, Y: 0})
	c.NoteTappedPage(5600)

	got := c.EndDrag(layout.Point{X: 5020, Y: 0}, layout.Point{X: -0.5, Y: 0})
	assert.InDelta(t, 4900, got.X, 1e-9)
}

func TestEndDragSectionSnapWithoutPaging(t *testing.T) {
	p := weekParams()
	p.PagingEnabled = false
	c := testController(t, p)
	c.BeginDrag(layout.Point{X: 4900, Y: 0}, layout.Point{X: 1, Y: 0})

	got := c.EndDrag(layout.Point{X: 4954, Y: 0}, layout.Point{})
	assert.InDelta(t, 5000, got.X, 1e-9)
	c.BeginDrag(layout.Point{X: 5000, Y: 0}, layout.Point{X: 1, Y: 0})
	got = c.EndDrag(layout.Point{X: 4949, Y: 0}, layout.Point{})
	assert.InDelta(t, 4900, got.X, 1e-9)
}

func TestVerticalEndDragLeavesOffsetAlone(t *testing.T) {
	c := testController(t, weekParams())
	c.BeginDrag(layout.Point{X: 4900, Y: 0}, layout.Point{X: 0, Y: 1})
	got := c.EndDrag(layout.Point{X: 4900, Y: 333}, layout.Point{Y: 0.2})
	assert.Equal(t, layout.Point{X: 4900, Y: 333}, got)
}

func TestWindowShiftRoundTrip(t *testing.T) {
	c := testController(t, weekParams())
	anchor := c.Anchor()

	// Walking past the upper bound recenters backwards by seven pages.
	over := layout.Point{X: c.ScrollableRange().Upper + 10, Y: 42}
	visibleDay := c.DayForOffset(over.X)

	shift, ok := c.DidScroll(over)
	require.True(t, ok)
	assert.Equal(t, 49, shift.Days)
	assert.InDelta(t, over.X-7*700, shift.Offset.X, 1e-9)
	assert.Equal(t, float64(42), shift.Offset.Y)
	assert.Equal(t, timeutil.AddDays(anchor, 49), c.Anchor())

	// The same screen content maps to the same day after the shift.
	assert.Equal(t, visibleDay, c.DayForOffset(shift.Offset.X))

	// And scrolling back past the lower bound undoes it.
	under := layout.Point{X: c.ScrollableRange().Lower - 10, Y: 0}
	shift, ok = c.DidScroll(under)
	require.True(t, ok)
	assert.Equal(t, -49, shift.Days)
	assert.Equal(t, anchor, c.Anchor())

	_, ok = c.DidScroll(layout.Point{X: c.CenterOffsetX()})
	assert.False(t, ok)
}

func TestShiftDuringDragKeepsTappedPage(t *testing.T) {
	c := testController(t, weekParams())
	c.BeginDrag(layout.Point{X: c.ScrollableRange().Upper - 5, Y: 0}, layout.Point{X: 1, Y: 0})

	over := layout.Point{X: c.ScrollableRange().Upper + 5, Y: 0}
	shift, ok := c.DidScroll(over)
	require.True(t, ok)

	// Releasing right after the shift settles on the page that was under
	// the finger, in post-shift coordinates.
	got := c.EndDrag(shift.Offset, layout.Point{})
	assert.InDelta(t, float64(7)*700, got.X, 1e-9)
}

func TestOffsetForDay(t *testing.T) {
	c := testController(t, weekParams())
	day := timeutil.AddDays(c.Anchor(), 10)
	assert.InDelta(t, 1000, c.OffsetForDay(day), 1e-9)
	assert.Equal(t, day, c.DayForOffset(1000))
}

func TestDecelerationDuration(t *testing.T) {
	assert.Zero(t, DecelerationDuration(0.05))

	slow := DecelerationDuration(0.5)
	fast := DecelerationDuration(2.0)
	assert.Greater(t, fast, slow)
	assert.Greater(t, slow, time.Duration(0))
	assert.Less(t, fast, 3*time.Second)
}

func TestAnimator(t *testing.T) {
	var a Animator
	start := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	a.Start(layout.Point{X: 0}, layout.Point{X: 100}, start, time.Second, Linear)

	mid, done := a.Tick(start.Add(500 * time.Millisecond))
	assert.False(t, done)
	assert.InDelta(t, 50, mid.X, 1e-9)

	end, done := a.Tick(start.Add(time.Second))
	assert.True(t, done)
	assert.InDelta(t, 100, end.X, 1e-9)
	assert.False(t, a.Active())
}

func TestTimingFunctionsEndpoints(t *testing.T) {
	fns := map[string]TimingFunction{
		"linear": Linear, "quadIn": QuadIn, "quadOut": QuadOut, "quadInOut": QuadInOut,
		"cubicIn": CubicIn, "cubicOut": CubicOut, "cubicInOut": CubicInOut,
		"quartIn": QuartIn, "quartOut": QuartOut, "quartInOut": QuartInOut,
		"quintIn": QuintIn, "quintOut": QuintOut, "quintInOut": QuintInOut,
		"sineIn": SineIn, "sineOut": SineOut, "sineInOut": SineInOut,
		"expoIn": ExpoIn, "expoOut": ExpoOut, "expoInOut": ExpoInOut,
		"circleIn": CircleIn, "circleOut": CircleOut, "circleInOut": CircleInOut,
	}
	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0, fn(0), 1e-9)
			assert.InDelta(t, 1, fn(1), 1e-9)
			mid := fn(0.5)
			assert.GreaterOrEqual(t, mid, 0.0)
			assert.LessOrEqual(t, mid, 1.0)
		})
	}
}
