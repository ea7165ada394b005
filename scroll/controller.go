package scroll

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shohe/infinitecal/internal/timeutil"
	"github.com/shohe/infinitecal/layout"
)

// Axis is the direction a drag is locked to. A gesture commits to the axis
// of its initial velocity and ignores the other component until it ends.
type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

// Params are the fixed inputs of the pagination math.
type Params struct {
	// SectionWidth is the pixel width of one day-column.
	SectionWidth float64
	// NumOfDays is the day-column count of one page.
	NumOfDays int
	// WindowPages is the materialized page count. Must be odd.
	WindowPages int
	// FlingThreshold is the horizontal velocity, in points per millisecond,
	// beyond which releasing a drag advances a full page.
	FlingThreshold float64
	// PagingEnabled snaps horizontal settling to page boundaries; otherwise
	// settling snaps to the nearest day-column.
	PagingEnabled bool
}

// DefaultFlingThreshold is the page-advance velocity cutoff.
const DefaultFlingThreshold = 0.4

// Controller owns the horizontal scroll state of the rolling window: the
// anchor day of section zero, the drag axis lock, and the recenter shift
// that keeps the offset inside the materialized range.
type Controller struct {
	params Params
	logger *slog.Logger

	anchor time.Time

	axis       Axis
	dragOrigin layout.Point
	tappedPage int
	dragging   bool
}

// NewController builds a controller anchored on the given day. The anchor is
// the day of window section zero; callers align it (for example to the start
// of a week) before construction.
func NewController(anchor time.Time, p Params, logger *slog.Logger) (*Controller, error) {
	if p.SectionWidth <= 0 {
		return nil, fmt.Errorf("section width must be positive, got %v", p.SectionWidth)
	}
	if p.NumOfDays < 1 {
		return nil, fmt.Errorf("numOfDays must be >= 1, got %d", p.NumOfDays)
	}
	if p.WindowPages < 1 || p.WindowPages%2 == 0 {
		return nil, fmt.Errorf("windowPages must be odd and positive, got %d", p.WindowPages)
	}
	if p.FlingThreshold <= 0 {
		p.FlingThreshold = DefaultFlingThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		params: p,
		logger: logger,
		anchor: timeutil.StartOfDay(anchor),
	}, nil
}

// Params returns the active pagination parameters.
func (c *Controller) Params() Params { return c.params }

// UpdateParams replaces the pagination parameters, keeping the anchor.
func (c *Controller) UpdateParams(p Params) {
	c.params = p
}

// Anchor is the day of window section zero.
func (c *Controller) Anchor() time.Time { return c.anchor }

// SetAnchor moves the window to a new section-zero day.
func (c *Controller) SetAnchor(day time.Time) {
	c.anchor = timeutil.StartOfDay(day)
}

// PageWidth is the pixel width of one page.
func (c *Controller) PageWidth() float64 {
	return c.params.SectionWidth * float64(c.params.NumOfDays)
}

// CenterOffsetX is the offset of the window's center page.
func (c *Controller) CenterOffsetX() float64 {
	return c.PageWidth() * float64(c.params.WindowPages/2)
}

// ScrollableRange is the horizontal band the offset may occupy before the
// window recenters. Half a page of slack is kept on either side so a shift
// never lands mid-gesture on a boundary.
func (c *Controller) ScrollableRange() layout.FloatRange {
	w := c.PageWidth()
	return layout.FloatRange{
		Lower: w / 2,
		Upper: float64(c.params.WindowPages-1)*w - w/2,
	}
}

// BeginDrag locks the gesture to the dominant axis of its initial velocity
// and records the page under the finger for the release hysteresis.
func (c *Controller) BeginDrag(offset layout.Point, velocity layout.Point) Axis {
	if math.Abs(velocity.X) >= math.Abs(velocity.Y) {
		c.axis = AxisHorizontal
	} else {
		c.axis = AxisVertical
	}
	c.dragOrigin = offset
	c.tappedPage = int(math.Round(offset.X / c.PageWidth()))
	c.dragging = true
	return c.axis
}

// NoteTappedPage overrides the page recorded at BeginDrag. Used when a drag
// interrupts a settle animation: the release hysteresis should measure from
// the page the animation was heading to, not from the mid-flight offset.
func (c *Controller) NoteTappedPage(offsetX float64) {
	c.tappedPage = int(math.Round(offsetX / c.PageWidth()))
}

// ConstrainDrag applies the axis lock to a proposed offset.
func (c *Controller) ConstrainDrag(proposed layout.Point) layout.Point {
	if !c.dragging {
		return proposed
	}
	switch c.axis {
	case AxisHorizontal:
		return layout.Point{X: proposed.X, Y: c.dragOrigin.Y}
	case AxisVertical:
		return layout.Point{X: c.dragOrigin.X, Y: proposed.Y}
	default:
		return proposed
	}
}

// EndDrag clears the axis lock and returns the offset the release should
// settle at. Horizontal releases snap to a page boundary (or a day-column
// boundary when paging is off); a fling past the velocity threshold always
// advances, while slower releases move only once the drag has crossed half
// the page away from where it started.
func (c *Controller) EndDrag(offset layout.Point, velocity layout.Point) layout.Point {
	axis := c.axis
	c.axis = AxisNone
	c.dragging = false

	if axis != AxisHorizontal {
		return offset
	}
	return layout.Point{X: c.settleX(offset.X, velocity.X), Y: offset.Y}
}

func (c *Controller) settleX(x, vx float64) float64 {
	unit := c.PageWidth()
	if !c.params.PagingEnabled {
		unit = c.params.SectionWidth
		return math.Round(x/unit) * unit
	}

	switch {
	case vx > c.params.FlingThreshold:
		return float64(c.tappedPage+1) * unit
	case vx < -c.params.FlingThreshold:
		return float64(c.tappedPage-1) * unit
	}

	// Slow release: stay on the tapped page until the drag crosses the
	// half-page line, then commit to the neighbour. A drag that traveled
	// beyond the neighbour just snaps to the nearest boundary.
	delta := x - float64(c.tappedPage)*unit
	switch {
	case delta > 1.5*unit || delta < -1.5*unit:
		return math.Round(x/unit) * unit
	case delta > unit/2:
		return float64(c.tappedPage+1) * unit
	case delta < -unit/2:
		return float64(c.tappedPage-1) * unit
	default:
		return float64(c.tappedPage) * unit
	}
}

// Shift is the outcome of a window recenter.
type Shift struct {
	// Days is the signed day count section zero moved by.
	Days int
	// Offset is the replacement scroll offset, adjusted by the same distance
	// so the visible content does not move.
	Offset layout.Point
}

// DidScroll checks an offset against the scrollable range and recenters the
// window when it has been exceeded. The returned shift, when present, must
// be applied atomically with the anchor change it already performed.
func (c *Controller) DidScroll(offset layout.Point) (Shift, bool) {
	r := c.ScrollableRange()
	if r.Contains(offset.X) {
		return Shift{}, false
	}

	shiftDays := c.params.NumOfDays * (c.params.WindowPages / 2)
	shiftWidth := c.PageWidth() * float64(c.params.WindowPages/2)

	var s Shift
	if offset.X < r.Lower {
		s = Shift{Days: -shiftDays, Offset: layout.Point{X: offset.X + shiftWidth, Y: offset.Y}}
	} else {
		s = Shift{Days: shiftDays, Offset: layout.Point{X: offset.X - shiftWidth, Y: offset.Y}}
	}

	c.anchor = timeutil.AddDays(c.anchor, s.Days)
	// The tapped page moves with the content during an in-flight drag.
	c.tappedPage -= s.Days / c.params.NumOfDays
	c.dragOrigin.X = c.dragOrigin.X - float64(s.Days)/float64(c.params.NumOfDays)*c.PageWidth()

	c.logger.Debug("window shifted",
		"days", s.Days, "anchor", c.anchor.Format(time.DateOnly))
	return s, true
}

// OffsetForDay is the horizontal offset whose first visible column is the
// given day, relative to the current anchor.
func (c *Controller) OffsetForDay(day time.Time) float64 {
	days := timeutil.DaysBetween(c.anchor, timeutil.StartOfDay(day), true)
	return float64(days) * c.params.SectionWidth
}

// DayForOffset is the inverse of OffsetForDay for page-aligned offsets.
func (c *Controller) DayForOffset(x float64) time.Time {
	days := int(math.Round(x / c.params.SectionWidth))
	return timeutil.AddDays(c.anchor, days)
}
