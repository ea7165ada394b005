package layout

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/mo"

	"github.com/shohe/infinitecal/event"
	"github.com/shohe/infinitecal/internal/timeutil"
)

// Conversions between the date/time domain and content-space geometry, plus
// the rect builders the drag editor works with.

// RectForSection is the full-height column of one section.
func (e *Engine) RectForSection(section int) Rect {
	e.requireViewport()
	if section < 0 || section >= e.NumSections() {
		panic(fmt.Sprintf("layout: section %d out of range [0,%d)", section, e.NumSections()))
	}
	return NewRect(e.timeHeaderWidth+e.sectionWidth*float64(section), 0, e.sectionWidth, e.ContentSize().Height)
}

// DateForContentOffset maps a scroll offset to the day of the column at the
// horizontal center of the first visible section slot.
func (e *Engine) DateForContentOffset(offset Point) time.Time {
	adjustedX := offset.X + e.sectionWidth/2 - e.metrics.ContentsMargin.Left
	return e.ds.DayForSection(e.clampSection(int(adjustedX / e.sectionWidth)))
}

// DatesInCurrentPage lists the days currently on screen. While scrolling the
// visible range may straddle a page boundary, so it is derived from pixel
// extent rather than page arithmetic.
func (e *Engine) DatesInCurrentPage(offset Point, isScrolling bool) []time.Time {
	e.requireViewport()
	var dates []time.Time

	if !isScrolling {
		passed := int(offset.X / e.sectionWidth)
		for i := passed; i < passed+e.cfg.NumOfDays; i++ {
			dates = append(dates, e.ds.DayForSection(e.clampSection(i)))
		}
		return dates
	}

	start := e.DateForContentOffset(offset)
	end := e.DateForContentOffset(Point{X: offset.X + e.ContentViewWidth(), Y: offset.Y})
	for d := start; !d.After(end); d = timeutil.AddDays(d, 1) {
		dates = append(dates, d)
	}
	return dates
}

func (e *Engine) clampSection(section int) int {
	if section < 0 {
		return 0
	}
	if max := e.NumSections() - 1; section > max {
		return max
	}
	return section
}

// SectionAt resolves a gesture point to its section. pointInView is the same
// gesture position in viewport coordinates; when the finger sits over the
// time-axis column the point is nudged into the first content column.
func (e *Engine) SectionAt(point, pointInView Point) int {
	e.requireViewport()
	contentMinX := e.timeHeaderWidth + e.metrics.ContentsMargin.Left + e.metrics.GridThickness
	x := point.X
	if contentMinX >= pointInView.X {
		x += contentMinX - pointInView.X
	}
	adjustedX := x - e.timeHeaderWidth - e.metrics.ContentsMargin.Left
	return e.clampSection(int(adjustedX / e.sectionWidth))
}

// TimeAt extracts the time of day under a content-space gesture point,
// clamped into the grid.
func (e *Engine) TimeAt(point Point) (hour, minute int) {
	e.requireViewport()
	adjustedY := point.Y - e.metrics.ContentsMargin.Top - e.dateHeaderHeight()
	maxY := e.ContentSize().Height - e.metrics.ContentsMargin.Top -
		e.metrics.ContentsMargin.Bottom - e.allDayHeaderHeight - e.dateHeaderHeight()
	adjustedY = math.Max(0, math.Min(adjustedY, maxY))
	hour = int(adjustedY / e.metrics.HourHeight)
	minute = int((adjustedY/e.metrics.HourHeight - float64(hour)) * 60)
	return hour, minute
}

// DateAt resolves a content-space gesture point to a full timestamp.
func (e *Engine) DateAt(point Point) time.Time {
	adjustedX := point.X - e.timeHeaderWidth - e.metrics.ContentsMargin.Left
	day := e.ds.DayForSection(e.clampSection(int(adjustedX / e.sectionWidth)))
	hour, minute := e.TimeAt(point)
	return timeutil.SetClock(day, hour, minute, 0)
}

// Time ticks ------------------------------------------------------------

// TickCount is the number of time-axis ticks: one per snap interval through
// the day plus the trailing 24:00 tick.
func (e *Engine) TickCount() int {
	return 24*60/e.cfg.SnapIntervalMinutes + 1
}

func (e *Engine) tickClockSeconds(item int) int {
	return item * e.cfg.SnapIntervalMinutes * 60
}

func (e *Engine) tickHeight() float64 {
	return e.metrics.HourHeight / float64(60/e.cfg.SnapIntervalMinutes)
}

// HeaderItem describes the date header of a section for the renderer.
func (e *Engine) HeaderItem(section int) DateHeaderItem {
	day := e.ds.DayForSection(section)
	return DateHeaderItem{
		Date:    day,
		IsToday: timeutil.IsSameDay(day, e.now()),
	}
}

// TickLabel describes the tick at an index for the renderer. The trailing
// tick reads 24:00 rather than 00:00.
func (e *Engine) TickLabel(item int) TimeLabelItem {
	secs := e.tickClockSeconds(item)
	hour := secs / 3600
	day := e.ds.DayForSection(0)
	return TimeLabelItem{
		Time:          day.Add(time.Duration(secs) * time.Second),
		IsHighlighted: e.hasHighlight && e.highlightTick == item,
		IsDisplayed:   hour >= e.cfg.StartHour && hour <= e.cfg.EndHour,
		IsEndOfDay:    item == e.TickCount()-1,
	}
}

// SetTickHighlight marks the tick a drag is snapped to. The previous
// highlight, if any, is replaced.
func (e *Engine) SetTickHighlight(idx IndexPath) {
	e.highlightTick = idx.Item
	e.hasHighlight = true
}

// ClearTickHighlight removes the drag highlight.
func (e *Engine) ClearTickHighlight() {
	e.hasHighlight = false
}

// HighlightIndexAt snaps a content-space point to the nearest tick index.
func (e *Engine) HighlightIndexAt(point Point) IndexPath {
	hour, minute := e.TimeAt(point)
	secs := hour*3600 + minute*60
	interval := e.cfg.SnapIntervalMinutes * 60
	item := int(math.Round(float64(secs) / float64(interval)))
	if max := e.TickCount() - 1; item > max {
		item = max
	}
	return IndexPath{Item: item}
}

// Drag-editing geometry --------------------------------------------------

// PointForStartBlock snaps a gesture position to the origin of its
// minBlockMinutes-sized grid block.
func (e *Engine) PointForStartBlock(position Point, minBlockMinutes int) Point {
	e.requireViewport()
	contentMinX := e.timeHeaderWidth + e.metrics.ContentsMargin.Left
	contentMinY := e.dateHeaderHeight() + e.metrics.ContentsMargin.Top + e.allDayHeaderHeight

	blockW := e.sectionWidth
	blockH := float64(minBlockMinutes) / 60 * e.metrics.HourHeight

	col := math.Floor((position.X - contentMinX) / blockW)
	row := math.Floor((position.Y - contentMinY) / blockH)

	return Point{X: col*blockW + contentMinX, Y: row*blockH + contentMinY}
}

// RectForNewCell is the initial preview block for a drag-create, snapped to
// the minBlockMinutes grid with the given duration.
func (e *Engine) RectForNewCell(position Point, durationMinutes, minBlockMinutes int) Rect {
	origin := e.PointForStartBlock(position, minBlockMinutes)
	return Rect{
		Origin: origin,
		Size:   Size{Width: e.sectionWidth, Height: e.metrics.HourHeight * float64(durationMinutes) / 60},
	}
}

// PointForMove places a dragged preview so the finger keeps its grab offset,
// clamped below the header and all-day bands.
func (e *Engine) PointForMove(point, grabPoint Point, section int, offsetY float64) Point {
	headerHeight := e.dateHeaderHeight()
	y := math.Max(point.Y-grabPoint.Y, headerHeight)
	y = math.Max(y, offsetY+headerHeight+e.allDayHeaderHeight)
	return Point{
		X: e.RectForSection(section).MinX() + e.metrics.GridThickness + e.metrics.ContentsMargin.Left,
		Y: y,
	}
}

// SizeForMoveCell sizes a move preview from the event's own span.
func (e *Engine) SizeForMoveCell(start, end time.Time) Size {
	secondDiff := math.Abs(float64(timeutil.SecondsBetween(start, end)))
	height := e.metrics.MinuteHeight() / 60 * secondDiff
	horizontalMargin := e.metrics.ContentsMargin.Left + e.metrics.ContentsMargin.Right + e.metrics.GridThickness*2
	return Size{
		Width:  e.sectionWidth - horizontalMargin,
		Height: math.Max(height, e.metrics.MinCellHeight()),
	}
}

// RectForMoveCell is the initial preview rect when a move grabs an existing
// cell: the column comes from the gesture, the vertical placement from the
// grabbed cell.
func (e *Engine) RectForMoveCell(originalRect Rect, start time.Time, end mo.Option[time.Time], intraEnd time.Time, point, pointInView, grabPoint Point, offsetY float64) Rect {
	section := e.SectionAt(point, pointInView)
	origin := e.PointForMove(point, grabPoint, section, offsetY)
	size := e.SizeForMoveCell(start, end.OrElse(intraEnd))
	return NewRect(origin.X, originalRect.MinY(), e.sectionWidth-e.metrics.ItemMargin.Left, size.Height)
}

// RectForResize grows or shrinks a drag-create preview toward the gesture
// point, holding the opposite edge fixed and never collapsing below the
// minimum cell height.
func (e *Engine) RectForResize(point Point, current, base Rect) Rect {
	resizingUp := point.Y < base.MaxY() && (point.Y < base.MinY() || point.Y >= base.MaxY())

	baseY := base.MinY()
	if resizingUp {
		baseY += e.metrics.MinCellHeight()
	}

	height := math.Max(e.metrics.MinCellHeight(), math.Abs(baseY-point.Y))
	originY := baseY
	if resizingUp {
		originY = point.Y
	}
	return NewRect(current.MinX(), originY, current.Size.Width, height)
}

// DateRangeForCell converts a committed preview rect back to timestamps.
// For a drag-create both edges snap to tick boundaries; for a move the
// start snaps and the original duration is preserved.
func (e *Engine) DateRangeForCell(rect Rect, isAddNew bool, originStart time.Time, originEnd mo.Option[time.Time]) (time.Time, time.Time) {
	base := timeutil.StartOfDay(e.DateAt(rect.Origin))

	startSecs := e.tickClockSeconds(e.HighlightIndexAt(rect.Origin).Item)
	start := base.Add(time.Duration(startSecs) * time.Second)

	if isAddNew {
		endSecs := e.tickClockSeconds(e.HighlightIndexAt(Point{X: rect.MinX(), Y: rect.MaxY()}).Item)
		return start, base.Add(time.Duration(endSecs) * time.Second)
	}

	duration := originEnd.OrElse(e.nowFunc()).Sub(originStart)
	if duration < 0 {
		duration = -duration
	}
	return start, start.Add(duration)
}

// Hit testing ------------------------------------------------------------

// ItemAt finds the event cell under a content-space point, if any. Only
// attributes from the latest layout pass are consulted.
func (e *Engine) ItemAt(point Point) (IndexPath, bool) {
	for idx, a := range e.itemAttrs {
		if !a.Hidden && a.Frame.Contains(point) {
			return idx, true
		}
	}
	return IndexPath{}, false
}

// ItemFrame returns the laid-out frame of an event cell.
func (e *Engine) ItemFrame(idx IndexPath) (Rect, bool) {
	if a, ok := e.itemAttrs[idx]; ok {
		return a.Frame, true
	}
	return Rect{}, false
}

// EventAt resolves an event-cell index path back to its shard.
func (e *Engine) EventAt(idx IndexPath) (event.Event, bool) {
	events := e.ds.TimedEventsOn(e.ds.DayForSection(idx.Section))
	if idx.Item < 0 || idx.Item >= len(events) {
		return event.Event{}, false
	}
	return events[idx.Item], true
}

// Scroll helpers ---------------------------------------------------------

// OffsetForNow vertically centers the now indicator in the viewport,
// clamped into the scrollable extent.
func (e *Engine) OffsetForNow(offset Point) Point {
	e.requireViewport()
	now := e.now()
	calendarMinY := e.metrics.DateHeaderHeight + e.metrics.ContentsMargin.Top
	timeY := calendarMinY + Round1(float64(now.Hour()))*e.metrics.HourHeight +
		float64(now.Minute())*e.metrics.MinuteHeight()
	timelineY := timeY - Round1(e.metrics.GridThickness/2) - e.metrics.TimelineHeight/2

	maxOffsetY := e.ContentSize().Height - e.viewport.Height
	y := timelineY - e.viewport.Height/2
	return Point{X: offset.X, Y: math.Min(math.Max(y, -e.allDayHeaderHeight), maxOffsetY)}
}

// OffsetForHorizontalBounce clamps a momentarily-overshot offset back into
// the window's horizontal extent.
func (e *Engine) OffsetForHorizontalBounce(offset Point) Point {
	e.requireViewport()
	max := e.ContentSize().Width - e.viewport.Width
	return Point{X: math.Min(math.Max(offset.X, 0), max), Y: offset.Y}
}
