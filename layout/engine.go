package layout

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shohe/infinitecal/event"
	"github.com/shohe/infinitecal/internal/timeutil"
)

// Config is the slice of the caller's settings the engine needs.
type Config struct {
	// NumOfDays is the number of day-columns per page (1, 3 and 7 are the
	// first-class values).
	NumOfDays int
	// WindowPages is the materialized page count of the rolling window.
	// Must be odd so a center page exists.
	WindowPages int
	// SnapIntervalMinutes is the granularity of time ticks and drag snapping.
	SnapIntervalMinutes int
	// DatePositionLeft moves the date header inline-left for one-day view.
	DatePositionLeft bool
	// StickyDateHeader pins the date header to the viewport during vertical
	// scroll.
	StickyDateHeader bool
	// StartHour and EndHour bound the hours whose time labels are shown.
	// Labels outside the range keep their geometry but render blank.
	StartHour int
	EndHour   int
}

// DataSource supplies the engine with dates and event shards. The calendar
// view implements it over the day buckets.
type DataSource interface {
	// DayForSection resolves a window section index to its calendar day.
	DayForSection(section int) time.Time
	// TimedEventsOn returns the timed shards for a day, in stable order.
	TimedEventsOn(day time.Time) []event.Event
	// AllDayEventsOn returns the all-day shards for a day.
	AllDayEventsOn(day time.Time) []event.Event
}

// Engine owns the grid geometry: it turns the visible date window into pixel
// attributes for every element kind and caches them per index path. All
// mutation happens inside its own layout pass; other components read only.
type Engine struct {
	metrics Metrics
	cfg     Config
	ds      DataSource
	logger  *slog.Logger
	nowFunc func() time.Time

	viewport    Size
	hasViewport bool

	sectionWidth    float64
	timeHeaderWidth float64

	allDayHeaderHeight float64
	// NeedsExpandAllDay is set by the view when more all-day events exist
	// than the collapsed row can show.
	NeedsExpandAllDay bool

	highlightTick int
	hasHighlight  bool

	cachedNow *time.Time

	itemAttrs       attrCache
	dateHeaderAttrs attrCache
	dateHeaderBG    attrCache
	timeHeaderAttrs attrCache
	timeHeaderBG    attrCache
	cornerAttrs     attrCache
	timelineAttrs   attrCache
	vGridAttrs      attrCache
	hGridAttrs      attrCache
	allDayAttrs     attrCache
	allDayBG        attrCache
	allDayCorner    attrCache
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithNowFunc replaces the wall clock, for tests.
func WithNowFunc(f func() time.Time) Option {
	return func(e *Engine) { e.nowFunc = f }
}

// NewEngine builds an engine over the given data source.
func NewEngine(metrics Metrics, cfg Config, ds DataSource, opts ...Option) (*Engine, error) {
	if ds == nil {
		return nil, fmt.Errorf("data source is required")
	}
	if cfg.NumOfDays < 1 {
		return nil, fmt.Errorf("numOfDays must be >= 1, got %d", cfg.NumOfDays)
	}
	if cfg.WindowPages < 1 || cfg.WindowPages%2 == 0 {
		return nil, fmt.Errorf("windowPages must be odd and positive, got %d", cfg.WindowPages)
	}
	if cfg.SnapIntervalMinutes <= 0 || 60%cfg.SnapIntervalMinutes != 0 {
		return nil, fmt.Errorf("snap interval must divide an hour, got %d", cfg.SnapIntervalMinutes)
	}
	if cfg.StartHour == 0 && cfg.EndHour == 0 {
		cfg.EndHour = 24
	}
	if cfg.StartHour < 0 || cfg.EndHour > 24 || cfg.StartHour > cfg.EndHour {
		return nil, fmt.Errorf("time range %d-%d must satisfy 0 <= start <= end <= 24", cfg.StartHour, cfg.EndHour)
	}

	e := &Engine{
		metrics: metrics,
		cfg:     cfg,
		ds:      ds,
		logger:  slog.Default(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resetCaches()
	return e, nil
}

func (e *Engine) resetCaches() {
	e.itemAttrs = attrCache{}
	e.dateHeaderAttrs = attrCache{}
	e.dateHeaderBG = attrCache{}
	e.timeHeaderAttrs = attrCache{}
	e.timeHeaderBG = attrCache{}
	e.cornerAttrs = attrCache{}
	e.timelineAttrs = attrCache{}
	e.vGridAttrs = attrCache{}
	e.hGridAttrs = attrCache{}
	e.allDayAttrs = attrCache{}
	e.allDayBG = attrCache{}
	e.allDayCorner = attrCache{}
}

// InvalidateCache drops every cached attribute. Called on any change to the
// viewport, settings or the anchor date.
func (e *Engine) InvalidateCache() {
	e.logger.Debug("layout cache invalidated")
	e.resetCaches()
}

// MinuteTick refreshes only the now indicator; everything else stays cached.
func (e *Engine) MinuteTick() {
	e.cachedNow = nil
	e.timelineAttrs = attrCache{}
}

// UpdateConfig replaces the engine configuration and invalidates.
func (e *Engine) UpdateConfig(cfg Config) {
	if cfg.StartHour == 0 && cfg.EndHour == 0 {
		cfg.EndHour = 24
	}
	e.cfg = cfg
	if e.hasViewport {
		e.computeColumnWidths()
	}
	e.InvalidateCache()
}

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// Metrics returns the active metrics.
func (e *Engine) Metrics() Metrics { return e.metrics }

// SetViewport records the viewport size and recomputes column widths.
func (e *Engine) SetViewport(size Size) {
	e.viewport = size
	e.hasViewport = true
	e.computeColumnWidths()
	e.InvalidateCache()
}

// computeColumnWidths splits the horizontal space into equal day-columns.
// The fractional remainder rounds down below 0.25, to a half unit up to
// 0.75, and up beyond that, keeping columns visually equal while bounding
// total drift; the leftover becomes the time-axis column.
func (e *Engine) computeColumnWidths() {
	raw := e.rawContentWidth() / float64(e.cfg.NumOfDays)
	remainder := raw - math.Floor(raw)
	switch {
	case remainder <= 0.25:
		e.sectionWidth = math.Floor(raw)
	case remainder <= 0.75:
		e.sectionWidth = math.Floor(raw) + 0.5
	default:
		e.sectionWidth = math.Ceil(raw)
	}
	e.timeHeaderWidth = e.viewport.Width - e.metrics.ContentsMargin.Left -
		e.metrics.ContentsMargin.Right - e.sectionWidth*float64(e.cfg.NumOfDays)
}

func (e *Engine) rawContentWidth() float64 {
	return e.viewport.Width - e.metrics.TimeHeaderWidth -
		e.metrics.ContentsMargin.Left - e.metrics.ContentsMargin.Right
}

func (e *Engine) requireViewport() {
	if !e.hasViewport {
		panic("layout: geometry queried before the viewport size is known")
	}
}

// HasViewport reports whether SetViewport has been called yet.
func (e *Engine) HasViewport() bool { return e.hasViewport }

// SectionWidth is the pixel width of one day-column.
func (e *Engine) SectionWidth() float64 {
	e.requireViewport()
	return e.sectionWidth
}

// PageWidth is the pixel width of one page of day-columns.
func (e *Engine) PageWidth() float64 {
	e.requireViewport()
	return e.sectionWidth * float64(e.cfg.NumOfDays)
}

// TimeHeaderWidth is the pixel width of the time-axis column.
func (e *Engine) TimeHeaderWidth() float64 {
	e.requireViewport()
	return e.timeHeaderWidth
}

// ContentViewWidth is the width available to day-columns in the viewport.
func (e *Engine) ContentViewWidth() float64 {
	e.requireViewport()
	return e.viewport.Width - e.timeHeaderWidth -
		e.metrics.ContentsMargin.Left - e.metrics.ContentsMargin.Right
}

// Viewport returns the recorded viewport size.
func (e *Engine) Viewport() Size {
	e.requireViewport()
	return e.viewport
}

// NumSections is the day-column count of the materialized window.
func (e *Engine) NumSections() int {
	return e.cfg.NumOfDays * e.cfg.WindowPages
}

// IsHiddenTopDate reports whether the top date banner is replaced by the
// inline-left header (one-day view with left date position).
func (e *Engine) IsHiddenTopDate() bool {
	return e.cfg.DatePositionLeft && e.cfg.NumOfDays == 1
}

// AllDayHeaderHeight returns the current all-day row height.
func (e *Engine) AllDayHeaderHeight() float64 { return e.allDayHeaderHeight }

// SetAllDayHeaderHeight resizes the all-day row; a change invalidates the
// attribute caches.
func (e *Engine) SetAllDayHeaderHeight(h float64) {
	if h == e.allDayHeaderHeight {
		return
	}
	e.allDayHeaderHeight = h
	e.InvalidateCache()
}

// ContentSize is the full pixel extent of the materialized window.
func (e *Engine) ContentSize() Size {
	e.requireViewport()
	return Size{
		Width:  e.timeHeaderWidth + e.sectionWidth*float64(e.NumSections()),
		Height: e.maxSectionHeight(),
	}
}

func (e *Engine) maxSectionHeight() float64 {
	h := e.metrics.HourHeight*24 + e.metrics.ContentsMargin.Top +
		e.metrics.ContentsMargin.Bottom + e.allDayHeaderHeight
	if !e.IsHiddenTopDate() {
		h += e.metrics.DateHeaderHeight
	}
	return h
}

func (e *Engine) dateHeaderHeight() float64 {
	if e.IsHiddenTopDate() {
		return 0
	}
	return e.metrics.DateHeaderHeight
}

func (e *Engine) now() time.Time {
	if e.cachedNow == nil {
		n := e.nowFunc()
		e.cachedNow = &n
	}
	return *e.cachedNow
}

func (e *Engine) zIndexFor(kind ElementKind) int {
	switch kind {
	case KindAllDayCorner:
		return minOverlayZ + 11
	case KindDateCorner:
		return minOverlayZ + 10
	case KindAllDayHeader:
		return minOverlayZ + 9
	case KindAllDayHeaderBG:
		return minOverlayZ + 8
	case KindDateHeader:
		if e.IsHiddenTopDate() {
			return minOverlayZ + 12
		}
		return minOverlayZ + 7
	case KindDateHeaderBG:
		return minOverlayZ + 6
	case KindTimeHeader:
		return minOverlayZ + 5
	case KindTimeHeaderBG:
		return minOverlayZ + 4
	case KindTimeline:
		return minOverlayZ + 3
	case KindHorizontalGridline:
		return minBackgroundZ + 2
	case KindVerticalGridline:
		return minBackgroundZ + 1
	default:
		return minCellZ
	}
}

// Layout runs a full pass for the given scroll offset and returns every
// attribute of the window in deterministic order. Cached attribute records
// are reused between passes; their frames are rewritten because sticky
// headers and backgrounds track the offset.
func (e *Engine) Layout(offset Point) []*Attributes {
	e.requireViewport()

	contentMinX := e.timeHeaderWidth + e.metrics.ContentsMargin.Left
	contentMinY := e.metrics.ContentsMargin.Top + e.dateHeaderHeight()

	e.layoutTimeHeader(offset)
	e.layoutTimeline(offset)
	e.layoutDateHeadersAndItems(offset, contentMinX, contentMinY)
	e.layoutAllDayHeader(offset, contentMinX)
	e.layoutCornerHeader(offset)
	e.layoutHorizontalGridlines(offset, contentMinX, contentMinY)

	all := make([]*Attributes, 0,
		len(e.dateHeaderAttrs)+len(e.dateHeaderBG)+len(e.timeHeaderAttrs)+
			len(e.timeHeaderBG)+len(e.vGridAttrs)+len(e.hGridAttrs)+
			len(e.cornerAttrs)+len(e.timelineAttrs)+len(e.itemAttrs)+
			len(e.allDayCorner)+len(e.allDayAttrs)+len(e.allDayBG))
	for _, c := range []attrCache{
		e.dateHeaderAttrs, e.dateHeaderBG, e.timeHeaderAttrs, e.timeHeaderBG,
		e.vGridAttrs, e.hGridAttrs, e.cornerAttrs, e.timelineAttrs,
		e.itemAttrs, e.allDayCorner, e.allDayAttrs, e.allDayBG,
	} {
		all = append(all, c.sorted()...)
	}
	return all
}

// LayoutVisible runs a pass and keeps only attributes intersecting the
// visible rect.
func (e *Engine) LayoutVisible(offset Point, visible Rect) []*Attributes {
	all := e.Layout(offset)
	out := all[:0:0]
	for _, a := range all {
		if !a.Hidden && visible.Intersects(a.Frame) {
			out = append(out, a)
		}
	}
	return out
}

func (e *Engine) layoutDateHeadersAndItems(offset Point, contentMinX, contentMinY float64) {
	headerMinY := offset.Y
	if !e.cfg.StickyDateHeader {
		headerMinY = math.Max(offset.Y, 0)
	}

	currentDay := e.DateForContentOffset(offset)
	for section := 0; section < e.NumSections(); section++ {
		sectionMinX := contentMinX + e.sectionWidth*float64(section)
		day := e.ds.DayForSection(section)

		a := e.dateHeaderAttrs.fetch(KindDateHeader, IndexPath{Section: section})
		hidden := e.IsHiddenTopDate() && !timeutil.IsSameDay(day, currentDay)
		if e.IsHiddenTopDate() {
			x := offset.X
			if hidden {
				x = -e.timeHeaderWidth
			}
			a.Frame = NewRect(x, headerMinY, e.timeHeaderWidth, e.metrics.DateHeaderHeight)
		} else {
			a.Frame = NewRect(sectionMinX, headerMinY, e.sectionWidth, e.metrics.DateHeaderHeight)
		}
		a.Hidden = hidden
		a.ZIndex = e.zIndexFor(KindDateHeader)

		e.layoutVerticalGridline(section, sectionMinX, offset.Y)
		e.layoutItems(section, sectionMinX, contentMinY)
	}

	if !e.IsHiddenTopDate() {
		bg := e.dateHeaderBG.fetch(KindDateHeaderBG, IndexPath{})
		height := e.metrics.DateHeaderHeight
		if !e.cfg.StickyDateHeader && offset.Y < 0 {
			height += -offset.Y
		}
		bg.Frame = NewRect(offset.X, offset.Y, e.ContentSize().Width, height)
		bg.ZIndex = e.zIndexFor(KindDateHeaderBG)
	}
}

func (e *Engine) layoutVerticalGridline(section int, sectionMinX, gridMinY float64) {
	a := e.vGridAttrs.fetch(KindVerticalGridline, IndexPath{Section: section})
	a.Frame = NewRect(
		Round1(sectionMinX-e.metrics.GridThickness/2),
		gridMinY,
		e.metrics.GridThickness,
		e.ContentSize().Height,
	)
	a.ZIndex = e.zIndexFor(KindVerticalGridline)
}

func (e *Engine) layoutItems(section int, sectionMinX, calendarStartY float64) {
	day := e.ds.DayForSection(section)
	events := e.ds.TimedEventsOn(day)

	sectionItems := make([]*Attributes, 0, len(events))
	for item, ev := range events {
		a := e.itemAttrs.fetch(KindEventCell, IndexPath{Section: section, Item: item})

		startHourY := float64(ev.IntraStart.Hour()) * e.metrics.HourHeight
		startMinuteY := float64(ev.IntraStart.Minute()) * e.metrics.MinuteHeight()
		endHourY := float64(ev.IntraEnd.Hour()) * e.metrics.HourHeight
		if !timeutil.IsSameDay(ev.IntraStart, ev.IntraEnd) {
			endHourY += 24 * e.metrics.HourHeight
		}
		endMinuteY := float64(ev.IntraEnd.Minute()) * e.metrics.MinuteHeight()

		m := e.metrics.ItemMargin
		minX := Round1(sectionMinX + m.Left)
		minY := Round1(startHourY + startMinuteY + calendarStartY + m.Top)
		maxX := Round1(minX + e.sectionWidth - (m.Left + m.Right))
		maxY := Round1(endHourY + endMinuteY + calendarStartY - m.Bottom)

		a.Frame = NewRect(minX, minY, maxX-minX, maxY-minY)
		a.ZIndex = e.zIndexFor(KindEventCell)
		sectionItems = append(sectionItems, a)
	}

	e.packOverlaps(sectionItems, sectionMinX, e.zIndexFor(KindEventCell))
}

func (e *Engine) layoutTimeHeader(offset Point) {
	headerMinX := math.Max(offset.X, 0)
	tickHeight := e.tickHeight()
	calendarMinY := e.dateHeaderHeight() + e.metrics.ContentsMargin.Top - tickHeight/2

	count := e.TickCount()
	for item := 0; item < count; item++ {
		a := e.timeHeaderAttrs.fetch(KindTimeHeader, IndexPath{Item: item})
		secs := e.tickClockSeconds(item)
		y := calendarMinY + float64(secs)/3600*e.metrics.HourHeight
		a.Frame = NewRect(headerMinX, y, e.timeHeaderWidth, tickHeight)
		a.ZIndex = e.zIndexFor(KindTimeHeader)
	}

	bg := e.timeHeaderBG.fetch(KindTimeHeaderBG, IndexPath{})
	bg.Frame = NewRect(headerMinX, offset.Y, e.timeHeaderWidth, e.viewport.Height)
	bg.ZIndex = e.zIndexFor(KindTimeHeaderBG)
}

func (e *Engine) layoutTimeline(offset Point) {
	contentMinY := e.metrics.ContentsMargin.Top + e.dateHeaderHeight()
	contentMinX := e.timeHeaderWidth + e.metrics.ContentsMargin.Left
	now := e.now()
	timeY := contentMinY + Round1(float64(now.Hour()))*e.metrics.HourHeight +
		float64(now.Minute())*e.metrics.MinuteHeight()
	minY := timeY - Round1(e.metrics.GridThickness/2) - e.metrics.TimelineHeight/2

	for section := 0; section < e.NumSections(); section++ {
		a := e.timelineAttrs.fetch(KindTimeline, IndexPath{Section: section})
		sectionMinX := contentMinX + e.sectionWidth*float64(section)
		a.Frame = NewRect(sectionMinX, minY, e.sectionWidth, e.metrics.TimelineHeight)
		a.ZIndex = e.zIndexFor(KindTimeline)
		a.Hidden = !timeutil.IsSameDay(e.ds.DayForSection(section), now)
	}
}

func (e *Engine) layoutAllDayHeader(offset Point, contentMinX float64) {
	headerMinY := offset.Y + e.dateHeaderHeight()
	height := e.allDayHeaderHeight
	if e.IsHiddenTopDate() {
		height = math.Max(e.metrics.DateHeaderHeight, e.allDayHeaderHeight)
	}

	for section := 0; section < e.NumSections(); section++ {
		a := e.allDayAttrs.fetch(KindAllDayHeader, IndexPath{Section: section})
		y := headerMinY
		if e.IsHiddenTopDate() {
			y += e.metrics.AllDayMargin.Top
		}
		a.Frame = NewRect(contentMinX+e.sectionWidth*float64(section), y, e.sectionWidth, height)
		a.ZIndex = e.zIndexFor(KindAllDayHeader)
		a.Hidden = len(e.ds.AllDayEventsOn(e.ds.DayForSection(section))) == 0
	}

	bg := e.allDayBG.fetch(KindAllDayHeaderBG, IndexPath{})
	bg.Frame = NewRect(offset.X, headerMinY, e.ContentSize().Width, height)
	bg.ZIndex = e.zIndexFor(KindAllDayHeaderBG)

	corner := e.allDayCorner.fetch(KindAllDayCorner, IndexPath{})
	x := offset.X
	if !e.NeedsExpandAllDay {
		x = -e.timeHeaderWidth
	}
	corner.Frame = NewRect(x, headerMinY, e.timeHeaderWidth, height)
	corner.ZIndex = e.zIndexFor(KindAllDayCorner)
}

func (e *Engine) layoutCornerHeader(offset Point) {
	a := e.cornerAttrs.fetch(KindDateCorner, IndexPath{})
	height := e.metrics.DateHeaderHeight + e.allDayHeaderHeight
	if e.IsHiddenTopDate() {
		height = math.Max(e.metrics.DateHeaderHeight, e.allDayHeaderHeight)
	}
	a.Frame = NewRect(offset.X, offset.Y, e.timeHeaderWidth, height)
	a.ZIndex = e.zIndexFor(KindDateCorner)
}

func (e *Engine) layoutHorizontalGridlines(offset Point, calendarStartX, calendarStartY float64) {
	gridWidth := e.ContentSize().Width - e.timeHeaderWidth -
		e.metrics.ContentsMargin.Left - e.metrics.ContentsMargin.Right
	width := math.Min(gridWidth, e.viewport.Width)
	minX := math.Max(calendarStartX, offset.X+calendarStartX)

	for hour := 0; hour <= 24; hour++ {
		a := e.hGridAttrs.fetch(KindHorizontalGridline, IndexPath{Item: hour})
		minY := calendarStartY + e.metrics.HourHeight*float64(hour) - Round1(e.metrics.GridThickness/2)
		a.Frame = NewRect(minX, minY, width, e.metrics.GridThickness)
		a.ZIndex = e.zIndexFor(KindHorizontalGridline)
	}
}
