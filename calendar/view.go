package calendar

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/shohe/infinitecal/event"
	"github.com/shohe/infinitecal/gesture"
	"github.com/shohe/infinitecal/internal/timeutil"
	"github.com/shohe/infinitecal/layout"
	"github.com/shohe/infinitecal/scroll"
)

// settleDelay debounces current-date reporting while a scroll settles.
const settleDelay = 100 * time.Millisecond

// Callbacks are the view's outputs toward the host. Nil fields are skipped.
type Callbacks struct {
	// CurrentDateChanged fires once per settled date change, not per frame.
	CurrentDateChanged func(day time.Time)
	// ItemSelected fires on a tap over an event cell.
	ItemSelected func(ev event.Event)
	// EventAdded fires when a drag-create commits.
	EventAdded func(start, end time.Time)
	// EventMoved fires when a drag-move commits.
	EventMoved func(ev event.Event, start, end time.Time)
	// EventEditCancelled fires when an edit aborts, with the untouched range.
	EventEditCancelled func(ev mo.Option[event.Event], start, end time.Time)
	// AllDayExpansionChanged fires when the all-day bar collapses or expands.
	AllDayExpansionChanged func(expanded bool, height float64)
	// RedrawNeeded asks the host to re-render outside its own input loop,
	// for minute ticks and settle animations.
	RedrawNeeded func()
	// Haptic forwards drag feedback intensity.
	Haptic func(intensity float64)
}

// View is the calendar facade. All methods are safe to call from one
// goroutine; the internal timers synchronize through the view's lock.
type View struct {
	mu sync.Mutex

	settings Settings
	logger   *slog.Logger
	cb       Callbacks
	nowFunc  func() time.Time

	bucket *event.Bucket
	engine *layout.Engine
	ctrl   *scroll.Controller
	editor *gesture.Editor

	animator scroll.Animator
	offset   layout.Point

	reportedDate time.Time
	hasReported  bool

	allDayExpanded bool
	// DimmedEventID marks one event for muted rendering, typically the
	// original cell while its copy is dragged.
	dimmedEventID string

	minuteTicker *time.Ticker
	tickerDone   chan struct{}
	settleTimer  *time.Timer
	closed       bool

	// pendingEdits holds edit callbacks queued by the editor while the lock
	// is held; HandleEdit drains it after unlocking.
	pendingEdits []func()
}

// ViewOption configures optional collaborators.
type ViewOption func(*View)

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) ViewOption {
	return func(v *View) { v.logger = l }
}

// WithNowFunc replaces the wall clock, for tests.
func WithNowFunc(f func() time.Time) ViewOption {
	return func(v *View) { v.nowFunc = f }
}

// NewView builds a view anchored so that initialDate is on the center page.
// For the seven-day view the window aligns to the configured week start.
func NewView(settings Settings, initialDate time.Time, cb Callbacks, opts ...ViewOption) (*View, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}

	v := &View{
		settings: settings,
		logger:   slog.Default(),
		cb:       cb,
		nowFunc:  time.Now,
		bucket:   event.NewBucket(nil),
	}
	for _, opt := range opts {
		opt(v)
	}

	engine, err := layout.NewEngine(layout.DefaultMetrics(), layout.Config{
		NumOfDays:           settings.NumOfDays,
		WindowPages:         settings.WindowPages,
		SnapIntervalMinutes: settings.SnapIntervalMinutes,
		DatePositionLeft:    settings.DatePositionLeft,
		StickyDateHeader:    settings.StickyDateHeader,
		StartHour:           settings.StartHour,
		EndHour:             settings.EndHour,
	}, (*viewSource)(v), layout.WithLogger(v.logger), layout.WithNowFunc(func() time.Time {
		return v.nowFunc().In(settings.Location())
	}))
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	v.engine = engine

	anchor := v.anchorFor(initialDate)
	ctrl, err := scroll.NewController(anchor, scroll.Params{
		SectionWidth:   1, // replaced on the first SetViewport
		NumOfDays:      settings.NumOfDays,
		WindowPages:    settings.WindowPages,
		FlingThreshold: settings.FlingThreshold,
		PagingEnabled:  settings.ScrollMode == ScrollPage,
	}, v.logger)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	v.ctrl = ctrl

	v.editor = gesture.NewEditor(engine, gesture.Callbacks{
		Created:          v.editCreated,
		Moved:            v.editMoved,
		Cancelled:        v.editCancelled,
		HighlightChanged: engine.SetTickHighlight,
		AutoScroll:       v.editAutoScroll,
		Haptic:           v.haptic,
	}, v.logger)
	v.editor.DefaultDurationMinutes = settings.DefaultEventMinutes
	v.editor.MinBlockMinutes = 30

	return v, nil
}

// haptic forwards editor feedback, silenced when the settings turn
// vibration off. Called with the view lock held; the intensity values come
// straight from the editor.
func (v *View) haptic(intensity float64) {
	if !v.settings.VibrateFeedback {
		return
	}
	if cb := v.cb.Haptic; cb != nil {
		v.pendingEdits = append(v.pendingEdits, func() { cb(intensity) })
	}
}

// anchorFor picks section zero so the date lands on the center page,
// week-aligned for the seven-day view.
func (v *View) anchorFor(date time.Time) time.Time {
	day := timeutil.StartOfDay(date.In(v.settings.Location()))
	if v.settings.NumOfDays == 7 {
		day = timeutil.FirstDayOfWeek(day, v.settings.WeekStart)
	}
	centerPages := v.settings.WindowPages / 2
	return timeutil.AddDays(day, -centerPages*v.settings.NumOfDays)
}

// viewSource adapts the view to the engine's data source without exposing
// the methods on View itself.
type viewSource View

func (s *viewSource) DayForSection(section int) time.Time {
	return timeutil.AddDays(s.ctrl.Anchor(), section)
}

func (s *viewSource) TimedEventsOn(day time.Time) []event.Event {
	return s.bucket.TimedOn(timeutil.StartOfDay(day))
}

func (s *viewSource) AllDayEventsOn(day time.Time) []event.Event {
	return s.bucket.AllDayOn(timeutil.StartOfDay(day))
}

// StartClock begins the minute tick that advances the now indicator. The
// host calls it once after construction; Close stops it.
func (v *View) StartClock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.minuteTicker != nil || v.closed {
		return
	}
	v.minuteTicker = time.NewTicker(time.Minute)
	v.tickerDone = make(chan struct{})
	go func(tick <-chan time.Time, done <-chan struct{}) {
		for {
			select {
			case <-tick:
				v.onMinute()
			case <-done:
				return
			}
		}
	}(v.minuteTicker.C, v.tickerDone)
}

func (v *View) onMinute() {
	v.mu.Lock()
	v.engine.MinuteTick()
	redraw := v.cb.RedrawNeeded
	v.mu.Unlock()
	if redraw != nil {
		redraw()
	}
}

// Close releases the view's timers. The view is unusable afterwards.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.minuteTicker != nil {
		v.minuteTicker.Stop()
		close(v.tickerDone)
	}
	if v.settleTimer != nil {
		v.settleTimer.Stop()
	}
}

// SetViewport records the render surface size. Must be called before any
// geometry query; the initial offset centers the window.
func (v *View) SetViewport(size layout.Size) {
	v.mu.Lock()
	defer v.mu.Unlock()

	first := !v.engine.HasViewport()
	v.engine.SetViewport(size)

	p := v.ctrl.Params()
	p.SectionWidth = v.engine.SectionWidth()
	v.ctrl.UpdateParams(p)

	if first {
		v.offset = layout.Point{X: v.ctrl.CenterOffsetX(), Y: 0}
	}
	v.updateAllDayBarLocked()
}

// SetEvents replaces the event set. Shards are rebuilt wholesale.
func (v *View) SetEvents(events []event.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bucket = event.NewBucket(events)
	v.engine.InvalidateCache()
	v.updateAllDayBarLocked()
	v.logger.Debug("events replaced", "count", len(events))
}

// Settings returns the active settings.
func (v *View) Settings() Settings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settings
}

// UpdateSettings applies new settings in place, preserving the current date.
func (v *View) UpdateSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	current := v.currentDateLocked()
	v.settings = s
	v.engine.UpdateConfig(layout.Config{
		NumOfDays:           s.NumOfDays,
		WindowPages:         s.WindowPages,
		SnapIntervalMinutes: s.SnapIntervalMinutes,
		DatePositionLeft:    s.DatePositionLeft,
		StickyDateHeader:    s.StickyDateHeader,
		StartHour:           s.StartHour,
		EndHour:             s.EndHour,
	})

	p := scroll.Params{
		SectionWidth:   1,
		NumOfDays:      s.NumOfDays,
		WindowPages:    s.WindowPages,
		FlingThreshold: s.FlingThreshold,
		PagingEnabled:  s.ScrollMode == ScrollPage,
	}
	if v.engine.HasViewport() {
		p.SectionWidth = v.engine.SectionWidth()
	}
	v.ctrl.UpdateParams(p)
	v.ctrl.SetAnchor(v.anchorFor(current))
	if v.engine.HasViewport() {
		v.offset = layout.Point{X: v.ctrl.CenterOffsetX(), Y: v.offset.Y}
	}
	v.editor.DefaultDurationMinutes = s.DefaultEventMinutes
	v.updateAllDayBarLocked()
	return nil
}

// Offset is the current scroll offset in content coordinates.
func (v *View) Offset() layout.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// CurrentDate is the day of the column at the viewport's left edge.
func (v *View) CurrentDate() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentDateLocked()
}

func (v *View) currentDateLocked() time.Time {
	return v.engine.DateForContentOffset(v.offset)
}

// VisibleDates lists the days on the current page.
func (v *View) VisibleDates() []time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engine.DatesInCurrentPage(v.offset, false)
}

// Layout runs a full layout pass at the current offset.
func (v *View) Layout() []*layout.Attributes {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engine.Layout(v.offset)
}

// LayoutVisible runs a layout pass and keeps only on-screen attributes.
func (v *View) LayoutVisible() []*layout.Attributes {
	v.mu.Lock()
	defer v.mu.Unlock()
	viewport := v.engine.Viewport()
	visible := layout.Rect{Origin: v.offset, Size: viewport}
	return v.engine.LayoutVisible(v.offset, visible)
}

// Engine exposes the geometry engine for read-only queries.
func (v *View) Engine() *layout.Engine { return v.engine }

// DayForSection resolves a window section to its calendar day.
func (v *View) DayForSection(section int) time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return timeutil.AddDays(v.ctrl.Anchor(), section)
}

// TimedEvents returns the timed shards on a day.
func (v *View) TimedEvents(day time.Time) []event.Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bucket.TimedOn(timeutil.StartOfDay(day))
}

// AllDayEvents returns the all-day shards on a day.
func (v *View) AllDayEvents(day time.Time) []event.Event {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bucket.AllDayOn(timeutil.StartOfDay(day))
}

// DimmedEventID is the event rendered muted during a drag, if any.
func (v *View) DimmedEventID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dimmedEventID
}
