// Package gesture turns pointer samples into event edits: long-press to
// create or grab a cell, drag to move or resize it, with edge auto-scroll
// and snap highlighting along the time axis. The editor owns only the edit
// state machine; scrolling and persistence happen through callbacks.
package gesture

import (
	"log/slog"
	"time"

	"github.com/samber/mo"

	"github.com/shohe/infinitecal/event"
	"github.com/shohe/infinitecal/layout"
)

// Phase is the lifecycle stage of one pointer sample.
type Phase int

const (
	PhaseBegan Phase = iota
	PhaseChanged
	PhaseEnded
	PhaseCancelled
)

// Sample is one pointer update in content coordinates. PointInView is the
// same position relative to the viewport, used for edge detection.
type Sample struct {
	Phase       Phase
	Point       layout.Point
	PointInView layout.Point
	Velocity    layout.Point
}

// Kind distinguishes creating a new event from dragging an existing one.
type Kind int

const (
	KindNone Kind = iota
	KindAddNew
	KindMove
)

type state int

const (
	stateIdle state = iota
	stateActive
)

// Haptic intensities reported through OnHaptic, normalized to [0,1].
const (
	HapticGrab      = 1.0
	HapticSnap      = 0.4
	HapticScrollTic = 0.6
	HapticCommit    = 0.8
)

// autoScrollAdvanceTicks is how many edge-scroll ticks accumulate before a
// horizontal auto-scroll advances a whole page.
const autoScrollAdvanceTicks = 100

// Edge zones as fractions of the viewport, and the auto-scroll speed band
// in points per tick.
const (
	topZoneRatio    = 0.3
	bottomZoneRatio = 0.3
	leftZoneRatio   = 0.15
	rightZoneRatio  = 0.07

	minAutoScrollSpeed = 0.5
	maxAutoScrollSpeed = 4.0
)

// Callbacks are the editor's outputs. Nil fields are skipped.
type Callbacks struct {
	// Created fires when a drag-create commits.
	Created func(start, end time.Time)
	// Moved fires when a grabbed event commits at a new range.
	Moved func(ev event.Event, start, end time.Time)
	// Cancelled fires when an edit aborts; the event's range is untouched.
	Cancelled func(ev mo.Option[event.Event], start, end time.Time)
	// PreviewChanged fires whenever the preview rect moves or resizes.
	PreviewChanged func(kind Kind, frame layout.Rect)
	// HighlightChanged fires when the snapped time tick under the drag
	// changes. Deduplicated.
	HighlightChanged func(idx layout.IndexPath)
	// AutoScroll asks the owner to move the scroll offset by a delta.
	AutoScroll func(delta layout.Point)
	// Haptic reports feedback intensity for the host to render.
	Haptic func(intensity float64)
}

// Editor is the drag-edit state machine. It is not safe for concurrent use;
// the owner serializes samples and ticks.
type Editor struct {
	engine *layout.Engine
	cb     Callbacks
	logger *slog.Logger

	// DefaultDurationMinutes sizes a fresh drag-create block.
	DefaultDurationMinutes int
	// MinBlockMinutes is the start-snap granularity of a drag-create.
	MinBlockMinutes int

	state state
	kind  Kind

	preview   layout.Rect
	base      layout.Rect
	grabPoint layout.Point
	resizing  bool

	target        event.Event
	origStart     time.Time
	origEnd       mo.Option[time.Time]
	origIntraEnd  time.Time
	scrollOffsetY float64

	lastHighlight layout.IndexPath
	hasHighlight  bool
	edgeTicks     int
	lastSample    Sample
}

// NewEditor builds an editor over the layout engine.
func NewEditor(engine *layout.Engine, cb Callbacks, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		engine:                 engine,
		cb:                     cb,
		logger:                 logger,
		DefaultDurationMinutes: 60,
		MinBlockMinutes:        30,
	}
}

// Active reports whether an edit is in flight.
func (ed *Editor) Active() bool { return ed.state == stateActive }

// Kind is the active edit kind, or KindNone.
func (ed *Editor) Kind() Kind {
	if ed.state != stateActive {
		return KindNone
	}
	return ed.kind
}

// Preview is the current preview frame. Meaningful only while active.
func (ed *Editor) Preview() layout.Rect { return ed.preview }

// Target is the event being moved, present only for KindMove.
func (ed *Editor) Target() mo.Option[event.Event] {
	if ed.state == stateActive && ed.kind == KindMove {
		return mo.Some(ed.target)
	}
	return mo.None[event.Event]()
}

// Handle consumes one pointer sample. A terminal sample with no edit in
// flight is a no-op. The scrollOffset is the viewport origin in content
// coordinates at the time of the sample.
func (ed *Editor) Handle(s Sample, scrollOffset layout.Point) {
	switch s.Phase {
	case PhaseBegan:
		ed.begin(s, scrollOffset)
	case PhaseChanged:
		if ed.state != stateActive {
			return
		}
		ed.change(s, scrollOffset)
	case PhaseEnded:
		if ed.state != stateActive {
			return
		}
		ed.commit(s)
	case PhaseCancelled:
		if ed.state != stateActive {
			return
		}
		ed.abort()
	}
}

func (ed *Editor) begin(s Sample, scrollOffset layout.Point) {
	if ed.state == stateActive {
		// A second pointer while editing aborts the edit.
		ed.abort()
		return
	}

	ed.scrollOffsetY = scrollOffset.Y
	ed.edgeTicks = 0
	ed.hasHighlight = false
	ed.lastSample = s

	if idx, ok := ed.engine.ItemAt(s.Point); ok {
		ed.beginMove(s, idx)
	} else {
		ed.beginAddNew(s)
	}
	ed.state = stateActive
	ed.haptic(HapticGrab)
	ed.notifyPreview()
	ed.updateHighlight(s.Point)
}

func (ed *Editor) beginMove(s Sample, idx layout.IndexPath) {
	ev, ok := ed.engine.EventAt(idx)
	if !ok {
		ed.beginAddNew(s)
		return
	}
	frame, _ := ed.engine.ItemFrame(idx)

	ed.kind = KindMove
	ed.target = ev
	ed.target.EditState = event.EditMoving
	ed.origStart = ev.Start
	ed.origEnd = ev.End
	ed.origIntraEnd = ev.IntraEnd
	ed.grabPoint = layout.Point{X: s.Point.X - frame.MinX(), Y: s.Point.Y - frame.MinY()}
	ed.preview = ed.engine.RectForMoveCell(frame, ev.Start, ev.End, ev.IntraEnd,
		s.Point, s.PointInView, ed.grabPoint, ed.scrollOffsetY)
	ed.base = frame
	ed.resizing = false

	ed.logger.Debug("edit began", "kind", "move", "event", ev.ID)
}

func (ed *Editor) beginAddNew(s Sample) {
	ed.kind = KindAddNew
	ed.target = event.Event{}
	ed.grabPoint = layout.Point{}
	ed.preview = ed.engine.RectForNewCell(s.Point, ed.DefaultDurationMinutes, ed.MinBlockMinutes)
	ed.base = ed.preview
	ed.resizing = false

	ed.logger.Debug("edit began", "kind", "addNew")
}

func (ed *Editor) change(s Sample, scrollOffset layout.Point) {
	ed.scrollOffsetY = scrollOffset.Y
	ed.lastSample = s

	switch ed.kind {
	case KindMove:
		section := ed.engine.SectionAt(s.Point, s.PointInView)
		size := ed.engine.SizeForMoveCell(ed.origStart, ed.origEnd.OrElse(ed.origIntraEnd))
		origin := ed.engine.PointForMove(s.Point, ed.grabPoint, section, scrollOffset.Y)
		ed.preview = layout.Rect{Origin: origin, Size: size}
	case KindAddNew:
		if ed.pastBase(s.Point) {
			ed.resizing = true
		}
		if ed.resizing {
			ed.preview = ed.engine.RectForResize(s.Point, ed.preview, ed.base)
		}
	}

	ed.notifyPreview()
	ed.updateHighlight(s.Point)
}

// pastBase reports whether the drag has left the initial block, which flips
// a drag-create from placing to resizing.
func (ed *Editor) pastBase(p layout.Point) bool {
	return p.Y > ed.base.MaxY() || p.Y < ed.base.MinY()
}

func (ed *Editor) commit(s Sample) {
	ed.lastSample = s
	kind := ed.kind
	preview := ed.preview
	target := ed.target
	ed.reset()

	switch kind {
	case KindAddNew:
		start, end := ed.engine.DateRangeForCell(preview, true, time.Time{}, mo.None[time.Time]())
		if min := time.Duration(ed.MinBlockMinutes) * time.Minute; end.Sub(start) < min {
			end = start.Add(min)
		}
		ed.haptic(HapticCommit)
		if ed.cb.Created != nil {
			ed.cb.Created(start, end)
		}
	case KindMove:
		start, end := ed.engine.DateRangeForCell(preview, false, ed.origStart, ed.origEnd)
		ed.haptic(HapticCommit)
		if ed.cb.Moved != nil {
			target.EditState = event.EditNone
			ed.cb.Moved(target, start, end)
		}
	}
}

func (ed *Editor) abort() {
	kind := ed.kind
	target := ed.target
	origStart, origEnd := ed.origStart, ed.origEnd
	ed.reset()

	if ed.cb.Cancelled == nil {
		return
	}
	switch kind {
	case KindMove:
		target.EditState = event.EditNone
		ed.cb.Cancelled(mo.Some(target), origStart, origEnd.OrElse(origStart))
	default:
		ed.cb.Cancelled(mo.None[event.Event](), time.Time{}, time.Time{})
	}
}

func (ed *Editor) reset() {
	ed.state = stateIdle
	ed.kind = KindNone
	ed.resizing = false
	ed.hasHighlight = false
	ed.edgeTicks = 0
}

func (ed *Editor) notifyPreview() {
	if ed.cb.PreviewChanged != nil {
		ed.cb.PreviewChanged(ed.kind, ed.preview)
	}
}

// updateHighlight snaps the drag point to a time tick and reports changes.
func (ed *Editor) updateHighlight(p layout.Point) {
	idx := ed.engine.HighlightIndexAt(p)
	if ed.hasHighlight && idx == ed.lastHighlight {
		return
	}
	ed.lastHighlight = idx
	ed.hasHighlight = true
	if ed.cb.HighlightChanged != nil {
		ed.cb.HighlightChanged(idx)
	}
	ed.haptic(HapticSnap)
}

func (ed *Editor) haptic(intensity float64) {
	if ed.cb.Haptic != nil {
		ed.cb.Haptic(intensity)
	}
}
