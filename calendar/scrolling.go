package calendar

import (
	"time"

	"github.com/samber/mo"

	"github.com/shohe/infinitecal/event"
	"github.com/shohe/infinitecal/gesture"
	"github.com/shohe/infinitecal/layout"
	"github.com/shohe/infinitecal/scroll"
)

// Scroll input. The host feeds drag phases in content coordinates and calls
// Tick on its frame clock while IsSettling reports true.

// BeginScrollDrag starts a scroll drag. The returned axis tells the host
// which component of subsequent positions will be honored.
func (v *View) BeginScrollDrag(velocity layout.Point) scroll.Axis {
	v.mu.Lock()
	defer v.mu.Unlock()

	settling := v.animator.Active()
	target := v.animator.Target()
	v.animator.Cancel()

	axis := v.ctrl.BeginDrag(v.offset, velocity)
	if settling {
		// Grabbing mid-settle: the page the user reached for is where the
		// animation was heading, not wherever the offset happens to be now.
		v.ctrl.NoteTappedPage(target.X)
	}
	return axis
}

// ScrollDragTo moves the scroll to a proposed offset, axis-locked and
// recentered as needed.
func (v *View) ScrollDragTo(proposed layout.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.applyOffsetLocked(v.ctrl.ConstrainDrag(proposed))
}

// EndScrollDrag releases the drag; the offset decelerates to its settle
// target. Velocity is in points per millisecond.
func (v *View) EndScrollDrag(velocity layout.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()

	target := v.ctrl.EndDrag(v.offset, velocity)
	target = v.engine.OffsetForHorizontalBounce(target)
	if target == v.offset {
		v.scheduleSettleReportLocked()
		return
	}

	d := scroll.DecelerationDuration(velocity.Length())
	if d < settleDelay {
		d = settleDelay
	}
	v.animator.Start(v.offset, target, v.nowFunc(), d, scroll.QuartOut)
}

// IsSettling reports whether a deceleration animation is in flight.
func (v *View) IsSettling() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.animator.Active()
}

// Tick advances the settle animation to the given instant. The host calls
// it from its render loop; the return value says whether another frame is
// needed.
func (v *View) Tick(now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.animator.Active() {
		return false
	}
	offset, done := v.animator.Tick(now)
	v.applyOffsetLocked(offset)
	if done {
		v.scheduleSettleReportLocked()
	}
	return !done
}

// applyOffsetLocked stores a new offset and recenters the rolling window
// when it leaves the scrollable range. The shift also rebases any in-flight
// settle animation so the recenter is invisible.
func (v *View) applyOffsetLocked(offset layout.Point) {
	if shift, ok := v.ctrl.DidScroll(offset); ok {
		v.engine.InvalidateCache()
		delta := shift.Offset.X - offset.X
		if v.animator.Active() {
			v.animator.Rebase(delta)
		}
		offset = shift.Offset
	}
	v.offset = offset
}

// scheduleSettleReportLocked debounces the current-date callback until the
// scroll has been still for settleDelay.
func (v *View) scheduleSettleReportLocked() {
	if v.cb.CurrentDateChanged == nil || v.closed {
		return
	}
	if v.settleTimer != nil {
		v.settleTimer.Stop()
	}
	v.settleTimer = time.AfterFunc(settleDelay, v.reportCurrentDate)
}

func (v *View) reportCurrentDate() {
	v.mu.Lock()
	day := v.currentDateLocked()
	changed := !v.hasReported || !day.Equal(v.reportedDate)
	v.reportedDate = day
	v.hasReported = true
	cb := v.cb.CurrentDateChanged
	v.mu.Unlock()

	if changed && cb != nil {
		cb(day)
	}
}

// ScrollToDate animates (or jumps) so the given date is the first visible
// column.
func (v *View) ScrollToDate(date time.Time, animated bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	x := v.ctrl.OffsetForDay(date)
	target := v.engine.OffsetForHorizontalBounce(layout.Point{X: x, Y: v.offset.Y})
	if !animated {
		v.applyOffsetLocked(target)
		v.scheduleSettleReportLocked()
		return
	}
	v.animator.Start(v.offset, target, v.nowFunc(), 300*time.Millisecond, scroll.QuartOut)
}

// ScrollToNow vertically centers the now indicator.
func (v *View) ScrollToNow(animated bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	target := v.engine.OffsetForNow(v.offset)
	if !animated {
		v.applyOffsetLocked(target)
		return
	}
	v.animator.Start(v.offset, target, v.nowFunc(), 300*time.Millisecond, scroll.QuartOut)
}

// Tap resolves a tap to an event cell and reports it.
func (v *View) Tap(point layout.Point) {
	v.mu.Lock()
	idx, ok := v.engine.ItemAt(point)
	var ev event.Event
	if ok {
		ev, ok = v.engine.EventAt(idx)
	}
	cb := v.cb.ItemSelected
	v.mu.Unlock()

	if ok && cb != nil {
		cb(ev)
	}
}

// Edit input -------------------------------------------------------------

// HandleEdit feeds a pointer sample to the drag editor. No-op unless
// editing is enabled. Commit and cancel callbacks are delivered after the
// view lock is released, so hosts may call back into the view from them.
func (v *View) HandleEdit(s gesture.Sample) {
	v.mu.Lock()
	if !v.settings.EditingEnabled {
		v.mu.Unlock()
		return
	}
	v.editor.Handle(s, v.offset)
	if t, ok := v.editor.Target().Get(); ok {
		v.dimmedEventID = t.ID
	} else {
		v.dimmedEventID = ""
	}
	pending := v.pendingEdits
	v.pendingEdits = nil
	v.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// EditPreview is the drag preview frame, present while an edit is active.
func (v *View) EditPreview() (gesture.Kind, layout.Rect, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.editor.Active() {
		return gesture.KindNone, layout.Rect{}, false
	}
	return v.editor.Kind(), v.editor.Preview(), true
}

// EditAutoScrollTick advances edge auto-scroll while a drag sits at a
// viewport edge. The host calls it on a steady timer during edits.
func (v *View) EditAutoScrollTick() {
	v.mu.Lock()
	v.editor.AutoScrollTick()
	pending := v.pendingEdits
	v.pendingEdits = nil
	v.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

func (v *View) editAutoScroll(delta layout.Point) {
	// Already under the view lock: the editor only fires this from
	// AutoScrollTick.
	offset := layout.Point{X: v.offset.X + delta.X, Y: v.offset.Y + delta.Y}
	v.applyOffsetLocked(offset)
}

func (v *View) editCreated(start, end time.Time) {
	v.dimmedEventID = ""
	v.engine.ClearTickHighlight()
	if cb := v.cb.EventAdded; cb != nil {
		v.pendingEdits = append(v.pendingEdits, func() { cb(start, end) })
	}
}

func (v *View) editMoved(ev event.Event, start, end time.Time) {
	v.dimmedEventID = ""
	v.engine.ClearTickHighlight()
	if cb := v.cb.EventMoved; cb != nil {
		v.pendingEdits = append(v.pendingEdits, func() { cb(ev, start, end) })
	}
}

func (v *View) editCancelled(ev mo.Option[event.Event], start, end time.Time) {
	v.dimmedEventID = ""
	v.engine.ClearTickHighlight()
	if cb := v.cb.EventEditCancelled; cb != nil {
		v.pendingEdits = append(v.pendingEdits, func() { cb(ev, start, end) })
	}
}
