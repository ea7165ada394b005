package calendar

// The all-day bar sits between the date header and the timed grid. Its
// height follows the busiest visible day: up to two events show as-is, more
// collapse behind a "+N" line unless the host expands the bar.

// collapsedVisibleEvents is how many all-day events fit before the bar
// collapses the remainder.
const collapsedVisibleEvents = 2

// AllDayInfo describes the bar for the current page.
type AllDayInfo struct {
	// MaxCount is the largest all-day event count among visible days.
	MaxCount int
	// NeedsExpansion is true when some day holds more events than the
	// collapsed bar shows.
	NeedsExpansion bool
	// Expanded is the host-controlled state; meaningless unless
	// NeedsExpansion.
	Expanded bool
	// Height is the bar's pixel height.
	Height float64
}

// AllDayInfo reports the current bar state.
func (v *View) AllDayInfo() AllDayInfo {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.allDayInfoLocked()
}

func (v *View) allDayInfoLocked() AllDayInfo {
	maxCount := 0
	if v.engine.HasViewport() {
		// Scanned as a scrolling range so a partially visible neighbor day
		// still counts toward the bar height.
		for _, day := range v.engine.DatesInCurrentPage(v.offset, true) {
			if n := v.bucket.AllDayCountOn(day); n > maxCount {
				maxCount = n
			}
		}
	}

	m := v.engine.Metrics()
	info := AllDayInfo{
		MaxCount:       maxCount,
		NeedsExpansion: maxCount > collapsedVisibleEvents,
		Expanded:       v.allDayExpanded,
	}

	lines := maxCount
	if info.NeedsExpansion && !v.allDayExpanded {
		lines = m.CollapsedAllDayLines
	}
	if lines > 0 {
		info.Height = float64(lines)*m.AllDayRowHeight + m.AllDayMargin.Top + m.AllDayMargin.Bottom
	}
	return info
}

// SetAllDayExpanded expands or collapses the bar. A change re-runs layout
// and notifies the host with the new height.
func (v *View) SetAllDayExpanded(expanded bool) {
	v.mu.Lock()
	if v.allDayExpanded == expanded {
		v.mu.Unlock()
		return
	}
	v.allDayExpanded = expanded
	v.updateAllDayBarLocked()
	info := v.allDayInfoLocked()
	cb := v.cb.AllDayExpansionChanged
	v.mu.Unlock()

	if cb != nil {
		cb(expanded, info.Height)
	}
}

// updateAllDayBarLocked pushes the bar's current height and expandability
// into the engine.
func (v *View) updateAllDayBarLocked() {
	if !v.engine.HasViewport() {
		return
	}
	info := v.allDayInfoLocked()
	v.engine.NeedsExpandAllDay = info.NeedsExpansion
	v.engine.SetAllDayHeaderHeight(info.Height)
}
