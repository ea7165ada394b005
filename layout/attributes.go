package layout

import (
	"sort"
	"time"
)

// ElementKind identifies one class of visual element in the grid.
type ElementKind string

const (
	KindEventCell          ElementKind = "EventCell"
	KindDateHeader         ElementKind = "DateHeader"
	KindDateHeaderBG       ElementKind = "DateHeaderBackground"
	KindTimeHeader         ElementKind = "TimeHeader"
	KindTimeHeaderBG       ElementKind = "TimeHeaderBackground"
	KindDateCorner         ElementKind = "DateCorner"
	KindAllDayHeader       ElementKind = "AllDayHeader"
	KindAllDayHeaderBG     ElementKind = "AllDayHeaderBackground"
	KindAllDayCorner       ElementKind = "AllDayCorner"
	KindTimeline           ElementKind = "Timeline"
	KindVerticalGridline   ElementKind = "VerticalGridline"
	KindHorizontalGridline ElementKind = "HorizontalGridline"
)

// IndexPath addresses one element within its kind: Section is the day-column
// index inside the current window, Item the element's index within that
// section (event index, tick index, gridline index).
type IndexPath struct {
	Section int
	Item    int
}

// Attributes is the computed placement of one element: where to paint it and
// in which stacking order. The rendering collaborator consumes these and owns
// all pixels.
type Attributes struct {
	Kind   ElementKind
	Index  IndexPath
	Frame  Rect
	ZIndex int
	Hidden bool
}

// DateHeaderItem is the typed content behind a date header attribute.
type DateHeaderItem struct {
	Date    time.Time
	IsToday bool
}

// TimeLabelItem is the typed content behind one time tick. IsHighlighted is
// set while a drag gesture covers this tick.
type TimeLabelItem struct {
	Time          time.Time
	IsHighlighted bool
	// IsDisplayed is false for ticks whose hour falls outside the configured
	// visible time range; the renderer leaves those blank.
	IsDisplayed bool
	// IsEndOfDay distinguishes the trailing 24:00 tick from the 00:00 one.
	IsEndOfDay bool
}

// attrCache is the per-pass arena for one element kind. Attributes are
// allocated once per index path and their frames rewritten on every layout
// pass; invalidation empties the arena wholesale.
type attrCache map[IndexPath]*Attributes

func (c attrCache) fetch(kind ElementKind, idx IndexPath) *Attributes {
	if a, ok := c[idx]; ok {
		return a
	}
	a := &Attributes{Kind: kind, Index: idx}
	c[idx] = a
	return a
}

// sorted returns the cache contents in (section, item) order so layout
// passes over identical inputs produce identical output slices.
func (c attrCache) sorted() []*Attributes {
	out := make([]*Attributes, 0, len(c))
	for _, a := range c {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index.Section != out[j].Index.Section {
			return out[i].Index.Section < out[j].Index.Section
		}
		return out[i].Index.Item < out[j].Index.Item
	})
	return out
}
