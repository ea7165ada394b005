package layout

// Stacking bands. Overlay elements (headers, corners, the now indicator) sit
// above cells, cells above background decorations.
const (
	minOverlayZ    = 1000
	minCellZ       = 100
	minBackgroundZ = 0
)

// Metrics carries every tuned geometry constant. The values are empirically
// chosen in the reference design; override fields before constructing the
// engine rather than re-deriving them.
type Metrics struct {
	HourHeight       float64
	DateHeaderHeight float64
	TimeHeaderWidth  float64
	GridThickness    float64
	TimelineHeight   float64
	// AllDayRowHeight is the height of one line of all-day events.
	AllDayRowHeight float64
	// CollapsedAllDayLines caps the all-day row when not expanded.
	CollapsedAllDayLines int

	ContentsMargin Insets
	AllDayMargin   Insets
	ItemMargin     Insets
}

// DefaultMetrics mirrors the reference design system.
func DefaultMetrics() Metrics {
	return Metrics{
		HourHeight:           56,
		DateHeaderHeight:     64,
		TimeHeaderWidth:      64,
		GridThickness:        1,
		TimelineHeight:       10,
		AllDayRowHeight:      28,
		CollapsedAllDayLines: 3,
		ContentsMargin:       Insets{Top: 0, Left: 0, Bottom: 16, Right: 0},
		AllDayMargin:         Insets{Top: 12, Left: 0, Bottom: 0, Right: 0},
		ItemMargin:           Insets{Top: 1, Left: 0.5, Bottom: 1, Right: 4},
	}
}

// MinuteHeight is the vertical extent of one minute.
func (m Metrics) MinuteHeight() float64 {
	return m.HourHeight / 60
}

// MinCellHeight is the smallest height an event cell may shrink to while
// resizing.
func (m Metrics) MinCellHeight() float64 {
	return m.HourHeight / 2
}
