package gesture

import (
	"math"

	"github.com/shohe/infinitecal/layout"
)

// AutoScrollTick advances the edge auto-scroll by one timer tick. While a
// drag sits inside one of the viewport edge zones the owner's scroll offset
// is nudged each tick; vertical speed scales with how deep into the zone the
// pointer is, and horizontal movement advances a whole page after the
// pointer has dwelt at the edge long enough.
func (ed *Editor) AutoScrollTick() {
	if ed.state != stateActive || ed.cb.AutoScroll == nil {
		return
	}

	viewport := ed.engine.Viewport()
	p := ed.lastSample.PointInView

	var delta layout.Point

	topZone := viewport.Height * topZoneRatio
	bottomZone := viewport.Height * (1 - bottomZoneRatio)
	switch {
	case p.Y < topZone:
		depth := (topZone - p.Y) / topZone
		delta.Y = -autoScrollSpeed(depth)
	case p.Y > bottomZone:
		depth := (p.Y - bottomZone) / (viewport.Height - bottomZone)
		delta.Y = autoScrollSpeed(depth)
	}

	leftZone := viewport.Width * leftZoneRatio
	rightZone := viewport.Width * (1 - rightZoneRatio)
	horizontal := 0
	switch {
	case p.X < leftZone:
		horizontal = -1
	case p.X > rightZone:
		horizontal = 1
	}

	if horizontal != 0 {
		ed.edgeTicks++
		if ed.edgeTicks >= autoScrollAdvanceTicks {
			ed.edgeTicks = 0
			delta.X = float64(horizontal) * ed.engine.PageWidth()
			ed.haptic(HapticScrollTic)
		}
	} else {
		ed.edgeTicks = 0
	}

	if delta.X == 0 && delta.Y == 0 {
		return
	}
	ed.cb.AutoScroll(delta)
}

// autoScrollSpeed maps zone depth [0,1] onto the speed band.
func autoScrollSpeed(depth float64) float64 {
	depth = math.Min(math.Max(depth, 0), 1)
	return minAutoScrollSpeed + (maxAutoScrollSpeed-minAutoScrollSpeed)*depth
}
