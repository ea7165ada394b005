package scroll

import (
	"math"
	"time"

	"github.com/shohe/infinitecal/layout"
)

// decelerationCoeff is the natural deceleration rate expressed as a
// per-millisecond log coefficient, matching the reference scroll physics.
const decelerationCoeff = -4.61538

// settleThreshold is the residual velocity, in points per millisecond, below
// which a deceleration is considered finished.
const settleThreshold = 0.1

// DecelerationDuration estimates how long a fling at the given velocity
// takes to coast below the settle threshold.
func DecelerationDuration(velocity float64) time.Duration {
	v := math.Abs(velocity)
	if v <= settleThreshold {
		return 0
	}
	ms := math.Log(-decelerationCoeff*settleThreshold/v) / decelerationCoeff * 1000
	return time.Duration(ms) * time.Millisecond
}

// Animator interpolates a scroll offset between two points over a fixed
// duration. It is passive: the owner calls Tick on its own clock.
type Animator struct {
	from, to layout.Point
	start    time.Time
	duration time.Duration
	timing   TimingFunction
	active   bool
}

// Start begins an animation. A zero or negative duration completes on the
// first Tick.
func (a *Animator) Start(from, to layout.Point, at time.Time, d time.Duration, fn TimingFunction) {
	if fn == nil {
		fn = QuartOut
	}
	a.from, a.to = from, to
	a.start = at
	a.duration = d
	a.timing = fn
	a.active = true
}

// Active reports whether an animation is in flight.
func (a *Animator) Active() bool { return a.active }

// Target returns the destination of the current animation.
func (a *Animator) Target() layout.Point { return a.to }

// Cancel stops the animation where it is.
func (a *Animator) Cancel() { a.active = false }

// Rebase shifts an in-flight animation horizontally, used when the content
// recenters underneath it.
func (a *Animator) Rebase(dx float64) {
	a.from.X += dx
	a.to.X += dx
}

// Tick returns the offset at the given instant and whether the animation has
// finished. After finishing the animator deactivates itself.
func (a *Animator) Tick(now time.Time) (layout.Point, bool) {
	if !a.active {
		return a.to, true
	}
	if a.duration <= 0 {
		a.active = false
		return a.to, true
	}

	t := float64(now.Sub(a.start)) / float64(a.duration)
	if t >= 1 {
		a.active = false
		return a.to, true
	}
	if t < 0 {
		t = 0
	}

	p := a.timing(t)
	return layout.Point{
		X: a.from.X + (a.to.X-a.from.X)*p,
		Y: a.from.Y + (a.to.Y-a.from.Y)*p,
	}, false
}
