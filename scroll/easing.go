// Package scroll drives the infinite horizontal pagination: deceleration
// after a fling, snapping to page and day boundaries, and the rolling-window
// shift that recenters the materialized date range without a visible jump.
package scroll

import "math"

// TimingFunction maps normalized time [0,1] to normalized progress [0,1].
type TimingFunction func(t float64) float64

// The easing family used for settle and programmatic scroll animations.

func Linear(t float64) float64 { return t }

func QuadIn(t float64) float64  { return t * t }
func QuadOut(t float64) float64 { return t * (2 - t) }
func QuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func CubicIn(t float64) float64 { return t * t * t }
func CubicOut(t float64) float64 {
	u := t - 1
	return u*u*u + 1
}
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u + 1
}

func QuartIn(t float64) float64 { return t * t * t * t }
func QuartOut(t float64) float64 {
	u := t - 1
	return 1 - u*u*u*u
}
func QuartInOut(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	u := t - 1
	return 1 - 8*u*u*u*u
}

func QuintIn(t float64) float64 { return t * t * t * t * t }
func QuintOut(t float64) float64 {
	u := t - 1
	return u*u*u*u*u + 1
}
func QuintInOut(t float64) float64 {
	if t < 0.5 {
		return 16 * t * t * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u*u*u + 1
}

func SineIn(t float64) float64  { return 1 - math.Cos(t*math.Pi/2) }
func SineOut(t float64) float64 { return math.Sin(t * math.Pi / 2) }
func SineInOut(t float64) float64 {
	return 0.5 * (1 - math.Cos(t*math.Pi))
}

func ExpoIn(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}
func ExpoOut(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}
func ExpoInOut(t float64) float64 {
	switch {
	case t == 0:
		return 0
	case t == 1:
		return 1
	case t < 0.5:
		return 0.5 * math.Pow(2, 20*t-10)
	default:
		return 1 - 0.5*math.Pow(2, -20*t+10)
	}
}

func CircleIn(t float64) float64 {
	return 1 - math.Sqrt(1-t*t)
}
func CircleOut(t float64) float64 {
	u := t - 1
	return math.Sqrt(1 - u*u)
}
func CircleInOut(t float64) float64 {
	if t < 0.5 {
		return 0.5 * (1 - math.Sqrt(1-4*t*t))
	}
	u := 2*t - 2
	return 0.5 * (math.Sqrt(1-u*u) + 1)
}
