// Package layout converts the calendar's date/time domain into pixel
// geometry: header bands, gridlines, time ticks, the now indicator and event
// cells, including side-by-side packing of temporally overlapping cells.
// It is a pure function of (settings, viewport, scroll offset, date window);
// rendering is somebody else's job.
package layout

import "math"

// Point is a position in content coordinates.
type Point struct {
	X float64
	Y float64
}

// Length is the magnitude of the vector described by the point.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Insets are margins around a box.
type Insets struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Origin Point
	Size   Size
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

func (r Rect) MinX() float64 { return r.Origin.X }
func (r Rect) MinY() float64 { return r.Origin.Y }
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

// Intersects reports whether r and other share any area.
func (r Rect) Intersects(other Rect) bool {
	return r.MinX() < other.MaxX() && other.MinX() < r.MaxX() &&
		r.MinY() < other.MaxY() && other.MinY() < r.MaxY()
}

// Contains reports whether p lies within r (inclusive of the min edges).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// FloatRange is a closed interval on one axis.
type FloatRange struct {
	Lower float64
	Upper float64
}

func (fr FloatRange) Width() float64 { return fr.Upper - fr.Lower }

func (fr FloatRange) Contains(v float64) bool {
	return v >= fr.Lower && v <= fr.Upper
}

// Clamp pins v into the range.
func (fr FloatRange) Clamp(v float64) float64 {
	return math.Min(math.Max(v, fr.Lower), fr.Upper)
}

// Round1 rounds to the nearest 0.1 unit. All pixel boundaries pass through
// this single precision so adjacent cells meet without one-pixel seams.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
