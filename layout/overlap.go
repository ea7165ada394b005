package layout

import (
	"math"
	"sort"
)

// Overlap packing. Cells whose vertical extents intersect are grouped and
// split across the day-column: the largest group gets equal slots, and every
// later group's remaining cells are spread over the horizontal ranges its
// already-placed neighbours left free.

type overlapGroup []*Attributes

// packOverlaps divides a section's cells horizontally so that no two
// vertically-overlapping cells share a horizontal range. Frames are adjusted
// in place; z-indexes increase monotonically so later cells stack on top.
func (e *Engine) packOverlaps(items []*Attributes, sectionMinX float64, baseZ int) {
	maxOverlap, groups := groupOverlapItems(items)
	if maxOverlap <= 1 || len(groups) == 0 {
		for _, a := range items {
			a.ZIndex = baseZ
		}
		return
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i]) > len(groups[j])
	})

	e.setAdjustedAttributes(groups, sectionMinX, len(groups[0]), baseZ)
}

// groupOverlapItems sweeps the sorted start and end positions, tracking the
// set of concurrently running cells. Each time the sweep stops growing, the
// running set is snapshotted as a group, and the finished cell leaves the
// set. Groups can share members: a cell that spans two clusters belongs to
// both, which is what lets a later group pack around it. Groups of one are
// discarded.
func groupOverlapItems(items []*Attributes) (int, []overlapGroup) {
	if len(items) < 2 {
		return len(items), nil
	}

	byMinY := make([]*Attributes, len(items))
	copy(byMinY, items)
	sort.SliceStable(byMinY, func(a, b int) bool {
		return byMinY[a].Frame.MinY() < byMinY[b].Frame.MinY()
	})
	byMaxY := make([]*Attributes, len(items))
	copy(byMaxY, items)
	sort.SliceStable(byMaxY, func(a, b int) bool {
		return byMaxY[a].Frame.MaxY() < byMaxY[b].Frame.MaxY()
	})

	maxOverlap, overlap := 0, 0
	i, j := 0, 0
	var groups []overlapGroup
	var current overlapGroup
	growing := false
	for i < len(items) && j < len(items) {
		if byMinY[i].Frame.MinY() < byMaxY[j].Frame.MaxY() {
			overlap++
			if overlap > maxOverlap {
				maxOverlap = overlap
			}
			growing = true
			current = append(current, byMinY[i])
			i++
		} else {
			overlap--
			if growing {
				if len(current) > 1 {
					groups = append(groups, append(overlapGroup(nil), current...))
				}
				growing = false
			}
			for k, a := range current {
				if a == byMaxY[j] {
					current = append(current[:k], current[k+1:]...)
					break
				}
			}
			j++
		}
	}
	if len(current) > 1 {
		groups = append(groups, current)
	}
	return maxOverlap, groups
}

// setAdjustedAttributes narrows and shifts each grouped cell. The first
// (largest) group divides the full column into equal slots. For every later
// group, the members already placed by an earlier group mark their ranges
// occupied; the rest are bucketed over the free ranges, each bucket dividing
// its range evenly, with overflow carried to the next free range.
func (e *Engine) setAdjustedAttributes(groups []overlapGroup, sectionMinX float64, largestCount int, baseZ int) {
	m := e.metrics.ItemMargin
	minSlotWidth := Round1(e.sectionWidth / float64(largestCount))

	z := baseZ
	adjusted := make(map[*Attributes]bool)

	// divideEvenly gives every cell an equal share of fullWidth, left to
	// right in start order, and marks it placed.
	const spacing = 1.0
	divideEvenly := func(fullWidth float64, group []*Attributes, minX float64) {
		itemWidth := Round1((fullWidth - m.Left - m.Right) / float64(len(group)))
		for i, a := range group {
			a.Frame.Origin.X = minX + m.Left + float64(i)*itemWidth
			a.Frame.Size.Width = itemWidth - spacing
			a.ZIndex = z
			z++
			adjusted[a] = true
		}
	}

	divideEvenly(e.sectionWidth, groups[0], sectionMinX)

	for _, group := range groups[1:] {
		var unplaced []*Attributes
		var occupied []FloatRange
		for _, a := range group {
			if adjusted[a] {
				occupied = append(occupied, FloatRange{Lower: a.Frame.MinX(), Upper: a.Frame.MaxX()})
			} else {
				unplaced = append(unplaced, a)
			}
		}
		if len(occupied) == 0 {
			divideEvenly(e.sectionWidth, group, sectionMinX)
			continue
		}
		if len(unplaced) == 0 {
			continue
		}

		ranges := e.availableRanges(FloatRange{
			Lower: sectionMinX,
			Upper: sectionMinX + e.sectionWidth - m.Right,
		}, occupied)

		i, j := 0, 0
		for i < len(unplaced) && j < len(ranges) {
			r := ranges[j]
			capacity := int(math.Round(r.Width() / minSlotWidth))
			if left := len(unplaced) - i; left <= capacity {
				divideEvenly(r.Width()+m.Right, unplaced[i:], r.Lower)
				break
			}
			if capacity > 0 {
				divideEvenly(r.Width()+m.Right, unplaced[i:i+capacity], r.Lower)
				i += capacity
			}
			j++
		}
	}
}

// availableRanges subtracts the occupied horizontal extents from the column
// range. Occupied ranges are walked left to right against the rightmost
// remaining free range.
func (e *Engine) availableRanges(section FloatRange, occupied []FloatRange) []FloatRange {
	m := e.metrics.ItemMargin
	sort.Slice(occupied, func(i, j int) bool {
		return occupied[i].Lower < occupied[j].Lower
	})

	ranges := []FloatRange{section}
	for _, occ := range occupied {
		last := ranges[len(ranges)-1]
		if occ.Lower > last.Lower+m.Left+m.Right {
			if occ.Upper+m.Right >= last.Upper {
				ranges[len(ranges)-1] = FloatRange{Lower: last.Lower, Upper: occ.Lower}
			} else {
				ranges[len(ranges)-1] = FloatRange{Lower: last.Lower, Upper: occ.Lower}
				ranges = append(ranges, FloatRange{Lower: occ.Upper, Upper: last.Upper})
			}
		} else if occ.Upper > last.Lower {
			ranges[len(ranges)-1] = FloatRange{Lower: occ.Upper, Upper: last.Upper}
		}
	}
	return ranges
}
