package entity

import "github.com/WindowxDeveloper/doomretro/internal/domain/geom"

// Vertex is a map corner point.
type Vertex struct {
	X, Y geom.Fixed
}

// LineFlag is a bitset of static line properties.
type LineFlag uint16

const (
	// LineTwoSided has regions on both sides.
	LineTwoSided LineFlag = 1 << iota
	// LineBlocking blocks everything regardless of the opening.
	LineBlocking
	// LineBlockMonsters blocks non-player, non-friend, non-corpse movers.
	LineBlockMonsters
	// LinePassUse lets a use probe continue past this special line.
	LinePassUse
)

// SlopeType classifies a line's direction, used to pick the slide formula.
type SlopeType int

const (
	SlopeHorizontal SlopeType = iota
	SlopeVertical
	SlopePositive
	SlopeNegative
)

// Line is a directed wall segment bounding one or two regions.
type Line struct {
	Index  int
	V1, V2 Vertex
	DX, DY geom.Fixed

	Flags   LineFlag
	Special int
	Slope   SlopeType
	BBox    geom.BBox

	Front *Region
	Back  *Region // nil for one-sided lines

	validcount int
}

// finish derives the cached fields from the endpoints.
func (ld *Line) finish() {
	ld.DX = ld.V2.X - ld.V1.X
	ld.DY = ld.V2.Y - ld.V1.Y

	switch {
	case ld.DX == 0:
		ld.Slope = SlopeVertical
	case ld.DY == 0:
		ld.Slope = SlopeHorizontal
	case geom.FixedDiv(ld.DY, ld.DX) > 0:
		ld.Slope = SlopePositive
	default:
		ld.Slope = SlopeNegative
	}

	ld.BBox = geom.BBox{
		Left:   min(ld.V1.X, ld.V2.X),
		Right:  max(ld.V1.X, ld.V2.X),
		Bottom: min(ld.V1.Y, ld.V2.Y),
		Top:    max(ld.V1.Y, ld.V2.Y),
	}
}

// SideRegion returns the region on the given side of the line (0 front,
// 1 back).
func (ld *Line) SideRegion(side int) *Region {
	if side == 0 {
		return ld.Front
	}
	return ld.Back
}

// PointOnLineSide reports which side of the line the point is on:
// 0 front, 1 back.
func (ld *Line) PointOnLineSide(x, y geom.Fixed) int {
	if ld.DX == 0 {
		if x <= ld.V1.X {
			return boolToSide(ld.DY > 0)
		}
		return boolToSide(ld.DY < 0)
	}
	if ld.DY == 0 {
		if y <= ld.V1.Y {
			return boolToSide(ld.DX < 0)
		}
		return boolToSide(ld.DX > 0)
	}

	dx := x - ld.V1.X
	dy := y - ld.V1.Y
	left := geom.FixedMul(ld.DY>>geom.FracBits, dx)
	right := geom.FixedMul(dy, ld.DX>>geom.FracBits)
	return boolToSide(right >= left)
}

// BoxOnLineSide reports which side of the line a box is on: 0 front,
// 1 back, -1 if the box straddles the line.
func (ld *Line) BoxOnLineSide(box geom.BBox) int {
	var p1, p2 int

	switch ld.Slope {
	case SlopeHorizontal:
		p1 = boolToSide(box.Top > ld.V1.Y)
		p2 = boolToSide(box.Bottom > ld.V1.Y)
		if ld.DX < 0 {
			p1 ^= 1
			p2 ^= 1
		}
	case SlopeVertical:
		p1 = boolToSide(box.Right < ld.V1.X)
		p2 = boolToSide(box.Left < ld.V1.X)
		if ld.DY < 0 {
			p1 ^= 1
			p2 ^= 1
		}
	case SlopePositive:
		p1 = ld.PointOnLineSide(box.Left, box.Top)
		p2 = ld.PointOnLineSide(box.Right, box.Bottom)
	case SlopeNegative:
		p1 = ld.PointOnLineSide(box.Right, box.Top)
		p2 = ld.PointOnLineSide(box.Left, box.Bottom)
	}

	if p1 == p2 {
		return p1
	}
	return -1
}

// Opening is the vertical window of passable space across a two-sided line.
type Opening struct {
	Top      geom.Fixed
	Bottom   geom.Fixed
	Range    geom.Fixed // Top - Bottom; <= 0 when there is no passage
	LowFloor geom.Fixed // the lower of the two floors (dropoff tracking)
}

// Opening computes the passable window across the line. A one-sided line
// has no window.
func (ld *Line) Opening() Opening {
	if ld.Back == nil {
		return Opening{}
	}

	var o Opening
	o.Top = min(ld.Front.CeilingHeight, ld.Back.CeilingHeight)
	if ld.Front.FloorHeight > ld.Back.FloorHeight {
		o.Bottom = ld.Front.FloorHeight
		o.LowFloor = ld.Back.FloorHeight
	} else {
		o.Bottom = ld.Back.FloorHeight
		o.LowFloor = ld.Front.FloorHeight
	}
	o.Range = o.Top - o.Bottom
	return o
}

func boolToSide(b bool) int {
	if b {
		return 1
	}
	return 0
}
