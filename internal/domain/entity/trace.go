package entity

import "github.com/WindowxDeveloper/doomretro/internal/domain/geom"

// Divline is a ray in fixed-point map coordinates.
type Divline struct {
	X, Y, DX, DY geom.Fixed
}

// FromLine initializes the divline along a map line.
func (dl *Divline) FromLine(ld *Line) {
	dl.X = ld.V1.X
	dl.Y = ld.V1.Y
	dl.DX = ld.DX
	dl.DY = ld.DY
}

// PointOnSide reports which side of the divline the point is on: 0 front,
// 1 back.
func (dl *Divline) PointOnSide(x, y geom.Fixed) int {
	if dl.DX == 0 {
		if x <= dl.X {
			return boolToSide(dl.DY > 0)
		}
		return boolToSide(dl.DY < 0)
	}
	if dl.DY == 0 {
		if y <= dl.Y {
			return boolToSide(dl.DX < 0)
		}
		return boolToSide(dl.DX > 0)
	}

	dx := x - dl.X
	dy := y - dl.Y

	// Quick sign check before doing fixed-point multiplies.
	if uint32(dl.DY^dl.DX^dx^dy)&0x80000000 != 0 {
		return boolToSide(uint32(dl.DY^dx)&0x80000000 != 0)
	}

	left := geom.FixedMul(dl.DY>>8, dx>>8)
	right := geom.FixedMul(dy>>8, dl.DX>>8)
	return boolToSide(right >= left)
}

// interceptVector returns the fractional intercept point along v2 of the
// intersection with v1, or 0 for parallel rays.
func interceptVector(v2, v1 *Divline) geom.Fixed {
	den := geom.FixedMul(v1.DY>>8, v2.DX) - geom.FixedMul(v1.DX>>8, v2.DY)
	if den == 0 {
		return 0
	}
	num := geom.FixedMul((v1.X-v2.X)>>8, v1.DY) + geom.FixedMul((v2.Y-v1.Y)>>8, v1.DX)
	return geom.FixedDiv(num, den)
}

// Intercept is one crossing along a traversed path: either a line or an
// entity, at the given fraction of the path.
type Intercept struct {
	Frac  geom.Fixed
	Line  *Line
	Thing *Entity
}

// PathTraverse flags.
const (
	TraverseLines = 1 << iota
	TraverseEntities
)

// PathTraverse walks the blockmap cells crossed by the segment from
// (x1, y1) to (x2, y2), collects the requested intercepts, and visits them
// in order of increasing fraction. The walk stops early, returning false,
// as soon as the visitor does.
func (l *Level) PathTraverse(x1, y1, x2, y2 geom.Fixed, flags int, trav func(*Intercept) bool) bool {
	bm := l.Blockmap

	l.validcount++
	l.intercepts = l.intercepts[:0]

	// Don't side exactly on a cell boundary.
	if (x1-bm.OrgX)&(BlockSize-1) == 0 {
		x1 += geom.FracUnit
	}
	if (y1-bm.OrgY)&(BlockSize-1) == 0 {
		y1 += geom.FracUnit
	}

	l.Trace = Divline{X: x1, Y: y1, DX: x2 - x1, DY: y2 - y1}

	x1 -= bm.OrgX
	y1 -= bm.OrgY
	x2 -= bm.OrgX
	y2 -= bm.OrgY

	xt1 := int(x1 >> MapBlockShift)
	yt1 := int(y1 >> MapBlockShift)
	xt2 := int(x2 >> MapBlockShift)
	yt2 := int(y2 >> MapBlockShift)

	var mapxstep, mapystep int
	var partial, xstep, ystep geom.Fixed
	var xintercept, yintercept geom.Fixed

	switch {
	case xt2 > xt1:
		mapxstep = 1
		partial = geom.FracUnit - (x1>>mapBToFrac)&(geom.FracUnit-1)
		ystep = geom.FixedDiv(y2-y1, geom.FixedAbs(x2-x1))
	case xt2 < xt1:
		mapxstep = -1
		partial = (x1 >> mapBToFrac) & (geom.FracUnit - 1)
		ystep = geom.FixedDiv(y2-y1, geom.FixedAbs(x2-x1))
	default:
		mapxstep = 0
		partial = geom.FracUnit
		ystep = 256 * geom.FracUnit
	}
	yintercept = (y1 >> mapBToFrac) + geom.FixedMul(partial, ystep)

	switch {
	case yt2 > yt1:
		mapystep = 1
		partial = geom.FracUnit - (y1>>mapBToFrac)&(geom.FracUnit-1)
		xstep = geom.FixedDiv(x2-x1, geom.FixedAbs(y2-y1))
	case yt2 < yt1:
		mapystep = -1
		partial = (y1 >> mapBToFrac) & (geom.FracUnit - 1)
		xstep = geom.FixedDiv(x2-x1, geom.FixedAbs(y2-y1))
	default:
		mapystep = 0
		partial = geom.FracUnit
		xstep = 256 * geom.FracUnit
	}
	xintercept = (x1 >> mapBToFrac) + geom.FixedMul(partial, xstep)

	// Step through the cells, adding intercepts as we go.
	mapx := xt1
	mapy := yt1
	for count := 0; count < 64; count++ {
		if flags&TraverseLines != 0 {
			if !l.BlockLines(mapx, mapy, l.addLineIntercepts) {
				return false // early out
			}
		}
		if flags&TraverseEntities != 0 {
			if !l.BlockThings(mapx, mapy, l.addThingIntercepts) {
				return false
			}
		}
		if mapx == xt2 && mapy == yt2 {
			break
		}
		if int(yintercept>>geom.FracBits) == mapy {
			yintercept += ystep
			mapx += mapxstep
		} else if int(xintercept>>geom.FracBits) == mapx {
			xintercept += xstep
			mapy += mapystep
		}
	}

	return l.traverseIntercepts(trav, geom.FracUnit)
}

// addLineIntercepts records a crossing for every line straddled by the
// trace.
func (l *Level) addLineIntercepts(ld *Line) bool {
	s1 := l.Trace.PointOnSide(ld.V1.X, ld.V1.Y)
	s2 := l.Trace.PointOnSide(ld.V2.X, ld.V2.Y)
	if s1 == s2 {
		return true // fully on one side
	}

	var dl Divline
	dl.FromLine(ld)
	frac := interceptVector(&l.Trace, &dl)
	if frac < 0 {
		return true // behind the source
	}

	l.intercepts = append(l.intercepts, Intercept{Frac: frac, Line: ld})
	return true
}

// addThingIntercepts records a crossing for every entity whose bounding
// diagonal is straddled by the trace.
func (l *Level) addThingIntercepts(e *Entity) bool {
	tracePositive := (l.Trace.DX ^ l.Trace.DY) > 0

	var x1, y1, x2, y2 geom.Fixed
	if tracePositive {
		x1 = e.X - e.Radius
		y1 = e.Y + e.Radius
		x2 = e.X + e.Radius
		y2 = e.Y - e.Radius
	} else {
		x1 = e.X - e.Radius
		y1 = e.Y - e.Radius
		x2 = e.X + e.Radius
		y2 = e.Y + e.Radius
	}

	s1 := l.Trace.PointOnSide(x1, y1)
	s2 := l.Trace.PointOnSide(x2, y2)
	if s1 == s2 {
		return true
	}

	dl := Divline{X: x1, Y: y1, DX: x2 - x1, DY: y2 - y1}
	frac := interceptVector(&l.Trace, &dl)
	if frac < 0 {
		return true
	}

	l.intercepts = append(l.intercepts, Intercept{Frac: frac, Thing: e})
	return true
}

// traverseIntercepts visits the collected intercepts in order of
// increasing fraction up to maxfrac.
func (l *Level) traverseIntercepts(trav func(*Intercept) bool, maxfrac geom.Fixed) bool {
	for count := len(l.intercepts); count > 0; count-- {
		dist := geom.FixedMax
		var in *Intercept
		for i := range l.intercepts {
			if l.intercepts[i].Frac < dist {
				dist = l.intercepts[i].Frac
				in = &l.intercepts[i]
			}
		}
		if dist > maxfrac {
			return true // checked everything in range
		}
		if !trav(in) {
			return false // early out
		}
		in.Frac = geom.FixedMax
	}
	return true
}
