package entity

import (
	"fmt"
	"math"

	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// Level is the static geometry plus the live entity population. Geometry is
// read-only during a tick; only entity state and membership threads mutate.
type Level struct {
	Vertices []Vertex
	Lines    []*Line
	Regions  []*Region
	Entities []*Entity

	Blockmap *Blockmap

	// Trace is the ray of the most recent PathTraverse call; attack code
	// reads it to place impact effects along the shot.
	Trace Divline

	validcount int
	intercepts []Intercept
}

// LineDef describes one line of a LevelDef. Back is -1 for one-sided
// lines.
type LineDef struct {
	V1, V2      int
	Front, Back int
	Flags       LineFlag
	Special     int
}

// RegionDef describes one region of a LevelDef. Heights are in whole map
// units.
type RegionDef struct {
	Floor, Ceiling  int
	Terrain         TerrainType
	SkyCeiling      bool
	SkyFloor        bool
	FrictionEnabled bool
	Friction        geom.Fixed
	MoveFactor      geom.Fixed
}

// LevelDef is the constructed-geometry description a Level is built from.
// Vertices are in whole map units.
type LevelDef struct {
	Vertices [][2]int
	Regions  []RegionDef
	Lines    []LineDef
}

// BuildLevel validates a definition and derives the runtime geometry:
// line slopes and bounding boxes, region interpolation state, and the
// blockmap.
func BuildLevel(def LevelDef) (*Level, error) {
	if len(def.Regions) == 0 {
		return nil, fmt.Errorf("level has no regions")
	}
	if len(def.Vertices) < 2 || len(def.Lines) == 0 {
		return nil, fmt.Errorf("level has no geometry")
	}

	l := &Level{}

	for _, v := range def.Vertices {
		l.Vertices = append(l.Vertices, Vertex{
			X: geom.FixedFromInt(v[0]),
			Y: geom.FixedFromInt(v[1]),
		})
	}

	for i, rd := range def.Regions {
		r := &Region{
			Index:           i,
			Terrain:         rd.Terrain,
			SkyCeiling:      rd.SkyCeiling,
			SkyFloor:        rd.SkyFloor,
			FrictionEnabled: rd.FrictionEnabled,
			Friction:        rd.Friction,
			MoveFactor:      rd.MoveFactor,
		}
		r.SetFloorHeight(geom.FixedFromInt(rd.Floor))
		r.SetCeilingHeight(geom.FixedFromInt(rd.Ceiling))
		l.Regions = append(l.Regions, r)
	}

	for i, lnd := range def.Lines {
		if lnd.V1 < 0 || lnd.V1 >= len(l.Vertices) || lnd.V2 < 0 || lnd.V2 >= len(l.Vertices) {
			return nil, fmt.Errorf("line %d: vertex out of range", i)
		}
		if lnd.Front < 0 || lnd.Front >= len(l.Regions) {
			return nil, fmt.Errorf("line %d: front region %d out of range", i, lnd.Front)
		}
		ld := &Line{
			Index:   i,
			V1:      l.Vertices[lnd.V1],
			V2:      l.Vertices[lnd.V2],
			Flags:   lnd.Flags,
			Special: lnd.Special,
			Front:   l.Regions[lnd.Front],
		}
		if lnd.Back >= 0 {
			if lnd.Back >= len(l.Regions) {
				return nil, fmt.Errorf("line %d: back region %d out of range", i, lnd.Back)
			}
			ld.Back = l.Regions[lnd.Back]
			ld.Flags |= LineTwoSided
		}
		ld.finish()
		l.Lines = append(l.Lines, ld)
	}

	bounds := geom.BBox{
		Left:   l.Vertices[0].X,
		Right:  l.Vertices[0].X,
		Top:    l.Vertices[0].Y,
		Bottom: l.Vertices[0].Y,
	}
	for _, v := range l.Vertices[1:] {
		bounds.Add(v.X, v.Y)
	}
	l.Blockmap = newBlockmap(bounds, l.Lines)

	return l, nil
}

// NextValidCount starts a fresh line-visitation pass; each line is visited
// at most once per pass by the cell iterators.
func (l *Level) NextValidCount() {
	l.validcount++
}

// BlockLines calls fn for every not-yet-visited line in the given cell.
// Returns false as soon as fn does. Out-of-range cells are empty.
func (l *Level) BlockLines(bx, by int, fn func(*Line) bool) bool {
	c := l.Blockmap.cellAt(bx, by)
	if c == nil {
		return true
	}
	for _, ld := range c.lines {
		if ld.validcount == l.validcount {
			continue
		}
		ld.validcount = l.validcount
		if !fn(ld) {
			return false
		}
	}
	return true
}

// BlockThings calls fn for every entity whose origin lies in the given
// cell. Returns false as soon as fn does.
func (l *Level) BlockThings(bx, by int, fn func(*Entity) bool) bool {
	c := l.Blockmap.cellAt(bx, by)
	if c == nil {
		return true
	}
	for e := c.things; e != nil; e = e.blockNext {
		if !fn(e) {
			return false
		}
	}
	return true
}

// Link indexes an entity at its current origin: blockmap cell and owning
// region.
func (l *Level) Link(e *Entity) {
	e.Region = l.RegionAt(e.X, e.Y)
	l.Blockmap.link(e)
}

// Unlink removes an entity from the blockmap. Its cached region reference
// stays valid until the next Link.
func (l *Level) Unlink(e *Entity) {
	l.Blockmap.unlink(e)
}

// Add registers a new entity with the level and links it.
func (l *Level) Add(e *Entity) {
	l.Entities = append(l.Entities, e)
	l.Link(e)
}

// Drop unlinks an entity and removes it from the registry.
func (l *Level) Drop(e *Entity) {
	l.Unlink(e)
	for i, o := range l.Entities {
		if o == e {
			l.Entities = append(l.Entities[:i], l.Entities[i+1:]...)
			break
		}
	}
}

// RegionAt locates the region containing the point by casting a horizontal
// ray and classifying against the nearest crossed line. Points outside all
// geometry resolve to the first region.
func (l *Level) RegionAt(x, y geom.Fixed) *Region {
	fx := x.Float()
	fy := y.Float()

	var best *Line
	bestDist := math.Inf(1)

	for _, ld := range l.Lines {
		y1 := ld.V1.Y.Float()
		y2 := ld.V2.Y.Float()
		if y1 == y2 || (y1 > fy) == (y2 > fy) {
			continue
		}
		t := (fy - y1) / (y2 - y1)
		ix := ld.V1.X.Float() + t*(ld.V2.X.Float()-ld.V1.X.Float())
		d := math.Abs(ix - fx)
		if d < bestDist {
			bestDist = d
			best = ld
		}
	}

	if best == nil {
		return l.Regions[0]
	}
	r := best.SideRegion(best.PointOnLineSide(x, y))
	if r == nil {
		r = best.Front
	}
	return r
}
