package entity

import "github.com/WindowxDeveloper/doomretro/internal/domain/geom"

// TerrainType classifies a region's floor surface.
type TerrainType int

const (
	TerrainSolid TerrainType = iota
	TerrainLiquid
)

// Region ("sector") is a horizontally bounded area with its own floor and
// ceiling. The footprint is static; heights and state mutate during play.
type Region struct {
	Index int

	FloorHeight   geom.Fixed
	CeilingHeight geom.Fixed
	// InterpFloor and InterpCeiling are the render-interpolated heights.
	// Hitscan impact clipping reads these so shots land on the plane that
	// is actually displayed mid-move.
	InterpFloor   geom.Fixed
	InterpCeiling geom.Fixed

	Terrain TerrainType

	// SkyCeiling and SkyFloor mark "infinite sky" planes; shots that exit
	// through them vanish without an impact effect.
	SkyCeiling bool
	SkyFloor   bool

	// FrictionEnabled turns on the custom Friction/MoveFactor pair below.
	FrictionEnabled bool
	Friction        geom.Fixed
	MoveFactor      geom.Fixed

	// TouchingEntities heads the thread of membership nodes for every
	// entity whose footprint overlaps this region.
	TouchingEntities *TouchNode
}

// SetFloorHeight moves the floor and keeps the interpolated height in sync.
func (r *Region) SetFloorHeight(h geom.Fixed) {
	r.FloorHeight = h
	r.InterpFloor = h
}

// SetCeilingHeight moves the ceiling and keeps the interpolated height in
// sync.
func (r *Region) SetCeilingHeight(h geom.Fixed) {
	r.CeilingHeight = h
	r.InterpCeiling = h
}

// TouchNode is one {region, entity} overlap relation. Each node is
// simultaneously threaded through two doubly-linked lists: the entity's
// membership thread (TPrev/TNext) and the region's touching-entity thread
// (SPrev/SNext). Nodes are pooled; see the membership tracker.
type TouchNode struct {
	Region *Region
	Entity *Entity

	TPrev, TNext *TouchNode
	SPrev, SNext *TouchNode

	// Visited guards the restart-from-head scan during crush propagation.
	Visited bool
}
