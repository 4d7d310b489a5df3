package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// createTwoRoomDef builds a 1024x1024 map split down the middle at x=512:
// region 0 is the west room, region 1 the east room. dividerSpecial tags
// the dividing line.
func createTwoRoomDef(west, east entity.RegionDef, dividerSpecial int) entity.LevelDef {
	return entity.LevelDef{
		Vertices: [][2]int{
			{0, 0}, {512, 0}, {1024, 0},
			{1024, 1024}, {512, 1024}, {0, 1024},
		},
		Regions: []entity.RegionDef{west, east},
		Lines: []entity.LineDef{
			{V1: 0, V2: 5, Front: 0, Back: -1}, // west wall
			{V1: 5, V2: 4, Front: 0, Back: -1}, // north wall, west half
			{V1: 4, V2: 3, Front: 1, Back: -1}, // north wall, east half
			{V1: 3, V2: 2, Front: 1, Back: -1}, // east wall
			{V1: 2, V2: 1, Front: 1, Back: -1}, // south wall, east half
			{V1: 1, V2: 0, Front: 0, Back: -1}, // south wall, west half
			{V1: 4, V2: 1, Front: 0, Back: 1, Special: dividerSpecial},
		},
	}
}

// createTestWorld builds a two-room world with the given floors (ceilings
// at 256) and default hooks.
func createTestWorld(t *testing.T, westFloor, eastFloor int, hooks Collaborators, cfg Config) *World {
	t.Helper()
	return createTestWorldDef(t,
		createTwoRoomDef(
			entity.RegionDef{Floor: westFloor, Ceiling: 256},
			entity.RegionDef{Floor: eastFloor, Ceiling: 256},
			0),
		hooks, cfg)
}

func createTestWorldDef(t *testing.T, def entity.LevelDef, hooks Collaborators, cfg Config) *World {
	t.Helper()
	lvl, err := entity.BuildLevel(def)
	require.NoError(t, err)
	return NewWorld(lvl, cfg, hooks, nil)
}

// createWalker makes a standard monster-sized mover: radius 16, height
// 56, grounded.
func createWalker(flags entity.Flag) *entity.Entity {
	return &entity.Entity{
		Radius: geom.FixedFromInt(16),
		Height: geom.FixedFromInt(56),
		Health: 100,
		Flags:  entity.FlagSolid | entity.FlagShootable | flags,
	}
}

// createPlayerEntity makes a player-controlled walker.
func createPlayerEntity() *entity.Entity {
	e := createWalker(entity.FlagDropoff | entity.FlagPickup)
	e.Player = &entity.Player{Mo: e}
	return e
}

// damageRecorder captures Damage hook calls.
type damageRecorder struct {
	targets    []*entity.Entity
	amounts    []int
	fromRadius []bool
}

func (r *damageRecorder) hook() func(target, inflictor, source *entity.Entity, amount int, fromRadius bool) {
	return func(target, _, _ *entity.Entity, amount int, fromRadius bool) {
		r.targets = append(r.targets, target)
		r.amounts = append(r.amounts, amount)
		r.fromRadius = append(r.fromRadius, fromRadius)
	}
}

func (r *damageRecorder) total() int {
	sum := 0
	for _, a := range r.amounts {
		sum += a
	}
	return sum
}

// effectRecorder captures SpawnEffect hook calls.
type effectRecorder struct {
	kinds []EffectKind
	xs    []geom.Fixed
	ys    []geom.Fixed
	zs    []geom.Fixed
}

func (r *effectRecorder) hook() func(kind EffectKind, x, y, z geom.Fixed, angle geom.Angle) {
	return func(kind EffectKind, x, y, z geom.Fixed, _ geom.Angle) {
		r.kinds = append(r.kinds, kind)
		r.xs = append(r.xs, x)
		r.ys = append(r.ys, y)
		r.zs = append(r.zs, z)
	}
}

func (r *effectRecorder) count(kind EffectKind) int {
	n := 0
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

// fx converts whole map units to fixed-point, for terse test coordinates.
func fx(units int) geom.Fixed {
	return geom.FixedFromInt(units)
}
