package system

import (
	"go.uber.org/zap"

	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// ChangeRegionHeight re-clips every entity touching the region after one
// of its planes moved, and reports whether anything no longer fits.
// With crush set, squeezed entities take periodic damage; crushed dead
// things are gibbed, dropped items are destroyed.
//
// The caller changes the plane height first, then invokes this to settle
// the population.
func (w *World) ChangeRegionHeight(region *entity.Region, crush bool) bool {
	nofit := false

	// Re-clipping an entity can rebuild its membership and rearrange the
	// thread mid-scan, so mark every node and restart from the head after
	// each processed entity.
	for n := region.TouchingEntities; n != nil; n = n.SNext {
		n.Visited = false
	}

	for {
		var n *entity.TouchNode
		for n = region.TouchingEntities; n != nil; n = n.SNext {
			if n.Visited {
				continue
			}
			n.Visited = true
			if mo := n.Entity; mo != nil {
				w.changeHeightFor(mo, crush, &nofit)
			}
			break
		}
		if n == nil {
			return nofit
		}
	}
}

// changeHeightFor settles one entity against moved planes.
func (w *World) changeHeightFor(thing *entity.Entity, crush bool, nofit *bool) {
	if w.heightClip(thing) {
		return // keep checking
	}

	// Crushed dead things get gibbed: splatter, stop blocking, and drop
	// out of the way.
	if thing.Health <= 0 && thing.Flags&entity.FlagCrushable != 0 {
		if thing.Player != nil {
			*nofit = true
			return
		}
		if thing.Flags&entity.FlagNoBlood == 0 {
			w.gib(thing)
		}
		return
	}

	// Crunch dropped items.
	if thing.Flags&entity.FlagDropped != 0 {
		w.Remove(thing)
		return
	}

	if thing.Flags&entity.FlagShootable == 0 {
		return // assume it is bloody gibs or something
	}

	*nofit = true

	if crush && w.levelTime&3 == 0 {
		if thing.Flags&entity.FlagNoBlood == 0 &&
			(thing.Player == nil || !thing.Player.Invulnerable) {
			// Spray blood in random directions.
			z := thing.Z + thing.Height*2/3
			for i := 0; i < 4; i++ {
				w.hooks.SpawnEffect(EffectBlood, thing.X, thing.Y, z,
					geom.Angle(w.rng.Uint32()))
			}
		}
		w.hooks.Damage(thing, nil, nil, crushDamage, true)
	}
}

// gib flattens a crushed corpse into a splat of blood.
func (w *World) gib(thing *entity.Entity) {
	radius := thing.Radius.Int() + 12
	count := w.rng.Intn(51) + 50 + radius

	for i := 0; i < count; i++ {
		ang := geom.Angle(w.rng.Uint32())
		off := geom.FixedFromInt(w.rng.Intn(radius + 1))
		w.hooks.SpawnEffect(EffectBloodSplat,
			thing.X+geom.FixedMul(off, geom.Cos(ang)),
			thing.Y+geom.FixedMul(off, geom.Sin(ang)),
			thing.FloorZ, ang)
	}

	thing.Flags &^= entity.FlagSolid
	thing.Height = 0
	thing.Radius = 0

	w.hooks.PlaySound(thing, SoundSquish)
	w.log.Debug("corpse gibbed",
		zap.Float64("x", thing.X.Float()),
		zap.Float64("y", thing.Y.Float()),
		zap.Int("splats", count))
}

// heightClip re-clips an entity after the planes around it moved and
// reports whether it still fits. Entities on the floor ride it; floating
// entities only get pushed down by the ceiling.
func (w *World) heightClip(thing *entity.Entity) bool {
	oldfloorz := thing.FloorZ
	onfloor := thing.Z == oldfloorz

	w.CheckPosition(thing, thing.X, thing.Y)
	thing.FloorZ = w.tmFloorZ
	thing.CeilingZ = w.tmCeilingZ
	thing.DropoffZ = w.tmDropoffZ

	switch {
	case thing.Flags&entity.FlagFeetClipped != 0 && thing.Player == nil:
		thing.Z = thing.FloorZ

	case thing.Flags&entity.FlagFloatBob != 0:
		// Bobbers ride a rising surface but stay put over a dropping one
		// unless gravity applies.
		if thing.FloorZ > oldfloorz || thing.Flags&entity.FlagNoGravity == 0 {
			thing.Z = thing.Z - oldfloorz + thing.FloorZ
		}
		if thing.Z+thing.Height > thing.CeilingZ {
			thing.Z = thing.CeilingZ - thing.Height
		}

	case onfloor:
		thing.Z = thing.FloorZ
		if thing.Player != nil {
			w.hooks.ViewChanged(thing.Player)
		}
		if thing.Flags&entity.FlagFalling != 0 && thing.Gear >= entity.MaxGear {
			thing.Gear = 0 // reset torque gearing
		}

	default:
		if thing.Z+thing.Height > thing.CeilingZ {
			thing.Z = thing.CeilingZ - thing.Height
		}
	}

	return thing.CeilingZ-thing.FloorZ >= thing.Height
}
