package system

import (
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// aimSlopeWindow is the initial vertical autoaim window, derived from the
// classic 320x200 view: half the view height over half the view width.
const aimSlopeWindow geom.Fixed = 100 * geom.FracUnit / 160

// AimLineAttack traces from t1 along angle up to distance and returns
// the aim slope toward the first shootable target found, or 0 with no
// target. The vertical window narrows as the trace passes under and over
// two-sided openings, so targets hidden behind a ledge are never locked.
// friendMask, when non-zero, skips non-player targets that share any of
// those flags with the shooter.
func (w *World) AimLineAttack(t1 *entity.Entity, angle geom.Angle, distance geom.Fixed, friendMask entity.Flag) geom.Fixed {
	if t1 == nil {
		return 0
	}

	x2 := t1.X + geom.Fixed(distance.Int())*geom.Cos(angle)
	y2 := t1.Y + geom.Fixed(distance.Int())*geom.Sin(angle)
	shootz := t1.Z + t1.Height>>1 + 8*geom.FracUnit

	topslope := aimSlopeWindow
	bottomslope := -aimSlopeWindow

	w.lineTarget = nil
	var aimslope geom.Fixed

	aim := func(in *entity.Intercept) bool {
		if in.Line != nil {
			li := in.Line

			if li.Flags&entity.LineTwoSided == 0 {
				return false // stop: wall
			}

			// A crossed line narrows the window to its opening.
			op := li.Opening()
			if op.Bottom >= op.Top {
				return false // stop: closed door
			}

			dist := geom.FixedMul(distance, in.Frac)

			if li.Front.FloorHeight != li.Back.FloorHeight {
				slope := geom.FixedDiv(op.Bottom-shootz, dist)
				if slope > bottomslope {
					bottomslope = slope
				}
			}
			if li.Front.CeilingHeight != li.Back.CeilingHeight {
				slope := geom.FixedDiv(op.Top-shootz, dist)
				if slope < topslope {
					topslope = slope
				}
			}
			if topslope <= bottomslope {
				return false // stop: window closed
			}
			return true // shot continues
		}

		th := in.Thing
		if th == t1 {
			return true // can't shoot self
		}
		if th.Flags&entity.FlagShootable == 0 {
			return true // corpse or something
		}
		if friendMask != 0 && th.Flags&t1.Flags&friendMask != 0 && th.Player == nil {
			return true // don't autoaim at friends
		}

		dist := geom.FixedMul(distance, in.Frac)
		thingtopslope := geom.FixedDiv(th.Z+th.Height-shootz, dist)
		if thingtopslope < bottomslope {
			return true // shot over the thing
		}
		thingbottomslope := geom.FixedDiv(th.Z-shootz, dist)
		if thingbottomslope > topslope {
			return true // shot under the thing
		}

		// This thing can be hit.
		if thingtopslope > topslope {
			thingtopslope = topslope
		}
		if thingbottomslope < bottomslope {
			thingbottomslope = bottomslope
		}
		aimslope = (thingtopslope + thingbottomslope) / 2
		w.lineTarget = th
		return false // don't go any farther
	}

	w.lvl.PathTraverse(t1.X, t1.Y, x2, y2,
		entity.TraverseLines|entity.TraverseEntities, aim)

	if w.lineTarget != nil {
		return aimslope
	}
	return 0
}

// LineAttack fires a hitscan from t1 along angle and slope, damaging the
// first shootable entity hit or placing an impact effect on the first
// wall, floor or ceiling. Shots that exit through a sky plane vanish.
func (w *World) LineAttack(t1 *entity.Entity, angle geom.Angle, distance, slope geom.Fixed, damage int) {
	x2 := t1.X + geom.Fixed(distance.Int())*geom.Cos(angle)
	y2 := t1.Y + geom.Fixed(distance.Int())*geom.Sin(angle)
	shootz := t1.Z + t1.Height>>1 + 8*geom.FracUnit
	if t1.Flags&entity.FlagFeetClipped != 0 {
		shootz -= footClipSize
	}

	shoot := func(in *entity.Intercept) bool {
		if in.Line != nil {
			return w.shootLine(t1, in, angle, distance, slope, shootz)
		}
		return w.shootThing(t1, in, angle, distance, slope, shootz, damage)
	}

	w.lvl.PathTraverse(t1.X, t1.Y, x2, y2,
		entity.TraverseLines|entity.TraverseEntities, shoot)
}

// shootLine resolves a hitscan crossing one line: either the shot passes
// through the opening, or it impacts and a puff is placed against the
// wall, clipped to the floor and ceiling planes it actually hits.
func (w *World) shootLine(t1 *entity.Entity, in *entity.Intercept, angle geom.Angle, distance, slope, shootz geom.Fixed) bool {
	li := in.Line

	if li.Special != 0 {
		w.hooks.ShootSpecial(li, t1)
	}

	if li.Flags&entity.LineTwoSided != 0 && li.Back != nil {
		op := li.Opening()
		dist := geom.FixedMul(distance, in.Frac)

		// The shot continues if it stays inside the opening; matching
		// planes on both sides never clip.
		if (li.Front.InterpFloor == li.Back.InterpFloor ||
			geom.FixedDiv(op.Bottom-shootz, dist) <= slope) &&
			(li.Front.InterpCeiling == li.Back.InterpCeiling ||
				geom.FixedDiv(op.Top-shootz, dist) >= slope) {
			return true
		}
	}

	// Hit the line: position the puff a bit closer so it shows on the
	// near side.
	frac := in.Frac - geom.FixedDiv(4*geom.FracUnit, distance)
	distz := geom.FixedMul(slope, geom.FixedMul(distance, frac))
	z := shootz + distz

	if sec := li.SideRegion(li.PointOnLineSide(t1.X, t1.Y)); sec != nil && distz != 0 {
		if z > sec.InterpCeiling {
			// Puff against the ceiling plane instead of past it.
			if sec.SkyCeiling {
				return false // shot exits through the sky
			}
			frac = geom.FixedDiv(geom.FixedMul(frac, sec.InterpCeiling-shootz), distz)
			z = sec.InterpCeiling
		} else if z < sec.InterpFloor {
			if sec.Terrain != entity.TerrainSolid || sec.SkyFloor {
				return false // liquid and sky floors swallow shots
			}
			frac = -geom.FixedDiv(geom.FixedMul(frac, shootz-sec.InterpFloor), distz)
			z = sec.InterpFloor
		}
	}

	if li.Front.SkyCeiling {
		if z > li.Front.InterpCeiling {
			return false // don't shoot the sky
		}
		if li.Back != nil && li.Back.SkyCeiling && li.Back.InterpCeiling < z {
			return false // it's a sky hack wall
		}
	}

	tr := w.lvl.Trace
	w.hooks.SpawnEffect(EffectPuff,
		tr.X+geom.FixedMul(tr.DX, frac),
		tr.Y+geom.FixedMul(tr.DY, frac),
		z, angle)
	return false // don't go any farther
}

// shootThing resolves a hitscan against one entity along the trace.
func (w *World) shootThing(t1 *entity.Entity, in *entity.Intercept, angle geom.Angle, distance, slope, shootz geom.Fixed, damage int) bool {
	th := in.Thing
	if th == t1 {
		return true // can't shoot self
	}
	if th.Flags&entity.FlagShootable == 0 {
		return true
	}

	// Check vertical position against the aim slope.
	dist := geom.FixedMul(distance, in.Frac)
	if geom.FixedDiv(th.Z+th.Height-shootz, dist) < slope {
		return true // shot over the thing
	}
	if geom.FixedDiv(th.Z-shootz, dist) > slope {
		return true // shot under the thing
	}

	// Hit: spawn blood (or a puff for the bloodless) slightly closer.
	frac := in.Frac - geom.FixedDiv(10*geom.FracUnit, distance)
	tr := w.lvl.Trace
	x := tr.X + geom.FixedMul(tr.DX, frac)
	y := tr.Y + geom.FixedMul(tr.DY, frac)
	z := shootz + geom.FixedMul(slope, geom.FixedMul(frac, distance))

	if th.Flags&entity.FlagNoBlood != 0 {
		w.hooks.SpawnEffect(EffectPuff, x, y, z, angle)
	} else if th.Player == nil || !th.Player.Invulnerable {
		w.hooks.SpawnEffect(EffectBlood, x, y, z, angle)
	}

	if damage != 0 {
		w.hooks.Damage(th, t1, t1, damage, false)
	}
	return false // don't go any farther
}
