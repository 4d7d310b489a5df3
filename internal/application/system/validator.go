package system

import (
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// nudgeCooldown is how many ticks a shoved corpse stays settled before it
// can be shoved again.
const nudgeCooldown = 10

// CheckPosition runs the full clipping trial for thing standing at
// (x, y) without committing anything. On return the trial scratch holds
// the tightest floor, ceiling and dropoff under the footprint, the lines
// that produced them, and the special lines the move would cross.
//
// The trial is based purely on the destination: a true result means the
// position is clear, not that the path to it is.
func (w *World) CheckPosition(thing *entity.Entity, x, y geom.Fixed) bool {
	w.tmThing = thing
	w.tmX = x
	w.tmY = y
	w.tmBBox = geom.BBoxAround(x, y, thing.Radius)

	newRegion := w.lvl.RegionAt(x, y)

	w.ceilingLine = nil
	w.blockLine = nil
	w.floorLine = nil

	// Players stuck in geometry may still move away from it.
	w.tmUnstuck = thing.IsPlayer()

	// The base floor and ceiling come from the destination region; any
	// contacted line may tighten them.
	w.tmFloorZ = newRegion.FloorHeight
	w.tmDropoffZ = newRegion.FloorHeight
	w.tmCeilingZ = newRegion.CeilingHeight

	w.lvl.NextValidCount()
	w.specHit = w.specHit[:0]

	if thing.Flags&entity.FlagNoClip != 0 || w.cfg.Freeze {
		return true
	}

	// Entities first, so pickups resolve before a line can reject the
	// move. The search box widens by MaxRadius because entities are
	// indexed by origin cell only.
	bm := w.lvl.Blockmap
	xl := bm.BlockX(w.tmBBox.Left - entity.MaxRadius)
	xh := bm.BlockX(w.tmBBox.Right + entity.MaxRadius)
	yl := bm.BlockY(w.tmBBox.Bottom - entity.MaxRadius)
	yh := bm.BlockY(w.tmBBox.Top + entity.MaxRadius)

	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			if !w.lvl.BlockThings(bx, by, w.checkThing) {
				return false
			}
		}
	}

	// Moving non-dropped things probe lines with their wider pickup
	// radius so they can't squeeze through gaps their item shape blocks.
	if thing.Flags&entity.FlagDropped == 0 && (thing.X != x || thing.Y != y) {
		w.tmBBox = geom.BBoxAround(x, y, thing.TouchRadius())
	}

	xl = bm.BlockX(w.tmBBox.Left)
	xh = bm.BlockX(w.tmBBox.Right)
	yl = bm.BlockY(w.tmBBox.Bottom)
	yh = bm.BlockY(w.tmBBox.Top)

	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			if !w.lvl.BlockLines(bx, by, w.checkLine) {
				return false
			}
		}
	}

	return true
}

// checkThing resolves the trial mover against one nearby entity.
func (w *World) checkThing(thing *entity.Entity) bool {
	if thing == w.tmThing {
		return true
	}

	flags := thing.Flags
	tmflags := w.tmThing.Flags
	corpse := flags&entity.FlagCorpse != 0

	// Walking over a fresh corpse shoves it aside a little.
	if corpse && w.cfg.CorpseNudge && tmflags&entity.FlagShootable != 0 &&
		thing.Nudge == 0 && thing.Z == w.tmThing.Z &&
		geom.ApproxDistance(thing.X-w.tmThing.X, thing.Y-w.tmThing.Y) < 16*geom.FracUnit {
		thing.MomX += geom.Fixed(w.rng.Intn(3)-1) * geom.FracUnit
		thing.MomY += geom.Fixed(w.rng.Intn(3)-1) * geom.FracUnit
		thing.Nudge = nudgeCooldown
		if thing.Flags&entity.FlagFeetClipped != 0 {
			thing.MomX /= 2
			thing.MomY /= 2
		}
	}

	if flags&(entity.FlagSolid|entity.FlagSpecial|entity.FlagShootable) == 0 {
		return true
	}

	blockdist := thing.TouchRadius() + w.tmThing.Radius
	if geom.FixedAbs(thing.X-w.tmX) >= blockdist || geom.FixedAbs(thing.Y-w.tmY) >= blockdist {
		return true // didn't hit it
	}

	// Two entities wedged into each other may still move if the move
	// increases their separation.
	unblocking := false
	if thing.Player == nil && !corpse {
		if w.tmX == w.tmThing.X && w.tmY == w.tmThing.Y {
			unblocking = true
		} else if geom.ApproxDistance(thing.X-w.tmX, thing.Y-w.tmY) >
			geom.ApproxDistance(thing.X-w.tmThing.X, thing.Y-w.tmThing.Y) {
			unblocking = w.tmThing.Z < thing.Z+thing.Height &&
				w.tmThing.Z+w.tmThing.Height > thing.Z
		}
	}

	// Entities that can pass over and under each other.
	if tmflags&entity.FlagPassEntity != 0 && !w.cfg.InfiniteHeight &&
		flags&entity.FlagSpecial == 0 {
		if w.tmThing.Z >= thing.Z+thing.Height {
			return true // over
		}
		if w.tmThing.Z+w.tmThing.Height <= thing.Z {
			return true // under
		}
	}

	// A charging entity slams whatever solid it runs into.
	if tmflags&entity.FlagCharging != 0 &&
		(flags&entity.FlagSolid != 0 || w.cfg.InfiniteHeight) {
		damage := (w.rng.Intn(8) + 1) * w.tmThing.Damage
		w.hooks.Damage(thing, w.tmThing, w.tmThing, damage, true)
		w.tmThing.Flags &^= entity.FlagCharging
		w.tmThing.MomX = 0
		w.tmThing.MomY = 0
		w.tmThing.MomZ = 0
		return false
	}

	if tmflags&(entity.FlagMissile|entity.FlagBouncy) != 0 {
		// Projectiles clip a reduced height so they can fly over the
		// visually open part of tall sprites.
		height := thing.ProjectilePassHeight()
		if w.cfg.InfiniteHeight {
			height = thing.Height
		}
		if w.tmThing.Z > thing.Z+height {
			return true // over
		}
		if w.tmThing.Z+w.tmThing.Height < thing.Z {
			return true // under
		}

		if target := w.tmThing.Target; target != nil && target.Species == thing.Species {
			if thing == target {
				return true // can't hit the shooter
			}
			if thing.Player == nil && !w.cfg.SpeciesInfighting {
				return false // explode, but no damage to own kind
			}
		}

		// Bouncy non-missiles deflect off solids instead of exploding.
		if tmflags&entity.FlagMissile == 0 {
			if flags&entity.FlagSolid != 0 {
				w.tmThing.MomX = -w.tmThing.MomX
				w.tmThing.MomY = -w.tmThing.MomY
				if w.tmThing.Flags&entity.FlagNoGravity == 0 {
					w.tmThing.MomX >>= 2
					w.tmThing.MomY >>= 2
				}
				return false
			}
			return true
		}

		if flags&entity.FlagShootable == 0 {
			return flags&entity.FlagSolid == 0
		}

		damage := (w.rng.Intn(8) + 1) * w.tmThing.Damage
		w.hooks.Damage(thing, w.tmThing, w.tmThing.Target, damage, true)
		return false
	}

	// Items get picked up by touch and only block if also solid.
	if flags&entity.FlagSpecial != 0 {
		if tmflags&entity.FlagPickup != 0 {
			w.hooks.TouchItem(thing, w.tmThing)
		}
		return flags&entity.FlagSolid == 0
	}

	// Corpses never block.
	if corpse || tmflags&entity.FlagCorpse != 0 {
		return true
	}

	// Solid ceiling-hung bodies leave the space below them walkable.
	if flags&entity.FlagSolid != 0 && flags&entity.FlagSpawnCeiling != 0 &&
		w.tmThing.Z+w.tmThing.Height <= thing.Z {
		w.tmCeilingZ = thing.Z
		return true
	}

	return flags&entity.FlagSolid == 0 || flags&entity.FlagNoClip != 0 ||
		w.tmThing.Flags&entity.FlagSolid == 0 || unblocking
}

// checkLine resolves the trial mover against one nearby line, tightening
// the vertical bounds through crossable lines and rejecting blockers.
func (w *World) checkLine(ld *entity.Line) bool {
	if !w.tmBBox.Overlaps(ld.BBox) {
		return true
	}
	if ld.BoxOnLineSide(w.tmBBox) != -1 {
		return true
	}

	// The footprint straddles the line. One-sided lines are walls; a
	// stuck player may still cross one outward.
	if ld.Back == nil {
		w.blockLine = ld
		return w.tmUnstuck && !w.untouched(ld) &&
			geom.FixedMul(w.tmX-w.tmThing.X, ld.DY) > geom.FixedMul(w.tmY-w.tmThing.Y, ld.DX)
	}

	if w.tmThing.Flags&entity.FlagMissile == 0 {
		if ld.Flags&entity.LineBlocking != 0 {
			return w.tmUnstuck && !w.untouched(ld) // explicitly blocking everything
		}
		if ld.Flags&entity.LineBlockMonsters != 0 && w.tmThing.Player == nil &&
			w.tmThing.Flags&(entity.FlagCorpse|entity.FlagFriend) == 0 {
			return false // block monsters only
		}
	}

	op := ld.Opening()

	if op.Top < w.tmCeilingZ {
		w.tmCeilingZ = op.Top
		w.ceilingLine = ld
		w.blockLine = ld
	}
	if op.Bottom > w.tmFloorZ {
		w.tmFloorZ = op.Bottom
		w.floorLine = ld
		w.blockLine = ld
	}
	if op.LowFloor < w.tmDropoffZ {
		w.tmDropoffZ = op.LowFloor
	}

	if ld.Special != 0 {
		w.specHit = append(w.specHit, ld)
	}

	return true
}

// untouched reports whether the mover's current footprint is clear of the
// line; a stuck escape is only allowed off lines the mover is actually
// embedded in.
func (w *World) untouched(ld *entity.Line) bool {
	box := geom.BBoxAround(w.tmThing.X, w.tmThing.Y, w.tmThing.Radius)
	return box.Right <= ld.BBox.Left || box.Left >= ld.BBox.Right ||
		box.Top <= ld.BBox.Bottom || box.Bottom >= ld.BBox.Top ||
		ld.BoxOnLineSide(box) != -1
}

// CrossCheck reports whether straight travel from the actor's position to
// (x, y) is obstructed by a one-sided or blocking line. Teleport and
// spawn logic uses it as a cheap visibility gate.
func (w *World) CrossCheck(actor *entity.Entity, x, y geom.Fixed) bool {
	box := geom.BBox{
		Left:   min(actor.X, x),
		Right:  max(actor.X, x),
		Bottom: min(actor.Y, y),
		Top:    max(actor.Y, y),
	}

	w.lvl.NextValidCount()

	blocked := false
	cross := func(ld *entity.Line) bool {
		// Two-sided, non-blocking lines never obstruct.
		if ld.Flags&entity.LineTwoSided != 0 && ld.Flags&entity.LineBlocking == 0 {
			return true
		}
		if !box.Overlaps(ld.BBox) {
			return true
		}
		if ld.PointOnLineSide(actor.X, actor.Y) != ld.PointOnLineSide(x, y) {
			blocked = true
			return false
		}
		return true
	}

	bm := w.lvl.Blockmap
	xl := bm.BlockX(box.Left)
	xh := bm.BlockX(box.Right)
	yl := bm.BlockY(box.Bottom)
	yh := bm.BlockY(box.Top)
	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			if !w.lvl.BlockLines(bx, by, cross) {
				return blocked
			}
		}
	}
	return false
}
