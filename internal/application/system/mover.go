package system

import (
	"math"

	"go.uber.org/zap"

	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// TryMove attempts to move thing to (x, y), stepping up through small
// ledges and respecting dropoff rules. On success the move is committed:
// the entity is relinked, its cached plane heights refreshed, membership
// reconciled, and any crossed special lines fired. z is never changed.
func (w *World) TryMove(thing *entity.Entity, x, y geom.Fixed, allowDropoff bool) bool {
	w.fellDown = false
	w.floatOK = false

	if !w.CheckPosition(thing, x, y) {
		return false // solid wall or entity
	}

	flags := thing.Flags

	if flags&entity.FlagNoClip == 0 && !w.cfg.Freeze {
		if w.tmCeilingZ-w.tmFloorZ < thing.Height {
			return w.stuckEscape() // doesn't fit
		}

		w.floatOK = true

		if flags&entity.FlagTeleport == 0 && w.tmCeilingZ-thing.Z < thing.Height {
			return w.stuckEscape() // must lower itself to fit
		}
		if flags&entity.FlagTeleport == 0 && w.tmFloorZ-thing.Z > StepHeight {
			return w.stuckEscape() // too big a step up
		}

		if flags&(entity.FlagDropoff|entity.FlagFloat) == 0 {
			if !allowDropoff {
				// Both the floor and the lowest neighboring floor must
				// stay within step range, or the walker would hang over
				// the edge.
				if thing.FloorZ-w.tmFloorZ > StepHeight ||
					thing.DropoffZ-w.tmDropoffZ > StepHeight {
					return false
				}
			} else {
				w.fellDown = flags&entity.FlagNoGravity == 0 &&
					thing.Z-w.tmFloorZ > StepHeight
			}
		}

		// A tumbling entity can't climb a ledge taller than its momentum
		// can carry it.
		if flags&entity.FlagFalling != 0 &&
			w.tmFloorZ-thing.Z > geom.FixedMul(thing.MomX, thing.MomX)+geom.FixedMul(thing.MomY, thing.MomY) {
			return false
		}
	}

	// The move is ok, so link the thing into its new position.
	w.unsetThingPosition(thing)

	oldx := thing.X
	oldy := thing.Y
	thing.FloorZ = w.tmFloorZ
	thing.CeilingZ = w.tmCeilingZ
	thing.DropoffZ = w.tmDropoffZ
	thing.X = x
	thing.Y = y

	w.setThingPosition(thing)

	if thing.IsPlayer() {
		thing.Player.DistanceTraveled += int(math.Hypot(
			float64((x-oldx).Int()), float64((y-oldy).Int())))
	}

	w.syncFeetClip(thing)

	if flags&(entity.FlagTeleport|entity.FlagNoClip) == 0 && !w.cfg.Freeze {
		for i := len(w.specHit) - 1; i >= 0; i-- {
			ld := w.specHit[i]
			oldside := ld.PointOnLineSide(oldx, oldy)
			if oldside != ld.PointOnLineSide(thing.X, thing.Y) && ld.Special != 0 {
				w.hooks.CrossSpecial(ld, oldside, thing)
			}
		}
		w.specHit = w.specHit[:0]
	}

	return true
}

// stuckEscape decides a blocked move for an entity that may be embedded
// in geometry: the move is allowed if the mover is actually touching the
// offending lines, since any such move frees it. With no rejecting line
// on record the mover isn't wedged, just blocked.
func (w *World) stuckEscape() bool {
	if w.ceilingLine == nil && w.floorLine == nil {
		return false
	}
	return w.tmUnstuck &&
		!(w.ceilingLine != nil && w.untouched(w.ceilingLine)) &&
		!(w.floorLine != nil && w.untouched(w.floorLine))
}

// syncFeetClip updates the in-liquid state after a committed position
// change.
func (w *World) syncFeetClip(thing *entity.Entity) {
	if thing.Flags&entity.FlagFootClip != 0 && w.IsInLiquid(thing) {
		thing.Flags |= entity.FlagFeetClipped
	} else {
		thing.Flags &^= entity.FlagFeetClipped
	}
}

// TeleportMove drops thing at (x, y), killing anything shootable in the
// way when the arrival is allowed to telefrag (players, bosses, or
// everyone with the TelefragAll rule). Unlike TryMove it ignores step
// and dropoff limits; z is used only for the overlap test and the caller
// settles the vertical position afterwards.
func (w *World) TeleportMove(thing *entity.Entity, x, y, z geom.Fixed, boss bool) bool {
	telefrag := thing.Player != nil || boss || w.cfg.TelefragAll

	w.tmThing = thing
	w.tmX = x
	w.tmY = y
	w.tmBBox = geom.BBoxAround(x, y, thing.Radius)

	newRegion := w.lvl.RegionAt(x, y)

	w.ceilingLine = nil
	w.tmFloorZ = newRegion.FloorHeight
	w.tmDropoffZ = newRegion.FloorHeight
	w.tmCeilingZ = newRegion.CeilingHeight

	w.lvl.NextValidCount()
	w.specHit = w.specHit[:0]

	stomp := func(mo *entity.Entity) bool {
		if mo == thing {
			return true
		}
		if mo.Flags&entity.FlagShootable == 0 {
			return true
		}

		blockdist := mo.Radius + thing.Radius
		if geom.FixedAbs(mo.X-x) >= blockdist || geom.FixedAbs(mo.Y-y) >= blockdist {
			return true // didn't hit it
		}

		if !telefrag {
			return false // blocked arrival
		}

		if thing.Flags&entity.FlagPassEntity != 0 && !w.cfg.InfiniteHeight {
			if z > mo.Z+mo.Height {
				return true // arrives above
			}
			if z+thing.Height < mo.Z {
				return true // arrives below
			}
		}

		w.log.Debug("telefrag",
			zap.Int("victimHealth", mo.Health),
			zap.Float64("x", x.Float()),
			zap.Float64("y", y.Float()))
		w.hooks.Damage(mo, thing, thing, TelefragDamage, true)
		return true
	}

	bm := w.lvl.Blockmap
	xl := bm.BlockX(w.tmBBox.Left - entity.MaxRadius)
	xh := bm.BlockX(w.tmBBox.Right + entity.MaxRadius)
	yl := bm.BlockY(w.tmBBox.Bottom - entity.MaxRadius)
	yh := bm.BlockY(w.tmBBox.Top + entity.MaxRadius)

	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			if !w.lvl.BlockThings(bx, by, stomp) {
				return false
			}
		}
	}

	// The destination is clear; commit.
	w.unsetThingPosition(thing)

	thing.FloorZ = w.tmFloorZ
	thing.CeilingZ = w.tmCeilingZ
	thing.DropoffZ = w.tmDropoffZ
	thing.X = x
	thing.Y = y

	w.setThingPosition(thing)
	w.syncFeetClip(thing)

	return true
}
