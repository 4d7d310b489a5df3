package system

import (
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

const (
	// OrigFriction is the default floor friction; momentum is multiplied
	// by it each tick. Lower is muddier, higher is icier.
	OrigFriction geom.Fixed = 0xe800
	// OrigFrictionFactor is the matching acceleration factor.
	OrigFrictionFactor geom.Fixed = 2048

	// Gravity is the per-tick downward acceleration.
	Gravity geom.Fixed = geom.FracUnit

	// FloatSpeed is the vertical drift rate of floating entities.
	FloatSpeed geom.Fixed = 4 << geom.FracBits

	// stopSpeed is the momentum below which a grounded mover halts.
	stopSpeed geom.Fixed = 0x1000

	// moreFrictionMomentum thresholds scale low-friction acceleration up
	// with speed, so mud doesn't feel like walking into a wall.
	moreFrictionMomentum geom.Fixed = 15000
)

// Friction returns the floor friction and acceleration factor under the
// entity. When several touched regions carry friction, the muddiest
// (lowest friction) wins; airborne and non-clipping entities always get
// the default.
func (w *World) Friction(mo *entity.Entity) (friction, moveFactor geom.Fixed) {
	friction = OrigFriction
	moveFactor = OrigFrictionFactor

	if mo.Flags&(entity.FlagNoClip|entity.FlagNoGravity) != 0 {
		return friction, moveFactor
	}

	for n := mo.Touching; n != nil; n = n.TNext {
		sec := n.Region
		if sec.FrictionEnabled &&
			(sec.Friction < friction || friction == OrigFriction) &&
			mo.Z <= sec.FloorHeight {
			friction = sec.Friction
			moveFactor = sec.MoveFactor
		}
	}
	return friction, moveFactor
}

// MoveFactor returns the acceleration factor for the entity, boosted on
// muddy floors once the mover already carries momentum so that low
// friction slows starts but not sustained movement.
func (w *World) MoveFactor(mo *entity.Entity) (moveFactor, friction geom.Fixed) {
	friction, moveFactor = w.Friction(mo)

	if friction < OrigFriction {
		momentum := geom.ApproxDistance(mo.MomX, mo.MomY)
		switch {
		case momentum > moreFrictionMomentum<<2:
			moveFactor <<= 3
		case momentum > moreFrictionMomentum<<1:
			moveFactor <<= 2
		case momentum > moreFrictionMomentum:
			moveFactor <<= 1
		}
	}
	return moveFactor, friction
}

// ApplyFriction decays a grounded entity's momentum by the floor
// friction, stopping it entirely below the cutoff speed.
func (w *World) ApplyFriction(mo *entity.Entity) {
	if mo.Z > mo.FloorZ || mo.Flags&(entity.FlagMissile|entity.FlagNoClip) != 0 {
		return // no friction when airborne or for missiles
	}

	if mo.MomX > -stopSpeed && mo.MomX < stopSpeed &&
		mo.MomY > -stopSpeed && mo.MomY < stopSpeed {
		mo.MomX = 0
		mo.MomY = 0
		return
	}

	friction, _ := w.Friction(mo)
	mo.MomX = geom.FixedMul(mo.MomX, friction)
	mo.MomY = geom.FixedMul(mo.MomY, friction)
}

// ApplyTorque lets a body hanging over a ledge pitch over it. Each
// straddled dropoff line contributes a push proportional to the lever
// arm from the line to the body's center of mass; the Gear counter damps
// repeated pushes across consecutive ticks so bodies don't jitter
// forever on an edge.
func (w *World) ApplyTorque(mo *entity.Entity) {
	w.tmThing = mo
	w.tmBBox = geom.BBoxAround(mo.X, mo.Y, mo.Radius)

	wasFalling := mo.Flags & entity.FlagFalling

	w.lvl.NextValidCount()

	bm := w.lvl.Blockmap
	xl := bm.BlockX(w.tmBBox.Left)
	xh := bm.BlockX(w.tmBBox.Right)
	yl := bm.BlockY(w.tmBBox.Bottom)
	yh := bm.BlockY(w.tmBBox.Top)

	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			w.lvl.BlockLines(bx, by, w.torqueLine)
		}
	}

	if mo.MomX|mo.MomY != 0 {
		mo.Flags |= entity.FlagFalling
	} else {
		mo.Flags &^= entity.FlagFalling
	}

	// Shift gears: idle bodies reset, tumbling ones damp further each
	// tick.
	if (mo.Flags|wasFalling)&entity.FlagFalling == 0 {
		mo.Gear = 0
	} else if mo.Gear < entity.MaxGear {
		mo.Gear++
	}
}

// torqueLine applies the ledge push from one straddled dropoff line.
func (w *World) torqueLine(ld *entity.Line) bool {
	mo := w.tmThing

	if ld.Back == nil {
		return true // torque only at two-sided dropoffs
	}
	if !w.tmBBox.Overlaps(ld.BBox) {
		return true
	}
	if ld.BoxOnLineSide(w.tmBBox) != -1 {
		return true
	}

	// Lever arm of the center of mass about the line, in whole units.
	dist := (ld.DX>>geom.FracBits)*(mo.Y>>geom.FracBits) -
		(ld.DY>>geom.FracBits)*(mo.X>>geom.FracBits) -
		(ld.DX>>geom.FracBits)*(ld.V1.Y>>geom.FracBits) +
		(ld.DY>>geom.FracBits)*(ld.V1.X>>geom.FracBits)

	var dropoff bool
	if dist < 0 {
		dropoff = ld.Front.FloorHeight < mo.Z && ld.Back.FloorHeight >= mo.Z
	} else {
		dropoff = ld.Back.FloorHeight < mo.Z && ld.Front.FloorHeight >= mo.Z
	}
	if !dropoff {
		return true // the body hangs over the high side only
	}

	// Scale the push by the line's inclination and the current gear.
	x := geom.FixedAbs(ld.DX)
	y := geom.FixedAbs(ld.DY)
	if y > x {
		x, y = y, x
	}
	yf := geom.Sin(geom.TanAngle(geom.FixedDiv(y, x)) + geom.Ang90)

	if mo.Gear < entity.Overdrive {
		yf <<= uint(entity.Overdrive - mo.Gear)
	} else {
		yf >>= uint(mo.Gear - entity.Overdrive)
	}

	dist = geom.FixedDiv(geom.FixedMul(dist, yf), x)

	px := geom.FixedMul(ld.DY, dist)
	py := geom.FixedMul(ld.DX, dist)

	// Avoid moving too fast all of a sudden.
	d2 := geom.FixedMul(px, px) + geom.FixedMul(py, py)
	for d2 > 4*geom.FracUnit && mo.Gear < entity.MaxGear {
		mo.Gear++
		px >>= 1
		py >>= 1
		d2 >>= 1
	}

	mo.MomX -= px
	mo.MomY += py
	return true
}

// ZMovement integrates one tick of vertical momentum and gravity, clipped
// to the cached floor and ceiling.
func (w *World) ZMovement(mo *entity.Entity) {
	mo.Z += mo.MomZ

	if mo.Z <= mo.FloorZ {
		if mo.MomZ < 0 {
			mo.MomZ = 0
		}
		mo.Z = mo.FloorZ
	} else if mo.Flags&entity.FlagNoGravity == 0 {
		if mo.MomZ == 0 {
			mo.MomZ = -Gravity
		} else {
			mo.MomZ -= Gravity
		}
	}

	if mo.Z+mo.Height > mo.CeilingZ {
		if mo.MomZ > 0 {
			mo.MomZ = 0
		}
		mo.Z = mo.CeilingZ - mo.Height
	}
}

// fakeZMovement projects one tick of vertical movement onto mo without
// any of ZMovement's side effects beyond position and momentum; used by
// CheckOnEntity on a scratch copy.
func (w *World) fakeZMovement(mo *entity.Entity) {
	mo.Z += mo.MomZ

	if mo.Flags&entity.FlagFloat != 0 && mo.Target != nil &&
		mo.Flags&entity.FlagCharging == 0 {
		// Float toward the target's altitude.
		delta := (mo.Target.Z + mo.Height>>1 - mo.Z) * 3
		if geom.ApproxDistance(mo.X-mo.Target.X, mo.Y-mo.Target.Y) < geom.FixedAbs(delta) {
			if delta < 0 {
				mo.Z -= FloatSpeed
			} else {
				mo.Z += FloatSpeed
			}
		}
	}

	if mo.Z <= mo.FloorZ {
		if mo.Flags&entity.FlagCharging != 0 {
			mo.MomZ = -mo.MomZ // the charge bounces
		}
		if mo.MomZ < 0 {
			mo.MomZ = 0
		}
		mo.Z = mo.FloorZ
	} else if mo.Flags&entity.FlagNoGravity == 0 {
		if mo.MomZ == 0 {
			mo.MomZ = -Gravity
		} else {
			mo.MomZ -= Gravity
		}
	}

	if mo.Z+mo.Height > mo.CeilingZ {
		if mo.MomZ > 0 {
			mo.MomZ = 0
		}
		if mo.Flags&entity.FlagCharging != 0 {
			mo.MomZ = -mo.MomZ
		}
		mo.Z = mo.CeilingZ - mo.Height
	}
}

// CheckOnEntity reports the solid entity mo would land on after one tick
// of vertical movement, or nil. The probe is side-effect free: mo is
// restored before returning.
func (w *World) CheckOnEntity(mo *entity.Entity) *entity.Entity {
	old := *mo

	w.tmThing = mo
	w.fakeZMovement(mo)

	x := mo.X
	y := mo.Y
	w.tmX = x
	w.tmY = y
	w.tmBBox = geom.BBoxAround(x, y, mo.Radius)

	newRegion := w.lvl.RegionAt(x, y)
	w.ceilingLine = nil
	w.tmFloorZ = newRegion.FloorHeight
	w.tmDropoffZ = newRegion.FloorHeight
	w.tmCeilingZ = newRegion.CeilingHeight

	w.lvl.NextValidCount()
	w.specHit = w.specHit[:0]

	if mo.Flags&entity.FlagNoClip != 0 || w.cfg.Freeze {
		*mo = old
		return nil
	}

	var onmobj *entity.Entity
	pit := func(th *entity.Entity) bool {
		if th == mo {
			return true
		}
		if th.Flags&entity.FlagSolid == 0 {
			return true
		}
		if th.Flags&(entity.FlagCorpse|entity.FlagSpecial) != 0 {
			return true
		}
		if mo.Z > th.Z+th.Height {
			return true // over
		}
		if mo.Z+mo.Height <= th.Z {
			return true // under
		}
		blockdist := th.Radius + mo.Radius
		if geom.FixedAbs(th.X-x) >= blockdist || geom.FixedAbs(th.Y-y) >= blockdist {
			return true // didn't hit it
		}
		onmobj = th
		return false
	}

	bm := w.lvl.Blockmap
	xl := bm.BlockX(w.tmBBox.Left - entity.MaxRadius)
	xh := bm.BlockX(w.tmBBox.Right + entity.MaxRadius)
	yl := bm.BlockY(w.tmBBox.Bottom - entity.MaxRadius)
	yh := bm.BlockY(w.tmBBox.Top + entity.MaxRadius)

	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			if !w.lvl.BlockThings(bx, by, pit) {
				*mo = old
				return onmobj
			}
		}
	}

	*mo = old
	return nil
}

// IsInLiquid reports whether the entity stands wholly in liquid. For
// shootable entities every touched region must be liquid; decorations
// only check the region under their origin.
func (w *World) IsInLiquid(thing *entity.Entity) bool {
	if thing.Flags&entity.FlagShootable == 0 {
		return thing.Region != nil && thing.Region.Terrain == entity.TerrainLiquid
	}
	for n := thing.Touching; n != nil; n = n.TNext {
		if n.Region.Terrain != entity.TerrainLiquid {
			return false
		}
	}
	return thing.Touching != nil
}

// TickNudges counts down the corpse-nudge cooldowns. Call once per tick.
func (w *World) TickNudges() {
	for _, e := range w.lvl.Entities {
		if e.Nudge > 0 {
			e.Nudge--
		}
	}
}
