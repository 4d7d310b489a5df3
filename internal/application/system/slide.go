package system

import (
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// slideFudge pulls the slide endpoint slightly short of the blocking
// line so rounding can't push the mover through it.
const slideFudge geom.Fixed = 0x800

func clampMove(v geom.Fixed) geom.Fixed {
	return min(max(v, -MaxMove), MaxMove)
}

// SlideMove lets a blocked mover glide along the wall it ran into,
// keeping the momentum component parallel to the wall. Up to three walls
// are resolved per call; after that the move is abandoned. Called when
// a regular move is blocked but the mover still has momentum.
func (w *World) SlideMove(mo *entity.Entity) {
	mo.MomX = clampMove(mo.MomX)
	mo.MomY = clampMove(mo.MomY)

	for hitcount := 3; hitcount > 0; hitcount-- {
		// Trace the three leading corners of the footprint along the
		// momentum and find the closest wall contact.
		var leadx, trailx geom.Fixed
		if mo.MomX > 0 {
			leadx = mo.X + mo.Radius
			trailx = mo.X - mo.Radius
		} else {
			leadx = mo.X - mo.Radius
			trailx = mo.X + mo.Radius
		}
		var leady, traily geom.Fixed
		if mo.MomY > 0 {
			leady = mo.Y + mo.Radius
			traily = mo.Y - mo.Radius
		} else {
			leady = mo.Y - mo.Radius
			traily = mo.Y + mo.Radius
		}

		bestFrac := geom.FracUnit + 1
		var bestLine *entity.Line

		slide := func(in *entity.Intercept) bool {
			li := in.Line
			if li.Flags&entity.LineTwoSided == 0 {
				if li.PointOnLineSide(mo.X, mo.Y) == 1 {
					return true // hit the back side; don't slide on it
				}
			} else {
				op := li.Opening()
				if op.Range >= mo.Height &&
					op.Top-mo.Z >= mo.Height &&
					op.Bottom-mo.Z <= StepHeight {
					return true // the opening is passable
				}
			}
			if in.Frac < bestFrac {
				bestFrac = in.Frac
				bestLine = li
			}
			return false // stop at the first blocker per trace
		}

		w.lvl.PathTraverse(leadx, leady, leadx+mo.MomX, leady+mo.MomY,
			entity.TraverseLines, slide)
		w.lvl.PathTraverse(trailx, leady, trailx+mo.MomX, leady+mo.MomY,
			entity.TraverseLines, slide)
		w.lvl.PathTraverse(leadx, traily, leadx+mo.MomX, traily+mo.MomY,
			entity.TraverseLines, slide)

		if bestFrac == geom.FracUnit+1 {
			w.stairstep(mo) // the move must have hit the middle, so stairstep
			return
		}

		// Move up to the wall.
		bestFrac -= slideFudge
		if bestFrac > 0 {
			newx := geom.FixedMul(mo.MomX, bestFrac)
			newy := geom.FixedMul(mo.MomY, bestFrac)
			if !w.TryMove(mo, mo.X+newx, mo.Y+newy, true) {
				w.stairstep(mo)
				return
			}
		}

		// Now slide along the wall with the remaining fraction.
		bestFrac = geom.FracUnit - (bestFrac + slideFudge)
		if bestFrac > geom.FracUnit {
			bestFrac = geom.FracUnit
		}
		if bestFrac <= 0 {
			return
		}

		dx := geom.FixedMul(mo.MomX, bestFrac)
		dy := geom.FixedMul(mo.MomY, bestFrac)
		dx, dy = w.hitSlideLine(mo, bestLine, dx, dy)

		mo.MomX = dx
		mo.MomY = dy

		// Keep the player's bobbing momentum within the clipped move.
		if mo.IsPlayer() {
			p := mo.Player
			if geom.FixedAbs(p.MomX) > geom.FixedAbs(dx) {
				p.MomX = dx
			}
			if geom.FixedAbs(p.MomY) > geom.FixedAbs(dy) {
				p.MomY = dy
			}
		}

		if w.TryMove(mo, mo.X+dx, mo.Y+dy, true) {
			return
		}
	}
}

// stairstep gives up on the diagonal and tries each axis alone, so the
// mover can still creep along tight corners.
func (w *World) stairstep(mo *entity.Entity) {
	if !w.TryMove(mo, mo.X, mo.Y+mo.MomY, true) {
		w.TryMove(mo, mo.X+mo.MomX, mo.Y, true)
	}
}

// hitSlideLine projects the blocked move (dx, dy) onto the wall so the
// mover keeps the parallel component. On slippery floors a steep impact
// bounces off the wall instead, at half speed.
func (w *World) hitSlideLine(mo *entity.Entity, ld *entity.Line, dx, dy geom.Fixed) (geom.Fixed, geom.Fixed) {
	friction, _ := w.Friction(mo)
	icy := mo.Z <= mo.FloorZ && friction > OrigFriction &&
		geom.ApproxDistance(dx, dy) > 4*geom.FracUnit

	switch ld.Slope {
	case entity.SlopeHorizontal:
		if icy && geom.FixedAbs(dy) > geom.FixedAbs(dx) {
			w.oof(mo)
			return dx / 2, -dy / 2
		}
		return dx, 0
	case entity.SlopeVertical:
		if icy && geom.FixedAbs(dx) > geom.FixedAbs(dy) {
			w.oof(mo)
			return -dx / 2, dy / 2
		}
		return 0, dy
	}

	lineangle := geom.PointToAngle2(0, 0, ld.DX, ld.DY)
	if ld.PointOnLineSide(mo.X, mo.Y) == 1 {
		lineangle += geom.Ang180
	}

	// The small offset absorbs rounding error in the angle conversion.
	moveangle := geom.PointToAngle2(0, 0, dx, dy) + 10
	deltaangle := moveangle - lineangle
	movelen := geom.ApproxDistance(dx, dy)

	if icy && deltaangle > geom.Ang45 && deltaangle < geom.Ang90+geom.Ang45 {
		w.oof(mo)
		bounceangle := lineangle - deltaangle
		movelen /= 2
		return geom.FixedMul(movelen, geom.Cos(bounceangle)),
			geom.FixedMul(movelen, geom.Sin(bounceangle))
	}

	if deltaangle > geom.Ang180 {
		deltaangle += geom.Ang180
	}
	newlen := geom.FixedMul(movelen, geom.Cos(deltaangle))
	return geom.FixedMul(newlen, geom.Cos(lineangle)),
		geom.FixedMul(newlen, geom.Sin(lineangle))
}

func (w *World) oof(mo *entity.Entity) {
	if mo.Player != nil && mo.Health > 0 {
		w.hooks.PlaySound(mo, SoundOof)
	}
}
