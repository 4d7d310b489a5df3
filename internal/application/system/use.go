package system

import (
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// UseLines probes straight ahead of the player for a usable special line
// and activates the first one found. A wall or impassable gap with no
// special produces the "no way" grunt instead.
func (w *World) UseLines(player *entity.Entity) {
	angle := player.Angle
	x1 := player.X
	y1 := player.Y
	x2 := x1 + geom.Fixed(UseRange.Int())*geom.Cos(angle)
	y2 := y1 + geom.Fixed(UseRange.Int())*geom.Sin(angle)

	use := func(in *entity.Intercept) bool {
		line := in.Line

		if line.Special == 0 {
			if line.Opening().Range <= 0 {
				w.hooks.PlaySound(player, SoundNoWay)
				return false // can't use through a wall
			}
			return true // not a special line, keep checking
		}

		side := line.PointOnLineSide(x1, y1)
		w.hooks.UseSpecial(line, side, player)

		// Back-side activations and pass-through specials don't consume
		// the probe.
		return side == 1 || line.Flags&entity.LinePassUse != 0
	}

	if w.lvl.PathTraverse(x1, y1, x2, y2, entity.TraverseLines, use) {
		// Nothing was used; grunt if something within reach would have
		// physically blocked the player anyway.
		noway := func(in *entity.Intercept) bool {
			ld := in.Line
			if ld.Special != 0 {
				return true
			}
			if ld.Flags&entity.LineBlocking != 0 {
				return false
			}
			op := ld.Opening()
			return !(op.Range <= 0 ||
				op.Bottom > player.Z+StepHeight ||
				op.Top < player.Z+player.Height)
		}
		if !w.lvl.PathTraverse(x1, y1, x2, y2, entity.TraverseLines, noway) {
			w.hooks.PlaySound(player, SoundNoWay)
		}
	}
}
