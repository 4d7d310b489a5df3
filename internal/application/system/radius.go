package system

import (
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// RadiusAttack deals blast damage around spot, attenuated linearly with
// distance: damage map units of reach, minus the distance to the edge of
// each victim. source takes the blame for any kills. With verticality
// the height difference also attenuates, and fully separated floors
// shield the victim; without it only the planar distance counts.
func (w *World) RadiusAttack(spot, source *entity.Entity, damage int, verticality bool) {
	dist := geom.FixedFromInt(damage) + entity.MaxRadius

	pit := func(th *entity.Entity) bool {
		if th == spot {
			return true
		}
		// Corpses react to the blast even though they can't be shot.
		if th.Flags&(entity.FlagShootable|entity.FlagCorpse) == 0 {
			return true
		}
		if th.Flags&entity.FlagNoRadiusDamage != 0 {
			return true // immune to blasts
		}

		// Chebyshev distance to the edge of the victim's footprint.
		dx := geom.FixedAbs(th.X - spot.X)
		dy := geom.FixedAbs(th.Y - spot.Y)
		planar := max(dx, dy) - th.Radius

		var du int
		if verticality && !w.cfg.InfiniteHeight && th.Flags&entity.FlagLegacyBlast == 0 {
			dz := geom.FixedAbs(th.Z + th.Height>>1 - spot.Z)
			du = max(0, max(planar, dz).Int())

			// Fully separated floors shield the victim.
			if (th.FloorZ > spot.Z && spot.CeilingZ < th.Z) ||
				(th.CeilingZ < spot.Z && spot.FloorZ > th.Z) {
				return true
			}
		} else {
			du = max(0, planar.Int())
		}

		if du >= damage {
			return true // out of range
		}

		if w.hooks.LineOfSight(th, spot) {
			// Must be in direct path.
			w.hooks.Damage(th, spot, source, damage-du, true)
		}
		return true
	}

	bm := w.lvl.Blockmap
	xl := bm.BlockX(spot.X - dist)
	xh := bm.BlockX(spot.X + dist)
	yl := bm.BlockY(spot.Y - dist)
	yh := bm.BlockY(spot.Y + dist)

	for by := yl; by <= yh; by++ {
		for bx := xl; bx <= xh; bx++ {
			w.lvl.BlockThings(bx, by, pit)
		}
	}
}
