package system

import (
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// EffectKind identifies a visual impact effect requested from the game
// layer.
type EffectKind int

const (
	EffectPuff EffectKind = iota
	EffectBlood
	EffectBloodSplat
)

// String returns the string representation of the effect kind.
func (k EffectKind) String() string {
	switch k {
	case EffectPuff:
		return "Puff"
	case EffectBlood:
		return "Blood"
	case EffectBloodSplat:
		return "BloodSplat"
	default:
		return "Unknown"
	}
}

// SoundID identifies a sound requested from the game layer.
type SoundID int

const (
	SoundOof SoundID = iota
	SoundNoWay
	SoundSquish
)

// Collaborators are the injection points for everything the movement core
// delegates to the rest of the game: damage bookkeeping, sight tests,
// effects, sounds, and line-special dispatch. Nil fields become no-ops.
type Collaborators struct {
	// Damage applies amount damage to target; inflictor is the entity
	// that physically caused it, source the one to blame for it.
	Damage func(target, inflictor, source *entity.Entity, amount int, fromRadius bool)

	// LineOfSight reports whether a can see b. Used by blast damage.
	LineOfSight func(a, b *entity.Entity) bool

	// SpawnEffect places a visual impact effect.
	SpawnEffect func(kind EffectKind, x, y, z geom.Fixed, angle geom.Angle)

	// PlaySound plays a sound at the entity's position.
	PlaySound func(source *entity.Entity, sound SoundID)

	// CrossSpecial fires a special line crossed by a committed move.
	CrossSpecial func(line *entity.Line, side int, activator *entity.Entity)

	// ShootSpecial fires a special line hit by a hitscan attack.
	ShootSpecial func(line *entity.Line, activator *entity.Entity)

	// UseSpecial fires a special line activated by a use probe.
	UseSpecial func(line *entity.Line, side int, activator *entity.Entity)

	// TouchItem lets the game layer resolve a pickup; it may remove the
	// item from the world as part of the call.
	TouchItem func(item, toucher *entity.Entity)

	// ViewChanged tells the game layer to refresh a player's viewpoint
	// after the floor moved underneath it.
	ViewChanged func(player *entity.Player)
}

func (c *Collaborators) normalize() {
	if c.Damage == nil {
		c.Damage = func(_, _, _ *entity.Entity, _ int, _ bool) {}
	}
	if c.LineOfSight == nil {
		c.LineOfSight = func(_, _ *entity.Entity) bool { return true }
	}
	if c.SpawnEffect == nil {
		c.SpawnEffect = func(_ EffectKind, _, _, _ geom.Fixed, _ geom.Angle) {}
	}
	if c.PlaySound == nil {
		c.PlaySound = func(_ *entity.Entity, _ SoundID) {}
	}
	if c.CrossSpecial == nil {
		c.CrossSpecial = func(_ *entity.Line, _ int, _ *entity.Entity) {}
	}
	if c.ShootSpecial == nil {
		c.ShootSpecial = func(_ *entity.Line, _ *entity.Entity) {}
	}
	if c.UseSpecial == nil {
		c.UseSpecial = func(_ *entity.Line, _ int, _ *entity.Entity) {}
	}
	if c.TouchItem == nil {
		c.TouchItem = func(_, _ *entity.Entity) {}
	}
	if c.ViewChanged == nil {
		c.ViewChanged = func(_ *entity.Player) {}
	}
}
