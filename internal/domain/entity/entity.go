package entity

import "github.com/WindowxDeveloper/doomretro/internal/domain/geom"

// Flag is a bitset of entity capabilities and transient physics states.
type Flag uint32

const (
	// FlagSpecial marks a pickup item; touching it may consume it.
	FlagSpecial Flag = 1 << iota
	// FlagSolid blocks other solid entities.
	FlagSolid
	// FlagShootable can be targeted and damaged.
	FlagShootable
	// FlagNoGravity is exempt from gravity.
	FlagNoGravity
	// FlagNoClip skips all collision checks.
	FlagNoClip
	// FlagFloat moves vertically toward its target (flying monsters).
	FlagFloat
	// FlagMissile is a projectile in flight.
	FlagMissile
	// FlagDropped was dropped by a dying monster (crushed silently).
	FlagDropped
	// FlagCorpse no longer blocks and may be nudged around.
	FlagCorpse
	// FlagPickup consumes special items it touches.
	FlagPickup
	// FlagFriend is on the player's side; monster-blocking lines ignore it.
	FlagFriend
	// FlagTeleport suppresses step checks and special-line crossing.
	FlagTeleport
	// FlagDropoff may walk off ledges of any height.
	FlagDropoff
	// FlagNoBlood spawns puffs instead of blood when hit.
	FlagNoBlood
	// FlagSpawnCeiling hangs from the ceiling.
	FlagSpawnCeiling
	// FlagCharging is in a slamming charge (skull-fly).
	FlagCharging
	// FlagPassEntity may move over and under other entities.
	FlagPassEntity
	// FlagFootClip sinks its feet when standing in liquid.
	FlagFootClip
	// FlagFeetClipped is currently standing in liquid.
	FlagFeetClipped
	// FlagCrushable is gibbed rather than blocking when crushed dead.
	FlagCrushable
	// FlagFalling was pushed off a ledge by torque and is tumbling.
	FlagFalling
	// FlagFloatBob bobs on the surface of liquid.
	FlagFloatBob
	// FlagNoRadiusDamage is immune to blast damage.
	FlagNoRadiusDamage
	// FlagLegacyBlast always takes planar-only blast distance.
	FlagLegacyBlast
	// FlagBouncy rebounds off solid entities and walls instead of
	// exploding on them.
	FlagBouncy
)

// Gear damping bounds for ledge torque. Overdrive is the gear at which the
// torque push is applied at full strength; above it the push is halved per
// gear until MaxGear.
const (
	Overdrive = 6
	MaxGear   = Overdrive + 16
)

// Entity is a movable map object. Position and momentum are owned by the
// simulation; cached floor/ceiling/dropoff are valid as of the last
// committed position.
type Entity struct {
	X, Y, Z geom.Fixed
	Angle   geom.Angle

	Radius geom.Fixed
	Height geom.Fixed
	// PickupRadius is the wider radius used for item touch tests and for
	// membership rebuilds. Zero means Radius.
	PickupRadius geom.Fixed
	// PassHeight substitutes for Height when projectiles test over/under
	// passage. Zero means Height.
	PassHeight geom.Fixed

	MomX, MomY, MomZ geom.Fixed

	Flags   Flag
	Health  int
	Damage  int // base contact damage for missiles and chargers
	Species int // originator species; same-species missiles do not damage

	FloorZ, CeilingZ, DropoffZ geom.Fixed

	// Gear dampens ledge torque across consecutive ticks.
	Gear int
	// Nudge is the cooldown before a corpse may be nudged again.
	Nudge int

	Region   *Region
	Touching *TouchNode // head of this entity's region-membership thread
	Target   *Entity
	Player   *Player

	// Blockmap linkage. Entities are threaded into the cell containing
	// their origin.
	blockNext, blockPrev *Entity
	blockIndex           int
}

// TouchRadius returns the radius used for pickup and membership queries.
func (e *Entity) TouchRadius() geom.Fixed {
	if e.PickupRadius != 0 {
		return e.PickupRadius
	}
	return e.Radius
}

// ProjectilePassHeight returns the height used for over/under passage tests
// against missiles.
func (e *Entity) ProjectilePassHeight() geom.Fixed {
	if e.PassHeight != 0 {
		return e.PassHeight
	}
	return e.Height
}

// IsPlayer reports whether this entity is directly player-controlled (and
// not a voodoo stand-in sharing the same player).
func (e *Entity) IsPlayer() bool {
	return e.Player != nil && e.Player.Mo == e
}

// Player is the per-player state the movement core needs to see.
type Player struct {
	Mo *Entity
	// MomX, MomY drive view bobbing and are clipped alongside slides.
	MomX, MomY geom.Fixed
	// DistanceTraveled accumulates committed movement in map units.
	DistanceTraveled int
	// Invulnerable suppresses blood when the player is hit or crushed.
	Invulnerable bool
}
