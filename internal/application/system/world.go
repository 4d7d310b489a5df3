package system

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// Movement and combat constants, in fixed-point map units.
const (
	// StepHeight is the tallest ledge a mover can climb in one move.
	StepHeight geom.Fixed = 24 << geom.FracBits

	// MaxMove caps per-tick displacement so a trial footprint always
	// straddles the lines it crosses instead of tunneling past them.
	MaxMove geom.Fixed = 30 << geom.FracBits

	// UseRange is how far a use probe reaches.
	UseRange geom.Fixed = 64 << geom.FracBits

	// MissileRange bounds hitscan and autoaim traces.
	MissileRange geom.Fixed = 32 * 64 << geom.FracBits

	// TelefragDamage kills anything regardless of health.
	TelefragDamage = 10000

	crushDamage = 10
)

// footClipSize is how deep liquid swallows a clipped entity's feet.
const footClipSize geom.Fixed = 10 << geom.FracBits

// Spawn z placeholders: put the entity on the floor or against the
// ceiling of whatever region it lands in.
const (
	OnFloorZ   = geom.FixedMin
	OnCeilingZ = geom.FixedMax
)

// Config holds the simulation toggles.
type Config struct {
	// InfiniteHeight restores the historical rule that entities block each
	// other regardless of vertical separation.
	InfiniteHeight bool

	// Freeze suspends clipping entirely; every position is valid.
	Freeze bool

	// SpeciesInfighting lets projectiles damage entities of their
	// shooter's own species instead of just fizzling on them.
	SpeciesInfighting bool

	// TelefragAll makes every teleporter stomp blockers, not just player
	// and boss arrivals.
	TelefragAll bool

	// CorpseNudge lets walkers shove fresh corpses around.
	CorpseNudge bool

	// Seed feeds the deterministic random stream the core consumes for
	// damage rolls, gib scatter and corpse nudges.
	Seed int64
}

// World is the movement and collision core. It owns the level, the
// deterministic random stream and the per-probe scratch state; one trial
// runs at a time, so World is not safe for concurrent use.
type World struct {
	lvl   *entity.Level
	cfg   Config
	hooks Collaborators
	log   *zap.Logger
	rng   *rand.Rand

	levelTime int

	// Scratch for the position trial in flight. Routines that re-enter a
	// trial (membership rebuild, height clip) save and restore these.
	tmThing                          *entity.Entity
	tmX, tmY                         geom.Fixed
	tmBBox                           geom.BBox
	tmFloorZ, tmCeilingZ, tmDropoffZ geom.Fixed
	tmUnstuck                        bool

	ceilingLine *entity.Line
	blockLine   *entity.Line
	floorLine   *entity.Line

	specHit []*entity.Line

	floatOK  bool
	fellDown bool

	lineTarget *entity.Entity

	// Membership scratch: the thread under reconstruction and the pool of
	// recycled nodes.
	touchList *entity.TouchNode
	freeNodes *entity.TouchNode
}

// NewWorld wires a level to its collaborators. A nil logger disables
// logging.
func NewWorld(lvl *entity.Level, cfg Config, hooks Collaborators, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	hooks.normalize()

	w := &World{
		lvl:   lvl,
		cfg:   cfg,
		hooks: hooks,
		log:   log,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}
	w.log.Info("world created",
		zap.Int("lines", len(lvl.Lines)),
		zap.Int("regions", len(lvl.Regions)),
		zap.Int64("seed", cfg.Seed))
	return w
}

// Level exposes the underlying level.
func (w *World) Level() *entity.Level { return w.lvl }

// Tick advances level time by one step.
func (w *World) Tick() { w.levelTime++ }

// Time returns the number of elapsed ticks.
func (w *World) Time() int { return w.levelTime }

// FloatOK reports whether the last TryMove would have succeeded at some
// other z; floaters use it to drift vertically toward the opening.
func (w *World) FloatOK() bool { return w.floatOK }

// FellDown reports whether the last TryMove walked the mover off a ledge
// taller than its step height.
func (w *World) FellDown() bool { return w.fellDown }

// LineTarget returns the entity the last AimLineAttack locked onto, or
// nil.
func (w *World) LineTarget() *entity.Entity { return w.lineTarget }

// CeilingLine returns the line that last lowered the trial ceiling, or
// nil.
func (w *World) CeilingLine() *entity.Line { return w.ceilingLine }

// BlockLine returns the last line that blocked or shaped the trial, or
// nil.
func (w *World) BlockLine() *entity.Line { return w.blockLine }

// Spawn places a new entity into the world at (x, y) and links it. z may
// be OnFloorZ or OnCeilingZ to snap to the region's planes.
func (w *World) Spawn(e *entity.Entity, x, y, z geom.Fixed) {
	e.X = x
	e.Y = y
	w.lvl.Add(e)
	w.RebuildMembership(e)

	r := e.Region
	e.FloorZ = r.FloorHeight
	e.DropoffZ = r.FloorHeight
	e.CeilingZ = r.CeilingHeight

	switch z {
	case OnFloorZ:
		e.Z = e.FloorZ
	case OnCeilingZ:
		e.Z = e.CeilingZ - e.Height
	default:
		e.Z = z
	}

	if e.Flags&entity.FlagFootClip != 0 && w.IsInLiquid(e) {
		e.Flags |= entity.FlagFeetClipped
	}
}

// Remove takes an entity out of play: membership nodes are returned to
// the pool and the entity is unlinked and dropped from the level.
func (w *World) Remove(e *entity.Entity) {
	w.releaseTouching(e)
	w.lvl.Drop(e)
}

// unsetThingPosition detaches the entity from the spatial indexes ahead
// of a committed move. The membership thread is kept aside so the
// following set can reuse its nodes.
func (w *World) unsetThingPosition(e *entity.Entity) {
	w.lvl.Unlink(e)
	w.touchList = e.Touching
	e.Touching = nil
}

// setThingPosition reattaches the entity at its current coordinates and
// reconciles its region membership.
func (w *World) setThingPosition(e *entity.Entity) {
	w.lvl.Link(e)
	w.rebuildTouching(e, e.X, e.Y)
	e.Touching = w.touchList
	w.touchList = nil
}

// RebuildMembership reconciles the entity's region-membership thread with
// its current footprint. Idempotent: a second call with no movement in
// between is a no-op on the thread contents.
func (w *World) RebuildMembership(e *entity.Entity) {
	w.touchList = e.Touching
	e.Touching = nil
	w.rebuildTouching(e, e.X, e.Y)
	e.Touching = w.touchList
	w.touchList = nil
}
