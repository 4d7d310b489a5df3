package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

func TestWorld_Friction_MuddiestRegionWins(t *testing.T) {
	// Straddling mud and ice: the lower friction (mud) governs.
	w := createTestWorldDef(t,
		createTwoRoomDef(
			entity.RegionDef{Floor: 0, Ceiling: 256, FrictionEnabled: true, Friction: 0xd000, MoveFactor: 100},
			entity.RegionDef{Floor: 0, Ceiling: 256, FrictionEnabled: true, Friction: 0xf900, MoveFactor: 32},
			0),
		Collaborators{}, Config{})

	mo := createWalker(0)
	w.Spawn(mo, fx(500), fx(512), OnFloorZ)

	friction, moveFactor := w.Friction(mo)
	assert.Equal(t, geom.Fixed(0xd000), friction)
	assert.Equal(t, geom.Fixed(100), moveFactor)
}

func TestWorld_Friction_Defaults(t *testing.T) {
	icy := createTwoRoomDef(
		entity.RegionDef{Floor: 0, Ceiling: 256, FrictionEnabled: true, Friction: 0xf900, MoveFactor: 32},
		entity.RegionDef{Floor: 0, Ceiling: 256},
		0)

	tests := []struct {
		name  string
		flags entity.Flag
		z     geom.Fixed
		want  geom.Fixed
	}{
		{name: "grounded on ice", flags: 0, z: OnFloorZ, want: 0xf900},
		{name: "airborne", flags: 0, z: fx(64), want: OrigFriction},
		{name: "no clip", flags: entity.FlagNoClip, z: OnFloorZ, want: OrigFriction},
		{name: "no gravity", flags: entity.FlagNoGravity, z: OnFloorZ, want: OrigFriction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createTestWorldDef(t, icy, Collaborators{}, Config{})
			mo := createWalker(tt.flags)
			w.Spawn(mo, fx(256), fx(512), tt.z)

			friction, _ := w.Friction(mo)
			assert.Equal(t, tt.want, friction)
		})
	}
}

func TestWorld_MoveFactor_MomentumBoost(t *testing.T) {
	muddy := createTwoRoomDef(
		entity.RegionDef{Floor: 0, Ceiling: 256, FrictionEnabled: true, Friction: 0xd000, MoveFactor: 100},
		entity.RegionDef{Floor: 0, Ceiling: 256},
		0)

	tests := []struct {
		name     string
		momentum geom.Fixed
		want     geom.Fixed
	}{
		{name: "standing start", momentum: 0, want: 100},
		{name: "walking", momentum: 20000, want: 200},
		{name: "running", momentum: 40000, want: 400},
		{name: "sprinting", momentum: 70000, want: 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createTestWorldDef(t, muddy, Collaborators{}, Config{})
			mo := createWalker(0)
			w.Spawn(mo, fx(256), fx(512), OnFloorZ)
			mo.MomX = tt.momentum

			moveFactor, _ := w.MoveFactor(mo)
			assert.Equal(t, tt.want, moveFactor)
		})
	}
}

func TestWorld_ApplyFriction(t *testing.T) {
	w := createTestWorld(t, 0, 0, Collaborators{}, Config{})

	mo := createWalker(0)
	w.Spawn(mo, fx(256), fx(512), OnFloorZ)

	mo.MomX = fx(4)
	w.ApplyFriction(mo)
	assert.Equal(t, geom.FixedMul(fx(4), OrigFriction), mo.MomX)

	// Below the cutoff, movement stops dead.
	mo.MomX = stopSpeed - 1
	mo.MomY = -(stopSpeed - 1)
	w.ApplyFriction(mo)
	assert.Zero(t, mo.MomX)
	assert.Zero(t, mo.MomY)

	// Airborne momentum is untouched.
	mo.MomX = fx(4)
	mo.Z = fx(64)
	w.ApplyFriction(mo)
	assert.Equal(t, fx(4), mo.MomX)
}

func TestWorld_ApplyTorque_PushesBodyOverLedge(t *testing.T) {
	// The east room's floor is 64 lower: a corpse whose center crosses the
	// divider hangs over the ledge and gets pushed off it.
	w := createTestWorld(t, 0, -64, Collaborators{}, Config{})

	corpse := createWalker(entity.FlagCorpse)
	corpse.Health = 0
	w.Spawn(corpse, fx(504), fx(512), OnFloorZ)
	require.True(t, w.TryMove(corpse, fx(520), fx(512), true))
	require.Equal(t, geom.Fixed(0), corpse.Z, "the west ledge still holds the body up")

	w.ApplyTorque(corpse)

	assert.Greater(t, corpse.MomX, geom.Fixed(0), "pushed toward the low side")
	assert.Zero(t, corpse.MomY, "no push along a vertical ledge")
	assert.NotZero(t, corpse.Flags&entity.FlagFalling)
	assert.Greater(t, corpse.Gear, 0)
	assert.LessOrEqual(t, corpse.Gear, entity.MaxGear)
}

func TestWorld_ApplyTorque_DampsSuddenPushes(t *testing.T) {
	w := createTestWorld(t, 0, -64, Collaborators{}, Config{})

	corpse := createWalker(entity.FlagCorpse)
	corpse.Health = 0
	w.Spawn(corpse, fx(504), fx(512), OnFloorZ)
	require.True(t, w.TryMove(corpse, fx(520), fx(512), true))

	w.ApplyTorque(corpse)

	speed := geom.FixedMul(corpse.MomX, corpse.MomX) +
		geom.FixedMul(corpse.MomY, corpse.MomY)
	assert.LessOrEqual(t, speed, 4*geom.FracUnit, "first push is damped")
}

func TestWorld_ApplyTorque_IdleBodyResetsGear(t *testing.T) {
	w := createTestWorld(t, 0, 0, Collaborators{}, Config{})

	corpse := createWalker(entity.FlagCorpse)
	corpse.Health = 0
	corpse.Gear = 10
	w.Spawn(corpse, fx(256), fx(512), OnFloorZ)

	w.ApplyTorque(corpse)

	assert.Zero(t, corpse.Flags&entity.FlagFalling)
	assert.Zero(t, corpse.Gear)
	assert.Zero(t, corpse.MomX)
	assert.Zero(t, corpse.MomY)
}

func TestWorld_ZMovement(t *testing.T) {
	w := createTestWorld(t, 0, 0, Collaborators{}, Config{})

	mo := createWalker(0)
	w.Spawn(mo, fx(256), fx(512), fx(64))

	// Gravity ramps up while falling.
	w.ZMovement(mo)
	assert.Equal(t, -Gravity, mo.MomZ)
	w.ZMovement(mo)
	assert.Equal(t, -2*Gravity, mo.MomZ)
	assert.Equal(t, fx(64)-Gravity, mo.Z)

	// Landing clamps to the floor and kills downward momentum.
	mo.Z = fx(1)
	mo.MomZ = -fx(8)
	w.ZMovement(mo)
	assert.Equal(t, geom.Fixed(0), mo.Z)
	assert.Zero(t, mo.MomZ)

	// The ceiling stops upward movement the same way.
	mo.Z = fx(190)
	mo.MomZ = fx(16)
	w.ZMovement(mo)
	assert.Equal(t, fx(256)-mo.Height, mo.Z)
	assert.Zero(t, mo.MomZ)
}

func TestWorld_ZMovement_NoGravityHovers(t *testing.T) {
	w := createTestWorld(t, 0, 0, Collaborators{}, Config{})

	mo := createWalker(entity.FlagNoGravity)
	w.Spawn(mo, fx(256), fx(512), fx(64))

	w.ZMovement(mo)
	assert.Equal(t, fx(64), mo.Z)
	assert.Zero(t, mo.MomZ)
}

func TestWorld_CheckOnEntity(t *testing.T) {
	w := createTestWorld(t, 0, 0, Collaborators{}, Config{})

	base := createWalker(0)
	w.Spawn(base, fx(256), fx(512), OnFloorZ)

	faller := createWalker(0)
	w.Spawn(faller, fx(256), fx(512), fx(60))
	faller.MomZ = -fx(8)

	assert.Same(t, base, w.CheckOnEntity(faller))

	// The probe leaves the faller untouched.
	assert.Equal(t, fx(60), faller.Z)
	assert.Equal(t, -fx(8), faller.MomZ)

	// Too high to land this tick.
	faller.MomZ = -fx(1)
	assert.Nil(t, w.CheckOnEntity(faller))

	// Corpses and pickups are not platforms.
	base.Flags |= entity.FlagCorpse
	faller.MomZ = -fx(8)
	assert.Nil(t, w.CheckOnEntity(faller))
}

func TestWorld_IsInLiquid(t *testing.T) {
	def := createTwoRoomDef(
		entity.RegionDef{Floor: 0, Ceiling: 256, Terrain: entity.TerrainLiquid},
		entity.RegionDef{Floor: 0, Ceiling: 256},
		0)
	w := createTestWorldDef(t, def, Collaborators{}, Config{})

	wader := createWalker(0)
	w.Spawn(wader, fx(256), fx(512), OnFloorZ)
	assert.True(t, w.IsInLiquid(wader))

	// Straddling the shoreline counts as dry for movers.
	require.True(t, w.TryMove(wader, fx(500), fx(512), false))
	assert.False(t, w.IsInLiquid(wader))

	// Decorations only look under their origin.
	barrel := &entity.Entity{Radius: fx(12), Height: fx(32), Flags: entity.FlagSolid}
	w.Spawn(barrel, fx(500), fx(256), OnFloorZ)
	assert.True(t, w.IsInLiquid(barrel))
}

func TestWorld_TickNudges(t *testing.T) {
	w := createTestWorld(t, 0, 0, Collaborators{}, Config{})

	mo := createWalker(0)
	w.Spawn(mo, fx(256), fx(512), OnFloorZ)
	mo.Nudge = 2

	w.TickNudges()
	assert.Equal(t, 1, mo.Nudge)
	w.TickNudges()
	w.TickNudges()
	assert.Equal(t, 0, mo.Nudge, "cooldown never goes negative")
}
