package main

import (
	"embed"
	"flag"
	"fmt"
	"image/color"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/WindowxDeveloper/doomretro/internal/application/replay"
	"github.com/WindowxDeveloper/doomretro/internal/application/state"
	"github.com/WindowxDeveloper/doomretro/internal/application/system"
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
	"github.com/WindowxDeveloper/doomretro/internal/infrastructure/config"
)

//go:embed assets
var assetFS embed.FS

const (
	screenW   = 512
	screenH   = 512
	viewScale = 0.25

	walkAccel  = 2 * geom.FracUnit
	turnSpeed  = 3 // degrees per tick
	shotDamage = 10
)

// Colors for rendering
var (
	colorBG      = color.RGBA{26, 26, 46, 255}
	colorWall    = color.RGBA{200, 200, 210, 255}
	colorTwoSide = color.RGBA{90, 90, 120, 255}
	colorLiquid  = color.RGBA{60, 90, 160, 255}
	colorPlayer  = color.RGBA{100, 200, 100, 255}
	colorMonster = color.RGBA{200, 100, 100, 255}
	colorCorpse  = color.RGBA{120, 60, 60, 255}
	colorItem    = color.RGBA{255, 215, 0, 255}
	colorPuff    = color.RGBA{200, 200, 200, 255}
	colorBlood   = color.RGBA{200, 40, 40, 255}
)

// particle is a short-lived impact marker.
type particle struct {
	x, y geom.Fixed
	kind system.EffectKind
	ttl  int
}

// Game implements the ebiten.Game interface around the movement core.
type Game struct {
	world  *system.World
	player *entity.Entity
	logger *zap.Logger

	particles []particle

	// The inner platform region, lowered by the crush demo key.
	platform *entity.Region
	crushing bool

	// Demo recording/playback. At most one of these is set.
	recorder *replay.Recorder
	replayer *replay.Replayer
	desynced bool
}

// NewGame wires a loaded level into a playable world.
func NewGame(simCfg *config.SimulationConfig, lvlCfg *config.LevelConfig, logger *zap.Logger) (*Game, error) {
	def, err := lvlCfg.ToDef()
	if err != nil {
		return nil, err
	}
	lvl, err := entity.BuildLevel(def)
	if err != nil {
		return nil, err
	}

	g := &Game{logger: logger}

	hooks := system.Collaborators{
		Damage: func(target, _, _ *entity.Entity, amount int, _ bool) {
			target.Health -= amount
			if target.Health <= 0 && target.Flags&entity.FlagShootable != 0 {
				target.Flags &^= entity.FlagShootable | entity.FlagSolid
				target.Flags |= entity.FlagCorpse | entity.FlagDropoff | entity.FlagCrushable
				target.Height /= 4
			}
		},
		SpawnEffect: func(kind system.EffectKind, x, y, _ geom.Fixed, _ geom.Angle) {
			g.particles = append(g.particles, particle{x: x, y: y, kind: kind, ttl: 30})
		},
		PlaySound: func(_ *entity.Entity, sound system.SoundID) {
			logger.Debug("sound", zap.Int("id", int(sound)))
		},
		UseSpecial: func(line *entity.Line, side int, _ *entity.Entity) {
			logger.Info("used line", zap.Int("line", line.Index), zap.Int("side", side))
		},
		CrossSpecial: func(line *entity.Line, side int, _ *entity.Entity) {
			logger.Info("crossed line", zap.Int("line", line.Index), zap.Int("side", side))
		},
		TouchItem: func(item, _ *entity.Entity) {
			g.world.Remove(item)
			logger.Info("picked up item")
		},
	}

	g.world = system.NewWorld(lvl, system.Config{
		InfiniteHeight:    simCfg.InfiniteHeight,
		SpeciesInfighting: simCfg.SpeciesInfighting,
		TelefragAll:       simCfg.TelefragAll,
		CorpseNudge:       simCfg.CorpseNudge,
		Seed:              simCfg.Seed,
	}, hooks, logger)

	for i, tc := range lvlCfg.Things {
		flags, err := config.ParseFlags(tc.Flags)
		if err != nil {
			return nil, fmt.Errorf("thing %d: %w", i, err)
		}
		e := &entity.Entity{
			Angle:  geom.AngleFromDegrees(tc.Angle),
			Radius: geom.FixedFromInt(tc.Radius),
			Height: geom.FixedFromInt(tc.Height),
			Health: tc.Health,
			Flags:  flags,
		}
		if tc.Player {
			e.Player = &entity.Player{Mo: e}
			g.player = e
		}
		g.world.Spawn(e, geom.FixedFromInt(tc.X), geom.FixedFromInt(tc.Y), system.OnFloorZ)
	}
	if g.player == nil {
		return nil, fmt.Errorf("level %s has no player start", lvlCfg.Name)
	}

	if len(lvl.Regions) > 1 {
		g.platform = lvl.Regions[1]
	}

	return g, nil
}

// readInput samples the keyboard into a tick input.
func readInput() replay.Input {
	return replay.Input{
		TurnLeft:    ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyQ),
		TurnRight:   ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyE),
		Forward:     ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp),
		Backward:    ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown),
		StrafeLeft:  ebiten.IsKeyPressed(ebiten.KeyA),
		StrafeRight: ebiten.IsKeyPressed(ebiten.KeyD),
		Fire:        inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Use:         inpututil.IsKeyJustPressed(ebiten.KeyF),
		Blast:       inpututil.IsKeyJustPressed(ebiten.KeyG),
		Warp:        inpututil.IsKeyJustPressed(ebiten.KeyT),
		Crush:       inpututil.IsKeyJustPressed(ebiten.KeyC),
	}
}

// Update advances the simulation one tick.
func (g *Game) Update() error {
	var in replay.Input
	if g.replayer != nil {
		in, _ = g.replayer.NextInput() // idle once the demo runs out
	} else {
		in = readInput()
	}

	g.step(in)

	digest := state.Digest(g.world.Level(), g.world.Time())
	if g.recorder != nil {
		g.recorder.RecordTick(in, digest)
	}
	if g.replayer != nil && !g.desynced {
		tick := g.replayer.CurrentTick() - 1
		if ok, expected, checked := g.replayer.CheckDigest(tick, digest); checked && !ok {
			g.desynced = true
			g.logger.Warn("demo playback diverged",
				zap.Int("tick", tick),
				zap.Uint64("expected", expected),
				zap.Uint64("got", digest))
		}
	}

	return nil
}

// step runs one tick of the simulation from the given input. Everything the
// world does downstream of here must depend only on the input, so recorded
// demos replay tick-exact.
func (g *Game) step(in replay.Input) {
	p := g.player

	if in.TurnLeft {
		p.Angle += geom.AngleFromDegrees(turnSpeed)
	}
	if in.TurnRight {
		p.Angle -= geom.AngleFromDegrees(turnSpeed)
	}

	moveFactor, _ := g.world.MoveFactor(p)
	accel := geom.FixedMul(walkAccel, moveFactor) * 32
	if in.Forward {
		p.MomX += geom.FixedMul(accel, geom.Cos(p.Angle))
		p.MomY += geom.FixedMul(accel, geom.Sin(p.Angle))
	}
	if in.Backward {
		p.MomX -= geom.FixedMul(accel, geom.Cos(p.Angle))
		p.MomY -= geom.FixedMul(accel, geom.Sin(p.Angle))
	}
	if in.StrafeLeft {
		p.MomX += geom.FixedMul(accel, geom.Cos(p.Angle+geom.Ang90))
		p.MomY += geom.FixedMul(accel, geom.Sin(p.Angle+geom.Ang90))
	}
	if in.StrafeRight {
		p.MomX += geom.FixedMul(accel, geom.Cos(p.Angle-geom.Ang90))
		p.MomY += geom.FixedMul(accel, geom.Sin(p.Angle-geom.Ang90))
	}

	if in.Fire {
		slope := g.world.AimLineAttack(p, p.Angle, system.MissileRange, 0)
		g.world.LineAttack(p, p.Angle, system.MissileRange, slope, shotDamage)
	}
	if in.Use {
		g.world.UseLines(p)
	}
	if in.Blast {
		g.world.RadiusAttack(p, p, 128, true)
	}
	if in.Warp {
		g.world.TeleportMove(p, 0, 0, p.Z, false)
	}
	if in.Crush {
		g.crushing = !g.crushing
	}

	// Crush demo: grind the platform ceiling down and back up.
	if g.platform != nil {
		if g.crushing && g.platform.CeilingHeight > g.platform.FloorHeight+geom.FixedFromInt(16) {
			g.platform.SetCeilingHeight(g.platform.CeilingHeight - geom.FracUnit)
			g.world.ChangeRegionHeight(g.platform, true)
		} else if !g.crushing && g.platform.CeilingHeight < geom.FixedFromInt(128) {
			g.platform.SetCeilingHeight(g.platform.CeilingHeight + geom.FracUnit)
			g.world.ChangeRegionHeight(g.platform, false)
		}
	}

	// Move everything that carries momentum.
	for _, e := range g.world.Level().Entities {
		if e.MomX == 0 && e.MomY == 0 && e.MomZ == 0 {
			if e.Flags&entity.FlagCorpse != 0 && e.Z == e.FloorZ {
				g.world.ApplyTorque(e)
			}
			continue
		}
		e.MomX = min(max(e.MomX, -system.MaxMove), system.MaxMove)
		e.MomY = min(max(e.MomY, -system.MaxMove), system.MaxMove)
		if !g.world.TryMove(e, e.X+e.MomX, e.Y+e.MomY, false) {
			g.world.SlideMove(e)
		}
		g.world.ZMovement(e)
		g.world.ApplyFriction(e)
	}

	g.world.TickNudges()
	g.world.Tick()

	live := g.particles[:0]
	for _, pt := range g.particles {
		pt.ttl--
		if pt.ttl > 0 {
			live = append(live, pt)
		}
	}
	g.particles = live
}

func worldToScreen(x, y geom.Fixed) (float64, float64) {
	return screenW/2 + x.Float()*viewScale, screenH/2 - y.Float()*viewScale
}

// Draw renders a top-down wireframe of the level and its population.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	for _, ld := range g.world.Level().Lines {
		x1, y1 := worldToScreen(ld.V1.X, ld.V1.Y)
		x2, y2 := worldToScreen(ld.V2.X, ld.V2.Y)
		c := colorWall
		if ld.Back != nil {
			c = colorTwoSide
			if ld.Back.Terrain == entity.TerrainLiquid || ld.Front.Terrain == entity.TerrainLiquid {
				c = colorLiquid
			}
		}
		ebitenutil.DrawLine(screen, x1, y1, x2, y2, c)
	}

	for _, e := range g.world.Level().Entities {
		sx, sy := worldToScreen(e.X, e.Y)
		r := e.Radius.Float() * viewScale
		if r < 2 {
			r = 2
		}
		c := colorMonster
		switch {
		case e == g.player:
			c = colorPlayer
		case e.Flags&entity.FlagCorpse != 0:
			c = colorCorpse
		case e.Flags&entity.FlagSpecial != 0:
			c = colorItem
		}
		ebitenutil.DrawRect(screen, sx-r, sy-r, 2*r, 2*r, c)

		if e == g.player {
			fx := sx + 12*geom.Cos(e.Angle).Float()
			fy := sy - 12*geom.Sin(e.Angle).Float()
			ebitenutil.DrawLine(screen, sx, sy, fx, fy, colorPlayer)
		}
	}

	for _, pt := range g.particles {
		sx, sy := worldToScreen(pt.x, pt.y)
		c := colorPuff
		if pt.kind != system.EffectPuff {
			c = colorBlood
		}
		ebitenutil.DrawRect(screen, sx-1, sy-1, 2, 2, c)
	}

	mode := ""
	switch {
	case g.desynced:
		mode = "  [DEMO DESYNC]"
	case g.replayer != nil:
		mode = fmt.Sprintf("  [DEMO %d/%d]", g.replayer.CurrentTick(), g.replayer.TotalTicks())
	case g.recorder != nil:
		mode = fmt.Sprintf("  [REC %d]", g.recorder.TickCount())
	}

	digest := state.Digest(g.world.Level(), g.world.Time())
	msg := fmt.Sprintf(
		"tick %d  digest %016x%s\npos (%.1f %.1f %.1f)  floor %.1f\nWASD move  QE turn  Space shoot  F use  G blast  T teleport  C crush",
		g.world.Time(), digest, mode,
		g.player.X.Float(), g.player.Y.Float(), g.player.Z.Float(),
		g.player.FloorZ.Float())
	ebitenutil.DebugPrint(screen, msg)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

func main() {
	levelFlag := flag.String("level", "arena", "level name to load")
	recordFlag := flag.String("record", "", "record a demo to this file")
	playFlag := flag.String("play", "", "play back a demo from this file")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	fsys, err := fs.Sub(assetFS, "assets")
	if err != nil {
		log.Fatalf("Failed to get asset subfs: %v", err)
	}
	loader := config.NewFSLoader(fsys)

	simCfg, err := loader.LoadSimulation()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := *levelFlag
	var demo *replay.DemoData
	if *playFlag != "" {
		demo, err = replay.LoadDemo(*playFlag)
		if err != nil {
			log.Fatalf("Failed to load demo: %v", err)
		}
		// The demo dictates the world it was recorded in.
		level = demo.Level
		simCfg.Seed = demo.Seed
	}

	lvlCfg, err := loader.LoadLevel(level)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	game, err := NewGame(simCfg, lvlCfg, logger)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}
	switch {
	case demo != nil:
		game.replayer = replay.NewReplayer(*demo)
	case *recordFlag != "":
		game.recorder = replay.NewRecorder(simCfg.Seed, level)
	}

	ebiten.SetWindowSize(screenW*2, screenH*2)
	ebiten.SetWindowTitle("Movement Core Viewer")
	ebiten.SetTPS(35)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}

	if game.recorder != nil {
		if err := game.recorder.Save(*recordFlag); err != nil {
			log.Fatalf("Failed to save demo: %v", err)
		}
		logger.Info("demo saved",
			zap.String("file", *recordFlag),
			zap.Int("ticks", game.recorder.TickCount()))
	}
}
