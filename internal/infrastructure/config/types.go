package config

import (
	"fmt"

	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// SimulationConfig holds the global simulation toggles.
type SimulationConfig struct {
	InfiniteHeight    bool  `json:"infiniteHeight"`
	SpeciesInfighting bool  `json:"speciesInfighting"`
	TelefragAll       bool  `json:"telefragAll"`
	CorpseNudge       bool  `json:"corpseNudge"`
	Seed              int64 `json:"seed"`
}

// LevelConfig is the root config for a level JSON file. Coordinates and
// heights are whole map units.
type LevelConfig struct {
	Name     string         `json:"name"`
	Vertices [][2]int       `json:"vertices"`
	Regions  []RegionConfig `json:"regions"`
	Lines    []LineConfig   `json:"lines"`
	Things   []ThingConfig  `json:"things"`
}

// RegionConfig describes one region.
type RegionConfig struct {
	Floor      int    `json:"floor"`
	Ceiling    int    `json:"ceiling"`
	Terrain    string `json:"terrain,omitempty"` // "solid" (default) or "liquid"
	SkyCeiling bool   `json:"skyCeiling,omitempty"`
	SkyFloor   bool   `json:"skyFloor,omitempty"`
	// Friction, when non-zero, enables custom floor friction. 0xe800 is
	// normal; lower is muddier, higher is icier.
	Friction   int `json:"friction,omitempty"`
	MoveFactor int `json:"moveFactor,omitempty"`
}

// LineConfig describes one line. Back is omitted for one-sided walls.
type LineConfig struct {
	V1            int  `json:"v1"`
	V2            int  `json:"v2"`
	Front         int  `json:"front"`
	Back          *int `json:"back,omitempty"`
	Blocking      bool `json:"blocking,omitempty"`
	BlockMonsters bool `json:"blockMonsters,omitempty"`
	PassUse       bool `json:"passUse,omitempty"`
	Special       int  `json:"special,omitempty"`
}

// ThingConfig describes one initial entity placement.
type ThingConfig struct {
	X      int      `json:"x"`
	Y      int      `json:"y"`
	Angle  float64  `json:"angle,omitempty"`
	Radius int      `json:"radius"`
	Height int      `json:"height"`
	Health int      `json:"health,omitempty"`
	Flags  []string `json:"flags,omitempty"`
	Player bool     `json:"player,omitempty"`
}

var flagNames = map[string]entity.Flag{
	"special":      entity.FlagSpecial,
	"solid":        entity.FlagSolid,
	"shootable":    entity.FlagShootable,
	"noGravity":    entity.FlagNoGravity,
	"noClip":       entity.FlagNoClip,
	"float":        entity.FlagFloat,
	"missile":      entity.FlagMissile,
	"dropped":      entity.FlagDropped,
	"corpse":       entity.FlagCorpse,
	"pickup":       entity.FlagPickup,
	"friend":       entity.FlagFriend,
	"dropoff":      entity.FlagDropoff,
	"noBlood":      entity.FlagNoBlood,
	"spawnCeiling": entity.FlagSpawnCeiling,
	"passEntity":   entity.FlagPassEntity,
	"footClip":     entity.FlagFootClip,
	"crushable":    entity.FlagCrushable,
}

// ParseFlags converts flag names to the entity bitset.
func ParseFlags(names []string) (entity.Flag, error) {
	var flags entity.Flag
	for _, name := range names {
		f, ok := flagNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown entity flag %q", name)
		}
		flags |= f
	}
	return flags, nil
}

// ToDef converts the JSON shape to the level definition the geometry
// builder consumes.
func (c *LevelConfig) ToDef() (entity.LevelDef, error) {
	def := entity.LevelDef{Vertices: c.Vertices}

	for i, rc := range c.Regions {
		rd := entity.RegionDef{
			Floor:      rc.Floor,
			Ceiling:    rc.Ceiling,
			SkyCeiling: rc.SkyCeiling,
			SkyFloor:   rc.SkyFloor,
		}
		switch rc.Terrain {
		case "", "solid":
			rd.Terrain = entity.TerrainSolid
		case "liquid":
			rd.Terrain = entity.TerrainLiquid
		default:
			return def, fmt.Errorf("region %d: unknown terrain %q", i, rc.Terrain)
		}
		if rc.Friction != 0 {
			rd.FrictionEnabled = true
			rd.Friction = geom.Fixed(rc.Friction)
			rd.MoveFactor = geom.Fixed(rc.MoveFactor)
		}
		def.Regions = append(def.Regions, rd)
	}

	for _, lc := range c.Lines {
		ld := entity.LineDef{
			V1:      lc.V1,
			V2:      lc.V2,
			Front:   lc.Front,
			Back:    -1,
			Special: lc.Special,
		}
		if lc.Back != nil {
			ld.Back = *lc.Back
		}
		if lc.Blocking {
			ld.Flags |= entity.LineBlocking
		}
		if lc.BlockMonsters {
			ld.Flags |= entity.LineBlockMonsters
		}
		if lc.PassUse {
			ld.Flags |= entity.LinePassUse
		}
		def.Lines = append(def.Lines, ld)
	}

	return def, nil
}
