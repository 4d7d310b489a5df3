package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// createBoxDef builds a 1024x1024 room split at x=512 into a west and an
// east region.
func createBoxDef() LevelDef {
	return LevelDef{
		Vertices: [][2]int{
			{0, 0}, {512, 0}, {1024, 0},
			{1024, 1024}, {512, 1024}, {0, 1024},
		},
		Regions: []RegionDef{
			{Floor: 0, Ceiling: 128},
			{Floor: 16, Ceiling: 128},
		},
		Lines: []LineDef{
			{V1: 0, V2: 5, Front: 0, Back: -1},
			{V1: 5, V2: 4, Front: 0, Back: -1},
			{V1: 4, V2: 3, Front: 1, Back: -1},
			{V1: 3, V2: 2, Front: 1, Back: -1},
			{V1: 2, V2: 1, Front: 1, Back: -1},
			{V1: 1, V2: 0, Front: 0, Back: -1},
			{V1: 4, V2: 1, Front: 0, Back: 1},
		},
	}
}

func TestBuildLevel(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	assert.Len(t, lvl.Lines, 7)
	assert.Len(t, lvl.Regions, 2)
	require.NotNil(t, lvl.Blockmap)

	divider := lvl.Lines[6]
	assert.NotZero(t, divider.Flags&LineTwoSided)
	assert.Same(t, lvl.Regions[0], divider.Front)
	assert.Same(t, lvl.Regions[1], divider.Back)
	assert.Nil(t, lvl.Lines[0].Back)
	assert.Zero(t, lvl.Lines[0].Flags&LineTwoSided)

	assert.Equal(t, geom.FixedFromInt(16), lvl.Regions[1].FloorHeight)
	assert.Equal(t, geom.FixedFromInt(16), lvl.Regions[1].InterpFloor)
}

func TestBuildLevel_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LevelDef)
		wantErr string
	}{
		{
			name:    "no regions",
			mutate:  func(d *LevelDef) { d.Regions = nil },
			wantErr: "no regions",
		},
		{
			name:    "no lines",
			mutate:  func(d *LevelDef) { d.Lines = nil },
			wantErr: "no geometry",
		},
		{
			name:    "vertex out of range",
			mutate:  func(d *LevelDef) { d.Lines[0].V2 = 99 },
			wantErr: "vertex out of range",
		},
		{
			name:    "front region out of range",
			mutate:  func(d *LevelDef) { d.Lines[0].Front = 7 },
			wantErr: "front region 7 out of range",
		},
		{
			name:    "back region out of range",
			mutate:  func(d *LevelDef) { d.Lines[6].Back = 7 },
			wantErr: "back region 7 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := createBoxDef()
			tt.mutate(&def)
			_, err := BuildLevel(def)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLevel_RegionAt(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	assert.Same(t, lvl.Regions[0], lvl.RegionAt(geom.FixedFromInt(256), geom.FixedFromInt(512)))
	assert.Same(t, lvl.Regions[1], lvl.RegionAt(geom.FixedFromInt(768), geom.FixedFromInt(512)))

	// Outside all geometry falls back to the first region.
	assert.Same(t, lvl.Regions[0], lvl.RegionAt(geom.FixedFromInt(-5000), geom.FixedFromInt(-5000)))
}

func TestLevel_AddDrop(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	e := &Entity{X: geom.FixedFromInt(256), Y: geom.FixedFromInt(512)}
	lvl.Add(e)

	assert.Contains(t, lvl.Entities, e)
	assert.Same(t, lvl.Regions[0], e.Region)

	// The entity is findable through its blockmap cell.
	found := false
	bx := lvl.Blockmap.BlockX(e.X)
	by := lvl.Blockmap.BlockY(e.Y)
	lvl.BlockThings(bx, by, func(o *Entity) bool {
		found = o == e
		return !found
	})
	assert.True(t, found)

	lvl.Drop(e)
	assert.NotContains(t, lvl.Entities, e)
	lvl.BlockThings(bx, by, func(o *Entity) bool {
		assert.NotSame(t, e, o)
		return true
	})
}

func TestLevel_Relink(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	e := &Entity{X: geom.FixedFromInt(256), Y: geom.FixedFromInt(512)}
	lvl.Add(e)

	lvl.Unlink(e)
	e.X = geom.FixedFromInt(768)
	lvl.Link(e)

	assert.Same(t, lvl.Regions[1], e.Region)
	found := false
	lvl.BlockThings(lvl.Blockmap.BlockX(e.X), lvl.Blockmap.BlockY(e.Y), func(o *Entity) bool {
		found = o == e
		return !found
	})
	assert.True(t, found)
}

func TestLevel_BlockLinesDedup(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	// The divider spans several cells; one pass must visit it only once.
	count := 0
	lvl.NextValidCount()
	for by := 0; by < lvl.Blockmap.Height; by++ {
		for bx := 0; bx < lvl.Blockmap.Width; bx++ {
			lvl.BlockLines(bx, by, func(ld *Line) bool {
				if ld.Index == 6 {
					count++
				}
				return true
			})
		}
	}
	assert.Equal(t, 1, count)

	// A new pass sees it again.
	lvl.NextValidCount()
	seen := false
	for by := 0; by < lvl.Blockmap.Height && !seen; by++ {
		for bx := 0; bx < lvl.Blockmap.Width && !seen; bx++ {
			lvl.BlockLines(bx, by, func(ld *Line) bool {
				seen = seen || ld.Index == 6
				return true
			})
		}
	}
	assert.True(t, seen)
}

func TestLevel_BlockQueriesOutOfRange(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	assert.True(t, lvl.BlockLines(-1, -1, func(*Line) bool { return false }))
	assert.True(t, lvl.BlockThings(999, 999, func(*Entity) bool { return false }))
}
