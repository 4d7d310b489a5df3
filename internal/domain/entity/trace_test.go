package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

func TestDivline_PointOnSide(t *testing.T) {
	dl := Divline{
		X:  geom.FixedFromInt(512),
		Y:  geom.FixedFromInt(1024),
		DY: geom.FixedFromInt(-1024),
	}

	assert.Equal(t, 1, dl.PointOnSide(geom.FixedFromInt(600), geom.FixedFromInt(512)))
	assert.Equal(t, 0, dl.PointOnSide(geom.FixedFromInt(400), geom.FixedFromInt(512)))
}

func TestDivline_PointOnSide_Diagonal(t *testing.T) {
	dl := Divline{
		DX: geom.FixedFromInt(64),
		DY: geom.FixedFromInt(64),
	}

	// Mixed-sign deltas take the sign-bit shortcut; both sides must agree
	// with the full cross product.
	assert.Equal(t, 1, dl.PointOnSide(geom.FixedFromInt(-32), geom.FixedFromInt(32)))
	assert.Equal(t, 0, dl.PointOnSide(geom.FixedFromInt(32), geom.FixedFromInt(-32)))
}

func TestLevel_PathTraverse_VisitsInOrder(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	near := &Entity{Radius: geom.FixedFromInt(16), Height: geom.FixedFromInt(56)}
	near.X = geom.FixedFromInt(300)
	near.Y = geom.FixedFromInt(512)
	lvl.Add(near)

	far := &Entity{Radius: geom.FixedFromInt(16), Height: geom.FixedFromInt(56)}
	far.X = geom.FixedFromInt(800)
	far.Y = geom.FixedFromInt(512)
	lvl.Add(far)

	var order []*Intercept
	ok := lvl.PathTraverse(
		geom.FixedFromInt(100), geom.FixedFromInt(512),
		geom.FixedFromInt(1000), geom.FixedFromInt(512),
		TraverseLines|TraverseEntities,
		func(in *Intercept) bool {
			order = append(order, &Intercept{Frac: in.Frac, Line: in.Line, Thing: in.Thing})
			return true
		})
	require.True(t, ok)
	require.Len(t, order, 3, "two entities and the divider")

	// Strictly increasing fractions: near thing, divider, far thing.
	assert.Same(t, near, order[0].Thing)
	assert.NotNil(t, order[1].Line)
	assert.Equal(t, 6, order[1].Line.Index)
	assert.Same(t, far, order[2].Thing)
	assert.Less(t, order[0].Frac, order[1].Frac)
	assert.Less(t, order[1].Frac, order[2].Frac)
}

func TestLevel_PathTraverse_EarlyOut(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	visited := 0
	ok := lvl.PathTraverse(
		geom.FixedFromInt(100), geom.FixedFromInt(512),
		geom.FixedFromInt(1000), geom.FixedFromInt(512),
		TraverseLines,
		func(in *Intercept) bool {
			visited++
			return false
		})

	assert.False(t, ok, "the walk reports the visitor's stop")
	assert.Equal(t, 1, visited)
}

func TestLevel_PathTraverse_LinesOnly(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	bystander := &Entity{Radius: geom.FixedFromInt(16)}
	bystander.X = geom.FixedFromInt(300)
	bystander.Y = geom.FixedFromInt(512)
	lvl.Add(bystander)

	lvl.PathTraverse(
		geom.FixedFromInt(100), geom.FixedFromInt(512),
		geom.FixedFromInt(1000), geom.FixedFromInt(512),
		TraverseLines,
		func(in *Intercept) bool {
			assert.Nil(t, in.Thing)
			return true
		})
}

func TestLevel_PathTraverse_SetsTrace(t *testing.T) {
	lvl, err := BuildLevel(createBoxDef())
	require.NoError(t, err)

	lvl.PathTraverse(
		geom.FixedFromInt(100), geom.FixedFromInt(200),
		geom.FixedFromInt(400), geom.FixedFromInt(600),
		TraverseLines,
		func(*Intercept) bool { return true })

	// Attack code reads the trace to place impacts along the shot.
	assert.Equal(t, geom.FixedFromInt(100), lvl.Trace.X)
	assert.Equal(t, geom.FixedFromInt(300), lvl.Trace.DX)
	assert.Equal(t, geom.FixedFromInt(400), lvl.Trace.DY)
}

func TestInterceptVector(t *testing.T) {
	trace := Divline{
		X:  geom.FixedFromInt(0),
		Y:  geom.FixedFromInt(64),
		DX: geom.FixedFromInt(256),
	}
	crossing := Divline{
		X:  geom.FixedFromInt(128),
		Y:  geom.FixedFromInt(0),
		DY: geom.FixedFromInt(128),
	}

	frac := interceptVector(&trace, &crossing)
	assert.InDelta(t, 0.5, frac.Float(), 0.01)

	parallel := Divline{X: geom.FixedFromInt(0), Y: geom.FixedFromInt(32), DX: geom.FixedFromInt(256)}
	assert.Equal(t, geom.Fixed(0), interceptVector(&trace, &parallel))
}
