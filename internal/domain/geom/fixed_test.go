package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixed_Conversions(t *testing.T) {
	assert.Equal(t, FracUnit, FixedFromInt(1))
	assert.Equal(t, 128, FixedFromInt(128).Int())
	assert.Equal(t, -64, FixedFromInt(-64).Int())
	assert.InDelta(t, 2.5, (FixedFromInt(5) / 2).Float(), 1e-9)
}

func TestFixedMul(t *testing.T) {
	tests := []struct {
		name string
		a, b Fixed
		want Fixed
	}{
		{name: "whole units", a: FixedFromInt(3), b: FixedFromInt(2), want: FixedFromInt(6)},
		{name: "fractions", a: FracUnit / 2, b: FracUnit / 2, want: FracUnit / 4},
		{name: "negative", a: FixedFromInt(-3), b: FixedFromInt(2), want: FixedFromInt(-6)},
		{name: "by zero", a: FixedFromInt(100), b: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FixedMul(tt.a, tt.b))
		})
	}
}

func TestFixedDiv(t *testing.T) {
	assert.Equal(t, FixedFromInt(3), FixedDiv(FixedFromInt(6), FixedFromInt(2)))
	assert.Equal(t, FracUnit/2, FixedDiv(FixedFromInt(2), FixedFromInt(4)))

	// Quotients out of range saturate instead of overflowing.
	assert.Equal(t, FixedMax, FixedDiv(FixedMax, 1))
	assert.Equal(t, FixedMin, FixedDiv(FixedMax, -1))
	assert.Equal(t, FixedMin, FixedDiv(FixedMin, 1))
}

func TestApproxDistance(t *testing.T) {
	// The estimate is exact on the axes and overestimates slightly off
	// them, never by more than ~12%.
	assert.Equal(t, FixedFromInt(5), ApproxDistance(FixedFromInt(5), 0))
	assert.Equal(t, FixedFromInt(7), ApproxDistance(0, FixedFromInt(-7)))

	d := ApproxDistance(FixedFromInt(3), FixedFromInt(4))
	assert.GreaterOrEqual(t, d, FixedFromInt(5))
	assert.LessOrEqual(t, d.Float(), 5.0*1.12)

	assert.Equal(t, d, ApproxDistance(FixedFromInt(-3), FixedFromInt(-4)),
		"sign does not matter")
}

func TestBBox(t *testing.T) {
	b := BBoxAround(FixedFromInt(100), FixedFromInt(200), FixedFromInt(16))
	assert.Equal(t, FixedFromInt(84), b.Left)
	assert.Equal(t, FixedFromInt(116), b.Right)
	assert.Equal(t, FixedFromInt(184), b.Bottom)
	assert.Equal(t, FixedFromInt(216), b.Top)

	b.Add(FixedFromInt(300), FixedFromInt(150))
	assert.Equal(t, FixedFromInt(300), b.Right)
	assert.Equal(t, FixedFromInt(150), b.Bottom)

	other := BBoxAround(FixedFromInt(120), FixedFromInt(200), FixedFromInt(16))
	assert.True(t, b.Overlaps(other))

	// Boxes that merely share an edge do not overlap.
	edge := BBoxAround(FixedFromInt(316), FixedFromInt(200), FixedFromInt(16))
	assert.False(t, b.Overlaps(edge))
}
