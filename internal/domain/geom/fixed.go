package geom

import "math"

// Fixed is a 16.16 fixed-point number. All map coordinates, heights and
// momenta in the simulation use this representation so that results are
// identical across platforms.
type Fixed int32

const (
	// FracBits is the number of fractional bits in a Fixed.
	FracBits = 16
	// FracUnit is 1.0 in fixed-point.
	FracUnit Fixed = 1 << FracBits

	// FixedMax and FixedMin are the representable extremes.
	FixedMax Fixed = math.MaxInt32
	FixedMin Fixed = math.MinInt32
)

// FixedFromInt converts whole map units to fixed-point.
func FixedFromInt(i int) Fixed {
	return Fixed(i) << FracBits
}

// Int truncates a Fixed to whole map units.
func (f Fixed) Int() int {
	return int(f >> FracBits)
}

// Float converts a Fixed to a float64 map-unit value.
func (f Fixed) Float() float64 {
	return float64(f) / float64(FracUnit)
}

// FixedMul multiplies two fixed-point numbers.
func FixedMul(a, b Fixed) Fixed {
	return Fixed(int64(a) * int64(b) >> FracBits)
}

// FixedDiv divides two fixed-point numbers, saturating on overflow. The
// magnitude test runs in int64 because -FixedMin is not representable.
func FixedDiv(a, b Fixed) Fixed {
	aa := int64(a)
	if aa < 0 {
		aa = -aa
	}
	bb := int64(b)
	if bb < 0 {
		bb = -bb
	}
	if aa>>14 >= bb {
		if a^b < 0 {
			return FixedMin
		}
		return FixedMax
	}
	return Fixed((int64(a) << FracBits) / int64(b))
}

// FixedAbs returns the absolute value of a Fixed.
func FixedAbs(a Fixed) Fixed {
	if a < 0 {
		return -a
	}
	return a
}

// ApproxDistance gives a fast estimate of the length of the vector (dx, dy).
// It overestimates by at most ~12%, which is good enough for range checks.
func ApproxDistance(dx, dy Fixed) Fixed {
	dx = FixedAbs(dx)
	dy = FixedAbs(dy)
	if dx < dy {
		return dx + dy - dx>>1
	}
	return dx + dy - dy>>1
}
