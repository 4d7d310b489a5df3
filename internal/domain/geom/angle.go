package geom

import "math"

// Angle is a binary angle: the full 32-bit range covers one turn, so
// wraparound comes for free with unsigned arithmetic.
type Angle uint32

const (
	Ang45  Angle = 0x20000000
	Ang90  Angle = 0x40000000
	Ang180 Angle = 0x80000000
	Ang270 Angle = 0xc0000000

	// FineAngles is the resolution of the sine/cosine tables.
	FineAngles       = 8192
	AngleToFineShift = 19

	slopeRange = 2048
	slopeBits  = 11
	dBits      = FracBits - slopeBits
)

// Trig tables, filled in at startup. finesine holds 1.25 turns so the
// cosine lookup is a simple offset.
var (
	finesine   [FineAngles + FineAngles/4]Fixed
	tantoangle [slopeRange + 1]Angle
)

func init() {
	for i := range finesine {
		finesine[i] = Fixed(math.Round(float64(FracUnit) * math.Sin((float64(i)+0.5)*2*math.Pi/FineAngles)))
	}
	for i := range tantoangle {
		tantoangle[i] = Angle(math.Round(math.Atan(float64(i)/slopeRange) / (2 * math.Pi) * 4294967296))
	}
}

// Sin returns the fixed-point sine of a.
func Sin(a Angle) Fixed {
	return finesine[a>>AngleToFineShift]
}

// Cos returns the fixed-point cosine of a.
func Cos(a Angle) Fixed {
	return finesine[(a+Ang90)>>AngleToFineShift]
}

// TanAngle maps a fixed-point tangent in [0, 1] to the angle in [0, 45°].
func TanAngle(t Fixed) Angle {
	i := t >> dBits
	if i < 0 {
		i = 0
	} else if i > slopeRange {
		i = slopeRange
	}
	return tantoangle[i]
}

// slopeDiv is the table index for the tangent num/den, num <= den.
func slopeDiv(num, den uint32) int {
	if den < 512 {
		return slopeRange
	}
	ans := (num << 3) / (den >> 8)
	if ans > slopeRange {
		return slopeRange
	}
	return int(ans)
}

// PointToAngle2 returns the angle of the vector from (x1, y1) to (x2, y2).
func PointToAngle2(x1, y1, x2, y2 Fixed) Angle {
	x := x2 - x1
	y := y2 - y1
	if x == 0 && y == 0 {
		return 0
	}
	if x >= 0 {
		if y >= 0 {
			if x > y {
				return tantoangle[slopeDiv(uint32(y), uint32(x))]
			}
			return Ang90 - 1 - tantoangle[slopeDiv(uint32(x), uint32(y))]
		}
		y = -y
		if x > y {
			return -tantoangle[slopeDiv(uint32(y), uint32(x))]
		}
		return Ang270 + tantoangle[slopeDiv(uint32(x), uint32(y))]
	}
	x = -x
	if y >= 0 {
		if x > y {
			return Ang180 - 1 - tantoangle[slopeDiv(uint32(y), uint32(x))]
		}
		return Ang90 + tantoangle[slopeDiv(uint32(x), uint32(y))]
	}
	y = -y
	if x > y {
		return Ang180 + tantoangle[slopeDiv(uint32(y), uint32(x))]
	}
	return Ang270 - 1 - tantoangle[slopeDiv(uint32(x), uint32(y))]
}

// AngleFromDegrees converts degrees to a binary angle. Negative degrees
// wrap the usual way.
func AngleFromDegrees(deg float64) Angle {
	return Angle(int64(math.Round(deg / 360 * 4294967296)))
}
