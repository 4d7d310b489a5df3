package geom

// BBox is an axis-aligned bounding box in fixed-point map coordinates.
type BBox struct {
	Top, Bottom, Left, Right Fixed
}

// BBoxAround returns the square box of the given radius centered on (x, y).
func BBoxAround(x, y, radius Fixed) BBox {
	return BBox{
		Top:    y + radius,
		Bottom: y - radius,
		Left:   x - radius,
		Right:  x + radius,
	}
}

// Add grows the box to include the point (x, y).
func (b *BBox) Add(x, y Fixed) {
	if x < b.Left {
		b.Left = x
	}
	if x > b.Right {
		b.Right = x
	}
	if y < b.Bottom {
		b.Bottom = y
	}
	if y > b.Top {
		b.Top = y
	}
}

// Overlaps reports whether the two boxes intersect with positive area.
func (b BBox) Overlaps(o BBox) bool {
	return b.Right > o.Left && b.Left < o.Right && b.Top > o.Bottom && b.Bottom < o.Top
}
