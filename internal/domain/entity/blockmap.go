package entity

import "github.com/WindowxDeveloper/doomretro/internal/domain/geom"

const (
	// MapBlockShift converts a fixed-point map offset to a blockmap cell.
	MapBlockShift = geom.FracBits + 7
	// BlockSize is the side length of one blockmap cell (128 map units).
	BlockSize geom.Fixed = 128 << geom.FracBits
	mapBToFrac           = MapBlockShift - geom.FracBits

	// MaxRadius is the largest entity radius the simulation supports.
	// Entities are indexed by origin cell, so queries for overlapping
	// entities must widen their search box by this much.
	MaxRadius geom.Fixed = 32 << geom.FracBits
)

type blockCell struct {
	lines []*Line
	// Head of the intrusive thread of entities whose origin is in this
	// cell.
	things *Entity
}

// Blockmap is the uniform grid over the map that accelerates line and
// entity queries to a small neighborhood of cells.
type Blockmap struct {
	OrgX, OrgY    geom.Fixed
	Width, Height int
	cells         []blockCell
}

// newBlockmap builds the grid covering the given bounds and distributes
// every line into the cells its bounding box overlaps.
func newBlockmap(bounds geom.BBox, lines []*Line) *Blockmap {
	bm := &Blockmap{
		OrgX: bounds.Left - 8*geom.FracUnit,
		OrgY: bounds.Bottom - 8*geom.FracUnit,
	}
	bm.Width = int((bounds.Right-bm.OrgX)>>MapBlockShift) + 1
	bm.Height = int((bounds.Top-bm.OrgY)>>MapBlockShift) + 1
	bm.cells = make([]blockCell, bm.Width*bm.Height)

	for _, ld := range lines {
		x1 := bm.BlockX(ld.BBox.Left)
		x2 := bm.BlockX(ld.BBox.Right)
		y1 := bm.BlockY(ld.BBox.Bottom)
		y2 := bm.BlockY(ld.BBox.Top)
		for by := y1; by <= y2; by++ {
			for bx := x1; bx <= x2; bx++ {
				c := &bm.cells[by*bm.Width+bx]
				c.lines = append(c.lines, ld)
			}
		}
	}
	return bm
}

// BlockX converts a map x coordinate to a cell column.
func (bm *Blockmap) BlockX(x geom.Fixed) int {
	return int((x - bm.OrgX) >> MapBlockShift)
}

// BlockY converts a map y coordinate to a cell row.
func (bm *Blockmap) BlockY(y geom.Fixed) int {
	return int((y - bm.OrgY) >> MapBlockShift)
}

func (bm *Blockmap) cellAt(bx, by int) *blockCell {
	if bx < 0 || by < 0 || bx >= bm.Width || by >= bm.Height {
		return nil
	}
	return &bm.cells[by*bm.Width+bx]
}

// link threads the entity into the cell containing its origin. Entities
// outside the grid are simply not indexed.
func (bm *Blockmap) link(e *Entity) {
	bx := bm.BlockX(e.X)
	by := bm.BlockY(e.Y)
	c := bm.cellAt(bx, by)
	if c == nil {
		e.blockIndex = -1
		return
	}
	e.blockIndex = by*bm.Width + bx
	e.blockPrev = nil
	e.blockNext = c.things
	if c.things != nil {
		c.things.blockPrev = e
	}
	c.things = e
}

func (bm *Blockmap) unlink(e *Entity) {
	if e.blockIndex < 0 {
		return
	}
	if e.blockNext != nil {
		e.blockNext.blockPrev = e.blockPrev
	}
	if e.blockPrev != nil {
		e.blockPrev.blockNext = e.blockNext
	} else {
		bm.cells[e.blockIndex].things = e.blockNext
	}
	// The thread pointers are left intact so a cell iterator standing on
	// this entity (a pickup removing itself mid-scan) can keep walking.
	e.blockIndex = -1
}
