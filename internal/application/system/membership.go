package system

import (
	"github.com/WindowxDeveloper/doomretro/internal/domain/entity"
	"github.com/WindowxDeveloper/doomretro/internal/domain/geom"
)

// Region-membership maintenance. Every entity keeps a thread of nodes,
// one per region its footprint overlaps; every region keeps the mirror
// thread of entities touching it. Both threads share the same pooled
// nodes, so consistency is structural: a relation exists in both lists
// or in neither.

// getNode pops a recycled node or allocates a fresh one.
func (w *World) getNode() *entity.TouchNode {
	if n := w.freeNodes; n != nil {
		w.freeNodes = n.TNext
		*n = entity.TouchNode{}
		return n
	}
	return &entity.TouchNode{}
}

// putNode returns a node to the pool.
func (w *World) putNode(n *entity.TouchNode) {
	n.Region = nil
	n.Entity = nil
	n.TNext = w.freeNodes
	w.freeNodes = n
}

// addTouch records that thing touches region, reusing an existing node
// if the relation is already on the thread. Returns the (possibly new)
// head of the entity thread.
func (w *World) addTouch(region *entity.Region, thing *entity.Entity, head *entity.TouchNode) *entity.TouchNode {
	for n := head; n != nil; n = n.TNext {
		if n.Region == region {
			n.Entity = thing // confirm the relation
			return head
		}
	}

	n := w.getNode()
	n.Region = region
	n.Entity = thing

	// Head of the entity thread.
	n.TPrev = nil
	n.TNext = head
	if head != nil {
		head.TPrev = n
	}

	// Head of the region thread.
	n.SPrev = nil
	n.SNext = region.TouchingEntities
	if region.TouchingEntities != nil {
		region.TouchingEntities.SPrev = n
	}
	region.TouchingEntities = n

	return n
}

// delTouch unthreads a node from both lists, returns it to the pool, and
// yields the next node on the entity thread. The caller owns the entity
// thread head.
func (w *World) delTouch(n *entity.TouchNode) *entity.TouchNode {
	next := n.TNext

	if n.TNext != nil {
		n.TNext.TPrev = n.TPrev
	}
	if n.TPrev != nil {
		n.TPrev.TNext = n.TNext
	}

	if n.SNext != nil {
		n.SNext.SPrev = n.SPrev
	}
	if n.SPrev != nil {
		n.SPrev.SNext = n.SNext
	} else {
		n.Region.TouchingEntities = n.SNext
	}

	w.putNode(n)
	return next
}

// releaseTouching returns an entity's whole membership thread to the
// pool, unthreading each node from its region as it goes.
func (w *World) releaseTouching(e *entity.Entity) {
	n := e.Touching
	e.Touching = nil
	for n != nil {
		n = w.delTouch(n)
	}
}

// rebuildTouching reconciles the scratch thread in touchList with the
// footprint of thing at (x, y): existing relations are confirmed, new
// ones added, stale ones pruned. The thread nodes are reused across
// rebuilds, so a stationary entity allocates nothing.
func (w *World) rebuildTouching(thing *entity.Entity, x, y geom.Fixed) {
	// Mark every current relation unconfirmed.
	for n := w.touchList; n != nil; n = n.TNext {
		n.Entity = nil
	}

	// The trial scratch doubles as the iteration state; save and restore
	// it so a rebuild inside a committed move doesn't corrupt the trial.
	savedThing := w.tmThing
	savedX := w.tmX
	savedY := w.tmY

	w.tmThing = thing
	w.tmX = x
	w.tmY = y
	w.tmBBox = geom.BBoxAround(x, y, thing.TouchRadius())

	w.lvl.NextValidCount()

	bm := w.lvl.Blockmap
	xl := bm.BlockX(w.tmBBox.Left)
	xh := bm.BlockX(w.tmBBox.Right)
	yl := bm.BlockY(w.tmBBox.Bottom)
	yh := bm.BlockY(w.tmBBox.Top)

	for bx := xl; bx <= xh; bx++ {
		for by := yl; by <= yh; by++ {
			w.lvl.BlockLines(bx, by, w.touchLine)
		}
	}

	// The region under the origin is always touched, whether or not any
	// line said so.
	origin := thing.Region
	if origin == nil {
		origin = w.lvl.RegionAt(x, y)
	}
	w.touchList = w.addTouch(origin, thing, w.touchList)

	// Prune relations that were not reconfirmed.
	n := w.touchList
	for n != nil {
		if n.Entity == nil {
			if n == w.touchList {
				w.touchList = n.TNext
			}
			n = w.delTouch(n)
		} else {
			n = n.TNext
		}
	}

	w.tmThing = savedThing
	w.tmX = savedX
	w.tmY = savedY
	if w.tmThing != nil {
		w.tmBBox = geom.BBoxAround(w.tmX, w.tmY, w.tmThing.Radius)
	}
}

// touchLine confirms or adds membership for the regions on both sides of
// a line the rebuilt footprint straddles.
func (w *World) touchLine(ld *entity.Line) bool {
	if !w.tmBBox.Overlaps(ld.BBox) {
		return true
	}
	if ld.BoxOnLineSide(w.tmBBox) != -1 {
		return true
	}

	// The footprint reaches the front side's region; the back side
	// counts too when it is a different region.
	w.touchList = w.addTouch(ld.Front, w.tmThing, w.touchList)
	if ld.Back != nil && ld.Back != ld.Front {
		w.touchList = w.addTouch(ld.Back, w.tmThing, w.touchList)
	}
	return true
}
