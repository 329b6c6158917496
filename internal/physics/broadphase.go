package physics

import (
	"physics-engine/internal/collide"
	"physics-engine/internal/geom"
)

// reinsertBurst is the reinsert count above which a tick is logged.
const reinsertBurst = 64

// detectCollisions produces candidate pairs, runs the narrow phase on each and
// keeps the arbiters of touching pairs in discovery order. Arbiters that
// stopped touching are cleared afterwards.
func (w *World) detectCollisions() {
	switch w.settings.Broadphase {
	case BroadphaseBruteForce:
		for a := Handle(1); a < w.count; a++ {
			for b := a + 1; b < w.count; b++ {
				w.stats.CandidatePairs++
				w.narrowPhase(a, b)
			}
		}
	default:
		n := w.tree.Update(w.tightBounds)
		w.stats.Reinserts = n
		if n > reinsertBurst {
			w.log.Logf("physics: tick %d reinserted %d of %d leaves", w.ticks, n, w.tree.Len())
		}
		w.tree.QueryPairs(w.pairs)
		w.stats.CandidatePairs = w.pairs.Len()
		for _, p := range w.pairs.Items() {
			w.narrowPhase(Handle(p.A), Handle(p.B))
		}
	}
	w.arbiters.Sweep()
}

func (w *World) tightBounds(entity int32) geom.AABB {
	return w.bodies[entity].Bounds
}

func (w *World) narrowPhase(ha, hb Handle) {
	a, b := &w.bodies[ha], &w.bodies[hb]
	if a.Type == BodyStatic && b.Type == BodyStatic {
		return
	}
	w.stats.SATTests++

	var m collide.Manifold
	if !collide.Hulls(a.Shape.Hull, a.Transform(), b.Shape.Hull, b.Transform(), &m, w.scratch) {
		return
	}
	w.stats.Collisions++

	arb := w.arbiters.Acquire(ha, hb)
	reused, fresh := arb.Merge(&m, w.settings.WarmStartFactor)
	w.stats.ReusedContacts += reused
	w.stats.NewContacts += fresh
	w.colliding.Push(arb)
}
