package physics

import (
	"fmt"

	"physics-engine/internal/arena"
	"physics-engine/internal/collide"
)

// Arbiter keeps the contact manifold of one body pair across ticks. A == 0
// marks an empty link that can be claimed by another pair.
type Arbiter struct {
	A, B       Handle // A < B
	Manifold   collide.Manifold
	WasUpdated bool
	Next       *Arbiter
}

// Live reports whether the arbiter belongs to a pair.
func (a *Arbiter) Live() bool {
	return a.A != 0
}

// Merge replaces the manifold with m. Points whose feature ID matches a point of
// the previous manifold inherit its accumulated impulses scaled by warmStart.
// It returns how many points were carried over and how many are new.
func (a *Arbiter) Merge(m *collide.Manifold, warmStart float32) (reused, fresh int) {
	for i := range m.Contacts() {
		p := &m.Points[i]
		p.ClearImpulses()
		found := false
		for _, old := range a.Manifold.Contacts() {
			if old.ID != p.ID {
				continue
			}
			p.NormalImpulse = old.NormalImpulse * warmStart
			p.FrictionImpulse = old.FrictionImpulse * warmStart
			p.TangentImpulse = old.TangentImpulse * warmStart
			p.BiasImpulse = old.BiasImpulse * warmStart
			found = true
			break
		}
		if found {
			reused++
		} else {
			fresh++
		}
	}
	a.Manifold = *m
	a.WasUpdated = true
	return reused, fresh
}

func (a *Arbiter) clear() {
	next := a.Next
	*a = Arbiter{Next: next}
}

// ArbiterTable is a chained hash of arbiters keyed by the unordered body pair.
// Heads live inline in the table; overflow links come from a fixed pool.
type ArbiterTable struct {
	slots []Arbiter
	pool  []Arbiter
	used  int
}

// NewArbiterTable allocates capacity heads (a power of two) and maxLinks
// overflow links from s.
func NewArbiterTable(s *arena.Scope, capacity, maxLinks int) *ArbiterTable {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic(fmt.Sprintf("physics: arbiter capacity %d is not a power of two", capacity))
	}
	return &ArbiterTable{
		slots: arena.MakeSlice[Arbiter](s, capacity),
		pool:  arena.MakeSlice[Arbiter](s, maxLinks),
	}
}

func order(a, b Handle) (Handle, Handle) {
	if a > b {
		return b, a
	}
	return a, b
}

func (t *ArbiterTable) head(a, b Handle) *Arbiter {
	return &t.slots[int(53*a+97*b)&(len(t.slots)-1)]
}

// Find returns the live arbiter of (a, b) or nil.
func (t *ArbiterTable) Find(a, b Handle) *Arbiter {
	a, b = order(a, b)
	for arb := t.head(a, b); arb != nil; arb = arb.Next {
		if arb.A == a && arb.B == b {
			return arb
		}
	}
	return nil
}

// Acquire returns the arbiter of (a, b), creating it when missing. The whole
// chain is searched for a live match before an empty link is reused.
func (t *ArbiterTable) Acquire(a, b Handle) *Arbiter {
	a, b = order(a, b)
	if arb := t.Find(a, b); arb != nil {
		return arb
	}
	arb := t.head(a, b)
	for {
		if !arb.Live() {
			arb.clear()
			arb.A, arb.B = a, b
			return arb
		}
		if arb.Next == nil {
			break
		}
		arb = arb.Next
	}
	if t.used == len(t.pool) {
		panic(fmt.Errorf("%w: arbiter links (%d)", arena.ErrCapacityExhausted, len(t.pool)))
	}
	link := &t.pool[t.used]
	t.used++
	*link = Arbiter{A: a, B: b}
	arb.Next = link
	return link
}

// Sweep clears every live arbiter that was not updated since the previous
// sweep and resets the update flags. Chain links stay in place for reuse.
func (t *ArbiterTable) Sweep() (cleared int) {
	t.each(func(arb *Arbiter) {
		if !arb.Live() {
			return
		}
		if !arb.WasUpdated {
			arb.clear()
			cleared++
			return
		}
		arb.WasUpdated = false
	})
	return cleared
}

// Reset empties the table and returns every link to the pool.
func (t *ArbiterTable) Reset() {
	clear(t.slots)
	clear(t.pool[:t.used])
	t.used = 0
}

// Len returns the number of live arbiters.
func (t *ArbiterTable) Len() int {
	n := 0
	t.ForEach(func(*Arbiter) { n++ })
	return n
}

// Links returns how many overflow links are in use.
func (t *ArbiterTable) Links() int {
	return t.used
}

// ForEach calls fn for every live arbiter in table order.
func (t *ArbiterTable) ForEach(fn func(*Arbiter)) {
	t.each(func(arb *Arbiter) {
		if arb.Live() {
			fn(arb)
		}
	})
}

func (t *ArbiterTable) each(fn func(*Arbiter)) {
	for i := range t.slots {
		for arb := &t.slots[i]; arb != nil; arb = arb.Next {
			fn(arb)
		}
	}
}
