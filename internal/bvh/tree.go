// Package bvh is a dynamic bounding-volume tree over fattened entity AABBs.
// Nodes live in a fixed array indexed by int32; index 0 is a permanent sentinel
// so a zero link always means "none".
package bvh

import (
	"errors"
	"fmt"
	"sort"

	"physics-engine/internal/arena"
	"physics-engine/internal/geom"
)

// DefaultGrowFactor is how much a leaf's tight box is enlarged about its center.
const DefaultGrowFactor = 1.2

var (
	ErrSentinel = errors.New("bvh: sentinel node")
	ErrNotLeaf  = errors.New("bvh: node is not a leaf")
	ErrNoEntity = errors.New("bvh: leaf has no entity")
)

// Kind tags a node slot.
type Kind uint8

const (
	KindFree Kind = iota
	KindInternal
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindLeaf:
		return "leaf"
	default:
		return "free"
	}
}

// Node is one slot of the tree. Internal nodes use Left and Right; leaves use
// Entity. Box is the union of the children for internal nodes and the fat box
// for leaves.
type Node struct {
	Kind   Kind
	Parent int32
	Left   int32
	Right  int32
	Entity int32
	Box    geom.AABB

	next int32 // free list
}

// Pair is a candidate pair of entities whose fat boxes overlap. A < B.
type Pair struct {
	A, B int32
}

type candidate struct {
	node      int32
	inherited float32
}

type nodePair struct {
	a, b int32
}

// Tree is the dynamic BVH. Node storage comes from the persistent scope; the
// sibling-selection queue and the pair-query stack come from the frame scope.
type Tree struct {
	nodes      []Node
	count      int32 // slots handed out so far, including the sentinel
	free       int32
	root       int32
	leaves     int
	GrowFactor float32

	queue *arena.Buffer[candidate]
	stack *arena.Buffer[nodePair]
}

// New allocates a tree with room for maxNodes nodes (sentinel included).
func New(persistent, frame *arena.Scope, maxNodes int, growFactor float32) *Tree {
	geom.Assert(maxNodes > 1, "bvh: need room for more than the sentinel, got %d", maxNodes)
	if growFactor <= 1 {
		growFactor = DefaultGrowFactor
	}
	return &Tree{
		nodes:      arena.MakeSlice[Node](persistent, maxNodes),
		count:      1,
		GrowFactor: growFactor,
		queue:      arena.NewBuffer[candidate](frame, "bvh sibling queue", maxNodes),
		stack:      arena.NewBuffer[nodePair](frame, "bvh pair stack", 8*maxNodes+64),
	}
}

// Reset drops every node.
func (t *Tree) Reset() {
	clear(t.nodes)
	t.count = 1
	t.free = 0
	t.root = 0
	t.leaves = 0
}

// Root returns the root index, 0 for an empty tree.
func (t *Tree) Root() int32 {
	return t.root
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return t.leaves
}

// Node returns a copy of node i.
func (t *Tree) Node(i int32) Node {
	return t.nodes[i]
}

func (t *Tree) allocate() int32 {
	if t.free != 0 {
		i := t.free
		t.free = t.nodes[i].next
		t.nodes[i] = Node{}
		return i
	}
	if int(t.count) == len(t.nodes) {
		panic(fmt.Errorf("%w: bvh node pool full (%d nodes)", arena.ErrCapacityExhausted, len(t.nodes)))
	}
	i := t.count
	t.count++
	return i
}

func (t *Tree) release(i int32) {
	t.nodes[i] = Node{Kind: KindFree, next: t.free}
	t.free = i
}

// Insert adds a leaf for entity with a fat box grown from tight and returns the
// leaf index.
func (t *Tree) Insert(tight geom.AABB, entity int32) int32 {
	geom.Assert(entity != 0, "bvh: insert of the null entity")
	leaf := t.allocate()
	n := &t.nodes[leaf]
	n.Kind = KindLeaf
	n.Entity = entity
	n.Box = tight.Grow(t.GrowFactor)
	t.leaves++
	t.insertLeaf(leaf)
	return leaf
}

func (t *Tree) insertLeaf(leaf int32) {
	if t.root == 0 {
		t.root = leaf
		t.nodes[leaf].Parent = 0
		return
	}

	box := t.nodes[leaf].Box
	sibling := t.pickSibling(box)
	oldParent := t.nodes[sibling].Parent

	parent := t.allocate()
	t.nodes[parent] = Node{
		Kind:   KindInternal,
		Parent: oldParent,
		Left:   sibling,
		Right:  leaf,
		Box:    geom.Union(t.nodes[sibling].Box, box),
	}
	t.nodes[sibling].Parent = parent
	t.nodes[leaf].Parent = parent

	if oldParent == 0 {
		t.root = parent
	} else {
		t.replaceChild(oldParent, sibling, parent)
		t.refit(oldParent)
	}
}

func (t *Tree) replaceChild(parent, old, replacement int32) {
	p := &t.nodes[parent]
	switch old {
	case p.Left:
		p.Left = replacement
	case p.Right:
		p.Right = replacement
	default:
		geom.Assert(false, "bvh: node %d is not a child of %d", old, parent)
	}
}

// refit recomputes the boxes from i up to the root.
func (t *Tree) refit(i int32) {
	for i != 0 {
		n := &t.nodes[i]
		n.Box = geom.Union(t.nodes[n.Left].Box, t.nodes[n.Right].Box)
		i = n.Parent
	}
}

// pickSibling runs a best-first branch and bound over the tree. The cost of
// choosing node n is the area of union(n, box) plus the growth it causes in
// every ancestor (the inherited cost). A subtree is pruned when the new leaf's
// own area plus the inherited cost already reaches the best cost found.
func (t *Tree) pickSibling(box geom.AABB) int32 {
	area := box.SurfaceArea()
	best := t.root
	bestCost := geom.Union(t.nodes[t.root].Box, box).SurfaceArea()

	q := t.queue
	q.Reset()
	q.Push(candidate{node: t.root})
	for q.Len() > 0 {
		c := q.Pop()
		n := &t.nodes[c.node]
		union := geom.Union(n.Box, box).SurfaceArea()
		if cost := union + c.inherited; cost < bestCost {
			best = c.node
			bestCost = cost
		}
		if n.Kind != KindInternal {
			continue
		}
		inherited := c.inherited + union - n.Box.SurfaceArea()
		if area+inherited >= bestCost {
			continue
		}
		t.enqueue(candidate{node: n.Left, inherited: inherited})
		t.enqueue(candidate{node: n.Right, inherited: inherited})
	}
	q.Reset()
	return best
}

// enqueue keeps the queue sorted by descending inherited cost so Pop yields the
// cheapest candidate. Equal costs pop in insertion order.
func (t *Tree) enqueue(c candidate) {
	items := t.queue.Items()
	i := sort.Search(len(items), func(i int) bool { return items[i].inherited <= c.inherited })
	t.queue.Insert(i, 1)
	*t.queue.At(i) = c
}

// Remove deletes a leaf and its parent node.
func (t *Tree) Remove(leaf int32) error {
	if leaf == 0 {
		return ErrSentinel
	}
	if leaf < 0 || leaf >= t.count || t.nodes[leaf].Kind != KindLeaf {
		return fmt.Errorf("%w: node %d", ErrNotLeaf, leaf)
	}
	if t.nodes[leaf].Entity == 0 {
		return fmt.Errorf("%w: node %d", ErrNoEntity, leaf)
	}
	t.removeLeaf(leaf)
	t.release(leaf)
	t.leaves--
	return nil
}

// removeLeaf unlinks leaf and splices its sibling into the parent's place. The
// leaf slot itself is kept so it can be reinserted.
func (t *Tree) removeLeaf(leaf int32) {
	if leaf == t.root {
		t.root = 0
		return
	}
	parent := t.nodes[leaf].Parent
	geom.Assert(parent != 0, "bvh: leaf %d has no parent", leaf)
	p := t.nodes[parent]
	sibling := p.Left
	if sibling == leaf {
		sibling = p.Right
	}
	geom.Assert(sibling != 0 && sibling != leaf, "bvh: leaf %d has no sibling", leaf)

	if p.Parent == 0 {
		t.root = sibling
		t.nodes[sibling].Parent = 0
	} else {
		t.replaceChild(p.Parent, parent, sibling)
		t.nodes[sibling].Parent = p.Parent
		t.refit(p.Parent)
	}
	t.release(parent)
	t.nodes[leaf].Parent = 0
}

// Update reinserts every leaf whose tight box is no longer strictly inside its
// fat box and returns how many were reinserted.
func (t *Tree) Update(tightOf func(entity int32) geom.AABB) int {
	reinserted := 0
	for i := int32(1); i < t.count; i++ {
		if t.nodes[i].Kind != KindLeaf {
			continue
		}
		tight := tightOf(t.nodes[i].Entity)
		if tight.Inside(t.nodes[i].Box) {
			continue
		}
		t.removeLeaf(i)
		t.nodes[i].Box = tight.Grow(t.GrowFactor)
		t.insertLeaf(i)
		reinserted++
	}
	return reinserted
}

// QueryPairs appends every pair of leaves whose fat boxes overlap to out.
//
// Traversal starts from the root's self pair. A self pair of an internal node
// expands into its children's cross pair and both children's self pairs, so
// every leaf pair is reached exactly once through its lowest common ancestor.
// Cross pairs are only expanded while the two boxes overlap.
func (t *Tree) QueryPairs(out *arena.Buffer[Pair]) {
	if t.root == 0 || t.nodes[t.root].Kind == KindLeaf {
		return
	}
	s := t.stack
	s.Reset()
	s.Push(nodePair{t.root, t.root})
	for s.Len() > 0 {
		np := s.Pop()
		a := &t.nodes[np.a]
		if np.a == np.b {
			if a.Kind == KindInternal {
				s.Push(nodePair{a.Left, a.Right})
				s.Push(nodePair{a.Left, a.Left})
				s.Push(nodePair{a.Right, a.Right})
			}
			continue
		}
		b := &t.nodes[np.b]
		if !a.Box.Intersects(b.Box) {
			continue
		}
		switch {
		case a.Kind == KindLeaf && b.Kind == KindLeaf:
			p := Pair{a.Entity, b.Entity}
			if p.A > p.B {
				p.A, p.B = p.B, p.A
			}
			out.Push(p)
		case a.Kind == KindLeaf:
			s.Push(nodePair{np.a, b.Left})
			s.Push(nodePair{np.a, b.Right})
		case b.Kind == KindLeaf:
			s.Push(nodePair{a.Left, np.b})
			s.Push(nodePair{a.Right, np.b})
		default:
			s.Push(nodePair{a.Left, b.Left})
			s.Push(nodePair{a.Left, b.Right})
			s.Push(nodePair{a.Right, b.Left})
			s.Push(nodePair{a.Right, b.Right})
		}
	}
	s.Reset()
}

// Walk calls fn for every reachable node, parents before children.
func (t *Tree) Walk(fn func(Node)) {
	if t.root == 0 {
		return
	}
	var visit func(i int32)
	visit = func(i int32) {
		n := t.nodes[i]
		fn(n)
		if n.Kind == KindInternal {
			visit(n.Left)
			visit(n.Right)
		}
	}
	visit(t.root)
}

// Leaves maps entity to leaf index.
func (t *Tree) Leaves() map[int32]int32 {
	m := make(map[int32]int32, t.leaves)
	for i := int32(1); i < t.count; i++ {
		if t.nodes[i].Kind == KindLeaf {
			m[t.nodes[i].Entity] = i
		}
	}
	return m
}

// Cost is the summed surface area of the internal nodes, the quantity the
// sibling selection keeps small.
func (t *Tree) Cost() float32 {
	var cost float32
	t.Walk(func(n Node) {
		if n.Kind == KindInternal {
			cost += n.Box.SurfaceArea()
		}
	})
	return cost
}

// Height returns the number of levels below the root, 0 for an empty tree.
func (t *Tree) Height() int {
	var height func(i int32) int
	height = func(i int32) int {
		n := t.nodes[i]
		if n.Kind != KindInternal {
			return 1
		}
		return 1 + max(height(n.Left), height(n.Right))
	}
	if t.root == 0 {
		return 0
	}
	return height(t.root)
}

// Validate checks the structural invariants: parent links, internal boxes equal
// to the union of their children, one leaf per entity and a free list that
// accounts for every other slot.
func (t *Tree) Validate() error {
	reachable := 0
	entities := make(map[int32]bool, t.leaves)
	if t.root != 0 && t.nodes[t.root].Parent != 0 {
		return fmt.Errorf("bvh: root %d has parent %d", t.root, t.nodes[t.root].Parent)
	}
	var check func(i int32) error
	check = func(i int32) error {
		reachable++
		n := t.nodes[i]
		switch n.Kind {
		case KindLeaf:
			if n.Entity == 0 {
				return fmt.Errorf("bvh: leaf %d: %w", i, ErrNoEntity)
			}
			if entities[n.Entity] {
				return fmt.Errorf("bvh: entity %d has more than one leaf", n.Entity)
			}
			entities[n.Entity] = true
			return nil
		case KindInternal:
			for _, c := range [2]int32{n.Left, n.Right} {
				if c == 0 {
					return fmt.Errorf("bvh: internal node %d has a null child", i)
				}
				if t.nodes[c].Parent != i {
					return fmt.Errorf("bvh: node %d parent is %d, want %d", c, t.nodes[c].Parent, i)
				}
			}
			if want := geom.Union(t.nodes[n.Left].Box, t.nodes[n.Right].Box); n.Box != want {
				return fmt.Errorf("bvh: node %d box %v, want union %v", i, n.Box, want)
			}
			if err := check(n.Left); err != nil {
				return err
			}
			return check(n.Right)
		default:
			return fmt.Errorf("bvh: free node %d is reachable", i)
		}
	}
	if t.root != 0 {
		if err := check(t.root); err != nil {
			return err
		}
	}
	if len(entities) != t.leaves {
		return fmt.Errorf("bvh: %d reachable leaves, want %d", len(entities), t.leaves)
	}

	free := 0
	for i := t.free; i != 0; i = t.nodes[i].next {
		if t.nodes[i].Kind != KindFree {
			return fmt.Errorf("bvh: free list node %d is %v", i, t.nodes[i].Kind)
		}
		free++
		if free > len(t.nodes) {
			return errors.New("bvh: free list cycle")
		}
	}
	if reachable+free != int(t.count)-1 {
		return fmt.Errorf("bvh: %d reachable + %d free nodes, want %d", reachable, free, t.count-1)
	}
	return nil
}
